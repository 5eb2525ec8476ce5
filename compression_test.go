package ktx2

import "testing"

func TestDefaultCompressionParams(t *testing.T) {
	p := DefaultCompressionParams()

	if p.UASTC {
		t.Error("UASTC = true, want ETC1S default")
	}
	if p.ThreadCount != 1 {
		t.Errorf("ThreadCount = %d, want 1", p.ThreadCount)
	}
	if p.CompressionLevel != DefaultETC1SCompressionLevel {
		t.Errorf("CompressionLevel = %d, want %d", p.CompressionLevel, DefaultETC1SCompressionLevel)
	}
	if p.QualityLevel != 128 {
		t.Errorf("QualityLevel = %d, want 128", p.QualityLevel)
	}
	if p.UASTCRDOQualityScalar != 1.0 {
		t.Errorf("UASTCRDOQualityScalar = %v, want 1.0", p.UASTCRDOQualityScalar)
	}
	if p.UASTCRDODictSize != 4096 {
		t.Errorf("UASTCRDODictSize = %d, want 4096", p.UASTCRDODictSize)
	}
	if p.InputSwizzle != [4]uint8{0, 1, 2, 3} {
		t.Errorf("InputSwizzle = %v, want identity", p.InputSwizzle)
	}
}

func TestCompressionParamsBuilder(t *testing.T) {
	p := NewCompressionParams().
		UASTC(true).
		ThreadCount(8).
		CompressionLevel(4).
		QualityLevel(3).
		MaxEndpoints(16128).
		EndpointRDOThreshold(1.25).
		MaxSelectors(16128).
		SelectorRDOThreshold(1.5).
		NormalMap(true).
		SeparateRGToColorAlpha(true).
		PreSwizzle(true).
		NoEndpointRDO(true).
		NoSelectorRDO(true).
		UASTCFlags(2).
		UASTCRDO(true).
		UASTCRDOQualityScalar(2.5).
		UASTCRDODictSize(8192).
		InputSwizzle([4]uint8{2, 1, 0, 3}).
		Build()

	want := CompressionParams{
		UASTC:                  true,
		ThreadCount:            8,
		CompressionLevel:       4,
		QualityLevel:           3,
		MaxEndpoints:           16128,
		EndpointRDOThreshold:   1.25,
		MaxSelectors:           16128,
		SelectorRDOThreshold:   1.5,
		NormalMap:              true,
		SeparateRGToColorAlpha: true,
		PreSwizzle:             true,
		NoEndpointRDO:          true,
		NoSelectorRDO:          true,
		UASTCFlags:             2,
		UASTCRDO:               true,
		UASTCRDOQualityScalar:  2.5,
		UASTCRDODictSize:       8192,
		InputSwizzle:           [4]uint8{2, 1, 0, 3},
	}
	if p != want {
		t.Errorf("built params = %+v\nwant %+v", p, want)
	}
}

func TestBuilderStartsFromDefaults(t *testing.T) {
	p := NewCompressionParams().QualityLevel(200).Build()

	if p.QualityLevel != 200 {
		t.Errorf("QualityLevel = %d, want 200", p.QualityLevel)
	}
	if p.ThreadCount != 1 || p.CompressionLevel != DefaultETC1SCompressionLevel {
		t.Error("unset fields do not carry the defaults")
	}
}

func TestBuildReturnsValue(t *testing.T) {
	b := NewCompressionParams()
	first := b.Build()
	b.QualityLevel(5)
	second := b.Build()

	if first.QualityLevel != 128 {
		t.Errorf("earlier Build result changed: QualityLevel = %d", first.QualityLevel)
	}
	if second.QualityLevel != 5 {
		t.Errorf("later Build missed the update: QualityLevel = %d", second.QualityLevel)
	}
}
