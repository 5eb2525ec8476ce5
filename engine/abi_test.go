package engine

import (
	"encoding/binary"
	"math"
	"testing"

	ktx2 "github.com/wippyai/ktx2-wasm"
)

func TestMarshalCreateInfoLayout(t *testing.T) {
	info := ktx2.CreateInfo{
		PixelFormat:     37, // VK_FORMAT_R8G8B8A8_UNORM
		BaseWidth:       256,
		BaseHeight:      128,
		BaseDepth:       1,
		NumDimensions:   2,
		NumLevels:       9,
		NumLayers:       6,
		NumFaces:        1,
		IsArray:         true,
		GenerateMipmaps: false,
	}

	buf := marshalCreateInfo(info)
	if len(buf) != createInfoSize {
		t.Fatalf("size = %d, want %d", len(buf), createInfoSize)
	}

	le := binary.LittleEndian
	fields := []struct {
		name string
		off  int
		want uint32
	}{
		{"glInternalformat", 0, 0},
		{"vkFormat", 4, 37},
		{"pDfd", 8, 0},
		{"baseWidth", 12, 256},
		{"baseHeight", 16, 128},
		{"baseDepth", 20, 1},
		{"numDimensions", 24, 2},
		{"numLevels", 28, 9},
		{"numLayers", 32, 6},
		{"numFaces", 36, 1},
	}
	for _, f := range fields {
		if got := le.Uint32(buf[f.off:]); got != f.want {
			t.Errorf("%s at +%d = %d, want %d", f.name, f.off, got, f.want)
		}
	}
	if buf[40] != 1 {
		t.Errorf("isArray = %d, want 1", buf[40])
	}
	if buf[41] != 0 {
		t.Errorf("generateMipmaps = %d, want 0", buf[41])
	}
}

func TestMarshalBasisParamsDefaults(t *testing.T) {
	buf := marshalBasisParams(ktx2.DefaultCompressionParams())
	if len(buf) != basisParamsSize {
		t.Fatalf("size = %d, want %d", len(buf), basisParamsSize)
	}

	le := binary.LittleEndian
	if got := le.Uint32(buf[0:]); got != basisParamsSize {
		t.Errorf("structSize = %d, want %d", got, basisParamsSize)
	}
	if buf[4] != 0 {
		t.Errorf("uastc = %d, want 0", buf[4])
	}
	if got := le.Uint32(buf[8:]); got != 1 {
		t.Errorf("threadCount = %d, want 1", got)
	}
	if got := le.Uint32(buf[12:]); got != 2 {
		t.Errorf("compressionLevel = %d, want 2", got)
	}
	if got := le.Uint32(buf[16:]); got != 128 {
		t.Errorf("qualityLevel = %d, want 128", got)
	}
	if got := [4]byte(buf[36:40]); got != [4]byte{0, 1, 2, 3} {
		t.Errorf("inputSwizzle = %v, want identity", got)
	}
	if got := math.Float32frombits(le.Uint32(buf[56:])); got != 1.0 {
		t.Errorf("uastcRDOQualityScalar = %v, want 1.0", got)
	}
	if got := le.Uint32(buf[60:]); got != 4096 {
		t.Errorf("uastcRDODictSize = %d, want 4096", got)
	}
	if got := math.Float32frombits(le.Uint32(buf[64:])); got != 10.0 {
		t.Errorf("uastcRDOMaxSmoothBlockErrorScale = %v, want 10.0", got)
	}
	if got := math.Float32frombits(le.Uint32(buf[68:])); got != 18.0 {
		t.Errorf("uastcRDOMaxSmoothBlockStdDev = %v, want 18.0", got)
	}
}

func TestMarshalBasisParamsUASTC(t *testing.T) {
	params := ktx2.NewCompressionParams().
		UASTC(true).
		UASTCFlags(2).
		UASTCRDO(true).
		UASTCRDOQualityScalar(3.5).
		ThreadCount(8).
		Build()

	buf := marshalBasisParams(params)
	le := binary.LittleEndian

	if buf[4] != 1 {
		t.Errorf("uastc = %d, want 1", buf[4])
	}
	if got := le.Uint32(buf[8:]); got != 8 {
		t.Errorf("threadCount = %d, want 8", got)
	}
	if got := le.Uint32(buf[48:]); got != 2 {
		t.Errorf("uastcFlags = %d, want 2", got)
	}
	if buf[52] != 1 {
		t.Errorf("uastcRDO = %d, want 1", buf[52])
	}
	if got := math.Float32frombits(le.Uint32(buf[56:])); got != 3.5 {
		t.Errorf("uastcRDOQualityScalar = %v, want 3.5", got)
	}
}

func TestMarshalBasisParamsRDOThresholds(t *testing.T) {
	params := ktx2.NewCompressionParams().
		MaxEndpoints(16128).
		EndpointRDOThreshold(1.25).
		MaxSelectors(16128).
		SelectorRDOThreshold(1.5).
		InputSwizzle([4]uint8{2, 1, 0, 3}).
		Build()

	buf := marshalBasisParams(params)
	le := binary.LittleEndian

	if got := le.Uint32(buf[20:]); got != 16128 {
		t.Errorf("maxEndpoints = %d, want 16128", got)
	}
	if got := math.Float32frombits(le.Uint32(buf[24:])); got != 1.25 {
		t.Errorf("endpointRDOThreshold = %v, want 1.25", got)
	}
	if got := le.Uint32(buf[28:]); got != 16128 {
		t.Errorf("maxSelectors = %d, want 16128", got)
	}
	if got := math.Float32frombits(le.Uint32(buf[32:])); got != 1.5 {
		t.Errorf("selectorRDOThreshold = %v, want 1.5", got)
	}
	if got := [4]byte(buf[36:40]); got != [4]byte{2, 1, 0, 3} {
		t.Errorf("inputSwizzle = %v, want bgra", got)
	}
}
