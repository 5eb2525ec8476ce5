package ktx2

// DefaultETC1SCompressionLevel is the native encoder's default effort level
// for ETC1S mode.
const DefaultETC1SCompressionLevel = 2

// CompressionParams configures Basis Universal compression. Values are
// immutable once built and are marshaled into the native parameter layout
// only for the duration of the compress call; the native side never retains
// them.
//
// ETC1S mode (default) gives smaller files and transcodes well to many
// targets. UASTC mode gives higher quality at larger sizes.
type CompressionParams struct {
	// UASTC selects UASTC mode instead of ETC1S.
	UASTC bool
	// ThreadCount is the number of encoder threads.
	ThreadCount uint32
	// CompressionLevel is the ETC1S encoder effort (higher = slower,
	// smaller).
	CompressionLevel uint32
	// QualityLevel is 1-255 for ETC1S (128 balances well), 0-4 for UASTC.
	QualityLevel uint32
	// MaxEndpoints caps the ETC1S endpoint codebook; 0 selects
	// automatically.
	MaxEndpoints uint32
	// EndpointRDOThreshold steers endpoint rate-distortion optimization.
	EndpointRDOThreshold float32
	// MaxSelectors caps the ETC1S selector codebook; 0 selects
	// automatically.
	MaxSelectors uint32
	// SelectorRDOThreshold steers selector rate-distortion optimization.
	SelectorRDOThreshold float32
	// NormalMap tunes the encoder for normal map content.
	NormalMap bool
	// SeparateRGToColorAlpha splits RG input into color+alpha planes.
	SeparateRGToColorAlpha bool
	// PreSwizzle applies InputSwizzle before encoding.
	PreSwizzle bool
	// NoEndpointRDO disables endpoint rate-distortion optimization.
	NoEndpointRDO bool
	// NoSelectorRDO disables selector rate-distortion optimization.
	NoSelectorRDO bool
	// UASTCFlags passes mode flags to the UASTC encoder.
	UASTCFlags uint32
	// UASTCRDO enables UASTC rate-distortion optimization.
	UASTCRDO bool
	// UASTCRDOQualityScalar trades UASTC RDO quality against size.
	UASTCRDOQualityScalar float32
	// UASTCRDODictSize is the UASTC RDO dictionary size in bytes.
	UASTCRDODictSize uint32
	// InputSwizzle maps input channels; {0,1,2,3} is RGBA identity,
	// {2,1,0,3} swaps red and blue.
	InputSwizzle [4]uint8
}

// DefaultCompressionParams returns the documented defaults: ETC1S mode,
// quality 128, one thread, identity swizzle.
func DefaultCompressionParams() CompressionParams {
	return CompressionParams{
		ThreadCount:           1,
		CompressionLevel:      DefaultETC1SCompressionLevel,
		QualityLevel:          128,
		UASTCRDOQualityScalar: 1.0,
		UASTCRDODictSize:      4096,
		InputSwizzle:          [4]uint8{0, 1, 2, 3},
	}
}

// CompressionParamsBuilder provides fluent construction of CompressionParams.
//
//	params := ktx2.NewCompressionParams().
//	    UASTC(true).
//	    QualityLevel(3).
//	    ThreadCount(8).
//	    Build()
type CompressionParamsBuilder struct {
	params CompressionParams
}

// NewCompressionParams creates a builder seeded with the defaults.
func NewCompressionParams() *CompressionParamsBuilder {
	return &CompressionParamsBuilder{params: DefaultCompressionParams()}
}

// UASTC selects UASTC mode (true) or ETC1S mode (false).
func (b *CompressionParamsBuilder) UASTC(v bool) *CompressionParamsBuilder {
	b.params.UASTC = v
	return b
}

// ThreadCount sets the number of encoder threads.
func (b *CompressionParamsBuilder) ThreadCount(n uint32) *CompressionParamsBuilder {
	b.params.ThreadCount = n
	return b
}

// CompressionLevel sets the ETC1S encoder effort level.
func (b *CompressionParamsBuilder) CompressionLevel(n uint32) *CompressionParamsBuilder {
	b.params.CompressionLevel = n
	return b
}

// QualityLevel sets the quality: 1-255 for ETC1S, 0-4 for UASTC.
func (b *CompressionParamsBuilder) QualityLevel(n uint32) *CompressionParamsBuilder {
	b.params.QualityLevel = n
	return b
}

// MaxEndpoints caps the ETC1S endpoint codebook; 0 is automatic.
func (b *CompressionParamsBuilder) MaxEndpoints(n uint32) *CompressionParamsBuilder {
	b.params.MaxEndpoints = n
	return b
}

// EndpointRDOThreshold sets the endpoint RDO aggressiveness.
func (b *CompressionParamsBuilder) EndpointRDOThreshold(v float32) *CompressionParamsBuilder {
	b.params.EndpointRDOThreshold = v
	return b
}

// MaxSelectors caps the ETC1S selector codebook; 0 is automatic.
func (b *CompressionParamsBuilder) MaxSelectors(n uint32) *CompressionParamsBuilder {
	b.params.MaxSelectors = n
	return b
}

// SelectorRDOThreshold sets the selector RDO aggressiveness.
func (b *CompressionParamsBuilder) SelectorRDOThreshold(v float32) *CompressionParamsBuilder {
	b.params.SelectorRDOThreshold = v
	return b
}

// NormalMap tunes the encoder for normal map content.
func (b *CompressionParamsBuilder) NormalMap(v bool) *CompressionParamsBuilder {
	b.params.NormalMap = v
	return b
}

// SeparateRGToColorAlpha splits RG input into color+alpha planes.
func (b *CompressionParamsBuilder) SeparateRGToColorAlpha(v bool) *CompressionParamsBuilder {
	b.params.SeparateRGToColorAlpha = v
	return b
}

// PreSwizzle applies the input swizzle before encoding.
func (b *CompressionParamsBuilder) PreSwizzle(v bool) *CompressionParamsBuilder {
	b.params.PreSwizzle = v
	return b
}

// NoEndpointRDO disables endpoint RDO.
func (b *CompressionParamsBuilder) NoEndpointRDO(v bool) *CompressionParamsBuilder {
	b.params.NoEndpointRDO = v
	return b
}

// NoSelectorRDO disables selector RDO.
func (b *CompressionParamsBuilder) NoSelectorRDO(v bool) *CompressionParamsBuilder {
	b.params.NoSelectorRDO = v
	return b
}

// UASTCFlags sets UASTC encoder mode flags.
func (b *CompressionParamsBuilder) UASTCFlags(flags uint32) *CompressionParamsBuilder {
	b.params.UASTCFlags = flags
	return b
}

// UASTCRDO enables UASTC RDO.
func (b *CompressionParamsBuilder) UASTCRDO(v bool) *CompressionParamsBuilder {
	b.params.UASTCRDO = v
	return b
}

// UASTCRDOQualityScalar sets the UASTC RDO quality/size tradeoff.
func (b *CompressionParamsBuilder) UASTCRDOQualityScalar(v float32) *CompressionParamsBuilder {
	b.params.UASTCRDOQualityScalar = v
	return b
}

// UASTCRDODictSize sets the UASTC RDO dictionary size.
func (b *CompressionParamsBuilder) UASTCRDODictSize(n uint32) *CompressionParamsBuilder {
	b.params.UASTCRDODictSize = n
	return b
}

// InputSwizzle maps input channels before encoding.
func (b *CompressionParamsBuilder) InputSwizzle(s [4]uint8) *CompressionParamsBuilder {
	b.params.InputSwizzle = s
	return b
}

// Build returns the finished parameter record by value.
func (b *CompressionParamsBuilder) Build() CompressionParams {
	return b.params
}
