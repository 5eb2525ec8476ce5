package engine

import (
	"encoding/binary"
	"math"

	ktx2 "github.com/wippyai/ktx2-wasm"
)

// Exported entry points of the pinned libktx.wasm build. Everything except
// fnNeedsTranscoding and the allocator pair is required at load time.
const (
	fnMalloc = "malloc"
	fnFree   = "free"

	fnCreate     = "ktxTexture2_Create"
	fnFromMemory = "ktxTexture2_CreateFromMemory"
	fnFromFile   = "ktxTexture2_CreateFromNamedFile"
	fnDestroy    = "ktxTexture2_Destroy"

	fnGetImageOffset = "ktxTexture2_GetImageOffset"
	fnGetImageSize   = "ktxTexture2_GetImageSize"
	fnSetImage       = "ktxTexture2_SetImageFromMemory"

	fnNeedsTranscoding = "ktxTexture2_NeedsTranscoding"

	fnHashListFindValue = "ktxHashList_FindValue"
	fnHashListAddKVPair = "ktxHashList_AddKVPair"

	fnWriteToMemory = "ktxTexture2_WriteToMemory"
	fnWriteToFile   = "ktxTexture2_WriteToNamedFile"

	fnCompressBasis   = "ktxTexture2_CompressBasis"
	fnCompressBasisEx = "ktxTexture2_CompressBasisEx"
	fnTranscodeBasis  = "ktxTexture2_TranscodeBasis"
)

// Native creation constants.
const (
	// createAllocStorage asks ktxTexture2_Create to allocate image storage.
	createAllocStorage = 1
	// createLoadImageData asks the file/memory loaders to load all images.
	createLoadImageData = 1
)

// ktxTexture2 field offsets for the pinned wasm32 build. Pointers and
// size_t are 4 bytes; bools are single bytes. Header fields are read
// directly from guest memory (the accessor contract has no failure mode),
// everything else goes through the exported entry points.
const (
	offVtbl            = 4
	offIsArray         = 16
	offIsCubemap       = 17
	offIsCompressed    = 18
	offGenerateMipmaps = 19
	offBaseWidth       = 20
	offBaseHeight      = 24
	offBaseDepth       = 28
	offNumDimensions   = 32
	offNumLevels       = 36
	offNumLayers       = 40
	offNumFaces        = 44
	offKVDataHead      = 60
	offDataSize        = 72
	offPData           = 76
	offVkFormat        = 80
)

// ktxTextureCreateInfo wasm32 layout.
const createInfoSize = 44

func marshalCreateInfo(info ktx2.CreateInfo) []byte {
	buf := make([]byte, createInfoSize)
	le := binary.LittleEndian
	// glInternalformat at 0 stays zero: the creation path is Vulkan-format
	// driven.
	le.PutUint32(buf[4:], info.PixelFormat)
	// pDfd at 8 stays null; the native side derives the descriptor.
	le.PutUint32(buf[12:], info.BaseWidth)
	le.PutUint32(buf[16:], info.BaseHeight)
	le.PutUint32(buf[20:], info.BaseDepth)
	le.PutUint32(buf[24:], info.NumDimensions)
	le.PutUint32(buf[28:], info.NumLevels)
	le.PutUint32(buf[32:], info.NumLayers)
	le.PutUint32(buf[36:], info.NumFaces)
	buf[40] = cbool(info.IsArray)
	buf[41] = cbool(info.GenerateMipmaps)
	return buf
}

// ktxBasisParams wasm32 layout.
const basisParamsSize = 76

// Native defaults for the UASTC RDO fields the wrapper does not expose.
const (
	uastcRDOMaxSmoothBlockErrorScale = 10.0
	uastcRDOMaxSmoothBlockStdDev     = 18.0
)

func marshalBasisParams(p ktx2.CompressionParams) []byte {
	buf := make([]byte, basisParamsSize)
	le := binary.LittleEndian
	le.PutUint32(buf[0:], basisParamsSize) // structSize
	buf[4] = cbool(p.UASTC)
	// verbose at 5 and noSSE at 6 stay false.
	le.PutUint32(buf[8:], p.ThreadCount)
	le.PutUint32(buf[12:], p.CompressionLevel)
	le.PutUint32(buf[16:], p.QualityLevel)
	le.PutUint32(buf[20:], p.MaxEndpoints)
	le.PutUint32(buf[24:], math.Float32bits(p.EndpointRDOThreshold))
	le.PutUint32(buf[28:], p.MaxSelectors)
	le.PutUint32(buf[32:], math.Float32bits(p.SelectorRDOThreshold))
	copy(buf[36:40], p.InputSwizzle[:])
	buf[40] = cbool(p.NormalMap)
	buf[41] = cbool(p.SeparateRGToColorAlpha)
	buf[42] = cbool(p.PreSwizzle)
	buf[43] = cbool(p.NoEndpointRDO)
	buf[44] = cbool(p.NoSelectorRDO)
	le.PutUint32(buf[48:], p.UASTCFlags)
	buf[52] = cbool(p.UASTCRDO)
	le.PutUint32(buf[56:], math.Float32bits(p.UASTCRDOQualityScalar))
	le.PutUint32(buf[60:], p.UASTCRDODictSize)
	le.PutUint32(buf[64:], math.Float32bits(uastcRDOMaxSmoothBlockErrorScale))
	le.PutUint32(buf[68:], math.Float32bits(uastcRDOMaxSmoothBlockStdDev))
	// uastcRDODontFavorSimplerModes at 72 and uastcRDONoMultithreading at 73
	// stay false.
	return buf
}

func cbool(v bool) byte {
	if v {
		return 1
	}
	return 0
}
