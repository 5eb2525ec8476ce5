package ktx2

import (
	"context"

	"github.com/wippyai/ktx2-wasm/format"
)

// Handle identifies one native texture resource. The zero value is the null
// handle and never refers to a live resource.
type Handle uint32

// FileIdentifier is the fixed 12-byte signature that begins every serialized
// KTX2 container. The wrapper never checks it itself — rejecting input that
// lacks it is the native library's job — but callers and tests may use it to
// recognize output.
var FileIdentifier = []byte{0xAB, 0x4B, 0x54, 0x58, 0x20, 0x32, 0x30, 0xBB, 0x0D, 0x0A, 0x1A, 0x0A}

// CreateInfo describes a texture resource to allocate. It mirrors the native
// creation record; Texture constructors fill it from validated arguments.
type CreateInfo struct {
	PixelFormat     uint32
	BaseWidth       uint32
	BaseHeight      uint32
	BaseDepth       uint32
	NumDimensions   uint32
	NumLevels       uint32
	NumLayers       uint32
	NumFaces        uint32
	IsArray         bool
	GenerateMipmaps bool
}

// TextureInfo is a read-only snapshot of a native resource's header fields.
// The zero value is what a released or invalid handle reports.
type TextureInfo struct {
	BaseWidth     uint32
	BaseHeight    uint32
	BaseDepth     uint32
	NumDimensions uint32
	NumLevels     uint32
	NumLayers     uint32
	NumFaces      uint32
	PixelFormat   uint32
	IsArray       bool
	IsCubemap     bool
	IsCompressed  bool
	DataSize      uint64
}

// Library is the fixed entry-point contract of the native texture library.
// The engine package implements it over a wazero-hosted libktx build; tests
// may substitute their own implementation.
//
// Methods that enter native code take a context and return either nil, an
// *errors.Error translated from the native status, or a host-boundary error
// (instantiation failure, guest trap). Methods documented as pure reads
// never fail; they report zero values for stale handles.
//
// A Library instance is not safe for concurrent use by multiple goroutines.
type Library interface {
	// CreateTexture allocates a texture with storage for all described
	// images. The returned handle may be null even on success; callers must
	// check.
	CreateTexture(ctx context.Context, info CreateInfo) (Handle, error)

	// TextureFromMemory parses a serialized container and loads all image
	// data.
	TextureFromMemory(ctx context.Context, data []byte) (Handle, error)

	// TextureFromFile is TextureFromMemory by (guest-visible) path.
	TextureFromFile(ctx context.Context, path string) (Handle, error)

	// DestroyTexture releases the native resource. Calling it more than once
	// per handle, or with a stale handle, is a caller bug.
	DestroyTexture(ctx context.Context, h Handle) error

	// TextureInfo is a pure read of the resource's header fields.
	TextureInfo(h Handle) TextureInfo

	// ImageOffset resolves the byte offset of one image region inside the
	// resource's backing buffer, using the native library's own accounting.
	ImageOffset(ctx context.Context, h Handle, level, layer, face uint32) (uint64, error)

	// ImageSize resolves the byte length of one image at the given level.
	ImageSize(ctx context.Context, h Handle, level uint32) (uint64, error)

	// ImageView exposes a borrowed, read-only view of [offset, offset+length)
	// in the resource's backing buffer. No copy is made; see Texture.Image
	// for the validity window.
	ImageView(h Handle, offset, length uint64) ([]byte, error)

	// WriteImage copies data into the image region addressed by
	// level/layer/face. Length validation is the native side's concern.
	WriteImage(ctx context.Context, h Handle, level, layer, face uint32, data []byte) error

	// FindMetadata returns an owned copy of the value stored under key.
	FindMetadata(ctx context.Context, h Handle, key string) ([]byte, error)

	// AddMetadata copies value into the resource's key/value list under key.
	AddMetadata(ctx context.Context, h Handle, key string, value []byte) error

	// CompressBasis runs the quality-only ETC1S encoder path.
	CompressBasis(ctx context.Context, h Handle, quality uint32) error

	// CompressBasisEx runs the full-parameter encoder path. Params are
	// marshaled into the native layout for the duration of the call only.
	CompressBasisEx(ctx context.Context, h Handle, params CompressionParams) error

	// TranscodeBasis transcodes every level, layer, and face to target.
	TranscodeBasis(ctx context.Context, h Handle, target format.TranscodeFormat) error

	// NeedsTranscoding queries the resource's capability table. Absence of
	// the capability answers false, never an error.
	NeedsTranscoding(ctx context.Context, h Handle) bool

	// WriteToMemory serializes the resource and returns the bytes. The
	// result is owned by the caller; any native-side allocation made during
	// serialization has already been released.
	WriteToMemory(ctx context.Context, h Handle) ([]byte, error)

	// WriteToFile serializes the resource to a (guest-visible) path.
	WriteToFile(ctx context.Context, h Handle, path string) error
}
