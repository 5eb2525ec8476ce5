package ktx2

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/wippyai/ktx2-wasm/errors"
	"github.com/wippyai/ktx2-wasm/format"
)

// maxDimension caps width, height, and depth at creation time to reject
// pathological allocation requests before they reach native code.
const maxDimension = 65536

// Texture is an owned handle to one native KTX2 texture resource.
//
// Every Texture owns exactly one native resource, released exactly once by
// Close. Do not copy a Texture value; copies would double-own the resource
// and double-release it. To obtain a second independently-owned handle,
// re-derive it: serialize with WriteToMemory and reload with
// TextureFromMemory.
type Texture struct {
	lib    Library
	handle Handle
	closed bool
}

// NewTexture allocates a texture with storage for width×height×depth texels
// across the given numbers of mip levels, array layers, and faces.
//
// Zero width or height, zero depth/layers/faces/levels, and any of
// width/height/depth above 65536 fail with InvalidValue before any native
// call. Dimensionality is derived: depth > 1 makes a 3D texture, otherwise
// height > 1 makes a 2D one. The texture is an array iff layers > 1.
func NewTexture(ctx context.Context, lib Library, width, height, depth, layers, faces, levels uint32, pf format.PixelFormat) (*Texture, error) {
	if width == 0 || height == 0 {
		return nil, errors.InvalidValue("width and height must be nonzero")
	}
	if depth == 0 || layers == 0 || faces == 0 || levels == 0 {
		return nil, errors.InvalidValue("depth, layers, faces, and levels must be nonzero")
	}
	if width > maxDimension || height > maxDimension || depth > maxDimension {
		return nil, errors.InvalidValue("dimension exceeds %d", maxDimension)
	}

	dims := uint32(1)
	switch {
	case depth > 1:
		dims = 3
	case height > 1:
		dims = 2
	}

	info := CreateInfo{
		PixelFormat:   pf.Raw(),
		BaseWidth:     width,
		BaseHeight:    height,
		BaseDepth:     depth,
		NumDimensions: dims,
		NumLevels:     levels,
		NumLayers:     layers,
		NumFaces:      faces,
		IsArray:       layers > 1,
	}

	h, err := lib.CreateTexture(ctx, info)
	if err != nil {
		return nil, err
	}
	// A null handle on nominal success means the allocation did not happen.
	if h == 0 {
		return nil, errors.FromCode(errors.CodeOutOfMemory)
	}

	return &Texture{lib: lib, handle: h}, nil
}

// TextureFromMemory parses a serialized KTX2 container, loading all image
// data. Empty or malformed input surfaces as the native library's error,
// typically UnknownFileFormat or FileDataError.
func TextureFromMemory(ctx context.Context, lib Library, data []byte) (*Texture, error) {
	h, err := lib.TextureFromMemory(ctx, data)
	if err != nil {
		return nil, err
	}
	if h == 0 {
		return nil, errors.FromCode(errors.CodeOutOfMemory)
	}
	return &Texture{lib: lib, handle: h}, nil
}

// TextureFromFile is TextureFromMemory by path. Paths that are not valid
// UTF-8 or contain an embedded NUL fail with InvalidValue before any native
// call. The path is resolved inside the engine's mounted filesystem.
func TextureFromFile(ctx context.Context, lib Library, path string) (*Texture, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	h, err := lib.TextureFromFile(ctx, path)
	if err != nil {
		return nil, err
	}
	if h == 0 {
		return nil, errors.FromCode(errors.CodeOutOfMemory)
	}
	return &Texture{lib: lib, handle: h}, nil
}

// Close releases the native resource. It is idempotent: the first call
// destroys, later calls are no-ops. Use defer tex.Close(ctx) so every exit
// path releases exactly once.
func (t *Texture) Close(ctx context.Context) error {
	if t.closed || t.handle == 0 {
		return nil
	}
	t.closed = true
	h := t.handle
	t.handle = 0
	return t.lib.DestroyTexture(ctx, h)
}

// info is the accessor backing; a released handle reads as the zero value.
func (t *Texture) info() TextureInfo {
	if t.closed || t.handle == 0 {
		return TextureInfo{}
	}
	return t.lib.TextureInfo(t.handle)
}

// Width returns the base level's width in texels, or 0 after Close.
func (t *Texture) Width() uint32 { return t.info().BaseWidth }

// Height returns the base level's height in texels, or 0 after Close.
func (t *Texture) Height() uint32 { return t.info().BaseHeight }

// Depth returns the base level's depth in texels, or 0 after Close.
func (t *Texture) Depth() uint32 { return t.info().BaseDepth }

// Layers returns the array layer count, or 0 after Close.
func (t *Texture) Layers() uint32 { return t.info().NumLayers }

// Faces returns the face count (6 for cubemaps, else 1), or 0 after Close.
func (t *Texture) Faces() uint32 { return t.info().NumFaces }

// Levels returns the mip level count, or 0 after Close.
func (t *Texture) Levels() uint32 { return t.info().NumLevels }

// PixelFormat returns the texture's pixel format code.
func (t *Texture) PixelFormat() uint32 { return t.info().PixelFormat }

// IsArray reports whether the texture has array layers.
func (t *Texture) IsArray() bool { return t.info().IsArray }

// IsCubemap reports whether the texture is a cubemap.
func (t *Texture) IsCubemap() bool { return t.info().IsCubemap }

// IsCompressed reports whether the texture holds block-compressed data.
func (t *Texture) IsCompressed() bool { return t.info().IsCompressed }

// NeedsTranscoding reports whether the texture must be transcoded before
// GPU upload. The query goes through the native resource's capability table;
// if the capability is absent the answer is false.
func (t *Texture) NeedsTranscoding(ctx context.Context) bool {
	if t.closed || t.handle == 0 {
		return false
	}
	return t.lib.NeedsTranscoding(ctx, t.handle)
}

// Image returns a borrowed, read-only view of the image at level/layer/face.
//
// The view aliases the native backing buffer; no copy is made. It is valid
// only until the next mutating operation on any texture sharing this
// texture's Library (native memory may move or grow) and never past Close.
// Callers that need to retain the bytes must copy them.
//
// The region's offset and length come from the native library's own
// accounting; before exposing the view the wrapper checks they fit inside
// the backing buffer, so a native accounting bug surfaces as
// InvalidOperation instead of an out-of-bounds read.
func (t *Texture) Image(ctx context.Context, level, layer, face uint32) ([]byte, error) {
	if t.closed || t.handle == 0 {
		return nil, errors.InvalidOperation("texture is closed")
	}
	info := t.lib.TextureInfo(t.handle)
	if err := checkIndices(info, level, layer, face); err != nil {
		return nil, err
	}

	offset, err := t.lib.ImageOffset(ctx, t.handle, level, layer, face)
	if err != nil {
		return nil, err
	}
	size, err := t.lib.ImageSize(ctx, t.handle, level)
	if err != nil {
		return nil, err
	}

	if offset > info.DataSize || size > info.DataSize-offset {
		return nil, errors.InvalidOperation("image region [%d, %d) exceeds backing buffer of %d bytes", offset, offset+size, info.DataSize)
	}

	return t.lib.ImageView(t.handle, offset, size)
}

// WriteImage copies data into the image region at level/layer/face. Empty
// input fails with InvalidValue. The byte length is not validated against
// the expected image size for the pixel format here; whether an over- or
// undersized write is rejected is the native writer's concern.
func (t *Texture) WriteImage(ctx context.Context, level, layer, face uint32, data []byte) error {
	if t.closed || t.handle == 0 {
		return errors.InvalidOperation("texture is closed")
	}
	if err := checkIndices(t.lib.TextureInfo(t.handle), level, layer, face); err != nil {
		return err
	}
	if len(data) == 0 {
		return errors.InvalidValue("image data must not be empty")
	}
	return t.lib.WriteImage(ctx, t.handle, level, layer, face, data)
}

// Metadata returns an owned copy of the value stored under key. A key with
// an embedded NUL fails with InvalidValue before any native call; an unset
// key fails with NotFound. The copy is deliberate: the native key/value
// store's backing memory does not track the caller's usage window the way
// image data does.
func (t *Texture) Metadata(ctx context.Context, key string) ([]byte, error) {
	if t.closed || t.handle == 0 {
		return nil, errors.InvalidOperation("texture is closed")
	}
	if strings.ContainsRune(key, 0) {
		return nil, errors.InvalidValue("metadata key contains NUL")
	}
	return t.lib.FindMetadata(ctx, t.handle, key)
}

// SetMetadata stores a copy of value under key. Value may be any byte
// sequence including empty; the key must not contain an embedded NUL.
func (t *Texture) SetMetadata(ctx context.Context, key string, value []byte) error {
	if t.closed || t.handle == 0 {
		return errors.InvalidOperation("texture is closed")
	}
	if strings.ContainsRune(key, 0) {
		return errors.InvalidValue("metadata key contains NUL")
	}
	return t.lib.AddMetadata(ctx, t.handle, key, value)
}

// CompressBasis compresses with the quick ETC1S path at the given quality
// (1-255). On failure the resource keeps its prior state.
func (t *Texture) CompressBasis(ctx context.Context, quality uint32) error {
	if t.closed || t.handle == 0 {
		return errors.InvalidOperation("texture is closed")
	}
	return t.lib.CompressBasis(ctx, t.handle, quality)
}

// CompressBasisEx compresses with the full parameter record, supporting
// UASTC mode and all RDO knobs. On failure the resource keeps its prior
// state.
func (t *Texture) CompressBasisEx(ctx context.Context, params CompressionParams) error {
	if t.closed || t.handle == 0 {
		return errors.InvalidOperation("texture is closed")
	}
	return t.lib.CompressBasisEx(ctx, t.handle, params)
}

// Transcode converts every level, layer, and face to the target GPU format.
// Fails with TranscodeFailed if the texture was never Basis-compressed.
func (t *Texture) Transcode(ctx context.Context, target format.TranscodeFormat) error {
	if t.closed || t.handle == 0 {
		return errors.InvalidOperation("texture is closed")
	}
	return t.lib.TranscodeBasis(ctx, t.handle, target)
}

// WriteToMemory serializes the texture into a caller-owned byte slice. A
// nominally successful serialization that produced no bytes is reported as
// InvalidOperation; it should be unreachable.
func (t *Texture) WriteToMemory(ctx context.Context) ([]byte, error) {
	if t.closed || t.handle == 0 {
		return nil, errors.InvalidOperation("texture is closed")
	}
	data, err := t.lib.WriteToMemory(ctx, t.handle)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.InvalidOperation("serialization produced no data")
	}
	return data, nil
}

// WriteToFile serializes the texture to a path inside the engine's mounted
// filesystem. Path validation matches TextureFromFile.
func (t *Texture) WriteToFile(ctx context.Context, path string) error {
	if t.closed || t.handle == 0 {
		return errors.InvalidOperation("texture is closed")
	}
	if err := validatePath(path); err != nil {
		return err
	}
	return t.lib.WriteToFile(ctx, t.handle, path)
}

// String summarizes the texture for logs and debugging.
func (t *Texture) String() string {
	info := t.info()
	return fmt.Sprintf("Texture{%dx%dx%d levels=%d layers=%d faces=%d format=%d array=%v cubemap=%v compressed=%v}",
		info.BaseWidth, info.BaseHeight, info.BaseDepth,
		info.NumLevels, info.NumLayers, info.NumFaces,
		info.PixelFormat, info.IsArray, info.IsCubemap, info.IsCompressed)
}

func checkIndices(info TextureInfo, level, layer, face uint32) error {
	if level >= info.NumLevels {
		return errors.InvalidValue("level %d out of range (levels=%d)", level, info.NumLevels)
	}
	if layer >= info.NumLayers {
		return errors.InvalidValue("layer %d out of range (layers=%d)", layer, info.NumLayers)
	}
	if face >= info.NumFaces {
		return errors.InvalidValue("face %d out of range (faces=%d)", face, info.NumFaces)
	}
	return nil
}

// validatePath rejects paths the native side cannot represent: the guest
// C ABI takes NUL-terminated UTF-8.
func validatePath(path string) error {
	if !utf8.ValidString(path) {
		return errors.InvalidValue("path is not valid UTF-8")
	}
	if strings.ContainsRune(path, 0) {
		return errors.InvalidValue("path contains NUL")
	}
	return nil
}
