package ktx2

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"

	"github.com/wippyai/ktx2-wasm/errors"
	"github.com/wippyai/ktx2-wasm/format"
)

var _ Library = (*fakeLibrary)(nil)

// fakeLibrary implements Library in process so the wrapper's contract can be
// tested without a native build. Image accounting assumes 4 bytes per texel,
// matching the RGBA8 format the tests create with. Serialization uses a
// private container layout behind the real KTX2 identifier, which is enough
// to test signatures and round trips.
type fakeLibrary struct {
	textures map[Handle]*fakeTexture
	files    map[string][]byte
	next     Handle

	created   []CreateInfo
	destroyed []Handle

	// Fault injection knobs.
	nullHandleOnCreate bool
	misreportOffset    bool
	emptySerialization bool
}

type fakeTexture struct {
	info             TextureInfo
	data             []byte
	meta             map[string][]byte
	needsTranscoding bool
}

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{
		textures: make(map[Handle]*fakeTexture),
		files:    make(map[string][]byte),
		next:     0x1000,
	}
}

func (f *fakeLibrary) get(h Handle) *fakeTexture { return f.textures[h] }

func (f *fakeLibrary) insert(t *fakeTexture) Handle {
	h := f.next
	f.next += 0x100
	f.textures[h] = t
	return h
}

// levelSize is the byte size of one image at level, 4 bytes per texel.
func levelSize(info TextureInfo, level uint32) uint64 {
	w := info.BaseWidth >> level
	if w == 0 {
		w = 1
	}
	h := info.BaseHeight >> level
	if h == 0 {
		h = 1
	}
	d := info.BaseDepth >> level
	if d == 0 {
		d = 1
	}
	return uint64(w) * uint64(h) * uint64(d) * 4
}

// imageOffset places levels outermost, then layers, then faces.
func imageOffset(info TextureInfo, level, layer, face uint32) uint64 {
	var off uint64
	for l := uint32(0); l < level; l++ {
		off += levelSize(info, l) * uint64(info.NumLayers) * uint64(info.NumFaces)
	}
	return off + uint64(layer*info.NumFaces+face)*levelSize(info, level)
}

func totalDataSize(info TextureInfo) uint64 {
	var total uint64
	for l := uint32(0); l < info.NumLevels; l++ {
		total += levelSize(info, l) * uint64(info.NumLayers) * uint64(info.NumFaces)
	}
	return total
}

func (f *fakeLibrary) CreateTexture(_ context.Context, info CreateInfo) (Handle, error) {
	f.created = append(f.created, info)
	if f.nullHandleOnCreate {
		return 0, nil
	}

	ti := TextureInfo{
		BaseWidth:     info.BaseWidth,
		BaseHeight:    info.BaseHeight,
		BaseDepth:     info.BaseDepth,
		NumDimensions: info.NumDimensions,
		NumLevels:     info.NumLevels,
		NumLayers:     info.NumLayers,
		NumFaces:      info.NumFaces,
		PixelFormat:   info.PixelFormat,
		IsArray:       info.IsArray,
		IsCubemap:     info.NumFaces == 6,
	}
	ti.DataSize = totalDataSize(ti)

	return f.insert(&fakeTexture{
		info: ti,
		data: make([]byte, ti.DataSize),
		meta: make(map[string][]byte),
	}), nil
}

func (f *fakeLibrary) TextureFromMemory(_ context.Context, data []byte) (Handle, error) {
	t, err := parseContainer(data)
	if err != nil {
		return 0, err
	}
	return f.insert(t), nil
}

func (f *fakeLibrary) TextureFromFile(ctx context.Context, path string) (Handle, error) {
	data, ok := f.files[path]
	if !ok {
		return 0, errors.FromCode(errors.CodeFileOpenFailed)
	}
	return f.TextureFromMemory(ctx, data)
}

func (f *fakeLibrary) DestroyTexture(_ context.Context, h Handle) error {
	f.destroyed = append(f.destroyed, h)
	delete(f.textures, h)
	return nil
}

func (f *fakeLibrary) TextureInfo(h Handle) TextureInfo {
	t := f.get(h)
	if t == nil {
		return TextureInfo{}
	}
	return t.info
}

func (f *fakeLibrary) ImageOffset(_ context.Context, h Handle, level, layer, face uint32) (uint64, error) {
	t := f.get(h)
	if t == nil {
		return 0, errors.FromCode(errors.CodeInvalidValue)
	}
	if f.misreportOffset {
		return t.info.DataSize + 1, nil
	}
	return imageOffset(t.info, level, layer, face), nil
}

func (f *fakeLibrary) ImageSize(_ context.Context, h Handle, level uint32) (uint64, error) {
	t := f.get(h)
	if t == nil {
		return 0, errors.FromCode(errors.CodeInvalidValue)
	}
	return levelSize(t.info, level), nil
}

func (f *fakeLibrary) ImageView(h Handle, offset, length uint64) ([]byte, error) {
	t := f.get(h)
	if t == nil {
		return nil, errors.InvalidOperation("stale handle")
	}
	if offset+length > uint64(len(t.data)) {
		return nil, errors.InvalidOperation("image region out of bounds")
	}
	return t.data[offset : offset+length], nil
}

func (f *fakeLibrary) WriteImage(_ context.Context, h Handle, level, layer, face uint32, data []byte) error {
	t := f.get(h)
	if t == nil {
		return errors.FromCode(errors.CodeInvalidValue)
	}
	// The native writer rejects writes that do not match the image size.
	if uint64(len(data)) != levelSize(t.info, level) {
		return errors.FromCode(errors.CodeInvalidOperation)
	}
	copy(t.data[imageOffset(t.info, level, layer, face):], data)
	return nil
}

func (f *fakeLibrary) FindMetadata(_ context.Context, h Handle, key string) ([]byte, error) {
	t := f.get(h)
	if t == nil {
		return nil, errors.FromCode(errors.CodeInvalidValue)
	}
	value, ok := t.meta[key]
	if !ok {
		return nil, errors.FromCode(errors.CodeNotFound)
	}
	return bytes.Clone(value), nil
}

func (f *fakeLibrary) AddMetadata(_ context.Context, h Handle, key string, value []byte) error {
	t := f.get(h)
	if t == nil {
		return errors.FromCode(errors.CodeInvalidValue)
	}
	t.meta[key] = bytes.Clone(value)
	return nil
}

func (f *fakeLibrary) CompressBasis(_ context.Context, h Handle, quality uint32) error {
	t := f.get(h)
	if t == nil {
		return errors.FromCode(errors.CodeInvalidValue)
	}
	if quality == 0 || quality > 255 {
		return errors.FromCode(errors.CodeInvalidValue)
	}
	if t.info.IsCompressed {
		return errors.FromCode(errors.CodeInvalidOperation)
	}
	t.info.IsCompressed = true
	t.needsTranscoding = true
	return nil
}

func (f *fakeLibrary) CompressBasisEx(ctx context.Context, h Handle, params CompressionParams) error {
	quality := params.QualityLevel
	if params.UASTC {
		// UASTC quality is 0-4; reuse the ETC1S path with a passing value.
		quality = 128
	}
	return f.CompressBasis(ctx, h, quality)
}

func (f *fakeLibrary) TranscodeBasis(_ context.Context, h Handle, _ format.TranscodeFormat) error {
	t := f.get(h)
	if t == nil {
		return errors.FromCode(errors.CodeInvalidValue)
	}
	if !t.info.IsCompressed {
		return errors.FromCode(errors.CodeTranscodeFailed)
	}
	t.needsTranscoding = false
	return nil
}

func (f *fakeLibrary) NeedsTranscoding(_ context.Context, h Handle) bool {
	t := f.get(h)
	return t != nil && t.needsTranscoding
}

func (f *fakeLibrary) WriteToMemory(_ context.Context, h Handle) ([]byte, error) {
	t := f.get(h)
	if t == nil {
		return nil, errors.FromCode(errors.CodeInvalidValue)
	}
	if f.emptySerialization {
		return nil, nil
	}
	return serializeContainer(t), nil
}

func (f *fakeLibrary) WriteToFile(ctx context.Context, h Handle, path string) error {
	data, err := f.WriteToMemory(ctx, h)
	if err != nil {
		return err
	}
	f.files[path] = data
	return nil
}

// serializeContainer writes the fake's private layout: the KTX2 identifier,
// the header snapshot, the metadata list, then the backing bytes.
func serializeContainer(t *fakeTexture) []byte {
	var buf bytes.Buffer
	buf.Write(FileIdentifier)

	le := binary.LittleEndian
	w32 := func(v uint32) {
		var b [4]byte
		le.PutUint32(b[:], v)
		buf.Write(b[:])
	}

	w32(t.info.BaseWidth)
	w32(t.info.BaseHeight)
	w32(t.info.BaseDepth)
	w32(t.info.NumDimensions)
	w32(t.info.NumLevels)
	w32(t.info.NumLayers)
	w32(t.info.NumFaces)
	w32(t.info.PixelFormat)

	var flags byte
	if t.info.IsArray {
		flags |= 1
	}
	if t.info.IsCubemap {
		flags |= 2
	}
	if t.info.IsCompressed {
		flags |= 4
	}
	if t.needsTranscoding {
		flags |= 8
	}
	buf.WriteByte(flags)

	w32(uint32(len(t.meta)))
	for key, value := range t.meta {
		w32(uint32(len(key)))
		buf.WriteString(key)
		w32(uint32(len(value)))
		buf.Write(value)
	}

	w32(uint32(len(t.data)))
	buf.Write(t.data)
	return buf.Bytes()
}

func parseContainer(data []byte) (*fakeTexture, error) {
	if !bytes.HasPrefix(data, FileIdentifier) {
		return nil, errors.FromCode(errors.CodeUnknownFileFormat)
	}
	r := bytes.NewReader(data[len(FileIdentifier):])

	le := binary.LittleEndian
	r32 := func() (uint32, bool) {
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, false
		}
		return le.Uint32(b[:]), true
	}
	truncated := errors.FromCode(errors.CodeFileDataError)

	var fields [8]uint32
	for i := range fields {
		v, ok := r32()
		if !ok {
			return nil, truncated
		}
		fields[i] = v
	}
	flags, err := r.ReadByte()
	if err != nil {
		return nil, truncated
	}

	t := &fakeTexture{
		info: TextureInfo{
			BaseWidth:     fields[0],
			BaseHeight:    fields[1],
			BaseDepth:     fields[2],
			NumDimensions: fields[3],
			NumLevels:     fields[4],
			NumLayers:     fields[5],
			NumFaces:      fields[6],
			PixelFormat:   fields[7],
			IsArray:       flags&1 != 0,
			IsCubemap:     flags&2 != 0,
			IsCompressed:  flags&4 != 0,
		},
		meta:             make(map[string][]byte),
		needsTranscoding: flags&8 != 0,
	}

	metaCount, ok := r32()
	if !ok {
		return nil, truncated
	}
	for i := uint32(0); i < metaCount; i++ {
		keyLen, ok := r32()
		if !ok {
			return nil, truncated
		}
		key := make([]byte, keyLen)
		if _, err := io.ReadFull(r, key); err != nil {
			return nil, truncated
		}
		valueLen, ok := r32()
		if !ok {
			return nil, truncated
		}
		value := make([]byte, valueLen)
		if valueLen > 0 {
			if _, err := io.ReadFull(r, value); err != nil {
				return nil, truncated
			}
		}
		t.meta[string(key)] = value
	}

	dataLen, ok := r32()
	if !ok {
		return nil, truncated
	}
	t.data = make([]byte, dataLen)
	if _, err := io.ReadFull(r, t.data); err != nil && dataLen > 0 {
		return nil, truncated
	}
	t.info.DataSize = uint64(dataLen)

	return t, nil
}
