package engine

import (
	"bytes"
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"

	ktx2 "github.com/wippyai/ktx2-wasm"
	"github.com/wippyai/ktx2-wasm/errors"
	"github.com/wippyai/ktx2-wasm/format"
)

// Library is one instantiated libktx build. It implements ktx2.Library by
// marshaling arguments into guest memory, invoking the exported entry
// points, and translating native status codes.
//
// A Library owns one module instance and one linear memory. It is not safe
// for concurrent use by multiple goroutines.
type Library struct {
	mod api.Module
	mem api.Memory
	fns exports

	// Reusable call stack; sized for the widest entry point.
	stack [8]uint64
}

var _ ktx2.Library = (*Library)(nil)

// Close releases the module instance and every native resource still held
// by it.
func (l *Library) Close(ctx context.Context) error {
	return l.mod.Close(ctx)
}

// call invokes fn with args and returns the first result slot. The stack
// buffer is reused across calls, which is why a Library is single-threaded.
func (l *Library) call(ctx context.Context, fn api.Function, args ...uint64) (uint64, error) {
	copy(l.stack[:], args)
	if err := fn.CallWithStack(ctx, l.stack[:]); err != nil {
		return 0, fmt.Errorf("call %s: %w", fn.Definition().Name(), err)
	}
	return l.stack[0], nil
}

// status invokes a KTX_error_code-returning entry point and translates the
// result.
func (l *Library) status(ctx context.Context, fn api.Function, args ...uint64) error {
	ret, err := l.call(ctx, fn, args...)
	if err != nil {
		return err
	}
	if c := errors.Code(uint32(ret)); c != errors.CodeSuccess {
		return errors.FromCode(c)
	}
	return nil
}

// alloc reserves size bytes on the guest heap.
func (l *Library) alloc(ctx context.Context, size uint32) (uint32, error) {
	ret, err := l.call(ctx, l.fns.malloc, uint64(size))
	if err != nil {
		return 0, err
	}
	if ret == 0 {
		return 0, errors.FromCode(errors.CodeOutOfMemory)
	}
	return uint32(ret), nil
}

// freePtr returns a guest allocation. Failures during cleanup are dropped;
// there is nothing useful a caller can do with them.
func (l *Library) freePtr(ctx context.Context, ptr uint32) {
	if ptr == 0 {
		return
	}
	copy(l.stack[:], []uint64{uint64(ptr)})
	_ = l.fns.free.CallWithStack(ctx, l.stack[:])
}

// writeBytes copies data onto the guest heap and returns the allocation.
func (l *Library) writeBytes(ctx context.Context, data []byte) (uint32, error) {
	ptr, err := l.alloc(ctx, uint32(len(data)))
	if err != nil {
		return 0, err
	}
	if !l.mem.Write(ptr, data) {
		l.freePtr(ctx, ptr)
		return 0, fmt.Errorf("write %d bytes at 0x%x: out of range", len(data), ptr)
	}
	return ptr, nil
}

// cstring copies s onto the guest heap with a NUL terminator.
func (l *Library) cstring(ctx context.Context, s string) (uint32, error) {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return l.writeBytes(ctx, buf)
}

// CreateTexture implements ktx2.Library.
func (l *Library) CreateTexture(ctx context.Context, info ktx2.CreateInfo) (ktx2.Handle, error) {
	infoPtr, err := l.writeBytes(ctx, marshalCreateInfo(info))
	if err != nil {
		return 0, err
	}
	defer l.freePtr(ctx, infoPtr)

	outPtr, err := l.alloc(ctx, 4)
	if err != nil {
		return 0, err
	}
	defer l.freePtr(ctx, outPtr)

	if err := l.status(ctx, l.fns.create, uint64(infoPtr), createAllocStorage, uint64(outPtr)); err != nil {
		return 0, err
	}

	h, _ := l.mem.ReadUint32Le(outPtr)
	return ktx2.Handle(h), nil
}

// TextureFromMemory implements ktx2.Library. Empty input is forwarded as a
// null pointer so the native validator produces its own status.
func (l *Library) TextureFromMemory(ctx context.Context, data []byte) (ktx2.Handle, error) {
	var dataPtr uint32
	if len(data) > 0 {
		var err error
		dataPtr, err = l.writeBytes(ctx, data)
		if err != nil {
			return 0, err
		}
		defer l.freePtr(ctx, dataPtr)
	}

	outPtr, err := l.alloc(ctx, 4)
	if err != nil {
		return 0, err
	}
	defer l.freePtr(ctx, outPtr)

	err = l.status(ctx, l.fns.fromMemory,
		uint64(dataPtr), uint64(len(data)), createLoadImageData, uint64(outPtr))
	if err != nil {
		return 0, err
	}

	h, _ := l.mem.ReadUint32Le(outPtr)
	return ktx2.Handle(h), nil
}

// TextureFromFile implements ktx2.Library. The path is resolved inside the
// guest filesystem, so it must fall under one of the engine's mounts.
func (l *Library) TextureFromFile(ctx context.Context, path string) (ktx2.Handle, error) {
	pathPtr, err := l.cstring(ctx, path)
	if err != nil {
		return 0, err
	}
	defer l.freePtr(ctx, pathPtr)

	outPtr, err := l.alloc(ctx, 4)
	if err != nil {
		return 0, err
	}
	defer l.freePtr(ctx, outPtr)

	err = l.status(ctx, l.fns.fromFile, uint64(pathPtr), createLoadImageData, uint64(outPtr))
	if err != nil {
		return 0, err
	}

	h, _ := l.mem.ReadUint32Le(outPtr)
	return ktx2.Handle(h), nil
}

// DestroyTexture implements ktx2.Library. The native destructor returns no
// status; only a guest trap can fail here.
func (l *Library) DestroyTexture(ctx context.Context, h ktx2.Handle) error {
	copy(l.stack[:], []uint64{uint64(h)})
	if err := l.fns.destroy.CallWithStack(ctx, l.stack[:]); err != nil {
		return fmt.Errorf("call %s: %w", fnDestroy, err)
	}
	return nil
}

// TextureInfo implements ktx2.Library as a pure read of the resource's
// header fields. Any out-of-range read, including a null handle, yields
// the zero snapshot.
func (l *Library) TextureInfo(h ktx2.Handle) ktx2.TextureInfo {
	if h == 0 {
		return ktx2.TextureInfo{}
	}

	base := uint32(h)
	u32 := func(off uint32) uint32 {
		v, _ := l.mem.ReadUint32Le(base + off)
		return v
	}
	u8 := func(off uint32) bool {
		v, _ := l.mem.ReadByte(base + off)
		return v != 0
	}

	// Probe the last field first so a truncated read shows up as a whole
	// zero snapshot instead of a partial one.
	if _, ok := l.mem.ReadUint32Le(base + offVkFormat); !ok {
		return ktx2.TextureInfo{}
	}

	return ktx2.TextureInfo{
		BaseWidth:     u32(offBaseWidth),
		BaseHeight:    u32(offBaseHeight),
		BaseDepth:     u32(offBaseDepth),
		NumDimensions: u32(offNumDimensions),
		NumLevels:     u32(offNumLevels),
		NumLayers:     u32(offNumLayers),
		NumFaces:      u32(offNumFaces),
		PixelFormat:   u32(offVkFormat),
		IsArray:       u8(offIsArray),
		IsCubemap:     u8(offIsCubemap),
		IsCompressed:  u8(offIsCompressed),
		DataSize:      uint64(u32(offDataSize)),
	}
}

// ImageOffset implements ktx2.Library.
func (l *Library) ImageOffset(ctx context.Context, h ktx2.Handle, level, layer, face uint32) (uint64, error) {
	outPtr, err := l.alloc(ctx, 4)
	if err != nil {
		return 0, err
	}
	defer l.freePtr(ctx, outPtr)

	err = l.status(ctx, l.fns.imageOffset,
		uint64(h), uint64(level), uint64(layer), uint64(face), uint64(outPtr))
	if err != nil {
		return 0, err
	}

	off, _ := l.mem.ReadUint32Le(outPtr)
	return uint64(off), nil
}

// ImageSize implements ktx2.Library. The native accessor returns the size
// directly; level bounds are the caller's responsibility.
func (l *Library) ImageSize(ctx context.Context, h ktx2.Handle, level uint32) (uint64, error) {
	ret, err := l.call(ctx, l.fns.imageSize, uint64(h), uint64(level))
	if err != nil {
		return 0, err
	}
	return uint64(uint32(ret)), nil
}

// ImageView implements ktx2.Library. The returned slice aliases guest
// memory directly and stays valid only until the next mutating call.
func (l *Library) ImageView(h ktx2.Handle, offset, length uint64) ([]byte, error) {
	pData, ok := l.mem.ReadUint32Le(uint32(h) + offPData)
	if !ok || pData == 0 {
		return nil, errors.InvalidOperation("texture has no image data")
	}
	if offset > uint64(^uint32(0)) || length > uint64(^uint32(0)) {
		return nil, errors.InvalidOperation("image region exceeds guest address space")
	}

	view, ok := l.mem.Read(pData+uint32(offset), uint32(length))
	if !ok {
		return nil, errors.InvalidOperation("image region out of bounds")
	}
	return view, nil
}

// WriteImage implements ktx2.Library.
func (l *Library) WriteImage(ctx context.Context, h ktx2.Handle, level, layer, face uint32, data []byte) error {
	dataPtr, err := l.writeBytes(ctx, data)
	if err != nil {
		return err
	}
	defer l.freePtr(ctx, dataPtr)

	return l.status(ctx, l.fns.setImage,
		uint64(h), uint64(level), uint64(layer), uint64(face),
		uint64(dataPtr), uint64(len(data)))
}

// FindMetadata implements ktx2.Library. The returned value is an owned
// copy; the native list keeps its own storage.
func (l *Library) FindMetadata(ctx context.Context, h ktx2.Handle, key string) ([]byte, error) {
	keyPtr, err := l.cstring(ctx, key)
	if err != nil {
		return nil, err
	}
	defer l.freePtr(ctx, keyPtr)

	// Out params: value length at +0, value pointer at +4.
	outPtr, err := l.alloc(ctx, 8)
	if err != nil {
		return nil, err
	}
	defer l.freePtr(ctx, outPtr)

	listPtr := uint32(h) + offKVDataHead
	err = l.status(ctx, l.fns.hashListFind,
		uint64(listPtr), uint64(keyPtr), uint64(outPtr), uint64(outPtr+4))
	if err != nil {
		return nil, err
	}

	valueLen, _ := l.mem.ReadUint32Le(outPtr)
	valuePtr, _ := l.mem.ReadUint32Le(outPtr + 4)
	if valuePtr == 0 {
		return nil, errors.FromCode(errors.CodeNotFound)
	}

	value, ok := l.mem.Read(valuePtr, valueLen)
	if !ok {
		return nil, errors.InvalidOperation("metadata value out of bounds")
	}
	return bytes.Clone(value), nil
}

// AddMetadata implements ktx2.Library.
func (l *Library) AddMetadata(ctx context.Context, h ktx2.Handle, key string, value []byte) error {
	keyPtr, err := l.cstring(ctx, key)
	if err != nil {
		return err
	}
	defer l.freePtr(ctx, keyPtr)

	var valuePtr uint32
	if len(value) > 0 {
		valuePtr, err = l.writeBytes(ctx, value)
		if err != nil {
			return err
		}
		defer l.freePtr(ctx, valuePtr)
	}

	listPtr := uint32(h) + offKVDataHead
	return l.status(ctx, l.fns.hashListAdd,
		uint64(listPtr), uint64(keyPtr), uint64(len(value)), uint64(valuePtr))
}

// CompressBasis implements ktx2.Library.
func (l *Library) CompressBasis(ctx context.Context, h ktx2.Handle, quality uint32) error {
	return l.status(ctx, l.fns.compressBasis, uint64(h), uint64(quality))
}

// CompressBasisEx implements ktx2.Library. The parameter block lives on the
// guest heap only for the duration of the call.
func (l *Library) CompressBasisEx(ctx context.Context, h ktx2.Handle, params ktx2.CompressionParams) error {
	paramsPtr, err := l.writeBytes(ctx, marshalBasisParams(params))
	if err != nil {
		return err
	}
	defer l.freePtr(ctx, paramsPtr)

	return l.status(ctx, l.fns.compressBasisEx, uint64(h), uint64(paramsPtr))
}

// TranscodeBasis implements ktx2.Library. No transcode flags are exposed.
func (l *Library) TranscodeBasis(ctx context.Context, h ktx2.Handle, target format.TranscodeFormat) error {
	return l.status(ctx, l.fns.transcodeBasis, uint64(h), uint64(target.Raw()), 0)
}

// NeedsTranscoding implements ktx2.Library. A build without the probe, or
// a probe that traps, answers false.
func (l *Library) NeedsTranscoding(ctx context.Context, h ktx2.Handle) bool {
	if l.fns.needsTranscoding == nil {
		return false
	}
	ret, err := l.call(ctx, l.fns.needsTranscoding, uint64(h))
	if err != nil {
		return false
	}
	return uint32(ret) != 0
}

// WriteToMemory implements ktx2.Library. The native serializer allocates
// the destination on the guest heap; the bytes are copied out and the
// guest allocation is released before returning, so the caller owns the
// result outright.
func (l *Library) WriteToMemory(ctx context.Context, h ktx2.Handle) ([]byte, error) {
	// Out params: destination pointer at +0, size at +4.
	outPtr, err := l.alloc(ctx, 8)
	if err != nil {
		return nil, err
	}
	defer l.freePtr(ctx, outPtr)

	if err := l.status(ctx, l.fns.writeToMemory, uint64(h), uint64(outPtr), uint64(outPtr+4)); err != nil {
		return nil, err
	}

	dstPtr, _ := l.mem.ReadUint32Le(outPtr)
	dstLen, _ := l.mem.ReadUint32Le(outPtr + 4)
	if dstPtr == 0 || dstLen == 0 {
		return nil, nil
	}
	defer l.freePtr(ctx, dstPtr)

	data, ok := l.mem.Read(dstPtr, dstLen)
	if !ok {
		return nil, errors.InvalidOperation("serialized container out of bounds")
	}
	return bytes.Clone(data), nil
}

// WriteToFile implements ktx2.Library. The path is resolved inside the
// guest filesystem.
func (l *Library) WriteToFile(ctx context.Context, h ktx2.Handle, path string) error {
	pathPtr, err := l.cstring(ctx, path)
	if err != nil {
		return err
	}
	defer l.freePtr(ctx, pathPtr)

	return l.status(ctx, l.fns.writeToFile, uint64(h), uint64(pathPtr))
}
