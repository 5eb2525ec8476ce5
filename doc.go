// Package ktx2 provides a safe, high-level wrapper for reading, writing,
// compressing, and transcoding KTX2 textures over a WebAssembly build of the
// native KTX library.
//
// The native library owns all container parsing, Basis Universal encoding
// (ETC1S and UASTC), and GPU block-format transcoding. This package owns
// everything that makes those capabilities safe to call: handle lifecycle,
// boundary validation before every native call, status-code translation into
// a typed error taxonomy, and the copy/no-copy decisions for buffers that
// cross the guest memory boundary.
//
// # Architecture Overview
//
//	ktx2/           Texture handle, compression parameters, Library contract
//	├── engine/     wazero-backed Library implementation hosting libktx.wasm
//	├── errors/     Error taxonomy and native status translation
//	└── format/     Pixel format and transcode target format tables
//
// # Quick Start
//
//	eng, err := engine.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close(ctx)
//
//	lib, err := eng.Load(ctx, libktxWasm)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tex, err := ktx2.NewTexture(ctx, lib, 512, 512, 1, 1, 1, 1, format.PixelFormatR8G8B8A8Unorm)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tex.Close(ctx)
//
//	if err := tex.WriteImage(ctx, 0, 0, 0, pixels); err != nil {
//	    log.Fatal(err)
//	}
//	params := ktx2.NewCompressionParams().QualityLevel(128).Build()
//	if err := tex.CompressBasisEx(ctx, params); err != nil {
//	    log.Fatal(err)
//	}
//	data, err := tex.WriteToMemory(ctx)
//
// # Ownership
//
// A Texture owns exactly one native resource. Close releases it exactly
// once; use defer tex.Close(ctx) so every exit path releases. Textures are
// never duplicated implicitly — a second independently-owned handle is
// obtained only by re-deriving it, typically WriteToMemory followed by
// TextureFromMemory.
//
// # Thread Safety
//
// Every operation is a direct blocking call into the native library. A
// Texture may move between goroutines, but concurrent operations on the same
// Texture (or on two Textures sharing one Library instance) must be
// serialized by the caller. CompressionParams and the format tables are
// immutable values and freely shareable.
package ktx2
