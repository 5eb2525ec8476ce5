// Package engine hosts the native KTX library as a WebAssembly module and
// implements the ktx2.Library contract over it.
//
// The native collaborator is a wasi-sdk build of libktx pinned to this
// package's ABI: the exported entry points listed in abi.go, the wasm32
// struct layouts encoded there, and an exported malloc/free pair whose
// allocations the engine uses for call scratch. File-based entry points
// resolve paths through WASI preopens configured by Config.Mounts.
//
// An Engine may load several libraries and is safe to share; a loaded
// Library is a single native instance and is NOT safe for concurrent use
// from multiple goroutines — serialize access externally, as the native
// library's own thread-safety for one resource is not guaranteed.
//
// Buffers crossing the boundary: inputs are copied into guest scratch for
// the duration of a call and freed before returning; image reads are
// zero-copy views of guest linear memory; serialization output is copied
// out exactly once because Go cannot adopt a guest allocation, and the
// guest block is then released with the module's own free.
package engine
