package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/wippyai/ktx2-wasm/errors"
)

// Engine hosts libktx builds on a wazero runtime. One engine may load
// several library instances; each instance gets its own linear memory.
type Engine struct {
	runtime      wazero.Runtime
	mounts       []Mount
	wasiInitMu   sync.Mutex
	wasiInitDone atomic.Bool
}

// Mount maps a host directory into the guest filesystem. File-based entry
// points (TextureFromFile, WriteToFile) resolve paths against these mounts.
type Mount struct {
	Host  string
	Guest string
}

// Config holds configuration for engine creation
type Config struct {
	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means default (65536 pages = 4GB).
	// 256 = 16MB, 1024 = 64MB, 4096 = 256MB
	MemoryLimitPages uint32

	// Mounts exposes host directories to the guest. With no mounts the
	// guest filesystem is empty and file-based entry points fail with
	// a file-open error.
	Mounts []Mount
}

// New creates an engine with default configuration.
func New(ctx context.Context) (*Engine, error) {
	return NewWithConfig(ctx, nil)
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(ctx context.Context, cfg *Config) (*Engine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()

	var mounts []Mount
	if cfg != nil {
		if cfg.MemoryLimitPages > 0 {
			runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
		}
		mounts = cfg.Mounts
	}

	runtime := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
	return &Engine{runtime: runtime, mounts: mounts}, nil
}

// Close releases the runtime and every library instance loaded from it.
func (e *Engine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// initWASI instantiates the WASI singleton for this engine's runtime.
// Safe for concurrent calls from multiple loads sharing the same engine.
func (e *Engine) initWASI(ctx context.Context) error {
	if e.wasiInitDone.Load() {
		return nil
	}

	e.wasiInitMu.Lock()
	defer e.wasiInitMu.Unlock()

	if e.wasiInitDone.Load() {
		return nil
	}

	if e.runtime.Module(wasi_snapshot_preview1.ModuleName) != nil {
		e.wasiInitDone.Store(true)
		return nil
	}

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, e.runtime); err != nil {
		// If another path initialized WASI concurrently in the same runtime,
		// treat it as success and mark done.
		if e.runtime.Module(wasi_snapshot_preview1.ModuleName) == nil {
			return fmt.Errorf("instantiate WASI: %w", err)
		}
	}

	e.wasiInitDone.Store(true)
	return nil
}

// exports is the set of resolved guest entry points. needsTranscoding is
// the only optional one; its absence makes the capability query answer
// false.
type exports struct {
	malloc api.Function
	free   api.Function

	create     api.Function
	fromMemory api.Function
	fromFile   api.Function
	destroy    api.Function

	imageOffset api.Function
	imageSize   api.Function
	setImage    api.Function

	needsTranscoding api.Function

	hashListFind api.Function
	hashListAdd  api.Function

	writeToMemory api.Function
	writeToFile   api.Function

	compressBasis   api.Function
	compressBasisEx api.Function
	transcodeBasis  api.Function
}

// Load compiles and instantiates a libktx build. The returned Library is
// bound to one module instance and is not safe for concurrent use.
func (e *Engine) Load(ctx context.Context, wasmBytes []byte) (*Library, error) {
	if err := e.initWASI(ctx); err != nil {
		return nil, err
	}

	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("compile failed: %w", err)
	}

	fsCfg := wazero.NewFSConfig()
	for _, m := range e.mounts {
		fsCfg = fsCfg.WithDirMount(m.Host, m.Guest)
	}

	// Anonymous instance name so repeated loads do not collide; the build
	// is a reactor module, so run _initialize instead of _start.
	modCfg := wazero.NewModuleConfig().
		WithName("").
		WithStartFunctions("_initialize").
		WithFSConfig(fsCfg)

	mod, err := e.runtime.InstantiateModule(ctx, compiled, modCfg)
	if err != nil {
		return nil, fmt.Errorf("instantiate failed: %w", err)
	}

	lib := &Library{mod: mod, mem: mod.Memory()}
	if err := lib.resolveExports(); err != nil {
		_ = mod.Close(ctx)
		return nil, err
	}

	Logger().Debug("library loaded",
		zap.String("module", mod.Name()),
		zap.Uint32("memory_pages", lib.mem.Size()/65536))

	return lib, nil
}

func (l *Library) resolveExports() error {
	required := []struct {
		name string
		dst  *api.Function
	}{
		{fnMalloc, &l.fns.malloc},
		{fnFree, &l.fns.free},
		{fnCreate, &l.fns.create},
		{fnFromMemory, &l.fns.fromMemory},
		{fnFromFile, &l.fns.fromFile},
		{fnDestroy, &l.fns.destroy},
		{fnGetImageOffset, &l.fns.imageOffset},
		{fnGetImageSize, &l.fns.imageSize},
		{fnSetImage, &l.fns.setImage},
		{fnHashListFindValue, &l.fns.hashListFind},
		{fnHashListAddKVPair, &l.fns.hashListAdd},
		{fnWriteToMemory, &l.fns.writeToMemory},
		{fnWriteToFile, &l.fns.writeToFile},
		{fnCompressBasis, &l.fns.compressBasis},
		{fnCompressBasisEx, &l.fns.compressBasisEx},
		{fnTranscodeBasis, &l.fns.transcodeBasis},
	}

	for _, r := range required {
		fn := l.mod.ExportedFunction(r.name)
		if fn == nil {
			return &errors.Error{
				Kind:   errors.KindLibraryNotLinked,
				Detail: fmt.Sprintf("missing export %q", r.name),
			}
		}
		*r.dst = fn
	}

	// Optional capability probe. Absence means the build predates the
	// query; callers get a false answer, never an error.
	l.fns.needsTranscoding = l.mod.ExportedFunction(fnNeedsTranscoding)

	return nil
}
