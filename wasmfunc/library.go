package wasmfunc

import (
	"context"
	"slices"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/script-runtime/bind"
	"github.com/wippyai/script-runtime/errors"
	"github.com/wippyai/script-runtime/value"
)

// Config holds configuration for loading a library
type Config struct {
	// Logger overrides the package logger.
	Logger *zap.Logger

	// Name is the instance name. Empty leaves the module anonymous.
	Name string

	// MemoryLimitPages sets the maximum memory of the instance in pages
	// (64KB each). 0 means the wazero default.
	MemoryLimitPages uint32
}

// Library is an instantiated core WebAssembly module whose exported
// functions can be bound as operations.
type Library struct {
	// ctx carries the values of the Load context, without its cancellation,
	// into calls made by bound instructions.
	ctx     context.Context
	runtime wazero.Runtime
	module  api.Module
	defs    map[string]api.FunctionDefinition
	logger  *zap.Logger
}

// Load compiles and instantiates a core module. Calls made from bound
// instructions see the values of ctx but outlive its cancellation.
func Load(ctx context.Context, wasm []byte, cfg *Config) (*Library, error) {
	if len(wasm) == 0 {
		return nil, errors.InvalidData(errors.PhaseLoad, "empty module")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	log := cfg.Logger
	if log == nil {
		log = Logger()
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	compiled, err := rt.CompileModule(ctx, wasm)
	if err != nil {
		return nil, multierr.Append(errors.Load("compile module", err), rt.Close(ctx))
	}
	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(cfg.Name))
	if err != nil {
		// Libraries get no host modules, so unresolved imports land here.
		return nil, multierr.Append(errors.Wrap(errors.PhaseLoad, errors.KindUnsupported, err, "instantiate module"), rt.Close(ctx))
	}

	l := &Library{
		ctx:     context.WithoutCancel(ctx),
		runtime: rt,
		module:  mod,
		defs:    mod.ExportedFunctionDefinitions(),
		logger:  log,
	}
	log.Debug("wasm library loaded",
		zap.String("name", cfg.Name),
		zap.Int("exports", len(l.defs)))
	return l, nil
}

// Exports returns the names of the exported functions, sorted.
func (l *Library) Exports() []string {
	names := make([]string, 0, len(l.defs))
	for name := range l.defs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Def returns a definition calling the export name. Parameters and the
// result map i32, i64, f32 and f64 to int32, int64, float32 and float64
// slots. A trap inside the call ends the run with a trap error.
func (l *Library) Def(name string) (*bind.FunctionDef, error) {
	def, ok := l.defs[name]
	fn := l.module.ExportedFunction(name)
	if !ok || fn == nil {
		return nil, errors.NotFound(errors.PhaseLoad, "export", name)
	}
	params, result, err := signature(name, def)
	if err != nil {
		return nil, err
	}

	ids := make([]*value.TypeID, len(params))
	for i, c := range params {
		ids[i] = c.id
	}
	var rid *value.TypeID
	if result != nil {
		rid = result.id
	}

	ctx := l.ctx
	return bind.Dynamic(rid, ids, func() bind.DynamicFunc {
		stack := make([]uint64, max(len(params), 1))
		return func(args []value.Holder, ret value.Holder) error {
			for i, c := range params {
				v, err := c.encode(args[i])
				if err != nil {
					return err
				}
				stack[i] = v
			}
			if err := fn.CallWithStack(ctx, stack); err != nil {
				return errors.Trap(name, err)
			}
			if ret != nil {
				return result.decode(ret, stack[0])
			}
			return nil
		}
	}), nil
}

// Define registers exports on m under their own names. Without names every
// export with a supported signature is registered and the rest are skipped.
func (l *Library) Define(m *bind.Module, names ...string) error {
	if len(names) == 0 {
		for _, name := range l.Exports() {
			def, err := l.Def(name)
			if err != nil {
				l.logger.Debug("skipping export", zap.String("name", name), zap.Error(err))
				continue
			}
			m.Def(name, def)
		}
		return nil
	}

	var errs error
	for _, name := range names {
		def, err := l.Def(name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		m.Def(name, def)
	}
	return errs
}

// Close closes the module and its runtime.
func (l *Library) Close(ctx context.Context) error {
	return multierr.Combine(
		l.module.Close(ctx),
		l.runtime.Close(ctx),
	)
}
