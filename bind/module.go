package bind

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/script-runtime/errors"
	"github.com/wippyai/script-runtime/vm"
)

// Module is a named registry of overload sets. It is safe for concurrent
// use and may serve any number of code blocks.
type Module struct {
	name   string
	defs   map[string][]*FunctionDef
	names  []string
	logger *zap.Logger
	mu     sync.RWMutex
}

// NewModule creates an empty module.
func NewModule(name string) *Module {
	return &Module{
		name:   name,
		defs:   make(map[string][]*FunctionDef),
		logger: Logger().With(zap.String("module", name)),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return m.name
}

// Def appends overloads under name. Overloads are tried in the order they
// were added, so register the more specific ones first.
func (m *Module) Def(name string, defs ...*FunctionDef) *Module {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.defs[name]; !ok {
		m.names = append(m.names, name)
	}
	m.defs[name] = append(m.defs[name], defs...)
	return m
}

// Overloads returns the definitions registered under name.
func (m *Module) Overloads(name string) []*FunctionDef {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*FunctionDef(nil), m.defs[name]...)
}

// Names returns the operation names in registration order.
func (m *Module) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.names...)
}

// BuildFunction binds fc to the first overload of fc.Name that accepts it.
func (m *Module) BuildFunction(fc *FunctionContext) (vm.Function, error) {
	overloads := m.Overloads(fc.Name)
	if len(overloads) == 0 {
		return nil, errors.NotFound(errors.PhaseBind, "operation", fc.Name)
	}

	for i, d := range overloads {
		fn, err := d.bind(fc)
		if err == nil {
			return fn, nil
		}
		m.logger.Debug("overload rejected",
			zap.String("op", fc.Name),
			zap.Int("overload", i),
			zap.Stringer("signature", d),
			zap.Error(err))
	}
	err := errors.NoOverload(fc.Name, describe(fc.Code, fc.Args))
	if fc.Return.Space != vm.Void {
		err.Place = fc.Return.String()
		err.SlotType = describe(fc.Code, []vm.Place{fc.Return})[0]
	}
	return nil, err
}

// Assemble binds every request against code and appends the instructions in
// order. Requests without a code block are bound against code. When any
// request fails nothing is appended, the caches registered by the other
// requests are dropped and the error lists every failure.
func (m *Module) Assemble(code *vm.CodeBlock, reqs ...*FunctionContext) error {
	fns := make([]vm.Function, 0, len(reqs))
	marks := map[*vm.CodeBlock]int{code: code.CacheMark()}
	var failed []errors.Unresolved
	for i, fc := range reqs {
		if fc.Code == nil {
			fc.Code = code
		}
		if _, ok := marks[fc.Code]; !ok {
			marks[fc.Code] = fc.Code.CacheMark()
		}
		fn, err := m.BuildFunction(fc)
		if err != nil {
			failed = append(failed, errors.Unresolved{Cause: err, Op: fc.Name, Index: i})
			continue
		}
		fns = append(fns, fn)
	}
	if len(failed) > 0 {
		for c, mark := range marks {
			c.TruncateCaches(mark)
		}
		return errors.NewUnresolvedError(failed)
	}

	code.Append(fns...)
	m.logger.Debug("assembled", zap.Int("operations", len(fns)), zap.Int("total", len(code.Operations)))
	return nil
}

// describe lists the declared types of places for error messages.
func describe(code *vm.CodeBlock, places []vm.Place) []string {
	name := func(p vm.Place) string {
		if code == nil {
			return p.String()
		}
		if id, ok := code.PlaceType(p); ok {
			return id.Name()
		}
		return p.String() + "?"
	}

	types := make([]string, len(places))
	for i, p := range places {
		types[i] = name(p)
	}
	return types
}
