package bind

import (
	"fmt"
	"strings"

	"github.com/wippyai/script-runtime/errors"
	"github.com/wippyai/script-runtime/value"
	"github.com/wippyai/script-runtime/vm"
)

// FunctionDef is one bindable native function: its signature as type
// identities plus a builder producing instructions for concrete places.
// Definitions are immutable and may be shared by many modules.
type FunctionDef struct {
	result      *value.TypeID // nil when the function has no result
	params      []*value.TypeID
	exactResult bool
	exactParams bool
	jumps       bool // result can drive a jump table
	build       func(fc *FunctionContext) (vm.Function, error)
}

// Result returns the result identity, or nil.
func (d *FunctionDef) Result() *value.TypeID {
	return d.result
}

// Params returns the parameter identities.
func (d *FunctionDef) Params() []*value.TypeID {
	return append([]*value.TypeID(nil), d.params...)
}

// String renders the signature, e.g. "(int64, int64) -> bool".
func (d *FunctionDef) String() string {
	names := make([]string, len(d.params))
	for i, p := range d.params {
		names[i] = p.Name()
	}
	sig := "(" + strings.Join(names, ", ") + ")"
	if d.result != nil {
		sig += " -> " + d.result.Name()
	}
	return sig
}

// WithParams narrows the definition to slots of exactly the given
// identities, e.g. value.AliasOf[T]() to accept only aliasing slots. Each
// identity must share its base with the parameter it replaces.
func (d *FunctionDef) WithParams(ids ...*value.TypeID) *FunctionDef {
	if len(ids) != len(d.params) {
		panic(fmt.Sprintf("bind: WithParams got %d identities for %d parameters", len(ids), len(d.params)))
	}
	for i, id := range ids {
		if id.Base() != d.params[i].Base() {
			panic(fmt.Sprintf("bind: WithParams identity %s does not fit parameter %s", id, d.params[i]))
		}
	}
	nd := *d
	nd.params = append([]*value.TypeID(nil), ids...)
	nd.exactParams = true
	return &nd
}

// WithResult narrows the definition to return slots of exactly id.
func (d *FunctionDef) WithResult(id *value.TypeID) *FunctionDef {
	if d.result == nil || id.Base() != d.result.Base() {
		panic(fmt.Sprintf("bind: WithResult identity %s does not fit result %s", id, d.result))
	}
	nd := *d
	nd.result = id
	nd.exactResult = true
	return &nd
}

// BuildFunction returns an instruction for fc, or false when the request
// does not fit this definition. Caches are registered only for successful
// builds.
func (d *FunctionDef) BuildFunction(fc *FunctionContext) (vm.Function, bool) {
	fn, err := d.bind(fc)
	return fn, err == nil
}

// bind is BuildFunction with the reason for a mismatch.
func (d *FunctionDef) bind(fc *FunctionContext) (vm.Function, error) {
	if fc.Code == nil {
		return nil, errors.InvalidInput(errors.PhaseBind, "function context has no code block")
	}
	if len(fc.Args) != len(d.params) {
		return nil, errors.Arity(errors.PhaseBind, fc.Name, len(fc.Args), len(d.params))
	}
	for i, p := range fc.Args {
		got, ok := fc.Code.PlaceType(p)
		if !ok {
			return nil, errors.New(errors.PhaseBind, errors.KindOutOfBounds).
				Op(fc.Name).
				Place(p.String()).
				Detail("argument %d is not a declared place", i).
				Build()
		}
		if !matches(got, d.params[i], d.exactParams) {
			return nil, errors.TypeMismatch(errors.PhaseBind, p.String(), d.params[i].Name(), got.Name())
		}
	}

	if fc.Options.Has(Jump) {
		if fc.Return.Space != vm.Void {
			return nil, errors.InvalidInput(errors.PhaseBind, "jump operations return nothing")
		}
		if !d.jumps {
			return nil, errors.New(errors.PhaseBind, errors.KindJumpTable).
				Op(fc.Name).
				GoType(d.result.Name()).
				Detail("result cannot drive a jump table").
				Build()
		}
	} else if fc.Return.Space != vm.Void {
		got, ok := fc.Code.PlaceType(fc.Return)
		if !ok {
			return nil, errors.New(errors.PhaseBind, errors.KindOutOfBounds).
				Op(fc.Name).
				Place(fc.Return.String()).
				Detail("return is not a declared place").
				Build()
		}
		if d.result == nil {
			return nil, errors.New(errors.PhaseBind, errors.KindTypeMismatch).
				Op(fc.Name).
				Place(fc.Return.String()).
				Detail("function has no result").
				Build()
		}
		if !matches(got, d.result, d.exactResult) {
			return nil, errors.TypeMismatch(errors.PhaseBind, fc.Return.String(), d.result.Name(), got.Name())
		}
	}

	return d.build(fc)
}

func matches(slot, param *value.TypeID, exact bool) bool {
	if exact {
		return slot == param
	}
	return slot.Base() == param.Base()
}

// sink consumes the result of a call.
type sink[R any] interface {
	put(ctx *vm.ExecutionContext, r R)
}

type discard[R any] struct{}

func (discard[R]) put(*vm.ExecutionContext, R) {}

type store[R any] struct {
	dst Accessor[R]
}

func (s store[R]) put(ctx *vm.ExecutionContext, r R) {
	*s.dst.Get(ctx) = r
}

type branch[R any] struct {
	table *vm.JumpTable[R]
}

func (b branch[R]) put(ctx *vm.ExecutionContext, r R) {
	b.table.Jump(ctx, r)
}

// newSink picks the shape for an already validated request.
func newSink[R any](fc *FunctionContext) (sink[R], error) {
	switch {
	case fc.Options.Has(Jump):
		table, err := vm.NewJumpTable[R](fc.Jumps)
		if err != nil {
			return nil, err
		}
		return branch[R]{table: table}, nil
	case fc.Return.Space == vm.Void:
		return discard[R]{}, nil
	default:
		return store[R]{dst: newAccessor[R](fc, fc.Return)}, nil
	}
}

func canJump[R any]() bool {
	_, ok := vm.TraitsOf[R]()
	return ok
}
