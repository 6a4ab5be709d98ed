package bind

import (
	"github.com/wippyai/script-runtime/errors"
	"github.com/wippyai/script-runtime/value"
	"github.com/wippyai/script-runtime/vm"
)

type none = struct{}

func def0[R any](result *value.TypeID, fn func() (R, error)) *FunctionDef {
	return &FunctionDef{
		result: result,
		jumps:  result != nil && canJump[R](),
		build: func(fc *FunctionContext) (vm.Function, error) {
			out, err := newSink[R](fc)
			if err != nil {
				return nil, err
			}
			return &call0[R]{fn: fn, out: out}, nil
		},
	}
}

func def1[R, A any](result *value.TypeID, fn func(*A) (R, error)) *FunctionDef {
	return &FunctionDef{
		result: result,
		params: []*value.TypeID{value.TypeOf[A]()},
		jumps:  result != nil && canJump[R](),
		build: func(fc *FunctionContext) (vm.Function, error) {
			out, err := newSink[R](fc)
			if err != nil {
				return nil, err
			}
			return &call1[R, A]{
				fn:  fn,
				a:   newAccessor[A](fc, fc.Args[0]),
				out: out,
			}, nil
		},
	}
}

func def2[R, A, B any](result *value.TypeID, fn func(*A, *B) (R, error)) *FunctionDef {
	return &FunctionDef{
		result: result,
		params: []*value.TypeID{value.TypeOf[A](), value.TypeOf[B]()},
		jumps:  result != nil && canJump[R](),
		build: func(fc *FunctionContext) (vm.Function, error) {
			out, err := newSink[R](fc)
			if err != nil {
				return nil, err
			}
			return &call2[R, A, B]{
				fn:  fn,
				a:   newAccessor[A](fc, fc.Args[0]),
				b:   newAccessor[B](fc, fc.Args[1]),
				out: out,
			}, nil
		},
	}
}

func def3[R, A, B, C any](result *value.TypeID, fn func(*A, *B, *C) (R, error)) *FunctionDef {
	return &FunctionDef{
		result: result,
		params: []*value.TypeID{value.TypeOf[A](), value.TypeOf[B](), value.TypeOf[C]()},
		jumps:  result != nil && canJump[R](),
		build: func(fc *FunctionContext) (vm.Function, error) {
			out, err := newSink[R](fc)
			if err != nil {
				return nil, err
			}
			return &call3[R, A, B, C]{
				fn:  fn,
				a:   newAccessor[A](fc, fc.Args[0]),
				b:   newAccessor[B](fc, fc.Args[1]),
				c:   newAccessor[C](fc, fc.Args[2]),
				out: out,
			}, nil
		},
	}
}

// Func0 defines a function without arguments.
func Func0[R any](f func() R) *FunctionDef {
	return def0(value.TypeOf[R](), func() (R, error) { return f(), nil })
}

// Func1 defines a function of one place. Arguments are passed by pointer
// into slot memory, so the function may update them in place.
func Func1[R, A any](f func(*A) R) *FunctionDef {
	return def1(value.TypeOf[R](), func(a *A) (R, error) { return f(a), nil })
}

func Func2[R, A, B any](f func(*A, *B) R) *FunctionDef {
	return def2(value.TypeOf[R](), func(a *A, b *B) (R, error) { return f(a, b), nil })
}

func Func3[R, A, B, C any](f func(*A, *B, *C) R) *FunctionDef {
	return def3(value.TypeOf[R](), func(a *A, b *B, c *C) (R, error) { return f(a, b, c), nil })
}

// Try0 defines a fallible function. A non-nil error ends the run and is
// returned from it unchanged; the result is not stored.
func Try0[R any](f func() (R, error)) *FunctionDef {
	return def0(value.TypeOf[R](), f)
}

func Try1[R, A any](f func(*A) (R, error)) *FunctionDef {
	return def1(value.TypeOf[R](), f)
}

func Try2[R, A, B any](f func(*A, *B) (R, error)) *FunctionDef {
	return def2(value.TypeOf[R](), f)
}

func Try3[R, A, B, C any](f func(*A, *B, *C) (R, error)) *FunctionDef {
	return def3(value.TypeOf[R](), f)
}

// Proc0 defines a function without a result. It binds only to a Void
// return place.
func Proc0(f func()) *FunctionDef {
	return def0(nil, func() (none, error) { f(); return none{}, nil })
}

func Proc1[A any](f func(*A)) *FunctionDef {
	return def1(nil, func(a *A) (none, error) { f(a); return none{}, nil })
}

func Proc2[A, B any](f func(*A, *B)) *FunctionDef {
	return def2(nil, func(a *A, b *B) (none, error) { f(a, b); return none{}, nil })
}

func Proc3[A, B, C any](f func(*A, *B, *C)) *FunctionDef {
	return def3(nil, func(a *A, b *B, c *C) (none, error) { f(a, b, c); return none{}, nil })
}

// Pure1 defines a function taking its argument by value, such as a value
// receiver method expression.
func Pure1[R, A any](f func(A) R) *FunctionDef {
	return def1(value.TypeOf[R](), func(a *A) (R, error) { return f(*a), nil })
}

func Pure2[R, A, B any](f func(A, B) R) *FunctionDef {
	return def2(value.TypeOf[R](), func(a *A, b *B) (R, error) { return f(*a, *b), nil })
}

// Method0 defines a pointer receiver method without arguments, e.g.
// (*big.Int).Sign.
func Method0[R, T any](f func(*T) R) *FunctionDef {
	return Func1(f)
}

// Method1 defines a pointer receiver method with one by-value argument,
// e.g. (*big.Int).SetUint64.
func Method1[R, T, A any](f func(*T, A) R) *FunctionDef {
	return def2(value.TypeOf[R](), func(t *T, a *A) (R, error) { return f(t, *a), nil })
}

func Method2[R, T, A, B any](f func(*T, A, B) R) *FunctionDef {
	return def3(value.TypeOf[R](), func(t *T, a *A, b *B) (R, error) { return f(t, *a, *b), nil })
}

// Const defines a function returning v.
func Const[T any](v T) *FunctionDef {
	return def0(value.TypeOf[T](), func() (T, error) { return v, nil })
}

// Zero defines a function returning the zero value of T.
func Zero[T any]() *FunctionDef {
	return def0(value.TypeOf[T](), func() (T, error) {
		var zero T
		return zero, nil
	})
}

// DynamicFunc is a native function over erased holders. ret is nil when the
// result is discarded.
type DynamicFunc func(args []value.Holder, ret value.Holder) error

// Dynamic defines a function whose signature is known only at runtime.
// factory is called once per bound instruction, so the returned function
// may keep per-instruction state. Dynamic definitions do not drive jump
// tables.
func Dynamic(result *value.TypeID, params []*value.TypeID, factory func() DynamicFunc) *FunctionDef {
	return &FunctionDef{
		result: result,
		params: append([]*value.TypeID(nil), params...),
		build: func(fc *FunctionContext) (vm.Function, error) {
			if fc.Options.Has(Jump) {
				return nil, errors.Unsupported(errors.PhaseBind, "jump shape for dynamic function")
			}
			c := &dynamicCall{
				fn:   factory(),
				args: make([]holderAccess, len(fc.Args)),
				buf:  make([]value.Holder, len(fc.Args)),
			}
			if fc.Return.Space != vm.Void {
				c.ret = newHolderAccess(fc, fc.Return)
			}
			for i, p := range fc.Args {
				c.args[i] = newHolderAccess(fc, p)
			}
			return c, nil
		},
	}
}
