package bind

import (
	"github.com/wippyai/script-runtime/value"
	"github.com/wippyai/script-runtime/vm"
)

// Accessor resolves the value of one place during execution.
type Accessor[T any] interface {
	Get(ctx *vm.ExecutionContext) *T
}

// StraightAccessor looks the place up on every access.
type StraightAccessor[T any] struct {
	Place vm.Place
}

func (a StraightAccessor[T]) Get(ctx *vm.ExecutionContext) *T {
	return ctx.Get(a.Place).(value.Ref[T]).Ptr()
}

// CachedAccessor reads through the pointer captured at the last cache
// refresh. It must be registered with the code block it is bound against.
type CachedAccessor[T any] struct {
	Place vm.Place
	ptr   *T
}

func (a *CachedAccessor[T]) Get(*vm.ExecutionContext) *T {
	return a.ptr
}

// Refresh implements vm.CacheEntry.
func (a *CachedAccessor[T]) Refresh(h value.Holder) {
	a.ptr = h.(value.Ref[T]).Ptr()
}

func newAccessor[T any](fc *FunctionContext, p vm.Place) Accessor[T] {
	if !fc.Options.Has(Cache) {
		return StraightAccessor[T]{Place: p}
	}
	a := &CachedAccessor[T]{Place: p}
	fc.Code.RegisterCache(p, a)
	return a
}

// holderAccess is the untyped counterpart used by dynamic definitions.
type holderAccess interface {
	holder(ctx *vm.ExecutionContext) value.Holder
}

type straightHolder vm.Place

func (p straightHolder) holder(ctx *vm.ExecutionContext) value.Holder {
	return ctx.Get(vm.Place(p))
}

type cachedHolder struct {
	h value.Holder
}

func (c *cachedHolder) holder(*vm.ExecutionContext) value.Holder { return c.h }
func (c *cachedHolder) Refresh(h value.Holder)                   { c.h = h }

func newHolderAccess(fc *FunctionContext, p vm.Place) holderAccess {
	if !fc.Options.Has(Cache) {
		return straightHolder(p)
	}
	c := &cachedHolder{}
	fc.Code.RegisterCache(p, c)
	return c
}
