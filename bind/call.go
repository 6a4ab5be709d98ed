package bind

import (
	"github.com/wippyai/script-runtime/value"
	"github.com/wippyai/script-runtime/vm"
)

// Every typed definition is normalized to a fallible function over
// pointers; the call types differ only in arity.

type call0[R any] struct {
	fn  func() (R, error)
	out sink[R]
}

func (c *call0[R]) Execute(ctx *vm.ExecutionContext) error {
	r, err := c.fn()
	if err != nil {
		return err
	}
	c.out.put(ctx, r)
	return nil
}

type call1[R, A any] struct {
	fn  func(*A) (R, error)
	a   Accessor[A]
	out sink[R]
}

func (c *call1[R, A]) Execute(ctx *vm.ExecutionContext) error {
	r, err := c.fn(c.a.Get(ctx))
	if err != nil {
		return err
	}
	c.out.put(ctx, r)
	return nil
}

type call2[R, A, B any] struct {
	fn  func(*A, *B) (R, error)
	a   Accessor[A]
	b   Accessor[B]
	out sink[R]
}

func (c *call2[R, A, B]) Execute(ctx *vm.ExecutionContext) error {
	r, err := c.fn(c.a.Get(ctx), c.b.Get(ctx))
	if err != nil {
		return err
	}
	c.out.put(ctx, r)
	return nil
}

type call3[R, A, B, C any] struct {
	fn  func(*A, *B, *C) (R, error)
	a   Accessor[A]
	b   Accessor[B]
	c   Accessor[C]
	out sink[R]
}

func (c *call3[R, A, B, C]) Execute(ctx *vm.ExecutionContext) error {
	r, err := c.fn(c.a.Get(ctx), c.b.Get(ctx), c.c.Get(ctx))
	if err != nil {
		return err
	}
	c.out.put(ctx, r)
	return nil
}

// dynamicCall passes holders to a function whose signature is only known at
// runtime.
type dynamicCall struct {
	fn   DynamicFunc
	args []holderAccess
	ret  holderAccess // nil for a discarded result
	buf  []value.Holder
}

func (c *dynamicCall) Execute(ctx *vm.ExecutionContext) error {
	for i, a := range c.args {
		c.buf[i] = a.holder(ctx)
	}
	var ret value.Holder
	if c.ret != nil {
		ret = c.ret.holder(ctx)
	}
	return c.fn(c.buf, ret)
}
