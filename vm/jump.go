package vm

import (
	"cmp"
	"reflect"

	"github.com/wippyai/script-runtime/errors"
)

// Outcome is implemented by result types that drive a jump table directly.
// Outcomes must work on the zero value.
type Outcome interface {
	Outcomes() int
	OutcomeIndex() int
}

// Ordering is a three-way comparison result.
type Ordering int

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

func (o Ordering) Outcomes() int { return 3 }

func (o Ordering) OutcomeIndex() int {
	switch {
	case o < 0:
		return 0
	case o > 0:
		return 2
	}
	return 1
}

func (o Ordering) String() string {
	switch {
	case o < 0:
		return "less"
	case o > 0:
		return "greater"
	}
	return "equal"
}

// Compare orders a and b.
func Compare[T cmp.Ordered](a, b T) Ordering {
	return Ordering(cmp.Compare(a, b))
}

// Unconditional is the result of an operation that always jumps.
type Unconditional struct{}

func (Unconditional) Outcomes() int     { return 1 }
func (Unconditional) OutcomeIndex() int { return 0 }

// JumpTraits maps values of T to jump table indexes.
type JumpTraits[T any] interface {
	Outcomes() int
	Index(v T) int
}

type boolTraits struct{}

func (boolTraits) Outcomes() int { return 2 }

func (boolTraits) Index(v bool) int {
	if v {
		return 0
	}
	return 1
}

// intTraits follows the cmp convention: negative, zero, positive.
type intTraits struct{}

func (intTraits) Outcomes() int { return 3 }

func (intTraits) Index(v int) int {
	return Ordering(v).OutcomeIndex()
}

type outcomeTraits[T any] struct {
	n int
}

func (t outcomeTraits[T]) Outcomes() int { return t.n }

func (t outcomeTraits[T]) Index(v T) int {
	return any(v).(Outcome).OutcomeIndex()
}

// TraitsOf returns the jump traits of T, if T can drive a jump table.
func TraitsOf[T any]() (JumpTraits[T], bool) {
	var zero T
	switch any(zero).(type) {
	case bool:
		return any(boolTraits{}).(JumpTraits[T]), true
	case int:
		return any(intTraits{}).(JumpTraits[T]), true
	case Outcome:
		return outcomeTraits[T]{n: any(zero).(Outcome).Outcomes()}, true
	}
	return nil, false
}

// JumpTable turns a result of type T into a relative jump.
type JumpTable[T any] struct {
	traits  JumpTraits[T]
	offsets []int
}

// NewJumpTable creates a table with one offset per outcome of T.
func NewJumpTable[T any](offsets []int) (*JumpTable[T], error) {
	name := reflect.TypeFor[T]().String()
	traits, ok := TraitsOf[T]()
	if !ok {
		return nil, errors.New(errors.PhaseBind, errors.KindJumpTable).
			GoType(name).
			Detail("type has no jump outcomes").
			Build()
	}
	if len(offsets) != traits.Outcomes() {
		return nil, errors.JumpTable(name, len(offsets), traits.Outcomes())
	}
	return &JumpTable[T]{traits: traits, offsets: append([]int(nil), offsets...)}, nil
}

// Offsets returns the offsets, indexed by outcome.
func (t *JumpTable[T]) Offsets() []int {
	return append([]int(nil), t.offsets...)
}

// Jump issues the jump for v.
func (t *JumpTable[T]) Jump(ctx *ExecutionContext, v T) {
	ctx.Jump(t.offsets[t.traits.Index(v)])
}
