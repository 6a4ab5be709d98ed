package scriptruntime

import (
	"reflect"
	"unsafe"

	"github.com/wippyai/script-runtime/value"
)

// SlotShape describes one typed slot inside an allocation: the Go type of
// the holder stored there and its byte offset from the base.
type SlotShape struct {
	Type   reflect.Type
	Offset uintptr
}

// Allocation is one live block handed out by an Allocator.
type Allocation interface {
	// Base returns the address of the first byte. Valid until the
	// allocation is freed.
	Base() unsafe.Pointer
	Layout() value.Layout
}

// Allocator hands out aligned blocks for packed slot tables.
// Callers must pre-align the layout and every slot offset; a violation is a
// contract error and the allocator panics.
type Allocator interface {
	Alloc(layout value.Layout, slots []SlotShape) Allocation
	Free(a Allocation)
}
