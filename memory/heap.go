package memory

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"sync"
	"unsafe"

	scriptruntime "github.com/wippyai/script-runtime"
	"github.com/wippyai/script-runtime/value"
)

// Stats is a snapshot of heap accounting.
type Stats struct {
	Allocs uint64
	Frees  uint64
	InUse  uintptr // bytes held by live allocations
	Live   int
}

// Heap is an Allocator backed by the Go heap. It is safe for concurrent use.
type Heap struct {
	mu    sync.Mutex
	stats Stats
}

// NewHeap creates an empty heap.
func NewHeap() *Heap {
	return &Heap{}
}

var _ scriptruntime.Allocator = (*Heap)(nil)

type block struct {
	owner  *Heap
	v      reflect.Value
	base   unsafe.Pointer
	layout value.Layout
	freed  bool
}

func (b *block) Base() unsafe.Pointer { return b.base }
func (b *block) Layout() value.Layout { return b.layout }

// alignPads are zero-size leading fields that raise a block's alignment
// without moving any slot.
var alignPads = map[uintptr]reflect.Type{
	1: reflect.TypeFor[[0]uint8](),
	2: reflect.TypeFor[[0]uint16](),
	4: reflect.TypeFor[[0]uint32](),
	8: reflect.TypeFor[[0]uint64](),
}

// Alloc returns zeroed memory laid out for slots. It panics when the layout
// is invalid or a slot is not at its natural aligned position.
func (h *Heap) Alloc(layout value.Layout, slots []scriptruntime.SlotShape) scriptruntime.Allocation {
	if !layout.Valid() {
		panic(fmt.Sprintf("memory: unaligned allocation request (size %d, align %d)", layout.Size, layout.Align))
	}
	typ := blockType(layout, slots)

	v := reflect.New(typ)
	b := &block{
		owner:  h,
		v:      v,
		base:   v.UnsafePointer(),
		layout: layout,
	}

	h.mu.Lock()
	h.stats.Allocs++
	h.stats.Live++
	h.stats.InUse += layout.Size
	h.mu.Unlock()
	return b
}

// Free releases an allocation made by this heap. Freeing twice, or freeing
// a foreign allocation, panics.
func (h *Heap) Free(a scriptruntime.Allocation) {
	b, ok := a.(*block)
	if !ok || b.owner != h {
		panic("memory: free of foreign allocation")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if b.freed {
		panic("memory: double free")
	}
	b.freed = true
	b.v = reflect.Value{}
	b.base = nil
	h.stats.Frees++
	h.stats.Live--
	h.stats.InUse -= b.layout.Size
}

// Stats returns current accounting.
func (h *Heap) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}

func blockType(layout value.Layout, slots []scriptruntime.SlotShape) reflect.Type {
	sorted := slices.Clone(slots)
	slices.SortStableFunc(sorted, func(a, b scriptruntime.SlotShape) int {
		switch {
		case a.Offset < b.Offset:
			return -1
		case a.Offset > b.Offset:
			return 1
		}
		return 0
	})

	fields := make([]reflect.StructField, 0, len(sorted)+2)
	structAlign := uintptr(1)
	for _, s := range sorted {
		structAlign = max(structAlign, uintptr(s.Type.Align()))
	}
	if layout.Align > structAlign {
		pad, ok := alignPads[layout.Align]
		if !ok {
			panic(fmt.Sprintf("memory: unsupported block alignment %d", layout.Align))
		}
		fields = append(fields, reflect.StructField{Name: "Align", Type: pad})
	}

	slotField := make([]int, len(sorted))
	var end uintptr
	for i, s := range sorted {
		align := uintptr(s.Type.Align())
		if s.Offset%align != 0 {
			panic(fmt.Sprintf("memory: slot %d at offset %d is not aligned to %d", i, s.Offset, align))
		}
		if want := value.AlignTo(end, align); s.Offset != want {
			panic(fmt.Sprintf("memory: slot %d at offset %d, natural position is %d", i, s.Offset, want))
		}
		slotField[i] = len(fields)
		fields = append(fields, reflect.StructField{Name: "S" + strconv.Itoa(i), Type: s.Type})
		end = s.Offset + s.Type.Size()
	}
	if end > layout.Size {
		panic(fmt.Sprintf("memory: slots end at %d past block size %d", end, layout.Size))
	}

	typ := reflect.StructOf(fields)
	if typ.Size() < layout.Size {
		tail := reflect.ArrayOf(int(layout.Size-end), reflect.TypeFor[byte]())
		fields = append(fields, reflect.StructField{Name: "Tail", Type: tail})
		typ = reflect.StructOf(fields)
	}
	if typ.Size() != layout.Size {
		panic(fmt.Sprintf("memory: block type size %d does not match layout size %d", typ.Size(), layout.Size))
	}
	for i, s := range sorted {
		if typ.Field(slotField[i]).Offset != s.Offset {
			panic("memory: block field offsets diverge from the packed layout")
		}
	}
	return typ
}
