package vm

import (
	"fmt"
	"unsafe"

	"go.uber.org/multierr"

	scriptruntime "github.com/wippyai/script-runtime"
	"github.com/wippyai/script-runtime/value"
)

// MemoryBlock is one allocation holding every slot of a DataBlock, plus the
// holders constructed into it.
type MemoryBlock struct {
	alloc   scriptruntime.Allocator
	mem     scriptruntime.Allocation
	holders []value.Holder
}

// NewMemoryBlock allocates memory for data and constructs its holders in
// declaration order.
func NewMemoryBlock(alloc scriptruntime.Allocator, data *DataBlock) *MemoryBlock {
	shapes := make([]scriptruntime.SlotShape, data.Len())
	for i := range shapes {
		shapes[i] = scriptruntime.SlotShape{
			Type:   data.TypeOf(i).HolderType(),
			Offset: data.Offset(i),
		}
	}

	m := &MemoryBlock{
		alloc:   alloc,
		mem:     alloc.Alloc(data.Layout(), shapes),
		holders: make([]value.Holder, data.Len()),
	}
	base := m.mem.Base()
	for i, s := range data.slots {
		ptr := unsafe.Add(base, data.Offset(i))
		if s.source != nil {
			m.holders[i] = s.source.AliasAt(ptr)
		} else {
			m.holders[i] = s.typ.Construct(ptr)
		}
	}
	return m
}

// Holder returns the holder constructed for slot i.
func (m *MemoryBlock) Holder(i int) value.Holder {
	if i < 0 || i >= len(m.holders) {
		panic(fmt.Sprintf("vm: slot %d out of range [0, %d)", i, len(m.holders)))
	}
	return m.holders[i]
}

// Len returns the number of holders.
func (m *MemoryBlock) Len() int {
	return len(m.holders)
}

// Close releases the holders in construction order and frees the
// allocation. Calling Close again is a no-op.
func (m *MemoryBlock) Close() error {
	if m.mem == nil {
		return nil
	}
	var err error
	for _, h := range m.holders {
		err = multierr.Append(err, value.Release(h))
	}
	m.alloc.Free(m.mem)
	m.mem = nil
	m.holders = nil
	return err
}
