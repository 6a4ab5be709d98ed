package vm

import (
	"go.uber.org/multierr"

	"github.com/wippyai/script-runtime/errors"
	"github.com/wippyai/script-runtime/memory"
	"github.com/wippyai/script-runtime/value"
)

type slotDecl struct {
	typ    *value.TypeID
	source value.Aliaser // aliased in place when set
}

// DataBlock declares the typed slots of one memory space and their packed
// offsets. Declarations only grow.
type DataBlock struct {
	space   PlaceType
	packer  memory.Packer
	slots   []slotDecl
	owned   []value.Holder
	version int
}

// NewDataBlock creates an empty block for space.
func NewDataBlock(space PlaceType) *DataBlock {
	return &DataBlock{space: space}
}

// Space returns the memory space the block declares.
func (d *DataBlock) Space() PlaceType {
	return d.space
}

// AddPlaceType declares a slot holding the canonical holder of id.
func (d *DataBlock) AddPlaceType(id *value.TypeID) Place {
	return d.add(slotDecl{typ: id})
}

// AddPlaceNamed declares a slot of the owning type registered under name,
// for builders that know slot types only by name.
func (d *DataBlock) AddPlaceNamed(name string) (Place, error) {
	id, ok := value.Lookup(name)
	if !ok {
		return VoidPlace, errors.NotFound(errors.PhaseDeclare, "type", name)
	}
	return d.AddPlaceType(id), nil
}

// AddPlaceHolder declares a slot that aliases h. The slot type is h's
// aliasing identity, and h must outlive every memory built from the block.
func (d *DataBlock) AddPlaceHolder(h value.Aliaser) Place {
	return d.add(slotDecl{typ: h.AliasType(), source: h})
}

// AddPlaceValue declares a slot aliasing a constant owned by the block.
// Writes through the slot persist in the block.
func AddPlaceValue[T any](d *DataBlock, v T) Place {
	h := value.New(v)
	d.owned = append(d.owned, h)
	return d.AddPlaceHolder(h)
}

// AddPlaceRef declares a slot aliasing host storage at p.
func AddPlaceRef[T any](d *DataBlock, p *T) Place {
	return d.AddPlaceHolder(value.NewAlias(p))
}

func (d *DataBlock) add(s slotDecl) Place {
	idx := d.packer.Add(s.typ.Layout())
	d.slots = append(d.slots, s)
	d.version++
	return Place{Space: d.space, Index: idx}
}

// Len returns the number of declared slots.
func (d *DataBlock) Len() int {
	return len(d.slots)
}

// TypeOf returns the declared type of slot i.
func (d *DataBlock) TypeOf(i int) *value.TypeID {
	return d.slots[i].typ
}

// Offset returns the byte offset of slot i.
func (d *DataBlock) Offset(i int) uintptr {
	return d.packer.Offset(i)
}

// Layout returns the layout of the whole block.
func (d *DataBlock) Layout() value.Layout {
	return d.packer.Layout()
}

// Version changes every time a slot is declared.
func (d *DataBlock) Version() int {
	return d.version
}

// Close releases the constants owned by the block.
func (d *DataBlock) Close() error {
	var err error
	for _, h := range d.owned {
		err = multierr.Append(err, value.Release(h))
	}
	d.owned = nil
	return err
}
