package memory

import "github.com/wippyai/script-runtime/value"

// Packer is an online offset table for slots of one block.
// The zero value is ready to use.
//
// Slots are appended in declaration order. A slot whose alignment the
// current end does not satisfy is inserted before an earlier slot when that
// gives a smaller end. Slot holders built by the value package all start
// with a *TypeID, so vm blocks only ever add pointer-aligned layouts and
// always append; insertion matters for raw layouts of mixed alignment.
type Packer struct {
	layouts []value.Layout
	order   []int // slot indices in placement order
	offsets []uintptr
	layout  value.Layout
}

// Add declares a slot with layout l and returns its index.
// It panics if l is not a valid layout.
func (p *Packer) Add(l value.Layout) int {
	if !l.Valid() {
		panic("memory: invalid slot layout")
	}
	idx := len(p.layouts)
	p.layouts = append(p.layouts, l)

	end := len(p.order)
	pos := end
	if cur := p.endOffset(); value.AlignTo(cur, l.Align) != cur {
		best := p.sizeWith(idx, end)
		for i := end - 1; i >= 0; i-- {
			if size := p.sizeWith(idx, i); size < best {
				best, pos = size, i
			}
		}
	}

	p.order = append(p.order, 0)
	copy(p.order[pos+1:], p.order[pos:])
	p.order[pos] = idx
	p.place()
	return idx
}

// Offset returns the byte offset of slot i.
func (p *Packer) Offset(i int) uintptr {
	return p.offsets[i]
}

// SlotLayout returns the declared layout of slot i.
func (p *Packer) SlotLayout(i int) value.Layout {
	return p.layouts[i]
}

// Layout returns the block layout, padded to the worst slot alignment.
func (p *Packer) Layout() value.Layout {
	if len(p.order) == 0 {
		return value.Layout{Size: 0, Align: 1}
	}
	return p.layout
}

// Order returns slot indices in ascending offset order.
func (p *Packer) Order() []int {
	return append([]int(nil), p.order...)
}

// Len returns the number of declared slots.
func (p *Packer) Len() int {
	return len(p.layouts)
}

func (p *Packer) endOffset() uintptr {
	if len(p.order) == 0 {
		return 0
	}
	last := p.order[len(p.order)-1]
	return p.offsets[last] + p.layouts[last].Size
}

// sizeWith returns the unpadded end offset of the current arrangement with
// slot idx inserted at position pos.
func (p *Packer) sizeWith(idx, pos int) uintptr {
	agg := value.Layout{Align: 1}
	for i := 0; i <= len(p.order); i++ {
		var s int
		switch {
		case i < pos:
			s = p.order[i]
		case i == pos:
			s = idx
		default:
			s = p.order[i-1]
		}
		agg = agg.Append(p.layouts[s])
	}
	return agg.Size
}

func (p *Packer) place() {
	if cap(p.offsets) < len(p.layouts) {
		grown := make([]uintptr, len(p.layouts), 2*len(p.layouts))
		copy(grown, p.offsets)
		p.offsets = grown
	}
	p.offsets = p.offsets[:len(p.layouts)]

	agg := value.Layout{Align: 1}
	for _, s := range p.order {
		l := p.layouts[s]
		p.offsets[s] = value.AlignTo(agg.Size, l.Align)
		agg = agg.Append(l)
	}
	p.layout = agg.Padded()
}
