package memory

import (
	"math/rand"
	"testing"

	"github.com/wippyai/script-runtime/value"
)

func naiveSize(layouts []value.Layout) uintptr {
	agg := value.Layout{Align: 1}
	for _, l := range layouts {
		agg = agg.Append(l)
	}
	return agg.Padded().Size
}

func checkPacking(t *testing.T, p *Packer, layouts []value.Layout) {
	t.Helper()
	total := p.Layout()
	if !total.Valid() {
		t.Fatalf("block layout %+v is not valid", total)
	}
	if total.Size > naiveSize(layouts) {
		t.Fatalf("packed size %d exceeds naive size %d", total.Size, naiveSize(layouts))
	}

	var prevEnd uintptr
	for _, i := range p.Order() {
		l := layouts[i]
		off := p.Offset(i)
		if off%l.Align != 0 {
			t.Fatalf("slot %d at %d not aligned to %d", i, off, l.Align)
		}
		if total.Align < l.Align {
			t.Fatalf("block align %d below slot align %d", total.Align, l.Align)
		}
		if off < prevEnd {
			t.Fatalf("slot %d at %d overlaps previous slot ending at %d", i, off, prevEnd)
		}
		prevEnd = off + l.Size
	}
	if prevEnd > total.Size {
		t.Fatalf("slots end at %d past block size %d", prevEnd, total.Size)
	}
}

func TestPackerInsertsBeforeMisalignedGap(t *testing.T) {
	var p Packer
	a := p.Add(value.Layout{Size: 1, Align: 1})
	b := p.Add(value.Layout{Size: 8, Align: 8})
	c := p.Add(value.Layout{Size: 1, Align: 1})

	layouts := []value.Layout{{Size: 1, Align: 1}, {Size: 8, Align: 8}, {Size: 1, Align: 1}}
	checkPacking(t, &p, layouts)

	if p.Offset(b) != 0 {
		t.Errorf("8-byte slot at %d, want 0", p.Offset(b))
	}
	if p.Offset(a) != 8 || p.Offset(c) != 9 {
		t.Errorf("byte slots at %d and %d, want 8 and 9", p.Offset(a), p.Offset(c))
	}
	if got := p.Layout(); got != (value.Layout{Size: 16, Align: 8}) {
		t.Errorf("Layout() = %+v", got)
	}
	if p.Len() != 3 {
		t.Errorf("Len() = %d", p.Len())
	}
}

func TestPackerKeepsDeclarationOrderWhenAligned(t *testing.T) {
	var p Packer
	layouts := []value.Layout{{Size: 8, Align: 8}, {Size: 8, Align: 8}, {Size: 4, Align: 4}, {Size: 4, Align: 4}, {Size: 2, Align: 2}, {Size: 1, Align: 1}}
	for _, l := range layouts {
		p.Add(l)
	}
	checkPacking(t, &p, layouts)

	for i, idx := range p.Order() {
		if i != idx {
			t.Fatalf("Order() = %v, want declaration order", p.Order())
		}
	}
	if p.Layout().Size != 32 {
		t.Errorf("size = %d, want 32", p.Layout().Size)
	}
}

func TestPackerEmpty(t *testing.T) {
	var p Packer
	if got := p.Layout(); got != (value.Layout{Size: 0, Align: 1}) {
		t.Errorf("empty Layout() = %+v", got)
	}
	if len(p.Order()) != 0 {
		t.Error("empty packer has no order")
	}
}

func TestPackerRejectsInvalidLayout(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	var p Packer
	p.Add(value.Layout{Size: 3, Align: 2})
}

func TestPackerRandomSequences(t *testing.T) {
	choices := []value.Layout{
		{Size: 1, Align: 1}, {Size: 2, Align: 2}, {Size: 3, Align: 1}, {Size: 4, Align: 4}, {Size: 8, Align: 8}, {Size: 12, Align: 4}, {Size: 16, Align: 8}, {Size: 24, Align: 8}, {Size: 6, Align: 2},
	}
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 300; round++ {
		n := 1 + rng.Intn(16)
		layouts := make([]value.Layout, n)
		var p Packer
		for i := range layouts {
			layouts[i] = choices[rng.Intn(len(choices))]
			if got := p.Add(layouts[i]); got != i {
				t.Fatalf("Add returned %d, want %d", got, i)
			}
			checkPacking(t, &p, layouts[:i+1])
		}
	}
}
