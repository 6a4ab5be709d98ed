package value

import "unsafe"

// Layout is the size and alignment of a type, or of a packed aggregate of types.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// LayoutOf returns the layout of T.
func LayoutOf[T any]() Layout {
	var zero T
	return Layout{Size: unsafe.Sizeof(zero), Align: unsafe.Alignof(zero)}
}

// AlignTo rounds offset up to the next multiple of align.
// align must be a power of two; 0 is treated as 1.
func AlignTo(offset, align uintptr) uintptr {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

// Append places other after l and returns the aggregate layout.
// The result keeps the worst alignment of both; its size is not padded.
func (l Layout) Append(other Layout) Layout {
	align := max(l.Align, other.Align, 1)
	return Layout{
		Size:  AlignTo(l.Size, other.Align) + other.Size,
		Align: align,
	}
}

// Padded rounds the size up to a multiple of the alignment.
func (l Layout) Padded() Layout {
	align := max(l.Align, 1)
	return Layout{Size: AlignTo(l.Size, align), Align: align}
}

// Valid reports whether the alignment is a power of two and the size is a
// multiple of it.
func (l Layout) Valid() bool {
	if l.Align == 0 || l.Align&(l.Align-1) != 0 {
		return false
	}
	return l.Size%l.Align == 0
}
