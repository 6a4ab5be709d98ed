package vm

import "strconv"

// PlaceType names a memory space.
type PlaceType uint8

const (
	Local  PlaceType = iota // per code block, rebuilt for each new block
	Module                  // shared declarations, rebuilt when they change
	Void                    // no value; a discarded result
)

// spaceCount is the number of spaces backed by memory.
const spaceCount = int(Void)

func (t PlaceType) String() string {
	switch t {
	case Local:
		return "local"
	case Module:
		return "module"
	case Void:
		return "void"
	default:
		return "space(" + strconv.Itoa(int(t)) + ")"
	}
}

// Place addresses one slot. Places compare structurally.
type Place struct {
	Space PlaceType
	Index int
}

// VoidPlace is the place of a discarded result.
var VoidPlace = Place{Space: Void}

// At returns the place of slot index in the Local space.
func At(index int) Place {
	return Place{Space: Local, Index: index}
}

// ModuleAt returns the place of slot index in the Module space.
func ModuleAt(index int) Place {
	return Place{Space: Module, Index: index}
}

func (p Place) String() string {
	if p.Space == Void {
		return "void"
	}
	return p.Space.String() + "[" + strconv.Itoa(p.Index) + "]"
}
