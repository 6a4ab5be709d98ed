package value

import (
	"reflect"
	"sync"
	"unsafe"
)

// Ownership tells how a holder relates to the value it exposes.
type Ownership uint8

const (
	Owning   Ownership = iota // holder stores the value inline
	Aliasing                  // holder points at storage owned elsewhere
	Boxing                    // holder owns a heap allocated value
)

func (o Ownership) String() string {
	switch o {
	case Owning:
		return "owning"
	case Aliasing:
		return "aliasing"
	case Boxing:
		return "boxing"
	default:
		return "unknown"
	}
}

// TypeID identifies one concrete host type in one ownership category.
// Identities are compared by pointer; two TypeIDs are the same type only if
// they are the same pointer.
type TypeID struct {
	name      string
	layout    Layout
	ownership Ownership
	base      *TypeID
	holder    reflect.Type
	construct func(ptr unsafe.Pointer, id *TypeID) Holder
}

// Name returns a readable name, e.g. "int64", "int64&" or "box<int64>".
func (t *TypeID) Name() string {
	if t == nil {
		return "nil"
	}
	return t.name
}

func (t *TypeID) String() string {
	return t.Name()
}

// Layout returns the layout of the holder occupying a slot of this type.
func (t *TypeID) Layout() Layout {
	return t.layout
}

// Ownership returns the ownership category.
func (t *TypeID) Ownership() Ownership {
	return t.ownership
}

// Base returns the owning identity of the underlying value type. For an
// owning identity this is the identity itself.
func (t *TypeID) Base() *TypeID {
	return t.base
}

// HolderType returns the Go type of the holder struct.
func (t *TypeID) HolderType() reflect.Type {
	return t.holder
}

// Construct initialises the canonical holder for this type at ptr, which
// must point at zeroed memory of HolderType laid out for Layout.
func (t *TypeID) Construct(ptr unsafe.Pointer) Holder {
	return t.construct(ptr, t)
}

type typeKey struct {
	typ       reflect.Type
	ownership Ownership
}

var (
	registry sync.Map // typeKey -> *TypeID
	byName   sync.Map // string -> *TypeID, owning identities only
)

// TypeOf returns the owning identity of T.
func TypeOf[T any]() *TypeID {
	key := typeKey{typ: reflect.TypeFor[T](), ownership: Owning}
	if id, ok := registry.Load(key); ok {
		return id.(*TypeID)
	}
	id := &TypeID{
		name:      key.typ.String(),
		layout:    LayoutOf[Owned[T]](),
		ownership: Owning,
		holder:    reflect.TypeFor[Owned[T]](),
		construct: constructOwned[T],
	}
	id.base = id
	actual, loaded := registry.LoadOrStore(key, id)
	if !loaded {
		byName.LoadOrStore(id.name, id)
	}
	return actual.(*TypeID)
}

// AliasOf returns the aliasing identity of T.
func AliasOf[T any]() *TypeID {
	key := typeKey{typ: reflect.TypeFor[T](), ownership: Aliasing}
	if id, ok := registry.Load(key); ok {
		return id.(*TypeID)
	}
	id := &TypeID{
		name:      key.typ.String() + "&",
		layout:    LayoutOf[Alias[T]](),
		ownership: Aliasing,
		base:      TypeOf[T](),
		holder:    reflect.TypeFor[Alias[T]](),
		construct: constructAlias[T],
	}
	actual, _ := registry.LoadOrStore(key, id)
	return actual.(*TypeID)
}

// BoxOf returns the boxing identity of T.
func BoxOf[T any]() *TypeID {
	key := typeKey{typ: reflect.TypeFor[T](), ownership: Boxing}
	if id, ok := registry.Load(key); ok {
		return id.(*TypeID)
	}
	id := &TypeID{
		name:      "box<" + key.typ.String() + ">",
		layout:    LayoutOf[Boxed[T]](),
		ownership: Boxing,
		base:      TypeOf[T](),
		holder:    reflect.TypeFor[Boxed[T]](),
		construct: constructBoxed[T],
	}
	actual, _ := registry.LoadOrStore(key, id)
	return actual.(*TypeID)
}

// Lookup finds an owning identity by name. Only types that were already
// requested through TypeOf (directly or via AliasOf/BoxOf) are known.
func Lookup(name string) (*TypeID, bool) {
	id, ok := byName.Load(name)
	if !ok {
		return nil, false
	}
	return id.(*TypeID), true
}
