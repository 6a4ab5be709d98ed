package value

import (
	"io"
	"unsafe"
)

// Holder is a type-erased handle to one value slot.
type Holder interface {
	// TypeID returns the identity of the holder's concrete class.
	TypeID() *TypeID

	release() error
}

// Ref is the typed view every concrete holder offers for its value type.
type Ref[T any] interface {
	Holder
	Ptr() *T
}

// Aliaser is a holder that can construct an aliasing holder of its value
// at a caller-supplied address.
type Aliaser interface {
	Holder
	AliasType() *TypeID
	AliasAt(ptr unsafe.Pointer) Holder
}

// Dropper is implemented by values that need cleanup when the owning
// holder is torn down. Drop must accept the zero value.
type Dropper interface {
	Drop()
}

// Release tears down h: owning holders drop their value, aliases only
// forget the aliased storage.
func Release(h Holder) error {
	return h.release()
}

func drop[T any](p *T) error {
	switch v := any(p).(type) {
	case Dropper:
		v.Drop()
	case io.Closer:
		return v.Close()
	}
	return nil
}

// Owned stores a T by value.
type Owned[T any] struct {
	id *TypeID
	v  T
}

// New returns a free-standing owning holder of v.
func New[T any](v T) *Owned[T] {
	return &Owned[T]{id: TypeOf[T](), v: v}
}

func constructOwned[T any](ptr unsafe.Pointer, id *TypeID) Holder {
	h := (*Owned[T])(ptr)
	*h = Owned[T]{id: id}
	return h
}

func (h *Owned[T]) TypeID() *TypeID {
	if h.id == nil {
		return TypeOf[T]()
	}
	return h.id
}

func (h *Owned[T]) Ptr() *T { return &h.v }
func (h *Owned[T]) Get() T  { return h.v }
func (h *Owned[T]) Set(v T) { h.v = v }

func (h *Owned[T]) AliasType() *TypeID { return AliasOf[T]() }

func (h *Owned[T]) AliasAt(ptr unsafe.Pointer) Holder {
	a := (*Alias[T])(ptr)
	*a = Alias[T]{id: AliasOf[T](), p: &h.v}
	return a
}

func (h *Owned[T]) release() error {
	err := drop(&h.v)
	var zero T
	h.v = zero
	return err
}

// Alias points at a T stored elsewhere and never releases it.
type Alias[T any] struct {
	id *TypeID
	p  *T
}

// NewAlias returns a holder aliasing *p.
func NewAlias[T any](p *T) *Alias[T] {
	return &Alias[T]{id: AliasOf[T](), p: p}
}

func constructAlias[T any](ptr unsafe.Pointer, id *TypeID) Holder {
	h := (*Alias[T])(ptr)
	*h = Alias[T]{id: id}
	return h
}

func (h *Alias[T]) TypeID() *TypeID {
	if h.id == nil {
		return AliasOf[T]()
	}
	return h.id
}

func (h *Alias[T]) Ptr() *T { return h.p }
func (h *Alias[T]) Get() T  { return *h.p }
func (h *Alias[T]) Set(v T) { *h.p = v }

// Bind redirects the alias to *p.
func (h *Alias[T]) Bind(p *T) { h.p = p }

func (h *Alias[T]) AliasType() *TypeID { return AliasOf[T]() }

func (h *Alias[T]) AliasAt(ptr unsafe.Pointer) Holder {
	a := (*Alias[T])(ptr)
	*a = Alias[T]{id: AliasOf[T](), p: h.p}
	return a
}

func (h *Alias[T]) release() error {
	h.p = nil
	return nil
}

// Boxed owns a heap allocated T and drops it on release.
type Boxed[T any] struct {
	id *TypeID
	p  *T
}

// NewBoxed takes ownership of *p.
func NewBoxed[T any](p *T) *Boxed[T] {
	return &Boxed[T]{id: BoxOf[T](), p: p}
}

func constructBoxed[T any](ptr unsafe.Pointer, id *TypeID) Holder {
	h := (*Boxed[T])(ptr)
	*h = Boxed[T]{id: id, p: new(T)}
	return h
}

func (h *Boxed[T]) TypeID() *TypeID {
	if h.id == nil {
		return BoxOf[T]()
	}
	return h.id
}

func (h *Boxed[T]) Ptr() *T { return h.p }
func (h *Boxed[T]) Get() T  { return *h.p }
func (h *Boxed[T]) Set(v T) { *h.p = v }

// Reset replaces the boxed value, dropping the previous one.
func (h *Boxed[T]) Reset(p *T) error {
	var err error
	if h.p != nil && h.p != p {
		err = drop(h.p)
	}
	h.p = p
	return err
}

func (h *Boxed[T]) AliasType() *TypeID { return AliasOf[T]() }

func (h *Boxed[T]) AliasAt(ptr unsafe.Pointer) Holder {
	a := (*Alias[T])(ptr)
	*a = Alias[T]{id: AliasOf[T](), p: h.p}
	return a
}

func (h *Boxed[T]) release() error {
	if h.p == nil {
		return nil
	}
	err := drop(h.p)
	h.p = nil
	return err
}
