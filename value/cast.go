package value

import (
	"reflect"

	"github.com/wippyai/script-runtime/errors"
)

// Ptr returns the address of the T held by h.
func Ptr[T any](h Holder) (*T, error) {
	if r, ok := h.(Ref[T]); ok {
		return r.Ptr(), nil
	}
	return nil, castError[T](h)
}

// Get returns a copy of the T held by h.
func Get[T any](h Holder) (T, error) {
	p, err := Ptr[T](h)
	if err != nil {
		var zero T
		return zero, err
	}
	return *p, nil
}

// Set stores v into the T held by h.
func Set[T any](h Holder, v T) error {
	p, err := Ptr[T](h)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func castError[T any](h Holder) *errors.Error {
	from := "nil"
	if h != nil {
		from = h.TypeID().Name()
	}
	return errors.InvalidCast(from, reflect.TypeFor[T]().String())
}
