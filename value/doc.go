// Package value provides the type-erased value model of the script runtime.
//
// A TypeID is an identity token for one Go type in one ownership category.
// Identities compare by pointer and live for the whole process:
//
//	value.TypeOf[int64]()  // owning: the holder stores the int64
//	value.AliasOf[int64]() // aliasing: the holder points at an int64 elsewhere
//	value.BoxOf[int64]()   // boxing: the holder owns a heap *int64
//
// All three share Base() == TypeOf[int64](), but are distinct identities, so
// a binder can tell a slot that owns a value from one that aliases it.
//
// Holders are the erased handles stored in memory slots. Every concrete
// holder for T implements Ref[T], which exposes the value by pointer:
//
//	h := value.New[int64](41)
//	p, err := value.Ptr[int64](h) // *int64
//	_, err = value.Get[string](h) // invalid_cast error
//
// Nothing converts implicitly: a holder of a named type over int64 is not a
// holder of int64.
package value
