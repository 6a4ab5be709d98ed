package value

import (
	"errors"
	"math/big"
	"reflect"
	"testing"
	"unsafe"

	rterrors "github.com/wippyai/script-runtime/errors"
)

type celsius float64

type closer struct {
	closed *int
}

func (c *closer) Close() error {
	if c.closed != nil {
		*c.closed++
	}
	return errors.New("close failed")
}

type dropCounter struct {
	drops *int
}

func (d *dropCounter) Drop() {
	if d.drops != nil {
		*d.drops++
	}
}

func TestTypeIdentity(t *testing.T) {
	a := New[int64](1)
	b := New[int64](2)
	if a.TypeID() != b.TypeID() {
		t.Fatal("holders of the same type must share an identity")
	}
	if a.TypeID() != TypeOf[int64]() {
		t.Fatal("New must use the owning identity")
	}

	if TypeOf[int64]() == TypeOf[int32]() {
		t.Error("different types must differ")
	}
	if TypeOf[float64]() == TypeOf[celsius]() {
		t.Error("named types must not share identity with their underlying type")
	}
	if TypeOf[int64]() == AliasOf[int64]() {
		t.Error("owning and aliasing identities must differ")
	}
	if AliasOf[int64]() == BoxOf[int64]() {
		t.Error("aliasing and boxing identities must differ")
	}

	for _, id := range []*TypeID{TypeOf[int64](), AliasOf[int64](), BoxOf[int64]()} {
		if id.Base() != TypeOf[int64]() {
			t.Errorf("%s: Base() = %s, want int64", id, id.Base())
		}
	}
	if TypeOf[string]().Base() == TypeOf[int64]().Base() {
		t.Error("different types must have different bases")
	}
}

func TestTypeNames(t *testing.T) {
	tests := []struct {
		id        *TypeID
		name      string
		ownership Ownership
	}{
		{TypeOf[int64](), "int64", Owning},
		{AliasOf[int64](), "int64&", Aliasing},
		{BoxOf[int64](), "box<int64>", Boxing},
		{TypeOf[big.Int](), "big.Int", Owning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.id.Name() != tt.name {
				t.Errorf("Name() = %q, want %q", tt.id.Name(), tt.name)
			}
			if tt.id.Ownership() != tt.ownership {
				t.Errorf("Ownership() = %v, want %v", tt.id.Ownership(), tt.ownership)
			}
		})
	}

	var nilID *TypeID
	if nilID.Name() != "nil" {
		t.Errorf("nil identity name = %q", nilID.Name())
	}
}

func TestLookup(t *testing.T) {
	id := TypeOf[celsius]()
	found, ok := Lookup(id.Name())
	if !ok || found != id {
		t.Fatalf("Lookup(%q) = %v, %v", id.Name(), found, ok)
	}
	if _, ok := Lookup("no.such.Type"); ok {
		t.Error("Lookup of unknown name should fail")
	}
	if _, ok := Lookup(AliasOf[celsius]().Name()); ok {
		t.Error("Lookup only knows owning identities")
	}
}

func TestHolderLayout(t *testing.T) {
	tests := []struct {
		id   *TypeID
		want Layout
	}{
		{TypeOf[int64](), LayoutOf[Owned[int64]]()},
		{TypeOf[bool](), LayoutOf[Owned[bool]]()},
		{AliasOf[big.Int](), LayoutOf[Alias[big.Int]]()},
		{BoxOf[string](), LayoutOf[Boxed[string]]()},
	}

	for _, tt := range tests {
		t.Run(tt.id.Name(), func(t *testing.T) {
			if tt.id.Layout() != tt.want {
				t.Errorf("Layout() = %+v, want %+v", tt.id.Layout(), tt.want)
			}
			if tt.id.HolderType().Size() != tt.want.Size {
				t.Errorf("HolderType size = %d, want %d", tt.id.HolderType().Size(), tt.want.Size)
			}
		})
	}
}

func TestConstructHolders(t *testing.T) {
	intID := TypeOf[big.Int]()
	floatID := TypeOf[float32]()
	refID := AliasOf[big.Int]()

	// One backing struct standing in for an arena allocation.
	var arena struct {
		i Owned[big.Int]
		f Owned[float32]
		r Alias[big.Int]
	}

	intVal := intID.Construct(unsafe.Pointer(&arena.i))
	floatVal := floatID.Construct(unsafe.Pointer(&arena.f))
	refVal := refID.Construct(unsafe.Pointer(&arena.r))

	if intVal.TypeID() != intID || floatVal.TypeID() != floatID || refVal.TypeID() != refID {
		t.Fatal("constructed holders must report their identity")
	}

	ip, err := Ptr[big.Int](intVal)
	if err != nil {
		t.Fatal(err)
	}
	ip.SetInt64(789456)
	if err := Set[float32](floatVal, 123.5); err != nil {
		t.Fatal(err)
	}
	refVal.(*Alias[big.Int]).Bind(ip)

	gotInt := arena.i.Get()
	if gotInt.Int64() != 789456 {
		t.Errorf("int = %v", gotInt.String())
	}
	if arena.f.Get() != 123.5 {
		t.Errorf("float = %v", arena.f.Get())
	}
	rp, _ := Ptr[big.Int](refVal)
	if rp.Int64() != 789456 {
		t.Errorf("alias = %v", rp)
	}
}

func TestAliasAt(t *testing.T) {
	owner := New[int64](3333444455556666)
	var slot Alias[int64]
	h := owner.AliasAt(unsafe.Pointer(&slot))

	if h.TypeID() != AliasOf[int64]() || owner.AliasType() != AliasOf[int64]() {
		t.Fatal("AliasAt must construct an aliasing holder")
	}
	if slot.Get() != 3333444455556666 {
		t.Errorf("alias reads %d", slot.Get())
	}
	slot.Set(7)
	if owner.Get() != 7 {
		t.Error("writes through the alias must reach the owner")
	}

	boxed := NewBoxed(new(int64))
	var slot2 Alias[int64]
	boxed.AliasAt(unsafe.Pointer(&slot2)).(*Alias[int64]).Set(9)
	if boxed.Get() != 9 {
		t.Error("alias of a boxed value must reach the box")
	}
}

func TestCastFailure(t *testing.T) {
	h := New[int64](5)

	if _, err := Get[string](h); err == nil {
		t.Fatal("expected cast failure")
	} else if !errors.Is(err, &rterrors.Error{Phase: rterrors.PhaseCast, Kind: rterrors.KindInvalidCast}) {
		t.Fatalf("unexpected error %v", err)
	}

	if err := Set[celsius](New[float64](1), 2); err == nil {
		t.Fatal("named types must not convert implicitly")
	}

	if _, err := Ptr[int64](nil); err == nil {
		t.Fatal("nil holder must fail")
	}

	v, err := Get[int64](NewAlias(new(int64)))
	if err != nil || v != 0 {
		t.Fatalf("alias Get = %v, %v", v, err)
	}
}

func TestRelease(t *testing.T) {
	t.Run("owned drops value", func(t *testing.T) {
		drops := 0
		h := New(dropCounter{drops: &drops})
		if err := Release(h); err != nil {
			t.Fatal(err)
		}
		if drops != 1 {
			t.Errorf("drops = %d, want 1", drops)
		}
		if h.Get().drops != nil {
			t.Error("released value must be zeroed")
		}
	})

	t.Run("boxed closes value", func(t *testing.T) {
		closed := 0
		h := NewBoxed(&closer{closed: &closed})
		if err := Release(h); err == nil {
			t.Fatal("close error must be returned")
		}
		if closed != 1 {
			t.Errorf("closed = %d, want 1", closed)
		}
		if err := Release(h); err != nil || closed != 1 {
			t.Error("second release must be a no-op")
		}
	})

	t.Run("alias never drops", func(t *testing.T) {
		drops := 0
		target := dropCounter{drops: &drops}
		h := NewAlias(&target)
		if err := Release(h); err != nil {
			t.Fatal(err)
		}
		if drops != 0 {
			t.Error("alias must not drop the aliased value")
		}
	})

	t.Run("boxed reset drops previous", func(t *testing.T) {
		drops := 0
		h := NewBoxed(&dropCounter{drops: &drops})
		if err := h.Reset(&dropCounter{}); err != nil {
			t.Fatal(err)
		}
		if drops != 1 {
			t.Errorf("drops = %d, want 1", drops)
		}
	})
}

func TestZeroHolderIdentity(t *testing.T) {
	var o Owned[int16]
	var a Alias[int16]
	var b Boxed[int16]
	if o.TypeID() != TypeOf[int16]() || a.TypeID() != AliasOf[int16]() || b.TypeID() != BoxOf[int16]() {
		t.Error("zero holders must report the registered identities")
	}
}

func TestLayoutMath(t *testing.T) {
	l := Layout{Size: 1, Align: 1}
	l = l.Append(Layout{Size: 8, Align: 8})
	if l != (Layout{Size: 16, Align: 8}) {
		t.Errorf("Append = %+v", l)
	}
	l = l.Append(Layout{Size: 2, Align: 2})
	if l.Size != 18 || l.Padded().Size != 24 {
		t.Errorf("Append/Padded = %+v / %+v", l, l.Padded())
	}

	if AlignTo(13, 4) != 16 || AlignTo(16, 4) != 16 || AlignTo(5, 0) != 5 {
		t.Error("AlignTo")
	}

	valid := []Layout{{8, 8}, {0, 1}, {24, 8}}
	invalid := []Layout{{8, 0}, {12, 8}, {6, 3}}
	for _, v := range valid {
		if !v.Valid() {
			t.Errorf("%+v should be valid", v)
		}
	}
	for _, v := range invalid {
		if v.Valid() {
			t.Errorf("%+v should be invalid", v)
		}
	}

	if LayoutOf[int64]().Size != uintptr(reflect.TypeFor[int64]().Size()) {
		t.Error("LayoutOf")
	}
}
