package cc_types

import "testing"

func TestBasicStructLayout(t *testing.T) {
	a := NewArena()
	s := a.GetStruct(true, "point")
	x, err := s.AddMember("x", Unqualified(a.GetArithmetic(AkInt)))
	if err != nil {
		t.Fatal(err)
	}
	y, err := s.AddMember("y", Unqualified(a.GetArithmetic(AkInt)))
	if err != nil {
		t.Fatal(err)
	}
	CompleteStruct(s)

	if x.Offset != 0 || y.Offset != 4 {
		t.Fatalf("unexpected offsets: x=%d y=%d", x.Offset, y.Offset)
	}
	if s.Width != 8 || s.Align != 4 {
		t.Fatalf("unexpected layout: width=%d align=%d", s.Width, s.Align)
	}
}

func TestStructPaddingForAlignment(t *testing.T) {
	a := NewArena()
	s := a.GetStruct(true, "")
	c, _ := s.AddMember("c", Unqualified(a.GetArithmetic(AkChar)))
	n, _ := s.AddMember("n", Unqualified(a.GetArithmetic(AkLong)))
	CompleteStruct(s)

	if c.Offset != 0 {
		t.Fatalf("expected c at offset 0, got %d", c.Offset)
	}
	if n.Offset != 8 {
		t.Fatalf("expected n at offset 8 (aligned to 8), got %d", n.Offset)
	}
	if s.Width != 16 {
		t.Fatalf("expected struct width 16, got %d", s.Width)
	}
}

func TestUnionLayout(t *testing.T) {
	a := NewArena()
	u := a.GetStruct(false, "")
	i, _ := u.AddMember("i", Unqualified(a.GetArithmetic(AkInt)))
	d, _ := u.AddMember("d", Unqualified(a.GetArithmetic(AkDouble)))
	CompleteStruct(u)

	if i.Offset != 0 || d.Offset != 0 {
		t.Fatalf("union members must all start at offset 0")
	}
	if u.Width != 8 || u.Align != 8 {
		t.Fatalf("unexpected union layout: width=%d align=%d", u.Width, u.Align)
	}
}

func TestBitfieldPacking(t *testing.T) {
	a := NewArena()
	s := a.GetStruct(true, "flags")
	intType := Unqualified(a.GetArithmetic(AkUInt))
	f1, err := s.AddBitfieldMember("a", intType, 3)
	if err != nil {
		t.Fatal(err)
	}
	f2, err := s.AddBitfieldMember("b", intType, 5)
	if err != nil {
		t.Fatal(err)
	}
	CompleteStruct(s)

	if f1.Offset != f2.Offset {
		t.Fatalf("consecutive bit-fields of the same unit must share a storage word")
	}
	if f1.BitBegin != 0 || f2.BitBegin != 3 {
		t.Fatalf("unexpected bit offsets: f1=%d f2=%d", f1.BitBegin, f2.BitBegin)
	}
	if s.Width != 4 {
		t.Fatalf("expected single unsigned int storage word, got width %d", s.Width)
	}
}

func TestBitfieldWidthExceedsTypeIsError(t *testing.T) {
	a := NewArena()
	s := a.GetStruct(true, "")
	_, err := s.AddBitfieldMember("a", Unqualified(a.GetArithmetic(AkChar)), 9)
	if err == nil {
		t.Fatal("expected an error for a bit-field wider than its declared type")
	}
}

func TestFlexibleArrayMember(t *testing.T) {
	a := NewArena()
	s := a.GetStruct(true, "vec")
	s.AddMember("len", Unqualified(a.GetArithmetic(AkInt)))
	elemType := Unqualified(a.GetArithmetic(AkInt))
	flex := a.GetArray(elemType, 0)
	m, err := s.AddMember("data", Unqualified(flex))
	if err != nil {
		t.Fatal(err)
	}
	CompleteStruct(s)

	if !s.Struct.HasFlexibleArray {
		t.Fatal("expected HasFlexibleArray to be set")
	}
	if m.Type.Type.Complete {
		t.Fatal("a flexible array member must remain incomplete")
	}
	if s.Width != 4 {
		t.Fatalf("flexible array member must contribute 0 width, got struct width %d", s.Width)
	}
}

func TestAnonymousUnionMembersAreReexposed(t *testing.T) {
	a := NewArena()
	outer := a.GetStruct(true, "wrapper")
	outer.AddMember("tag", Unqualified(a.GetArithmetic(AkInt)))

	anon := a.GetStruct(false, "")
	anon.AddMember("i", Unqualified(a.GetArithmetic(AkInt)))
	anon.AddMember("f", Unqualified(a.GetArithmetic(AkFloat)))
	CompleteStruct(anon)

	exposed, err := outer.MergeAnonymous(anon)
	if err != nil {
		t.Fatal(err)
	}
	CompleteStruct(outer)

	if len(exposed) != 2 {
		t.Fatalf("expected 2 re-exposed members, got %d", len(exposed))
	}
	if exposed[0].Name != "i" || exposed[0].Offset != 4 {
		t.Fatalf("expected re-exposed member 'i' at offset 4, got %+v", exposed[0])
	}
	if found := outer.Struct.FindMember("f"); found == nil || found.Offset != 4 {
		t.Fatalf("expected 'f' reachable by name at offset 4 in the outer struct")
	}
}

func TestArrayCompleteness(t *testing.T) {
	a := NewArena()
	elem := Unqualified(a.GetArithmetic(AkInt))
	arr := a.GetArray(elem, 0)
	if arr.Complete {
		t.Fatal("a zero-count array must be incomplete")
	}
	CompleteArray(arr, 10)
	if !arr.Complete || arr.Width != 40 {
		t.Fatalf("unexpected completed array: complete=%v width=%d", arr.Complete, arr.Width)
	}
}
