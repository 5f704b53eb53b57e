package cc_types

const (
	pointerWidth = 8
	pointerAlign = 8
)

// GetPointer returns a pointer type to the given qualified pointee (spec
// section 3.2). Pointers are never shared/interned, since a pointer type's
// identity never matters beyond structural comparison (Equal/Compatible
// below), unlike struct types.
func (a *Arena) GetPointer(pointee QualifiedType) *Type {
	t := a.alloc()
	t.Kind = KPointer
	t.Pointee = pointee
	t.Width = pointerWidth
	t.Align = pointerAlign
	t.Complete = true
	return t
}

// GetArray returns an array type of count elements of elem. count == 0
// produces an incomplete array (spec section 3.2's
// "Array.complete <=> count > 0" invariant), except where CompleteArray is
// later used to complete a flexible array member, which stays incomplete by
// design (spec section 4.2's "contributes 0 to width" rule for flexible
// array members).
func (a *Arena) GetArray(elem QualifiedType, count int64) *Type {
	t := a.alloc()
	t.Kind = KArray
	t.Elem = elem
	t.Count = count
	t.Align = elem.Type.Align
	if count > 0 {
		t.Width = elem.Type.Width * count
		t.Complete = true
	}
	return t
}

// CompleteArray sets the count on a previously incomplete array type, used
// when an array declared with an empty bound is completed by its
// initializer (e.g. "int a[] = {1,2,3};"). Mutating completed arrays is a
// caller bug, not a runtime condition to recover from.
func CompleteArray(t *Type, count int64) {
	if t.Kind != KArray {
		panic("CompleteArray on a non-array type")
	}
	if t.Complete {
		panic("CompleteArray on an already-complete array")
	}
	t.Count = count
	t.Width = t.Elem.Type.Width * count
	t.Complete = true
}
