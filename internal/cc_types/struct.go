package cc_types

import "fmt"

// Member is one placed struct/union member (spec section 3.2: "ordered
// list of members ... with offset and, if a bit-field, begin+width").
//
// The spec describes a member as an Object expression. Keeping the layout
// data here instead, as a plain value type, avoids a package cycle: cc_ast
// already imports cc_types for every expression's QualifiedType, so
// StructInfo cannot hold a cc_ast.Object without cc_types importing cc_ast
// back. cc_ast's Object node instead carries a pointer to the owning
// *StructInfo and this Member's Index, which is enough to answer every
// question the parser or initializer elaborator asks of a member.
type Member struct {
	Name       string
	Type       QualifiedType
	Offset     int64
	IsBitfield bool
	BitBegin   int
	BitWidth   int
	Index      int
}

// StructInfo is the struct/union-specific payload of a KStruct Type.
type StructInfo struct {
	IsStruct bool // false => union
	Tag      string
	Members  []*Member

	// MemberScopeHandle indexes into the Scope arena cc_ast owns (spec
	// section 3.2's "nested scope holding members by name"). -1 means unset.
	// An index handle is used instead of a pointer for the same reason
	// esbuild's Index32 breaks reference cycles between its AST arenas: it
	// lets a struct type and its member scope point at each other without
	// either package importing the other.
	MemberScopeHandle int32

	HasFlexibleArray bool

	cursor        int64
	unionMaxWidth int64
	maxAlign      int64

	bitUnitType   *Type
	bitUnitOffset int64
	bitUsed       int
}

// GetStruct returns a new, incomplete struct or union type. Struct types
// are never interned: each struct/union declaration gets its own *Type, and
// pointer identity is exactly the "backend-type-handle identity" spec
// section 3.2 specifies for struct equality.
func (a *Arena) GetStruct(isStruct bool, tag string) *Type {
	t := a.alloc()
	t.Kind = KStruct
	t.Struct = &StructInfo{IsStruct: isStruct, Tag: tag, MemberScopeHandle: -1}
	t.Complete = false
	return t
}

func alignUp(x, align int64) int64 {
	if align <= 1 {
		return x
	}
	return (x + align - 1) / align * align
}

func (info *StructInfo) closeBitfieldRun() {
	info.bitUnitType = nil
	info.bitUsed = 0
}

// AddMember places an ordinary (non-bit-field) member. A trailing
// incomplete array is accepted as a flexible array member (spec section
// 4.2: "contributes 0 to width but sets the has_flexible_array flag").
func (t *Type) AddMember(name string, mt QualifiedType) (*Member, error) {
	info := t.Struct
	if t.Complete {
		return nil, fmt.Errorf("cannot add a member to a completed struct/union")
	}
	info.closeBitfieldRun()

	flexible := mt.Type.Kind == KArray && !mt.Type.Complete
	if flexible && !info.IsStruct {
		return nil, fmt.Errorf("flexible array member is not allowed in a union")
	}

	var offset int64
	if info.IsStruct {
		offset = alignUp(info.cursor, mt.Type.Align)
		if !flexible {
			info.cursor = offset + mt.Type.Width
		}
	} else {
		offset = 0
		if mt.Type.Width > info.unionMaxWidth {
			info.unionMaxWidth = mt.Type.Width
		}
	}
	if mt.Type.Align > info.maxAlign {
		info.maxAlign = mt.Type.Align
	}
	if flexible {
		info.HasFlexibleArray = true
	}

	m := &Member{Name: name, Type: mt, Offset: offset, Index: len(info.Members)}
	info.Members = append(info.Members, m)
	return m, nil
}

// AddBitfieldMember places a bit-field member, or (width == 0, name=="")
// terminates the current bit-field run per spec section 4.2.
func (t *Type) AddBitfieldMember(name string, mt QualifiedType, width int) (*Member, error) {
	info := t.Struct
	if t.Complete {
		return nil, fmt.Errorf("cannot add a member to a completed struct/union")
	}
	if mt.Type.Kind != KArithmetic || (mt.Type.Arith != AkBool && !mt.Type.Arith.IsInteger()) {
		return nil, fmt.Errorf("bit-field must have integer or _Bool type")
	}
	if width == 0 {
		if name != "" {
			return nil, fmt.Errorf("named bit-field cannot have width 0")
		}
		info.closeBitfieldRun()
		return nil, nil
	}
	bitsAvail := int(mt.Type.Width * 8)
	if width > bitsAvail {
		return nil, fmt.Errorf("bit-field width %d exceeds width of %s", width, mt.Type.Arith)
	}
	if width < 0 {
		return nil, fmt.Errorf("bit-field has negative width")
	}

	if info.bitUnitType == mt.Type && info.bitUnitType != nil && info.bitUsed+width <= bitsAvail {
		begin := info.bitUsed
		info.bitUsed += width
		m := &Member{Name: name, Type: mt, Offset: info.bitUnitOffset, IsBitfield: true, BitBegin: begin, BitWidth: width, Index: len(info.Members)}
		info.Members = append(info.Members, m)
		return m, nil
	}

	var offset int64
	if info.IsStruct {
		offset = alignUp(info.cursor, mt.Type.Align)
		info.cursor = offset + mt.Type.Width
	} else {
		offset = 0
		if mt.Type.Width > info.unionMaxWidth {
			info.unionMaxWidth = mt.Type.Width
		}
	}
	if mt.Type.Align > info.maxAlign {
		info.maxAlign = mt.Type.Align
	}
	info.bitUnitType = mt.Type
	info.bitUnitOffset = offset
	info.bitUsed = width

	m := &Member{Name: name, Type: mt, Offset: offset, IsBitfield: true, BitBegin: 0, BitWidth: width, Index: len(info.Members)}
	info.Members = append(info.Members, m)
	return m, nil
}

// MergeAnonymous places an anonymous struct/union member of type anon and
// re-exposes its members in the outer type at anon's offset plus each
// member's own offset (spec section 4.2). The caller (the parser) is
// responsible for also inserting the returned members into the outer
// scope's ordinary namespace under their own names, since scopes live in
// cc_ast.
func (t *Type) MergeAnonymous(anon *Type) ([]*Member, error) {
	info := t.Struct
	if t.Complete {
		return nil, fmt.Errorf("cannot add a member to a completed struct/union")
	}
	if anon.Kind != KStruct {
		return nil, fmt.Errorf("anonymous member must be a struct or union")
	}
	if !anon.Complete {
		return nil, fmt.Errorf("anonymous member has incomplete type")
	}
	info.closeBitfieldRun()

	var anonOffset int64
	if info.IsStruct {
		anonOffset = alignUp(info.cursor, anon.Align)
		info.cursor = anonOffset + anon.Width
	} else {
		anonOffset = 0
		if anon.Width > info.unionMaxWidth {
			info.unionMaxWidth = anon.Width
		}
	}
	if anon.Align > info.maxAlign {
		info.maxAlign = anon.Align
	}

	exposed := make([]*Member, 0, len(anon.Struct.Members))
	for _, inner := range anon.Struct.Members {
		m := &Member{
			Name:       inner.Name,
			Type:       inner.Type,
			Offset:     anonOffset + inner.Offset,
			IsBitfield: inner.IsBitfield,
			BitBegin:   inner.BitBegin,
			BitWidth:   inner.BitWidth,
			Index:      len(info.Members),
		}
		info.Members = append(info.Members, m)
		exposed = append(exposed, m)
	}
	return exposed, nil
}

// CompleteStruct finalizes width/alignment from the members placed so far
// (spec section 4.2's struct/union layout rules) and marks the type
// complete. No further members may be added afterward.
func CompleteStruct(t *Type) {
	info := t.Struct
	info.closeBitfieldRun()
	align := info.maxAlign
	if align == 0 {
		align = 1
	}
	var width int64
	if info.IsStruct {
		width = info.cursor
	} else {
		width = info.unionMaxWidth
	}
	t.Width = alignUp(width, align)
	t.Align = align
	t.Complete = true
}

// FindMember looks up a member by name, including names re-exposed by
// MergeAnonymous.
func (info *StructInfo) FindMember(name string) *Member {
	for _, m := range info.Members {
		if m.Name == name {
			return m
		}
	}
	return nil
}
