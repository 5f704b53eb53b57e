// Package cc_types owns the canonical representation of C types (spec
// section 4.2): a sealed variant of Void/Arithmetic/Pointer/Array/Struct/
// Function, their layout, and their compatibility/equality rules.
//
// Grounded on the teacher's internal/js_ast.go type-tag pattern (an
// interface-free, field-union style struct distinguished by a Kind enum)
// rather than the teacher's AST visitor pattern, since C's type system has
// no analog to JS's dynamic AST shape and a flat struct is both cheaper and
// closer to how a single-pass C frontend actually represents types.
package cc_types

// Kind distinguishes the sealed type variant (spec section 3.2).
type Kind uint8

const (
	KVoid Kind = iota
	KArithmetic
	KPointer
	KArray
	KStruct
	KFunction
)

func (k Kind) String() string {
	switch k {
	case KVoid:
		return "void"
	case KArithmetic:
		return "arithmetic"
	case KPointer:
		return "pointer"
	case KArray:
		return "array"
	case KStruct:
		return "struct"
	case KFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Type is the one struct shared by every variant member; only the fields
// relevant to Kind are populated. Struct and Function types are always
// handed out as the same *Type pointer for a given declaration, so pointer
// identity gives the handle-identity equality spec section 3.2 requires for
// structs ("struct equality is backend-type-handle identity").
type Type struct {
	Kind     Kind
	Width    int64
	Align    int64
	Complete bool

	Arith ArithKind // valid when Kind == KArithmetic

	Pointee QualifiedType // valid when Kind == KPointer

	Elem  QualifiedType // valid when Kind == KArray
	Count int64         // valid when Kind == KArray

	Struct *StructInfo // valid when Kind == KStruct
	Func   *FuncInfo   // valid when Kind == KFunction

	// backend is the lazily computed backend-type handle spec section 3.2
	// promises every type carries. The frontend core never inspects it; it
	// exists so a backend plugged in behind this package can memoize its own
	// representation without threading a second map keyed by *Type.
	backend any
}

// BackendHandle returns the memoized backend-type handle for t, computing
// it with build on first use. A nil build is a coding error in the caller,
// not a runtime one, since only a backend integration would ever pass one.
func (t *Type) BackendHandle(build func(*Type) any) any {
	if t.backend == nil {
		t.backend = build(t)
	}
	return t.backend
}

// QualMask holds the const/restrict/volatile bits of a qualified type
// (spec section 3.2: "Qualifiers are properties of the binding, not of the
// type identity").
type QualMask uint8

const (
	QualConst QualMask = 1 << iota
	QualRestrict
	QualVolatile
)

func (q QualMask) Has(bit QualMask) bool { return q&bit != 0 }

// QualifiedType pairs an underlying Type with its qualifier mask.
type QualifiedType struct {
	Type  *Type
	Quals QualMask
}

func Unqualified(t *Type) QualifiedType { return QualifiedType{Type: t} }

// Arena bump-allocates Type values for the lifetime of one translation
// unit; nothing is ever freed individually (spec section 3.4's lifecycle
// rule, which applies to types as well as AST nodes). Kept as a slice of
// pointers rather than a contiguous []Type so that already-handed-out *Type
// pointers remain stable across growth.
type Arena struct {
	types []*Type
	arith map[ArithKind]*Type
}

func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) alloc() *Type {
	t := &Type{}
	a.types = append(a.types, t)
	return t
}

var voidType = &Type{Kind: KVoid, Width: 0, Align: 1, Complete: false}

// GetVoid returns the single shared void type. void has no width and is
// never complete (spec section 3.2 implies completeness only makes sense
// for object types; void is used only as a return type or pointee).
func (a *Arena) GetVoid() *Type {
	return voidType
}
