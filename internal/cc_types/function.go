package cc_types

// FuncSpec is the function-specifier bitmask (spec section 3.2: "inline,
// _Noreturn").
type FuncSpec uint8

const (
	FuncInline FuncSpec = 1 << iota
	FuncNoreturn
)

func (f FuncSpec) Has(bit FuncSpec) bool { return f&bit != 0 }

// Param mirrors a function type's parameter list entry. Like Member, this
// is kept as a plain value in cc_types rather than a cc_ast.Object to avoid
// a package cycle; the parser's function-prototype scope holds the real
// Object nodes and is consulted by name when it needs more than type/name.
type Param struct {
	Name string
	Type QualifiedType
}

// FuncInfo is the function-specific payload of a KFunction Type.
type FuncInfo struct {
	Return   QualifiedType
	Params   []Param
	VarArgs  bool
	Spec     FuncSpec
	Name     string
}

// Functions have no meaningful width/alignment as object types; 1 matches
// what sizeof(function) would report if ever taken (a constraint
// violation the parser diagnoses rather than this package).
const (
	functionWidth = 1
	functionAlign = 1
)

// GetFunction returns a new function type. Function types are, like
// structs, never interned — two function declarations with identical
// signatures still get distinct *Type values, and Equal/Compatible below
// compare them structurally rather than by identity.
func (a *Arena) GetFunction(ret QualifiedType, params []Param, varArgs bool) *Type {
	t := a.alloc()
	t.Kind = KFunction
	t.Func = &FuncInfo{Return: ret, Params: params, VarArgs: varArgs}
	t.Width = functionWidth
	t.Align = functionAlign
	t.Complete = true
	return t
}
