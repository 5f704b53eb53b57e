package cc_ast

import "github.com/c17core/c17core/internal/cc_types"

// InitEntry is the 5-tuple spec section 3.5 describes: an element type, a
// byte offset, optional bit-field placement, and the expression supplying
// the value. Produced by the initializer elaborator (a separate package,
// since the elaboration algorithm is substantial) but defined here, beside
// Declaration, so that package and cc_ast don't form an import cycle: the
// elaborator needs cc_ast's Expr/Scope/Object types, so the entry shape it
// returns has to live on cc_ast's side of that dependency.
type InitEntry struct {
	ElemType   cc_types.QualifiedType
	ByteOffset int64
	BitBegin   int
	BitWidth   int
	Value      *Expr
}

// InitPlan is what a Declaration for a local auto object carries (spec
// section 3.5): either a list of entries for runtime stores, or ValueInit
// to zero-initialize with no explicit entries.
type InitPlan struct {
	Entries   []InitEntry
	ValueInit bool
}

// DDeclaration is "one identifier, optional initializer list or backend
// constant" (spec section 3.4). At most one of AutoPlan/StaticConstant is
// set, matching spec section 3.5: a local auto object gets AutoPlan; a
// global or local-static object gets a single backend constant. Neither is
// set for a declaration with no initializer, except that a file-scope
// tentative definition left without one is given a zero-filled
// StaticConstant at the end of the translation unit.
type DDeclaration struct {
	Object        *EObject
	AutoPlan      *InitPlan
	StaticConstant any
}

func (*DDeclaration) isDecl() {}

// DFuncDef is a function definition: identifier plus body (spec section 3.4).
type DFuncDef struct {
	Object *EObject
	Labels map[string]*Stmt // resolved goto targets, filled in at function exit (spec section 4.4)
	Body   *Stmt            // always an SCompound
}

func (*DFuncDef) isDecl() {}

// DTranslationUnit is the ordered list of external declarations that make
// up one compiled file (spec section 3.4).
type DTranslationUnit struct {
	Decls []*Decl
}

func (*DTranslationUnit) isDecl() {}

// DStaticAssert records a file-scope "_Static_assert(expr, message)" that
// already passed (a failing one is a fatal parse-time error and never
// reaches the tree, per spec section 4.4), keeping the declaration list in
// source order. An empty DStaticAssert is also the placeholder Decl for a
// block-scope declaration with no declarator ("struct S { int x; };").
type DStaticAssert struct {
	Message string
}

func (*DStaticAssert) isDecl() {}
