// Package cc_ast is the typed AST spec.md section 3.4 describes, plus the
// scope hierarchy of section 3.3/4.3, co-located in the same package the
// way the teacher keeps its Scope type beside its AST rather than in a
// separate resolver package (internal/js_ast/js_ast.go's Scope/ScopeKind/
// ScopeMember).
//
// Every node kind follows the teacher's tagged-variant shape: a thin
// wrapper (Expr/Stmt/Decl) carrying a source location plus an interface
// field (E/S/D) implemented by one pointer-to-struct type per kind, rather
// than a class hierarchy with virtual dispatch. See js_ast.go's
// Expr{Loc, Data E} / type E interface{ isExpr() }.
package cc_ast

import (
	"github.com/c17core/c17core/internal/cc_lexer"
	"github.com/c17core/c17core/internal/cc_types"
	"github.com/c17core/c17core/internal/logger"
)

// Expr is one expression node. Type is attached by the parser's check()
// methods once the node's operands are known (spec section 3.4: "Expression
// nodes additionally carry a qualified type"). Range is kept alongside the
// richer Loc so that later passes (the constant evaluator, the initializer
// elaborator) can still produce a precise diagnostic without re-deriving a
// byte range from a row/column.
type Expr struct {
	Data  E
	Loc   cc_lexer.Location
	Range logger.Range
	Type  cc_types.QualifiedType
}

// E is implemented by exactly one struct per expression kind (see expr.go).
type E interface{ isExpr() }

// Stmt is one statement node.
type Stmt struct {
	Data S
	Loc  cc_lexer.Location
}

// S is implemented by exactly one struct per statement kind (see stmt.go).
type S interface{ isStmt() }

// Decl is one declaration node.
type Decl struct {
	Data D
	Loc  cc_lexer.Location
}

// D is implemented by exactly one struct per declaration kind (see decl.go).
type D interface{ isDecl() }

// Arena bump-allocates every Expr/Stmt/Decl for the lifetime of one
// translation unit; nothing is freed individually (spec section 3.4's
// lifecycle rule).
type Arena struct {
	exprs []*Expr
	stmts []*Stmt
	decls []*Decl
	scopes []*Scope
}

func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) NewExpr(data E, loc cc_lexer.Location) *Expr {
	e := &Expr{Data: data, Loc: loc}
	a.exprs = append(a.exprs, e)
	return e
}

func (a *Arena) NewStmt(data S, loc cc_lexer.Location) *Stmt {
	s := &Stmt{Data: data, Loc: loc}
	a.stmts = append(a.stmts, s)
	return s
}

func (a *Arena) NewDecl(data D, loc cc_lexer.Location) *Decl {
	d := &Decl{Data: data, Loc: loc}
	a.decls = append(a.decls, d)
	return d
}

// RegisterScope hands out the Index32-style handle
// cc_types.StructInfo.MemberScopeHandle stores, so a struct type's member
// scope can be found again without cc_types importing this package.
func (a *Arena) RegisterScope(s *Scope) int32 {
	a.scopes = append(a.scopes, s)
	return int32(len(a.scopes) - 1)
}

func (a *Arena) Scope(handle int32) *Scope {
	if handle < 0 || int(handle) >= len(a.scopes) {
		return nil
	}
	return a.scopes[handle]
}
