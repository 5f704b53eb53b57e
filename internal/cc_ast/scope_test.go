package cc_ast

import (
	"testing"

	"github.com/c17core/c17core/internal/cc_lexer"
)

func TestScopeLookupWalksParents(t *testing.T) {
	file := NewScope(nil, ScopeFile)
	block := NewScope(file, ScopeBlock)

	outer := &Expr{Data: &EIdentifier{IdentifierBase{Name: "x"}}}
	file.InsertOrdinary("x", outer)

	if found := block.FindOrdinary("x"); found != outer {
		t.Fatal("expected lookup from a block scope to find a file-scope identifier")
	}
	if found := block.FindOrdinaryInCurrent("x"); found != nil {
		t.Fatal("find-in-current must not walk parents")
	}
}

func TestScopeInsertDetectsRedeclaration(t *testing.T) {
	s := NewScope(nil, ScopeFile)
	a := &Expr{Data: &EIdentifier{IdentifierBase{Name: "x"}}}
	b := &Expr{Data: &EIdentifier{IdentifierBase{Name: "x"}}}

	if ok := s.InsertOrdinary("x", a); !ok {
		t.Fatal("first insert should succeed")
	}
	if ok := s.InsertOrdinary("x", b); ok {
		t.Fatal("second insert of the same name in the same scope should report a collision")
	}
}

func TestTagAndOrdinaryNamespacesAreIndependent(t *testing.T) {
	s := NewScope(nil, ScopeFile)
	ordinary := &Expr{Data: &EIdentifier{IdentifierBase{Name: "point"}}}
	tag := &Expr{Data: &EIdentifier{IdentifierBase{Name: "point"}}}

	s.InsertOrdinary("point", ordinary)
	if ok := s.InsertTag("point", tag); !ok {
		t.Fatal("the same name should be insertable in both namespaces independently")
	}
	if s.FindOrdinary("point") == s.FindTag("point") {
		t.Fatal("ordinary and tag lookups should not see each other's bindings")
	}
}

func TestReparentTagMovesBindingToEnclosingScope(t *testing.T) {
	outer := NewScope(nil, ScopeFile)
	structBody := NewScope(outer, ScopeBlock)

	inner := &Expr{Data: &EIdentifier{IdentifierBase{Name: "inner_tag"}}}
	structBody.InsertTag("inner_tag", inner)

	ReparentTag("inner_tag", inner, structBody, outer)

	if structBody.FindTagInCurrent("inner_tag") != nil {
		t.Fatal("tag should have been removed from the struct body's own scope")
	}
	if outer.FindTagInCurrent("inner_tag") != inner {
		t.Fatal("tag should now be found directly in the enclosing scope")
	}
}

func TestArenaAllocatesDistinctNodes(t *testing.T) {
	a := NewArena()
	e1 := a.NewExpr(&EIdentifier{IdentifierBase{Name: "a"}}, cc_lexer.Location{})
	e2 := a.NewExpr(&EIdentifier{IdentifierBase{Name: "b"}}, cc_lexer.Location{})
	if e1 == e2 {
		t.Fatal("expected distinct Expr nodes from successive NewExpr calls")
	}
}

func TestScopeArenaHandleRoundTrip(t *testing.T) {
	a := NewArena()
	s := NewScope(nil, ScopeBlock)
	h := a.RegisterScope(s)
	if a.Scope(h) != s {
		t.Fatal("expected the scope handle to resolve back to the same scope")
	}
	if a.Scope(-1) != nil {
		t.Fatal("expected an invalid handle to resolve to nil")
	}
}
