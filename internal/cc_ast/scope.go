package cc_ast

// ScopeKind is one of C's four scope kinds (spec section 3.3/4.3).
type ScopeKind uint8

const (
	ScopeFile ScopeKind = iota
	ScopeBlock
	ScopeFunction
	ScopeFunctionPrototype
)

// Scope implements spec section 3.3's two-namespace lookup model: an
// ordinary-identifier map and a tag map (struct/union/enum tags), each
// mapping a name to the identifier-expression that declared it.
//
// Grounded on internal/js_ast/js_ast.go's Scope/ScopeKind/ScopeMember, with
// the single Members map split into two (ordinary/tag) since C has two
// namespaces where JS has one.
type Scope struct {
	Parent   *Scope
	Kind     ScopeKind
	Ordinary map[string]*Expr
	Tags     map[string]*Expr
}

func NewScope(parent *Scope, kind ScopeKind) *Scope {
	return &Scope{
		Parent:   parent,
		Kind:     kind,
		Ordinary: make(map[string]*Expr),
		Tags:     make(map[string]*Expr),
	}
}

// InsertOrdinary binds name in this scope's ordinary namespace. ok is false
// if name is already bound in this scope (a redeclaration the caller must
// check for compatibility before overwriting, per spec section 4.4's
// redeclaration rules).
func (s *Scope) InsertOrdinary(name string, ident *Expr) (ok bool) {
	if _, exists := s.Ordinary[name]; exists {
		return false
	}
	s.Ordinary[name] = ident
	return true
}

func (s *Scope) InsertTag(name string, ident *Expr) (ok bool) {
	if _, exists := s.Tags[name]; exists {
		return false
	}
	s.Tags[name] = ident
	return true
}

// FindOrdinary walks up through parent scopes (spec section 4.3).
func (s *Scope) FindOrdinary(name string) *Expr {
	for sc := s; sc != nil; sc = sc.Parent {
		if e, ok := sc.Ordinary[name]; ok {
			return e
		}
	}
	return nil
}

func (s *Scope) FindTag(name string) *Expr {
	for sc := s; sc != nil; sc = sc.Parent {
		if e, ok := sc.Tags[name]; ok {
			return e
		}
	}
	return nil
}

func (s *Scope) FindOrdinaryInCurrent(name string) *Expr {
	return s.Ordinary[name]
}

func (s *Scope) FindTagInCurrent(name string) *Expr {
	return s.Tags[name]
}

// ReparentTag moves a tag declared inside a struct/union body into the
// surrounding scope when that body closes, matching C's rule that tags
// declared inside an aggregate body belong to the enclosing scope (spec
// section 4.3).
func ReparentTag(name string, ident *Expr, from, to *Scope) {
	delete(from.Tags, name)
	if _, exists := to.Tags[name]; !exists {
		to.Tags[name] = ident
	}
}
