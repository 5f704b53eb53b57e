// Package cc_parser implements spec.md section 4.4, the Parser: a
// recursive-descent pass over the scanned token vector that builds the
// typed AST, maintains the scope hierarchy, and elaborates initializers as
// it walks declarations.
//
// Grounded on the teacher's js_parser.go: a single large Parser struct
// carrying the token cursor, the current scope chain, and a handful of
// "currently inside a loop/switch" flags, with one method per grammar
// production and precedence-climbing for expressions. C's declarator
// grammar and statement set differ completely from JS, but the shape of
// the parser (fields, error reporting via log.AddError, lookahead helpers)
// follows js_parser's. An error is fatal: log.AddError panics with
// logger.FatalError, ending the translation unit.
package cc_parser

import (
	"fmt"

	"github.com/c17core/c17core/internal/cc_ast"
	"github.com/c17core/c17core/internal/cc_lexer"
	"github.com/c17core/c17core/internal/cc_types"
	"github.com/c17core/c17core/internal/helpers"
	"github.com/c17core/c17core/internal/logger"
)

// Parser holds everything a translation unit's worth of parsing needs.
// Per spec.md section 5, this state is never shared or accessed
// concurrently; a second translation unit gets its own Parser, Arena, and
// type Arena.
type Parser struct {
	log    *logger.Log
	source *logger.Source
	tokens []cc_lexer.Token
	pos    int

	types *cc_types.Arena
	ast   *cc_ast.Arena

	fileScope    *cc_ast.Scope
	currentScope *cc_ast.Scope

	// fileTentatives collects, per file-scope object name, every
	// declaration of that name with external or internal linkage seen so
	// far (spec.md section 4.4's "Tentative definition" glossary entry).
	// Resolved at translation-unit end by mergeTentativeDefinitions.
	fileTentatives map[string][]tentativeCandidate

	// typedefNames tracks which ordinary-namespace identifiers currently
	// name a type, since spec.md section 4.4's grammar needs this to
	// disambiguate a declarator from an expression (the classic C
	// "typedef-name as token class" problem). Keyed by name since a
	// typedef can be redeclared identically in a nested scope; the scope
	// chain itself is still the authority for shadowing, this is only the
	// "is this spelling plausibly a type" fast test.
	typedefNames map[string]bool

	// Function-body-only state, reset by parseFunctionDefinition.
	labels              map[string]*cc_ast.Stmt
	gotos               []pendingGoto
	loopDepth           int
	switchDepth         int
	currentReturn       cc_types.QualifiedType
	currentFunctionName string

	// compoundStack is "a stack of enclosing compound statements" spec.md
	// section 5 lists as parser-owned state, used to hoist a block-scope
	// compound literal's synthetic declaration into the nearest enclosing
	// block (spec.md section 9's compound-literal open question). Each
	// entry points at the Stmts slice a parseCompoundStmt call is still
	// building.
	compoundStack []*[]*cc_ast.Stmt
	// clCounter numbers hoisted compound literals within the current
	// function (".cl$N", SPEC_FULL.md section E), reset per function.
	clCounter int
}

type pendingGoto struct {
	label string
	loc   cc_lexer.Location
}

// tentativeCandidate pairs a file-scope declaration with the object's
// width, since EObject itself carries no QualifiedType (that lives on the
// wrapping *cc_ast.Expr) and mergeTentativeDefinitions needs the width to
// size a zero-init image.
type tentativeCandidate struct {
	decl  *cc_ast.DDeclaration
	width int64
}

// NewParser tokenizes source and prepares a Parser with the file scope
// populated by the builtins spec.md section 6 requires.
func NewParser(log *logger.Log, source *logger.Source) *Parser {
	lexer := cc_lexer.NewLexer(log, *source)
	tokens := lexer.Tokenize()

	p := &Parser{
		log:          log,
		source:       source,
		tokens:       tokens,
		types:          cc_types.NewArena(),
		ast:            cc_ast.NewArena(),
		typedefNames:   map[string]bool{},
		fileTentatives: map[string][]tentativeCandidate{},
	}
	p.fileScope = cc_ast.NewScope(nil, cc_ast.ScopeFile)
	p.currentScope = p.fileScope
	p.declareBuiltins()
	return p
}

// ParseTranslationUnit implements spec.md section 4.4's top-level
// production: a sequence of external declarations until end of file.
func (p *Parser) ParseTranslationUnit() (unit *cc_ast.DTranslationUnit) {
	defer p.recoverUnexpectedPanic()
	unit = &cc_ast.DTranslationUnit{}
	for p.peek() != cc_lexer.TEndOfFile {
		if p.match(cc_lexer.TSemicolon) {
			continue // a stray top-level ";" is accepted silently, as real compilers do
		}
		if p.peek() == cc_lexer.TStaticAssert {
			unit.Decls = append(unit.Decls, p.parseStaticAssert())
			continue
		}
		decls := p.parseExternalDeclaration()
		unit.Decls = append(unit.Decls, decls...)
	}
	p.mergeTentativeDefinitions()
	return unit
}

// recoverUnexpectedPanic reports a panic that is not itself a
// logger.FatalError (spec section 5's fatal-unwind convention only accounts
// for diagnosed errors) by attaching the pretty-printed goroutine stack as a
// note and re-raising it as a FatalError, the way the teacher's bundler
// worker reports an unexpected panic while parsing one file
// (internal/bundler/bundler.go's parse-result recover) rather than letting
// an internal bug crash the whole process.
func (p *Parser) recoverUnexpectedPanic() {
	r := recover()
	if r == nil {
		return
	}
	if _, ok := r.(logger.FatalError); ok {
		panic(r)
	}
	p.log.AddErrorWithNotes(p.source, logger.Range{}, fmt.Sprintf("internal error: %v", r), []logger.MsgData{{Text: helpers.PrettyPrintedStack()}})
}

// --- token cursor -----------------------------------------------------

func (p *Parser) at(offset int) cc_lexer.Token {
	i := p.pos + offset
	if i < 0 || i >= len(p.tokens) {
		return cc_lexer.Token{Tag: cc_lexer.TEndOfFile}
	}
	return p.tokens[i]
}

func (p *Parser) cur() cc_lexer.Token { return p.at(0) }

func (p *Parser) peek() cc_lexer.T { return p.cur().Tag }

func (p *Parser) peekAt(offset int) cc_lexer.T { return p.at(offset).Tag }

func (p *Parser) advance() cc_lexer.Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 || t.Tag != cc_lexer.TEndOfFile {
		p.pos++
	}
	return t
}

func (p *Parser) match(tag cc_lexer.T) bool {
	if p.peek() != tag {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) expect(tag cc_lexer.T) cc_lexer.Token {
	if p.peek() != tag {
		p.errorHere("expected " + tag.String() + " but found " + p.peek().String())
		return p.cur()
	}
	return p.advance()
}

func (p *Parser) errorHere(msg string) {
	p.log.AddError(p.source, p.cur().Range, msg)
}

func (p *Parser) locHere() cc_lexer.Location { return p.cur().Loc }

// --- scope helpers ------------------------------------------------------

func (p *Parser) pushScope(kind cc_ast.ScopeKind) *cc_ast.Scope {
	s := cc_ast.NewScope(p.currentScope, kind)
	p.currentScope = s
	return s
}

func (p *Parser) popScope() {
	p.currentScope = p.currentScope.Parent
}

func (p *Parser) isTypedefName(name string) bool {
	if !p.typedefNames[name] {
		return false
	}
	ident := p.currentScope.FindOrdinary(name)
	if ident == nil {
		return false
	}
	obj, ok := ident.Data.(*cc_ast.EObject)
	return ok && obj.Storage == cc_ast.StorageTypedef
}
