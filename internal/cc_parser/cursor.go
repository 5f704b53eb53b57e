package cc_parser

import (
	"github.com/c17core/c17core/internal/cc_ast"
	"github.com/c17core/c17core/internal/cc_lexer"
)

// Parser implements cc_init.Cursor directly (ParseAssignmentExpr already
// lives in expr.go): the narrow interface lets cc_init walk an
// initializer's braces and designators by calling back into the very
// parser that invoked it, without cc_init importing this package (see
// cc_init/init.go's package doc).
func (p *Parser) Peek() cc_lexer.T { return p.peek() }

func (p *Parser) Match(tag cc_lexer.T) bool { return p.match(tag) }

func (p *Parser) Expect(tag cc_lexer.T) { p.expect(tag) }

func (p *Parser) ParseConstantIndexExpr() int64 { return p.parseConstantIntExprValue() }

func (p *Parser) ParseDesignatorName() string {
	return p.expect(cc_lexer.TIdentifier).Lexeme
}

func (p *Parser) TryStringLiteralInitializer() (*cc_ast.Expr, bool) {
	if p.peek() != cc_lexer.TStringLiteral {
		return nil, false
	}
	return p.parseStringToken(), true
}
