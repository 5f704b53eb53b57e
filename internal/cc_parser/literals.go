package cc_parser

import (
	"math/big"

	"github.com/c17core/c17core/internal/cc_ast"
	"github.com/c17core/c17core/internal/cc_lexer"
	"github.com/c17core/c17core/internal/cc_types"
)

// parseNumberToken folds a TNumber token through cc_lexer.ParseNumber and
// diagnoses overflow, matching spec.md section 4.1's "Key policies" for
// picking an integer constant's type.
func (p *Parser) parseNumberToken() *cc_ast.Expr {
	tok := p.cur()
	loc := tok.Loc
	p.advance()
	n, err := cc_lexer.ParseNumber(p.types, tok.Lexeme)
	if err != nil {
		p.log.AddError(p.source, tok.Range, err.Error())
		return p.newULongConstant(loc, 0)
	}
	cc_lexer.DiagnoseOverflow(p.log, p.source, tok.Range, n)
	var e *cc_ast.Expr
	if n.Kind == cc_lexer.NumFloating {
		e = p.ast.NewExpr(&cc_ast.EConstant{Kind: cc_ast.ConstFloating, FloatValue: n.FloatValue}, loc)
	} else {
		e = p.ast.NewExpr(&cc_ast.EConstant{Kind: cc_ast.ConstInteger, IntValue: n.IntValue}, loc)
	}
	e.Type = cc_types.Unqualified(n.Type)
	return e
}

func (p *Parser) parseCharToken() *cc_ast.Expr {
	tok := p.cur()
	loc := tok.Loc
	p.advance()
	value, enc := cc_lexer.HandleCharacter(p.log, tok.Lexeme, loc, p.source, tok.Range)
	e := p.ast.NewExpr(&cc_ast.EConstant{Kind: cc_ast.ConstInteger, IntValue: bigFromInt64(value)}, loc)
	if enc == cc_lexer.EncNone {
		e.Type = cc_types.Unqualified(p.types.GetArithmetic(cc_types.AkInt))
	} else {
		e.Type = cc_types.Unqualified(p.types.GetArithmetic(cc_types.AkInt))
	}
	return e
}

// parseStringToken concatenates every adjacent string-literal token
// (C17 section 6.4.5's "adjacent string literal tokens are concatenated"
// rule, which spec.md's grammar leaves implicit the way every real C
// scanner still applies it).
func (p *Parser) parseStringToken() *cc_ast.Expr {
	loc := p.locHere()
	var all []byte
	enc := cc_lexer.EncNone
	for p.peek() == cc_lexer.TStringLiteral {
		tok := p.cur()
		p.advance()
		bytes, tokEnc := cc_lexer.HandleString(p.log, tok.Lexeme, loc, p.source, tok.Range, true)
		if tokEnc != cc_lexer.EncNone {
			enc = tokEnc
		}
		// HandleString always appends the trailing NUL for a single literal;
		// strip it here so concatenating adjacent literals ("a" "b") doesn't
		// splice a NUL into the middle of the result, then add exactly one
		// back below.
		bytes = bytes[:len(bytes)-1]
		all = append(all, bytes...)
	}
	all = append(all, 0)
	e := p.ast.NewExpr(&cc_ast.EStringLiteral{Bytes: all, Encoding: enc}, loc)
	elem := cc_types.QualifiedType{Type: p.types.GetArithmetic(cc_types.AkChar), Quals: cc_types.QualConst}
	e.Type = cc_types.Unqualified(p.types.GetArray(elem, int64(len(all))))
	return e
}

func bigFromInt64(v int64) *big.Int { return big.NewInt(v) }
