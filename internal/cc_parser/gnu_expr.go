package cc_parser

import (
	"github.com/c17core/c17core/internal/cc_ast"
	"github.com/c17core/c17core/internal/cc_lexer"
	"github.com/c17core/c17core/internal/cc_types"
)

// parseGenericSelection implements C11's "_Generic(expr, T1: e1, T2: e2,
// default: ed)" (spec.md section 6's GNU/C11 extension list): the
// controlling expression's type picks one associated expression at parse
// time, by exact type compatibility, falling back to "default" when
// present.
func (p *Parser) parseGenericSelection(loc cc_lexer.Location) *cc_ast.Expr {
	p.advance()
	p.expect(cc_lexer.TLParen)
	control := p.parseAssignmentExpr()
	p.expect(cc_lexer.TComma)

	var result *cc_ast.Expr
	var defaultResult *cc_ast.Expr
	for {
		if p.match(cc_lexer.TDefault) {
			p.expect(cc_lexer.TColon)
			e := p.parseAssignmentExpr()
			defaultResult = e
		} else {
			t := p.parseTypeName()
			p.expect(cc_lexer.TColon)
			e := p.parseAssignmentExpr()
			if result == nil && cc_types.Compatible(control.Type.Type, t.Type) {
				result = e
			}
		}
		if !p.match(cc_lexer.TComma) {
			break
		}
	}
	p.expect(cc_lexer.TRParen)
	if result == nil {
		result = defaultResult
	}
	if result == nil {
		p.errorHere("_Generic selection has no matching association")
		return control
	}
	return result
}

// parseBuiltinVaArg implements "__builtin_va_arg(ap, type)". It is
// represented as the EFuncCall.VaArgType special form cc_ast.EFuncCall
// documents, calling the synthetic __builtin_va_arg_sub builtin declared by
// declareBuiltins so the rest of the pipeline never needs a dedicated AST
// node for this one GNU form.
func (p *Parser) parseBuiltinVaArg(loc cc_lexer.Location) *cc_ast.Expr {
	p.advance()
	p.expect(cc_lexer.TLParen)
	ap := p.parseAssignmentExpr()
	p.expect(cc_lexer.TComma)
	t := p.parseTypeName()
	p.expect(cc_lexer.TRParen)

	// SPEC_FULL.md section E keeps the source program's restriction: only
	// integer, pointer, and floating va_arg_types are supported. A
	// struct/union operand is diagnosed rather than silently miscompiled.
	if t.Type.Kind == cc_types.KStruct {
		p.errorHere("aggregate va_arg is not supported")
	}

	callee := p.currentScope.FindOrdinary("__builtin_va_arg_sub")
	var calleeExpr *cc_ast.Expr
	if callee != nil {
		calleeExpr = p.ast.NewExpr(callee.Data, loc)
		calleeExpr.Type = callee.Type
	}
	e := p.ast.NewExpr(&cc_ast.EFuncCall{Callee: calleeExpr, Args: []*cc_ast.Expr{ap}, VaArgType: &t}, loc)
	e.Type = t
	return e
}

// parseBuiltinChooseExpr implements "__builtin_choose_expr(const, a, b)":
// the controlling expression is folded immediately, and the unchosen
// branch is still parsed (it still must be syntactically valid) but
// discarded (spec.md section 6).
func (p *Parser) parseBuiltinChooseExpr(loc cc_lexer.Location) *cc_ast.Expr {
	p.advance()
	p.expect(cc_lexer.TLParen)
	cond := p.parseAssignmentExpr()
	p.expect(cc_lexer.TComma)
	a := p.parseAssignmentExpr()
	p.expect(cc_lexer.TComma)
	b := p.parseAssignmentExpr()
	p.expect(cc_lexer.TRParen)
	if p.foldConstantInt(cond) != 0 {
		return a
	}
	return b
}

// parseBuiltinTypesCompatible implements
// "__builtin_types_compatible_p(T1, T2)", folding to 0/1 immediately since
// both operands are type-names, never values (spec.md section 6).
func (p *Parser) parseBuiltinTypesCompatible(loc cc_lexer.Location) *cc_ast.Expr {
	p.advance()
	p.expect(cc_lexer.TLParen)
	a := p.parseTypeName()
	p.expect(cc_lexer.TComma)
	b := p.parseTypeName()
	p.expect(cc_lexer.TRParen)
	v := int64(0)
	if cc_types.Compatible(a.Type, b.Type) {
		v = 1
	}
	return p.newIntConstant(loc, v)
}
