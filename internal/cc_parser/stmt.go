package cc_parser

import (
	"github.com/c17core/c17core/internal/cc_ast"
	"github.com/c17core/c17core/internal/cc_lexer"
)

// parseStmt implements spec.md section 4.4's statement grammar. Block-scope
// declarations are recognized the same way parseExternalDeclaration
// recognizes a top-level one: any token that can start a declaration-
// specifier list, or a typedef-name used as one.
func (p *Parser) parseStmt() *cc_ast.Stmt {
	loc := p.locHere()
	switch p.peek() {
	case cc_lexer.TLBrace:
		return p.parseCompoundStmt()
	case cc_lexer.TIf:
		return p.parseIfStmt(loc)
	case cc_lexer.TSwitch:
		return p.parseSwitchStmt(loc)
	case cc_lexer.TWhile:
		return p.parseWhileStmt(loc)
	case cc_lexer.TDo:
		return p.parseDoWhileStmt(loc)
	case cc_lexer.TFor:
		return p.parseForStmt(loc)
	case cc_lexer.TGoto:
		p.advance()
		label := p.expect(cc_lexer.TIdentifier).Lexeme
		p.expect(cc_lexer.TSemicolon)
		p.gotos = append(p.gotos, pendingGoto{label: label, loc: loc})
		return p.ast.NewStmt(&cc_ast.SGoto{Label: label}, loc)
	case cc_lexer.TContinue:
		p.advance()
		p.expect(cc_lexer.TSemicolon)
		if p.loopDepth == 0 {
			p.errorHere("'continue' statement not in a loop")
		}
		return p.ast.NewStmt(&cc_ast.SContinue{}, loc)
	case cc_lexer.TBreak:
		p.advance()
		p.expect(cc_lexer.TSemicolon)
		if p.loopDepth == 0 && p.switchDepth == 0 {
			p.errorHere("'break' statement not in a loop or switch")
		}
		return p.ast.NewStmt(&cc_ast.SBreak{}, loc)
	case cc_lexer.TReturn:
		return p.parseReturnStmt(loc)
	case cc_lexer.TCase:
		return p.parseCaseStmt(loc)
	case cc_lexer.TDefault:
		p.advance()
		p.expect(cc_lexer.TColon)
		return p.ast.NewStmt(&cc_ast.SDefault{Body: p.parseStmt()}, loc)
	case cc_lexer.TSemicolon:
		p.advance()
		return p.ast.NewStmt(&cc_ast.SCompound{}, loc)
	case cc_lexer.TStaticAssert:
		p.parseStaticAssertDecl()
		return p.ast.NewStmt(&cc_ast.SCompound{}, loc)
	case cc_lexer.TIdentifier:
		if p.peekAt(1) == cc_lexer.TColon && !p.isTypedefName(p.cur().Lexeme) {
			return p.parseLabelStmt(loc)
		}
	}
	if p.startsDeclaration() {
		decl := p.parseLocalDeclaration()
		return p.ast.NewStmt(&cc_ast.SDeclStmt{Decl: decl}, loc)
	}
	e := p.parseExpr()
	p.expect(cc_lexer.TSemicolon)
	return p.ast.NewStmt(&cc_ast.SExpr{X: e}, loc)
}

func (p *Parser) parseLabelStmt(loc cc_lexer.Location) *cc_ast.Stmt {
	name := p.cur().Lexeme
	p.advance()
	p.advance() // ":"
	s := p.ast.NewStmt(&cc_ast.SLabel{Name: name, Body: p.parseStmt()}, loc)
	p.labels[name] = s
	return s
}

func (p *Parser) parseCaseStmt(loc cc_lexer.Location) *cc_ast.Stmt {
	p.advance()
	lhs := p.parseConditionalExpr()
	var rhs *cc_ast.Expr
	if p.match(cc_lexer.TEllipsis) {
		rhs = p.parseConditionalExpr()
	}
	p.expect(cc_lexer.TColon)
	if p.switchDepth == 0 {
		p.errorHere("'case' statement not in a switch statement")
	}
	return p.ast.NewStmt(&cc_ast.SCase{Lhs: lhs, Rhs: rhs, Body: p.parseStmt()}, loc)
}

// parseCompoundStmt implements "{ ... }", pushing a block scope per
// spec.md section 4.3. Compound literals and nested declarations both
// thread through this scope.
func (p *Parser) parseCompoundStmt() *cc_ast.Stmt {
	loc := p.locHere()
	p.expect(cc_lexer.TLBrace)
	scope := p.pushScope(cc_ast.ScopeBlock)
	var stmts []*cc_ast.Stmt
	p.compoundStack = append(p.compoundStack, &stmts)
	for p.peek() != cc_lexer.TRBrace && p.peek() != cc_lexer.TEndOfFile {
		stmts = append(stmts, p.parseStmt())
	}
	p.compoundStack = p.compoundStack[:len(p.compoundStack)-1]
	p.expect(cc_lexer.TRBrace)
	p.popScope()
	return p.ast.NewStmt(&cc_ast.SCompound{Stmts: stmts, Scope: scope}, loc)
}

func (p *Parser) parseIfStmt(loc cc_lexer.Location) *cc_ast.Stmt {
	p.advance()
	p.expect(cc_lexer.TLParen)
	cond := p.parseExpr()
	p.expect(cc_lexer.TRParen)
	then := p.parseStmt()
	var els *cc_ast.Stmt
	if p.match(cc_lexer.TElse) {
		els = p.parseStmt()
	}
	return p.ast.NewStmt(&cc_ast.SIf{Cond: cond, Then: then, Else: els}, loc)
}

func (p *Parser) parseSwitchStmt(loc cc_lexer.Location) *cc_ast.Stmt {
	p.advance()
	p.expect(cc_lexer.TLParen)
	x := p.parseExpr()
	p.expect(cc_lexer.TRParen)
	p.switchDepth++
	body := p.parseStmt()
	p.switchDepth--
	return p.ast.NewStmt(&cc_ast.SSwitch{X: x, Body: body}, loc)
}

func (p *Parser) parseWhileStmt(loc cc_lexer.Location) *cc_ast.Stmt {
	p.advance()
	p.expect(cc_lexer.TLParen)
	cond := p.parseExpr()
	p.expect(cc_lexer.TRParen)
	p.loopDepth++
	body := p.parseStmt()
	p.loopDepth--
	return p.ast.NewStmt(&cc_ast.SWhile{Cond: cond, Body: body}, loc)
}

func (p *Parser) parseDoWhileStmt(loc cc_lexer.Location) *cc_ast.Stmt {
	p.advance()
	p.loopDepth++
	body := p.parseStmt()
	p.loopDepth--
	p.expect(cc_lexer.TWhile)
	p.expect(cc_lexer.TLParen)
	cond := p.parseExpr()
	p.expect(cc_lexer.TRParen)
	p.expect(cc_lexer.TSemicolon)
	return p.ast.NewStmt(&cc_ast.SDoWhile{Body: body, Cond: cond}, loc)
}

// parseForStmt pushes a block scope for the init-clause the way a C99
// for-loop's own scope rule requires (spec.md section 4.3): a declaration
// in the init-clause is visible to Cond/Post/Body but nothing after the
// loop.
func (p *Parser) parseForStmt(loc cc_lexer.Location) *cc_ast.Stmt {
	p.advance()
	p.expect(cc_lexer.TLParen)
	scope := p.pushScope(cc_ast.ScopeBlock)

	var init *cc_ast.Stmt
	if p.peek() != cc_lexer.TSemicolon {
		if p.startsDeclaration() {
			initLoc := p.locHere()
			decl := p.parseLocalDeclaration()
			init = p.ast.NewStmt(&cc_ast.SDeclStmt{Decl: decl}, initLoc)
		} else {
			initLoc := p.locHere()
			init = p.ast.NewStmt(&cc_ast.SExpr{X: p.parseExpr()}, initLoc)
			p.expect(cc_lexer.TSemicolon)
		}
	} else {
		p.advance()
	}

	var cond *cc_ast.Expr
	if p.peek() != cc_lexer.TSemicolon {
		cond = p.parseExpr()
	}
	p.expect(cc_lexer.TSemicolon)

	var post *cc_ast.Expr
	if p.peek() != cc_lexer.TRParen {
		post = p.parseExpr()
	}
	p.expect(cc_lexer.TRParen)

	p.loopDepth++
	body := p.parseStmt()
	p.loopDepth--
	p.popScope()
	return p.ast.NewStmt(&cc_ast.SFor{Init: init, Cond: cond, Post: post, Body: body, Scope: scope}, loc)
}

func (p *Parser) parseReturnStmt(loc cc_lexer.Location) *cc_ast.Stmt {
	p.advance()
	var x *cc_ast.Expr
	if p.peek() != cc_lexer.TSemicolon {
		x = p.parseExpr()
		x = p.convertAssign(p.currentReturn, x)
	}
	p.expect(cc_lexer.TSemicolon)
	return p.ast.NewStmt(&cc_ast.SReturn{X: x}, loc)
}
