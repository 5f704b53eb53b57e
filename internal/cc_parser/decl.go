package cc_parser

import (
	"github.com/c17core/c17core/internal/cc_ast"
	"github.com/c17core/c17core/internal/cc_init"
	"github.com/c17core/c17core/internal/cc_lexer"
	"github.com/c17core/c17core/internal/cc_types"
	"github.com/c17core/c17core/internal/logger"
)

// startsDeclaration reports whether the current token can begin a
// declaration-specifier list: either a genuine keyword, or an identifier
// that is currently bound as a typedef name (spec.md section 4.4's
// classic "is this a declaration or an expression statement" ambiguity).
func (p *Parser) startsDeclaration() bool {
	if p.peek().IsDeclarationSpecifierStart() {
		return true
	}
	return p.peek() == cc_lexer.TIdentifier && p.isTypedefName(p.cur().Lexeme)
}

// parseStaticAssert implements "_Static_assert(expr, \"message\");" (spec
// section 4.4): the condition is folded immediately, and a false result is
// a fatal error, since nothing downstream can recover a translation unit
// that fails its own compile-time assertions.
func (p *Parser) parseStaticAssert() *cc_ast.Decl {
	loc := p.locHere()
	p.advance()
	p.expect(cc_lexer.TLParen)
	cond := p.parseConstantIntExprValue()
	message := ""
	if p.match(cc_lexer.TComma) {
		message = p.cur().Lexeme
		p.expect(cc_lexer.TStringLiteral)
	}
	p.expect(cc_lexer.TRParen)
	p.expect(cc_lexer.TSemicolon)
	if cond == 0 {
		p.log.AddError(p.source, p.cur().Range, "static assertion failed: "+message)
	}
	return p.ast.NewDecl(&cc_ast.DStaticAssert{Message: message}, loc)
}

func (p *Parser) parseStaticAssertDecl() { p.parseStaticAssert() }

// parseExternalDeclaration implements spec.md section 4.4's external-
// declaration production: declaration-specifiers followed by either a
// function body (a function definition) or a comma-separated
// init-declarator-list.
func (p *Parser) parseExternalDeclaration() []*cc_ast.Decl {
	loc := p.locHere()
	ds := p.parseDeclarationSpecifiers()
	p.skipAttributesLoop()
	if p.match(cc_lexer.TSemicolon) {
		return nil // a bare "struct S { ... };" tag declaration with no declarator
	}

	var decls []*cc_ast.Decl
	first := true
	for {
		name, t := p.parseDeclarator(ds.base)
		p.skipAttributesLoop()

		if first && name != "" && t.Type.Kind == cc_types.KFunction && p.peek() == cc_lexer.TLBrace && ds.storage != StorageSeenTypedef {
			return []*cc_ast.Decl{p.parseFunctionDefinition(loc, name, t, ds)}
		}

		decls = append(decls, p.makeDeclaration(loc, name, t, ds, true))
		first = false
		if !p.match(cc_lexer.TComma) {
			break
		}
	}
	p.expect(cc_lexer.TSemicolon)
	return decls
}

// parseLocalDeclaration implements a block-scope declaration (spec.md
// section 4.4's "a declaration may also appear in statement position"),
// identical to an external declaration minus the function-definition
// branch, which C does not allow below file scope.
func (p *Parser) parseLocalDeclaration() *cc_ast.Decl {
	loc := p.locHere()
	ds := p.parseDeclarationSpecifiers()
	p.skipAttributesLoop()
	if p.match(cc_lexer.TSemicolon) {
		return p.ast.NewDecl(&cc_ast.DStaticAssert{}, loc)
	}
	var last *cc_ast.Decl
	for {
		name, t := p.parseDeclarator(ds.base)
		p.skipAttributesLoop()
		last = p.makeDeclaration(loc, name, t, ds, false)
		if !p.match(cc_lexer.TComma) {
			break
		}
	}
	p.expect(cc_lexer.TSemicolon)
	return last
}

// makeDeclaration builds the Object node for one declarator, registers it
// (and, for a typedef, its name) in the current scope, and elaborates an
// "= initializer" clause if present. isFileScope selects file linkage
// rules and forces static-image elaboration (spec.md section 3.5: "a
// declaration for a global or local-static object carries a single backend
// constant").
func (p *Parser) makeDeclaration(loc cc_lexer.Location, name string, t cc_types.QualifiedType, ds declSpecs, isFileScope bool) *cc_ast.Decl {
	storage, linkage := p.resolveStorageAndLinkage(ds.storage, isFileScope)

	obj := &cc_ast.EObject{
		IdentifierBase: cc_ast.IdentifierBase{Name: name},
		Storage:        storage,
		Linkage:        linkage,
		Align:          ds.align,
	}
	objExpr := p.ast.NewExpr(obj, loc)
	objExpr.Type = t

	if name != "" {
		if existing := p.currentScope.FindOrdinaryInCurrent(name); existing != nil {
			if prevObj, ok := existing.Data.(*cc_ast.EObject); !ok || !cc_types.Compatible(existing.Type.Type, t.Type) {
				p.errorHere("redeclaration of '" + name + "' with an incompatible type")
			} else {
				_ = prevObj // redeclaration accepted: the later binding simply replaces the earlier one
			}
		}
		p.currentScope.Ordinary[name] = objExpr
		if storage == cc_ast.StorageTypedef {
			p.typedefNames[name] = true
		}
	}

	decl := &cc_ast.DDeclaration{Object: obj}
	if p.match(cc_lexer.TEq) {
		if storage == cc_ast.StorageTypedef {
			p.errorHere("a typedef cannot have an initializer")
		}
		static := isFileScope || storage == cc_ast.StorageStatic
		result := cc_init.Elaborate(p, p.log, p.source, t, static)
		if static {
			decl.StaticConstant = result.Image
		} else {
			decl.AutoPlan = &cc_ast.InitPlan{Entries: result.Entries, ValueInit: result.ValueInit}
		}
	}

	// Track candidate tentative definitions (spec.md section 4.4,
	// "Tentative-definition merging"): a file-scope object, not extern,
	// not a typedef, not a function. Resolved at translation-unit end.
	if name != "" && isFileScope && storage != cc_ast.StorageTypedef && storage != cc_ast.StorageExtern && t.Type.Kind != cc_types.KFunction {
		p.fileTentatives[name] = append(p.fileTentatives[name], tentativeCandidate{decl: decl, width: t.Type.Width})
	}

	return p.ast.NewDecl(decl, loc)
}

// mergeTentativeDefinitions implements spec.md section 4.4's glossary
// entry for "Tentative definition": a file-scope object declaration with
// no initializer and no extern specifier. If no declaration of that name
// anywhere in the translation unit ever supplies an initializer, the last
// such declaration is given an implicit zero-init backend constant,
// matching original_source/src/type.cpp's tentative-definition resolution
// pass (SPEC_FULL.md section D.2).
func (p *Parser) mergeTentativeDefinitions() {
	for _, candidates := range p.fileTentatives {
		defined := false
		for _, c := range candidates {
			if c.decl.StaticConstant != nil {
				defined = true
				break
			}
		}
		if defined {
			continue
		}
		last := candidates[len(candidates)-1]
		last.decl.StaticConstant = cc_init.ZeroImage(last.width)
	}
}

func (p *Parser) resolveStorageAndLinkage(s StorageSeen, isFileScope bool) (cc_ast.StorageClass, cc_ast.Linkage) {
	switch s {
	case StorageSeenTypedef:
		return cc_ast.StorageTypedef, cc_ast.LinkageNone
	case StorageSeenExtern:
		return cc_ast.StorageExtern, cc_ast.LinkageExternal
	case StorageSeenStatic:
		if isFileScope {
			return cc_ast.StorageStatic, cc_ast.LinkageInternal
		}
		return cc_ast.StorageStatic, cc_ast.LinkageNone
	case StorageSeenRegister:
		return cc_ast.StorageRegister, cc_ast.LinkageNone
	default:
		if isFileScope {
			return cc_ast.StorageNone, cc_ast.LinkageExternal
		}
		return cc_ast.StorageAuto, cc_ast.LinkageNone
	}
}

// parseFunctionDefinition implements spec.md section 4.4's function-
// definition production: a function declarator immediately followed by a
// compound statement body. Parameters declared in the declarator's
// prototype scope are transplanted into the body's own block scope so
// references to them inside the body resolve normally.
func (p *Parser) parseFunctionDefinition(loc cc_lexer.Location, name string, t cc_types.QualifiedType, ds declSpecs) *cc_ast.Decl {
	storage, linkage := p.resolveStorageAndLinkage(ds.storage, true)
	obj := &cc_ast.EObject{
		IdentifierBase: cc_ast.IdentifierBase{Name: name},
		Storage:        storage,
		Linkage:        linkage,
	}
	objExpr := p.ast.NewExpr(obj, loc)
	objExpr.Type = t
	p.fileScope.Ordinary[name] = objExpr

	p.labels = map[string]*cc_ast.Stmt{}
	p.gotos = nil
	p.loopDepth = 0
	p.switchDepth = 0
	p.currentReturn = t.Type.Func.Return
	p.currentFunctionName = name
	p.clCounter = 0

	scope := p.pushScope(cc_ast.ScopeBlock)
	for _, param := range t.Type.Func.Params {
		if param.Name == "" {
			continue
		}
		pobj := &cc_ast.EObject{IdentifierBase: cc_ast.IdentifierBase{Name: param.Name}, Storage: cc_ast.StorageAuto}
		pexpr := &cc_ast.Expr{Data: pobj, Type: param.Type}
		scope.InsertOrdinary(param.Name, pexpr)
	}

	bodyLoc := p.locHere()
	p.expect(cc_lexer.TLBrace)
	var stmts []*cc_ast.Stmt
	p.compoundStack = append(p.compoundStack, &stmts)
	for p.peek() != cc_lexer.TRBrace && p.peek() != cc_lexer.TEndOfFile {
		stmts = append(stmts, p.parseStmt())
	}
	p.compoundStack = p.compoundStack[:len(p.compoundStack)-1]
	p.expect(cc_lexer.TRBrace)
	body := p.ast.NewStmt(&cc_ast.SCompound{Stmts: stmts, Scope: scope}, bodyLoc)
	p.popScope()

	for _, g := range p.gotos {
		if _, ok := p.labels[g.label]; !ok {
			p.log.AddError(p.source, logger.Range{}, "use of undeclared label '"+g.label+"'")
		}
	}

	return p.ast.NewDecl(&cc_ast.DFuncDef{Object: obj, Labels: p.labels, Body: body}, loc)
}
