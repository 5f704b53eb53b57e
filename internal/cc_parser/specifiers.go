package cc_parser

import (
	"github.com/c17core/c17core/internal/cc_ast"
	"github.com/c17core/c17core/internal/cc_lexer"
	"github.com/c17core/c17core/internal/cc_types"
)

// declSpecs is the parsed form of spec.md section 4.4's declaration-
// specifiers production: an arithmetic-type mask (resolved to a base
// type once all specifiers are seen), a storage-class, a function-
// specifier mask, an optional alignment, and the fully resolved base
// type once a tag/typedef specifier has been seen.
type declSpecs struct {
	mask    cc_types.SpecMask
	base    cc_types.QualifiedType // set directly by a struct/union/enum/typedef/void specifier
	haveBase bool

	storage StorageSeen
	funcSpec cc_types.FuncSpec
	align    int64 // 0 means "none requested"

	quals cc_types.QualMask
}

// StorageSeen tracks which storage-class keyword (at most one is legal)
// was seen, converting to cc_ast.StorageClass once a declarator names the
// object being declared.
type StorageSeen uint8

const (
	StorageSeenNone StorageSeen = iota
	StorageSeenTypedef
	StorageSeenExtern
	StorageSeenStatic
	StorageSeenAuto
	StorageSeenRegister
	StorageSeenThreadLocal
)

// parseDeclarationSpecifiers implements spec.md section 4.4's
// declaration-specifiers grammar: an unordered run of type-specifier,
// type-qualifier, storage-class, function-specifier, and alignment-
// specifier keywords. Two specifiers that each supply the base type (two
// tags, void with a tag, a typedef-name followed by a tag or void) are
// diagnosed by setBase
// as they're found, and an invalid arithmetic keyword mix by
// finishSpecifiers. A repeated storage-class keyword is not diagnosed (the
// last one wins), and arithmetic keywords next to a tag, typedef-name or
// void are not diagnosed either: finishSpecifiers ignores the mask once a
// base type is set.
func (p *Parser) parseDeclarationSpecifiers() declSpecs {
	var ds declSpecs
	for {
		switch p.peek() {
		case cc_lexer.TVoid:
			p.setBase(&ds, cc_types.Unqualified(p.types.GetVoid()))
			p.advance()
		case cc_lexer.TBool:
			ds.mask.Bool = true
			p.advance()
		case cc_lexer.TChar:
			ds.mask.Char = true
			p.advance()
		case cc_lexer.TShort:
			ds.mask.Short = true
			p.advance()
		case cc_lexer.TInt:
			ds.mask.Int = true
			p.advance()
		case cc_lexer.TLong:
			ds.mask.LongCount++
			p.advance()
		case cc_lexer.TFloat:
			ds.mask.Float = true
			p.advance()
		case cc_lexer.TDouble:
			ds.mask.Double = true
			p.advance()
		case cc_lexer.TSigned:
			ds.mask.Signed = true
			p.advance()
		case cc_lexer.TUnsigned:
			ds.mask.Unsigned = true
			p.advance()
		case cc_lexer.TComplex, cc_lexer.TImaginary:
			p.advance() // parsed and ignored: this frontend has no complex-number backend target

		case cc_lexer.TStruct, cc_lexer.TUnion:
			p.setBase(&ds, p.parseStructOrUnionSpecifier())
		case cc_lexer.TEnum:
			p.setBase(&ds, p.parseEnumSpecifier())

		case cc_lexer.TTypeof:
			p.setBase(&ds, p.parseTypeofSpecifier())

		case cc_lexer.TConst:
			ds.quals |= cc_types.QualConst
			p.advance()
		case cc_lexer.TRestrict:
			ds.quals |= cc_types.QualRestrict
			p.advance()
		case cc_lexer.TVolatile:
			ds.quals |= cc_types.QualVolatile
			p.advance()
		case cc_lexer.TAtomic:
			// _Atomic as a qualifier; _Atomic(T) as a type-specifier is
			// rare enough in real code that it is parsed as the qualifier
			// form only, matching most translation units this frontend
			// targets.
			p.advance()

		case cc_lexer.TTypedef:
			ds.storage = StorageSeenTypedef
			p.advance()
		case cc_lexer.TExtern:
			ds.storage = StorageSeenExtern
			p.advance()
		case cc_lexer.TStatic:
			ds.storage = StorageSeenStatic
			p.advance()
		case cc_lexer.TAuto:
			ds.storage = StorageSeenAuto
			p.advance()
		case cc_lexer.TRegister:
			ds.storage = StorageSeenRegister
			p.advance()
		case cc_lexer.TThreadLocal:
			ds.storage = StorageSeenThreadLocal
			p.advance()

		case cc_lexer.TInline:
			ds.funcSpec |= cc_types.FuncInline
			p.advance()
		case cc_lexer.TNoreturn:
			ds.funcSpec |= cc_types.FuncNoreturn
			p.advance()

		case cc_lexer.TAlignas:
			p.advance()
			p.expect(cc_lexer.TLParen)
			if p.peek().IsDeclarationSpecifierStart() {
				t := p.parseTypeName()
				ds.align = t.Type.Align
			} else {
				v := p.parseConstantIntExprValue()
				ds.align = v
			}
			p.expect(cc_lexer.TRParen)

		case cc_lexer.TAttribute, cc_lexer.TExtension:
			p.skipAttributeOrExtension()

		case cc_lexer.TIdentifier:
			if ds.haveBase || !p.isTypedefName(p.cur().Lexeme) {
				return p.finishSpecifiers(ds)
			}
			ident := p.currentScope.FindOrdinary(p.cur().Lexeme)
			p.setBase(&ds, ident.Type)
			p.advance()

		default:
			return p.finishSpecifiers(ds)
		}
	}
}

func (p *Parser) setBase(ds *declSpecs, t cc_types.QualifiedType) {
	if ds.haveBase {
		p.errorHere("a declaration cannot combine two type specifiers")
		return
	}
	ds.base = t
	ds.haveBase = true
}

// finishSpecifiers resolves the arithmetic mask into a concrete type if no
// tag/typedef specifier already supplied one, defaulting to "int" (spec.md
// section 4.4's "no type specifier at all defaults to int" legacy rule, a
// GNU/K&R holdover this frontend still accepts with a warning).
func (p *Parser) finishSpecifiers(ds declSpecs) declSpecs {
	if !ds.haveBase {
		kind, ok := ds.mask.Normalize()
		if !ok {
			p.errorHere("invalid combination of type specifiers")
			kind = cc_types.AkInt
		}
		if ds.mask == (cc_types.SpecMask{}) {
			p.log.AddWarning(p.source, p.cur().Range, "type defaults to 'int' in declaration")
		}
		ds.base = cc_types.Unqualified(p.types.GetArithmetic(kind))
		ds.haveBase = true
	}
	ds.base.Quals |= ds.quals
	return ds
}

// parseStructOrUnionSpecifier implements spec.md section 4.4's struct/
// union specifier: an optional tag, an optional member-declaration-list,
// and the forward-declaration/completion merge the scope's tag namespace
// already makes possible.
func (p *Parser) parseStructOrUnionSpecifier() cc_types.QualifiedType {
	isStruct := p.peek() == cc_lexer.TStruct
	p.advance()
	p.skipAttributesLoop()

	tag := ""
	if p.peek() == cc_lexer.TIdentifier {
		tag = p.cur().Lexeme
		p.advance()
	}

	var structType *cc_types.Type
	if tag != "" {
		if existing := p.currentScope.FindTag(tag); existing != nil {
			structType = existing.Type.Type
		}
	}
	declaringBody := p.peek() == cc_lexer.TLBrace
	if structType == nil {
		structType = p.types.GetStruct(isStruct, tag)
		if tag != "" {
			p.bindTag(tag, structType)
		}
	}

	if declaringBody {
		p.parseStructBody(structType)
	}
	return cc_types.Unqualified(structType)
}

func (p *Parser) bindTag(name string, t *cc_types.Type) {
	marker := &cc_ast.Expr{Data: &cc_ast.EIdentifier{IdentifierBase: cc_ast.IdentifierBase{Name: name}}, Type: cc_types.Unqualified(t)}
	p.currentScope.InsertTag(name, marker)
}

func (p *Parser) parseStructBody(structType *cc_types.Type) {
	p.expect(cc_lexer.TLBrace)
	memberScope := cc_ast.NewScope(p.currentScope, cc_ast.ScopeBlock)
	handle := p.ast.RegisterScope(memberScope)
	structType.Struct.MemberScopeHandle = handle

	for p.peek() != cc_lexer.TRBrace && p.peek() != cc_lexer.TEndOfFile {
		if p.peek() == cc_lexer.TStaticAssert {
			p.parseStaticAssert()
			continue
		}
		p.parseMemberDeclaration(structType, memberScope)
	}
	p.expect(cc_lexer.TRBrace)
	p.skipAttributesLoop()
	cc_types.CompleteStruct(structType)
}

func (p *Parser) parseMemberDeclaration(structType *cc_types.Type, memberScope *cc_ast.Scope) {
	ds := p.parseDeclarationSpecifiers()

	if p.peek() == cc_lexer.TSemicolon && ds.base.Type.Kind == cc_types.KStruct && ds.base.Type.Struct.Tag == "" {
		// An anonymous nested struct/union member with no declarator at
		// all: "struct { int a; };" inside another aggregate, spec.md
		// section 4.4's anonymous-member rule.
		p.advance()
		exposed, err := structType.MergeAnonymous(ds.base.Type)
		if err != nil {
			p.errorHere(err.Error())
		}
		for _, m := range exposed {
			p.bindMemberName(memberScope, m)
		}
		return
	}

	for {
		name, memberType, bitWidth, hasBitWidth := p.parseMemberDeclarator(ds.base)
		var member *cc_types.Member
		var err error
		if hasBitWidth {
			member, err = structType.AddBitfieldMember(name, memberType, bitWidth)
		} else {
			member, err = structType.AddMember(name, memberType)
		}
		if err != nil {
			p.errorHere(err.Error())
		} else if member != nil && name != "" {
			p.bindMemberName(memberScope, member)
		}
		if !p.match(cc_lexer.TComma) {
			break
		}
	}
	p.expect(cc_lexer.TSemicolon)
}

func (p *Parser) bindMemberName(scope *cc_ast.Scope, m *cc_types.Member) {
	obj := &cc_ast.EObject{
		IdentifierBase: cc_ast.IdentifierBase{Name: m.Name},
		Offset:         m.Offset,
		IsBitfield:     m.IsBitfield,
		BitBegin:       m.BitBegin,
		BitWidth:       m.BitWidth,
		MemberIndex:    m.Index,
	}
	expr := &cc_ast.Expr{Data: obj, Type: m.Type}
	scope.InsertOrdinary(m.Name, expr)
}

func (p *Parser) parseMemberDeclarator(base cc_types.QualifiedType) (name string, t cc_types.QualifiedType, bitWidth int, hasBitWidth bool) {
	if p.peek() == cc_lexer.TColon {
		p.advance()
		bitWidth = int(p.parseConstantIntExprValue())
		return "", base, bitWidth, true
	}
	name, t = p.parseDeclarator(base)
	if p.match(cc_lexer.TColon) {
		bitWidth = int(p.parseConstantIntExprValue())
		hasBitWidth = true
	}
	return name, t, bitWidth, hasBitWidth
}

// parseEnumSpecifier implements spec.md section 4.4's enum specifier,
// including the "implicit successor" rule: an enumerator with no "= expr"
// takes the previous enumerator's value plus one (0 for the first).
func (p *Parser) parseEnumSpecifier() cc_types.QualifiedType {
	p.advance()
	p.skipAttributesLoop()
	tag := ""
	if p.peek() == cc_lexer.TIdentifier {
		tag = p.cur().Lexeme
		p.advance()
	}

	underlying := cc_types.Unqualified(p.types.GetArithmetic(cc_types.AkInt))
	if p.peek() != cc_lexer.TLBrace {
		if tag != "" {
			if existing := p.currentScope.FindTag(tag); existing != nil {
				return existing.Type
			}
		}
		return underlying
	}

	p.advance()
	next := int64(0)
	for p.peek() != cc_lexer.TRBrace {
		name := p.expect(cc_lexer.TIdentifier).Lexeme
		if p.match(cc_lexer.TEq) {
			next = p.parseConstantIntExprValue()
		}
		enumExpr := &cc_ast.Expr{
			Data: &cc_ast.EEnumerator{IdentifierBase: cc_ast.IdentifierBase{Name: name}, Value: next},
			Type: underlying,
		}
		p.currentScope.InsertOrdinary(name, enumExpr)
		next++
		if !p.match(cc_lexer.TComma) {
			break
		}
	}
	p.expect(cc_lexer.TRBrace)
	if tag != "" {
		p.bindTag(tag, underlying.Type)
	}
	return underlying
}

func (p *Parser) parseTypeofSpecifier() cc_types.QualifiedType {
	p.advance()
	p.expect(cc_lexer.TLParen)
	var t cc_types.QualifiedType
	if p.peek().IsDeclarationSpecifierStart() {
		t = p.parseTypeName()
	} else {
		expr := p.parseExpr()
		t = expr.Type
	}
	p.expect(cc_lexer.TRParen)
	return t
}

// parseTypeName implements spec.md section 4.4's type-name production used
// by casts, sizeof, _Alignof, and compound literals: declaration
// specifiers followed by an optional abstract declarator.
func (p *Parser) parseTypeName() cc_types.QualifiedType {
	ds := p.parseDeclarationSpecifiers()
	return p.parseAbstractDeclarator(ds.base)
}

func (p *Parser) skipAttributesLoop() {
	for p.peek() == cc_lexer.TAttribute || p.peek() == cc_lexer.TExtension || p.peek() == cc_lexer.TAsm {
		p.skipAttributeOrExtension()
	}
}

// skipAttributeOrExtension parses and discards a GNU __attribute__((...)),
// __extension__, or inline-asm clause (spec.md section 4.4's GNU
// extensions: "recognized and discarded, contributing nothing to the AST").
func (p *Parser) skipAttributeOrExtension() {
	switch p.peek() {
	case cc_lexer.TExtension:
		p.advance()
	case cc_lexer.TAsm:
		p.advance()
		if p.match(cc_lexer.TLParen) {
			p.skipBalancedParens()
		}
	case cc_lexer.TAttribute:
		p.advance()
		p.expect(cc_lexer.TLParen)
		p.expect(cc_lexer.TLParen)
		p.skipBalancedParens()
	}
}

// skipBalancedParens consumes tokens up to and including the matching ")"
// for a "(" already consumed by the caller (attribute argument lists and
// inline-asm clauses are never semantically interpreted).
func (p *Parser) skipBalancedParens() {
	depth := 1
	for depth > 0 && p.peek() != cc_lexer.TEndOfFile {
		switch p.peek() {
		case cc_lexer.TLParen:
			depth++
		case cc_lexer.TRParen:
			depth--
		}
		p.advance()
	}
}
