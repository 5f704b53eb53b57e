package cc_parser

import (
	"github.com/c17core/c17core/internal/cc_lexer"
	"github.com/c17core/c17core/internal/cc_types"
)

// parseDeclarator implements spec.md section 4.4's declarator grammar:
// pointer/array/function layers threaded in reverse textual order onto a
// base type, e.g. "int (*f)(int)" wraps int, then "function of int
// returning", then "pointer to", reading the declarator outside-in.
//
// A parenthesized inner declarator — "int (*f)(void)" — is handled the way
// chibicc's declarator() does: parse the parenthesized part once with a
// placeholder base type just to skip past it and find the suffix (the
// "(void)" in this example), then rewind and reparse the parenthesized
// part for real with the suffix-wrapped type as its base.
func (p *Parser) parseDeclarator(base cc_types.QualifiedType) (name string, t cc_types.QualifiedType) {
	t = p.parsePointers(base)

	if p.peek() == cc_lexer.TLParen && declaratorStartsInParens(p) {
		start := p.pos
		p.advance()
		p.skipDeclaratorPlaceholder()
		p.expect(cc_lexer.TRParen)
		suffixed := p.parseDeclaratorSuffixes(t)

		after := p.pos
		p.pos = start
		p.advance()
		var inner cc_types.QualifiedType
		name, inner = p.parseDeclarator(suffixed)
		p.expect(cc_lexer.TRParen)
		p.pos = after
		return name, inner
	}

	if p.peek() == cc_lexer.TIdentifier {
		name = p.cur().Lexeme
		p.advance()
	}
	t = p.parseDeclaratorSuffixes(t)
	return name, t
}

// declaratorStartsInParens distinguishes "(*f)(...)" (a parenthesized
// declarator) from a parameter list's own redundant parens by checking
// what follows "(": a pointer, another "(", or an identifier that is not
// itself a type name all mean "this is a nested declarator", matching
// chibicc's is_function heuristic adapted for this grammar.
func declaratorStartsInParens(p *Parser) bool {
	switch p.peekAt(1) {
	case cc_lexer.TStar, cc_lexer.TLParen:
		return true
	case cc_lexer.TIdentifier:
		return !p.isTypedefName(p.at(1).Lexeme)
	default:
		return false
	}
}

// skipDeclaratorPlaceholder advances past a parenthesized declarator
// without building any type, used only to find the matching ")" during the
// first pass described above.
func (p *Parser) skipDeclaratorPlaceholder() {
	p.parsePointers(cc_types.QualifiedType{})
	if p.peek() == cc_lexer.TLParen {
		p.advance()
		p.skipDeclaratorPlaceholder()
		p.expect(cc_lexer.TRParen)
	} else if p.peek() == cc_lexer.TIdentifier {
		p.advance()
	}
}

func (p *Parser) parsePointers(base cc_types.QualifiedType) cc_types.QualifiedType {
	t := base
	for p.match(cc_lexer.TStar) {
		var quals cc_types.QualMask
		for {
			switch p.peek() {
			case cc_lexer.TConst:
				quals |= cc_types.QualConst
				p.advance()
			case cc_lexer.TRestrict:
				quals |= cc_types.QualRestrict
				p.advance()
			case cc_lexer.TVolatile:
				quals |= cc_types.QualVolatile
				p.advance()
			case cc_lexer.TAttribute, cc_lexer.TExtension:
				p.skipAttributeOrExtension()
				continue
			default:
				goto donePointerQuals
			}
		}
	donePointerQuals:
		t = cc_types.QualifiedType{Type: p.types.GetPointer(t), Quals: quals}
	}
	return t
}

// parseDeclaratorSuffixes wraps base in zero or more "[n]"/"(params)"
// layers. The leftmost suffix becomes the outermost layer: "[2][3]" is an
// array of 2 arrays of 3, so each suffix wraps the type built from the
// suffixes to its right.
func (p *Parser) parseDeclaratorSuffixes(base cc_types.QualifiedType) cc_types.QualifiedType {
	if p.peek() == cc_lexer.TLBracket {
		return p.parseArraySuffix(base)
	}
	if p.peek() == cc_lexer.TLParen {
		return p.parseFunctionSuffix(base)
	}
	return base
}

func (p *Parser) parseArraySuffix(elem cc_types.QualifiedType) cc_types.QualifiedType {
	p.advance()
	count := int64(0)
	if p.peek() != cc_lexer.TRBracket {
		// Array-qualifier keywords ("static", "const") inside "[ ]" (a C99
		// parameter-array feature) are accepted and discarded; they carry
		// no meaning once the parameter has decayed to a pointer.
		for p.peek() == cc_lexer.TStatic || p.peek() == cc_lexer.TConst {
			p.advance()
		}
		if p.peek() != cc_lexer.TRBracket {
			count = p.parseConstantIntExprValue()
		}
	}
	p.expect(cc_lexer.TRBracket)
	rest := p.parseDeclaratorSuffixes(elem)
	return cc_types.Unqualified(p.types.GetArray(rest, count))
}

func (p *Parser) parseFunctionSuffix(ret cc_types.QualifiedType) cc_types.QualifiedType {
	p.advance()
	params, varArgs := p.parseParameterList()
	p.expect(cc_lexer.TRParen)
	p.skipAttributesLoop()
	rest := p.parseDeclaratorSuffixes(ret)
	return cc_types.Unqualified(p.types.GetFunction(rest, params, varArgs))
}

func (p *Parser) parseParameterList() (params []cc_types.Param, varArgs bool) {
	if p.peek() == cc_lexer.TVoid && p.peekAt(1) == cc_lexer.TRParen {
		p.advance()
		return nil, false
	}
	if p.peek() == cc_lexer.TRParen {
		return nil, false
	}
	for {
		if p.match(cc_lexer.TEllipsis) {
			varArgs = true
			break
		}
		ds := p.parseDeclarationSpecifiers()
		name, t := p.parseAbstractOrNamedDeclarator(ds.base)
		params = append(params, cc_types.Param{Name: name, Type: t})
		if !p.match(cc_lexer.TComma) {
			break
		}
	}
	return params, varArgs
}

// parseAbstractOrNamedDeclarator is parseDeclarator generalized to accept
// no identifier at all (a parameter or type-name can omit its name, spec
// section 4.4).
func (p *Parser) parseAbstractOrNamedDeclarator(base cc_types.QualifiedType) (string, cc_types.QualifiedType) {
	return p.parseDeclarator(base)
}

// parseAbstractDeclarator implements spec.md section 4.4's abstract-
// declarator production used by type-name (casts, sizeof, compound
// literals): identical to a declarator but with no identifier ever
// present, so it is just parseDeclarator with the name discarded.
func (p *Parser) parseAbstractDeclarator(base cc_types.QualifiedType) cc_types.QualifiedType {
	_, t := p.parseDeclarator(base)
	return t
}
