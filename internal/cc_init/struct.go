package cc_init

import (
	"github.com/c17core/c17core/internal/cc_lexer"
	"github.com/c17core/c17core/internal/cc_types"
	"github.com/c17core/c17core/internal/logger"
)

// elaborateStruct implements spec.md section 4.6's struct/union-target
// case. Anonymous members are never seen here directly: the type-building
// pass (cc_types.MergeAnonymous) already flattened them into the owning
// struct's Members list under their own names, at their true combined
// offsets, so a plain "{ v1, v2, ... }" walk or a ".name" designator jump
// reaches them exactly like an ordinary member without any extra
// transparency logic in this package.
func elaborateStruct(ctx *elabCtx, t cc_types.QualifiedType, offset int64) {
	info := t.Type.Struct

	// Whole-aggregate shortcut: "struct S x = y;" with no surrounding "{"
	// or leading ".".
	if ctx.cursor.Peek() != cc_lexer.TDot && ctx.cursor.Peek() != cc_lexer.TLBrace {
		expr := ctx.cursor.ParseAssignmentExpr()
		ctx.recordLeaf(t, offset, 0, 0, expr)
		return
	}

	ctx.cursor.Expect(cc_lexer.TLBrace)
	memberIndex := 0
	for {
		if ctx.cursor.Match(cc_lexer.TRBrace) {
			break
		}
		if ctx.cursor.Match(cc_lexer.TDot) {
			name := ctx.cursor.ParseDesignatorName()
			if m := info.FindMember(name); m != nil {
				memberIndex = m.Index
			} else {
				ctx.log.AddError(ctx.source, logger.Range{}, "struct or union has no member named '"+name+"'")
			}
			ctx.cursor.Expect(cc_lexer.TEq)
		}

		if memberIndex >= len(info.Members) {
			ctx.log.AddError(ctx.source, logger.Range{}, "excess initializers for this struct or union")
			// Consume and discard the remaining initializer so parsing can
			// still finish the translation unit after the diagnostic.
			ctx.cursor.ParseAssignmentExpr()
		} else {
			m := info.Members[memberIndex]
			elaborateMember(ctx, m, offset)
		}
		memberIndex++

		// A union whose member was not reached through a "." designator
		// only takes its first member (spec.md section 4.6); the flattened
		// members of an anonymous nested union/struct were already merged
		// into an enclosing struct's own Members before this function ever
		// ran on them, so this restriction only fires when a union type is
		// the elaboration target in its own right.
		if !info.IsStruct {
			if !ctx.cursor.Match(cc_lexer.TComma) {
				ctx.cursor.Expect(cc_lexer.TRBrace)
				break
			}
			if ctx.cursor.Peek() != cc_lexer.TDot {
				skipRemainingUnionInitializers(ctx)
				break
			}
			continue
		}

		if !ctx.cursor.Match(cc_lexer.TComma) {
			ctx.cursor.Expect(cc_lexer.TRBrace)
			break
		}
	}
}

func elaborateMember(ctx *elabCtx, m *cc_types.Member, baseOffset int64) {
	offset := baseOffset + m.Offset
	if m.IsBitfield {
		braced := ctx.cursor.Match(cc_lexer.TLBrace)
		expr := ctx.cursor.ParseAssignmentExpr()
		if braced {
			ctx.cursor.Match(cc_lexer.TComma)
			ctx.cursor.Expect(cc_lexer.TRBrace)
		}
		ctx.recordLeaf(m.Type, offset, m.BitBegin, m.BitWidth, expr)
		return
	}
	elaborate(ctx, m.Type, offset, 0, 0)
}

func skipRemainingUnionInitializers(ctx *elabCtx) {
	for {
		if ctx.cursor.Match(cc_lexer.TRBrace) {
			return
		}
		ctx.cursor.ParseAssignmentExpr()
		if !ctx.cursor.Match(cc_lexer.TComma) {
			ctx.cursor.Expect(cc_lexer.TRBrace)
			return
		}
	}
}
