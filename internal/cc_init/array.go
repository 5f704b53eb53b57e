package cc_init

import (
	"math/big"

	"github.com/c17core/c17core/internal/cc_ast"
	"github.com/c17core/c17core/internal/cc_lexer"
	"github.com/c17core/c17core/internal/cc_types"
	"github.com/c17core/c17core/internal/logger"
)

// elaborateArray implements spec.md section 4.6's array-target case: a
// "{"-delimited list, an optional leading "[expr]" designator on any
// element that resets the running index, and the string-literal shorthand
// for character arrays.
func elaborateArray(ctx *elabCtx, t cc_types.QualifiedType, offset int64) {
	elemType := t.Type.Elem

	if isCharLike(elemType.Type) {
		if strExpr, ok := ctx.cursor.TryStringLiteralInitializer(); ok {
			elaborateStringArray(ctx, t, offset, strExpr)
			return
		}
	}

	ctx.cursor.Expect(cc_lexer.TLBrace)
	index := int64(0)
	maxIndex := int64(-1)
	for {
		if ctx.cursor.Match(cc_lexer.TRBrace) {
			break
		}
		if ctx.cursor.Match(cc_lexer.TLBracket) {
			index = ctx.cursor.ParseConstantIndexExpr()
			ctx.cursor.Expect(cc_lexer.TRBracket)
			ctx.cursor.Expect(cc_lexer.TEq)
		}
		if t.Type.Complete && index >= t.Type.Count {
			ctx.log.AddError(ctx.source, logger.Range{}, "excess elements in array initializer")
		} else if index > maxIndex {
			maxIndex = index
		}
		elaborate(ctx, elemType, offset+index*elemType.Type.Width, 0, 0)
		index++
		if !ctx.cursor.Match(cc_lexer.TComma) {
			ctx.cursor.Expect(cc_lexer.TRBrace)
			break
		}
	}
	finishArrayCount(ctx, t, maxIndex)
}

// elaborateStringArray implements the "char arr[] = \"text\"" shorthand:
// each byte (including the implicit trailing NUL the lexer already
// appended, spec.md section 4.1) becomes one array element in turn, and an
// incomplete array takes its count from the string's length.
func elaborateStringArray(ctx *elabCtx, t cc_types.QualifiedType, offset int64, strExpr *cc_ast.Expr) {
	lit, ok := strExpr.Data.(*cc_ast.EStringLiteral)
	if !ok {
		ctx.log.AddError(ctx.source, strExpr.Range, "expected a string literal initializer")
		return
	}
	elemType := t.Type.Elem
	if t.Type.Complete && int64(len(lit.Bytes)) > t.Type.Count {
		ctx.log.AddError(ctx.source, strExpr.Range, "initializer string is longer than the array it initializes")
	}
	for i, b := range lit.Bytes {
		if t.Type.Complete && int64(i) >= t.Type.Count {
			break
		}
		byteExpr := &cc_ast.Expr{
			Data:  &cc_ast.EConstant{Kind: cc_ast.ConstInteger, IntValue: bigFromByte(b)},
			Range: strExpr.Range,
			Type:  elemType,
		}
		ctx.recordLeaf(elemType, offset+int64(i)*elemType.Type.Width, 0, 0, byteExpr)
	}
	if !t.Type.Complete {
		cc_types.CompleteArray(t.Type, int64(len(lit.Bytes)))
	}
}

func finishArrayCount(ctx *elabCtx, t cc_types.QualifiedType, maxIndex int64) {
	if !t.Type.Complete {
		cc_types.CompleteArray(t.Type, maxIndex+1)
	}
}

func isCharLike(t *cc_types.Type) bool {
	return t != nil && t.Kind == cc_types.KArithmetic &&
		(t.Arith == cc_types.AkChar || t.Arith == cc_types.AkUChar)
}

func bigFromByte(b byte) *big.Int {
	return big.NewInt(int64(b))
}
