// Package cc_init implements spec.md section 4.6, the initializer
// elaborator: it walks an initializer against a target type, producing
// either a fully-assembled constant image (static-storage targets) or a
// flat list of cc_ast.InitEntry runtime store descriptors (automatic
// targets).
//
// The elaborator needs to consume tokens and parse assignment-expressions
// as it walks — spec section 4.6's algorithm is phrased as a single parse-
// and-fold pass, not "parse a generic tree, then walk it." Rather than
// import cc_parser (which itself needs to call into this package to
// elaborate a declaration's initializer, which would make the two
// packages cyclic), this package is handed a Cursor implementation by the
// caller. cc_parser's own recursive-descent methods already have every
// operation Cursor asks for.
package cc_init

import (
	"github.com/c17core/c17core/internal/cc_ast"
	"github.com/c17core/c17core/internal/cc_const"
	"github.com/c17core/c17core/internal/cc_lexer"
	"github.com/c17core/c17core/internal/cc_types"
	"github.com/c17core/c17core/internal/logger"
)

// Cursor is the subset of parser behavior the elaborator drives directly,
// named for what spec section 4.6's algorithm needs rather than for any
// one grammar production.
type Cursor interface {
	Peek() cc_lexer.T
	Match(tag cc_lexer.T) bool
	Expect(tag cc_lexer.T)
	ParseAssignmentExpr() *cc_ast.Expr
	ParseConstantIndexExpr() int64
	ParseDesignatorName() string
	// TryStringLiteralInitializer consumes and returns a string-literal
	// token as an expression if (and only if) the next token is a string
	// literal; used for the "char arr[] = \"text\"" shorthand.
	TryStringLiteralInitializer() (*cc_ast.Expr, bool)
}

// Result is what Elaborate produces: exactly one of Entries/Image is set,
// per spec section 3.5 ("a declaration for a local auto object carries
// either a list of entries ... or a value-init flag; a declaration for a
// global or local-static object carries a single backend constant").
type Result struct {
	Entries   []cc_ast.InitEntry
	ValueInit bool
	Image     *StaticImage
}

type elabCtx struct {
	cursor Cursor
	log    *logger.Log
	source *logger.Source
	static bool

	entries []cc_ast.InitEntry
	image   *StaticImage
}

// Elaborate runs spec section 4.6's algorithm against target, starting at
// the current cursor position (which must be positioned just before the
// initializer). static selects which half of Result gets populated.
func Elaborate(cursor Cursor, log *logger.Log, source *logger.Source, target cc_types.QualifiedType, static bool) Result {
	ctx := &elabCtx{cursor: cursor, log: log, source: source, static: static}
	if static {
		ctx.image = newStaticImage(target.Type.Width)
	}
	elaborate(ctx, target, 0, 0, 0)
	if static {
		return Result{Image: ctx.image}
	}
	return Result{Entries: ctx.entries}
}

func elaborate(ctx *elabCtx, t cc_types.QualifiedType, offset int64, bitBegin, bitWidth int) {
	switch t.Type.Kind {
	case cc_types.KArithmetic, cc_types.KPointer:
		elaborateScalar(ctx, t, offset, bitBegin, bitWidth)
	case cc_types.KArray:
		elaborateArray(ctx, t, offset)
	case cc_types.KStruct:
		elaborateStruct(ctx, t, offset)
	default:
		ctx.log.AddError(ctx.source, logger.Range{}, "this type cannot be initialized")
	}
}

func elaborateScalar(ctx *elabCtx, t cc_types.QualifiedType, offset int64, bitBegin, bitWidth int) {
	braced := ctx.cursor.Match(cc_lexer.TLBrace)
	expr := ctx.cursor.ParseAssignmentExpr()
	if braced {
		ctx.cursor.Match(cc_lexer.TComma)
		ctx.cursor.Expect(cc_lexer.TRBrace)
	}
	ctx.recordLeaf(t, offset, bitBegin, bitWidth, expr)
}

// recordLeaf is the single point where a parsed expression either becomes
// a runtime store entry or is folded into the static image (spec section
// 4.6's "Static vs automatic" split).
func (ctx *elabCtx) recordLeaf(t cc_types.QualifiedType, offset int64, bitBegin, bitWidth int, expr *cc_ast.Expr) {
	if !ctx.static {
		ctx.entries = append(ctx.entries, cc_ast.InitEntry{
			ElemType:   t,
			ByteOffset: offset,
			BitBegin:   bitBegin,
			BitWidth:   bitWidth,
			Value:      expr,
		})
		return
	}
	v := cc_const.Evaluate(ctx.log, ctx.source, expr, "a file-scope initializer")
	if bitWidth > 0 {
		ctx.image.writeBitfield(offset, bitBegin, bitWidth, v)
	} else {
		ctx.image.writeValue(offset, t.Type.Width, v)
	}
}
