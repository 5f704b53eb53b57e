package cc_parser

import (
	"github.com/c17core/c17core/internal/cc_ast"
	"github.com/c17core/c17core/internal/cc_const"
)

// foldConstantInt folds e via cc_const and reduces it to an int64, for the
// many grammar spots (bit-field widths, enumerator values, array bounds,
// _Alignas(N), case labels) spec.md section 4.4 requires a constant
// expression rather than a general one.
func (p *Parser) foldConstantInt(e *cc_ast.Expr) int64 {
	v := cc_const.Evaluate(p.log, p.source, e, "this context requires a constant expression")
	if v.Kind != cc_const.KInt {
		p.log.AddError(p.source, e.Range, "expected an integer constant expression")
		return 0
	}
	return v.Int.Int64()
}

// parseConstantIntExprValue parses a conditional-expression (the grammar
// level C calls a "constant-expression") and folds it immediately.
func (p *Parser) parseConstantIntExprValue() int64 {
	return p.foldConstantInt(p.parseConditionalExpr())
}
