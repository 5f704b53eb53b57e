package cc_parser

import (
	"github.com/c17core/c17core/internal/cc_ast"
	"github.com/c17core/c17core/internal/cc_lexer"
	"github.com/c17core/c17core/internal/cc_types"
)

// promoteArith implements spec.md section 4.2's integer-promotion rule for
// an arithmetic operand type, leaving pointers and non-arithmetic types
// untouched (the unary +/-/~ operators only ever see arithmetic operands in
// valid programs; an ill-typed program has already been diagnosed by the
// caller).
func (p *Parser) promoteArith(t cc_types.QualifiedType) cc_types.QualifiedType {
	if t.Type.Kind != cc_types.KArithmetic {
		return t
	}
	return cc_types.Unqualified(p.types.GetArithmetic(cc_types.PromoteInteger(t.Type.Arith)))
}

// derefType implements "*p"/"p[i]"'s result type: the pointee of a pointer,
// or the element type of an array (arrays decay to a pointer to their first
// element in every context except sizeof/&, spec section 4.2).
func (p *Parser) derefType(t cc_types.QualifiedType) cc_types.QualifiedType {
	switch t.Type.Kind {
	case cc_types.KPointer:
		return t.Type.Pointee
	case cc_types.KArray:
		return t.Type.Elem
	default:
		return cc_types.Unqualified(p.types.GetArithmetic(cc_types.AkInt))
	}
}

// decay applies spec section 4.2's array/function-to-pointer decay, used
// whenever an operand of array or function type appears somewhere only an
// object or pointer value is legal (binary operands, call arguments,
// assignment right-hand sides).
func (p *Parser) decay(e *cc_ast.Expr) *cc_ast.Expr {
	switch e.Type.Type.Kind {
	case cc_types.KArray:
		addr := p.ast.NewExpr(&cc_ast.EUnaryOp{Op: cc_ast.UnaryAddr, Operand: e}, e.Loc)
		addr.Type = cc_types.Unqualified(p.types.GetPointer(e.Type.Type.Elem))
		return addr
	case cc_types.KFunction:
		addr := p.ast.NewExpr(&cc_ast.EUnaryOp{Op: cc_ast.UnaryAddr, Operand: e}, e.Loc)
		addr.Type = cc_types.Unqualified(p.types.GetPointer(e.Type))
		return addr
	default:
		return e
	}
}

var pointerResultOps = map[cc_ast.BinaryOp]bool{
	cc_ast.BinLt: true, cc_ast.BinGt: true, cc_ast.BinLe: true, cc_ast.BinGe: true,
	cc_ast.BinEq: true, cc_ast.BinNe: true,
	cc_ast.BinLogAnd: true, cc_ast.BinLogOr: true,
}

// checkBinary builds an EBinaryOp node and assigns its result type per
// spec.md section 4.2: pointer arithmetic (pointer +/- integer scales by
// the pointee's width; pointer - pointer yields ptrdiff_t-equivalent long),
// the usual arithmetic conversions for two arithmetic operands, and plain
// int for comparisons/logical operators.
func (p *Parser) checkBinary(loc cc_lexer.Location, op cc_ast.BinaryOp, l, r *cc_ast.Expr) *cc_ast.Expr {
	l = p.decay(l)
	r = p.decay(r)
	e := p.ast.NewExpr(&cc_ast.EBinaryOp{Op: op, L: l, R: r}, loc)

	switch {
	case pointerResultOps[op]:
		e.Type = cc_types.Unqualified(p.types.GetArithmetic(cc_types.AkInt))
	case (op == cc_ast.BinAdd || op == cc_ast.BinSub) && l.Type.Type.Kind == cc_types.KPointer && cc_types.IsInteger(r.Type.Type):
		e.Type = l.Type
	case op == cc_ast.BinAdd && cc_types.IsInteger(l.Type.Type) && r.Type.Type.Kind == cc_types.KPointer:
		e.Type = r.Type
	case op == cc_ast.BinSub && l.Type.Type.Kind == cc_types.KPointer && r.Type.Type.Kind == cc_types.KPointer:
		e.Type = cc_types.Unqualified(p.types.GetArithmetic(cc_types.AkLong))
	case cc_types.IsArithmetic(l.Type.Type) && cc_types.IsArithmetic(r.Type.Type):
		common := cc_types.UsualArithmeticConversion(l.Type.Type.Arith, r.Type.Type.Arith)
		e.Type = cc_types.Unqualified(p.types.GetArithmetic(common))
	default:
		e.Type = l.Type
	}
	return e
}

// convertAssign implements assignment conversion (spec section 4.2): the
// right operand is converted to the left operand's type when both are
// arithmetic; pointer/array/struct assignments pass the value through
// unchanged, since the backend contract (spec section 7) takes the typed
// AST as-is and does its own representation conversion.
func (p *Parser) convertAssign(target cc_types.QualifiedType, v *cc_ast.Expr) *cc_ast.Expr {
	v = p.decay(v)
	if target.Type.Kind == cc_types.KArithmetic && v.Type.Type.Kind == cc_types.KArithmetic && target.Type.Arith != v.Type.Type.Arith {
		cast := p.ast.NewExpr(&cc_ast.ETypeCast{Operand: v}, v.Loc)
		cast.Type = target
		return cast
	}
	return v
}

// commonConditionalType implements "?:"'s result-type rule (spec section
// 4.2): the usual arithmetic conversions for two arithmetic operands,
// otherwise the (identical, in every well-typed program this frontend
// accepts) type of either operand.
func (p *Parser) commonConditionalType(a, b cc_types.QualifiedType) cc_types.QualifiedType {
	if cc_types.IsArithmetic(a.Type) && cc_types.IsArithmetic(b.Type) {
		return cc_types.Unqualified(p.types.GetArithmetic(cc_types.UsualArithmeticConversion(a.Type.Arith, b.Type.Arith)))
	}
	if a.Type.Kind == cc_types.KVoid || b.Type.Kind == cc_types.KVoid {
		return cc_types.Unqualified(p.types.GetVoid())
	}
	return a
}

// checkCall builds an EFuncCall node. Arguments of array/function type
// decay and any argument past a prototype's fixed parameters (a variadic
// call's trailing arguments) receives the default argument promotions
// spec.md section 4.4 requires: float widens to double, and any integer
// rank below int promotes to int.
func (p *Parser) checkCall(loc cc_lexer.Location, callee *cc_ast.Expr, args []*cc_ast.Expr) *cc_ast.Expr {
	callee = p.decay(callee)
	fnType := callee.Type.Type
	var fixed int
	if fnType.Kind == cc_types.KPointer && fnType.Pointee.Type.Kind == cc_types.KFunction {
		fnType = fnType.Pointee.Type
	}
	if fnType.Kind == cc_types.KFunction {
		fixed = len(fnType.Func.Params)
	}
	for i, a := range args {
		a = p.decay(a)
		if i >= fixed {
			a = p.defaultArgumentPromote(a)
		} else {
			a = p.convertAssign(fnType.Func.Params[i].Type, a)
		}
		args[i] = a
	}
	e := p.ast.NewExpr(&cc_ast.EFuncCall{Callee: callee, Args: args}, loc)
	if fnType.Kind == cc_types.KFunction {
		e.Type = fnType.Func.Return
	} else {
		e.Type = cc_types.Unqualified(p.types.GetArithmetic(cc_types.AkInt))
	}
	return e
}

func (p *Parser) defaultArgumentPromote(a *cc_ast.Expr) *cc_ast.Expr {
	if a.Type.Type.Kind != cc_types.KArithmetic {
		return a
	}
	k := a.Type.Type.Arith
	switch {
	case k == cc_types.AkFloat:
		cast := p.ast.NewExpr(&cc_ast.ETypeCast{Operand: a}, a.Loc)
		cast.Type = cc_types.Unqualified(p.types.GetArithmetic(cc_types.AkDouble))
		return cast
	case cc_types.IsInteger(a.Type.Type):
		promoted := cc_types.PromoteInteger(k)
		if promoted == k {
			return a
		}
		cast := p.ast.NewExpr(&cc_ast.ETypeCast{Operand: a}, a.Loc)
		cast.Type = cc_types.Unqualified(p.types.GetArithmetic(promoted))
		return cast
	default:
		return a
	}
}
