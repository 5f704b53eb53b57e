package cc_const

import (
	"math/big"

	"github.com/c17core/c17core/internal/cc_ast"
	"github.com/c17core/c17core/internal/cc_types"
	"github.com/c17core/c17core/internal/logger"
)

func evaluateUnary(log *logger.Log, source *logger.Source, e *cc_ast.Expr, n *cc_ast.EUnaryOp) Value {
	if n.Op == cc_ast.UnaryAddr {
		return evaluateAddressOf(log, source, n.Operand)
	}

	v := evaluate(log, source, n.Operand)
	switch n.Op {
	case cc_ast.UnaryPlus:
		return v
	case cc_ast.UnaryNeg:
		if v.Kind == KFloat {
			return Value{Kind: KFloat, Float: new(big.Float).Neg(v.Float)}
		}
		return Value{Kind: KInt, Int: new(big.Int).Neg(v.Int)}
	case cc_ast.UnaryBitNot:
		return Value{Kind: KInt, Int: new(big.Int).Not(v.Int)}
	case cc_ast.UnaryLogNot:
		if truthValue(v) {
			return Value{Kind: KInt, Int: big.NewInt(0)}
		}
		return Value{Kind: KInt, Int: big.NewInt(1)}
	case cc_ast.UnaryDeref:
		nonConstant("dereference is not a constant expression unless immediately folded by the enclosing operator")
		panic("unreachable")
	default:
		nonConstant("unsupported unary operator in a constant expression")
		panic("unreachable")
	}
}

// evaluateAddressOf implements spec section 4.5's unary & rule: allowed on
// a static-storage object, a function name, or an array-index/deref GEP
// form, each of which folds to a constant address with an accumulated byte
// offset. A struct member access is not folded: the parser represents
// "s.m" as an EObject carrying only the member's offset, not the enclosing
// object, so "&s.m" reaches evaluateObject as an object with no storage
// class or linkage and is reported as non-constant.
func evaluateAddressOf(log *logger.Log, source *logger.Source, operand *cc_ast.Expr) Value {
	switch n := operand.Data.(type) {
	case *cc_ast.EObject:
		return evaluateObject(operand, n)
	case *cc_ast.EIdentifier:
		return evaluateIdentifierLike(operand)

	case *cc_ast.EBinaryOp:
		// A pointer-plus-integer operand folds the pointer side and adds the
		// constant integer side scaled by the pointee's width, the same GEP
		// form the dereference case below hands on.
		if n.Op != cc_ast.BinAdd {
			break
		}
		return evaluatePointerPlusAddress(log, source, operand, n)

	case *cc_ast.EUnaryOp:
		if n.Op == cc_ast.UnaryDeref {
			// "&*(p + n)" and "&array[index]" (already rewritten to "*(a+i)"
			// by the parser, spec section 4.4) fold as pointer-plus-integer.
			if add, ok := n.Operand.Data.(*cc_ast.EBinaryOp); ok && add.Op == cc_ast.BinAdd {
				return evaluatePointerPlusAddress(log, source, n.Operand, add)
			}
			base := evaluate(log, source, n.Operand)
			if base.Kind != KAddress {
				nonConstant("dereference of a non-constant pointer is not constant")
			}
			return base
		}
	}
	nonConstant("operand of & is not a static object, function, or GEP form")
	panic("unreachable")
}

func evaluatePointerPlusAddress(log *logger.Log, source *logger.Source, full *cc_ast.Expr, n *cc_ast.EBinaryOp) Value {
	// Only the pointer-arithmetic GEP form (array indexing, "*(p + n)")
	// reaches this helper; member access never does, since the parser
	// resolves "s.m" to a member EObject rather than to pointer arithmetic.
	pointerSide, integerSide := n.L, n.R
	if !isPointerType(n.L) {
		pointerSide, integerSide = n.R, n.L
	}
	base := evaluate(log, source, pointerSide)
	if base.Kind != KAddress {
		nonConstant("base of constant pointer arithmetic is not a static address")
	}
	idx := evaluate(log, source, integerSide)
	if idx.Kind != KInt {
		nonConstant("index of constant pointer arithmetic is not an integer constant")
	}
	elemWidth := int64(1)
	if pointerSide.Type.Type != nil && pointerSide.Type.Type.Kind == cc_types.KPointer {
		elemWidth = pointerSide.Type.Type.Pointee.Type.Width
	}
	offset := new(big.Int).Mul(idx.Int, big.NewInt(elemWidth))
	addr := base.Address
	addr.ByteOffset += offset.Int64()
	return Value{Kind: KAddress, Address: addr}
}

func isPointerType(e *cc_ast.Expr) bool {
	return e.Type.Type != nil && e.Type.Type.Kind == cc_types.KPointer
}

func evaluateBinary(log *logger.Log, source *logger.Source, e *cc_ast.Expr, n *cc_ast.EBinaryOp) Value {
	if n.Op == cc_ast.BinLogAnd || n.Op == cc_ast.BinLogOr {
		return evaluateLogical(log, source, n)
	}

	l := evaluate(log, source, n.L)
	r := evaluate(log, source, n.R)

	if l.Kind == KFloat || r.Kind == KFloat {
		if n.Op == cc_ast.BinDiv && toFloat(r).Sign() == 0 {
			panic(logger.FatalError{Msg: logger.Msg{Kind: logger.Error, Data: logger.RangeData(source, e.Range, "division by zero in a constant expression")}})
		}
		return evaluateFloatBinary(n.Op, toFloat(l), toFloat(r))
	}
	if l.Kind == KAddress || r.Kind == KAddress {
		nonConstant("address arithmetic outside a GEP form is not constant")
	}
	return evaluateIntBinary(source, e, n.Op, l.Int, r.Int)
}

func evaluateLogical(log *logger.Log, source *logger.Source, n *cc_ast.EBinaryOp) Value {
	l := evaluate(log, source, n.L)
	lTrue := truthValue(l)
	if n.Op == cc_ast.BinLogAnd && !lTrue {
		return Value{Kind: KInt, Int: big.NewInt(0)}
	}
	if n.Op == cc_ast.BinLogOr && lTrue {
		return Value{Kind: KInt, Int: big.NewInt(1)}
	}
	r := evaluate(log, source, n.R)
	if truthValue(r) {
		return Value{Kind: KInt, Int: big.NewInt(1)}
	}
	return Value{Kind: KInt, Int: big.NewInt(0)}
}

func toFloat(v Value) *big.Float {
	if v.Kind == KFloat {
		return v.Float
	}
	return new(big.Float).SetInt(v.Int)
}

func evaluateFloatBinary(op cc_ast.BinaryOp, l, r *big.Float) Value {
	result := new(big.Float)
	switch op {
	case cc_ast.BinAdd:
		result.Add(l, r)
	case cc_ast.BinSub:
		result.Sub(l, r)
	case cc_ast.BinMul:
		result.Mul(l, r)
	case cc_ast.BinDiv:
		if r.Sign() == 0 {
			nonConstant("floating division by zero")
		}
		result.Quo(l, r)
	case cc_ast.BinLt:
		return boolInt(l.Cmp(r) < 0)
	case cc_ast.BinGt:
		return boolInt(l.Cmp(r) > 0)
	case cc_ast.BinLe:
		return boolInt(l.Cmp(r) <= 0)
	case cc_ast.BinGe:
		return boolInt(l.Cmp(r) >= 0)
	case cc_ast.BinEq:
		return boolInt(l.Cmp(r) == 0)
	case cc_ast.BinNe:
		return boolInt(l.Cmp(r) != 0)
	default:
		nonConstant("unsupported floating operator in a constant expression")
	}
	return Value{Kind: KFloat, Float: result}
}

func boolInt(b bool) Value {
	if b {
		return Value{Kind: KInt, Int: big.NewInt(1)}
	}
	return Value{Kind: KInt, Int: big.NewInt(0)}
}

// evaluateIntBinary implements spec section 4.5's "division or modulo by
// zero is fatal" rule: unlike every other non-foldable shape, this is
// raised as a logger.FatalError (a genuine diagnostic), not NonConstant, since the
// expression IS otherwise constant — it just can't be evaluated.
func evaluateIntBinary(source *logger.Source, e *cc_ast.Expr, op cc_ast.BinaryOp, l, r *big.Int) Value {
	result := new(big.Int)
	switch op {
	case cc_ast.BinAdd:
		result.Add(l, r)
	case cc_ast.BinSub:
		result.Sub(l, r)
	case cc_ast.BinMul:
		result.Mul(l, r)
	case cc_ast.BinDiv:
		if r.Sign() == 0 {
			panic(logger.FatalError{Msg: logger.Msg{Kind: logger.Error, Data: logger.RangeData(source, e.Range, "division by zero in a constant expression")}})
		}
		result.Quo(l, r)
	case cc_ast.BinMod:
		if r.Sign() == 0 {
			panic(logger.FatalError{Msg: logger.Msg{Kind: logger.Error, Data: logger.RangeData(source, e.Range, "modulo by zero in a constant expression")}})
		}
		result.Rem(l, r)
	case cc_ast.BinShl:
		result.Lsh(l, uint(r.Int64()))
	case cc_ast.BinShr:
		result.Rsh(l, uint(r.Int64()))
	case cc_ast.BinBitAnd:
		result.And(l, r)
	case cc_ast.BinBitOr:
		result.Or(l, r)
	case cc_ast.BinBitXor:
		result.Xor(l, r)
	case cc_ast.BinLt:
		return boolInt(l.Cmp(r) < 0)
	case cc_ast.BinGt:
		return boolInt(l.Cmp(r) > 0)
	case cc_ast.BinLe:
		return boolInt(l.Cmp(r) <= 0)
	case cc_ast.BinGe:
		return boolInt(l.Cmp(r) >= 0)
	case cc_ast.BinEq:
		return boolInt(l.Cmp(r) == 0)
	case cc_ast.BinNe:
		return boolInt(l.Cmp(r) != 0)
	default:
		nonConstant("unsupported integer operator in a constant expression")
	}
	return Value{Kind: KInt, Int: result}
}

// evaluateCast implements spec section 4.5's "cast to bool" rule
// (emitted as a not-equal-zero comparison) and otherwise passes the folded
// value through, converting its numeric representation where needed.
func evaluateCast(log *logger.Log, source *logger.Source, e *cc_ast.Expr, n *cc_ast.ETypeCast) Value {
	v := evaluate(log, source, n.Operand)
	target := e.Type.Type
	if target == nil {
		return v
	}
	if target.Kind == cc_types.KArithmetic && target.Arith == cc_types.AkBool {
		return boolInt(truthValue(v))
	}
	if target.Kind == cc_types.KArithmetic && target.Arith.IsFloating() {
		return Value{Kind: KFloat, Float: toFloat(v)}
	}
	if target.Kind == cc_types.KArithmetic && v.Kind == KFloat {
		i, _ := v.Float.Int(nil)
		return Value{Kind: KInt, Int: i}
	}
	return v
}
