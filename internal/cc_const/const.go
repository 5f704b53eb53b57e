// Package cc_const implements spec.md section 4.5, the constant-expression
// evaluator: a bottom-up fold of an expression tree into a backend
// constant, raising a non-constant signal on any node it cannot fold.
//
// Grounded on the teacher's general evaluation shape in
// internal/js_parser's constant-folding helpers (exprCanBeRemovedIfUnused
// and friends fold bottom-up without a separate visitor type); adapted
// here into a single recursive Evaluate function, since the C grammar's
// constant-expression needs are far narrower than JS's.
package cc_const

import (
	"math/big"

	"github.com/c17core/c17core/internal/cc_ast"
	"github.com/c17core/c17core/internal/cc_types"
	"github.com/c17core/c17core/internal/logger"
)

// AddressBase distinguishes what a folded "&expr" points at.
type AddressBase uint8

const (
	AddrObject AddressBase = iota
	AddrFunction
)

// Address is a folded constant address, covering spec section 4.5's GEP
// forms: "array[index]", "struct.member", and "*(p + n)" all reduce to a
// Name plus a constant ByteOffset.
type Address struct {
	Base       AddressBase
	Name       string
	ByteOffset int64
}

// Kind distinguishes the three shapes a folded constant can take.
type Kind uint8

const (
	KInt Kind = iota
	KFloat
	KAddress
)

type Value struct {
	Kind    Kind
	Int     *big.Int
	Float   *big.Float
	Address Address
}

// NonConstant is raised (via panic, mirroring the logger's own fatal-error
// unwind convention) when a node cannot be folded; EvaluateOrNil recovers
// it for callers that treat "not constant" as a legitimate outcome rather
// than a diagnostic.
type NonConstant struct {
	Reason string
}

func (n NonConstant) Error() string { return n.Reason }

func nonConstant(reason string) {
	panic(NonConstant{Reason: reason})
}

// EvaluateOrNil folds e, returning (value, true) on success or (_, false)
// if any node in it is not a compile-time constant. Division/modulo by
// zero is still fatal even inside an expression that is otherwise
// constant-foldable, per spec section 4.5.
func EvaluateOrNil(log *logger.Log, source *logger.Source, e *cc_ast.Expr) (v Value, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isNonConstant := r.(NonConstant); isNonConstant {
				ok = false
				return
			}
			panic(r)
		}
	}()
	return evaluate(log, source, e), true
}

// Evaluate folds e or raises a fatal diagnostic through log, for contexts
// where the spec requires a constant (e.g. a _Static_assert condition, a
// global initializer, a case label).
func Evaluate(log *logger.Log, source *logger.Source, e *cc_ast.Expr, context string) Value {
	v, ok := EvaluateOrNil(log, source, e)
	if !ok {
		log.AddError(source, e.Range, context+" is not a compile-time constant")
	}
	return v
}

func evaluate(log *logger.Log, source *logger.Source, e *cc_ast.Expr) Value {
	switch n := e.Data.(type) {
	case *cc_ast.EConstant:
		return evaluateConstant(n)
	case *cc_ast.EUnaryOp:
		return evaluateUnary(log, source, e, n)
	case *cc_ast.EBinaryOp:
		return evaluateBinary(log, source, e, n)
	case *cc_ast.EConditionOp:
		return evaluateCondition(log, source, n)
	case *cc_ast.ETypeCast:
		return evaluateCast(log, source, e, n)
	case *cc_ast.EIdentifier, *cc_ast.EEnumerator:
		return evaluateIdentifierLike(e)
	case *cc_ast.EObject:
		return evaluateObject(e, n)
	case *cc_ast.EStmtExpr:
		return evaluateStmtExpr(log, source, n)
	default:
		nonConstant("unsupported expression form in a constant expression")
		panic("unreachable")
	}
}

func evaluateConstant(n *cc_ast.EConstant) Value {
	switch n.Kind {
	case cc_ast.ConstInteger:
		return Value{Kind: KInt, Int: new(big.Int).Set(n.IntValue)}
	default:
		return Value{Kind: KFloat, Float: new(big.Float).Set(n.FloatValue)}
	}
}

// evaluateIdentifierLike covers a bare EEnumerator (its Value is already
// constant by construction) and an EIdentifier, which can only appear here
// already resolved to a function reference (spec section 4.5: "Identifier
// referencing a function yields the function's address").
func evaluateIdentifierLike(e *cc_ast.Expr) Value {
	if enum, ok := e.Data.(*cc_ast.EEnumerator); ok {
		return Value{Kind: KInt, Int: big.NewInt(enum.Value)}
	}
	ident := e.Data.(*cc_ast.EIdentifier)
	if e.Type.Type != nil && e.Type.Type.Kind == cc_types.KFunction {
		return Value{Kind: KAddress, Address: Address{Base: AddrFunction, Name: ident.Name}}
	}
	nonConstant("identifier does not refer to a constant or a function")
	panic("unreachable")
}

// evaluateObject covers spec section 4.5's "Object referencing a global
// array or struct yields the global's address" — only static-storage
// objects are ever constant.
func evaluateObject(e *cc_ast.Expr, n *cc_ast.EObject) Value {
	if n.Storage != cc_ast.StorageStatic && n.Linkage == cc_ast.LinkageNone {
		nonConstant("address of an automatic-storage object is not a constant expression")
	}
	return Value{Kind: KAddress, Address: Address{Base: AddrObject, Name: n.Name, ByteOffset: 0}}
}

func evaluateCondition(log *logger.Log, source *logger.Source, n *cc_ast.EConditionOp) Value {
	cond := evaluate(log, source, n.Cond)
	if truthValue(cond) {
		return evaluate(log, source, n.Then)
	}
	return evaluate(log, source, n.Else)
}

func evaluateStmtExpr(log *logger.Log, source *logger.Source, n *cc_ast.EStmtExpr) Value {
	compound, ok := n.Body.Data.(*cc_ast.SCompound)
	if !ok || len(compound.Stmts) == 0 {
		nonConstant("empty statement expression is not constant")
	}
	last := compound.Stmts[len(compound.Stmts)-1]
	exprStmt, ok := last.Data.(*cc_ast.SExpr)
	if !ok {
		nonConstant("statement expression's last statement is not an expression")
	}
	return evaluate(log, source, exprStmt.X)
}

func truthValue(v Value) bool {
	switch v.Kind {
	case KInt:
		return v.Int.Sign() != 0
	case KFloat:
		return v.Float.Sign() != 0
	default:
		return true // a folded address is never the null pointer
	}
}
