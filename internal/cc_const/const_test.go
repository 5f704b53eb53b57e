package cc_const

import (
	"math/big"
	"testing"

	"github.com/c17core/c17core/internal/cc_ast"
	"github.com/c17core/c17core/internal/logger"
	"github.com/c17core/c17core/internal/test"
)

func intConst(v int64) *cc_ast.Expr {
	return &cc_ast.Expr{Data: &cc_ast.EConstant{Kind: cc_ast.ConstInteger, IntValue: big.NewInt(v)}}
}

func TestEvaluateSimpleArithmetic(t *testing.T) {
	log := logger.NewLog()
	source := test.SourceForTest("")
	expr := &cc_ast.Expr{Data: &cc_ast.EBinaryOp{Op: cc_ast.BinAdd, L: intConst(2), R: intConst(3)}}

	v, ok := EvaluateOrNil(log, &source, expr)
	if !ok {
		t.Fatal("expected 2 + 3 to be constant")
	}
	if v.Int.Int64() != 5 {
		t.Fatalf("expected 5, got %v", v.Int)
	}
}

func TestEvaluateDivisionByZeroIsFatal(t *testing.T) {
	log := logger.NewLog()
	source := test.SourceForTest("")
	expr := &cc_ast.Expr{Data: &cc_ast.EBinaryOp{Op: cc_ast.BinDiv, L: intConst(1), R: intConst(0)}}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a fatal error on division by zero")
		}
		if _, ok := r.(logger.FatalError); !ok {
			t.Fatalf("expected a logger.FatalError, got %T", r)
		}
	}()
	EvaluateOrNil(log, &source, expr)
}

func TestEvaluateConditionalShortCircuitsNonConstantSide(t *testing.T) {
	log := logger.NewLog()
	source := test.SourceForTest("")
	// The "else" side references a non-constant auto object, but since the
	// condition picks "then", the non-constant side must never be evaluated
	// (spec.md section 4.5: "the non-chosen side is not required to be
	// constant").
	nonConstSide := &cc_ast.Expr{Data: &cc_ast.EObject{IdentifierBase: cc_ast.IdentifierBase{Name: "x"}, Storage: cc_ast.StorageAuto}}
	expr := &cc_ast.Expr{Data: &cc_ast.EConditionOp{
		Cond: intConst(1),
		Then: intConst(42),
		Else: nonConstSide,
	}}

	v, ok := EvaluateOrNil(log, &source, expr)
	if !ok {
		t.Fatal("expected the conditional to be constant")
	}
	if v.Int.Int64() != 42 {
		t.Fatalf("expected 42, got %v", v.Int)
	}
}

func TestEvaluateLogicalAndShortCircuits(t *testing.T) {
	log := logger.NewLog()
	source := test.SourceForTest("")
	nonConstSide := &cc_ast.Expr{Data: &cc_ast.EObject{IdentifierBase: cc_ast.IdentifierBase{Name: "x"}, Storage: cc_ast.StorageAuto}}
	expr := &cc_ast.Expr{Data: &cc_ast.EBinaryOp{Op: cc_ast.BinLogAnd, L: intConst(0), R: nonConstSide}}

	v, ok := EvaluateOrNil(log, &source, expr)
	if !ok {
		t.Fatal("expected '0 && anything' to be constant")
	}
	if v.Int.Int64() != 0 {
		t.Fatalf("expected 0, got %v", v.Int)
	}
}

func TestEvaluateAutoObjectAddressIsNotConstant(t *testing.T) {
	log := logger.NewLog()
	source := test.SourceForTest("")
	auto := &cc_ast.Expr{Data: &cc_ast.EObject{IdentifierBase: cc_ast.IdentifierBase{Name: "x"}, Storage: cc_ast.StorageAuto}}
	expr := &cc_ast.Expr{Data: &cc_ast.EUnaryOp{Op: cc_ast.UnaryAddr, Operand: auto}}

	if _, ok := EvaluateOrNil(log, &source, expr); ok {
		t.Fatal("expected the address of an automatic-storage object to be non-constant")
	}
}

func TestEvaluateStaticObjectAddressIsConstant(t *testing.T) {
	log := logger.NewLog()
	source := test.SourceForTest("")
	static := &cc_ast.Expr{Data: &cc_ast.EObject{IdentifierBase: cc_ast.IdentifierBase{Name: "g"}, Storage: cc_ast.StorageStatic}}
	expr := &cc_ast.Expr{Data: &cc_ast.EUnaryOp{Op: cc_ast.UnaryAddr, Operand: static}}

	v, ok := EvaluateOrNil(log, &source, expr)
	if !ok {
		t.Fatal("expected the address of a static object to be constant")
	}
	if v.Kind != KAddress || v.Address.Name != "g" {
		t.Fatalf("unexpected address value: %+v", v)
	}
}
