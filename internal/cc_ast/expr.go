package cc_ast

import (
	"math/big"

	"github.com/c17core/c17core/internal/cc_lexer"
	"github.com/c17core/c17core/internal/cc_types"
)

type UnaryOp uint8

const (
	UnaryPlus UnaryOp = iota
	UnaryNeg
	UnaryBitNot
	UnaryLogNot
	UnaryAddr
	UnaryDeref
	UnaryPreIncr
	UnaryPreDecr
	UnaryPostIncr
	UnaryPostDecr
)

type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinShl
	BinShr
	BinLt
	BinGt
	BinLe
	BinGe
	BinEq
	BinNe
	BinBitAnd
	BinBitXor
	BinBitOr
	BinLogAnd
	BinLogOr
	BinAssign
	BinAddAssign
	BinSubAssign
	BinMulAssign
	BinDivAssign
	BinModAssign
	BinShlAssign
	BinShrAssign
	BinAndAssign
	BinXorAssign
	BinOrAssign
	BinComma
)

// EUnaryOp covers prefix/postfix unary operators, including & and * (spec
// section 3.4).
type EUnaryOp struct {
	Op      UnaryOp
	Operand *Expr
}

func (*EUnaryOp) isExpr() {}

// ETypeCast is an explicit "(T)expr" cast; the target type is the node's
// own Expr.Type.
type ETypeCast struct {
	Operand *Expr
}

func (*ETypeCast) isExpr() {}

type EBinaryOp struct {
	Op  BinaryOp
	L   *Expr
	R   *Expr
}

func (*EBinaryOp) isExpr() {}

// EConditionOp is the ternary "a ? b : c".
type EConditionOp struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

func (*EConditionOp) isExpr() {}

// EFuncCall also covers the special-cased __builtin_va_arg_sub form (spec
// section 4.4): when VaArgType is non-nil, Args holds only the va_list
// argument and VaArgType carries the parsed type name.
type EFuncCall struct {
	Callee   *Expr
	Args     []*Expr
	VaArgType *cc_types.QualifiedType
}

func (*EFuncCall) isExpr() {}

// ConstantKind distinguishes an integer from a floating constant (spec
// section 3.4: "Constant (integer or floating, carrying an
// arbitrary-precision value)").
type ConstantKind uint8

const (
	ConstInteger ConstantKind = iota
	ConstFloating
)

type EConstant struct {
	Kind       ConstantKind
	IntValue   *big.Int
	FloatValue *big.Float
}

func (*EConstant) isExpr() {}

type EStringLiteral struct {
	Bytes    []byte
	Encoding cc_lexer.Encoding
}

func (*EStringLiteral) isExpr() {}

// IdentifierBase is the field set common to EIdentifier and its two
// specializations, EEnumerator and EObject (spec section 3.4).
type IdentifierBase struct {
	Name string
}

type EIdentifier struct {
	IdentifierBase
}

func (*EIdentifier) isExpr() {}

// EEnumerator specializes Identifier with the enumeration constant's value
// (spec section 3.4). The value is stored as int64 rather than *big.Int:
// C17 requires an enumerator's value to fit in int (or, with the GNU
// extension this frontend also accepts, in the underlying type chosen for
// the enum), which always fits int64.
type EEnumerator struct {
	IdentifierBase
	Value int64
}

func (*EEnumerator) isExpr() {}

type StorageClass uint8

const (
	StorageNone StorageClass = iota
	StorageAuto
	StorageStatic
	StorageExtern
	StorageRegister
	StorageTypedef
)

type Linkage uint8

const (
	LinkageNone Linkage = iota
	LinkageInternal
	LinkageExternal
)

// EObject specializes Identifier with everything spec section 3.4 lists for
// an Object: storage class, linkage, alignment, byte offset, and
// bit-field placement. When Object denotes a struct/union member,
// MemberOf/MemberIndex locate the authoritative cc_types.Member; the
// Offset/IsBitfield/BitBegin/BitWidth fields below are then a cache of that
// Member's layout, kept on the node so expression-checking code need not
// thread a *cc_types.Type through every member-access check.
type EObject struct {
	IdentifierBase
	Storage  StorageClass
	Linkage  Linkage
	Align    int64
	Offset   int64

	IsBitfield bool
	BitBegin   int
	BitWidth   int

	MemberOf    *cc_types.Type // non-nil when this Object is a struct/union member
	MemberIndex int

	// CompoundPlan/CompoundConstant hold a GNU compound literal's own
	// initializer, elaborated at the point the literal is parsed since it
	// never gets a Declaration node of its own to carry AutoPlan/
	// StaticConstant (spec section 4.4's compound-literal extension).
	// Exactly one is set, matching DDeclaration's AutoPlan/StaticConstant
	// split.
	CompoundPlan     *InitPlan
	CompoundConstant any
}

func (*EObject) isExpr() {}

// EStmtExpr is the GNU statement expression "({ ... })"; its type is the
// type of its last expression-statement, or void (spec section 4.4).
type EStmtExpr struct {
	Body *Stmt // always an SCompound
}

func (*EStmtExpr) isExpr() {}
