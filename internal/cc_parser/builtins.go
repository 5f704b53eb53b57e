package cc_parser

import (
	"github.com/c17core/c17core/internal/cc_ast"
	"github.com/c17core/c17core/internal/cc_lexer"
	"github.com/c17core/c17core/internal/cc_types"
)

// declareBuiltins populates the file scope with the identifiers spec.md
// section 6 says "the parser must make available without a #include": the
// x86-64 System V __builtin_va_list machinery and the handful of
// __builtin_* functions GCC/Clang headers assume exist unconditionally.
//
// Grounded on the x86-64 SysV ABI's va_list layout (a one-element array of
// a 4-field struct), the same representation chibicc and every mainstream
// x86-64 C compiler uses; spec.md section 6 names the fields explicitly.
func (p *Parser) declareBuiltins() {
	uint32T := cc_types.Unqualified(p.types.GetArithmetic(cc_types.AkUInt))
	voidPtr := cc_types.Unqualified(p.types.GetPointer(cc_types.Unqualified(p.types.GetVoid())))

	vaListTag := p.types.GetStruct(true, "__va_list_tag")
	mustAdd(vaListTag, "gp_offset", uint32T)
	mustAdd(vaListTag, "fp_offset", uint32T)
	mustAdd(vaListTag, "overflow_arg_area", voidPtr)
	mustAdd(vaListTag, "reg_save_area", voidPtr)
	cc_types.CompleteStruct(vaListTag)

	vaList := cc_types.Unqualified(p.types.GetArray(cc_types.Unqualified(vaListTag), 1))
	p.declareTypedef("__builtin_va_list", vaList)

	voidT := cc_types.Unqualified(p.types.GetVoid())
	intT := cc_types.Unqualified(p.types.GetArithmetic(cc_types.AkInt))
	ulongT := cc_types.Unqualified(p.types.GetArithmetic(cc_types.AkULong))
	vaListPtr := cc_types.Unqualified(p.types.GetPointer(vaList))

	p.declareBuiltinFunc("__builtin_va_start", voidT, []cc_types.Param{{Name: "ap", Type: vaListPtr}, {Name: "last", Type: voidPtr}}, false)
	p.declareBuiltinFunc("__builtin_va_end", voidT, []cc_types.Param{{Name: "ap", Type: vaListPtr}}, false)
	p.declareBuiltinFunc("__builtin_va_copy", voidT, []cc_types.Param{{Name: "dst", Type: vaListPtr}, {Name: "src", Type: vaListPtr}}, false)
	// __builtin_va_arg_sub is this frontend's synthetic stand-in for the
	// compiler-magic __builtin_va_arg (spec section 6): parseBuiltinVaArg
	// rewrites "__builtin_va_arg(ap, T)" into a call to this identifier,
	// carrying the requested type in EFuncCall.VaArgType since va_arg's
	// return type cannot be expressed as an ordinary function signature.
	p.declareBuiltinFunc("__builtin_va_arg_sub", voidT, []cc_types.Param{{Name: "ap", Type: vaListPtr}}, false)

	p.declareBuiltinFunc("__sync_synchronize", voidT, nil, false)
	p.declareBuiltinFunc("__builtin_alloca", voidPtr, []cc_types.Param{{Name: "size", Type: ulongT}}, false)
	p.declareBuiltinFunc("__builtin_popcount", intT, []cc_types.Param{{Name: "x", Type: uint32T}}, false)
	p.declareBuiltinFunc("__builtin_clz", intT, []cc_types.Param{{Name: "x", Type: uint32T}}, false)
	p.declareBuiltinFunc("__builtin_ctz", intT, []cc_types.Param{{Name: "x", Type: uint32T}}, false)
	p.declareBuiltinFunc("__builtin_expect", ulongT, []cc_types.Param{{Name: "exp", Type: ulongT}, {Name: "c", Type: ulongT}}, false)
	doubleT := cc_types.Unqualified(p.types.GetArithmetic(cc_types.AkDouble))
	p.declareBuiltinFunc("__builtin_isinf_sign", intT, []cc_types.Param{{Name: "x", Type: doubleT}}, false)
	p.declareBuiltinFunc("__builtin_isfinite", intT, []cc_types.Param{{Name: "x", Type: doubleT}}, false)
}

func mustAdd(t *cc_types.Type, name string, qt cc_types.QualifiedType) {
	if _, err := t.AddMember(name, qt); err != nil {
		panic("declareBuiltins: " + err.Error())
	}
}

func (p *Parser) declareTypedef(name string, t cc_types.QualifiedType) {
	obj := &cc_ast.EObject{
		IdentifierBase: cc_ast.IdentifierBase{Name: name},
		Storage:        cc_ast.StorageTypedef,
	}
	e := p.ast.NewExpr(obj, cc_lexer.Location{})
	e.Type = t
	p.fileScope.InsertOrdinary(name, e)
	p.typedefNames[name] = true
}

func (p *Parser) declareBuiltinFunc(name string, ret cc_types.QualifiedType, params []cc_types.Param, varArgs bool) {
	fnType := cc_types.Unqualified(p.types.GetFunction(ret, params, varArgs))
	obj := &cc_ast.EObject{
		IdentifierBase: cc_ast.IdentifierBase{Name: name},
		Storage:        cc_ast.StorageExtern,
		Linkage:        cc_ast.LinkageExternal,
	}
	e := p.ast.NewExpr(obj, cc_lexer.Location{})
	e.Type = fnType
	p.fileScope.InsertOrdinary(name, e)
}
