package cc_lexer

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/c17core/c17core/internal/cc_types"
	"github.com/c17core/c17core/internal/logger"
)

// NumberKind distinguishes an integer-constant from a floating-constant
// preprocessing-number (spec.md section 4.1).
type NumberKind uint8

const (
	NumInteger NumberKind = iota
	NumFloating
)

// Number is the value a TNumber token's lexeme decodes to, plus the
// arithmetic type C17 section 6.4.4.1 assigns it. Integer values are kept
// as arbitrary-precision big.Int (grounded on the teacher's EBigInt/
// math-big pattern in internal/js_parser/bigint_other.go) since a
// "long long" or "unsigned long long" literal can exceed int64 during
// intermediate classification against candidate types.
type Number struct {
	Kind       NumberKind
	IntValue   *big.Int
	FloatValue *big.Float
	Type       *cc_types.Type
}

// ParseNumber classifies and evaluates a TNumber token's lexeme per
// spec.md section 4.1's "Key policies" and C17 section 6.4.4.1's integer
// constant type table.
func ParseNumber(arena *cc_types.Arena, lexeme string) (Number, error) {
	isHex := len(lexeme) >= 2 && lexeme[0] == '0' && (lexeme[1] == 'x' || lexeme[1] == 'X')
	i := 0
	if isHex {
		i = 2
	}
	for i < len(lexeme) && isHexOrDecDigit(lexeme[i], isHex) {
		i++
	}

	isFloat := false
	if i < len(lexeme) && lexeme[i] == '.' {
		isFloat = true
		i++
		for i < len(lexeme) && isHexOrDecDigit(lexeme[i], isHex) {
			i++
		}
	}

	if !isHex && i < len(lexeme) && (lexeme[i] == 'e' || lexeme[i] == 'E') {
		isFloat = true
		i = skipExponent(lexeme, i)
	} else if isHex && i < len(lexeme) && (lexeme[i] == 'p' || lexeme[i] == 'P') {
		isFloat = true
		i = skipExponent(lexeme, i)
	}

	mantissa := lexeme[:i]
	suffix := strings.ToLower(lexeme[i:])

	if isFloat {
		return parseFloatingConstant(arena, mantissa, suffix)
	}
	return parseIntegerConstant(arena, mantissa, suffix, isHex)
}

func isHexOrDecDigit(c byte, isHex bool) bool {
	if isHex {
		return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	}
	return c >= '0' && c <= '9'
}

func skipExponent(s string, i int) int {
	i++ // the e/E/p/P itself
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

func parseFloatingConstant(arena *cc_types.Arena, mantissa, suffix string) (Number, error) {
	f, _, err := big.ParseFloat(mantissa, 0, 200, big.ToNearestEven)
	if err != nil {
		return Number{}, err
	}
	kind := cc_types.AkDouble
	switch suffix {
	case "f":
		kind = cc_types.AkFloat
	case "l":
		kind = cc_types.AkLongDouble
	case "":
		kind = cc_types.AkDouble
	}
	return Number{Kind: NumFloating, FloatValue: f, Type: arena.GetArithmetic(kind)}, nil
}

// integerSuffix describes the parsed suffix of an integer-constant:
// unsigned-ness and how many 'l's were present (0, 1, or 2 for "ll"/"LL").
type integerSuffix struct {
	unsigned  bool
	longCount int
}

func parseIntegerSuffix(suffix string) (integerSuffix, bool) {
	var s integerSuffix
	i := 0
	for i < len(suffix) {
		switch suffix[i] {
		case 'u':
			if s.unsigned {
				return s, false
			}
			s.unsigned = true
			i++
		case 'l':
			if s.longCount >= 2 {
				return s, false
			}
			s.longCount++
			i++
		default:
			return s, false
		}
	}
	return s, true
}

// signedLadder and unsignedLadder are the candidate-type search orders
// spec.md section 4.1 describes: a decimal literal never silently becomes
// unsigned, but a hex/octal literal may, once no signed candidate fits.
var signedLadder = []cc_types.ArithKind{cc_types.AkInt, cc_types.AkLong, cc_types.AkLongLong}
var unsignedLadder = []cc_types.ArithKind{cc_types.AkUInt, cc_types.AkULong, cc_types.AkULongLong}

func fitsUnsigned(v *big.Int, bits int) bool {
	return v.BitLen() <= bits
}

func fitsSigned(v *big.Int, bits int) bool {
	return v.BitLen() <= bits-1
}

func bitsOf(k cc_types.ArithKind) int {
	return int(k.Width() * 8)
}

func pickStartIndex(ladder []cc_types.ArithKind, longCount int) int {
	switch longCount {
	case 0:
		return 0
	case 1:
		return 1
	default:
		return 2
	}
}

func parseIntegerConstant(arena *cc_types.Arena, mantissa, suffix string, isHex bool) (Number, error) {
	sfx, ok := parseIntegerSuffix(suffix)
	if !ok {
		return Number{}, strconvError(mantissa + suffix)
	}

	base := 10
	digits := mantissa
	isOctal := false
	switch {
	case isHex:
		base = 16
		digits = mantissa[2:]
	case len(mantissa) > 1 && mantissa[0] == '0':
		base = 8
		isOctal = true
	}
	v, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return Number{}, strconvError(mantissa)
	}

	var kind cc_types.ArithKind
	switch {
	case sfx.unsigned:
		start := pickStartIndex(unsignedLadder, sfx.longCount)
		kind = pickFitting(unsignedLadder, start, v, true)
	case isHex || isOctal:
		kind = pickFittingEitherSign(v, sfx.longCount)
	default:
		start := pickStartIndex(signedLadder, sfx.longCount)
		kind = pickFittingSignedOrPromote(signedLadder, start, v)
	}

	return Number{Kind: NumInteger, IntValue: v, Type: arena.GetArithmetic(kind)}, nil
}

// pickFitting walks ladder starting at start, returning the first kind
// whose width (interpreted per the unsigned flag) can hold v; the widest
// entry is returned even if v overflows it, since C17 requires a
// diagnosable-but-representable fallback rather than a silently chosen
// narrower type.
func pickFitting(ladder []cc_types.ArithKind, start int, v *big.Int, unsigned bool) cc_types.ArithKind {
	for i := start; i < len(ladder); i++ {
		fits := fitsSigned(v, bitsOf(ladder[i]))
		if unsigned {
			fits = fitsUnsigned(v, bitsOf(ladder[i]))
		}
		if fits {
			return ladder[i]
		}
	}
	return ladder[len(ladder)-1]
}

// pickFittingSignedOrPromote is the decimal-literal rule: never promote to
// unsigned no matter how large the value is (C17 section 6.4.4.1); the
// widest signed candidate is used even on overflow.
func pickFittingSignedOrPromote(ladder []cc_types.ArithKind, start int, v *big.Int) cc_types.ArithKind {
	for i := start; i < len(ladder); i++ {
		if fitsSigned(v, bitsOf(ladder[i])) {
			return ladder[i]
		}
	}
	return ladder[len(ladder)-1]
}

// pickFittingEitherSign is the hex/octal-literal rule: at each rank, prefer
// signed, falling back to unsigned of the same rank before moving to a
// wider rank (spec.md section 4.1: "hex/octal promote to unsigned when
// signed cannot hold them").
func pickFittingEitherSign(v *big.Int, longCount int) cc_types.ArithKind {
	start := pickStartIndex(signedLadder, longCount)
	for i := start; i < len(signedLadder); i++ {
		if fitsSigned(v, bitsOf(signedLadder[i])) {
			return signedLadder[i]
		}
		if fitsUnsigned(v, bitsOf(unsignedLadder[i])) {
			return unsignedLadder[i]
		}
	}
	return unsignedLadder[len(unsignedLadder)-1]
}

func strconvError(text string) error {
	return &strconv.NumError{Func: "ParseNumber", Num: text, Err: strconv.ErrSyntax}
}

// DiagnoseOverflow reports a non-fatal warning when a literal's value is too
// large for even the widest candidate type in its ladder; callers that care
// (the parser, when building a Constant node) invoke this after ParseNumber
// since the scanner itself never fails on an in-range-but-oversized literal.
func DiagnoseOverflow(log *logger.Log, source *logger.Source, r logger.Range, n Number) {
	if n.Kind != NumInteger {
		return
	}
	widest := n.Type
	switch widest.Arith {
	case cc_types.AkULongLong:
		if !fitsUnsigned(n.IntValue, 64) {
			log.AddWarning(source, r, "integer constant is too large to represent in any integer type")
		}
	case cc_types.AkLongLong:
		if !fitsSigned(n.IntValue, 64) {
			log.AddWarning(source, r, "integer constant is too large for its type")
		}
	}
}
