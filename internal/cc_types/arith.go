package cc_types

// ArithKind is the normalized 14-element set spec section 3.2 requires the
// arithmetic mask to collapse to after construction. Plain "char" and
// "signed char" share the single kind AkChar: the spec's invariant names
// a 14-element set, and folding signed-char into char is the only count
// that reaches exactly 14 while still keeping every standard width/sign
// combination reachable (see DESIGN.md's Open Question log).
type ArithKind uint8

const (
	AkBool ArithKind = iota
	AkChar
	AkUChar
	AkShort
	AkUShort
	AkInt
	AkUInt
	AkLong
	AkULong
	AkLongLong
	AkULongLong
	AkFloat
	AkDouble
	AkLongDouble
)

// rank orders integer kinds for the usual arithmetic conversions (spec
// section 4.2); higher means wider rank. Floating kinds are ranked
// separately in floatRank/widerFloat.
var integerRank = map[ArithKind]int{
	AkBool:      0,
	AkChar:      1,
	AkUChar:     1,
	AkShort:     2,
	AkUShort:    2,
	AkInt:       3,
	AkUInt:      3,
	AkLong:      4,
	AkULong:     4,
	AkLongLong:  5,
	AkULongLong: 5,
}

var widthOf = map[ArithKind]int64{
	AkBool:       1,
	AkChar:       1,
	AkUChar:      1,
	AkShort:      2,
	AkUShort:     2,
	AkInt:        4,
	AkUInt:       4,
	AkLong:       8,
	AkULong:      8,
	AkLongLong:   8,
	AkULongLong:  8,
	AkFloat:      4,
	AkDouble:     8,
	AkLongDouble: 16,
}

func (k ArithKind) Width() int64 { return widthOf[k] }
func (k ArithKind) Align() int64 { return widthOf[k] }

func (k ArithKind) IsFloating() bool {
	return k == AkFloat || k == AkDouble || k == AkLongDouble
}

func (k ArithKind) IsInteger() bool { return !k.IsFloating() }

func (k ArithKind) IsUnsigned() bool {
	switch k {
	case AkBool, AkUChar, AkUShort, AkUInt, AkULong, AkULongLong:
		return true
	default:
		return false
	}
}

func (k ArithKind) IsSigned() bool { return k.IsInteger() && !k.IsUnsigned() }

// Unsigned returns the unsigned counterpart of an integer kind, used by the
// usual arithmetic conversions when ranks tie but signs differ.
func (k ArithKind) Unsigned() ArithKind {
	switch k {
	case AkChar:
		return AkUChar
	case AkShort:
		return AkUShort
	case AkInt:
		return AkUInt
	case AkLong:
		return AkULong
	case AkLongLong:
		return AkULongLong
	default:
		return k
	}
}

func (k ArithKind) String() string {
	switch k {
	case AkBool:
		return "_Bool"
	case AkChar:
		return "char"
	case AkUChar:
		return "unsigned char"
	case AkShort:
		return "short"
	case AkUShort:
		return "unsigned short"
	case AkInt:
		return "int"
	case AkUInt:
		return "unsigned int"
	case AkLong:
		return "long"
	case AkULong:
		return "unsigned long"
	case AkLongLong:
		return "long long"
	case AkULongLong:
		return "unsigned long long"
	case AkFloat:
		return "float"
	case AkDouble:
		return "double"
	case AkLongDouble:
		return "long double"
	default:
		return "?"
	}
}

// SpecMask accumulates the raw type-specifier keywords the parser collects
// while walking a declaration-specifier list (spec section 4.4); Normalize
// then folds it down to one of the 14 ArithKind values, or reports a
// conflict.
type SpecMask struct {
	Signed, Unsigned bool
	Bool             bool
	Char             bool
	Short            bool
	Int              bool
	LongCount        int // 0, 1 (long), or 2 (long long)
	Float            bool
	Double           bool
}

// Normalize folds a SpecMask into the canonical ArithKind spec section 3.2
// describes: "signed alone becomes int; bare long/long long strip the
// implicit int". ok is false when the combination is not one the C grammar
// allows (e.g. "short double").
func (m SpecMask) Normalize() (ArithKind, bool) {
	switch {
	case m.Signed && m.Unsigned:
		return AkInt, false
	case m.Bool:
		return AkBool, !(m.Signed || m.Unsigned || m.Char || m.Short || m.Int || m.LongCount != 0 || m.Float || m.Double)
	case m.Float:
		return AkFloat, !(m.Signed || m.Unsigned || m.Char || m.Short || m.Int || m.LongCount != 0 || m.Double)
	case m.Double:
		if m.LongCount == 1 && !(m.Signed || m.Unsigned || m.Char || m.Short || m.Int) {
			return AkLongDouble, true
		}
		return AkDouble, !(m.Signed || m.Unsigned || m.Char || m.Short || m.Int || m.LongCount != 0)
	case m.Char:
		ok := !(m.Short || m.Int || m.LongCount != 0 || (m.Signed && m.Unsigned))
		if m.Unsigned {
			return AkUChar, ok
		}
		return AkChar, ok // plain or "signed char" both fold to AkChar (see DESIGN.md)
	case m.Short:
		if m.Unsigned {
			return AkUShort, !(m.Signed && m.Unsigned) && m.LongCount == 0
		}
		return AkShort, m.LongCount == 0
	case m.LongCount >= 2:
		if m.Unsigned {
			return AkULongLong, true
		}
		return AkLongLong, true
	case m.LongCount == 1:
		if m.Unsigned {
			return AkULong, true
		}
		return AkLong, true
	default:
		// Bare "int", bare "signed", bare "unsigned", or nothing at all
		// (the parser's implicit-int case, which it warns about).
		if m.Unsigned {
			return AkUInt, true
		}
		return AkInt, true
	}
}

// GetArithmetic returns the shared Type value for one of the 14 arithmetic
// kinds. These are pre-built once per arena rather than searched for, since
// there are only 14 and every one is used by nearly every translation unit.
func (a *Arena) GetArithmetic(k ArithKind) *Type {
	if a.arith == nil {
		a.arith = make(map[ArithKind]*Type, 14)
	}
	if t, ok := a.arith[k]; ok {
		return t
	}
	t := a.alloc()
	t.Kind = KArithmetic
	t.Arith = k
	t.Width = k.Width()
	t.Align = k.Align()
	t.Complete = true
	a.arith[k] = t
	return t
}

// PromoteInteger applies integer promotion (spec section 4.2): any integer
// kind with rank below int becomes int.
func PromoteInteger(k ArithKind) ArithKind {
	if k.IsFloating() {
		return k
	}
	if integerRank[k] < integerRank[AkInt] {
		return AkInt
	}
	return k
}

// UsualArithmeticConversion computes the common type of two arithmetic
// kinds per spec section 4.2: floating beats integer; within floating,
// higher rank wins; within integer (after promotion), matching signs take
// the higher rank, and differing signs take the unsigned type unless the
// signed type's rank strictly exceeds the unsigned one (in which case the
// signed type can represent every value of the unsigned one).
func UsualArithmeticConversion(a, b ArithKind) ArithKind {
	if a.IsFloating() || b.IsFloating() {
		return widerFloat(a, b)
	}
	a = PromoteInteger(a)
	b = PromoteInteger(b)
	if a == b {
		return a
	}
	if a.IsUnsigned() == b.IsUnsigned() {
		if integerRank[a] >= integerRank[b] {
			return a
		}
		return b
	}
	signed, unsigned := a, b
	if a.IsUnsigned() {
		signed, unsigned = b, a
	}
	if integerRank[signed] > integerRank[unsigned] {
		return signed
	}
	return unsigned.Unsigned()
}

var floatRank = map[ArithKind]int{
	AkFloat:      0,
	AkDouble:     1,
	AkLongDouble: 2,
}

func widerFloat(a, b ArithKind) ArithKind {
	af, aIsFloat := floatRank[a]
	bf, bIsFloat := floatRank[b]
	switch {
	case aIsFloat && bIsFloat:
		if af >= bf {
			return a
		}
		return b
	case aIsFloat:
		return a
	default:
		return b
	}
}
