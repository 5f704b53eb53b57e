package cc_types

import "testing"

func TestNormalizeSignedAlone(t *testing.T) {
	k, ok := SpecMask{Signed: true}.Normalize()
	if !ok || k != AkInt {
		t.Fatalf("bare 'signed' should normalize to int, got %v ok=%v", k, ok)
	}
}

func TestNormalizeBareLongLong(t *testing.T) {
	k, ok := SpecMask{LongCount: 2}.Normalize()
	if !ok || k != AkLongLong {
		t.Fatalf("bare 'long long' should normalize to long long, got %v ok=%v", k, ok)
	}
}

func TestNormalizeLongDouble(t *testing.T) {
	k, ok := SpecMask{Double: true, LongCount: 1}.Normalize()
	if !ok || k != AkLongDouble {
		t.Fatalf("'long double' should normalize to long double, got %v ok=%v", k, ok)
	}
}

func TestNormalizeConflictingSignUnsigned(t *testing.T) {
	if _, ok := (SpecMask{Signed: true, Unsigned: true, Int: true}).Normalize(); ok {
		t.Fatal("'signed unsigned int' should be a conflict")
	}
}

func TestIntegerPromotion(t *testing.T) {
	if PromoteInteger(AkChar) != AkInt {
		t.Fatal("char should promote to int")
	}
	if PromoteInteger(AkUShort) != AkInt {
		t.Fatal("unsigned short should promote to int")
	}
	if PromoteInteger(AkLong) != AkLong {
		t.Fatal("long should not be affected by integer promotion")
	}
}

func TestUsualArithmeticConversionFloatingBeatsInteger(t *testing.T) {
	if UsualArithmeticConversion(AkDouble, AkInt) != AkDouble {
		t.Fatal("double should win over int")
	}
}

func TestUsualArithmeticConversionSameSignHigherRankWins(t *testing.T) {
	if UsualArithmeticConversion(AkInt, AkLong) != AkLong {
		t.Fatal("long should win over int")
	}
}

func TestUsualArithmeticConversionUnsignedWinsOnTiedRank(t *testing.T) {
	if UsualArithmeticConversion(AkInt, AkUInt) != AkUInt {
		t.Fatal("unsigned int should win over int at the same rank")
	}
}

func TestUsualArithmeticConversionSignedWinsWhenItStrictlyContainsUnsigned(t *testing.T) {
	// long strictly contains the range of unsigned int on a 64-bit target,
	// per spec.md section 4.2's usual-arithmetic-conversion rule.
	if UsualArithmeticConversion(AkLong, AkUInt) != AkLong {
		t.Fatal("long should win over unsigned int since it can represent every unsigned int value")
	}
}
