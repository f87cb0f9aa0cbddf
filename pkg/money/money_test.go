package money

import "testing"

func TestParseRejectsNegative(t *testing.T) {
	if _, err := Parse("-1.000"); err == nil {
		t.Fatal("expected error for negative amount")
	}
}

func TestArithmetic(t *testing.T) {
	unit := MustParse("12.500")
	total := unit.MulInt(3).Add(MustParse("5.000"))
	if got := total.StringFixed(3); got != "42.500" {
		t.Fatalf("total = %s, want 42.500", got)
	}
	if total.Sub(total).IsNegative() {
		t.Fatal("zero must not be negative")
	}
}

func TestConverterFromUSD(t *testing.T) {
	conv, err := NewConverter("0.385", 3)
	if err != nil {
		t.Fatalf("NewConverter: %v", err)
	}
	// 100 USD at 0.385 -> 38.500 OMR
	got := conv.FromUSD(MustParse("100"))
	if got.StringFixed(3) != "38.500" {
		t.Fatalf("FromUSD = %s, want 38.500", got.StringFixed(3))
	}
}

func TestConverterRejectsBadRate(t *testing.T) {
	if _, err := NewConverter("0", 3); err == nil {
		t.Fatal("expected error for zero rate")
	}
	if _, err := NewConverter("abc", 3); err == nil {
		t.Fatal("expected error for junk rate")
	}
}
