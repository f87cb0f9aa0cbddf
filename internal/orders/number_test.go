package orders

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestNewOrderNumberFormat(t *testing.T) {
	now := time.Date(2025, time.August, 10, 15, 4, 5, 0, time.UTC)
	pattern := regexp.MustCompile(`^MZ-20250810-[23456789ABCDEFGHJKLMNPQRSTUVWXYZ]{6}$`)

	for i := 0; i < 50; i++ {
		number, err := NewOrderNumber(now)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if !pattern.MatchString(number) {
			t.Fatalf("unexpected order number %q", number)
		}
	}
}

func TestNewOrderNumberExcludesAmbiguousCharacters(t *testing.T) {
	for _, c := range "0O1I" {
		if strings.ContainsRune(numberAlphabet, c) {
			t.Fatalf("alphabet must not contain %q", c)
		}
	}
}

func TestNewOrderNumberUsesUTCDate(t *testing.T) {
	loc := time.FixedZone("GST", 4*60*60)
	now := time.Date(2025, time.August, 11, 1, 0, 0, 0, loc)

	number, err := NewOrderNumber(now)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(number, "MZ-20250810-") {
		t.Fatalf("expected UTC date in %q", number)
	}
}
