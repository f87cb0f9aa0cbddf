package addresses

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/mazraaty/backend/pkg/db/models"
	pkgerrors "github.com/mazraaty/backend/pkg/errors"
	"github.com/mazraaty/backend/pkg/types"
)

func validTestInput() Input {
	return Input{
		Name:    "Said Al Busaidi",
		Line1:   "Way 3012, Al Khoud",
		City:    "Muscat",
		Country: "om",
		Phone:   "+968 9123 4567",
	}
}

func TestValidateInputReportsMissingFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Input)
	}{
		{"name", func(in *Input) { in.Name = "  " }},
		{"line1", func(in *Input) { in.Line1 = "" }},
		{"city", func(in *Input) { in.City = "" }},
		{"phone", func(in *Input) { in.Phone = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validTestInput()
			tc.mutate(&input)
			err := validateInput(input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			var typed *pkgerrors.Error
			if !errors.As(err, &typed) || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation code, got %v", err)
			}
		})
	}
	if err := validateInput(validTestInput()); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
}

func TestApplyInputNormalizesCountry(t *testing.T) {
	addr := fromInput(uuid.New(), validTestInput())
	if addr.Country != "OM" {
		t.Fatalf("expected country uppercased to OM, got %q", addr.Country)
	}

	input := validTestInput()
	input.Country = "  "
	addr = fromInput(uuid.New(), input)
	if addr.Country != "OM" {
		t.Fatalf("expected country to default to OM, got %q", addr.Country)
	}
}

func TestMatchesSnapshotIgnoresCase(t *testing.T) {
	addr := &models.Address{
		Name:  "Said Al Busaidi",
		Line1: "Way 3012, Al Khoud",
		City:  "Muscat",
		Phone: "+968 9123 4567",
	}
	snapshot := types.AddressSnapshot{
		Name:  "said al busaidi",
		Line1: "WAY 3012, AL KHOUD",
		City:  "muscat",
		Phone: "+968 9123 4567",
	}
	if !matchesSnapshot(addr, snapshot) {
		t.Fatal("expected case-insensitive match")
	}

	snapshot.Line1 = "Way 9999, Al Hail"
	if matchesSnapshot(addr, snapshot) {
		t.Fatal("different line1 should not match")
	}
}
