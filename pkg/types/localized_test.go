package types

import "testing"

func TestLocalizedTextResolve(t *testing.T) {
	text := LocalizedText{EN: "Feeder", AR: "معلفة"}

	if got := text.Resolve("en"); got != "Feeder" {
		t.Fatalf("expected english, got %q", got)
	}
	if got := text.Resolve("ar"); got != "معلفة" {
		t.Fatalf("expected arabic, got %q", got)
	}
}

func TestLocalizedTextResolveFallsBack(t *testing.T) {
	onlyEN := LocalizedText{EN: "Drinker"}
	if got := onlyEN.Resolve("ar"); got != "Drinker" {
		t.Fatalf("expected fallback to english, got %q", got)
	}

	onlyAR := LocalizedText{AR: "سقاية"}
	if got := onlyAR.Resolve("en"); got != "سقاية" {
		t.Fatalf("expected fallback to arabic, got %q", got)
	}
}

func TestSpecListSanitized(t *testing.T) {
	specs := SpecList{
		{Key: LocalizedText{EN: " Capacity "}, Value: LocalizedText{EN: " 5000 birds "}},
		{Key: LocalizedText{}, Value: LocalizedText{EN: "orphan value"}},
	}

	clean := specs.Sanitized()
	if len(clean) != 1 {
		t.Fatalf("expected 1 surviving entry, got %d", len(clean))
	}
	if clean[0].Key.EN != "Capacity" || clean[0].Value.EN != "5000 birds" {
		t.Fatalf("expected trimmed entry, got %+v", clean[0])
	}
}

func TestFeatureListSanitizedDropsBlank(t *testing.T) {
	features := FeatureList{
		{EN: "Automatic refill"},
		{},
	}
	clean := features.Sanitized()
	if len(clean) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(clean))
	}
}

func TestAddressSnapshotValidate(t *testing.T) {
	addr := AddressSnapshot{Name: "Salim", Line1: "Way 3012", City: "Muscat", Country: "OM"}
	if missing := addr.Validate(); missing != "" {
		t.Fatalf("expected valid address, missing %q", missing)
	}

	addr.City = " "
	if missing := addr.Validate(); missing != "city" {
		t.Fatalf("expected city reported missing, got %q", missing)
	}
}
