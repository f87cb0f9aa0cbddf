package catalog

import "testing"

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Automatic Chicken Feeder 5kg": "automatic-chicken-feeder-5kg",
		"  Egg Incubator -- 96 eggs ":  "egg-incubator-96-eggs",
		"معلف دجاج":                    "",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUniqueSlug(t *testing.T) {
	existing := map[string]bool{"feeder": true, "feeder-2": true}
	got := UniqueSlug("feeder", func(s string) bool { return existing[s] })
	if got != "feeder-3" {
		t.Fatalf("UniqueSlug = %q, want feeder-3", got)
	}

	if got := UniqueSlug("", func(string) bool { return false }); got != "item" {
		t.Fatalf("empty base should fall back to item, got %q", got)
	}
}
