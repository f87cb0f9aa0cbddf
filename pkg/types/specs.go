package types

// SpecEntry is one labelled product attribute ("Capacity" -> "5000 birds").
// Keys and values are localized so the storefront can render either language.
type SpecEntry struct {
	Key   LocalizedText `json:"key"`
	Value LocalizedText `json:"value"`
}

// SpecList is the ordered set of product attributes, persisted as jsonb.
type SpecList []SpecEntry

// Sanitized drops entries whose key carries no text in either language.
func (s SpecList) Sanitized() SpecList {
	if len(s) == 0 {
		return nil
	}
	out := make(SpecList, 0, len(s))
	for _, entry := range s {
		if entry.Key.IsEmpty() {
			continue
		}
		out = append(out, SpecEntry{
			Key:   entry.Key.Trimmed(),
			Value: entry.Value.Trimmed(),
		})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// FeatureList is the localized bullet list shown on product pages.
type FeatureList []LocalizedText

// Sanitized drops blank features and trims the rest.
func (f FeatureList) Sanitized() FeatureList {
	if len(f) == 0 {
		return nil
	}
	out := make(FeatureList, 0, len(f))
	for _, feature := range f {
		if feature.IsEmpty() {
			continue
		}
		out = append(out, feature.Trimmed())
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
