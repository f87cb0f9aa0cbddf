package types

import "strings"

// LocalizedText carries the English/Arabic pair stored for customer-facing copy.
// Persisted as jsonb via GORM's json serializer.
type LocalizedText struct {
	EN string `json:"en"`
	AR string `json:"ar"`
}

// IsEmpty reports whether both translations are blank.
func (t LocalizedText) IsEmpty() bool {
	return strings.TrimSpace(t.EN) == "" && strings.TrimSpace(t.AR) == ""
}

// Resolve returns the translation for the requested locale, falling back to the
// other language when the requested one is blank.
func (t LocalizedText) Resolve(locale string) string {
	if strings.EqualFold(locale, "ar") {
		if strings.TrimSpace(t.AR) != "" {
			return t.AR
		}
		return t.EN
	}
	if strings.TrimSpace(t.EN) != "" {
		return t.EN
	}
	return t.AR
}

// Trimmed returns a copy with surrounding whitespace removed from both languages.
func (t LocalizedText) Trimmed() LocalizedText {
	return LocalizedText{
		EN: strings.TrimSpace(t.EN),
		AR: strings.TrimSpace(t.AR),
	}
}
