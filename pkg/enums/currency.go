package enums

import "fmt"

// Currency is an ISO 4217 code. OMR is the store's pricing currency; USD
// prices are carried alongside for display.
type Currency string

const (
	CurrencyOMR Currency = "OMR"
	CurrencyUSD Currency = "USD"
)

var validCurrencies = []Currency{CurrencyOMR, CurrencyUSD}

func (c Currency) String() string {
	return string(c)
}

// IsValid reports whether the currency is one the store supports.
func (c Currency) IsValid() bool {
	for _, candidate := range validCurrencies {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCurrency converts a raw string into a Currency.
func ParseCurrency(value string) (Currency, error) {
	for _, candidate := range validCurrencies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid currency %q", value)
}
