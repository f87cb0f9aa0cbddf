package types

import "strings"

// AddressSnapshot is the denormalized copy of a shipping/billing address frozen
// onto an order at checkout. Stored as jsonb; later edits to the customer's
// saved addresses never rewrite history.
type AddressSnapshot struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// Validate reports the first missing required field, or "".
func (a AddressSnapshot) Validate() string {
	switch {
	case strings.TrimSpace(a.Name) == "":
		return "name"
	case strings.TrimSpace(a.Line1) == "":
		return "line1"
	case strings.TrimSpace(a.City) == "":
		return "city"
	case strings.TrimSpace(a.Country) == "":
		return "country"
	}
	return ""
}
