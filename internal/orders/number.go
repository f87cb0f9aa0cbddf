package orders

import (
	"crypto/rand"
	"fmt"
	"time"
)

// 0/O and 1/I are excluded so numbers survive being read over the phone.
const numberAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// NewOrderNumber generates a human-readable order number like
// MZ-20250810-7KQ2XF. Uniqueness is enforced by the database; callers retry
// on collision.
func NewOrderNumber(now time.Time) (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate order number: %w", err)
	}
	for i := range buf {
		buf[i] = numberAlphabet[int(buf[i])%len(numberAlphabet)]
	}
	return fmt.Sprintf("MZ-%s-%s", now.UTC().Format("20060102"), string(buf)), nil
}
