package util

import (
	"crypto/rand"
	"strings"

	"github.com/google/uuid"
)

// Crockford-style alphabet without ambiguous characters (0/O, 1/I/L).
const orderNumberAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// GenerateOrderNumber returns a human-facing order number such as
// ORD-7KQ2MT9XWF. The suffix is drawn from crypto/rand so concurrent
// checkouts never contend on a counter; at 10 characters over a 31-symbol
// alphabet collisions are not a practical concern.
func GenerateOrderNumber() string {
	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is effectively fatal elsewhere; fall back to
		// a UUID-derived suffix rather than blocking checkout.
		raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
		return "ORD-" + raw[:10]
	}
	for i, b := range buf {
		buf[i] = orderNumberAlphabet[int(b)%len(orderNumberAlphabet)]
	}
	return "ORD-" + string(buf)
}

// NewIdempotencyToken returns a client-style idempotency token. Used by the
// seeder and tests; real clients generate their own.
func NewIdempotencyToken() string {
	return uuid.NewString()
}
