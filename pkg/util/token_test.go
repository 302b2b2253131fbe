package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderNumber_Format(t *testing.T) {
	number := GenerateOrderNumber()

	assert.True(t, strings.HasPrefix(number, "ORD-"))
	assert.Len(t, number, 14)

	for _, r := range strings.TrimPrefix(number, "ORD-") {
		assert.Contains(t, orderNumberAlphabet, string(r))
	}
}

func TestGenerateOrderNumber_NoObviousCollisions(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		number := GenerateOrderNumber()
		assert.False(t, seen[number], "generated a duplicate order number: %s", number)
		seen[number] = true
	}
}

func TestNewIdempotencyToken(t *testing.T) {
	a := NewIdempotencyToken()
	b := NewIdempotencyToken()

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
