package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDiscount_IsUsable(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	base := Discount{Code: "WELCOME", Type: DiscountFlat, Value: 100, Active: true}

	t.Run("active with no window", func(t *testing.T) {
		d := base
		assert.True(t, d.IsUsable(now, 500))
	})

	t.Run("inactive", func(t *testing.T) {
		d := base
		d.Active = false
		assert.False(t, d.IsUsable(now, 500))
	})

	t.Run("not started yet", func(t *testing.T) {
		d := base
		d.StartsAt = &future
		assert.False(t, d.IsUsable(now, 500))
	})

	t.Run("expired", func(t *testing.T) {
		d := base
		d.EndsAt = &past
		assert.False(t, d.IsUsable(now, 500))
	})

	t.Run("below minimum order amount", func(t *testing.T) {
		d := base
		d.MinOrderAmount = 1000
		assert.False(t, d.IsUsable(now, 999))
		assert.True(t, d.IsUsable(now, 1000))
	})

	t.Run("usage limit reached", func(t *testing.T) {
		d := base
		d.UsageLimit = 5
		d.UsedCount = 5
		assert.False(t, d.IsUsable(now, 500))

		d.UsedCount = 4
		assert.True(t, d.IsUsable(now, 500))
	})
}

func TestDiscount_Amount(t *testing.T) {
	t.Run("percent", func(t *testing.T) {
		d := Discount{Type: DiscountPercent, Value: 10}
		assert.InDelta(t, 150, d.Amount(1500), 0.001)
	})

	t.Run("percent capped by max discount", func(t *testing.T) {
		d := Discount{Type: DiscountPercent, Value: 10, MaxDiscount: 100}
		assert.InDelta(t, 100, d.Amount(1500), 0.001)
	})

	t.Run("flat", func(t *testing.T) {
		d := Discount{Type: DiscountFlat, Value: 250}
		assert.InDelta(t, 250, d.Amount(1500), 0.001)
	})

	t.Run("flat never exceeds subtotal", func(t *testing.T) {
		d := Discount{Type: DiscountFlat, Value: 2000}
		assert.InDelta(t, 1500, d.Amount(1500), 0.001)
	})
}
