package coupon

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(i int) *int       { return &i }
func int64p(i int64) *int64 { return &i }

func validCoupon() *Coupon {
	return &Coupon{
		Code:            "TET2026",
		DiscountPercent: intp(20),
		IsActive:        true,
		StartDate:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC),
	}
}

var now = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func TestEvaluatePercentWithCap(t *testing.T) {
	c := validCoupon()
	c.MaxDiscount = int64p(500_000)
	c.MinOrderAmount = int64p(1_000_000)

	out, err := Evaluate(c, 1_200_000, now)
	require.NoError(t, err)
	assert.Equal(t, int64(240_000), out.Discount)
	assert.Equal(t, int64(960_000), out.Total)

	// cap kicks in on a big enough subtotal
	out, err = Evaluate(c, 10_000_000, now)
	require.NoError(t, err)
	assert.Equal(t, int64(500_000), out.Discount)
	assert.Equal(t, int64(9_500_000), out.Total)
}

func TestEvaluateFixedAmount(t *testing.T) {
	c := validCoupon()
	c.DiscountPercent = nil
	c.DiscountAmount = int64p(50_000)

	for _, subtotal := range []int64{50_000, 300_000, 5_000_000} {
		out, err := Evaluate(c, subtotal, now)
		require.NoError(t, err)
		assert.Equal(t, int64(50_000), out.Discount, "fixed amount is never clamped")
	}
}

func TestEvaluateFixedAmountFloorsTotal(t *testing.T) {
	c := validCoupon()
	c.DiscountPercent = nil
	c.DiscountAmount = int64p(100_000)

	out, err := Evaluate(c, 30_000, now)
	require.NoError(t, err)
	assert.Equal(t, int64(100_000), out.Discount)
	assert.Equal(t, int64(0), out.Total)
}

func TestEvaluatePercentWinsOverAmount(t *testing.T) {
	c := validCoupon()
	c.DiscountAmount = int64p(999_999)

	out, err := Evaluate(c, 100_000, now)
	require.NoError(t, err)
	assert.Equal(t, int64(20_000), out.Discount)
}

func TestEvaluateValidationOrder(t *testing.T) {
	// inactive wins even when also expired and exhausted
	c := validCoupon()
	c.IsActive = false
	c.UsageLimit = intp(1)
	c.UsageCount = 5
	_, err := Evaluate(c, 1_000_000, now.AddDate(10, 0, 0))
	assert.ErrorIs(t, err, ErrInactive)

	// expired wins over exhausted
	c = validCoupon()
	c.UsageLimit = intp(1)
	c.UsageCount = 5
	_, err = Evaluate(c, 1_000_000, now.AddDate(10, 0, 0))
	assert.ErrorIs(t, err, ErrExpired)

	// exhausted wins over minimum
	c = validCoupon()
	c.UsageLimit = intp(3)
	c.UsageCount = 3
	c.MinOrderAmount = int64p(2_000_000)
	_, err = Evaluate(c, 1_000, now)
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestEvaluateWindow(t *testing.T) {
	c := validCoupon()

	_, err := Evaluate(c, 1_000_000, c.StartDate.Add(-time.Second))
	assert.ErrorIs(t, err, ErrExpired, "not-yet-started reads as expired")

	_, err = Evaluate(c, 1_000_000, c.EndDate.Add(time.Second))
	assert.ErrorIs(t, err, ErrExpired)

	// boundaries are inclusive
	_, err = Evaluate(c, 1_000_000, c.StartDate)
	assert.NoError(t, err)
	_, err = Evaluate(c, 1_000_000, c.EndDate)
	assert.NoError(t, err)
}

func TestEvaluateMinimumNotMet(t *testing.T) {
	c := validCoupon()
	c.MinOrderAmount = int64p(500_000)

	_, err := Evaluate(c, 400_000, now)
	var minErr MinimumNotMetError
	require.True(t, errors.As(err, &minErr))
	assert.Equal(t, int64(500_000), minErr.Required)
}

func TestEvaluateUsageLimit(t *testing.T) {
	c := validCoupon()
	c.UsageLimit = intp(10)
	c.UsageCount = 9
	_, err := Evaluate(c, 1_000_000, now)
	assert.NoError(t, err)

	c.UsageCount = 10
	_, err = Evaluate(c, 1_000_000, now)
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestValidate(t *testing.T) {
	c := validCoupon()
	c.DiscountPercent = nil
	assert.ErrorIs(t, c.Validate(), ErrNoDiscountValue)

	c = validCoupon()
	c.DiscountPercent = intp(101)
	assert.ErrorIs(t, c.Validate(), ErrBadPercent)

	assert.NoError(t, validCoupon().Validate())
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "TET2026", NormalizeCode("  tet2026 "))
}

func TestCheckClientTotal(t *testing.T) {
	assert.NoError(t, CheckClientTotal(960_000, 960_000))
	assert.NoError(t, CheckClientTotal(960_000, 960_001))
	assert.NoError(t, CheckClientTotal(960_000, 959_999))
	assert.ErrorIs(t, CheckClientTotal(960_000, 960_002), ErrTampered)
	assert.ErrorIs(t, CheckClientTotal(960_000, 0), ErrTampered)
}
