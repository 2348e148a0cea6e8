package coupon_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/billingkit/pkg/coupon"
)

func timePtr(t time.Time) *time.Time { return &t }
func intPtr(v int) *int              { return &v }

var now = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

func TestIsActiveAt(t *testing.T) {
	t.Run("both bounds open", func(t *testing.T) {
		c := &coupon.Coupon{}
		assert.True(t, c.IsActiveAt(now))
		assert.True(t, c.IsActiveAt(now.AddDate(-50, 0, 0)))
		assert.True(t, c.IsActiveAt(now.AddDate(50, 0, 0)))
	})

	t.Run("only until set", func(t *testing.T) {
		c := &coupon.Coupon{DateUntil: timePtr(now.Add(time.Hour))}
		assert.True(t, c.IsActiveAt(now))
		assert.False(t, c.IsActiveAt(now.Add(2*time.Hour)))
		assert.False(t, c.IsActiveAt(now.Add(time.Hour)), "boundary itself is not before until")
	})

	t.Run("only from set", func(t *testing.T) {
		c := &coupon.Coupon{DateFrom: timePtr(now.Add(-time.Hour))}
		assert.True(t, c.IsActiveAt(now))
		assert.False(t, c.IsActiveAt(now.Add(-2*time.Hour)))
		assert.False(t, c.IsActiveAt(now.Add(-time.Hour)), "boundary itself is not after from")
	})

	t.Run("both bounds set", func(t *testing.T) {
		c := &coupon.Coupon{
			DateFrom:  timePtr(now.Add(-time.Hour)),
			DateUntil: timePtr(now.Add(time.Hour)),
		}
		assert.True(t, c.IsActiveAt(now))
		assert.False(t, c.IsActiveAt(now.Add(-2*time.Hour)))
		assert.False(t, c.IsActiveAt(now.Add(2*time.Hour)))
	})
}

func TestMatchesPlan(t *testing.T) {
	c := &coupon.Coupon{PlanID: "plan_p"}

	assert.True(t, c.MatchesPlan("plan_p", "plan_x"))
	assert.True(t, c.MatchesPlan("plan_x", "plan_p"))
	assert.False(t, c.MatchesPlan("plan_q", "plan_r"))
}

func TestIsOneTime(t *testing.T) {
	assert.True(t, (&coupon.Coupon{Duration: 1}).IsOneTime())
	assert.False(t, (&coupon.Coupon{Duration: 3}).IsOneTime())
	assert.False(t, (&coupon.Coupon{Duration: 0}).IsOneTime())
}

func TestHasRemainingRedemptions(t *testing.T) {
	assert.True(t, (&coupon.Coupon{Redemption: intPtr(2)}).HasRemainingRedemptions())
	assert.False(t, (&coupon.Coupon{Redemption: intPtr(0)}).HasRemainingRedemptions())
	assert.False(t, (&coupon.Coupon{Redemption: intPtr(-1)}).HasRemainingRedemptions())
	assert.False(t, (&coupon.Coupon{}).HasRemainingRedemptions(),
		"nil counter means unlimited and is not covered by this predicate")
}

func TestValidateForSignupAt(t *testing.T) {
	t.Run("fully applicable coupon passes", func(t *testing.T) {
		c := &coupon.Coupon{
			DateFrom:   timePtr(now.Add(-time.Hour)),
			DateUntil:  timePtr(now.Add(time.Hour)),
			PlanID:     "plan_p",
			Redemption: intPtr(3),
		}
		assert.Empty(t, c.ValidateForSignupAt(now, "plan_p", ""))
	})

	t.Run("expired failure always first", func(t *testing.T) {
		c := &coupon.Coupon{
			DateUntil:  timePtr(now.Add(-time.Hour)),
			PlanID:     "plan_p",
			Redemption: intPtr(0),
		}

		errs := c.ValidateForSignupAt(now, "plan_q", "")
		require.Len(t, errs, 3)
		assert.ErrorIs(t, errs[0], coupon.ErrCouponExpired)
		assert.ErrorIs(t, errs[1], coupon.ErrCouponPlanMismatch)
		assert.ErrorIs(t, errs[2], coupon.ErrCouponExhausted)
	})

	t.Run("plan check skipped for unbound coupons", func(t *testing.T) {
		c := &coupon.Coupon{Redemption: intPtr(1)}
		assert.Empty(t, c.ValidateForSignupAt(now, "any-plan", ""))
	})

	t.Run("redemption check skipped for unlimited coupons", func(t *testing.T) {
		c := &coupon.Coupon{PlanID: "plan_p"}
		assert.Empty(t, c.ValidateForSignupAt(now, "plan_p", ""))
	})

	t.Run("messages are user facing", func(t *testing.T) {
		c := &coupon.Coupon{DateUntil: timePtr(now.Add(-time.Hour))}
		errs := c.ValidateForSignupAt(now, "", "")
		require.Len(t, errs, 1)
		assert.Equal(t, "The promo code is already expired", errs[0].Error())
	})
}

func TestValidateForCharge(t *testing.T) {
	t.Run("plan mismatch blocks", func(t *testing.T) {
		c := &coupon.Coupon{PlanID: "plan_p", Duration: 12}
		assert.False(t, c.ValidateForCharge("plan_q"))
	})

	t.Run("matching plan with multi-cycle duration passes", func(t *testing.T) {
		c := &coupon.Coupon{PlanID: "plan_p", Duration: 12}
		assert.True(t, c.ValidateForCharge("plan_p"))
	})

	t.Run("one-time coupon blocks even on matching plan", func(t *testing.T) {
		c := &coupon.Coupon{PlanID: "plan_p", Duration: 1}
		assert.False(t, c.ValidateForCharge("plan_p"))
	})

	t.Run("unbound multi-cycle coupon passes", func(t *testing.T) {
		c := &coupon.Coupon{Duration: 6}
		assert.True(t, c.ValidateForCharge("anything"))
	})
}
