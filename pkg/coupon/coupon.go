package coupon

import (
	"time"
)

// OneTimeDuration marks a coupon that may be applied to a single payment only.
const OneTimeDuration = 1

// Coupon is a promotional code record. Nil pointer fields express the
// unbounded case: a nil date leaves that side of the validity window open,
// a nil Redemption means unlimited uses, and an empty PlanID means the code
// applies to any plan.
type Coupon struct {
	ID         string
	Code       string
	DateFrom   *time.Time
	DateUntil  *time.Time
	PlanID     string
	Duration   int
	Redemption *int
}

// IsActiveAt reports whether the coupon's validity window contains now.
// With both bounds open the coupon is always active; with one bound open
// only the present bound is compared; with both set, now must fall strictly
// between them.
func (c *Coupon) IsActiveAt(now time.Time) bool {
	if c.DateFrom == nil && c.DateUntil == nil {
		return true
	}
	if c.DateFrom == nil {
		return now.Before(*c.DateUntil)
	}
	if c.DateUntil == nil {
		return now.After(*c.DateFrom)
	}
	return now.After(*c.DateFrom) && now.Before(*c.DateUntil)
}

// IsActive reports whether the coupon's validity window contains the current time.
func (c *Coupon) IsActive() bool {
	return c.IsActiveAt(time.Now())
}

// MatchesPlan reports whether the coupon's plan equals the target plan or
// its equivalent build identifier.
func (c *Coupon) MatchesPlan(planID, buildID string) bool {
	return c.PlanID == planID || c.PlanID == buildID
}

// IsOneTime reports whether the coupon is restricted to a single use.
func (c *Coupon) IsOneTime() bool {
	return c.Duration == OneTimeDuration
}

// HasRemainingRedemptions reports whether the redemption counter is positive.
// A nil counter means unlimited and is NOT covered by this predicate;
// callers must check Redemption for nil before relying on it.
func (c *Coupon) HasRemainingRedemptions() bool {
	return c.Redemption != nil && *c.Redemption > 0
}

// ValidateForSignupAt collects signup validation failures in order of
// relevance: expired window first, then plan mismatch (only when the coupon
// is plan-bound), then exhausted redemptions (only when the counter is
// limited). An empty result means the coupon is applicable. Callers that
// surface a single error to the end user must take the first element.
func (c *Coupon) ValidateForSignupAt(now time.Time, planID, buildID string) []error {
	var errs []error

	if !c.IsActiveAt(now) {
		errs = append(errs, &ValidationError{
			Kind:    ErrCouponExpired,
			Message: "The promo code is already expired",
		})
	}

	if c.PlanID != "" && !c.MatchesPlan(planID, buildID) {
		errs = append(errs, &ValidationError{
			Kind:    ErrCouponPlanMismatch,
			Message: "This promo code can't be applied for this plan",
		})
	}

	if c.Redemption != nil && !c.HasRemainingRedemptions() {
		errs = append(errs, &ValidationError{
			Kind:    ErrCouponExhausted,
			Message: "The promo code is invalid",
		})
	}

	return errs
}

// ValidateForSignup is ValidateForSignupAt evaluated at the current time.
func (c *Coupon) ValidateForSignup(planID, buildID string) []error {
	return c.ValidateForSignupAt(time.Now(), planID, buildID)
}

// ValidateForCharge reports whether the coupon may be applied to a one-off
// charge for the given product. A plan-bound coupon for a different product
// blocks the charge, and so does a one-time coupon even when the plan
// matches. The second clause is deliberate: one-time codes are consumed at
// signup and never discount recurring or ad-hoc charges.
func (c *Coupon) ValidateForCharge(productID string) bool {
	if c.PlanID != "" && !c.MatchesPlan(productID, "") || c.IsOneTime() {
		return false
	}
	return true
}
