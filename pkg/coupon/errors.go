package coupon

import "errors"

var (
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrCouponExpired      = errors.New("coupon expired")
	ErrCouponPlanMismatch = errors.New("coupon not applicable to plan")
	ErrCouponExhausted    = errors.New("coupon redemptions exhausted")
)

// ValidationError carries a stable error kind for machine handling alongside
// the message shown to the end user. errors.Is against the package sentinels
// matches through Unwrap.
type ValidationError struct {
	Kind    error
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}
