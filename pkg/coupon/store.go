package coupon

import "context"

// Store defines coupon persistence. Coupons are created and administered
// outside this module; the only mutation issued here is persisting a
// decremented redemption counter.
type Store interface {
	// FindByCode retrieves a coupon by its unique code.
	// Returns ErrCouponNotFound if no coupon exists.
	FindByCode(ctx context.Context, code string) (*Coupon, error)

	// Save persists the coupon record.
	Save(ctx context.Context, c *Coupon) error
}
