package coupon

import (
	"context"
	"errors"
	"log/slog"
)

// Service is the entry point for coupon checks issued by signup and billing
// flows.
type Service interface {
	// LookupValid loads a coupon by code and validates it for signup against
	// the target plan. Returns the coupon when applicable; otherwise the
	// primary validation failure, or a not-found ValidationError when the
	// code doesn't exist.
	LookupValid(ctx context.Context, code, planID, buildID string) (*Coupon, error)

	// ConsumeRedemption records one use of the coupon. Unlimited coupons
	// (nil Redemption) are left untouched and not persisted. Call at most
	// once per successful charge.
	ConsumeRedemption(ctx context.Context, c *Coupon) error
}

type service struct {
	store Store
	log   *slog.Logger
}

// ServiceOption configures a Service instance.
type ServiceOption func(*service)

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService creates a coupon Service over the given store.
// Panics on a nil store to fail fast during initialization.
func NewService(store Store, opts ...ServiceOption) Service {
	if store == nil {
		panic("coupon: Store is required")
	}
	s := &service{
		store: store,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) LookupValid(ctx context.Context, code, planID, buildID string) (*Coupon, error) {
	c, err := s.store.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrCouponNotFound) {
			return nil, &ValidationError{
				Kind:    ErrCouponNotFound,
				Message: "The promo code is invalid",
			}
		}
		return nil, err
	}

	if errs := c.ValidateForSignup(planID, buildID); len(errs) > 0 {
		return nil, errs[0]
	}

	return c, nil
}

func (s *service) ConsumeRedemption(ctx context.Context, c *Coupon) error {
	if c.Redemption == nil {
		return nil
	}

	remaining := *c.Redemption - 1
	c.Redemption = &remaining

	if err := s.store.Save(ctx, c); err != nil {
		return err
	}

	s.log.DebugContext(ctx, "coupon redemption consumed",
		slog.String("code", c.Code),
		slog.Int("remaining", remaining),
	)
	return nil
}
