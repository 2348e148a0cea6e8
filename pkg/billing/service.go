package billing

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/billingkit/pkg/async"
	"github.com/dmitrymomot/billingkit/pkg/coupon"
	"github.com/dmitrymomot/billingkit/pkg/email"
)

// chargeCurrency is the fixed settlement currency for one-off charges.
const chargeCurrency = "usd"

// Service orchestrates payment-provider operations for subscriptions,
// charges and payment history. All operations are request-scoped and
// sequential except where documented; the service holds no mutable state.
type Service interface {
	// CreateCustomer tokenizes the registration card and creates a provider
	// customer bound to the token. Card tokenization and customer creation
	// are distinct failure domains (ErrCardProcessingFailed vs
	// ErrCustomerCreationFailed).
	CreateCustomer(ctx context.Context, reg Registration) (*Customer, error)

	// CreateSubscription subscribes the referenced customer to the provider
	// plan, attaching the coupon code when a coupon is supplied.
	CreateSubscription(ctx context.Context, h CustomerHandle, planID string, cpn *coupon.Coupon) (*Subscription, error)

	// DeleteSubscription cancels a provider subscription by id.
	DeleteSubscription(ctx context.Context, subscriptionID string) error

	// ToggleSubscription synchronizes the user's subscription state with the
	// desired flag. Idempotent: repeated calls with the same flag neither
	// create duplicate subscriptions nor fail on redundant cancellation.
	// Returns the (possibly updated) user.
	ToggleSubscription(ctx context.Context, userID uuid.UUID, enable bool) (*User, error)

	// CreateCharge issues a one-off charge. Amount is in the major currency
	// unit and converted to the provider's minor-unit representation.
	CreateCharge(ctx context.Context, h CustomerHandle, amount float64, description string) (*Charge, error)

	// GetCustomer retrieves the provider customer record.
	GetCustomer(ctx context.Context, id string) (*Customer, error)

	// ListPayments returns the user's recent payment history enriched with
	// invoice data. Per-charge invoice lookups run concurrently; the result
	// preserves charge order.
	ListPayments(ctx context.Context, userID uuid.UUID) ([]Payment, error)

	// RenewalSweep makes one best-effort pass over subscribed users of the
	// configured role, cancelling subscriptions whose program year has
	// ended. Per-user failures are logged and skipped, never aborting the
	// pass. Driven by an external scheduler.
	RenewalSweep(ctx context.Context) error
}

type service struct {
	provider    PaymentProvider
	users       UserStore
	products    ProductStore
	enrollments EnrollmentStore
	coupons     coupon.Store
	notifier    *email.Notifier
	log         *slog.Logger
	now         func() time.Time
	chargeLimit int64
	sweepRole   Role
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

// WithNotifier enables fire-and-forget email notifications, currently the
// renewal report sent when the sweep cancels a subscription.
func WithNotifier(n *email.Notifier) ServiceOption {
	return func(s *service) {
		s.notifier = n
	}
}

// WithSweepRole overrides the role the renewal sweep inspects.
func WithSweepRole(role Role) ServiceOption {
	return func(s *service) {
		if role != "" {
			s.sweepRole = role
		}
	}
}

// WithChargePageSize overrides how many recent charges ListPayments fetches.
func WithChargePageSize(limit int64) ServiceOption {
	return func(s *service) {
		if limit > 0 {
			s.chargeLimit = limit
		}
	}
}

// WithClock overrides the time source used by date-sensitive operations.
// Intended for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates the billing orchestrator.
// Panics if any required collaborator is nil to fail fast during
// initialization rather than at first use.
func NewService(
	provider PaymentProvider,
	users UserStore,
	products ProductStore,
	enrollments EnrollmentStore,
	coupons coupon.Store,
	opts ...ServiceOption,
) Service {
	if provider == nil {
		panic("billing: PaymentProvider is required")
	}
	if users == nil {
		panic("billing: UserStore is required")
	}
	if products == nil {
		panic("billing: ProductStore is required")
	}
	if enrollments == nil {
		panic("billing: EnrollmentStore is required")
	}
	if coupons == nil {
		panic("billing: coupon.Store is required")
	}

	s := &service{
		provider:    provider,
		users:       users,
		products:    products,
		enrollments: enrollments,
		coupons:     coupons,
		log:         slog.Default(),
		now:         time.Now,
		chargeLimit: 20,
		sweepRole:   RoleMember,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) CreateCustomer(ctx context.Context, reg Registration) (*Customer, error) {
	card, err := reg.Card.toCard()
	if err != nil {
		return nil, errors.Join(ErrCardProcessingFailed, err)
	}

	tokenID, err := s.provider.CreateCardToken(ctx, card)
	if err != nil {
		return nil, errors.Join(ErrCardProcessingFailed, err)
	}

	cust, err := s.provider.CreateCustomer(ctx, CreateCustomerRequest{
		TokenID: tokenID,
		Email:   reg.Email,
		Name:    reg.Name,
	})
	if err != nil {
		return nil, errors.Join(ErrCustomerCreationFailed, err)
	}

	return cust, nil
}

func (s *service) CreateSubscription(ctx context.Context, h CustomerHandle, planID string, cpn *coupon.Coupon) (*Subscription, error) {
	req := CreateSubscriptionRequest{
		CustomerID: h.CustomerID(),
		Source:     h.Source(),
		PlanID:     planID,
	}
	if cpn != nil {
		req.CouponCode = cpn.Code
	}

	sub, err := s.provider.CreateSubscription(ctx, req)
	if err != nil {
		return nil, errors.Join(ErrSubscriptionCreationFailed, err)
	}
	return sub, nil
}

func (s *service) DeleteSubscription(ctx context.Context, subscriptionID string) error {
	if err := s.provider.CancelSubscription(ctx, subscriptionID); err != nil {
		return errors.Join(ErrSubscriptionCancellationFailed, err)
	}
	return nil
}

func (s *service) ToggleSubscription(ctx context.Context, userID uuid.UUID, enable bool) (*User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !enable {
		if user.SubscriptionID == "" {
			return user, nil
		}

		if err := s.DeleteSubscription(ctx, user.SubscriptionID); err != nil {
			return nil, err
		}

		user.SubscriptionID = ""
		if err := s.users.Save(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	if user.SubscriptionID != "" {
		return user, nil
	}

	product, err := s.products.Get(ctx, user.PlanID)
	if err != nil {
		return nil, err
	}

	// A configured coupon may no longer exist; subscribe without a discount
	// rather than failing enablement.
	var cpn *coupon.Coupon
	if user.CouponCode != "" {
		cpn, err = s.coupons.FindByCode(ctx, user.CouponCode)
		if err != nil {
			if !errors.Is(err, coupon.ErrCouponNotFound) {
				return nil, err
			}
			cpn = nil
		}
	}

	sub, err := s.CreateSubscription(ctx, user.Handle(), product.ProviderPlanID, cpn)
	if err != nil {
		return nil, err
	}

	user.SubscriptionID = sub.ID
	if err := s.users.Save(ctx, user); err != nil {
		// The provider-side subscription now exists without a local record.
		// No compensating cancellation is attempted; the error carries the
		// subscription id for reconciliation.
		return nil, errors.Join(err, errors.New("provider subscription "+sub.ID+" not recorded locally"))
	}

	return user, nil
}

func (s *service) CreateCharge(ctx context.Context, h CustomerHandle, amount float64, description string) (*Charge, error) {
	ch, err := s.provider.CreateCharge(ctx, CreateChargeRequest{
		CustomerID:  h.CustomerID(),
		Source:      h.Source(),
		Amount:      int64(math.Round(amount * 100)),
		Currency:    chargeCurrency,
		Description: description,
	})
	if err != nil {
		return nil, errors.Join(ErrChargeFailed, err)
	}
	return ch, nil
}

func (s *service) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	cust, err := s.provider.GetCustomer(ctx, id)
	if err != nil {
		return nil, errors.Join(ErrLookupFailed, err)
	}
	return cust, nil
}

func (s *service) ListPayments(ctx context.Context, userID uuid.UUID) ([]Payment, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	charges, err := s.provider.ListCharges(ctx, user.StripeID, s.chargeLimit)
	if err != nil {
		return nil, errors.Join(ErrLookupFailed, err)
	}
	if len(charges) == 0 {
		return []Payment{}, nil
	}

	// Invoice lookups fan out concurrently; WaitAll returns results in
	// charge order regardless of completion order.
	futures := make([]*async.Future[Payment], len(charges))
	for i, ch := range charges {
		futures[i] = async.Async(ctx, ch, s.enrichPayment)
	}

	return async.WaitAll(futures...)
}

// enrichPayment resolves a charge's invoice to fill in the program name,
// undiscounted cost and discount amount. Charges without a usable
// subscription invoice fall back to the charge's own description and amount.
// It never fails: enrichment problems degrade to the fallback.
func (s *service) enrichPayment(ctx context.Context, ch Charge) (Payment, error) {
	p := Payment{
		Date:   ch.CreatedAt,
		Amount: float64(ch.Amount) / 100,
	}

	if ch.InvoiceID != "" {
		inv, err := s.provider.GetInvoice(ctx, ch.InvoiceID)
		if err == nil && len(inv.SubscriptionLines) > 0 {
			line := inv.SubscriptionLines[0]
			p.ProgramName = line.PlanName
			p.ProductCost = float64(line.PlanAmount) / 100
			if inv.HasDiscount {
				p.Discount = float64(line.Amount-inv.AmountDue) / 100
			}
			return p, nil
		}
		if err != nil {
			s.log.DebugContext(ctx, "invoice lookup failed, using charge data",
				slog.String("charge_id", ch.ID),
				slog.String("invoice_id", ch.InvoiceID),
				slog.String("error", err.Error()),
			)
		}
	}

	p.ProgramName = ch.Description
	p.ProductCost = p.Amount
	return p, nil
}
