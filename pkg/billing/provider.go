package billing

import (
	"context"
	"time"
)

// PaymentProvider defines the payment-provider operations the orchestrator
// sequences. The abstraction keeps the service testable and avoids vendor
// lock-in; the Stripe implementation lives in this package and maps these
// normalized types onto the official SDK.
type PaymentProvider interface {
	// CreateCardToken tokenizes raw card details for customer creation.
	CreateCardToken(ctx context.Context, card Card) (string, error)

	// CreateCustomer creates a remote customer record bound to a card token.
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*Customer, error)

	// GetCustomer retrieves a customer record by provider id.
	GetCustomer(ctx context.Context, id string) (*Customer, error)

	// CreateSubscription creates a recurring subscription.
	CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (*Subscription, error)

	// GetSubscription retrieves a live subscription by provider id.
	GetSubscription(ctx context.Context, id string) (*Subscription, error)

	// CancelSubscription cancels a subscription by provider id.
	CancelSubscription(ctx context.Context, id string) error

	// CreateCharge issues a one-off charge in the provider's minor currency unit.
	CreateCharge(ctx context.Context, req CreateChargeRequest) (*Charge, error)

	// ListCharges returns the customer's most recent charges, newest first,
	// bounded by limit.
	ListCharges(ctx context.Context, customerID string, limit int64) ([]Charge, error)

	// GetInvoice retrieves an invoice by provider id.
	GetInvoice(ctx context.Context, id string) (*Invoice, error)
}

// Card holds tokenization-ready card details with the expiry already split
// into month and year fields.
type Card struct {
	Number   string
	CVC      string
	ExpMonth string
	ExpYear  string
}

// CreateCustomerRequest binds a card token to a new customer record.
// Email and Name are embedded as provider-side metadata for support lookups.
type CreateCustomerRequest struct {
	TokenID string
	Email   string
	Name    string
}

// CreateSubscriptionRequest describes a subscription to create.
// CouponCode is attached only when non-empty.
type CreateSubscriptionRequest struct {
	CustomerID string
	Source     string
	PlanID     string
	CouponCode string
}

// CreateChargeRequest describes a one-off charge. Amount is in the minor
// currency unit.
type CreateChargeRequest struct {
	CustomerID  string
	Source      string
	Amount      int64
	Currency    string
	Description string
}

// Customer is a normalized provider customer record.
type Customer struct {
	ID            string
	Email         string
	DefaultSource string
}

// Handle adapts a live customer record for operations that accept either a
// provider customer or a stored user reference.
func (c *Customer) Handle() CustomerHandle {
	return CustomerHandle{ID: c.ID, DefaultSource: c.DefaultSource}
}

// Subscription is a normalized provider subscription record.
type Subscription struct {
	ID        string
	Status    string
	CreatedAt time.Time
}

// Charge is a normalized provider charge record.
type Charge struct {
	ID          string
	Amount      int64 // minor currency unit
	CreatedAt   time.Time
	Description string
	InvoiceID   string // empty for charges without an invoice
}

// InvoiceLine is a subscription line on an invoice.
type InvoiceLine struct {
	Amount     int64 // pre-discount line amount, minor unit
	PlanName   string
	PlanAmount int64 // undiscounted plan price, minor unit
}

// Invoice is a normalized provider invoice, reduced to the fields payment
// history enrichment needs.
type Invoice struct {
	ID                string
	AmountDue         int64 // minor unit, after discounts
	HasDiscount       bool
	SubscriptionLines []InvoiceLine
}
