package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role classifies user accounts. The renewal sweep only inspects accounts of
// the configured role.
type Role string

// RoleMember is the default role subject to renewal sweeps.
const RoleMember Role = "member"

// User is the local account record carrying its payment-provider bindings.
// SubscriptionID is empty when the user has no active subscription; at most
// one subscription exists per user.
type User struct {
	ID             uuid.UUID
	Email          string
	Name           string
	LastName       string
	Role           Role
	PlanID         string // configured product for subscription enablement
	CouponCode     string // optional promo code applied at subscription time
	StripeID       string // provider customer id
	StripeSource   string // stored default payment source
	SubscriptionID string // provider subscription id, empty = none
}

// Handle adapts the stored user record for operations that accept either a
// provider customer or a user reference.
func (u *User) Handle() CustomerHandle {
	return CustomerHandle{StripeID: u.StripeID, StripeSource: u.StripeSource}
}

// CustomerHandle identifies the provider customer and payment source to
// charge. Customer references arrive in two shapes - a live provider
// customer record (ID, DefaultSource) or a stored user record (StripeID,
// StripeSource) - and the resolution order prefers the stored id and the
// live source, matching how upstream callers populate them.
type CustomerHandle struct {
	ID            string
	StripeID      string
	DefaultSource string
	StripeSource  string
}

// CustomerID resolves the provider customer identifier.
func (h CustomerHandle) CustomerID() string {
	if h.StripeID != "" {
		return h.StripeID
	}
	return h.ID
}

// Source resolves the payment source identifier.
func (h CustomerHandle) Source() string {
	if h.DefaultSource != "" {
		return h.DefaultSource
	}
	return h.StripeSource
}

// Product is a purchasable plan. ProviderPlanID is the provider-side plan
// identifier referenced when creating subscriptions.
type Product struct {
	ID             string
	Name           string
	ProviderPlanID string
}

// Enrollment records a user's program cycle start. The renewal sweep derives
// the cycle end from it: end year is the start year plus one, end month the
// start month minus one.
type Enrollment struct {
	UserID     uuid.UUID
	StartYear  int
	StartMonth int // 1-12
}

// CardDetails is raw card input as collected from the user, with the expiry
// as a combined "MMYYYY" string. It is parsed and never sent to the provider
// in this form.
type CardDetails struct {
	Number string
	CVC    string
	Expiry string
}

// toCard splits the combined expiry into the month/year fields tokenization
// expects, dropping the raw expiry string.
func (c CardDetails) toCard() (Card, error) {
	expiry := strings.TrimSpace(c.Expiry)
	if len(expiry) != 6 {
		return Card{}, fmt.Errorf("card expiry must be MMYYYY, got %d characters", len(expiry))
	}
	return Card{
		Number:   c.Number,
		CVC:      c.CVC,
		ExpMonth: expiry[0:2],
		ExpYear:  expiry[2:6],
	}, nil
}

// Registration carries the data needed to create a provider customer for a
// new user.
type Registration struct {
	Email string
	Name  string
	Card  CardDetails
}

// Payment is a read-only payment history entry derived from provider
// charges and invoices. Monetary fields are in the major currency unit.
type Payment struct {
	Date        time.Time
	Amount      float64 // amount actually charged
	ProgramName string
	ProductCost float64 // undiscounted product cost
	Discount    float64 // discount applied, 0 when none
}
