package billing

import (
	"context"
	"time"

	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

// StripeConfig holds configuration for the Stripe payment provider.
type StripeConfig struct {
	APIKey string `env:"STRIPE_API_KEY,required"`
}

// StripeProvider implements PaymentProvider over the official Stripe SDK.
type StripeProvider struct {
	api *client.API
}

// NewStripeProvider creates a Stripe-backed payment provider.
func NewStripeProvider(cfg StripeConfig) (*StripeProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	api := &client.API{}
	api.Init(cfg.APIKey, nil)

	return &StripeProvider{api: api}, nil
}

func (p *StripeProvider) CreateCardToken(ctx context.Context, card Card) (string, error) {
	params := &stripe.TokenParams{
		Card: &stripe.CardParams{
			Number:   stripe.String(card.Number),
			ExpMonth: stripe.String(card.ExpMonth),
			ExpYear:  stripe.String(card.ExpYear),
			CVC:      stripe.String(card.CVC),
		},
	}
	params.Context = ctx

	token, err := p.api.Tokens.New(params)
	if err != nil {
		return "", err
	}
	return token.ID, nil
}

func (p *StripeProvider) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	params := &stripe.CustomerParams{
		Source: stripe.String(req.TokenID),
		Email:  stripe.String(req.Email),
	}
	params.Context = ctx
	params.AddMetadata("customer_email", req.Email)
	params.AddMetadata("customer_name", req.Name)

	cust, err := p.api.Customers.New(params)
	if err != nil {
		return nil, err
	}
	return customerFromStripe(cust), nil
}

func (p *StripeProvider) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	cust, err := p.api.Customers.Get(id, params)
	if err != nil {
		return nil, err
	}
	return customerFromStripe(cust), nil
}

func (p *StripeProvider) CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (*Subscription, error) {
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(req.CustomerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Plan: stripe.String(req.PlanID)},
		},
	}
	params.Context = ctx
	if req.Source != "" {
		params.DefaultSource = stripe.String(req.Source)
	}
	if req.CouponCode != "" {
		params.Coupon = stripe.String(req.CouponCode)
	}

	sub, err := p.api.Subscriptions.New(params)
	if err != nil {
		return nil, err
	}
	return subscriptionFromStripe(sub), nil
}

func (p *StripeProvider) GetSubscription(ctx context.Context, id string) (*Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := p.api.Subscriptions.Get(id, params)
	if err != nil {
		return nil, err
	}
	return subscriptionFromStripe(sub), nil
}

func (p *StripeProvider) CancelSubscription(ctx context.Context, id string) error {
	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx

	_, err := p.api.Subscriptions.Cancel(id, params)
	return err
}

func (p *StripeProvider) CreateCharge(ctx context.Context, req CreateChargeRequest) (*Charge, error) {
	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(req.Amount),
		Currency:    stripe.String(req.Currency),
		Description: stripe.String(req.Description),
		Customer:    stripe.String(req.CustomerID),
	}
	params.Context = ctx
	if req.Source != "" {
		if err := params.SetSource(req.Source); err != nil {
			return nil, err
		}
	}

	ch, err := p.api.Charges.New(params)
	if err != nil {
		return nil, err
	}
	return chargeFromStripe(ch), nil
}

func (p *StripeProvider) ListCharges(ctx context.Context, customerID string, limit int64) ([]Charge, error) {
	params := &stripe.ChargeListParams{
		Customer: stripe.String(customerID),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(limit)

	iter := p.api.Charges.List(params)

	var charges []Charge
	for iter.Next() {
		charges = append(charges, *chargeFromStripe(iter.Charge()))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return charges, nil
}

func (p *StripeProvider) GetInvoice(ctx context.Context, id string) (*Invoice, error) {
	params := &stripe.InvoiceParams{}
	params.Context = ctx

	inv, err := p.api.Invoices.Get(id, params)
	if err != nil {
		return nil, err
	}

	out := &Invoice{
		ID:          inv.ID,
		AmountDue:   inv.AmountDue,
		HasDiscount: inv.Discount != nil && inv.Discount.Coupon != nil,
	}
	if inv.Lines != nil {
		for _, line := range inv.Lines.Data {
			if line.Type != stripe.InvoiceLineItemTypeSubscription {
				continue
			}
			il := InvoiceLine{Amount: line.Amount}
			if line.Plan != nil {
				il.PlanName = line.Plan.Nickname
				il.PlanAmount = line.Plan.Amount
			}
			out.SubscriptionLines = append(out.SubscriptionLines, il)
		}
	}
	return out, nil
}

func customerFromStripe(c *stripe.Customer) *Customer {
	out := &Customer{
		ID:    c.ID,
		Email: c.Email,
	}
	if c.DefaultSource != nil {
		out.DefaultSource = c.DefaultSource.ID
	}
	return out
}

func subscriptionFromStripe(s *stripe.Subscription) *Subscription {
	return &Subscription{
		ID:        s.ID,
		Status:    string(s.Status),
		CreatedAt: time.Unix(s.Created, 0),
	}
}

func chargeFromStripe(c *stripe.Charge) *Charge {
	out := &Charge{
		ID:          c.ID,
		Amount:      c.Amount,
		CreatedAt:   time.Unix(c.Created, 0),
		Description: c.Description,
	}
	if c.Invoice != nil {
		out.InvoiceID = c.Invoice.ID
	}
	return out
}
