// Package billing orchestrates the payment provider, the persistence stores
// and the coupon rules behind a single Service facade.
//
// The Service covers the customer lifecycle (CreateCustomer, GetCustomer),
// subscription management (CreateSubscription, DeleteSubscription,
// ToggleSubscription), one-off charges (CreateCharge), payment history with
// invoice enrichment (ListPayments) and the periodic renewal sweep that
// cancels subscriptions whose program term has ended (RenewalSweep).
//
// PaymentProvider abstracts the gateway. StripeProvider is the production
// implementation over stripe-go; tests substitute a mock. Monetary amounts
// cross the provider boundary in minor units (cents), while ListPayments
// converts back to major units for presentation.
//
// Every operation returns an error joined with a package sentinel
// (ErrChargeFailed, ErrCustomerCreationFailed, ...) so callers can branch
// with errors.Is while still seeing the provider's original message.
package billing
