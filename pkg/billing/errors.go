package billing

import "errors"

var (
	// Provider failure domains. Each provider-originating error is wrapped
	// with errors.Join so the original cause stays available for diagnostics.
	ErrCardProcessingFailed           = errors.New("failed to process card")
	ErrCustomerCreationFailed         = errors.New("failed to create customer")
	ErrSubscriptionCreationFailed     = errors.New("failed to create subscription")
	ErrSubscriptionCancellationFailed = errors.New("failed to cancel subscription")
	ErrChargeFailed                   = errors.New("failed to create charge")
	ErrLookupFailed                   = errors.New("failed to retrieve payment provider record")

	// Store errors.
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")

	// Provider configuration errors.
	ErrMissingAPIKey = errors.New("payment provider API key is required")
)
