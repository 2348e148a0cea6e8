// Package email provides a provider-agnostic interface for sending
// transactional emails, with a Postmark implementation for production and a
// logging dev sender for local development.
//
// The EmailSender interface lets providers be swapped without touching
// application code. Notifier layers named, embedded HTML templates on top and
// offers Dispatch for fire-and-forget delivery: callers hand off the message
// and continue, with failures logged in the background. The billing renewal
// sweep uses this to send the renewal report without coupling subscription
// cancellation to mail delivery.
package email
