// Package mongo provides the shared connection plumbing for the document
// store backing this module's repositories (pkg/coupon, pkg/billing).
//
// It wraps the official mongo-driver/v2 with env-tagged configuration,
// connect-time retries and a readiness probe. Repositories receive a
// *mongo.Database and own their collection names and document shapes.
package mongo
