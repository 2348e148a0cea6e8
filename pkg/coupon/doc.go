// Package coupon implements promotional-code business rules: validity
// windows, plan binding and redemption accounting.
//
// A Coupon is validated in two situations. At signup, ValidateForSignup
// collects every failing condition in order of relevance so a caller can
// report either the primary failure or all of them. Before a one-off charge,
// ValidateForCharge yields a single applicable/blocked decision.
//
// The Service wraps a Store with the lookup-and-validate entry point used by
// registration flows and with redemption consumption, which callers invoke
// once after a discounted signup succeeds. Coupons themselves are
// administered outside this module.
package coupon
