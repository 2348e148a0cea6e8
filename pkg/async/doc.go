// Package async provides small generic helpers for running computations
// concurrently and collecting their results.
//
// Async starts the supplied function in its own goroutine and returns a
// *Future. The caller waits with Await or AwaitWithTimeout, or polls with
// IsComplete. WaitAll drains a set of futures and returns results in argument
// order - completion order of the underlying goroutines never reorders the
// output, which callers rely on when fanning out per-item lookups over an
// ordered list. WaitAll always waits for every future, even after a failure,
// so one slow or failing item cannot leave goroutines unobserved.
package async
