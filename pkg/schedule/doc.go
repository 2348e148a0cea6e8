// Package schedule provides minimal periodic job execution: a Schedule
// computes successive run times (fixed interval or daily at a wall-clock
// time) and a Runner drives a job function on it.
//
// The billing renewal sweep is wired this way: the sweep itself is an
// ordinary method that makes one pass over the user population, and a Runner
// invokes it daily. Job failures are logged and the runner keeps going - a
// failed pass is retried by the next scheduled run.
package schedule
