// Package health reports the health of pools, handles and the guards in
// front of their backends.
//
// A Checker returns a Result with a Status of Healthy, Degraded or
// Unhealthy. The package ships checkers for the memoization layer:
//
//	agg := health.NewAggregator()
//	agg.Register("addresses", health.NewPoolChecker("addresses", addressPool, health.PoolThresholds{Warn: 10_000}))
//	agg.Register("directory", health.NewBreakerChecker("directory", breaker))
//	agg.Register("gabriel", health.NewHandleChecker("gabriel", handle, health.HandleCheck{Probe: "profile"}))
//
//	results := agg.CheckAll(ctx)
//	overall := health.Overall(results)
//
// The Aggregator runs checks concurrently and bounds them with a timeout.
// It can itself be registered as a Checker in a parent Aggregator.
package health
