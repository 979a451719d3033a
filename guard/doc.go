// Package guard wraps loader and factory calls with failure handling.
//
// The memoization core never retries on its own: a failed construction or
// load is returned to the caller and retried only when someone asks again.
// Embedders who want automatic recovery wrap their Loader with a Chain
// before handing it to a Handle or Registry:
//
//	chain := guard.NewChain(
//	    guard.WithLimiter(guard.NewLimiter(guard.LimiterConfig{MaxConcurrent: 4})),
//	    guard.WithBreaker(guard.NewBreaker(guard.BreakerConfig{MaxFailures: 5})),
//	    guard.WithRetry(guard.NewRetry(guard.RetryConfig{MaxAttempts: 3})),
//	    guard.WithDeadline(2*time.Second),
//	)
//	h := facet.New(user, guard.WrapLoader(loader, guard.LoaderChains{Construct: chain, Load: chain}))
//
// Because an in-flight load runs detached from any single caller's
// cancellation, a Deadline is the usual way to bound how long one load may
// hold its flight.
//
// The layers apply outermost first: Limiter, Breaker, Retry, Deadline. A
// Deadline therefore bounds each attempt, and the breaker sees one outcome
// per retried call. Through WrapLoader and WrapFactory a call that ignores
// its context is never started twice: the retry after a timed out attempt
// waits for that attempt, and a resource that arrives after the wrapped
// call has failed is closed.
package guard
