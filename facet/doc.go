// Package facet provides lazily materialized resource handles with
// per-facet memoization.
//
// A Handle stands in front of one logical resource. Nothing expensive
// happens when it is created. The first Get for any facet constructs the
// backing resource through the Loader, then computes the facet from it.
// Both steps run at most once: construction once per handle, and each facet
// once per handle. Later calls for a loaded facet return the cached value
// without touching the Loader.
//
//	h := facet.New(User{"Gabriel", "Galacci"}, loader)
//	profile, err := h.Get(ctx, "profile")   // construct + load
//	profile, err = h.Get(ctx, "profile")    // cached
//	addrs, err := h.Get(ctx, "addresses")   // load only
//
// Failures are never cached. A failed construction or load leaves the facet
// Unloaded, and the next Get retries it.
//
// Concurrent callers asking for the same facet share one in-flight load.
// A caller whose context ends stops waiting and receives ErrCanceled. The
// load itself keeps running and its result is cached for everyone else.
//
// Registry pools handles by identity so every caller for the same resource
// shares one Handle and therefore one materialization.
package facet
