// Package pool provides a process-local registry of shared, immutable
// instances keyed by their intrinsic state.
//
// GetOrCreate returns the instance already registered for a key or builds
// one with the caller's factory. Concurrent misses for an equal key share a
// single factory call and all observe the same instance. Factory failures
// register nothing, so a later call may retry.
//
// Keys are any comparable value; a Keyer derives the storage key from them.
// The default ValueKeyer follows ==, so two keys resolve to the same entry
// exactly when they are equal. CanonicalKeyer keys by canonical JSON
// instead, for keys whose identity is their exported content.
//
//	type addressKey struct{ Street, Neighborhood, Zip string }
//
//	p := pool.New[addressKey, *Address]()
//	a, err := p.GetOrCreate(ctx, addressKey{"Av. Brasil", "Centro", "11111-111"}, newAddress)
//
// Entries live for the lifetime of the pool unless Policy.TTL is set.
package pool
