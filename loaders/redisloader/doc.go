// Package redisloader implements facet.Loader on top of Redis.
//
// Construct pings the server and binds the identity to a key namespace.
// Each facet is read from one key under that namespace:
//
//	<prefix>:<identity key>:<facet>
//
// A facet's Kind selects the read: a hash (HGETALL), a plain string (GET),
// or a JSON document stored as a string (GET, then decoded).
package redisloader
