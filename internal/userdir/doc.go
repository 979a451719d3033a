// Package userdir is a simulated user directory used by the demo and the
// integration tests.
//
// User is a lazily materialized view of one directory entry: creating it is
// free, the first facet read pays for the directory lookup plus the facet
// query, and later reads are served from memory. Addresses is a flyweight
// pool of street addresses shared across clients, with each client keeping
// its own house number and details.
package userdir
