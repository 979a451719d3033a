package redisloader

import "errors"

var (
	// ErrUnknownFacet indicates no Kind is configured for a facet.
	ErrUnknownFacet = errors.New("redisloader: unknown facet")

	// ErrNotFound indicates the facet key does not exist.
	ErrNotFound = errors.New("redisloader: key not found")

	// ErrNilClient indicates Config.Client is nil.
	ErrNilClient = errors.New("redisloader: client is nil")
)
