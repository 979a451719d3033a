package pgloader

import "errors"

var (
	// ErrUnknownFacet indicates no query is configured for a facet.
	ErrUnknownFacet = errors.New("pgloader: unknown facet")

	// ErrNoConnector indicates Config.Connect is nil.
	ErrNoConnector = errors.New("pgloader: connector is nil")
)
