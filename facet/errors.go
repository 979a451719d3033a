package facet

import "errors"

// Sentinel errors for facet operations.
var (
	// ErrConstruction wraps a Loader.Construct failure. The handle stays
	// unmaterialized.
	ErrConstruction = errors.New("facet: construction failed")

	// ErrLoad wraps a Loader.Load failure. Already loaded facets and the
	// materialized resource are unaffected.
	ErrLoad = errors.New("facet: load failed")

	// ErrCanceled is returned to a caller whose context ended while waiting.
	// The in-flight work continues for other waiters.
	ErrCanceled = errors.New("facet: wait canceled")

	// ErrFacetType indicates a loaded value does not have the requested type.
	ErrFacetType = errors.New("facet: unexpected value type")

	// ErrNilLoader indicates a handle was created without a loader.
	ErrNilLoader = errors.New("facet: loader is nil")

	// ErrInvalidName indicates an empty facet name.
	ErrInvalidName = errors.New("facet: name is empty")
)
