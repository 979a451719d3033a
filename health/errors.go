package health

import "errors"

var (
	// ErrCheckTimeout indicates a health check did not finish in time.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckerNotFound indicates no checker is registered under a name.
	ErrCheckerNotFound = errors.New("health: checker not found")

	// ErrPoolFull indicates a pool grew past its unhealthy threshold.
	ErrPoolFull = errors.New("health: pool over capacity")

	// ErrNotMaterialized indicates a handle is required to be materialized
	// but is not.
	ErrNotMaterialized = errors.New("health: handle not materialized")
)
