package config

import "errors"

var (
	// ErrMissingEnv indicates a ${VAR} reference to an unset variable.
	ErrMissingEnv = errors.New("config: missing environment variables")

	// ErrInvalidValue indicates a variable could not be parsed.
	ErrInvalidValue = errors.New("config: invalid value")

	// ErrInvalidBackend indicates an unknown LAZYOPS_BACKEND.
	ErrInvalidBackend = errors.New("config: unknown backend")

	// ErrMissingDSN indicates the postgres backend has no DSN.
	ErrMissingDSN = errors.New("config: postgres backend requires LAZYOPS_POSTGRES_DSN")

	// ErrMissingAddr indicates the redis backend has no address.
	ErrMissingAddr = errors.New("config: redis backend requires LAZYOPS_REDIS_ADDR")
)
