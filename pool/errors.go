package pool

import "errors"

// MaxKeyLength is the maximum allowed length for a derived storage key.
const MaxKeyLength = 512

// Sentinel errors for pool operations.
var (
	// ErrConstruction wraps a factory failure. Nothing is registered for the key.
	ErrConstruction = errors.New("pool: construction failed")

	// ErrCanceled is returned to a caller whose context ended while waiting.
	// The in-flight construction continues for other waiters.
	ErrCanceled = errors.New("pool: wait canceled")

	// ErrNilFactory indicates GetOrCreate was called without a factory.
	ErrNilFactory = errors.New("pool: factory is nil")

	// ErrInvalidKey indicates the keyer produced an unusable storage key.
	ErrInvalidKey = errors.New("pool: key is invalid")

	// ErrKeyCollision indicates two unequal keys derived the same storage
	// key. ValueKeyer never does.
	ErrKeyCollision = errors.New("pool: distinct keys share a storage key")

	// ErrKeyTooLong indicates the derived key exceeds MaxKeyLength.
	ErrKeyTooLong = errors.New("pool: key exceeds max length")
)
