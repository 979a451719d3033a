package pool

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Policy configures entry lifetime.
type Policy struct {
	// TTL bounds how long an entry stays registered after creation.
	// Zero keeps entries for the lifetime of the pool.
	TTL time.Duration

	// CleanupInterval is how often expired entries are purged.
	// Defaults to TTL when TTL is set; ignored otherwise.
	CleanupInterval time.Duration
}

// DefaultPolicy returns the default policy: entries never expire.
func DefaultPolicy() Policy {
	return Policy{}
}

// Expires reports whether entries can expire under this policy.
func (p Policy) Expires() bool {
	return p.TTL > 0
}

func (p Policy) expiration() time.Duration {
	if !p.Expires() {
		return gocache.NoExpiration
	}
	return p.TTL
}

func (p Policy) cleanupInterval() time.Duration {
	if !p.Expires() {
		return 0
	}
	if p.CleanupInterval > 0 {
		return p.CleanupInterval
	}
	return p.TTL
}
