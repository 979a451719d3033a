package facet

// State is the lifecycle state of one facet on a handle.
type State int

const (
	// Unloaded means no value is cached and no load is running.
	Unloaded State = iota
	// Loading means a load is in flight; callers wait for its result.
	Loading
	// Loaded means the value is cached for the lifetime of the handle.
	Loaded
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return "unknown"
	}
}
