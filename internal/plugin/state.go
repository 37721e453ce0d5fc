package plugin

// State represents the load state of a discovered plugin.
type State int

// Plugin states.
const (
	// StateUnloaded - Plugin was discovered but has not run.
	StateUnloaded State = iota

	// StateLoaded - Plugin script ran to completion.
	StateLoaded

	// StateError - Plugin could not be inspected or failed while running.
	StateError
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
