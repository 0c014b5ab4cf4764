// Package game provides the main game loop and state management.
package game

// State represents the current game state.
type State int

const (
	// StateExplore is the default mode where the party climbs towards the exit.
	StateExplore State = iota
	// StateBurned means the fire caught the party; only a restart is possible.
	StateBurned
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateExplore:
		return "explore"
	case StateBurned:
		return "burned"
	default:
		return "unknown"
	}
}
