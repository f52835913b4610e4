package parameter

import "time"

// Game Loop & Engine Timing
const (
	// MaxCycles is the default cycle limit before the game loop terminates
	MaxCycles = 100_000

	// NumCombatants is the default number of bots expected in a match
	NumCombatants = 3

	// TickInterval is the default pacing between cycles, zero runs unpaced
	TickInterval = time.Duration(0)

	// JoinTimeout bounds how long the supervisor waits for bot goroutines on shutdown
	JoinTimeout = 2 * time.Second
)

// Event Queue Limits
const (
	// EventQueueSize is how many events one cycle may queue before non-death events are dropped
	EventQueueSize = 2048
)
