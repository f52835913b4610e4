package core

// PlayerID is the stable identifier of a registered combatant
// Never reused or removed once registered
type PlayerID string

// String returns the raw identifier
func (p PlayerID) String() string { return string(p) }
