package event

// EventType represents the type of game event
type EventType int

const (
	// EventLaunch signals a projectile leaving its slot
	// Trigger: ProjectileSystem on ReadyToLaunch -> Flying
	// Payload: LaunchPayload
	EventLaunch EventType = iota + 1

	// EventExplode signals a projectile detonating at range or at a wall
	// Trigger: ProjectileSystem on Flying -> Exploding
	// Payload: ExplodePayload
	EventExplode

	// EventDamage signals damage applied to a bot
	// Trigger: DamageSystem per collision or projectile hit
	// Payload: DamagePayload
	EventDamage

	// EventDeath signals a bot reaching max damage, emitted once per bot
	// Trigger: DamageSystem
	// Payload: DeathPayload
	EventDeath
)

var typeNames = map[EventType]string{
	EventLaunch:  "launch",
	EventExplode: "explode",
	EventDamage:  "damage",
	EventDeath:   "death",
}

// String returns the lowercase event name
func (t EventType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// GameEvent is a single queued event
type GameEvent struct {
	Type    EventType
	Payload any
	Cycle   uint64
}
