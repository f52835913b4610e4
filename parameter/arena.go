package parameter

// Arena Dimensions
const (
	// ArenaMaxX is the arena width in world units
	ArenaMaxX = 1000.0

	// ArenaMaxY is the arena height in world units
	ArenaMaxY = 1000.0

	// WallMargin is the distance inside the boundary a crashed entity is placed at
	WallMargin = 1.0

	// SpawnAttempts bounds the retries for a collision-free spawn position
	SpawnAttempts = 64
)
