package parameter

// Projectile
const (
	// ProjectileSlots is the number of independent projectiles per bot
	ProjectileSlots = 2

	// ProjectileSpeed is the distance a projectile travels per cycle
	ProjectileSpeed = 50

	// ProjectileMaxRange caps the requested cannon range
	ProjectileMaxRange = 200

	// ReloadCycles is the cooldown after an explosion before the slot fires again
	ReloadCycles = 15

	// ExplodeCycles is the number of cycles an explosion inflicts splash damage
	ExplodeCycles = 5
)

// Splash Damage Tiers
const (
	// DirectRadius is the inclusive radius of a direct hit
	DirectRadius = 5.0

	// NearRadius is the inclusive radius of a near hit
	NearRadius = 20.0

	// FarRadius is the inclusive radius of a far hit
	FarRadius = 40.0

	// DirectHit is damage per explosion cycle for a direct hit
	DirectHit = 10

	// NearHit is damage per explosion cycle for a near hit
	NearHit = 5

	// FarHit is damage per explosion cycle for a far hit
	FarHit = 3
)

// Damage
const (
	// CollisionDamage is applied for each cycle a wall or bot collision is recorded
	CollisionDamage = 2

	// DamageMax is the damage at which a bot dies
	DamageMax = 100
)
