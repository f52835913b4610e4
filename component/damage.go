package component

// DamageStatus is the liveness of a bot
type DamageStatus uint8

const (
	DamageAlive DamageStatus = iota
	DamageDead               // Terminal
)

// String returns a lowercase status name
func (s DamageStatus) String() string {
	if s == DamageDead {
		return "dead"
	}
	return "alive"
}

// DamageKind identifies the source of a damage application
type DamageKind uint8

const (
	DamageKindCollision DamageKind = iota
	DamageKindProjectile
)

// String returns a lowercase kind name
func (k DamageKind) String() string {
	if k == DamageKindProjectile {
		return "projectile"
	}
	return "collision"
}

// DamageComponent accumulates damage in [0, max]
type DamageComponent struct {
	Damage int
	Status DamageStatus
}

// Dead reports whether the bot has died
func (dc *DamageComponent) Dead() bool {
	return dc.Status == DamageDead
}

// Add accumulates amount; death is resolved by the damage system at end of cycle
func (dc *DamageComponent) Add(amount int) {
	if amount <= 0 || dc.Dead() {
		return
	}
	dc.Damage += amount
}

// Resolve clamps damage at max and flips status to dead once
// Returns true only on the cycle the bot dies
func (dc *DamageComponent) Resolve(max int) bool {
	if dc.Dead() {
		dc.Damage = max
		return false
	}
	if dc.Damage < max {
		return false
	}
	dc.Damage = max
	dc.Status = DamageDead
	return true
}
