package parameter

// Motion
const (
	// Acceleration is the speed change applied per cycle while easing toward desired speed
	Acceleration = 5

	// SpeedFactor multiplies current speed to get distance covered per cycle
	SpeedFactor = 1

	// MaxEngine is the maximum speed a bot may request
	MaxEngine = 100

	// CollisionRadius is the distance under which two living bots collide
	CollisionRadius = 2.0

	// ArrivalRadius is the distance to a move-to destination considered arrived
	ArrivalRadius = 10.0
)

// Scanner
const (
	// ScanResolutionLimit is the maximum half-width of a scan cone in degrees
	ScanResolutionLimit = 10

	// ScanMaxRange is the farthest distance at which a scan reports a target
	ScanMaxRange = 700.0
)
