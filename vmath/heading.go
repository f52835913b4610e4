package vmath

import "math"

// HeadingToTarget returns the bearing from source to target in degrees
// Measured from the +X axis, result in (-180, 180]
func HeadingToTarget(source, target Point) float64 {
	d := target.Sub(source)
	return math.Atan2(d.Y, d.X) * 180 / math.Pi
}

// ToUserHeading maps a real heading in (-180, 180] to the nearest whole bot-facing heading in [0, 360)
func ToUserHeading(real float64) int {
	return NormalizeHeading(int(math.Round(real + 360)))
}

// ToRealHeading maps a user heading in [0, 360) to (-180, 180)
func ToRealHeading(user int) int {
	user = NormalizeHeading(user)
	if user < 180 {
		return user
	}
	return user - 360
}

// NormalizeHeading wraps any integer heading into [0, 360)
func NormalizeHeading(h int) int {
	h %= 360
	if h < 0 {
		h += 360
	}
	return h
}

// AngleDiff returns the smallest absolute difference between two headings in degrees, in [0, 180]
func AngleDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}
