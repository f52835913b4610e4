package system

import (
	"context"
	"math"

	"github.com/lixenwraith/war-arena/config"
	"github.com/lixenwraith/war-arena/core"
	"github.com/lixenwraith/war-arena/engine"
	"github.com/lixenwraith/war-arena/vmath"
)

// ScannerSystem owns scan queries; its per-cycle pass performs no mutation
type ScannerSystem struct {
	cfg config.ScannerConfig
}

// NewScannerSystem creates a scanner system from config
func NewScannerSystem(cfg *config.Config) *ScannerSystem {
	return &ScannerSystem{cfg: cfg.Scanner}
}

func (s *ScannerSystem) Name() string { return "scanner" }

// Apply is a no-op; scans resolve synchronously in Scan
func (s *ScannerSystem) Apply(_ context.Context, _ *engine.GameState) error {
	return nil
}

// Scan returns the integer distance to the nearest living other bot within
// ±resolution degrees of angle and within max range, or 0 if none qualify
// Resolution is clamped to [0, limit]; the request is recorded in the caller's scanner component
func Scan(gs *engine.GameState, id core.PlayerID, angle, resolution int) (int32, error) {
	cfg := gs.Config().Scanner
	resolution = vmath.Clamp(resolution, 0, cfg.ResolutionLimit)
	angle = vmath.NormalizeHeading(angle)

	var result int32
	access := engine.Access{
		Players: engine.ModeRead,
		Motion:  engine.ModeRead,
		Damage:  engine.ModeRead,
		Scanner: engine.ModeWrite,
	}
	err := gs.With(access, func(tx *engine.Tx) error {
		sc, err := tx.Scanner(id)
		if err != nil {
			return err
		}
		sc.Angle, sc.Resolution = angle, resolution

		self, err := tx.Motion(id)
		if err != nil {
			return err
		}
		ids, err := tx.Players()
		if err != nil {
			return err
		}

		nearest := math.Inf(1)
		for _, other := range ids {
			if other == id {
				continue
			}
			dc, err := tx.Damage(other)
			if err != nil {
				return err
			}
			if dc.Dead() {
				continue
			}
			mc, err := tx.Motion(other)
			if err != nil {
				return err
			}

			d := vmath.Distance(self.Position, mc.Position)
			if d > cfg.MaxRange || d >= nearest {
				continue
			}
			bearing := vmath.HeadingToTarget(self.Position, mc.Position)
			if vmath.AngleDiff(bearing, float64(angle)) <= float64(resolution) {
				nearest = d
			}
		}

		if !math.IsInf(nearest, 1) {
			// A found target never reads as "none"
			result = int32(max(nearest, 1))
		}
		return nil
	})
	return result, err
}
