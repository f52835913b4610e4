// Package config provides configuration loading for war-arena.
// Values start from parameter defaults, are overlaid from an optional YAML
// file, then from WAR_ARENA_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/war-arena/logging"
	"github.com/lixenwraith/war-arena/parameter"
)

// ErrInvalid marks a configuration that failed validation
var ErrInvalid = errors.New("invalid config")

// Config contains every tunable of a simulation run.
type Config struct {
	Arena      ArenaConfig      `yaml:"arena"`
	Motion     MotionConfig     `yaml:"motion"`
	Scanner    ScannerConfig    `yaml:"scanner"`
	Projectile ProjectileConfig `yaml:"projectile"`
	Damage     DamageConfig     `yaml:"damage"`
	Game       GameConfig       `yaml:"game"`
	Sandbox    SandboxConfig    `yaml:"sandbox"`
	Logging    LoggingConfig    `yaml:"logging"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// ArenaConfig describes the playing field.
type ArenaConfig struct {
	// MaxX and MaxY bound the arena to [0,MaxX]×[0,MaxY].
	MaxX float64 `yaml:"max_x" env:"WAR_ARENA_MAX_X"`
	MaxY float64 `yaml:"max_y" env:"WAR_ARENA_MAX_Y"`

	// WallMargin is how far inside the boundary a crashed bot or projectile is placed.
	WallMargin float64 `yaml:"wall_margin"`

	// Seed drives spawn positions. Zero picks a time-based seed.
	Seed int64 `yaml:"seed" env:"WAR_ARENA_SEED"`

	// SpawnAttempts bounds the retries for a collision-free spawn.
	SpawnAttempts int `yaml:"spawn_attempts"`
}

// MotionConfig tunes the motion system.
type MotionConfig struct {
	Acceleration    int     `yaml:"acceleration" env:"WAR_ARENA_ACCELERATION"`
	SpeedFactor     int     `yaml:"speed_factor"`
	MaxEngine       int     `yaml:"max_engine"`
	CollisionRadius float64 `yaml:"collision_radius"`
	ArrivalRadius   float64 `yaml:"arrival_radius"`
}

// ScannerConfig tunes scan queries.
type ScannerConfig struct {
	ResolutionLimit int     `yaml:"resolution_limit"`
	MaxRange        float64 `yaml:"max_range"`
}

// DamageTier is one concentric splash band.
type DamageTier struct {
	Radius float64 `yaml:"radius"`
	Amount int     `yaml:"amount"`
}

// ProjectileConfig tunes cannon shells.
type ProjectileConfig struct {
	Speed         int          `yaml:"speed"`
	MaxRange      int          `yaml:"max_range"`
	ReloadCycles  int          `yaml:"reload_cycles"`
	ExplodeCycles int          `yaml:"explode_cycles"`
	Tiers         []DamageTier `yaml:"tiers"`
}

// DamageConfig tunes damage accounting.
type DamageConfig struct {
	Collision int `yaml:"collision"`
	Max       int `yaml:"max"`
}

// GameConfig controls the game loop and combatant lifecycle.
type GameConfig struct {
	MaxCycles     uint64 `yaml:"max_cycles" env:"WAR_ARENA_MAX_CYCLES"`
	NumCombatants int    `yaml:"num_combatants" env:"WAR_ARENA_NUM_COMBATANTS"`

	// TickInterval paces cycles. Zero runs as fast as possible.
	TickInterval time.Duration `yaml:"tick_interval" env:"WAR_ARENA_TICK_INTERVAL"`

	// StopOnLastStanding ends the match once at most one bot is alive.
	StopOnLastStanding bool `yaml:"stop_on_last_standing" env:"WAR_ARENA_STOP_ON_LAST_STANDING"`

	// JoinTimeout bounds the wait for bot goroutines after the loop ends.
	JoinTimeout time.Duration `yaml:"join_timeout" env:"WAR_ARENA_JOIN_TIMEOUT"`

	// LoadFailure decides what a bot that fails to load does to the match.
	LoadFailure LoadPolicy `yaml:"load_failure" env:"WAR_ARENA_LOAD_FAILURE"`
}

// SandboxConfig controls guest module execution.
type SandboxConfig struct {
	EntryPoint       string `yaml:"entry_point"`
	MemoryLimitPages uint32 `yaml:"memory_limit_pages" env:"WAR_ARENA_MEMORY_LIMIT_PAGES"`
}

// LoggingConfig configures operational logging.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	Level string `yaml:"level" env:"WAR_ARENA_LOG_LEVEL"`
}

// TelemetryConfig configures OTLP trace export.
type TelemetryConfig struct {
	// Endpoint is the OTLP/HTTP collector URL. Tracing is off when empty.
	Endpoint string `yaml:"endpoint" env:"WAR_ARENA_OTEL_ENDPOINT"`

	// Enabled set to false disables tracing even with an endpoint.
	Enabled bool `yaml:"enabled" env:"WAR_ARENA_OTEL_ENABLED"`
}

// Active reports whether traces should be exported.
func (t TelemetryConfig) Active() bool {
	return t.Enabled && t.Endpoint != ""
}

// Default returns a Config populated from parameter constants.
func Default() *Config {
	return &Config{
		Arena: ArenaConfig{
			MaxX:          parameter.ArenaMaxX,
			MaxY:          parameter.ArenaMaxY,
			WallMargin:    parameter.WallMargin,
			SpawnAttempts: parameter.SpawnAttempts,
		},
		Motion: MotionConfig{
			Acceleration:    parameter.Acceleration,
			SpeedFactor:     parameter.SpeedFactor,
			MaxEngine:       parameter.MaxEngine,
			CollisionRadius: parameter.CollisionRadius,
			ArrivalRadius:   parameter.ArrivalRadius,
		},
		Scanner: ScannerConfig{
			ResolutionLimit: parameter.ScanResolutionLimit,
			MaxRange:        parameter.ScanMaxRange,
		},
		Projectile: ProjectileConfig{
			Speed:         parameter.ProjectileSpeed,
			MaxRange:      parameter.ProjectileMaxRange,
			ReloadCycles:  parameter.ReloadCycles,
			ExplodeCycles: parameter.ExplodeCycles,
			Tiers: []DamageTier{
				{Radius: parameter.DirectRadius, Amount: parameter.DirectHit},
				{Radius: parameter.NearRadius, Amount: parameter.NearHit},
				{Radius: parameter.FarRadius, Amount: parameter.FarHit},
			},
		},
		Damage: DamageConfig{
			Collision: parameter.CollisionDamage,
			Max:       parameter.DamageMax,
		},
		Game: GameConfig{
			MaxCycles:     parameter.MaxCycles,
			NumCombatants: parameter.NumCombatants,
			TickInterval:  parameter.TickInterval,
			JoinTimeout:   parameter.JoinTimeout,
			LoadFailure:   LoadAbort,
		},
		Sandbox: SandboxConfig{
			EntryPoint:       parameter.EntryPoint,
			MemoryLimitPages: parameter.MemoryLimitPages,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Telemetry: TelemetryConfig{
			Enabled: true,
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.Decode(data); err != nil {
			return nil, err
		}
	}

	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode overlays YAML data onto c. Unknown keys are rejected.
func (c *Config) Decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Encode renders c as YAML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Validate checks invariants the simulation relies on.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Arena.MaxX > 2*c.Arena.WallMargin, "arena.max_x must exceed twice the wall margin")
	check(c.Arena.MaxY > 2*c.Arena.WallMargin, "arena.max_y must exceed twice the wall margin")
	check(c.Arena.WallMargin >= 0, "arena.wall_margin must not be negative")
	check(c.Arena.SpawnAttempts > 0, "arena.spawn_attempts must be positive")

	check(c.Motion.Acceleration > 0, "motion.acceleration must be positive")
	check(c.Motion.SpeedFactor > 0, "motion.speed_factor must be positive")
	check(c.Motion.MaxEngine > 0, "motion.max_engine must be positive")
	check(c.Motion.CollisionRadius >= 0, "motion.collision_radius must not be negative")
	check(c.Motion.ArrivalRadius >= 0, "motion.arrival_radius must not be negative")

	check(c.Scanner.ResolutionLimit >= 0, "scanner.resolution_limit must not be negative")
	check(c.Scanner.MaxRange > 0, "scanner.max_range must be positive")

	check(c.Projectile.Speed > 0, "projectile.speed must be positive")
	check(c.Projectile.MaxRange > 0, "projectile.max_range must be positive")
	check(c.Projectile.ReloadCycles >= 0, "projectile.reload_cycles must not be negative")
	check(c.Projectile.ExplodeCycles > 0, "projectile.explode_cycles must be positive")
	check(len(c.Projectile.Tiers) > 0, "projectile.tiers must not be empty")
	for i, tier := range c.Projectile.Tiers {
		check(tier.Radius > 0, "projectile.tiers[%d].radius must be positive", i)
		check(tier.Amount > 0, "projectile.tiers[%d].amount must be positive", i)
		if i > 0 {
			check(tier.Radius > c.Projectile.Tiers[i-1].Radius, "projectile.tiers must have increasing radii")
		}
	}

	check(c.Damage.Collision >= 0, "damage.collision must not be negative")
	check(c.Damage.Max > 0, "damage.max must be positive")

	check(c.Game.MaxCycles > 0, "game.max_cycles must be positive")
	check(c.Game.NumCombatants > 0, "game.num_combatants must be positive")
	check(c.Game.TickInterval >= 0, "game.tick_interval must not be negative")
	check(c.Game.JoinTimeout > 0, "game.join_timeout must be positive")
	check(c.Game.LoadFailure.Valid(), "game.load_failure must be %q or %q", LoadAbort, LoadExclude)

	check(c.Sandbox.EntryPoint != "", "sandbox.entry_point is required")
	check(c.Sandbox.MemoryLimitPages > 0, "sandbox.memory_limit_pages must be positive")

	if c.Telemetry.Endpoint != "" {
		u, err := url.Parse(c.Telemetry.Endpoint)
		check(err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "", "telemetry.endpoint %q must be an http or https URL", c.Telemetry.Endpoint)
	}
	check(logging.ValidLevel(c.Logging.Level), "logging.level %q is not one of info, debug, trace, warn, error", c.Logging.Level)

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
