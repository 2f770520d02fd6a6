package fire

import (
	"log/slog"
	"runtime"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
)

// Config controls a fire simulation.
type Config struct {
	// Anchor is the world position of grid coordinate (0, 0).
	Anchor mgl64.Vec3
	// CellSize is the edge length of one cell in world units.
	CellSize float64
	// DownwardThreshold is how far below a burning cell fire can still reach.
	DownwardThreshold float64

	// SpreadLimit sizes the cell store (SpreadLimit² cells). It is a soft cap:
	// crossing it is logged once and spread continues.
	SpreadLimit int
	// MaxTargetUpdatesPerTick bounds how many pending target updates are
	// dispatched per Tick.
	MaxTargetUpdatesPerTick int

	WindThreshold float64
	MinWindEffect float64

	// Workers is the maximum number of partitions per dispatch.
	Workers int

	Debug  bool
	Logger *slog.Logger
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		CellSize:                25,
		DownwardThreshold:       20,
		SpreadLimit:             2000,
		MaxTargetUpdatesPerTick: 100,
		WindThreshold:           2,
		MinWindEffect:           0.5,
		Workers:                 runtime.GOMAXPROCS(0),
	}
}

// MaxSpreadLimit bounds SpreadLimit so SpreadLimit² fits in an int32.
const MaxSpreadLimit = 1 << 15

func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.CellSize < 10 {
		c.CellSize = 10
	}
	if c.DownwardThreshold < 0 {
		c.DownwardThreshold = 0
	}
	c.SpreadLimit = min(max(c.SpreadLimit, 1), MaxSpreadLimit)
	if c.MaxTargetUpdatesPerTick < 1 {
		c.MaxTargetUpdatesPerTick = def.MaxTargetUpdatesPerTick
	}
	if c.WindThreshold < 0 {
		c.WindThreshold = 0
	}
	if c.MinWindEffect < 0 {
		c.MinWindEffect = 0
	}
	if c.Workers < 1 {
		c.Workers = def.Workers
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["cell_size"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 10 {
			c.CellSize = parsed
		}
	}
	if v, ok := cfg["downward_threshold"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.DownwardThreshold = parsed
		}
	}
	if v, ok := cfg["spread_limit"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.SpreadLimit = parsed
		}
	}
	if v, ok := cfg["max_target_updates"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.MaxTargetUpdatesPerTick = parsed
		}
	}
	if v, ok := cfg["wind_threshold"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.WindThreshold = parsed
		}
	}
	if v, ok := cfg["min_wind_effect"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.MinWindEffect = parsed
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Workers = parsed
		}
	}
	if v, ok := cfg["debug"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Debug = parsed
		}
	}
	return c
}
