package wildfire

import (
	"strconv"

	"wildfire/internal/fire"
	"wildfire/internal/terrain"
)

// Config controls the wildfire viewer world.
type Config struct {
	// Width and Height size the viewport in fire cells. The viewport is
	// centered on the simulation anchor.
	Width  int
	Height int

	Seed int64

	// Props is the number of combustible actors scattered over the terrain.
	Props int
	// DT is the simulated time advanced by one Step, in seconds.
	DT float64

	WindYaw      float64
	WindStrength float64

	// IgniteCenter starts a fire at the viewport center on Reset.
	IgniteCenter bool

	Fire    fire.Config
	Terrain terrain.FieldConfig
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:        160,
		Height:       120,
		Seed:         1337,
		Props:        12,
		DT:           0.25,
		WindYaw:      30,
		WindStrength: 1,
		IgniteCenter: true,
		Fire:         fire.DefaultConfig(),
		Terrain:      terrain.DefaultFieldConfig(),
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Fire engine keys are parsed by fire.FromMap.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	c.Fire = fire.FromMap(cfg)
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["props"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Props = parsed
		}
	}
	if v, ok := cfg["dt"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.DT = parsed
		}
	}
	if v, ok := cfg["wind_yaw"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.WindYaw = parsed
		}
	}
	if v, ok := cfg["wind_strength"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.WindStrength = parsed
		}
	}
	if v, ok := cfg["ignite_center"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.IgniteCenter = parsed
		}
	}
	if v, ok := cfg["terrain_scale"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Terrain.Scale = parsed
		}
	}
	if v, ok := cfg["terrain_amplitude"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Terrain.Amplitude = parsed
		}
	}
	if v, ok := cfg["water_level"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Terrain.WaterLevel = parsed
		}
	}
	if v, ok := cfg["rock_threshold"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Terrain.RockThreshold = parsed
		}
	}
	return c
}
