package wildfire

import (
	"strconv"

	"wildfire/internal/core"
)

// Parameters returns the current configuration and fire status.
func (w *World) Parameters() core.ParameterSnapshot {
	fcfg := w.sim.Config()
	stats := w.sim.Stats()
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", w.cfg.Width),
				intParam("h", "Height", w.cfg.Height),
				int64Param("seed", "Seed", w.cfg.Seed),
				intParam("props", "Props", len(w.actors)),
				floatParam("dt", "Time step", w.cfg.DT),
			},
		},
		{
			Name: "Wind",
			Params: []core.Parameter{
				floatParam("wind_yaw", "Wind direction", w.wind.Yaw()),
				floatParam("wind_strength", "Wind strength", w.wind.Strength()),
				floatParam("wind_threshold", "Wind threshold", fcfg.WindThreshold),
				floatParam("min_wind_effect", "Min wind effect", fcfg.MinWindEffect),
			},
		},
		{
			Name: "Fire",
			Params: []core.Parameter{
				floatParam("cell_size", "Cell size", fcfg.CellSize),
				floatParam("downward_threshold", "Downward threshold", fcfg.DownwardThreshold),
				intParam("spread_limit", "Spread limit", fcfg.SpreadLimit),
				intParam("max_target_updates", "Target updates per tick", fcfg.MaxTargetUpdatesPerTick),
				intParam("workers", "Workers", fcfg.Workers),
			},
		},
		{
			Name:    "Status",
			Summary: w.sim.Phase().String(),
			Params: []core.Parameter{
				textParam("cells", "Cells", strconv.Itoa(stats.Cells)),
				textParam("frontier", "Frontier", strconv.Itoa(stats.Frontier)),
				textParam("burning", "Burning", strconv.Itoa(stats.Burning)),
				textParam("ticks", "Ticks", strconv.FormatUint(stats.Ticks, 10)),
				textParam("elapsed", "Elapsed", strconv.FormatFloat(stats.Elapsed, 'f', 2, 64)),
				textParam("dispatch", "Last dispatch", stats.LastDispatch.String()),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the values adjustable from the HUD.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "wind_yaw", Label: "Wind direction", Type: core.ParamTypeFloat, Step: 15},
		{Key: "wind_strength", Label: "Wind strength", Type: core.ParamTypeFloat, Step: 0.5, Min: 0, HasMin: true, Max: 20, HasMax: true},
		{Key: "dt", Label: "Time step", Type: core.ParamTypeFloat, Step: 0.05, Min: 0.05, HasMin: true, Max: 2, HasMax: true},
		{Key: "seed", Label: "Seed", Type: core.ParamTypeInt, Step: 1, Min: 0, HasMin: true},
	}
}

// SetIntParameter applies a HUD adjustment. Changing the seed resets the world.
func (w *World) SetIntParameter(key string, value int) bool {
	switch key {
	case "seed":
		if value < 0 {
			return false
		}
		w.Reset(int64(value))
	default:
		return false
	}
	return true
}

// SetFloatParameter applies a HUD adjustment.
func (w *World) SetFloatParameter(key string, value float64) bool {
	switch key {
	case "wind_yaw":
		w.SetWind(value, w.wind.Strength())
	case "wind_strength":
		if value < 0 {
			return false
		}
		w.SetWind(w.wind.Yaw(), value)
	case "dt":
		if value <= 0 {
			return false
		}
		w.cfg.DT = value
	default:
		return false
	}
	return true
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func textParam(key, label, value string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeText,
		Value: value,
	}
}
