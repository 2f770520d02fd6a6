package feed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"wildfire/internal/fire"
	"wildfire/internal/wind"
)

// Runner owns the fire simulations of a world. Every simulation call happens
// on the goroutine running Run, so the simulations need no locking.
type Runner struct {
	fires    *fire.Manager
	wind     *wind.Component
	hub      *Hub
	requests <-chan Request
	log      *slog.Logger

	tick   uint64
	paused bool
}

// NewRunner wires the wind component to every simulation registered with
// fires and publishes to hub.
func NewRunner(fires *fire.Manager, w *wind.Component, hub *Hub, requests <-chan Request, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		fires:    fires,
		wind:     w,
		hub:      hub,
		requests: requests,
		log:      logger.With("component", "runner"),
	}
	w.Subscribe(func(dir mgl64.Vec3, strength float64) {
		for _, s := range fires.Sources() {
			s.OnWindChanged(dir, strength)
		}
	})
	w.Notify()
	return r
}

// Run advances the simulations at rate ticks per second until ctx is done.
func (r *Runner) Run(ctx context.Context, rate int) error {
	if rate < 1 {
		rate = 1
	}
	interval := time.Second / time.Duration(rate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-r.requests:
			r.apply(req)
		case now := <-ticker.C:
			r.Advance(now.Sub(last).Seconds())
			last = now
		}
	}
}

// Advance applies queued commands, ticks every simulation and publishes the
// cells ignited since the previous call.
func (r *Runner) Advance(dt float64) Frame {
drain:
	for {
		select {
		case req := <-r.requests:
			r.apply(req)
		default:
			break drain
		}
	}

	r.fires.Tick(dt)
	r.tick++

	f := Frame{
		Tick:    r.tick,
		Paused:  r.paused,
		WindYaw: r.wind.Yaw(),
		WindMag: r.wind.Strength(),
	}
	for _, s := range r.fires.Sources() {
		f.Ignited = append(f.Ignited, toPoints(s.DrainIgnited())...)
		f.Cells += s.CellCount()
		f.Frontier += s.FrontierLen()
	}
	r.hub.Publish(f)
	return f
}

func (r *Runner) apply(req Request) {
	if err := r.execute(req.Command); err != nil {
		r.log.Info("command rejected", "from", req.From, "type", req.Command.Type, "err", err)
		r.hub.Reject(req.From, err.Error())
	}
}

func (r *Runner) execute(cmd Command) error {
	switch cmd.Type {
	case CommandIgnite:
		return r.fires.StartFire(mgl64.Vec3{cmd.X, cmd.Y, cmd.Z})
	case CommandWind:
		r.wind.SetDirection(cmd.Yaw)
		r.wind.SetStrength(cmd.Strength)
		return nil
	case CommandPause:
		r.paused = true
		r.fires.SetPaused(true)
		return nil
	case CommandResume:
		r.paused = false
		r.fires.SetPaused(false)
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd.Type)
	}
}
