// Package feed streams a running fire simulation to websocket clients and
// accepts control commands from them.
package feed

import "github.com/go-gl/mathgl/mgl64"

// Point is a world position encoded as [x, y, z].
type Point [3]float64

func toPoints(locs []mgl64.Vec3) []Point {
	out := make([]Point, len(locs))
	for i, p := range locs {
		out[i] = Point(p)
	}
	return out
}

// Message types sent to clients.
const (
	TypeSnapshot = "snapshot"
	TypeFrame    = "frame"
	TypeError    = "error"
)

// Command types accepted from clients.
const (
	CommandIgnite = "ignite"
	CommandWind   = "wind"
	CommandPause  = "pause"
	CommandResume = "resume"
)

// Frame reports one tick of the simulation.
type Frame struct {
	Type     string  `json:"type"`
	Tick     uint64  `json:"tick"`
	Ignited  []Point `json:"ignited"`
	Cells    int     `json:"cells"`
	Frontier int     `json:"frontier"`
	Paused   bool    `json:"paused"`
	WindYaw  float64 `json:"windYaw"`
	WindMag  float64 `json:"windStrength"`
}

// Snapshot is sent once to every new subscriber with every location that has
// burned so far.
type Snapshot struct {
	Type    string  `json:"type"`
	Tick    uint64  `json:"tick"`
	Burning []Point `json:"burning"`
}

// Command is a control message from a client.
type Command struct {
	Type     string  `json:"type"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Z        float64 `json:"z,omitempty"`
	Yaw      float64 `json:"yaw,omitempty"`
	Strength float64 `json:"strength,omitempty"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
