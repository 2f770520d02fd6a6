package feed

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"

	"wildfire/internal/fire"
	"wildfire/internal/terrain"
	"wildfire/internal/wind"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeConn struct {
	mu     sync.Mutex
	writes [][]byte
	fail   bool
	closed bool
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("broken pipe")
	}
	c.writes = append(c.writes, data)
	return nil
}

func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (c *fakeConn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func TestHubSnapshotAndDrop(t *testing.T) {
	hub := NewHub(quietLogger())
	hub.Publish(Frame{Tick: 1, Ignited: []Point{{1, 2, 3}}})

	good := &fakeConn{}
	if _, err := hub.Subscribe(good); err != nil {
		t.Fatal(err)
	}
	var snap Snapshot
	if err := json.Unmarshal(good.writes[0], &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Type != TypeSnapshot || snap.Tick != 1 || len(snap.Burning) != 1 || snap.Burning[0] != (Point{1, 2, 3}) {
		t.Fatalf("snapshot = %+v", snap)
	}

	bad := &fakeConn{}
	if _, err := hub.Subscribe(bad); err != nil {
		t.Fatal(err)
	}
	bad.fail = true
	hub.Publish(Frame{Tick: 2, Ignited: []Point{{4, 5, 6}}})

	if hub.Len() != 1 || !bad.closed {
		t.Fatalf("failed subscriber not dropped: len=%d closed=%v", hub.Len(), bad.closed)
	}
	if len(good.writes) != 2 {
		t.Fatalf("good subscriber got %d messages, want 2", len(good.writes))
	}
	if got := hub.Burning(); len(got) != 2 {
		t.Fatalf("burning = %v", got)
	}
}

func newTestWorld(t *testing.T) (*fire.Manager, *fire.Simulation) {
	t.Helper()
	cfg := fire.DefaultConfig()
	cfg.Workers = 2
	cfg.Logger = quietLogger()
	sim := fire.New(cfg, terrain.NewFlat(0, terrain.SurfaceGrass), nil)
	m := fire.NewManager()
	m.Register(sim)
	return m, sim
}

func TestRunnerCommands(t *testing.T) {
	m, sim := newTestWorld(t)
	requests := make(chan Request, 4)
	hub := NewHub(quietLogger())
	w := wind.New(0, 0)
	r := NewRunner(m, w, hub, requests, quietLogger())

	requests <- Request{From: 1, Command: Command{Type: CommandWind, Yaw: 90, Strength: 5}}
	requests <- Request{From: 1, Command: Command{Type: CommandIgnite}}
	f := r.Advance(0.1)
	if f.Tick != 1 || f.WindYaw != 90 || f.WindMag != 5 {
		t.Fatalf("frame = %+v", f)
	}
	if len(f.Ignited) != 1 {
		t.Fatalf("ignited = %v, want the origin", f.Ignited)
	}
	if sim.Wind().Bucket() != 2 || sim.Wind().Magnitude != 5 {
		t.Fatalf("simulation wind = %+v", sim.Wind())
	}

	requests <- Request{From: 1, Command: Command{Type: CommandPause}}
	if f := r.Advance(0.1); !f.Paused || !sim.Paused() {
		t.Fatal("pause command ignored")
	}
	requests <- Request{From: 1, Command: Command{Type: CommandResume}}
	if f := r.Advance(0.1); f.Paused || sim.Paused() {
		t.Fatal("resume command ignored")
	}
	if err := r.execute(Command{Type: "extinguish"}); err == nil {
		t.Fatal("unknown command accepted")
	}
}

func TestHandlerStreamsFrames(t *testing.T) {
	m, _ := newTestWorld(t)
	requests := make(chan Request, 4)
	hub := NewHub(quietLogger())
	r := NewRunner(m, wind.New(0, 0), hub, requests, quietLogger())

	srv := httptest.NewServer(NewHandler(hub, requests, quietLogger()))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	t.Cleanup(func() {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
		if resp != nil {
			resp.Body.Close()
		}
	})

	var snap Snapshot
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("failed to read snapshot: %v", err)
	}
	if snap.Type != TypeSnapshot || len(snap.Burning) != 0 {
		t.Fatalf("snapshot = %+v", snap)
	}

	if err := conn.WriteJSON(Command{Type: CommandIgnite, X: 10, Y: 10}); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for len(hub.Burning()) == 0 && time.Now().Before(deadline) {
		r.Advance(0.1)
		time.Sleep(time.Millisecond)
	}
	if len(hub.Burning()) == 0 {
		t.Fatal("ignite command never reached the simulation")
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var f Frame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("failed to read frame: %v", err)
		}
		if f.Type != TypeFrame {
			t.Fatalf("unexpected message %+v", f)
		}
		if len(f.Ignited) > 0 {
			want := Point(mgl64.Vec3{10, 10, 0})
			if f.Ignited[0] != want {
				t.Fatalf("ignited at %v, want %v", f.Ignited[0], want)
			}
			break
		}
	}
}

func TestHandlerRejectsMalformedCommands(t *testing.T) {
	hub := NewHub(quietLogger())
	srv := httptest.NewServer(NewHandler(hub, nil, quietLogger()))
	t.Cleanup(srv.Close)

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	t.Cleanup(func() {
		conn.Close()
		resp.Body.Close()
	})

	var snap Snapshot
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	var msg errorMessage
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != TypeError || msg.Message != "malformed command" {
		t.Fatalf("error message = %+v", msg)
	}
}
