package feed

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

const writeWait = 5 * time.Second

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type subscriber struct {
	conn Conn
	mu   sync.Mutex
}

func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans frames out to every subscriber and keeps the burned locations so
// late subscribers can catch up.
type Hub struct {
	log *slog.Logger

	mu          sync.Mutex
	next        uint64
	subscribers map[uint64]*subscriber
	burning     []Point
	tick        uint64
}

// NewHub returns an empty hub. A nil logger uses slog.Default.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		log:         logger.With("component", "feed"),
		subscribers: make(map[uint64]*subscriber),
	}
}

// Subscribe adds conn and sends it the current snapshot. The returned id is
// passed to Unsubscribe.
func (h *Hub) Subscribe(conn Conn) (uint64, error) {
	h.mu.Lock()
	h.next++
	id := h.next
	sub := &subscriber{conn: conn}
	snap := Snapshot{Type: TypeSnapshot, Tick: h.tick, Burning: append([]Point(nil), h.burning...)}
	// Registered before the snapshot is written so no frame is missed; the
	// subscriber mutex orders the snapshot ahead of any frame.
	sub.mu.Lock()
	h.subscribers[id] = sub
	h.mu.Unlock()

	data, err := json.Marshal(snap)
	if err == nil {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		err = conn.WriteMessage(websocket.TextMessage, data)
	}
	sub.mu.Unlock()
	if err != nil {
		h.Unsubscribe(id)
		return 0, err
	}
	return id, nil
}

// Unsubscribe removes and closes the subscriber.
func (h *Hub) Unsubscribe(id uint64) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	delete(h.subscribers, id)
	h.mu.Unlock()
	if ok {
		sub.conn.Close()
	}
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Burning returns every location published so far.
func (h *Hub) Burning() []Point {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Point(nil), h.burning...)
}

// Publish records the frame and writes it to every subscriber concurrently.
// Subscribers whose write fails are dropped.
func (h *Hub) Publish(f Frame) {
	f.Type = TypeFrame
	data, err := json.Marshal(f)
	if err != nil {
		h.log.Error("failed to marshal frame", "err", err)
		return
	}

	h.mu.Lock()
	h.tick = f.Tick
	h.burning = append(h.burning, f.Ignited...)
	ids := make([]uint64, 0, len(h.subscribers))
	subs := make([]*subscriber, 0, len(h.subscribers))
	for id, sub := range h.subscribers {
		ids = append(ids, id)
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	failed := make([]bool, len(subs))
	var g errgroup.Group
	for i, sub := range subs {
		g.Go(func() error {
			if err := sub.write(data); err != nil {
				h.log.Warn("dropping subscriber", "id", ids[i], "err", err)
				failed[i] = true
			}
			return nil
		})
	}
	g.Wait()
	for i, bad := range failed {
		if bad {
			h.Unsubscribe(ids[i])
		}
	}
}

// Reject sends an error message to one subscriber.
func (h *Hub) Reject(id uint64, msg string) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	h.mu.Unlock()
	if !ok {
		return
	}
	data, err := json.Marshal(errorMessage{Type: TypeError, Message: msg})
	if err != nil {
		return
	}
	if err := sub.write(data); err != nil {
		h.Unsubscribe(id)
	}
}
