package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mesaeats/mesa-client/pkg/config"
	"github.com/mesaeats/mesa-client/pkg/logger"
	"github.com/mesaeats/mesa-client/pkg/metrics"
)

const (
	// Time allowed to write a message to the peer.
	defaultWriteWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	defaultPongWait = 60 * time.Second

	sendBuffer = 64
)

// Frame is the wire format for both directions of the event stream.
type Frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Handler consumes the payload of a single inbound event.
type Handler func(payload json.RawMessage)

// Subscription identifies one registered handler so it can be removed.
type Subscription struct {
	event string
	id    uint64
}

type handlerEntry struct {
	id uint64
	fn Handler
}

// Dialer opens the websocket connection. Injectable for tests.
type Dialer func(ctx context.Context, url string, header http.Header) (*websocket.Conn, error)

func defaultDialer(ctx context.Context, url string, header http.Header) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	return conn, err
}

// Channel is the client side of the backend's event stream. One channel is
// shared per authenticated session; its lifetime is owned by the auth store.
// Disconnect discards every registered handler: subscribers must re-register
// after a reconnect.
type Channel struct {
	url       string
	writeWait time.Duration
	pongWait  time.Duration
	logg      *logger.Logger
	metrics   *metrics.ClientMetrics
	dial      Dialer

	mu        sync.Mutex
	conn      *websocket.Conn
	handlers  map[string][]handlerEntry
	send      chan Frame
	done      chan struct{}
	connected bool
	nextID    uint64
}

// Option configures optional channel behavior.
type Option func(*Channel)

// WithDialer overrides the websocket dialer.
func WithDialer(dial Dialer) Option {
	return func(c *Channel) {
		if dial != nil {
			c.dial = dial
		}
	}
}

// WithMetrics wires channel instrumentation.
func WithMetrics(m *metrics.ClientMetrics) Option {
	return func(c *Channel) {
		c.metrics = m
	}
}

// NewChannel builds a disconnected channel.
func NewChannel(cfg config.RealtimeConfig, logg *logger.Logger, opts ...Option) *Channel {
	writeWait := cfg.WriteTimeout
	if writeWait <= 0 {
		writeWait = defaultWriteWait
	}
	pongWait := cfg.PongTimeout
	if pongWait <= 0 {
		pongWait = defaultPongWait
	}

	channel := &Channel{
		url:       cfg.URL,
		writeWait: writeWait,
		pongWait:  pongWait,
		logg:      logg,
		dial:      defaultDialer,
		handlers:  map[string][]handlerEntry{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(channel)
		}
	}
	return channel
}

// Connect dials the event stream with the session's bearer token. Calling it
// while already connected is a no-op.
func (c *Channel) Connect(ctx context.Context, token string) error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, err := c.dial(ctx, c.url, header)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.connected {
		// lost the race against a concurrent Connect
		c.mu.Unlock()
		conn.Close()
		return nil
	}
	c.conn = conn
	c.connected = true
	c.send = make(chan Frame, sendBuffer)
	c.done = make(chan struct{})
	done := c.done
	send := c.send
	c.mu.Unlock()

	go c.readLoop(conn, done)
	go c.writeLoop(conn, send, done)

	if c.logg != nil {
		c.logg.Info(ctx, "realtime channel connected")
	}
	return nil
}

// Connected reports whether the channel currently holds a live connection.
func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Disconnect tears the connection down and discards all registered handlers.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	done := c.done
	c.conn = nil
	c.connected = false
	c.done = nil
	c.send = nil
	c.handlers = map[string][]handlerEntry{}
	c.mu.Unlock()

	if done != nil {
		close(done)
	}
	if conn != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	}
}

// On registers a handler for the named event. Handlers run in registration
// order on the channel's read goroutine.
func (c *Channel) On(event string, fn Handler) Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	sub := Subscription{event: event, id: c.nextID}
	c.handlers[event] = append(c.handlers[event], handlerEntry{id: sub.id, fn: fn})
	return sub
}

// Off removes a previously registered handler.
func (c *Channel) Off(sub Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := c.handlers[sub.event]
	for i, entry := range entries {
		if entry.id == sub.id {
			c.handlers[sub.event] = append(entries[:i:i], entries[i+1:]...)
			break
		}
	}
	if len(c.handlers[sub.event]) == 0 {
		delete(c.handlers, sub.event)
	}
}

// Emit sends a fire-and-forget event. When the channel is not connected the
// emission is dropped; a warning is the only observable effect.
func (c *Channel) Emit(ctx context.Context, event string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		if c.logg != nil {
			c.logg.Error(ctx, "realtime emit payload not serializable", err)
		}
		return
	}

	c.mu.Lock()
	connected := c.connected
	send := c.send
	c.mu.Unlock()

	if !connected || send == nil {
		c.metrics.IncEmitDropped(event)
		if c.logg != nil {
			c.logg.Warn(c.logg.WithEvent(ctx, event), "realtime emit dropped: channel not connected")
		}
		return
	}

	select {
	case send <- Frame{Event: event, Payload: raw}:
	default:
		c.metrics.IncEmitDropped(event)
		if c.logg != nil {
			c.logg.Warn(c.logg.WithEvent(ctx, event), "realtime emit dropped: send buffer full")
		}
	}
}

func (c *Channel) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer c.markDisconnected(conn, done)

	conn.SetReadDeadline(time.Now().Add(c.pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(c.pongWait))
		return nil
	})

	for {
		select {
		case <-done:
			return
		default:
		}

		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				if c.logg != nil {
					c.logg.Error(context.Background(), "realtime read failed", err)
				}
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(c.pongWait))
		c.dispatch(frame)
	}
}

func (c *Channel) dispatch(frame Frame) {
	c.mu.Lock()
	entries := append([]handlerEntry(nil), c.handlers[frame.Event]...)
	c.mu.Unlock()

	if len(entries) == 0 {
		return
	}
	c.metrics.IncEventApplied(frame.Event)
	for _, entry := range entries {
		entry.fn(frame.Payload)
	}
}

func (c *Channel) writeLoop(conn *websocket.Conn, send chan Frame, done chan struct{}) {
	pingPeriod := c.pongWait * 9 / 10
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case <-done:
			return
		case frame := <-send:
			conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := conn.WriteJSON(frame); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// markDisconnected flips state when the read loop dies underneath us, so a
// later Connect can establish a fresh connection. Handlers registered before
// the drop are discarded, matching Disconnect semantics.
func (c *Channel) markDisconnected(conn *websocket.Conn, done chan struct{}) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
		c.connected = false
		c.send = nil
		c.done = nil
		c.handlers = map[string][]handlerEntry{}
		close(done)
	}
	c.mu.Unlock()
	conn.Close()
}
