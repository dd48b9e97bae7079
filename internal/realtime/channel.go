package realtime

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Makepad-fr/clientdash/internal/errors"
	"github.com/Makepad-fr/clientdash/internal/logging"
	"github.com/Makepad-fr/clientdash/internal/model"
)

// Wire event names.
const (
	WireCreated = "client:created"
	WireUpdated = "client:updated"
)

// Reconnect defaults, matching the dashboard's original socket settings.
const (
	DefaultReconnectAttempts = 5
	DefaultReconnectDelay    = time.Second
	DefaultHandshakeTimeout  = 5 * time.Second
	DefaultPongWait          = 30 * time.Second
	DefaultPingPeriod        = DefaultPongWait * 9 / 10
	writeWait                = time.Second
)

// Frame is one websocket message.
type Frame struct {
	Event string       `json:"event"`
	Data  model.Record `json:"data"`
}

// Handler receives the record carried by a push event.
type Handler func(model.Record)

// Channel is a push-update connection. All methods are safe for concurrent use.
type Channel struct {
	url      string
	attempts int
	delay    time.Duration
	ping     time.Duration
	pongWait time.Duration
	dialer   *websocket.Dialer
	log      *logging.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	cancel context.CancelFunc
	done   chan struct{} // closed when the current session's goroutine exits

	connected atomic.Bool
	dials     atomic.Int64

	hmu       sync.RWMutex
	onCreated []Handler
	onUpdated []Handler
}

// Option configures a Channel.
type Option func(*Channel)

// WithReconnect sets how many redials follow a failure and the fixed pause
// between them. attempts < 0 is treated as 0.
func WithReconnect(attempts int, delay time.Duration) Option {
	return func(c *Channel) {
		if attempts < 0 {
			attempts = 0
		}
		c.attempts = attempts
		c.delay = delay
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Channel) {
		if l != nil {
			c.log = l
		}
	}
}

// WithHeartbeat sets how often the channel pings the peer and how long it
// waits for any frame before treating the socket as dead. Non-positive
// values keep the defaults; ping is capped below pongWait.
func WithHeartbeat(ping, pongWait time.Duration) Option {
	return func(c *Channel) {
		if pongWait > 0 {
			c.pongWait = pongWait
		}
		if ping > 0 {
			c.ping = ping
		}
		if c.ping >= c.pongWait {
			c.ping = max(c.pongWait*9/10, 1)
		}
	}
}

// New creates a disconnected Channel. http(s) URLs are rewritten to ws(s)
// and an empty path becomes /ws.
func New(rawURL string, opts ...Option) *Channel {
	c := &Channel{
		url:      NormalizeURL(rawURL),
		attempts: DefaultReconnectAttempts,
		delay:    DefaultReconnectDelay,
		ping:     DefaultPingPeriod,
		pongWait: DefaultPongWait,
		dialer: &websocket.Dialer{
			HandshakeTimeout: DefaultHandshakeTimeout,
		},
		log: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithComponent("realtime").With("url", c.url)
	return c
}

// NormalizeURL maps http->ws and https->wss and defaults the path to /ws.
func NormalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String()
}

// URL returns the websocket URL the channel dials.
func (c *Channel) URL() string { return c.url }

// OnCreated registers a handler for client:created events.
func (c *Channel) OnCreated(h Handler) {
	c.hmu.Lock()
	defer c.hmu.Unlock()
	c.onCreated = append(c.onCreated, h)
}

// OnUpdated registers a handler for client:updated events.
func (c *Channel) OnUpdated(h Handler) {
	c.hmu.Lock()
	defer c.hmu.Unlock()
	c.onUpdated = append(c.onUpdated, h)
}

// IsConnected reports whether a socket is open right now.
func (c *Channel) IsConnected() bool {
	return c.connected.Load()
}

// Dials returns how many dial attempts have been made, for diagnostics.
func (c *Channel) Dials() int64 {
	return c.dials.Load()
}

// Connect starts a connection session. It is a no-op while a session is
// connected or still retrying.
func (c *Channel) Connect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done != nil {
		select {
		case <-c.done:
			// previous session gave up; start over
			c.cancel()
		default:
			c.log.Debug("connect ignored, already running")
			return
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done
	go c.run(ctx, done)
}

// Disconnect ends the current session and closes the socket. Safe to call
// repeatedly and before any Connect.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	cancel, done, conn := c.cancel, c.done, c.conn
	c.cancel, c.done, c.conn = nil, nil, nil
	if cancel != nil {
		cancel()
	}
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	if conn != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	}
	<-done
	c.log.Info("disconnected")
}

func (c *Channel) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	failures := 0
	for {
		c.dials.Add(1)
		conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
			c.log.Warn("connect failed",
				"attempt", failures, "max_retries", c.attempts,
				"error", errors.NewChannelError("dial", c.url, err).Error())
			if failures > c.attempts {
				c.log.Error("giving up after retries", "retries", c.attempts)
				return
			}
			if !pause(ctx, c.delay) {
				return
			}
			continue
		}

		if !c.attach(ctx, conn) {
			return
		}
		failures = 0
		c.connected.Store(true)
		c.log.Info("connected")

		stop := make(chan struct{})
		go c.keepAlive(conn, stop)
		c.readLoop(ctx, conn)
		close(stop)

		c.connected.Store(false)
		c.detach(conn)
		if ctx.Err() != nil {
			return
		}
		c.log.Warn("connection lost, reconnecting", "delay", c.delay.String())
		if !pause(ctx, c.delay) {
			return
		}
	}
}

// attach publishes conn for Disconnect, unless the session was cancelled
// while dialing.
func (c *Channel) attach(ctx context.Context, conn *websocket.Conn) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ctx.Err() != nil {
		_ = conn.Close()
		return false
	}
	c.conn = conn
	return true
}

func (c *Channel) detach(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
	_ = conn.Close()
}

// keepAlive pings the peer until stop is closed. A failed ping is left for
// the read deadline to report.
func (c *Channel) keepAlive(conn *websocket.Conn, stop <-chan struct{}) {
	t := time.NewTicker(c.ping)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.log.Debug("ping failed", "error", err.Error())
			}
		}
	}
}

// readLoop dispatches frames until the socket fails. Every pong or data frame
// pushes the read deadline forward, so a silent peer ends the loop.
func (c *Channel) readLoop(ctx context.Context, conn *websocket.Conn) {
	extend := func() { _ = conn.SetReadDeadline(time.Now().Add(c.pongWait)) }
	extend()
	conn.SetPongHandler(func(string) error {
		extend()
		return nil
	})
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Warn("read failed", "error", errors.NewChannelError("read", c.url, err).Error())
			}
			return
		}
		extend()
		c.dispatch(data)
	}
}

func (c *Channel) dispatch(data []byte) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		c.log.Warn("malformed frame skipped", "error", errors.NewChannelError("decode", c.url, err).Error())
		return
	}

	c.hmu.RLock()
	var hs []Handler
	switch f.Event {
	case WireCreated:
		hs = append(hs, c.onCreated...)
	case WireUpdated:
		hs = append(hs, c.onUpdated...)
	default:
		c.hmu.RUnlock()
		c.log.Debug("unknown event skipped", "event", f.Event)
		return
	}
	c.hmu.RUnlock()

	for _, h := range hs {
		c.safeCall(h, f)
	}
}

func (c *Channel) safeCall(h Handler, f Frame) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("event handler panicked", "event", f.Event, "id", f.Data.ID, "panic", r)
		}
	}()
	h(f.Data)
}

// pause sleeps for d, returning false if ctx ends first.
func pause(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
