package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Makepad-fr/clientdash/internal/model"
)

// pushServer is a minimal websocket endpoint that records connections and
// lets tests push frames to them.
type pushServer struct {
	*httptest.Server

	mu       sync.Mutex
	conns    []*websocket.Conn
	accepted int
}

func newPushServer(t *testing.T) *pushServer {
	t.Helper()
	ps := &pushServer{}
	up := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	ps.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ps.mu.Lock()
		ps.conns = append(ps.conns, conn)
		ps.accepted++
		ps.mu.Unlock()
		// drain until the client goes away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(ps.Close)
	return ps
}

func (ps *pushServer) wsURL() string {
	return "ws" + strings.TrimPrefix(ps.URL, "http") + "/ws"
}

func (ps *pushServer) Accepted() int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.accepted
}

func (ps *pushServer) sendRaw(t *testing.T, data string) {
	t.Helper()
	ps.mu.Lock()
	defer ps.mu.Unlock()
	for _, c := range ps.conns {
		if err := c.WriteMessage(websocket.TextMessage, []byte(data)); err != nil {
			t.Logf("write: %v", err)
		}
	}
}

func (ps *pushServer) send(t *testing.T, event string, r model.Record) {
	t.Helper()
	b, err := json.Marshal(Frame{Event: event, Data: r})
	if err != nil {
		t.Fatal(err)
	}
	ps.sendRaw(t, string(b))
}

func (ps *pushServer) dropAll() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	for _, c := range ps.conns {
		_ = c.Close()
	}
	ps.conns = nil
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func next(t *testing.T, q *Queue) Event {
	t.Helper()
	select {
	case e := <-q.Events():
		return e
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestChannel_DeliversEventsInOrder(t *testing.T) {
	ps := newPushServer(t)
	ch := New(ps.wsURL(), WithReconnect(0, 10*time.Millisecond))
	q := NewQueue(ch, 8)
	defer ch.Disconnect()
	defer q.Close()

	var mu sync.Mutex
	var created []string
	ch.OnCreated(func(r model.Record) {
		mu.Lock()
		created = append(created, r.ID)
		mu.Unlock()
	})

	ch.Connect()
	eventually(t, "connected", ch.IsConnected)
	eventually(t, "server accepted", func() bool { return ps.Accepted() == 1 })

	ps.send(t, WireCreated, model.Record{ID: "a", Status: model.StatusPending})
	ps.send(t, WireUpdated, model.Record{ID: "a", Status: model.StatusConfirmed})
	ps.send(t, WireCreated, model.Record{ID: "b", Status: model.StatusPending})

	want := []Event{
		{Kind: KindCreated, Record: model.Record{ID: "a", Status: model.StatusPending}},
		{Kind: KindUpdated, Record: model.Record{ID: "a", Status: model.StatusConfirmed}},
		{Kind: KindCreated, Record: model.Record{ID: "b", Status: model.StatusPending}},
	}
	for i, w := range want {
		got := next(t, q)
		if got.Kind != w.Kind || got.Record.ID != w.Record.ID || got.Record.Status != w.Record.Status {
			t.Fatalf("event %d = %+v, want %+v", i, got, w)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if strings.Join(created, ",") != "a,b" {
		t.Errorf("OnCreated saw %v, want [a b]", created)
	}
}

func TestChannel_ConnectIsIdempotent(t *testing.T) {
	ps := newPushServer(t)
	ch := New(ps.wsURL())
	defer ch.Disconnect()

	ch.Connect()
	eventually(t, "connected", ch.IsConnected)
	ch.Connect()
	ch.Connect()

	time.Sleep(50 * time.Millisecond)
	if got := ps.Accepted(); got != 1 {
		t.Errorf("server accepted %d connections, want 1", got)
	}
	if got := ch.Dials(); got != 1 {
		t.Errorf("dials = %d, want 1", got)
	}
}

func TestChannel_DisconnectIsSafeAndFresh(t *testing.T) {
	ps := newPushServer(t)
	ch := New(ps.wsURL())

	ch.Disconnect() // never connected

	ch.Connect()
	eventually(t, "connected", ch.IsConnected)

	ch.Disconnect()
	if ch.IsConnected() {
		t.Error("IsConnected should be false right after Disconnect")
	}
	ch.Disconnect()

	ch.Connect()
	eventually(t, "reconnected", ch.IsConnected)
	eventually(t, "a fresh second connection", func() bool { return ps.Accepted() == 2 })
	ch.Disconnect()
}

func TestChannel_ReconnectsAfterDrop(t *testing.T) {
	ps := newPushServer(t)
	ch := New(ps.wsURL(), WithReconnect(3, 10*time.Millisecond))
	defer ch.Disconnect()

	ch.Connect()
	eventually(t, "connected", ch.IsConnected)

	ps.dropAll()
	eventually(t, "second connection", func() bool { return ps.Accepted() == 2 })
	eventually(t, "connected again", ch.IsConnected)
}

func TestChannel_GivesUpAfterBoundedRetries(t *testing.T) {
	ps := newPushServer(t)
	url := ps.wsURL()
	ps.Close() // nothing listens any more

	ch := New(url, WithReconnect(2, 5*time.Millisecond))
	defer ch.Disconnect()

	ch.Connect()
	eventually(t, "three dials", func() bool { return ch.Dials() == 3 })
	time.Sleep(50 * time.Millisecond)
	if got := ch.Dials(); got != 3 {
		t.Errorf("dials = %d, want 1 initial + 2 retries", got)
	}
	if ch.IsConnected() {
		t.Error("IsConnected should be false after giving up")
	}

	ch.Connect()
	eventually(t, "new session dials", func() bool { return ch.Dials() == 6 })
}

func TestChannel_SilentPeerTriggersReconnect(t *testing.T) {
	var reqs atomic.Int32
	release := make(chan struct{})
	up := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqs.Add(1) > 1 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		// never read, so pings go unanswered
		<-release
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	ch := New("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws",
		WithReconnect(0, 5*time.Millisecond),
		WithHeartbeat(20*time.Millisecond, 100*time.Millisecond))
	defer ch.Disconnect()

	ch.Connect()
	eventually(t, "connected", ch.IsConnected)
	eventually(t, "dead peer noticed", func() bool { return !ch.IsConnected() })
	eventually(t, "redial", func() bool { return ch.Dials() >= 2 })
}

func TestChannel_HeartbeatKeepsIdleSocketOpen(t *testing.T) {
	ps := newPushServer(t)
	ch := New(ps.wsURL(), WithHeartbeat(20*time.Millisecond, 100*time.Millisecond))
	defer ch.Disconnect()

	ch.Connect()
	eventually(t, "connected", ch.IsConnected)
	time.Sleep(400 * time.Millisecond)
	if !ch.IsConnected() {
		t.Error("an answering peer should stay connected")
	}
	if got := ps.Accepted(); got != 1 {
		t.Errorf("accepted = %d, want a single connection", got)
	}
}

func TestChannel_ConnectRacingDisconnect(t *testing.T) {
	ps := newPushServer(t)
	ch := New(ps.wsURL(), WithReconnect(3, 5*time.Millisecond))
	defer ch.Disconnect()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch.Connect()
		}()
		ch.Disconnect()
	}
	wg.Wait()

	ch.Connect()
	eventually(t, "connected", ch.IsConnected)
	time.Sleep(50 * time.Millisecond)
	if !ch.IsConnected() {
		t.Error("a live session must not be reported as disconnected")
	}
}

func TestChannel_SkipsBadFramesAndSurvivesPanics(t *testing.T) {
	ps := newPushServer(t)
	ch := New(ps.wsURL())
	q := NewQueue(ch, 8)
	defer ch.Disconnect()
	defer q.Close()

	ch.OnUpdated(func(model.Record) { panic("handler bug") })

	ch.Connect()
	eventually(t, "connected", ch.IsConnected)
	eventually(t, "server accepted", func() bool { return ps.Accepted() == 1 })

	ps.sendRaw(t, "not json")
	ps.sendRaw(t, `{"event":"client:deleted","data":{"id":"x"}}`)
	ps.send(t, WireUpdated, model.Record{ID: "ok"})

	got := next(t, q)
	if got.Kind != KindUpdated || got.Record.ID != "ok" {
		t.Fatalf("got %+v, want the valid update", got)
	}
	if !ch.IsConnected() {
		t.Error("a panicking handler must not drop the connection")
	}
}

func TestQueue_CloseReleasesProducer(t *testing.T) {
	ch := New("ws://127.0.0.1:1/ws")
	q := NewQueue(ch, 0)

	released := make(chan struct{})
	go func() {
		q.push(Event{Kind: KindCreated})
		close(released)
	}()
	q.Close()
	q.Close()

	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("push should return once the queue is closed")
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := map[string]string{
		"http://localhost:4000":        "ws://localhost:4000/ws",
		"https://example.com/":         "wss://example.com/ws",
		"ws://localhost:4000/ws":       "ws://localhost:4000/ws",
		"ws://localhost:4000/realtime": "ws://localhost:4000/realtime",
	}
	for in, want := range tests {
		if got := NormalizeURL(in); got != want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", in, got, want)
		}
	}
}
