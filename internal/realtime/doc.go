// Package realtime owns the dashboard's push connection: one websocket to a
// server emitting "client:created" and "client:updated" frames.
//
// # Lifecycle
//
// A Channel is constructed explicitly and owned by the session that uses it.
// Connect starts a background goroutine that dials, reads frames and, when the
// connection drops, redials with a fixed delay up to a bounded number of
// attempts. Transport failures are logged, never returned; IsConnected reports
// the live state. Disconnect stops the goroutine and closes the socket; a later
// Connect begins a fresh session.
//
// # Delivery
//
// Handlers registered with OnCreated and OnUpdated live on the Channel, not on
// the socket, so they survive reconnects. They run on the read goroutine, one
// frame at a time, in arrival order. Queue turns those callbacks into a single
// FIFO of typed Events for consumers that prefer message passing:
//
//	ch := realtime.New("ws://localhost:4000/ws")
//	q := realtime.NewQueue(ch, 64)
//	ch.Connect()
//	defer ch.Disconnect()
//	defer q.Close()
//	select {
//	case ev := <-q.Events():
//		...
//	case <-q.Done():
//	}
//
// Close the queue before disconnecting: a full queue blocks the read goroutine.
//
// # Wire format
//
// Text frames carrying {"event": "client:created", "data": {<record>}}.
// Unknown event names and malformed frames are logged and skipped.
package realtime
