// Package server is a mock record store with push updates. It serves the
// HTTP API the dashboard's remote store speaks and broadcasts every change
// over websockets in the realtime wire format.
package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Makepad-fr/clientdash/internal/event"
	"github.com/Makepad-fr/clientdash/internal/logging"
	"github.com/Makepad-fr/clientdash/internal/realtime"
	"github.com/Makepad-fr/clientdash/internal/store/memstore"
)

// Server wires a memstore, an event bus and a websocket hub behind a router.
type Server struct {
	store *memstore.Store
	bus   *event.Bus
	hub   *Hub
	log   *logging.Logger
	sub   string
}

// New creates a Server. Every RecordEvent published on bus is broadcast to
// connected sockets.
func New(st *memstore.Store, bus *event.Bus, log *logging.Logger) *Server {
	if log == nil {
		log = logging.NopLogger()
	}
	log = log.WithComponent("server")
	s := &Server{
		store: st,
		bus:   bus,
		hub:   NewHub(log),
		log:   log,
	}
	s.sub = bus.SubscribeAll(func(e event.Event) {
		re, ok := e.(event.RecordEvent)
		if !ok {
			return
		}
		s.hub.Broadcast(realtime.Frame{Event: e.EventType(), Data: re.Record})
	})
	return s
}

// Close stops broadcasting bus events and disconnects every socket.
func (s *Server) Close() {
	s.bus.Unsubscribe(s.sub)
	s.hub.Close()
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub { return s.hub }

// Router returns the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintln(w, "OK")
	}).Methods("GET")
	r.HandleFunc("/clients", s.listClients).Methods("GET")
	r.HandleFunc("/clients", s.createClient).Methods("POST")
	r.HandleFunc("/clients/{id}", s.patchClient).Methods("PATCH")
	r.Handle("/ws", s.hub).Methods("GET")
	r.Use(s.logRequests)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
