// Package inspect serves a live view of a watched model over HTTP.
//
// The server exposes the model snapshot and dependency set as JSON and
// streams change notifications to websocket consumers:
//
//	srv := inspect.New()
//	obj, err := ripple.Watch(model, srv.Sink())
//	srv.Observe(obj)
//	http.ListenAndServe(":8090", srv.Handler())
//
// Compose Sink with pkg/middleware decorators and the application's own
// sink to keep all consumers fed from one notification stream.
package inspect

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ripple-dev/ripple/pkg/ripple"
)

// Event is the JSON form of one change notification.
type Event struct {
	// Object is the ID of the wrapper whose property changed.
	Object uint64 `json:"object"`

	// Key is the property key.
	Key string `json:"key"`

	// Op is "create", "update", or "delete"; empty for pulses.
	Op string `json:"op,omitempty"`

	Old any `json:"old,omitempty"`
	New any `json:"new,omitempty"`

	// Pulse marks an invalidation pulse for a derived function.
	Pulse bool `json:"pulse,omitempty"`
}

// Server is the inspector. Zero value is not usable; call New.
type Server struct {
	mu  sync.RWMutex
	obj *ripple.Object

	logger   *slog.Logger
	hub      *hub
	upgrader websocket.Upgrader
}

// New creates an inspector server. Attach the Object to serve with
// Observe; the Sink works immediately.
func New() *Server {
	return &Server{
		logger: slog.Default().With("component", "inspect"),
		hub:    newHub(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// SetLogger replaces the server's logger.
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Observe sets the Object served by the snapshot and dependency
// endpoints.
func (s *Server) Observe(obj *ripple.Object) {
	s.mu.Lock()
	s.obj = obj
	s.mu.Unlock()
}

// Sink returns the broadcast tap: a ripple.Sink that converts each
// notification to an Event and fans it out to connected websocket
// consumers.
func (s *Server) Sink() ripple.Sink {
	return func(target *ripple.Object, key string, change *ripple.Change) {
		e := Event{Object: target.ID(), Key: key}
		if change == nil {
			e.Pulse = true
		} else {
			e.Op = change.Op.String()
			e.Old = change.OldValue
			e.New = change.NewValue
		}
		s.hub.broadcast(e)
	}
}

// Handler returns the inspector's HTTP handler:
//
//	GET /model    model snapshot as JSON
//	GET /deps     dependency set as JSON
//	GET /ws       websocket stream of change events
//	GET /metrics  Prometheus metrics
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/model", s.handleModel)
	r.Get("/deps", s.handleDeps)
	r.Get("/ws", s.handleWS)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (s *Server) object() *ripple.Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.obj
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	obj := s.object()
	if obj == nil {
		http.Error(w, "no model attached", http.StatusServiceUnavailable)
		return
	}
	s.writeJSON(w, obj.Snapshot())
}

func (s *Server) handleDeps(w http.ResponseWriter, r *http.Request) {
	obj := s.object()
	if obj == nil {
		http.Error(w, "no model attached", http.StatusServiceUnavailable)
		return
	}
	s.writeJSON(w, obj.Dependencies())
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	c := s.hub.add()
	defer s.hub.remove(c)
	s.logger.Info("inspector connected", "remote", conn.RemoteAddr())

	go func() {
		for e := range c.send {
			if err := conn.WriteJSON(e); err != nil {
				// Unblock the read loop so the deferred remove
				// unregisters the dead consumer.
				conn.Close()
				return
			}
		}
	}()

	// Consumers never send application data; block until the connection
	// drops so the deferred remove tears the queue down.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				s.logger.Error("websocket read error", "error", err)
			}
			return
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}
