// Package bridge serves atoms over HTTP and WebSocket so external clients
// can observe value changes. Each WebSocket connection holds one
// subscription, torn down by a per-connection disposer when either side
// closes.
package bridge

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/statekit-dev/statekit/pkg/atom"
	"github.com/statekit-dev/statekit/pkg/disposer"
)

// Frame is one value update pushed to a WebSocket client.
type Frame struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
	Seq   uint64 `json:"seq"`
}

// Server publishes named atoms. The zero value is not usable; create one
// with NewServer.
type Server struct {
	log *slog.Logger

	mu      sync.RWMutex
	sources map[string]atom.Source

	upgrader websocket.Upgrader
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger. Default: slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// NewServer creates a Server with no published atoms.
func NewServer(opts ...Option) *Server {
	s := &Server{
		log:     slog.Default(),
		sources: make(map[string]atom.Source),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish registers src under name, replacing any previous registration.
func (s *Server) Publish(name string, src atom.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[name] = src
}

// Handler returns the HTTP surface:
//
//	GET /atoms            — published names
//	GET /atoms/{name}     — current value
//	GET /atoms/{name}/ws  — WebSocket stream of value updates
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/atoms", s.handleIndex)
	r.Get("/atoms/{name}", s.handleValue)
	r.Get("/atoms/{name}/ws", s.handleWS)
	return r
}

func (s *Server) lookup(name string) (atom.Source, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, ok := s.sources[name]
	return src, ok
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	names := make([]string, 0, len(s.sources))
	for name := range s.sources {
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)

	writeJSON(w, http.StatusOK, map[string]any{"atoms": names})
}

func (s *Server) handleValue(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	src, ok := s.lookup(name)
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, Frame{Name: name, Value: src.Load()})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	src, ok := s.lookup(name)
	if !ok {
		http.NotFound(w, r)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "atom", name, "error", err)
		return
	}

	d := disposer.New()
	updates := make(chan Frame, 32)
	var seq atomic.Uint64

	push := func() {
		f := Frame{Name: name, Value: src.Load(), Seq: seq.Add(1)}
		select {
		case updates <- f:
		default:
			// Slow client: drop intermediate values, the stream stays
			// eventually consistent via later frames.
			s.log.Debug("dropping frame for slow client", "atom", name, "seq", f.Seq)
		}
	}

	push()
	d.AddDispose(src.Subscribe(push))

	// Write loop. Exits when the disposer is disposed or a write fails.
	go func() {
		defer conn.Close()
		for {
			select {
			case f := <-updates:
				conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteJSON(f); err != nil {
					s.log.Debug("websocket write failed", "atom", name, "error", err)
					d.Dispose()
					return
				}
			case <-d.Context().Done():
				return
			}
		}
	}()

	// Read loop on the handler goroutine, solely to observe the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	d.Dispose()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
