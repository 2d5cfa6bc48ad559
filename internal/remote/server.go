// Package remote exposes a small HTTP surface for driving the viewer from
// another device. Commands are handed to a sink; the UI publishes state back.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/jask/slideview/internal/logging"
)

type Action string

const (
	ActionNext       Action = "next"
	ActionPrevious   Action = "previous"
	ActionFullscreen Action = "fullscreen"
	ActionJump       Action = "jump"
)

// Command is a navigation request received over HTTP.
type Command struct {
	Action Action `json:"action"`
	Index  int    `json:"index,omitempty"`
}

// State is the viewer position as seen by remote clients.
type State struct {
	PresentationID string `json:"presentationId"`
	Index          int    `json:"index"`
	Total          int    `json:"total"`
	SlideID        string `json:"slideId"`
	SlideType      string `json:"slideType"`
	Direction      string `json:"direction"`
	Fullscreen     bool   `json:"fullscreen"`
	// Active is false once the viewer has left the presentation; the
	// other fields are then zero.
	Active         bool   `json:"active"`
}

// Server routes remote commands to a sink and streams state to websocket
// clients.
type Server struct {
	router *mux.Router
	hub    *Hub
	sink   func(Command)
	log    *log.Logger

	mu    sync.RWMutex
	state State

	notify    chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	upgrader websocket.Upgrader
}

// New builds a server delivering commands to sink. A nil logger discards.
// Close must be called to stop the broadcast goroutine.
func New(sink func(Command), logger *log.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		hub:    newHub(logger),
		sink:   sink,
		log:    logger,
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	r := mux.NewRouter()
	r.HandleFunc("/api/next", s.command(ActionNext)).Methods(http.MethodPost)
	r.HandleFunc("/api/previous", s.command(ActionPrevious)).Methods(http.MethodPost)
	r.HandleFunc("/api/fullscreen", s.command(ActionFullscreen)).Methods(http.MethodPost)
	r.HandleFunc("/api/jump/{index}", s.jump).Methods(http.MethodPost)
	r.HandleFunc("/api/state", s.getState).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.websocket)
	s.router = r
	go s.pump()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Publish records the current state and schedules a push to websocket
// clients. It never blocks.
func (s *Server) Publish(st State) {
	st.Active = true
	s.set(st)
}

// Clear marks that no presentation is open and pushes the idle state.
func (s *Server) Clear() {
	s.set(State{})
}

func (s *Server) set(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// pump broadcasts the latest state after each change; bursts collapse
// into one write.
func (s *Server) pump() {
	for {
		select {
		case <-s.notify:
			st, _ := s.Snapshot()
			s.hub.broadcast(st)
		case <-s.done:
			return
		}
	}
}

// Close stops broadcasting and disconnects websocket clients.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.hub.closeAll()
	})
}

// Snapshot returns the last published state and whether a presentation is
// open.
func (s *Server) Snapshot() (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.state.Active
}

// Clients reports connected websocket clients.
func (s *Server) Clients() int { return s.hub.Len() }

// Serve serves on ln until ctx is done, then shuts down and closes clients.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.log.Info("remote control listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		s.hub.closeAll()
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.hub.closeAll()
	err := srv.Shutdown(shutdownCtx)
	if serveErr := <-errc; serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) && err == nil {
		err = serveErr
	}
	return err
}

func (s *Server) command(a Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.Snapshot(); !ok {
			http.Error(w, "no presentation open", http.StatusConflict)
			return
		}
		s.dispatch(w, Command{Action: a})
	}
}

func (s *Server) jump(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		http.Error(w, "index must be an integer", http.StatusBadRequest)
		return
	}
	st, ok := s.Snapshot()
	if !ok {
		http.Error(w, "no presentation open", http.StatusConflict)
		return
	}
	if idx < 0 || idx >= st.Total {
		http.Error(w, "index out of range", http.StatusConflict)
		return
	}
	s.dispatch(w, Command{Action: ActionJump, Index: idx})
}

func (s *Server) dispatch(w http.ResponseWriter, c Command) {
	s.log.Debug("remote command", "action", c.Action, "index", c.Index)
	if s.sink != nil {
		s.sink(c)
	}
	writeJSON(w, http.StatusAccepted, c)
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	st, ok := s.Snapshot()
	if !ok {
		http.Error(w, "no presentation open", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) websocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	st, _ := s.Snapshot()
	s.hub.add(conn, st)
	defer s.hub.remove(conn)

	// clients may also send commands as {"action": "next"}
	for {
		var c Command
		if err := conn.ReadJSON(&c); err != nil {
			return
		}
		if !s.valid(c) {
			continue
		}
		if s.sink != nil {
			s.sink(c)
		}
	}
}

func (s *Server) valid(c Command) bool {
	st, ok := s.Snapshot()
	if !ok {
		return false
	}
	switch c.Action {
	case ActionNext, ActionPrevious, ActionFullscreen:
		return true
	case ActionJump:
		return c.Index >= 0 && c.Index < st.Total
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
