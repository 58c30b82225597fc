package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"ltemon/internal/bus"
	"ltemon/internal/connectors"
	"ltemon/internal/domain"
)

// Server exposes the latest snapshot and the measurement history over HTTP,
// and pushes live updates to websocket clients.
type Server struct {
	logger *slog.Logger
	bus    bus.MessageBus
	store  *domain.SignalStore
	repo   domain.MeasurementRepository

	upgrader  websocket.Upgrader
	clientsMu sync.Mutex
	clients   map[*websocket.Conn]struct{}

	httpServer *http.Server
}

func New(logger *slog.Logger, b bus.MessageBus, store *domain.SignalStore, repo domain.MeasurementRepository, listen string) *Server {
	s := &Server{
		logger:  logger,
		bus:     b,
		store:   store,
		repo:    repo,
		clients: make(map[*websocket.Conn]struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/current", s.handleCurrent)
	mux.HandleFunc("/history", s.handleHistory)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", s.handleHealthz)

	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// measurementView is the JSON shape served for one measurement. Unavailable
// fields are null.
type measurementView struct {
	ID             string    `json:"id"`
	Source         string    `json:"source"`
	SignalStrength *int32    `json:"signal_strength"`
	RSRP           *int32    `json:"rsrp"`
	RSRQ           *int32    `json:"rsrq"`
	RSSNR          *int32    `json:"rssnr"`
	CQI            *int32    `json:"cqi"`
	TimingAdvance  *int32    `json:"timing_advance"`
	Level          int       `json:"level"`
	LevelLabel     string    `json:"level_label"`
	Asu            int       `json:"asu"`
	ReceivedAt     time.Time `json:"received_at"`
}

func viewOf(m domain.Measurement) measurementView {
	return measurementView{
		ID:             m.ID,
		Source:         m.Source,
		SignalStrength: optionalField(m.Signal.SignalStrengthValue()),
		RSRP:           optionalField(m.Signal.RSRPValue()),
		RSRQ:           optionalField(m.Signal.RSRQValue()),
		RSSNR:          optionalField(m.Signal.RSSNRValue()),
		CQI:            optionalField(m.Signal.CQIValue()),
		TimingAdvance:  optionalField(m.Signal.TimingAdvanceValue()),
		Level:          int(m.Signal.Level()),
		LevelLabel:     m.Signal.Level().String(),
		Asu:            m.Signal.AsuLevel(),
		ReceivedAt:     m.ReceivedAt,
	}
}

func optionalField(v int32, ok bool) *int32 {
	if !ok {
		return nil
	}

	return &v
}

func (s *Server) Start(ctx context.Context) {
	go s.runBroadcaster(ctx)

	go func() {
		s.logger.Info("http server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server failed", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
	}()
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	m, ok := s.store.Latest()
	if !ok {
		http.Error(w, "no measurement received yet", http.StatusNotFound)

		return
	}
	writeJSON(w, s.logger, viewOf(m))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)

			return
		}
		limit = parsed
	}

	measurements, err := s.repo.ListRecent(r.Context(), limit)
	if err != nil {
		s.logger.Error("list history failed", "error", err)
		http.Error(w, "history unavailable", http.StatusInternalServerError)

		return
	}

	views := make([]measurementView, 0, len(measurements))
	for _, m := range measurements {
		views = append(views, viewOf(m))
	}
	writeJSON(w, s.logger, views)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)

		return
	}

	// The broadcaster is the only goroutine allowed to write once the
	// connection is registered: gorilla/websocket permits a single
	// concurrent writer, so the initial snapshot must go out first.
	if m, ok := s.store.Latest(); ok {
		if err := conn.WriteJSON(viewOf(m)); err != nil {
			_ = conn.Close()

			return
		}
	}

	s.clientsMu.Lock()
	s.clients[conn] = struct{}{}
	count := len(s.clients)
	s.clientsMu.Unlock()
	s.logger.Debug("websocket client connected", "clients", count)
}

func (s *Server) runBroadcaster(ctx context.Context) {
	sub := s.bus.Subscribe(connectors.TopicSignalUpdate)
	defer s.bus.Unsubscribe(sub, connectors.TopicSignalUpdate)

	for {
		select {
		case <-ctx.Done():
			s.closeClients()

			return
		case raw, ok := <-sub:
			if !ok {
				return
			}
			m, ok := raw.(domain.Measurement)
			if !ok {
				continue
			}
			s.broadcast(viewOf(m))
		}
	}
}

func (s *Server) broadcast(view measurementView) {
	s.clientsMu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		conns = append(conns, conn)
	}
	s.clientsMu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(view); err != nil {
			s.logger.Debug("websocket write failed, dropping client", "error", err)
			s.dropClient(conn)
		}
	}
}

func (s *Server) dropClient(conn *websocket.Conn) {
	_ = conn.Close()
	s.clientsMu.Lock()
	delete(s.clients, conn)
	s.clientsMu.Unlock()
}

func (s *Server) closeClients() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for conn := range s.clients {
		_ = conn.Close()
	}
	s.clients = make(map[*websocket.Conn]struct{})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("encode response failed", "error", err)
	}
}
