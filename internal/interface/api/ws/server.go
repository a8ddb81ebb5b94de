package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"incidentBot/internal/app/events"
)

// Server exposes the incident dashboard: a WebSocket stream of incident events
// plus a small JSON API over the journal.
type Server struct {
	addr     string
	upgrader websocket.Upgrader
	log      *slog.Logger

	mu      sync.RWMutex
	clients map[*wsClient]struct{}

	httpSrv *http.Server
	api     *apiHandlers
}

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

type envelope struct {
	Type string             `json:"type"`
	Data events.IncidentDTO `json:"data"`
}

func NewServer(cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr: cfg.addr(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log:     logger.With("component", "ws"),
		clients: make(map[*wsClient]struct{}),
		api:     newAPIHandlers(cfg),
	}
}

// Handler returns the HTTP routes. Connections opened through it live until
// ctx is done or the peer disconnects.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/incidents", func(w http.ResponseWriter, r *http.Request) {
		s.handleWS(ctx, w, r)
	})
	s.api.register(mux)
	return mux
}

// Start runs the HTTP server and blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.httpSrv = srv
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Warn("shutdown error", "error", err)
		}
		s.closeClients()
	}()

	s.log.Info("listening", "addr", s.addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

func (s *Server) handleWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade error", "error", err)
		return
	}

	client := &wsClient{conn: conn}

	s.mu.Lock()
	s.clients[client] = struct{}{}
	clientCount := len(s.clients)
	s.mu.Unlock()

	s.log.Info("client connected", "remote", r.RemoteAddr, "clients", clientCount)

	go s.handleClient(ctx, client)
}

// handleClient drains the connection so close frames are processed. The
// dashboard is read-only; anything a client sends is discarded.
func (s *Server) handleClient(ctx context.Context, client *wsClient) {
	defer s.removeClient(client)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if _, _, err := client.conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("read error", "error", err)
			}
			return
		}
	}
}

func (s *Server) removeClient(client *wsClient) {
	s.mu.Lock()
	_, ok := s.clients[client]
	delete(s.clients, client)
	clientCount := len(s.clients)
	s.mu.Unlock()

	if ok {
		client.conn.Close()
		s.log.Info("client disconnected", "clients", clientCount)
	}
}

func (s *Server) closeClients() {
	s.mu.Lock()
	clients := s.clients
	s.clients = make(map[*wsClient]struct{})
	s.mu.Unlock()

	for c := range clients {
		c.conn.Close()
	}
}

// ClientCount returns the number of connected dashboard clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// PublishIncident sends an incident event to every connected client. A client
// whose write fails is dropped.
func (s *Server) PublishIncident(ctx context.Context, dto events.IncidentDTO) error {
	payload, err := json.Marshal(envelope{Type: dto.Kind, Data: dto})
	if err != nil {
		return err
	}

	s.mu.RLock()
	clients := make([]*wsClient, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	for _, c := range clients {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := c.writeJSON(json.RawMessage(payload)); err != nil {
			s.log.Warn("removing client due to write error", "error", err)
			s.removeClient(c)
		}
	}

	return nil
}

// Forward publishes every incident received on ch until ch closes or ctx is done.
func (s *Server) Forward(ctx context.Context, ch <-chan any) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-ch:
			if !ok {
				return
			}
			dto, ok := payload.(events.IncidentDTO)
			if !ok {
				continue
			}
			if err := s.PublishIncident(ctx, dto); err != nil && !errors.Is(err, context.Canceled) {
				s.log.Warn("publish error", "error", err)
			}
		}
	}
}
