// Package web is the gateway's HTTP/WebSocket surface: a /ws chat endpoint
// plus a small status API.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/copperotter/copperotter/internal/schema"
)

// Version is stamped at build time.
var Version = "dev"

// chatRequest is one inbound WebSocket frame.
type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
}

// chatResponse is one outbound WebSocket frame.
type chatResponse struct {
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

// StatusFunc supplies the /api/status payload fields that vary at runtime.
type StatusFunc func() map[string]any

// Server exposes the agent over HTTP and WebSocket.
type Server struct {
	agent    schema.Agent
	status   StatusFunc
	httpSrv  *http.Server
	upgrader websocket.Upgrader
}

// New creates a Server bound to host:port.
func New(agent schema.Agent, host string, port int, status StatusFunc) *Server {
	s := &Server{
		agent:  agent,
		status: status,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The gateway binds to loopback by default; remote origins are
			// expected to come through a reverse proxy.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", requireMethod(http.MethodGet, s.handleWS))
	mux.HandleFunc("/api/status", requireMethod(http.MethodGet, s.handleStatus))
	mux.HandleFunc("/api/chat", requireMethod(http.MethodPost, s.handleChat))

	s.httpSrv = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: mux,
	}
	return s
}

// requireMethod reproduces Go 1.22 method-pattern routing on earlier
// toolchains: a mismatched method gets 405 with an Allow header, and a GET
// registration also admits HEAD.
func requireMethod(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method && !(method == http.MethodGet && r.Method == http.MethodHead) {
			w.Header().Set("Allow", method)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

// Start listens and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpSrv.Addr)
	if err != nil {
		return fmt.Errorf("gateway listen %s: %w", s.httpSrv.Addr, err)
	}
	slog.Info("gateway listening", "addr", s.httpSrv.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.Serve(ln); err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// handleWS upgrades to WebSocket and serves a chat session: each text frame
// is a chatRequest, each reply a chatResponse. Messages are processed in
// order per connection.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	// Default session key is per-connection unless the client names one.
	defaultKey := fmt.Sprintf("ws:%s", conn.RemoteAddr())
	slog.Info("ws client connected", "addr", conn.RemoteAddr())

	for {
		var req chatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("ws read error", "err", err)
			}
			return
		}
		if req.Message == "" {
			_ = conn.WriteJSON(chatResponse{Error: "message required"})
			continue
		}
		key := defaultKey
		if req.SessionID != "" {
			key = "ws:" + req.SessionID
		}
		reply := s.agent.ProcessDirect(r.Context(), req.Message, key)
		if err := conn.WriteJSON(chatResponse{Reply: reply}); err != nil {
			return
		}
	}
}

// handleChat is the one-shot HTTP counterpart of /ws.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		http.Error(w, `{"error":"message required"}`, http.StatusBadRequest)
		return
	}
	key := "http:default"
	if req.SessionID != "" {
		key = "http:" + req.SessionID
	}
	reply := s.agent.ProcessDirect(r.Context(), req.Message, key)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(chatResponse{Reply: reply})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	payload := map[string]any{
		"status":  "ok",
		"version": Version,
		"time":    time.Now().Format(time.RFC3339),
	}
	if s.status != nil {
		for k, v := range s.status() {
			payload[k] = v
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
