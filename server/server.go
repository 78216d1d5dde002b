// Package server exposes the assistant over HTTP and websocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/xhad/versewise/internal/metrics"
	"github.com/xhad/versewise/internal/models"
	"github.com/xhad/versewise/internal/types"
	"github.com/xhad/versewise/pkg/assistant"
)

const (
	// UserHeader carries the caller's principal. Authentication happens in
	// front of this service.
	UserHeader    = "X-User-ID"
	AnonymousUser = "anonymous"

	maxBodyBytes = 64 << 10
)

type Config struct {
	AllowedOrigins []string
	HistoryLimit   int
	SearchLimit    int
}

type Server struct {
	config    Config
	assistant *assistant.Assistant
	scripture types.Scripture
	strongs   types.StrongsLookup
	upgrader  websocket.Upgrader
	logger    *zap.Logger
}

type Option func(*Server)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func New(a *assistant.Assistant, scripture types.Scripture, strongs types.StrongsLookup,
	config Config, opts ...Option) *Server {
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = 50
	}
	if config.SearchLimit <= 0 {
		config.SearchLimit = 10
	}

	s := &Server{
		config:    config,
		assistant: a,
		scripture: scripture,
		strongs:   strongs,
		logger:    zap.NewNop(),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler routes every endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/verses", s.handleVerses)
	mux.HandleFunc("GET /api/chapters/{book}/{chapter}", s.handleChapter)
	mux.HandleFunc("GET /api/strongs/{id}", s.handleStrongs)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	return mux
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("Shutting down server")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.config.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range s.config.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

func principalFrom(r *http.Request) models.Principal {
	user := strings.TrimSpace(r.Header.Get(UserHeader))
	if user == "" {
		user = strings.TrimSpace(r.URL.Query().Get("user_id"))
	}
	if user == "" {
		user = AnonymousUser
	}
	return models.Principal{UserID: user}
}

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	msg, err := s.assistant.Chat(r.Context(), principalFrom(r), req.Message)
	if err != nil {
		// The reply is still returned; only persistence failed.
		s.logger.Warn("Chat exchange not persisted", zap.String("id", msg.ID), zap.Error(err))
	}
	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := s.config.HistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, s.config.HistoryLimit)
	}

	history, err := s.assistant.History(r.Context(), principalFrom(r), limit)
	if errors.Is(err, assistant.ErrNoStore) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("Failed to read chat history", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read chat history")
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleVerses(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	verses := s.scripture.Resolve(r.Context(), q)
	if len(verses) == 0 {
		verses = s.scripture.Search(r.Context(), q, s.config.SearchLimit)
	}
	writeJSON(w, http.StatusOK, verses)
}

func (s *Server) handleChapter(w http.ResponseWriter, r *http.Request) {
	book := r.PathValue("book")
	chapter, err := strconv.Atoi(r.PathValue("chapter"))
	if err != nil || chapter < 1 {
		writeError(w, http.StatusBadRequest, "chapter must be a positive integer")
		return
	}

	writeJSON(w, http.StatusOK, s.scripture.ResolveChapter(r.Context(), book, chapter))
}

func (s *Server) handleStrongs(w http.ResponseWriter, r *http.Request) {
	entry, err := s.strongs.Lookup(r.Context(), r.PathValue("id"))
	if err != nil {
		s.logger.Debug("Strong's lookup failed", zap.String("id", r.PathValue("id")), zap.Error(err))
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
