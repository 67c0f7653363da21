// Package web serves the game to browsers: a static page, a WebSocket
// channel carrying one game per connection, and a read-only scoreboard API.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/game"
	"github.com/vovakirdan/tui-2048/internal/input"
	"github.com/vovakirdan/tui-2048/internal/persist"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

//go:embed static
var staticFiles embed.FS

const (
	defaultScoreLimit = 10
	maxScoreLimit     = 100
	apiTimeout        = 10 * time.Second
)

// ScoreSource lists finished games. *storage.Store satisfies it.
type ScoreSource interface {
	TopScores(boardSize, limit int) ([]storage.ScoreEntry, error)
}

// Config holds configuration for the web server.
type Config struct {
	// Addr is the host:port to listen on (e.g., ":8048").
	Addr string

	// AllowedOrigins lists origins allowed to open a WebSocket. Empty means
	// same-origin only; "*" allows any.
	AllowedOrigins []string

	// SwipeThreshold is the minimum swipe distance in pixels.
	SwipeThreshold int

	// Rules apply when a connection does not name a preset.
	Rules game.Rules

	// Presets are the rule sets a connection may pick with ?preset=.
	Presets []config.Preset
}

// Server is the HTTP/WebSocket front end.
type Server struct {
	cfg      Config
	player   game.Player // Template; the profile is set per connection
	scores   ScoreSource
	logger   *log.Logger
	router   *chi.Mux
	upgrader websocket.Upgrader
	httpSrv  *http.Server

	// newRand seeds each connection's game. Replaced in tests.
	newRand func() engine.RandomSource
}

// NewServer creates a server. scores may be nil when no database is open.
func NewServer(cfg Config, player game.Player, scores ScoreSource, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "t2048-web",
		})
	}
	if cfg.SwipeThreshold <= 0 {
		cfg.SwipeThreshold = input.DefaultSwipeThreshold
	}
	if cfg.Rules.Size == 0 {
		cfg.Rules = game.DefaultRules()
	}
	player.Logger = logger

	s := &Server{
		cfg:     cfg,
		player:  player,
		scores:  scores,
		logger:  logger,
		router:  chi.NewRouter(),
		newRand: func() engine.RandomSource { return core.NewRand(0) },
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin(),
	}

	s.routes()
	s.httpSrv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(chimw.Recoverer)

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/ws", s.handleWS)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(apiTimeout))
		r.Use(jsonContentType)
		r.Get("/scores", s.handleScores)
		r.Get("/presets", s.handlePresets)
	})

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	s.router.Handle("/*", http.FileServer(http.FS(static)))
}

// Router exposes the HTTP handler (useful for tests).
func (s *Server) Router() http.Handler {
	return s.router
}

// requestLogger logs each request once it completes.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"remote", r.RemoteAddr,
			"id", chimw.GetReqID(r.Context()),
			"duration", time.Since(start),
		)
	})
}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// checkOrigin returns nil, gorilla's same-origin check, when no origins are configured.
func (s *Server) checkOrigin() func(r *http.Request) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return nil
	}
	allowAll := slices.Contains(s.cfg.AllowedOrigins, "*")
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || allowAll {
			return true
		}
		return slices.ContainsFunc(s.cfg.AllowedOrigins, func(o string) bool {
			return strings.EqualFold(o, origin)
		})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(`{"ok":true}`))
}

// handleScores serves GET /api/scores?size=4&limit=10. size 0 or absent
// lists every board size.
func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.scores == nil {
		writeError(w, http.StatusServiceUnavailable, "scoreboard unavailable")
		return
	}

	size, err := intParam(r, "size", 0)
	if err != nil || size < 0 {
		writeError(w, http.StatusBadRequest, "invalid size")
		return
	}
	limit, err := intParam(r, "limit", defaultScoreLimit)
	if err != nil || limit <= 0 {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	limit = min(limit, maxScoreLimit)

	scores, err := s.scores.TopScores(size, limit)
	if err != nil {
		s.logger.Error("cannot load scores", "error", err)
		writeError(w, http.StatusInternalServerError, "cannot load scores")
		return
	}
	if scores == nil {
		scores = []storage.ScoreEntry{}
	}
	_ = json.NewEncoder(w).Encode(scores)
}

func (s *Server) handlePresets(w http.ResponseWriter, _ *http.Request) {
	presets := s.cfg.Presets
	if presets == nil {
		presets = []config.Preset{}
	}
	_ = json.NewEncoder(w).Encode(presets)
}

// handleWS upgrades GET /ws?profile=alice&preset=big to a game session.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	profile := persist.CleanProfile(r.URL.Query().Get("profile"))
	if profile == "" {
		profile = "guest"
	}

	rules := s.cfg.Rules
	if name := r.URL.Query().Get("preset"); name != "" {
		preset, ok := s.findPreset(name)
		if !ok {
			http.Error(w, "unknown preset", http.StatusBadRequest)
			return
		}
		rules = preset.Rules()
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade error", "error", err, "remote", r.RemoteAddr)
		return
	}

	logger := s.logger.With("session", uuid.NewString())
	player := s.player.WithProfile(profile)
	player.Logger = logger

	logger.Info("connection opened", "profile", profile, "remote", r.RemoteAddr, "variant", rules.Variant())
	ctrl := game.NewPlayerController(player, rules, s.newRand())

	c := newClient(conn, ctrl, s.cfg.SwipeThreshold, logger)
	go c.writePump()
	go func() {
		c.readPump()
		logger.Info("connection closed", "profile", profile, "score", ctrl.View().Score)
	}()
}

func (s *Server) findPreset(name string) (config.Preset, bool) {
	for _, p := range s.cfg.Presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return config.Preset{}, false
}

// ListenAndServe starts the server and blocks until SIGINT or SIGTERM.
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting web server", "address", s.cfg.Addr)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-done:
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server. Open WebSockets are hijacked
// connections and close when the process exits.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.httpSrv.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *Server) Addr() string {
	return s.cfg.Addr
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
