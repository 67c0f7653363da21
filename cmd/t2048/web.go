package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/platform/web"
)

var (
	flagHTTPAddr string
	flagOrigins  []string
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start HTTP/WebSocket server for browsers",
	Long: `Serve 2048 to browsers. Each WebSocket connection plays one game;
the profile is taken from the ?profile= query parameter and a board
preset may be picked with ?preset=.

Endpoints:
  GET /              - Browser client
  GET /ws            - Game channel
  GET /api/scores    - Finished games (?size=4&limit=10)
  GET /api/presets   - Board presets
  GET /health        - Liveness probe

Examples:
  t2048 web
  t2048 web --http :8080
  t2048 web --origin https://example.com`,
	Args: cobra.NoArgs,
	Run:  runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP server address (overrides config)")
	webCmd.Flags().StringSliceVar(&flagOrigins, "origin", nil, "Allowed WebSocket origin (repeatable, '*' for any)")
}

func runWeb(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	logger := newServerLogger(cfg, "t2048-web")

	webCfg := web.Config{
		Addr:           cfg.Web.Addr,
		AllowedOrigins: cfg.Web.AllowedOrigins,
		SwipeThreshold: cfg.Input.SwipeThreshold,
		Rules:          cfg.Board.Rules(),
		Presets:        cfg.Presets,
	}
	if flagHTTPAddr != "" {
		webCfg.Addr = flagHTTPAddr
	}
	if webCfg.Addr == "" {
		webCfg.Addr = ":8048"
	}
	if cmd.Flags().Changed("origin") {
		webCfg.AllowedOrigins = flagOrigins
	}

	store := openStore(cfg, logger)
	var scores web.ScoreSource
	if store != nil {
		defer store.Close()
		scores = store
	}

	server := web.NewServer(webCfg, newPlayer(cfg.Profile, store, logger), scores, logger)

	fmt.Printf("Starting 2048 web server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
	}
}
