package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKeyPath string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start SSH server for remote play",
	Long: `Start an SSH server that allows remote users to play 2048.

Each SSH user plays under a profile named after their user name, so
'ssh alice@host' resumes alice's game.

Examples:
  t2048 serve
  t2048 serve --ssh :2222
  t2048 serve --ssh 0.0.0.0:2048 --host-key ./host_key

Connect with:
  ssh -p 2048 alice@localhost`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (overrides config)")
	serveCmd.Flags().StringVar(&flagHostKeyPath, "host-key", "", "Path to SSH host key (generated if missing)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 30*time.Minute, "Idle connection timeout")
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	logger := newServerLogger(cfg, "t2048-ssh")

	sshCfg := tui.DefaultSSHServerConfig()
	if cfg.SSH.Addr != "" {
		sshCfg.Address = cfg.SSH.Addr
	}
	if flagSSHAddr != "" {
		sshCfg.Address = flagSSHAddr
	}
	hostKey := cfg.SSH.HostKey
	if flagHostKeyPath != "" {
		hostKey = flagHostKeyPath
	}
	if hostKey != "" {
		expanded, err := config.ExpandPath(hostKey)
		if err != nil {
			fatalf("%v", err)
		}
		sshCfg.HostKeyPath = expanded
	}
	sshCfg.IdleTimeout = flagIdleTimeout

	store := openStore(cfg, logger)
	opts := tui.Options{
		Player:        newPlayer(cfg.Profile, store, logger),
		Presets:       cfg.Presets,
		Preset:        currentPreset(cfg),
		DragThreshold: cfg.Input.DragThreshold,
		Runtime:       core.DefaultConfig(),
	}
	if store != nil {
		defer store.Close()
		opts.Scoreboard = store
	}

	server, err := tui.NewSSHServer(sshCfg, opts, logger)
	if err != nil {
		fatalf("creating SSH server: %v", err)
	}

	fmt.Printf("Starting 2048 SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
	}
}
