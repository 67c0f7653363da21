package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/game"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
)

var flagPreset string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play 2048",
	Long: `Start playing on the configured board, or on a named preset.
An unfinished game of the same board is resumed.

Controls:
  Arrows/WASD/HJKL  - Slide tiles
  Mouse drag        - Slide tiles
  C/Enter           - Keep playing after a win
  R/N               - Restart
  B/Esc             - Back to the menu
  Ctrl+S            - Save a screenshot
  Q/Ctrl+C          - Quit

Examples:
  t2048 play
  t2048 play --preset big
  t2048 play --profile alice --seed 42`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a board interactively",
	Args:  cobra.NoArgs,
	Run:   runMenu,
}

func init() {
	playCmd.Flags().StringVar(&flagPreset, "preset", "", "Board preset (see 't2048 presets')")
	rootCmd.AddCommand(menuCmd)
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	if flagPreset != "" {
		if err := cfg.ApplyPreset(flagPreset); err != nil {
			fatalf("%v", err)
		}
	}

	logger, closeLog := newFileLogger(cfg)
	defer closeLog()

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	rc := runtimeConfig()
	rules := cfg.Board.Rules()
	logger.Info("game started", "profile", cfg.Profile, "variant", rules.Variant(), "seed", rc.Seed)

	ctrl := game.NewPlayerController(newPlayer(cfg.Profile, store, logger), rules, core.NewRand(rc.Seed))
	if err := tui.Run(ctrl, rc, cfg.Input.DragThreshold); err != nil {
		fatalf("running game: %v", err)
	}
}

func runMenu(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)

	logger, closeLog := newFileLogger(cfg)
	defer closeLog()

	store := openStore(cfg, logger)
	opts := tui.Options{
		Player:        newPlayer(cfg.Profile, store, logger),
		Presets:       cfg.Presets,
		Preset:        currentPreset(cfg),
		DragThreshold: cfg.Input.DragThreshold,
		Runtime:       runtimeConfig(),
	}
	if store != nil {
		defer store.Close()
		opts.Scoreboard = store
	}

	if err := tui.RunApp(opts); err != nil {
		fatalf("running menu: %v", err)
	}
}
