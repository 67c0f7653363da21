package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/persist"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var flagResetScores bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear a profile's saved game and best scores",
	Long: `Remove the saved game and best score of every board for a profile.
With --scores the profile's finished games are removed from the
scoreboard too.

Examples:
  t2048 reset
  t2048 reset --profile alice --scores`,
	Args: cobra.NoArgs,
	Run:  runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&flagResetScores, "scores", false, "Also delete the profile's finished games")
}

func runReset(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	logger := newServerLogger(cfg, "t2048")

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fatalf("opening database: %v", err)
	}
	defer store.Close()

	records := persist.NewRecords(store, cfg.Profile, logger)
	for _, variant := range resetVariants(cfg) {
		if err := records.ForVariant(variant).Clear(); err != nil {
			store.Close()
			fatalf("clearing records: %v", err)
		}
	}

	if flagResetScores {
		if err := store.ClearProfile(cfg.Profile); err != nil {
			store.Close()
			fatalf("clearing scores: %v", err)
		}
	}

	fmt.Printf("Cleared records for profile %s\n", cfg.Profile)
}

// resetVariants lists every rule set a profile may have records for.
func resetVariants(cfg config.Config) []string {
	seen := map[string]bool{"": true}
	variants := []string{""}
	add := func(v string) {
		if !seen[v] {
			seen[v] = true
			variants = append(variants, v)
		}
	}
	add(cfg.Board.Rules().Variant())
	for _, p := range cfg.Presets {
		add(p.Rules().Variant())
	}
	return variants
}
