package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/persist"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List board presets",
	Long:  `Shows the board presets from the configuration and the profile's best score on each.`,
	Args:  cobra.NoArgs,
	Run:   runPresets,
}

func runPresets(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)

	if len(cfg.Presets) == 0 {
		fmt.Println("No presets configured.")
		return
	}

	// Best scores are a bonus; a missing database is not an error here.
	var store persist.Store
	if s, err := storage.Open(cfg.Storage.DBPath); err == nil {
		defer s.Close()
		store = s
	}
	logger := log.New(os.Stderr)
	logger.SetLevel(cfg.LogLevel())

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, p := range cfg.Presets {
		if len(p.Name) > maxNameLen {
			maxNameLen = len(p.Name)
		}
	}

	fmt.Printf("Board presets (profile %s):\n", cfg.Profile)
	fmt.Println()

	fmt.Printf("  %-*s  %-5s  %-6s  %-6s  %-7s  %s\n", maxNameLen, "Name", "Board", "Win", "Spawn4", "Best", "Description")
	fmt.Printf("  %-*s  %-5s  %-6s  %-6s  %-7s  %s\n", maxNameLen, "----", "-----", "---", "------", "----", "-----------")

	for _, p := range cfg.Presets {
		best := persist.NewRecords(store, cfg.Profile, logger).ForVariant(p.Rules().Variant()).BestScore()
		marker := " "
		if p.Name == cfg.Board.Preset {
			marker = "*"
		}
		fmt.Printf("%s %-*s  %-5s  %-6d  %-6.2f  %-7d  %s\n",
			marker, maxNameLen, p.Name, fmt.Sprintf("%dx%d", p.Size, p.Size),
			p.WinTile, p.Spawn4Prob, best, p.Description)
	}

	fmt.Println()
	fmt.Println("Run 't2048 play --preset <name>' to play a preset.")
}
