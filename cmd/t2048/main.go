// t2048 is the 2048 sliding-tile game for the terminal, SSH and the browser.
//
// Usage:
//
//	t2048                    - Pick a board from the menu and play
//	t2048 play               - Play the configured board directly
//	t2048 serve              - Start SSH server for remote play
//	t2048 web                - Start HTTP/WebSocket server for browsers
//	t2048 scores             - Show finished games
//	t2048 presets            - List board presets
//	t2048 reset              - Clear a profile's saved game and best scores
//
// Global flags:
//
//	--config <path>     - Configuration file (default: ~/.t2048/config.yaml)
//	--db <path>         - Database path (default: ~/.t2048/t2048.db)
//	--profile <name>    - Profile records are kept under
//	--seed <value>      - RNG seed for reproducible spawning
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagProfile  string
	flagSeed     int64
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 - Slide and merge tiles in your terminal",
	Long: `t2048 is the 2048 sliding-tile puzzle. Slide the board, merge equal
tiles and reach the win tile.

Available commands:
  play     - Play the configured board directly
  serve    - Start SSH server for remote play
  web      - Start HTTP/WebSocket server for browsers
  scores   - View finished games
  presets  - Show board presets
  reset    - Clear a profile's saved game and best scores

Run without a command to pick a board from the menu.

Examples:
  t2048
  t2048 play --preset big
  t2048 serve --ssh :2048
  t2048 web --http :8048
  t2048 scores --size 4`,
	Run: runMenu,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "Profile name (overrides config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(resetCmd)
}
