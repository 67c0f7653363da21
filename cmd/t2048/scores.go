package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagScoreSize  int
	flagScoreLimit int
	flagScoreMine  bool
	flagScoreStats bool
	flagScoreTUI   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show finished games",
	Long: `Display the best finished games, optionally for one board size.

Examples:
  t2048 scores
  t2048 scores --size 5 --limit 20
  t2048 scores --mine --profile alice
  t2048 scores --stats
  t2048 scores --tui`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoreSize, "size", 0, "Board size (0 = all sizes)")
	scoresCmd.Flags().IntVar(&flagScoreLimit, "limit", 10, "Number of games to show")
	scoresCmd.Flags().BoolVar(&flagScoreMine, "mine", false, "Show only the current profile's games")
	scoresCmd.Flags().BoolVar(&flagScoreStats, "stats", false, "Show per-profile statistics")
	scoresCmd.Flags().BoolVar(&flagScoreTUI, "tui", false, "Browse scores in an interactive table")
}

func runScores(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fatalf("opening database: %v", err)
	}
	defer store.Close()

	switch {
	case flagScoreTUI:
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(store, tui.BoardSizes(cfg.Presets), width, height); err != nil {
			store.Close()
			fatalf("running scoreboard: %v", err)
		}
	case flagScoreStats:
		printStats(store)
	default:
		printScores(store, cfg.Profile)
	}
}

func printScores(store *storage.Store, profile string) {
	var (
		scores []storage.ScoreEntry
		err    error
	)
	if flagScoreMine {
		scores, err = store.ProfileScores(profile, flagScoreLimit)
		fmt.Printf("Finished games - %s\n", profile)
	} else {
		scores, err = store.TopScores(flagScoreSize, flagScoreLimit)
		if flagScoreSize > 0 {
			fmt.Printf("High Scores - %dx%d\n", flagScoreSize, flagScoreSize)
		} else {
			fmt.Println("High Scores - all boards")
		}
	}
	if err != nil {
		store.Close()
		fatalf("retrieving scores: %v", err)
	}
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No finished games yet.")
		fmt.Println()
		fmt.Println("Play 't2048 play' to set the first high score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-12s  %-5s  %-8s  %-6s  %-3s  %s\n", "Rank", "Player", "Board", "Score", "Tile", "Won", "Date")
	fmt.Printf("  %-4s  %-12s  %-5s  %-8s  %-6s  %-3s  %s\n", "----", "------", "-----", "-----", "----", "---", "----")

	for i, e := range scores {
		won := ""
		if e.Won {
			won = "yes"
		}
		fmt.Printf("  %-4d  %-12s  %-5s  %-8d  %-6d  %-3s  %s\n",
			i+1, e.Profile, fmt.Sprintf("%dx%d", e.BoardSize, e.BoardSize),
			e.Score, e.MaxTile, won, e.CreatedAt.Format("2006-01-02 15:04"))
	}

	if flagScoreSize > 0 && !flagScoreMine {
		if best, err := store.HighScore(flagScoreSize); err == nil {
			fmt.Println()
			fmt.Printf("Best: %d\n", best)
		}
	}
}

func printStats(store *storage.Store) {
	stats, err := store.AllProfileStats()
	if err != nil {
		store.Close()
		fatalf("retrieving stats: %v", err)
	}
	if len(stats) == 0 {
		fmt.Println("No finished games yet.")
		return
	}

	profiles := make([]*storage.ProfileStats, 0, len(stats))
	for _, ps := range stats {
		profiles = append(profiles, ps)
	}
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].HighScore != profiles[j].HighScore {
			return profiles[i].HighScore > profiles[j].HighScore
		}
		return profiles[i].Profile < profiles[j].Profile
	})

	fmt.Printf("  %-12s  %-5s  %-4s  %-8s  %-8s  %-6s  %s\n", "Player", "Games", "Wins", "Best", "Average", "Tile", "Last played")
	fmt.Printf("  %-12s  %-5s  %-4s  %-8s  %-8s  %-6s  %s\n", "------", "-----", "----", "----", "-------", "----", "-----------")
	for _, ps := range profiles {
		fmt.Printf("  %-12s  %-5d  %-4d  %-8d  %-8.0f  %-6d  %s\n",
			ps.Profile, ps.GamesCount, ps.WinsCount, ps.HighScore, ps.AvgScore, ps.BestTile,
			ps.LastPlayed.Format("2006-01-02 15:04"))
	}
}
