package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-2048/internal/persist"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreOpenMemory(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer store.Close()

	if err := store.Put("k", []byte("v")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if got, err := store.Get("k"); err != nil || string(got) != "v" {
		t.Errorf("Get() = %q, %v", got, err)
	}
}

func TestStoreKeyValue(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.Get("local/bestScore"); !errors.Is(err, persist.ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want persist.ErrNotFound", err)
	}

	if err := store.Put("local/bestScore", []byte("128")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := store.Put("local/bestScore", []byte("256")); err != nil {
		t.Fatalf("Put() overwrite failed: %v", err)
	}

	got, err := store.Get("local/bestScore")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(got) != "256" {
		t.Errorf("Get() = %q, want 256", got)
	}

	if err := store.Delete("local/bestScore"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if err := store.Delete("local/bestScore"); err != nil {
		t.Errorf("Delete() of missing key should succeed, got %v", err)
	}
	if _, err := store.Get("local/bestScore"); !errors.Is(err, persist.ErrNotFound) {
		t.Error("key should be gone after Delete")
	}
}

func TestStoreBacksRecords(t *testing.T) {
	store := openTestStore(t)
	rec := persist.NewRecords(store, "alice", nil)

	rec.SaveBestScore(2048)
	snap := persist.Snapshot{Grid: [][]int{{2, 0}, {0, 4}}, Score: 12, Won: true}
	rec.SaveSnapshot(snap)

	if got := rec.BestScore(); got != 2048 {
		t.Errorf("BestScore() = %d, want 2048", got)
	}
	got, ok := rec.LoadSnapshot(2)
	if !ok {
		t.Fatal("LoadSnapshot() found nothing")
	}
	if got.Score != 12 || !got.Won || got.Grid[1][1] != 4 {
		t.Errorf("LoadSnapshot() = %+v", got)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	entries := []ScoreEntry{
		{Profile: "alice", BoardSize: 4, Score: 100, MaxTile: 16},
		{Profile: "bob", BoardSize: 4, Score: 50, MaxTile: 8},
		{Profile: "alice", BoardSize: 4, Score: 200, MaxTile: 32, Won: true},
		{Profile: "alice", BoardSize: 5, Score: 500, MaxTile: 64},
	}
	for _, e := range entries {
		if _, err := store.SaveScore(e); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores(4, 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores on 4x4, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
	if !scores[0].Won || scores[0].MaxTile != 32 || scores[0].Profile != "alice" {
		t.Errorf("top entry = %+v", scores[0])
	}
	if scores[1].Won {
		t.Error("second entry should not be marked won")
	}
	if scores[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be populated")
	}

	all, err := store.TopScores(0, 10)
	if err != nil {
		t.Fatalf("TopScores(0) failed: %v", err)
	}
	if len(all) != 4 || all[0].Score != 500 {
		t.Errorf("TopScores(0) = %v", all)
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := range 5 {
		store.SaveScore(ScoreEntry{Profile: "p", BoardSize: 4, Score: (i + 1) * 100})
	}

	scores, err := store.TopScores(4, 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Errorf("Expected 3 scores with limit, got %d", len(scores))
	}

	// Should be 500, 400, 300 (top 3)
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore(4)
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty table, got %d", high)
	}

	store.SaveScore(ScoreEntry{Profile: "p", BoardSize: 4, Score: 100})
	store.SaveScore(ScoreEntry{Profile: "p", BoardSize: 4, Score: 300})
	store.SaveScore(ScoreEntry{Profile: "p", BoardSize: 3, Score: 900})

	high, err = store.HighScore(4)
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreProfileScoresAndClear(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore(ScoreEntry{Profile: "alice", BoardSize: 4, Score: 100})
	store.SaveScore(ScoreEntry{Profile: "alice", BoardSize: 4, Score: 200})
	store.SaveScore(ScoreEntry{Profile: "bob", BoardSize: 4, Score: 300})

	recent, err := store.ProfileScores("alice", 10)
	if err != nil {
		t.Fatalf("ProfileScores() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].Score != 200 {
		t.Errorf("ProfileScores() = %v, want most recent first", recent)
	}

	if err := store.ClearProfile("alice"); err != nil {
		t.Fatalf("ClearProfile() failed: %v", err)
	}

	recent, _ = store.ProfileScores("alice", 10)
	if len(recent) != 0 {
		t.Errorf("Expected 0 alice scores after clear, got %d", len(recent))
	}
	bob, _ := store.ProfileScores("bob", 10)
	if len(bob) != 1 {
		t.Error("bob's scores should not be affected by clearing alice")
	}
}

func TestStoreProfileStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.ProfileStats("nobody")
	if err != nil {
		t.Fatalf("ProfileStats() failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}

	store.SaveScore(ScoreEntry{Profile: "alice", BoardSize: 4, Score: 100, MaxTile: 64})
	store.SaveScore(ScoreEntry{Profile: "alice", BoardSize: 4, Score: 300, MaxTile: 2048, Won: true})
	store.SaveScore(ScoreEntry{Profile: "bob", BoardSize: 4, Score: 40, MaxTile: 8})

	stats, err := store.ProfileStats("alice")
	if err != nil {
		t.Fatalf("ProfileStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.WinsCount != 1 || stats.HighScore != 300 || stats.BestTile != 2048 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.AvgScore != 200 || stats.TotalScore != 400 {
		t.Errorf("avg/total = %v/%d, want 200/400", stats.AvgScore, stats.TotalScore)
	}

	all, err := store.AllProfileStats()
	if err != nil {
		t.Fatalf("AllProfileStats() failed: %v", err)
	}
	if len(all) != 2 || all["bob"].HighScore != 40 {
		t.Errorf("AllProfileStats() = %v", all)
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
