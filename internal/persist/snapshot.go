package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/vovakirdan/tui-2048/internal/engine"
)

// maxScore bounds restored scores to values a float64 represents exactly.
const maxScore = 1 << 53

// ErrMalformed marks a record that cannot be restored.
var ErrMalformed = errors.New("persist: malformed record")

// Snapshot is the persisted form of a game in progress.
type Snapshot struct {
	Grid        engine.Grid `json:"grid"`
	Score       int         `json:"score"`
	Won         bool        `json:"won"`
	KeepPlaying bool        `json:"keepPlaying"`
}

// EncodeSnapshot serializes a snapshot as JSON.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("persist: cannot encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a snapshot for a size×size board.
//
// The grid must be a size×size matrix; cells that are not finite, non-negative
// powers of two become empty. A missing or invalid score becomes 0. Flags are
// coerced by truthiness. Anything structurally wrong yields ErrMalformed.
func DecodeSnapshot(data []byte, size int) (Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Snapshot{}, fmt.Errorf("%w: trailing data after object", ErrMalformed)
	}
	if raw == nil {
		return Snapshot{}, fmt.Errorf("%w: not an object", ErrMalformed)
	}

	grid, err := decodeGrid(raw["grid"], size)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		Grid:        grid,
		Won:         truthy(raw["won"]),
		KeepPlaying: truthy(raw["keepPlaying"]),
	}
	if score, ok := finite(raw["score"]); ok && score >= 0 && score < maxScore {
		snap.Score = int(score)
	}
	return snap, nil
}

func decodeGrid(v any, size int) (engine.Grid, error) {
	rows, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: grid is not a list", ErrMalformed)
	}
	if len(rows) != size {
		return nil, fmt.Errorf("%w: grid has %d rows, want %d", ErrMalformed, len(rows), size)
	}

	grid := engine.NewGrid(size)
	for r, rowValue := range rows {
		row, ok := rowValue.([]any)
		if !ok || len(row) != size {
			return nil, fmt.Errorf("%w: grid row %d is not %d cells", ErrMalformed, r, size)
		}
		for c, cell := range row {
			f, ok := finite(cell)
			if !ok || f != math.Trunc(f) || f > math.MaxInt32 {
				continue
			}
			if v := int(f); engine.IsTileValue(v) {
				grid[r][c] = v
			}
		}
	}
	return grid, nil
}

// finite converts a JSON value to a finite float the way Number() would.
func finite(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case json.Number:
		parsed, err := strconv.ParseFloat(x.String(), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, true
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case json.Number:
		f, err := strconv.ParseFloat(x.String(), 64)
		return err == nil && f != 0 && !math.IsNaN(f)
	default:
		// lists and objects are truthy
		return true
	}
}

// ParseBestScore parses a best-score record. Invalid input yields 0.
func ParseBestScore(data []byte) int {
	f, ok := finite(string(data))
	if !ok || f < 0 || f >= maxScore {
		return 0
	}
	return int(f)
}
