package persist

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// Record key suffixes, namespaced per profile.
const (
	bestScoreKey = "bestScore"
	sessionKey   = "session"
)

// MaxProfileLen caps profile names taken from untrusted sources.
const MaxProfileLen = 32

// CleanProfile keeps the letters, digits, '-', '_' and '.' of an untrusted
// profile name, truncated to MaxProfileLen. The result may be empty.
func CleanProfile(name string) string {
	var b strings.Builder
	for _, r := range name {
		if b.Len() >= MaxProfileLen {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Records reads and writes one profile's best score and session snapshot.
// Failures are logged and swallowed: callers always get a usable default.
type Records struct {
	store   Store
	profile string
	variant string // Rule set namespace; empty for the classic game
	logger  *log.Logger
}

// NewRecords binds a store to a profile. A nil store disables persistence.
func NewRecords(store Store, profile string, logger *log.Logger) *Records {
	if profile == "" {
		profile = "local"
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Records{
		store:   store,
		profile: profile,
		logger:  logger.With("profile", profile),
	}
}

// ForVariant returns records for the same profile scoped to a rule set, so
// a 5x5 game never restores into a 4x4 board or shares its best score.
// An empty variant addresses the classic records.
func (r *Records) ForVariant(variant string) *Records {
	scoped := *r
	scoped.variant = variant
	if variant != "" {
		scoped.logger = r.logger.With("variant", variant)
	}
	return &scoped
}

// Profile returns the namespace these records live under.
func (r *Records) Profile() string {
	return r.profile
}

// Variant returns the rule set namespace, empty for the classic game.
func (r *Records) Variant() string {
	return r.variant
}

func (r *Records) key(name string) string {
	if r.variant == "" {
		return r.profile + "/" + name
	}
	return r.profile + "/" + r.variant + "/" + name
}

// BestScore returns the persisted best score, or 0 when missing or invalid.
func (r *Records) BestScore() int {
	if r.store == nil {
		return 0
	}

	data, err := r.store.Get(r.key(bestScoreKey))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.logger.Warn("could not read best score", "error", err)
		}
		return 0
	}
	return ParseBestScore(data)
}

// SaveBestScore persists score as the best score.
func (r *Records) SaveBestScore(score int) {
	if r.store == nil {
		return
	}
	if err := r.store.Put(r.key(bestScoreKey), []byte(strconv.Itoa(score))); err != nil {
		r.logger.Warn("could not persist best score", "score", score, "error", err)
	}
}

// LoadSnapshot returns the saved game for a size×size board.
// The second result is false when there is nothing usable to restore.
func (r *Records) LoadSnapshot(size int) (Snapshot, bool) {
	if r.store == nil {
		return Snapshot{}, false
	}

	data, err := r.store.Get(r.key(sessionKey))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.logger.Warn("could not read session snapshot", "error", err)
		}
		return Snapshot{}, false
	}

	snap, err := DecodeSnapshot(data, size)
	if err != nil {
		r.logger.Debug("discarding session snapshot", "error", err)
		return Snapshot{}, false
	}
	return snap, true
}

// SaveSnapshot persists the game in progress.
func (r *Records) SaveSnapshot(snap Snapshot) {
	if r.store == nil {
		return
	}

	data, err := EncodeSnapshot(snap)
	if err != nil {
		r.logger.Warn("could not encode session snapshot", "error", err)
		return
	}
	if err := r.store.Put(r.key(sessionKey), data); err != nil {
		r.logger.Warn("could not persist session snapshot", "error", err)
	}
}

// Clear removes both records. Errors are returned so explicit resets can report them.
func (r *Records) Clear() error {
	if r.store == nil {
		return nil
	}
	if err := r.store.Delete(r.key(sessionKey)); err != nil {
		return err
	}
	return r.store.Delete(r.key(bestScoreKey))
}
