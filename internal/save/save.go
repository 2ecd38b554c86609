// Package save persists unfinished duels. Saving is best effort: the most
// recent write wins and records older than FreshnessWindow are ignored.
package save

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/Garsondee/Four-Quarters/internal/duel"
)

// FreshnessWindow is how long a saved duel stays resumable.
const FreshnessWindow = time.Hour

// LocalSession is the session id used by the single-player desktop build.
const LocalSession = "local"

var (
	ErrNotFound         = errors.New("save: not found")
	ErrStale            = errors.New("save: record is stale")
	ErrInvalidSessionID = errors.New("save: invalid session id")
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Record is one saved duel.
type Record struct {
	SessionID string        `json:"sessionId"`
	Duel      duel.Snapshot `json:"duel"`
	SavedAt   time.Time     `json:"savedAt"`
}

// Store loads and saves records by session id.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Load(ctx context.Context, sessionID string) (Record, error)
	Delete(ctx context.Context, sessionID string) error
}

// NewSessionID returns a fresh random session id.
func NewSessionID() string { return uuid.NewString() }

// ValidSessionID reports whether id is safe to use as a key and file name.
func ValidSessionID(id string) bool { return sessionIDPattern.MatchString(id) }

func checkID(id string) error {
	if !ValidSessionID(id) {
		return fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}
	return nil
}

// LoadFresh loads a record and rejects it with ErrStale when it was saved
// more than FreshnessWindow before now.
func LoadFresh(ctx context.Context, s Store, sessionID string, now time.Time) (Record, error) {
	rec, err := s.Load(ctx, sessionID)
	if err != nil {
		return Record{}, err
	}
	if now.Sub(rec.SavedAt) > FreshnessWindow {
		return Record{}, fmt.Errorf("%w: saved %s ago", ErrStale, now.Sub(rec.SavedAt).Round(time.Second))
	}
	return rec, nil
}

// SaveDuel stores d under sessionID unless the duel is over, in which case
// any earlier record is removed. pending is the host's unsubmitted selection.
func SaveDuel(ctx context.Context, s Store, sessionID string, d *duel.Duel, pending duel.TurnChoices, now time.Time) error {
	if d.Over() {
		err := s.Delete(ctx, sessionID)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	snap := d.Snapshot()
	snap.Choices = pending
	return s.Save(ctx, Record{SessionID: sessionID, Duel: snap, SavedAt: now})
}
