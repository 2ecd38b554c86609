package server

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Garsondee/Four-Quarters/internal/duel"
	"github.com/Garsondee/Four-Quarters/internal/host"
	"github.com/Garsondee/Four-Quarters/internal/save"
)

var errUnknownSession = errors.New("server: unknown duel")

// session is one hosted duel. mu serializes turns so a duel never has two
// resolutions in flight.
type session struct {
	id     string
	mu     sync.Mutex
	duel   *duel.Duel
	bridge *host.Bridge
}

// sessions maps duel ids to live sessions, falling back to the store for
// duels that were saved by an earlier process.
type sessions struct {
	mu      sync.RWMutex
	live    map[string]*session
	store   save.Store
	newRand func() duel.Rand
	now     func() time.Time
}

func newSessions(store save.Store, newRand func() duel.Rand, now func() time.Time) *sessions {
	return &sessions{
		live:    make(map[string]*session),
		store:   store,
		newRand: newRand,
		now:     now,
	}
}

func (s *sessions) create(player, bot duel.Level) (*session, error) {
	d, err := duel.NewDuel(player, bot, s.newRand())
	if err != nil {
		return nil, err
	}
	sess := &session{id: save.NewSessionID(), duel: d, bridge: host.NewBridge()}
	s.mu.Lock()
	s.live[sess.id] = sess
	s.mu.Unlock()
	return sess, nil
}

// get returns a live session or resumes a fresh saved one.
func (s *sessions) get(ctx context.Context, id string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.live[id]
	s.mu.RUnlock()
	if ok {
		return sess, nil
	}
	if !save.ValidSessionID(id) {
		return nil, errUnknownSession
	}

	rec, err := save.LoadFresh(ctx, s.store, id, s.now())
	if err != nil {
		if !errors.Is(err, save.ErrNotFound) {
			log.Printf("[SAVE] resume %s: %v", id, err)
		}
		return nil, errUnknownSession
	}
	d, err := duel.RestoreDuel(rec.Duel, s.newRand())
	if err != nil {
		log.Printf("[SAVE] restore %s: %v", id, err)
		return nil, errUnknownSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another request may have resumed it first.
	if existing, ok := s.live[id]; ok {
		return existing, nil
	}
	sess = &session{id: id, duel: d, bridge: host.NewBridge()}
	s.live[id] = sess
	return sess, nil
}

// persist saves the duel; failures are logged and otherwise ignored.
// Callers hold sess.mu.
func (s *sessions) persist(ctx context.Context, sess *session) {
	if err := save.SaveDuel(ctx, s.store, sess.id, sess.duel, duel.TurnChoices{}, s.now()); err != nil {
		log.Printf("[SAVE] %s: %v", sess.id, err)
	}
}

func (s *sessions) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.live)
}

// closeAll disconnects every browser attached to any session.
func (s *sessions) closeAll() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.live {
		sess.bridge.Close()
	}
}
