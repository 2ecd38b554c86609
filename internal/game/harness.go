package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Garsondee/Four-Quarters/internal/duel"
	"github.com/Garsondee/Four-Quarters/internal/host"
	"github.com/Garsondee/Four-Quarters/internal/save"
	"github.com/Garsondee/Four-Quarters/internal/street"
)

// Sim is a headless harness around World. It mirrors Game.Update without
// Ebiten input and supports deterministic seeding; tests and the headless
// report drive it.
type Sim struct {
	World *World
	Rand  *rand.Rand
	opts  Options
}

// SimOption is a builder function applied to the World options before the
// world is built.
type SimOption func(*Sim)

// WithMapSize sets the canvas dimensions.
func WithMapSize(w, h float64) SimOption {
	return func(s *Sim) {
		s.opts.MapWidth = w
		s.opts.MapHeight = h
	}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return func(s *Sim) {
		s.Rand = rand.New(rand.NewSource(seed)) // #nosec G404 -- simulation
	}
}

// WithLevels sets the starting duel levels.
func WithLevels(player, bot duel.Level) SimOption {
	return func(s *Sim) {
		s.opts.PlayerLevel = player
		s.opts.BotLevel = bot
	}
}

// WithHost records or forwards capability calls.
func WithHost(c host.Capabilities) SimOption {
	return func(s *Sim) { s.opts.Host = c }
}

// WithStore enables persistence under sessionID.
func WithStore(st save.Store, sessionID string) SimOption {
	return func(s *Sim) {
		s.opts.Store = st
		s.opts.SessionID = sessionID
	}
}

// WithClock replaces time.Now for save timestamps.
func WithClock(now func() time.Time) SimOption {
	return func(s *Sim) { s.opts.Now = now }
}

// WithClipboard replaces the system clipboard.
func WithClipboard(fn func(string) error) SimOption {
	return func(s *Sim) { s.opts.Copy = fn }
}

// NewSim builds a World from the options. The default seed is 1 and the
// clipboard is discarded.
func NewSim(opts ...SimOption) (*Sim, error) {
	s := &Sim{
		Rand: rand.New(rand.NewSource(1)), // #nosec G404 -- simulation default
		opts: Options{Copy: func(string) error { return nil }},
	}
	for _, o := range opts {
		o(s)
	}
	s.opts.Rand = s.Rand
	w, err := NewWorld(s.opts)
	if err != nil {
		return nil, err
	}
	s.World = w
	return s, nil
}

// RunTicks advances the world n frames.
func (s *Sim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		s.World.Tick(FrameMs)
	}
}

// RunUntil advances up to maxTicks frames, stopping early once predicate
// holds. It returns the number of frames run, or -1 if it never held.
func (s *Sim) RunUntil(predicate func(*Sim) bool, maxTicks int) int {
	for i := 1; i <= maxTicks; i++ {
		s.World.Tick(FrameMs)
		if predicate(s) {
			return i
		}
	}
	return -1
}

// WalkInto taps the middle of a building on the map and runs until the
// walker is inside. It returns the frames taken.
func (s *Sim) WalkInto(id street.BuildingID, maxTicks int) (int, error) {
	if s.World.Scene() != SceneMap {
		return 0, fmt.Errorf("walk into %s from %s", id, s.World.Scene())
	}
	b, ok := s.World.Geometry().Building(id)
	if !ok {
		return 0, fmt.Errorf("unknown building %q", id)
	}
	want, _ := sceneFor(id)
	if res := s.World.Tap(b.X+b.W/2, b.Y+b.H/2); res.Kind != street.TapBuilding {
		return 0, fmt.Errorf("tap on %s hit %s", id, res.Kind)
	}
	n := s.RunUntil(func(s *Sim) bool { return s.World.Scene() == want }, maxTicks)
	if n < 0 {
		return 0, fmt.Errorf("did not reach %s in %d ticks", id, maxTicks)
	}
	return n, nil
}

// Strategy picks the player's choices for the next turn.
type Strategy func(d *duel.Duel, r duel.Rand) duel.TurnChoices

// RandomStrategy plays like the bot does.
func RandomStrategy(_ *duel.Duel, r duel.Rand) duel.TurnChoices {
	return duel.BotChoices(r)
}

// PlayDuel plays the arena duel to the end with pick, one frame per turn.
// The world must already be in the arena.
func (s *Sim) PlayDuel(pick Strategy, maxRounds int) (duel.Outcome, error) {
	w := s.World
	if w.Scene() != SceneArena {
		return duel.InProgress, fmt.Errorf("play duel from %s", w.Scene())
	}
	for round := 0; round < maxRounds && !w.Duel().Over(); round++ {
		c := pick(w.Duel(), s.Rand)
		w.ClearChoices()
		w.PickAttack(c.Attack)
		for _, z := range c.Blocks {
			w.ToggleBlock(z)
		}
		if _, err := w.Resolve(); err != nil {
			return duel.InProgress, err
		}
		w.Tick(FrameMs)
	}
	if !w.Duel().Over() {
		return duel.InProgress, fmt.Errorf("duel still running after %d rounds", maxRounds)
	}
	return w.Duel().Outcome(), nil
}
