package duel

import (
	"errors"
	"fmt"
)

// ErrInvalidSnapshot is returned by RestoreDuel for inconsistent or finished
// snapshots.
var ErrInvalidSnapshot = errors.New("duel: invalid snapshot")

// FighterState is the persisted part of a fighter.
type FighterState struct {
	Level Level `json:"level"`
	HP    int   `json:"hp"`
	Dealt int   `json:"dealt"`
}

// Snapshot is the resumable state of an unfinished duel. Choices holds the
// host's pending selection and is not interpreted by the duel.
type Snapshot struct {
	Player  FighterState `json:"p1"`
	Bot     FighterState `json:"bot"`
	Round   int          `json:"round"`
	Choices TurnChoices  `json:"choices"`
	Log     []string     `json:"log,omitempty"`
}

// Snapshot captures the duel.
func (d *Duel) Snapshot() Snapshot {
	return Snapshot{
		Player: FighterState{Level: d.player.Level, HP: d.player.HP, Dealt: d.player.Dealt},
		Bot:    FighterState{Level: d.bot.Level, HP: d.bot.HP, Dealt: d.bot.Dealt},
		Round:  d.round,
		Log:    d.log.Lines(),
	}
}

// RestoreDuel rebuilds an in-progress duel from a snapshot.
func RestoreDuel(s Snapshot, r Rand) (*Duel, error) {
	if s.Round < 1 {
		return nil, fmt.Errorf("%w: round %d", ErrInvalidSnapshot, s.Round)
	}
	p, err := restoreFighter("You", s.Player)
	if err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}
	b, err := restoreFighter("Bot", s.Bot)
	if err != nil {
		return nil, fmt.Errorf("bot: %w", err)
	}
	if !p.Alive() || !b.Alive() {
		return nil, fmt.Errorf("%w: duel already finished", ErrInvalidSnapshot)
	}
	d := &Duel{
		player:  p,
		bot:     b,
		round:   s.Round,
		outcome: InProgress,
		log:     NewLog(),
		rng:     r,
	}
	if len(s.Log) > 0 {
		d.log = &Log{}
		d.log.Prepend(s.Log...)
	}
	return d, nil
}

func restoreFighter(name string, st FighterState) (Fighter, error) {
	f, err := NewFighter(name, st.Level)
	if err != nil {
		return Fighter{}, errors.Join(ErrInvalidSnapshot, err)
	}
	if st.HP < 0 || st.HP > f.HPMax {
		return Fighter{}, fmt.Errorf("%w: hp %d outside [0, %d]", ErrInvalidSnapshot, st.HP, f.HPMax)
	}
	if st.Dealt < 0 {
		return Fighter{}, fmt.Errorf("%w: negative dealt %d", ErrInvalidSnapshot, st.Dealt)
	}
	f.HP = st.HP
	f.Dealt = st.Dealt
	return f, nil
}
