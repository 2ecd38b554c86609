package duel

import (
	"errors"
	"fmt"
)

// ErrInvalidLevel is returned for levels missing from HPByLevel.
var ErrInvalidLevel = errors.New("duel: invalid level")

// Level selects a fighter's maximum HP.
type Level int

// HPByLevel is the fixed level to max-HP table.
var HPByLevel = map[Level]int{
	1: 50,
	2: 120,
}

// Levels lists the playable levels in ascending order.
var Levels = []Level{1, 2}

// HPMax returns the maximum HP for the level.
func (l Level) HPMax() (int, error) {
	hp, ok := HPByLevel[l]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLevel, int(l))
	}
	return hp, nil
}

// Next cycles to the following level, wrapping to the first.
func (l Level) Next() Level {
	for i, lv := range Levels {
		if lv == l {
			return Levels[(i+1)%len(Levels)]
		}
	}
	return Levels[0]
}

// Fighter is one side of a duel. HP stays within [0, HPMax] and Dealt only
// grows. A level change means a new Fighter.
type Fighter struct {
	Name       string `json:"name"`
	Level      Level  `json:"level"`
	HPMax      int    `json:"hpMax"`
	HP         int    `json:"hp"`
	Dealt      int    `json:"dealt"`
	LastAttack Zone   `json:"lastAttack,omitempty"`
	LastBlocks []Zone `json:"lastBlocks,omitempty"`
}

// NewFighter returns a fighter at full HP for its level.
func NewFighter(name string, level Level) (Fighter, error) {
	hp, err := level.HPMax()
	if err != nil {
		return Fighter{}, err
	}
	return Fighter{Name: name, Level: level, HPMax: hp, HP: hp}, nil
}

// Alive reports whether the fighter has HP left.
func (f Fighter) Alive() bool { return f.HP > 0 }

func clampHP(hp, hpMax int) int {
	if hp < 0 {
		return 0
	}
	if hp > hpMax {
		return hpMax
	}
	return hp
}
