package duel

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidTurnChoices is returned when a turn lacks exactly one attack zone
// and two distinct block zones.
var ErrInvalidTurnChoices = errors.New("duel: invalid turn choices")

// Rand is the random source used for bot choices and damage rolls.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// BonusThresholds raise the damage tier by one for each threshold a uniform
// draw meets. Tier k has probability 0.64, 0.20, 0.10, 0.05, 0.01.
var BonusThresholds = [...]float64{0.64, 0.84, 0.94, 0.99}

const (
	basePercent = 0.18
	tierPercent = 0.02
	lossShare   = 0.5
)

// BonusTier counts the thresholds u meets or exceeds.
func BonusTier(u float64) int {
	k := 0
	for _, t := range BonusThresholds {
		if u >= t {
			k++
		}
	}
	return k
}

// TierPercent is the share of the attacker's max HP dealt at tier k.
func TierPercent(k int) float64 {
	return basePercent + tierPercent*float64(k)
}

// DamagePercent draws one tier and returns its percentage.
func DamagePercent(r Rand) float64 {
	return TierPercent(BonusTier(r.Float64()))
}

// DamageFor is the raw damage an attack on zone deals to a defender holding
// blocks. A blocked zone deals exactly 0 and consumes no draw. An unblocked
// hit deals at least 1.
func DamageFor(attack Zone, blocks []Zone, attacker Fighter, r Rand) int {
	switch attack {
	case Head, Chest, Torso, Knees, Feet:
	default:
		return 0
	}
	if containsZone(blocks, attack) {
		return 0
	}
	return hitDamage(attacker.HPMax, DamagePercent(r))
}

func hitDamage(hpMax int, pct float64) int {
	dmg := int(math.Floor(float64(hpMax) * pct))
	if dmg < 1 {
		return 1
	}
	return dmg
}

// TurnChoices is one side's move: an attack zone and two block zones.
type TurnChoices struct {
	Attack Zone   `json:"attack,omitempty"`
	Blocks []Zone `json:"blocks"`
}

// Validate requires a real attack zone and two distinct real block zones.
func (c TurnChoices) Validate() error {
	if !c.Attack.Valid() {
		return fmt.Errorf("%w: pick one attack zone", ErrInvalidTurnChoices)
	}
	if len(c.Blocks) != 2 {
		return fmt.Errorf("%w: pick exactly two block zones, got %d", ErrInvalidTurnChoices, len(c.Blocks))
	}
	for _, b := range c.Blocks {
		if !b.Valid() {
			return fmt.Errorf("%w: block zone %s", ErrInvalidTurnChoices, b)
		}
	}
	if c.Blocks[0] == c.Blocks[1] {
		return fmt.Errorf("%w: block zones must differ", ErrInvalidTurnChoices)
	}
	return nil
}

// Blocking reports whether the choices block zone z.
func (c TurnChoices) Blocking(z Zone) bool { return containsZone(c.Blocks, z) }

// ToggleBlock adds z to the blocks, or removes it if already chosen. A third
// block is refused. It returns whether the blocks changed.
func (c *TurnChoices) ToggleBlock(z Zone) bool {
	if !z.Valid() {
		return false
	}
	for i, b := range c.Blocks {
		if b == z {
			c.Blocks = append(c.Blocks[:i:i], c.Blocks[i+1:]...)
			return true
		}
	}
	if len(c.Blocks) >= 2 {
		return false
	}
	c.Blocks = append(c.Blocks, z)
	return true
}

func (c TurnChoices) clone() TurnChoices {
	return TurnChoices{Attack: c.Attack, Blocks: append([]Zone(nil), c.Blocks...)}
}

// BotChoices draws two distinct block zones, redrawing the second until it
// differs, then one attack zone. Blocks come back in zone order.
func BotChoices(r Rand) TurnChoices {
	n := len(Zones)
	i := r.Intn(n)
	j := r.Intn(n)
	for j == i {
		j = r.Intn(n)
	}
	if j < i {
		i, j = j, i
	}
	return TurnChoices{
		Attack: Zones[r.Intn(n)],
		Blocks: []Zone{Zones[i], Zones[j]},
	}
}
