package duel

import (
	"errors"
	"fmt"
)

// ErrDuelOver is returned when a turn is submitted after the duel ended.
var ErrDuelOver = errors.New("duel: duel is over")

// Outcome is the state of a duel. Every value but InProgress is terminal.
type Outcome string

const (
	InProgress Outcome = "In progress"
	PlayerWins Outcome = "You win"
	BotWins    Outcome = "Bot wins"
	Draw       Outcome = "Draw"
)

// Over reports whether o is terminal.
func (o Outcome) Over() bool { return o != InProgress && o != "" }

// Rewards are paid once when a duel ends.
type Rewards struct {
	Player int `json:"player"`
	Bot    int `json:"bot"`
}

// RewardsFor pays the winner their full dealt damage and the loser half of
// theirs, rounded down. A draw pays both sides half.
func RewardsFor(o Outcome, playerDealt, botDealt int) Rewards {
	half := func(n int) int { return int(float64(n) * lossShare) }
	switch o {
	case PlayerWins:
		return Rewards{Player: playerDealt, Bot: half(botDealt)}
	case BotWins:
		return Rewards{Player: half(playerDealt), Bot: botDealt}
	case Draw:
		return Rewards{Player: half(playerDealt), Bot: half(botDealt)}
	default:
		return Rewards{}
	}
}

// TurnResult describes one resolved turn. DamageTo* are the raw rolls;
// AppliedTo* are capped at the defender's HP before the turn and are what
// the attacker is credited with.
type TurnResult struct {
	Round           int         `json:"round"`
	Player          TurnChoices `json:"player"`
	Bot             TurnChoices `json:"bot"`
	DamageToBot     int         `json:"damageToBot"`
	DamageToPlayer  int         `json:"damageToPlayer"`
	AppliedToBot    int         `json:"appliedToBot"`
	AppliedToPlayer int         `json:"appliedToPlayer"`
	PlayerBlocked   bool        `json:"playerBlocked"` // player's attack was blocked
	BotBlocked      bool        `json:"botBlocked"`    // bot's attack was blocked
	Outcome         Outcome     `json:"outcome"`
	Rewards         *Rewards    `json:"rewards,omitempty"`
	Lines           []string    `json:"lines"`
}

// Duel is a player versus bot fight. It is not safe for concurrent use;
// hosts serialize ResolveTurn calls.
type Duel struct {
	player  Fighter
	bot     Fighter
	round   int
	outcome Outcome
	rewards *Rewards
	log     *Log
	rng     Rand
}

// NewDuel starts a duel with both fighters at full HP.
func NewDuel(player, bot Level, r Rand) (*Duel, error) {
	d := &Duel{rng: r}
	if err := d.Restart(player, bot); err != nil {
		return nil, err
	}
	return d, nil
}

// Restart discards both fighters and the log and starts over at round 1.
// On error the duel is left untouched.
func (d *Duel) Restart(player, bot Level) error {
	p, err := NewFighter("You", player)
	if err != nil {
		return fmt.Errorf("player: %w", err)
	}
	b, err := NewFighter("Bot", bot)
	if err != nil {
		return fmt.Errorf("bot: %w", err)
	}
	d.player, d.bot = p, b
	d.round = 1
	d.outcome = InProgress
	d.rewards = nil
	d.log = NewLog()
	return nil
}

// ResolveTurn draws the bot's choices and resolves one turn.
func (d *Duel) ResolveTurn(choices TurnChoices) (TurnResult, error) {
	if d.outcome.Over() {
		return TurnResult{}, ErrDuelOver
	}
	if err := choices.Validate(); err != nil {
		return TurnResult{}, err
	}
	return d.resolve(choices, BotChoices(d.rng)), nil
}

// ResolveTurnWith resolves one turn against the given bot choices.
func (d *Duel) ResolveTurnWith(choices, bot TurnChoices) (TurnResult, error) {
	if d.outcome.Over() {
		return TurnResult{}, ErrDuelOver
	}
	if err := choices.Validate(); err != nil {
		return TurnResult{}, err
	}
	if err := bot.Validate(); err != nil {
		return TurnResult{}, fmt.Errorf("bot: %w", err)
	}
	return d.resolve(choices, bot), nil
}

// resolve applies both attacks against the pre-turn fighters.
func (d *Duel) resolve(choices, bot TurnChoices) TurnResult {
	choices, bot = choices.clone(), bot.clone()
	p, b := d.player, d.bot

	toBot := DamageFor(choices.Attack, bot.Blocks, p, d.rng)
	toPlayer := DamageFor(bot.Attack, choices.Blocks, b, d.rng)
	appliedToBot := min(toBot, b.HP)
	appliedToPlayer := min(toPlayer, p.HP)

	d.bot.HP = clampHP(b.HP-toBot, b.HPMax)
	d.bot.Dealt += appliedToPlayer
	d.bot.LastAttack, d.bot.LastBlocks = bot.Attack, bot.Blocks

	d.player.HP = clampHP(p.HP-toPlayer, p.HPMax)
	d.player.Dealt += appliedToBot
	d.player.LastAttack, d.player.LastBlocks = choices.Attack, choices.Blocks

	res := TurnResult{
		Round:           d.round,
		Player:          choices,
		Bot:             bot,
		DamageToBot:     toBot,
		DamageToPlayer:  toPlayer,
		AppliedToBot:    appliedToBot,
		AppliedToPlayer: appliedToPlayer,
		PlayerBlocked:   bot.Blocking(choices.Attack),
		BotBlocked:      choices.Blocking(bot.Attack),
		Outcome:         d.endCondition(),
	}
	if res.Outcome.Over() {
		rw := RewardsFor(res.Outcome, d.player.Dealt, d.bot.Dealt)
		d.rewards = &rw
		res.Rewards = &rw
	}
	d.outcome = res.Outcome
	d.round++

	res.Lines = turnLines(res)
	d.log.Prepend(res.Lines...)
	return res
}

func (d *Duel) endCondition() Outcome {
	switch {
	case !d.player.Alive() && !d.bot.Alive():
		return Draw
	case !d.bot.Alive():
		return PlayerWins
	case !d.player.Alive():
		return BotWins
	default:
		return InProgress
	}
}

// Player returns a copy of the player fighter.
func (d *Duel) Player() Fighter { return copyFighter(d.player) }

// Bot returns a copy of the bot fighter.
func (d *Duel) Bot() Fighter { return copyFighter(d.bot) }

// Round is the number of the next turn to resolve.
func (d *Duel) Round() int { return d.round }

func (d *Duel) Outcome() Outcome { return d.outcome }

func (d *Duel) Over() bool { return d.outcome.Over() }

// Rewards returns the final rewards once the duel is over.
func (d *Duel) Rewards() (Rewards, bool) {
	if d.rewards == nil {
		return Rewards{}, false
	}
	return *d.rewards, true
}

// Log returns the battle log, newest first.
func (d *Duel) Log() []string { return d.log.Lines() }

// LogText is the battle log as one newline-separated string.
func (d *Duel) LogText() string { return d.log.Text() }

func copyFighter(f Fighter) Fighter {
	f.LastBlocks = append([]Zone(nil), f.LastBlocks...)
	return f
}
