package duel

import (
	"fmt"
	"math"
	"strings"
)

// LogCapacity is the number of lines a duel log keeps.
const LogCapacity = 50

const startLine = "Battle started. Pick an attack and two blocks, then resolve the turn."

// Log holds battle lines newest first. Lines from one turn keep their order.
type Log struct {
	lines []string
}

// NewLog returns a log holding only the opening line.
func NewLog() *Log {
	return &Log{lines: []string{startLine}}
}

// Prepend puts lines ahead of older entries, dropping the oldest beyond
// LogCapacity.
func (l *Log) Prepend(lines ...string) {
	merged := make([]string, 0, len(lines)+len(l.lines))
	merged = append(merged, lines...)
	merged = append(merged, l.lines...)
	if len(merged) > LogCapacity {
		merged = merged[:LogCapacity]
	}
	l.lines = merged
}

// Lines returns a copy of the log, newest first.
func (l *Log) Lines() []string {
	return append([]string(nil), l.lines...)
}

// Len is the number of lines held.
func (l *Log) Len() int { return len(l.lines) }

// Text joins the log with newlines, newest first.
func (l *Log) Text() string { return strings.Join(l.lines, "\n") }

// FormatBlocks joins block zones with " + ", or "(none)" when empty.
func FormatBlocks(blocks []Zone) string {
	if len(blocks) == 0 {
		return "(none)"
	}
	names := make([]string, len(blocks))
	for i, b := range blocks {
		names[i] = b.String()
	}
	return strings.Join(names, " + ")
}

// HPBarPercent is hp as a rounded percentage of hpMax.
func HPBarPercent(hp, hpMax int) int {
	if hpMax <= 0 {
		return 0
	}
	return int(math.Round(float64(hp) / float64(hpMax) * 100))
}

func blockedTag(blocked bool) string {
	if blocked {
		return " (blocked)"
	}
	return ""
}

func turnLines(res TurnResult) []string {
	lines := []string{
		fmt.Sprintf("Round %d: You attack %s%s, block %s. You deal %d damage.",
			res.Round, res.Player.Attack, blockedTag(res.PlayerBlocked), FormatBlocks(res.Player.Blocks), res.AppliedToBot),
		fmt.Sprintf("          Bot attacks %s%s, blocks %s. Bot deals %d damage.",
			res.Bot.Attack, blockedTag(res.BotBlocked), FormatBlocks(res.Bot.Blocks), res.AppliedToPlayer),
	}
	if res.Rewards != nil {
		lines = append(lines, resultLine(res.Outcome, *res.Rewards))
	}
	return lines
}

func resultLine(o Outcome, r Rewards) string {
	switch o {
	case BotWins:
		return fmt.Sprintf("Result: %s. Rewards: Bot %d, You %d.", o, r.Bot, r.Player)
	default:
		return fmt.Sprintf("Result: %s. Rewards: You %d, Bot %d.", o, r.Player, r.Bot)
	}
}
