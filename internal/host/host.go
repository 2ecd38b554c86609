// Package host abstracts the embedding platform: haptics, notifications and
// the platform's main and back buttons. The core never depends on a
// concrete host; front ends inject one and fall back to Nop.
package host

import (
	"fmt"
	"sync"

	"github.com/Garsondee/Four-Quarters/internal/duel"
)

// HapticKind names a haptic pattern.
type HapticKind string

const (
	Selection HapticKind = "selection"
	Light     HapticKind = "light"
	Medium    HapticKind = "medium"
	Heavy     HapticKind = "heavy"
	Success   HapticKind = "success"
	Error     HapticKind = "error"
	Warning   HapticKind = "warning"
)

// Level is a notification severity.
type Level string

const (
	NotifyInfo    Level = "info"
	NotifySuccess Level = "success"
	NotifyWarning Level = "warning"
	NotifyError   Level = "error"
)

// Capabilities is what a host platform offers the game.
type Capabilities interface {
	Haptic(kind HapticKind)
	Notify(level Level, message string)
	MainButton(label string, visible bool)
	BackButton(visible bool)
}

// Nop ignores everything.
type Nop struct{}

func (Nop) Haptic(HapticKind) {}
func (Nop) Notify(Level, string) {}
func (Nop) MainButton(string, bool) {}
func (Nop) BackButton(bool) {}

// Event is one capability call, as recorded or sent over the wire.
type Event struct {
	Type    string     `json:"type"` // haptic, notify, mainButton, backButton
	Haptic  HapticKind `json:"haptic,omitempty"`
	Level   Level      `json:"level,omitempty"`
	Message string     `json:"message,omitempty"`
	Label   string     `json:"label,omitempty"`
	Visible bool       `json:"visible"`
}

func hapticEvent(k HapticKind) Event { return Event{Type: "haptic", Haptic: k} }

func notifyEvent(l Level, msg string) Event { return Event{Type: "notify", Level: l, Message: msg} }

func mainButtonEvent(label string, visible bool) Event {
	return Event{Type: "mainButton", Label: label, Visible: visible}
}

func backButtonEvent(visible bool) Event { return Event{Type: "backButton", Visible: visible} }

// Recorder keeps every call in order. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *Recorder) Haptic(k HapticKind) { r.add(hapticEvent(k)) }
func (r *Recorder) Notify(l Level, msg string) { r.add(notifyEvent(l, msg)) }
func (r *Recorder) MainButton(label string, visible bool) { r.add(mainButtonEvent(label, visible)) }
func (r *Recorder) BackButton(visible bool) { r.add(backButtonEvent(visible)) }

// Events returns a copy of the recorded calls.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Reset forgets recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// Button labels for the duel.
const (
	ResolveLabel   = "Resolve Turn"
	PlayAgainLabel = "Play Again"
)

// ShowDuelButtons sets the main and back buttons for a duel that is or is
// not over.
func ShowDuelButtons(c Capabilities, over bool) {
	if over {
		c.MainButton(PlayAgainLabel, true)
		c.BackButton(true)
		return
	}
	c.MainButton(ResolveLabel, true)
	c.BackButton(false)
}

// ReportTurn plays the feedback for a resolved turn: one haptic per attack
// (light when blocked, medium on a hit), then the outcome haptic and
// notification once the duel ends, then the button state.
func ReportTurn(c Capabilities, res duel.TurnResult) {
	c.Haptic(blockHaptic(res.PlayerBlocked))
	c.Haptic(blockHaptic(res.BotBlocked))

	if res.Outcome.Over() && res.Rewards != nil {
		switch res.Outcome {
		case duel.PlayerWins:
			c.Haptic(Success)
			c.Notify(NotifySuccess, fmt.Sprintf("Victory! You won and earned %d.", res.Rewards.Player))
		case duel.BotWins:
			c.Haptic(Error)
			c.Notify(NotifyError, fmt.Sprintf("Defeat! The bot won. You earned %d.", res.Rewards.Player))
		default:
			c.Haptic(Warning)
			c.Notify(NotifyWarning, fmt.Sprintf("Draw! Both fighters fell. You earned %d.", res.Rewards.Player))
		}
	}
	ShowDuelButtons(c, res.Outcome.Over())
}

func blockHaptic(blocked bool) HapticKind {
	if blocked {
		return Light
	}
	return Medium
}
