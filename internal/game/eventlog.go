package game

import (
	"fmt"
	"strings"
)

// Event categories recorded by the world.
const (
	catWalk  = "walk"
	catScene = "scene"
	catDuel  = "duel"
	catSave  = "save"
)

// EventEntry is one thing that happened in the world.
type EventEntry struct {
	Tick     int
	Category string  // walk, scene, duel, save
	Key      string  // event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value (arc-length, damage, ...)
}

// String formats the entry as a fixed-width log line.
//
//	[T=0042] walk   tap_building   arena
func (e EventEntry) String() string {
	return fmt.Sprintf("[T=%04d] %-6s %-14s %s", e.Tick, e.Category, e.Key, e.Value)
}

// EventLog collects structured events. Unlike the duel log shown on screen
// it is unbounded and meant for tests and reports.
type EventLog struct {
	entries []EventEntry
}

func NewEventLog() *EventLog {
	return &EventLog{}
}

// Add records a new entry.
func (l *EventLog) Add(tick int, category, key, value string, numVal float64) {
	l.entries = append(l.entries, EventEntry{
		Tick:     tick,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// Entries returns all recorded entries.
func (l *EventLog) Entries() []EventEntry {
	return l.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (l *EventLog) Filter(category, key string) []EventEntry {
	var out []EventEntry
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Count returns how many entries match category and key.
func (l *EventLog) Count(category, key string) int {
	return len(l.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (l *EventLog) LastOf(category, key string) (EventEntry, bool) {
	entries := l.Filter(category, key)
	if len(entries) == 0 {
		return EventEntry{}, false
	}
	return entries[len(entries)-1], true
}

// Format returns the full log as a single string for t.Log output.
func (l *EventLog) Format() string {
	var sb strings.Builder
	for _, e := range l.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
