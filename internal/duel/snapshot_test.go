package duel

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	r := &scriptRand{t: t, floats: []float64{0}}
	d, _ := NewDuel(2, 1, r)
	if _, err := d.ResolveTurnWith(
		TurnChoices{Attack: Chest, Blocks: []Zone{Head, Torso}},
		TurnChoices{Attack: Head, Blocks: []Zone{Knees, Feet}},
	); err != nil {
		t.Fatalf("ResolveTurnWith: %v", err)
	}

	snap := d.Snapshot()
	snap.Choices = TurnChoices{Attack: Feet, Blocks: []Zone{Head}}
	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"attack":"Feet"`) {
		t.Fatalf("zones should encode by name, got %s", raw)
	}

	var back Snapshot
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	restored, err := RestoreDuel(back, &scriptRand{t: t})
	if err != nil {
		t.Fatalf("RestoreDuel: %v", err)
	}
	if restored.Round() != 2 {
		t.Fatalf("expected round 2, got %d", restored.Round())
	}
	if p := restored.Player(); p.Level != 2 || p.HP != 120 || p.Dealt != 21 {
		t.Fatalf("unexpected player after restore: %+v", p)
	}
	if b := restored.Bot(); b.Level != 1 || b.HP != 29 || b.HPMax != 50 {
		t.Fatalf("unexpected bot after restore: %+v", b)
	}
	if got, want := restored.LogText(), d.LogText(); got != want {
		t.Fatalf("log should survive restore:\n%s\nvs\n%s", got, want)
	}
	if back.Choices.Attack != Feet || len(back.Choices.Blocks) != 1 {
		t.Fatalf("pending choices should round trip, got %+v", back.Choices)
	}
}

func TestRestoreDuel_Rejects(t *testing.T) {
	cases := map[string]Snapshot{
		"round zero":     {Player: FighterState{Level: 1, HP: 10}, Bot: FighterState{Level: 1, HP: 10}},
		"hp above max":   {Player: FighterState{Level: 1, HP: 51}, Bot: FighterState{Level: 1, HP: 10}, Round: 1},
		"negative hp":    {Player: FighterState{Level: 1, HP: 10}, Bot: FighterState{Level: 2, HP: -1}, Round: 1},
		"negative dealt": {Player: FighterState{Level: 1, HP: 10, Dealt: -3}, Bot: FighterState{Level: 1, HP: 10}, Round: 1},
		"unknown level":  {Player: FighterState{Level: 7, HP: 10}, Bot: FighterState{Level: 1, HP: 10}, Round: 1},
		"finished":       {Player: FighterState{Level: 1, HP: 0}, Bot: FighterState{Level: 1, HP: 10}, Round: 4},
	}
	for name, s := range cases {
		if _, err := RestoreDuel(s, nil); !errors.Is(err, ErrInvalidSnapshot) {
			t.Fatalf("%s: expected ErrInvalidSnapshot, got %v", name, err)
		}
	}
}

func TestRestoreDuel_LogIsCapped(t *testing.T) {
	lines := make([]string, LogCapacity+10)
	for i := range lines {
		lines[i] = "line"
	}
	d, err := RestoreDuel(Snapshot{
		Player: FighterState{Level: 1, HP: 50},
		Bot:    FighterState{Level: 1, HP: 50},
		Round:  1,
		Log:    lines,
	}, nil)
	if err != nil {
		t.Fatalf("RestoreDuel: %v", err)
	}
	if n := len(d.Log()); n != LogCapacity {
		t.Fatalf("expected restored log capped at %d, got %d", LogCapacity, n)
	}
}

func TestZone_Parse(t *testing.T) {
	for _, z := range Zones {
		got, err := ParseZone(strings.ToLower(z.String()))
		if err != nil || got != z {
			t.Fatalf("ParseZone(%q): expected %s, got %s (%v)", strings.ToLower(z.String()), z, got, err)
		}
	}
	if z, err := ParseZone(""); err != nil || z != NoZone {
		t.Fatalf("empty name should be NoZone, got %s (%v)", z, err)
	}
	if _, err := ParseZone("Elbow"); !errors.Is(err, ErrUnknownZone) {
		t.Fatalf("expected ErrUnknownZone, got %v", err)
	}
	var c TurnChoices
	if err := json.Unmarshal([]byte(`{"attack":"Tail","blocks":[]}`), &c); err == nil {
		t.Fatal("expected an unknown zone in JSON to fail")
	}
	if NoZone.String() != "none" {
		t.Fatalf("expected NoZone to print as none, got %q", NoZone.String())
	}
}
