package street

import (
	"math"
	"testing"
)

func TestMoveAlongStreet_Reaches(t *testing.T) {
	// 380 px/s for 160 ms covers 60.8 px.
	got := MoveAlongStreet(100, 150, 380, 160)
	if !got.Reached || got.S != 150 {
		t.Fatalf("expected to reach 150, got %+v", got)
	}
	got = MoveAlongStreet(150, 200, 380, 160)
	if !got.Reached || got.S != 200 {
		t.Fatalf("expected to reach 200, got %+v", got)
	}
}

func TestMoveAlongStreet_PartialStep(t *testing.T) {
	got := MoveAlongStreet(100, 500, 380, 100)
	if got.Reached {
		t.Fatal("should not have reached a target 400px away in 100ms")
	}
	if math.Abs(got.S-138) > eps {
		t.Fatalf("expected s=138, got %.4f", got.S)
	}
}

func TestMoveAlongStreet_Backwards(t *testing.T) {
	got := MoveAlongStreet(500, 100, 380, 100)
	if got.Reached || math.Abs(got.S-462) > eps {
		t.Fatalf("expected s=462 heading backwards, got %+v", got)
	}
	got = MoveAlongStreet(120, 100, 380, 100)
	if !got.Reached || got.S != 100 {
		t.Fatalf("expected to snap back onto 100, got %+v", got)
	}
}

func TestMoveAlongStreet_Degenerate(t *testing.T) {
	cases := []struct {
		name        string
		cur, target float64
		speed, dt   float64
		wantS       float64
		wantReached bool
	}{
		{"zero speed", 10, 20, 0, 16, 10, false},
		{"negative dt", 10, 20, 380, -16, 10, false},
		{"zero dt on target", 20, 20, 380, 0, 20, true},
		{"NaN target", 10, math.NaN(), 380, 16, 10, false},
		{"Inf speed", 10, 20, math.Inf(1), 16, 10, false},
		{"NaN dt", 10, 10, 380, math.NaN(), 10, false},
	}
	for _, c := range cases {
		got := MoveAlongStreet(c.cur, c.target, c.speed, c.dt)
		if got.S != c.wantS || got.Reached != c.wantReached {
			t.Fatalf("%s: expected {%.1f %v}, got %+v", c.name, c.wantS, c.wantReached, got)
		}
	}
}

func TestMoveAlongStreet_ConvergesWithoutOvershoot(t *testing.T) {
	s, target := 0.0, 1000.0
	for frame := 0; frame < 1000; frame++ {
		step := MoveAlongStreet(s, target, DefaultWalkSpeed, 16)
		if step.S > target {
			t.Fatalf("frame %d overshot: %.4f > %.4f", frame, step.S, target)
		}
		if step.S < s {
			t.Fatalf("frame %d moved backwards: %.4f < %.4f", frame, step.S, s)
		}
		s = step.S
		if step.Reached {
			// 1000px at 6.08px per frame needs 165 frames.
			if frame != 164 {
				t.Fatalf("expected arrival on frame 164, got %d", frame)
			}
			return
		}
	}
	t.Fatal("walker never arrived")
}
