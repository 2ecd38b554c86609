package duel

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

// scriptRand replays fixed draws and fails the test on any unplanned draw.
type scriptRand struct {
	t      *testing.T
	floats []float64
	ints   []int
}

func (s *scriptRand) Float64() float64 {
	s.t.Helper()
	if len(s.floats) == 0 {
		s.t.Fatal("unexpected Float64 draw")
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptRand) Intn(n int) int {
	s.t.Helper()
	if len(s.ints) == 0 {
		s.t.Fatal("unexpected Intn draw")
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v < 0 || v >= n {
		s.t.Fatalf("scripted Intn value %d outside [0,%d)", v, n)
	}
	return v
}

func (s *scriptRand) drained() bool { return len(s.floats) == 0 && len(s.ints) == 0 }

func TestBonusTier_Boundaries(t *testing.T) {
	cases := []struct {
		u    float64
		want int
	}{
		{0, 0},
		{0.6399, 0},
		{0.64, 1},
		{0.8399, 1},
		{0.84, 2},
		{0.94, 3},
		{0.9899, 3},
		{0.99, 4},
		{0.99999, 4},
	}
	for _, c := range cases {
		if got := BonusTier(c.u); got != c.want {
			t.Fatalf("BonusTier(%v): expected %d, got %d", c.u, c.want, got)
		}
	}
}

func TestBonusTier_Distribution(t *testing.T) {
	const n = 100000
	r := rand.New(rand.NewSource(42))
	var counts [5]int
	for i := 0; i < n; i++ {
		counts[BonusTier(r.Float64())]++
	}
	want := [5]float64{0.64, 0.20, 0.10, 0.05, 0.01}
	for k, p := range want {
		got := float64(counts[k]) / n
		if math.Abs(got-p) > 0.005 {
			t.Fatalf("tier %d: expected frequency %.3f ±0.005, got %.4f", k, p, got)
		}
	}
}

func TestDamageFor_Level1BaseTier(t *testing.T) {
	f, _ := NewFighter("You", 1)
	r := &scriptRand{t: t, floats: []float64{0.1}}
	if got := DamageFor(Head, []Zone{Chest, Feet}, f, r); got != 9 {
		t.Fatalf("expected floor(50*0.18)=9, got %d", got)
	}
}

func TestDamageFor_TopTier(t *testing.T) {
	f, _ := NewFighter("You", 2)
	r := &scriptRand{t: t, floats: []float64{0.995}}
	if got := DamageFor(Torso, nil, f, r); got != 31 {
		t.Fatalf("expected floor(120*0.26)=31, got %d", got)
	}
}

func TestDamageFor_BlockedIsZeroWithoutDraw(t *testing.T) {
	f, _ := NewFighter("Bot", 2)
	r := &scriptRand{t: t}
	for _, z := range Zones {
		blocks := []Zone{z, Head}
		if z == Head {
			blocks = []Zone{Head, Feet}
		}
		if got := DamageFor(z, blocks, f, r); got != 0 {
			t.Fatalf("blocked %s: expected 0, got %d", z, got)
		}
	}
}

func TestDamageFor_UnblockedAtLeastOne(t *testing.T) {
	tiny := Fighter{Name: "Tiny", Level: 1, HPMax: 1, HP: 1}
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		if got := DamageFor(Knees, []Zone{Head, Chest}, tiny, r); got < 1 {
			t.Fatalf("unblocked hit must deal at least 1, got %d", got)
		}
	}
}

func TestDamageFor_NoAttack(t *testing.T) {
	f, _ := NewFighter("You", 1)
	if got := DamageFor(NoZone, nil, f, &scriptRand{t: t}); got != 0 {
		t.Fatalf("no attack zone should deal 0, got %d", got)
	}
}

func TestBotChoices_RedrawsUntilDistinct(t *testing.T) {
	r := &scriptRand{t: t, ints: []int{3, 3, 3, 1, 4}}
	c := BotChoices(r)
	if c.Blocks[0] != Chest || c.Blocks[1] != Knees {
		t.Fatalf("expected blocks Chest + Knees in zone order, got %s", FormatBlocks(c.Blocks))
	}
	if c.Attack != Feet {
		t.Fatalf("expected attack Feet, got %s", c.Attack)
	}
	if !r.drained() {
		t.Fatal("BotChoices should consume exactly the scripted draws")
	}
}

func TestBotChoices_AlwaysValid(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		c := BotChoices(r)
		if err := c.Validate(); err != nil {
			t.Fatalf("draw %d: bot choices invalid: %v", i, err)
		}
		if c.Blocks[0] >= c.Blocks[1] {
			t.Fatalf("draw %d: blocks should be ordered, got %s", i, FormatBlocks(c.Blocks))
		}
	}
}

func TestTurnChoices_Validate(t *testing.T) {
	bad := []TurnChoices{
		{},
		{Attack: Head},
		{Attack: Head, Blocks: []Zone{Chest}},
		{Attack: Head, Blocks: []Zone{Chest, Chest}},
		{Attack: Head, Blocks: []Zone{Chest, Torso, Feet}},
		{Attack: NoZone, Blocks: []Zone{Chest, Torso}},
		{Attack: Zone(9), Blocks: []Zone{Chest, Torso}},
		{Attack: Head, Blocks: []Zone{Chest, NoZone}},
	}
	for i, c := range bad {
		if err := c.Validate(); !errors.Is(err, ErrInvalidTurnChoices) {
			t.Fatalf("case %d: expected ErrInvalidTurnChoices, got %v", i, err)
		}
	}
	ok := TurnChoices{Attack: Feet, Blocks: []Zone{Head, Feet}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid choices, got %v", err)
	}
}

func TestTurnChoices_ToggleBlock(t *testing.T) {
	var c TurnChoices
	if !c.ToggleBlock(Head) || !c.ToggleBlock(Feet) {
		t.Fatal("first two blocks should be accepted")
	}
	if c.ToggleBlock(Chest) {
		t.Fatal("third block should be refused")
	}
	if !c.ToggleBlock(Head) {
		t.Fatal("toggling a chosen block should remove it")
	}
	if len(c.Blocks) != 1 || c.Blocks[0] != Feet {
		t.Fatalf("expected [Feet], got %s", FormatBlocks(c.Blocks))
	}
	if c.ToggleBlock(NoZone) {
		t.Fatal("NoZone is not a block")
	}
}
