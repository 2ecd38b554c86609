package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/Garsondee/Four-Quarters/internal/duel"
	"github.com/Garsondee/Four-Quarters/internal/game"
	"github.com/Garsondee/Four-Quarters/internal/street"
)

const (
	maxRounds    = 1000
	maxWalkTicks = 10_000
)

// duelRun is one duel played from the street into the arena and to the end.
type duelRun struct {
	walkMs  float64
	outcome duel.Outcome
	rounds  int
	rewards duel.Rewards
}

// duelSummary aggregates duelRuns.
type duelSummary struct {
	runs        int
	outcomes    map[duel.Outcome]int
	roundsSum   int
	playerSum   int
	botSum      int
	walkMsSum   float64
	minRounds   int
	maxRounds   int
	medianRound float64
}

// walkTiming is the time to walk from the street midpoint into a building.
type walkTiming struct {
	id         street.BuildingID
	distance   float64
	expectedMs float64
	ticks      int
	simMs      float64
}

func main() {
	var trials int
	var duels int
	var seed int64
	var playerLevel, botLevel int
	var width, height float64

	flag.IntVar(&trials, "trials", 100_000, "damage roll samples for the tier table")
	flag.IntVar(&duels, "duels", 200, "number of simulated duels")
	flag.Int64Var(&seed, "seed", 42, "base RNG seed; duel i uses seed+i")
	flag.IntVar(&playerLevel, "player-level", 1, "player level (1 or 2)")
	flag.IntVar(&botLevel, "bot-level", 1, "bot level (1 or 2)")
	flag.Float64Var(&width, "width", game.MapWidth, "map width in px")
	flag.Float64Var(&height, "height", game.MapHeight, "map height in px")
	flag.Parse()

	if trials <= 0 {
		fmt.Println("error: -trials must be > 0")
		return
	}
	if duels <= 0 {
		fmt.Println("error: -duels must be > 0")
		return
	}
	pl, bl := duel.Level(playerLevel), duel.Level(botLevel)
	if _, err := pl.HPMax(); err != nil {
		fmt.Printf("error: -player-level: %v\n", err)
		return
	}
	if _, err := bl.HPMax(); err != nil {
		fmt.Printf("error: -bot-level: %v\n", err)
		return
	}

	fmt.Printf("=== Four Quarters Headless Report ===\n")
	fmt.Printf("trials=%d duels=%d seed=%d levels=L%d vs L%d map=%.0fx%.0f\n\n", trials, duels, seed, pl, bl, width, height)

	printTiers(tierCounts(rand.New(rand.NewSource(seed)), trials), trials) // #nosec G404 -- report

	runs := make([]duelRun, 0, duels)
	for i := 0; i < duels; i++ {
		run, err := playDuel(seed+int64(i), pl, bl, width, height)
		if err != nil {
			fmt.Printf("error: duel %d: %v\n", i+1, err)
			return
		}
		runs = append(runs, run)
	}
	printDuels(summarize(runs))

	timings, err := walkTimings(width, height)
	if err != nil {
		fmt.Printf("error: walk timings: %v\n", err)
		return
	}
	printWalks(timings)
}

// tierCounts draws trials bonus tiers from r.
func tierCounts(r duel.Rand, trials int) [len(duel.BonusThresholds) + 1]int {
	var counts [len(duel.BonusThresholds) + 1]int
	for i := 0; i < trials; i++ {
		counts[duel.BonusTier(r.Float64())]++
	}
	return counts
}

// expectedTierShare is the probability of each bonus tier.
func expectedTierShare(k int) float64 {
	lo := 0.0
	if k > 0 {
		lo = duel.BonusThresholds[k-1]
	}
	hi := 1.0
	if k < len(duel.BonusThresholds) {
		hi = duel.BonusThresholds[k]
	}
	return hi - lo
}

func playDuel(seed int64, pl, bl duel.Level, width, height float64) (duelRun, error) {
	sim, err := game.NewSim(game.WithSeed(seed), game.WithLevels(pl, bl), game.WithMapSize(width, height))
	if err != nil {
		return duelRun{}, err
	}
	ticks, err := sim.WalkInto(street.Arena, maxWalkTicks)
	if err != nil {
		return duelRun{}, err
	}
	out, err := sim.PlayDuel(game.RandomStrategy, maxRounds)
	if err != nil {
		return duelRun{}, err
	}
	d := sim.World.Duel()
	rewards, _ := d.Rewards()
	return duelRun{
		walkMs:  float64(ticks) * game.FrameMs,
		outcome: out,
		rounds:  d.Round() - 1,
		rewards: rewards,
	}, nil
}

func summarize(runs []duelRun) duelSummary {
	s := duelSummary{runs: len(runs), outcomes: map[duel.Outcome]int{}}
	if len(runs) == 0 {
		return s
	}
	rounds := make([]int, 0, len(runs))
	for _, r := range runs {
		s.outcomes[r.outcome]++
		s.roundsSum += r.rounds
		s.playerSum += r.rewards.Player
		s.botSum += r.rewards.Bot
		s.walkMsSum += r.walkMs
		rounds = append(rounds, r.rounds)
	}
	sort.Ints(rounds)
	s.minRounds = rounds[0]
	s.maxRounds = rounds[len(rounds)-1]
	mid := len(rounds) / 2
	if len(rounds)%2 == 1 {
		s.medianRound = float64(rounds[mid])
	} else {
		s.medianRound = float64(rounds[mid-1]+rounds[mid]) / 2
	}
	return s
}

// walkTimings walks a fresh walker from the street midpoint into every
// building and compares the frame count with distance over speed.
func walkTimings(width, height float64) ([]walkTiming, error) {
	geom, err := street.NewMapGeometry(street.MapParams{Width: width, Height: height})
	if err != nil {
		return nil, err
	}
	start := geom.Street.Metrics.TotalLength / 2
	out := make([]walkTiming, 0, len(geom.Buildings))
	for _, b := range geom.Buildings {
		sim, err := game.NewSim(game.WithMapSize(width, height))
		if err != nil {
			return nil, err
		}
		ticks, err := sim.WalkInto(b.ID, maxWalkTicks)
		if err != nil {
			return nil, err
		}
		dist := math.Abs(b.S - start)
		out = append(out, walkTiming{
			id:         b.ID,
			distance:   dist,
			expectedMs: expectedWalkMs(dist, street.DefaultWalkSpeed),
			ticks:      ticks,
			simMs:      float64(ticks) * game.FrameMs,
		})
	}
	return out, nil
}

// expectedWalkMs is the continuous walking time for a distance.
func expectedWalkMs(distance, speedPxPerSec float64) float64 {
	if speedPxPerSec <= 0 {
		return math.Inf(1)
	}
	return distance / speedPxPerSec * 1000
}

func pct(n, total int) float64 {
	if total <= 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func printTiers(counts [len(duel.BonusThresholds) + 1]int, trials int) {
	fmt.Printf("--- Damage bonus tiers (%d rolls) ---\n", trials)
	for k, n := range counts {
		fmt.Printf("tier %d  +%2.0f%%  damage=%2.0f%%  observed=%6.2f%%  expected=%6.2f%%\n",
			k, (duel.TierPercent(k)-duel.TierPercent(0))*100, duel.TierPercent(k)*100, pct(n, trials), expectedTierShare(k)*100)
	}
	fmt.Println()
}

func printDuels(s duelSummary) {
	fmt.Printf("--- Duels (%d, random player vs bot) ---\n", s.runs)
	for _, o := range []duel.Outcome{duel.PlayerWins, duel.BotWins, duel.Draw} {
		fmt.Printf("%-9s %5d  (%5.1f%%)\n", o, s.outcomes[o], pct(s.outcomes[o], s.runs))
	}
	fmt.Printf("rounds: avg=%.2f median=%.1f min=%d max=%d\n", avg(s.roundsSum, s.runs), s.medianRound, s.minRounds, s.maxRounds)
	fmt.Printf("rewards: player avg=%.2f bot avg=%.2f\n", avg(s.playerSum, s.runs), avg(s.botSum, s.runs))
	if s.runs > 0 {
		fmt.Printf("walk to arena: avg=%.1fms\n", s.walkMsSum/float64(s.runs))
	}
	fmt.Println()
}

func printWalks(ts []walkTiming) {
	fmt.Printf("--- Street walk from the midpoint at %.0f px/s ---\n", street.DefaultWalkSpeed)
	for _, t := range ts {
		fmt.Printf("%-6s distance=%7.1fpx expected=%7.1fms simulated=%7.1fms (%d ticks)\n",
			t.id, t.distance, t.expectedMs, t.simMs, t.ticks)
	}
}
