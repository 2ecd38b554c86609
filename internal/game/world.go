package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/atotto/clipboard"

	"github.com/Garsondee/Four-Quarters/internal/duel"
	"github.com/Garsondee/Four-Quarters/internal/host"
	"github.com/Garsondee/Four-Quarters/internal/save"
	"github.com/Garsondee/Four-Quarters/internal/street"
)

const (
	// MapWidth and MapHeight are the fixed canvas the street is laid out on.
	MapWidth  = 1920
	MapHeight = 1080

	// FrameMs is the simulation step per Update.
	FrameMs = 16.0

	autosaveEveryMs = 30_000.0
	storeTimeout    = 3 * time.Second
)

// Scene is the room currently shown.
type Scene int

const (
	SceneMap Scene = iota
	SceneArena
	SceneShop
	SceneCafe
)

var sceneNames = [...]string{"map", "arena", "shop", "cafe"}

func (s Scene) String() string {
	if s < 0 || int(s) >= len(sceneNames) {
		return fmt.Sprintf("Scene(%d)", int(s))
	}
	return sceneNames[s]
}

// sceneFor maps a building to the room behind its door.
func sceneFor(id street.BuildingID) (Scene, bool) {
	switch id {
	case street.Arena:
		return SceneArena, true
	case street.Shop:
		return SceneShop, true
	case street.Cafe:
		return SceneCafe, true
	}
	return SceneMap, false
}

// building is the inverse of sceneFor.
func (s Scene) building() street.BuildingID {
	switch s {
	case SceneArena:
		return street.Arena
	case SceneShop:
		return street.Shop
	case SceneCafe:
		return street.Cafe
	}
	return ""
}

// Options configures a World. Zero fields take defaults.
type Options struct {
	MapWidth    float64
	MapHeight   float64
	PlayerLevel duel.Level
	BotLevel    duel.Level
	Rand        duel.Rand
	Host        host.Capabilities
	Store       save.Store // nil disables persistence
	SessionID   string
	Now         func() time.Time
	Copy        func(string) error // clipboard writer
}

func (o *Options) defaults() {
	if o.MapWidth <= 0 {
		o.MapWidth = MapWidth
	}
	if o.MapHeight <= 0 {
		o.MapHeight = MapHeight
	}
	if o.PlayerLevel == 0 {
		o.PlayerLevel = 1
	}
	if o.BotLevel == 0 {
		o.BotLevel = 1
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.Host == nil {
		o.Host = host.Nop{}
	}
	if o.SessionID == "" {
		o.SessionID = save.LocalSession
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Copy == nil {
		o.Copy = clipboard.WriteAll
	}
}

// World is the front end's state without any rendering: the street walker,
// the current scene and the arena duel. Game drives it from input; Sim
// drives it headlessly.
type World struct {
	geom   *street.MapGeometry
	walker *street.Walker
	scene  Scene

	duel    *duel.Duel
	choices duel.TurnChoices
	last    *duel.TurnResult

	host      host.Capabilities
	store     save.Store
	sessionID string
	now       func() time.Time
	clip      func(string) error

	events    *EventLog
	tick      int
	sinceSave float64 // ms since the last save attempt
}

// NewWorld lays out the map, starts a duel and, when a store is set,
// resumes a fresh saved duel.
func NewWorld(opts Options) (*World, error) {
	opts.defaults()
	g, err := street.NewMapGeometry(street.MapParams{Width: opts.MapWidth, Height: opts.MapHeight})
	if err != nil {
		return nil, err
	}
	d, err := duel.NewDuel(opts.PlayerLevel, opts.BotLevel, opts.Rand)
	if err != nil {
		return nil, err
	}
	w := &World{
		geom:      g,
		walker:    street.NewWalker(g, street.DefaultWalkSpeed),
		duel:      d,
		host:      opts.Host,
		store:     opts.Store,
		sessionID: opts.SessionID,
		now:       opts.Now,
		clip:      opts.Copy,
		events:    NewEventLog(),
	}
	w.resume(opts.Rand)
	return w, nil
}

func (w *World) resume(r duel.Rand) {
	if w.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	rec, err := save.LoadFresh(ctx, w.store, w.sessionID, w.now())
	switch {
	case errors.Is(err, save.ErrNotFound):
		return
	case errors.Is(err, save.ErrStale):
		log.Printf("[SAVE] ignoring old save: %v", err)
		return
	case err != nil:
		log.Printf("[SAVE] load %s: %v", w.sessionID, err)
		return
	}
	d, err := duel.RestoreDuel(rec.Duel, r)
	if err != nil {
		log.Printf("[SAVE] restore %s: %v", w.sessionID, err)
		return
	}
	w.duel = d
	w.choices = pendingChoices(rec.Duel.Choices)
	w.events.Add(w.tick, catSave, "resumed", fmt.Sprintf("round %d", d.Round()), float64(d.Round()))
	log.Printf("[SAVE] resumed duel at round %d", d.Round())
}

// pendingChoices keeps whatever part of a saved selection is still legal.
func pendingChoices(saved duel.TurnChoices) duel.TurnChoices {
	var c duel.TurnChoices
	if saved.Attack.Valid() {
		c.Attack = saved.Attack
	}
	for _, z := range saved.Blocks {
		c.ToggleBlock(z)
	}
	return c
}

// Tap handles a tap in map coordinates. Taps are ignored outside the map.
func (w *World) Tap(x, y float64) street.TapResult {
	if w.scene != SceneMap {
		return street.TapResult{}
	}
	res := w.walker.Tap(x, y)
	switch res.Kind {
	case street.TapBuilding:
		w.events.Add(w.tick, catWalk, "tap_building", string(res.Building), res.TargetS)
	case street.TapStreet:
		w.events.Add(w.tick, catWalk, "tap_street", fmt.Sprintf("s=%.1f", res.TargetS), res.TargetS)
	}
	return res
}

// Tick advances the world by dtMs: the walker moves on the map, and the
// autosave timer runs in every scene.
func (w *World) Tick(dtMs float64) {
	w.tick++
	if w.scene == SceneMap {
		if id, ok := w.walker.Tick(dtMs); ok {
			w.enter(id)
		}
	}
	w.sinceSave += dtMs
	if w.sinceSave >= autosaveEveryMs {
		w.Save()
	}
}

func (w *World) enter(id street.BuildingID) {
	scene, ok := sceneFor(id)
	if !ok {
		return
	}
	w.scene = scene
	w.events.Add(w.tick, catScene, "enter", string(id), w.walker.S())
	w.host.Haptic(host.Selection)
	if scene == SceneArena {
		host.ShowDuelButtons(w.host, w.duel.Over())
		return
	}
	w.host.MainButton("", false)
	w.host.BackButton(true)
}

// Leave returns to the map with the walker standing on the entrance of the
// building just left. It reports false on the map itself.
func (w *World) Leave() bool {
	if w.scene == SceneMap {
		return false
	}
	id := w.scene.building()
	w.walker.RespawnAt(id)
	w.scene = SceneMap
	w.events.Add(w.tick, catScene, "leave", string(id), w.walker.S())
	w.host.MainButton("", false)
	w.host.BackButton(false)
	if id == street.Arena {
		w.Save()
	}
	return true
}

// PickAttack selects z as the attack zone; picking it again clears it.
func (w *World) PickAttack(z duel.Zone) bool {
	if w.scene != SceneArena || w.duel.Over() || !z.Valid() {
		return false
	}
	if w.choices.Attack == z {
		w.choices.Attack = duel.NoZone
	} else {
		w.choices.Attack = z
	}
	w.host.Haptic(host.Selection)
	return true
}

// ToggleBlock adds or removes a block zone. A third block is refused.
func (w *World) ToggleBlock(z duel.Zone) bool {
	if w.scene != SceneArena || w.duel.Over() {
		return false
	}
	if !w.choices.ToggleBlock(z) {
		return false
	}
	w.host.Haptic(host.Selection)
	return true
}

// ClearChoices drops the pending selection.
func (w *World) ClearChoices() {
	w.choices = duel.TurnChoices{}
	w.last = nil
}

// Ready reports whether the pending selection can be resolved.
func (w *World) Ready() bool { return w.choices.Validate() == nil }

// Resolve plays the pending selection against the bot, reports the turn to
// the host and saves.
func (w *World) Resolve() (duel.TurnResult, error) {
	if w.scene != SceneArena {
		return duel.TurnResult{}, fmt.Errorf("resolve in %s", w.scene)
	}
	res, err := w.duel.ResolveTurn(w.choices)
	if err != nil {
		return duel.TurnResult{}, err
	}
	w.choices = duel.TurnChoices{}
	w.last = &res
	w.events.Add(w.tick, catDuel, "turn",
		fmt.Sprintf("round %d: dealt %d, took %d", res.Round, res.AppliedToBot, res.AppliedToPlayer),
		float64(res.AppliedToBot))
	if res.Outcome.Over() && res.Rewards != nil {
		w.events.Add(w.tick, catDuel, "outcome", string(res.Outcome), float64(res.Rewards.Player))
	}
	host.ReportTurn(w.host, res)
	w.Save()
	return res, nil
}

// Confirm is the main button: once the duel is over it starts another at
// the same levels, otherwise it resolves a complete selection.
func (w *World) Confirm() error {
	if w.scene != SceneArena {
		return nil
	}
	if w.duel.Over() {
		return w.PlayAgain()
	}
	if err := w.choices.Validate(); err != nil {
		return err
	}
	_, err := w.Resolve()
	return err
}

// Restart starts a new duel at the given levels.
func (w *World) Restart(player, bot duel.Level) error {
	if err := w.duel.Restart(player, bot); err != nil {
		return err
	}
	w.ClearChoices()
	w.events.Add(w.tick, catDuel, "restart", fmt.Sprintf("L%d vs L%d", player, bot), 0)
	if w.scene == SceneArena {
		host.ShowDuelButtons(w.host, false)
	}
	w.Save()
	return nil
}

// PlayAgain restarts at the current levels.
func (w *World) PlayAgain() error {
	return w.Restart(w.duel.Player().Level, w.duel.Bot().Level)
}

// CyclePlayerLevel restarts with the player's next level.
func (w *World) CyclePlayerLevel() error {
	return w.Restart(w.duel.Player().Level.Next(), w.duel.Bot().Level)
}

// CycleBotLevel restarts with the bot's next level.
func (w *World) CycleBotLevel() error {
	return w.Restart(w.duel.Player().Level, w.duel.Bot().Level.Next())
}

// CopyLog puts the battle log on the clipboard.
func (w *World) CopyLog() error {
	if err := w.clip(w.duel.LogText()); err != nil {
		log.Printf("[CLIP] copy battle log: %v", err)
		w.host.Notify(host.NotifyError, "Could not copy the battle log.")
		return err
	}
	w.host.Haptic(host.Light)
	w.host.Notify(host.NotifyInfo, "Battle log copied.")
	return nil
}

// SaveNow is an explicit save from the player.
func (w *World) SaveNow() {
	w.Save()
	w.host.Haptic(host.Light)
}

// Save stores the duel and the pending selection. Failures are logged and
// otherwise ignored.
func (w *World) Save() {
	w.sinceSave = 0
	if w.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := save.SaveDuel(ctx, w.store, w.sessionID, w.duel, w.choices, w.now()); err != nil {
		log.Printf("[SAVE] %s: %v", w.sessionID, err)
		w.events.Add(w.tick, catSave, "error", err.Error(), 0)
		return
	}
	w.events.Add(w.tick, catSave, "saved", fmt.Sprintf("round %d", w.duel.Round()), float64(w.duel.Round()))
}

func (w *World) Geometry() *street.MapGeometry { return w.geom }
func (w *World) Walker() *street.Walker { return w.walker }
func (w *World) Scene() Scene { return w.scene }
func (w *World) Duel() *duel.Duel { return w.duel }
func (w *World) Events() *EventLog { return w.events }
func (w *World) CurrentTick() int { return w.tick }

// Choices returns a copy of the pending selection.
func (w *World) Choices() duel.TurnChoices {
	return duel.TurnChoices{Attack: w.choices.Attack, Blocks: append([]duel.Zone(nil), w.choices.Blocks...)}
}

// LastTurn is the most recent resolved turn since the last restart.
func (w *World) LastTurn() (duel.TurnResult, bool) {
	if w.last == nil {
		return duel.TurnResult{}, false
	}
	return *w.last, true
}
