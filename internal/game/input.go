package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Four-Quarters/internal/duel"
)

// attackKeys and blockKeys pick zones in duel.Zones order.
var (
	attackKeys = [len(duel.Zones)]ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5}
	blockKeys  = [len(duel.Zones)]ebiten.Key{ebiten.KeyQ, ebiten.KeyW, ebiten.KeyE, ebiten.KeyR, ebiten.KeyT}
)

// Key captions, in the same order.
const (
	attackKeyNames = "12345"
	blockKeyNames  = "QWERT"
)

// trackedKeys is every key the front end reacts to on an edge.
var trackedKeys = append(append([]ebiten.Key{
	ebiten.KeyEnter, ebiten.KeySpace, ebiten.KeyEscape, ebiten.KeyBackspace,
	ebiten.KeyL, ebiten.KeyB, ebiten.KeyC, ebiten.KeyS, ebiten.KeyX, ebiten.KeyH,
	ebiten.KeyEqual, ebiten.KeyMinus,
}, attackKeys[:]...), blockKeys[:]...)

// keyEdges turns key state into edge-triggered presses. poll samples every
// tracked key at the start of a frame; endFrame remembers them.
type keyEdges struct {
	isDown   func(ebiten.Key) bool
	prevKeys map[ebiten.Key]bool
	curKeys  map[ebiten.Key]bool
}

func newKeyEdges(isDown func(ebiten.Key) bool) *keyEdges {
	if isDown == nil {
		isDown = ebiten.IsKeyPressed
	}
	return &keyEdges{
		isDown:   isDown,
		prevKeys: make(map[ebiten.Key]bool),
		curKeys:  make(map[ebiten.Key]bool),
	}
}

func (k *keyEdges) poll() {
	for _, key := range trackedKeys {
		k.curKeys[key] = k.isDown(key)
	}
}

// pressed reports a key that went down this frame.
func (k *keyEdges) pressed(key ebiten.Key) bool {
	return k.curKeys[key] && !k.prevKeys[key]
}

func (k *keyEdges) anyPressed(keys ...ebiten.Key) bool {
	for _, key := range keys {
		if k.pressed(key) {
			return true
		}
	}
	return false
}

func (k *keyEdges) endFrame() {
	k.prevKeys, k.curKeys = k.curKeys, k.prevKeys
	clear(k.curKeys)
}

// applyArenaKeys maps this frame's presses to duel actions. It returns a
// status line for the player, or "".
func applyArenaKeys(w *World, k *keyEdges) string {
	for i, key := range attackKeys {
		if k.pressed(key) {
			w.PickAttack(duel.Zones[i])
		}
	}
	for i, key := range blockKeys {
		if k.pressed(key) && !w.ToggleBlock(duel.Zones[i]) && !w.Duel().Over() {
			return "Two blocks at most. Release one first."
		}
	}

	switch {
	case k.anyPressed(ebiten.KeyBackspace, ebiten.KeyEscape):
		w.Leave()
	case k.anyPressed(ebiten.KeyEnter, ebiten.KeySpace):
		if err := w.Confirm(); err != nil {
			return err.Error()
		}
	case k.pressed(ebiten.KeyX):
		w.ClearChoices()
	case k.pressed(ebiten.KeyL):
		if err := w.CyclePlayerLevel(); err != nil {
			log.Printf("[DUEL] %v", err)
		}
		return "New duel at your next level."
	case k.pressed(ebiten.KeyB):
		if err := w.CycleBotLevel(); err != nil {
			log.Printf("[DUEL] %v", err)
		}
		return "New duel against the next bot level."
	case k.pressed(ebiten.KeyC):
		if err := w.CopyLog(); err != nil {
			return "Clipboard unavailable."
		}
		return "Battle log copied."
	case k.pressed(ebiten.KeyS):
		w.SaveNow()
		return "Saved."
	}
	return ""
}
