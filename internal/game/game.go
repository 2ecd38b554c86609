// Package game is the ebiten front end: a street map the player walks by
// tapping, and an arena where the zone duel is played.
package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// borderWidth is the pixel gap between the window edge and the map.
const borderWidth = 24

// hudScale is the integer upscale factor applied to all HUD text (3 = 3x larger).
const hudScale = 3

// statusTicks is how long a status line stays up (~3 s at 60 TPS).
const statusTicks = 180

type Game struct {
	width  int
	height int
	offX   int // pixel offset from window left to map left
	offY   int // pixel offset from window top to map top

	world *World
	cam   camera
	drag  drag
	keys  *keyEdges

	// Offscreen buffer for the map; camera transform applied on blit.
	worldBuf *ebiten.Image
	// Offscreen buffer for HUD text, rendered at 1x then blitted at hudScale.
	hudBuf   *ebiten.Image
	logPanel *LogPanel

	showHUD    bool
	status     string
	statusLeft int
}

// New builds the front end around a fresh World.
func New(opts Options) (*Game, error) {
	w, err := NewWorld(opts)
	if err != nil {
		return nil, err
	}
	mw := int(w.Geometry().Width)
	mh := int(w.Geometry().Height)
	g := &Game{
		width:   borderWidth + mw + borderWidth + logPanelWidth,
		height:  borderWidth + mh + borderWidth,
		offX:    borderWidth,
		offY:    borderWidth,
		world:   w,
		keys:    newKeyEdges(nil),
		showHUD: true,
	}
	g.cam = newCamera(float64(mw), float64(mh), float64(g.offX), float64(g.offY))
	g.worldBuf = ebiten.NewImage(mw, mh)
	g.hudBuf = ebiten.NewImage(g.width/hudScale, g.height/hudScale)
	g.logPanel = NewLogPanel(g.height)
	return g, nil
}

// World exposes the state behind the front end.
func (g *Game) World() *World { return g.world }

func (g *Game) Update() error {
	g.keys.poll()
	defer g.keys.endFrame()

	if g.keys.pressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}

	switch g.world.Scene() {
	case SceneMap:
		if g.keys.pressed(ebiten.KeyEscape) {
			g.world.Save()
			return ebiten.Termination
		}
		g.handleMapInput()
	case SceneArena:
		g.setStatus(applyArenaKeys(g.world, g.keys))
		g.handleArenaClick()
	default:
		if g.keys.anyPressed(ebiten.KeyBackspace, ebiten.KeyEscape) {
			g.world.Leave()
		}
	}

	g.world.Tick(FrameMs)

	if g.statusLeft > 0 {
		g.statusLeft--
		if g.statusLeft == 0 {
			g.status = ""
		}
	}
	return nil
}

func (g *Game) setStatus(s string) {
	if s == "" {
		return
	}
	g.status = s
	g.statusLeft = statusTicks
}

// handleMapInput pans, zooms and turns clicks into taps on the street.
func (g *Game) handleMapInput() {
	// Camera pan: WASD or arrow keys.
	panSpeed := 8.0 / g.cam.zoom
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.cam.pan(0, -panSpeed)
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.cam.pan(0, panSpeed)
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.cam.pan(-panSpeed, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.cam.pan(panSpeed, 0)
	}

	// Camera zoom: mouse wheel or =/- keys.
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.cam.zoomBy(math.Pow(1.12, wy))
	}
	if g.keys.pressed(ebiten.KeyEqual) {
		g.cam.zoomBy(1.25)
	}
	if g.keys.pressed(ebiten.KeyMinus) {
		g.cam.zoomBy(1 / 1.25)
	}

	mx, my := ebiten.CursorPosition()
	fx, fy := float64(mx), float64(my)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && g.cam.inViewport(fx, fy) {
		g.drag.begin(fx, fy, &g.cam)
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.drag.update(fx, fy, &g.cam)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if sx, sy, tap := g.drag.end(); tap {
			g.world.Tap(g.cam.screenToWorld(sx, sy))
		}
	}
}

// handleArenaClick lets the mouse pick zones as the keys do.
func (g *Game) handleArenaClick() {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	b, ok := arenaHit(float64(g.offX), float64(g.offY), float64(mx), float64(my))
	if !ok {
		return
	}
	if b.block {
		if !g.world.ToggleBlock(b.zone) && !g.world.Duel().Over() {
			g.setStatus("Two blocks at most. Release one first.")
		}
		return
	}
	g.world.PickAttack(b.zone)
}

func (g *Game) Draw(screen *ebiten.Image) {
	// Window background: very dark, outside the map.
	screen.Fill(color.RGBA{R: 12, G: 14, B: 12, A: 255})

	switch g.world.Scene() {
	case SceneMap:
		g.worldBuf.Clear()
		g.drawMap(g.worldBuf)
		blit := &ebiten.DrawImageOptions{GeoM: g.cam.geoM()}
		screen.DrawImage(g.worldBuf, blit)
	case SceneArena:
		g.drawArena(screen)
	default:
		g.drawRoom(screen)
	}

	// Map border frame (drawn at screen coords, not transformed).
	ox := float32(g.offX)
	oy := float32(g.offY)
	gw := float32(g.cam.worldW)
	gh := float32(g.cam.worldH)
	borderCol := color.RGBA{R: 65, G: 90, B: 65, A: 255}
	vector.StrokeRect(screen, ox-1, oy-1, gw+2, gh+2, 2.0, borderCol, false)
	vector.StrokeRect(screen, ox-3, oy-3, gw+6, gh+6, 1.0, color.RGBA{R: 40, G: 65, B: 40, A: 100}, false)

	// Battle log panel (screen coords).
	recent := 0
	if last, ok := g.world.LastTurn(); ok {
		recent = len(last.Lines)
	}
	logX := g.offX + int(g.cam.worldW) + g.offX
	g.logPanel.Draw(screen, logX, g.world.Duel().Log(), recent)

	if g.showHUD {
		g.drawHUD(screen)
	}
}

func (g *Game) hudLines() []string {
	switch g.world.Scene() {
	case SceneMap:
		return []string{
			"MAP  click=walk/enter  drag/WASD=pan",
			fmt.Sprintf("scroll/+/- zoom (%.1fx)  Esc=quit", g.cam.zoom),
			"[H] toggle HUD",
		}
	case SceneArena:
		return []string{
			"ARENA  1-5 attack  Q W E R T block",
			"Enter=resolve  X=clear  S=save",
			"L=your level  B=bot level  C=copy log",
			"Backspace=leave  [H] toggle HUD",
		}
	}
	return []string{
		fmt.Sprintf("%s  Backspace=leave", g.world.Scene()),
		"[H] toggle HUD",
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := g.hudLines()
	if g.status != "" {
		lines = append(lines, "> "+g.status)
	}

	// Render into hudBuf at 1x, then scale up.
	const lineH = 12 // debug font line height at 1x
	const charW = 6  // debug font char width at 1x
	const padX = 5
	const padY = 4

	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len(l))
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)

	// Position in unscaled coordinates (hudBuf is screen/hudScale).
	bufH := float32(g.height / hudScale)
	bx := float32(g.offX/hudScale + 4)
	by := bufH - boxH - float32(g.offY/hudScale) - 4

	g.hudBuf.Clear()
	vector.FillRect(g.hudBuf, bx, by, boxW, boxH, color.RGBA{R: 6, G: 10, B: 6, A: 210}, false)
	vector.StrokeRect(g.hudBuf, bx, by, boxW, boxH, 1.0, color.RGBA{R: 60, G: 100, B: 60, A: 180}, false)
	// Inner highlight line along top edge.
	vector.StrokeLine(g.hudBuf, bx+1, by+1, bx+boxW-1, by+1, 1.0, color.RGBA{R: 80, G: 140, B: 80, A: 80}, false)

	for i, line := range lines {
		ebitenutil.DebugPrintAt(g.hudBuf, line, int(bx)+padX, int(by)+padY+i*lineH)
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(hudScale, hudScale)
	screen.DrawImage(g.hudBuf, opts)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
