package game

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Four-Quarters/internal/duel"
	"github.com/Garsondee/Four-Quarters/internal/street"
)

var uiFace = text.NewGoXFace(basicfont.Face7x13)

var (
	colGrass    = color.RGBA{R: 46, G: 66, B: 44, A: 255}
	colKerb     = color.RGBA{R: 92, G: 92, B: 84, A: 255}
	colAsphalt  = color.RGBA{R: 58, G: 60, B: 64, A: 255}
	colLaneMark = color.RGBA{R: 210, G: 200, B: 140, A: 200}
	colEntrance = color.RGBA{R: 240, G: 200, B: 80, A: 255}
	colWalker   = color.RGBA{R: 235, G: 235, B: 240, A: 255}
	colText     = color.RGBA{R: 225, G: 230, B: 225, A: 255}
	colDim      = color.RGBA{R: 150, G: 160, B: 150, A: 255}
	colAttack   = color.RGBA{R: 190, G: 70, B: 60, A: 255}
	colBlock    = color.RGBA{R: 60, G: 110, B: 190, A: 255}
	colButton   = color.RGBA{R: 38, G: 44, B: 40, A: 255}
)

// buildingColors tints each building on the map and its room floor.
var buildingColors = map[street.BuildingID]color.RGBA{
	street.Arena: {R: 150, G: 62, B: 52, A: 255},
	street.Shop:  {R: 64, G: 96, B: 150, A: 255},
	street.Cafe:  {R: 150, G: 112, B: 60, A: 255},
}

var buildingTitles = map[street.BuildingID]string{
	street.Arena: "Arena",
	street.Shop:  "Shop",
	street.Cafe:  "Cafe",
}

// drawText draws s with its top-left corner at (x, y).
func drawText(dst *ebiten.Image, s string, x, y, scale float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, uiFace, op)
}

// drawTextCentered centres s horizontally on cx.
func drawTextCentered(dst *ebiten.Image, s string, cx, y, scale float64, clr color.Color) {
	w, _ := text.Measure(s, uiFace, 0)
	drawText(dst, s, cx-w*scale/2, y, scale, clr)
}

// --- Map ---

func (g *Game) drawMap(buf *ebiten.Image) {
	geom := g.world.Geometry()
	buf.Fill(colGrass)

	st := geom.Street
	half := float32(st.Thickness / 2)
	// Kerb first, then the asphalt on top, with round joints.
	for _, pass := range []struct {
		c     color.RGBA
		extra float32
	}{{colKerb, 10}, {colAsphalt, 0}} {
		for i := 1; i < len(st.Path); i++ {
			a, b := st.Path[i-1], st.Path[i]
			vector.StrokeLine(buf, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 2*half+pass.extra, pass.c, true)
		}
		for _, p := range st.Path {
			vector.FillCircle(buf, float32(p.X), float32(p.Y), half+pass.extra/2, pass.c, true)
		}
	}

	// Dashed centre line.
	m := st.Metrics
	const dash, gap = 28.0, 22.0
	for s := 0.0; s < m.TotalLength; s += dash + gap {
		a := m.PointAt(s)
		b := m.PointAt(min(s+dash, m.TotalLength))
		vector.StrokeLine(buf, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 4, colLaneMark, true)
	}

	queued := g.world.Walker().Queued()
	for _, b := range geom.Buildings {
		c := buildingColors[b.ID]
		vector.FillRect(buf, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), c, false)
		outline := float32(3)
		if b.ID == queued {
			outline = 8
		}
		vector.StrokeRect(buf, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), outline, color.RGBA{R: 20, G: 20, B: 18, A: 255}, false)
		drawTextCentered(buf, buildingTitles[b.ID], b.X+b.W/2, b.Y+b.H/2-20, 3, colText)

		// Door path from the building to its entrance.
		vector.StrokeLine(buf, float32(b.X+b.W/2), float32(b.Y+b.H), float32(b.Entrance.X), float32(b.Entrance.Y), 6, colKerb, true)
		vector.FillCircle(buf, float32(b.Entrance.X), float32(b.Entrance.Y), 9, colEntrance, true)
	}

	w := g.world.Walker()
	if target, moving := w.Target(); moving {
		t := m.PointAt(target)
		vector.StrokeCircle(buf, float32(t.X), float32(t.Y), 14, 3, colEntrance, true)
	}
	pos := w.Position()
	vector.FillCircle(buf, float32(pos.X), float32(pos.Y), 16, colWalker, true)
	vector.StrokeCircle(buf, float32(pos.X), float32(pos.Y), 16, 3, color.RGBA{R: 30, G: 30, B: 30, A: 255}, true)
}

// --- Rooms ---

func (g *Game) drawRoom(screen *ebiten.Image) {
	ox, oy := float64(g.offX), float64(g.offY)
	id := g.world.Scene().building()
	c := buildingColors[id]
	c.R, c.G, c.B = c.R/3, c.G/3, c.B/3
	vector.FillRect(screen, float32(ox), float32(oy), float32(g.cam.worldW), float32(g.cam.worldH), c, false)

	cx := ox + g.cam.worldW/2
	drawTextCentered(screen, strings.ToUpper(buildingTitles[id]), cx, oy+360, 8, colText)
	drawTextCentered(screen, "Closed for now. Come back later.", cx, oy+520, 3, colDim)
	drawTextCentered(screen, "Backspace to go back outside", cx, oy+600, 3, colDim)
}

// --- Arena ---

// Arena layout, relative to the viewport origin.
const (
	cardY       = 40.0
	cardW       = 820.0
	cardH       = 170.0
	rowTop      = 300.0
	rowStep     = 108.0
	buttonW     = 380.0
	buttonH     = 90.0
	attackColX  = 560.0
	blockColX   = 1000.0
	zoneLabelX  = 200.0
	arenaFooter = 860.0
)

// arenaButton is one clickable zone cell.
type arenaButton struct {
	zone  duel.Zone
	block bool
	x, y  float64
}

// arenaButtons lists every zone cell in screen coordinates.
func arenaButtons(offX, offY float64) []arenaButton {
	out := make([]arenaButton, 0, 2*len(duel.Zones))
	for i, z := range duel.Zones {
		y := offY + rowTop + float64(i)*rowStep
		out = append(out,
			arenaButton{zone: z, x: offX + attackColX, y: y},
			arenaButton{zone: z, block: true, x: offX + blockColX, y: y},
		)
	}
	return out
}

// arenaHit returns the zone cell under a screen point.
func arenaHit(offX, offY, mx, my float64) (arenaButton, bool) {
	for _, b := range arenaButtons(offX, offY) {
		if mx >= b.x && mx < b.x+buttonW && my >= b.y && my < b.y+buttonH {
			return b, true
		}
	}
	return arenaButton{}, false
}

func (g *Game) drawArena(screen *ebiten.Image) {
	ox, oy := float64(g.offX), float64(g.offY)
	vector.FillRect(screen, float32(ox), float32(oy), float32(g.cam.worldW), float32(g.cam.worldH), color.RGBA{R: 34, G: 24, B: 22, A: 255}, false)

	d := g.world.Duel()
	drawFighterCard(screen, d.Player(), ox+80, oy+cardY)
	drawFighterCard(screen, d.Bot(), ox+1020, oy+cardY)

	drawTextCentered(screen, "ATTACK", ox+attackColX+buttonW/2, oy+rowTop-44, 3, colDim)
	drawTextCentered(screen, "BLOCK", ox+blockColX+buttonW/2, oy+rowTop-44, 3, colDim)

	choices := g.world.Choices()
	last, hasLast := g.world.LastTurn()
	for i, b := range arenaButtons(ox, oy) {
		key, fill := attackKeyNames[i/2], colAttack
		selected := choices.Attack == b.zone
		if b.block {
			key, fill = blockKeyNames[i/2], colBlock
			selected = choices.Blocking(b.zone)
		}
		if !selected {
			fill = colButton
		}
		vector.FillRect(screen, float32(b.x), float32(b.y), buttonW, buttonH, fill, false)
		vector.StrokeRect(screen, float32(b.x), float32(b.y), buttonW, buttonH, 2, color.RGBA{R: 90, G: 80, B: 70, A: 255}, false)
		drawText(screen, fmt.Sprintf("[%c]", key), b.x+16, b.y+30, 2, colDim)

		if !b.block {
			drawText(screen, b.zone.String(), ox+zoneLabelX, b.y+24, 3, colText)
		}
		if hasLast {
			if tag := lastTurnTag(last, b); tag != "" {
				drawText(screen, tag, b.x+110, b.y+30, 2, colEntrance)
			}
		}
	}

	footer := "Pick one attack and two blocks, then press Enter."
	switch {
	case d.Over():
		r, _ := d.Rewards()
		footer = fmt.Sprintf("%s! Rewards: You %d, Bot %d. Enter to play again.", d.Outcome(), r.Player, r.Bot)
	case g.world.Ready():
		footer = "Ready. Press Enter to resolve the turn."
	}
	drawTextCentered(screen, fmt.Sprintf("Round %d", d.Round()), ox+g.cam.worldW/2, oy+arenaFooter, 3, colText)
	drawTextCentered(screen, footer, ox+g.cam.worldW/2, oy+arenaFooter+60, 3, colText)
	if g.status != "" {
		drawTextCentered(screen, g.status, ox+g.cam.worldW/2, oy+arenaFooter+110, 2, colEntrance)
	}
}

// lastTurnTag marks where the previous turn's attacks landed: your attack
// on the attack column, the bot's on the block column.
func lastTurnTag(last duel.TurnResult, b arenaButton) string {
	if b.block {
		if last.Bot.Attack != b.zone {
			return ""
		}
		if last.PlayerBlocked {
			return "bot attack blocked"
		}
		return fmt.Sprintf("bot hit you -%d", last.AppliedToPlayer)
	}
	if last.Player.Attack != b.zone {
		return ""
	}
	if last.BotBlocked {
		return "bot blocked"
	}
	return fmt.Sprintf("hit -%d", last.AppliedToBot)
}

func drawFighterCard(screen *ebiten.Image, f duel.Fighter, x, y float64) {
	vector.FillRect(screen, float32(x), float32(y), cardW, cardH, color.RGBA{R: 22, G: 18, B: 18, A: 255}, false)
	vector.StrokeRect(screen, float32(x), float32(y), cardW, cardH, 2, color.RGBA{R: 90, G: 70, B: 60, A: 255}, false)
	drawText(screen, fmt.Sprintf("%s  L%d", f.Name, f.Level), x+20, y+16, 3, colText)

	pct := duel.HPBarPercent(f.HP, f.HPMax)
	const barX, barY, barW, barH = 20.0, 70.0, cardW - 40, 30.0
	vector.FillRect(screen, float32(x+barX), float32(y+barY), float32(barW), barH, color.RGBA{R: 60, G: 20, B: 20, A: 255}, false)
	vector.FillRect(screen, float32(x+barX), float32(y+barY), float32(barW*float64(pct)/100), barH, color.RGBA{R: 80, G: 170, B: 80, A: 255}, false)
	drawText(screen, fmt.Sprintf("HP %d/%d (%d%%)   dealt %d", f.HP, f.HPMax, pct, f.Dealt), x+20, y+116, 2, colDim)
}
