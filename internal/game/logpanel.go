package game

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Log panel: rendered into an offscreen buffer at 1x then blitted at logScale.
const (
	logPanelWidth = 480 // screen pixels
	logScale      = 2
	logLineHeight = 12 // buffer pixels
	logCharWidth  = 6  // DebugPrint glyph width
	logPad        = 4
)

// logRow is one wrapped line on the panel. entry is the index of the log
// line it came from.
type logRow struct {
	text  string
	entry int
}

// wrapLog word-wraps log lines to at most width characters. Leading
// alignment spaces are dropped and continuation rows are indented.
func wrapLog(lines []string, width int) []logRow {
	width = max(width, 8)
	var rows []logRow
	for i, line := range lines {
		words := strings.Fields(line)
		cur := ""
		for _, w := range words {
			switch {
			case cur == "":
				cur = w
			case len(cur)+1+len(w) <= width:
				cur += " " + w
			default:
				rows = append(rows, logRow{text: cur, entry: i})
				cur = "  " + w
			}
			for len(cur) > width {
				rows = append(rows, logRow{text: cur[:width], entry: i})
				cur = "  " + cur[width:]
			}
		}
		if cur != "" {
			rows = append(rows, logRow{text: cur, entry: i})
		}
	}
	return rows
}

// LogPanel draws the battle log on the right side of the screen, newest
// first, like the log the duel keeps.
type LogPanel struct {
	buf *ebiten.Image
}

func NewLogPanel(height int) *LogPanel {
	return &LogPanel{buf: ebiten.NewImage(logPanelWidth/logScale, height/logScale)}
}

// Draw renders lines at panelX. The first recent entries are highlighted.
func (p *LogPanel) Draw(screen *ebiten.Image, panelX int, lines []string, recent int) {
	bw := float32(p.buf.Bounds().Dx())
	bh := float32(p.buf.Bounds().Dy())

	p.buf.Clear()
	// Panel background.
	vector.FillRect(p.buf, 0, 0, bw, bh, color.RGBA{R: 10, G: 12, B: 10, A: 248}, false)
	// Left separator line.
	vector.StrokeLine(p.buf, 0, 0, 0, bh, 1.0, color.RGBA{R: 50, G: 70, B: 50, A: 255}, false)

	// Title bar.
	vector.FillRect(p.buf, 0, 0, bw, 16, color.RGBA{R: 20, G: 30, B: 20, A: 255}, false)
	ebitenutil.DebugPrintAt(p.buf, "BATTLE LOG  [C] copy", logPad+4, 0)
	vector.StrokeLine(p.buf, 0, 16, bw, 16, 1.0, color.RGBA{R: 50, G: 80, B: 50, A: 200}, false)

	width := (int(bw) - 2*logPad - 8) / logCharWidth
	rows := wrapLog(lines, width)
	maxVisible := (int(bh) - 20) / logLineHeight

	y := 18
	for i, r := range rows {
		if i >= maxVisible {
			break
		}
		if r.entry < recent {
			vector.FillRect(p.buf, 2, float32(y), bw-4, logLineHeight, color.RGBA{R: 30, G: 40, B: 30, A: 160}, false)
			vector.FillRect(p.buf, logPad, float32(y+3), 2, 6, color.RGBA{R: 200, G: 170, B: 60, A: 255}, false)
		}
		ebitenutil.DebugPrintAt(p.buf, r.text, logPad+6, y-2)
		y += logLineHeight
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(logScale, logScale)
	opts.GeoM.Translate(float64(panelX), 0)
	screen.DrawImage(p.buf, opts)
}
