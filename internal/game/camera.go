package game

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	zoomMin = 1.0
	zoomMax = 3.0

	// clickSlop is how far, in screen pixels, a press may travel and still
	// count as a tap rather than a drag.
	clickSlop = 5.0
)

// camera is a pan + zoom view onto a world of worldW x worldH shown in a
// viewport of the same size at (offX, offY) on screen.
type camera struct {
	x, y   float64 // world-space centre
	zoom   float64
	worldW float64
	worldH float64
	offX   float64
	offY   float64
}

func newCamera(worldW, worldH, offX, offY float64) camera {
	return camera{x: worldW / 2, y: worldH / 2, zoom: 1, worldW: worldW, worldH: worldH, offX: offX, offY: offY}
}

// geoM is the world-to-screen transform, including the viewport offset.
func (c *camera) geoM() ebiten.GeoM {
	var m ebiten.GeoM
	m.Translate(-c.x, -c.y)
	m.Scale(c.zoom, c.zoom)
	m.Translate(c.worldW/2+c.offX, c.worldH/2+c.offY)
	return m
}

// screenToWorld inverts geoM:
//
//	screen = (world - cam) * zoom + vpHalf + offset
//	world  = (screen - offset - vpHalf) / zoom + cam
func (c *camera) screenToWorld(mx, my float64) (float64, float64) {
	wx := (mx-c.offX-c.worldW/2)/c.zoom + c.x
	wy := (my-c.offY-c.worldH/2)/c.zoom + c.y
	return wx, wy
}

// inViewport reports whether a screen point lies over the map viewport.
func (c *camera) inViewport(mx, my float64) bool {
	return mx >= c.offX && mx < c.offX+c.worldW && my >= c.offY && my < c.offY+c.worldH
}

// zoomBy multiplies the zoom and keeps the view inside the world.
func (c *camera) zoomBy(f float64) {
	c.zoom = math.Max(zoomMin, math.Min(zoomMax, c.zoom*f))
	c.clamp()
}

func (c *camera) pan(dx, dy float64) {
	c.x += dx
	c.y += dy
	c.clamp()
}

// clamp keeps the camera centre inside the world bounds (accounting for zoom).
func (c *camera) clamp() {
	halfVW := c.worldW / 2 / c.zoom
	halfVH := c.worldH / 2 / c.zoom
	c.x = math.Max(halfVW, math.Min(c.worldW-halfVW, c.x))
	c.y = math.Max(halfVH, math.Min(c.worldH-halfVH, c.y))
}

// drag tracks one left-button press on the map. A press that never moves
// beyond clickSlop is a tap; anything further pans the camera.
type drag struct {
	active     bool
	moved      bool
	startX     float64
	startY     float64
	camX, camY float64
}

func (d *drag) begin(mx, my float64, c *camera) {
	*d = drag{active: true, startX: mx, startY: my, camX: c.x, camY: c.y}
}

// update pans c while the button is held.
func (d *drag) update(mx, my float64, c *camera) {
	if !d.active {
		return
	}
	dx, dy := mx-d.startX, my-d.startY
	if !d.moved && math.Hypot(dx, dy) < clickSlop {
		return
	}
	d.moved = true
	c.x = d.camX - dx/c.zoom
	c.y = d.camY - dy/c.zoom
	c.clamp()
}

// end finishes the press and reports whether it was a tap, and where.
func (d *drag) end() (x, y float64, tap bool) {
	wasTap := d.active && !d.moved
	x, y = d.startX, d.startY
	*d = drag{}
	return x, y, wasTap
}
