package street

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidMapSize is returned by NewMapGeometry for unusable canvas sizes.
var ErrInvalidMapSize = errors.New("street: invalid map size")

// --- Layout constants (fractions of the canvas) ---

const (
	streetSteps      = 12   // intervals sampled along the curved street
	streetCentreY    = 0.62 // resting height of the street
	streetAmplitude  = 0.12 // vertical bow
	streetThickness  = 0.12 // band thickness
	marginFraction   = 0.06 // default margin, of min(width, height)
	buildingWidth    = 0.18
	buildingHeight   = 0.22
	buildingLift     = 1.2 // building offset above the path, in thicknesses
	buildingNudge    = 0.2 // share of the lift applied along the normal in x
	streetMinRadius  = 10.0
	streetRadiusFrac = 0.65
)

// BuildingID names one of the fixed buildings on the street.
type BuildingID string

const (
	Arena BuildingID = "arena"
	Shop  BuildingID = "shop"
	Cafe  BuildingID = "cafe"
)

// buildingSlots is the placement contract: id and fraction of street length.
var buildingSlots = [...]struct {
	id       BuildingID
	fraction float64
}{
	{Arena, 0.15},
	{Shop, 0.5},
	{Cafe, 0.85},
}

// Rect is an axis-aligned box in canvas space.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Building is a rectangle that sits above the street. Entrance is the point
// on the street where the building is entered; S is its arc-length.
type Building struct {
	ID       BuildingID `json:"id"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	W        float64    `json:"w"`
	H        float64    `json:"h"`
	Entrance Point      `json:"entrance"`
	S        float64    `json:"s"`
}

// Contains is an inclusive hit test.
func (b Building) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.W && y >= b.Y && y <= b.Y+b.H
}

// Street is the walkable band: a curved centre line with a thickness.
type Street struct {
	Thickness float64      `json:"thickness"`
	Path      []Point      `json:"path"`
	Metrics   *PathMetrics `json:"-"`
	Bounds    Rect         `json:"bounds"`
}

// MapGeometry is the static layout of one map size.
type MapGeometry struct {
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Street    Street     `json:"street"`
	Buildings []Building `json:"buildings"`
}

// MapParams configures NewMapGeometry. A non-positive Margin selects the
// default of 6% of the shorter side.
type MapParams struct {
	Width  float64
	Height float64
	Margin float64
}

func (p MapParams) margin() float64 {
	if p.Margin > 0 {
		return p.Margin
	}
	return math.Round(math.Min(p.Width, p.Height) * marginFraction)
}

// NewMapGeometry lays out the street and the three buildings for a canvas.
// The result depends only on p.
func NewMapGeometry(p MapParams) (*MapGeometry, error) {
	if !(p.Width > 0) || !(p.Height > 0) || math.IsInf(p.Width, 0) || math.IsInf(p.Height, 0) {
		return nil, fmt.Errorf("%w: %vx%v", ErrInvalidMapSize, p.Width, p.Height)
	}
	margin := p.margin()
	thickness := math.Round(p.Height * streetThickness)

	points := CurvedStreet(p.Width, p.Height, margin)
	metrics, err := BuildPathMetrics(points)
	if err != nil {
		return nil, err
	}

	g := &MapGeometry{
		Width:  p.Width,
		Height: p.Height,
		Street: Street{
			Thickness: thickness,
			Path:      metrics.Points,
			Metrics:   metrics,
			Bounds:    streetBounds(points, thickness, margin),
		},
	}

	bw := math.Round(p.Width * buildingWidth)
	bh := math.Round(p.Height * buildingHeight)
	offset := thickness * buildingLift
	for _, slot := range buildingSlots {
		s := metrics.TotalLength * slot.fraction
		pt := metrics.PointAt(s)
		g.Buildings = append(g.Buildings, Building{
			ID:       slot.id,
			X:        math.Round(pt.X - bw/2 + pt.NX*offset*buildingNudge),
			Y:        math.Round(pt.Y - bh - offset),
			W:        bw,
			H:        bh,
			Entrance: Point{X: math.Round(pt.X), Y: math.Round(pt.Y)},
			S:        s,
		})
	}
	return g, nil
}

// CurvedStreet samples a gently bowed left-to-right street. Points are
// rounded to whole pixels and x is strictly increasing when the canvas is
// wider than twice the margin.
func CurvedStreet(width, height, margin float64) []Point {
	left := margin
	right := width - margin
	cy := height * streetCentreY
	amp := height * streetAmplitude

	points := make([]Point, 0, streetSteps+1)
	for i := 0; i <= streetSteps; i++ {
		t := float64(i) / streetSteps
		x := left + (right-left)*t
		y := cy + math.Sin(t*math.Pi*1.2)*amp*(0.7+0.3*math.Cos(t*math.Pi))
		points = append(points, Point{X: math.Round(x), Y: math.Round(y)})
	}
	return points
}

func streetBounds(points []Point, thickness, margin float64) Rect {
	r := Rect{
		Left:   math.Inf(1),
		Top:    math.Inf(1),
		Right:  math.Inf(-1),
		Bottom: math.Inf(-1),
	}
	for _, p := range points {
		r.Left = math.Min(r.Left, p.X)
		r.Right = math.Max(r.Right, p.X)
		r.Top = math.Min(r.Top, p.Y)
		r.Bottom = math.Max(r.Bottom, p.Y)
	}
	half := math.Floor(thickness / 2)
	r.Top -= half
	r.Bottom += half
	r.Left -= margin
	r.Right += margin
	return r
}

// StreetRadius is how far from the centre line a point still counts as on
// the street.
func (g *MapGeometry) StreetRadius() float64 {
	return math.Max(streetMinRadius, math.Round(g.Street.Thickness*streetRadiusFrac))
}

// IsPointOnStreet reports whether (x, y) is within StreetRadius of the path.
func (g *MapGeometry) IsPointOnStreet(x, y float64) bool {
	return g.Street.Metrics.IsNear(x, y, g.StreetRadius())
}

// BuildingAt returns the first building containing (x, y).
func (g *MapGeometry) BuildingAt(x, y float64) (Building, bool) {
	for _, b := range g.Buildings {
		if b.Contains(x, y) {
			return b, true
		}
	}
	return Building{}, false
}

// Building looks a building up by id.
func (g *MapGeometry) Building(id BuildingID) (Building, bool) {
	for _, b := range g.Buildings {
		if b.ID == id {
			return b, true
		}
	}
	return Building{}, false
}

// Entrance returns the street point of a building.
func (g *MapGeometry) Entrance(id BuildingID) (Point, bool) {
	b, ok := g.Building(id)
	if !ok {
		return Point{}, false
	}
	return b.Entrance, true
}
