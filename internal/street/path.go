package street

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidPath is returned when a path cannot support arc-length queries.
var ErrInvalidPath = errors.New("street: invalid path")

// Point is a position in canvas space (pixels).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sample is a position on a path plus the unit normal of the segment it lies on.
type Sample struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	NX float64 `json:"nx"`
	NY float64 `json:"ny"`
}

// Point drops the normal.
func (s Sample) Point() Point { return Point{X: s.X, Y: s.Y} }

// PathMetrics caches per-segment and cumulative lengths of a polyline so that
// positions can be addressed by arc-length.
//
//	Seg[i] = |Points[i+1] - Points[i]|
//	Cum[0] = 0, Cum[i] = Cum[i-1] + Seg[i-1]
type PathMetrics struct {
	Points      []Point   `json:"points"`
	Seg         []float64 `json:"seg"`
	Cum         []float64 `json:"cum"`
	TotalLength float64   `json:"totalLength"`
}

// BuildPathMetrics measures an ordered point sequence. At least two finite
// points are required.
func BuildPathMetrics(points []Point) (*PathMetrics, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidPath, len(points))
	}
	pts := make([]Point, len(points))
	copy(pts, points)
	for i, p := range pts {
		if !finite(p.X) || !finite(p.Y) {
			return nil, fmt.Errorf("%w: point %d is not finite", ErrInvalidPath, i)
		}
	}

	seg := make([]float64, 0, len(pts)-1)
	cum := make([]float64, 1, len(pts))
	for i := 1; i < len(pts); i++ {
		d := math.Hypot(pts[i].X-pts[i-1].X, pts[i].Y-pts[i-1].Y)
		seg = append(seg, d)
		cum = append(cum, cum[i-1]+d)
	}
	return &PathMetrics{
		Points:      pts,
		Seg:         seg,
		Cum:         cum,
		TotalLength: cum[len(cum)-1],
	}, nil
}

// clamp limits s to [0, TotalLength]. NaN maps to 0.
func (m *PathMetrics) clamp(s float64) float64 {
	if !(s > 0) {
		return 0
	}
	if s > m.TotalLength {
		return m.TotalLength
	}
	return s
}

// segmentIndex returns the first i >= 1 with Cum[i] >= s.
func (m *PathMetrics) segmentIndex(s float64) int {
	n := len(m.Cum)
	i := 1 + sort.Search(n-1, func(k int) bool { return m.Cum[k+1] >= s })
	if i > n-1 {
		i = n - 1
	}
	return i
}

// PointAt returns the position and unit normal at arc-length s. Out-of-range
// values are clamped onto the path rather than rejected.
func (m *PathMetrics) PointAt(s float64) Sample {
	s = m.clamp(s)
	i := m.segmentIndex(s)
	a, b := m.Points[i-1], m.Points[i]

	t := 0.0
	if l := m.Seg[i-1]; l > 0 {
		t = (s - m.Cum[i-1]) / l
	}
	nx, ny := m.normal(i)
	return Sample{
		X:  a.X + (b.X-a.X)*t,
		Y:  a.Y + (b.Y-a.Y)*t,
		NX: nx,
		NY: ny,
	}
}

// normal is the unit tangent of segment i rotated a quarter turn. A
// zero-length segment borrows the nearest non-degenerate neighbour.
func (m *PathMetrics) normal(i int) (float64, float64) {
	last := len(m.Seg)
	for d := 0; d < last; d++ {
		for _, j := range [2]int{i + d, i - d} {
			if j < 1 || j > last || m.Seg[j-1] == 0 {
				continue
			}
			a, b := m.Points[j-1], m.Points[j]
			l := m.Seg[j-1]
			return -(b.Y - a.Y) / l, (b.X - a.X) / l
		}
	}
	return 0, 0
}

// Project returns the arc-length of the point on the path closest to (x, y).
func (m *PathMetrics) Project(x, y float64) float64 {
	s, _ := m.ProjectPoint(x, y)
	return s
}

// ProjectPoint is Project plus the distance from (x, y) to the path. Segments
// are scanned in path order and only a strictly closer segment replaces the
// best, so the earliest segment wins ties.
func (m *PathMetrics) ProjectPoint(x, y float64) (s, dist float64) {
	best := math.Inf(1)
	for i := 1; i < len(m.Points); i++ {
		a, b := m.Points[i-1], m.Points[i]
		t, d := projectOnSegment(x, y, a.X, a.Y, b.X, b.Y)
		if d < best {
			best = d
			s = m.Cum[i-1] + m.Seg[i-1]*t
		}
	}
	return s, best
}

// IsNear reports whether (x, y) lies within radius of the path.
func (m *PathMetrics) IsNear(x, y, radius float64) bool {
	p := m.PointAt(m.Project(x, y))
	return math.Hypot(p.X-x, p.Y-y) <= radius
}

// projectOnSegment returns the clamped parameter t of the closest point on
// (ax,ay)-(bx,by) to (px,py), and the distance to it.
func projectOnSegment(px, py, ax, ay, bx, by float64) (float64, float64) {
	dx := bx - ax
	dy := by - ay
	lenSq := dx*dx + dy*dy
	t := 0.0
	if lenSq > 0 {
		t = ((px-ax)*dx + (py-ay)*dy) / lenSq
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}
	cx := ax + t*dx
	cy := ay + t*dy
	return t, math.Hypot(px-cx, py-cy)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
