package street

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-9

func mustMetrics(t *testing.T, pts ...Point) *PathMetrics {
	t.Helper()
	m, err := BuildPathMetrics(pts)
	if err != nil {
		t.Fatalf("BuildPathMetrics: %v", err)
	}
	return m
}

func TestBuildPathMetrics_TooFewPoints(t *testing.T) {
	for _, pts := range [][]Point{nil, {}, {{X: 1, Y: 2}}} {
		if _, err := BuildPathMetrics(pts); !errors.Is(err, ErrInvalidPath) {
			t.Fatalf("expected ErrInvalidPath for %d points, got %v", len(pts), err)
		}
	}
}

func TestBuildPathMetrics_RejectsNonFinite(t *testing.T) {
	_, err := BuildPathMetrics([]Point{{X: 0, Y: 0}, {X: math.NaN(), Y: 1}})
	if !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath for NaN point, got %v", err)
	}
	_, err = BuildPathMetrics([]Point{{X: math.Inf(1), Y: 0}, {X: 1, Y: 1}})
	if !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath for Inf point, got %v", err)
	}
}

func TestBuildPathMetrics_Lengths(t *testing.T) {
	// 3-4-5 triangle leg, then a vertical run of 6.
	m := mustMetrics(t, Point{0, 0}, Point{3, 4}, Point{3, 10})
	if len(m.Seg) != 2 || len(m.Cum) != 3 {
		t.Fatalf("expected 2 segments and 3 cumulative entries, got %d and %d", len(m.Seg), len(m.Cum))
	}
	if m.Seg[0] != 5 || m.Seg[1] != 6 {
		t.Fatalf("expected segments [5 6], got %v", m.Seg)
	}
	if m.Cum[0] != 0 || m.Cum[1] != 5 || m.Cum[2] != 11 {
		t.Fatalf("expected cum [0 5 11], got %v", m.Cum)
	}
	if m.TotalLength != 11 {
		t.Fatalf("expected total 11, got %.3f", m.TotalLength)
	}
}

func TestBuildPathMetrics_CopiesInput(t *testing.T) {
	pts := []Point{{0, 0}, {10, 0}}
	m := mustMetrics(t, pts...)
	pts[1].X = 99
	if m.Points[1].X != 10 {
		t.Fatalf("metrics should not alias caller's slice, got x=%.1f", m.Points[1].X)
	}
}

func TestPointAt_Endpoints(t *testing.T) {
	m := mustMetrics(t, Point{0, 0}, Point{3, 4}, Point{3, 10})
	first := m.PointAt(0)
	if first.X != 0 || first.Y != 0 {
		t.Fatalf("expected first point (0,0), got (%.3f,%.3f)", first.X, first.Y)
	}
	last := m.PointAt(m.TotalLength)
	if last.X != 3 || last.Y != 10 {
		t.Fatalf("expected last point (3,10), got (%.3f,%.3f)", last.X, last.Y)
	}
}

func TestPointAt_ClampsOutOfRange(t *testing.T) {
	m := mustMetrics(t, Point{0, 0}, Point{10, 0})
	cases := []struct {
		s    float64
		want float64
	}{
		{-50, 0},
		{math.Inf(-1), 0},
		{math.NaN(), 0},
		{1e9, 10},
		{math.Inf(1), 10},
	}
	for _, c := range cases {
		p := m.PointAt(c.s)
		if p.X != c.want || p.Y != 0 {
			t.Fatalf("PointAt(%v): expected (%.0f,0), got (%.3f,%.3f)", c.s, c.want, p.X, p.Y)
		}
	}
}

func TestPointAt_InterpolatesAndNormal(t *testing.T) {
	m := mustMetrics(t, Point{0, 0}, Point{3, 4}, Point{3, 10})
	p := m.PointAt(2.5)
	if math.Abs(p.X-1.5) > eps || math.Abs(p.Y-2) > eps {
		t.Fatalf("expected (1.5,2), got (%.4f,%.4f)", p.X, p.Y)
	}
	// Tangent (0.6, 0.8) rotated → (-0.8, 0.6).
	if math.Abs(p.NX+0.8) > eps || math.Abs(p.NY-0.6) > eps {
		t.Fatalf("expected normal (-0.8,0.6), got (%.4f,%.4f)", p.NX, p.NY)
	}
	if n := math.Hypot(p.NX, p.NY); math.Abs(n-1) > eps {
		t.Fatalf("normal should be unit length, got %.6f", n)
	}

	q := m.PointAt(8)
	if math.Abs(q.X-3) > eps || math.Abs(q.Y-7) > eps {
		t.Fatalf("expected (3,7) on second segment, got (%.4f,%.4f)", q.X, q.Y)
	}
	if math.Abs(q.NX+1) > eps || math.Abs(q.NY) > eps {
		t.Fatalf("expected normal (-1,0) on vertical segment, got (%.4f,%.4f)", q.NX, q.NY)
	}
}

func TestPointAt_VertexTakesFirstSegment(t *testing.T) {
	m := mustMetrics(t, Point{0, 0}, Point{10, 0}, Point{10, 10})
	p := m.PointAt(10)
	if p.X != 10 || p.Y != 0 {
		t.Fatalf("expected vertex (10,0), got (%.3f,%.3f)", p.X, p.Y)
	}
	// Normal of the first segment (horizontal), not the second.
	if p.NX != 0 || p.NY != 1 {
		t.Fatalf("expected first segment normal (0,1), got (%.3f,%.3f)", p.NX, p.NY)
	}
}

func TestPointAt_ZeroLengthSegment(t *testing.T) {
	m := mustMetrics(t, Point{0, 0}, Point{0, 0}, Point{10, 0})
	p := m.PointAt(0)
	if p.X != 0 || p.Y != 0 {
		t.Fatalf("expected (0,0), got (%.3f,%.3f)", p.X, p.Y)
	}
	if p.NX != 0 || p.NY != 1 {
		t.Fatalf("zero-length segment should borrow neighbour normal (0,1), got (%.3f,%.3f)", p.NX, p.NY)
	}

	flat := mustMetrics(t, Point{5, 5}, Point{5, 5})
	q := flat.PointAt(3)
	if q.X != 5 || q.Y != 5 || q.NX != 0 || q.NY != 0 {
		t.Fatalf("degenerate path should sample (5,5) with zero normal, got %+v", q)
	}
}

func TestProject_ClampsToEnds(t *testing.T) {
	m := mustMetrics(t, Point{0, 0}, Point{10, 0}, Point{10, 10})
	if s := m.Project(-5, 0); s != 0 {
		t.Fatalf("expected s=0 before the start, got %.3f", s)
	}
	if s := m.Project(10, 25); s != 20 {
		t.Fatalf("expected s=20 past the end, got %.3f", s)
	}
	if s := m.Project(4, -3); math.Abs(s-4) > eps {
		t.Fatalf("expected s=4 beside first segment, got %.3f", s)
	}
}

func TestProject_FirstSegmentWinsTies(t *testing.T) {
	// U shape: (5,5) is exactly 5px from all three segments.
	m := mustMetrics(t, Point{0, 0}, Point{10, 0}, Point{10, 10}, Point{0, 10})
	s, d := m.ProjectPoint(5, 5)
	if s != 5 {
		t.Fatalf("expected earliest segment (s=5) to win the tie, got %.3f", s)
	}
	if d != 5 {
		t.Fatalf("expected distance 5, got %.3f", d)
	}
}

func TestProject_RoundTrip(t *testing.T) {
	g, err := NewMapGeometry(MapParams{Width: 1920, Height: 1080})
	if err != nil {
		t.Fatalf("NewMapGeometry: %v", err)
	}
	m := g.Street.Metrics
	for i := 0; i <= 400; i++ {
		s := m.TotalLength * float64(i) / 400
		p := m.PointAt(s)
		got := m.Project(p.X, p.Y)
		if math.Abs(got-s) > 1e-6 {
			t.Fatalf("round trip at s=%.4f returned %.4f", s, got)
		}
	}
}

func TestIsNear(t *testing.T) {
	m := mustMetrics(t, Point{0, 0}, Point{100, 0})
	if !m.IsNear(50, 9.5, 10) {
		t.Fatal("point 9.5px from path should be within radius 10")
	}
	if !m.IsNear(50, 10, 10) {
		t.Fatal("radius should be inclusive")
	}
	if m.IsNear(50, 10.5, 10) {
		t.Fatal("point 10.5px from path should be outside radius 10")
	}
	if m.IsNear(-11, 0, 10) {
		t.Fatal("point beyond the start should measure to the endpoint")
	}
}
