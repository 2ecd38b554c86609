package street

// TapKind classifies what a tap on the map did.
type TapKind int

const (
	TapNone     TapKind = iota // off the street and buildings: ignored
	TapStreet                  // walk to the tapped street position
	TapBuilding                // walk to the building entrance, then enter
)

// String returns the wire name of the kind.
func (k TapKind) String() string {
	switch k {
	case TapStreet:
		return "street"
	case TapBuilding:
		return "building"
	default:
		return "none"
	}
}

// TapResult describes how a tap was interpreted.
type TapResult struct {
	Kind     TapKind
	Building BuildingID
	TargetS  float64
}

// Walker is an actor that lives on the street, addressed by arc-length.
// It is driven by one owner: Tap on input, Tick once per frame.
type Walker struct {
	geom   *MapGeometry
	speed  float64
	s      float64
	target float64
	moving bool
	queued BuildingID
}

// NewWalker places a walker halfway along the street. A non-positive speed
// selects DefaultWalkSpeed.
func NewWalker(g *MapGeometry, speed float64) *Walker {
	if speed <= 0 {
		speed = DefaultWalkSpeed
	}
	return &Walker{
		geom:  g,
		speed: speed,
		s:     g.Street.Metrics.TotalLength * 0.5,
	}
}

// Tap interprets a tap in map coordinates. Buildings take precedence over
// the street beneath them.
func (w *Walker) Tap(x, y float64) TapResult {
	if b, ok := w.geom.BuildingAt(x, y); ok {
		w.setTarget(b.S)
		w.queued = b.ID
		return TapResult{Kind: TapBuilding, Building: b.ID, TargetS: w.target}
	}
	if w.geom.IsPointOnStreet(x, y) {
		w.setTarget(w.geom.Street.Metrics.Project(x, y))
		w.queued = ""
		return TapResult{Kind: TapStreet, TargetS: w.target}
	}
	return TapResult{Kind: TapNone}
}

// WalkTo sets an arc-length target without queueing a building.
func (w *Walker) WalkTo(s float64) {
	w.setTarget(s)
	w.queued = ""
}

func (w *Walker) setTarget(s float64) {
	w.target = w.geom.Street.Metrics.clamp(s)
	w.moving = true
}

// Tick advances the walker by dtMs. When the walker arrives with a queued
// building, that building is returned once.
func (w *Walker) Tick(dtMs float64) (BuildingID, bool) {
	if !w.moving {
		return "", false
	}
	step := MoveAlongStreet(w.s, w.target, w.speed, dtMs)
	w.s = step.S
	if !step.Reached {
		return "", false
	}
	w.moving = false
	id := w.queued
	w.queued = ""
	return id, id != ""
}

// RespawnAt puts the walker on a building entrance and cancels any walk.
func (w *Walker) RespawnAt(id BuildingID) bool {
	b, ok := w.geom.Building(id)
	if !ok {
		return false
	}
	w.s = b.S
	w.moving = false
	w.queued = ""
	return true
}

// S is the current arc-length.
func (w *Walker) S() float64 { return w.s }

// Target returns the arc-length being walked to, if any.
func (w *Walker) Target() (float64, bool) { return w.target, w.moving }

// Moving reports whether a target is set.
func (w *Walker) Moving() bool { return w.moving }

// Queued is the building that will be entered on arrival, if any.
func (w *Walker) Queued() BuildingID { return w.queued }

// Position samples the street at the current arc-length.
func (w *Walker) Position() Sample { return w.geom.Street.Metrics.PointAt(w.s) }
