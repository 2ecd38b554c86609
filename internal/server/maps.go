package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Garsondee/Four-Quarters/internal/street"
)

const (
	defaultMapWidth  = 1920
	defaultMapHeight = 1080
)

type mapResponse struct {
	Width        float64           `json:"width"`
	Height       float64           `json:"height"`
	Thickness    float64           `json:"thickness"`
	StreetRadius float64           `json:"streetRadius"`
	TotalLength  float64           `json:"totalLength"`
	Path         []street.Point    `json:"path"`
	Bounds       street.Rect       `json:"bounds"`
	Buildings    []street.Building `json:"buildings"`
}

func newMapResponse(g *street.MapGeometry) mapResponse {
	return mapResponse{
		Width:        g.Width,
		Height:       g.Height,
		Thickness:    g.Street.Thickness,
		StreetRadius: g.StreetRadius(),
		TotalLength:  g.Street.Metrics.TotalLength,
		Path:         g.Street.Path,
		Bounds:       g.Street.Bounds,
		Buildings:    g.Buildings,
	}
}

func queryFloat(r *http.Request, key string, def float64) (float64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.ParseFloat(v, 64)
}

func (s *Server) getMap(w http.ResponseWriter, r *http.Request) {
	var (
		p   street.MapParams
		err error
	)
	if p.Width, err = queryFloat(r, "width", defaultMapWidth); err != nil {
		writeError(w, http.StatusBadRequest, "invalid width")
		return
	}
	if p.Height, err = queryFloat(r, "height", defaultMapHeight); err != nil {
		writeError(w, http.StatusBadRequest, "invalid height")
		return
	}
	if p.Margin, err = queryFloat(r, "margin", 0); err != nil {
		writeError(w, http.StatusBadRequest, "invalid margin")
		return
	}
	g, err := s.geometry(p)
	if errors.Is(err, street.ErrInvalidMapSize) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, newMapResponse(g))
}

type tapRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin float64 `json:"margin"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type tapResponse struct {
	Kind     string            `json:"kind"`
	Building street.BuildingID `json:"building,omitempty"`
	TargetS  float64           `json:"targetS"`
	OnStreet bool              `json:"onStreet"`
	Entrance *street.Point     `json:"entrance,omitempty"`
}

// tapMap classifies a tap the way the walker does, without holding any
// walker state on the server.
func (s *Server) tapMap(w http.ResponseWriter, r *http.Request) {
	var req tapRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid tap request")
		return
	}
	if req.Width == 0 && req.Height == 0 {
		req.Width, req.Height = defaultMapWidth, defaultMapHeight
	}
	g, err := s.geometry(street.MapParams{Width: req.Width, Height: req.Height, Margin: req.Margin})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := street.NewWalker(g, 0).Tap(req.X, req.Y)
	out := tapResponse{
		Kind:     res.Kind.String(),
		Building: res.Building,
		TargetS:  res.TargetS,
		OnStreet: g.IsPointOnStreet(req.X, req.Y),
	}
	if res.Kind == street.TapBuilding {
		if e, ok := g.Entrance(res.Building); ok {
			out.Entrance = &e
		}
	}
	writeJSON(w, http.StatusOK, out)
}
