package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Garsondee/Four-Quarters/internal/duel"
	"github.com/Garsondee/Four-Quarters/internal/host"
)

type levelsRequest struct {
	PlayerLevel duel.Level `json:"playerLevel"`
	BotLevel    duel.Level `json:"botLevel"`
}

// withDefaults fills unset levels with level 1.
func (req levelsRequest) withDefaults() levelsRequest {
	if req.PlayerLevel == 0 {
		req.PlayerLevel = duel.Levels[0]
	}
	if req.BotLevel == 0 {
		req.BotLevel = duel.Levels[0]
	}
	return req
}

type duelState struct {
	ID         string        `json:"id"`
	Round      int           `json:"round"`
	Outcome    duel.Outcome  `json:"outcome"`
	Over       bool          `json:"over"`
	Player     duel.Fighter  `json:"player"`
	Bot        duel.Fighter  `json:"bot"`
	PlayerHP   int           `json:"playerHpPercent"`
	BotHP      int           `json:"botHpPercent"`
	Rewards    *duel.Rewards `json:"rewards,omitempty"`
	Log        []string      `json:"log"`
	MainButton string        `json:"mainButton"`
}

// state snapshots a session. Callers hold sess.mu.
func (sess *session) state() duelState {
	d := sess.duel
	p, b := d.Player(), d.Bot()
	st := duelState{
		ID:         sess.id,
		Round:      d.Round(),
		Outcome:    d.Outcome(),
		Over:       d.Over(),
		Player:     p,
		Bot:        b,
		PlayerHP:   duel.HPBarPercent(p.HP, p.HPMax),
		BotHP:      duel.HPBarPercent(b.HP, b.HPMax),
		Log:        d.Log(),
		MainButton: host.ResolveLabel,
	}
	if rw, ok := d.Rewards(); ok {
		st.Rewards = &rw
		st.MainButton = host.PlayAgainLabel
	}
	return st
}

type turnResponse struct {
	Turn  duel.TurnResult `json:"turn"`
	State duelState       `json:"state"`
}

func (s *Server) createDuel(w http.ResponseWriter, r *http.Request) {
	var req levelsRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid duel request")
		return
	}
	req = req.withDefaults()
	sess, err := s.sessions.create(req.PlayerLevel, req.BotLevel)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.sessions.persist(r.Context(), sess)
	writeJSON(w, http.StatusCreated, sess.state())
}

// lookup resolves the {id} URL parameter, writing a 404 when unknown.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session, bool) {
	sess, err := s.sessions.get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "duel not found")
		return nil, false
	}
	return sess, true
}

func (s *Server) getDuel(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	writeJSON(w, http.StatusOK, sess.state())
}

func (s *Server) resolveTurn(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var choices duel.TurnChoices
	if err := decodeJSON(w, r, &choices); err != nil {
		writeError(w, http.StatusBadRequest, "invalid turn: "+err.Error())
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	res, err := sess.duel.ResolveTurn(choices)
	switch {
	case errors.Is(err, duel.ErrDuelOver):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, duel.ErrInvalidTurnChoices):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.sessions.persist(r.Context(), sess)
	sess.bridge.Publish("turn", res)
	host.ReportTurn(sess.bridge, res)
	writeJSON(w, http.StatusOK, turnResponse{Turn: res, State: sess.state()})
}

func (s *Server) restartDuel(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req levelsRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid restart request")
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if req.PlayerLevel == 0 {
		req.PlayerLevel = sess.duel.Player().Level
	}
	if req.BotLevel == 0 {
		req.BotLevel = sess.duel.Bot().Level
	}
	if err := sess.duel.Restart(req.PlayerLevel, req.BotLevel); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.sessions.persist(r.Context(), sess)
	host.ShowDuelButtons(sess.bridge, false)
	writeJSON(w, http.StatusOK, sess.state())
}

func (s *Server) duelSocket(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	sess.bridge.ServeWS(w, r)
}
