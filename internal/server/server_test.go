package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Garsondee/Four-Quarters/internal/duel"
	"github.com/Garsondee/Four-Quarters/internal/save"
	"github.com/Garsondee/Four-Quarters/internal/street"
)

// cycleRand rolls the base damage tier and walks Intn through 0, 1, 2, ...
// so bot choices are predictable and always distinct.
type cycleRand struct{ next int }

func (c *cycleRand) Float64() float64 { return 0 }

func (c *cycleRand) Intn(n int) int {
	v := c.next % n
	c.next++
	return v
}

func newTestServer(t *testing.T, store save.Store) (*Server, *httptest.Server) {
	t.Helper()
	s := New(Config{
		Store:   store,
		NewRand: func() duel.Rand { return &cycleRand{} },
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.Close()
		ts.Close()
	})
	return s, ts
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func createDuel(t *testing.T, base string, player, bot int) duelState {
	t.Helper()
	var st duelState
	code := doJSON(t, http.MethodPost, base+"/api/duels", map[string]int{"playerLevel": player, "botLevel": bot}, &st)
	if code != http.StatusCreated {
		t.Fatalf("expected 201 creating duel, got %d", code)
	}
	return st
}

var goodTurn = map[string]any{"attack": "Feet", "blocks": []string{"Torso", "Head"}}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t, nil)
	if code := doJSON(t, http.MethodGet, ts.URL+"/healthz", nil, nil); code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", code)
	}
}

func TestGetMap(t *testing.T) {
	_, ts := newTestServer(t, nil)
	var m mapResponse
	if code := doJSON(t, http.MethodGet, ts.URL+"/api/map", nil, &m); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if m.Width != 1920 || m.Height != 1080 {
		t.Fatalf("expected default 1920x1080, got %.0fx%.0f", m.Width, m.Height)
	}
	if len(m.Buildings) != 3 || m.Buildings[0].ID != street.Arena || m.Buildings[2].ID != street.Cafe {
		t.Fatalf("expected arena, shop, cafe, got %+v", m.Buildings)
	}
	if len(m.Path) != 13 || m.TotalLength <= 0 || m.StreetRadius != 85 {
		t.Fatalf("unexpected street: %d points, length %.1f, radius %.1f", len(m.Path), m.TotalLength, m.StreetRadius)
	}

	for _, q := range []string{"width=abc", "width=0", "height=-5"} {
		if code := doJSON(t, http.MethodGet, ts.URL+"/api/map?"+q, nil, nil); code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, code)
		}
	}
}

func TestTapMap(t *testing.T) {
	_, ts := newTestServer(t, nil)
	g, _ := street.NewMapGeometry(street.MapParams{Width: 1920, Height: 1080})
	arena, _ := g.Building(street.Arena)

	var res tapResponse
	code := doJSON(t, http.MethodPost, ts.URL+"/api/map/tap",
		tapRequest{Width: 1920, Height: 1080, X: arena.X + 10, Y: arena.Y + 10}, &res)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if res.Kind != "building" || res.Building != street.Arena || res.TargetS != arena.S {
		t.Fatalf("expected arena tap, got %+v", res)
	}
	if res.Entrance == nil || *res.Entrance != arena.Entrance {
		t.Fatalf("expected arena entrance, got %+v", res.Entrance)
	}

	doJSON(t, http.MethodPost, ts.URL+"/api/map/tap", tapRequest{X: 5, Y: 5}, &res)
	if res.Kind != "none" || res.OnStreet {
		t.Fatalf("expected ignored tap, got %+v", res)
	}
}

func TestDuelLifecycle(t *testing.T) {
	_, ts := newTestServer(t, nil)
	st := createDuel(t, ts.URL, 2, 1)
	if _, err := uuid.Parse(st.ID); err != nil {
		t.Fatalf("expected uuid id, got %q", st.ID)
	}
	if st.Round != 1 || st.Player.HP != 120 || st.Bot.HP != 50 || st.MainButton != "Resolve Turn" {
		t.Fatalf("unexpected new duel %+v", st)
	}

	base := ts.URL + "/api/duels/" + st.ID
	var got duelState
	if code := doJSON(t, http.MethodGet, base, nil, &got); code != http.StatusOK || got.ID != st.ID {
		t.Fatalf("expected to fetch duel, got %d %+v", code, got)
	}

	var tr turnResponse
	if code := doJSON(t, http.MethodPost, base+"/turns", goodTurn, &tr); code != http.StatusOK {
		t.Fatalf("expected 200 resolving turn, got %d", code)
	}
	// Bot blocks Head + Chest and attacks Torso, which is blocked.
	if tr.Turn.Round != 1 || tr.Turn.AppliedToBot != 21 || !tr.Turn.BotBlocked {
		t.Fatalf("unexpected first turn %+v", tr.Turn)
	}
	if tr.State.Round != 2 || tr.State.Bot.HP != 29 || tr.State.BotHP != 58 {
		t.Fatalf("unexpected state after turn %+v", tr.State)
	}

	for i := 0; !tr.State.Over; i++ {
		if i > 50 {
			t.Fatal("duel never finished")
		}
		if code := doJSON(t, http.MethodPost, base+"/turns", goodTurn, &tr); code != http.StatusOK {
			t.Fatalf("turn %d: expected 200, got %d", i+2, code)
		}
	}
	if tr.State.Outcome != duel.PlayerWins || tr.State.Rewards == nil || tr.State.MainButton != "Play Again" {
		t.Fatalf("expected player win with rewards, got %+v", tr.State)
	}
	if code := doJSON(t, http.MethodPost, base+"/turns", goodTurn, nil); code != http.StatusConflict {
		t.Fatalf("expected 409 after the duel ended, got %d", code)
	}

	var restarted duelState
	if code := doJSON(t, http.MethodPost, base+"/restart", map[string]int{"botLevel": 2}, &restarted); code != http.StatusOK {
		t.Fatalf("expected 200 restarting, got %d", code)
	}
	if restarted.Round != 1 || restarted.Over || restarted.Player.HPMax != 120 || restarted.Bot.HPMax != 120 {
		t.Fatalf("unexpected restarted duel %+v", restarted)
	}
}

func TestResolveTurn_BadRequests(t *testing.T) {
	_, ts := newTestServer(t, nil)
	st := createDuel(t, ts.URL, 1, 1)
	base := ts.URL + "/api/duels/" + st.ID

	cases := []any{
		map[string]any{"attack": "Head", "blocks": []string{"Chest"}},
		map[string]any{"attack": "Head", "blocks": []string{"Chest", "Chest"}},
		map[string]any{"attack": "Elbow", "blocks": []string{"Chest", "Feet"}},
		map[string]any{"blocks": []string{"Chest", "Feet"}},
	}
	for i, body := range cases {
		if code := doJSON(t, http.MethodPost, base+"/turns", body, nil); code != http.StatusBadRequest {
			t.Fatalf("case %d: expected 400, got %d", i, code)
		}
	}
	if code := doJSON(t, http.MethodPost, ts.URL+"/api/duels/nope/turns", goodTurn, nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown duel, got %d", code)
	}
	if code := doJSON(t, http.MethodPost, ts.URL+"/api/duels", map[string]int{"playerLevel": 9}, nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown level, got %d", code)
	}
}

func TestResumeFromStore(t *testing.T) {
	store := save.NewMemStore()
	_, first := newTestServer(t, store)
	st := createDuel(t, first.URL, 1, 1)
	doJSON(t, http.MethodPost, first.URL+"/api/duels/"+st.ID+"/turns", goodTurn, nil)

	_, second := newTestServer(t, store)
	var got duelState
	if code := doJSON(t, http.MethodGet, second.URL+"/api/duels/"+st.ID, nil, &got); code != http.StatusOK {
		t.Fatalf("expected saved duel to resume, got %d", code)
	}
	if got.Round != 2 || got.Bot.HP != 41 {
		t.Fatalf("expected round 2 with bot at 41, got round %d hp %d", got.Round, got.Bot.HP)
	}
}

func TestResumeIgnoresStaleSaves(t *testing.T) {
	store := save.NewMemStore()
	d, _ := duel.NewDuel(1, 1, &cycleRand{})
	store.Save(context.Background(), save.Record{
		SessionID: "old-duel",
		Duel:      d.Snapshot(),
		SavedAt:   time.Now().Add(-2 * time.Hour),
	})
	_, ts := newTestServer(t, store)
	if code := doJSON(t, http.MethodGet, ts.URL+"/api/duels/old-duel", nil, nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 for stale save, got %d", code)
	}
}

func TestDuelSocket_PushesTurns(t *testing.T) {
	s, ts := newTestServer(t, nil)
	st := createDuel(t, ts.URL, 1, 1)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/duels/" + st.ID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	sess, _ := s.sessions.get(context.Background(), st.ID)
	deadline := time.Now().Add(2 * time.Second)
	for sess.bridge.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("socket never attached")
		}
		time.Sleep(5 * time.Millisecond)
	}

	doJSON(t, http.MethodPost, ts.URL+"/api/duels/"+st.ID+"/turns", goodTurn, nil)

	var types []string
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for len(types) < 3 {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v (got %v)", err, types)
		}
		var env struct {
			Type string `json:"type"`
		}
		json.Unmarshal(msg, &env)
		types = append(types, env.Type)
	}
	if types[0] != "turn" || types[1] != "host" || types[2] != "host" {
		t.Fatalf("expected a turn frame then host frames, got %v", types)
	}
}
