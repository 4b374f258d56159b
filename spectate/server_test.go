package spectate

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/snakearena/config"
	"github.com/pthm-cable/snakearena/game"
)

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitClients(t *testing.T, s *Server, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for s.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("clients = %d, want %d", s.Clients(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return f
}

func TestPublishReachesClient(t *testing.T) {
	s := NewServer(config.Defaults().Spectate)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dial(t, ts)
	waitClients(t, s, 1)

	frame := Frame{
		Tick:  42,
		NowMs: 700,
		Agents: []game.AgentView{
			{ID: "snake_1", Name: "Player", IsPlayer: true, Length: 10},
		},
		Leaderboard: []game.LeaderboardEntry{{Rank: 1, ID: "snake_1", Name: "Player", Length: 10}},
	}
	if err := s.Publish(frame); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	got := readFrame(t, conn)
	if got.Tick != 42 {
		t.Errorf("tick = %d, want 42", got.Tick)
	}
	if len(got.Agents) != 1 || got.Agents[0].Name != "Player" {
		t.Errorf("agents = %+v", got.Agents)
	}
	if len(got.Leaderboard) != 1 || got.Leaderboard[0].Rank != 1 {
		t.Errorf("leaderboard = %+v", got.Leaderboard)
	}
}

func TestLateClientGetsLatestFrame(t *testing.T) {
	s := NewServer(config.Defaults().Spectate)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	if err := s.Publish(Frame{Tick: 1}); err != nil {
		t.Fatal(err)
	}
	if err := s.Publish(Frame{Tick: 2}); err != nil {
		t.Fatal(err)
	}

	conn := dial(t, ts)
	if got := readFrame(t, conn); got.Tick != 2 {
		t.Errorf("tick = %d, want 2", got.Tick)
	}
}

func TestClientDisconnectUnregisters(t *testing.T) {
	s := NewServer(config.Defaults().Spectate)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dial(t, ts)
	waitClients(t, s, 1)
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()
	waitClients(t, s, 0)
}

func TestHTTPRoutes(t *testing.T) {
	s := NewServer(config.Defaults().Spectate)

	tests := []struct {
		name    string
		path    string
		publish bool
		want    int
	}{
		{"health", "/health", false, http.StatusOK},
		{"frame before publish", "/frame", false, http.StatusNoContent},
		{"frame after publish", "/frame", true, http.StatusOK},
		{"unknown", "/nope", false, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.publish {
				if err := s.Publish(Frame{Tick: 9}); err != nil {
					t.Fatal(err)
				}
			}
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
