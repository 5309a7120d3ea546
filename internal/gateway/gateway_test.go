package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buckshot-lite/roulette"
)

func newTestGateway(t *testing.T) (*Gateway, *httptest.Server) {
	t.Helper()
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	g := New(l)
	srv := httptest.NewServer(g.Handler(nil))
	t.Cleanup(srv.Close)
	return g, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	msgType, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, msgType)
	var f Frame
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func TestGateway_SnapshotOnConnectThenEvents(t *testing.T) {
	g, srv := newTestGateway(t)

	snap := roulette.Snapshot{Round: 2, RemainingLive: 3, RemainingBlank: 2}
	g.Publish("m1", []roulette.Event{{Type: roulette.EventRoundLoaded, Round: 2, Live: 3, Blank: 2}}, snap)

	conn := dial(t, srv)
	hello := readFrame(t, conn)
	assert.Equal(t, "m1", hello.MatchID)
	assert.Equal(t, uint64(0), hello.Seq)
	require.NotNil(t, hello.Snapshot)
	assert.Equal(t, 2, hello.Snapshot.Round)
	assert.Nil(t, hello.Event)

	g.Publish("m1", []roulette.Event{
		{Type: roulette.EventShotFired, Chair: 0, Target: 1, Damage: 1, Health: 3},
		{Type: roulette.EventTurnPassed, Chair: 1},
	}, snap)

	first := readFrame(t, conn)
	second := readFrame(t, conn)
	require.NotNil(t, first.Event)
	require.NotNil(t, second.Event)
	assert.Equal(t, uint64(2), first.Seq)
	assert.Equal(t, uint64(3), second.Seq)
	assert.Equal(t, roulette.EventShotFired, first.Event.Type)
	assert.Equal(t, 1, first.Event.Damage)
	assert.Equal(t, roulette.EventTurnPassed, second.Event.Type)
}

func TestGateway_NewMatchResetsSeq(t *testing.T) {
	g, srv := newTestGateway(t)
	g.Publish("old", []roulette.Event{{Type: roulette.EventGameOver}}, roulette.Snapshot{})

	conn := dial(t, srv)
	_ = readFrame(t, conn)

	g.Publish("new", []roulette.Event{{Type: roulette.EventRoundLoaded}}, roulette.Snapshot{})
	f := readFrame(t, conn)
	assert.Equal(t, "new", f.MatchID)
	assert.Equal(t, uint64(1), f.Seq)
}

func TestGateway_Health(t *testing.T) {
	_, srv := newTestGateway(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestGateway_ExtraRoutes(t *testing.T) {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	g := New(l)
	srv := httptest.NewServer(g.Handler(func(mux *http.ServeMux) {
		mux.HandleFunc("/extra", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/extra")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
}
