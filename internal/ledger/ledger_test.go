package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func sampleRecord(id string, at time.Time) MatchRecord {
	return MatchRecord{
		MatchID:  id,
		PlayedAt: at,
		Preset:   "normal",
		Seed:     42,
		Players:  [2]string{"alice", "Dealer"},
		Winner:   1,
		Rounds:   3,
		Actions:  17,
		Tape:     []byte(`{"tape_version":1}`),
	}
}

func exerciseService(t *testing.T, svc Service) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	for i := 0; i < 4; i++ {
		require.NoError(t, svc.RecordMatch(ctx, sampleRecord(fmt.Sprintf("m%d", i), base.Add(time.Duration(i)*time.Minute))))
	}
	// duplicate IDs are ignored
	dup := sampleRecord("m3", base.Add(time.Hour))
	dup.Preset = "hard"
	require.NoError(t, svc.RecordMatch(ctx, dup))

	items, err := svc.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, items, 3, "recent limit of 3 should trim the oldest")
	assert.Equal(t, "m3", items[0].MatchID)
	assert.Equal(t, "m1", items[2].MatchID)
	assert.Equal(t, [2]string{"alice", "Dealer"}, items[0].Players)
	assert.True(t, items[0].PlayedAt.Equal(base.Add(3*time.Minute)))
	assert.Equal(t, "normal", items[0].Preset)

	rec, err := svc.GetMatch(ctx, "m2")
	require.NoError(t, err)
	assert.Equal(t, int64(42), rec.Seed)
	assert.Equal(t, "Dealer", rec.WinnerName())
	assert.JSONEq(t, `{"tape_version":1}`, string(rec.Tape))

	_, err = svc.GetMatch(ctx, "m0")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetMatch(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteService_RecordListGet(t *testing.T) {
	svc, err := NewSQLiteService(":memory:", 3, quietLogger())
	require.NoError(t, err)
	defer svc.Close()
	exerciseService(t, svc)
}

func TestSQLiteService_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")
	svc, err := NewSQLiteService(path, 10, quietLogger())
	require.NoError(t, err)
	require.NoError(t, svc.RecordMatch(context.Background(), sampleRecord("keep", time.Now())))
	require.NoError(t, svc.Close())

	again, err := NewSQLiteService(path, 10, quietLogger())
	require.NoError(t, err)
	defer again.Close()
	rec, err := again.GetMatch(context.Background(), "keep")
	require.NoError(t, err)
	assert.Equal(t, "normal", rec.Preset)
}

func TestMemoryService_RecordListGet(t *testing.T) {
	exerciseService(t, NewMemoryService(3))
}

// Set BUCKSHOT_TEST_REDIS_URL to run against a live server.
func TestRedisService_RecordListGet(t *testing.T) {
	url := os.Getenv("BUCKSHOT_TEST_REDIS_URL")
	if url == "" {
		t.Skip("BUCKSHOT_TEST_REDIS_URL not set")
	}
	svc, err := NewRedisService(url, 3, quietLogger())
	require.NoError(t, err)
	svc.prefix = "buckshot-test-" + uuid.NewString() + ":"
	t.Cleanup(func() {
		ctx := context.Background()
		keys, _ := svc.client.Keys(ctx, svc.prefix+"*").Result()
		if len(keys) > 0 {
			svc.client.Del(ctx, keys...)
		}
		_ = svc.Close()
	})
	exerciseService(t, svc)
}

func TestRedisService_BadURL(t *testing.T) {
	_, err := NewRedisService("carrier-pigeon://coop", 3, quietLogger())
	assert.ErrorContains(t, err, "parse redis url")
}

func TestNewService_Modes(t *testing.T) {
	svc, label, err := NewService(Options{Mode: "off"})
	require.NoError(t, err)
	assert.Equal(t, "noop", label)
	items, err := svc.ListRecent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, items)

	svc, label, err = NewService(Options{Mode: "sqlite", Path: filepath.Join(t.TempDir(), "l.db"), Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", label)
	require.NoError(t, svc.Close())

	_, _, err = NewService(Options{Mode: "carrier-pigeon"})
	assert.Error(t, err)
}

func TestSQLStore_BindNumbersPlaceholders(t *testing.T) {
	s := &sqlStore{numbered: true}
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2", s.bind("SELECT a FROM t WHERE x = ? AND y = ?"))
	s.numbered = false
	assert.Equal(t, "x = ?", s.bind("x = ?"))
}

func TestHTTPHandler_RecentAndMatch(t *testing.T) {
	svc := NewMemoryService(10)
	require.NoError(t, svc.RecordMatch(context.Background(), sampleRecord("abc", time.Now())))

	mux := http.NewServeMux()
	NewHTTPHandler(svc).RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/matches/recent?limit=5")
	require.NoError(t, err)
	var recent struct {
		Items []HistoryItem `json:"items"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&recent))
	resp.Body.Close()
	require.Len(t, recent.Items, 1)
	assert.Equal(t, "abc", recent.Items[0].MatchID)

	resp, err = http.Get(srv.URL + "/api/matches/abc")
	require.NoError(t, err)
	var one struct {
		Match HistoryItem     `json:"match"`
		Tape  json.RawMessage `json:"tape"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&one))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"tape_version":1}`, string(one.Tape))

	resp, err = http.Get(srv.URL + "/api/matches/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
