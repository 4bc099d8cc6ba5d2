package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/launchdash/internal/dataset"
	"github.com/leapstack-labs/launchdash/internal/testutil"
	"github.com/leapstack-labs/launchdash/pkg/core"
	"github.com/leapstack-labs/launchdash/pkg/source"
	_ "github.com/leapstack-labs/launchdash/pkg/sources/csv"
)

func newTestServer(t *testing.T, watch bool) (*Server, string) {
	t.Helper()

	path := testutil.WriteLaunchCSV(t, testutil.ScenarioRecords())
	cfg := source.Config{Type: "csv", Path: path}
	d, err := dataset.LoadConfig(context.Background(), cfg, nil)
	require.NoError(t, err)

	srv := NewServer(Config{
		Holder:        dataset.NewHolder(d),
		Source:        cfg,
		Port:          0,
		Watch:         watch,
		SessionSecret: "test-secret-key-32-bytes-long!!",
		Logger:        testutil.NewTestLogger(t),
	})
	return srv, path
}

func TestServer_Handler(t *testing.T) {
	srv, _ := newTestServer(t, false)

	h, err := srv.Handler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SpaceX Launch Records Dashboard")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_ReloadDataset(t *testing.T) {
	srv, path := newTestServer(t, true)
	updates := srv.Notifier().Subscribe()
	defer srv.Notifier().Unsubscribe(updates)

	require.NoError(t, os.WriteFile(path, []byte(testutil.LaunchCSV(testutil.SpaceXRecords())), 0600))
	srv.reloadDataset(context.Background())

	select {
	case change := <-updates:
		assert.Equal(t, 8, change.Records)
	case <-time.After(time.Second):
		t.Fatal("no change broadcast")
	}
	assert.Equal(t, 8, srv.holder.Current().Len())
}

func TestServer_ReloadDatasetFailureKeepsCurrent(t *testing.T) {
	srv, path := newTestServer(t, true)
	before := srv.holder.Current()
	updates := srv.Notifier().Subscribe()
	defer srv.Notifier().Unsubscribe(updates)

	require.NoError(t, os.WriteFile(path, []byte("Launch Site,class\nA,1\n"), 0600))
	srv.reloadDataset(context.Background())

	assert.Same(t, before, srv.holder.Current())
	select {
	case change := <-updates:
		t.Errorf("unexpected broadcast %+v", change)
	default:
	}
}

func TestServer_WatchDataset(t *testing.T) {
	srv, path := newTestServer(t, true)
	updates := srv.Notifier().Subscribe()
	defer srv.Notifier().Unsubscribe(updates)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.watchDataset(ctx) }()
	defer func() {
		cancel()
		assert.NoError(t, <-done)
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	records := append(testutil.ScenarioRecords(), core.LaunchRecord{Site: "C", PayloadMass: 100, Success: true, BoosterCategory: "FT"})
	require.NoError(t, os.WriteFile(path, []byte(testutil.LaunchCSV(records)), 0600))

	select {
	case change := <-updates:
		assert.Equal(t, len(records), change.Records)
	case <-time.After(3 * time.Second):
		t.Fatal("dataset change was not picked up")
	}
	assert.True(t, srv.holder.Current().HasSite("C"))
}

func TestServer_WatchWithoutFile(t *testing.T) {
	srv, _ := newTestServer(t, true)
	srv.source = source.Config{Type: "postgres", DSN: "postgres://localhost/launches"}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.watchDataset(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestIsDatasetEvent(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "launches.csv")

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: target, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: target, Op: fsnotify.Create}, true},
		{"chmod", fsnotify.Event{Name: target, Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: filepath.Join(dir, "notes.txt"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isDatasetEvent(tt.event, target))
		})
	}
}

func TestDisplayAddr(t *testing.T) {
	assert.Equal(t, "localhost:8050", displayAddr("", 8050))
	assert.Equal(t, "localhost:8050", displayAddr("0.0.0.0", 8050))
	assert.Equal(t, "127.0.0.1:9000", displayAddr("127.0.0.1", 9000))
}

func TestServer_URL(t *testing.T) {
	s := NewServer(Config{Host: "0.0.0.0", Port: 8050})
	assert.Equal(t, "http://localhost:8050", s.URL())
}
