package entrypoint

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		books := []entities.Book{
			{ID: "1", Title: "Dune", Author: "Herbert", Genre: "Sci-Fi", Year: 1965, Available: true},
			{ID: "2", Title: "Emma", Author: "Austen", Genre: "Classic", Year: 1815},
		}
		term := strings.ToLower(r.URL.Query().Get("search"))
		out := []entities.Book{}
		for _, b := range books {
			if strings.Contains(strings.ToLower(b.Title), term) {
				out = append(out, b)
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"books": out})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Catalog.BaseURL = newBackend(t).URL
	cfg.ReadingList.Backend = backend
	cfg.Database.Path = filepath.Join(t.TempDir(), "bookshelf.db")
	cfg.Badger.Path = ""
	cfg.Refresh.Enabled = false
	return cfg
}

func TestBuild_Backends(t *testing.T) {
	for _, backend := range []string{storage.BackendSQLite, storage.BackendBadger, storage.BackendMemory} {
		t.Run(backend, func(t *testing.T) {
			app, err := Build(context.Background(), testConfig(t, backend), nil)
			require.NoError(t, err)
			defer app.Close()

			assert.True(t, app.Library.ToggleBookmark(context.Background(), "2"))
			assert.Equal(t, []entities.BookID{"2"}, app.Library.Snapshot().ReadingList)
			if backend == storage.BackendSQLite {
				assert.NotNil(t, app.Database)
			}
		})
	}
}

func TestBuild_ReadingListSurvivesRestart(t *testing.T) {
	cfg := testConfig(t, storage.BackendSQLite)

	app, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	app.Library.ToggleBookmark(context.Background(), "5")
	require.NoError(t, app.Close())

	app, err = Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, []entities.BookID{"5"}, app.Library.Snapshot().ReadingList)
}

func TestBuild_UnknownBackend(t *testing.T) {
	_, err := Build(context.Background(), testConfig(t, "floppy"), nil)
	assert.ErrorIs(t, err, storage.ErrUnknownBackend)
}

func TestBuild_SchedulerOnlyWhenEnabled(t *testing.T) {
	cfg := testConfig(t, storage.BackendMemory)
	app, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Nil(t, app.Scheduler)
	require.NoError(t, app.Close())

	cfg.Refresh.Enabled = true
	cfg.Refresh.Schedule = "@hourly"
	app, err = Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer app.Close()
	require.NotNil(t, app.Scheduler)

	require.NoError(t, app.startScheduler(context.Background()))
	assert.True(t, app.Scheduler.IsRunning())
}

func TestList(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t, storage.BackendMemory), nil)
	require.NoError(t, err)
	defer app.Close()
	app.Library.ToggleBookmark(context.Background(), "1")

	var out bytes.Buffer
	require.NoError(t, List(context.Background(), app, ListOptions{Sort: "year-asc"}, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "TITLE")
	assert.Contains(t, lines[1], "Emma")
	assert.Contains(t, lines[2], "Dune")
	assert.True(t, strings.HasSuffix(lines[2], "*"))
}

func TestList_JSONAndFilters(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t, storage.BackendMemory), nil)
	require.NoError(t, err)
	defer app.Close()

	var out bytes.Buffer
	require.NoError(t, List(context.Background(), app, ListOptions{Genre: "Classic", JSON: true}, &out))

	var books []entities.Book
	require.NoError(t, json.Unmarshal(out.Bytes(), &books))
	require.Len(t, books, 1)
	assert.Equal(t, "Emma", books[0].Title)

	err = List(context.Background(), app, ListOptions{Sort: "price"}, &out)
	assert.Error(t, err)

	err = List(context.Background(), app, ListOptions{Genre: "Poetry"}, &out)
	assert.Error(t, err)
}

func TestServe_GracefulShutdown(t *testing.T) {
	cfg := testConfig(t, storage.BackendMemory)
	cfg.HTTP.Host = "127.0.0.1"
	cfg.HTTP.Port = freePort(t)

	app, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, app, "test") }()

	url := "http://" + cfg.ListenAddr() + "/view"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func freePort(t *testing.T) int32 {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return int32(l.Addr().(*net.TCPAddr).Port)
}
