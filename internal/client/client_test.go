package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/habitual/internal/daemon"
	"github.com/theirongolddev/habitual/internal/model"
	"github.com/theirongolddev/habitual/internal/store"
)

var fixedToday = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T, initial ...model.Habit) *Client {
	t.Helper()
	svc := daemon.New(daemon.Config{
		Backend: store.NewFileBackend(filepath.Join(t.TempDir(), "habits.json")),
		Now:     func() time.Time { return fixedToday },
	}, initial)
	srv := httptest.NewServer(svc.Handler())
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestNew(t *testing.T) {
	assert.Nil(t, New("  "))
	assert.Equal(t, "http://127.0.0.1:8797", New("127.0.0.1:8797").baseURL)
	assert.Equal(t, "https://example.test", New("https://example.test/").baseURL)
}

func TestHealthAndStatus(t *testing.T) {
	c := newTestClient(t, model.Habit{Name: "Read", Category: "Mind"})
	ctx := context.Background()

	require.NoError(t, c.Health(ctx))

	st, err := c.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Summary.TotalHabits)
	assert.Equal(t, "2026-10-15", st.Summary.Today)
}

func TestAddToggleDelete(t *testing.T) {
	c := newTestClient(t, model.Habit{Name: "Read", Category: "Mind"})
	ctx := context.Background()

	idx, h, err := c.Add(ctx, "Run", "Health")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "Run", h.Name)

	h, err = c.SetCompletion(ctx, 1, fixedToday, true)
	require.NoError(t, err)
	assert.True(t, h.CompletedOn("2026-10-15"))
	assert.Equal(t, 1, h.Streak)

	habits, err := c.Habits(ctx)
	require.NoError(t, err)
	require.Len(t, habits, 2)
	assert.True(t, habits[1].Completions.Has("2026-10-15"))

	h, err = c.SetCompletion(ctx, 1, fixedToday, false)
	require.NoError(t, err)
	assert.False(t, h.CompletedOn("2026-10-15"))

	require.NoError(t, c.Delete(ctx, 0))
	habits, err = c.Habits(ctx)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, "Run", habits[0].Name)
}

func TestErrorMapping(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, _, err := c.Add(ctx, " ", "Health")
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Contains(t, err.Error(), "name is required")

	err = c.Delete(ctx, 3)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.SetCompletion(ctx, 0, fixedToday, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.URL).Status(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
	assert.Contains(t, err.Error(), "boom")
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	assert.Error(t, New(url).Health(context.Background()))
}
