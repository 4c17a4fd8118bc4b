package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impactlog/internal/domain"
	apperrors "impactlog/pkg/errors"
	"impactlog/pkg/logger"
)

// fakePostgrest emulates enough of a PostgREST activities endpoint to drive
// the store through real HTTP round trips
type fakePostgrest struct {
	mu   sync.Mutex
	rows []activityRow

	lastAuth   string
	lastPrefer string
}

func (f *fakePostgrest) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/rest/v1/activities") {
			http.NotFound(w, r)
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		f.lastAuth = r.Header.Get("Authorization")
		f.lastPrefer = r.Header.Get("Prefer")

		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(f.rows)

		case http.MethodPost:
			var incoming []activityRow
			if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			for _, row := range incoming {
				replaced := false
				for i := range f.rows {
					if f.rows[i].ID == row.ID {
						f.rows[i] = row
						replaced = true
						break
					}
				}
				if !replaced {
					f.rows = append([]activityRow{row}, f.rows...)
				}
			}
			w.WriteHeader(http.StatusCreated)

		case http.MethodDelete:
			id := strings.TrimPrefix(r.URL.Query().Get("id"), "eq.")
			id, _ = url.QueryUnescape(id)
			deleted := make([]activityRow, 0, 1)
			kept := f.rows[:0:0]
			for _, row := range f.rows {
				if row.ID == id {
					deleted = append(deleted, row)
					continue
				}
				kept = append(kept, row)
			}
			f.rows = kept
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(deleted)

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func newTestSupabase(t *testing.T) (RecordStore, *fakePostgrest) {
	t.Helper()
	fake := &fakePostgrest{}
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)
	return NewSupabaseStore(server.URL, "test-anon-key", logger.NewNop()), fake
}

func TestSupabaseStore_UpsertThenList(t *testing.T) {
	store, fake := newTestSupabase(t)
	ctx := context.Background()

	activity := domain.Activity{
		ID:                "a1",
		Title:             "River cleanup",
		Location:          "Telaga Waja",
		Date:              "2024-05-04",
		Category:          domain.CategoryEnvironment,
		ShortDescription:  "Community cleanup",
		DetailedNarrative: "Full morning along the upper banks",
		Status:            domain.StatusAccepted,
		Metrics: []domain.ImpactMetric{
			{ID: "m1", Label: "Waste collected", Value: 120, Unit: "kg"},
		},
		Photos:    []string{"https://example.com/p1.jpg"},
		CreatedAt: 1714800000000,
	}

	require.NoError(t, store.Upsert(ctx, activity))
	assert.Equal(t, "Bearer test-anon-key", fake.lastAuth)
	assert.Equal(t, "resolution=merge-duplicates", fake.lastPrefer)

	listed, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	// The full record round-trips through the snake_case row shape
	assert.Equal(t, activity, listed[0])
}

func TestSupabaseStore_UpsertReplacesExisting(t *testing.T) {
	store, _ := newTestSupabase(t)
	ctx := context.Background()

	activity := domain.Activity{
		ID:       "a1",
		Title:    "River cleanup",
		Location: "Telaga Waja",
		Date:     "2024-05-04",
		Category: domain.CategoryEnvironment,
		Status:   domain.StatusPending,
		Metrics:  []domain.ImpactMetric{},
		Photos:   []string{},
	}
	require.NoError(t, store.Upsert(ctx, activity))

	activity.Status = domain.StatusAccepted
	require.NoError(t, store.Upsert(ctx, activity))

	listed, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, domain.StatusAccepted, listed[0].Status)
}

func TestSupabaseStore_Delete(t *testing.T) {
	store, _ := newTestSupabase(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, domain.Activity{
		ID: "a1", Title: "River cleanup", Location: "Telaga Waja",
		Date: "2024-05-04", Category: domain.CategoryEnvironment,
		Status: domain.StatusAccepted, Metrics: []domain.ImpactMetric{}, Photos: []string{},
	}))

	require.NoError(t, store.Delete(ctx, "a1"))

	listed, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestSupabaseStore_DeleteMissing(t *testing.T) {
	store, _ := newTestSupabase(t)

	err := store.Delete(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestSupabaseStore_ListEmpty(t *testing.T) {
	store, _ := newTestSupabase(t)

	listed, err := store.List(context.Background())

	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestSupabaseStore_RemoteErrors(t *testing.T) {
	t.Run("unreachable endpoint", func(t *testing.T) {
		store := NewSupabaseStore("http://127.0.0.1:1", "key", logger.NewNop())

		_, err := store.List(context.Background())

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeRemote))
	})

	t.Run("rejected request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		t.Cleanup(server.Close)
		store := NewSupabaseStore(server.URL, "bad-key", logger.NewNop())

		_, err := store.List(context.Background())
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeRemote))

		err = store.Upsert(context.Background(), domain.Activity{ID: "a1"})
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeRemote))
	})
}
