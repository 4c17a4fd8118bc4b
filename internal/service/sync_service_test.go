package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"impactlog/internal/domain"
	"impactlog/internal/repository"
	apperrors "impactlog/pkg/errors"
	"impactlog/pkg/logger"
	pkgredis "impactlog/pkg/redis"
)

// fakeRecordStore is an in-memory RecordStore whose failures can be toggled
// per test
type fakeRecordStore struct {
	mu         sync.Mutex
	activities []domain.Activity
	listErr    error
	upsertErr  error
	deleteErr  error
}

func (f *fakeRecordStore) List(ctx context.Context) ([]domain.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Activity, len(f.activities))
	copy(out, f.activities)
	return out, nil
}

func (f *fakeRecordStore) Upsert(ctx context.Context, activity domain.Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	for i := range f.activities {
		if f.activities[i].ID == activity.ID {
			f.activities[i] = activity
			return nil
		}
	}
	f.activities = append([]domain.Activity{activity}, f.activities...)
	return nil
}

func (f *fakeRecordStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.activities {
		if f.activities[i].ID == id {
			f.activities = append(f.activities[:i], f.activities[i+1:]...)
			return nil
		}
	}
	return apperrors.NewNotFoundError("activity not found: " + id)
}

func newTestSnapshot(t *testing.T) (repository.SnapshotStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	client := pkgredis.NewClientFromRDB(rdb, "test", zap.NewNop())
	return repository.NewSnapshotStore(client), mr
}

func newTestSync(t *testing.T, store *fakeRecordStore) (*SyncService, *miniredis.Miniredis) {
	t.Helper()
	snapshot, mr := newTestSnapshot(t)
	return NewSyncService(store, snapshot, time.Hour, logger.NewNop()), mr
}

func testActivity(id, title string, status domain.Status) domain.Activity {
	return domain.Activity{
		ID:       id,
		Title:    title,
		Location: "Sidemen",
		Date:     "2024-03-16",
		Category: domain.CategoryEducation,
		Status:   status,
		Metrics:  []domain.ImpactMetric{},
		Photos:   []string{},
	}
}

func TestSyncService_Refresh_ReplacesListAndMirrors(t *testing.T) {
	store := &fakeRecordStore{activities: []domain.Activity{
		testActivity("a1", "River cleanup", domain.StatusAccepted),
	}}
	sync, _ := newTestSync(t, store)
	ctx := context.Background()

	ok := sync.Refresh(ctx)

	require.True(t, ok)
	assert.Len(t, sync.Activities(), 1)
	assert.True(t, sync.Connectivity().Online)
	require.NotNil(t, sync.Connectivity().LastSyncedAt)

	// The fetch is mirrored into the snapshot
	store.listErr = errors.New("connection refused")
	require.False(t, sync.Refresh(ctx))
	assert.Len(t, sync.Activities(), 1)
}

func TestSyncService_Refresh_FailureOverridesMemoryWithSnapshot(t *testing.T) {
	store := &fakeRecordStore{activities: []domain.Activity{
		testActivity("a1", "River cleanup", domain.StatusAccepted),
		testActivity("a2", "Teaching visit", domain.StatusAccepted),
	}}
	sync, _ := newTestSync(t, store)
	ctx := context.Background()

	require.True(t, sync.Refresh(ctx))
	require.Len(t, sync.Activities(), 2)

	// Empty the snapshot behind the service's back, then fail the store.
	// The fallback replaces memory with the snapshot wholesale; the stale
	// in-memory list does not survive.
	require.NoError(t, sync.snapshot.Write(ctx, []domain.Activity{
		testActivity("a1", "River cleanup", domain.StatusAccepted),
	}))
	store.listErr = errors.New("connection refused")

	require.False(t, sync.Refresh(ctx))
	assert.Len(t, sync.Activities(), 1)
	assert.False(t, sync.Connectivity().Online)
}

func TestSyncService_Refresh_FailureWithEmptySnapshot(t *testing.T) {
	store := &fakeRecordStore{listErr: errors.New("connection refused")}
	sync, _ := newTestSync(t, store)

	require.False(t, sync.Refresh(context.Background()))
	assert.Empty(t, sync.Activities())
	assert.False(t, sync.Connectivity().Online)
	assert.Nil(t, sync.Connectivity().LastSyncedAt)
}

func TestSyncService_Create_RemoteFirstThenLocal(t *testing.T) {
	store := &fakeRecordStore{}
	sync, _ := newTestSync(t, store)
	ctx := context.Background()

	activity := testActivity("a1", "Health screening", domain.StatusPending)
	require.NoError(t, sync.Create(ctx, activity))

	list := sync.Activities()
	require.Len(t, list, 1)
	assert.Equal(t, "a1", list[0].ID)

	// Mirrored: survives a store outage
	store.listErr = errors.New("connection refused")
	require.False(t, sync.Refresh(ctx))
	assert.Len(t, sync.Activities(), 1)
}

func TestSyncService_Create_RemoteFailureLeavesLocalUntouched(t *testing.T) {
	store := &fakeRecordStore{upsertErr: errors.New("connection refused")}
	sync, _ := newTestSync(t, store)

	err := sync.Create(context.Background(), testActivity("a1", "Health screening", domain.StatusPending))

	require.Error(t, err)
	assert.Empty(t, sync.Activities())
}

func TestSyncService_SetStatus(t *testing.T) {
	store := &fakeRecordStore{}
	sync, _ := newTestSync(t, store)
	ctx := context.Background()

	require.NoError(t, sync.Create(ctx, testActivity("a1", "Health screening", domain.StatusPending)))

	updated, err := sync.SetStatus(ctx, "a1", domain.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, updated.Status)

	accepted := sync.Accepted()
	require.Len(t, accepted, 1)
	assert.Equal(t, "a1", accepted[0].ID)
}

func TestSyncService_SetStatus_UnknownID(t *testing.T) {
	sync, _ := newTestSync(t, &fakeRecordStore{})

	_, err := sync.SetStatus(context.Background(), "missing", domain.StatusAccepted)

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestSyncService_Delete(t *testing.T) {
	store := &fakeRecordStore{}
	sync, _ := newTestSync(t, store)
	ctx := context.Background()

	require.NoError(t, sync.Create(ctx, testActivity("a1", "Health screening", domain.StatusPending)))
	require.NoError(t, sync.Create(ctx, testActivity("a2", "River cleanup", domain.StatusAccepted)))

	require.NoError(t, sync.Delete(ctx, "a1"))

	list := sync.Activities()
	require.Len(t, list, 1)
	assert.Equal(t, "a2", list[0].ID)
	_, found := sync.Get("a1")
	assert.False(t, found)
}

func TestSyncService_Accepted_FiltersPendingAndDeclined(t *testing.T) {
	store := &fakeRecordStore{activities: []domain.Activity{
		testActivity("a1", "River cleanup", domain.StatusAccepted),
		testActivity("a2", "Health screening", domain.StatusPending),
		testActivity("a3", "Market survey", domain.StatusDeclined),
	}}
	sync, _ := newTestSync(t, store)

	require.True(t, sync.Refresh(context.Background()))

	accepted := sync.Accepted()
	require.Len(t, accepted, 1)
	assert.Equal(t, "a1", accepted[0].ID)
}

func TestSyncService_StartStop(t *testing.T) {
	store := &fakeRecordStore{activities: []domain.Activity{
		testActivity("a1", "River cleanup", domain.StatusAccepted),
	}}
	snapshot, _ := newTestSnapshot(t)
	sync := NewSyncService(store, snapshot, 10*time.Millisecond, logger.NewNop())
	ctx := context.Background()

	require.NoError(t, sync.Start(ctx))
	// Start performs the initial refresh synchronously
	assert.Len(t, sync.Activities(), 1)

	require.NoError(t, sync.Stop(ctx))
	// Idempotent
	require.NoError(t, sync.Stop(ctx))
	require.NoError(t, sync.Start(ctx))
	require.NoError(t, sync.Stop(ctx))
}
