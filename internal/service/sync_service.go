package service

import (
	"context"
	"sync"
	"time"

	"impactlog/internal/domain"
	"impactlog/internal/repository"
	apperrors "impactlog/pkg/errors"
	"impactlog/pkg/logger"
)

// SyncService keeps an in-memory activity list consistent with the record
// store, mirroring every successful fetch into the local snapshot and falling
// back to the snapshot when the store is unreachable.
//
// Reconciliation is pull-and-replace: each refresh overwrites the in-memory
// list wholesale, and concurrent edits from different sessions resolve to
// whichever write lands last. There is no versioning and no conflict
// detection. That is the intended behavior for a single-operator tool and
// must not be upgraded to a merge scheme.
type SyncService struct {
	store    repository.RecordStore
	snapshot repository.SnapshotStore
	logger   *logger.Logger
	interval time.Duration

	mu           sync.RWMutex
	activities   []domain.Activity
	online       bool
	lastSyncedAt *time.Time

	lifecycleMu sync.Mutex
	ticker      *time.Ticker
	stopCh      chan struct{}
	isRunning   bool
}

// NewSyncService creates a new sync service
func NewSyncService(store repository.RecordStore, snapshot repository.SnapshotStore, interval time.Duration, logger *logger.Logger) *SyncService {
	return &SyncService{
		store:      store,
		snapshot:   snapshot,
		logger:     logger,
		interval:   interval,
		activities: []domain.Activity{},
	}
}

// Start performs an initial refresh and begins the periodic refresh loop
func (s *SyncService) Start(ctx context.Context) error {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()

	if s.isRunning {
		return nil
	}

	s.logger.WithField("interval", s.interval.String()).Info("Starting sync service")

	s.Refresh(ctx)

	s.stopCh = make(chan struct{})
	s.ticker = time.NewTicker(s.interval)
	go s.refreshLoop()

	s.isRunning = true
	return nil
}

// Stop tears down the refresh loop. The ticker is the only background
// resource this service owns; stopping prevents orphaned reconciliation
// loops after the host shuts the service down.
func (s *SyncService) Stop(ctx context.Context) error {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.ticker.Stop()
	close(s.stopCh)
	s.isRunning = false

	s.logger.Info("Sync service stopped")
	return nil
}

func (s *SyncService) refreshLoop() {
	for {
		select {
		case <-s.ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			s.Refresh(ctx)
			cancel()
		case <-s.stopCh:
			return
		}
	}
}

// Refresh pulls the full list from the record store. On success the in-memory
// list is replaced wholesale and mirrored into the snapshot; on failure the
// snapshot replaces the in-memory list instead (a full override, not a
// merge), and no error reaches the end user. It returns whether the record
// store was reachable.
func (s *SyncService) Refresh(ctx context.Context) bool {
	fetched, err := s.store.List(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Record store fetch failed, falling back to local snapshot")
		cached := s.snapshot.Read(ctx)

		s.mu.Lock()
		s.activities = cached
		s.online = false
		s.mu.Unlock()
		return false
	}

	if err := s.snapshot.Write(ctx, fetched); err != nil {
		s.logger.WithError(err).Warn("Failed to mirror activities into local snapshot")
	}

	now := time.Now().UTC()
	s.mu.Lock()
	s.activities = fetched
	s.online = true
	s.lastSyncedAt = &now
	s.mu.Unlock()

	s.logger.WithField("count", len(fetched)).Debug("Activity list refreshed")
	return true
}

// Create pushes a new activity to the record store, then applies it to the
// in-memory list and snapshot. A remote failure leaves local state untouched.
func (s *SyncService) Create(ctx context.Context, activity domain.Activity) error {
	if err := s.store.Upsert(ctx, activity); err != nil {
		return err
	}

	s.mu.Lock()
	// The store lists newest first; keep the same order locally
	s.activities = append([]domain.Activity{activity}, s.activities...)
	updated := s.copyLocked()
	s.mu.Unlock()

	s.mirror(ctx, updated)
	return nil
}

// SetStatus replaces the stored record with a copy carrying the new status
func (s *SyncService) SetStatus(ctx context.Context, id string, status domain.Status) (domain.Activity, error) {
	current, ok := s.Get(id)
	if !ok {
		return domain.Activity{}, apperrors.NewNotFoundError("activity not found: " + id)
	}

	updated := current
	updated.Status = status
	if err := s.store.Upsert(ctx, updated); err != nil {
		return domain.Activity{}, err
	}

	s.mu.Lock()
	for i := range s.activities {
		if s.activities[i].ID == id {
			s.activities[i] = updated
			break
		}
	}
	list := s.copyLocked()
	s.mu.Unlock()

	s.mirror(ctx, list)
	return updated, nil
}

// Delete removes the record remotely, then locally
func (s *SyncService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.activities[:0:0]
	for _, a := range s.activities {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.activities = kept
	list := s.copyLocked()
	s.mu.Unlock()

	s.mirror(ctx, list)
	return nil
}

// Activities returns a copy of the current in-memory list
func (s *SyncService) Activities() []domain.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// Accepted returns a copy of the accepted subset, the only records feeding
// public views
func (s *SyncService) Accepted() []domain.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.FilterByStatus(s.copyLocked(), domain.StatusAccepted)
}

// Get looks up one activity by id
func (s *SyncService) Get(id string) (domain.Activity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.activities {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Activity{}, false
}

// Connectivity reports the internal indicator of the last refresh outcome
func (s *SyncService) Connectivity() domain.Connectivity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Connectivity{
		Online:       s.online,
		LastSyncedAt: s.lastSyncedAt,
	}
}

// copyLocked snapshots the list; callers must hold at least the read lock
func (s *SyncService) copyLocked() []domain.Activity {
	out := make([]domain.Activity, len(s.activities))
	copy(out, s.activities)
	return out
}

// mirror rewrites the local snapshot after a successful mutation
func (s *SyncService) mirror(ctx context.Context, list []domain.Activity) {
	if err := s.snapshot.Write(ctx, list); err != nil {
		s.logger.WithError(err).Warn("Failed to mirror activities into local snapshot")
	}
}
