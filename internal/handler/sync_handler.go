package handler

import (
	"net/http"

	"impactlog/internal/service"
	"impactlog/pkg/logger"
)

// SyncHandler exposes the sync controller's manual refresh and its
// connectivity indicator
type SyncHandler struct {
	sync   *service.SyncService
	logger *logger.Logger
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(sync *service.SyncService, logger *logger.Logger) *SyncHandler {
	return &SyncHandler{
		sync:   sync,
		logger: logger,
	}
}

// Refresh handles POST /api/sync/refresh. A refresh never fails from the
// caller's perspective; an unreachable record store simply flips the
// connectivity indicator and the snapshot takes over.
func (h *SyncHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.sync.Refresh(r.Context())
	respondJSON(w, http.StatusOK, h.sync.Connectivity())
}

// Status handles GET /api/sync/status
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.sync.Connectivity())
}
