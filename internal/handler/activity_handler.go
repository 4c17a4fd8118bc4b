package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"impactlog/internal/domain"
	"impactlog/internal/service"
	apperrors "impactlog/pkg/errors"
	"impactlog/pkg/logger"
)

// PasskeyHeader carries the verification credential for delete requests
const PasskeyHeader = "X-Verification-Passkey"

// ActivityHandler exposes the milestone registry: logging, moderation and
// deletion. The full list (all statuses) is the moderation view; public
// consumers go through the portfolio handler instead.
type ActivityHandler struct {
	moderation *service.ModerationService
	sync       *service.SyncService
	logger     *logger.Logger
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(moderation *service.ModerationService, sync *service.SyncService, logger *logger.Logger) *ActivityHandler {
	return &ActivityHandler{
		moderation: moderation,
		sync:       sync,
		logger:     logger,
	}
}

// createActivityRequest is the logging form payload. The passkey is optional:
// contributors submit without one and land in the pending queue.
type createActivityRequest struct {
	Date              string                `json:"date"`
	Title             string                `json:"title"`
	Location          string                `json:"location"`
	ShortDescription  string                `json:"shortDescription"`
	DetailedNarrative string                `json:"detailedNarrative"`
	Category          domain.Category       `json:"category"`
	Photos            []string              `json:"photos"`
	Metrics           []domain.ImpactMetric `json:"metrics"`
	Passkey           string                `json:"passkey"`
}

// transitionRequest is the moderation payload
type transitionRequest struct {
	Status  domain.Status `json:"status"`
	Passkey string        `json:"passkey"`
}

// List handles GET /api/activities with an optional ?status= filter
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	activities := h.sync.Activities()

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.Status(raw)
		if !status.Valid() {
			respondError(w, r, h.logger, apperrors.NewValidationError("unknown status filter", map[string]interface{}{
				"status": raw,
			}))
			return
		}
		activities = domain.FilterByStatus(activities, status)
	}

	respondJSON(w, http.StatusOK, activities)
}

// Get handles GET /api/activities/{id}
func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	activity, ok := h.sync.Get(id)
	if !ok {
		respondError(w, r, h.logger, apperrors.NewNotFoundError("activity not found: "+id))
		return
	}

	respondJSON(w, http.StatusOK, activity)
}

// Create handles POST /api/activities
func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, h.logger, apperrors.NewValidationError("invalid request body", nil))
		return
	}

	activity := domain.Activity{
		Date:              req.Date,
		Title:             req.Title,
		Location:          req.Location,
		ShortDescription:  req.ShortDescription,
		DetailedNarrative: req.DetailedNarrative,
		Category:          req.Category,
		Photos:            req.Photos,
		Metrics:           req.Metrics,
	}

	created, err := h.moderation.Create(r.Context(), activity, req.Passkey)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// UpdateStatus handles POST /api/activities/{id}/status
func (h *ActivityHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, h.logger, apperrors.NewValidationError("invalid request body", nil))
		return
	}

	updated, err := h.moderation.Transition(r.Context(), id, req.Status, req.Passkey)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/activities/{id}
func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	passkey := r.Header.Get(PasskeyHeader)

	if err := h.moderation.Remove(r.Context(), id, passkey); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondMessage(w, http.StatusOK, "activity deleted")
}
