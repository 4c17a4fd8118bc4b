package handler

import (
	"net/http"
	"sort"

	"impactlog/internal/domain"
	"impactlog/internal/service"
	"impactlog/pkg/logger"
)

// PortfolioHandler serves the public-facing projections: dashboard,
// timeline and gallery. All of them consume the accepted subset only.
type PortfolioHandler struct {
	sync   *service.SyncService
	stats  *service.StatsService
	logger *logger.Logger
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(sync *service.SyncService, stats *service.StatsService, logger *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		sync:   sync,
		stats:  stats,
		logger: logger,
	}
}

// dashboardResponse pairs the derived statistics with the connectivity
// indicator of the last record store sync
type dashboardResponse struct {
	Stats        domain.DashboardStats `json:"stats"`
	Connectivity domain.Connectivity   `json:"connectivity"`
}

// galleryPhoto is one published photo with its activity context
type galleryPhoto struct {
	ActivityID string          `json:"activity_id"`
	Title      string          `json:"title"`
	Category   domain.Category `json:"category"`
	URL        string          `json:"url"`
}

// Dashboard handles GET /api/portfolio/dashboard
func (h *PortfolioHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	accepted := h.sync.Accepted()

	respondJSON(w, http.StatusOK, dashboardResponse{
		Stats:        h.stats.Dashboard(accepted),
		Connectivity: h.sync.Connectivity(),
	})
}

// Timeline handles GET /api/portfolio/timeline: accepted records in
// chronological order of the real-world event date
func (h *PortfolioHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	accepted := h.sync.Accepted()
	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].Date < accepted[j].Date
	})

	respondJSON(w, http.StatusOK, accepted)
}

// Gallery handles GET /api/portfolio/gallery: every photo of every accepted
// record, in record then photo order
func (h *PortfolioHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	accepted := h.sync.Accepted()

	photos := make([]galleryPhoto, 0)
	for _, a := range accepted {
		for _, url := range a.Photos {
			photos = append(photos, galleryPhoto{
				ActivityID: a.ID,
				Title:      a.Title,
				Category:   a.Category,
				URL:        url,
			})
		}
	}

	respondJSON(w, http.StatusOK, photos)
}
