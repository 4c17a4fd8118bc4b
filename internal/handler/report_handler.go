package handler

import (
	"net/http"
	"strconv"

	"impactlog/internal/service"
	"impactlog/pkg/logger"
)

// ReportHandler serves the exported PDF report
type ReportHandler struct {
	report *service.ReportService
	sync   *service.SyncService
	logger *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(report *service.ReportService, sync *service.SyncService, logger *logger.Logger) *ReportHandler {
	return &ReportHandler{
		report: report,
		sync:   sync,
		logger: logger,
	}
}

// Download handles GET /api/report
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	pdf, err := h.report.Generate(h.sync.Accepted())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="impact-report.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
