package service

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"impactlog/internal/domain"
	apperrors "impactlog/pkg/errors"
)

// Report layout constants, A4 portrait in millimeters
const (
	reportPageWidth  = 210.0
	reportMarginLeft = 15.0
)

// ReportService renders the accepted portfolio into a paginated PDF. It is a
// pure read-only consumer of the aggregation output.
type ReportService struct {
	stats *StatsService
	title string
	owner string
}

// NewReportService creates a new report service
func NewReportService(stats *StatsService, title, owner string) *ReportService {
	return &ReportService{
		stats: stats,
		title: title,
		owner: owner,
	}
}

// Generate builds the PDF report from the given list. Only accepted records
// are included regardless of what the caller passes in.
func (r *ReportService) Generate(activities []domain.Activity) ([]byte, error) {
	accepted := domain.FilterByStatus(activities, domain.StatusAccepted)
	sorted := make([]domain.Activity, len(accepted))
	copy(sorted, accepted)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	r.cover(pdf)
	r.activityTable(pdf, sorted)
	r.metricsTable(pdf, accepted)
	r.timelineTable(pdf, sorted)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperrors.NewInternalError("failed to render report", err)
	}
	return buf.Bytes(), nil
}

func (r *ReportService) cover(pdf *gofpdf.Fpdf) {
	pdf.SetFillColor(0, 45, 86)
	pdf.Rect(0, 0, reportPageWidth, 40, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 22)
	pdf.Text(reportMarginLeft, 20, strings.ToUpper(r.title))

	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(reportMarginLeft, 30, fmt.Sprintf("%s | Generated: %s",
		r.owner, time.Now().Format("02 Jan 2006")))

	pdf.SetTextColor(0, 0, 0)
	pdf.SetY(50)
}

func (r *ReportService) activityTable(pdf *gofpdf.Fpdf, sorted []domain.Activity) {
	r.sectionHeading(pdf, "Accepted Activity Records")

	widths := []float64{10, 28, 72, 40, 30}
	r.tableHeader(pdf, widths, []string{"#", "Date", "Activity Title", "Location", "Category"}, 0, 45, 86)

	pdf.SetFont("Helvetica", "", 9)
	for i, a := range sorted {
		fill := i%2 == 1
		r.tableRow(pdf, widths, []string{
			fmt.Sprintf("%d", i+1),
			r.formatDate(a.Date),
			r.truncate(a.Title, 48),
			r.truncate(a.Location, 26),
			string(a.Category),
		}, fill)
	}
	pdf.Ln(6)
}

func (r *ReportService) metricsTable(pdf *gofpdf.Fpdf, accepted []domain.Activity) {
	r.sectionHeading(pdf, "Cumulative Impact Metrics")

	widths := []float64{90, 50, 40}
	r.tableHeader(pdf, widths, []string{"Metric Type", "Value", "Unit"}, 248, 177, 0)

	pdf.SetFont("Helvetica", "", 9)
	for i, m := range r.stats.CumulativeMetrics(accepted) {
		r.tableRow(pdf, widths, []string{
			strings.ToUpper(m.Label),
			fmt.Sprintf("%g", m.Total),
			strings.ToUpper(m.Unit),
		}, i%2 == 1)
	}
	pdf.Ln(6)
}

func (r *ReportService) timelineTable(pdf *gofpdf.Fpdf, sorted []domain.Activity) {
	r.sectionHeading(pdf, "Service Timeline")

	widths := []float64{30, 60, 90}
	r.tableHeader(pdf, widths, []string{"Period", "Milestone", "Focus"}, 0, 45, 86)

	pdf.SetFont("Helvetica", "", 9)
	for i, a := range sorted {
		focus := a.ShortDescription
		if focus == "" && a.DetailedNarrative != "" {
			focus = r.truncate(a.DetailedNarrative, 60) + "..."
		}
		if focus == "" {
			focus = "N/A"
		}
		r.tableRow(pdf, widths, []string{
			r.formatPeriod(a.Date),
			r.truncate(a.Title, 38),
			r.truncate(focus, 62),
		}, i%2 == 1)
	}
}

func (r *ReportService) sectionHeading(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 45, 86)
	pdf.CellFormat(0, 10, text, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(1)
}

func (r *ReportService) tableHeader(pdf *gofpdf.Fpdf, widths []float64, titles []string, cr, cg, cb int) {
	pdf.SetFillColor(cr, cg, cb)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 9)
	for i, title := range titles {
		pdf.CellFormat(widths[i], 8, title, "", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)
}

func (r *ReportService) tableRow(pdf *gofpdf.Fpdf, widths []float64, cells []string, fill bool) {
	pdf.SetFillColor(240, 240, 240)
	for i, cell := range cells {
		pdf.CellFormat(widths[i], 7, cell, "", 0, "L", fill, 0, "")
	}
	pdf.Ln(-1)
}

func (r *ReportService) formatDate(date string) string {
	at, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return date
	}
	return at.Format("02 Jan 2006")
}

func (r *ReportService) formatPeriod(date string) string {
	at, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return date
	}
	return at.Format(monthLabelLayout)
}

func (r *ReportService) truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
