package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impactlog/internal/domain"
)

func newTestReport() *ReportService {
	return NewReportService(NewStatsService(), "Community Impact Report", "Scholar Portfolio")
}

func TestReportService_Generate(t *testing.T) {
	report := newTestReport()

	activities := []domain.Activity{
		{
			ID:               "a1",
			Title:            "River cleanup",
			Location:         "Telaga Waja",
			Date:             "2024-05-04",
			Category:         domain.CategoryEnvironment,
			Status:           domain.StatusAccepted,
			ShortDescription: "Community river cleanup along the upper banks",
			Metrics: []domain.ImpactMetric{
				{Label: "Waste collected", Value: 120, Unit: "kg"},
				{Label: "Beneficiaries", Value: 45, Unit: "people"},
			},
		},
		{
			ID:       "a2",
			Title:    "Unreviewed draft",
			Location: "Sidemen",
			Date:     "2024-06-01",
			Category: domain.CategorySocial,
			Status:   domain.StatusPending,
		},
	}

	out, err := report.Generate(activities)

	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestReportService_Generate_EmptyInput(t *testing.T) {
	report := newTestReport()

	out, err := report.Generate([]domain.Activity{})

	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestReportService_Generate_NoAcceptedRecords(t *testing.T) {
	report := newTestReport()

	out, err := report.Generate([]domain.Activity{
		{ID: "a1", Title: "Draft", Location: "Sidemen", Date: "2024-06-01", Status: domain.StatusPending},
	})

	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestReportService_Truncate(t *testing.T) {
	report := newTestReport()

	assert.Equal(t, "short", report.truncate("short", 10))
	assert.Equal(t, "a long nar", report.truncate("a long narrative", 10))
}

func TestReportService_FormatPeriod(t *testing.T) {
	report := newTestReport()

	assert.Equal(t, "May 2024", report.formatPeriod("2024-05-04"))
	assert.Equal(t, "not a date", report.formatPeriod("not a date"))
}
