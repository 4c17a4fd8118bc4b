package domain

import "time"

// CategoryCount is one bar of the category distribution
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// MonthBucket is one point of the monthly time series. The label carries
// both month and year so buckets from different years never collapse.
type MonthBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CumulativeMetric is the summed total for one case-insensitive metric label
type CumulativeMetric struct {
	Label string  `json:"label"`
	Total float64 `json:"total"`
	Unit  string  `json:"unit"`
}

// DashboardStats bundles every derived figure the dashboard renders
type DashboardStats struct {
	TotalActivities      int                `json:"total_activities"`
	TotalBeneficiaries   float64            `json:"total_beneficiaries"`
	DistinctSites        int                `json:"distinct_sites"`
	CategoryDistribution []CategoryCount    `json:"category_distribution"`
	MonthlySeries        []MonthBucket      `json:"monthly_series"`
	CumulativeMetrics    []CumulativeMetric `json:"cumulative_metrics"`
}

// Connectivity is the internal indicator of the last record store sync
type Connectivity struct {
	Online       bool       `json:"online"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
}
