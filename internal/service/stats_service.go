package service

import (
	"sort"
	"strings"
	"time"

	"impactlog/internal/domain"
)

// beneficiaryKeyword is matched as a case-insensitive substring of metric labels
const beneficiaryKeyword = "beneficiaries"

// monthLabelLayout renders one month bucket. The year is part of the label so
// the same month in different years never collapses into one bucket.
const monthLabelLayout = "Jan 2006"

// StatsService derives dashboard statistics from an activity list. Every
// method is a pure function of its input: no I/O, fully deterministic, and an
// empty input yields zero values rather than an error. Callers decide the
// scope; public views pass the accepted subset only.
type StatsService struct{}

// NewStatsService creates a new stats service
func NewStatsService() *StatsService {
	return &StatsService{}
}

// TotalCount returns the number of records in scope
func (s *StatsService) TotalCount(activities []domain.Activity) int {
	return len(activities)
}

// BeneficiarySum sums the value of every metric whose label contains the
// substring "beneficiaries", matched case-insensitively
func (s *StatsService) BeneficiarySum(activities []domain.Activity) float64 {
	var total float64
	for _, a := range activities {
		for _, m := range a.Metrics {
			if strings.Contains(strings.ToLower(m.Label), beneficiaryKeyword) {
				total += m.Value
			}
		}
	}
	return total
}

// CategoryDistribution counts records per category, omitting zero-count
// categories and preserving the enum declaration order
func (s *StatsService) CategoryDistribution(activities []domain.Activity) []domain.CategoryCount {
	counts := make(map[domain.Category]int, len(domain.Categories))
	for _, a := range activities {
		counts[a.Category]++
	}

	distribution := make([]domain.CategoryCount, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		if counts[c] > 0 {
			distribution = append(distribution, domain.CategoryCount{
				Name:  string(c),
				Count: counts[c],
			})
		}
	}
	return distribution
}

// MonthlySeries buckets records by calendar month and year of the event date
// (not the insertion timestamp), ordered chronologically. Records whose date
// does not parse are left out of the series.
func (s *StatsService) MonthlySeries(activities []domain.Activity) []domain.MonthBucket {
	dates := make([]time.Time, 0, len(activities))
	for _, a := range activities {
		at, err := a.EventDate()
		if err != nil {
			continue
		}
		dates = append(dates, at)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	buckets := make([]domain.MonthBucket, 0)
	index := make(map[string]int)
	for _, at := range dates {
		label := at.Format(monthLabelLayout)
		if i, ok := index[label]; ok {
			buckets[i].Count++
			continue
		}
		index[label] = len(buckets)
		buckets = append(buckets, domain.MonthBucket{Label: label, Count: 1})
	}

	return buckets
}

// CumulativeMetrics groups every metric across all records by its
// case-insensitively normalized label, summing values. The unit of whichever
// metric populated a group first is carried forward; unit mismatches across
// records sharing a label are not reconciled. Groups appear in first-seen
// insertion order.
func (s *StatsService) CumulativeMetrics(activities []domain.Activity) []domain.CumulativeMetric {
	totals := make([]domain.CumulativeMetric, 0)
	index := make(map[string]int)

	for _, a := range activities {
		for _, m := range a.Metrics {
			key := strings.ToLower(m.Label)
			if i, ok := index[key]; ok {
				totals[i].Total += m.Value
				continue
			}
			index[key] = len(totals)
			totals = append(totals, domain.CumulativeMetric{
				Label: key,
				Total: m.Value,
				Unit:  m.Unit,
			})
		}
	}
	return totals
}

// DistinctSites counts distinct location strings, case-sensitively and
// without normalization
func (s *StatsService) DistinctSites(activities []domain.Activity) int {
	seen := make(map[string]struct{}, len(activities))
	for _, a := range activities {
		seen[a.Location] = struct{}{}
	}
	return len(seen)
}

// Dashboard bundles every derived figure for the given scope
func (s *StatsService) Dashboard(activities []domain.Activity) domain.DashboardStats {
	return domain.DashboardStats{
		TotalActivities:      s.TotalCount(activities),
		TotalBeneficiaries:   s.BeneficiarySum(activities),
		DistinctSites:        s.DistinctSites(activities),
		CategoryDistribution: s.CategoryDistribution(activities),
		MonthlySeries:        s.MonthlySeries(activities),
		CumulativeMetrics:    s.CumulativeMetrics(activities),
	}
}
