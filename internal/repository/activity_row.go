package repository

import (
	"time"

	"impactlog/internal/domain"
)

// activityRow is the snake_case record store shape of an activity
type activityRow struct {
	ID                string                `json:"id"`
	Title             string                `json:"title"`
	Date              string                `json:"date"`
	Location          string                `json:"location"`
	Category          string                `json:"category"`
	ShortDescription  string                `json:"short_description"`
	DetailedNarrative string                `json:"detailed_narrative"`
	Status            string                `json:"status"`
	Metrics           []domain.ImpactMetric `json:"metrics"`
	Photos            []string              `json:"photos"`
	CreatedAt         time.Time             `json:"created_at"`
}

func rowFromActivity(a domain.Activity) activityRow {
	metrics := a.Metrics
	if metrics == nil {
		metrics = []domain.ImpactMetric{}
	}
	photos := a.Photos
	if photos == nil {
		photos = []string{}
	}
	return activityRow{
		ID:                a.ID,
		Title:             a.Title,
		Date:              a.Date,
		Location:          a.Location,
		Category:          string(a.Category),
		ShortDescription:  a.ShortDescription,
		DetailedNarrative: a.DetailedNarrative,
		Status:            string(a.Status),
		Metrics:           metrics,
		Photos:            photos,
		CreatedAt:         time.UnixMilli(a.CreatedAt).UTC(),
	}
}

func (r activityRow) toActivity() domain.Activity {
	metrics := r.Metrics
	if metrics == nil {
		metrics = []domain.ImpactMetric{}
	}
	photos := r.Photos
	if photos == nil {
		photos = []string{}
	}
	return domain.Activity{
		ID:                r.ID,
		Title:             r.Title,
		Date:              r.Date,
		Location:          r.Location,
		Category:          domain.Category(r.Category),
		ShortDescription:  r.ShortDescription,
		DetailedNarrative: r.DetailedNarrative,
		Status:            domain.Status(r.Status),
		Metrics:           metrics,
		Photos:            photos,
		CreatedAt:         r.CreatedAt.UnixMilli(),
	}
}
