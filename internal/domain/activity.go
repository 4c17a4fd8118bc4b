package domain

import (
	"strings"
	"time"
)

// Category classifies an activity into one of the fixed portfolio sectors.
// Declaration order is the display and tie-break order for distributions.
type Category string

const (
	CategoryEducation   Category = "Education"
	CategoryEnvironment Category = "Environment"
	CategoryHealth      Category = "Health"
	CategoryEconomy     Category = "Economy"
	CategorySocial      Category = "Social"
	CategoryOther       Category = "Other"
)

// Categories lists all valid categories in declaration order
var Categories = []Category{
	CategoryEducation,
	CategoryEnvironment,
	CategoryHealth,
	CategoryEconomy,
	CategorySocial,
	CategoryOther,
}

// Valid reports whether c is one of the fixed categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Status is the three-state moderation status gating public visibility
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusAccepted || s == StatusDeclined
}

// ImpactMetric is a single quantified outcome claim attached to an activity
type ImpactMetric struct {
	ID    string  `json:"id,omitempty"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// DateLayout is the calendar date format of Activity.Date
const DateLayout = "2006-01-02"

// Activity is one logged community-service milestone
type Activity struct {
	ID                string         `json:"id"`
	Date              string         `json:"date"`
	Title             string         `json:"title"`
	Location          string         `json:"location"`
	ShortDescription  string         `json:"shortDescription"`
	DetailedNarrative string         `json:"detailedNarrative"`
	Category          Category       `json:"category"`
	Photos            []string       `json:"photos"`
	Metrics           []ImpactMetric `json:"metrics"`
	CreatedAt         int64          `json:"createdAt"`
	Status            Status         `json:"status"`
}

// EventDate parses the user-supplied calendar date of the activity
func (a *Activity) EventDate() (time.Time, error) {
	return time.Parse(DateLayout, a.Date)
}

// Validate checks the required fields before any persistence attempt
func (a *Activity) Validate() map[string]interface{} {
	problems := map[string]interface{}{}
	if strings.TrimSpace(a.Title) == "" {
		problems["title"] = "title is required"
	}
	if strings.TrimSpace(a.Location) == "" {
		problems["location"] = "location is required"
	}
	if strings.TrimSpace(a.Date) == "" {
		problems["date"] = "date is required"
	} else if _, err := a.EventDate(); err != nil {
		problems["date"] = "date must be formatted as " + DateLayout
	}
	if !a.Category.Valid() {
		problems["category"] = "unknown category"
	}
	if len(problems) == 0 {
		return nil
	}
	return problems
}

// Normalize drops metrics with empty labels before persistence and
// guarantees non-nil slices for the wire representation.
func (a *Activity) Normalize() {
	kept := make([]ImpactMetric, 0, len(a.Metrics))
	for _, m := range a.Metrics {
		if strings.TrimSpace(m.Label) == "" {
			continue
		}
		kept = append(kept, m)
	}
	a.Metrics = kept
	if a.Photos == nil {
		a.Photos = []string{}
	}
}

// FilterByStatus returns the subset of activities with the given status
func FilterByStatus(activities []Activity, status Status) []Activity {
	out := make([]Activity, 0, len(activities))
	for _, a := range activities {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out
}
