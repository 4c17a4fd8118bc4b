package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivity_Validate(t *testing.T) {
	tests := []struct {
		name     string
		activity Activity
		wantKeys []string
	}{
		{
			name: "valid activity",
			activity: Activity{
				Title:    "River cleanup",
				Location: "Telaga Waja",
				Date:     "2024-05-04",
				Category: CategoryEnvironment,
			},
		},
		{
			name:     "everything missing",
			activity: Activity{},
			wantKeys: []string{"title", "location", "date", "category"},
		},
		{
			name: "whitespace-only fields count as missing",
			activity: Activity{
				Title:    "   ",
				Location: "Telaga Waja",
				Date:     "2024-05-04",
				Category: CategoryEnvironment,
			},
			wantKeys: []string{"title"},
		},
		{
			name: "malformed date",
			activity: Activity{
				Title:    "River cleanup",
				Location: "Telaga Waja",
				Date:     "04/05/2024",
				Category: CategoryEnvironment,
			},
			wantKeys: []string{"date"},
		},
		{
			name: "unknown category",
			activity: Activity{
				Title:    "River cleanup",
				Location: "Telaga Waja",
				Date:     "2024-05-04",
				Category: Category("Charity"),
			},
			wantKeys: []string{"category"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := tt.activity.Validate()
			if len(tt.wantKeys) == 0 {
				assert.Nil(t, problems)
				return
			}
			require.Len(t, problems, len(tt.wantKeys))
			for _, key := range tt.wantKeys {
				assert.Contains(t, problems, key)
			}
		})
	}
}

func TestActivity_Normalize(t *testing.T) {
	activity := Activity{
		Metrics: []ImpactMetric{
			{ID: "m1", Label: "Beneficiaries", Value: 40, Unit: "people"},
			{ID: "m2", Label: "", Value: 12},
			{ID: "m3", Label: "  ", Value: 3},
		},
	}

	activity.Normalize()

	require.Len(t, activity.Metrics, 1)
	assert.Equal(t, "Beneficiaries", activity.Metrics[0].Label)
	assert.NotNil(t, activity.Photos)
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusAccepted.Valid())
	assert.True(t, StatusDeclined.Valid())
	assert.False(t, Status("approved").Valid())
	assert.False(t, Status("").Valid())
}

func TestFilterByStatus(t *testing.T) {
	activities := []Activity{
		{ID: "a1", Status: StatusAccepted},
		{ID: "a2", Status: StatusPending},
		{ID: "a3", Status: StatusAccepted},
	}

	accepted := FilterByStatus(activities, StatusAccepted)

	require.Len(t, accepted, 2)
	assert.Equal(t, "a1", accepted[0].ID)
	assert.Equal(t, "a3", accepted[1].ID)
	assert.Empty(t, FilterByStatus(activities, StatusDeclined))
}
