package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"impactlog/internal/domain"
	"impactlog/pkg/database"
	apperrors "impactlog/pkg/errors"
)

// postgresStore implements RecordStore against a plain Postgres activities
// table, for deployments that skip the Supabase REST layer and connect to the
// database directly.
type postgresStore struct {
	db *database.PostgresDB
}

// NewPostgresStore creates a RecordStore backed by PostgreSQL
func NewPostgresStore(db *database.PostgresDB) RecordStore {
	return &postgresStore{db: db}
}

// List retrieves every activity ordered by created_at descending
func (r *postgresStore) List(ctx context.Context) ([]domain.Activity, error) {
	query := `
		SELECT id, title, date, location, category, short_description,
		       detailed_narrative, status, metrics, photos, created_at
		FROM activities
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewRemoteError("failed to list activities", err)
	}
	defer rows.Close()

	activities := make([]domain.Activity, 0)
	for rows.Next() {
		var (
			row         activityRow
			metricsJSON []byte
			photosJSON  []byte
			eventDate   time.Time
		)
		if err := rows.Scan(
			&row.ID,
			&row.Title,
			&eventDate,
			&row.Location,
			&row.Category,
			&row.ShortDescription,
			&row.DetailedNarrative,
			&row.Status,
			&metricsJSON,
			&photosJSON,
			&row.CreatedAt,
		); err != nil {
			return nil, apperrors.NewRemoteError("failed to scan activity row", err)
		}

		row.Date = eventDate.Format(domain.DateLayout)
		if len(metricsJSON) > 0 {
			if err := json.Unmarshal(metricsJSON, &row.Metrics); err != nil {
				return nil, apperrors.NewRemoteError("failed to decode activity metrics", err)
			}
		}
		if len(photosJSON) > 0 {
			if err := json.Unmarshal(photosJSON, &row.Photos); err != nil {
				return nil, apperrors.NewRemoteError("failed to decode activity photos", err)
			}
		}

		activities = append(activities, row.toActivity())
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewRemoteError("failed to iterate activities", err)
	}

	return activities, nil
}

// Upsert inserts the activity or fully replaces the record sharing its id
func (r *postgresStore) Upsert(ctx context.Context, activity domain.Activity) error {
	row := rowFromActivity(activity)

	metricsJSON, err := json.Marshal(row.Metrics)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal activity metrics", err)
	}
	photosJSON, err := json.Marshal(row.Photos)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal activity photos", err)
	}

	query := `
		INSERT INTO activities (id, title, date, location, category, short_description,
		                        detailed_narrative, status, metrics, photos, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			date = EXCLUDED.date,
			location = EXCLUDED.location,
			category = EXCLUDED.category,
			short_description = EXCLUDED.short_description,
			detailed_narrative = EXCLUDED.detailed_narrative,
			status = EXCLUDED.status,
			metrics = EXCLUDED.metrics,
			photos = EXCLUDED.photos,
			created_at = EXCLUDED.created_at
	`

	_, err = r.db.Pool.Exec(ctx, query,
		row.ID,
		row.Title,
		row.Date,
		row.Location,
		row.Category,
		row.ShortDescription,
		row.DetailedNarrative,
		row.Status,
		metricsJSON,
		photosJSON,
		row.CreatedAt,
	)
	if err != nil {
		return apperrors.NewRemoteError("failed to upsert activity", err)
	}

	return nil
}

// Delete removes the record with the given id
func (r *postgresStore) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return apperrors.NewRemoteError("failed to delete activity", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("activity %s does not exist remotely", id))
	}
	return nil
}
