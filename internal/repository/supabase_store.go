package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"impactlog/internal/domain"
	apperrors "impactlog/pkg/errors"
	"impactlog/pkg/logger"
)

// supabaseStore talks to a Supabase PostgREST endpoint over plain HTTP
type supabaseStore struct {
	baseURL    string
	anonKey    string
	table      string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewSupabaseStore creates a RecordStore backed by a Supabase activities table
func NewSupabaseStore(baseURL, anonKey string, logger *logger.Logger) RecordStore {
	return &supabaseStore{
		baseURL: baseURL,
		anonKey: anonKey,
		table:   "activities",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func (s *supabaseStore) tableURL() string {
	return fmt.Sprintf("%s/rest/v1/%s", s.baseURL, s.table)
}

func (s *supabaseStore) setHeaders(req *http.Request) {
	req.Header.Set("apikey", s.anonKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.anonKey))
	req.Header.Set("Content-Type", "application/json")
}

// List retrieves every activity ordered by created_at descending
func (s *supabaseStore) List(ctx context.Context) ([]domain.Activity, error) {
	reqURL := fmt.Sprintf("%s?select=*&order=created_at.desc", s.tableURL())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list request", err)
	}
	s.setHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewRemoteError("record store is unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewRemoteError("failed to read record store response", err)
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.WithFields(map[string]interface{}{
			"status_code":   resp.StatusCode,
			"response_body": string(body),
		}).Warn("Record store list rejected")
		return nil, apperrors.NewRemoteError(
			fmt.Sprintf("record store returned status %d", resp.StatusCode), nil)
	}

	var rows []activityRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, apperrors.NewRemoteError("failed to parse record store response", err)
	}

	activities := make([]domain.Activity, 0, len(rows))
	for _, row := range rows {
		activities = append(activities, row.toActivity())
	}

	s.logger.WithField("count", len(activities)).Debug("Listed activities from record store")
	return activities, nil
}

// Upsert inserts the activity or fully replaces the record sharing its id
func (s *supabaseStore) Upsert(ctx context.Context, activity domain.Activity) error {
	payload, err := json.Marshal([]activityRow{rowFromActivity(activity)})
	if err != nil {
		return apperrors.NewInternalError("failed to marshal activity", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tableURL(), bytes.NewReader(payload))
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert request", err)
	}
	s.setHeaders(req)
	req.Header.Set("Prefer", "resolution=merge-duplicates")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return apperrors.NewRemoteError("record store is unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		s.logger.WithFields(map[string]interface{}{
			"activity_id":   activity.ID,
			"status_code":   resp.StatusCode,
			"response_body": string(body),
		}).Warn("Record store upsert rejected")
		return apperrors.NewRemoteError(
			fmt.Sprintf("record store returned status %d", resp.StatusCode), nil)
	}

	return nil
}

// Delete removes the record with the given id
func (s *supabaseStore) Delete(ctx context.Context, id string) error {
	reqURL := fmt.Sprintf("%s?id=eq.%s", s.tableURL(), url.QueryEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, reqURL, nil)
	if err != nil {
		return apperrors.NewInternalError("failed to build delete request", err)
	}
	s.setHeaders(req)
	// Returning the deleted rows lets us distinguish a no-op delete
	req.Header.Set("Prefer", "return=representation")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return apperrors.NewRemoteError("record store is unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewRemoteError("failed to read record store response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return apperrors.NewRemoteError(
			fmt.Sprintf("record store returned status %d", resp.StatusCode), nil)
	}

	var deleted []activityRow
	if err := json.Unmarshal(body, &deleted); err == nil && len(deleted) == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("activity %s does not exist remotely", id))
	}

	return nil
}
