package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vidarr1412/projectFacebook-MarketPlace/internal/models"
)

// SupabaseStore talks to a hosted PostgREST-style listing API. The wire
// format is the service's concern; this client only maps rows to
// models.Listing and HTTP failures to errors.
type SupabaseStore struct {
	baseURL string
	apiKey  string
	table   string
	client  *http.Client
	logger  *logrus.Logger
}

func NewSupabaseStore(baseURL, apiKey, table string, logger *logrus.Logger) (*SupabaseStore, error) {
	if baseURL == "" {
		return nil, errors.New("supabase URL is required")
	}
	if apiKey == "" {
		return nil, errors.New("supabase API key is required")
	}
	if table == "" {
		table = "listings"
	}

	return &SupabaseStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		table:   table,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}, nil
}

func (s *SupabaseStore) ListAll(ctx context.Context) ([]models.Listing, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s?select=*&order=created_at.desc", s.baseURL, s.table)

	body, err := s.do(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return nil, err
	}

	var listings []models.Listing
	if err := json.Unmarshal(body, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}
	return listings, nil
}

func (s *SupabaseStore) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s?select=*&id=eq.%s&limit=1",
		s.baseURL, s.table, url.QueryEscape(id))

	body, err := s.do(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return nil, err
	}

	var listings []models.Listing
	if err := json.Unmarshal(body, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listing: %w", err)
	}
	if len(listings) == 0 {
		return nil, ErrNotFound
	}
	return &listings[0], nil
}

func (s *SupabaseStore) Insert(ctx context.Context, rec models.NewListing) (string, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", s.baseURL, s.table)

	payload, err := json.Marshal([]models.NewListing{rec})
	if err != nil {
		return "", fmt.Errorf("failed to marshal listing record: %w", err)
	}

	// Prefer: return=representation echoes the inserted row back so the
	// store-assigned id and created_at reach the caller.
	headers := map[string]string{
		"Prefer": "return=representation",
	}
	body, err := s.do(ctx, http.MethodPost, endpoint, bytes.NewReader(payload), headers)
	if err != nil {
		return "", err
	}

	var inserted []models.Listing
	if err := json.Unmarshal(body, &inserted); err != nil {
		return "", fmt.Errorf("failed to decode inserted listing: %w", err)
	}
	if len(inserted) == 0 {
		return "", errors.New("listing store returned no inserted row")
	}
	return inserted[0].ID, nil
}

func (s *SupabaseStore) do(ctx context.Context, method, endpoint string, body io.Reader, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing store request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read listing store response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, errors.New("listing store rejected the API key")
		case http.StatusNotFound:
			return nil, fmt.Errorf("listing table %q not found", s.table)
		default:
			return nil, fmt.Errorf("listing store error (status %d): %s", resp.StatusCode, string(data))
		}
	}

	return data, nil
}
