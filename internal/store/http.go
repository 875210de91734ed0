package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/YaelHo1991/transcription-app-sub005/app/models"
)

// HTTPStore talks to the transcription API server's backup endpoints.
type HTTPStore struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPStore(baseURL, token string) *HTTPStore {
	return &HTTPStore{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *HTTPStore) mediaURL(identity models.Identity, suffix string) string {
	return fmt.Sprintf("%s/projects/%s/media/%s/%s",
		s.baseURL, url.PathEscape(identity.ProjectID), url.PathEscape(identity.MediaID), suffix)
}

func (s *HTTPStore) do(ctx context.Context, method, rawURL string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("store request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrAuthRequired
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return ErrVersionConflict
	case resp.StatusCode >= 400:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("store returned %d: %s", resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode store response: %w", err)
	}
	return nil
}

func (s *HTTPStore) Append(ctx context.Context, identity models.Identity, snapshot *models.Snapshot, versionNumber int) (AppendResult, error) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return AppendResult{}, fmt.Errorf("encode snapshot: %w", err)
	}

	var result AppendResult
	err = s.do(ctx, http.MethodPost, s.mediaURL(identity, "backup"), bytes.NewReader(payload), &result)
	if err != nil {
		return AppendResult{}, err
	}
	if !result.Success {
		return result, fmt.Errorf("store rejected backup for %s", identity)
	}
	return result, nil
}

func (s *HTTPStore) List(ctx context.Context, identity models.Identity) ([]models.VersionSummary, error) {
	var resp struct {
		Success bool                    `json:"success"`
		Backups []models.VersionSummary `json:"backups"`
	}
	if err := s.do(ctx, http.MethodGet, s.mediaURL(identity, "backups"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Backups, nil
}

func (s *HTTPStore) Get(ctx context.Context, identity models.Identity, versionNumber int) (*models.Snapshot, error) {
	var resp struct {
		Success  bool             `json:"success"`
		Snapshot *models.Snapshot `json:"snapshot"`
	}
	u := s.mediaURL(identity, "backups/"+strconv.Itoa(versionNumber))
	if err := s.do(ctx, http.MethodGet, u, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Snapshot == nil {
		return nil, ErrNotFound
	}
	return resp.Snapshot, nil
}

func (s *HTTPStore) Latest(ctx context.Context, identity models.Identity) (*models.Snapshot, int, error) {
	var resp struct {
		Success  bool             `json:"success"`
		Version  int              `json:"version"`
		Snapshot *models.Snapshot `json:"snapshot"`
	}
	if err := s.do(ctx, http.MethodGet, s.mediaURL(identity, "backups/latest"), nil, &resp); err != nil {
		return nil, 0, err
	}
	if resp.Snapshot == nil {
		return nil, 0, ErrNotFound
	}
	return resp.Snapshot, resp.Version, nil
}
