package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YaelHo1991/transcription-app-sub005/app/models"
)

var testIdentity = models.Identity{ProjectID: "p1", MediaID: "m1"}

func testSnapshot(text string) *models.Snapshot {
	return &models.Snapshot{
		Blocks:   []models.Block{{ID: "b1", Text: text}},
		Metadata: models.Metadata{MediaID: "m1"},
	}
}

func TestHTTPStoreAppend(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody models.Snapshot

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "version": 4})
	}))
	defer srv.Close()

	s := NewHTTPStore(srv.URL, "tok123")
	result, err := s.Append(context.Background(), testIdentity, testSnapshot("שורה"), 4)

	require.NoError(t, err)
	assert.Equal(t, 4, result.Version)
	assert.Equal(t, "/projects/p1/media/m1/backup", gotPath)
	assert.Equal(t, "Bearer tok123", gotAuth)
	assert.Equal(t, "שורה", gotBody.Blocks[0].Text)
}

func TestHTTPStoreStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrAuthRequired},
		{"forbidden", http.StatusForbidden, ErrAuthRequired},
		{"not found", http.StatusNotFound, ErrNotFound},
		{"conflict", http.StatusConflict, ErrVersionConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			s := NewHTTPStore(srv.URL, "")
			_, err := s.Append(context.Background(), testIdentity, testSnapshot("x"), 1)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestHTTPStoreList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/p1/media/m1/backups", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"backups": []map[string]interface{}{
				{"version_number": 2, "blocks_count": 7},
				{"version_number": 1, "blocks_count": 3},
			},
		})
	}))
	defer srv.Close()

	s := NewHTTPStore(srv.URL, "")
	summaries, err := s.List(context.Background(), testIdentity)

	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, 2, summaries[0].VersionNumber)
	assert.Equal(t, 7, summaries[0].BlocksCount)
}

func TestHTTPStoreGetAndLatest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/projects/p1/media/m1/backups/3":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true, "version": 3, "snapshot": testSnapshot("גרסה שלוש"),
			})
		case "/projects/p1/media/m1/backups/latest":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true, "version": 5, "snapshot": testSnapshot("אחרונה"),
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := NewHTTPStore(srv.URL, "")

	got, err := s.Get(context.Background(), testIdentity, 3)
	require.NoError(t, err)
	assert.Equal(t, "גרסה שלוש", got.Blocks[0].Text)

	latest, version, err := s.Latest(context.Background(), testIdentity)
	require.NoError(t, err)
	assert.Equal(t, 5, version)
	assert.Equal(t, "אחרונה", latest.Blocks[0].Text)

	_, err = s.Get(context.Background(), testIdentity, 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPStoreEscapesIdentity(t *testing.T) {
	var gotRawPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRawPath = r.URL.EscapedPath()
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "version": 1})
	}))
	defer srv.Close()

	s := NewHTTPStore(srv.URL, "")
	identity := models.Identity{ProjectID: "proj/2026", MediaID: "קובץ 1"}
	_, err := s.Append(context.Background(), identity, testSnapshot("x"), 1)

	require.NoError(t, err)
	assert.NotContains(t, gotRawPath, "proj/2026", "slash in project id must be escaped")
}
