// Package store defines the version-history contract the backup coordinator
// writes to, plus the HTTP and local (sqlite) implementations of it. History
// is append-only: versions are numbered from 1 and never deleted or rewritten
// by the client side.
package store

import (
	"context"
	"errors"

	"github.com/YaelHo1991/transcription-app-sub005/app/models"
)

var (
	// ErrAuthRequired means the store rejected our credentials. The caller
	// should prompt for re-login instead of retrying forever.
	ErrAuthRequired = errors.New("store: authentication required")

	// ErrNotFound means the requested identity or version has no record.
	ErrNotFound = errors.New("store: not found")

	// ErrVersionConflict means the proposed version number was already taken.
	ErrVersionConflict = errors.New("store: version conflict")
)

// AppendResult reports the outcome of a version write. Version is the number
// the store actually assigned, which the caller must adopt.
type AppendResult struct {
	Success bool `json:"success"`
	Version int  `json:"version"`
}

// VersionHistoryStore persists immutable snapshot versions keyed by
// (project, media, version).
type VersionHistoryStore interface {
	// Append stores snapshot under the proposed version number.
	Append(ctx context.Context, identity models.Identity, snapshot *models.Snapshot, versionNumber int) (AppendResult, error)

	// List returns summaries of all stored versions, newest first.
	List(ctx context.Context, identity models.Identity) ([]models.VersionSummary, error)

	// Get retrieves the content of one stored version.
	Get(ctx context.Context, identity models.Identity, versionNumber int) (*models.Snapshot, error)

	// Latest retrieves the newest version's content and number.
	// Returns ErrNotFound when the identity has no versions yet.
	Latest(ctx context.Context, identity models.Identity) (*models.Snapshot, int, error)
}
