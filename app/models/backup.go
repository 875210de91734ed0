package models

import (
	"time"
)

// BackupRecord stores one immutable version of a transcription snapshot.
// Versions for a given (project, media) start at 1 and only go up; a record
// is never rewritten or renumbered.
type BackupRecord struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ProjectID     string    `gorm:"uniqueIndex:idx_identity_version;size:64" json:"project_id"`
	MediaID       string    `gorm:"uniqueIndex:idx_identity_version;size:64" json:"media_id"`
	Version       int       `gorm:"uniqueIndex:idx_identity_version" json:"version"`
	FileName      string    `json:"file_name"`
	Content       []byte    `gorm:"type:blob" json:"-"` // snapshot JSON
	SizeBytes     int64     `json:"size_bytes"`
	BlocksCount   int       `json:"blocks_count"`
	SpeakersCount int       `json:"speakers_count"`
	WordsCount    int       `json:"words_count"`
	AutoSave      bool      `json:"auto_save"`
	CreatedAt     time.Time `json:"created_at"`
}

// VersionSummary is the listing view of a stored version, without content.
type VersionSummary struct {
	VersionNumber int       `json:"version_number"`
	CreatedAt     time.Time `json:"created_at"`
	SizeBytes     int64     `json:"size_bytes,omitempty"`
	BlocksCount   int       `json:"blocks_count,omitempty"`
	SpeakersCount int       `json:"speakers_count,omitempty"`
	WordsCount    int       `json:"words_count,omitempty"`
	AutoSave      bool      `json:"auto_save,omitempty"`
}

// Summary converts a stored record to its listing view.
func (r *BackupRecord) Summary() VersionSummary {
	return VersionSummary{
		VersionNumber: r.Version,
		CreatedAt:     r.CreatedAt,
		SizeBytes:     r.SizeBytes,
		BlocksCount:   r.BlocksCount,
		SpeakersCount: r.SpeakersCount,
		WordsCount:    r.WordsCount,
		AutoSave:      r.AutoSave,
	}
}
