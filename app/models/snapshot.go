package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Identity is the (project, media) pair a transcription session is bound to.
// It never mutates in place; selecting different media is a transition.
type Identity struct {
	ProjectID string `json:"project_id"`
	MediaID   string `json:"media_id"`
}

func (id Identity) Equal(other Identity) bool {
	return id.ProjectID == other.ProjectID && id.MediaID == other.MediaID
}

func (id Identity) String() string {
	return id.ProjectID + "/" + id.MediaID
}

// Block is one transcription segment. Order within a snapshot is significant.
type Block struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	Speaker   string  `json:"speaker,omitempty"`
	Timestamp string  `json:"timestamp,omitempty"`
	StartTime float64 `json:"start_time,omitempty"`
	EndTime   float64 `json:"end_time,omitempty"`
}

// Speaker maps a shortcut code to a display name. Code is unique per snapshot.
type Speaker struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Count       int    `json:"count,omitempty"`
}

// Remark is an annotation anchored to a block.
type Remark struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	BlockID   string `json:"block_id"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Metadata describes which media a snapshot belongs to. MediaID is checked
// against the coordinator's bound identity before any write goes out.
type Metadata struct {
	MediaID      string     `json:"media_id"`
	FileName     string     `json:"file_name,omitempty"`
	OriginalName string     `json:"original_name,omitempty"`
	Version      int        `json:"version,omitempty"`
	SavedAt      *time.Time `json:"saved_at,omitempty"`
	AutoSave     bool       `json:"auto_save,omitempty"`
}

// Snapshot is the full editable transcription state at one instant.
type Snapshot struct {
	Blocks   []Block   `json:"blocks"`
	Speakers []Speaker `json:"speakers"`
	Remarks  []Remark  `json:"remarks"`
	Metadata Metadata  `json:"metadata"`
}

// NewEmptySnapshot builds the default state for media that has no saved
// version yet: a single empty block.
func NewEmptySnapshot(identity Identity, fileName string) *Snapshot {
	return &Snapshot{
		Blocks: []Block{
			{ID: uuid.New().String()},
		},
		Speakers: []Speaker{},
		Remarks:  []Remark{},
		Metadata: Metadata{
			MediaID:  identity.MediaID,
			FileName: fileName,
		},
	}
}

// WordsCount counts whitespace-separated words across all block texts.
func (s *Snapshot) WordsCount() int {
	total := 0
	for _, b := range s.Blocks {
		total += len(strings.Fields(b.Text))
	}
	return total
}
