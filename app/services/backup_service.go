package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/YaelHo1991/transcription-app-sub005/app/models"
	"github.com/YaelHo1991/transcription-app-sub005/app/repositories"
	"github.com/YaelHo1991/transcription-app-sub005/internal/archive"
	"github.com/YaelHo1991/transcription-app-sub005/internal/logger"
)

var ErrVersionConflict = errors.New("version conflict")

// BackupService owns version numbering for stored snapshots. The client
// proposes a number but the service is authoritative: a stale proposal is
// bumped to latest+1 so history never gaps or repeats.
type BackupService struct {
	repo     *repositories.BackupRepository
	archiver *archive.Writer // optional disk mirror
}

func NewBackupService(repo *repositories.BackupRepository, archiver *archive.Writer) *BackupService {
	return &BackupService{repo: repo, archiver: archiver}
}

// StoreVersion persists one immutable snapshot version and returns the
// number actually assigned.
func (s *BackupService) StoreVersion(projectID, mediaID string, snapshot *models.Snapshot, proposed int) (int, error) {
	latest, err := s.repo.LatestVersion(projectID, mediaID)
	if err != nil {
		return 0, fmt.Errorf("get latest version: %w", err)
	}

	version := proposed
	if version <= latest {
		version = latest + 1
	}

	content, err := json.Marshal(snapshot)
	if err != nil {
		return 0, fmt.Errorf("encode snapshot: %w", err)
	}

	record := &models.BackupRecord{
		ProjectID:     projectID,
		MediaID:       mediaID,
		Version:       version,
		FileName:      snapshot.Metadata.FileName,
		Content:       content,
		SizeBytes:     int64(len(content)),
		BlocksCount:   len(snapshot.Blocks),
		SpeakersCount: len(snapshot.Speakers),
		WordsCount:    snapshot.WordsCount(),
		AutoSave:      snapshot.Metadata.AutoSave,
	}

	if err := s.repo.CreateRecord(record); err != nil {
		if errors.Is(err, repositories.ErrDuplicateVersion) {
			return 0, ErrVersionConflict
		}
		return 0, err
	}

	if s.archiver != nil {
		identity := models.Identity{ProjectID: projectID, MediaID: mediaID}
		if err := s.archiver.Export(identity, version, content); err != nil {
			// The DB row is the source of truth; a failed mirror is not fatal.
			logger.Warnf("[Backup] Archive mirror failed for %s v%d: %v", identity, version, err)
		}
	}

	return version, nil
}

func (s *BackupService) ListVersions(projectID, mediaID string) ([]models.VersionSummary, error) {
	records, err := s.repo.ListRecords(projectID, mediaID)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.VersionSummary, 0, len(records))
	for i := range records {
		summaries = append(summaries, records[i].Summary())
	}
	return summaries, nil
}

func (s *BackupService) GetVersion(projectID, mediaID string, version int) (*models.Snapshot, error) {
	record, err := s.repo.GetRecord(projectID, mediaID, version)
	if err != nil {
		return nil, err
	}
	return decodeSnapshot(record)
}

// LatestVersion returns the newest stored snapshot and its number.
func (s *BackupService) LatestVersion(projectID, mediaID string) (*models.Snapshot, int, error) {
	record, err := s.repo.LatestRecord(projectID, mediaID)
	if err != nil {
		return nil, 0, err
	}
	snapshot, err := decodeSnapshot(record)
	if err != nil {
		return nil, 0, err
	}
	return snapshot, record.Version, nil
}

func decodeSnapshot(record *models.BackupRecord) (*models.Snapshot, error) {
	var snapshot models.Snapshot
	if err := json.Unmarshal(record.Content, &snapshot); err != nil {
		return nil, fmt.Errorf("decode stored snapshot v%d: %w", record.Version, err)
	}
	return &snapshot, nil
}
