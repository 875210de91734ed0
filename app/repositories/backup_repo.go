package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/YaelHo1991/transcription-app-sub005/app/models"
)

var ErrDuplicateVersion = errors.New("duplicate version for identity")

type BackupRepository struct {
	db *gorm.DB
}

func NewBackupRepository(db *gorm.DB) *BackupRepository {
	return &BackupRepository{db: db}
}

// LatestVersion returns the highest stored version number, 0 when the
// identity has no versions yet.
func (r *BackupRepository) LatestVersion(projectID, mediaID string) (int, error) {
	var record models.BackupRecord
	err := r.db.Where("project_id = ? AND media_id = ?", projectID, mediaID).
		Order("version desc").First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return record.Version, err
}

func (r *BackupRepository) CreateRecord(record *models.BackupRecord) error {
	err := r.db.Create(record).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateVersion
	}
	return err
}

func (r *BackupRepository) ListRecords(projectID, mediaID string) ([]models.BackupRecord, error) {
	var records []models.BackupRecord
	err := r.db.Select("id", "project_id", "media_id", "version", "file_name",
		"size_bytes", "blocks_count", "speakers_count", "words_count", "auto_save", "created_at").
		Where("project_id = ? AND media_id = ?", projectID, mediaID).
		Order("version desc").Find(&records).Error
	return records, err
}

func (r *BackupRepository) GetRecord(projectID, mediaID string, version int) (*models.BackupRecord, error) {
	var record models.BackupRecord
	err := r.db.Where("project_id = ? AND media_id = ? AND version = ?", projectID, mediaID, version).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *BackupRepository) LatestRecord(projectID, mediaID string) (*models.BackupRecord, error) {
	var record models.BackupRecord
	err := r.db.Where("project_id = ? AND media_id = ?", projectID, mediaID).
		Order("version desc").First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}
