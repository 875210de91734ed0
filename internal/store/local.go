package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/YaelHo1991/transcription-app-sub005/app/models"
	"github.com/YaelHo1991/transcription-app-sub005/app/repositories"
	"github.com/YaelHo1991/transcription-app-sub005/app/services"
)

// LocalStore keeps version history in a local sqlite file, for offline work
// and for tests. Same contract and numbering rules as the remote server.
type LocalStore struct {
	svc *services.BackupService
}

// OpenLocal opens (and migrates) a sqlite-backed store at dbPath.
// Pass ":memory:" for a throwaway store.
func OpenLocal(dbPath string) (*LocalStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir db dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.AutoMigrate(&models.BackupRecord{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	repo := repositories.NewBackupRepository(db)
	return &LocalStore{svc: services.NewBackupService(repo, nil)}, nil
}

func (s *LocalStore) Append(ctx context.Context, identity models.Identity, snapshot *models.Snapshot, versionNumber int) (AppendResult, error) {
	version, err := s.svc.StoreVersion(identity.ProjectID, identity.MediaID, snapshot, versionNumber)
	if err != nil {
		if errors.Is(err, services.ErrVersionConflict) {
			return AppendResult{}, ErrVersionConflict
		}
		return AppendResult{}, err
	}
	return AppendResult{Success: true, Version: version}, nil
}

func (s *LocalStore) List(ctx context.Context, identity models.Identity) ([]models.VersionSummary, error) {
	return s.svc.ListVersions(identity.ProjectID, identity.MediaID)
}

func (s *LocalStore) Get(ctx context.Context, identity models.Identity, versionNumber int) (*models.Snapshot, error) {
	snapshot, err := s.svc.GetVersion(identity.ProjectID, identity.MediaID, versionNumber)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return snapshot, err
}

func (s *LocalStore) Latest(ctx context.Context, identity models.Identity) (*models.Snapshot, int, error) {
	snapshot, version, err := s.svc.LatestVersion(identity.ProjectID, identity.MediaID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, ErrNotFound
	}
	return snapshot, version, err
}
