package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/YaelHo1991/transcription-app-sub005/app/models"
	"github.com/YaelHo1991/transcription-app-sub005/app/repositories"
)

func newTestService(t *testing.T) *BackupService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.BackupRecord{}))
	return NewBackupService(repositories.NewBackupRepository(db), nil)
}

func snapshot(text string) *models.Snapshot {
	return &models.Snapshot{
		Blocks: []models.Block{
			{ID: "b1", Text: text},
			{ID: "b2", Text: "עוד שורה אחת"},
		},
		Speakers: []models.Speaker{{ID: "s1", Code: "א", Name: "דובר"}},
		Metadata: models.Metadata{MediaID: "m1", FileName: "m1.json"},
	}
}

func TestStoreVersionAssignsSequence(t *testing.T) {
	svc := newTestService(t)

	v1, err := svc.StoreVersion("p1", "m1", snapshot("one"), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, v1)

	v2, err := svc.StoreVersion("p1", "m1", snapshot("two"), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, v2)

	// A client with stale state proposes 1 again; the service bumps it.
	v3, err := svc.StoreVersion("p1", "m1", snapshot("three"), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, v3)
}

func TestStoreVersionComputesSummaryCounters(t *testing.T) {
	svc := newTestService(t)

	s := snapshot("מילה אחת שתיים")
	_, err := svc.StoreVersion("p1", "m1", s, 1)
	require.NoError(t, err)

	summaries, err := svc.ListVersions("p1", "m1")
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	assert.Equal(t, 2, summaries[0].BlocksCount)
	assert.Equal(t, 1, summaries[0].SpeakersCount)
	assert.Equal(t, 6, summaries[0].WordsCount)
	assert.Positive(t, summaries[0].SizeBytes)
}

func TestListVersionsNewestFirst(t *testing.T) {
	svc := newTestService(t)

	for i := 1; i <= 3; i++ {
		_, err := svc.StoreVersion("p1", "m1", snapshot("rev"), i)
		require.NoError(t, err)
	}

	summaries, err := svc.ListVersions("p1", "m1")
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{
		summaries[0].VersionNumber, summaries[1].VersionNumber, summaries[2].VersionNumber,
	})
}

func TestGetVersionRoundTrip(t *testing.T) {
	svc := newTestService(t)

	original := snapshot("תמלול מקורי")
	_, err := svc.StoreVersion("p1", "m1", original, 1)
	require.NoError(t, err)

	restored, err := svc.GetVersion("p1", "m1", 1)
	require.NoError(t, err)
	assert.Equal(t, original.Blocks, restored.Blocks)
	assert.Equal(t, original.Speakers, restored.Speakers)

	latest, version, err := svc.LatestVersion("p1", "m1")
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	assert.Equal(t, original.Blocks[0].Text, latest.Blocks[0].Text)
}
