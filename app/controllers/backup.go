package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/YaelHo1991/transcription-app-sub005/app/models"
	"github.com/YaelHo1991/transcription-app-sub005/app/services"
)

type BackupController struct {
	svc *services.BackupService
}

func NewBackupController(svc *services.BackupService) *BackupController {
	return &BackupController{svc: svc}
}

// StoreBackup handles POST /projects/:projectId/media/:mediaId/backup.
// Body is the snapshot JSON; the proposed version rides in its metadata.
func (c *BackupController) StoreBackup(ctx *gin.Context) {
	projectID := ctx.Param("projectId")
	mediaID := ctx.Param("mediaId")

	var snapshot models.Snapshot
	if err := ctx.ShouldBindJSON(&snapshot); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid payload"})
		return
	}

	// The payload must be for the media it is being stored under.
	if snapshot.Metadata.MediaID != "" && snapshot.Metadata.MediaID != mediaID {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "snapshot media does not match URL media",
		})
		return
	}

	version, err := c.svc.StoreVersion(projectID, mediaID, &snapshot, snapshot.Metadata.Version)
	if err != nil {
		if errors.Is(err, services.ErrVersionConflict) {
			ctx.JSON(http.StatusConflict, gin.H{"success": false, "error": "version conflict"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "version": version})
}

// ListBackups handles GET /projects/:projectId/media/:mediaId/backups.
func (c *BackupController) ListBackups(ctx *gin.Context) {
	summaries, err := c.svc.ListVersions(ctx.Param("projectId"), ctx.Param("mediaId"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "backups": summaries})
}

// GetBackup handles GET /projects/:projectId/media/:mediaId/backups/:version,
// where :version is a number or "latest".
func (c *BackupController) GetBackup(ctx *gin.Context) {
	projectID := ctx.Param("projectId")
	mediaID := ctx.Param("mediaId")
	raw := ctx.Param("version")

	if raw == "latest" {
		snapshot, version, err := c.svc.LatestVersion(projectID, mediaID)
		if err != nil {
			respondLookupError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"success": true, "version": version, "snapshot": snapshot})
		return
	}

	version, err := strconv.Atoi(raw)
	if err != nil || version < 1 {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid version"})
		return
	}

	snapshot, err := c.svc.GetVersion(projectID, mediaID, version)
	if err != nil {
		respondLookupError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "version": version, "snapshot": snapshot})
}

func respondLookupError(ctx *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": "no such version"})
		return
	}
	ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
}
