// Package server assembles the HTTP surface of the version-history API.
package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/YaelHo1991/transcription-app-sub005/app/controllers"
)

// NewRouter wires the backup endpoints. authToken, when non-empty, gates
// every /projects route behind a bearer token; a mismatch is a 401 so
// clients can tell "re-login needed" apart from transient failures.
func NewRouter(backup *controllers.BackupController, authToken string) http.Handler {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())

	engine.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/projects")
	if authToken != "" {
		api.Use(bearerAuth(authToken))
	}
	api.POST("/:projectId/media/:mediaId/backup", backup.StoreBackup)
	api.GET("/:projectId/media/:mediaId/backups", backup.ListBackups)
	api.GET("/:projectId/media/:mediaId/backups/:version", backup.GetBackup)

	return engine
}

func bearerAuth(token string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		got, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || got != token {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "authentication required",
			})
			return
		}
		ctx.Next()
	}
}
