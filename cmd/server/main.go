package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/YaelHo1991/transcription-app-sub005/app/controllers"
	"github.com/YaelHo1991/transcription-app-sub005/app/models"
	"github.com/YaelHo1991/transcription-app-sub005/app/repositories"
	"github.com/YaelHo1991/transcription-app-sub005/app/services"
	"github.com/YaelHo1991/transcription-app-sub005/config"
	"github.com/YaelHo1991/transcription-app-sub005/internal/archive"
	"github.com/YaelHo1991/transcription-app-sub005/internal/logger"
	"github.com/YaelHo1991/transcription-app-sub005/server"
)

func main() {
	configPath := flag.String("config", "config.yml", "config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[Error] Failed to load %s: %v", *configPath, err)
	}

	if cfg.Log.Dir != "" {
		if err := logger.Init(cfg.Log.Dir); err != nil {
			log.Fatalf("[Error] Logger init failed: %v", err)
		}
	}

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("[Error] DB connection failed: %v", err)
	}

	if err := db.AutoMigrate(&models.BackupRecord{}); err != nil {
		log.Fatalf("[Error] Migration failed: %v", err)
	}

	var archiver *archive.Writer
	if cfg.Backup.StoragePath != "" {
		archiver, err = archive.NewWriter(cfg.Backup.StoragePath)
		if err != nil {
			log.Fatalf("[Error] Archive init failed: %v", err)
		}
	}

	repo := repositories.NewBackupRepository(db)
	svc := services.NewBackupService(repo, archiver)
	controller := controllers.NewBackupController(svc)

	logger.Infof("[Server] Version history API listening on %s (%s)", cfg.Server.Addr, cfg.Database.Driver)
	if err := http.ListenAndServe(cfg.Server.Addr, server.NewRouter(controller, cfg.Server.AuthToken)); err != nil {
		log.Fatalf("[Error] Serve failed: %v", err)
	}
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}

	if cfg.Database.Driver == "mysql" {
		return gorm.Open(mysql.Open(cfg.Database.DSN), gormCfg)
	}

	if dir := filepath.Dir(cfg.Database.DSN); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return gorm.Open(sqlite.Open(cfg.Database.DSN), gormCfg)
}
