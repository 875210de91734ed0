package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr      string `yaml:"addr"`
		AuthToken string `yaml:"auth_token"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"` // "mysql" or "sqlite"
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`
	Backup struct {
		StoragePath string `yaml:"storage_path"` // disk mirror; empty disables
	} `yaml:"backup"`
	Log struct {
		Dir string `yaml:"dir"`
	} `yaml:"log"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "data/backups.db"
	}
	return &cfg, nil
}
