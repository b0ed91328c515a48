package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"report-dashboard/pkg/utils"
)

// DefaultPath is read when DASHBOARD_CONFIG is not set. It may be absent.
const DefaultPath = "config.yaml"

type Config struct {
	Addr          string            `yaml:"addr"`
	DataDir       string            `yaml:"data_dir"`
	CatalogPath   string            `yaml:"catalog_path"`
	CompanyName   string            `yaml:"company_name"`
	SnapshotCache bool              `yaml:"snapshot_cache"`
	HistoryLimit  int               `yaml:"history_limit"`
	Log           Log               `yaml:"log"`
	ReportFolders map[string]string `yaml:"report_folders"`
}

type Log struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// Default returns the settings used when neither file nor environment says otherwise.
func Default() *Config {
	return &Config{
		Addr:         ":8080",
		DataDir:      ".",
		CompanyName:  "Pioneer Broadband",
		HistoryLimit: 50,
		Log:          Log{Level: "info", Encoding: "json"},
	}
}

// LoadConfig reads the YAML file at path over the defaults.
func LoadConfig(path string) (*Config, error) {
	config := Default()

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(file, config)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return config, nil
}

// Load resolves the configuration: the file named by DASHBOARD_CONFIG (required
// when set, optional otherwise), then environment overrides.
func Load() (*Config, error) {
	path := os.Getenv("DASHBOARD_CONFIG")
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	cfg, err := LoadConfig(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && !explicit:
		cfg = Default()
	default:
		return nil, err
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	c.Addr = utils.Env("ADDR", c.Addr)
	c.DataDir = utils.Env("DATA_DIR", c.DataDir)
	c.CatalogPath = utils.Env("CATALOG_PATH", c.CatalogPath)
	c.CompanyName = utils.Env("COMPANY_NAME", c.CompanyName)
	c.SnapshotCache = utils.EnvBool("SNAPSHOT_CACHE", c.SnapshotCache)
	c.HistoryLimit = utils.EnvInt("HISTORY_LIMIT", c.HistoryLimit)
	c.Log.Level = utils.Env("LOG_LEVEL", c.Log.Level)
	c.Log.Encoding = utils.Env("LOG_ENCODING", c.Log.Encoding)
}

// Validate checks the fields the server cannot start without.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.DataDir == "" {
		return errors.New("data_dir must not be empty")
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be positive, got %d", c.HistoryLimit)
	}
	return nil
}

// Catalog returns the sqlite catalog path, defaulting to a file inside the data dir.
func (c *Config) Catalog() string {
	if c.CatalogPath != "" {
		return c.CatalogPath
	}
	return filepath.Join(c.DataDir, "dashboard.db")
}
