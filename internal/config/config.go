package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

const appDir = "eventflow"

type Config struct {
	DBPath       string   `json:"db_path" env:"EVENTFLOW_DB_PATH"`
	WebEnabled   bool     `json:"web_enabled" env:"EVENTFLOW_WEB_ENABLED"`
	WebPort      int      `json:"web_port" env:"EVENTFLOW_WEB_PORT"`
	LogPath      string   `json:"log_path" env:"EVENTFLOW_LOG_PATH"`
	LogLevel     string   `json:"log_level" env:"EVENTFLOW_LOG_LEVEL"`
	ExportDir    string   `json:"export_dir" env:"EVENTFLOW_EXPORT_DIR"`
	ExportFormat string   `json:"export_format" env:"EVENTFLOW_EXPORT_FORMAT"`
	CORSOrigins  []string `json:"cors_origins,omitempty" env:"EVENTFLOW_CORS_ORIGINS" envSeparator:","`
}

func Default() Config {
	return Config{
		WebPort:      8080,
		LogLevel:     "info",
		ExportFormat: "json",
	}
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appDir, "config.json"), nil
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return Config{}, err
	}

	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return config, nil
}

// ApplyEnv loads envFile into the process environment when it exists and then
// lets EVENTFLOW_* variables override cfg. Unset variables leave cfg alone.
func ApplyEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load env file: %w", err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
