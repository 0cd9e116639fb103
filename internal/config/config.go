package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
)

// Config captures the settings the dashboard needs.
type Config struct {
	APIURL          string
	LogDir          string
	LogLevel        string
	Timeout         time.Duration
	RefreshInterval time.Duration // zero disables periodic refresh
	DatasetPath     string        // empty uses the built-in fixture
	UserAgent       string        // empty keeps the client default
}

const (
	defaultConfigPath = "~/.config/linewatch/config.toml"
	defaultLogDir     = "~/.local/share/linewatch/logs"
	defaultAPIURL     = "http://localhost:7071/api"
	defaultLogLevel   = "info"
	defaultTimeout    = 10 * time.Second

	logFileName = "linewatch.log"

	EnvAPIURL   = "LINEWATCH_API_URL"
	EnvLogLevel = "LINEWATCH_LOG_LEVEL"
)

// dotenvPath is resolved against the working directory.
var dotenvPath = ".env"

// Load locates and parses the linewatch config, falling back to defaults when
// missing. Values from a .env file and the environment override the file.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIURL:   defaultAPIURL,
		LogDir:   mustExpand(defaultLogDir),
		LogLevel: defaultLogLevel,
		Timeout:  defaultTimeout,
	}

	if err := loadFile(resolved, &cfg); err != nil {
		return Config{}, err
	}
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)

	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, fmt.Errorf("invalid log_level %q: %w", cfg.LogLevel, err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL         string `toml:"api_url"`
		LogDir         string `toml:"log_dir"`
		LogLevel       string `toml:"log_level"`
		TimeoutSeconds int    `toml:"timeout_seconds"`
		RefreshSeconds int    `toml:"refresh_seconds"`
		DatasetPath    string `toml:"dataset_path"`
		UserAgent      string `toml:"user_agent"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.LogDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if raw.TimeoutSeconds < 0 || raw.RefreshSeconds < 0 {
		return fmt.Errorf("parse config: timeout_seconds and refresh_seconds must not be negative")
	}
	if raw.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(raw.TimeoutSeconds) * time.Second
	}
	cfg.RefreshInterval = time.Duration(raw.RefreshSeconds) * time.Second
	if v := strings.TrimSpace(raw.DatasetPath); v != "" {
		cfg.DatasetPath = mustExpand(v)
	}
	cfg.UserAgent = strings.TrimSpace(raw.UserAgent)
	return nil
}

// loadDotEnv populates the environment from .env without overriding variables
// that are already set.
func loadDotEnv() error {
	if err := godotenv.Load(dotenvPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", dotenvPath, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
}

// LogPath returns the path of the dashboard log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/" + logFileName)
	}
	return filepath.Join(c.LogDir, logFileName)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
