package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points HOME and the working directory at temp dirs and clears the
// override variables.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvLogLevel, "")
	t.Chdir(t.TempDir())
	return home
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	wantLogDir, err := expandPath(defaultLogDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLogDir) returned error: %v", err)
	}
	if cfg.LogDir != wantLogDir {
		t.Fatalf("LogDir = %q, want %q", cfg.LogDir, wantLogDir)
	}
	if cfg.LogLevel != "info" || cfg.Timeout != 10*time.Second || cfg.RefreshInterval != 0 {
		t.Fatalf("cfg = %+v, want info level, 10s timeout, refresh disabled", cfg)
	}
	if cfg.DatasetPath != "" {
		t.Fatalf("DatasetPath = %q, want empty", cfg.DatasetPath)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := isolate(t)

	path := writeConfig(t, `
api_url = "  http://10.0.0.5:9999/api  "
log_dir = "  ~/.linewatch/logs  "
log_level = " DEBUG "
timeout_seconds = 3
refresh_seconds = 30
dataset_path = "~/equipment.json"
user_agent = " line3-wallboard/2.0 "
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://10.0.0.5:9999/api" {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, "http://10.0.0.5:9999/api")
	}
	if !strings.HasPrefix(cfg.LogDir, home) {
		t.Fatalf("LogDir = %q, want it under HOME %q", cfg.LogDir, home)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Timeout != 3*time.Second || cfg.RefreshInterval != 30*time.Second {
		t.Fatalf("Timeout = %v RefreshInterval = %v, want 3s and 30s", cfg.Timeout, cfg.RefreshInterval)
	}
	if cfg.DatasetPath != filepath.Join(home, "equipment.json") {
		t.Fatalf("DatasetPath = %q, want it under HOME", cfg.DatasetPath)
	}
	if cfg.LogPath() != filepath.Join(cfg.LogDir, "linewatch.log") {
		t.Fatalf("LogPath = %q, want %q", cfg.LogPath(), filepath.Join(cfg.LogDir, "linewatch.log"))
	}
	if cfg.UserAgent != "line3-wallboard/2.0" {
		t.Fatalf("UserAgent = %q, want line3-wallboard/2.0", cfg.UserAgent)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	isolate(t)

	path := writeConfig(t, `
api_url = "   "
log_dir = ""
log_level = ""
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	wantLogDir, err := expandPath(defaultLogDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLogDir) returned error: %v", err)
	}
	if cfg.LogDir != wantLogDir {
		t.Fatalf("LogDir = %q, want %q", cfg.LogDir, wantLogDir)
	}
	if cfg.LogLevel != defaultLogLevel {
		t.Fatalf("LogLevel = %q, want %q", cfg.LogLevel, defaultLogLevel)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	isolate(t)

	_, err := Load(writeConfig(t, `api_url = [`))
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_RejectsNegativeDurationsAndBadLevels(t *testing.T) {
	isolate(t)

	if _, err := Load(writeConfig(t, `refresh_seconds = -1`)); err == nil {
		t.Fatalf("Load with negative refresh returned nil error")
	}
	_, err := Load(writeConfig(t, `log_level = "loud"`))
	if err == nil || !strings.Contains(err.Error(), "invalid log_level") {
		t.Fatalf("Load error = %v, want invalid log_level", err)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	isolate(t)
	t.Setenv(EnvAPIURL, " http://env-host:7071/api ")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load(writeConfig(t, `
api_url = "http://file-host/api"
log_level = "debug"
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://env-host:7071/api" {
		t.Fatalf("APIURL = %q, want env value", cfg.APIURL)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestLoad_DotEnvFillsUnsetVariables(t *testing.T) {
	home := isolate(t)
	if err := os.Unsetenv(EnvAPIURL); err != nil {
		t.Fatalf("Unsetenv: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	dotenv := "LINEWATCH_API_URL=http://dotenv-host/api\nLINEWATCH_LOG_LEVEL=error\n"
	if err := os.WriteFile(filepath.Join(wd, ".env"), []byte(dotenv), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(filepath.Join(home, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://dotenv-host/api" {
		t.Fatalf("APIURL = %q, want value from .env", cfg.APIURL)
	}
	// LINEWATCH_LOG_LEVEL is set (to empty) by isolate, so .env must not override it.
	if cfg.LogLevel != defaultLogLevel {
		t.Fatalf("LogLevel = %q, want %q", cfg.LogLevel, defaultLogLevel)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestLogPath_DefaultsWhenLogDirEmpty(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var cfg Config
	got := cfg.LogPath()
	if !strings.HasPrefix(got, home) {
		t.Fatalf("LogPath = %q, want it under HOME %q", got, home)
	}
	if !strings.HasSuffix(got, filepath.FromSlash("/linewatch.log")) {
		t.Fatalf("LogPath = %q, want it to end with /linewatch.log", got)
	}
}
