package server

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds the API server settings. Values come from LINEWATCH_* environment
// variables.
type Config struct {
	Addr        string // LINEWATCH_API_ADDR
	DatasetPath string // LINEWATCH_DATASET; empty serves the built-in fixture
	LogLevel    string // LINEWATCH_LOG_LEVEL
	CORSOrigins string // LINEWATCH_CORS_ORIGINS, comma separated
}

const (
	DefaultAddr = ":7071"
	envPrefix   = "LINEWATCH"
)

// LoadConfig reads the server configuration from the environment.
func LoadConfig() Config {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetDefault("API_ADDR", DefaultAddr)
	v.SetDefault("DATASET", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "*")
	v.AutomaticEnv()

	cfg := Config{
		Addr:        strings.TrimSpace(v.GetString("API_ADDR")),
		DatasetPath: strings.TrimSpace(v.GetString("DATASET")),
		LogLevel:    strings.TrimSpace(v.GetString("LOG_LEVEL")),
		CORSOrigins: strings.TrimSpace(v.GetString("CORS_ORIGINS")),
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.CORSOrigins == "" {
		cfg.CORSOrigins = "*"
	}
	return cfg
}
