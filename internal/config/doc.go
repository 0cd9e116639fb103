// Package config handles loading the linewatch configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/linewatch/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//  5. Load ./.env into the environment without overriding variables already set
//  6. LINEWATCH_API_URL and LINEWATCH_LOG_LEVEL override the file
//
// # Default Values
//
//   - Config file: ~/.config/linewatch/config.toml
//   - API root: http://localhost:7071/api
//   - Log directory: ~/.local/share/linewatch/logs
//   - Dashboard log: <log_dir>/linewatch.log
//   - Log level: info
//   - Request timeout: 10 seconds
//   - Periodic refresh: disabled
//
// # TOML Format
//
//	api_url = "http://localhost:7071/api"
//	log_dir = "~/.local/share/linewatch/logs"
//	log_level = "info"
//	timeout_seconds = 10
//	refresh_seconds = 0
//	dataset_path = "~/equipment.json"
//
// All fields are optional. Tilde expansion is performed for log_dir and
// dataset_path. An empty dataset_path uses the built-in fixture.
//
// # Error Handling
//
// Load returns errors for path expansion failures, unreadable files, TOML
// parse errors, negative durations, malformed .env files and unknown log
// levels. A missing config file or .env is not an error.
package config
