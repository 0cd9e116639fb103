// Package prefs handles linewatch user preferences persistence.
// Preferences are stored in ~/.config/linewatch/prefs.toml.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/linewatch/internal/equipment"
)

// Prefs holds user preferences for linewatch.
type Prefs struct {
	Theme   string            `toml:"theme"`
	View    string            `toml:"view,omitempty"` // "equipment", "overview" or "logs"
	Filters equipment.Filters `toml:"filters"`
}

const (
	defaultPrefsPath = "~/.config/linewatch/prefs.toml"
	defaultTheme     = "Nightfox"
)

// Views a dashboard may be restored to.
var knownViews = []string{"equipment", "overview", "logs"}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from path (the default path when empty). A missing,
// unreadable or malformed file yields defaults; the error is always nil so the
// dashboard starts regardless.
func Load(path string) (Prefs, error) {
	defaults := Prefs{Theme: defaultTheme}

	resolved, err := resolvePath(path)
	if err != nil {
		return defaults, nil
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return defaults, nil
	}

	var p Prefs
	if err := toml.Unmarshal(data, &p); err != nil {
		return defaults, nil
	}
	return normalize(p), nil
}

// Save writes preferences to path, creating directories as needed. The file is
// replaced atomically so a crash never leaves half-written prefs behind.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(normalize(p))
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("create temp prefs: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), resolved); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

// normalize fills defaults and drops values the dashboard cannot use.
func normalize(p Prefs) Prefs {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	p.View = strings.ToLower(strings.TrimSpace(p.View))
	if !slices.Contains(knownViews, p.View) {
		p.View = ""
	}
	p.Filters = sanitizeFilters(p.Filters)
	return p
}

// sanitizeFilters trims values and drops a status outside the known domain.
func sanitizeFilters(f equipment.Filters) equipment.Filters {
	f.Status = strings.TrimSpace(f.Status)
	if f.Status != "" && !equipment.Status(f.Status).Valid() {
		f.Status = ""
	}
	f.EquipmentType = strings.TrimSpace(f.EquipmentType)
	f.Location = strings.TrimSpace(f.Location)
	f.Limit = 0
	return f
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
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
