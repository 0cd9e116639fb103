package prefs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/linewatch/internal/equipment"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if !p.Filters.IsZero() {
		t.Fatalf("Filters = %+v, want none", p.Filters)
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "linewatch")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	body := "theme = \"Slate\"\n\n[filters]\nstatus = \"Maintenance\"\nequipment_type = \" Press \"\nlocation = \"第2工場\"\n"
	if err := os.WriteFile(filepath.Join(prefsDir, "prefs.toml"), []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Slate" {
		t.Fatalf("Theme = %q, want %q", p.Theme, "Slate")
	}
	want := equipment.Filters{Status: "Maintenance", EquipmentType: "Press", Location: "第2工場"}
	if p.Filters != want {
		t.Fatalf("Filters = %+v, want %+v", p.Filters, want)
	}
}

func TestSave_RoundTripsThemeAndFilters(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "subdir", "prefs.toml")

	p := Prefs{
		Theme:   "Kanagawa",
		Filters: equipment.Filters{Status: "Active", Location: "第1工場", Limit: 5},
	}
	if err := Save(prefsFile, p); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	raw, err := os.ReadFile(prefsFile)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if strings.Contains(string(raw), "limit") {
		t.Fatalf("prefs file should not persist limit:\n%s", raw)
	}

	loaded, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Theme != "Kanagawa" {
		t.Fatalf("Theme = %q, want %q", loaded.Theme, "Kanagawa")
	}
	want := equipment.Filters{Status: "Active", Location: "第1工場"}
	if loaded.Filters != want {
		t.Fatalf("Filters = %+v, want %+v", loaded.Filters, want)
	}
}

func TestLoad_UnknownStatusIsDropped(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
	body := "[filters]\nstatus = \"Broken\"\nlocation = \"A\"\n"
	if err := os.WriteFile(prefsFile, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Filters.Status != "" || p.Filters.Location != "A" {
		t.Fatalf("Filters = %+v, want status dropped and location kept", p.Filters)
	}
}

func TestLoad_EmptyThemeFallsBackToDefault(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("theme = \"\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
}

func TestLoad_InvalidTOMLFallsBackToDefault(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
}

func TestSave_PersistsViewAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	prefsFile := filepath.Join(dir, "prefs.toml")

	if err := Save(prefsFile, Prefs{Theme: "Slate", View: " Overview "}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	// overwrite to exercise the replace path
	if err := Save(prefsFile, Prefs{Theme: "Slate", View: "logs"}); err != nil {
		t.Fatalf("second Save returned error: %v", err)
	}

	loaded, _ := Load(prefsFile)
	if loaded.View != "logs" {
		t.Fatalf("View = %q, want logs", loaded.View)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "prefs.toml" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("dir entries = %v, want only prefs.toml", names)
	}
}

func TestLoad_UnknownViewIsDropped(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("view = \"queue\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	p, _ := Load(prefsFile)
	if p.View != "" {
		t.Fatalf("View = %q, want empty", p.View)
	}
}
