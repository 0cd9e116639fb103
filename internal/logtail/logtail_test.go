package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRead(t *testing.T) {
	// Create a temporary log file
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	// Write 10 lines of content
	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFileReturnsNothing(t *testing.T) {
	lines, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if lines != nil {
		t.Fatalf("Read() = %v, want nil", lines)
	}
}

func TestParseLine(t *testing.T) {
	line := `{"level":"warn","op":"get all","error":"fetch equipment status: timeout","time":"2026-03-04T10:11:12Z","attempt":1,"message":"remote equipment api failed, using local data"}`

	entry := ParseLine(line)
	if entry.Level != "warn" {
		t.Fatalf("Level = %q, want warn", entry.Level)
	}
	if entry.Message != "remote equipment api failed, using local data" {
		t.Fatalf("Message = %q", entry.Message)
	}
	if entry.Error != "fetch equipment status: timeout" {
		t.Fatalf("Error = %q", entry.Error)
	}
	if !entry.Time.Equal(time.Date(2026, 3, 4, 10, 11, 12, 0, time.UTC)) {
		t.Fatalf("Time = %v", entry.Time)
	}
	want := []Field{{Key: "attempt", Value: "1"}, {Key: "op", Value: "get all"}}
	if !reflect.DeepEqual(entry.Fields, want) {
		t.Fatalf("Fields = %#v, want %#v", entry.Fields, want)
	}
	if entry.Raw != line {
		t.Fatalf("Raw should keep the original line")
	}
}

func TestParseLine_PlainText(t *testing.T) {
	tests := []string{"plain message", "{not json", ""}
	for _, input := range tests {
		entry := ParseLine(input)
		if entry.Level != "" || entry.Fields != nil {
			t.Fatalf("ParseLine(%q) = %+v, want plain entry", input, entry)
		}
		if entry.Message != strings.TrimSpace(input) {
			t.Fatalf("ParseLine(%q).Message = %q", input, entry.Message)
		}
	}
}

func TestParseLines(t *testing.T) {
	entries := ParseLines([]string{`{"level":"info","message":"a"}`, "b"})
	if len(entries) != 2 || entries[0].Message != "a" || entries[1].Message != "b" {
		t.Fatalf("ParseLines = %#v", entries)
	}
}
