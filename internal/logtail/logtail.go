package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one decoded log line.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Error   string
	Fields  []Field // remaining keys, sorted by name
	Raw     string
}

// Field is a key/value pair attached to an entry.
type Field struct {
	Key   string
	Value string
}

// ParseLine decodes a zerolog JSON line. Lines that are not JSON objects are
// returned as plain entries with only Message and Raw set.
func ParseLine(line string) Entry {
	entry := Entry{Raw: line}
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		entry.Message = trimmed
		return entry
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		entry.Message = trimmed
		return entry
	}

	entry.Level = stringField(raw, zerolog.LevelFieldName)
	entry.Message = stringField(raw, zerolog.MessageFieldName)
	entry.Error = stringField(raw, zerolog.ErrorFieldName)
	if ts := stringField(raw, zerolog.TimestampFieldName); ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			entry.Time = t
		}
	}

	for key, value := range raw {
		switch key {
		case zerolog.LevelFieldName, zerolog.MessageFieldName, zerolog.ErrorFieldName, zerolog.TimestampFieldName:
			continue
		}
		entry.Fields = append(entry.Fields, Field{Key: key, Value: displayValue(value)})
	}
	sort.Slice(entry.Fields, func(i, j int) bool { return entry.Fields[i].Key < entry.Fields[j].Key })
	return entry
}

// ParseLines decodes every line.
func ParseLines(lines []string) []Entry {
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, ParseLine(line))
	}
	return entries
}

func stringField(raw map[string]json.RawMessage, key string) string {
	value, ok := raw[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return displayValue(value)
	}
	return s
}

func displayValue(value json.RawMessage) string {
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return s
	}
	return string(value)
}
