// Package logtail reads the tail of the dashboard log file and decodes its
// zerolog JSON lines for display.
//
// # Reading Log Files
//
// Read extracts the last maxLines lines with a ring buffer, so memory stays at
// O(maxLines) regardless of file size:
//
//	lines, err := logtail.Read(cfg.LogPath(), 400)
//	if err != nil {
//		log.Printf("failed to read log: %v", err)
//	}
//
// A missing file returns nil, nil. Other I/O errors are returned wrapped.
//
// # Parsing
//
// ParseLine understands the zerolog field names (level, time, message, error) and
// collects every other key into Fields, sorted by name so rendering is stable.
// Lines that are not JSON objects come back as plain entries carrying only the
// trimmed text, so a hand-edited or truncated file still renders.
package logtail
