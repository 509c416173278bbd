// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sink persists opaque JSON records to append-only files and derives
// resume points from previously written output.
package sink

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format selects the on-disk serialization.
type Format string

const (
	// FormatLine writes one JSON object per line. Append-safe across runs:
	// each line parses independently, so the last line is always a valid
	// resume point.
	FormatLine Format = "line"

	// FormatArray appends the whole result set as one JSON array literal.
	// Appending a second array to the same file produces concatenated
	// arrays, which is no longer valid JSON overall; array output must not
	// be combined with repeated runs against the same file.
	FormatArray Format = "array"
)

// ParseFormat maps a CLI format string to a Format. The empty string means
// line-delimited output.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", string(FormatLine):
		return FormatLine, nil
	case string(FormatArray):
		return FormatArray, nil
	default:
		return "", fmt.Errorf("unknown save format %q: use line or array", s)
	}
}

// Source is the record iterator Append consumes. *registry.Iter satisfies it.
type Source interface {
	Next() bool
	Record() json.RawMessage
	Err() error
}

// ResumePoint reads the final line of a line-delimited output file and
// returns the value of its dateField, for use as the next query's start
// date. A missing or empty file yields ("", nil). A final line that is not a
// JSON object or lacks dateField is an error; that happens when the file was
// written in array format, which does not support resuming.
func ResumePoint(path, dateField string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading output file %s: %w", path, err)
	}

	trimmed := strings.TrimRight(string(data), "\r\n")
	if trimmed == "" {
		return "", nil
	}
	last := trimmed
	if i := strings.LastIndexByte(trimmed, '\n'); i >= 0 {
		last = trimmed[i+1:]
	}

	var record map[string]json.RawMessage
	if err := json.Unmarshal([]byte(last), &record); err != nil {
		return "", fmt.Errorf("parsing last record of %s: %w", path, err)
	}

	raw, ok := record[dateField]
	if !ok {
		return "", fmt.Errorf("last record of %s has no %q field", path, dateField)
	}
	var date string
	if err := json.Unmarshal(raw, &date); err != nil {
		return "", fmt.Errorf("%q field of last record of %s is not a string: %w", dateField, path, err)
	}
	return date, nil
}

// Append drains src into the file at path, creating intermediate directories
// and opening in append mode only. It returns the number of records written.
//
// In line format each record is written as one compact JSON line; a record
// that is not valid JSON is skipped without surfacing an error and without a
// partial line, and iteration continues. In array format the full drained
// set is marshaled as a single array, so one bad record fails the whole
// write.
func Append(path string, format Format, src Source) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("opening output file %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case FormatArray:
		return appendArray(f, src)
	default:
		return appendLines(f, src)
	}
}

func appendLines(f *os.File, src Source) (int, error) {
	w := bufio.NewWriter(f)
	written := 0
	var compacted bytes.Buffer
	for src.Next() {
		compacted.Reset()
		if err := json.Compact(&compacted, src.Record()); err != nil {
			// Best effort: one bad record must not abort the result set.
			continue
		}
		if _, err := w.Write(compacted.Bytes()); err != nil {
			return written, fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return written, fmt.Errorf("writing record: %w", err)
		}
		written++
	}
	// Flush what was collected even when iteration failed part-way; every
	// written line is still a complete record.
	if err := w.Flush(); err != nil {
		return written, fmt.Errorf("flushing output: %w", err)
	}
	return written, src.Err()
}

func appendArray(f *os.File, src Source) (int, error) {
	records := make([]json.RawMessage, 0)
	for src.Next() {
		records = append(records, src.Record())
	}
	if err := src.Err(); err != nil {
		return 0, err
	}

	data, err := json.Marshal(records)
	if err != nil {
		return 0, fmt.Errorf("marshaling record array: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		return 0, fmt.Errorf("writing record array: %w", err)
	}
	return len(records), nil
}
