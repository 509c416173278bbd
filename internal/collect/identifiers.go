// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// IDFileType describes the layout of an event identifiers file.
type IDFileType string

const (
	// IDsPlain holds one raw event identifier per line.
	IDsPlain IDFileType = "plain"

	// IDsEvents holds one event JSON object per line; the "uri" field is
	// used as the identifier.
	IDsEvents IDFileType = "events"
)

// ParseIDFileType maps a CLI value to an IDFileType. The empty string means
// events, matching the collector's own event output.
func ParseIDFileType(s string) (IDFileType, error) {
	switch s {
	case "", string(IDsEvents):
		return IDsEvents, nil
	case string(IDsPlain):
		return IDsPlain, nil
	default:
		return "", fmt.Errorf("unknown ids file type %q: use events or plain", s)
	}
}

// ReadEventIDs extracts event identifiers from path, in file order. A
// missing or empty file is an error; batch collection without identifiers is
// always a caller mistake.
func ReadEventIDs(path string, fileType IDFileType) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("event ids file is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading event ids file: %w", err)
	}

	var ids []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if fileType == IDsEvents {
			var event struct {
				URI string `json:"uri"`
			}
			if err := json.Unmarshal([]byte(line), &event); err != nil {
				return nil, fmt.Errorf("parsing event line %q: %w", line, err)
			}
			ids = append(ids, strings.TrimSpace(event.URI))
			continue
		}
		ids = append(ids, line)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("event ids file %s is empty", path)
	}
	return ids, nil
}
