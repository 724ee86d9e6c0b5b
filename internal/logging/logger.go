// Package logging provides leveled logging and an event journal for wheelsim.
// It offers two outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - An EventLog appending JSONL records of finished runs and quiz answers
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LevelTrace is a custom slog level below Debug for per-frame logging.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// EventLog writes structured events to a JSONL file.
// It is safe for concurrent use. A nil EventLog is safe to use;
// all methods are no-ops on nil receiver.
type EventLog struct {
	mu   sync.Mutex
	file *os.File
}

// OpenEventLog opens path for append, creating parent directories.
// An empty path returns nil, nil.
func OpenEventLog(path string) (*EventLog, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &EventLog{file: f}, nil
}

// Log writes one event as a single JSONL line with kind and a "time" field
// added. The caller's map is not mutated.
func (el *EventLog) Log(kind string, fields map[string]any) {
	if el == nil || el.file == nil {
		return
	}

	entry := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		entry[k] = v
	}
	entry["event"] = kind
	entry["time"] = time.Now().UTC().Format(time.RFC3339Nano)

	el.mu.Lock()
	defer el.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = el.file.Write(data)
}

// Close closes the underlying file. Safe to call on nil receiver.
func (el *EventLog) Close() {
	if el == nil || el.file == nil {
		return
	}

	el.mu.Lock()
	defer el.mu.Unlock()

	el.file.Close()
	el.file = nil
}
