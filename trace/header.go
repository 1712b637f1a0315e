// Package trace persists a virtual scheduler run's executed-task log to
// disk for offline replay, adapted from the teacher's internal/replay
// package (snappy-compressed event stream, zstd-compressed frame stream, a
// JSON header/manifest, a buffering Writer, and a Cleaner), repointed
// from game-tick/world-frame payloads to vtime.ScheduledTaskEvent and
// marble-assertion snapshots.
package trace

import (
	"encoding/json"
	"os"
	"time"
)

// schemaVersion is bumped whenever Header or the on-disk event encoding
// changes shape.
const schemaVersion = 1

// Header is the small JSON manifest written alongside a trace's compressed
// event/frame logs.
type Header struct {
	SchemaVersion int       `json:"schema_version"`
	CreatedAt     time.Time `json:"created_at"`
	RunName       string    `json:"run_name"`
	EventCount    int       `json:"event_count"`
	FrameCount    int       `json:"frame_count"`
}

// WriteHeader writes h as JSON to path.
func WriteHeader(path string, h Header) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(h)
}

// ReadHeader reads a Header previously written by WriteHeader.
func ReadHeader(path string) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()
	err = json.NewDecoder(f).Decode(&h)
	return h, err
}
