package trace

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"streamkit/vtime"
)

// Reader loads a trace directory previously written by Writer.Flush back
// into memory, for offline replay of a virtual scheduler run without
// re-running the originating test (SPEC_FULL.md §4.7's C9 addition).
type Reader struct {
	dir string
}

// Open returns a Reader bound to runDir (the directory passed as
// filepath.Join(w.dir, w.name) when writing).
func Open(runDir string) *Reader {
	return &Reader{dir: runDir}
}

// Header reads the run's header.json manifest.
func (r *Reader) Header() (Header, error) {
	return ReadHeader(filepath.Join(r.dir, "header.json"))
}

// Events decodes the snappy-compressed event log back into
// []vtime.ScheduledTaskEvent, in the order they were appended.
func (r *Reader) Events() ([]vtime.ScheduledTaskEvent, error) {
	f, err := os.Open(filepath.Join(r.dir, "events.snappy"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sr := snappy.NewReader(f)
	dec := json.NewDecoder(bufio.NewReader(sr))

	var events []vtime.ScheduledTaskEvent
	for {
		var ev vtime.ScheduledTaskEvent
		if err := dec.Decode(&ev); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

// Frames decodes the zstd-compressed frame log back into []FrameSnapshot.
func (r *Reader) Frames() ([]FrameSnapshot, error) {
	f, err := os.Open(filepath.Join(r.dir, "frames.zst"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	dec := json.NewDecoder(zr)
	var frames []FrameSnapshot
	for {
		var fr FrameSnapshot
		if err := dec.Decode(&fr); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		frames = append(frames, fr)
	}
	return frames, nil
}
