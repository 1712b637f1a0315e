package trace

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"streamkit/internal/logging"
	"streamkit/vtime"
)

// Clock is the injected wall-time capability every Writer takes, mirroring
// the teacher's replay.NewWriter/NewRecorder pattern (SPEC_FULL.md §3's
// Clock capability note) rather than reading time.Now directly.
type Clock func() time.Time

// FrameSnapshot is an optional, coarser-grained checkpoint a caller can
// append alongside the per-event log — e.g. a marble-assertion summary —
// compressed with zstd rather than snappy since frames are larger and
// written far less often.
type FrameSnapshot struct {
	At   time.Time       `json:"at"`
	Note string          `json:"note"`
	Data json.RawMessage `json:"data"`
}

// Writer buffers ScheduledTaskEvents in memory and flushes
// them to a snappy-compressed event log, plus an optional zstd-compressed
// frame log, under one directory alongside a Header manifest.
type Writer struct {
	mu    sync.Mutex
	clock Clock
	dir   string
	name  string

	events []vtime.ScheduledTaskEvent
	frames []FrameSnapshot
}

// NewWriter constructs a Writer that will persist under dir/name when
// Flush is called. clock defaults to time.Now if nil.
func NewWriter(dir, name string, clock Clock) *Writer {
	if clock == nil {
		clock = time.Now
	}
	return &Writer{dir: dir, name: name, clock: clock}
}

// Append buffers ev for the next Flush. It satisfies vtime.Tracer, so a
// Writer can be attached with (*vtime.Scheduler).WithTracer or passed to
// vtime.WithTracer(t, writer, testFn).
func (w *Writer) Append(ev vtime.ScheduledTaskEvent) error {
	w.mu.Lock()
	w.events = append(w.events, ev)
	w.mu.Unlock()
	return nil
}

// AppendFrame buffers a coarser-grained snapshot for the next Flush.
func (w *Writer) AppendFrame(note string, data json.RawMessage) {
	w.mu.Lock()
	w.frames = append(w.frames, FrameSnapshot{At: w.clock(), Note: note, Data: data})
	w.mu.Unlock()
}

// Flush writes the buffered events and frames to disk under w.dir/w.name,
// along with a Header manifest, and clears the buffers.
func (w *Writer) Flush() error {
	w.mu.Lock()
	events := w.events
	frames := w.frames
	w.events = nil
	w.frames = nil
	w.mu.Unlock()

	runDir := filepath.Join(w.dir, w.name)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return err
	}

	if err := writeEventsSnappy(filepath.Join(runDir, "events.snappy"), events); err != nil {
		return err
	}
	if err := writeFramesZstd(filepath.Join(runDir, "frames.zst"), frames); err != nil {
		return err
	}

	if err := WriteHeader(filepath.Join(runDir, "header.json"), Header{
		SchemaVersion: schemaVersion,
		CreatedAt:     w.clock(),
		RunName:       w.name,
		EventCount:    len(events),
		FrameCount:    len(frames),
	}); err != nil {
		return err
	}

	logging.L().Debug("trace flushed",
		logging.String("run", w.name),
		logging.Int("events", len(events)),
		logging.Int("frames", len(frames)))
	return nil
}

func writeEventsSnappy(path string, events []vtime.ScheduledTaskEvent) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sw := snappy.NewBufferedWriter(f)
	defer sw.Close()

	bw := bufio.NewWriter(sw)
	enc := json.NewEncoder(bw)
	for _, ev := range events {
		if err := enc.Encode(ev); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeFramesZstd(path string, frames []FrameSnapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	defer zw.Close()

	enc := json.NewEncoder(zw)
	for _, fr := range frames {
		if err := enc.Encode(fr); err != nil {
			return err
		}
	}
	return nil
}
