package trace_test

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"streamkit/trace"
	"streamkit/vtime"
)

func fixedClock(t time.Time) trace.Clock {
	return func() time.Time { return t }
}

func TestWriterFlushThenReaderRoundTrips(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	w := trace.NewWriter(dir, "run-1", fixedClock(at))

	events := []vtime.ScheduledTaskEvent{
		{Tick: 0, Stage: vtime.StageTimer, Description: "first", ID: 1, ExecutionOrder: 0},
		{Tick: 2, Stage: vtime.StageEmit, Description: "second", ID: 2, ExecutionOrder: 1},
	}
	for _, ev := range events {
		if err := w.Append(ev); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	w.AppendFrame("snapshot", json.RawMessage(`{"n":1}`))

	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	r := trace.Open(filepath.Join(dir, "run-1"))
	header, err := r.Header()
	if err != nil {
		t.Fatalf("Header: %v", err)
	}
	if header.RunName != "run-1" || header.EventCount != 2 || header.FrameCount != 1 {
		t.Fatalf("unexpected header: %+v", header)
	}
	if !header.CreatedAt.Equal(at) {
		t.Fatalf("expected CreatedAt %v, got %v", at, header.CreatedAt)
	}

	gotEvents, err := r.Events()
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(gotEvents) != 2 || gotEvents[0].Description != "first" || gotEvents[1].Description != "second" {
		t.Fatalf("unexpected events: %+v", gotEvents)
	}

	gotFrames, err := r.Frames()
	if err != nil {
		t.Fatalf("Frames: %v", err)
	}
	if len(gotFrames) != 1 || gotFrames[0].Note != "snapshot" {
		t.Fatalf("unexpected frames: %+v", gotFrames)
	}
}

func TestCleanerRemovesRunsOlderThanRetention(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	oldWriter := trace.NewWriter(dir, "old-run", fixedClock(now.Add(-48*time.Hour)))
	if err := oldWriter.Flush(); err != nil {
		t.Fatalf("Flush old: %v", err)
	}
	freshWriter := trace.NewWriter(dir, "fresh-run", fixedClock(now.Add(-time.Hour)))
	if err := freshWriter.Flush(); err != nil {
		t.Fatalf("Flush fresh: %v", err)
	}

	cleaner := trace.NewCleaner(dir, 24*time.Hour, fixedClock(now))
	removed, err := cleaner.Clean()
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if len(removed) != 1 || removed[0] != "old-run" {
		t.Fatalf("expected only old-run removed, got %v", removed)
	}

	entries, err := trace.List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Header.RunName != "fresh-run" {
		t.Fatalf("expected only fresh-run to remain, got %+v", entries)
	}
}

func TestListSortsByRunName(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	for _, name := range []string{"zebra", "alpha", "mango"} {
		w := trace.NewWriter(dir, name, fixedClock(now))
		if err := w.Flush(); err != nil {
			t.Fatalf("Flush %s: %v", name, err)
		}
	}

	entries, err := trace.List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []string{"alpha", "mango", "zebra"}
	for i, w := range want {
		if entries[i].Header.RunName != w {
			t.Fatalf("expected sorted order %v, got %+v", want, entries)
		}
	}
}

func TestMarshalEntriesProducesValidJSON(t *testing.T) {
	dir := t.TempDir()
	w := trace.NewWriter(dir, "run-a", fixedClock(time.Now()))
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	entries, err := trace.List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	payload, err := trace.MarshalEntries(entries)
	if err != nil {
		t.Fatalf("MarshalEntries: %v", err)
	}
	var decoded []trace.CatalogEntry
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Header.RunName != "run-a" {
		t.Fatalf("unexpected decoded entries: %+v", decoded)
	}
}
