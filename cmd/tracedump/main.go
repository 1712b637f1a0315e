// Command tracedump walks a directory of scheduler trace runs and prints
// or JSON-dumps their event summaries, grounded on the teacher's
// tools/replay_catalog CLI.
package main

import (
	"flag"
	"fmt"
	"os"

	"streamkit/internal/config"
	"streamkit/internal/logging"
	"streamkit/trace"
)

func main() {
	root := flag.String("dir", ".", "directory containing trace runs")
	jsonFlag := flag.Bool("json", false, "emit JSON instead of human-readable output")
	eventsFlag := flag.Bool("events", false, "also dump each run's decoded event log")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if logger, err := logging.New(cfg.Logging); err == nil {
		logging.ReplaceGlobals(logger)
		defer logger.Sync()
	}
	logging.L().Debug("tracedump starting", logging.String("dir", *root))

	entries, err := trace.List(*root)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *jsonFlag {
		payload, err := trace.MarshalEntries(entries)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(string(payload))
		return
	}

	for _, entry := range entries {
		fmt.Printf("%s (schema %d, %d events, %d frames)\n",
			entry.RunDir, entry.Header.SchemaVersion, entry.Header.EventCount, entry.Header.FrameCount)
		if !*eventsFlag {
			continue
		}
		events, err := trace.Open(entry.RunDir).Events()
		if err != nil {
			fmt.Fprintf(os.Stderr, "  events: %v\n", err)
			continue
		}
		for _, ev := range events {
			fmt.Printf("  tick=%d stage=%d order=%d %s\n", ev.Tick, ev.Stage, ev.ExecutionOrder, ev.Description)
		}
	}
}
