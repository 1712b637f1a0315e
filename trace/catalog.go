package trace

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CatalogEntry captures a trace header alongside the directory it lives in,
// grounded on the teacher's tools/replay_catalog.Entry shape.
type CatalogEntry struct {
	HeaderPath string `json:"header_path"`
	RunDir     string `json:"run_dir"`
	Header     Header `json:"header"`
}

// List walks root looking for header.json files written by Writer.Flush,
// returning parsed entries sorted by run name then path.
func List(root string) ([]CatalogEntry, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("root directory must be provided")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root must be a directory")
	}

	var entries []CatalogEntry
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || d.Name() != "header.json" {
			return nil
		}
		h, err := ReadHeader(path)
		if err != nil {
			return err
		}
		entries = append(entries, CatalogEntry{
			HeaderPath: path,
			RunDir:     filepath.Dir(path),
			Header:     h,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Header.RunName == entries[j].Header.RunName {
			return entries[i].RunDir < entries[j].RunDir
		}
		return entries[i].Header.RunName < entries[j].Header.RunName
	})
	return entries, nil
}

// MarshalEntries produces a stable, indented JSON representation for CLI
// output.
func MarshalEntries(entries []CatalogEntry) ([]byte, error) {
	return json.MarshalIndent(entries, "", "  ")
}
