package trace

import (
	"os"
	"path/filepath"
	"time"

	"streamkit/internal/logging"
)

// Cleaner prunes trace run directories under root older than retention,
// judged by each run's header.json CreatedAt — adapted from the teacher's
// replay.Cleaner, which pruned game-replay directories the same way.
type Cleaner struct {
	root      string
	retention time.Duration
	clock     Clock
}

// NewCleaner constructs a Cleaner rooted at root. clock defaults to
// time.Now if nil.
func NewCleaner(root string, retention time.Duration, clock Clock) *Cleaner {
	if clock == nil {
		clock = time.Now
	}
	return &Cleaner{root: root, retention: retention, clock: clock}
}

// Clean removes every run directory under root whose header predates the
// retention window, returning the names removed.
func (c *Cleaner) Clean() ([]string, error) {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	cutoff := c.clock().Add(-c.retention)
	var removed []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		runDir := filepath.Join(c.root, entry.Name())
		h, err := ReadHeader(filepath.Join(runDir, "header.json"))
		if err != nil {
			continue
		}
		if h.CreatedAt.Before(cutoff) {
			if err := os.RemoveAll(runDir); err != nil {
				return removed, err
			}
			removed = append(removed, entry.Name())
		}
	}
	if len(removed) > 0 {
		logging.L().Debug("trace cleaner removed expired runs", logging.Strings("runs", removed))
	}
	return removed, nil
}
