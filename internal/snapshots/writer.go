package snapshots

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/preston-bernstein/prediction-service/internal/timeutil"
)

// Writer persists state snapshots and the manifest, pruning by date.
// Writes are serialized so the manifest update is not lost between callers.
type Writer struct {
	mu            sync.Mutex
	basePath      string
	retentionDays int
	now           func() time.Time
}

// NewWriter constructs a writer rooted at basePath with a rolling window retention.
func NewWriter(basePath string, retentionDays int) *Writer {
	if retentionDays <= 0 {
		retentionDays = 7
	}
	return &Writer{
		basePath:      basePath,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

// BasePath exposes the writer root path (primarily for testing).
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// WriteStateSnapshot writes the state for date (YYYY-MM-DD), replacing any earlier
// snapshot of the same day, and prunes snapshots older than the retention window.
func (w *Writer) WriteStateSnapshot(date string, state State) error {
	if w == nil {
		return fmt.Errorf("snapshot writer not configured")
	}
	if _, err := timeutil.ParseDate(date); err != nil {
		return fmt.Errorf("invalid snapshot date %q: %w", date, err)
	}
	state.Date = date

	w.mu.Lock()
	defer w.mu.Unlock()

	target := StateSnapshotPath(w.basePath, date)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return w.updateManifest(date)
	}
	if err := writeAtomic(target, data); err != nil {
		return err
	}
	return w.updateManifest(date)
}

func (w *Writer) updateManifest(date string) error {
	m, _ := readManifest(ManifestPath(w.basePath), w.retentionDays)

	dates, err := listDates(w.basePath)
	if err != nil {
		return err
	}
	if !containsDate(dates, date) {
		dates = append(dates, date)
	}
	m.State.Dates = w.pruneOldSnapshots(dates)
	m.State.LastRefreshed = w.now().UTC()
	m.Retention.StateDays = w.retentionDays

	return writeManifest(w.basePath, m, w.now())
}

func containsDate(dates []string, date string) bool {
	for _, d := range dates {
		if d == date {
			return true
		}
	}
	return false
}

func listDates(basePath string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(basePath, stateDir))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	dates := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		dates = append(dates, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(dates)
	return dates, nil
}

func (w *Writer) pruneOldSnapshots(dates []string) []string {
	cutoff := timeutil.RetentionCutoff(w.now(), w.retentionDays)
	keep := make([]string, 0, len(dates))
	for _, d := range dates {
		parsed, err := timeutil.ParseDate(d)
		if err != nil {
			keep = append(keep, d)
			continue
		}
		if parsed.Before(cutoff) {
			_ = os.Remove(StateSnapshotPath(w.basePath, d))
			continue
		}
		keep = append(keep, d)
	}
	sort.Strings(keep)
	return keep
}
