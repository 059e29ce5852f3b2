package snapshots

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/preston-bernstein/prediction-service/internal/timeutil"
)

// ErrNoSnapshot is returned when no state snapshot exists.
var ErrNoSnapshot = errors.New("no snapshot available")

// FSStore loads snapshots from the filesystem.
type FSStore struct {
	basePath string
}

// NewFSStore constructs an FS-backed snapshot store rooted at basePath.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath}
}

// LoadState reads the snapshot for date (YYYY-MM-DD).
func (s *FSStore) LoadState(date string) (State, error) {
	if s == nil {
		return State{}, errors.New("snapshot store not configured")
	}
	if _, err := timeutil.ParseDate(date); err != nil {
		return State{}, fmt.Errorf("invalid snapshot date %q: %w", date, err)
	}
	f, err := os.Open(StateSnapshotPath(s.basePath, date))
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, fmt.Errorf("%w for %s", ErrNoSnapshot, date)
		}
		return State{}, err
	}
	defer f.Close()

	var state State
	if err := json.NewDecoder(f).Decode(&state); err != nil {
		return State{}, fmt.Errorf("decode snapshot %s: %w", date, err)
	}
	if state.Date == "" {
		state.Date = date
	}
	return state, nil
}

// Latest loads the newest snapshot on disk.
func (s *FSStore) Latest() (State, error) {
	if s == nil {
		return State{}, errors.New("snapshot store not configured")
	}
	dates, err := listDates(s.basePath)
	if err != nil {
		return State{}, err
	}
	for i := len(dates) - 1; i >= 0; i-- {
		if _, err := timeutil.ParseDate(dates[i]); err != nil {
			continue
		}
		return s.LoadState(dates[i])
	}
	return State{}, ErrNoSnapshot
}
