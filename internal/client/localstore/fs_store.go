package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const fileExt = ".json"

// FSStore keeps each record in <dir>/prediction_<gameId>.json.
type FSStore struct {
	dir string
}

// NewFSStore creates dir if needed.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FSStore{dir: dir}, nil
}

func (s *FSStore) path(gameID string) string {
	return filepath.Join(s.dir, Key(gameID)+fileExt)
}

func (s *FSStore) Get(ctx context.Context, gameID string) (Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, false, err
	}
	if err := validateGameID(gameID); err != nil {
		return Record{}, false, err
	}
	raw, err := os.ReadFile(s.path(gameID))
	if errors.Is(err, os.ErrNotExist) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	var r Record
	if err := json.Unmarshal(raw, &r); err != nil {
		return Record{}, false, fmt.Errorf("decode %s: %w", Key(gameID), err)
	}
	return r, true, nil
}

// Put writes r atomically, replacing any record for the same game.
func (s *FSStore) Put(ctx context.Context, r Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateGameID(r.GameID); err != nil {
		return err
	}
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	target := s.path(r.GameID)
	tmp, err := os.CreateTemp(s.dir, Key(r.GameID)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), target)
}

// List returns every record ordered by game id. Unreadable files are skipped.
func (s *FSStore) List(ctx context.Context) ([]Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, KeyPrefix) || !strings.HasSuffix(name, fileExt) {
			continue
		}
		gameID := strings.TrimSuffix(strings.TrimPrefix(name, KeyPrefix), fileExt)
		r, ok, err := s.Get(ctx, gameID)
		if err != nil || !ok {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			continue
		}
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].GameID < records[j].GameID })
	return records, nil
}

func (s *FSStore) Delete(ctx context.Context, gameID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateGameID(gameID); err != nil {
		return err
	}
	if err := os.Remove(s.path(gameID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
