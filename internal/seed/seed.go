// Package seed provides the initial games and user the service boots with.
package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	domaingames "github.com/preston-bernstein/prediction-service/internal/domain/games"
	"github.com/preston-bernstein/prediction-service/internal/domain/users"
)

// ErrUnsupportedFormat is returned for seed files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported seed format")

// Data is the boot state of the service.
type Data struct {
	Games []domaingames.Game `json:"games"`
	User  users.User         `json:"user"`
}

// Validate checks the seed can back a running service.
func (d Data) Validate() error {
	if d.User.ID == "" {
		return errors.New("seed user id is required")
	}
	if d.User.Balance.IsNegative() {
		return errors.New("seed user balance must not be negative")
	}
	seen := make(map[string]struct{}, len(d.Games))
	for _, g := range d.Games {
		if g.ID == "" {
			return errors.New("seed game id is required")
		}
		if _, dup := seen[g.ID]; dup {
			return fmt.Errorf("duplicate seed game id %q", g.ID)
		}
		seen[g.ID] = struct{}{}
	}
	return nil
}

// Load reads seed data from path; .yaml/.yml files are YAML, .json is JSON.
// An empty path yields Default().
func Load(path string) (Data, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("read seed: %w", err)
	}

	var data Data
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, &data)
	case ".yaml", ".yml":
		err = decodeYAML(raw, &data)
	default:
		return Data{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return Data{}, fmt.Errorf("decode seed %s: %w", path, err)
	}
	if data.User.Predictions == nil {
		data.User.Predictions = []users.Prediction{}
	}
	if err := data.Validate(); err != nil {
		return Data{}, err
	}
	return data, nil
}

// decodeYAML goes through the JSON tags so both formats share one field naming.
func decodeYAML(raw []byte, out *Data) error {
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return err
	}
	bridged, err := json.Marshal(generic)
	if err != nil {
		return err
	}
	return json.Unmarshal(bridged, out)
}
