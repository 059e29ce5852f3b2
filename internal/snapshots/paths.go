package snapshots

import (
	"fmt"
	"path/filepath"
)

const stateDir = "state"

// StateSnapshotPath builds the path to a state snapshot for a given date.
func StateSnapshotPath(basePath, date string) string {
	return filepath.Join(basePath, stateDir, fmt.Sprintf("%s.json", date))
}

// ManifestPath is the manifest location under basePath.
func ManifestPath(basePath string) string {
	return filepath.Join(basePath, "manifest.json")
}
