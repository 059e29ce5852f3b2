package config

// SnapshotConfig controls periodic state snapshots.
type SnapshotConfig struct {
	Enabled       bool   `envconfig:"SNAPSHOT_ENABLED" default:"true"`
	Dir           string `envconfig:"SNAPSHOT_DIR" default:"data/snapshots"`
	Schedule      string `envconfig:"SNAPSHOT_SCHEDULE" default:"@every 5m"`
	RetentionDays int    `envconfig:"SNAPSHOT_RETENTION_DAYS" default:"7"`
	// Restore loads the newest snapshot at boot instead of the seed.
	Restore bool `envconfig:"SNAPSHOT_RESTORE" default:"false"`
}
