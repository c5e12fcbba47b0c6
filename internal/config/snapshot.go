package config

import (
	"time"

	"github.com/spf13/pflag"
)

// SnapshotConfig holds configuration for the snapshot poller.
type SnapshotConfig struct {
	Config
	PGDSN     string
	Interval  time.Duration
	Accounts  []string
	StateFile string
}

// LoadSnapshot merges config file, environment variables, and flags into
// SnapshotConfig.
func LoadSnapshot(cfgFile string, flags *pflag.FlagSet) (SnapshotConfig, error) {
	base, err := Load(cfgFile, flags)
	if err != nil {
		return SnapshotConfig{}, err
	}

	v, err := newViper(cfgFile, flags)
	if err != nil {
		return SnapshotConfig{}, err
	}
	v.SetDefault("interval", 5*time.Second)
	v.SetDefault("state-file", "./data/snapshot-state.json")

	cfg := SnapshotConfig{
		Config:    base,
		PGDSN:     v.GetString("pg-dsn"),
		Interval:  v.GetDuration("interval"),
		Accounts:  getStringSlice(v, "accounts"),
		StateFile: v.GetString("state-file"),
	}

	return cfg, nil
}
