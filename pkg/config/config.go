// Package config defines core configuration types for gobricklayer.
// These types are pure data structures; loading and merging live in
// internal/configloader.
package config

import (
	"github.com/yaklabco/gobricklayer/pkg/bricklayer"
	"github.com/yaklabco/gobricklayer/pkg/dialect"
	"github.com/yaklabco/gobricklayer/pkg/fsutil"
)

// OutputFormat specifies the output format for run results.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatDiff    OutputFormat = "diff"
	FormatSummary OutputFormat = "summary"
)

// BackupsConfig controls the sidecar backup taken before a file is rewritten.
type BackupsConfig struct {
	// Enabled is a pointer so a config file can turn backups off.
	Enabled *bool  `mapstructure:"enabled" yaml:"enabled,omitempty" toml:"enabled,omitempty"`
	Suffix  string `mapstructure:"suffix" yaml:"suffix,omitempty" toml:"suffix,omitempty"`
}

// Config is the root configuration structure for gobricklayer.
type Config struct {
	// LayerHeight is the nominal layer height in millimetres.
	LayerHeight float64 `mapstructure:"layer_height" yaml:"layer_height,omitempty" toml:"layer_height,omitempty"`

	ExtrusionMultiplier  float64 `mapstructure:"extrusion_multiplier" yaml:"extrusion_multiplier,omitempty" toml:"extrusion_multiplier,omitempty"`
	FirstLayerMultiplier float64 `mapstructure:"first_layer_multiplier" yaml:"first_layer_multiplier,omitempty" toml:"first_layer_multiplier,omitempty"`
	LastLayerMultiplier  float64 `mapstructure:"last_layer_multiplier" yaml:"last_layer_multiplier,omitempty" toml:"last_layer_multiplier,omitempty"`

	ShiftPolicy     string `mapstructure:"shift_policy" yaml:"shift_policy,omitempty" toml:"shift_policy,omitempty"`
	ParityPolicy    string `mapstructure:"parity_policy" yaml:"parity_policy,omitempty" toml:"parity_policy,omitempty"`
	ExtrusionPolicy string `mapstructure:"extrusion_policy" yaml:"extrusion_policy,omitempty" toml:"extrusion_policy,omitempty"`
	ObjectEndPolicy string `mapstructure:"object_end_policy" yaml:"object_end_policy,omitempty" toml:"object_end_policy,omitempty"`
	TravelPolicy    string `mapstructure:"travel_policy" yaml:"travel_policy,omitempty" toml:"travel_policy,omitempty"`

	// RestoreZ is a pointer so a config file can turn it off.
	RestoreZ *bool `mapstructure:"restore_z" yaml:"restore_z,omitempty" toml:"restore_z,omitempty"`

	// Dialect forces a slicer marker set; "auto" detects it per file.
	Dialect string `mapstructure:"dialect" yaml:"dialect,omitempty" toml:"dialect,omitempty"`

	// Extensions replaces the default discovery extensions.
	Extensions []string `mapstructure:"extensions" yaml:"extensions,omitempty" toml:"extensions,omitempty"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `mapstructure:"ignore" yaml:"ignore,omitempty" toml:"ignore,omitempty"`

	Backups BackupsConfig `mapstructure:"backups" yaml:"backups,omitempty" toml:"backups,omitempty"`

	// LogFile receives a timestamped diagnostic log of every run.
	LogFile string `mapstructure:"log_file" yaml:"log_file,omitempty" toml:"log_file,omitempty"`

	// CLI-level options (not persisted to config files).

	// DryRun shows what would change without writing.
	DryRun bool `mapstructure:"-" yaml:"-" toml:"-"`

	// Reprocess rewrites files that already carry provenance comments.
	Reprocess bool `mapstructure:"-" yaml:"-" toml:"-"`

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"-" yaml:"-" toml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `mapstructure:"-" yaml:"-" toml:"-"`

	// NoBackups disables backup creation.
	NoBackups bool `mapstructure:"-" yaml:"-" toml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	defaults := bricklayer.DefaultOptions()
	return &Config{
		LayerHeight:          defaults.LayerHeight,
		ExtrusionMultiplier:  defaults.ExtrusionMultiplier,
		FirstLayerMultiplier: defaults.FirstLayerMultiplier,
		LastLayerMultiplier:  defaults.LastLayerMultiplier,
		ShiftPolicy:          string(defaults.Shift),
		ParityPolicy:         string(defaults.Parity),
		ExtrusionPolicy:      string(defaults.Extrusion),
		ObjectEndPolicy:      string(defaults.ObjectEnd),
		TravelPolicy:         string(defaults.Travel),
		RestoreZ:             Bool(defaults.RestoreZ),
		Dialect:              string(dialect.Auto),
		Backups: BackupsConfig{
			Enabled: Bool(true),
			Suffix:  fsutil.BackupSuffix,
		},
		Format: FormatText,
		Jobs:   0, // 0 means use GOMAXPROCS
	}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// RestoreZEnabled reports whether Z restores are inserted. Unset means on.
func (c *Config) RestoreZEnabled() bool {
	return c.RestoreZ == nil || *c.RestoreZ
}

// BackupsEnabled reports whether backups are taken, honouring NoBackups.
func (c *Config) BackupsEnabled() bool {
	if c.NoBackups {
		return false
	}
	return c.Backups.Enabled == nil || *c.Backups.Enabled
}

// EngineOptions converts the configuration into engine options. The result
// is validated by bricklayer.New.
func (c *Config) EngineOptions() bricklayer.Options {
	return bricklayer.Options{
		LayerHeight:          c.LayerHeight,
		ExtrusionMultiplier:  c.ExtrusionMultiplier,
		FirstLayerMultiplier: c.FirstLayerMultiplier,
		LastLayerMultiplier:  c.LastLayerMultiplier,
		Shift:                bricklayer.ShiftPolicy(c.ShiftPolicy),
		Parity:               bricklayer.ParityPolicy(c.ParityPolicy),
		Extrusion:            bricklayer.ExtrusionPolicy(c.ExtrusionPolicy),
		ObjectEnd:            bricklayer.ObjectEndPolicy(c.ObjectEndPolicy),
		Travel:               bricklayer.TravelPolicy(c.TravelPolicy),
		RestoreZ:             c.RestoreZEnabled(),
		Dialect:              dialect.Dialect(c.Dialect),
		Reprocess:            c.Reprocess,
	}
}

// BackupConfig converts the backup settings for the file layer.
func (c *Config) BackupConfig() fsutil.BackupConfig {
	cfg := fsutil.BackupConfig{Enabled: c.BackupsEnabled(), Suffix: c.Backups.Suffix}
	if cfg.Suffix == "" {
		cfg.Suffix = fsutil.BackupSuffix
	}
	return cfg
}
