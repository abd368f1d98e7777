package configloader

import (
	"slices"

	"github.com/yaklabco/gobricklayer/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Pointer toggles: override overwrites base if set, so false can win
//   - Slices: override replaces base entirely if override is non-nil
//   - CLI-only booleans: only true overrides
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.LayerHeight != 0 {
		result.LayerHeight = override.LayerHeight
	}
	if override.ExtrusionMultiplier != 0 {
		result.ExtrusionMultiplier = override.ExtrusionMultiplier
	}
	if override.FirstLayerMultiplier != 0 {
		result.FirstLayerMultiplier = override.FirstLayerMultiplier
	}
	if override.LastLayerMultiplier != 0 {
		result.LastLayerMultiplier = override.LastLayerMultiplier
	}

	if override.ShiftPolicy != "" {
		result.ShiftPolicy = override.ShiftPolicy
	}
	if override.ParityPolicy != "" {
		result.ParityPolicy = override.ParityPolicy
	}
	if override.ExtrusionPolicy != "" {
		result.ExtrusionPolicy = override.ExtrusionPolicy
	}
	if override.ObjectEndPolicy != "" {
		result.ObjectEndPolicy = override.ObjectEndPolicy
	}
	if override.TravelPolicy != "" {
		result.TravelPolicy = override.TravelPolicy
	}
	if override.Dialect != "" {
		result.Dialect = override.Dialect
	}
	if override.LogFile != "" {
		result.LogFile = override.LogFile
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	if override.RestoreZ != nil {
		result.RestoreZ = config.Bool(*override.RestoreZ)
	}
	if override.Backups.Enabled != nil {
		result.Backups.Enabled = config.Bool(*override.Backups.Enabled)
	}
	if override.Backups.Suffix != "" {
		result.Backups.Suffix = override.Backups.Suffix
	}

	if override.DryRun {
		result.DryRun = true
	}
	if override.Reprocess {
		result.Reprocess = true
	}
	if override.NoBackups {
		result.NoBackups = true
	}

	if override.Extensions != nil {
		result.Extensions = slices.Clone(override.Extensions)
	}
	if override.Ignore != nil {
		result.Ignore = slices.Clone(override.Ignore)
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
