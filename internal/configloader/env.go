package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/gobricklayer/pkg/config"
)

// envVarPrefix is the prefix for all gobricklayer environment variables.
const envVarPrefix = "GOBRICKLAYER_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeFloat
	envTypeSlice
)

// envMapping defines an environment variable to config field mapping.
type envMapping struct {
	field string
	typ   envFieldType
	doc   string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"LAYER_HEIGHT":           {field: "layer_height", typ: envTypeFloat, doc: "Nominal layer height in millimetres"},
	"EXTRUSION_MULTIPLIER":   {field: "extrusion_multiplier", typ: envTypeFloat, doc: "Extrusion scale for shifted segments"},
	"FIRST_LAYER_MULTIPLIER": {field: "first_layer_multiplier", typ: envTypeFloat, doc: "Extrusion scale on the first layer"},
	"LAST_LAYER_MULTIPLIER":  {field: "last_layer_multiplier", typ: envTypeFloat, doc: "Extrusion scale on the last layer"},
	"SHIFT_POLICY":           {field: "shift_policy", typ: envTypeString, doc: "half-layer or full-layer"},
	"PARITY_POLICY":          {field: "parity_policy", typ: envTypeString, doc: "segment or segment-plus-layer"},
	"EXTRUSION_POLICY":       {field: "extrusion_policy", typ: envTypeString, doc: "first-last-override or flat"},
	"OBJECT_END_POLICY":      {field: "object_end_policy", typ: envTypeString, doc: "close-region or ignore"},
	"TRAVEL_POLICY":          {field: "travel_policy", typ: envTypeString, doc: "feed-rate or planar"},
	"RESTORE_Z":              {field: "restore_z", typ: envTypeBool, doc: "Restore Z after a lifted inner wall: true or false"},
	"DIALECT":                {field: "dialect", typ: envTypeString, doc: "auto, orca, prusa, cura or generic"},
	"EXTENSIONS":             {field: "extensions", typ: envTypeSlice, doc: "Comma-separated file extensions"},
	"IGNORE":                 {field: "ignore", typ: envTypeSlice, doc: "Comma-separated list of ignore patterns"},
	"BACKUPS_ENABLED":        {field: "backups.enabled", typ: envTypeBool, doc: "Enable backups: true or false"},
	"BACKUPS_SUFFIX":         {field: "backups.suffix", typ: envTypeString, doc: "Backup file suffix"},
	"LOG_FILE":               {field: "log_file", typ: envTypeString, doc: "Diagnostic log file path"},
	"DRY_RUN":                {field: "dry_run", typ: envTypeBool, doc: "Dry-run mode: true or false"},
	"REPROCESS":              {field: "reprocess", typ: envTypeBool, doc: "Rewrite already processed files: true or false"},
	"JOBS":                   {field: "jobs", typ: envTypeInt, doc: "Number of parallel workers (0 = auto)"},
	"FORMAT":                 {field: "format", typ: envTypeString, doc: "Output format: text, table, json, diff or summary"},
	"NO_BACKUPS":             {field: "no_backups", typ: envTypeBool, doc: "Disable backups: true or false"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with GOBRICKLAYER_ (e.g., GOBRICKLAYER_LAYER_HEIGHT).
func LoadFromEnv(cfg *config.Config) error {
	return loadFromLookup(cfg, os.LookupEnv)
}

func loadFromLookup(cfg *config.Config, lookup func(string) (string, bool)) error {
	if cfg == nil {
		return nil
	}

	for _, envSuffix := range sortedEnvSuffixes() {
		envVar := envVarPrefix + envSuffix
		value, ok := lookup(envVar)
		if !ok || value == "" {
			continue
		}

		if err := applyEnvValue(cfg, envMappings[envSuffix], value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number for %s: %q", envVar, value)
		}
		return setFloatField(cfg, mapping.field, f)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "shift_policy":
		cfg.ShiftPolicy = value
	case "parity_policy":
		cfg.ParityPolicy = value
	case "extrusion_policy":
		cfg.ExtrusionPolicy = value
	case "object_end_policy":
		cfg.ObjectEndPolicy = value
	case "travel_policy":
		cfg.TravelPolicy = value
	case "dialect":
		cfg.Dialect = value
	case "backups.suffix":
		cfg.Backups.Suffix = value
	case "log_file":
		cfg.LogFile = value
	case "format":
		cfg.Format = config.OutputFormat(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "restore_z":
		cfg.RestoreZ = config.Bool(value)
	case "backups.enabled":
		cfg.Backups.Enabled = config.Bool(value)
	case "dry_run":
		cfg.DryRun = value
	case "reprocess":
		cfg.Reprocess = value
	case "no_backups":
		cfg.NoBackups = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func setFloatField(cfg *config.Config, field string, value float64) error {
	switch field {
	case "layer_height":
		cfg.LayerHeight = value
	case "extrusion_multiplier":
		cfg.ExtrusionMultiplier = value
	case "first_layer_multiplier":
		cfg.FirstLayerMultiplier = value
	case "last_layer_multiplier":
		cfg.LastLayerMultiplier = value
	default:
		return fmt.Errorf("unknown number field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "extensions":
		cfg.Extensions = value
	case "ignore":
		cfg.Ignore = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

func sortedEnvSuffixes() []string {
	suffixes := make([]string, 0, len(envMappings))
	for suffix := range envMappings {
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)
	return suffixes
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.doc
	}
	return vars
}
