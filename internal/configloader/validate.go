package configloader

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gobricklayer/pkg/bricklayer"
	"github.com/yaklabco/gobricklayer/pkg/config"
	"github.com/yaklabco/gobricklayer/pkg/dialect"
	"github.com/yaklabco/gobricklayer/pkg/runner"
)

// Thresholds above which a value is accepted but flagged.
const (
	maxPlausibleLayerHeight = 1.0
	maxPlausibleMultiplier  = 3.0
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "backups.suffix").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// knownFormats lists valid output format values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownFormats = map[config.OutputFormat]bool{
	config.FormatText:    true,
	config.FormatTable:   true,
	config.FormatJSON:    true,
	config.FormatDiff:    true,
	config.FormatSummary: true,
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	validateNumbers(cfg, result)
	validatePolicies(cfg, result)

	if cfg.Format != "" && !knownFormats[cfg.Format] {
		result.fail("format", cfg.Format,
			"invalid format %q; must be one of: text, table, json, diff, summary", cfg.Format)
	}

	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	if strings.ContainsAny(cfg.Backups.Suffix, `/\`) {
		result.fail("backups.suffix", cfg.Backups.Suffix, "backup suffix must not contain a path separator")
	}

	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			result.warn(fmt.Sprintf("extensions[%d]", i), ext, "extension %q does not start with a dot and will never match", ext)
		}
	}

	validateIgnorePatterns(cfg, result)

	return result
}

func validateNumbers(cfg *config.Config, result *ValidationResult) {
	if cfg.LayerHeight <= 0 {
		result.fail("layer_height", cfg.LayerHeight, "layer height must be positive, got %g", cfg.LayerHeight)
	} else if cfg.LayerHeight > maxPlausibleLayerHeight {
		result.warn("layer_height", cfg.LayerHeight, "layer height %gmm is unusually large", cfg.LayerHeight)
	}

	multipliers := []struct {
		field string
		value float64
	}{
		{"extrusion_multiplier", cfg.ExtrusionMultiplier},
		{"first_layer_multiplier", cfg.FirstLayerMultiplier},
		{"last_layer_multiplier", cfg.LastLayerMultiplier},
	}
	for _, m := range multipliers {
		switch {
		case m.value <= 0:
			result.fail(m.field, m.value, "multiplier must be positive, got %g", m.value)
		case m.value > maxPlausibleMultiplier:
			result.warn(m.field, m.value, "multiplier %g is unusually large", m.value)
		}
	}
}

func validatePolicies(cfg *config.Config, result *ValidationResult) {
	if _, err := bricklayer.ParseShiftPolicy(cfg.ShiftPolicy); err != nil {
		result.fail("shift_policy", cfg.ShiftPolicy, "%v", err)
	}
	if _, err := bricklayer.ParseParityPolicy(cfg.ParityPolicy); err != nil {
		result.fail("parity_policy", cfg.ParityPolicy, "%v", err)
	}
	if _, err := bricklayer.ParseObjectEndPolicy(cfg.ObjectEndPolicy); err != nil {
		result.fail("object_end_policy", cfg.ObjectEndPolicy, "%v", err)
	}
	if _, err := bricklayer.ParseTravelPolicy(cfg.TravelPolicy); err != nil {
		result.fail("travel_policy", cfg.TravelPolicy, "%v", err)
	}

	policy, err := bricklayer.ParseExtrusionPolicy(cfg.ExtrusionPolicy)
	if err != nil {
		result.fail("extrusion_policy", cfg.ExtrusionPolicy, "%v", err)
	} else if policy == bricklayer.ExtrusionFlat && cfg.FirstLayerMultiplier != bricklayer.DefaultFirstLayerMultiplier {
		result.warn("first_layer_multiplier", cfg.FirstLayerMultiplier,
			"ignored because extrusion_policy is %q", bricklayer.ExtrusionFlat)
	}

	if _, err := dialect.Parse(cfg.Dialect); err != nil {
		result.fail("dialect", cfg.Dialect, "%v", err)
	}
}

// validateIgnorePatterns checks that ignore patterns compile as globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if _, err := runner.CompileGlobs([]string{pattern}); err != nil {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "%v", err)
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidFormat returns true if the format is valid.
func IsValidFormat(f config.OutputFormat) bool {
	return knownFormats[f]
}
