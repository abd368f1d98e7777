// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, hierarchical merging,
// environment variable support and validation.
package configloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gobricklayer/pkg/config"
)

// ErrInvalidConfig is wrapped by every error caused by configuration content
// rather than I/O.
var ErrInvalidConfig = errors.New("invalid configuration")

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (GOBRICKLAYER_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.gobricklayer.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/gobricklayer/config.yaml)
//  6. System config (/etc/gobricklayer/config.yaml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	layers := []struct {
		name string
		path string
		skip bool
	}{
		{"system", paths.System, opts.IgnoreSystemConfig},
		{"user", paths.User, opts.IgnoreUserConfig},
		{"project", paths.Project, opts.IgnoreProjectConfig},
		{"explicit", paths.Explicit, false},
	}

	for _, layer := range layers {
		if layer.skip || layer.path == "" {
			continue
		}
		fileCfg, unknown, err := loadConfigFile(layer.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}
		for _, key := range unknown {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: unknown key %q; it will be ignored", layer.path, key))
		}
		cfg = merge(cfg, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("%w: environment: %w", ErrInvalidConfig, err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, &validation.Errors[0])
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

// loadConfigFile loads a configuration from a YAML or TOML file, returning
// the keys it did not recognise.
func loadConfigFile(path string) (*config.Config, []string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}

	if IsTOMLConfig(path) {
		cfg, unknown, err := config.FromTOML(content)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		return cfg, unknown, nil
	}

	cfg, err := config.FromYAML(content)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, unknownYAMLKeys(content), nil
}

//nolint:gochecknoglobals // Read-only lookup table.
var knownYAMLKeys = map[string]map[string]bool{
	"layer_height":           nil,
	"extrusion_multiplier":   nil,
	"first_layer_multiplier": nil,
	"last_layer_multiplier":  nil,
	"shift_policy":           nil,
	"parity_policy":          nil,
	"extrusion_policy":       nil,
	"object_end_policy":      nil,
	"travel_policy":          nil,
	"restore_z":              nil,
	"dialect":                nil,
	"extensions":             nil,
	"ignore":                 nil,
	"log_file":               nil,
	"backups":                {"enabled": true, "suffix": true},
}

// unknownYAMLKeys lists top-level and backups keys the Config does not define.
// Content that already decoded into a Config never fails here.
func unknownYAMLKeys(content []byte) []string {
	var raw map[string]any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil
	}

	var unknown []string
	for key, value := range raw {
		children, known := knownYAMLKeys[key]
		if !known {
			unknown = append(unknown, key)
			continue
		}
		if nested, ok := value.(map[string]any); ok && children != nil {
			for child := range nested {
				if !children[child] {
					unknown = append(unknown, key+"."+child)
				}
			}
		}
	}
	sort.Strings(unknown)
	return unknown
}
