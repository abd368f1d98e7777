package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/gobricklayer/pkg/config"
)

// projectDir returns a temp directory marked as a VCS root so the upward
// config search stops there.
func projectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir .git: %v", err)
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func hermetic(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), hermetic(projectDir(t)))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config == nil {
		t.Fatal("Load() returned nil config")
	}
	if result.Config.LayerHeight != 0.2 {
		t.Errorf("expected layer height 0.2, got %g", result.Config.LayerHeight)
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("expected no files loaded, got %v", result.LoadedFrom)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".gobricklayer.yml"), `
layer_height: 0.28
restore_z: false
dialect: prusa
`)

	// Discovery walks up from a nested directory.
	nested := filepath.Join(dir, "exports", "today")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	result, err := Load(context.Background(), hermetic(nested))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.LayerHeight != 0.28 {
		t.Errorf("expected layer height 0.28, got %g", cfg.LayerHeight)
	}
	if cfg.RestoreZEnabled() {
		t.Error("expected restore_z false from project config")
	}
	if cfg.Dialect != "prusa" {
		t.Errorf("expected dialect prusa, got %q", cfg.Dialect)
	}
	if cfg.ExtrusionMultiplier != 1.0 {
		t.Errorf("unset keys should keep defaults, got extrusion multiplier %g", cfg.ExtrusionMultiplier)
	}
	if len(result.LoadedFrom) != 1 || !strings.HasSuffix(result.LoadedFrom[0], ".gobricklayer.yml") {
		t.Errorf("unexpected LoadedFrom %v", result.LoadedFrom)
	}
}

func TestLoad_TOMLProjectConfig(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".gobricklayer.toml"), `
extrusion_multiplier = 1.2
ignore = ["archive/**"]
colour = "blue"

[backups]
enabled = false
`)

	result, err := Load(context.Background(), hermetic(dir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.ExtrusionMultiplier != 1.2 {
		t.Errorf("expected 1.2, got %g", result.Config.ExtrusionMultiplier)
	}
	if result.Config.BackupsEnabled() {
		t.Error("expected backups disabled")
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], `unknown key "colour"`) {
		t.Errorf("expected unknown key warning, got %v", result.Warnings)
	}
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".gobricklayer.yml"), "layer_height: 0.3\nshift_policy: full-layer\n")
	explicit := filepath.Join(dir, "custom", "bricks.yaml")
	writeFile(t, explicit, "layer_height: 0.16\nparity_policy: segment-plus-layer\n")

	opts := hermetic(dir)
	opts.ExplicitPath = explicit
	opts.CLIConfig = &config.Config{ParityPolicy: "segment", DryRun: true}

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.LayerHeight != 0.16 {
		t.Errorf("explicit config should beat project config, got %g", cfg.LayerHeight)
	}
	if cfg.ShiftPolicy != "full-layer" {
		t.Errorf("project value should survive, got %q", cfg.ShiftPolicy)
	}
	if cfg.ParityPolicy != "segment" {
		t.Errorf("CLI should beat files, got %q", cfg.ParityPolicy)
	}
	if !cfg.DryRun {
		t.Error("expected dry run from CLI")
	}
	if len(result.LoadedFrom) != 2 {
		t.Errorf("expected two files loaded, got %v", result.LoadedFrom)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{name: "bad policy", content: "shift_policy: quarter\n", wantMsg: "shift_policy"},
		{name: "negative height", content: "layer_height: -0.2\n", wantMsg: "layer_height"},
		{name: "bad dialect", content: "dialect: simplify3d\n", wantMsg: "unknown dialect"},
		{name: "bad yaml", content: "layer_height: [\n", wantMsg: "parse yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := projectDir(t)
			writeFile(t, filepath.Join(dir, ".gobricklayer.yml"), tt.content)

			_, err := Load(context.Background(), hermetic(dir))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoad_MissingExplicit(t *testing.T) {
	t.Parallel()

	opts := hermetic(projectDir(t))
	opts.ExplicitPath = filepath.Join(opts.WorkingDir, "nope.yml")

	_, err := Load(context.Background(), opts)
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
	if errors.Is(err, ErrInvalidConfig) {
		t.Error("a missing file is an I/O problem, not invalid content")
	}
}

func TestLoad_UnknownYAMLKeys(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".gobricklayer.yaml"), `
layer_height: 0.2
flavor: gfm
backups:
  mode: sidecar
`)

	result, err := Load(context.Background(), hermetic(dir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	joined := strings.Join(result.Warnings, "\n")
	if !strings.Contains(joined, `"backups.mode"`) || !strings.Contains(joined, `"flavor"`) {
		t.Errorf("expected warnings for flavor and backups.mode, got %v", result.Warnings)
	}
}
