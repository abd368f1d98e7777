package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gobricklayer/pkg/config"
)

func TestFromYAML(t *testing.T) {
	t.Parallel()

	cfg, err := config.FromYAML([]byte(`
layer_height: 0.3
extrusion_multiplier: 1.1
shift_policy: full-layer
restore_z: false
ignore:
  - "old/**"
backups:
  enabled: false
`))
	require.NoError(t, err)

	assert.InDelta(t, 0.3, cfg.LayerHeight, 1e-9)
	assert.InDelta(t, 1.1, cfg.ExtrusionMultiplier, 1e-9)
	assert.Equal(t, "full-layer", cfg.ShiftPolicy)
	require.NotNil(t, cfg.RestoreZ)
	assert.False(t, *cfg.RestoreZ)
	assert.Equal(t, []string{"old/**"}, cfg.Ignore)
	assert.False(t, cfg.BackupsEnabled())
	assert.Empty(t, cfg.Dialect, "unset keys stay zero for merging")
}

func TestFromYAML_Invalid(t *testing.T) {
	t.Parallel()

	_, err := config.FromYAML([]byte("layer_height: [1, 2"))
	require.Error(t, err)
}

func TestFromTOML(t *testing.T) {
	t.Parallel()

	cfg, unknown, err := config.FromTOML([]byte(`
layer_height = 0.25
dialect = "cura"
flavor = "gfm"

[backups]
suffix = ".orig"
`))
	require.NoError(t, err)

	assert.InDelta(t, 0.25, cfg.LayerHeight, 1e-9)
	assert.Equal(t, "cura", cfg.Dialect)
	assert.Equal(t, ".orig", cfg.Backups.Suffix)
	assert.Equal(t, []string{"flavor"}, unknown)

	_, _, err = config.FromTOML([]byte("layer_height = "))
	require.Error(t, err)
}

func TestConfig_SerializeRoundTrip(t *testing.T) {
	t.Parallel()

	orig := config.NewConfig()
	orig.LogFile = "run.log"

	yamlBytes, err := orig.ToYAML()
	require.NoError(t, err)
	assert.NotContains(t, string(yamlBytes), "dry_run", "CLI-only fields are not persisted")

	fromYAML, err := config.FromYAML(yamlBytes)
	require.NoError(t, err)

	tomlBytes, err := orig.ToTOML()
	require.NoError(t, err)
	fromTOML, unknown, err := config.FromTOML(tomlBytes)
	require.NoError(t, err)
	assert.Empty(t, unknown)

	// CLI-only fields are not serialised.
	orig.Format = ""
	assert.Equal(t, orig, fromYAML)
	assert.Equal(t, orig, fromTOML)
}

func TestWithHeader(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "# head\n\nbody", string(config.WithHeader("# head", []byte("body"))))
	assert.Equal(t, "body", string(config.WithHeader("", []byte("body"))))
}
