package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gobricklayer/pkg/config"
)

func TestGenerateTemplate_Minimal(t *testing.T) {
	t.Parallel()

	content, err := config.GenerateTemplate(config.TemplateOptions{})
	require.NoError(t, err)

	text := string(content)
	assert.True(t, strings.HasPrefix(text, "# gobricklayer configuration\n"))
	assert.Contains(t, text, "\nlayer_height: 0.2\n")
	assert.Contains(t, text, "\n# shift_policy: \"half-layer\"\n")
	assert.Contains(t, text, "\n# backups:\n")

	cfg, err := config.FromYAML(content)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, cfg.LayerHeight, 1e-9)
	assert.Equal(t, "auto", cfg.Dialect)
	assert.Empty(t, cfg.ShiftPolicy)
}

func TestGenerateTemplate_Full(t *testing.T) {
	t.Parallel()

	defaults := config.NewConfig()

	for _, format := range []string{config.TemplateYAML, config.TemplateTOML} {
		t.Run(format, func(t *testing.T) {
			t.Parallel()

			content, err := config.GenerateTemplate(config.TemplateOptions{Full: true, Format: format})
			require.NoError(t, err)

			var cfg *config.Config
			if format == config.TemplateYAML {
				cfg, err = config.FromYAML(content)
			} else {
				var unknown []string
				cfg, unknown, err = config.FromTOML(content)
				assert.Empty(t, unknown)
			}
			require.NoError(t, err)

			assert.Equal(t, defaults.EngineOptions(), cfg.EngineOptions())
			assert.Equal(t, defaults.BackupConfig(), cfg.BackupConfig())
			assert.Equal(t, []string{".gcode", ".gco", ".g"}, cfg.Extensions)
			assert.Empty(t, cfg.Ignore, "example values stay commented")
			assert.Empty(t, cfg.LogFile)
		})
	}
}

func TestGenerateTemplate_BadFormat(t *testing.T) {
	t.Parallel()

	_, err := config.GenerateTemplate(config.TemplateOptions{Format: "json"})
	require.Error(t, err)
}
