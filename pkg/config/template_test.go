package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/tekkenmd/pkg/config"
)

func TestGenerateTemplate_Parses(t *testing.T) {
	t.Parallel()

	for _, full := range []bool{false, true} {
		yamlData, err := config.GenerateTemplate(config.TemplateOptions{Format: config.TemplateYAML, Full: full})
		require.NoError(t, err)
		fromYAML, err := config.FromYAML(yamlData)
		require.NoError(t, err, string(yamlData))

		tomlData, err := config.GenerateTemplate(config.TemplateOptions{Format: config.TemplateTOML, Full: full})
		require.NoError(t, err)
		fromTOML, err := config.FromTOML(tomlData)
		require.NoError(t, err, string(tomlData))

		assert.Equal(t, fromYAML, fromTOML)

		defaults := config.NewConfig()
		assert.Equal(t, defaults.FenceLanguage, fromYAML.FenceLanguage)
		assert.Equal(t, defaults.OutDir, fromYAML.OutDir)
		assert.Equal(t, defaults.AltText, fromYAML.AltText)
		assert.True(t, fromYAML.ExpandMotionsEnabled())
		assert.False(t, fromYAML.BackupsEnabled())
		assert.True(t, fromYAML.Layout.IsZero())
		assert.True(t, fromYAML.Colors.IsZero())
	}
}

func TestGenerateTemplate_Full(t *testing.T) {
	t.Parallel()

	minimal, err := config.GenerateTemplate(config.TemplateOptions{})
	require.NoError(t, err)
	full, err := config.GenerateTemplate(config.TemplateOptions{Full: true})
	require.NoError(t, err)

	assert.NotContains(t, string(minimal), "tile_width")
	assert.Contains(t, string(full), "  # tile_width: 50")

	toml, err := config.GenerateTemplate(config.TemplateOptions{Format: config.TemplateTOML, Full: true})
	require.NoError(t, err)
	assert.Contains(t, string(toml), "# [layout]")
	assert.Contains(t, string(toml), "[backups]\n")
}

func TestGenerateTemplate_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := config.GenerateTemplate(config.TemplateOptions{Format: "json"})
	require.Error(t, err)
}

func TestTemplateFormat_FileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".tekkenmd.yml", config.TemplateYAML.FileName())
	assert.Equal(t, ".tekkenmd.toml", config.TemplateTOML.FileName())
}
