package configloader

import "github.com/yaklabco/tekkenmd/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Pointer booleans: override overwrites base if non-nil, so false is meaningful
//   - CLI-only booleans: only true overrides
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	mergeString(&result.FenceLanguage, override.FenceLanguage)
	mergeString(&result.AssetsDir, override.AssetsDir)
	mergeString(&result.OutDir, override.OutDir)
	mergeString(&result.ImagePrefix, override.ImagePrefix)
	mergeString(&result.AltText, override.AltText)
	mergeString(&result.FontFile, override.FontFile)

	if override.ExpandMotions != nil {
		result.ExpandMotions = override.ExpandMotions
	}
	if override.Embed != nil {
		result.Embed = override.Embed
	}

	mergeString(&result.Backups.Mode, override.Backups.Mode)
	if override.Backups.Enabled != nil {
		result.Backups.Enabled = override.Backups.Enabled
	}

	result.Layout = mergeLayout(base.Layout, override.Layout)
	result.Colors = mergeColors(base.Colors, override.Colors)

	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	// CLI-only fields
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.DryRun {
		result.DryRun = true
	}
	if override.Prune {
		result.Prune = true
	}

	return &result
}

func mergeString(dst *string, override string) {
	if override != "" {
		*dst = override
	}
}

func mergeInt(dst *int, override int) {
	if override != 0 {
		*dst = override
	}
}

// mergeLayout merges field by field; zero fields in override keep base.
func mergeLayout(base, override config.LayoutConfig) config.LayoutConfig {
	result := base
	mergeInt(&result.StartWidth, override.StartWidth)
	mergeInt(&result.TileWidth, override.TileWidth)
	mergeInt(&result.EndWidth, override.EndWidth)
	mergeInt(&result.Height, override.Height)
	mergeInt(&result.Gap, override.Gap)
	mergeInt(&result.NameFontSize, override.NameFontSize)
	mergeInt(&result.EndTextFontSize, override.EndTextFontSize)
	mergeInt(&result.FallbackFontSize, override.FallbackFontSize)
	mergeInt(&result.MinFontSize, override.MinFontSize)
	return result
}

func mergeColors(base, override config.ColorsConfig) config.ColorsConfig {
	result := base
	mergeString(&result.Name, override.Name)
	mergeString(&result.EndText, override.EndText)
	mergeString(&result.Fallback, override.Fallback)
	mergeString(&result.Background, override.Background)
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
