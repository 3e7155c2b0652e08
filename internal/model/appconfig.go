package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new projects
	DefaultSpacing    float64 `json:"default_spacing"`
	DefaultPreset     string  `json:"default_preset"`
	DefaultStrategy   string  `json:"default_strategy"`
	DefaultSheetSize  string  `json:"default_sheet_size"`
	DefaultSheetCount int     `json:"default_sheet_count"`

	// Application preferences
	AutoSaveInterval int      `json:"auto_save_interval"` // minutes, 0 = disabled
	RecentProjects   []string `json:"recent_projects"`
	Units            string   `json:"units"` // "in" or "mm"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultSpacing:    defaults.Spacing,
		DefaultPreset:     defaults.Preset,
		DefaultStrategy:   string(defaults.Strategy),
		DefaultSheetSize:  "US Letter",
		DefaultSheetCount: defaults.SheetCount,
		AutoSaveInterval:  0,
		RecentProjects:    []string{},
		Units:             "in",
	}
}

// ApplyToSettings copies the default values from AppConfig into a
// NestSettings struct. This is used when creating a new project so it
// inherits the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *NestSettings) {
	s.Spacing = c.DefaultSpacing
	s.Preset = c.DefaultPreset
	s.Strategy = StrategyName(c.DefaultStrategy)
	s.SheetCount = c.DefaultSheetCount
	if size, ok := SheetSizeByName(c.DefaultSheetSize); ok {
		s.Sheet = Sheet{Width: size.Width, Height: size.Height}
	}
}
