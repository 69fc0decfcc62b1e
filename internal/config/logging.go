package config

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level" json:"level,omitempty"`           // debug, info, warn, error
	Format     string          `yaml:"format" json:"format,omitempty"`         // json, console
	Dir        string          `yaml:"dir" json:"dir,omitempty"`               // per-category log files live here
	DebugMode  bool            `yaml:"debug_mode" json:"debug_mode,omitempty"` // Master toggle - false = no logging (production)
	Categories map[string]bool `yaml:"categories" json:"categories,omitempty"` // Per-category toggles
	Rotation   RotationConfig  `yaml:"rotation" json:"rotation,omitempty"`
}

// RotationConfig bounds the size and age of category log files.
type RotationConfig struct {
	MaxSizeMB  int  `yaml:"max_size_mb" json:"max_size_mb,omitempty"`
	MaxBackups int  `yaml:"max_backups" json:"max_backups,omitempty"`
	MaxAgeDays int  `yaml:"max_age_days" json:"max_age_days,omitempty"`
	Compress   bool `yaml:"compress" json:"compress,omitempty"`
}

// IsCategoryEnabled returns whether logging is enabled for a category.
// Returns false if debug_mode is false (production mode).
// Returns true if debug_mode is true and category is enabled (or not specified).
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if !c.DebugMode {
		return false
	}
	if c.Categories == nil {
		return true // All enabled by default in debug mode
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true // Enable by default if not specified
	}
	return enabled
}
