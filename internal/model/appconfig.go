package model

import "github.com/shopspring/decimal"

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default estimator settings applied to new match runs
	DefaultSafetyMargin   int     `json:"default_safety_margin" mapstructure:"default_safety_margin"`
	DefaultUnitPricePerKg float64 `json:"default_unit_price_per_kg" mapstructure:"default_unit_price_per_kg"`
	DefaultKerfWidth      int     `json:"default_kerf_width" mapstructure:"default_kerf_width"`
	DefaultMinRemnant     int     `json:"default_min_remnant" mapstructure:"default_min_remnant"`
	DefaultSawProfile     string  `json:"default_saw_profile" mapstructure:"default_saw_profile"`
	Currency              string  `json:"currency" mapstructure:"currency"`

	// Storage
	InventoryDBPath string `json:"inventory_db_path" mapstructure:"inventory_db_path"`
	CatalogPath     string `json:"catalog_path" mapstructure:"catalog_path"` // Optional YAML catalog overrides

	// Service
	ListenAddr string `json:"listen_addr" mapstructure:"listen_addr"`
	LogLevel   string `json:"log_level" mapstructure:"log_level"`   // debug, info, warn, error
	LogFormat  string `json:"log_format" mapstructure:"log_format"` // console, json

	RecentFiles []string `json:"recent_files" mapstructure:"recent_files"`
}

// DefaultAppConfig returns an AppConfig populated with defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	price, _ := defaults.UnitPricePerKg.Float64()
	return AppConfig{
		DefaultSafetyMargin:   defaults.SafetyMargin,
		DefaultUnitPricePerKg: price,
		DefaultKerfWidth:      defaults.KerfWidth,
		DefaultMinRemnant:     defaults.MinRemnant,
		DefaultSawProfile:     defaults.SawProfile,
		Currency:              defaults.Currency,
		InventoryDBPath:       "",
		ListenAddr:            ":8080",
		LogLevel:              "info",
		LogFormat:             "console",
		RecentFiles:           []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into Settings.
func (c AppConfig) ApplyToSettings(s *Settings) {
	s.SafetyMargin = c.DefaultSafetyMargin
	s.UnitPricePerKg = decimal.NewFromFloat(c.DefaultUnitPricePerKg)
	s.KerfWidth = c.DefaultKerfWidth
	s.MinRemnant = c.DefaultMinRemnant
	s.SawProfile = c.DefaultSawProfile
	s.Currency = c.Currency
}

// Settings returns DefaultSettings with this config applied.
func (c AppConfig) Settings() Settings {
	s := DefaultSettings()
	c.ApplyToSettings(&s)
	return s
}
