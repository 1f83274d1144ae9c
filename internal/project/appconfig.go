package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/piwi3910/BeamCut/internal/model"
)

// EnvPrefix is the prefix of environment variables that override config
// values, e.g. BEAMCUT_LISTEN_ADDR.
const EnvPrefix = "BEAMCUT"

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.beamcut/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".beamcut")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// DefaultInventoryDBPath is used when the config leaves InventoryDBPath empty.
func DefaultInventoryDBPath() string {
	return filepath.Join(DefaultConfigDir(), "inventory.db")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path. Values missing from
// the file keep their defaults and BEAMCUT_* environment variables win over
// both. A missing file is not an error.
func LoadAppConfig(path string) (model.AppConfig, error) {
	v := newViper(path)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return model.AppConfig{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return model.AppConfig{}, err
	}

	var config model.AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return model.AppConfig{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := config.Settings().Validate(); err != nil {
		return model.AppConfig{}, fmt.Errorf("config %s: %w", path, err)
	}
	if config.RecentFiles == nil {
		config.RecentFiles = []string{}
	}
	if config.InventoryDBPath == "" {
		config.InventoryDBPath = DefaultInventoryDBPath()
	}
	return config, nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Env lookups only cover keys viper already knows about.
	d := model.DefaultAppConfig()
	v.SetDefault("default_safety_margin", d.DefaultSafetyMargin)
	v.SetDefault("default_unit_price_per_kg", d.DefaultUnitPricePerKg)
	v.SetDefault("default_kerf_width", d.DefaultKerfWidth)
	v.SetDefault("default_min_remnant", d.DefaultMinRemnant)
	v.SetDefault("default_saw_profile", d.DefaultSawProfile)
	v.SetDefault("currency", d.Currency)
	v.SetDefault("inventory_db_path", d.InventoryDBPath)
	v.SetDefault("catalog_path", d.CatalogPath)
	v.SetDefault("listen_addr", d.ListenAddr)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("recent_files", d.RecentFiles)
	return v
}

// AddRecentFile moves path to the front of the recent list, keeping at most max entries.
func AddRecentFile(config *model.AppConfig, path string, max int) {
	out := []string{path}
	for _, p := range config.RecentFiles {
		if p != path {
			out = append(out, p)
		}
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	config.RecentFiles = out
}
