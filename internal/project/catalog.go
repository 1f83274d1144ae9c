package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/BeamCut/internal/model"
)

// CatalogFile is the on-disk YAML layout of a custom profile catalog.
//
//	profiles:
//	  - name: HEA 320
//	    height_mm: 310
//	    area_mm2: 12440
//	    standard_lengths_mm: [6000, 12000]
type CatalogFile struct {
	Profiles []model.CatalogProfile `yaml:"profiles"`
}

// LoadCatalogProfiles reads custom profiles from a YAML file.
func LoadCatalogProfiles(path string) ([]model.CatalogProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	for i, p := range file.Profiles {
		if _, _, ok := model.ParseProfileName(p.Name); !ok && (p.Type == "" || p.Size <= 0) {
			return nil, fmt.Errorf("catalog %s: entry %d: unrecognised profile %q", path, i+1, p.Name)
		}
	}
	return file.Profiles, nil
}

// LoadCatalog returns the built-in catalog with the profiles from path merged
// over it. An empty path or a missing file yields the built-in catalog.
func LoadCatalog(path string) (*model.Catalog, error) {
	builtIn := model.BuiltInCatalog()
	if path == "" {
		return builtIn, nil
	}
	custom, err := LoadCatalogProfiles(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return builtIn, nil
		}
		return nil, err
	}
	return builtIn.Merge(custom), nil
}

// SaveCatalog writes profiles as YAML, creating parent directories.
func SaveCatalog(path string, profiles []model.CatalogProfile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(CatalogFile{Profiles: profiles})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
