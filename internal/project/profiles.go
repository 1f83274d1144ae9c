package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/BeamCut/internal/model"
)

// DefaultProfilesPath returns the default file path for custom saw profiles.
func DefaultProfilesPath() string {
	return filepath.Join(DefaultConfigDir(), "saw_profiles.json")
}

// ValidateProfile checks that a custom saw profile can drive the generator.
func ValidateProfile(p model.GCodeProfile) error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("profile has no name")
	}
	for _, b := range model.GCodeProfiles {
		if strings.EqualFold(b.Name, p.Name) {
			return fmt.Errorf("profile %q shadows a built-in profile", p.Name)
		}
	}
	if p.FeedMove == "" || p.RapidMove == "" {
		return fmt.Errorf("profile %q: rapid and feed move codes are required", p.Name)
	}
	if p.DecimalPlaces < 0 || p.DecimalPlaces > 6 {
		return fmt.Errorf("profile %q: decimal places %d out of range 0-6", p.Name, p.DecimalPlaces)
	}
	return nil
}

// SaveCustomProfiles saves custom profiles to a JSON file.
func SaveCustomProfiles(path string, profiles []model.GCodeProfile) error {
	for _, p := range profiles {
		if err := ValidateProfile(p); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCustomProfiles loads custom profiles from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadCustomProfiles(path string) ([]model.GCodeProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.GCodeProfile{}, nil
		}
		return nil, err
	}

	var profiles []model.GCodeProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parse saw profiles %s: %w", path, err)
	}
	for i := range profiles {
		profiles[i].IsBuiltIn = false
	}
	return profiles, nil
}

// ImportProfile reads a single shared profile file.
func ImportProfile(path string) (model.GCodeProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.GCodeProfile{}, err
	}
	var profile model.GCodeProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return model.GCodeProfile{}, err
	}
	profile.IsBuiltIn = false
	if err := ValidateProfile(profile); err != nil {
		return model.GCodeProfile{}, err
	}
	return profile, nil
}
