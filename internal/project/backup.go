package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/BeamCut/internal/model"
)

// BackupVersion is written into every backup file.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version     string                 `json:"version"`
	CreatedAt   string                 `json:"created_at"`
	Config      model.AppConfig        `json:"config"`
	Catalog     []model.CatalogProfile `json:"catalog,omitempty"` // custom entries only
	SawProfiles []model.GCodeProfile   `json:"saw_profiles,omitempty"`
	Stock       []model.StockItem      `json:"stock"`
}

// ExportAllData writes config, custom catalog entries, custom saw profiles and
// the stock register to a single JSON file.
func ExportAllData(exportPath string, backup BackupData) error {
	backup.Version = BackupVersion
	backup.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	if backup.Stock == nil {
		backup.Stock = []model.StockItem{}
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying it.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.Config.RecentFiles == nil {
		backup.Config.RecentFiles = []string{}
	}
	if backup.Stock == nil {
		backup.Stock = []model.StockItem{}
	}
	for i := range backup.SawProfiles {
		backup.SawProfiles[i].IsBuiltIn = false
	}
	return backup, nil
}
