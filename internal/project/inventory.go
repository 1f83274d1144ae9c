package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/BeamCut/internal/model"
)

// ExportStock writes stock items to a JSON file for exchange with other yards.
func ExportStock(path string, items []model.StockItem) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if items == nil {
		items = []model.StockItem{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ImportStock reads stock items from a JSON file and appends those whose ID is
// not already in existing. It returns the merged list and the number added.
func ImportStock(path string, existing []model.StockItem) ([]model.StockItem, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, 0, err
	}
	var imported []model.StockItem
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, 0, fmt.Errorf("parse stock %s: %w", path, err)
	}
	merged, added := MergeStock(existing, imported)
	return merged, added, nil
}

// MergeStock appends items with unseen IDs. Items without an ID get one.
func MergeStock(existing, incoming []model.StockItem) ([]model.StockItem, int) {
	seen := make(map[string]bool, len(existing))
	for _, s := range existing {
		seen[s.ID] = true
	}
	added := 0
	for _, s := range incoming {
		if s.ID == "" {
			fresh := model.NewStockItem(s.ProfileName, s.Length, s.Harvested, s.SalePrice)
			s.ID = fresh.ID
			if s.Status == "" {
				s.Status = fresh.Status
			}
		}
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		existing = append(existing, s)
		added++
	}
	return existing, added
}

// DemandList is a saved set of demand lines, e.g. one new-build project.
type DemandList struct {
	Name  string             `json:"name"`
	Items []model.DemandItem `json:"items"`
}

// SaveDemandList writes a demand list as JSON.
func SaveDemandList(path string, list DemandList) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadDemandList reads a demand list. Lines without an ID are given one and a
// zero quantity is read as one.
func LoadDemandList(path string) (DemandList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DemandList{}, err
	}
	var list DemandList
	if err := json.Unmarshal(data, &list); err != nil {
		return DemandList{}, fmt.Errorf("parse demand list %s: %w", path, err)
	}
	for i, d := range list.Items {
		if d.ID == "" {
			list.Items[i].ID = model.NewDemandItem(d.ProfileName, d.Length, 1).ID
		}
		if d.Quantity <= 0 {
			list.Items[i].Quantity = 1
		}
		if d.Quantity > model.MaxDemandQuantity {
			return DemandList{}, fmt.Errorf("demand list %s: line %d: quantity %d exceeds %d",
				path, i+1, d.Quantity, model.MaxDemandQuantity)
		}
	}
	if list.Items == nil {
		list.Items = []model.DemandItem{}
	}
	return list, nil
}
