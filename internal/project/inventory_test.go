package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/piwi3910/BeamCut/internal/model"
)

func TestExportAndImportStock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export", "stock.json")

	a := model.NewStockItem("HEA 300", 6000, true, decimal.RequireFromString("420.50"))
	a.OriginBuilding = "Hal A"
	b := model.NewStockItem("IPE 200", 4000, false, decimal.NewFromInt(75))

	if err := ExportStock(path, []model.StockItem{a, b}); err != nil {
		t.Fatalf("ExportStock failed: %v", err)
	}

	merged, added, err := ImportStock(path, []model.StockItem{a})
	if err != nil {
		t.Fatalf("ImportStock failed: %v", err)
	}
	if added != 1 {
		t.Errorf("expected 1 new item, got %d", added)
	}
	if len(merged) != 2 {
		t.Fatalf("expected 2 items after merge, got %d", len(merged))
	}
	if merged[1].ID != b.ID {
		t.Errorf("expected imported item %s, got %s", b.ID, merged[1].ID)
	}
	if !merged[1].SalePrice.Equal(decimal.NewFromInt(75)) {
		t.Errorf("expected price 75, got %s", merged[1].SalePrice)
	}
}

func TestImportStockInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	existing := []model.StockItem{model.NewStockItem("HEB 200", 5000, true, decimal.Zero)}
	merged, added, err := ImportStock(path, existing)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if added != 0 || len(merged) != 1 {
		t.Errorf("existing stock should be returned untouched, got %d items", len(merged))
	}
}

func TestMergeStockAssignsMissingIDs(t *testing.T) {
	incoming := []model.StockItem{
		{ProfileName: "UNP 200", Length: 3000},
		{ProfileName: "UNP 200", Length: 2500},
	}
	merged, added := MergeStock(nil, incoming)
	if added != 2 {
		t.Fatalf("expected 2 added, got %d", added)
	}
	if merged[0].ID == "" || merged[0].ID == merged[1].ID {
		t.Errorf("expected distinct generated IDs, got %q and %q", merged[0].ID, merged[1].ID)
	}
	if merged[0].Status != model.StockAvailable {
		t.Errorf("expected status available, got %s", merged[0].Status)
	}
}

func TestSaveAndLoadDemandList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demand.json")
	list := DemandList{
		Name: "Loods Noord",
		Items: []model.DemandItem{
			model.NewDemandItem("HEA 300", 5500, 2),
			{ProfileName: "IPE 200", Length: 3000},
		},
	}
	if err := SaveDemandList(path, list); err != nil {
		t.Fatalf("SaveDemandList failed: %v", err)
	}

	loaded, err := LoadDemandList(path)
	if err != nil {
		t.Fatalf("LoadDemandList failed: %v", err)
	}
	if loaded.Name != "Loods Noord" || len(loaded.Items) != 2 {
		t.Fatalf("unexpected demand list: %+v", loaded)
	}
	if loaded.Items[0].Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", loaded.Items[0].Quantity)
	}
	if loaded.Items[1].ID == "" {
		t.Error("expected generated ID for line without one")
	}
	if loaded.Items[1].Quantity != 1 {
		t.Errorf("expected zero quantity read as 1, got %d", loaded.Items[1].Quantity)
	}
}

func TestLoadDemandListRejectsHugeQuantity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demand.json")
	list := DemandList{Name: "Typo", Items: []model.DemandItem{
		model.NewDemandItem("HEA 300", 5500, model.MaxDemandQuantity+1),
	}}
	if err := SaveDemandList(path, list); err != nil {
		t.Fatalf("SaveDemandList failed: %v", err)
	}
	if _, err := LoadDemandList(path); err == nil {
		t.Fatal("expected error for quantity above the limit")
	}
}

func TestLoadDemandListMissingFile(t *testing.T) {
	if _, err := LoadDemandList(filepath.Join(t.TempDir(), "none.json")); err == nil {
		t.Fatal("expected error for missing demand list")
	}
}
