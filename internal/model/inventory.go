package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockStatus tracks where a stock item is in the sales flow.
type StockStatus string

const (
	StockAvailable  StockStatus = "available"
	StockReserved   StockStatus = "reserved"
	StockSold       StockStatus = "sold"
	StockProcessing StockStatus = "processing"
)

// ParseStockStatus returns the status for a stored value.
func ParseStockStatus(s string) (StockStatus, bool) {
	switch StockStatus(s) {
	case StockAvailable, StockReserved, StockSold, StockProcessing:
		return StockStatus(s), true
	default:
		return StockAvailable, false
	}
}

// StockItem is a beam held in the yard, either new or harvested.
type StockItem struct {
	ID             string          `json:"id"`
	ProfileName    string          `json:"profile_name"`
	Length         int             `json:"length_mm"`
	Harvested      bool            `json:"harvested"`
	OriginBuilding string          `json:"origin_building,omitempty"`
	SourceElement  string          `json:"source_element,omitempty"` // Harvested element ID it was cut from
	Status         StockStatus     `json:"status"`
	Location       string          `json:"location,omitempty"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	Certified      bool            `json:"certified"`
	AddedAt        time.Time       `json:"added_at"`
}

// NewStockItem creates an available stock item with a generated ID.
func NewStockItem(profileName string, length int, harvested bool, salePrice decimal.Decimal) StockItem {
	return StockItem{
		ID:          uuid.New().String()[:8],
		ProfileName: profileName,
		Length:      length,
		Harvested:   harvested,
		Status:      StockAvailable,
		SalePrice:   salePrice,
		AddedAt:     time.Now().UTC(),
	}
}

// WeightKg returns the item's mass using the catalog, or 0 if the profile is unknown.
func (s StockItem) WeightKg(c *Catalog) float64 {
	p, ok := c.Find(s.ProfileName)
	if !ok {
		return 0
	}
	return MassKg(s.Length, p.WeightPerMeter)
}

// PricePerKg returns the sale price divided by mass, or zero without a mass.
func (s StockItem) PricePerKg(c *Catalog) decimal.Decimal {
	w := s.WeightKg(c)
	if w <= 0 {
		return decimal.Zero
	}
	return s.SalePrice.Div(decimal.NewFromFloat(w))
}

// DemandItem is a requested beam from a buyer's order.
type DemandItem struct {
	ID             string   `json:"id"`
	ProfileName    string   `json:"profile_name"`
	Length         int      `json:"length_mm"`
	Quantity       int      `json:"quantity"`
	ToleranceMinus int      `json:"tolerance_minus_mm"` // How much shorter is acceptable
	Alternatives   []string `json:"alternatives,omitempty"`
	Priority       int      `json:"priority"` // 1 is highest
}

// MaxDemandQuantity is the largest quantity one demand line may ask for.
const MaxDemandQuantity = 1000

// NewDemandItem creates a demand line with a generated ID.
func NewDemandItem(profileName string, length, quantity int) DemandItem {
	return DemandItem{
		ID:          uuid.New().String()[:8],
		ProfileName: profileName,
		Length:      length,
		Quantity:    quantity,
		Priority:    1,
	}
}

// ProfileAlternatives lists accepted substitutes for common profiles.
var ProfileAlternatives = map[string][]string{
	"HEA 200": {"HEB 180", "IPE 240"},
	"HEB 200": {"HEA 220", "IPE 270"},
	"IPE 200": {"HEA 160"},
}
