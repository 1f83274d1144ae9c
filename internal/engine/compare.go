package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/piwi3910/BeamCut/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string         `json:"name"`
	Settings model.Settings `json:"settings"`
}

// ComparisonResult holds the match report and headline numbers for a
// single scenario.
type ComparisonResult struct {
	Scenario       ComparisonScenario `json:"scenario"`
	Report         MatchReport        `json:"report"`
	Matched        int                `json:"matched"`
	Unmatched      int                `json:"unmatched"`
	ReusableLength int                `json:"reusable_length_mm"`
	WastePercent   float64            `json:"waste_percent"`
	TotalValue     decimal.Decimal    `json:"total_value"`
	AverageScore   int                `json:"average_score"`
}

// CompareScenarios runs the matcher under each scenario's settings and
// returns the results in scenario order.
func CompareScenarios(catalog *model.Catalog, scenarios []ComparisonScenario, elements []model.HarvestedElement) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		m := New(catalog, scenario.Settings, nil)
		report := m.MatchAll(elements)
		sum := report.Summary()

		wastePercent := 0.0
		if sum.OriginalLength > 0 {
			wastePercent = float64(sum.WasteLength) / float64(sum.OriginalLength) * 100
		}

		results = append(results, ComparisonResult{
			Scenario:       scenario,
			Report:         report,
			Matched:        sum.Matched,
			Unmatched:      sum.Unmatched,
			ReusableLength: sum.ReusableLength,
			WastePercent:   wastePercent,
			TotalValue:     sum.TotalValue,
			AverageScore:   sum.AverageScore,
		})
	}

	return results
}

// BuildDefaultScenarios generates what-if alternatives around the current
// settings: a tighter and a wider safety margin and a price band of ±25%.
func BuildDefaultScenarios(base model.Settings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Settings", Settings: base},
	}

	for _, margin := range []int{25, 100} {
		if margin == base.SafetyMargin {
			continue
		}
		s := base
		s.SafetyMargin = margin
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Margin %dmm", margin),
			Settings: s,
		})
	}

	if base.UnitPricePerKg.IsPositive() {
		low := base
		low.UnitPricePerKg = base.UnitPricePerKg.Mul(decimal.RequireFromString("0.75"))
		high := base
		high.UnitPricePerKg = base.UnitPricePerKg.Mul(decimal.RequireFromString("1.25"))
		scenarios = append(scenarios,
			ComparisonScenario{Name: fmt.Sprintf("Price %s/kg (-25%%)", low.UnitPricePerKg.StringFixed(2)), Settings: low},
			ComparisonScenario{Name: fmt.Sprintf("Price %s/kg (+25%%)", high.UnitPricePerKg.StringFixed(2)), Settings: high},
		)
	}

	return scenarios
}
