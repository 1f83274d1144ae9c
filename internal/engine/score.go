package engine

import (
	"github.com/shopspring/decimal"

	"github.com/piwi3910/BeamCut/internal/model"
)

// ReusePercent returns usable as a whole percentage of length, halves
// rounded up. A non-positive length yields 0.
func ReusePercent(usable, length int) int {
	if length <= 0 || usable <= 0 {
		return 0
	}
	return (usable*200 + length) / (2 * length)
}

// MatchScore is the reuse percentage less the condition penalty, clamped
// to 0..100.
func MatchScore(reusePercent int, condition model.Condition) int {
	score := reusePercent - condition.Penalty()
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

var thousand = decimal.NewFromInt(1000)

// EstimateValue prices a usable length of a profile, rounded to whole
// currency units. Negative inputs count as zero.
func EstimateValue(usableMM int, weightPerMeter float64, unitPricePerKg decimal.Decimal) decimal.Decimal {
	if usableMM <= 0 || weightPerMeter <= 0 || !unitPricePerKg.IsPositive() {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(usableMM)).
		Div(thousand).
		Mul(decimal.NewFromFloat(weightPerMeter)).
		Mul(unitPricePerKg).
		Round(0)
}
