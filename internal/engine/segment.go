package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/piwi3910/BeamCut/internal/model"
)

// DefaultSegmentTargets are lengths the resale market asks for, longest first.
var DefaultSegmentTargets = []int{6000, 5000, 4000, 3000, 2000}

// StructuralMinLength is the shortest product sold for structural use.
const StructuralMinLength = 4000

// Segment is one product cut from an element.
type Segment struct {
	Start      int             `json:"start_mm"`
	End        int             `json:"end_mm"`
	Length     int             `json:"length_mm"`
	Standard   bool            `json:"standard"` // One of the target lengths
	Structural bool            `json:"structural"`
	Value      decimal.Decimal `json:"value"`
}

// SegmentPlan divides one element into several sellable products.
type SegmentPlan struct {
	ElementID    string          `json:"element_id"`
	SpanStart    int             `json:"span_start_mm"`
	SpanEnd      int             `json:"span_end_mm"`
	Segments     []Segment       `json:"segments"`
	CutPositions []int           `json:"cut_positions_mm"`
	Utilisation  float64         `json:"utilisation_percent"` // One decimal
	TotalValue   decimal.Decimal `json:"total_value"`
}

// PlanSegments greedily cuts the trimmed span of an element into the longest
// target lengths that fit, each cut losing the kerf. A final remainder of at
// least MinRemnant becomes a non-standard product valued at the discount
// factor. Nil targets use DefaultSegmentTargets. Negative kerf and minimum
// remnant count as zero.
func PlanSegments(e model.HarvestedElement, profile model.CatalogProfile, s model.Settings, targets []int) SegmentPlan {
	if len(targets) == 0 {
		targets = DefaultSegmentTargets
	}
	sorted := append([]int(nil), targets...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	// Each step must advance by a positive amount.
	s.KerfWidth = max(s.KerfWidth, 0)
	s.MinRemnant = max(s.MinRemnant, 0)

	spanStart, spanEnd := TrimSpan(e, s.SafetyMargin)
	plan := SegmentPlan{
		ElementID:    e.ID,
		SpanStart:    spanStart,
		SpanEnd:      spanEnd,
		Segments:     []Segment{},
		CutPositions: []int{},
		TotalValue:   decimal.Zero,
	}
	if spanEnd <= spanStart {
		return plan
	}
	if spanStart > 0 {
		plan.CutPositions = append(plan.CutPositions, spanStart)
	}

	pos := spanStart
	for spanEnd-pos > s.MinRemnant {
		remaining := spanEnd - pos
		length := 0
		for _, t := range sorted {
			if t > 0 && t <= remaining-s.KerfWidth {
				length = t
				break
			}
		}
		if length == 0 {
			if remaining >= s.MinRemnant {
				value := EstimateValue(remaining, profile.WeightPerMeter, s.UnitPricePerKg).
					Mul(s.NonStandardDiscount).Round(0)
				plan.Segments = append(plan.Segments, Segment{
					Start:      pos,
					End:        spanEnd,
					Length:     remaining,
					Structural: remaining >= StructuralMinLength,
					Value:      value,
				})
			}
			break
		}

		plan.Segments = append(plan.Segments, Segment{
			Start:      pos,
			End:        pos + length,
			Length:     length,
			Standard:   true,
			Structural: length >= StructuralMinLength,
			Value:      EstimateValue(length, profile.WeightPerMeter, s.UnitPricePerKg),
		})
		plan.CutPositions = append(plan.CutPositions, pos+length)
		pos += length + s.KerfWidth
	}

	used := 0
	for _, seg := range plan.Segments {
		used += seg.Length
		plan.TotalValue = plan.TotalValue.Add(seg.Value)
	}
	if e.Length > 0 {
		plan.Utilisation = float64((used*2000+e.Length)/(2*e.Length)) / 10
	}
	return plan
}
