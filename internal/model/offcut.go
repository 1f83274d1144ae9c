package model

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Remnant is an end piece cut off a harvested element that is long and sound
// enough to go back into stock instead of the scrap bin.
type Remnant struct {
	ID            string `json:"id"`
	SourceElement string `json:"source_element"`
	ProfileName   string `json:"profile_name"`
	Start         int    `json:"start_mm"` // Position on the source element
	Length        int    `json:"length_mm"`
	AtStart       bool   `json:"at_start"` // Cut from the start end
}

// ToStockItem converts a remnant into a harvested stock item.
func (r Remnant) ToStockItem(originBuilding string) StockItem {
	item := NewStockItem(r.ProfileName, r.Length, true, decimal.Zero)
	item.OriginBuilding = originBuilding
	item.SourceElement = r.SourceElement
	return item
}

// DetectRemnants inspects the two end pieces a cut plan leaves behind. A piece
// is kept when, after removing the saw kerf and any severe damage it carries,
// at least minRemnant mm of clean steel remains. Results are longest first.
func DetectRemnants(e HarvestedElement, plan CutPlan, kerf, minRemnant int) []Remnant {
	// A negative kerf would reach into the sold beam.
	kerf = max(kerf, 0)
	minRemnant = max(minRemnant, 0)
	var out []Remnant

	// Start piece: [0, CutStart - kerf)
	if from, to, ok := cleanSpan(e, 0, plan.CutStart-kerf); ok && to-from >= minRemnant {
		out = append(out, Remnant{
			ID:            uuid.New().String()[:8],
			SourceElement: e.ID,
			ProfileName:   e.ProfileName,
			Start:         from,
			Length:        to - from,
			AtStart:       true,
		})
	}

	// End piece: [CutEnd + kerf, length)
	if from, to, ok := cleanSpan(e, plan.CutEnd+kerf, e.Length); ok && to-from >= minRemnant {
		out = append(out, Remnant{
			ID:            uuid.New().String()[:8],
			SourceElement: e.ID,
			ProfileName:   e.ProfileName,
			Start:         from,
			Length:        to - from,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Length > out[j].Length })
	return out
}

// cleanSpan shrinks [from, to) to the longest sub-span that no severe zone
// overlaps.
func cleanSpan(e HarvestedElement, from, to int) (int, int, bool) {
	if to <= from {
		return 0, 0, false
	}
	// Boundaries between severe zones, clipped to the span.
	type iv struct{ s, e int }
	var cuts []iv
	for _, z := range e.SevereZones() {
		if z.Overlaps(from, to) {
			cuts = append(cuts, iv{max(z.Start, from), min(z.End, to)})
		}
	}
	sort.Slice(cuts, func(i, j int) bool { return cuts[i].s < cuts[j].s })

	bestFrom, bestTo := 0, 0
	cursor := from
	for _, c := range cuts {
		if c.s-cursor > bestTo-bestFrom {
			bestFrom, bestTo = cursor, c.s
		}
		if c.e > cursor {
			cursor = c.e
		}
	}
	if to-cursor > bestTo-bestFrom {
		bestFrom, bestTo = cursor, to
	}
	return bestFrom, bestTo, bestTo > bestFrom
}

// TotalRemnantLength returns the combined length of all remnants.
func TotalRemnantLength(remnants []Remnant) int {
	total := 0
	for _, r := range remnants {
		total += r.Length
	}
	return total
}
