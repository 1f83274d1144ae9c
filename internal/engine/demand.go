package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/piwi3910/BeamCut/internal/model"
)

// DemandStatus grades how well a stock item fills a demand line.
type DemandStatus string

const (
	StatusPerfect DemandStatus = "perfect" // >= 95% of the stock length used
	StatusGood    DemandStatus = "good"    // >= 80%
	StatusFair    DemandStatus = "fair"
	StatusNone    DemandStatus = "none"
)

func statusFor(efficiency float64) DemandStatus {
	switch {
	case efficiency >= 95:
		return StatusPerfect
	case efficiency >= 80:
		return StatusGood
	default:
		return StatusFair
	}
}

// DemandResult pairs a demand line with the stock item chosen for it.
type DemandResult struct {
	DemandID         string          `json:"demand_id"`
	StockID          string          `json:"stock_id,omitempty"`
	Status           DemandStatus    `json:"status"`
	RequestedProfile string          `json:"requested_profile"`
	MatchedProfile   string          `json:"matched_profile,omitempty"`
	RequestedLength  int             `json:"requested_length_mm"`
	AvailableLength  int             `json:"available_length_mm"`
	Rest             int             `json:"rest_mm"`
	Efficiency       float64         `json:"efficiency_percent"`
	EstimatedCost    decimal.Decimal `json:"estimated_cost"`
}

// Matched reports whether a stock item was assigned.
func (r DemandResult) Matched() bool { return r.Status != StatusNone }

// CuttingPlan lists the pieces cut from one stock item.
type CuttingPlan struct {
	StockID     string  `json:"stock_id"`
	ProfileName string  `json:"profile_name"`
	StockLength int     `json:"stock_length_mm"`
	Cuts        []Cut   `json:"cuts"`
	Rest        int     `json:"rest_mm"`
	UsedPercent float64 `json:"used_percent"`
}

// Cut is one requested piece inside a cutting plan.
type Cut struct {
	Length   int    `json:"length_mm"`
	DemandID string `json:"demand_id"`
}

// DemandMatcher assigns reuse stock to demand lines.
type DemandMatcher struct {
	KerfWidth  int
	MinRemnant int
}

// NewDemandMatcher takes kerf and minimum remnant from settings. Negative
// values count as zero.
func NewDemandMatcher(s model.Settings) *DemandMatcher {
	return &DemandMatcher{KerfWidth: max(s.KerfWidth, 0), MinRemnant: max(s.MinRemnant, 0)}
}

type candidate struct {
	item       model.StockItem
	rest       int
	efficiency float64
	exact      bool
}

func (dm *DemandMatcher) score(c candidate, preferHarvested bool) float64 {
	s := c.efficiency
	if c.exact {
		s += 100
	}
	if preferHarvested && c.item.Harvested {
		s += 20
	}
	if c.rest < dm.MinRemnant {
		s -= 10
	}
	return s
}

// efficiency is the share of the stock length delivered to the buyer.
// A shorter item accepted within tolerance counts as fully used.
func efficiency(requested, available int) float64 {
	if available <= 0 {
		return 0
	}
	return float64(min(requested, available)) / float64(available) * 100
}

func estimatedCost(item model.StockItem, requested int) decimal.Decimal {
	if item.Length <= 0 {
		return decimal.Zero
	}
	delivered := min(requested, item.Length)
	return item.SalePrice.Mul(decimal.NewFromInt(int64(delivered))).
		Div(decimal.NewFromInt(int64(item.Length))).Round(2)
}

// FindBestMatch picks the best available stock item for one demand line,
// considering its alternative profiles. Items must be at least the requested
// length less the tolerance.
func (dm *DemandMatcher) FindBestMatch(d model.DemandItem, stock []model.StockItem, preferHarvested bool) DemandResult {
	res := DemandResult{
		DemandID:         d.ID,
		Status:           StatusNone,
		RequestedProfile: d.ProfileName,
		RequestedLength:  d.Length,
		EstimatedCost:    decimal.Zero,
	}

	profiles := append([]string{d.ProfileName}, d.Alternatives...)
	var cands []candidate
	for i, want := range profiles {
		for _, item := range stock {
			if item.Status != model.StockAvailable || !sameProfile(item.ProfileName, want) {
				continue
			}
			if item.Length < d.Length-d.ToleranceMinus {
				continue
			}
			cands = append(cands, candidate{
				item:       item,
				rest:       item.Length - d.Length - dm.KerfWidth,
				efficiency: efficiency(d.Length, item.Length),
				exact:      i == 0,
			})
		}
	}
	if len(cands) == 0 {
		return res
	}

	sort.SliceStable(cands, func(i, j int) bool {
		return dm.score(cands[i], preferHarvested) > dm.score(cands[j], preferHarvested)
	})
	best := cands[0]

	res.StockID = best.item.ID
	res.Status = statusFor(best.efficiency)
	res.MatchedProfile = best.item.ProfileName
	res.AvailableLength = best.item.Length
	res.Rest = max(0, best.rest)
	res.Efficiency = best.efficiency
	res.EstimatedCost = estimatedCost(best.item, d.Length)
	return res
}

// OptimizeCutting assigns stock to all demand lines first-fit-decreasing per
// profile: each quantity unit becomes its own piece, the longest pieces are
// placed first on the longest available items, and every item is used once.
// Quantities above model.MaxDemandQuantity are cut to it.
func (dm *DemandMatcher) OptimizeCutting(demands []model.DemandItem, stock []model.StockItem) ([]DemandResult, []CuttingPlan) {
	type piece struct {
		demand  model.DemandItem
		profile string
	}

	perProfile := make(map[string][]piece)
	var order []string
	for _, d := range demands {
		key := canonicalProfile(d.ProfileName)
		if _, seen := perProfile[key]; !seen {
			order = append(order, key)
		}
		for q := 0; q < min(d.Quantity, model.MaxDemandQuantity); q++ {
			perProfile[key] = append(perProfile[key], piece{demand: d, profile: key})
		}
	}
	sort.Strings(order)

	used := make(map[string]bool)
	results := []DemandResult{}
	plans := []CuttingPlan{}

	for _, profile := range order {
		pieces := perProfile[profile]
		sort.SliceStable(pieces, func(i, j int) bool { return pieces[i].demand.Length > pieces[j].demand.Length })

		var avail []model.StockItem
		for _, item := range stock {
			if item.Status == model.StockAvailable && sameProfile(item.ProfileName, profile) {
				avail = append(avail, item)
			}
		}
		sort.SliceStable(avail, func(i, j int) bool { return avail[i].Length > avail[j].Length })

		for _, p := range pieces {
			d := p.demand
			res := DemandResult{
				DemandID:         d.ID,
				Status:           StatusNone,
				RequestedProfile: d.ProfileName,
				RequestedLength:  d.Length,
				EstimatedCost:    decimal.Zero,
			}
			for _, item := range avail {
				if used[item.ID] {
					continue
				}
				rest := item.Length - d.Length - dm.KerfWidth
				if rest < -d.ToleranceMinus {
					continue
				}
				eff := efficiency(d.Length, item.Length)
				res.StockID = item.ID
				res.Status = statusFor(eff)
				res.MatchedProfile = item.ProfileName
				res.AvailableLength = item.Length
				res.Rest = max(0, rest)
				res.Efficiency = eff
				res.EstimatedCost = estimatedCost(item, d.Length)

				plans = append(plans, CuttingPlan{
					StockID:     item.ID,
					ProfileName: item.ProfileName,
					StockLength: item.Length,
					Cuts:        []Cut{{Length: d.Length, DemandID: d.ID}},
					Rest:        res.Rest,
					UsedPercent: eff,
				})
				used[item.ID] = true
				break
			}
			results = append(results, res)
		}
	}
	return results, plans
}

// EfficiencyStats summarises a set of demand results.
type EfficiencyStats struct {
	MatchPercent      float64         `json:"match_percent"`
	AverageEfficiency float64         `json:"average_efficiency"`
	TotalRest         int             `json:"total_rest_mm"`
	TotalCost         decimal.Decimal `json:"total_cost"`
}

// Efficiency computes match rate, mean efficiency, rest and cost over the
// matched results.
func Efficiency(results []DemandResult) EfficiencyStats {
	stats := EfficiencyStats{TotalCost: decimal.Zero}
	matched := 0
	effSum := 0.0
	for _, r := range results {
		if !r.Matched() {
			continue
		}
		matched++
		effSum += r.Efficiency
		stats.TotalRest += r.Rest
		stats.TotalCost = stats.TotalCost.Add(r.EstimatedCost)
	}
	if matched == 0 {
		return stats
	}
	stats.MatchPercent = float64(matched) / float64(len(results)) * 100
	stats.AverageEfficiency = effSum / float64(matched)
	return stats
}

func canonicalProfile(name string) string {
	if t, size, ok := model.ParseProfileName(name); ok {
		return model.ProfileName(t, size)
	}
	return name
}

func sameProfile(a, b string) bool {
	return canonicalProfile(a) == canonicalProfile(b)
}
