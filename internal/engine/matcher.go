package engine

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/piwi3910/BeamCut/internal/model"
)

// UnmatchedReason explains why an element produced no match.
type UnmatchedReason string

const (
	ReasonNoCatalogProfile UnmatchedReason = "no_catalog_profile"
	ReasonNoStandardLength UnmatchedReason = "no_standard_length"
)

// Unmatched is an element the matcher could not turn into a sellable beam.
type Unmatched struct {
	Element model.HarvestedElement `json:"element"`
	Reason  UnmatchedReason        `json:"reason"`
}

// MatchReport is the outcome of matching a batch of elements.
type MatchReport struct {
	Results   []model.MatchResult `json:"results"`
	Unmatched []Unmatched         `json:"unmatched"`
	Remnants  []model.Remnant     `json:"remnants"`
	Currency  string              `json:"currency"`
}

// MatchSummary aggregates a report. Length totals cover matched elements.
type MatchSummary struct {
	Elements         int                     `json:"elements"`
	Matched          int                     `json:"matched"`
	Unmatched        int                     `json:"unmatched"`
	OriginalLength   int                     `json:"original_length_mm"`
	ReusableLength   int                     `json:"reusable_length_mm"`
	WasteLength      int                     `json:"waste_length_mm"`
	RemnantLength    int                     `json:"remnant_length_mm"`
	ReusableWeightKg float64                 `json:"reusable_weight_kg"`
	TotalValue       decimal.Decimal         `json:"total_value"`
	AverageScore     int                     `json:"average_score"`
	Bands            map[model.ScoreBand]int `json:"bands"`
}

// Summary computes the report totals. The average score is rounded half up.
func (r MatchReport) Summary() MatchSummary {
	s := MatchSummary{
		Elements:   len(r.Results) + len(r.Unmatched),
		Matched:    len(r.Results),
		Unmatched:  len(r.Unmatched),
		TotalValue: decimal.Zero,
		Bands: map[model.ScoreBand]int{
			model.BandHigh:   0,
			model.BandMedium: 0,
			model.BandLow:    0,
		},
	}
	scoreSum := 0
	for _, res := range r.Results {
		s.OriginalLength += res.Element.Length
		s.ReusableLength += res.CutPlan.UsableLength
		s.WasteLength += res.CutPlan.TotalWaste()
		s.ReusableWeightKg += model.MassKg(res.CutPlan.UsableLength, res.TargetProfile.WeightPerMeter)
		s.TotalValue = s.TotalValue.Add(res.EstimatedValue)
		s.Bands[res.Band()]++
		scoreSum += res.MatchScore
	}
	s.RemnantLength = model.TotalRemnantLength(r.Remnants)
	if s.Matched > 0 {
		s.AverageScore = (scoreSum*2 + s.Matched) / (2 * s.Matched)
	}
	return s
}

// Matcher runs the match pipeline: catalog match, cut plan, score, value.
type Matcher struct {
	Catalog  *model.Catalog
	Settings model.Settings
	logger   *zap.Logger
}

// New creates a matcher. A nil catalog uses the built-in tables and a nil
// logger discards output.
func New(catalog *model.Catalog, settings model.Settings, logger *zap.Logger) *Matcher {
	if catalog == nil {
		catalog = model.BuiltInCatalog()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{Catalog: catalog, Settings: settings, logger: logger}
}

// Match evaluates one element. The second return is false when the element's
// profile is not in the catalog or no standard length fits.
func (m *Matcher) Match(e model.HarvestedElement) (model.MatchResult, bool) {
	res, _, ok := m.match(e)
	return res, ok
}

func (m *Matcher) match(e model.HarvestedElement) (model.MatchResult, UnmatchedReason, bool) {
	profile, ok := m.Catalog.Match(e.ProfileName)
	if !ok {
		return model.MatchResult{}, ReasonNoCatalogProfile, false
	}

	plan, ok := EstimateCutPlan(e, profile, m.Settings.SafetyMargin)
	if !ok {
		return model.MatchResult{}, ReasonNoStandardLength, false
	}

	reuse := ReusePercent(plan.UsableLength, e.Length)
	return model.MatchResult{
		Element:        e,
		TargetProfile:  profile,
		CutPlan:        plan,
		MatchScore:     MatchScore(reuse, e.Condition),
		ReusePercent:   reuse,
		EstimatedValue: EstimateValue(plan.UsableLength, profile.WeightPerMeter, m.Settings.UnitPricePerKg),
	}, "", true
}

// MatchAll evaluates every element. Results keep the input order; elements
// without a match are listed with the reason. End pieces long enough to stock
// are collected as remnants.
func (m *Matcher) MatchAll(elements []model.HarvestedElement) MatchReport {
	report := MatchReport{
		Results:   []model.MatchResult{},
		Unmatched: []Unmatched{},
		Remnants:  []model.Remnant{},
		Currency:  m.Settings.Currency,
	}

	for _, e := range elements {
		res, reason, ok := m.match(e)
		if !ok {
			m.logger.Debug("element not matched",
				zap.String("element", e.ID),
				zap.String("profile", e.ProfileName),
				zap.Int("length_mm", e.Length),
				zap.String("reason", string(reason)))
			report.Unmatched = append(report.Unmatched, Unmatched{Element: e, Reason: reason})
			continue
		}
		report.Results = append(report.Results, res)
		report.Remnants = append(report.Remnants,
			model.DetectRemnants(e, res.CutPlan, m.Settings.KerfWidth, m.Settings.MinRemnant)...)
	}

	m.logger.Info("match run complete",
		zap.Int("elements", len(elements)),
		zap.Int("matched", len(report.Results)),
		zap.Int("unmatched", len(report.Unmatched)))
	return report
}
