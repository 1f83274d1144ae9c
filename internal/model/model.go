package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Condition is the overall visual/structural grade of a harvested element.
type Condition string

const (
	ConditionGood Condition = "good"
	ConditionFair Condition = "fair"
	ConditionPoor Condition = "poor"
)

// Penalty returns the score points deducted for this condition.
func (c Condition) Penalty() int {
	switch c {
	case ConditionPoor:
		return 20
	case ConditionFair:
		return 10
	default:
		return 0
	}
}

// ParseCondition accepts English and Dutch grades ("goed", "matig", "slecht").
func ParseCondition(s string) (Condition, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "good", "goed", "g":
		return ConditionGood, true
	case "fair", "matig", "f":
		return ConditionFair, true
	case "poor", "slecht", "bad", "p":
		return ConditionPoor, true
	default:
		return ConditionGood, false
	}
}

// DamageKind describes what caused a damage zone.
type DamageKind string

const (
	DamageCorrosion  DamageKind = "corrosion"
	DamageMechanical DamageKind = "mechanical_damage"
	DamageWeld       DamageKind = "weld"
	DamageBoltHole   DamageKind = "bolt_hole"
)

// ParseDamageKind accepts English and Dutch names.
func ParseDamageKind(s string) (DamageKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "corrosion", "corrosie", "rust":
		return DamageCorrosion, true
	case "mechanical_damage", "mechanical", "damage", "schade":
		return DamageMechanical, true
	case "weld", "lasnaad", "las":
		return DamageWeld, true
	case "bolt_hole", "bolthole", "hole", "boutgat":
		return DamageBoltHole, true
	default:
		return DamageCorrosion, false
	}
}

// Severity grades a damage zone. Only severe zones force trims.
type Severity string

const (
	SeverityLight    Severity = "light"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// ParseSeverity accepts English and Dutch grades ("licht", "matig", "zwaar").
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light", "licht", "minor":
		return SeverityLight, true
	case "moderate", "matig", "medium":
		return SeverityModerate, true
	case "severe", "zwaar", "heavy":
		return SeveritySevere, true
	default:
		return SeverityLight, false
	}
}

// DamageZone is a defect interval along an element, in mm from the start end.
type DamageZone struct {
	Start    int        `json:"start_mm"`
	End      int        `json:"end_mm"`
	Kind     DamageKind `json:"kind"`
	Severity Severity   `json:"severity"`
}

// Overlaps reports whether the zone intersects the half-open span [from, to).
func (z DamageZone) Overlaps(from, to int) bool {
	return z.Start < to && z.End > from
}

// HarvestedElement is a steel piece recovered from a building being taken apart.
type HarvestedElement struct {
	ID             string       `json:"id"`
	ProfileName    string       `json:"profile_name"`
	Length         int          `json:"length_mm"`
	Condition      Condition    `json:"condition"`
	OriginBuilding string       `json:"origin_building"`
	OriginLocation string       `json:"origin_location"`
	DamageZones    []DamageZone `json:"damage_zones"`
}

func NewElement(profileName string, length int, condition Condition) HarvestedElement {
	return HarvestedElement{
		ID:          uuid.New().String()[:8],
		ProfileName: profileName,
		Length:      length,
		Condition:   condition,
		DamageZones: []DamageZone{},
	}
}

// SevereZones returns only the zones graded severe.
func (e HarvestedElement) SevereZones() []DamageZone {
	var zones []DamageZone
	for _, z := range e.DamageZones {
		if z.Severity == SeveritySevere {
			zones = append(zones, z)
		}
	}
	return zones
}

// CutPlan is the trim layout for one element against one standard length.
//
// SpanStart/SpanEnd are the positions left after mandatory trims of severe
// end damage. CutStart/CutEnd are the final saw positions once the standard
// length is centred in that span. TrimStart and TrimEnd are the amounts
// removed from each physical end and equal WasteStart and WasteEnd.
type CutPlan struct {
	TrimStart    int `json:"trim_start_mm"`
	TrimEnd      int `json:"trim_end_mm"`
	UsableLength int `json:"usable_length_mm"`
	WasteStart   int `json:"waste_start_mm"`
	WasteEnd     int `json:"waste_end_mm"`
	SpanStart    int `json:"span_start_mm"`
	SpanEnd      int `json:"span_end_mm"`
	CutStart     int `json:"cut_start_mm"`
	CutEnd       int `json:"cut_end_mm"`
}

// TotalWaste returns the length removed from both ends.
func (p CutPlan) TotalWaste() int {
	return p.WasteStart + p.WasteEnd
}

// CutPositions returns the saw positions that are not at a physical end.
func (p CutPlan) CutPositions(length int) []int {
	var cuts []int
	if p.CutStart > 0 {
		cuts = append(cuts, p.CutStart)
	}
	if p.CutEnd < length {
		cuts = append(cuts, p.CutEnd)
	}
	return cuts
}

// MatchResult joins an element to the catalog profile it can be sold as.
type MatchResult struct {
	Element        HarvestedElement `json:"element"`
	TargetProfile  CatalogProfile   `json:"target_profile"`
	CutPlan        CutPlan          `json:"cut_plan"`
	MatchScore     int              `json:"match_score"`
	ReusePercent   int              `json:"reuse_percent"`
	EstimatedValue decimal.Decimal  `json:"estimated_value"`
}

// ScoreBand buckets a match score for display.
type ScoreBand string

const (
	BandHigh   ScoreBand = "high"
	BandMedium ScoreBand = "medium"
	BandLow    ScoreBand = "low"
)

// Band returns the score band of the result.
func (r MatchResult) Band() ScoreBand {
	switch {
	case r.MatchScore >= 80:
		return BandHigh
	case r.MatchScore >= 60:
		return BandMedium
	default:
		return BandLow
	}
}

// Settings holds the estimator and pricing parameters.
type Settings struct {
	SafetyMargin        int             `json:"safety_margin_mm"`     // Extra trim past a severe end zone
	UnitPricePerKg      decimal.Decimal `json:"unit_price_per_kg"`    // Resale price of reused steel
	KerfWidth           int             `json:"kerf_width_mm"`        // Saw blade loss per cut
	MinRemnant          int             `json:"min_remnant_mm"`       // Shorter pieces are scrap
	NonStandardDiscount decimal.Decimal `json:"non_standard_discount"` // Value factor for off-catalog lengths
	Currency            string          `json:"currency"`

	// Saw program settings
	SawProfile string  `json:"saw_profile"`
	FeedRate   float64 `json:"feed_rate"`  // mm/min
	SafeZ      float64 `json:"safe_z"`     // mm above the beam
	BladeSpeed int     `json:"blade_speed"` // RPM
}

func DefaultSettings() Settings {
	return Settings{
		SafetyMargin:        50,
		UnitPricePerKg:      decimal.NewFromFloat(0.80),
		KerfWidth:           5,
		MinRemnant:          500,
		NonStandardDiscount: decimal.NewFromFloat(0.7),
		Currency:            "EUR",
		SawProfile:          "Generic",
		FeedRate:            120,
		SafeZ:               50,
		BladeSpeed:          1800,
	}
}

// Validate rejects settings the estimator cannot work with. Lengths and
// prices must not be negative.
func (s Settings) Validate() error {
	switch {
	case s.SafetyMargin < 0:
		return fmt.Errorf("safety margin %d must not be negative", s.SafetyMargin)
	case s.KerfWidth < 0:
		return fmt.Errorf("kerf width %d must not be negative", s.KerfWidth)
	case s.MinRemnant < 0:
		return fmt.Errorf("minimum remnant %d must not be negative", s.MinRemnant)
	case s.UnitPricePerKg.IsNegative():
		return fmt.Errorf("unit price %s must not be negative", s.UnitPricePerKg)
	case s.NonStandardDiscount.IsNegative():
		return fmt.Errorf("non-standard discount %s must not be negative", s.NonStandardDiscount)
	}
	return nil
}
