package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestConditionPenalty(t *testing.T) {
	cases := map[Condition]int{
		ConditionGood: 0,
		ConditionFair: 10,
		ConditionPoor: 20,
	}
	for c, want := range cases {
		if got := c.Penalty(); got != want {
			t.Errorf("%s: expected penalty %d, got %d", c, want, got)
		}
	}
}

func TestParseConditionAcceptsDutch(t *testing.T) {
	cases := map[string]Condition{
		"goed":    ConditionGood,
		"Matig":   ConditionFair,
		" slecht": ConditionPoor,
		"poor":    ConditionPoor,
	}
	for in, want := range cases {
		got, ok := ParseCondition(in)
		if !ok || got != want {
			t.Errorf("ParseCondition(%q) = %s, %v; want %s", in, got, ok, want)
		}
	}
	if _, ok := ParseCondition("rusty"); ok {
		t.Error("expected unknown condition to be rejected")
	}
}

func TestParseSeverityAndKind(t *testing.T) {
	if s, ok := ParseSeverity("zwaar"); !ok || s != SeveritySevere {
		t.Errorf("expected zwaar to parse as severe, got %s", s)
	}
	if s, ok := ParseSeverity("licht"); !ok || s != SeverityLight {
		t.Errorf("expected licht to parse as light, got %s", s)
	}
	if k, ok := ParseDamageKind("boutgat"); !ok || k != DamageBoltHole {
		t.Errorf("expected boutgat to parse as bolt_hole, got %s", k)
	}
	if _, ok := ParseDamageKind("paint"); ok {
		t.Error("expected unknown damage kind to be rejected")
	}
}

func TestDamageZoneOverlaps(t *testing.T) {
	z := DamageZone{Start: 100, End: 200}
	if !z.Overlaps(150, 300) {
		t.Error("expected overlap with [150,300)")
	}
	if z.Overlaps(200, 300) {
		t.Error("touching at the end must not count as overlap")
	}
	if z.Overlaps(0, 100) {
		t.Error("touching at the start must not count as overlap")
	}
}

func TestNewElement(t *testing.T) {
	e := NewElement("HEA 300", 6500, ConditionGood)
	if len(e.ID) != 8 {
		t.Errorf("expected 8 character ID, got %q", e.ID)
	}
	if e.DamageZones == nil {
		t.Error("DamageZones should not be nil")
	}
}

func TestSevereZones(t *testing.T) {
	e := NewElement("IPE 200", 5000, ConditionFair)
	e.DamageZones = []DamageZone{
		{Start: 0, End: 100, Severity: SeverityLight},
		{Start: 200, End: 300, Severity: SeveritySevere},
		{Start: 400, End: 500, Severity: SeverityModerate},
	}
	severe := e.SevereZones()
	if len(severe) != 1 || severe[0].Start != 200 {
		t.Errorf("expected only the severe zone, got %+v", severe)
	}
}

func TestCutPlanPositions(t *testing.T) {
	p := CutPlan{CutStart: 450, CutEnd: 6450, WasteStart: 450, WasteEnd: 50}
	cuts := p.CutPositions(6500)
	if len(cuts) != 2 || cuts[0] != 450 || cuts[1] != 6450 {
		t.Errorf("expected cuts [450 6450], got %v", cuts)
	}
	if p.TotalWaste() != 500 {
		t.Errorf("expected total waste 500, got %d", p.TotalWaste())
	}

	exact := CutPlan{CutStart: 0, CutEnd: 6000}
	if cuts := exact.CutPositions(6000); len(cuts) != 0 {
		t.Errorf("expected no cuts for an exact length, got %v", cuts)
	}
}

func TestMatchResultBand(t *testing.T) {
	cases := []struct {
		score int
		want  ScoreBand
	}{
		{100, BandHigh},
		{80, BandHigh},
		{79, BandMedium},
		{60, BandMedium},
		{59, BandLow},
		{0, BandLow},
	}
	for _, c := range cases {
		r := MatchResult{MatchScore: c.score}
		if got := r.Band(); got != c.want {
			t.Errorf("score %d: expected %s, got %s", c.score, c.want, got)
		}
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.SafetyMargin != 50 {
		t.Errorf("expected margin 50, got %d", s.SafetyMargin)
	}
	if s.UnitPricePerKg.String() != "0.8" {
		t.Errorf("expected unit price 0.8, got %s", s.UnitPricePerKg)
	}
	if s.Currency != "EUR" {
		t.Errorf("expected EUR, got %s", s.Currency)
	}
}

func TestSettingsValidate(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Errorf("default settings rejected: %v", err)
	}

	cases := map[string]func(*Settings){
		"negative margin":      func(s *Settings) { s.SafetyMargin = -1 },
		"negative kerf":        func(s *Settings) { s.KerfWidth = -6000 },
		"negative min remnant": func(s *Settings) { s.MinRemnant = -1 },
		"negative price":       func(s *Settings) { s.UnitPricePerKg = decimal.NewFromInt(-1) },
		"negative discount":    func(s *Settings) { s.NonStandardDiscount = decimal.NewFromFloat(-0.5) },
	}
	for name, mutate := range cases {
		s := DefaultSettings()
		mutate(&s)
		if err := s.Validate(); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}

	zero := DefaultSettings()
	zero.KerfWidth = 0
	zero.MinRemnant = 0
	if err := zero.Validate(); err != nil {
		t.Errorf("zero kerf and remnant should be valid: %v", err)
	}
}

func TestAllProfilesIncludesBuiltInAndCustom(t *testing.T) {
	builtInCount := len(GCodeProfiles)
	if all := AllProfiles(nil); len(all) != builtInCount {
		t.Errorf("expected %d profiles with no custom, got %d", builtInCount, len(all))
	}

	custom := []GCodeProfile{{Name: "Custom1", Description: "Test custom", IsBuiltIn: true}}
	all := AllProfiles(custom)
	if len(all) != builtInCount+1 {
		t.Errorf("expected %d profiles with 1 custom, got %d", builtInCount+1, len(all))
	}
	if all[len(all)-1].IsBuiltIn {
		t.Error("custom profile must not be marked built-in")
	}
}

func TestAllProfilesSkipsShadowedBuiltIn(t *testing.T) {
	custom := []GCodeProfile{{Name: "Generic", Description: "shadow"}}
	if all := AllProfiles(custom); len(all) != len(GCodeProfiles) {
		t.Errorf("expected custom Generic to be skipped, got %d profiles", len(all))
	}
}

func TestGetProfileFindsCustom(t *testing.T) {
	custom := []GCodeProfile{{Name: "MyCustom", RapidMove: "G0", FeedMove: "G1"}}
	if p := GetProfile("MyCustom", custom...); p.Name != "MyCustom" {
		t.Errorf("expected MyCustom, got %s", p.Name)
	}
}

func TestGetProfileFallsBackToGeneric(t *testing.T) {
	if p := GetProfile("NonExistent"); p.Name != "Generic" {
		t.Errorf("expected Generic fallback, got %s", p.Name)
	}
}

func TestGetProfileNamesIncludesCustom(t *testing.T) {
	names := GetProfileNames(GCodeProfile{Name: "CustomA"}, GCodeProfile{Name: "CustomB"})
	found := map[string]bool{}
	for _, n := range names {
		found[n] = true
	}
	for _, want := range []string{"Generic", "LinuxCNC", "CustomA", "CustomB"} {
		if !found[want] {
			t.Errorf("expected %s in profile names", want)
		}
	}
}
