package engine

import (
	"testing"

	"github.com/piwi3910/BeamCut/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestMatch_HEA300WithCorrodedStart(t *testing.T) {
	m := New(nil, model.DefaultSettings(), zaptest.NewLogger(t))
	e := element("HEA300", 6500, model.ConditionGood, severe(0, 350))

	res, ok := m.Match(e)
	require.True(t, ok)

	assert.Equal(t, "HEA 300", res.TargetProfile.Name)
	assert.Equal(t, 6000, res.CutPlan.UsableLength)
	assert.Equal(t, 92, res.ReusePercent)
	assert.Equal(t, 92, res.MatchScore)
	assert.Equal(t, model.BandHigh, res.Band())
	assert.Equal(t, "424", res.EstimatedValue.String())
	assert.Equal(t, e.ID, res.Element.ID)
}

func TestMatch_PoorConditionScore(t *testing.T) {
	catalog := model.NewCatalog([]model.CatalogProfile{
		{Name: "IPE 300", WeightPerMeter: 42.2, StandardLengths: []int{4800}},
	})
	m := New(catalog, model.DefaultSettings(), nil)

	res, ok := m.Match(element("IPE 300", 5800, model.ConditionPoor))
	require.True(t, ok)

	assert.Equal(t, 4800, res.CutPlan.UsableLength)
	assert.Equal(t, 83, res.ReusePercent)
	assert.Equal(t, 63, res.MatchScore)
	assert.Equal(t, model.BandMedium, res.Band())
}

func TestMatch_RequiresExactProfile(t *testing.T) {
	m := New(nil, model.DefaultSettings(), nil)

	_, ok := m.Match(element("HEA 2000", 6500, model.ConditionGood))
	assert.False(t, ok)

	_, ok = m.Match(element("HEM 300", 6500, model.ConditionGood))
	assert.False(t, ok)
}

func TestMatch_DoesNotMutateElement(t *testing.T) {
	m := New(nil, model.DefaultSettings(), nil)
	e := element("HEA 300", 6500, model.ConditionGood, severe(0, 350))
	before := e.DamageZones[0]

	_, _ = m.Match(e)

	assert.Equal(t, before, e.DamageZones[0])
	assert.Equal(t, 6500, e.Length)
}

func TestMatch_ScoreAndValueBounds(t *testing.T) {
	m := New(nil, model.DefaultSettings(), nil)
	for _, cond := range []model.Condition{model.ConditionGood, model.ConditionFair, model.ConditionPoor} {
		for length := 6000; length <= 20000; length += 997 {
			res, ok := m.Match(element("IPE 200", length, cond, severe(0, 400)))
			if !ok {
				continue
			}
			assert.GreaterOrEqual(t, res.MatchScore, 0)
			assert.LessOrEqual(t, res.MatchScore, 100)
			assert.False(t, res.EstimatedValue.IsNegative())
		}
	}
}

func TestMatchAll_ReportsUnmatchedWithReason(t *testing.T) {
	m := New(nil, model.DefaultSettings(), zaptest.NewLogger(t))

	good := element("HEA 300", 6500, model.ConditionGood, severe(0, 350))
	unknown := element("HEA 2000", 6500, model.ConditionGood)
	short := element("IPE 200", 5000, model.ConditionGood)
	long := element("HEB 200", 9300, model.ConditionFair)

	report := m.MatchAll([]model.HarvestedElement{good, unknown, short, long})

	require.Len(t, report.Results, 2)
	assert.Equal(t, good.ID, report.Results[0].Element.ID)
	assert.Equal(t, long.ID, report.Results[1].Element.ID)

	require.Len(t, report.Unmatched, 2)
	assert.Equal(t, ReasonNoCatalogProfile, report.Unmatched[0].Reason)
	assert.Equal(t, unknown.ID, report.Unmatched[0].Element.ID)
	assert.Equal(t, ReasonNoStandardLength, report.Unmatched[1].Reason)
	assert.Equal(t, "EUR", report.Currency)

	// HEB 200 at 9300: 8000 kept, 650 at each end; both ends become remnants.
	require.Len(t, report.Remnants, 2)
	for _, r := range report.Remnants {
		assert.Equal(t, long.ID, r.SourceElement)
		assert.Equal(t, 645, r.Length)
	}
}

func TestMatchReportSummary(t *testing.T) {
	m := New(nil, model.DefaultSettings(), nil)
	report := m.MatchAll([]model.HarvestedElement{
		element("HEA 300", 6500, model.ConditionGood, severe(0, 350)), // score 92, value 424
		element("HEA 300", 6000, model.ConditionPoor),                 // score 80, value 424
		element("UNP 100", 1000, model.ConditionGood),
	})

	sum := report.Summary()
	assert.Equal(t, 3, sum.Elements)
	assert.Equal(t, 2, sum.Matched)
	assert.Equal(t, 1, sum.Unmatched)
	assert.Equal(t, 12500, sum.OriginalLength)
	assert.Equal(t, 12000, sum.ReusableLength)
	assert.Equal(t, 500, sum.WasteLength)
	assert.Equal(t, 86, sum.AverageScore)
	assert.True(t, decimal.NewFromInt(848).Equal(sum.TotalValue))
	assert.InDelta(t, 1059.6, sum.ReusableWeightKg, 1e-6)
	assert.Equal(t, 2, sum.Bands[model.BandHigh])
	assert.Equal(t, 0, sum.Bands[model.BandLow])
}

func TestMatchReportSummaryEmpty(t *testing.T) {
	sum := MatchReport{}.Summary()
	assert.Equal(t, 0, sum.Elements)
	assert.Equal(t, 0, sum.AverageScore)
	assert.True(t, sum.TotalValue.IsZero())
}
