package engine

import (
	"testing"

	"github.com/piwi3910/BeamCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaultScenarios(t *testing.T) {
	scenarios := BuildDefaultScenarios(model.DefaultSettings())

	require.Len(t, scenarios, 5)
	assert.Equal(t, "Current Settings", scenarios[0].Name)
	assert.Equal(t, 25, scenarios[1].Settings.SafetyMargin)
	assert.Equal(t, 100, scenarios[2].Settings.SafetyMargin)
	assert.Equal(t, "0.6", scenarios[3].Settings.UnitPricePerKg.String())
	assert.Equal(t, "1", scenarios[4].Settings.UnitPricePerKg.String())
}

func TestCompareScenarios_MarginChangesOutcome(t *testing.T) {
	elements := []model.HarvestedElement{
		// 6000 + 350 + margin: fits at 25 and 50, not at 100
		element("HEA 300", 6420, model.ConditionGood, severe(0, 350)),
		element("IPE 200", 8000, model.ConditionGood),
	}

	results := CompareScenarios(nil, BuildDefaultScenarios(model.DefaultSettings()), elements)
	require.Len(t, results, 5)

	assert.Equal(t, 2, results[0].Matched)
	assert.Equal(t, 2, results[1].Matched)
	assert.Equal(t, 1, results[2].Matched)
	assert.Equal(t, 1, results[2].Unmatched)

	// Price scenarios keep the match set and scale the value.
	assert.Equal(t, results[0].ReusableLength, results[3].ReusableLength)
	assert.True(t, results[3].TotalValue.LessThan(results[0].TotalValue))
	assert.True(t, results[4].TotalValue.GreaterThan(results[0].TotalValue))
}
