package engine

import (
	"testing"

	"github.com/piwi3910/BeamCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hea300(t *testing.T) model.CatalogProfile {
	t.Helper()
	p, ok := model.BuiltInCatalog().Find("HEA 300")
	require.True(t, ok)
	return p
}

func element(profile string, length int, cond model.Condition, zones ...model.DamageZone) model.HarvestedElement {
	e := model.NewElement(profile, length, cond)
	e.DamageZones = append(e.DamageZones, zones...)
	return e
}

func severe(start, end int) model.DamageZone {
	return model.DamageZone{Start: start, End: end, Kind: model.DamageCorrosion, Severity: model.SeveritySevere}
}

func assertPlanInvariants(t *testing.T, e model.HarvestedElement, plan model.CutPlan) {
	t.Helper()
	assert.Equal(t, e.Length, plan.TrimStart+plan.UsableLength+plan.TrimEnd, "trims and usable must add up to the length")
	assert.Equal(t, plan.WasteStart, plan.TrimStart)
	assert.Equal(t, plan.WasteEnd, plan.TrimEnd)
	assert.Equal(t, plan.UsableLength, plan.CutEnd-plan.CutStart)
	for _, z := range e.SevereZones() {
		if z.Start <= 0 || z.End >= e.Length {
			assert.False(t, z.Overlaps(plan.CutStart, plan.CutEnd), "end zone %+v overlaps kept span", z)
		}
	}
}

func TestEstimateCutPlan_SevereCorrosionAtStart(t *testing.T) {
	e := element("HEA 300", 6500, model.ConditionGood, severe(0, 350))

	plan, ok := EstimateCutPlan(e, hea300(t), 50)
	require.True(t, ok)

	assert.Equal(t, 400, plan.SpanStart)
	assert.Equal(t, 6500, plan.SpanEnd)
	assert.Equal(t, 6000, plan.UsableLength)
	assert.Equal(t, 450, plan.WasteStart)
	assert.Equal(t, 50, plan.WasteEnd)
	assert.Equal(t, 450, plan.CutStart)
	assert.Equal(t, 6450, plan.CutEnd)
	assertPlanInvariants(t, e, plan)
}

func TestEstimateCutPlan_NoSevereZonesKeepsFullSpan(t *testing.T) {
	e := element("HEA 300", 8200, model.ConditionGood,
		model.DamageZone{Start: 0, End: 500, Kind: model.DamageWeld, Severity: model.SeverityModerate},
		model.DamageZone{Start: 7900, End: 8200, Kind: model.DamageBoltHole, Severity: model.SeverityLight},
	)

	plan, ok := EstimateCutPlan(e, hea300(t), 50)
	require.True(t, ok)

	assert.Equal(t, 0, plan.SpanStart)
	assert.Equal(t, 8200, plan.SpanEnd)
	assert.Equal(t, 8000, plan.UsableLength)
	assert.Equal(t, 100, plan.CutStart)
	assertPlanInvariants(t, e, plan)
}

func TestEstimateCutPlan_InteriorSevereZoneIgnored(t *testing.T) {
	e := element("HEA 300", 6000, model.ConditionGood, severe(2000, 2500))

	plan, ok := EstimateCutPlan(e, hea300(t), 50)
	require.True(t, ok)
	assert.Equal(t, 6000, plan.UsableLength)
	assert.Equal(t, 0, plan.TrimStart)
	assert.Equal(t, 0, plan.TrimEnd)
}

func TestEstimateCutPlan_SevereAtBothEnds(t *testing.T) {
	e := element("HEA 300", 8000, model.ConditionFair, severe(0, 300), severe(7600, 8000))

	plan, ok := EstimateCutPlan(e, hea300(t), 50)
	require.True(t, ok)

	assert.Equal(t, 350, plan.SpanStart)
	assert.Equal(t, 7550, plan.SpanEnd)
	assert.Equal(t, 6000, plan.UsableLength)
	assert.Equal(t, 950, plan.CutStart)
	assert.Equal(t, 6950, plan.CutEnd)
	assertPlanInvariants(t, e, plan)
}

func TestEstimateCutPlan_OddExtraRoundsTowardEnd(t *testing.T) {
	e := element("HEA 300", 6101, model.ConditionGood)

	plan, ok := EstimateCutPlan(e, hea300(t), 50)
	require.True(t, ok)
	assert.Equal(t, 51, plan.TrimStart)
	assert.Equal(t, 50, plan.TrimEnd)
	assertPlanInvariants(t, e, plan)
}

func TestEstimateCutPlan_NoPlan(t *testing.T) {
	p := hea300(t)

	tests := []struct {
		name string
		e    model.HarvestedElement
	}{
		{"too short", element("HEA 300", 5999, model.ConditionGood)},
		{"trim leaves too little", element("HEA 300", 6300, model.ConditionGood, severe(0, 300))},
		{"zero length", element("HEA 300", 0, model.ConditionGood)},
		{"negative length", element("HEA 300", -10, model.ConditionGood)},
		{"fully damaged", element("HEA 300", 7000, model.ConditionPoor, severe(0, 7000))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := EstimateCutPlan(tt.e, p, 50)
			assert.False(t, ok)
		})
	}
}

func TestEstimateCutPlan_InvariantsAcrossLengths(t *testing.T) {
	p := hea300(t)
	for length := 6000; length <= 13000; length += 137 {
		for _, zoneEnd := range []int{0, 120, 777} {
			var zones []model.DamageZone
			if zoneEnd > 0 {
				zones = append(zones, severe(0, zoneEnd), severe(length-zoneEnd/2, length))
			}
			e := element("HEA 300", length, model.ConditionGood, zones...)
			plan, ok := EstimateCutPlan(e, p, 50)
			if !ok {
				continue
			}
			assertPlanInvariants(t, e, plan)
			if zoneEnd == 0 {
				assert.Equal(t, 0, plan.SpanStart)
				assert.Equal(t, length, plan.SpanEnd)
			}
		}
	}
}

func TestTrimSpanNegativeMarginTreatedAsZero(t *testing.T) {
	e := element("HEA 300", 7000, model.ConditionGood, severe(0, 200))
	start, end := TrimSpan(e, -100)
	assert.Equal(t, 200, start)
	assert.Equal(t, 7000, end)
}
