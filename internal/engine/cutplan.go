package engine

import (
	"github.com/piwi3910/BeamCut/internal/model"
)

// TrimSpan returns the part of an element left after cutting away severe
// damage that touches either physical end, plus margin mm of clearance.
// Severe zones in the interior and all light or moderate zones are ignored.
// The returned span may be empty or inverted when the damage covers the
// whole element.
func TrimSpan(e model.HarvestedElement, margin int) (start, end int) {
	if margin < 0 {
		margin = 0
	}
	start, end = 0, e.Length
	for _, z := range e.SevereZones() {
		if z.Start <= 0 {
			start = max(start, z.End+margin)
		}
		if z.End >= e.Length {
			end = min(end, z.Start-margin)
		}
	}
	return start, end
}

// EstimateCutPlan fits the longest standard length of profile into the
// element's trimmed span and centres it there. It returns false when the
// element has no length or no standard length fits.
func EstimateCutPlan(e model.HarvestedElement, profile model.CatalogProfile, margin int) (model.CutPlan, bool) {
	if e.Length <= 0 {
		return model.CutPlan{}, false
	}

	spanStart, spanEnd := TrimSpan(e, margin)
	available := spanEnd - spanStart

	chosen, ok := profile.LargestStandardLength(available)
	if !ok {
		return model.CutPlan{}, false
	}

	// Half a millimetre rounds towards the end of the beam.
	extra := available - chosen
	cutStart := spanStart + (extra+1)/2
	cutEnd := cutStart + chosen

	return model.CutPlan{
		TrimStart:    cutStart,
		TrimEnd:      e.Length - cutEnd,
		UsableLength: chosen,
		WasteStart:   cutStart,
		WasteEnd:     e.Length - cutEnd,
		SpanStart:    spanStart,
		SpanEnd:      spanEnd,
		CutStart:     cutStart,
		CutEnd:       cutEnd,
	}, true
}
