package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/BeamCut/internal/model"
)

// MinDXFMemberLength drops tiny strokes such as hatch or annotation debris.
const MinDXFMemberLength = 100.0

// ImportDXF imports elements from a structural DXF drawing. Each LINE or
// LWPOLYLINE is a member drawn along its centre line; the layer name carries
// the profile (e.g. layer "HEA 300"). The element length is the drawn length
// rounded to whole millimetres. Members on layers that are not a profile
// designation are skipped with a warning per layer.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	skippedLayers := make(map[string]int)
	for _, ent := range entities {
		var length float64
		switch e := ent.(type) {
		case *entity.Line:
			length = distance(e.Start, e.End)
		case *entity.LwPolyline:
			length = polylineLength(e)
		default:
			// Only straight members are imported
			continue
		}

		layer := layerName(ent)
		t, size, ok := model.ParseProfileName(layer)
		if !ok {
			skippedLayers[layer]++
			continue
		}

		if length < MinDXFMemberLength {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped %.1f mm stroke on layer '%s'", length, layer))
			continue
		}

		e := model.NewElement(model.ProfileName(t, size), int(math.Round(length)), model.ConditionGood)
		e.OriginLocation = fmt.Sprintf("DXF %s #%d", layer, len(result.Elements)+1)
		result.Elements = append(result.Elements, e)
	}

	layers := make([]string, 0, len(skippedLayers))
	for l := range skippedLayers {
		layers = append(layers, l)
	}
	sort.Strings(layers)
	for _, l := range layers {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Skipped %d member(s) on layer '%s': not a profile name", skippedLayers[l], l))
	}

	if len(result.Elements) == 0 {
		result.Errors = append(result.Errors, "No profile members found in DXF file")
	}
	return result
}

func layerName(ent entity.Entity) string {
	l := ent.Layer()
	if l == nil {
		return ""
	}
	return l.Name()
}

// distance returns the length between two DXF points of 2 or 3 coordinates.
func distance(a, b []float64) float64 {
	var sum float64
	for i := 0; i < len(a) && i < len(b) && i < 3; i++ {
		d := b[i] - a[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// polylineLength sums the straight segments of a polyline. A closed polyline
// is a section outline rather than a member and yields zero.
func polylineLength(lw *entity.LwPolyline) float64 {
	if lw.Closed || len(lw.Vertices) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(lw.Vertices); i++ {
		total += distance(lw.Vertices[i-1], lw.Vertices[i])
	}
	return total
}
