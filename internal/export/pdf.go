// Package export writes match results to PDF reports, label sheets and
// Excel workbooks.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/BeamCut/internal/engine"
	"github.com/piwi3910/BeamCut/internal/model"
)

type rgb struct {
	R, G, B int
}

var (
	colorSteel   = rgb{176, 190, 197}
	colorUsable  = rgb{76, 175, 80}
	colorWaste   = rgb{244, 67, 54}
	colorSevere  = rgb{183, 28, 28}
	colorMedium  = rgb{255, 152, 0}
	colorLight   = rgb{255, 235, 59}
	colorRemnant = rgb{33, 150, 243}
)

var bandColors = map[model.ScoreBand]rgb{
	model.BandHigh:   {46, 125, 50},
	model.BandMedium: {239, 108, 0},
	model.BandLow:    {198, 40, 40},
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	beamRowH     = 27.0
	barHeight    = 7.0
	beamsPerPage = 6
)

// ExportPDF writes a report with one diagram per matched element (several per
// page) followed by a summary page.
func ExportPDF(path string, report engine.MatchReport, settings model.Settings) error {
	if len(report.Results) == 0 && len(report.Unmatched) == 0 {
		return fmt.Errorf("no elements to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	remnants := remnantsByElement(report.Remnants)
	pages := (len(report.Results) + beamsPerPage - 1) / beamsPerPage
	for page := 0; page < pages; page++ {
		pdf.AddPage()
		renderPageHeader(pdf, page+1, pages, report.Currency)

		y := marginTop + headerHeight + 4
		for i := page * beamsPerPage; i < len(report.Results) && i < (page+1)*beamsPerPage; i++ {
			res := report.Results[i]
			renderBeam(pdf, res, remnants[res.Element.ID], report.Currency, y)
			y += beamRowH
		}
		renderLegend(pdf, pageHeight-marginBottom-4)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, report, settings)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.OutputFileAndClose(path)
}

func renderPageHeader(pdf *fpdf.Fpdf, page, pages int, currency string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight,
		"Reuse Cut Plans", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight,
		fmt.Sprintf("Page %d of %d  |  values in %s", page, pages, currency), "", 0, "R", false, 0, "")
}

// renderBeam draws a single element as a horizontal bar. Waste ends are red,
// the sellable span green, damage zones are marked above the bar and saw
// cuts are dashed lines with their positions below it.
func renderBeam(pdf *fpdf.Fpdf, res model.MatchResult, remnants []model.Remnant, currency string, y float64) {
	e := res.Element
	plan := res.CutPlan
	drawWidth := pageWidth - marginLeft - marginRight
	scale := drawWidth / float64(e.Length)
	x := func(mm int) float64 { return marginLeft + float64(mm)*scale }

	// Title line
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	title := fmt.Sprintf("%s  %s  %d mm", e.ID, res.TargetProfile.Name, e.Length)
	if e.OriginBuilding != "" {
		title += "  (" + e.OriginBuilding + ")"
	}
	pdf.CellFormat(drawWidth/2, 4, title, "", 0, "L", false, 0, "")

	band := res.Band()
	col := bandColors[band]
	pdf.SetTextColor(col.R, col.G, col.B)
	pdf.SetXY(marginLeft+drawWidth/2, y)
	info := fmt.Sprintf("%s  |  score %d (%s)  |  reuse %d%%  |  %s %s",
		e.Condition, res.MatchScore, band, res.ReusePercent, res.EstimatedValue.StringFixed(0), currency)
	pdf.CellFormat(drawWidth/2, 4, info, "", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	zoneY := y + 5
	barY := zoneY + 3

	// Damage zone markers
	for _, z := range e.DamageZones {
		c := colorLight
		switch z.Severity {
		case model.SeveritySevere:
			c = colorSevere
		case model.SeverityModerate:
			c = colorMedium
		}
		pdf.SetFillColor(c.R, c.G, c.B)
		w := math.Max(float64(z.End-z.Start)*scale, 0.5)
		pdf.Rect(x(z.Start), zoneY, w, 2, "F")
	}

	// Bar
	pdf.SetDrawColor(60, 60, 60)
	pdf.SetLineWidth(0.3)
	pdf.SetFillColor(colorSteel.R, colorSteel.G, colorSteel.B)
	pdf.Rect(x(0), barY, float64(e.Length)*scale, barHeight, "FD")

	if plan.WasteStart > 0 {
		fillSpan(pdf, colorWaste, x(0), barY, float64(plan.WasteStart)*scale)
	}
	if plan.WasteEnd > 0 {
		fillSpan(pdf, colorWaste, x(plan.CutEnd), barY, float64(plan.WasteEnd)*scale)
	}
	fillSpan(pdf, colorUsable, x(plan.CutStart), barY, float64(plan.UsableLength)*scale)

	for _, r := range remnants {
		pdf.SetDrawColor(colorRemnant.R, colorRemnant.G, colorRemnant.B)
		pdf.SetLineWidth(0.8)
		pdf.Line(x(r.Start), barY+barHeight-0.4, x(r.Start+r.Length), barY+barHeight-0.4)
	}

	if float64(plan.UsableLength)*scale > 25 {
		pdf.SetFont("Helvetica", "B", 7)
		label := fmt.Sprintf("%d mm", plan.UsableLength)
		lw := pdf.GetStringWidth(label)
		mid := x(plan.CutStart) + float64(plan.UsableLength)*scale/2
		pdf.SetXY(mid-lw/2, barY+1.5)
		pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
	}

	// Cut marks
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.3)
	pdf.SetDashPattern([]float64{1, 0.8}, 0)
	pdf.SetFont("Helvetica", "", 6)
	for _, c := range plan.CutPositions(e.Length) {
		cx := x(c)
		pdf.Line(cx, zoneY-0.5, cx, barY+barHeight+1.5)
		label := fmt.Sprintf("%d", c)
		lw := pdf.GetStringWidth(label)
		pdf.SetXY(cx-lw/2, barY+barHeight+1.5)
		pdf.CellFormat(lw, 3, label, "", 0, "C", false, 0, "")
	}
	pdf.SetDashPattern([]float64{}, 0)

	// Length annotation
	pdf.SetTextColor(80, 80, 80)
	pdf.SetXY(marginLeft, barY+barHeight+1.5)
	pdf.CellFormat(20, 3, "0", "", 0, "L", false, 0, "")
	pdf.SetXY(pageWidth-marginRight-20, barY+barHeight+1.5)
	pdf.CellFormat(20, 3, fmt.Sprintf("%d", e.Length), "", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func fillSpan(pdf *fpdf.Fpdf, c rgb, x, y, w float64) {
	if w <= 0 {
		return
	}
	pdf.SetFillColor(c.R, c.G, c.B)
	pdf.Rect(x, y, w, barHeight, "F")
}

func renderLegend(pdf *fpdf.Fpdf, y float64) {
	items := []struct {
		c     rgb
		label string
	}{
		{colorUsable, "Sellable length"},
		{colorWaste, "Trimmed waste"},
		{colorRemnant, "Stockable remnant"},
		{colorSevere, "Severe damage"},
		{colorMedium, "Moderate damage"},
		{colorLight, "Light damage"},
	}
	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft
	for _, it := range items {
		pdf.SetFillColor(it.c.R, it.c.G, it.c.B)
		pdf.Rect(xPos, y+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, y)
		w := pdf.GetStringWidth(it.label) + 2
		pdf.CellFormat(w, 4, it.label, "", 0, "L", false, 0, "")
		xPos += w + 8
	}
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, report engine.MatchReport, settings model.Settings) {
	sum := report.Summary()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Reuse Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Elements", fmt.Sprintf("%d", sum.Elements)},
		{"Matched / Unmatched", fmt.Sprintf("%d / %d", sum.Matched, sum.Unmatched)},
		{"Reusable Length", fmt.Sprintf("%d mm of %d mm", sum.ReusableLength, sum.OriginalLength)},
		{"Trimmed Waste", fmt.Sprintf("%d mm", sum.WasteLength)},
		{"Stockable Remnants", fmt.Sprintf("%d pcs, %d mm", len(report.Remnants), sum.RemnantLength)},
		{"Reusable Weight", fmt.Sprintf("%.1f kg", sum.ReusableWeightKg)},
		{"Estimated Value", fmt.Sprintf("%s %s", sum.TotalValue.StringFixed(0), report.Currency)},
		{"Average Score", fmt.Sprintf("%d  (high %d, medium %d, low %d)", sum.AverageScore,
			sum.Bands[model.BandHigh], sum.Bands[model.BandMedium], sum.Bands[model.BandLow])},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(80, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	// Settings in the right column
	sy := marginTop + 18
	sx := marginLeft + 160
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(sx, sy)
	pdf.CellFormat(100, 7, "Settings", "", 0, "L", false, 0, "")
	sy += 9
	settingsItems := []struct {
		label string
		value string
	}{
		{"Safety Margin", fmt.Sprintf("%d mm", settings.SafetyMargin)},
		{"Unit Price", fmt.Sprintf("%s %s/kg", settings.UnitPricePerKg.StringFixed(2), settings.Currency)},
		{"Kerf Width", fmt.Sprintf("%d mm", settings.KerfWidth)},
		{"Min. Remnant", fmt.Sprintf("%d mm", settings.MinRemnant)},
	}
	pdf.SetFont("Helvetica", "", 9)
	for _, item := range settingsItems {
		pdf.SetXY(sx+5, sy)
		pdf.CellFormat(40, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 5, item.value, "", 0, "L", false, 0, "")
		sy += 5
	}

	y += 5
	if len(report.Unmatched) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "Not Reusable", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for i, u := range report.Unmatched {
			if y > pageHeight-marginBottom-10 {
				pdf.SetXY(marginLeft+5, y)
				pdf.CellFormat(200, 5, fmt.Sprintf("... and %d more", len(report.Unmatched)-i), "", 0, "L", false, 0, "")
				break
			}
			pdf.SetXY(marginLeft+5, y)
			text := fmt.Sprintf("- %s: %s %d mm (%s)", u.Element.ID, u.Element.ProfileName, u.Element.Length, unmatchedText(u.Reason))
			pdf.CellFormat(200, 5, text, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by BeamCut - steel profile reuse estimator", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func unmatchedText(r engine.UnmatchedReason) string {
	switch r {
	case engine.ReasonNoCatalogProfile:
		return "profile not in catalog"
	case engine.ReasonNoStandardLength:
		return "no standard length fits"
	default:
		return string(r)
	}
}

func remnantsByElement(remnants []model.Remnant) map[string][]model.Remnant {
	out := make(map[string][]model.Remnant)
	for _, r := range remnants {
		out[r.SourceElement] = append(out[r.SourceElement], r)
	}
	return out
}
