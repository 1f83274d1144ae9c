package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/BeamCut/internal/engine"
	"github.com/piwi3910/BeamCut/internal/model"
)

// Workbook sheet names.
const (
	SheetMatches   = "Matches"
	SheetUnmatched = "Unmatched"
	SheetRemnants  = "Remnants"
	SheetSummary   = "Summary"
)

var matchHeaders = []interface{}{
	"Element", "Profile", "Building", "Condition", "Length (mm)", "Cut Start", "Cut End",
	"Usable (mm)", "Waste Start", "Waste End", "Reuse %", "Score", "Band", "Value",
}

// ExportExcel writes the report to an .xlsx workbook with one sheet each for
// matches, unmatched elements, remnants and the summary.
func ExportExcel(path string, report engine.MatchReport, settings model.Settings) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetMatches); err != nil {
		return err
	}
	for _, name := range []string{SheetUnmatched, SheetRemnants, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(report.Results))
	for _, res := range report.Results {
		e := res.Element
		p := res.CutPlan
		value, _ := res.EstimatedValue.Float64()
		rows = append(rows, []interface{}{
			e.ID, res.TargetProfile.Name, e.OriginBuilding, string(e.Condition), e.Length,
			p.CutStart, p.CutEnd, p.UsableLength, p.WasteStart, p.WasteEnd,
			res.ReusePercent, res.MatchScore, string(res.Band()), value,
		})
	}
	if err := writeTable(f, SheetMatches, matchHeaders, rows, bold); err != nil {
		return err
	}

	rows = rows[:0]
	for _, u := range report.Unmatched {
		rows = append(rows, []interface{}{
			u.Element.ID, u.Element.ProfileName, u.Element.OriginBuilding, u.Element.Length, unmatchedText(u.Reason),
		})
	}
	if err := writeTable(f, SheetUnmatched,
		[]interface{}{"Element", "Profile", "Building", "Length (mm)", "Reason"}, rows, bold); err != nil {
		return err
	}

	rows = rows[:0]
	for _, r := range report.Remnants {
		end := "end"
		if r.AtStart {
			end = "start"
		}
		rows = append(rows, []interface{}{r.ID, r.SourceElement, r.ProfileName, r.Start, r.Length, end})
	}
	if err := writeTable(f, SheetRemnants,
		[]interface{}{"Remnant", "Element", "Profile", "Position (mm)", "Length (mm)", "End"}, rows, bold); err != nil {
		return err
	}

	sum := report.Summary()
	total, _ := sum.TotalValue.Float64()
	price, _ := settings.UnitPricePerKg.Float64()
	summary := [][]interface{}{
		{"Elements", sum.Elements},
		{"Matched", sum.Matched},
		{"Unmatched", sum.Unmatched},
		{"Original length (mm)", sum.OriginalLength},
		{"Reusable length (mm)", sum.ReusableLength},
		{"Waste length (mm)", sum.WasteLength},
		{"Remnant length (mm)", sum.RemnantLength},
		{"Reusable weight (kg)", sum.ReusableWeightKg},
		{"Total value (" + report.Currency + ")", total},
		{"Average score", sum.AverageScore},
		{"High / medium / low", fmt.Sprintf("%d / %d / %d",
			sum.Bands[model.BandHigh], sum.Bands[model.BandMedium], sum.Bands[model.BandLow])},
		{"Safety margin (mm)", settings.SafetyMargin},
		{"Unit price per kg", price},
		{"Kerf width (mm)", settings.KerfWidth},
	}
	if err := writeTable(f, SheetSummary, []interface{}{"Metric", "Value"}, summary, bold); err != nil {
		return err
	}

	return f.SaveAs(path)
}

func writeTable(f *excelize.File, sheet string, headers []interface{}, rows [][]interface{}, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}
