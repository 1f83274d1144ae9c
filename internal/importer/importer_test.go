package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"github.com/yofu/dxf"

	"github.com/piwi3910/BeamCut/internal/model"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("Profile,Length,Condition\nHEA 300,6500,good\nIPE 200,5000,fair\n")
	if got := DetectCSVDelimiter(data); got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("Profiel;Lengte;Conditie\nHEA 300;6500;goed\nIPE 200;5000;matig\n")
	if got := DetectCSVDelimiter(data); got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("Profile\tLength\tCondition\nHEA 300\t6500\tgood\n")
	if got := DetectCSVDelimiter(data); got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	row := []string{"ID", "Profile", "Length", "Condition", "Building", "Location", "Zones"}
	m, ok := DetectColumns(row)
	if !ok {
		t.Fatal("expected header to be detected")
	}
	if m.ID != 0 || m.Profile != 1 || m.Length != 2 || m.Condition != 3 || m.Building != 4 || m.Location != 5 || m.Zones != 6 {
		t.Errorf("unexpected mapping: %+v", m)
	}
}

func TestDetectColumns_DutchAndReordered(t *testing.T) {
	row := []string{"Lengte", "Schade", "Profiel", "Gebouw"}
	m, ok := DetectColumns(row)
	if !ok {
		t.Fatal("expected header to be detected")
	}
	if m.Length != 0 || m.Zones != 1 || m.Profile != 2 || m.Building != 3 {
		t.Errorf("unexpected mapping: %+v", m)
	}
	if m.Condition != -1 || m.ID != -1 {
		t.Errorf("expected unmapped columns to be -1: %+v", m)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	m, ok := DetectColumns([]string{"HEA 300", "6500", "good"})
	if ok {
		t.Error("expected no header")
	}
	if m.Profile != 0 || m.Length != 1 || m.Condition != 2 {
		t.Errorf("unexpected positional mapping: %+v", m)
	}
}

// ─── ParseZones Tests ──────────────────────────────────────

func TestParseZones(t *testing.T) {
	zones, warnings := ParseZones("0-350:corrosion:severe; 6200-6500:lasnaad:matig ;3000-3100", 6500)
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(zones) != 3 {
		t.Fatalf("expected 3 zones, got %d", len(zones))
	}
	if zones[0].Severity != model.SeveritySevere || zones[0].End != 350 {
		t.Errorf("unexpected first zone: %+v", zones[0])
	}
	if zones[1].Kind != model.DamageWeld || zones[1].Severity != model.SeverityModerate {
		t.Errorf("unexpected second zone: %+v", zones[1])
	}
	if zones[2].Kind != model.DamageCorrosion || zones[2].Severity != model.SeverityLight {
		t.Errorf("expected defaults for bare span, got %+v", zones[2])
	}
}

func TestParseZones_InvalidEntries(t *testing.T) {
	zones, warnings := ParseZones("abc;500-400:weld;6000-7000:weld;100-200:paint:zwaar", 6500)
	if len(zones) != 1 {
		t.Fatalf("expected 1 valid zone, got %+v", zones)
	}
	if zones[0].Severity != model.SeveritySevere {
		t.Errorf("expected severe, got %s", zones[0].Severity)
	}
	if len(warnings) != 4 {
		t.Errorf("expected 4 warnings, got %v", warnings)
	}
}

func TestFormatZonesRoundTrip(t *testing.T) {
	in := "0-350:corrosion:severe;6200-6500:weld:moderate"
	zones, _ := ParseZones(in, 6500)
	if got := FormatZones(zones); got != in {
		t.Errorf("expected %q, got %q", in, got)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	csv := "ID,Profile,Length,Condition,Building,Location,Zones\n" +
		"B-01,HEA 300,6500,good,Hal A,As 3,0-350:corrosion:severe\n" +
		"B-02,IPE200,5000,slecht,Hal A,As 4,\n"

	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(result.Elements))
	}

	e := result.Elements[0]
	if e.ID != "B-01" || e.ProfileName != "HEA 300" || e.Length != 6500 {
		t.Errorf("unexpected element: %+v", e)
	}
	if e.OriginBuilding != "Hal A" || e.OriginLocation != "As 3" {
		t.Errorf("unexpected origin: %s / %s", e.OriginBuilding, e.OriginLocation)
	}
	if len(e.DamageZones) != 1 || e.DamageZones[0].Severity != model.SeveritySevere {
		t.Errorf("unexpected zones: %+v", e.DamageZones)
	}
	if result.Elements[1].Condition != model.ConditionPoor {
		t.Errorf("expected poor condition, got %s", result.Elements[1].Condition)
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("HEA 300,6500,good\nHEB 200,8200.4,fair\n"), ',')

	if len(result.Elements) != 2 {
		t.Fatalf("expected 2 elements, got %d (errors: %v)", len(result.Elements), result.Errors)
	}
	if result.Elements[1].Length != 8200 {
		t.Errorf("expected length rounded to 8200, got %d", result.Elements[1].Length)
	}
	if len(result.Elements[0].ID) != 8 {
		t.Errorf("expected generated ID, got %q", result.Elements[0].ID)
	}
}

func TestImportCSVFromReader_RowErrors(t *testing.T) {
	csv := "Profile,Length\n" +
		"HEA 300,6500\n" +
		",6000\n" +
		"HEA 300,\n" +
		"HEA 300,abc\n" +
		"HEA 300,-5\n"

	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Elements) != 1 {
		t.Errorf("expected 1 valid element, got %d", len(result.Elements))
	}
	if len(result.Errors) != 4 {
		t.Errorf("expected 4 errors, got %v", result.Errors)
	}
}

func TestImportCSVFromReader_Warnings(t *testing.T) {
	csv := "id,profile,length,condition\n" +
		"X,HEM 300,6000,good\n" +
		"X,HEA 300,6000,rusty\n"

	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(result.Elements))
	}
	joined := strings.Join(result.Warnings, "\n")
	for _, want := range []string{"Unrecognised profile 'HEM 300'", "Unknown condition 'rusty'", "Duplicate element ID 'X'"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected warning containing %q, got:\n%s", want, joined)
		}
	}
}

func TestImportCSVFromReader_MissingRequiredColumnInHeader(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Profile,Condition\nHEA 300,good\n"), ',')
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Length") {
		t.Errorf("expected missing Length error, got %v", result.Errors)
	}
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')
	if len(result.Errors) == 0 {
		t.Error("expected error for empty input")
	}
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "elementen.csv")
	content := "Profiel;Lengte;Conditie;Schade\nHEA 300;6500;goed;0-350:corrosie:zwaar\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	result := ImportFile(path)

	if len(result.Elements) != 1 {
		t.Fatalf("expected 1 element, got %d (errors: %v)", len(result.Elements), result.Errors)
	}
	if result.Elements[0].DamageZones[0].Kind != model.DamageCorrosion {
		t.Errorf("expected corrosion zone, got %+v", result.Elements[0].DamageZones)
	}
	if !strings.Contains(strings.Join(result.Warnings, " "), "semicolon") {
		t.Errorf("expected semicolon warning, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV("/nonexistent/elements.csv")
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "elements.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, cell := range row {
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, ref, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Profile", "Length", "Condition", "Zones"},
		{"HEA 300", 6500, "good", "0-350:corrosion:severe"},
		{"IPE 200", 6200, "fair", ""},
	})

	result := ImportFile(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(result.Elements))
	}
	if result.Elements[0].Length != 6500 {
		t.Errorf("expected length 6500, got %d", result.Elements[0].Length)
	}
	if result.Elements[1].Condition != model.ConditionFair {
		t.Errorf("expected fair, got %s", result.Elements[1].Condition)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel("/nonexistent/elements.xlsx")
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

// ─── DXF Import Tests ──────────────────────────────────────

func createTestDXF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frame.dxf")

	d := dxf.NewDrawing()
	if _, err := d.AddLayer("HEA 300", dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Line(0, 0, 0, 6500, 0, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Line(0, 3000, 0, 0, 3000, 8000.4); err != nil {
		t.Fatal(err)
	}
	if _, err := d.AddLayer("IPE200", dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		t.Fatal(err)
	}
	if _, err := d.LwPolyline(false, []float64{0, 0}, []float64{3000, 0}, []float64{3000, 4000}); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Line(0, 0, 0, 50, 0, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := d.AddLayer("DIMENSIONS", dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Line(0, -500, 0, 6500, -500, 0); err != nil {
		t.Fatal(err)
	}
	if err := d.SaveAs(path); err != nil {
		t.Fatalf("failed to save DXF: %v", err)
	}
	return path
}

func TestImportDXF_MembersPerProfileLayer(t *testing.T) {
	result := ImportFile(createTestDXF(t))

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(result.Elements))
	}

	want := []struct {
		profile string
		length  int
	}{
		{"HEA 300", 6500},
		{"HEA 300", 8000},
		{"IPE 200", 7000},
	}
	for i, w := range want {
		e := result.Elements[i]
		if e.ProfileName != w.profile || e.Length != w.length {
			t.Errorf("element %d: expected %s %d, got %s %d", i, w.profile, w.length, e.ProfileName, e.Length)
		}
	}

	joined := strings.Join(result.Warnings, "\n")
	if !strings.Contains(joined, "DIMENSIONS") {
		t.Errorf("expected warning for DIMENSIONS layer, got:\n%s", joined)
	}
	if !strings.Contains(joined, "50.0 mm stroke") {
		t.Errorf("expected warning for the short stroke, got:\n%s", joined)
	}
}

func TestImportDXF_FileNotFound(t *testing.T) {
	result := ImportDXF("/nonexistent/frame.dxf")
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}
