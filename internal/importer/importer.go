// Package importer reads harvested element lists from CSV, Excel and DXF
// files. It supports automatic delimiter detection, flexible column mapping,
// and case-insensitive header recognition in English and Dutch.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/BeamCut/internal/model"
)

// ImportResult holds the results of an import operation. Problems are
// collected per row rather than aborting the whole file.
type ImportResult struct {
	Elements []model.HarvestedElement
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	ID        int
	Profile   int
	Length    int
	Condition int
	Building  int
	Location  int
	Zones     int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"id":        {"id", "element", "element id", "tag", "mark", "nummer"},
	"profile":   {"profile", "profile name", "profiel", "profielnaam", "section"},
	"length":    {"length", "length_mm", "length (mm)", "len", "l", "lengte"},
	"condition": {"condition", "conditie", "grade", "state", "staat"},
	"building":  {"building", "origin", "origin building", "gebouw", "herkomst"},
	"location":  {"location", "origin location", "position", "locatie", "positie"},
	"zones":     {"zones", "damage", "damage zones", "schade", "schadezones"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping (profile, length, condition, building, location, zones) and false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{ID: -1, Profile: -1, Length: -1, Condition: -1, Building: -1, Location: -1, Zones: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				var slot *int
				switch role {
				case "id":
					slot = &mapping.ID
				case "profile":
					slot = &mapping.Profile
				case "length":
					slot = &mapping.Length
				case "condition":
					slot = &mapping.Condition
				case "building":
					slot = &mapping.Building
				case "location":
					slot = &mapping.Location
				case "zones":
					slot = &mapping.Zones
				}
				if *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{ID: -1, Profile: 0, Length: 1, Condition: 2, Building: 3, Location: 4, Zones: 5}, false
	}
	return mapping, true
}

// ParseZones decodes a damage zone list such as
// "0-350:corrosion:severe; 6200-6500:weld:moderate". Kind and severity accept
// English or Dutch names; a missing severity means light. Invalid entries are
// reported as warnings and skipped.
func ParseZones(s string, length int) ([]model.DamageZone, []string) {
	zones := []model.DamageZone{}
	var warnings []string

	for _, raw := range strings.Split(s, ";") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parts := strings.Split(raw, ":")
		span := strings.SplitN(strings.TrimSpace(parts[0]), "-", 2)
		if len(span) != 2 {
			warnings = append(warnings, fmt.Sprintf("zone '%s': expected start-end", raw))
			continue
		}
		start, err1 := strconv.Atoi(strings.TrimSpace(span[0]))
		end, err2 := strconv.Atoi(strings.TrimSpace(span[1]))
		if err1 != nil || err2 != nil {
			warnings = append(warnings, fmt.Sprintf("zone '%s': invalid offsets", raw))
			continue
		}
		if start < 0 || end <= start || (length > 0 && end > length) {
			warnings = append(warnings, fmt.Sprintf("zone '%s': outside element", raw))
			continue
		}

		zone := model.DamageZone{Start: start, End: end, Kind: model.DamageCorrosion, Severity: model.SeverityLight}
		if len(parts) > 1 {
			kind, ok := model.ParseDamageKind(parts[1])
			if !ok {
				warnings = append(warnings, fmt.Sprintf("zone '%s': unknown kind, using corrosion", raw))
			}
			zone.Kind = kind
		}
		if len(parts) > 2 {
			sev, ok := model.ParseSeverity(parts[2])
			if !ok {
				warnings = append(warnings, fmt.Sprintf("zone '%s': unknown severity, using light", raw))
			}
			zone.Severity = sev
		}
		zones = append(zones, zone)
	}
	return zones, warnings
}

// FormatZones is the inverse of ParseZones.
func FormatZones(zones []model.DamageZone) string {
	parts := make([]string, len(zones))
	for i, z := range zones {
		parts[i] = fmt.Sprintf("%d-%d:%s:%s", z.Start, z.End, z.Kind, z.Severity)
	}
	return strings.Join(parts, ";")
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseLength accepts whole or decimal millimetres and rounds to the nearest mm.
func parseLength(s string) (int, bool) {
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return int(math.Round(v)), true
}

// parseRow extracts an element from a row using the given column mapping.
// Returns the element, any error message, and any warnings.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.HarvestedElement, string, []string) {
	profile := getCell(row, mapping.Profile)
	if profile == "" {
		return model.HarvestedElement{}, fmt.Sprintf("%s: Missing profile", rowLabel), nil
	}

	lengthStr := getCell(row, mapping.Length)
	if lengthStr == "" {
		return model.HarvestedElement{}, fmt.Sprintf("%s: Missing length value", rowLabel), nil
	}
	length, ok := parseLength(lengthStr)
	if !ok {
		return model.HarvestedElement{}, fmt.Sprintf("%s: Invalid length '%s'", rowLabel, lengthStr), nil
	}
	if length <= 0 {
		return model.HarvestedElement{}, fmt.Sprintf("%s: Length must be positive", rowLabel), nil
	}

	var warnings []string
	if _, _, ok := model.ParseProfileName(profile); !ok {
		warnings = append(warnings, fmt.Sprintf("%s: Unrecognised profile '%s'", rowLabel, profile))
	}

	condition := model.ConditionGood
	if s := getCell(row, mapping.Condition); s != "" {
		c, ok := model.ParseCondition(s)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown condition '%s', defaulting to good", rowLabel, s))
		}
		condition = c
	}

	e := model.NewElement(profile, length, condition)
	if id := getCell(row, mapping.ID); id != "" {
		e.ID = id
	}
	e.OriginBuilding = getCell(row, mapping.Building)
	e.OriginLocation = getCell(row, mapping.Location)

	if s := getCell(row, mapping.Zones); s != "" {
		zones, zw := ParseZones(s, length)
		e.DamageZones = zones
		for _, w := range zw {
			warnings = append(warnings, fmt.Sprintf("%s: %s", rowLabel, w))
		}
	}

	return e, "", warnings
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports elements from a CSV file, detecting the delimiter and
// mapping columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports elements from a CSV reader with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports elements from the first sheet of an Excel workbook.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// ImportFile dispatches on the file extension.
func ImportFile(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ImportExcel(path)
	case ".dxf":
		return ImportDXF(path)
	default:
		return ImportCSV(path)
	}
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Profile == -1 {
			missing = append(missing, "Profile")
		}
		if mapping.Length == -1 {
			missing = append(missing, "Length")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 2 {
		// A non-numeric second column is an unrecognised header.
		if _, ok := parseLength(strings.TrimSpace(rows[0][1])); !ok {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	seen := make(map[string]bool)
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		e, errMsg, warnings := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)

		if seen[e.ID] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Duplicate element ID '%s'", rowLabel, e.ID))
		}
		seen[e.ID] = true

		result.Elements = append(result.Elements, e)
	}

	return result
}
