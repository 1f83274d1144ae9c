package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/BeamCut/internal/engine"
)

// Label kinds.
const (
	LabelBeam    = "beam"
	LabelRemnant = "remnant"
)

// LabelInfo holds the data encoded into each label's QR code.
type LabelInfo struct {
	Kind          string `json:"kind"`
	ID            string `json:"id"`
	SourceElement string `json:"source_element"`
	Profile       string `json:"profile"`
	Length        int    `json:"length_mm"`
	CutFrom       int    `json:"cut_from_mm"` // Position on the source element
	Building      string `json:"building,omitempty"`
	Score         int    `json:"score,omitempty"`
	Value         string `json:"value,omitempty"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7
	labelMarginLeft = 4.8
	labelWidth      = 66.7
	labelHeight     = 25.4
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0
	labelPadding    = 2.0
)

// CollectLabelInfos lists one label per matched beam followed by one per
// stockable remnant.
func CollectLabelInfos(report engine.MatchReport) []LabelInfo {
	labels := make([]LabelInfo, 0, len(report.Results)+len(report.Remnants))
	buildings := make(map[string]string, len(report.Results))
	for _, res := range report.Results {
		e := res.Element
		buildings[e.ID] = e.OriginBuilding
		labels = append(labels, LabelInfo{
			Kind:          LabelBeam,
			ID:            e.ID,
			SourceElement: e.ID,
			Profile:       res.TargetProfile.Name,
			Length:        res.CutPlan.UsableLength,
			CutFrom:       res.CutPlan.CutStart,
			Building:      e.OriginBuilding,
			Score:         res.MatchScore,
			Value:         res.EstimatedValue.StringFixed(0) + " " + report.Currency,
		})
	}
	for _, r := range report.Remnants {
		labels = append(labels, LabelInfo{
			Kind:          LabelRemnant,
			ID:            r.ID,
			SourceElement: r.SourceElement,
			Profile:       r.ProfileName,
			Length:        r.Length,
			CutFrom:       r.Start,
			Building:      buildings[r.SourceElement],
		})
	}
	return labels
}

// ExportLabels writes a PDF label sheet (Avery 5160 layout on US Letter) with
// a QR code per reusable beam and remnant, so pieces can be tracked from the
// demolition site into stock.
func ExportLabels(path string, report engine.MatchReport) error {
	labels := CollectLabelInfos(report)
	if len(labels) == 0 {
		return fmt.Errorf("no reusable pieces to label")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}
		pos := i % labelsPerPage
		x := labelMarginLeft + float64(pos%labelCols)*labelWidth
		y := labelMarginTop + float64(pos/labelCols)*labelHeight

		if err := renderLabel(pdf, x, y, i, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.ID, err)
		}
	}
	return pdf.OutputFileAndClose(path)
}

func renderLabel(pdf *fpdf.Fpdf, x, y float64, n int, info LabelInfo) error {
	// Cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d_%s", n, info.ID)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions(imgName, x+labelWidth-qrSize-labelPadding, y+(labelHeight-qrSize)/2,
		qrSize, qrSize, false, opts, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, fmt.Sprintf("%s  %d", info.Profile, info.Length), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, truncate(pdf, "ID "+info.ID, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	origin := fmt.Sprintf("from %s @ %d mm", info.SourceElement, info.CutFrom)
	pdf.CellFormat(textW, 3, truncate(pdf, origin, textW), "", 1, "L", false, 0, "")

	if info.Building != "" {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.CellFormat(textW, 3, truncate(pdf, info.Building, textW), "", 1, "L", false, 0, "")
	}

	pdf.SetXY(textX, y+labelPadding+16)
	pdf.SetFont("Helvetica", "I", 6)
	if info.Kind == LabelRemnant {
		pdf.SetTextColor(33, 150, 243)
		pdf.CellFormat(textW, 3, "Remnant", "", 0, "L", false, 0, "")
	} else {
		pdf.SetTextColor(46, 125, 50)
		pdf.CellFormat(textW, 3, fmt.Sprintf("Score %d  |  %s", info.Score, info.Value), "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

func truncate(pdf *fpdf.Fpdf, s string, w float64) string {
	if pdf.GetStringWidth(s) <= w {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > w {
		s = s[:len(s)-1]
	}
	return s + "..."
}
