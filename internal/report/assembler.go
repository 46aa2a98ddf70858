package report

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
)

// Layout constants, all in millimetres on an A4 portrait page.
const (
	cellHeight = 10

	fieldLabelWidth = 70
	fieldValueWidth = 120

	defectTypeWidth  = 60
	defectCountWidth = 30
	defectImageWidth = 70

	defectImageDrawWidth   = 60
	categoryImageDrawWidth = 100
	signatureDrawWidth     = 60
)

// Assembler renders report plans to PDF bytes.
type Assembler struct {
	log *slog.Logger
}

// NewAssembler returns an Assembler logging to the given logger.
func NewAssembler(log *slog.Logger) *Assembler {
	return &Assembler{log: log}
}

// Render draws the plan into a PDF document. An image that cannot be read is
// replaced by a placeholder line; only a drawing-engine failure makes the
// whole render fail.
func (a *Assembler) Render(plan *Plan) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, cellHeight, plan.Title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.Ln(5)

	a.drawFieldTable(pdf, plan.FieldRows)
	if plan.Defects != nil {
		a.drawDefects(pdf, plan.Defects)
	}
	for _, cat := range plan.Categories {
		a.drawCategory(pdf, cat)
	}
	a.drawSignatures(pdf, plan.Signatures)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

func (a *Assembler) drawFieldTable(pdf *fpdf.Fpdf, rows []FieldRow) {
	pdf.SetFillColor(220, 230, 255)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(fieldLabelWidth, cellHeight, "Field", "1", 0, "", true, 0, "")
	pdf.CellFormat(fieldValueWidth, cellHeight, "Value", "1", 1, "", true, 0, "")
	pdf.SetFont("Arial", "", 12)

	for _, row := range rows {
		pdf.CellFormat(fieldLabelWidth, cellHeight, row.Label, "1", 0, "", false, 0, "")
		pdf.CellFormat(fieldValueWidth, cellHeight, row.Value, "1", 1, "", false, 0, "")
	}
}

func (a *Assembler) drawDefects(pdf *fpdf.Fpdf, section *DefectSection) {
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, cellHeight, "Defects Summary", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(defectTypeWidth, cellHeight, "Defect Type", "1", 0, "", false, 0, "")
	pdf.CellFormat(defectCountWidth, cellHeight, "Minor", "1", 0, "", false, 0, "")
	pdf.CellFormat(defectCountWidth, cellHeight, "Major", "1", 0, "", false, 0, "")
	pdf.CellFormat(defectImageWidth, cellHeight, "Image(s)", "1", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 12)

	for _, rec := range section.Rows {
		pdf.CellFormat(defectTypeWidth, cellHeight, rec.Type, "1", 0, "", false, 0, "")
		pdf.CellFormat(defectCountWidth, cellHeight, rec.MinorCount, "1", 0, "", false, 0, "")
		pdf.CellFormat(defectCountWidth, cellHeight, rec.MajorCount, "1", 0, "", false, 0, "")
		pdf.CellFormat(defectImageWidth, cellHeight, fmt.Sprintf("%d image(s)", len(rec.Images)), "1", 1, "", false, 0, "")

		for _, img := range rec.Images {
			if a.placeImage(pdf, img, defectImageDrawWidth) {
				pdf.Ln(5)
			}
		}
	}

	// The totals row repeats what the submitter entered; it is deliberately
	// not computed from the per-defect counts.
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(defectTypeWidth, cellHeight, "Total", "1", 0, "", false, 0, "")
	pdf.CellFormat(defectCountWidth, cellHeight, section.Totals.Minor, "1", 0, "", false, 0, "")
	pdf.CellFormat(defectCountWidth, cellHeight, section.Totals.Major, "1", 0, "", false, 0, "")
	pdf.CellFormat(defectImageWidth, cellHeight, "", "1", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 12)
}

func (a *Assembler) drawCategory(pdf *fpdf.Fpdf, cat CategorySection) {
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, cellHeight, cat.Title, "", 1, "", false, 0, "")
	pdf.Ln(5)
	pdf.SetFont("Arial", "", 12)
	for _, img := range cat.Images {
		if a.placeImage(pdf, img, categoryImageDrawWidth) {
			pdf.Ln(10)
		}
	}
}

func (a *Assembler) drawSignatures(pdf *fpdf.Fpdf, entries []SignatureEntry) {
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, cellHeight, "Signatures", "", 1, "", false, 0, "")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 12)

	for _, entry := range entries {
		// A signature that no longer resolves to a readable image is skipped
		// rather than replaced with a placeholder.
		name, ok := a.registerImage(pdf, entry.Path)
		if !ok {
			continue
		}
		pdf.CellFormat(0, cellHeight, entry.Label+":", "", 1, "", false, 0, "")
		pdf.ImageOptions(name, pdf.GetX(), 0, signatureDrawWidth, 0, true, fpdf.ImageOptions{}, 0, "")
		pdf.Ln(10)
	}
}

// placeImage draws the image at the current position and reports whether it
// was drawn. An unreadable image degrades to a placeholder line so one bad
// file never aborts the rest of the report.
func (a *Assembler) placeImage(pdf *fpdf.Fpdf, path string, width float64) bool {
	name, ok := a.registerImage(pdf, path)
	if !ok {
		pdf.CellFormat(0, cellHeight, "Could not load image: "+filepath.Base(path), "", 1, "", false, 0, "")
		return false
	}
	pdf.ImageOptions(name, pdf.GetX(), 0, width, 0, true, fpdf.ImageOptions{}, 0, "")
	return true
}

// registerImage loads and registers one image with the drawing engine. The
// file is sniffed with image.DecodeConfig first, and any registration error
// is cleared so it cannot poison the document state.
func (a *Assembler) registerImage(pdf *fpdf.Fpdf, path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		a.log.Warn("Image unreadable at render time.", "path", path, "error", err)
		return "", false
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		a.log.Warn("Image could not be decoded.", "path", path, "error", err)
		return "", false
	}
	if info := pdf.GetImageInfo(path); info != nil {
		return path, true
	}
	pdf.RegisterImageOptionsReader(path, fpdf.ImageOptions{ImageType: format}, bytes.NewReader(data))
	if !pdf.Ok() {
		a.log.Warn("Drawing engine rejected image.", "path", path, "error", pdf.Error())
		pdf.ClearError()
		return "", false
	}
	return path, true
}

// Filename derives the archival name for a report generated at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("inspection_%s.pdf", t.Format("20060102_150405"))
}
