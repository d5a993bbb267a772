// Package proof renders a PDF proof sheet for a composed sprite sheet:
// the sheet image on top and a table of its animations below.
package proof

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	sprite "github.com/akeil/spritetool"
	"github.com/akeil/spritetool/internal/logging"
)

const (
	margin    = 24.0
	rowHeight = 14.0
	minWidth  = 360.0
	// larger pages are not displayed by most PDF readers
	maxSide = 14400.0
)

var columnWidths = []float64{140, 50, 60, 90}

// Write renders the proof sheet for the PNG sheet at sheetPath and its
// configuration to w.
func Write(w io.Writer, sheetPath string, cfg *sprite.SheetConfig) error {
	logging.Debug("Render proof sheet for %q", sheetPath)

	data, err := ioutil.ReadFile(sheetPath)
	if err != nil {
		return err
	}
	ic, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return sprite.Wrap(err, "read sheet %v", sheetPath)
	}
	if format != "png" {
		return fmt.Errorf("proof sheets need a PNG sheet, got %v", format)
	}

	anims := cfg.Animations()
	tableHeight := float64(len(anims)+2) * rowHeight

	// 1px = 1pt, unless the page would get too large
	scale := 1.0
	if side := float64(max(ic.Width, ic.Height)) + 2*margin + tableHeight; side > maxSide {
		scale = (maxSide - 2*margin - tableHeight) / float64(max(ic.Width, ic.Height))
	}
	imgW := float64(ic.Width) * scale
	imgH := float64(ic.Height) * scale

	pageW := max(imgW+2*margin, minWidth)
	pageH := imgH + 3*margin + tableHeight

	pdf := setupPDF(sheetPath)
	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: pageW, Ht: pageH})

	name := uuid.New().String()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	pdf.ImageOptions(name, margin, margin, imgW, imgH, false, opts, 0, "")

	pdf.SetXY(margin, imgH+2*margin)
	writeTable(pdf, cfg, anims)

	return pdf.Output(w)
}

// WriteFile renders the proof sheet into a file.
func WriteFile(path, sheetPath string, cfg *sprite.SheetConfig) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = Write(f, sheetPath, cfg)
	closeErr := f.Close()
	if err != nil {
		os.Remove(path)
		return err
	}
	return closeErr
}

func setupPDF(sheetPath string) *gofpdf.Fpdf {
	orientation := "P"
	sizeUnit := "pt"
	fontDir := ""
	pdf := gofpdf.New(orientation, sizeUnit, "A4", fontDir)

	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("helvetica", "", 9)
	pdf.SetProducer("spritetool", true)
	pdf.SetTitle(filepath.Base(sheetPath), true)

	if info, err := os.Stat(sheetPath); err == nil {
		modified := info.ModTime().UTC()
		pdf.SetCreationDate(modified)
		pdf.SetModificationDate(modified)
	}

	return pdf
}

func writeTable(pdf *gofpdf.Fpdf, cfg *sprite.SheetConfig, anims []sprite.Animation) {
	pdf.SetFont("helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range []string{"Animation", "Row", "Frames", "Offset (px)"} {
		pdf.CellFormat(columnWidths[i], rowHeight, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("helvetica", "", 9)
	for _, a := range anims {
		cell := cfg.Cell(a.Row, 0)
		pdf.SetX(margin)
		pdf.CellFormat(columnWidths[0], rowHeight, a.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(columnWidths[1], rowHeight, fmt.Sprintf("%d", a.Row), "1", 0, "R", false, 0, "")
		pdf.CellFormat(columnWidths[2], rowHeight, fmt.Sprintf("%d", a.Frames), "1", 0, "R", false, 0, "")
		pdf.CellFormat(columnWidths[3], rowHeight, fmt.Sprintf("%d, %d", cell.Min.X, cell.Min.Y), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetX(margin)
	pdf.Cellf(0, rowHeight, "%d x %d px cells, %d columns, %d rows, %.4g fps",
		cfg.FrameWidth, cfg.FrameHeight, cfg.Columns, cfg.Rows, cfg.FPS)
}
