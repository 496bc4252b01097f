package sheets

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"

	"larder/frontend/inventory"
	"larder/models"
)

// SheetData is one printable inventory sheet.
type SheetData struct {
	Title     string
	Items     []models.Item
	PrintedAt time.Time
}

const (
	rowHeight   = 16.0
	barcodeW    = 42.0
	barcodeH    = 10.0
	pageMargin  = 10.0
	headerSpace = 30.0
)

// ItemBarcode is the code128 value printed for an item.
func ItemBarcode(id int64) string {
	return fmt.Sprintf("I%08d", id)
}

func RenderInventorySheetPDF(sheet SheetData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(sheet.Title, false)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)

	pageW, pageH := pdf.GetPageSize()
	contentW := pageW - 2*pageMargin
	nameW := contentW - barcodeW - 28 - 34 - 44

	header := func() {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 18)
		pdf.CellFormat(0, 10, sheet.Title, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("Printed %s - %d items", sheet.PrintedAt.Format("Jan 2, 2006 15:04"), len(sheet.Items)), "", 1, "L", false, 0, "")
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(235, 235, 235)
		pdf.CellFormat(barcodeW, 7, "Barcode", "1", 0, "C", true, 0, "")
		pdf.CellFormat(nameW, 7, "Item", "1", 0, "L", true, 0, "")
		pdf.CellFormat(28, 7, "Quantity", "1", 0, "L", true, 0, "")
		pdf.CellFormat(34, 7, "Location", "1", 0, "L", true, 0, "")
		pdf.CellFormat(44, 7, "Expiry", "1", 1, "L", true, 0, "")
	}
	header()

	if len(sheet.Items) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.CellFormat(0, 12, "No items in this view.", "", 1, "C", false, 0, "")
	}

	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	for _, item := range sheet.Items {
		if pdf.GetY()+rowHeight > pageH-pageMargin {
			header()
		}
		code := ItemBarcode(item.ID)
		barcodePNG, err := renderCode128PNG(code, 600, 140)
		if err != nil {
			return nil, fmt.Errorf("barcode %s: %w", code, err)
		}
		imageName := "item-barcode-" + code
		pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))

		x, y := pdf.GetXY()
		pdf.Rect(x, y, barcodeW, rowHeight, "D")
		pdf.ImageOptions(imageName, x+1, y+1, barcodeW-2, barcodeH, false, opt, 0, "")
		pdf.SetFont("Helvetica", "", 6)
		pdf.SetXY(x, y+barcodeH+1)
		pdf.CellFormat(barcodeW, 4, code, "", 0, "C", false, 0, "")

		name := strings.TrimSpace(item.Name)
		if sub := strings.TrimSpace(item.Subcategory); sub != "" {
			name += " (" + sub + ")"
		}
		pdf.SetXY(x+barcodeW, y)
		pdf.SetFont("Helvetica", "B", fitFontSizeForWidth(pdf, "Helvetica", "B", 10, 6, name, nameW-2))
		pdf.CellFormat(nameW, rowHeight, name, "1", 0, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(28, rowHeight, item.Quantity.String(), "1", 0, "L", false, 0, "")
		placement := inventory.PlacementLabel(item)
		pdf.SetFont("Helvetica", "", fitFontSizeForWidth(pdf, "Helvetica", "", 9, 6, placement, 32))
		pdf.CellFormat(34, rowHeight, placement, "1", 0, "L", false, 0, "")

		status := inventory.ClassifyExpiry(item.ExpiryDate, sheet.PrintedAt)
		expiry := inventory.FormatDate(item.ExpiryDate)
		if status.Text != "" {
			expiry += " - " + status.Text
		}
		switch status.Class {
		case inventory.ExpiryExpired:
			pdf.SetTextColor(180, 0, 0)
		case inventory.ExpirySoon:
			pdf.SetTextColor(190, 110, 0)
		}
		pdf.SetFont("Helvetica", "", fitFontSizeForWidth(pdf, "Helvetica", "", 9, 5.5, expiry, 42))
		pdf.CellFormat(44, rowHeight, expiry, "1", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func fitFontSizeForWidth(pdf *gofpdf.Fpdf, family, style string, base, min float64, text string, maxWidth float64) float64 {
	if maxWidth <= 0 {
		return min
	}
	size := base
	pdf.SetFont(family, style, size)
	for size > min && pdf.GetStringWidth(text) > maxWidth {
		size -= 0.5
		pdf.SetFont(family, style, size)
	}
	return size
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, toNRGBA(scaled)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
