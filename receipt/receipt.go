// Package receipt renders the collection slip a merchant prints or shows
// for an order. The QR code carries the order id for the collection point.
package receipt

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"merchant/models"
	"merchant/orders"
)

// QRPayload is what the collection point scans.
func QRPayload(o models.Order) string {
	return fmt.Sprintf("order:%d", o.ID)
}

// QRCode returns a PNG QR code for the order.
func QRCode(o models.Order, size int) ([]byte, error) {
	png, err := qrcode.Encode(QRPayload(o), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("receipt: qr code: %w", err)
	}
	return png, nil
}

// Render builds a one page A5 PDF slip for o.
func Render(o models.Order, businessName string) ([]byte, error) {
	qrPNG, err := QRCode(o, 256)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("Order %d", o.ID), true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(businessName))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Order #%d", o.ID))
	pdf.Ln(6)
	pdf.Cell(0, 7, tr("Customer: "+o.CustomerName))
	pdf.Ln(6)
	pdf.Cell(0, 7, "Status: "+orders.BadgeFor(o.Status).Label)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(70, 7, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(15, 7, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(20, 7, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(23, 7, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, it := range o.Items {
		pdf.CellFormat(70, 6, tr(it.ProductName), "", 0, "L", false, 0, "")
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", it.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, tr("£"+it.UnitPrice.StringFixed(2)), "", 0, "R", false, 0, "")
		pdf.CellFormat(23, 6, tr("£"+it.Subtotal.StringFixed(2)), "", 1, "R", false, 0, "")
		if it.Notes != "" {
			pdf.SetFont("Arial", "I", 9)
			pdf.CellFormat(128, 5, tr("  Notes: "+it.Notes), "", 1, "L", false, 0, "")
			pdf.SetFont("Arial", "", 10)
		}
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(105, 8, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(23, 8, tr("£"+o.TotalAmount.StringFixed(2)), "T", 1, "R", false, 0, "")

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 49, pdf.GetY()+8, 50, 50, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("receipt: pdf: %w", err)
	}
	return buf.Bytes(), nil
}
