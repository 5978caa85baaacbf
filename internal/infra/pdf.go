package infra

// pdf.go — Fiscal invoice PDF generation using go-pdf/fpdf.
// Generates A7-size thermal receipt-style invoices with:
//   - Business name and RTN header
//   - CAI code, fiscal number and authorized-range deadline
//   - Customer name/RTN when the sale is nominativa
//   - Item table (product name, quantity, subtotal)
//   - ISV line and bold total
//   - Payment breakdown and saldo pendiente for credit sales
//
// The output file is saved to storagePath/factura_{numero}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"edapos/internal/model"

	"github.com/go-pdf/fpdf"
)

// FacturaPDFData carries the issuer fields that are not part of the invoice
// row itself.
type FacturaPDFData struct {
	EmpresaNombre string
	EmpresaRTN    string
	CAICodigo     string
	CAIFechaLim   string
}

// GenerateFacturaPDF renders the printed form of an issued invoice.
// storagePath is the directory where the PDF will be written (created if
// needed). Returns the absolute path to the generated file.
func GenerateFacturaPDF(factura *model.Factura, data FacturaPDFData, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("factura_%d.pdf", factura.NumeroFiscal)
	filePath := filepath.Join(storagePath, fileName)

	// A7 ≈ 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, data.EmpresaNombre, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, "RTN "+data.EmpresaRTN, "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 4, "Factura", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Fiscal info ───────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("No. %d", factura.NumeroFiscal), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 6)
	pdf.CellFormat(contentW, 4, "CAI "+data.CAICodigo, "", 1, "L", false, 0, "")
	if data.CAIFechaLim != "" {
		pdf.CellFormat(contentW, 4, "Fecha límite de emisión: "+data.CAIFechaLim, "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, factura.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")

	if factura.Cliente != nil {
		pdf.CellFormat(contentW, 4, "Cliente: "+factura.Cliente.Nombre, "", 1, "L", false, 0, "")
		if factura.Cliente.RTN != nil {
			pdf.CellFormat(contentW, 4, "RTN cliente: "+*factura.Cliente.RTN, "", 1, "L", false, 0, "")
		}
	} else {
		pdf.CellFormat(contentW, 4, "Cliente: Consumidor Final", "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	// ── Separator ────────────────────────────────────────────────────────────
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items header ──────────────────────────────────────────────────────────
	col1 := contentW * 0.52 // product name
	col2 := contentW * 0.16 // qty
	col3 := contentW * 0.32 // subtotal

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	// ── Item rows ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	for _, item := range factura.Items {
		nombre := ""
		if item.Producto != nil {
			nombre = item.Producto.Nombre
		}
		if len(nombre) > 22 {
			nombre = nombre[:21] + "…"
		}
		pdf.CellFormat(col1, 5, nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "L "+item.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 5, "Subtotal:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 5, "L "+factura.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	if !factura.DescuentoTotal.IsZero() {
		pdf.CellFormat(col1+col2, 5, "Descuento:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "-L "+factura.DescuentoTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if !factura.ImpuestoTotal.IsZero() {
		pdf.CellFormat(col1+col2, 5, "ISV:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "L "+factura.ImpuestoTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "L "+factura.Total.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Payments ──────────────────────────────────────────────────────────────
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 7)
	for _, pago := range factura.Pagos {
		label := "Pago (" + pago.Metodo + "):"
		pdf.CellFormat(col1+col2, 4, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, "L "+pago.Monto.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if factura.SaldoPendiente.IsPositive() {
		pdf.SetFont("Helvetica", "B", 7)
		pdf.CellFormat(col1+col2, 4, "Saldo pendiente:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, "L "+factura.SaldoPendiente.StringFixed(2), "", 1, "R", false, 0, "")
		if factura.FechaVencimiento != nil {
			pdf.SetFont("Helvetica", "", 6)
			pdf.CellFormat(contentW, 4, "Vence: "+factura.FechaVencimiento.Format("02/01/2006"), "", 1, "L", false, 0, "")
		}
	}

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "¡Gracias por su compra!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
