package services

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"godownhub/internal/models"
)

var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR renders an amount with Indian digit grouping and two decimals.
func FormatINR(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return "Rs. " + inrPrinter.Sprint(number.Decimal(f, number.Scale(2)))
}

// InvoiceDocument is everything printed on a rent invoice. Allocation and
// Godown are optional.
type InvoiceDocument struct {
	Invoice      *models.Invoice
	Company      *models.Company
	Organization *models.Organization
	Allocation   *models.SpaceAllocation
	Godown       *models.Godown
}

// RenderInvoicePDF lays out a single page A4 rent invoice.
func RenderInvoicePDF(doc *InvoiceDocument) ([]byte, error) {
	inv := doc.Invoice
	const marginX, marginY = 15.0, 15.0

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.Cell(0, 10, doc.Company.Name)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	if doc.Company.Address != nil {
		pdf.MultiCell(0, 5, *doc.Company.Address, "", "L", false)
	}
	if doc.Company.GSTIN != nil {
		pdf.Cell(0, 5, "GSTIN: "+*doc.Company.GSTIN)
		pdf.Ln(5)
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, "RENT INVOICE")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	details := [][2]string{
		{"Invoice Number", inv.InvoiceNumber},
		{"Billing Period", inv.BillingPeriod},
		{"Issued", inv.IssuedDate.Format("02-Jan-2006")},
		{"Due", inv.DueDate.Format("02-Jan-2006")},
		{"Status", inv.Status},
	}
	for _, d := range details {
		pdf.CellFormat(40, 6, d[0]+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, d[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, "BILL TO:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, doc.Organization.Name)
	pdf.Ln(6)
	if doc.Organization.ContactPerson != nil {
		pdf.Cell(0, 6, "Attn: "+*doc.Organization.ContactPerson)
		pdf.Ln(6)
	}
	if doc.Organization.Address != nil {
		pdf.MultiCell(0, 5, *doc.Organization.Address, "", "L", false)
	}
	if doc.Organization.GSTIN != nil {
		pdf.Cell(0, 6, "GSTIN: "+*doc.Organization.GSTIN)
		pdf.Ln(6)
	}
	pdf.Ln(6)

	colWidths := []float64{110, 70}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(colWidths[0], 8, "Description", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colWidths[1], 8, "Amount", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(colWidths[0], 8, describeRent(doc), "1", 0, "L", false, 0, "")
	pdf.CellFormat(colWidths[1], 8, FormatINR(inv.Amount), "1", 1, "R", false, 0, "")
	pdf.Ln(4)

	half := inv.TaxRate.Div(decimal.NewFromInt(2))
	totals := [][2]string{
		{"Subtotal:", FormatINR(inv.Amount)},
		{fmt.Sprintf("CGST (%s%%):", half.String()), FormatINR(inv.CGST)},
		{fmt.Sprintf("SGST (%s%%):", half.String()), FormatINR(inv.SGST)},
	}
	for _, t := range totals {
		pdf.CellFormat(colWidths[0], 6, t[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[1], 6, t[1], "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(colWidths[0], 8, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[1], 8, FormatINR(inv.TotalAmount), "", 1, "R", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.Cell(0, 5, "This is a computer generated invoice.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func describeRent(doc *InvoiceDocument) string {
	desc := "Godown rent for " + doc.Invoice.BillingPeriod
	if doc.Godown != nil {
		desc = fmt.Sprintf("Rent of %s (%s) for %s", doc.Godown.Name, doc.Godown.Code, doc.Invoice.BillingPeriod)
	}
	if doc.Allocation != nil && doc.Godown != nil {
		desc += fmt.Sprintf(", %s %s", doc.Allocation.AllocatedSpace.String(), doc.Godown.CapacityUnit)
	}
	return desc
}
