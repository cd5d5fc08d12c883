package pdf

import (
	"context"
	"fmt"
)

// Document formats a renderer can produce. A4 is the stored primary format,
// thermal is regenerated on demand for counter printers.
const (
	FormatA4      = "a4"
	FormatThermal = "thermal"
)

// DocumentLine is one printed row of an invoice or receipt.
type DocumentLine struct {
	Description string
	Quantity    int64
	UnitPrice   string
	Amount      string
}

// InvoiceDocument carries everything the renderer needs, already formatted.
type InvoiceDocument struct {
	CompanyName   string
	BranchName    string
	BranchAddress string
	BranchPhone   string

	InvoiceNumber string
	IssueDate     string
	IsWarranty    bool

	CustomerName  string
	CustomerPhone string

	Lines []DocumentLine

	Total   string
	Paid    string
	Balance string
	Status  string
	Notes   string
}

// ReceiptDocument is a payment acknowledgement.
type ReceiptDocument struct {
	InvoiceDocument
	PaymentAmount string
	PaymentMethod string
	PaidDate      string
}

type Renderer interface {
	RenderInvoice(ctx context.Context, format string, doc InvoiceDocument) ([]byte, error)
	RenderReceipt(ctx context.Context, format string, doc ReceiptDocument) ([]byte, error)
}

// FormatAmount renders minor currency units for print, e.g. 12345 -> "INR 123.45".
func FormatAmount(currency string, minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s %s%d.%02d", currency, sign, minor/100, minor%100)
}
