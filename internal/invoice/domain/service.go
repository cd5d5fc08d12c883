package domain

import (
	"context"
	"errors"
	"time"

	"github.com/fixbench/fixbench/pkg/db/pagination"
)

var (
	ErrInvalidCompany = errors.New("invalid_company")
	ErrInvalidID      = errors.New("invalid_id")

	ErrServiceNotFound       = errors.New("service_not_found")
	ErrInvoiceNotFound       = errors.New("invoice_not_found")
	ErrCustomerNotFound      = errors.New("customer_not_found")
	ErrBranchNotFound        = errors.New("branch_not_found")
	ErrPaymentMethodNotFound = errors.New("payment_method_not_found")

	// ErrInvoiceExists means the repair job is already invoiced.
	ErrInvoiceExists = errors.New("invoice_exists")

	ErrInvalidAmount = errors.New("invalid_amount")
	// ErrOverpayment means the payment would push paid past the total.
	ErrOverpayment  = errors.New("overpayment")
	ErrMissingItems = errors.New("missing_items")
	// ErrMixedMode means a create request named both a repair job and a
	// standalone customer/branch pair.
	ErrMixedMode = errors.New("mixed_mode")
	// ErrNotServiceInvoice means sync was requested on a standalone invoice.
	ErrNotServiceInvoice = errors.New("not_service_invoice")
	ErrInvalidFormat     = errors.New("invalid_format")
)

// CreateFromServiceRequest raises the invoice for a finished repair job.
type CreateFromServiceRequest struct {
	ServiceID string `json:"service_id"`
	Notes     string `json:"notes,omitempty"`
}

// StandaloneItem is one requested line on a standalone invoice.
type StandaloneItem struct {
	CatalogItemID string `json:"catalog_item_id,omitempty"`
	Description   string `json:"description"`
	Quantity      int64  `json:"quantity"`
	UnitPrice     int64  `json:"unit_price"`
	Amount        int64  `json:"amount"`
}

// CreateStandaloneRequest raises an over-the-counter sale invoice.
type CreateStandaloneRequest struct {
	CustomerID  string           `json:"customer_id"`
	BranchID    string           `json:"branch_id"`
	Items       []StandaloneItem `json:"items"`
	TotalAmount int64            `json:"total_amount"`
	PaidAmount  int64            `json:"paid_amount"`
	Notes       string           `json:"notes,omitempty"`
}

type RecordPaymentRequest struct {
	InvoiceID       string `json:"-"`
	Amount          int64  `json:"amount"`
	PaymentMethodID string `json:"payment_method_id"`
	TransactionID   string `json:"transaction_id,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

type RecordPaymentResponse struct {
	Payment Payment `json:"payment"`
	Invoice Invoice `json:"invoice"`
}

// UpdateAmountsRequest overrides stored amounts directly. Either field may
// be omitted to leave it unchanged.
type UpdateAmountsRequest struct {
	InvoiceID   string `json:"-"`
	TotalAmount *int64 `json:"total_amount,omitempty"`
	PaidAmount  *int64 `json:"paid_amount,omitempty"`
}

type GetInvoiceRequest struct {
	ID string
}

type ListInvoiceRequest struct {
	Status      string     `form:"status"`
	CustomerID  string     `form:"customer_id"`
	BranchID    string     `form:"branch_id"`
	CreatedFrom *time.Time `form:"created_from"`
	CreatedTo   *time.Time `form:"created_to"`
	PageSize    int32      `form:"page_size"`
	PageToken   string     `form:"page_token"`
}

type ListInvoiceResponse struct {
	Invoices []Invoice           `json:"invoices"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

// InvoiceDetail is an invoice with its line items and payments attached.
type InvoiceDetail struct {
	Invoice  Invoice       `json:"invoice"`
	Items    []InvoiceItem `json:"items,omitempty"`
	Payments []Payment     `json:"payments"`
}

// RenderDocumentRequest regenerates the printable document for an invoice.
type RenderDocumentRequest struct {
	InvoiceID string
	Format    string
}

type Service interface {
	// CreateFromService derives totals from the repair job snapshot and
	// raises the one invoice that job may ever have.
	CreateFromService(ctx context.Context, req CreateFromServiceRequest) (Invoice, error)
	// CreateStandalone raises an invoice for a counter sale, with its
	// line items written atomically alongside it.
	CreateStandalone(ctx context.Context, req CreateStandaloneRequest) (Invoice, error)
	// RecordPayment appends a payment and re-derives the invoice state
	// under a row lock.
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (RecordPaymentResponse, error)
	// UpdateAmounts overrides amounts and re-derives balance and status.
	UpdateAmounts(ctx context.Context, req UpdateAmountsRequest) (Invoice, error)
	// SyncFromService re-reads the linked repair job and the payments
	// ledger and reconciles the invoice to them.
	SyncFromService(ctx context.Context, invoiceID string) (Invoice, error)
	Delete(ctx context.Context, invoiceID string) error
	GetByID(ctx context.Context, req GetInvoiceRequest) (InvoiceDetail, error)
	List(ctx context.Context, req ListInvoiceRequest) (ListInvoiceResponse, error)
	// RenderDocument produces the printable document in the requested
	// format and returns its URL.
	RenderDocument(ctx context.Context, req RenderDocumentRequest) (string, error)
}
