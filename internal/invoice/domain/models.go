package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// PaymentStatus tracks how much of an invoice has been collected. It is
// always derived from the amounts, never set directly.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// Invoice is the financial record for either a repair job or an
// over-the-counter sale. Amounts are minor currency units.
type Invoice struct {
	ID                snowflake.ID      `gorm:"column:id;primaryKey" json:"id"`
	CompanyID         snowflake.ID      `gorm:"column:company_id" json:"company_id"`
	BranchID          snowflake.ID      `gorm:"column:branch_id" json:"branch_id"`
	ServiceID         *snowflake.ID     `gorm:"column:service_id;uniqueIndex" json:"service_id,omitempty"`
	CustomerID        *snowflake.ID     `gorm:"column:customer_id" json:"customer_id,omitempty"`
	InvoiceNumber     string            `gorm:"column:invoice_number" json:"invoice_number"`
	IsWarrantyInvoice bool              `gorm:"column:is_warranty_invoice" json:"is_warranty_invoice"`
	TotalAmount       int64             `gorm:"column:total_amount" json:"total_amount"`
	PaidAmount        int64             `gorm:"column:paid_amount" json:"paid_amount"`
	BalanceAmount     int64             `gorm:"column:balance_amount" json:"balance_amount"`
	PaymentStatus     PaymentStatus     `gorm:"column:payment_status" json:"payment_status"`
	DocumentKey       *string           `gorm:"column:document_key" json:"document_key,omitempty"`
	DocumentURL       *string           `gorm:"column:document_url" json:"document_url,omitempty"`
	Notes             string            `gorm:"column:notes" json:"notes,omitempty"`
	Metadata          datatypes.JSONMap `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt         time.Time         `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"column:updated_at" json:"updated_at"`
}

// IsStandalone reports whether the invoice was raised without a repair job.
func (i Invoice) IsStandalone() bool {
	return i.ServiceID == nil
}

// InvoiceItem is one billed line on a standalone invoice.
type InvoiceItem struct {
	ID            snowflake.ID  `gorm:"column:id;primaryKey" json:"id"`
	CompanyID     snowflake.ID  `gorm:"column:company_id" json:"company_id"`
	InvoiceID     snowflake.ID  `gorm:"column:invoice_id" json:"invoice_id"`
	CatalogItemID *snowflake.ID `gorm:"column:catalog_item_id" json:"catalog_item_id,omitempty"`
	Description   string        `gorm:"column:description" json:"description"`
	Quantity      int64         `gorm:"column:quantity" json:"quantity"`
	UnitPrice     int64         `gorm:"column:unit_price" json:"unit_price"`
	Amount        int64         `gorm:"column:amount" json:"amount"`
	CreatedAt     time.Time     `gorm:"column:created_at" json:"created_at"`
}

// Payment is one settlement recorded against an invoice.
type Payment struct {
	ID              snowflake.ID `gorm:"column:id;primaryKey" json:"id"`
	CompanyID       snowflake.ID `gorm:"column:company_id" json:"company_id"`
	InvoiceID       snowflake.ID `gorm:"column:invoice_id" json:"invoice_id"`
	PaymentMethodID snowflake.ID `gorm:"column:payment_method_id" json:"payment_method_id"`
	Amount          int64        `gorm:"column:amount" json:"amount"`
	TransactionID   *string      `gorm:"column:transaction_id" json:"transaction_id,omitempty"`
	Notes           string       `gorm:"column:notes" json:"notes,omitempty"`
	ReceiptKey      *string      `gorm:"column:receipt_key" json:"receipt_key,omitempty"`
	ReceiptURL      *string      `gorm:"column:receipt_url" json:"receipt_url,omitempty"`
	PaidAt          time.Time    `gorm:"column:paid_at" json:"paid_at"`
	CreatedAt       time.Time    `gorm:"column:created_at" json:"created_at"`
}
