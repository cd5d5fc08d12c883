package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fixbench/fixbench/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListInvoiceFilter struct {
	Status      PaymentStatus
	CustomerID  snowflake.ID
	BranchID    snowflake.ID
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type Repository interface {
	// Insert writes the invoice. It reports false, without error, when a
	// concurrent insert already invoiced the same repair job.
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) (bool, error)
	InsertItems(ctx context.Context, db *gorm.DB, items []InvoiceItem) error
	InsertPayment(ctx context.Context, db *gorm.DB, payment *Payment) error

	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*Invoice, error)
	// FindByIDForUpdate locks the invoice row for the rest of the caller's
	// transaction.
	FindByIDForUpdate(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*Invoice, error)
	FindByServiceID(ctx context.Context, db *gorm.DB, companyID, serviceID snowflake.ID) (*Invoice, error)

	UpdateAmounts(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	UpdateDocument(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID, key, url string) error
	UpdatePaymentReceipt(ctx context.Context, db *gorm.DB, companyID, paymentID snowflake.ID, key, url string) error

	SumPayments(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (int64, error)
	ListPayments(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]Payment, error)
	ListItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]InvoiceItem, error)

	DeletePayments(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) error
	DeleteItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) error
	Delete(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (bool, error)

	List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, filter ListInvoiceFilter, page pagination.Pagination) ([]*Invoice, error)

	CustomerExists(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (bool, error)
	BranchExists(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (bool, error)
	PaymentMethodExists(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (bool, error)
}
