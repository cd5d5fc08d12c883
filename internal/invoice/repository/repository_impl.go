package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/fixbench/fixbench/internal/invoice/domain"
	pkgdb "github.com/fixbench/fixbench/pkg/db"
	"github.com/fixbench/fixbench/pkg/db/option"
	"github.com/fixbench/fixbench/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const invoiceColumns = `id, company_id, branch_id, service_id, customer_id, invoice_number,
	 is_warranty_invoice, total_amount, paid_amount, balance_amount, payment_status,
	 document_key, document_url, notes, metadata, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) (bool, error) {
	// The conflict target is the unique service_id index, so a repair job
	// can never grow a second invoice even under concurrent creates.
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if invoice.ServiceID != nil {
		query += ` ON CONFLICT (service_id) DO NOTHING`
	}

	result := db.WithContext(ctx).Exec(query,
		invoice.ID,
		invoice.CompanyID,
		invoice.BranchID,
		invoice.ServiceID,
		invoice.CustomerID,
		invoice.InvoiceNumber,
		invoice.IsWarrantyInvoice,
		invoice.TotalAmount,
		invoice.PaidAmount,
		invoice.BalanceAmount,
		invoice.PaymentStatus,
		invoice.DocumentKey,
		invoice.DocumentURL,
		invoice.Notes,
		invoice.Metadata,
		invoice.CreatedAt,
		invoice.UpdatedAt,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) InsertItems(ctx context.Context, db *gorm.DB, items []domain.InvoiceItem) error {
	for i := range items {
		item := items[i]
		err := db.WithContext(ctx).Exec(
			`INSERT INTO invoice_items (id, company_id, invoice_id, catalog_item_id, description, quantity, unit_price, amount, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID,
			item.CompanyID,
			item.InvoiceID,
			item.CatalogItemID,
			item.Description,
			item.Quantity,
			item.UnitPrice,
			item.Amount,
			item.CreatedAt,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) InsertPayment(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payments (id, company_id, invoice_id, payment_method_id, amount, transaction_id, notes, paid_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID,
		payment.CompanyID,
		payment.InvoiceID,
		payment.PaymentMethodID,
		payment.Amount,
		payment.TransactionID,
		payment.Notes,
		payment.PaidAt,
		payment.CreatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.Invoice, error) {
	return r.findOne(ctx, db, `SELECT `+invoiceColumns+` FROM invoices WHERE company_id = ? AND id = ?`, companyID, id)
}

func (r *repo) FindByIDForUpdate(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE company_id = ? AND id = ?` + pkgdb.RowLockClause(db)
	return r.findOne(ctx, db, query, companyID, id)
}

func (r *repo) FindByServiceID(ctx context.Context, db *gorm.DB, companyID, serviceID snowflake.ID) (*domain.Invoice, error) {
	return r.findOne(ctx, db, `SELECT `+invoiceColumns+` FROM invoices WHERE company_id = ? AND service_id = ?`, companyID, serviceID)
}

func (r *repo) findOne(ctx context.Context, db *gorm.DB, query string, args ...any) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := db.WithContext(ctx).Raw(query, args...).Scan(&invoice).Error
	if err != nil {
		return nil, err
	}
	if invoice.ID == 0 {
		return nil, nil
	}
	return &invoice, nil
}

func (r *repo) UpdateAmounts(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Exec(
		`UPDATE invoices
		 SET total_amount = ?, paid_amount = ?, balance_amount = ?, payment_status = ?, updated_at = ?
		 WHERE company_id = ? AND id = ?`,
		invoice.TotalAmount,
		invoice.PaidAmount,
		invoice.BalanceAmount,
		invoice.PaymentStatus,
		invoice.UpdatedAt,
		invoice.CompanyID,
		invoice.ID,
	).Error
}

func (r *repo) UpdateDocument(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID, key, url string) error {
	return db.WithContext(ctx).Exec(
		`UPDATE invoices SET document_key = ?, document_url = ? WHERE company_id = ? AND id = ?`,
		key,
		url,
		companyID,
		id,
	).Error
}

func (r *repo) UpdatePaymentReceipt(ctx context.Context, db *gorm.DB, companyID, paymentID snowflake.ID, key, url string) error {
	return db.WithContext(ctx).Exec(
		`UPDATE payments SET receipt_key = ?, receipt_url = ? WHERE company_id = ? AND id = ?`,
		key,
		url,
		companyID,
		paymentID,
	).Error
}

func (r *repo) SumPayments(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE invoice_id = ?`,
		invoiceID,
	).Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repo) ListPayments(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := db.WithContext(ctx).Raw(
		`SELECT id, company_id, invoice_id, payment_method_id, amount, transaction_id, notes, receipt_key, receipt_url, paid_at, created_at
		 FROM payments WHERE invoice_id = ? ORDER BY paid_at ASC, id ASC`,
		invoiceID,
	).Scan(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repo) ListItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]domain.InvoiceItem, error) {
	var items []domain.InvoiceItem
	err := db.WithContext(ctx).Raw(
		`SELECT id, company_id, invoice_id, catalog_item_id, description, quantity, unit_price, amount, created_at
		 FROM invoice_items WHERE invoice_id = ? ORDER BY id ASC`,
		invoiceID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) DeletePayments(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM payments WHERE invoice_id = ?`, invoiceID).Error
}

func (r *repo) DeleteItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM invoice_items WHERE invoice_id = ?`, invoiceID).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (bool, error) {
	result := db.WithContext(ctx).Exec(`DELETE FROM invoices WHERE company_id = ? AND id = ?`, companyID, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, filter domain.ListInvoiceFilter, page pagination.Pagination) ([]*domain.Invoice, error) {
	var invoices []*domain.Invoice
	stmt := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("company_id = ?", companyID)
	if filter.Status != "" {
		stmt = stmt.Where("payment_status = ?", filter.Status)
	}
	if filter.CustomerID != 0 {
		stmt = stmt.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.BranchID != 0 {
		stmt = stmt.Where("branch_id = ?", filter.BranchID)
	}
	if filter.CreatedFrom != nil {
		stmt = stmt.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		stmt = stmt.Where("created_at <= ?", *filter.CreatedTo)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) CustomerExists(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (bool, error) {
	return r.exists(ctx, db, `SELECT COUNT(1) FROM customers WHERE company_id = ? AND id = ?`, companyID, id)
}

func (r *repo) BranchExists(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (bool, error) {
	return r.exists(ctx, db, `SELECT COUNT(1) FROM branches WHERE company_id = ? AND id = ?`, companyID, id)
}

func (r *repo) PaymentMethodExists(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (bool, error) {
	return r.exists(ctx, db, `SELECT COUNT(1) FROM payment_methods WHERE company_id = ? AND id = ? AND is_active`, companyID, id)
}

func (r *repo) exists(ctx context.Context, db *gorm.DB, query string, args ...any) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Raw(query, args...).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
