package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fixbench/fixbench/internal/clock"
	"github.com/fixbench/fixbench/internal/companyctx"
	"github.com/fixbench/fixbench/internal/invoice/domain"
	"github.com/fixbench/fixbench/internal/invoice/repository"
	"github.com/fixbench/fixbench/internal/numbering"
	"github.com/fixbench/fixbench/internal/providers/docstore"
	"github.com/fixbench/fixbench/internal/providers/pdf"
	repairrepository "github.com/fixbench/fixbench/internal/repair/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var invoiceDBSeq int

func setupInvoiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	invoiceDBSeq++
	dsn := fmt.Sprintf("file:invoicedb_%d?mode=memory&cache=shared", invoiceDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, ddl := range []string{
		`CREATE TABLE companies (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE branches (
			id BIGINT PRIMARY KEY,
			company_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			code TEXT NOT NULL,
			address TEXT,
			phone TEXT
		)`,
		`CREATE TABLE customers (
			id BIGINT PRIMARY KEY,
			company_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			phone TEXT
		)`,
		`CREATE TABLE payment_methods (
			id BIGINT PRIMARY KEY,
			company_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE services (
			id BIGINT PRIMARY KEY,
			company_id BIGINT NOT NULL,
			branch_id BIGINT NOT NULL,
			customer_id BIGINT NOT NULL,
			status TEXT NOT NULL,
			is_warranty_repair BOOLEAN NOT NULL DEFAULT FALSE,
			estimated_cost BIGINT,
			actual_cost BIGINT,
			advance_payment BIGINT NOT NULL DEFAULT 0,
			updated_at TIMESTAMP
		)`,
		`CREATE TABLE service_faults (
			service_id BIGINT NOT NULL,
			fault_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			default_price BIGINT NOT NULL,
			matching BOOLEAN NOT NULL,
			position INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE service_parts (
			service_id BIGINT NOT NULL,
			part_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			unit_price BIGINT NOT NULL,
			total_price BIGINT NOT NULL,
			is_extra_spare BOOLEAN NOT NULL,
			is_approved BOOLEAN NOT NULL,
			position INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE service_payment_entries (
			service_id BIGINT NOT NULL,
			amount BIGINT NOT NULL,
			payment_method_id BIGINT NOT NULL,
			notes TEXT,
			paid_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE document_sequences (
			id BIGINT PRIMARY KEY,
			company_id BIGINT NOT NULL,
			branch_id BIGINT NOT NULL,
			doc_type TEXT NOT NULL,
			next_value BIGINT NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (company_id, branch_id, doc_type)
		)`,
		`CREATE TABLE invoices (
			id BIGINT PRIMARY KEY,
			company_id BIGINT NOT NULL,
			branch_id BIGINT NOT NULL,
			service_id BIGINT UNIQUE,
			customer_id BIGINT,
			invoice_number TEXT NOT NULL,
			is_warranty_invoice BOOLEAN NOT NULL DEFAULT FALSE,
			total_amount BIGINT NOT NULL,
			paid_amount BIGINT NOT NULL,
			balance_amount BIGINT NOT NULL,
			payment_status TEXT NOT NULL,
			document_key TEXT,
			document_url TEXT,
			notes TEXT,
			metadata TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE invoice_items (
			id BIGINT PRIMARY KEY,
			company_id BIGINT NOT NULL,
			invoice_id BIGINT NOT NULL,
			catalog_item_id BIGINT,
			description TEXT NOT NULL,
			quantity BIGINT NOT NULL,
			unit_price BIGINT NOT NULL,
			amount BIGINT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE payments (
			id BIGINT PRIMARY KEY,
			company_id BIGINT NOT NULL,
			invoice_id BIGINT NOT NULL,
			payment_method_id BIGINT NOT NULL,
			amount BIGINT NOT NULL,
			transaction_id TEXT,
			notes TEXT,
			receipt_key TEXT,
			receipt_url TEXT,
			paid_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
	} {
		if err := db.Exec(ddl).Error; err != nil {
			t.Fatalf("ddl: %v", err)
		}
	}

	seeds := []string{
		`INSERT INTO companies (id, name) VALUES (1, 'Fixbench Devices')`,
		`INSERT INTO branches (id, company_id, name, code, address, phone)
		 VALUES (2, 1, 'Koramangala', 'kmg', '5th Block', '080-1234')`,
		`INSERT INTO customers (id, company_id, name, phone) VALUES (3, 1, 'Asha Rao', '99860')`,
		`INSERT INTO payment_methods (id, company_id, name) VALUES (4, 1, 'Cash')`,
		`INSERT INTO services (id, company_id, branch_id, customer_id, status, is_warranty_repair, estimated_cost, advance_payment)
		 VALUES (10, 1, 2, 3, 'completed', FALSE, 200, 50)`,
		`INSERT INTO service_payment_entries (service_id, amount, payment_method_id, notes, paid_at)
		 VALUES (10, 50, 4, 'advance', '2026-02-01 09:00:00')`,
	}
	for _, seed := range seeds {
		if err := db.Exec(seed).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return db
}

func newInvoiceService(t *testing.T, db *gorm.DB) domain.Service {
	return newInvoiceServiceWithDocs(t, db, nil, nil)
}

func newInvoiceServiceWithDocs(t *testing.T, db *gorm.DB, renderer pdf.Renderer, docs docstore.Store) domain.Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	log := zap.NewNop()
	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	return New(Params{
		DB:         db,
		Log:        log,
		Clock:      fake,
		GenID:      node,
		Repo:       repository.Provide(),
		RepairRepo: repairrepository.Provide(),
		Numbering:  numbering.New(numbering.Params{DB: db, Log: log, Clock: fake, GenID: node}),
		Renderer:   renderer,
		Docs:       docs,
	})
}

type captureRenderer struct {
	receipts []pdf.ReceiptDocument
}

func (r *captureRenderer) RenderInvoice(_ context.Context, _ string, _ pdf.InvoiceDocument) ([]byte, error) {
	return []byte("%PDF-invoice"), nil
}

func (r *captureRenderer) RenderReceipt(_ context.Context, _ string, doc pdf.ReceiptDocument) ([]byte, error) {
	r.receipts = append(r.receipts, doc)
	return []byte("%PDF-receipt"), nil
}

type memoryDocStore struct {
	saved map[string][]byte
}

func (s *memoryDocStore) Save(_ context.Context, key string, data []byte) (string, error) {
	if s.saved == nil {
		s.saved = map[string][]byte{}
	}
	s.saved[key] = data
	return "/documents/" + key, nil
}

func invoiceTestCtx() context.Context {
	return companyctx.WithCompanyID(context.Background(), 1)
}

func TestCreateFromServiceDerivesFlatTotals(t *testing.T) {
	db := setupInvoiceTestDB(t)
	svc := newInvoiceService(t, db)
	ctx := invoiceTestCtx()

	invoice, err := svc.CreateFromService(ctx, domain.CreateFromServiceRequest{ServiceID: "10"})
	if err != nil {
		t.Fatalf("create from service: %v", err)
	}

	if invoice.TotalAmount != 200 || invoice.PaidAmount != 50 || invoice.BalanceAmount != 150 {
		t.Fatalf("unexpected amounts %d/%d/%d", invoice.TotalAmount, invoice.PaidAmount, invoice.BalanceAmount)
	}
	if invoice.PaymentStatus != domain.PaymentStatusPartial {
		t.Fatalf("status = %s, want PARTIAL", invoice.PaymentStatus)
	}
	if invoice.InvoiceNumber != "INV-KMG-000001" {
		t.Fatalf("unexpected invoice number %q", invoice.InvoiceNumber)
	}

	detail, err := svc.GetByID(ctx, domain.GetInvoiceRequest{ID: invoice.ID.String()})
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if len(detail.Payments) != 1 || detail.Payments[0].Amount != 50 {
		t.Fatalf("advance payment not materialized: %+v", detail.Payments)
	}
}

func TestCreateFromServiceWarrantySplit(t *testing.T) {
	db := setupInvoiceTestDB(t)
	svc := newInvoiceService(t, db)
	ctx := invoiceTestCtx()

	seeds := []string{
		`INSERT INTO services (id, company_id, branch_id, customer_id, status, is_warranty_repair, actual_cost, advance_payment)
		 VALUES (11, 1, 2, 3, 'completed', TRUE, 500, 0)`,
		`INSERT INTO service_faults (service_id, fault_id, name, default_price, matching, position)
		 VALUES (11, 101, 'screen crack', 100, TRUE, 0), (11, 102, 'water damage', 50, FALSE, 1)`,
		`INSERT INTO service_parts (service_id, part_id, name, quantity, unit_price, total_price, is_extra_spare, is_approved, position)
		 VALUES (11, 201, 'battery', 1, 30, 30, TRUE, TRUE, 0),
		        (11, 202, 'screen', 1, 20, 20, FALSE, TRUE, 1),
		        (11, 203, 'case', 1, 40, 40, TRUE, FALSE, 2)`,
	}
	for _, seed := range seeds {
		if err := db.Exec(seed).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	invoice, err := svc.CreateFromService(ctx, domain.CreateFromServiceRequest{ServiceID: "11"})
	if err != nil {
		t.Fatalf("create warranty invoice: %v", err)
	}
	if !invoice.IsWarrantyInvoice {
		t.Fatal("expected warranty invoice")
	}
	if invoice.TotalAmount != 80 {
		t.Fatalf("warranty total = %d, want 80", invoice.TotalAmount)
	}
}

func TestCreateFromServiceRejectsDuplicate(t *testing.T) {
	db := setupInvoiceTestDB(t)
	svc := newInvoiceService(t, db)
	ctx := invoiceTestCtx()

	if _, err := svc.CreateFromService(ctx, domain.CreateFromServiceRequest{ServiceID: "10"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.CreateFromService(ctx, domain.CreateFromServiceRequest{ServiceID: "10"}); !errors.Is(err, domain.ErrInvoiceExists) {
		t.Fatalf("second create err = %v, want ErrInvoiceExists", err)
	}

	var count int64
	if err := db.Raw(`SELECT COUNT(1) FROM invoices WHERE service_id = 10`).Scan(&count).Error; err != nil {
		t.Fatalf("count invoices: %v", err)
	}
	if count != 1 {
		t.Fatalf("invoice count = %d, want 1", count)
	}
}

func TestCreateFromServiceUnknownService(t *testing.T) {
	db := setupInvoiceTestDB(t)
	svc := newInvoiceService(t, db)

	_, err := svc.CreateFromService(invoiceTestCtx(), domain.CreateFromServiceRequest{ServiceID: "999"})
	if !errors.Is(err, domain.ErrServiceNotFound) {
		t.Fatalf("err = %v, want ErrServiceNotFound", err)
	}
}

func TestRecordPaymentTransitionsToPaid(t *testing.T) {
	db := setupInvoiceTestDB(t)
	svc := newInvoiceService(t, db)
	ctx := invoiceTestCtx()

	invoice, err := svc.CreateFromService(ctx, domain.CreateFromServiceRequest{ServiceID: "10"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	resp, err := svc.RecordPayment(ctx, domain.RecordPaymentRequest{
		InvoiceID:       invoice.ID.String(),
		Amount:          150,
		PaymentMethodID: "4",
		TransactionID:   "txn-8844",
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}

	if resp.Invoice.PaidAmount != 200 || resp.Invoice.BalanceAmount != 0 {
		t.Fatalf("unexpected paid/balance %d/%d", resp.Invoice.PaidAmount, resp.Invoice.BalanceAmount)
	}
	if resp.Invoice.PaymentStatus != domain.PaymentStatusPaid {
		t.Fatalf("status = %s, want PAID", resp.Invoice.PaymentStatus)
	}
	if resp.Payment.TransactionID == nil || *resp.Payment.TransactionID != "txn-8844" {
		t.Fatalf("transaction id not stored: %+v", resp.Payment)
	}
}

func TestRecordPaymentOverpaymentLeavesInvoiceUnchanged(t *testing.T) {
	db := setupInvoiceTestDB(t)
	svc := newInvoiceService(t, db)
	ctx := invoiceTestCtx()

	invoice, err := svc.CreateFromService(ctx, domain.CreateFromServiceRequest{ServiceID: "10"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.RecordPayment(ctx, domain.RecordPaymentRequest{
		InvoiceID:       invoice.ID.String(),
		Amount:          151,
		PaymentMethodID: "4",
	})
	if !errors.Is(err, domain.ErrOverpayment) {
		t.Fatalf("err = %v, want ErrOverpayment", err)
	}

	detail, err := svc.GetByID(ctx, domain.GetInvoiceRequest{ID: invoice.ID.String()})
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if detail.Invoice.PaidAmount != 50 || detail.Invoice.PaymentStatus != domain.PaymentStatusPartial {
		t.Fatalf("invoice mutated by rejected payment: %+v", detail.Invoice)
	}
	if len(detail.Payments) != 1 {
		t.Fatalf("payment ledger mutated: %d rows", len(detail.Payments))
	}
}

func TestRecordPaymentUnknownMethod(t *testing.T) {
	db := setupInvoiceTestDB(t)
	svc := newInvoiceService(t, db)
	ctx := invoiceTestCtx()

	invoice, err := svc.CreateFromService(ctx, domain.CreateFromServiceRequest{ServiceID: "10"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.RecordPayment(ctx, domain.RecordPaymentRequest{
		InvoiceID:       invoice.ID.String(),
		Amount:          10,
		PaymentMethodID: "777",
	})
	if !errors.Is(err, domain.ErrPaymentMethodNotFound) {
		t.Fatalf("err = %v, want ErrPaymentMethodNotFound", err)
	}
}

func TestRecordPaymentRendersReceipt(t *testing.T) {
	db := setupInvoiceTestDB(t)
	renderer := &captureRenderer{}
	docs := &memoryDocStore{}
	svc := newInvoiceServiceWithDocs(t, db, renderer, docs)
	ctx := invoiceTestCtx()

	invoice, err := svc.CreateFromService(ctx, domain.CreateFromServiceRequest{ServiceID: "10"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	resp, err := svc.RecordPayment(ctx, domain.RecordPaymentRequest{
		InvoiceID:       invoice.ID.String(),
		Amount:          100,
		PaymentMethodID: "4",
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}

	if len(renderer.receipts) != 1 {
		t.Fatalf("rendered %d receipts, want 1", len(renderer.receipts))
	}
	receipt := renderer.receipts[0]
	if receipt.PaymentMethod != "Cash" {
		t.Fatalf("receipt method = %q, want Cash", receipt.PaymentMethod)
	}
	if receipt.PaymentAmount != "INR 1.00" {
		t.Fatalf("receipt amount = %q, want INR 1.00", receipt.PaymentAmount)
	}
	if receipt.CompanyName != "Fixbench Devices" || receipt.CustomerName != "Asha Rao" {
		t.Fatalf("unexpected receipt parties %q / %q", receipt.CompanyName, receipt.CustomerName)
	}

	if resp.Payment.ReceiptURL == nil || resp.Payment.ReceiptKey == nil {
		t.Fatalf("payment missing receipt reference: %+v", resp.Payment)
	}
	if _, ok := docs.saved[*resp.Payment.ReceiptKey]; !ok {
		t.Fatalf("receipt %q not stored", *resp.Payment.ReceiptKey)
	}

	var stored string
	if err := db.Raw(
		`SELECT receipt_url FROM payments WHERE id = ?`, resp.Payment.ID,
	).Scan(&stored).Error; err != nil {
		t.Fatalf("read receipt url: %v", err)
	}
	if stored != *resp.Payment.ReceiptURL {
		t.Fatalf("stored receipt url %q, want %q", stored, *resp.Payment.ReceiptURL)
	}
}

func TestSyncFromServiceReconcilesDrift(t *testing.T) {
	db := setupInvoiceTestDB(t)
	svc := newInvoiceService(t, db)
	ctx := invoiceTestCtx()

	invoice, err := svc.CreateFromService(ctx, domain.CreateFromServiceRequest{ServiceID: "10"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Cost revised after invoicing.
	if err := db.Exec(`UPDATE services SET actual_cost = 300 WHERE id = 10`).Error; err != nil {
		t.Fatalf("revise cost: %v", err)
	}
	// Stored paid amount drifted out from under the payments ledger.
	if err := db.Exec(
		`UPDATE invoices SET paid_amount = 999, balance_amount = 0 WHERE id = ?`, invoice.ID,
	).Error; err != nil {
		t.Fatalf("drift paid amount: %v", err)
	}

	synced, err := svc.SyncFromService(ctx, invoice.ID.String())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if synced.TotalAmount != 300 {
		t.Fatalf("synced total = %d, want 300", synced.TotalAmount)
	}
	if synced.PaidAmount != 50 {
		t.Fatalf("synced paid = %d, want ledger sum 50 over the drifted 999", synced.PaidAmount)
	}
	if synced.BalanceAmount != 250 || synced.PaymentStatus != domain.PaymentStatusPartial {
		t.Fatalf("unexpected synced state %+v", synced)
	}
}

func TestSyncRejectsStandaloneInvoice(t *testing.T) {
	db := setupInvoiceTestDB(t)
	svc := newInvoiceService(t, db)
	ctx := invoiceTestCtx()

	invoice, err := svc.CreateStandalone(ctx, domain.CreateStandaloneRequest{
		CustomerID:  "3",
		BranchID:    "2",
		TotalAmount: 120,
		Items: []domain.StandaloneItem{
			{Description: "Tempered glass", Quantity: 1, UnitPrice: 120},
		},
	})
	if err != nil {
		t.Fatalf("create standalone: %v", err)
	}

	if _, err := svc.SyncFromService(ctx, invoice.ID.String()); !errors.Is(err, domain.ErrNotServiceInvoice) {
		t.Fatalf("err = %v, want ErrNotServiceInvoice", err)
	}
}

func TestCreateStandalonePersistsItems(t *testing.T) {
	db := setupInvoiceTestDB(t)
	svc := newInvoiceService(t, db)
	ctx := invoiceTestCtx()

	invoice, err := svc.CreateStandalone(ctx, domain.CreateStandaloneRequest{
		CustomerID:  "3",
		BranchID:    "2",
		TotalAmount: 250,
		PaidAmount:  250,
		Items: []domain.StandaloneItem{
			{Description: "Tempered glass", Quantity: 2, UnitPrice: 60},
			{Description: "Phone case", Quantity: 1, UnitPrice: 130, Amount: 130},
		},
	})
	if err != nil {
		t.Fatalf("create standalone: %v", err)
	}

	if invoice.ServiceID != nil {
		t.Fatal("standalone invoice should not link a repair job")
	}
	if invoice.PaymentStatus != domain.PaymentStatusPaid {
		t.Fatalf("status = %s, want PAID", invoice.PaymentStatus)
	}

	detail, err := svc.GetByID(ctx, domain.GetInvoiceRequest{ID: invoice.ID.String()})
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if len(detail.Items) != 2 {
		t.Fatalf("item count = %d, want 2", len(detail.Items))
	}
	if detail.Items[0].Amount != 120 {
		t.Fatalf("derived item amount = %d, want 120", detail.Items[0].Amount)
	}
}

func TestCreateStandaloneValidation(t *testing.T) {
	db := setupInvoiceTestDB(t)
	svc := newInvoiceService(t, db)
	ctx := invoiceTestCtx()

	_, err := svc.CreateStandalone(ctx, domain.CreateStandaloneRequest{
		CustomerID:  "3",
		BranchID:    "2",
		TotalAmount: 100,
	})
	if !errors.Is(err, domain.ErrMissingItems) {
		t.Fatalf("err = %v, want ErrMissingItems", err)
	}

	_, err = svc.CreateStandalone(ctx, domain.CreateStandaloneRequest{
		CustomerID:  "888",
		BranchID:    "2",
		TotalAmount: 100,
		Items: []domain.StandaloneItem{
			{Description: "Charger", Quantity: 1, UnitPrice: 100},
		},
	})
	if !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("err = %v, want ErrCustomerNotFound", err)
	}
}

func TestCreateStandaloneIsAtomic(t *testing.T) {
	db := setupInvoiceTestDB(t)
	svc := newInvoiceService(t, db)
	ctx := invoiceTestCtx()

	// Force the item insert to fail mid-transaction.
	if err := db.Exec(`DROP TABLE invoice_items`).Error; err != nil {
		t.Fatalf("drop table: %v", err)
	}

	_, err := svc.CreateStandalone(ctx, domain.CreateStandaloneRequest{
		CustomerID:  "3",
		BranchID:    "2",
		TotalAmount: 100,
		Items: []domain.StandaloneItem{
			{Description: "Charger", Quantity: 1, UnitPrice: 100},
		},
	})
	if err == nil {
		t.Fatal("expected item insert failure")
	}

	var count int64
	if err := db.Raw(`SELECT COUNT(1) FROM invoices`).Scan(&count).Error; err != nil {
		t.Fatalf("count invoices: %v", err)
	}
	if count != 0 {
		t.Fatalf("invoice row survived rolled-back create: %d", count)
	}
}

func TestDeleteCascadesPayments(t *testing.T) {
	db := setupInvoiceTestDB(t)
	svc := newInvoiceService(t, db)
	ctx := invoiceTestCtx()

	invoice, err := svc.CreateFromService(ctx, domain.CreateFromServiceRequest{ServiceID: "10"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, invoice.ID.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var payments int64
	if err := db.Raw(`SELECT COUNT(1) FROM payments WHERE invoice_id = ?`, invoice.ID).Scan(&payments).Error; err != nil {
		t.Fatalf("count payments: %v", err)
	}
	if payments != 0 {
		t.Fatalf("payment rows survived delete: %d", payments)
	}

	if _, err := svc.GetByID(ctx, domain.GetInvoiceRequest{ID: invoice.ID.String()}); !errors.Is(err, domain.ErrInvoiceNotFound) {
		t.Fatalf("err = %v, want ErrInvoiceNotFound", err)
	}
}

func TestUpdateAmountsRederivesStatus(t *testing.T) {
	db := setupInvoiceTestDB(t)
	svc := newInvoiceService(t, db)
	ctx := invoiceTestCtx()

	invoice, err := svc.CreateFromService(ctx, domain.CreateFromServiceRequest{ServiceID: "10"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	total := int64(50)
	updated, err := svc.UpdateAmounts(ctx, domain.UpdateAmountsRequest{
		InvoiceID:   invoice.ID.String(),
		TotalAmount: &total,
	})
	if err != nil {
		t.Fatalf("update amounts: %v", err)
	}
	if updated.PaymentStatus != domain.PaymentStatusPaid {
		t.Fatalf("status = %s, want PAID after total drop", updated.PaymentStatus)
	}
	if updated.BalanceAmount != 0 {
		t.Fatalf("balance = %d, want 0", updated.BalanceAmount)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	db := setupInvoiceTestDB(t)
	svc := newInvoiceService(t, db)
	ctx := invoiceTestCtx()

	if _, err := svc.CreateFromService(ctx, domain.CreateFromServiceRequest{ServiceID: "10"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateStandalone(ctx, domain.CreateStandaloneRequest{
		CustomerID:  "3",
		BranchID:    "2",
		TotalAmount: 90,
		PaidAmount:  90,
		Items: []domain.StandaloneItem{
			{Description: "Cable", Quantity: 1, UnitPrice: 90},
		},
	}); err != nil {
		t.Fatalf("create standalone: %v", err)
	}

	resp, err := svc.List(ctx, domain.ListInvoiceRequest{Status: "PAID"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(resp.Invoices) != 1 {
		t.Fatalf("paid invoice count = %d, want 1", len(resp.Invoices))
	}
	if resp.Invoices[0].PaymentStatus != domain.PaymentStatusPaid {
		t.Fatalf("unexpected status %s", resp.Invoices[0].PaymentStatus)
	}
}
