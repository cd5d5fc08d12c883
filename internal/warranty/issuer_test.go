package warranty

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fixbench/fixbench/internal/clock"
	"github.com/fixbench/fixbench/internal/events"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var warrantyDBSeq int

func setupWarrantyTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	warrantyDBSeq++
	dsn := fmt.Sprintf("file:warrantydb_%d?mode=memory&cache=shared", warrantyDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, ddl := range []string{
		`CREATE TABLE invoices (
			id BIGINT PRIMARY KEY,
			company_id BIGINT NOT NULL,
			customer_id BIGINT
		)`,
		`CREATE TABLE invoice_items (
			id BIGINT PRIMARY KEY,
			company_id BIGINT NOT NULL,
			invoice_id BIGINT NOT NULL,
			catalog_item_id BIGINT,
			description TEXT NOT NULL
		)`,
		`CREATE TABLE catalog_items (
			id BIGINT PRIMARY KEY,
			company_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			warranty_months INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE warranties (
			id BIGINT PRIMARY KEY,
			company_id BIGINT NOT NULL,
			invoice_id BIGINT NOT NULL,
			invoice_item_id BIGINT NOT NULL UNIQUE,
			catalog_item_id BIGINT NOT NULL,
			customer_id BIGINT,
			months INTEGER NOT NULL,
			starts_at TIMESTAMP NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
	} {
		if err := db.Exec(ddl).Error; err != nil {
			t.Fatalf("ddl: %v", err)
		}
	}

	seeds := []string{
		`INSERT INTO invoices (id, company_id, customer_id) VALUES (500, 1, 3)`,
		`INSERT INTO catalog_items (id, company_id, name, warranty_months) VALUES (20, 1, 'Battery', 6)`,
		`INSERT INTO catalog_items (id, company_id, name, warranty_months) VALUES (21, 1, 'Cable', 0)`,
		`INSERT INTO invoice_items (id, company_id, invoice_id, catalog_item_id, description) VALUES (31, 1, 500, 20, 'Battery')`,
		`INSERT INTO invoice_items (id, company_id, invoice_id, catalog_item_id, description) VALUES (32, 1, 500, 21, 'Cable')`,
		`INSERT INTO invoice_items (id, company_id, invoice_id, catalog_item_id, description) VALUES (33, 1, 500, NULL, 'Labour')`,
	}
	for _, seed := range seeds {
		if err := db.Exec(seed).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return db
}

func newTestIssuer(t *testing.T, db *gorm.DB) *Issuer {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return NewIssuer(Params{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)),
		GenID: node,
	})
}

func saleEvent() events.StoredEvent {
	return events.StoredEvent{
		ID:        1,
		CompanyID: 1,
		Type:      events.EventInvoiceCreatedStandalone,
		Payload:   map[string]any{"invoice_id": "500"},
	}
}

func TestIssuerCreatesWarrantiesForCoveredItems(t *testing.T) {
	db := setupWarrantyTestDB(t)
	issuer := newTestIssuer(t, db)

	if err := issuer.Handle(context.Background(), saleEvent()); err != nil {
		t.Fatalf("handle: %v", err)
	}

	var rows []Warranty
	if err := db.Raw(`SELECT * FROM warranties ORDER BY invoice_item_id`).Scan(&rows).Error; err != nil {
		t.Fatalf("load warranties: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("warranty count = %d, want 1 (only the covered item)", len(rows))
	}
	if rows[0].InvoiceItemID != 31 || rows[0].Months != 6 {
		t.Fatalf("unexpected warranty %+v", rows[0])
	}
	wantExpiry := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	if !rows[0].ExpiresAt.Equal(wantExpiry) {
		t.Fatalf("expires_at = %v, want %v", rows[0].ExpiresAt, wantExpiry)
	}
}

func TestIssuerIsIdempotentOnReplay(t *testing.T) {
	db := setupWarrantyTestDB(t)
	issuer := newTestIssuer(t, db)
	ctx := context.Background()

	if err := issuer.Handle(ctx, saleEvent()); err != nil {
		t.Fatalf("first handle: %v", err)
	}
	if err := issuer.Handle(ctx, saleEvent()); err != nil {
		t.Fatalf("second handle: %v", err)
	}

	var count int64
	if err := db.Raw(`SELECT COUNT(1) FROM warranties`).Scan(&count).Error; err != nil {
		t.Fatalf("count warranties: %v", err)
	}
	if count != 1 {
		t.Fatalf("warranty count = %d, want 1 after replay", count)
	}
}

func TestIssuerIgnoresMalformedPayload(t *testing.T) {
	db := setupWarrantyTestDB(t)
	issuer := newTestIssuer(t, db)

	event := saleEvent()
	event.Payload = map[string]any{"invoice_id": "not-a-number"}
	if err := issuer.Handle(context.Background(), event); err != nil {
		t.Fatalf("malformed payload should be dropped, got %v", err)
	}
}
