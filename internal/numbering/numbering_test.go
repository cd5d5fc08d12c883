package numbering

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fixbench/fixbench/internal/clock"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var numberingTestTime = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

var numberingDBSeq int

func setupNumberingTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	numberingDBSeq++
	dsn := fmt.Sprintf("file:numberingdb_%d?mode=memory&cache=shared", numberingDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, ddl := range []string{
		`CREATE TABLE branches (
			id BIGINT PRIMARY KEY,
			company_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			code TEXT NOT NULL
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
	} {
		if err := db.Exec(ddl).Error; err != nil {
			t.Fatalf("ddl: %v", err)
		}
	}
	if err := db.Exec(
		`INSERT INTO branches (id, company_id, name, code) VALUES (2, 1, 'Koramangala', 'kmg')`,
	).Error; err != nil {
		t.Fatalf("seed branch: %v", err)
	}
	return db
}

func newNumberingService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return New(Params{DB: db, Log: zap.NewNop(), Clock: clock.NewFakeClock(numberingTestTime), GenID: node})
}

func TestNextInvoiceNumberSequence(t *testing.T) {
	db := setupNumberingTestDB(t)
	svc := newNumberingService(t, db)
	ctx := context.Background()

	first, err := svc.NextInvoiceNumber(ctx, nil, 1, 2)
	if err != nil {
		t.Fatalf("first number: %v", err)
	}
	if first != "INV-KMG-000001" {
		t.Fatalf("unexpected first number %q", first)
	}

	second, err := svc.NextInvoiceNumber(ctx, nil, 1, 2)
	if err != nil {
		t.Fatalf("second number: %v", err)
	}
	if second != "INV-KMG-000002" {
		t.Fatalf("unexpected second number %q", second)
	}

	var updatedAt time.Time
	if err := db.Raw(
		`SELECT updated_at FROM document_sequences WHERE company_id = 1 AND branch_id = 2 AND doc_type = ?`,
		DocTypeInvoice,
	).Scan(&updatedAt).Error; err != nil {
		t.Fatalf("read sequence timestamp: %v", err)
	}
	if !updatedAt.Equal(numberingTestTime) {
		t.Fatalf("sequence stamped %v, want clock time %v", updatedAt, numberingTestTime)
	}
}

func TestNextInvoiceNumberUnknownBranch(t *testing.T) {
	db := setupNumberingTestDB(t)
	svc := newNumberingService(t, db)

	if _, err := svc.NextInvoiceNumber(context.Background(), nil, 1, 999); err != ErrUnknownBranch {
		t.Fatalf("expected ErrUnknownBranch, got %v", err)
	}
}
