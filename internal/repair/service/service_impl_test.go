package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fixbench/fixbench/internal/clock"
	"github.com/fixbench/fixbench/internal/companyctx"
	"github.com/fixbench/fixbench/internal/repair/domain"
	"github.com/fixbench/fixbench/internal/repair/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var repairDBSeq int

var repairTestTime = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func setupRepairTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	repairDBSeq++
	dsn := fmt.Sprintf("file:repairdb_%d?mode=memory&cache=shared", repairDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, ddl := range []string{
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
	} {
		if err := db.Exec(ddl).Error; err != nil {
			t.Fatalf("ddl: %v", err)
		}
	}
	if err := db.Exec(
		`INSERT INTO services (id, company_id, branch_id, customer_id, status, estimated_cost, advance_payment)
		 VALUES (10, 1, 2, 3, 'completed', 200, 50)`,
	).Error; err != nil {
		t.Fatalf("seed service: %v", err)
	}
	return db
}

func newRepairService(t *testing.T, db *gorm.DB) domain.Service {
	t.Helper()
	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(repairTestTime),
		Repo:  repository.Provide(),
	})
}

func repairTestCtx() context.Context {
	return companyctx.WithCompanyID(context.Background(), 1)
}

func TestUpdateCostStampsClockTime(t *testing.T) {
	db := setupRepairTestDB(t)
	svc := newRepairService(t, db)

	snapshot, err := svc.UpdateCost(repairTestCtx(), domain.UpdateCostRequest{ServiceID: "10", ActualCost: 300})
	if err != nil {
		t.Fatalf("update cost: %v", err)
	}
	if snapshot.ActualCost == nil || *snapshot.ActualCost != 300 {
		t.Fatalf("unexpected actual cost %v", snapshot.ActualCost)
	}

	var updatedAt time.Time
	if err := db.Raw(`SELECT updated_at FROM services WHERE id = 10`).Scan(&updatedAt).Error; err != nil {
		t.Fatalf("read service timestamp: %v", err)
	}
	if !updatedAt.Equal(repairTestTime) {
		t.Fatalf("service stamped %v, want clock time %v", updatedAt, repairTestTime)
	}
}

func TestUpdateCostRejectsNegative(t *testing.T) {
	db := setupRepairTestDB(t)
	svc := newRepairService(t, db)

	if _, err := svc.UpdateCost(repairTestCtx(), domain.UpdateCostRequest{ServiceID: "10", ActualCost: -1}); !errors.Is(err, domain.ErrInvalidCost) {
		t.Fatalf("err = %v, want ErrInvalidCost", err)
	}
}

func TestUpdateCostUnknownService(t *testing.T) {
	db := setupRepairTestDB(t)
	svc := newRepairService(t, db)

	if _, err := svc.UpdateCost(repairTestCtx(), domain.UpdateCostRequest{ServiceID: "999", ActualCost: 100}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
