package authorization

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestAuthorizeAllowsAdmin(t *testing.T) {
	db := setupAuthzTestDB(t)
	insertMember(t, db, 1, 10, "ADMIN")

	svc := newAuthzService(t, db)

	if err := svc.Authorize(context.Background(), "user:10", "1", ObjectInvoice, ActionInvoiceDelete); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
}

func TestAuthorizeDeniesTechnicianCapability(t *testing.T) {
	db := setupAuthzTestDB(t)
	insertMember(t, db, 1, 11, "TECHNICIAN")

	svc := newAuthzService(t, db)

	err := svc.Authorize(context.Background(), "user:11", "1", ObjectInvoice, ActionInvoiceRecordPayment)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAuthorizeAllowsManagerPayment(t *testing.T) {
	db := setupAuthzTestDB(t)
	insertMember(t, db, 1, 13, "MANAGER")

	svc := newAuthzService(t, db)

	if err := svc.Authorize(context.Background(), "user:13", "1", ObjectInvoice, ActionInvoiceRecordPayment); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
}

func TestAuthorizeDeniesCrossBranch(t *testing.T) {
	db := setupAuthzTestDB(t)
	insertMember(t, db, 1, 12, "ADMIN")

	svc := newAuthzService(t, db)

	err := svc.Authorize(context.Background(), "user:12", "2", ObjectInvoice, ActionInvoiceCreate)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAuthorizeSystem(t *testing.T) {
	db := setupAuthzTestDB(t)

	svc := newAuthzService(t, db)

	if err := svc.Authorize(context.Background(), "system", "3", ObjectInvoice, ActionInvoiceSync); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
}

func newAuthzService(t *testing.T, db *gorm.DB) *ServiceImpl {
	t.Helper()
	enforcer, err := NewEnforcer(db)
	if err != nil {
		t.Fatalf("new enforcer: %v", err)
	}
	return &ServiceImpl{
		db:       db,
		log:      zap.NewNop(),
		enforcer: enforcer,
	}
}

var authzDBSeq int

func setupAuthzTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	authzDBSeq++
	dsn := fmt.Sprintf("file:authzdb_%d?mode=memory&cache=shared", authzDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(
		`CREATE TABLE IF NOT EXISTS branch_members (
			id INTEGER PRIMARY KEY,
			branch_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL,
			role TEXT NOT NULL
		)`,
	).Error; err != nil {
		t.Fatalf("create branch_members: %v", err)
	}
	if err := db.Exec(
		`CREATE TABLE IF NOT EXISTS casbin_rule (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ptype VARCHAR(100) NOT NULL,
			v0 VARCHAR(100),
			v1 VARCHAR(100),
			v2 VARCHAR(100),
			v3 VARCHAR(100),
			v4 VARCHAR(100),
			v5 VARCHAR(100)
		)`,
	).Error; err != nil {
		t.Fatalf("create casbin_rule: %v", err)
	}
	return db
}

func insertMember(t *testing.T, db *gorm.DB, branchID, userID int64, role string) {
	t.Helper()
	if err := db.Exec(
		`INSERT INTO branch_members (id, branch_id, user_id, role)
		 VALUES (?, ?, ?, ?)`,
		userID,
		branchID,
		userID,
		role,
	).Error; err != nil {
		t.Fatalf("insert member: %v", err)
	}
}
