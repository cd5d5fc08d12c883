package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fixbench/fixbench/internal/auth/password"
	"gorm.io/gorm"
)

const (
	defaultCompanyName = "Main"
	defaultBranchName  = "Main Branch"
	defaultBranchCode  = "main"

	defaultAdminEmail    = "admin@fixbench.local"
	defaultAdminPassword = "admin"
	defaultAdminDisplay  = "Fixbench Admin"
	defaultAdminRole     = "owner"
)

// EnsureDefaultCompany seeds the company and main branch so a fresh
// deployment can raise invoices immediately. A non-zero companyID pins the
// company to the configured default for single-tenant setups.
func EnsureDefaultCompany(db *gorm.DB, companyID int64) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, _, err := ensureCompanyTx(ctx, tx, node, companyID)
		return err
	})
}

// EnsureDefaultAdmin seeds a staff account and grants it the owner role on
// the main branch.
func EnsureDefaultAdmin(db *gorm.DB, companyID int64) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		company, branch, err := ensureCompanyTx(ctx, tx, node, companyID)
		if err != nil {
			return err
		}

		userID, err := ensureAdminUserTx(ctx, tx, node)
		if err != nil {
			return err
		}

		var member idRow
		err = tx.WithContext(ctx).Raw(
			`SELECT id FROM branch_members WHERE branch_id = ? AND user_id = ?`,
			branch, userID,
		).Scan(&member).Error
		if err != nil {
			return err
		}
		if member.ID != 0 {
			return nil
		}

		return tx.WithContext(ctx).Exec(
			`INSERT INTO branch_members (id, company_id, branch_id, user_id, role, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			node.Generate(), company, branch, userID, defaultAdminRole, time.Now().UTC(),
		).Error
	})
}

type idRow struct {
	ID snowflake.ID `gorm:"column:id"`
}

func ensureCompanyTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, companyID int64) (snowflake.ID, snowflake.ID, error) {
	var existing idRow
	err := tx.WithContext(ctx).Raw(`SELECT id FROM companies ORDER BY id LIMIT 1`).Scan(&existing).Error
	if err != nil {
		return 0, 0, err
	}

	now := time.Now().UTC()
	company := existing.ID
	if company == 0 {
		company = node.Generate()
		if companyID != 0 {
			company = snowflake.ID(companyID)
		}
		err = tx.WithContext(ctx).Exec(
			`INSERT INTO companies (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
			company, defaultCompanyName, now, now,
		).Error
		if err != nil {
			return 0, 0, err
		}
	}

	var branchRow idRow
	err = tx.WithContext(ctx).Raw(
		`SELECT id FROM branches WHERE company_id = ? AND code = ?`,
		company, defaultBranchCode,
	).Scan(&branchRow).Error
	if err != nil {
		return 0, 0, err
	}
	branch := branchRow.ID
	if branch == 0 {
		branch = node.Generate()
		err = tx.WithContext(ctx).Exec(
			`INSERT INTO branches (id, company_id, name, code, is_active, created_at, updated_at)
			 VALUES (?, ?, ?, ?, true, ?, ?)`,
			branch, company, defaultBranchName, defaultBranchCode, now, now,
		).Error
		if err != nil {
			return 0, 0, err
		}
	}

	return company, branch, nil
}

func ensureAdminUserTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (snowflake.ID, error) {
	email := strings.ToLower(defaultAdminEmail)

	var existing idRow
	err := tx.WithContext(ctx).Raw(`SELECT id FROM users WHERE email = ?`, email).Scan(&existing).Error
	if err != nil {
		return 0, err
	}
	if existing.ID != 0 {
		return existing.ID, nil
	}

	hashed, err := password.Hash(defaultAdminPassword)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	userID := node.Generate()
	err = tx.WithContext(ctx).Exec(
		`INSERT INTO users (id, email, display_name, password_hash, is_default, created_at, updated_at)
		 VALUES (?, ?, ?, ?, true, ?, ?)`,
		userID, email, defaultAdminDisplay, hashed, now, now,
	).Error
	if err != nil {
		return 0, err
	}
	return userID, nil
}
