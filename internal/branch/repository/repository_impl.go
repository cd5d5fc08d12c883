package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/fixbench/fixbench/internal/branch/domain"
	"github.com/fixbench/fixbench/pkg/db/option"
	"github.com/fixbench/fixbench/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, branch *domain.Branch) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO branches (id, company_id, name, code, address, phone, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		branch.ID,
		branch.CompanyID,
		branch.Name,
		branch.Code,
		branch.Address,
		branch.Phone,
		branch.IsActive,
		branch.CreatedAt,
		branch.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, branch *domain.Branch) error {
	return db.WithContext(ctx).Exec(
		`UPDATE branches
		 SET name = ?, address = ?, phone = ?, is_active = ?, updated_at = ?
		 WHERE company_id = ? AND id = ?`,
		branch.Name,
		branch.Address,
		branch.Phone,
		branch.IsActive,
		branch.UpdatedAt,
		branch.CompanyID,
		branch.ID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.Branch, error) {
	var branch domain.Branch
	err := db.WithContext(ctx).Raw(
		`SELECT id, company_id, name, code, address, phone, is_active, created_at, updated_at
		 FROM branches WHERE company_id = ? AND id = ?`,
		companyID,
		id,
	).Scan(&branch).Error
	if err != nil {
		return nil, err
	}
	if branch.ID == 0 {
		return nil, nil
	}
	return &branch, nil
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, companyID snowflake.ID, code string) (*domain.Branch, error) {
	var branch domain.Branch
	err := db.WithContext(ctx).Raw(
		`SELECT id, company_id, name, code, address, phone, is_active, created_at, updated_at
		 FROM branches WHERE company_id = ? AND code = ?`,
		companyID,
		strings.TrimSpace(code),
	).Scan(&branch).Error
	if err != nil {
		return nil, err
	}
	if branch.ID == 0 {
		return nil, nil
	}
	return &branch, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, filter domain.ListBranchFilter, page pagination.Pagination) ([]*domain.Branch, error) {
	var branches []*domain.Branch
	stmt := db.WithContext(ctx).
		Model(&domain.Branch{}).
		Where("company_id = ?", companyID)
	if filter.Code != "" {
		stmt = stmt.Where("code = ?", filter.Code)
	}
	if filter.ActiveOnly {
		stmt = stmt.Where("is_active = ?", true)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&branches).Error
	if err != nil {
		return nil, err
	}
	return branches, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`DELETE FROM branches WHERE company_id = ? AND id = ?`,
		companyID,
		id,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
