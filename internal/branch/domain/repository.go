package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/fixbench/fixbench/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, branch *Branch) error
	Update(ctx context.Context, db *gorm.DB, branch *Branch) error
	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*Branch, error)
	FindByCode(ctx context.Context, db *gorm.DB, companyID snowflake.ID, code string) (*Branch, error)
	List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, filter ListBranchFilter, page pagination.Pagination) ([]*Branch, error)
	Delete(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (bool, error)
}
