package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	GetSnapshot(ctx context.Context, db *gorm.DB, companyID, serviceID snowflake.ID) (*ServiceSnapshot, error)
	UpdateActualCost(ctx context.Context, db *gorm.DB, companyID, serviceID snowflake.ID, actualCost int64, updatedAt time.Time) (bool, error)
}
