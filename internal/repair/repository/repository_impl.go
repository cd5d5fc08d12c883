package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fixbench/fixbench/internal/repair/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

type serviceRow struct {
	ID               snowflake.ID `gorm:"column:id"`
	CompanyID        snowflake.ID `gorm:"column:company_id"`
	BranchID         snowflake.ID `gorm:"column:branch_id"`
	CustomerID       snowflake.ID `gorm:"column:customer_id"`
	Status           string       `gorm:"column:status"`
	IsWarrantyRepair bool         `gorm:"column:is_warranty_repair"`
	EstimatedCost    *int64       `gorm:"column:estimated_cost"`
	ActualCost       *int64       `gorm:"column:actual_cost"`
	AdvancePayment   int64        `gorm:"column:advance_payment"`
}

func (r *repo) GetSnapshot(ctx context.Context, db *gorm.DB, companyID, serviceID snowflake.ID) (*domain.ServiceSnapshot, error) {
	var row serviceRow
	err := db.WithContext(ctx).Raw(
		`SELECT id, company_id, branch_id, customer_id, status, is_warranty_repair,
		        estimated_cost, actual_cost, advance_payment
		 FROM services
		 WHERE company_id = ? AND id = ?`,
		companyID,
		serviceID,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}

	snapshot := domain.ServiceSnapshot{
		ID:               row.ID,
		CompanyID:        row.CompanyID,
		BranchID:         row.BranchID,
		CustomerID:       row.CustomerID,
		Status:           row.Status,
		IsWarrantyRepair: row.IsWarrantyRepair,
		EstimatedCost:    row.EstimatedCost,
		ActualCost:       row.ActualCost,
		AdvancePayment:   row.AdvancePayment,
	}

	if err := db.WithContext(ctx).Raw(
		`SELECT fault_id, name, default_price, matching
		 FROM service_faults
		 WHERE service_id = ?
		 ORDER BY position ASC, fault_id ASC`,
		serviceID,
	).Scan(&snapshot.Faults).Error; err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Raw(
		`SELECT part_id, name, quantity, unit_price, total_price, is_extra_spare, is_approved
		 FROM service_parts
		 WHERE service_id = ?
		 ORDER BY position ASC, part_id ASC`,
		serviceID,
	).Scan(&snapshot.Parts).Error; err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Raw(
		`SELECT amount, payment_method_id, notes, paid_at
		 FROM service_payment_entries
		 WHERE service_id = ?
		 ORDER BY paid_at ASC`,
		serviceID,
	).Scan(&snapshot.Payments).Error; err != nil {
		return nil, err
	}

	return &snapshot, nil
}

func (r *repo) UpdateActualCost(ctx context.Context, db *gorm.DB, companyID, serviceID snowflake.ID, actualCost int64, updatedAt time.Time) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE services
		 SET actual_cost = ?, updated_at = ?
		 WHERE company_id = ? AND id = ?`,
		actualCost,
		updatedAt,
		companyID,
		serviceID,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
