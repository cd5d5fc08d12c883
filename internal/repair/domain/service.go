package domain

import (
	"context"
	"errors"
)

type UpdateCostRequest struct {
	ServiceID  string
	ActualCost int64
}

type Service interface {
	// GetSnapshot loads a repair job with its faults, parts and
	// pre-invoice payment entries.
	GetSnapshot(ctx context.Context, serviceID string) (ServiceSnapshot, error)
	// UpdateCost sets the actual repair cost and announces the change so
	// a linked invoice can reconcile.
	UpdateCost(ctx context.Context, req UpdateCostRequest) (ServiceSnapshot, error)
}

var (
	ErrInvalidCompany = errors.New("invalid_company")
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidCost    = errors.New("invalid_cost")
	ErrNotFound       = errors.New("not_found")
)
