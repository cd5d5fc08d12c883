package domain

import (
	"context"
	"errors"

	"github.com/fixbench/fixbench/pkg/db/pagination"
)

type ListBranchRequest struct {
	PageToken  string
	PageSize   int32
	Code       string
	ActiveOnly bool
}

type ListBranchFilter struct {
	Code       string
	ActiveOnly bool
}

type ListBranchResponse struct {
	pagination.PageInfo
	Branches []Branch `json:"branches"`
}

type CreateBranchRequest struct {
	Name    string
	Code    string
	Address string
	Phone   string
}

type UpdateBranchRequest struct {
	ID       string
	Name     *string
	Address  *string
	Phone    *string
	IsActive *bool
}

type GetBranchRequest struct {
	ID string
}

type DeleteBranchRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateBranchRequest) (Branch, error)
	Update(context.Context, UpdateBranchRequest) (Branch, error)
	List(context.Context, ListBranchRequest) (ListBranchResponse, error)
	GetByID(context.Context, GetBranchRequest) (Branch, error)
	Delete(context.Context, DeleteBranchRequest) error
}

var (
	ErrInvalidCompany = errors.New("invalid_company")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidID      = errors.New("invalid_id")
	ErrDuplicateCode  = errors.New("duplicate_code")
	ErrNotFound       = errors.New("not_found")
)
