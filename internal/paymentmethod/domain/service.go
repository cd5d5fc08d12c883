package domain

import (
	"context"
	"errors"
)

type CreatePaymentMethodRequest struct {
	Name string
	Kind string
}

type UpdatePaymentMethodRequest struct {
	ID       string
	Name     *string
	IsActive *bool
}

type GetPaymentMethodRequest struct {
	ID string
}

type DeletePaymentMethodRequest struct {
	ID string
}

type ListPaymentMethodRequest struct {
	ActiveOnly bool
}

type ListPaymentMethodResponse struct {
	PaymentMethods []PaymentMethod `json:"payment_methods"`
}

type Service interface {
	Create(context.Context, CreatePaymentMethodRequest) (PaymentMethod, error)
	Update(context.Context, UpdatePaymentMethodRequest) (PaymentMethod, error)
	List(context.Context, ListPaymentMethodRequest) (ListPaymentMethodResponse, error)
	GetByID(context.Context, GetPaymentMethodRequest) (PaymentMethod, error)
	Delete(context.Context, DeletePaymentMethodRequest) error
}

var (
	ErrInvalidCompany = errors.New("invalid_company")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidKind    = errors.New("invalid_kind")
	ErrInvalidID      = errors.New("invalid_id")
	ErrNotFound       = errors.New("not_found")
)
