package paymentmethod

import (
	"github.com/fixbench/fixbench/internal/paymentmethod/domain"
	"github.com/fixbench/fixbench/internal/paymentmethod/service"
	"github.com/fixbench/fixbench/pkg/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("paymentmethod.service",
	fx.Provide(repository.ProvideStore[domain.PaymentMethod]),
	fx.Provide(service.New),
)
