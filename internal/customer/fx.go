package customer

import (
	"github.com/fixbench/fixbench/internal/customer/repository"
	"github.com/fixbench/fixbench/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
