package invoice

import (
	"github.com/fixbench/fixbench/internal/invoice/repository"
	"github.com/fixbench/fixbench/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
