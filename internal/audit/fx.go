package audit

import (
	"github.com/fixbench/fixbench/internal/audit/repository"
	"github.com/fixbench/fixbench/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
