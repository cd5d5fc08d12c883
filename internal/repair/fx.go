package repair

import (
	"github.com/fixbench/fixbench/internal/repair/repository"
	"github.com/fixbench/fixbench/internal/repair/service"
	"go.uber.org/fx"
)

var Module = fx.Module("repair.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
