package branch

import (
	"github.com/fixbench/fixbench/internal/branch/repository"
	"github.com/fixbench/fixbench/internal/branch/service"
	"go.uber.org/fx"
)

var Module = fx.Module("branch.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
