package warranty

import (
	"github.com/fixbench/fixbench/internal/events"
	"go.uber.org/fx"
)

var Module = fx.Module("warranty.issuer",
	fx.Provide(
		fx.Annotate(
			NewIssuer,
			fx.As(new(events.Handler)),
			fx.ResultTags(`group:"event.handlers"`),
		),
	),
)
