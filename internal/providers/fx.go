package providers

import (
	"github.com/fixbench/fixbench/internal/providers/docstore"
	"github.com/fixbench/fixbench/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	fx.Provide(pdf.NewRenderer),
	fx.Provide(docstore.NewLocal),
)
