package document

import (
	"github.com/tablewiselabs/tablewise/internal/document/service"
	"go.uber.org/fx"
)

var Module = fx.Module("document",
	fx.Provide(service.NewRenderer),
)
