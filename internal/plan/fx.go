package plan

import (
	"github.com/tablewiselabs/tablewise/internal/plan/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("plan",
	fx.Provide(repository.Provide),
)
