package order

import (
	"github.com/tablewiselabs/tablewise/internal/order/repository"
	"github.com/tablewiselabs/tablewise/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order",
	fx.Provide(repository.Provide),
	fx.Provide(service.ProvideAllocator),
	fx.Provide(service.NewService),
)
