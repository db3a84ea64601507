package payment

import (
	"github.com/tablewiselabs/tablewise/internal/payment/adapters/razorpay"
	"github.com/tablewiselabs/tablewise/internal/payment/repository"
	"github.com/tablewiselabs/tablewise/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment",
	fx.Provide(repository.Provide),
	fx.Provide(razorpay.New),
	fx.Provide(service.NewCheckoutService),
	fx.Provide(service.NewSettlementManager),
)
