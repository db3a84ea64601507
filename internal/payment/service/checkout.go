package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/tablewiselabs/tablewise/internal/clock"
	"github.com/tablewiselabs/tablewise/internal/observability"
	orderdomain "github.com/tablewiselabs/tablewise/internal/order/domain"
	"github.com/tablewiselabs/tablewise/internal/payment/domain"
	plandomain "github.com/tablewiselabs/tablewise/internal/plan/domain"
	tenantdomain "github.com/tablewiselabs/tablewise/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultCurrency = "INR"

type CheckoutParams struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	Metrics *observability.Metrics
	Gateway domain.GatewayAdapter

	Orders  orderdomain.Repository
	Tenants tenantdomain.Repository
	Plans   plandomain.Repository
}

// CheckoutService opens a remote charge on the gateway for either a
// customer order or a plan purchase. The notes carried on the gateway
// order are what routes the signed callback back to the right settlement
// target.
type CheckoutService struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	metrics *observability.Metrics
	gateway domain.GatewayAdapter

	orders  orderdomain.Repository
	tenants tenantdomain.Repository
	plans   plandomain.Repository
}

func NewCheckoutService(p CheckoutParams) *CheckoutService {
	return &CheckoutService{
		db:      p.DB,
		log:     p.Log.Named("payment.checkout"),
		clock:   p.Clock,
		metrics: p.Metrics,
		gateway: p.Gateway,
		orders:  p.Orders,
		tenants: p.Tenants,
		plans:   p.Plans,
	}
}

// CheckoutOrder creates a gateway order for an unpaid customer order.
func (s *CheckoutService) CheckoutOrder(ctx context.Context, tenantID, orderID snowflake.ID) (*domain.GatewayOrder, error) {
	order, err := s.orders.FindByIDForTenant(ctx, nil, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == orderdomain.PaymentStatusCompleted {
		return nil, orderdomain.ErrOrderAlreadySettled
	}

	tenant, err := s.tenants.FindByID(ctx, nil, tenantID)
	if err != nil {
		return nil, err
	}

	gwOrder, err := s.gateway.CreateOrder(ctx, domain.CreateGatewayOrderInput{
		Amount:   order.TotalAmount,
		Currency: defaultCurrency,
		Receipt:  domain.DeriveReceipt(tenant.Slug, order.OrderNumber),
		Notes: map[string]string{
			"target":    "order",
			"tenant_id": tenantID.String(),
			"order_id":  order.ID.String(),
		},
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("gateway order created for customer order",
		zap.String("order_number", order.OrderNumber),
		zap.String("gateway_order_id", gwOrder.ID))
	return gwOrder, nil
}

// CheckoutPlan creates a gateway order for a plan purchase. Plan lookup is
// exact-id only; an unknown plan fails rather than matching by name.
func (s *CheckoutService) CheckoutPlan(ctx context.Context, tenantID, planID snowflake.ID, cycle plandomain.BillingCycle) (*domain.GatewayOrder, error) {
	tenant, err := s.tenants.FindByID(ctx, nil, tenantID)
	if err != nil {
		return nil, err
	}
	plan, err := s.plans.FindByID(ctx, nil, planID)
	if err != nil {
		return nil, err
	}
	price, err := plan.PriceFor(cycle)
	if err != nil {
		return nil, err
	}

	// Receipt is derived from the tenant and the purchase day so retrying
	// a failed checkout on the same day reuses the same receipt.
	day := s.clock.Now(ctx).UTC().Format("20060102")
	ref := fmt.Sprintf("plan-%s-%s-%s", plan.ID, cycle, day)

	gwOrder, err := s.gateway.CreateOrder(ctx, domain.CreateGatewayOrderInput{
		Amount:   price,
		Currency: defaultCurrency,
		Receipt:  domain.DeriveReceipt(tenant.Slug, ref),
		Notes: map[string]string{
			"target":        "plan",
			"tenant_id":     tenantID.String(),
			"plan_id":       plan.ID.String(),
			"billing_cycle": string(cycle),
		},
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("gateway order created for plan purchase",
		zap.String("tenant_id", tenantID.String()),
		zap.String("plan_id", plan.ID.String()),
		zap.String("gateway_order_id", gwOrder.ID))
	return gwOrder, nil
}
