package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/tablewiselabs/tablewise/internal/clock"
	"github.com/tablewiselabs/tablewise/internal/config"
	"github.com/tablewiselabs/tablewise/internal/observability"
	orderdomain "github.com/tablewiselabs/tablewise/internal/order/domain"
	"github.com/tablewiselabs/tablewise/internal/payment/domain"
	"github.com/tablewiselabs/tablewise/internal/payment/verify"
	plandomain "github.com/tablewiselabs/tablewise/internal/plan/domain"
	subdomain "github.com/tablewiselabs/tablewise/internal/subscription/domain"
	tenantdomain "github.com/tablewiselabs/tablewise/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SettlementParams struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Cfg     config.Config
	Clock   clock.Clock
	GenID   *snowflake.Node
	Metrics *observability.Metrics
	Gateway domain.GatewayAdapter

	Records       domain.RecordRepository
	Orders        orderdomain.Repository
	Subscriptions subdomain.Repository
	Tenants       tenantdomain.Repository
	Plans         plandomain.Repository
}

// SettlementManager applies verified payment outcomes to the system of
// record. Every commit runs inside one store transaction: either the full
// effect lands or none of it does.
type SettlementManager struct {
	db      *gorm.DB
	log     *zap.Logger
	secret  string
	clock   clock.Clock
	genID   *snowflake.Node
	metrics *observability.Metrics
	gateway domain.GatewayAdapter

	records       domain.RecordRepository
	orders        orderdomain.Repository
	subscriptions subdomain.Repository
	tenants       tenantdomain.Repository
	plans         plandomain.Repository
}

func NewSettlementManager(p SettlementParams) *SettlementManager {
	return &SettlementManager{
		db:            p.DB,
		log:           p.Log.Named("payment.settlement"),
		secret:        p.Cfg.Gateway.WebhookSecret,
		clock:         p.Clock,
		genID:         p.GenID,
		metrics:       p.Metrics,
		gateway:       p.Gateway,
		records:       p.Records,
		orders:        p.Orders,
		subscriptions: p.Subscriptions,
		tenants:       p.Tenants,
		plans:         p.Plans,
	}
}

// verifyCallback authenticates the callback before anything is touched.
// A mismatch is a potential fraud signal: the legitimate gateway always
// signs correctly, so repeated failures mean someone else is knocking.
func (m *SettlementManager) verifyCallback(cb domain.Callback) error {
	if err := verify.Callback(cb, m.secret); err != nil {
		if errors.Is(err, domain.ErrSignatureMismatch) {
			m.metrics.SignatureRejects.Inc()
			m.log.Warn("payment callback signature rejected",
				zap.String("gateway_order_id", cb.GatewayOrderID),
				zap.String("gateway_payment_id", cb.GatewayPaymentID))
		}
		return err
	}
	return nil
}

// SettleCustomerOrder marks an order paid and unlocks the kitchen. The
// status flip and the payment record insert commit together. Settling the
// same gateway payment id twice is a no-op success.
func (m *SettlementManager) SettleCustomerOrder(ctx context.Context, input domain.CustomerOrderSettlement) (*orderdomain.Order, error) {
	if err := m.verifyCallback(input.Callback); err != nil {
		return nil, err
	}

	method := input.Method
	if method == "" {
		method = domain.MethodUPI
	}

	var settled *orderdomain.Order
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := m.records.FindByGatewayPaymentID(ctx, tx, input.Callback.GatewayPaymentID)
		if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
			return err
		}
		if existing != nil {
			// Already applied; reload and report the settled state.
			settled, err = m.orders.FindByIDForTenant(ctx, tx, input.TenantID, input.OrderID)
			return err
		}

		order, err := m.orders.FindByIDForTenant(ctx, tx, input.TenantID, input.OrderID)
		if err != nil {
			return err
		}
		if order.PaymentStatus == orderdomain.PaymentStatusCompleted {
			return orderdomain.ErrOrderAlreadySettled
		}

		now := m.clock.Now(ctx)
		order.PaymentStatus = orderdomain.PaymentStatusCompleted
		if order.Status == orderdomain.OrderStatusPending {
			order.Status = orderdomain.OrderStatusPreparing
		}
		order.UpdatedAt = now
		if err := m.orders.Update(ctx, tx, order); err != nil {
			return err
		}

		record := &domain.PaymentRecord{
			ID:               ulid.Make().String(),
			TenantID:         order.TenantID,
			OrderID:          &order.ID,
			Amount:           order.TotalAmount,
			Method:           method,
			Status:           domain.RecordStatusCompleted,
			GatewayOrderID:   input.Callback.GatewayOrderID,
			GatewayPaymentID: input.Callback.GatewayPaymentID,
			CreatedAt:        now,
		}
		if err := m.records.Insert(ctx, tx, record); err != nil {
			return err
		}

		settled = order
		return nil
	})
	if err != nil {
		m.metrics.SettlementsTotal.WithLabelValues("customer_order", "failed").Inc()
		return nil, m.settlementError(err)
	}

	m.metrics.SettlementsTotal.WithLabelValues("customer_order", "ok").Inc()
	m.log.Info("customer order settled",
		zap.String("order_number", settled.OrderNumber),
		zap.String("gateway_payment_id", input.Callback.GatewayPaymentID))
	return settled, nil
}

// SettlePlanPurchase activates a tenant's subscription after a verified
// plan payment. Subscription upsert and tenant activation are one
// transaction; a tenant can never end up active without an active
// subscription or vice versa.
func (m *SettlementManager) SettlePlanPurchase(ctx context.Context, input domain.PlanPurchaseSettlement) (*subdomain.Subscription, error) {
	if err := m.verifyCallback(input.Callback); err != nil {
		return nil, err
	}

	tenantID, planID, cycle, err := m.resolvePlanTarget(ctx, input)
	if err != nil {
		return nil, err
	}

	var activated *subdomain.Subscription
	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := m.records.FindByGatewayPaymentID(ctx, tx, input.Callback.GatewayPaymentID)
		if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
			return err
		}
		if existing != nil {
			activated, err = m.subscriptions.FindByTenantID(ctx, tx, tenantID)
			return err
		}

		plan, err := m.plans.FindByID(ctx, tx, planID)
		if err != nil {
			return err
		}
		price, err := plan.PriceFor(cycle)
		if err != nil {
			return err
		}

		now := m.clock.Now(ctx)
		sub := &subdomain.Subscription{
			ID:           m.genID.Generate(),
			TenantID:     tenantID,
			PlanID:       plan.ID,
			Status:       subdomain.SubscriptionStatusActive,
			BillingCycle: cycle,
			StartDate:    now,
			EndDate:      planPeriodEnd(now, cycle),
			AutoRenew:    true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := m.subscriptions.Upsert(ctx, tx, sub); err != nil {
			return err
		}
		if err := m.tenants.SetActive(ctx, tx, tenantID, true); err != nil {
			return err
		}

		record := &domain.PaymentRecord{
			ID:               ulid.Make().String(),
			TenantID:         tenantID,
			Amount:           price,
			Method:           domain.MethodCard,
			Status:           domain.RecordStatusCompleted,
			GatewayOrderID:   input.Callback.GatewayOrderID,
			GatewayPaymentID: input.Callback.GatewayPaymentID,
			CreatedAt:        now,
		}
		if err := m.records.Insert(ctx, tx, record); err != nil {
			return err
		}

		activated = sub
		return nil
	})
	if err != nil {
		m.metrics.SettlementsTotal.WithLabelValues("plan_purchase", "failed").Inc()
		return nil, m.settlementError(err)
	}

	m.metrics.SettlementsTotal.WithLabelValues("plan_purchase", "ok").Inc()
	m.log.Info("plan purchase settled",
		zap.String("tenant_id", tenantID.String()),
		zap.String("plan_id", planID.String()),
		zap.String("billing_cycle", string(cycle)))
	return activated, nil
}

// SettleCashPayment settles an order paid at the counter. No gateway is
// involved, so there is no callback to verify; the already-settled guard
// inside the transaction keeps double entry out.
func (m *SettlementManager) SettleCashPayment(ctx context.Context, tenantID, orderID snowflake.ID) (*orderdomain.Order, error) {
	var settled *orderdomain.Order
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := m.orders.FindByIDForTenant(ctx, tx, tenantID, orderID)
		if err != nil {
			return err
		}
		if order.PaymentStatus == orderdomain.PaymentStatusCompleted {
			return orderdomain.ErrOrderAlreadySettled
		}

		now := m.clock.Now(ctx)
		order.PaymentStatus = orderdomain.PaymentStatusCompleted
		if order.Status == orderdomain.OrderStatusPending {
			order.Status = orderdomain.OrderStatusPreparing
		}
		order.UpdatedAt = now
		if err := m.orders.Update(ctx, tx, order); err != nil {
			return err
		}

		record := &domain.PaymentRecord{
			ID:        ulid.Make().String(),
			TenantID:  order.TenantID,
			OrderID:   &order.ID,
			Amount:    order.TotalAmount,
			Method:    domain.MethodCash,
			Status:    domain.RecordStatusCompleted,
			CreatedAt: now,
		}
		if err := m.records.Insert(ctx, tx, record); err != nil {
			return err
		}
		settled = order
		return nil
	})
	if err != nil {
		m.metrics.SettlementsTotal.WithLabelValues("cash", "failed").Inc()
		return nil, m.settlementError(err)
	}
	m.metrics.SettlementsTotal.WithLabelValues("cash", "ok").Inc()
	return settled, nil
}

// RefundOrder appends a refunded record mirroring the original completed
// payment and flips the order's payment status. The original record is
// never mutated, keeping the audit trail append-only.
func (m *SettlementManager) RefundOrder(ctx context.Context, tenantID, orderID snowflake.ID) (*domain.PaymentRecord, error) {
	var refund *domain.PaymentRecord
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := m.orders.FindByIDForTenant(ctx, tx, tenantID, orderID)
		if err != nil {
			return err
		}
		if order.PaymentStatus != orderdomain.PaymentStatusCompleted {
			return domain.ErrNothingToRefund
		}

		original, err := m.records.FindCompletedByOrderID(ctx, tx, order.ID)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return domain.ErrNothingToRefund
			}
			return err
		}

		now := m.clock.Now(ctx)
		order.PaymentStatus = orderdomain.PaymentStatusRefunded
		order.UpdatedAt = now
		if err := m.orders.Update(ctx, tx, order); err != nil {
			return err
		}

		refund = &domain.PaymentRecord{
			ID:             ulid.Make().String(),
			TenantID:       order.TenantID,
			OrderID:        &order.ID,
			Amount:         original.Amount,
			Method:         original.Method,
			Status:         domain.RecordStatusRefunded,
			GatewayOrderID: original.GatewayOrderID,
			RefundOfID:     &original.ID,
			CreatedAt:      now,
		}
		return m.records.Insert(ctx, tx, refund)
	})
	if err != nil {
		m.metrics.SettlementsTotal.WithLabelValues("refund", "failed").Inc()
		return nil, m.settlementError(err)
	}
	m.metrics.SettlementsTotal.WithLabelValues("refund", "ok").Inc()
	return refund, nil
}

// resolvePlanTarget fills in plan id and billing cycle from the gateway
// order's notes when the callback did not carry them.
func (m *SettlementManager) resolvePlanTarget(ctx context.Context, input domain.PlanPurchaseSettlement) (snowflake.ID, snowflake.ID, plandomain.BillingCycle, error) {
	tenantID := input.TenantID
	planID := input.PlanID
	cycle := input.Cycle

	if tenantID == 0 || planID == 0 || cycle == "" {
		gwOrder, err := m.gateway.FetchOrder(ctx, input.Callback.GatewayOrderID)
		if err != nil {
			return 0, 0, "", err
		}
		if tenantID == 0 {
			tenantID, err = parseNoteID(gwOrder.Notes, "tenant_id")
			if err != nil {
				return 0, 0, "", err
			}
		}
		if planID == 0 {
			planID, err = parseNoteID(gwOrder.Notes, "plan_id")
			if err != nil {
				return 0, 0, "", err
			}
		}
		if cycle == "" {
			cycle, err = plandomain.ParseBillingCycle(gwOrder.Notes["billing_cycle"])
			if err != nil {
				return 0, 0, "", fmt.Errorf("%w: %v", domain.ErrInvalidCallback, err)
			}
		}
	}
	return tenantID, planID, cycle, nil
}

func parseNoteID(notes map[string]string, key string) (snowflake.ID, error) {
	raw, ok := notes[key]
	if !ok || raw == "" {
		return 0, fmt.Errorf("%w: missing %s note", domain.ErrInvalidCallback, key)
	}
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed %s note", domain.ErrInvalidCallback, key)
	}
	return id, nil
}

// settlementError keeps domain errors recognizable and wraps everything
// else as a retryable settlement failure.
func (m *SettlementManager) settlementError(err error) error {
	switch {
	case errors.Is(err, orderdomain.ErrOrderNotFound),
		errors.Is(err, orderdomain.ErrOrderAlreadySettled),
		errors.Is(err, plandomain.ErrPlanNotFound),
		errors.Is(err, plandomain.ErrInvalidCycle),
		errors.Is(err, tenantdomain.ErrTenantNotFound),
		errors.Is(err, domain.ErrNothingToRefund),
		errors.Is(err, domain.ErrInvalidCallback):
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrSettlementFailed, err)
}

func planPeriodEnd(start time.Time, cycle plandomain.BillingCycle) time.Time {
	if cycle == plandomain.BillingCycleYearly {
		return start.AddDate(1, 0, 0)
	}
	return start.AddDate(0, 1, 0)
}
