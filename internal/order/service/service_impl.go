package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/redis/go-redis/v9"
	"github.com/tablewiselabs/tablewise/internal/clock"
	"github.com/tablewiselabs/tablewise/internal/config"
	"github.com/tablewiselabs/tablewise/internal/observability"
	"github.com/tablewiselabs/tablewise/internal/order/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	Allocator domain.NumberAllocator
	Metrics   *observability.Metrics
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	allocator domain.NumberAllocator
	metrics   *observability.Metrics
}

func NewService(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("order.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		allocator: p.Allocator,
		metrics:   p.Metrics,
	}
}

// ProvideAllocator selects the configured allocator backend. Both back
// onto a serialization point (counter row or Redis INCR); the choice is
// deployment topology, not semantics.
func ProvideAllocator(cfg config.Config, db *gorm.DB, client *redis.Client, log *zap.Logger, metrics *observability.Metrics) domain.NumberAllocator {
	if strings.EqualFold(cfg.Orders.AllocatorBackend, "redis") && client != nil {
		return NewRedisAllocator(client, log, metrics)
	}
	return NewCounterAllocator(db, log, metrics)
}

func (s *Service) Create(ctx context.Context, input domain.CreateOrderInput) (*domain.Order, error) {
	if input.TenantID == 0 {
		return nil, domain.ErrInvalidOrder
	}

	totals, err := PriceOrder(input.Lines, input.TaxRateBps, input.Discount)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now(ctx)
	day := domain.DayKey(now)

	number, err := s.allocator.Allocate(ctx, input.TenantID, day)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:             s.genID.Generate(),
		TenantID:       input.TenantID,
		OrderDay:       day,
		OrderNumber:    number,
		Status:         domain.OrderStatusPending,
		PaymentStatus:  domain.PaymentStatusPending,
		Subtotal:       totals.Subtotal,
		TaxRateBps:     input.TaxRateBps,
		TaxAmount:      totals.Tax,
		DiscountAmount: totals.Discount,
		TotalAmount:    totals.Total,
		TableID:        input.TableID,
		CustomerID:     input.CustomerID,
		CustomerName:   input.CustomerName,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, line := range input.Lines {
		order.Lines = append(order.Lines, domain.OrderLine{
			ID:           s.genID.Generate(),
			OrderID:      order.ID,
			ProductID:    line.ProductID,
			VariantID:    line.VariantID,
			Name:         line.Name,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
			LineSubtotal: line.UnitPrice.MulInt(line.Quantity),
		})
	}

	if err := s.repo.Insert(ctx, nil, order); err != nil {
		return nil, err
	}

	s.log.Info("order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("tenant_id", order.TenantID.String()),
		zap.String("total", order.TotalAmount.String()))
	return order, nil
}

func (s *Service) Get(ctx context.Context, tenantID, orderID snowflake.ID) (*domain.Order, error) {
	return s.repo.FindByIDForTenant(ctx, nil, tenantID, orderID)
}

// Transition applies a staff-driven status change after checking the edge
// is legal. Payment-driven transitions go through the settlement manager
// instead, inside its transaction.
func (s *Service) Transition(ctx context.Context, tenantID, orderID snowflake.ID, next domain.OrderStatus) (*domain.Order, error) {
	order, err := s.repo.FindByIDForTenant(ctx, nil, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.CanTransition(next); err != nil {
		return nil, err
	}

	order.Status = next
	order.UpdatedAt = s.clock.Now(ctx)
	if err := s.repo.Update(ctx, nil, order); err != nil {
		return nil, err
	}
	return order, nil
}
