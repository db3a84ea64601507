package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablewiselabs/tablewise/internal/clock"
	"github.com/tablewiselabs/tablewise/internal/migration"
	"github.com/tablewiselabs/tablewise/internal/money"
	"github.com/tablewiselabs/tablewise/internal/observability"
	"github.com/tablewiselabs/tablewise/internal/order/domain"
	orderrepo "github.com/tablewiselabs/tablewise/internal/order/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, migration.AutoMigrate(db))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	log := zap.NewNop()
	metrics := observability.NewMetrics()

	svc := NewService(Params{
		DB:        db,
		Log:       log,
		GenID:     node,
		Clock:     clock.Fixed{T: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)},
		Repo:      orderrepo.Provide(db),
		Allocator: NewCounterAllocator(db, log, metrics),
		Metrics:   metrics,
	})
	return svc, db
}

func testLines() []domain.LineInput {
	return []domain.LineInput{
		{ProductID: 101, Name: "Paneer Tikka", Quantity: 2, UnitPrice: money.FromMinor(28000)},
		{ProductID: 102, Name: "Butter Naan", Quantity: 3, UnitPrice: money.FromMinor(7216)},
	}
}

func TestCreateOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.Create(ctx, domain.CreateOrderInput{
		TenantID:   1,
		Lines:      testLines(),
		TaxRateBps: 500,
		Discount:   money.FromMinor(2000),
	})
	require.NoError(t, err)

	assert.Equal(t, "ORD-20260901-0001", order.OrderNumber)
	assert.Equal(t, "20260901", order.OrderDay)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, domain.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, money.FromMinor(77648), order.Subtotal)
	assert.Equal(t, order.Subtotal.Add(order.TaxAmount).Sub(order.DiscountAmount), order.TotalAmount)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, money.FromMinor(56000), order.Lines[0].LineSubtotal)

	// Numbers advance per order within the day.
	second, err := svc.Create(ctx, domain.CreateOrderInput{
		TenantID:   1,
		Lines:      testLines(),
		TaxRateBps: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD-20260901-0002", second.OrderNumber)
}

func TestCreateOrderPersistsLines(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateOrderInput{
		TenantID:   1,
		Lines:      testLines(),
		TaxRateBps: 500,
	})
	require.NoError(t, err)

	loaded, err := svc.Get(ctx, 1, created.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Lines, 2)
	assert.Equal(t, created.TotalAmount, loaded.TotalAmount)
}

func TestCreateOrderValidatesInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateOrderInput{Lines: testLines()})
	assert.ErrorIs(t, err, domain.ErrInvalidOrder)

	_, err = svc.Create(ctx, domain.CreateOrderInput{TenantID: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidOrder)
}

func TestGetScopedToTenant(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateOrderInput{
		TenantID: 1, Lines: testLines(), TaxRateBps: 500,
	})
	require.NoError(t, err)

	_, err = svc.Get(ctx, 2, created.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestTransition(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateOrderInput{
		TenantID: 1, Lines: testLines(), TaxRateBps: 500,
	})
	require.NoError(t, err)

	order, err := svc.Transition(ctx, 1, created.ID, domain.OrderStatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPreparing, order.Status)

	// Skipping straight to served is not a legal edge.
	_, err = svc.Transition(ctx, 1, created.ID, domain.OrderStatusServed)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransitionCancelBlockedWhenPaid(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateOrderInput{
		TenantID: 1, Lines: testLines(), TaxRateBps: 500,
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&domain.Order{}).
		Where("id = ?", created.ID).
		Update("payment_status", domain.PaymentStatusCompleted).Error)

	_, err = svc.Transition(ctx, 1, created.ID, domain.OrderStatusCancelled)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
