package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablewiselabs/tablewise/internal/observability"
	"github.com/tablewiselabs/tablewise/internal/order/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newCounterDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Serialize writers; sqlite has a single-writer model anyway.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.OrderCounter{}))
	return db
}

func TestCounterAllocatorSequence(t *testing.T) {
	db := newCounterDB(t)
	alloc := NewCounterAllocator(db, zap.NewNop(), observability.NewMetrics())
	node, _ := snowflake.NewNode(1)
	tenantID := node.Generate()

	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		number, err := alloc.Allocate(ctx, tenantID, "20260901")
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("ORD-20260901-%04d", i), number)
	}

	// Counters are isolated per day and per tenant.
	number, err := alloc.Allocate(ctx, tenantID, "20260902")
	require.NoError(t, err)
	assert.Equal(t, "ORD-20260902-0001", number)

	other := node.Generate()
	number, err = alloc.Allocate(ctx, other, "20260901")
	require.NoError(t, err)
	assert.Equal(t, "ORD-20260901-0001", number)
}

func TestCounterAllocatorConcurrent(t *testing.T) {
	db := newCounterDB(t)
	alloc := NewCounterAllocator(db, zap.NewNop(), observability.NewMetrics())
	node, _ := snowflake.NewNode(1)
	tenantID := node.Generate()

	const workers = 50
	results := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := alloc.Allocate(context.Background(), tenantID, "20260901")
			assert.NoError(t, err)
			results <- number
		}()
	}
	wg.Wait()
	close(results)

	seen := map[string]bool{}
	for number := range results {
		assert.False(t, seen[number], "duplicate order number %s", number)
		seen[number] = true
	}
	assert.Len(t, seen, workers)
}

func TestRedisAllocatorConcurrent(t *testing.T) {
	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	alloc := NewRedisAllocator(client, zap.NewNop(), observability.NewMetrics())
	node, _ := snowflake.NewNode(1)
	tenantID := node.Generate()

	const workers = 200
	results := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := alloc.Allocate(context.Background(), tenantID, "20260901")
			assert.NoError(t, err)
			results <- number
		}()
	}
	wg.Wait()
	close(results)

	seen := map[string]bool{}
	for number := range results {
		seen[number] = true
	}
	require.Len(t, seen, workers, "every caller must mint a distinct number")
	for i := 1; i <= workers; i++ {
		assert.True(t, seen[fmt.Sprintf("ORD-20260901-%04d", i)], "missing sequence %d", i)
	}
}

func TestFormatOrderNumberWidens(t *testing.T) {
	assert.Equal(t, "ORD-20260901-0007", formatOrderNumber("20260901", 7))
	assert.Equal(t, "ORD-20260901-9999", formatOrderNumber("20260901", 9999))
	assert.Equal(t, "ORD-20260901-10000", formatOrderNumber("20260901", 10000))
}
