package service

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablewiselabs/tablewise/internal/money"
	"github.com/tablewiselabs/tablewise/internal/order/domain"
)

func line(unitPrice int64, qty int64) domain.LineInput {
	return domain.LineInput{
		Quantity:  qty,
		UnitPrice: money.FromMinor(unitPrice),
	}
}

func TestPriceOrderScenario(t *testing.T) {
	// 2x100.00 + 1x150.00 + 3x75.50, 5% tax, 20.00 discount
	totals, err := PriceOrder([]domain.LineInput{
		line(10000, 2),
		line(15000, 1),
		line(7550, 3),
	}, 500, money.FromMinor(2000))
	require.NoError(t, err)

	assert.Equal(t, int64(77650), totals.Subtotal.Minor())
	// 38.825 rounds half up to 38.83
	assert.Equal(t, int64(3883), totals.Tax.Minor())
	assert.Equal(t, int64(2000), totals.Discount.Minor())
	assert.Equal(t, int64(79533), totals.Total.Minor())
}

func TestPriceOrderFractionalCents(t *testing.T) {
	// Three lines of 0.10 at 5%: tax must round on the subtotal, not per
	// line, and the arithmetic must be integer throughout.
	totals, err := PriceOrder([]domain.LineInput{
		line(10, 1),
		line(10, 1),
		line(10, 1),
	}, 500, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(30), totals.Subtotal.Minor())
	assert.Equal(t, int64(2), totals.Tax.Minor())
	assert.Equal(t, int64(32), totals.Total.Minor())
}

func TestPriceOrderTotalsInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 10000; i++ {
		n := 1 + rng.Intn(8)
		lines := make([]domain.LineInput, 0, n)
		for j := 0; j < n; j++ {
			lines = append(lines, line(1+rng.Int63n(100000), 1+rng.Int63n(20)))
		}
		taxRate := rng.Int63n(3000) // up to 30%
		discount := money.FromMinor(rng.Int63n(500))

		totals, err := PriceOrder(lines, taxRate, discount)
		if err != nil {
			// Only legal failure on valid lines: discount exceeded value.
			require.ErrorIs(t, err, domain.ErrInvalidOrder)
			continue
		}

		var wantSubtotal int64
		for _, l := range lines {
			wantSubtotal += l.UnitPrice.Minor() * l.Quantity
		}
		assert.Equal(t, wantSubtotal, totals.Subtotal.Minor())
		assert.Equal(t,
			totals.Subtotal.Minor()+totals.Tax.Minor()-totals.Discount.Minor(),
			totals.Total.Minor())
	}
}

func TestPriceOrderValidation(t *testing.T) {
	cases := []struct {
		name     string
		lines    []domain.LineInput
		taxRate  int64
		discount money.Amount
	}{
		{"empty lines", nil, 500, 0},
		{"zero quantity", []domain.LineInput{line(100, 0)}, 500, 0},
		{"negative quantity", []domain.LineInput{line(100, -1)}, 500, 0},
		{"zero price", []domain.LineInput{line(0, 1)}, 500, 0},
		{"negative price", []domain.LineInput{line(-100, 1)}, 500, 0},
		{"negative tax rate", []domain.LineInput{line(100, 1)}, -1, 0},
		{"negative discount", []domain.LineInput{line(100, 1)}, 500, money.FromMinor(-1)},
		{"discount exceeds total", []domain.LineInput{line(100, 1)}, 0, money.FromMinor(200)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := PriceOrder(c.lines, c.taxRate, c.discount)
			assert.True(t, errors.Is(err, domain.ErrInvalidOrder))
		})
	}
}

func TestPriceOrderIsPure(t *testing.T) {
	lines := []domain.LineInput{line(9999, 3), line(101, 7)}
	first, err := PriceOrder(lines, 1800, money.FromMinor(500))
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		again, err := PriceOrder(lines, 1800, money.FromMinor(500))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
