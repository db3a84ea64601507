package service

import (
	"fmt"

	"github.com/tablewiselabs/tablewise/internal/money"
	"github.com/tablewiselabs/tablewise/internal/order/domain"
)

// PriceOrder computes order totals from validated cart lines. All
// arithmetic is integer minor units; tax is rounded half-up exactly once,
// on the subtotal product, so many small lines cannot accumulate drift.
// The function is pure: same input, same output, no side effects.
func PriceOrder(lines []domain.LineInput, taxRateBps int64, discount money.Amount) (domain.Totals, error) {
	if len(lines) == 0 {
		return domain.Totals{}, fmt.Errorf("%w: order has no lines", domain.ErrInvalidOrder)
	}
	if taxRateBps < 0 {
		return domain.Totals{}, fmt.Errorf("%w: negative tax rate", domain.ErrInvalidOrder)
	}
	if discount.IsNegative() {
		return domain.Totals{}, fmt.Errorf("%w: negative discount", domain.ErrInvalidOrder)
	}

	var subtotal money.Amount
	for i, line := range lines {
		if line.Quantity <= 0 {
			return domain.Totals{}, fmt.Errorf("%w: line %d has non-positive quantity", domain.ErrInvalidOrder, i)
		}
		if line.UnitPrice <= 0 {
			return domain.Totals{}, fmt.Errorf("%w: line %d has non-positive unit price", domain.ErrInvalidOrder, i)
		}
		subtotal = subtotal.Add(line.UnitPrice.MulInt(line.Quantity))
	}

	tax := subtotal.ApplyBps(taxRateBps)
	total := subtotal.Add(tax).Sub(discount)
	if total.IsNegative() {
		return domain.Totals{}, fmt.Errorf("%w: discount exceeds order value", domain.ErrInvalidOrder)
	}

	return domain.Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount,
		Total:    total,
	}, nil
}
