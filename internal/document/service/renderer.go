// Package service renders settled orders into financial documents. The
// renderer formats figures already computed at order creation; it never
// recomputes totals, so there is exactly one source of rounding truth.
package service

import (
	orderdomain "github.com/tablewiselabs/tablewise/internal/order/domain"
	"github.com/tablewiselabs/tablewise/internal/observability"
	tenantdomain "github.com/tablewiselabs/tablewise/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Metrics *observability.Metrics
}

type Renderer struct {
	log     *zap.Logger
	metrics *observability.Metrics
}

func NewRenderer(p Params) *Renderer {
	return &Renderer{
		log:     p.Log.Named("document.renderer"),
		metrics: p.Metrics,
	}
}

// businessHeader extracts the display fields for the document header.
// Missing cosmetic fields degrade to blanks; they never fail a render and
// financial figures are never touched.
type businessHeader struct {
	Name    string
	Address string
	TaxID   string
	Phone   string
}

func headerFor(tenant *tenantdomain.Tenant) businessHeader {
	if tenant == nil {
		return businessHeader{}
	}
	name := tenant.BusinessName
	if name == "" {
		name = tenant.Name
	}
	return businessHeader{
		Name:    name,
		Address: tenant.Address,
		TaxID:   tenant.TaxID,
		Phone:   tenant.Phone,
	}
}

func billToLabel(order *orderdomain.Order) string {
	switch {
	case order.CustomerName != "":
		return order.CustomerName
	case order.TableID != nil:
		return "Table " + order.TableID.String()
	default:
		return "Walk-in"
	}
}
