package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	orderdomain "github.com/tablewiselabs/tablewise/internal/order/domain"
	tenantdomain "github.com/tablewiselabs/tablewise/internal/tenant/domain"
)

// loadSettledOrder fetches the order and its tenant for rendering. The
// tenant is cosmetic: a lookup failure degrades to blank header fields
// rather than failing the download.
func (s *Server) loadSettledOrder(c *gin.Context) (*orderdomain.Order, *tenantdomain.Tenant, bool) {
	tenantID := tenantIDFromHeader(c)
	if tenantID == 0 {
		AbortWithError(c, errUnauthorized)
		return nil, nil, false
	}
	orderID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, errInvalidRequest)
		return nil, nil, false
	}

	order, err := s.orderSvc.Get(c.Request.Context(), tenantID, orderID)
	if err != nil {
		AbortWithError(c, err)
		return nil, nil, false
	}

	tenant, err := s.tenants.FindByID(c.Request.Context(), nil, tenantID)
	if err != nil && !errors.Is(err, tenantdomain.ErrTenantNotFound) {
		AbortWithError(c, err)
		return nil, nil, false
	}
	return order, tenant, true
}

// DownloadInvoice
// GET /api/orders/:id/invoice
func (s *Server) DownloadInvoice(c *gin.Context) {
	order, tenant, ok := s.loadSettledOrder(c)
	if !ok {
		return
	}

	pdf, err := s.renderer.Invoice(order, tenant)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filename := fmt.Sprintf("invoice-%s.pdf", order.OrderNumber)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// DownloadReceipt
// GET /api/orders/:id/receipt
func (s *Server) DownloadReceipt(c *gin.Context) {
	order, tenant, ok := s.loadSettledOrder(c)
	if !ok {
		return
	}

	pdf, err := s.renderer.Receipt(order, tenant)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filename := fmt.Sprintf("receipt-%s.pdf", order.OrderNumber)
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
