package server

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/tablewiselabs/tablewise/internal/money"
	orderdomain "github.com/tablewiselabs/tablewise/internal/order/domain"
)

type orderLineRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	VariantID string `json:"variant_id,omitempty"`
	Name      string `json:"name" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,min=1"`
	UnitPrice string `json:"unit_price" binding:"required"`
}

type createOrderRequest struct {
	Lines        []orderLineRequest `json:"lines" binding:"required,min=1,dive"`
	TaxRateBps   int64              `json:"tax_rate_bps" binding:"min=0"`
	Discount     string             `json:"discount,omitempty"`
	TableID      string             `json:"table_id,omitempty"`
	CustomerID   string             `json:"customer_id,omitempty"`
	CustomerName string             `json:"customer_name,omitempty"`
}

// CreateOrder
// POST /api/orders
func (s *Server) CreateOrder(c *gin.Context) {
	tenantID := tenantIDFromHeader(c)
	if tenantID == 0 {
		AbortWithError(c, errUnauthorized)
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	input := orderdomain.CreateOrderInput{
		TenantID:     tenantID,
		TaxRateBps:   req.TaxRateBps,
		CustomerName: req.CustomerName,
	}

	if req.Discount != "" {
		discount, err := money.Parse(req.Discount)
		if err != nil {
			AbortWithError(c, errInvalidRequest)
			return
		}
		input.Discount = discount
	}
	if req.TableID != "" {
		id, err := snowflake.ParseString(req.TableID)
		if err != nil {
			AbortWithError(c, errInvalidRequest)
			return
		}
		input.TableID = &id
	}
	if req.CustomerID != "" {
		id, err := snowflake.ParseString(req.CustomerID)
		if err != nil {
			AbortWithError(c, errInvalidRequest)
			return
		}
		input.CustomerID = &id
	}

	for _, line := range req.Lines {
		productID, err := snowflake.ParseString(line.ProductID)
		if err != nil {
			AbortWithError(c, errInvalidRequest)
			return
		}
		unitPrice, err := money.Parse(line.UnitPrice)
		if err != nil {
			AbortWithError(c, errInvalidRequest)
			return
		}
		li := orderdomain.LineInput{
			ProductID: productID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
		}
		if line.VariantID != "" {
			variantID, err := snowflake.ParseString(line.VariantID)
			if err != nil {
				AbortWithError(c, errInvalidRequest)
				return
			}
			li.VariantID = &variantID
		}
		input.Lines = append(input.Lines, li)
	}

	order, err := s.orderSvc.Create(c.Request.Context(), input)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, order)
}

// GetOrder
// GET /api/orders/:id
func (s *Server) GetOrder(c *gin.Context) {
	tenantID := tenantIDFromHeader(c)
	if tenantID == 0 {
		AbortWithError(c, errUnauthorized)
		return
	}
	orderID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	order, err := s.orderSvc.Get(c.Request.Context(), tenantID, orderID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, order)
}

type transitionRequest struct {
	Status string `json:"status" binding:"required,oneof=pending preparing ready served completed cancelled"`
}

// TransitionOrder
// POST /api/orders/:id/status
func (s *Server) TransitionOrder(c *gin.Context) {
	tenantID := tenantIDFromHeader(c)
	if tenantID == 0 {
		AbortWithError(c, errUnauthorized)
		return
	}
	orderID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	order, err := s.orderSvc.Transition(c.Request.Context(), tenantID, orderID, orderdomain.OrderStatus(req.Status))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, order)
}
