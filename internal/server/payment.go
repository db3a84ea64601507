package server

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	paymentdomain "github.com/tablewiselabs/tablewise/internal/payment/domain"
	plandomain "github.com/tablewiselabs/tablewise/internal/plan/domain"
)

// CheckoutOrder
// POST /api/orders/:id/checkout
func (s *Server) CheckoutOrder(c *gin.Context) {
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

	gwOrder, err := s.checkout.CheckoutOrder(c.Request.Context(), tenantID, orderID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gwOrder)
}

type checkoutPlanRequest struct {
	BillingCycle string `json:"billing_cycle" binding:"required,oneof=monthly yearly"`
}

// CheckoutPlan
// POST /api/plans/:id/checkout
func (s *Server) CheckoutPlan(c *gin.Context) {
	tenantID := tenantIDFromHeader(c)
	if tenantID == 0 {
		AbortWithError(c, errUnauthorized)
		return
	}
	planID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	var req checkoutPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}
	cycle, err := plandomain.ParseBillingCycle(req.BillingCycle)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	gwOrder, err := s.checkout.CheckoutPlan(c.Request.Context(), tenantID, planID, cycle)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gwOrder)
}

type paymentCallbackRequest struct {
	Target           string `json:"target" binding:"required,oneof=order plan"`
	GatewayOrderID   string `json:"gateway_order_id" binding:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" binding:"required"`
	Signature        string `json:"signature" binding:"required"`
	OrderID          string `json:"order_id,omitempty"`
	PlanID           string `json:"plan_id,omitempty"`
	BillingCycle     string `json:"billing_cycle,omitempty"`
	Method           string `json:"method,omitempty"`
}

// PaymentCallback
// POST /api/payments/callback
//
// The signed payload the gateway redirects back with. Verification happens
// inside the settlement manager before any state is touched.
func (s *Server) PaymentCallback(c *gin.Context) {
	tenantID := tenantIDFromHeader(c)
	if tenantID == 0 {
		AbortWithError(c, errUnauthorized)
		return
	}

	var req paymentCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	cb := paymentdomain.Callback{
		GatewayOrderID:   req.GatewayOrderID,
		GatewayPaymentID: req.GatewayPaymentID,
		Signature:        req.Signature,
	}

	switch req.Target {
	case "order":
		orderID, err := snowflake.ParseString(req.OrderID)
		if err != nil {
			AbortWithError(c, errInvalidRequest)
			return
		}
		order, err := s.settlement.SettleCustomerOrder(c.Request.Context(), paymentdomain.CustomerOrderSettlement{
			TenantID: tenantID,
			OrderID:  orderID,
			Method:   paymentdomain.PaymentMethod(req.Method),
			Callback: cb,
		})
		if err != nil {
			AbortWithError(c, err)
			return
		}
		respondData(c, order)

	case "plan":
		input := paymentdomain.PlanPurchaseSettlement{
			TenantID: tenantID,
			Callback: cb,
		}
		if req.PlanID != "" {
			planID, err := snowflake.ParseString(req.PlanID)
			if err != nil {
				AbortWithError(c, errInvalidRequest)
				return
			}
			input.PlanID = planID
		}
		if req.BillingCycle != "" {
			cycle, err := plandomain.ParseBillingCycle(req.BillingCycle)
			if err != nil {
				AbortWithError(c, err)
				return
			}
			input.Cycle = cycle
		}
		sub, err := s.settlement.SettlePlanPurchase(c.Request.Context(), input)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		respondData(c, sub)
	}
}

// PayOrderCash
// POST /api/orders/:id/pay/cash
func (s *Server) PayOrderCash(c *gin.Context) {
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

	order, err := s.settlement.SettleCashPayment(c.Request.Context(), tenantID, orderID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, order)
}

// RefundOrder
// POST /api/orders/:id/refund
func (s *Server) RefundOrder(c *gin.Context) {
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

	record, err := s.settlement.RefundOrder(c.Request.Context(), tenantID, orderID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, record)
}

// ListPlans
// GET /api/plans
func (s *Server) ListPlans(c *gin.Context) {
	plans, err := s.plans.ListActive(c.Request.Context(), nil)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, plans)
}

// GetSubscription
// GET /api/subscription
func (s *Server) GetSubscription(c *gin.Context) {
	tenantID := tenantIDFromHeader(c)
	if tenantID == 0 {
		AbortWithError(c, errUnauthorized)
		return
	}
	sub, err := s.subs.FindByTenantID(c.Request.Context(), nil, tenantID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, sub)
}
