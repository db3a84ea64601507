package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	orderdomain "github.com/tablewiselabs/tablewise/internal/order/domain"
	paymentdomain "github.com/tablewiselabs/tablewise/internal/payment/domain"
	plandomain "github.com/tablewiselabs/tablewise/internal/plan/domain"
	subdomain "github.com/tablewiselabs/tablewise/internal/subscription/domain"
	tenantdomain "github.com/tablewiselabs/tablewise/internal/tenant/domain"
)

var errUnauthorized = errors.New("unauthorized")
var errInvalidRequest = errors.New("invalid request")

func respondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// AbortWithError maps domain errors onto HTTP statuses. Retryable
// failures (allocation exhaustion, settlement aborts, gateway outages)
// surface as 5xx so clients know to retry; invariant violations are 4xx.
func AbortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, paymentdomain.ErrSignatureMismatch):
		status = http.StatusUnauthorized
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, orderdomain.ErrInvalidOrder),
		errors.Is(err, paymentdomain.ErrInvalidCallback),
		errors.Is(err, plandomain.ErrInvalidCycle):
		status = http.StatusBadRequest
	case errors.Is(err, orderdomain.ErrOrderNotFound),
		errors.Is(err, plandomain.ErrPlanNotFound),
		errors.Is(err, tenantdomain.ErrTenantNotFound),
		errors.Is(err, subdomain.ErrSubscriptionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, orderdomain.ErrInvalidTransition),
		errors.Is(err, orderdomain.ErrOrderAlreadySettled),
		errors.Is(err, paymentdomain.ErrNothingToRefund):
		status = http.StatusConflict
	case errors.Is(err, paymentdomain.ErrGatewayRejected):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, paymentdomain.ErrGatewayUnavailable):
		status = http.StatusBadGateway
	case errors.Is(err, orderdomain.ErrAllocationExhausted),
		errors.Is(err, paymentdomain.ErrSettlementFailed):
		status = http.StatusServiceUnavailable
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
