package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/court-rental-backend/internal/auth"
	"github.com/nekogravitycat/court-rental-backend/internal/payment"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/response"
	"github.com/nekogravitycat/court-rental-backend/internal/user"
)

type Handler struct {
	ledger  payment.Ledger
	gateway payment.Gateway
	roles   user.RoleReader
}

func NewHandler(ledger payment.Ledger, gateway payment.Gateway, roles user.RoleReader) *Handler {
	return &Handler{ledger: ledger, gateway: gateway, roles: roles}
}

// List handles GET /payments?email=.
// Access Control: the payer or an admin.
func (h *Handler) List(c *gin.Context) {
	var q ListPaymentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	ctx := c.Request.Context()
	if !user.IsSelfOrAdmin(ctx, h.roles, auth.GetUserEmail(c), q.Email) {
		response.Fail(c, http.StatusForbidden, "forbidden access")
		return
	}

	payments, err := h.ledger.ListByEmail(ctx, strings.ToLower(strings.TrimSpace(q.Email)))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		items[i] = NewPaymentResponse(p)
	}
	response.List(c, items)
}

// CreateIntent handles POST /payments/create-payment-intent.
func (h *Handler) CreateIntent(c *gin.Context) {
	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	secret, err := h.gateway.CreateIntent(c.Request.Context(), req.TotalPrice)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, IntentResponse{ClientSecret: secret})
}
