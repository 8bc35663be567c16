package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/oakline/ledger/internal/application/dashboard"
	"github.com/oakline/ledger/internal/domain/ledger"
)

// DashboardHandler serves the dashboard read model and calculator previews
type DashboardHandler struct {
	BaseHandler
	store *dashboard.Store
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(store *dashboard.Store) *DashboardHandler {
	return &DashboardHandler{store: store}
}

// Overview returns the full state with its summary
func (h *DashboardHandler) Overview(c *gin.Context) {
	h.Success(c, h.store.Overview())
}

// Summary returns only the business-wide figures
func (h *DashboardHandler) Summary(c *gin.Context) {
	h.Success(c, h.store.Overview().Summary)
}

// PaymentPlanPreviewResponse is the staged schedule for a contract value
type PaymentPlanPreviewResponse struct {
	Expected  ledger.ExpectedPayments `json:"expected"`
	Breakdown ledger.ProjectBreakdown `json:"breakdown"`
}

// PreviewPaymentPlan splits a contract value across the payment stages
func (h *DashboardHandler) PreviewPaymentPlan(c *gin.Context) {
	var req PaymentPlanPreviewRequest
	if !h.BindJSON(c, &req) {
		return
	}
	plan := ledger.PaymentPlan(req.Plan)
	expected, err := ledger.CalculateExpectedPayments(req.TotalValue, plan)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	breakdown, err := ledger.CalculateProjectBreakdown(req.TotalValue, plan)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, PaymentPlanPreviewResponse{Expected: expected, Breakdown: breakdown})
}
