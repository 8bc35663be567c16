package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/oakline/ledger/internal/application/dashboard"
	"github.com/oakline/ledger/internal/domain/ledger"
)

// OperationalCostHandler handles business overhead HTTP requests
type OperationalCostHandler struct {
	BaseHandler
	store *dashboard.Store
}

// NewOperationalCostHandler creates a new OperationalCostHandler
func NewOperationalCostHandler(store *dashboard.Store) *OperationalCostHandler {
	return &OperationalCostHandler{store: store}
}

// List returns the operational costs ordered by date
func (h *OperationalCostHandler) List(c *gin.Context) {
	h.Success(c, h.store.ListOperationalCosts(ledger.ParseSortOrder(c.Query("order"))))
}

// Summary returns totals by category, type and month
func (h *OperationalCostHandler) Summary(c *gin.Context) {
	h.Success(c, h.store.OperationalCostSummary())
}

// Create records an operational cost
func (h *OperationalCostHandler) Create(c *gin.Context) {
	var req OperationalCostRequest
	if !h.BindJSON(c, &req) {
		return
	}
	cost, err := h.store.AddOperationalCost(c.Request.Context(), req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, cost)
}

// Update replaces an operational cost
func (h *OperationalCostHandler) Update(c *gin.Context) {
	var req OperationalCostRequest
	if !h.BindJSON(c, &req) {
		return
	}
	cost, err := h.store.UpdateOperationalCost(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cost)
}

// Delete removes an operational cost
func (h *OperationalCostHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteOperationalCost(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
