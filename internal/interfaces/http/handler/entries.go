package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/oakline/ledger/internal/application/dashboard"
	"github.com/oakline/ledger/internal/domain/ledger"
)

// EntryHandler handles the records owned by a project: valuations,
// client payments and supplier costs.
type EntryHandler struct {
	BaseHandler
	store *dashboard.Store
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(store *dashboard.Store) *EntryHandler {
	return &EntryHandler{store: store}
}

func (h *EntryHandler) project(c *gin.Context) (*dashboard.ProjectView, bool) {
	view, err := h.store.GetProject(c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	return view, true
}

// ListValuations returns the project's valuations ordered by date
func (h *EntryHandler) ListValuations(c *gin.Context) {
	view, ok := h.project(c)
	if !ok {
		return
	}
	h.Success(c, ledger.SortedValuations(view.Project, ledger.ParseSortOrder(c.Query("order"))))
}

// CreateValuation adds a valuation to the project
func (h *EntryHandler) CreateValuation(c *gin.Context) {
	var req ValuationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	v, err := h.store.AddValuation(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, v)
}

// UpdateValuation replaces a valuation
func (h *EntryHandler) UpdateValuation(c *gin.Context) {
	var req ValuationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	v, err := h.store.UpdateValuation(c.Request.Context(), c.Param("id"), c.Param("entryId"), req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, v)
}

// DeleteValuation removes a valuation
func (h *EntryHandler) DeleteValuation(c *gin.Context) {
	if err := h.store.DeleteValuation(c.Request.Context(), c.Param("id"), c.Param("entryId")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListPayments returns the project's client payments ordered by date
func (h *EntryHandler) ListPayments(c *gin.Context) {
	view, ok := h.project(c)
	if !ok {
		return
	}
	h.Success(c, ledger.SortedPayments(view.Project, ledger.ParseSortOrder(c.Query("order"))))
}

// CreatePayment records a client payment
func (h *EntryHandler) CreatePayment(c *gin.Context) {
	var req PaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	p, err := h.store.AddPayment(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, p)
}

// UpdatePayment replaces a client payment
func (h *EntryHandler) UpdatePayment(c *gin.Context) {
	var req PaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	p, err := h.store.UpdatePayment(c.Request.Context(), c.Param("id"), c.Param("entryId"), req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// DeletePayment removes a client payment
func (h *EntryHandler) DeletePayment(c *gin.Context) {
	if err := h.store.DeletePayment(c.Request.Context(), c.Param("id"), c.Param("entryId")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListSupplierCosts returns the project's supplier costs ordered by date
func (h *EntryHandler) ListSupplierCosts(c *gin.Context) {
	view, ok := h.project(c)
	if !ok {
		return
	}
	h.Success(c, ledger.SortedSupplierCosts(view.Project, ledger.ParseSortOrder(c.Query("order"))))
}

// CreateSupplierCost records a supplier cost
func (h *EntryHandler) CreateSupplierCost(c *gin.Context) {
	var req SupplierCostRequest
	if !h.BindJSON(c, &req) {
		return
	}
	sc, err := h.store.AddSupplierCost(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sc)
}

// UpdateSupplierCost replaces a supplier cost
func (h *EntryHandler) UpdateSupplierCost(c *gin.Context) {
	var req SupplierCostRequest
	if !h.BindJSON(c, &req) {
		return
	}
	sc, err := h.store.UpdateSupplierCost(c.Request.Context(), c.Param("id"), c.Param("entryId"), req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sc)
}

// DeleteSupplierCost removes a supplier cost
func (h *EntryHandler) DeleteSupplierCost(c *gin.Context) {
	if err := h.store.DeleteSupplierCost(c.Request.Context(), c.Param("id"), c.Param("entryId")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
