package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/oakline/ledger/internal/application/dashboard"
	"github.com/oakline/ledger/internal/domain/ledger"
)

// ProjectHandler handles project HTTP requests
type ProjectHandler struct {
	BaseHandler
	store *dashboard.Store
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(store *dashboard.Store) *ProjectHandler {
	return &ProjectHandler{store: store}
}

// List returns every project with its financials.
// Query: sort=created_at|code, order=asc|desc (default desc)
func (h *ProjectHandler) List(c *gin.Context) {
	key := ledger.ProjectSortKey(c.DefaultQuery("sort", string(ledger.ProjectSortCreatedAt)))
	if key != ledger.ProjectSortCode {
		key = ledger.ProjectSortCreatedAt
	}
	h.Success(c, h.store.ListProjects(key, ledger.ParseSortOrder(c.Query("order"))))
}

// Get returns a single project
func (h *ProjectHandler) Get(c *gin.Context) {
	view, err := h.store.GetProject(c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Financials returns the derived figures of a project
func (h *ProjectHandler) Financials(c *gin.Context) {
	fin, err := h.store.ProjectFinancials(c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, fin)
}

// Create creates a project
func (h *ProjectHandler) Create(c *gin.Context) {
	var req CreateProjectRequest
	if !h.BindJSON(c, &req) {
		return
	}
	project, err := h.store.AddProject(c.Request.Context(), req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, project)
}

// Update applies a partial update to a project
func (h *ProjectHandler) Update(c *gin.Context) {
	var req UpdateProjectRequest
	if !h.BindJSON(c, &req) {
		return
	}
	project, err := h.store.UpdateProject(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, project)
}

// Delete removes a project and everything it owns
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
