package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oakline/ledger/internal/application/dashboard"
	"github.com/oakline/ledger/internal/application/export"
	"github.com/oakline/ledger/internal/domain/shared"
	"github.com/oakline/ledger/internal/interfaces/http/dto"
)

// ExportHandler handles the export control surface: webhook configuration,
// manual sync, snapshots and the workbook download.
type ExportHandler struct {
	BaseHandler
	store    *dashboard.Store
	sync     *export.Synchronizer
	workbook *export.WorkbookService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(store *dashboard.Store, sync *export.Synchronizer, workbook *export.WorkbookService) *ExportHandler {
	return &ExportHandler{store: store, sync: sync, workbook: workbook}
}

// GetConfig returns the webhook configuration
func (h *ExportHandler) GetConfig(c *gin.Context) {
	h.Success(c, h.sync.Config())
}

// UpdateConfig validates and saves the webhook configuration
func (h *ExportHandler) UpdateConfig(c *gin.Context) {
	var req WebhookConfigRequest
	if !h.BindJSON(c, &req) {
		return
	}
	cfg := export.WebhookConfig{EndpointURL: req.EndpointURL, Enabled: req.Enabled}
	if err := h.sync.UpdateConfig(c.Request.Context(), cfg); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.sync.Config())
}

// Test sends the test payload to the configured endpoint
func (h *ExportHandler) Test(c *gin.Context) {
	if err := h.sync.TestConnection(c.Request.Context()); err != nil {
		h.handleSendError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Export endpoint accepted the test payload"})
}

// Sync transmits the current state immediately
func (h *ExportHandler) Sync(c *gin.Context) {
	if err := h.sync.SyncNow(c.Request.Context(), h.store.State()); err != nil {
		h.handleSendError(c, err)
		return
	}
	h.Success(c, h.sync.Status())
}

// Status returns the most recent export activity
func (h *ExportHandler) Status(c *gin.Context) {
	h.Success(c, h.sync.Status())
}

// Snapshot returns the raw dashboard state, in the form accepted by Import
func (h *ExportHandler) Snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.State())
}

// Import replaces the local state with a previously exported snapshot
func (h *ExportHandler) Import(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.Error(c, dto.ErrCodeTooLarge, "Request body exceeds maximum allowed size")
			return
		}
		h.BadRequest(c, err.Error())
		return
	}
	if err := h.store.ImportSnapshot(c.Request.Context(), body); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.store.State().Counts())
}

// Workbook streams the workbook as an attachment
func (h *ExportHandler) Workbook(c *gin.Context) {
	var buf bytes.Buffer
	name, err := h.workbook.Write(&buf, h.store.State())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, h.workbook.ContentType(), buf.Bytes())
}

// PublishWorkbook uploads the workbook to object storage
func (h *ExportHandler) PublishWorkbook(c *gin.Context) {
	published, err := h.workbook.Publish(c.Request.Context(), h.store.State())
	if err != nil {
		h.handleSendError(c, err)
		return
	}
	h.Created(c, published)
}

// handleSendError reports failures of outbound calls as bad gateway
func (h *ExportHandler) handleSendError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.HandleError(c, err)
		return
	}
	h.Error(c, dto.ErrCodeExportFailed, err.Error())
}
