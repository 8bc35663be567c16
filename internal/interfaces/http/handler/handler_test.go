package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/oakline/ledger/internal/application/dashboard"
	"github.com/oakline/ledger/internal/application/export"
	"github.com/oakline/ledger/internal/infrastructure/persistence"
	"github.com/oakline/ledger/internal/infrastructure/spreadsheet"
	"github.com/oakline/ledger/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

type fakeTransport struct {
	mu       sync.Mutex
	payloads []any
	err      error
}

func (f *fakeTransport) Send(_ context.Context, _ string, payload any) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	if f.err != nil {
		return http.StatusInternalServerError, f.err
	}
	return http.StatusOK, nil
}

func (f *fakeTransport) sent() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

type fakePublisher struct {
	key string
}

func (f *fakePublisher) Publish(_ context.Context, key string, _ []byte, _ string) (string, error) {
	f.key = key
	return "https://files.example.com/" + key, nil
}

type testAPI struct {
	engine    *gin.Engine
	store     *dashboard.Store
	db        *persistence.Database
	transport *fakeTransport
	publisher *fakePublisher
}

func newTestAPI(t *testing.T, withStorage bool) *testAPI {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db := persistence.NewDatabaseFromGorm(gdb, "sqlite")
	require.NoError(t, db.AutoMigrate(context.Background()))

	store := dashboard.NewStore(persistence.NewGormLedgerRepository(gdb), nil, zap.NewNop())
	require.NoError(t, store.Load(context.Background()))

	transport := &fakeTransport{}
	sync := export.NewSynchronizer(export.WebhookConfig{}, transport, zap.NewNop(), export.SynchronizerConfig{
		Storage: persistence.NewGormWebhookSettingsRepository(gdb),
	})
	t.Cleanup(sync.Close)

	api := &testAPI{store: store, db: db, transport: transport}
	var publisher export.WorkbookPublisher
	if withStorage {
		api.publisher = &fakePublisher{}
		publisher = api.publisher
	}
	workbook := export.NewWorkbookService(spreadsheet.NewZipCSVRenderer(), publisher, nil, zap.NewNop())

	projects := NewProjectHandler(store)
	entries := NewEntryHandler(store)
	costs := NewOperationalCostHandler(store)
	dash := NewDashboardHandler(store)
	exports := NewExportHandler(store, sync, workbook)
	system := NewSystemHandler(db, store, "test")

	engine := gin.New()
	engine.Use(middleware.RequestID())
	v1 := engine.Group("/api/v1")
	v1.GET("/projects", projects.List)
	v1.POST("/projects", projects.Create)
	v1.GET("/projects/:id", projects.Get)
	v1.PATCH("/projects/:id", projects.Update)
	v1.DELETE("/projects/:id", projects.Delete)
	v1.GET("/projects/:id/financials", projects.Financials)
	v1.GET("/projects/:id/valuations", entries.ListValuations)
	v1.POST("/projects/:id/valuations", entries.CreateValuation)
	v1.PUT("/projects/:id/valuations/:entryId", entries.UpdateValuation)
	v1.DELETE("/projects/:id/valuations/:entryId", entries.DeleteValuation)
	v1.GET("/projects/:id/payments", entries.ListPayments)
	v1.POST("/projects/:id/payments", entries.CreatePayment)
	v1.DELETE("/projects/:id/payments/:entryId", entries.DeletePayment)
	v1.POST("/projects/:id/supplier-costs", entries.CreateSupplierCost)
	v1.PUT("/projects/:id/supplier-costs/:entryId", entries.UpdateSupplierCost)
	v1.GET("/operational-costs", costs.List)
	v1.POST("/operational-costs", costs.Create)
	v1.GET("/operational-costs/summary", costs.Summary)
	v1.PUT("/operational-costs/:id", costs.Update)
	v1.DELETE("/operational-costs/:id", costs.Delete)
	v1.GET("/dashboard", dash.Overview)
	v1.GET("/dashboard/summary", dash.Summary)
	v1.POST("/payment-plans/preview", dash.PreviewPaymentPlan)
	v1.GET("/export/config", exports.GetConfig)
	v1.PUT("/export/config", exports.UpdateConfig)
	v1.POST("/export/test", exports.Test)
	v1.POST("/export/sync", exports.Sync)
	v1.GET("/export/status", exports.Status)
	v1.GET("/export/snapshot", exports.Snapshot)
	v1.POST("/export/import", exports.Import)
	v1.GET("/export/workbook", exports.Workbook)
	v1.POST("/export/workbook/publish", exports.PublishWorkbook)
	v1.GET("/health", system.Health)

	api.engine = engine
	return api
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
		Details   []struct {
			Field string `json:"field"`
		} `json:"details"`
	} `json:"error"`
}

func (a *testAPI) do(t *testing.T, method, target string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func (a *testAPI) createProject(t *testing.T, code string, cash bool) string {
	t.Helper()
	w, env := a.do(t, http.MethodPost, "/api/v1/projects", map[string]any{
		"code":           code,
		"clientName":     "Client " + code,
		"hasCashPayment": cash,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeData[map[string]any](t, env)["id"].(string)
}

func TestProjectHandler(t *testing.T) {
	api := newTestAPI(t, false)

	t.Run("creates and fetches a project", func(t *testing.T) {
		id := api.createProject(t, "KIT-001", false)

		w, env := api.do(t, http.MethodGet, "/api/v1/projects/"+id, nil)
		require.Equal(t, http.StatusOK, w.Code)
		project := decodeData[map[string]any](t, env)
		assert.Equal(t, "KIT-001", project["code"])
		assert.Equal(t, "active", project["status"])
		assert.Contains(t, project, "financials")
	})

	t.Run("rejects a missing client name", func(t *testing.T) {
		w, env := api.do(t, http.MethodPost, "/api/v1/projects", map[string]any{"code": "X"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "ERR_VALIDATION", env.Error.Code)
		require.Len(t, env.Error.Details, 1)
		assert.Equal(t, "clientName", env.Error.Details[0].Field)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		w, env := api.do(t, http.MethodPost, "/api/v1/projects", "{")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, env.Error)
		assert.NotEmpty(t, env.Error.RequestID)
	})

	t.Run("updates status", func(t *testing.T) {
		id := api.createProject(t, "KIT-002", false)
		w, env := api.do(t, http.MethodPatch, "/api/v1/projects/"+id, map[string]any{"status": "completed"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "completed", decodeData[map[string]any](t, env)["status"])

		w, _ = api.do(t, http.MethodPatch, "/api/v1/projects/"+id, map[string]any{"status": "archived"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown project is 404", func(t *testing.T) {
		w, env := api.do(t, http.MethodGet, "/api/v1/projects/missing", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "ERR_NOT_FOUND", env.Error.Code)
	})

	t.Run("lists by code ascending", func(t *testing.T) {
		w, env := api.do(t, http.MethodGet, "/api/v1/projects?sort=code&order=asc", nil)
		require.Equal(t, http.StatusOK, w.Code)
		projects := decodeData[[]map[string]any](t, env)
		require.GreaterOrEqual(t, len(projects), 2)
		assert.Equal(t, "KIT-001", projects[0]["code"])
	})

	t.Run("deletes a project", func(t *testing.T) {
		id := api.createProject(t, "KIT-DEL", false)
		w, _ := api.do(t, http.MethodDelete, "/api/v1/projects/"+id, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w, _ = api.do(t, http.MethodGet, "/api/v1/projects/"+id, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEntryHandler(t *testing.T) {
	api := newTestAPI(t, false)
	id := api.createProject(t, "WARD-7", false)

	w, env := api.do(t, http.MethodPost, "/api/v1/projects/"+id+"/valuations", map[string]any{
		"date":       "2025-03-01",
		"grandTotal": "12000",
		"omissions":  "2000",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	valuation := decodeData[map[string]any](t, env)
	assert.Equal(t, "V1", valuation["name"])

	w, _ = api.do(t, http.MethodPost, "/api/v1/projects/"+id+"/payments", map[string]any{
		"date":    "2025-03-05",
		"amount":  "4000",
		"vatRate": "0.2",
		"type":    "account",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env = api.do(t, http.MethodPost, "/api/v1/projects/"+id+"/supplier-costs", map[string]any{
		"date":     "2025-03-02",
		"amount":   "1500",
		"supplier": "Oak & Co",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	costID := decodeData[map[string]any](t, env)["id"].(string)

	t.Run("financials reflect the entries", func(t *testing.T) {
		w, env := api.do(t, http.MethodGet, "/api/v1/projects/"+id+"/financials", nil)
		require.Equal(t, http.StatusOK, w.Code)
		fin := decodeData[map[string]any](t, env)
		assert.Equal(t, "10000", fin["totalNet"])
		assert.Equal(t, "4000", fin["totalInflows"])
		assert.Equal(t, "1500", fin["totalSupplierCosts"])
	})

	t.Run("cash payment rejected without cash channel", func(t *testing.T) {
		w, env := api.do(t, http.MethodPost, "/api/v1/projects/"+id+"/payments", map[string]any{
			"date":   "2025-03-06",
			"amount": "500",
			"type":   "cash",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "ERR_INVALID_PAYMENT_TYPE", env.Error.Code)
	})

	t.Run("amount must be positive", func(t *testing.T) {
		w, env := api.do(t, http.MethodPost, "/api/v1/projects/"+id+"/payments", map[string]any{
			"date":   "2025-03-06",
			"amount": "-5",
			"type":   "account",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "ERR_VALIDATION", env.Error.Code)
	})

	t.Run("valuation name is capped at 20 characters", func(t *testing.T) {
		w, env := api.do(t, http.MethodPost, "/api/v1/projects/"+id+"/payments", map[string]any{
			"date":          "2025-03-06",
			"amount":        "500",
			"type":          "account",
			"valuationName": strings.Repeat("V", 21),
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "ERR_VALIDATION", env.Error.Code)
	})

	t.Run("dates must be ISO", func(t *testing.T) {
		w, _ := api.do(t, http.MethodPost, "/api/v1/projects/"+id+"/supplier-costs", map[string]any{
			"date":     "03/02/2025",
			"amount":   "10",
			"supplier": "Oak & Co",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("updates a supplier cost", func(t *testing.T) {
		w, env := api.do(t, http.MethodPut, "/api/v1/projects/"+id+"/supplier-costs/"+costID, map[string]any{
			"date":     "2025-03-02",
			"amount":   "1750",
			"supplier": "Oak & Co",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "1750", decodeData[map[string]any](t, env)["amount"])
	})

	t.Run("lists payments", func(t *testing.T) {
		w, env := api.do(t, http.MethodGet, "/api/v1/projects/"+id+"/payments", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeData[[]map[string]any](t, env), 1)
	})

	t.Run("valuation on unknown project is 404", func(t *testing.T) {
		w, _ := api.do(t, http.MethodPost, "/api/v1/projects/nope/valuations", map[string]any{
			"date":       "2025-03-01",
			"grandTotal": "1",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestOperationalCostHandler(t *testing.T) {
	api := newTestAPI(t, false)

	w, env := api.do(t, http.MethodGet, "/api/v1/operational-costs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	seeded := len(decodeData[[]map[string]any](t, env))
	assert.Positive(t, seeded)

	w, env = api.do(t, http.MethodPost, "/api/v1/operational-costs", map[string]any{
		"date":     "2025-04-01",
		"amount":   "320",
		"category": "Workshop Rent",
		"costType": "fixed",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	costID := decodeData[map[string]any](t, env)["id"].(string)

	w, _ = api.do(t, http.MethodPost, "/api/v1/operational-costs", map[string]any{
		"date":     "2025-04-01",
		"amount":   "320",
		"category": "Rent",
		"costType": "sometimes",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = api.do(t, http.MethodPut, "/api/v1/operational-costs/"+costID, map[string]any{
		"date":     "2025-04-01",
		"amount":   "350",
		"category": "Workshop Rent",
		"costType": "fixed",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "350", decodeData[map[string]any](t, env)["amount"])

	w, env = api.do(t, http.MethodGet, "/api/v1/operational-costs/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, env.Data)

	w, _ = api.do(t, http.MethodDelete, "/api/v1/operational-costs/"+costID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, env = api.do(t, http.MethodGet, "/api/v1/operational-costs?order=asc", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeData[[]map[string]any](t, env), seeded)

	w, _ = api.do(t, http.MethodDelete, "/api/v1/operational-costs/"+costID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboardHandler(t *testing.T) {
	api := newTestAPI(t, false)
	api.createProject(t, "D-1", true)

	w, env := api.do(t, http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	overview := decodeData[map[string]any](t, env)
	assert.Contains(t, overview, "state")
	assert.Contains(t, overview, "summary")
	assert.Equal(t, false, overview["loading"])

	w, env = api.do(t, http.MethodGet, "/api/v1/dashboard/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decodeData[map[string]any](t, env)["projectCount"])

	t.Run("payment plan preview", func(t *testing.T) {
		w, env := api.do(t, http.MethodPost, "/api/v1/payment-plans/preview", map[string]any{
			"totalValue": "10000",
			"plan":       "account_cp",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		preview := decodeData[PaymentPlanPreviewResponse](t, env)
		assert.Equal(t, "6000", preview.Expected.AccountTotal.String())
		assert.Equal(t, "4000", preview.Expected.CashTotal.String())
		assert.Equal(t, "1200", preview.Expected.Upfront.Account.String())
		require.Len(t, preview.Breakdown.Stages, 3)
	})

	t.Run("unknown plan", func(t *testing.T) {
		w, _ := api.do(t, http.MethodPost, "/api/v1/payment-plans/preview", map[string]any{
			"totalValue": "10000",
			"plan":       "instalments",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestExportHandler(t *testing.T) {
	t.Run("sync without endpoint is a conflict", func(t *testing.T) {
		api := newTestAPI(t, false)
		w, env := api.do(t, http.MethodPost, "/api/v1/export/sync", nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "ERR_EXPORT_NOT_CONFIGURED", env.Error.Code)
		assert.Zero(t, api.transport.sent())
	})

	t.Run("config round trip", func(t *testing.T) {
		api := newTestAPI(t, false)
		w, _ := api.do(t, http.MethodPut, "/api/v1/export/config", map[string]any{
			"endpointUrl": "not a url",
			"enabled":     true,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w, _ = api.do(t, http.MethodPut, "/api/v1/export/config", map[string]any{
			"endpointUrl": "https://hooks.example.com/ledger",
			"enabled":     true,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w, env := api.do(t, http.MethodGet, "/api/v1/export/config", nil)
		require.Equal(t, http.StatusOK, w.Code)
		cfg := decodeData[export.WebhookConfig](t, env)
		assert.Equal(t, "https://hooks.example.com/ledger", cfg.EndpointURL)
		assert.True(t, cfg.Enabled)
	})

	t.Run("test and sync send to the endpoint", func(t *testing.T) {
		api := newTestAPI(t, false)
		w, _ := api.do(t, http.MethodPut, "/api/v1/export/config", map[string]any{
			"endpointUrl": "https://hooks.example.com/ledger",
		})
		require.Equal(t, http.StatusOK, w.Code)

		w, _ = api.do(t, http.MethodPost, "/api/v1/export/test", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w, env := api.do(t, http.MethodPost, "/api/v1/export/sync", nil)
		require.Equal(t, http.StatusOK, w.Code)
		status := decodeData[export.Status](t, env)
		assert.Equal(t, 1, status.Transmissions)
		assert.Equal(t, 2, api.transport.sent())

		api.transport.err = errors.New("connection refused")
		w, env = api.do(t, http.MethodPost, "/api/v1/export/sync", nil)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "ERR_EXPORT_FAILED", env.Error.Code)

		w, env = api.do(t, http.MethodGet, "/api/v1/export/status", nil)
		require.Equal(t, http.StatusOK, w.Code)
		status = decodeData[export.Status](t, env)
		assert.Equal(t, 1, status.Failures)
		assert.Contains(t, status.LastError, "connection refused")
	})

	t.Run("snapshot and import", func(t *testing.T) {
		api := newTestAPI(t, false)
		api.createProject(t, "SNAP-1", false)

		w, _ := api.do(t, http.MethodGet, "/api/v1/export/snapshot", nil)
		require.Equal(t, http.StatusOK, w.Code)
		snapshot := w.Body.String()
		assert.Contains(t, snapshot, `"projects"`)
		assert.Contains(t, snapshot, "SNAP-1")

		other := newTestAPI(t, false)
		w, env := other.do(t, http.MethodPost, "/api/v1/export/import", snapshot)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.EqualValues(t, 1, decodeData[map[string]any](t, env)["projects"])
		assert.Len(t, other.store.State().Projects, 1)

		w, env = other.do(t, http.MethodPost, "/api/v1/export/import", `{"projects": []}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "ERR_MALFORMED_IMPORT", env.Error.Code)
		assert.Len(t, other.store.State().Projects, 1)
	})

	t.Run("workbook download", func(t *testing.T) {
		api := newTestAPI(t, false)
		w, _ := api.do(t, http.MethodGet, "/api/v1/export/workbook", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), ".zip")
		assert.Equal(t, "PK", w.Body.String()[:2])
	})

	t.Run("publish needs storage", func(t *testing.T) {
		api := newTestAPI(t, false)
		w, env := api.do(t, http.MethodPost, "/api/v1/export/workbook/publish", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "ERR_STORAGE_NOT_CONFIGURED", env.Error.Code)

		api = newTestAPI(t, true)
		w, env = api.do(t, http.MethodPost, "/api/v1/export/workbook/publish", nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		published := decodeData[export.PublishedWorkbook](t, env)
		assert.Equal(t, api.publisher.key, published.Key)
		assert.Contains(t, published.URL, "https://files.example.com/exports/")
	})
}

func TestSystemHandler_Health(t *testing.T) {
	api := newTestAPI(t, false)

	w, _ := api.do(t, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "ok", body["database"])

	require.NoError(t, api.db.Close())
	w, _ = api.do(t, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
