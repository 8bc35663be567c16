package router

import (
	"github.com/oakline/ledger/internal/interfaces/http/handler"
)

// Handlers bundles the ledger API handlers
type Handlers struct {
	Projects         *handler.ProjectHandler
	Entries          *handler.EntryHandler
	OperationalCosts *handler.OperationalCostHandler
	Dashboard        *handler.DashboardHandler
	Export           *handler.ExportHandler
	System           *handler.SystemHandler
}

// LedgerGroups returns the route groups of the ledger API
func LedgerGroups(h Handlers) []*DomainGroup {
	projects := NewDomainGroup("projects", "/projects").
		GET("", h.Projects.List).
		POST("", h.Projects.Create).
		GET("/:id", h.Projects.Get).
		PUT("/:id", h.Projects.Update).
		PATCH("/:id", h.Projects.Update).
		DELETE("/:id", h.Projects.Delete).
		GET("/:id/financials", h.Projects.Financials)

	projects.Group("valuations", "/:id/valuations").
		GET("", h.Entries.ListValuations).
		POST("", h.Entries.CreateValuation).
		PUT("/:entryId", h.Entries.UpdateValuation).
		DELETE("/:entryId", h.Entries.DeleteValuation)

	projects.Group("payments", "/:id/payments").
		GET("", h.Entries.ListPayments).
		POST("", h.Entries.CreatePayment).
		PUT("/:entryId", h.Entries.UpdatePayment).
		DELETE("/:entryId", h.Entries.DeletePayment)

	projects.Group("supplier-costs", "/:id/supplier-costs").
		GET("", h.Entries.ListSupplierCosts).
		POST("", h.Entries.CreateSupplierCost).
		PUT("/:entryId", h.Entries.UpdateSupplierCost).
		DELETE("/:entryId", h.Entries.DeleteSupplierCost)

	operationalCosts := NewDomainGroup("operational-costs", "/operational-costs").
		GET("", h.OperationalCosts.List).
		POST("", h.OperationalCosts.Create).
		GET("/summary", h.OperationalCosts.Summary).
		PUT("/:id", h.OperationalCosts.Update).
		DELETE("/:id", h.OperationalCosts.Delete)

	dashboard := NewDomainGroup("dashboard", "/dashboard").
		GET("", h.Dashboard.Overview).
		GET("/summary", h.Dashboard.Summary)

	paymentPlans := NewDomainGroup("payment-plans", "/payment-plans").
		POST("/preview", h.Dashboard.PreviewPaymentPlan)

	exports := NewDomainGroup("export", "/export").
		GET("/config", h.Export.GetConfig).
		PUT("/config", h.Export.UpdateConfig).
		POST("/test", h.Export.Test).
		POST("/sync", h.Export.Sync).
		GET("/status", h.Export.Status).
		GET("/snapshot", h.Export.Snapshot).
		POST("/import", h.Export.Import).
		GET("/workbook", h.Export.Workbook).
		POST("/workbook/publish", h.Export.PublishWorkbook)

	system := NewDomainGroup("system", "").
		GET("/health", h.System.Health)

	return []*DomainGroup{projects, operationalCosts, dashboard, paymentPlans, exports, system}
}

// RegisterLedgerRoutes mounts the ledger API on r
func RegisterLedgerRoutes(r *Router, h Handlers) {
	for _, group := range LedgerGroups(h) {
		r.Register(group)
	}
}
