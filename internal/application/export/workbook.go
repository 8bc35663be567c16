package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/oakline/ledger/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Sheet names of the local workbook, in order
const (
	SheetSummary        = "Summary"
	SheetProjects       = "Projects"
	SheetValuations     = "Valuations"
	SheetClientPayments = "Client Payments"
	SheetSupplierCosts  = "Supplier Costs"
	SheetFixedCosts     = "Fixed Costs"
	SheetVariableCosts  = "Variable Costs"

	workbookBaseName = "furniture-ledger"
)

// Sheet is a named table of cells
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Workbook is the local export fallback
type Workbook struct {
	GeneratedAt time.Time
	Sheets      []Sheet
}

// WorkbookRenderer encodes a workbook into a file format
type WorkbookRenderer interface {
	Render(w io.Writer, wb Workbook) error
	ContentType() string
	Extension() string
}

// WorkbookPublisher uploads a rendered workbook and returns a download URL
type WorkbookPublisher interface {
	Publish(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// BuildWorkbook lays the state out as the seven export sheets
func BuildWorkbook(state ledger.DashboardState, now time.Time) Workbook {
	printer := message.NewPrinter(language.BritishEnglish)
	title := cases.Title(language.English)

	wb := Workbook{GeneratedAt: now}
	wb.Sheets = append(wb.Sheets,
		summarySheet(state, now, printer),
		projectsSheet(state),
		valuationsSheet(state),
		paymentsSheet(state, title),
		supplierCostsSheet(state),
		operationalCostSheet(SheetFixedCosts, state.OperationalCosts, ledger.CostTypeFixed),
		operationalCostSheet(SheetVariableCosts, state.OperationalCosts, ledger.CostTypeVariable),
	)
	return wb
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func currency(p *message.Printer, d decimal.Decimal) string {
	return p.Sprintf("£%.2f", d.Round(2).InexactFloat64())
}

func percent(p *message.Printer, d decimal.Decimal) string {
	return p.Sprintf("%.2f%%", d.Round(2).InexactFloat64())
}

func summarySheet(state ledger.DashboardState, now time.Time, p *message.Printer) Sheet {
	s := ledger.CalculateDashboardSummary(state)
	return Sheet{
		Name:   SheetSummary,
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Generated", now.UTC().Format(time.RFC3339)},
			{"Projects", strconv.Itoa(s.ProjectCount)},
			{"Active Projects", strconv.Itoa(s.ActiveProjects)},
			{"Completed Projects", strconv.Itoa(s.CompletedProjects)},
			{"On Hold Projects", strconv.Itoa(s.OnHoldProjects)},
			{"Total Contract Value (inc. VAT)", currency(p, s.TotalGross)},
			{"Total Inflows (ex. VAT)", currency(p, s.TotalInflows)},
			{"Payment VAT", currency(p, s.PaymentVAT)},
			{"Total Inflows (inc. VAT)", currency(p, s.TotalInflowsIncVAT)},
			{"Supplier Costs", currency(p, s.TotalSupplierCosts)},
			{"Gross Profit", currency(p, s.GrossProfit)},
			{"Fixed Operational Costs", currency(p, s.FixedCosts)},
			{"Variable Operational Costs", currency(p, s.VariableCosts)},
			{"Net Profit", currency(p, s.NetProfit)},
			{"Net Margin", percent(p, s.NetMargin)},
			{"Outstanding", currency(p, s.TotalOutstanding)},
			{"Collection Rate", percent(p, s.CollectionRate)},
		},
	}
}

func projectsSheet(state ledger.DashboardState) Sheet {
	sheet := Sheet{
		Name: SheetProjects,
		Header: []string{"Code", "Client", "Address", "Status", "Cash Payments Enabled", "Created",
			"Contract Value", "Inflows", "Supplier Costs", "Gross Profit", "Margin %", "Collection %", "Outstanding", "Notes"},
	}
	for _, p := range state.Projects {
		f := ledger.CalculateProjectFinancials(p)
		sheet.Rows = append(sheet.Rows, []string{
			p.Code, p.ClientName, p.Address, p.Status.DisplayName(), strconv.FormatBool(p.HasCashPayment),
			p.CreatedAt.Format(dateLayout),
			amount(f.TotalGross), amount(f.TotalInflows), amount(f.TotalSupplierCosts), amount(f.GrossProfit),
			amount(f.ProfitMargin), amount(f.CollectionRate), amount(f.Outstanding), p.Notes,
		})
	}
	return sheet
}

func valuationsSheet(state ledger.DashboardState) Sheet {
	sheet := Sheet{
		Name:   SheetValuations,
		Header: []string{"Project", "Valuation", "Date", "Grand Total", "Omissions", "Subtotal", "VAT Rate", "VAT", "Gross", "Notes"},
	}
	for _, p := range state.Projects {
		for _, v := range p.Valuations {
			t := ledger.CalculateValuationTotals(v, p.HasCashPayment)
			sheet.Rows = append(sheet.Rows, []string{
				p.Code, v.Name, v.Date.Format(dateLayout),
				amount(t.GrandTotal), amount(t.Omissions), amount(t.Subtotal), t.VATRate.String(),
				amount(t.VAT), amount(t.Gross), v.Notes,
			})
		}
	}
	return sheet
}

func paymentsSheet(state ledger.DashboardState, title cases.Caser) Sheet {
	sheet := Sheet{
		Name:   SheetClientPayments,
		Header: []string{"Project", "Client", "Date", "Type", "Valuation", "Amount", "VAT Rate", "VAT", "Gross", "Description"},
	}
	for _, p := range state.Projects {
		for _, pay := range p.Payments {
			sheet.Rows = append(sheet.Rows, []string{
				p.Code, p.ClientName, pay.Date.Format(dateLayout), title.String(pay.Type.String()), pay.ValuationName,
				amount(pay.Amount), pay.VATRate.String(), amount(pay.VAT()), amount(pay.GrossAmount()), pay.Description,
			})
		}
	}
	return sheet
}

func supplierCostsSheet(state ledger.DashboardState) Sheet {
	sheet := Sheet{
		Name:   SheetSupplierCosts,
		Header: []string{"Project", "Date", "Supplier", "Amount", "Description"},
	}
	for _, p := range state.Projects {
		for _, c := range p.SupplierCosts {
			sheet.Rows = append(sheet.Rows, []string{
				p.Code, c.Date.Format(dateLayout), c.Supplier, amount(c.Amount), c.Description,
			})
		}
	}
	return sheet
}

func operationalCostSheet(name string, costs []ledger.OperationalCost, costType ledger.CostType) Sheet {
	sheet := Sheet{
		Name:   name,
		Header: []string{"Date", "Category", "Amount", "Recurring", "Description"},
	}
	for _, c := range ledger.SortedOperationalCosts(costs, ledger.SortAsc) {
		if c.CostType != costType {
			continue
		}
		sheet.Rows = append(sheet.Rows, []string{
			c.Date.Format(dateLayout), c.Category, amount(c.Amount), strconv.FormatBool(c.IsRecurring), c.Description,
		})
	}
	return sheet
}

// PublishedWorkbook describes an uploaded workbook
type PublishedWorkbook struct {
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// WorkbookService renders and optionally publishes the local workbook
type WorkbookService struct {
	renderer  WorkbookRenderer
	publisher WorkbookPublisher
	clock     Clock
	logger    *zap.Logger
}

// NewWorkbookService creates a new WorkbookService. publisher may be nil
// when no object storage is configured.
func NewWorkbookService(renderer WorkbookRenderer, publisher WorkbookPublisher, clock Clock, logger *zap.Logger) *WorkbookService {
	if clock == nil {
		clock = SystemClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkbookService{renderer: renderer, publisher: publisher, clock: clock, logger: logger}
}

// FileName returns the download name of a workbook generated at t
func (s *WorkbookService) FileName(t time.Time) string {
	return fmt.Sprintf("%s-%s%s", workbookBaseName, t.UTC().Format(dateLayout), s.renderer.Extension())
}

// ContentType returns the MIME type of rendered workbooks
func (s *WorkbookService) ContentType() string {
	return s.renderer.ContentType()
}

// CanPublish reports whether object storage is configured
func (s *WorkbookService) CanPublish() bool {
	return s.publisher != nil
}

// Write renders the workbook for state to w and returns its file name
func (s *WorkbookService) Write(w io.Writer, state ledger.DashboardState) (string, error) {
	now := s.clock.Now()
	if err := s.renderer.Render(w, BuildWorkbook(state, now)); err != nil {
		return "", fmt.Errorf("render workbook: %w", err)
	}
	return s.FileName(now), nil
}

// Publish renders the workbook and uploads it
func (s *WorkbookService) Publish(ctx context.Context, state ledger.DashboardState) (*PublishedWorkbook, error) {
	if s.publisher == nil {
		return nil, ErrStorageNotConfigured
	}

	now := s.clock.Now()
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, BuildWorkbook(state, now)); err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%s", now.UTC().Format("2006/01"), s.FileName(now))
	url, err := s.publisher.Publish(ctx, key, buf.Bytes(), s.renderer.ContentType())
	if err != nil {
		s.logger.Error("failed to publish workbook", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("publish workbook: %w", err)
	}

	s.logger.Info("workbook published", zap.String("key", key), zap.Int("size", buf.Len()))
	return &PublishedWorkbook{Key: key, URL: url, GeneratedAt: now}, nil
}
