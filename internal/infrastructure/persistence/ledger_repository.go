package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/oakline/ledger/internal/domain/ledger"
	"github.com/oakline/ledger/internal/domain/shared"
	"github.com/oakline/ledger/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// seedBatchSize bounds the rows per INSERT when seeding operational costs
const seedBatchSize = 100

// GormLedgerRepository implements ledger.Repository using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *GormLedgerRepository) WithTx(tx *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: tx}
}

// FetchAllData loads every project with its collections plus every operational cost.
// Projects come back in creation order; child rows in insertion order.
func (r *GormLedgerRepository) FetchAllData(ctx context.Context) (*ledger.DashboardState, error) {
	db := r.db.WithContext(ctx)

	var projects []models.ProjectModel
	if err := db.Order("created_at, id").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("fetch projects: %w", err)
	}
	var valuations []models.ValuationModel
	if err := db.Order("created_at, id").Find(&valuations).Error; err != nil {
		return nil, fmt.Errorf("fetch valuations: %w", err)
	}
	var payments []models.PaymentModel
	if err := db.Order("created_at, id").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("fetch payments: %w", err)
	}
	var supplierCosts []models.SupplierCostModel
	if err := db.Order("created_at, id").Find(&supplierCosts).Error; err != nil {
		return nil, fmt.Errorf("fetch supplier costs: %w", err)
	}
	costs, err := r.FetchOperationalCosts(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(projects))
	state := &ledger.DashboardState{
		Projects:         make([]ledger.Project, 0, len(projects)),
		OperationalCosts: costs,
	}
	for i := range projects {
		index[projects[i].ID] = len(state.Projects)
		state.Projects = append(state.Projects, *projects[i].ToDomain())
	}
	// Orphaned rows (no matching project) are skipped.
	for i := range valuations {
		if at, ok := index[valuations[i].ProjectID]; ok {
			state.Projects[at].Valuations = append(state.Projects[at].Valuations, valuations[i].ToDomain())
		}
	}
	for i := range payments {
		if at, ok := index[payments[i].ProjectID]; ok {
			state.Projects[at].Payments = append(state.Projects[at].Payments, payments[i].ToDomain())
		}
	}
	for i := range supplierCosts {
		if at, ok := index[supplierCosts[i].ProjectID]; ok {
			state.Projects[at].SupplierCosts = append(state.Projects[at].SupplierCosts, supplierCosts[i].ToDomain())
		}
	}
	return state, nil
}

// FetchOperationalCosts returns every operational cost in insertion order
func (r *GormLedgerRepository) FetchOperationalCosts(ctx context.Context) ([]ledger.OperationalCost, error) {
	var rows []models.OperationalCostModel
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch operational costs: %w", err)
	}
	costs := make([]ledger.OperationalCost, 0, len(rows))
	for i := range rows {
		costs = append(costs, rows[i].ToDomain())
	}
	return costs, nil
}

// SeedOperationalCosts inserts the initial operational costs in one transaction
func (r *GormLedgerRepository) SeedOperationalCosts(ctx context.Context, costs []ledger.OperationalCost) error {
	if len(costs) == 0 {
		return nil
	}
	// one INSERT stamps every row alike; space them so the seed order survives
	now := time.Now().UTC()
	rows := make([]*models.OperationalCostModel, 0, len(costs))
	for i := range costs {
		m := models.OperationalCostModelFromDomain(&costs[i])
		m.CreatedAt = now.Add(time.Duration(i) * time.Microsecond)
		rows = append(rows, m)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(rows, seedBatchSize).Error; err != nil {
			return fmt.Errorf("seed operational costs: %w", err)
		}
		return nil
	})
}

// CreateProject inserts the project header
func (r *GormLedgerRepository) CreateProject(ctx context.Context, project *ledger.Project) (*ledger.Project, error) {
	m := models.ProjectModelFromDomain(project)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return m.ToDomain(), nil
}

// UpdateProject rewrites the project header; collections are untouched
func (r *GormLedgerRepository) UpdateProject(ctx context.Context, project *ledger.Project) (*ledger.Project, error) {
	m := models.ProjectModelFromDomain(project)
	result := r.db.WithContext(ctx).Model(&models.ProjectModel{}).
		Where("id = ?", project.ID).
		Updates(map[string]any{
			"code":             m.Code,
			"client_name":      m.ClientName,
			"address":          m.Address,
			"status":           m.Status,
			"has_cash_payment": m.HasCashPayment,
			"notes":            m.Notes,
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("update project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, shared.ErrNotFound
	}

	var stored models.ProjectModel
	if err := r.db.WithContext(ctx).First(&stored, "id = ?", project.ID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return stored.ToDomain(), nil
}

// DeleteProject removes the project and everything recorded against it
func (r *GormLedgerRepository) DeleteProject(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []any{&models.ValuationModel{}, &models.PaymentModel{}, &models.SupplierCostModel{}} {
			if err := tx.Where("project_id = ?", id).Delete(child).Error; err != nil {
				return fmt.Errorf("delete project children: %w", err)
			}
		}
		result := tx.Where("id = ?", id).Delete(&models.ProjectModel{})
		if result.Error != nil {
			return fmt.Errorf("delete project: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CreateValuation inserts a valuation for projectID
func (r *GormLedgerRepository) CreateValuation(ctx context.Context, projectID string, valuation *ledger.Valuation) (*ledger.Valuation, error) {
	m := models.ValuationModelFromDomain(projectID, valuation)
	if err := r.createChild(ctx, projectID, m); err != nil {
		return nil, fmt.Errorf("create valuation: %w", err)
	}
	v := m.ToDomain()
	return &v, nil
}

// UpdateValuation rewrites a valuation of projectID
func (r *GormLedgerRepository) UpdateValuation(ctx context.Context, projectID string, valuation *ledger.Valuation) (*ledger.Valuation, error) {
	m := models.ValuationModelFromDomain(projectID, valuation)
	err := r.updateChild(ctx, &models.ValuationModel{}, projectID, m.ID, map[string]any{
		"name":        m.Name,
		"date":        m.Date,
		"grand_total": m.GrandTotal,
		"omissions":   m.Omissions,
		"vat_rate":    m.VATRate,
		"notes":       m.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("update valuation: %w", err)
	}
	v := m.ToDomain()
	return &v, nil
}

// DeleteValuation removes a valuation of projectID
func (r *GormLedgerRepository) DeleteValuation(ctx context.Context, projectID, id string) error {
	if err := r.deleteChild(ctx, &models.ValuationModel{}, projectID, id); err != nil {
		return fmt.Errorf("delete valuation: %w", err)
	}
	return nil
}

// CreatePayment inserts a payment for projectID
func (r *GormLedgerRepository) CreatePayment(ctx context.Context, projectID string, payment *ledger.Payment) (*ledger.Payment, error) {
	m := models.PaymentModelFromDomain(projectID, payment)
	if err := r.createChild(ctx, projectID, m); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	p := m.ToDomain()
	return &p, nil
}

// UpdatePayment rewrites a payment of projectID
func (r *GormLedgerRepository) UpdatePayment(ctx context.Context, projectID string, payment *ledger.Payment) (*ledger.Payment, error) {
	m := models.PaymentModelFromDomain(projectID, payment)
	err := r.updateChild(ctx, &models.PaymentModel{}, projectID, m.ID, map[string]any{
		"date":           m.Date,
		"amount":         m.Amount,
		"vat_rate":       m.VATRate,
		"type":           m.Type,
		"valuation_name": m.ValuationName,
		"description":    m.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}
	p := m.ToDomain()
	return &p, nil
}

// DeletePayment removes a payment of projectID
func (r *GormLedgerRepository) DeletePayment(ctx context.Context, projectID, id string) error {
	if err := r.deleteChild(ctx, &models.PaymentModel{}, projectID, id); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return nil
}

// CreateSupplierCost inserts a supplier cost for projectID
func (r *GormLedgerRepository) CreateSupplierCost(ctx context.Context, projectID string, cost *ledger.SupplierCost) (*ledger.SupplierCost, error) {
	m := models.SupplierCostModelFromDomain(projectID, cost)
	if err := r.createChild(ctx, projectID, m); err != nil {
		return nil, fmt.Errorf("create supplier cost: %w", err)
	}
	c := m.ToDomain()
	return &c, nil
}

// UpdateSupplierCost rewrites a supplier cost of projectID
func (r *GormLedgerRepository) UpdateSupplierCost(ctx context.Context, projectID string, cost *ledger.SupplierCost) (*ledger.SupplierCost, error) {
	m := models.SupplierCostModelFromDomain(projectID, cost)
	err := r.updateChild(ctx, &models.SupplierCostModel{}, projectID, m.ID, map[string]any{
		"date":        m.Date,
		"amount":      m.Amount,
		"supplier":    m.Supplier,
		"description": m.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("update supplier cost: %w", err)
	}
	c := m.ToDomain()
	return &c, nil
}

// DeleteSupplierCost removes a supplier cost of projectID
func (r *GormLedgerRepository) DeleteSupplierCost(ctx context.Context, projectID, id string) error {
	if err := r.deleteChild(ctx, &models.SupplierCostModel{}, projectID, id); err != nil {
		return fmt.Errorf("delete supplier cost: %w", err)
	}
	return nil
}

// CreateOperationalCost inserts an operational cost
func (r *GormLedgerRepository) CreateOperationalCost(ctx context.Context, cost *ledger.OperationalCost) (*ledger.OperationalCost, error) {
	m := models.OperationalCostModelFromDomain(cost)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, fmt.Errorf("create operational cost: %w", err)
	}
	c := m.ToDomain()
	return &c, nil
}

// UpdateOperationalCost rewrites an operational cost
func (r *GormLedgerRepository) UpdateOperationalCost(ctx context.Context, cost *ledger.OperationalCost) (*ledger.OperationalCost, error) {
	m := models.OperationalCostModelFromDomain(cost)
	result := r.db.WithContext(ctx).Model(&models.OperationalCostModel{}).
		Where("id = ?", m.ID).
		Updates(map[string]any{
			"date":         m.Date,
			"amount":       m.Amount,
			"category":     m.Category,
			"cost_type":    m.CostType,
			"description":  m.Description,
			"is_recurring": m.IsRecurring,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("update operational cost: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("update operational cost: %w", shared.ErrNotFound)
	}
	c := m.ToDomain()
	return &c, nil
}

// DeleteOperationalCost removes an operational cost
func (r *GormLedgerRepository) DeleteOperationalCost(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.OperationalCostModel{})
	if result.Error != nil {
		return fmt.Errorf("delete operational cost: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete operational cost: %w", shared.ErrNotFound)
	}
	return nil
}

// createChild inserts a project-scoped row after checking the project exists
func (r *GormLedgerRepository) createChild(ctx context.Context, projectID string, row any) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := projectExists(tx, projectID); err != nil {
			return err
		}
		return tx.Create(row).Error
	})
}

func (r *GormLedgerRepository) updateChild(ctx context.Context, model any, projectID, id string, values map[string]any) error {
	values["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).Model(model).
		Where("id = ? AND project_id = ?", id, projectID).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormLedgerRepository) deleteChild(ctx context.Context, model any, projectID, id string) error {
	result := r.db.WithContext(ctx).Where("id = ? AND project_id = ?", id, projectID).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func projectExists(tx *gorm.DB, projectID string) error {
	var count int64
	if err := tx.Model(&models.ProjectModel{}).Where("id = ?", projectID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormLedgerRepository implements ledger.Repository
var _ ledger.Repository = (*GormLedgerRepository)(nil)
