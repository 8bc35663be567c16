package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/oakline/ledger/internal/domain/ledger"
	"github.com/oakline/ledger/internal/domain/shared"
	"go.uber.org/zap"
)

// AddProject persists a new project and adds it to the state
func (s *Store) AddProject(ctx context.Context, input CreateProjectInput) (*ledger.Project, error) {
	action := AddProject{}.Name()
	p, err := ledger.NewProject(input.Code, input.ClientName, input.Address, input.HasCashPayment)
	if err != nil {
		return nil, s.rejected(action, err)
	}
	p.Notes = input.Notes

	created, err := s.repo.CreateProject(ctx, p)
	if err := s.persisted(action, created != nil, err, zap.String("project_code", p.Code)); err != nil {
		return nil, err
	}

	s.commit(ctx, AddProject{Project: *created})
	return created, nil
}

// UpdateProject persists changes to a project's own fields
func (s *Store) UpdateProject(ctx context.Context, id string, input UpdateProjectInput) (*ledger.Project, error) {
	action := UpdateProject{}.Name()
	current, err := s.project(id)
	if err != nil {
		return nil, s.rejected(action, err)
	}

	p := current
	if input.Code != nil {
		p.Code = strings.TrimSpace(*input.Code)
	}
	if input.ClientName != nil {
		p.ClientName = strings.TrimSpace(*input.ClientName)
	}
	if input.Address != nil {
		p.Address = strings.TrimSpace(*input.Address)
	}
	if input.Status != nil {
		p.Status = *input.Status
	}
	if input.HasCashPayment != nil {
		p.HasCashPayment = *input.HasCashPayment
	}
	if input.Notes != nil {
		p.Notes = *input.Notes
	}
	if err := p.Validate(); err != nil {
		return nil, s.rejected(action, err)
	}

	updated, err := s.repo.UpdateProject(ctx, &p)
	if err := s.persisted(action, updated != nil, err, zap.String("project_id", id)); err != nil {
		return nil, err
	}

	s.commit(ctx, UpdateProject{Project: *updated})
	result, _ := s.State().FindProject(id)
	return &result, nil
}

// DeleteProject removes a project and everything it owns
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	action := DeleteProject{}.Name()
	if _, err := s.project(id); err != nil {
		return s.rejected(action, err)
	}

	err := s.repo.DeleteProject(ctx, id)
	if err := s.persisted(action, true, err, zap.String("project_id", id)); err != nil {
		return err
	}

	s.commit(ctx, DeleteProject{ID: id})
	return nil
}

// AddValuation persists a new valuation named after the project's current
// valuation count
func (s *Store) AddValuation(ctx context.Context, projectID string, input ValuationInput) (*ledger.Valuation, error) {
	action := AddValuation{}.Name()
	p, err := s.project(projectID)
	if err != nil {
		return nil, s.rejected(action, err)
	}

	v, err := ledger.NewValuation(p.NextValuationName(), input.Date, input.GrandTotal, input.Omissions, input.VATRate, input.Notes)
	if err != nil {
		return nil, s.rejected(action, err)
	}

	created, err := s.repo.CreateValuation(ctx, projectID, v)
	if err := s.persisted(action, created != nil, err, zap.String("project_id", projectID)); err != nil {
		return nil, err
	}

	s.commit(ctx, AddValuation{ProjectID: projectID, Valuation: *created})
	return created, nil
}

// UpdateValuation persists changes to a valuation. The name is kept.
func (s *Store) UpdateValuation(ctx context.Context, projectID, id string, input ValuationInput) (*ledger.Valuation, error) {
	action := UpdateValuation{}.Name()
	p, err := s.project(projectID)
	if err != nil {
		return nil, s.rejected(action, err)
	}
	current, ok := p.FindValuation(id)
	if !ok {
		return nil, s.rejected(action, notFound("Valuation", id))
	}

	v := current
	v.Date = input.Date
	v.GrandTotal = input.GrandTotal
	v.Omissions = input.Omissions
	if input.VATRate != nil {
		rate := *input.VATRate
		v.VATRate = &rate
	}
	v.Notes = input.Notes
	if err := v.Validate(); err != nil {
		return nil, s.rejected(action, err)
	}

	updated, err := s.repo.UpdateValuation(ctx, projectID, &v)
	if err := s.persisted(action, updated != nil, err, zap.String("project_id", projectID), zap.String("valuation_id", id)); err != nil {
		return nil, err
	}

	s.commit(ctx, UpdateValuation{ProjectID: projectID, Valuation: *updated})
	return updated, nil
}

// DeleteValuation removes a valuation. Remaining valuations keep their names.
func (s *Store) DeleteValuation(ctx context.Context, projectID, id string) error {
	action := DeleteValuation{}.Name()
	p, err := s.project(projectID)
	if err != nil {
		return s.rejected(action, err)
	}
	if _, ok := p.FindValuation(id); !ok {
		return s.rejected(action, notFound("Valuation", id))
	}

	err = s.repo.DeleteValuation(ctx, projectID, id)
	if err := s.persisted(action, true, err, zap.String("project_id", projectID), zap.String("valuation_id", id)); err != nil {
		return err
	}

	s.commit(ctx, DeleteValuation{ProjectID: projectID, ID: id})
	return nil
}

// AddPayment persists a new payment. Cash payments are only accepted on
// projects with cash payments enabled.
func (s *Store) AddPayment(ctx context.Context, projectID string, input PaymentInput) (*ledger.Payment, error) {
	action := AddPayment{}.Name()
	p, err := s.project(projectID)
	if err != nil {
		return nil, s.rejected(action, err)
	}
	if err := p.CheckPaymentType(input.Type); err != nil {
		return nil, s.rejected(action, err)
	}

	pay, err := ledger.NewPayment(input.Date, input.Amount, input.VATRate, input.Type, input.ValuationName, input.Description)
	if err != nil {
		return nil, s.rejected(action, err)
	}

	created, err := s.repo.CreatePayment(ctx, projectID, pay)
	if err := s.persisted(action, created != nil, err, zap.String("project_id", projectID)); err != nil {
		return nil, err
	}

	s.commit(ctx, AddPayment{ProjectID: projectID, Payment: *created})
	return created, nil
}

// UpdatePayment persists changes to a payment
func (s *Store) UpdatePayment(ctx context.Context, projectID, id string, input PaymentInput) (*ledger.Payment, error) {
	action := UpdatePayment{}.Name()
	p, err := s.project(projectID)
	if err != nil {
		return nil, s.rejected(action, err)
	}
	if _, ok := p.FindPayment(id); !ok {
		return nil, s.rejected(action, notFound("Payment", id))
	}
	if err := p.CheckPaymentType(input.Type); err != nil {
		return nil, s.rejected(action, err)
	}

	pay := ledger.Payment{
		ID:            id,
		Date:          input.Date,
		Amount:        input.Amount,
		VATRate:       input.VATRate,
		Type:          input.Type,
		ValuationName: input.ValuationName,
		Description:   input.Description,
	}.Normalized()
	if err := pay.Validate(); err != nil {
		return nil, s.rejected(action, err)
	}

	updated, err := s.repo.UpdatePayment(ctx, projectID, &pay)
	if err := s.persisted(action, updated != nil, err, zap.String("project_id", projectID), zap.String("payment_id", id)); err != nil {
		return nil, err
	}

	s.commit(ctx, UpdatePayment{ProjectID: projectID, Payment: *updated})
	return updated, nil
}

// DeletePayment removes a payment
func (s *Store) DeletePayment(ctx context.Context, projectID, id string) error {
	action := DeletePayment{}.Name()
	p, err := s.project(projectID)
	if err != nil {
		return s.rejected(action, err)
	}
	if _, ok := p.FindPayment(id); !ok {
		return s.rejected(action, notFound("Payment", id))
	}

	err = s.repo.DeletePayment(ctx, projectID, id)
	if err := s.persisted(action, true, err, zap.String("project_id", projectID), zap.String("payment_id", id)); err != nil {
		return err
	}

	s.commit(ctx, DeletePayment{ProjectID: projectID, ID: id})
	return nil
}

// AddSupplierCost persists a new supplier cost
func (s *Store) AddSupplierCost(ctx context.Context, projectID string, input SupplierCostInput) (*ledger.SupplierCost, error) {
	action := AddSupplierCost{}.Name()
	if _, err := s.project(projectID); err != nil {
		return nil, s.rejected(action, err)
	}

	c, err := ledger.NewSupplierCost(input.Date, input.Amount, input.Supplier, input.Description)
	if err != nil {
		return nil, s.rejected(action, err)
	}

	created, err := s.repo.CreateSupplierCost(ctx, projectID, c)
	if err := s.persisted(action, created != nil, err, zap.String("project_id", projectID)); err != nil {
		return nil, err
	}

	s.commit(ctx, AddSupplierCost{ProjectID: projectID, Cost: *created})
	return created, nil
}

// UpdateSupplierCost persists changes to a supplier cost
func (s *Store) UpdateSupplierCost(ctx context.Context, projectID, id string, input SupplierCostInput) (*ledger.SupplierCost, error) {
	action := UpdateSupplierCost{}.Name()
	p, err := s.project(projectID)
	if err != nil {
		return nil, s.rejected(action, err)
	}
	if _, ok := p.FindSupplierCost(id); !ok {
		return nil, s.rejected(action, notFound("Supplier cost", id))
	}

	c := ledger.SupplierCost{
		ID:          id,
		Date:        input.Date,
		Amount:      input.Amount,
		Supplier:    strings.TrimSpace(input.Supplier),
		Description: input.Description,
	}
	if err := c.Validate(); err != nil {
		return nil, s.rejected(action, err)
	}

	updated, err := s.repo.UpdateSupplierCost(ctx, projectID, &c)
	if err := s.persisted(action, updated != nil, err, zap.String("project_id", projectID), zap.String("supplier_cost_id", id)); err != nil {
		return nil, err
	}

	s.commit(ctx, UpdateSupplierCost{ProjectID: projectID, Cost: *updated})
	return updated, nil
}

// DeleteSupplierCost removes a supplier cost
func (s *Store) DeleteSupplierCost(ctx context.Context, projectID, id string) error {
	action := DeleteSupplierCost{}.Name()
	p, err := s.project(projectID)
	if err != nil {
		return s.rejected(action, err)
	}
	if _, ok := p.FindSupplierCost(id); !ok {
		return s.rejected(action, notFound("Supplier cost", id))
	}

	err = s.repo.DeleteSupplierCost(ctx, projectID, id)
	if err := s.persisted(action, true, err, zap.String("project_id", projectID), zap.String("supplier_cost_id", id)); err != nil {
		return err
	}

	s.commit(ctx, DeleteSupplierCost{ProjectID: projectID, ID: id})
	return nil
}

// AddOperationalCost persists a new operational cost
func (s *Store) AddOperationalCost(ctx context.Context, input OperationalCostInput) (*ledger.OperationalCost, error) {
	action := AddOperationalCost{}.Name()
	c, err := ledger.NewOperationalCost(input.Date, input.Amount, input.Category, input.CostType, input.Description, input.IsRecurring)
	if err != nil {
		return nil, s.rejected(action, err)
	}

	created, err := s.repo.CreateOperationalCost(ctx, c)
	if err := s.persisted(action, created != nil, err, zap.String("category", c.Category)); err != nil {
		return nil, err
	}

	s.commit(ctx, AddOperationalCost{Cost: *created})
	return created, nil
}

// UpdateOperationalCost persists changes to an operational cost
func (s *Store) UpdateOperationalCost(ctx context.Context, id string, input OperationalCostInput) (*ledger.OperationalCost, error) {
	action := UpdateOperationalCost{}.Name()
	if _, ok := s.State().FindOperationalCost(id); !ok {
		return nil, s.rejected(action, notFound("Operational cost", id))
	}

	c := ledger.OperationalCost{
		ID:          id,
		Date:        input.Date,
		Amount:      input.Amount,
		Category:    strings.TrimSpace(input.Category),
		CostType:    input.CostType,
		Description: input.Description,
		IsRecurring: input.IsRecurring,
	}
	if err := c.Validate(); err != nil {
		return nil, s.rejected(action, err)
	}

	updated, err := s.repo.UpdateOperationalCost(ctx, &c)
	if err := s.persisted(action, updated != nil, err, zap.String("operational_cost_id", id)); err != nil {
		return nil, err
	}

	s.commit(ctx, UpdateOperationalCost{Cost: *updated})
	return updated, nil
}

// DeleteOperationalCost removes an operational cost
func (s *Store) DeleteOperationalCost(ctx context.Context, id string) error {
	action := DeleteOperationalCost{}.Name()
	if _, ok := s.State().FindOperationalCost(id); !ok {
		return s.rejected(action, notFound("Operational cost", id))
	}

	err := s.repo.DeleteOperationalCost(ctx, id)
	if err := s.persisted(action, true, err, zap.String("operational_cost_id", id)); err != nil {
		return err
	}

	s.commit(ctx, DeleteOperationalCost{ID: id})
	return nil
}

func notFound(kind, id string) error {
	return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("%s %s not found", kind, id))
}
