package dashboard

import (
	"testing"
	"time"

	"github.com/oakline/ledger/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededState() ledger.DashboardState {
	return ledger.DashboardState{
		Projects: []ledger.Project{
			{
				ID:             "p1",
				Code:           "OAK-001",
				ClientName:     "Harper",
				Status:         ledger.ProjectStatusActive,
				HasCashPayment: true,
				Valuations:     []ledger.Valuation{{ID: "v1", Name: "V1", GrandTotal: decimal.NewFromInt(10000)}},
				Payments:       []ledger.Payment{{ID: "pay1", Amount: decimal.NewFromInt(2000), Type: ledger.PaymentTypeAccount}},
				SupplierCosts:  []ledger.SupplierCost{{ID: "s1", Amount: decimal.NewFromInt(800), Supplier: "Timberline"}},
			},
			{
				ID:            "p2",
				Code:          "OAK-002",
				ClientName:    "Okafor",
				Status:        ledger.ProjectStatusOnHold,
				Valuations:    []ledger.Valuation{},
				Payments:      []ledger.Payment{},
				SupplierCosts: []ledger.SupplierCost{},
			},
		},
		OperationalCosts: []ledger.OperationalCost{
			{ID: "o1", Amount: decimal.NewFromInt(4500), Category: "Showroom Rent", CostType: ledger.CostTypeFixed},
		},
	}
}

func TestReduce_AddPaymentIsCopyOnWrite(t *testing.T) {
	before := seededState()
	pay := ledger.Payment{ID: "pay2", Amount: decimal.NewFromInt(500), Type: ledger.PaymentTypeCash, Date: time.Now()}

	after := Reduce(before, AddPayment{ProjectID: "p1", Payment: pay})

	require.Len(t, after.Projects[0].Payments, 2)
	assert.Equal(t, "pay2", after.Projects[0].Payments[1].ID)
	assert.Len(t, before.Projects[0].Payments, 1, "previous state is untouched")

	// untouched branches are shared
	assert.Same(t, &before.Projects[0].Valuations[0], &after.Projects[0].Valuations[0])
	assert.Same(t, &before.OperationalCosts[0], &after.OperationalCosts[0])
}

func TestReduce_DeleteProjectCascades(t *testing.T) {
	before := seededState()

	after := Reduce(before, DeleteProject{ID: "p1"})

	require.Len(t, after.Projects, 1)
	assert.Equal(t, "p2", after.Projects[0].ID)
	assert.Len(t, before.Projects, 2)

	counts := after.Counts()
	assert.Zero(t, counts.Valuations)
	assert.Zero(t, counts.Payments)
	assert.Zero(t, counts.SupplierCosts)
}

func TestReduce_UpdateProjectKeepsCollections(t *testing.T) {
	before := seededState()
	updated := before.Projects[0]
	updated.ClientName = "Harper & Sons"
	updated.Valuations = nil
	updated.Payments = nil
	updated.SupplierCosts = nil

	after := Reduce(before, UpdateProject{Project: updated})

	assert.Equal(t, "Harper & Sons", after.Projects[0].ClientName)
	assert.Len(t, after.Projects[0].Valuations, 1)
	assert.Len(t, after.Projects[0].Payments, 1)
	assert.Len(t, after.Projects[0].SupplierCosts, 1)
	assert.Equal(t, "Harper", before.Projects[0].ClientName)
}

func TestReduce_UnknownIDsAreNoOps(t *testing.T) {
	before := seededState()

	tests := []struct {
		name   string
		action Action
	}{
		{"update missing project", UpdateProject{Project: ledger.Project{ID: "nope"}}},
		{"delete missing project", DeleteProject{ID: "nope"}},
		{"add valuation to missing project", AddValuation{ProjectID: "nope", Valuation: ledger.Valuation{ID: "v9"}}},
		{"update missing payment", UpdatePayment{ProjectID: "p1", Payment: ledger.Payment{ID: "nope"}}},
		{"delete missing supplier cost", DeleteSupplierCost{ProjectID: "p1", ID: "nope"}},
		{"delete missing operational cost", DeleteOperationalCost{ID: "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			after := Reduce(before, tt.action)
			assert.Equal(t, before, after)
		})
	}
}

func TestReduce_NestedMutations(t *testing.T) {
	s := seededState()

	s = Reduce(s, UpdateValuation{ProjectID: "p1", Valuation: ledger.Valuation{ID: "v1", Name: "V1", GrandTotal: decimal.NewFromInt(12000)}})
	assert.True(t, decimal.NewFromInt(12000).Equal(s.Projects[0].Valuations[0].GrandTotal))

	s = Reduce(s, AddValuation{ProjectID: "p1", Valuation: ledger.Valuation{ID: "v2", Name: "V2"}})
	s = Reduce(s, DeleteValuation{ProjectID: "p1", ID: "v1"})
	require.Len(t, s.Projects[0].Valuations, 1)
	assert.Equal(t, "V2", s.Projects[0].Valuations[0].Name)

	s = Reduce(s, AddSupplierCost{ProjectID: "p2", Cost: ledger.SupplierCost{ID: "s2", Supplier: "Brass & Co"}})
	s = Reduce(s, UpdateSupplierCost{ProjectID: "p2", Cost: ledger.SupplierCost{ID: "s2", Supplier: "Brass and Co"}})
	assert.Equal(t, "Brass and Co", s.Projects[1].SupplierCosts[0].Supplier)

	s = Reduce(s, DeletePayment{ProjectID: "p1", ID: "pay1"})
	assert.Empty(t, s.Projects[0].Payments)

	s = Reduce(s, AddOperationalCost{Cost: ledger.OperationalCost{ID: "o2", Category: "Utilities"}})
	s = Reduce(s, UpdateOperationalCost{Cost: ledger.OperationalCost{ID: "o2", Category: "Energy"}})
	require.Len(t, s.OperationalCosts, 2)
	assert.Equal(t, "Energy", s.OperationalCosts[1].Category)
}

func TestReduce_AddProjectNormalizesCollections(t *testing.T) {
	s := Reduce(ledger.EmptyState(), AddProject{Project: ledger.Project{ID: "p3", Code: "OAK-003"}})

	require.Len(t, s.Projects, 1)
	assert.NotNil(t, s.Projects[0].Valuations)
	assert.NotNil(t, s.Projects[0].Payments)
	assert.NotNil(t, s.Projects[0].SupplierCosts)
}

func TestReduce_SetStateReplaces(t *testing.T) {
	s := Reduce(seededState(), SetState{State: ledger.DashboardState{}})

	assert.Empty(t, s.Projects)
	assert.NotNil(t, s.Projects)
	assert.NotNil(t, s.OperationalCosts)
}

func TestParseSnapshot(t *testing.T) {
	t.Run("accepts empty collections", func(t *testing.T) {
		s, err := ParseSnapshot([]byte(`{"projects":[],"operationalCosts":[]}`))
		require.NoError(t, err)
		assert.Empty(t, s.Projects)
	})

	t.Run("decodes nested records", func(t *testing.T) {
		doc := `{"projects":[{"id":"p1","code":"OAK-1","clientName":"Lee","status":"active",
			"valuations":[{"id":"v1","name":"V1","date":"2025-02-01T00:00:00Z","grandTotal":"1000","omissions":"0","vatRate":"0.2"}]}],
			"operationalCosts":[{"id":"o1","date":"2025-01-01T00:00:00Z","amount":4500,"category":"Showroom Rent","costType":"fixed"}]}`

		s, err := ParseSnapshot([]byte(doc))
		require.NoError(t, err)
		require.Len(t, s.Projects, 1)
		assert.Equal(t, "V1", s.Projects[0].Valuations[0].Name)
		assert.NotNil(t, s.Projects[0].Payments)
		assert.True(t, decimal.NewFromInt(4500).Equal(s.OperationalCosts[0].Amount))
	})

	for _, doc := range []string{
		`{"operationalCosts":[]}`,
		`{"projects":[]}`,
		`{"projects":null,"operationalCosts":[]}`,
		`not json`,
	} {
		t.Run("rejects "+doc, func(t *testing.T) {
			_, err := ParseSnapshot([]byte(doc))
			assert.Error(t, err)
		})
	}
}
