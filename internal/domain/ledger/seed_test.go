package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOperationalCosts(t *testing.T) {
	costs := DefaultOperationalCosts()

	// six monthly lines over 24 months plus quarterly marketing
	require.Len(t, costs, 24*6+8)
	assert.Equal(t, costs, DefaultOperationalCosts(), "output is deterministic")

	first := costs[0]
	assert.Equal(t, "Showroom Rent", first.Category)
	assert.Equal(t, CostTypeFixed, first.CostType)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Empty(t, first.ID)

	last := costs[len(costs)-1]
	assert.Equal(t, 2025, last.Date.Year())
	assert.Equal(t, time.December, last.Date.Month())

	categories := map[string]bool{}
	for _, c := range costs {
		categories[c.Category] = true
		assert.NoError(t, c.Validate())
	}
	assert.True(t, categories["Warehouse Rent"])
	assert.True(t, categories["Employee Salaries"])
}
