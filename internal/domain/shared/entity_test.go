package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testEntity struct{ id string }

func (e testEntity) GetID() string { return e.id }

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		assert.NotEmpty(t, id)
		assert.False(t, seen[id], "id %s generated twice", id)
		seen[id] = true
	}
}

func TestSameEntity(t *testing.T) {
	assert.True(t, SameEntity(testEntity{"a"}, testEntity{"a"}))
	assert.False(t, SameEntity(testEntity{"a"}, testEntity{"b"}))
	assert.False(t, SameEntity(testEntity{""}, testEntity{""}))
}

func TestDomainError(t *testing.T) {
	err := NewDomainError("INVALID_PAYMENT_TYPE", "cash payments are disabled")
	assert.Equal(t, "cash payments are disabled", err.Error())
	assert.Equal(t, "INVALID_PAYMENT_TYPE", err.Code)
}
