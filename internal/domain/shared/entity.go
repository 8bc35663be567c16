package shared

import (
	"github.com/google/uuid"
)

// Entity is the base interface for all ledger entities.
// Entities are compared by ID only.
type Entity interface {
	GetID() string
}

// NewID generates a new opaque entity identifier.
// Identifiers are never reused or mutated once assigned.
func NewID() string {
	return uuid.NewString()
}

// SameEntity reports whether two entities carry the same identity.
func SameEntity(a, b Entity) bool {
	return a.GetID() != "" && a.GetID() == b.GetID()
}
