// Package models contains GORM persistence models for the ledger tables.
// Domain entities carry no ORM tags; every model converts to and from its
// domain counterpart with ToDomain and a FromDomain constructor.
//
// Tables:
//   - projects, with valuations, payments and supplier_costs keyed by project_id
//   - operational_costs
//   - webhook_settings, a single row holding the export endpoint
package models
