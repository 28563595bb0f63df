// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Models declare no associations. Children reference their owner through a
// plain id column and repositories load them explicitly, so item rows can be
// written before the detail that owns them exists.
//
// Structure:
// - base.go: BaseModel and helpers
// - purchase.go: purchases
// - ledger.go: payment methods and the three ledger payment tables
// - sale.go: sales, company sales, local sales and their details/items
// - logistics.go: logistics sheets with items and payments
package models
