package models

import "time"

// Unit represents a tenant-scoped property unit keyed by a human-readable
// unit number. Units are read-only to the import pipeline.
type Unit struct {
	ID         string    `json:"id" db:"id"`
	TenantID   string    `json:"tenant_id" db:"tenant_id"`
	UnitNumber string    `json:"unit_number" db:"unit_number"`
	Address    string    `json:"address" db:"address"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// UnitRoleStatus is the lifecycle status of a unit role
type UnitRoleStatus string

const (
	UnitRoleStatusCurrent UnitRoleStatus = "current"
	UnitRoleStatusFormer  UnitRoleStatus = "former"
)

// RoleOwner is the default role label for homeowner directory imports
const RoleOwner = "owner"

// UnitRole links exactly one person to one unit with a role label.
// At most one role record exists per (unit, person) pair; the import pipeline
// skips creation when the pair already has one.
type UnitRole struct {
	ID        string         `json:"id" db:"id"`
	TenantID  string         `json:"tenant_id" db:"tenant_id"`
	UnitID    string         `json:"unit_id" db:"unit_id"`
	PersonID  string         `json:"person_id" db:"person_id"`
	Role      string         `json:"role" db:"role"`
	Status    UnitRoleStatus `json:"status" db:"status"`
	IsPrimary bool           `json:"is_primary" db:"is_primary"`
	Source    string         `json:"source" db:"source"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// CreateUnitRoleRequest is the request for linking a person to a unit
type CreateUnitRoleRequest struct {
	UnitID    string `json:"unit_id" validate:"required"`
	PersonID  string `json:"person_id" validate:"required"`
	Role      string `json:"role"`
	IsPrimary bool   `json:"is_primary"`
	Source    string `json:"source" validate:"required"`
}
