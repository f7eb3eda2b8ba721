package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// PersonStatus is the lifecycle status of a person record
type PersonStatus string

const (
	PersonStatusActive   PersonStatus = "active"
	PersonStatusInactive PersonStatus = "inactive"
)

// Person represents a tenant-scoped individual in the identity registry.
// The import pipeline only ever creates persons; it never mutates or deletes
// existing ones.
type Person struct {
	ID         string         `json:"id" db:"id"`
	TenantID   string         `json:"tenant_id" db:"tenant_id"`
	FirstName  string         `json:"first_name" db:"first_name"`
	LastName   string         `json:"last_name" db:"last_name"`
	Emails     pq.StringArray `json:"emails" db:"emails"`
	Phones     pq.StringArray `json:"phones" db:"phones"`
	ExternalID *string        `json:"external_id,omitempty" db:"external_id"`
	Status     PersonStatus   `json:"status" db:"status"`
	Source     string         `json:"source" db:"source"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}

// DisplayName returns "First Last" with missing parts omitted.
func (p *Person) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// CreatePersonRequest is the request for creating a person from an import row
type CreatePersonRequest struct {
	FirstName  string   `json:"first_name"`
	LastName   string   `json:"last_name"`
	Emails     []string `json:"emails"`
	Phones     []string `json:"phones"`
	ExternalID *string  `json:"external_id,omitempty"`
	Source     string   `json:"source" validate:"required"`
}
