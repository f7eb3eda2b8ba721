package graph

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

// Projector mirrors unit ownership into the graph database. The projection is
// best effort: the relational store is the source of truth and import runs do
// not fail when the graph is unavailable.
type Projector struct {
	client *Client
	logger ectologger.Logger
}

// NewProjector creates a new ownership projector
func NewProjector(client *Client, logger ectologger.Logger) *Projector {
	return &Projector{
		client: client,
		logger: logger,
	}
}

// ProjectOwnership merges the person, the unit, and an OWNS edge between them
func (p *Projector) ProjectOwnership(ctx context.Context, person *models.Person, unit *models.Unit, role *models.UnitRole) error {
	ctx, span := tracing.StartSpan(ctx, "graph.Projector.ProjectOwnership")
	defer span.End()

	cypher := `
		MERGE (p:Person {id: $person_id, tenant_id: $tenant_id})
		SET p.name = $person_name
		MERGE (u:Unit {id: $unit_id, tenant_id: $tenant_id})
		SET u.unit_number = $unit_number
		MERGE (p)-[r:OWNS {role_id: $role_id}]->(u)
		SET r.role = $role, r.source = $source
	`

	params := map[string]any{
		"tenant_id":   person.TenantID,
		"person_id":   person.ID,
		"person_name": person.DisplayName(),
		"unit_id":     unit.ID,
		"unit_number": unit.UnitNumber,
		"role_id":     role.ID,
		"role":        role.Role,
		"source":      role.Source,
	}

	_, err := p.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, cypher, params)
	})
	if err != nil {
		p.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"person_id": person.ID,
			"unit_id":   unit.ID,
		}).Warn("Failed to project ownership to graph")
		return err
	}

	return nil
}
