package unitrole

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/aster/pkg/database"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

var unitRoleColumns = []string{
	"id", "tenant_id", "unit_id", "person_id", "role", "status",
	"is_primary", "source", "created_at", "updated_at",
}

// Repository handles unit role persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new unit role repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Exists reports whether any role record links the person to the unit,
// regardless of role label or status. Re-imports use this to stay idempotent.
func (r *Repository) Exists(ctx context.Context, tenantID, unitID, personID string) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "unitrole.Repository.Exists")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("COUNT(*)")
	sb.From("unit_roles")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.Equal("unit_id", unitID),
		sb.Equal("person_id", personID),
	)

	query, args := sb.Build()
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"tenant_id": tenantID, "unit_id": unitID, "person_id": personID}).Error("Failed to check unit role existence")
		return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to check unit role")
	}

	return count > 0, nil
}

// Create inserts a new unit role record
func (r *Repository) Create(ctx context.Context, tenantID string, req models.CreateUnitRoleRequest) (*models.UnitRole, error) {
	ctx, span := tracing.StartSpan(ctx, "unitrole.Repository.Create")
	defer span.End()

	role := req.Role
	if role == "" {
		role = models.RoleOwner
	}

	now := time.Now().UTC()
	unitRole := models.UnitRole{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		UnitID:    req.UnitID,
		PersonID:  req.PersonID,
		Role:      role,
		Status:    models.UnitRoleStatusCurrent,
		IsPrimary: req.IsPrimary,
		Source:    req.Source,
		CreatedAt: now,
		UpdatedAt: now,
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("unit_roles")
	sb.Cols(unitRoleColumns...)
	sb.Values(
		unitRole.ID, unitRole.TenantID, unitRole.UnitID, unitRole.PersonID,
		unitRole.Role, unitRole.Status, unitRole.IsPrimary, unitRole.Source,
		unitRole.CreatedAt, unitRole.UpdatedAt,
	)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"tenant_id": tenantID, "unit_id": req.UnitID, "person_id": req.PersonID}).Error("Failed to create unit role")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create unit role")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"id": unitRole.ID, "unit_id": req.UnitID, "person_id": req.PersonID}).Info("Created unit role")
	return &unitRole, nil
}

// ListByUnit retrieves all role records for a unit
func (r *Repository) ListByUnit(ctx context.Context, tenantID, unitID string) ([]models.UnitRole, error) {
	ctx, span := tracing.StartSpan(ctx, "unitrole.Repository.ListByUnit")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(unitRoleColumns...)
	sb.From("unit_roles")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.Equal("unit_id", unitID),
	)
	sb.OrderBy("created_at ASC")

	query, args := sb.Build()
	var roles []models.UnitRole
	if err := r.db.SelectContext(ctx, &roles, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"tenant_id": tenantID, "unit_id": unitID}).Error("Failed to list unit roles")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list unit roles")
	}

	return roles, nil
}
