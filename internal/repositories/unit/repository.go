package unit

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/aster/pkg/database"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

var unitColumns = []string{
	"id", "tenant_id", "unit_number", "address", "created_at", "updated_at",
}

// Repository handles unit reads. Units are provisioned outside the import
// pipeline; nothing here writes to them.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new unit repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// ListPage retrieves one page of the tenant's unit directory in stable order.
// Import runs walk every page once to build the case-insensitive unit lookup.
func (r *Repository) ListPage(ctx context.Context, tenantID string, limit, offset int) ([]models.Unit, error) {
	ctx, span := tracing.StartSpan(ctx, "unit.Repository.ListPage")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(unitColumns...)
	sb.From("units")
	sb.Where(sb.Equal("tenant_id", tenantID))
	sb.OrderBy("created_at ASC", "id ASC")
	sb.Limit(limit).Offset(offset)

	query, args := sb.Build()
	var units []models.Unit
	if err := r.db.SelectContext(ctx, &units, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"tenant_id": tenantID, "limit": limit, "offset": offset}).Error("Failed to list units")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list units")
	}

	return units, nil
}

// Get retrieves a unit by ID
func (r *Repository) Get(ctx context.Context, tenantID, id string) (*models.Unit, error) {
	ctx, span := tracing.StartSpan(ctx, "unit.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(unitColumns...)
	sb.From("units")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	var unit models.Unit
	if err := r.db.GetContext(ctx, &unit, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "unit %s not found", id)
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": id, "tenant_id": tenantID}).Error("Failed to get unit")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get unit")
	}

	return &unit, nil
}
