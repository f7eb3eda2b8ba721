package person

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"
	"github.com/lib/pq"

	"github.com/Ramsey-B/aster/pkg/database"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

var personColumns = []string{
	"id", "tenant_id", "first_name", "last_name", "emails", "phones",
	"external_id", "status", "source", "created_at", "updated_at",
}

// Repository handles person persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new person repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new person record
func (r *Repository) Create(ctx context.Context, tenantID string, req models.CreatePersonRequest) (*models.Person, error) {
	ctx, span := tracing.StartSpan(ctx, "person.Repository.Create")
	defer span.End()

	now := time.Now().UTC()
	person := models.Person{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Emails:     pq.StringArray(req.Emails),
		Phones:     pq.StringArray(req.Phones),
		ExternalID: req.ExternalID,
		Status:     models.PersonStatusActive,
		Source:     req.Source,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("persons")
	sb.Cols(personColumns...)
	sb.Values(
		person.ID, person.TenantID, person.FirstName, person.LastName,
		person.Emails, person.Phones, person.ExternalID, person.Status,
		person.Source, person.CreatedAt, person.UpdatedAt,
	)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"tenant_id": tenantID, "external_id": req.ExternalID}).Error("Failed to create person")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create person")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"id": person.ID, "tenant_id": tenantID}).Info("Created person")
	return &person, nil
}

// Get retrieves a person by ID
func (r *Repository) Get(ctx context.Context, tenantID, id string) (*models.Person, error) {
	ctx, span := tracing.StartSpan(ctx, "person.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(personColumns...)
	sb.From("persons")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	var person models.Person
	if err := r.db.GetContext(ctx, &person, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "person %s not found", id)
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": id, "tenant_id": tenantID}).Error("Failed to get person")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get person")
	}

	return &person, nil
}

// ListPage retrieves one page of the tenant's active persons in stable
// order. Index builds walk every page before a run starts; inactive persons
// are excluded so they can never be matched.
func (r *Repository) ListPage(ctx context.Context, tenantID string, limit, offset int) ([]models.Person, error) {
	ctx, span := tracing.StartSpan(ctx, "person.Repository.ListPage")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(personColumns...)
	sb.From("persons")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.Equal("status", models.PersonStatusActive),
	)
	sb.OrderBy("created_at ASC", "id ASC")
	sb.Limit(limit).Offset(offset)

	query, args := sb.Build()
	var persons []models.Person
	if err := r.db.SelectContext(ctx, &persons, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"tenant_id": tenantID, "limit": limit, "offset": offset}).Error("Failed to list persons")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list persons")
	}

	return persons, nil
}
