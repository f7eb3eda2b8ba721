package importrow

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

var snapshotColumns = []string{
	"id", "tenant_id", "job_id", "row_number", "raw_record", "unit_number",
	"first_name", "last_name", "email", "phone", "normalized_email",
	"phone_raw", "phone_canonical", "matched_person_id", "match_method",
	"match_value", "status_detail", "needs_review", "created_at",
}

// Repository handles import row snapshot persistence. Snapshots are append
// only; re-running a job appends a fresh set rather than rewriting history.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new import row snapshot repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create appends one row snapshot
func (r *Repository) Create(ctx context.Context, tenantID string, snapshot models.ImportRowSnapshot) (*models.ImportRowSnapshot, error) {
	ctx, span := tracing.StartSpan(ctx, "importrow.Repository.Create")
	defer span.End()

	snapshot.ID = uuid.New().String()
	snapshot.TenantID = tenantID
	snapshot.CreatedAt = time.Now().UTC()

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("import_row_snapshots")
	sb.Cols(snapshotColumns...)
	sb.Values(
		snapshot.ID, snapshot.TenantID, snapshot.JobID, snapshot.RowNumber,
		snapshot.RawRecord, snapshot.UnitNumber, snapshot.FirstName,
		snapshot.LastName, snapshot.Email, snapshot.Phone,
		snapshot.NormalizedEmail, snapshot.PhoneRaw, snapshot.PhoneCanonical,
		snapshot.MatchedPersonID, snapshot.MatchMethod, snapshot.MatchValue,
		snapshot.StatusDetail, snapshot.NeedsReview, snapshot.CreatedAt,
	)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"tenant_id": tenantID, "job_id": snapshot.JobID, "row_number": snapshot.RowNumber}).Error("Failed to create import row snapshot")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create import row snapshot")
	}

	return &snapshot, nil
}

// ListByJob retrieves snapshots for a job in row order
func (r *Repository) ListByJob(ctx context.Context, tenantID, jobID string, limit, offset int) ([]models.ImportRowSnapshot, error) {
	ctx, span := tracing.StartSpan(ctx, "importrow.Repository.ListByJob")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(snapshotColumns...)
	sb.From("import_row_snapshots")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.Equal("job_id", jobID),
	)
	sb.OrderBy("row_number ASC", "created_at ASC")
	sb.Limit(limit).Offset(offset)

	query, args := sb.Build()
	var snapshots []models.ImportRowSnapshot
	if err := r.db.SelectContext(ctx, &snapshots, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"tenant_id": tenantID, "job_id": jobID}).Error("Failed to list import row snapshots")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list import row snapshots")
	}

	return snapshots, nil
}
