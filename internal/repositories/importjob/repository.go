package importjob

import (
	"context"
	"encoding/json"
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

var importJobColumns = []string{
	"id", "tenant_id", "file_id", "status", "total_rows", "processed_rows",
	"matched_email", "matched_phone", "matched_external_id", "unmatched",
	"conflicts", "summary", "started_at", "completed_at", "created_at", "updated_at",
}

// Repository handles import job persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new import job repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create registers a new import job in pending status
func (r *Repository) Create(ctx context.Context, tenantID string, req models.CreateImportJobRequest) (*models.ImportJob, error) {
	ctx, span := tracing.StartSpan(ctx, "importjob.Repository.Create")
	defer span.End()

	now := time.Now().UTC()
	job := models.ImportJob{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		FileID:    req.FileID,
		Status:    models.ImportJobStatusPending,
		Summary:   "{}",
		CreatedAt: now,
		UpdatedAt: now,
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("import_jobs")
	sb.Cols(importJobColumns...)
	sb.Values(
		job.ID, job.TenantID, job.FileID, job.Status, job.TotalRows,
		job.ProcessedRows, job.MatchedEmail, job.MatchedPhone,
		job.MatchedExternalID, job.Unmatched, job.Conflicts, job.Summary,
		job.StartedAt, job.CompletedAt, job.CreatedAt, job.UpdatedAt,
	)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"tenant_id": tenantID, "file_id": req.FileID}).Error("Failed to create import job")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create import job")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"id": job.ID, "file_id": job.FileID}).Info("Created import job")
	return &job, nil
}

// Get retrieves an import job by ID
func (r *Repository) Get(ctx context.Context, tenantID, id string) (*models.ImportJob, error) {
	ctx, span := tracing.StartSpan(ctx, "importjob.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(importJobColumns...)
	sb.From("import_jobs")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	var job models.ImportJob
	if err := r.db.GetContext(ctx, &job, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "import job %s not found", id)
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": id, "tenant_id": tenantID}).Error("Failed to get import job")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get import job")
	}

	return &job, nil
}

// MarkRunning transitions a job to running and stamps the start time.
// The job stays running if the run later dies; there is no failed status,
// a stuck running job is the signal to investigate.
func (r *Repository) MarkRunning(ctx context.Context, tenantID, id string) error {
	ctx, span := tracing.StartSpan(ctx, "importjob.Repository.MarkRunning")
	defer span.End()

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("import_jobs")
	sb.Set(
		sb.Assign("status", models.ImportJobStatusRunning),
		sb.Assign("started_at", now),
		sb.Assign("updated_at", now),
	)
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": id, "tenant_id": tenantID}).Error("Failed to mark import job running")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update import job")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "import job %s not found", id)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"id": id}).Info("Import job running")
	return nil
}

// ClearRunArtifacts deletes the row snapshots and review issues left by a
// previous run of the job. A redelivered import request re-runs the whole
// file, so stale artifacts must go before the new run writes its own.
func (r *Repository) ClearRunArtifacts(ctx context.Context, tenantID, jobID string) error {
	ctx, span := tracing.StartSpan(ctx, "importjob.Repository.ClearRunArtifacts")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"import_row_snapshots", "review_issues"} {
		sb := sqlbuilder.PostgreSQL.NewDeleteBuilder()
		sb.DeleteFrom(table)
		sb.Where(
			sb.Equal("tenant_id", tenantID),
			sb.Equal("job_id", jobID),
		)

		query, args := sb.Build()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"job_id": jobID, "tenant_id": tenantID, "table": table}).Error("Failed to clear run artifacts")
			return httperror.NewHTTPError(http.StatusInternalServerError, "failed to clear run artifacts")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"job_id": jobID}).Error("Failed to commit artifact cleanup")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to clear run artifacts")
	}

	return nil
}

// Complete finalizes a job with its counters and summary
func (r *Repository) Complete(ctx context.Context, tenantID, id string, summary models.ImportSummary) error {
	ctx, span := tracing.StartSpan(ctx, "importjob.Repository.Complete")
	defer span.End()

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to encode job summary: %v", err)
	}

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("import_jobs")
	sb.Set(
		sb.Assign("status", models.ImportJobStatusCompleted),
		sb.Assign("total_rows", summary.TotalRows),
		sb.Assign("processed_rows", summary.ProcessedRows),
		sb.Assign("matched_email", summary.MatchedEmail),
		sb.Assign("matched_phone", summary.MatchedPhone),
		sb.Assign("matched_external_id", summary.MatchedExternalID),
		sb.Assign("unmatched", summary.Unmatched),
		sb.Assign("conflicts", summary.Conflicts),
		sb.Assign("summary", string(summaryJSON)),
		sb.Assign("completed_at", now),
		sb.Assign("updated_at", now),
	)
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": id, "tenant_id": tenantID}).Error("Failed to complete import job")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update import job")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "import job %s not found", id)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"id": id, "processed_rows": summary.ProcessedRows}).Info("Import job completed")
	return nil
}
