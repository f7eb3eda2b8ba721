package reviewissue

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

var reviewIssueColumns = []string{
	"id", "tenant_id", "job_id", "issue_type", "unit_number", "raw_record",
	"reason", "created_at",
}

// Repository handles review issue persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new review issue repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create appends a review issue
func (r *Repository) Create(ctx context.Context, tenantID string, issue models.ReviewIssue) (*models.ReviewIssue, error) {
	ctx, span := tracing.StartSpan(ctx, "reviewissue.Repository.Create")
	defer span.End()

	issue.ID = uuid.New().String()
	issue.TenantID = tenantID
	issue.CreatedAt = time.Now().UTC()

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("review_issues")
	sb.Cols(reviewIssueColumns...)
	sb.Values(
		issue.ID, issue.TenantID, issue.JobID, issue.IssueType,
		issue.UnitNumber, issue.RawRecord, issue.Reason, issue.CreatedAt,
	)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"tenant_id": tenantID, "job_id": issue.JobID, "issue_type": issue.IssueType}).Error("Failed to create review issue")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create review issue")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"id": issue.ID, "job_id": issue.JobID, "issue_type": issue.IssueType}).Info("Created review issue")
	return &issue, nil
}

// ListByJob retrieves review issues for a job
func (r *Repository) ListByJob(ctx context.Context, tenantID, jobID string, limit, offset int) ([]models.ReviewIssue, error) {
	ctx, span := tracing.StartSpan(ctx, "reviewissue.Repository.ListByJob")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(reviewIssueColumns...)
	sb.From("review_issues")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.Equal("job_id", jobID),
	)
	sb.OrderBy("created_at ASC")
	sb.Limit(limit).Offset(offset)

	query, args := sb.Build()
	var issues []models.ReviewIssue
	if err := r.db.SelectContext(ctx, &issues, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"tenant_id": tenantID, "job_id": jobID}).Error("Failed to list review issues")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list review issues")
	}

	return issues, nil
}
