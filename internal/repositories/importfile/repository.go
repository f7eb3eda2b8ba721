package importfile

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

var importFileColumns = []string{
	"id", "tenant_id", "filename", "content", "created_at",
}

// Repository handles import file persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new import file repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create stores an uploaded source file
func (r *Repository) Create(ctx context.Context, tenantID string, req models.CreateImportFileRequest) (*models.ImportFile, error) {
	ctx, span := tracing.StartSpan(ctx, "importfile.Repository.Create")
	defer span.End()

	file := models.ImportFile{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Filename:  req.Filename,
		Content:   req.Content,
		CreatedAt: time.Now().UTC(),
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("import_files")
	sb.Cols(importFileColumns...)
	sb.Values(file.ID, file.TenantID, file.Filename, file.Content, file.CreatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"tenant_id": tenantID, "filename": req.Filename}).Error("Failed to create import file")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create import file")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"id": file.ID, "filename": file.Filename}).Info("Stored import file")
	return &file, nil
}

// Get retrieves an import file by ID
func (r *Repository) Get(ctx context.Context, tenantID, id string) (*models.ImportFile, error) {
	ctx, span := tracing.StartSpan(ctx, "importfile.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(importFileColumns...)
	sb.From("import_files")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	var file models.ImportFile
	if err := r.db.GetContext(ctx, &file, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "import file %s not found", id)
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": id, "tenant_id": tenantID}).Error("Failed to get import file")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get import file")
	}

	return &file, nil
}
