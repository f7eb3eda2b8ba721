package importjob

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/aster/internal/repositories/importjob"
	"github.com/Ramsey-B/aster/internal/repositories/importrow"
	"github.com/Ramsey-B/aster/internal/repositories/reviewissue"
	astercontext "github.com/Ramsey-B/aster/pkg/context"
	"github.com/Ramsey-B/aster/pkg/importer"
	astermiddleware "github.com/Ramsey-B/aster/pkg/middleware"
	"github.com/Ramsey-B/aster/pkg/models"
)

var validate = validator.New()

// Register registers import job routes
func Register(g *echo.Group) {
	g.POST("", CreateImportJob)
	g.GET("/:id", GetImportJob)
	g.GET("/:id/rows", ListImportJobRows)
	g.GET("/:id/review-issues", ListImportJobReviewIssues)
	g.POST("/:id/run", RunImportJob, astermiddleware.RequireAdmin())
}

// CreateImportJob registers a new import job for an uploaded file
func CreateImportJob(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := astercontext.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "tenant id is required")
	}

	var req models.CreateImportJobRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid request: %v", err)
	}

	ctx, repo, err := ectoinject.GetContext[*importjob.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	job, err := repo.Create(ctx, tenantID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, job)
}

// GetImportJob retrieves an import job by ID
func GetImportJob(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := astercontext.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "tenant id is required")
	}

	ctx, repo, err := ectoinject.GetContext[*importjob.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	job, err := repo.Get(ctx, tenantID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, job)
}

// ListImportJobRows lists the audit snapshots written for a job
func ListImportJobRows(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := astercontext.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "tenant id is required")
	}

	limit, offset := pagination(c, 50)

	ctx, repo, err := ectoinject.GetContext[*importrow.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	rows, err := repo.ListByJob(ctx, tenantID, c.Param("id"), limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, rows)
}

// ListImportJobReviewIssues lists the review issues escalated by a job
func ListImportJobReviewIssues(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := astercontext.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "tenant id is required")
	}

	limit, offset := pagination(c, 50)

	ctx, repo, err := ectoinject.GetContext[*reviewissue.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	issues, err := repo.ListByJob(ctx, tenantID, c.Param("id"), limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, issues)
}

// RunImportJob executes a registered import job to completion and returns
// its summary. Requires administrative privilege.
func RunImportJob(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := astercontext.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "tenant id is required")
	}

	jobID := c.Param("id")
	if jobID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "job id is required")
	}

	ctx, orchestrator, err := ectoinject.GetContext[*importer.Orchestrator](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	summary, err := orchestrator.Run(ctx, tenantID, jobID)
	if err != nil {
		if httperror.IsHTTPError(err) {
			return err
		}
		ctx, logger, _ := ectoinject.GetContext[ectologger.Logger](ctx)
		if logger != nil {
			logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"job_id": jobID}).Error("Import run failed")
		}
		return httperror.NewHTTPError(http.StatusInternalServerError, "import run failed")
	}

	return c.JSON(http.StatusOK, summary)
}

func pagination(c echo.Context, defaultLimit int) (int, int) {
	limit := defaultLimit
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
