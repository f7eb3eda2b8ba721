package importfile

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/aster/internal/repositories/importfile"
	astercontext "github.com/Ramsey-B/aster/pkg/context"
	"github.com/Ramsey-B/aster/pkg/models"
)

var validate = validator.New()

// Register registers import file routes
func Register(g *echo.Group) {
	g.POST("", CreateImportFile)
	g.GET("/:id", GetImportFile)
}

// CreateImportFile stores an uploaded homeowner directory export
func CreateImportFile(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := astercontext.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "tenant id is required")
	}

	var req models.CreateImportFileRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid request: %v", err)
	}

	ctx, repo, err := ectoinject.GetContext[*importfile.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	file, err := repo.Create(ctx, tenantID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, file)
}

// GetImportFile retrieves an import file by ID
func GetImportFile(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := astercontext.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "tenant id is required")
	}

	ctx, repo, err := ectoinject.GetContext[*importfile.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	file, err := repo.Get(ctx, tenantID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, file)
}
