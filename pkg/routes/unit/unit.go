package unit

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/aster/internal/repositories/unit"
	"github.com/Ramsey-B/aster/internal/repositories/unitrole"
	astercontext "github.com/Ramsey-B/aster/pkg/context"
)

// Register registers unit routes
func Register(g *echo.Group) {
	g.GET("/:id", GetUnit)
	g.GET("/:id/roles", ListUnitRoles)
}

// GetUnit retrieves a unit by ID
func GetUnit(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := astercontext.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "tenant id is required")
	}

	ctx, repo, err := ectoinject.GetContext[*unit.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	u, err := repo.Get(ctx, tenantID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, u)
}

// ListUnitRoles lists the role records linking persons to a unit
func ListUnitRoles(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := astercontext.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "tenant id is required")
	}

	ctx, repo, err := ectoinject.GetContext[*unitrole.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	roles, err := repo.ListByUnit(ctx, tenantID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, roles)
}
