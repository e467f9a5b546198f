package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/billable/timesheet-api/internal/core/domain"
)

// actorFromContext builds the request actor from the claims injected by the
// Auth middleware. Both the user id and the role must be present.
func actorFromContext(c echo.Context) (domain.Actor, error) {
	role, _ := c.Get("role").(string)
	userID, _ := c.Get("user_id").(string)
	if role == "" || userID == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return domain.Actor{UserID: userID, Role: role}, nil
}
