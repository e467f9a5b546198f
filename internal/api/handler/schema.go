package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// dataResponse wraps a single resource.
type dataResponse struct {
	Data any `json:"data"`
}

// listResponse wraps one page of resources.
type listResponse struct {
	Data       any   `json:"data"`
	Count      int   `json:"count"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type pageQuery struct {
	Page  int
	Limit int
}

// bindPage reads the optional page and limit query parameters.
func bindPage(c echo.Context) (pageQuery, error) {
	var q pageQuery
	err := echo.QueryParamsBinder(c).
		Int("page", &q.Page).
		Int("limit", &q.Limit).
		BindError()
	if err != nil {
		return q, echo.NewHTTPError(http.StatusBadRequest, "page and limit must be integers")
	}
	return q, nil
}

// bindAndValidate decodes the request body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
