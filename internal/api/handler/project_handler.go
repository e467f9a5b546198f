package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/billable/timesheet-api/internal/core/ports"
)

// ProjectHandler handles HTTP requests for projects and their billing.
type ProjectHandler struct {
	projects ports.ProjectService
	billing  ports.BillingService
}

func NewProjectHandler(projects ports.ProjectService, billing ports.BillingService) *ProjectHandler {
	return &ProjectHandler{projects: projects, billing: billing}
}

type billingSummaryResponse struct {
	Data   any  `json:"data"`
	Cached bool `json:"cached"`
}

// List handles GET /api/projects.
//
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page (default 1)"
// @Param        limit  query     int  false  "Page size (default 10, max 100)"
// @Success      200    {object}  listResponse
// @Failure      401    {object}  errorResponse
// @Router       /api/projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	q, err := bindPage(c)
	if err != nil {
		return err
	}

	res, err := h.projects.ListProjects(c.Request().Context(), actor, ports.ListProjectsInput{Page: q.Page, Limit: q.Limit})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listResponse{
		Data:       res.Items,
		Count:      len(res.Items),
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	})
}

// Get handles GET /api/projects/:id.
//
// @Summary      Get a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  dataResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	p, err := h.projects.GetProject(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dataResponse{Data: p})
}

// Create handles POST /api/projects.
//
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProjectRequest  true  "Project details"
// @Success      201   {object}  dataResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req createProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.projects.CreateProject(c.Request().Context(), actor, toCreateProjectInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dataResponse{Data: p})
}

// Update handles PUT /api/projects/:id.
//
// @Summary      Update a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Project ID"
// @Param        body  body      updateProjectRequest  true  "Fields to change"
// @Success      200   {object}  dataResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req updateProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.projects.UpdateProject(c.Request().Context(), actor, c.Param("id"), toUpdateProjectInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dataResponse{Data: p})
}

// Archive handles DELETE /api/projects/:id. Projects are archived, never removed.
//
// @Summary      Archive a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  dataResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /api/projects/{id} [delete]
func (h *ProjectHandler) Archive(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	p, err := h.projects.ArchiveProject(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dataResponse{Data: p})
}

// BillingSummary handles GET /api/projects/:id/billing-summary.
//
// @Summary      Project billing summary
// @Description  Totals and per-user and per-day breakdowns, cached for 30 seconds.
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  billingSummaryResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/projects/{id}/billing-summary [get]
func (h *ProjectHandler) BillingSummary(c echo.Context) error {
	summary, cached, err := h.billing.GetBillingSummary(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, billingSummaryResponse{Data: summary, Cached: cached})
}
