package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/billable/timesheet-api/internal/core/domain"
	"github.com/billable/timesheet-api/internal/core/ports"
)

// TimeLogHandler handles HTTP requests for time logs.
type TimeLogHandler struct {
	service ports.TimeLogService
}

func NewTimeLogHandler(service ports.TimeLogService) *TimeLogHandler {
	return &TimeLogHandler{service: service}
}

// List handles GET /api/timelogs.
//
// @Summary      List time logs
// @Description  Employees only see their own logs.
// @Tags         timelogs
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  query     string  false  "Project ID"
// @Param        user_id     query     string  false  "Author ID"
// @Param        status      query     string  false  "todo, in-progress or done"
// @Param        date        query     string  false  "Log date (YYYY-MM-DD)"
// @Param        page        query     int     false  "Page (default 1)"
// @Param        limit       query     int     false  "Page size (default 20, max 100)"
// @Success      200         {object}  listResponse
// @Failure      400         {object}  errorResponse
// @Failure      403         {object}  errorResponse
// @Router       /api/timelogs [get]
func (h *TimeLogHandler) List(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	q, err := bindPage(c)
	if err != nil {
		return err
	}

	filter := ports.TimeLogFilter{
		ProjectID: c.QueryParam("project_id"),
		UserID:    c.QueryParam("user_id"),
		Status:    domain.TimeLogStatus(c.QueryParam("status")),
	}
	if raw := c.QueryParam("date"); raw != "" {
		day, err := domain.ParseLogDate(raw)
		if err != nil {
			return err
		}
		filter.Date = &day
	}

	res, err := h.service.ListTimeLogs(c.Request().Context(), actor, ports.ListTimeLogsInput{
		Filter: filter,
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listResponse{
		Data:       toTimeLogResponses(res.Items),
		Count:      len(res.Items),
		Total:      int64(res.Total),
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	})
}

// Get handles GET /api/timelogs/:id.
//
// @Summary      Get a time log
// @Tags         timelogs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Time log ID"
// @Success      200  {object}  dataResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/timelogs/{id} [get]
func (h *TimeLogHandler) Get(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	l, err := h.service.GetTimeLog(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dataResponse{Data: toTimeLogResponse(l)})
}

// Create handles POST /api/timelogs.
//
// @Summary      Log hours
// @Tags         timelogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createTimeLogRequest  true   "Time log"
// @Success      201              {object}  dataResponse
// @Failure      400              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /api/timelogs [post]
func (h *TimeLogHandler) Create(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req createTimeLogRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	logDate, err := domain.ParseLogDate(req.LogDate)
	if err != nil {
		return err
	}

	l, err := h.service.CreateTimeLog(c.Request().Context(), actor, ports.CreateTimeLogInput{
		ProjectID:      req.ProjectID,
		Hours:          *req.Hours,
		Notes:          req.Notes,
		LogDate:        logDate,
		Status:         req.Status,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dataResponse{Data: toTimeLogResponse(l)})
}

// Update handles PUT /api/timelogs/:id.
//
// @Summary      Update a time log
// @Tags         timelogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Time log ID"
// @Param        body  body      updateTimeLogRequest  true  "Fields to change"
// @Success      200   {object}  dataResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/timelogs/{id} [put]
func (h *TimeLogHandler) Update(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req updateTimeLogRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	l, err := h.service.UpdateTimeLogFields(c.Request().Context(), actor, c.Param("id"), toTimeLogPatch(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dataResponse{Data: toTimeLogResponse(l)})
}

// UpdateStatus handles PUT /api/timelogs/:id/status, the board drag-and-drop path.
//
// @Summary      Move a time log to another status
// @Tags         timelogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                      true  "Time log ID"
// @Param        body  body      updateTimeLogStatusRequest  true  "New status"
// @Success      200   {object}  dataResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/timelogs/{id}/status [put]
func (h *TimeLogHandler) UpdateStatus(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req updateTimeLogStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	l, err := h.service.UpdateTimeLogStatus(c.Request().Context(), actor, c.Param("id"), req.Status)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dataResponse{Data: toTimeLogResponse(l)})
}

// Delete handles DELETE /api/timelogs/:id.
//
// @Summary      Delete a time log
// @Tags         timelogs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Time log ID"
// @Success      200  {object}  dataResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/timelogs/{id} [delete]
func (h *TimeLogHandler) Delete(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	l, err := h.service.DeleteTimeLog(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dataResponse{Data: toTimeLogResponse(l)})
}
