package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	_ "github.com/billable/timesheet-api/docs"
	"github.com/billable/timesheet-api/internal/core/service"
	"github.com/billable/timesheet-api/internal/infrastructure/db/memory"
	"github.com/billable/timesheet-api/internal/infrastructure/db/seed"
)

const testSecret = "router-test-secret"

type summaryBody struct {
	Data struct {
		TotalHours  decimal.Decimal `json:"total_hours"`
		TotalAmount decimal.Decimal `json:"total_amount"`
	} `json:"data"`
	Cached bool `json:"cached"`
}

func newSeededRouter(t *testing.T) *echo.Echo {
	t.Helper()

	store := memory.NewStore()
	_, err := seed.Load(context.Background(), store, store, store)
	require.NoError(t, err)

	cache := service.NewSummaryCache(service.NewBillingAggregator(store, store, store), zerolog.Nop())
	return NewRouter(RouterDeps{
		Auth:      service.NewAuthService(store, testSecret, 0),
		Projects:  service.NewProjectService(store, cache, zerolog.Nop()),
		Billing:   service.NewBillingService(cache, zerolog.Nop()),
		TimeLogs:  service.NewTimeLogService(store, store, cache, nil, zerolog.Nop()),
		JWTSecret: testSecret,
		Metrics:   prometheus.NewRegistry(),
		Log:       zerolog.Nop(),
	})
}

func doJSON(t *testing.T, e *echo.Echo, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo, email, password string) string {
	t.Helper()

	rec := doJSON(t, e, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func billingSummary(t *testing.T, e *echo.Echo, token, projectID string) summaryBody {
	t.Helper()

	rec := doJSON(t, e, http.MethodGet, "/api/projects/"+projectID+"/billing-summary", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body summaryBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	msg, ok := body["error"].(string)
	require.True(t, ok, "expected an error envelope, got %s", rec.Body.String())
	return msg
}

func TestRouter_AuthAndRoles(t *testing.T) {
	e := newSeededRouter(t)
	employee := login(t, e, "employee@example.com", "password123")

	rec := doJSON(t, e, http.MethodGet, "/api/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "employee@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", errorMessage(t, rec))

	rec = doJSON(t, e, http.MethodGet, "/api/projects/1/billing-summary", employee, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/projects", employee, map[string]any{"name": "Side Project", "billing_rate": 10})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, e, http.MethodGet, "/api/timelogs?user_id=3", employee, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, e, http.MethodGet, "/api/timelogs", employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Data []struct {
			UserID string `json:"user_id"`
		} `json:"data"`
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.EqualValues(t, 4, page.Total)
	for _, l := range page.Data {
		assert.Equal(t, "2", l.UserID)
	}
}

func TestRouter_BillingSummaryCachingAndInvalidation(t *testing.T) {
	e := newSeededRouter(t)
	admin := login(t, e, "admin@example.com", "password123")
	employee := login(t, e, "employee@example.com", "password123")

	first := billingSummary(t, e, admin, "1")
	assert.False(t, first.Cached)
	assert.True(t, first.Data.TotalHours.Equal(decimal.RequireFromString("25.5")), first.Data.TotalHours.String())
	assert.True(t, first.Data.TotalAmount.Equal(decimal.NewFromInt(1275)), first.Data.TotalAmount.String())

	second := billingSummary(t, e, admin, "1")
	assert.True(t, second.Cached)

	// the employee already has 8h on 2024-01-15
	rec := doJSON(t, e, http.MethodPost, "/api/timelogs", employee, map[string]any{
		"project_id": "1", "hours": 4.5, "log_date": "2024-01-15",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/timelogs", employee, map[string]any{
		"project_id": "1", "hours": 4, "log_date": "2024-01-15", "notes": "Code review",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	third := billingSummary(t, e, admin, "1")
	assert.False(t, third.Cached)
	assert.True(t, third.Data.TotalHours.Equal(decimal.RequireFromString("29.5")), third.Data.TotalHours.String())
	assert.True(t, third.Data.TotalAmount.Equal(decimal.NewFromInt(1475)), third.Data.TotalAmount.String())
}

func TestRouter_ErrorMapping(t *testing.T) {
	e := newSeededRouter(t)
	admin := login(t, e, "admin@example.com", "password123")
	employee := login(t, e, "employee@example.com", "password123")

	rec := doJSON(t, e, http.MethodPost, "/api/timelogs", employee, map[string]any{
		"project_id": "2", "hours": 0.25, "log_date": "2024-02-01",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/timelogs", employee, map[string]any{"project_id": "2"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/timelogs", employee, map[string]any{
		"project_id": "missing", "hours": 1, "log_date": "2024-02-01",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "project not found", errorMessage(t, rec))

	rec = doJSON(t, e, http.MethodDelete, "/api/projects/4", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, e, http.MethodPost, "/api/timelogs", employee, map[string]any{
		"project_id": "4", "hours": 1, "log_date": "2024-02-01",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, e, http.MethodPut, "/api/projects/4", admin, map[string]any{"status": "active"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, e, http.MethodPut, "/api/timelogs/1/status", employee, map[string]any{"status": "blocked"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, e, http.MethodDelete, "/api/timelogs/3", employee, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	e := newSeededRouter(t)

	rec := doJSON(t, e, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "timesheet_http_requests_total")
}

func TestRouter_AdminAccountsRequireAdministrator(t *testing.T) {
	e := newSeededRouter(t)
	admin := login(t, e, "admin@example.com", "password123")
	employee := login(t, e, "employee@example.com", "password123")

	newAdmin := map[string]any{"name": "Eve", "email": "eve@example.com", "password": "secret1", "role": "admin"}

	rec := doJSON(t, e, http.MethodPost, "/api/auth/register", "", newAdmin)
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	rec = doJSON(t, e, http.MethodPost, "/api/auth/users", employee, newAdmin)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/auth/users", admin, newAdmin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), `"token"`)

	eve := login(t, e, "eve@example.com", "secret1")
	rec = doJSON(t, e, http.MethodGet, "/api/projects/1/billing-summary", eve, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Finn", "email": "finn@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestRouter_UpdateDetails(t *testing.T) {
	e := newSeededRouter(t)
	employee := login(t, e, "employee@example.com", "password123")

	rec := doJSON(t, e, http.MethodPut, "/api/auth/updatedetails", "", map[string]any{"name": "Nobody"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, e, http.MethodPut, "/api/auth/updatedetails", employee, map[string]any{"email": "ibad@gmail.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, e, http.MethodPut, "/api/auth/updatedetails", employee, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, e, http.MethodPut, "/api/auth/updatedetails", employee, map[string]any{
		"name": "Employee Renamed", "email": "renamed@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, e, http.MethodGet, "/api/auth/me", employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Employee Renamed"`)
	assert.Contains(t, rec.Body.String(), `"email":"renamed@example.com"`)

	login(t, e, "renamed@example.com", "password123")
	rec = doJSON(t, e, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "employee@example.com", "password": "password123"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

var pathParam = regexp.MustCompile(`:(\w+)`)

func TestRouter_RoutesAreDocumented(t *testing.T) {
	e := newSeededRouter(t)

	raw, err := swag.ReadDoc()
	require.NoError(t, err)
	var doc struct {
		Paths map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	methods := map[string]bool{http.MethodGet: true, http.MethodPost: true, http.MethodPut: true, http.MethodDelete: true, http.MethodPatch: true}
	for _, r := range e.Routes() {
		if !methods[r.Method] || !strings.HasPrefix(r.Path, "/api/") || strings.Contains(r.Path, "*") {
			continue
		}
		path := pathParam.ReplaceAllString(r.Path, "{$1}")
		ops, ok := doc.Paths[path]
		if !assert.True(t, ok, "route %s is not documented", path) {
			continue
		}
		_, ok = ops[strings.ToLower(r.Method)]
		assert.True(t, ok, "%s %s is not documented", r.Method, path)
	}
}
