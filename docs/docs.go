// Package docs registers the OpenAPI description served under /swagger.
// Regenerate from the handler annotations with `go generate ./cmd/api`;
// TestRouter_RoutesAreDocumented fails when a route is missing here.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/api/auth/register": {
            "post": {
                "tags": ["auth"], "summary": "Register a user",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/AuthResponse"}}, "400": {"$ref": "#/responses/Error"}, "403": {"$ref": "#/responses/Error"}, "409": {"$ref": "#/responses/Error"}}
            }
        },
        "/api/auth/users": {
            "post": {
                "tags": ["auth"], "summary": "Create a user (admin)", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/AuthResponse"}}, "400": {"$ref": "#/responses/Error"}, "401": {"$ref": "#/responses/Error"}, "403": {"$ref": "#/responses/Error"}, "409": {"$ref": "#/responses/Error"}}
            }
        },
        "/api/auth/updatedetails": {
            "put": {
                "tags": ["auth"], "summary": "Update profile details", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateDetailsRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/AuthResponse"}}, "400": {"$ref": "#/responses/Error"}, "401": {"$ref": "#/responses/Error"}, "404": {"$ref": "#/responses/Error"}, "409": {"$ref": "#/responses/Error"}}
            }
        },
        "/api/auth/login": {
            "post": {
                "tags": ["auth"], "summary": "Log in",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/AuthResponse"}}, "401": {"$ref": "#/responses/Error"}}
            }
        },
        "/api/auth/me": {
            "get": {
                "tags": ["auth"], "summary": "Current user", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/AuthResponse"}}, "401": {"$ref": "#/responses/Error"}}
            }
        },
        "/api/projects": {
            "get": {
                "tags": ["projects"], "summary": "List projects", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "query", "name": "page", "type": "integer"}, {"in": "query", "name": "limit", "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ProjectPage"}}}
            },
            "post": {
                "tags": ["projects"], "summary": "Create a project (admin)", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ProjectRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ProjectEnvelope"}}, "400": {"$ref": "#/responses/Error"}, "403": {"$ref": "#/responses/Error"}}
            }
        },
        "/api/projects/{id}": {
            "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
            "get": {
                "tags": ["projects"], "summary": "Get a project", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ProjectEnvelope"}}, "404": {"$ref": "#/responses/Error"}}
            },
            "put": {
                "tags": ["projects"], "summary": "Update a project (admin)", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ProjectRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ProjectEnvelope"}}, "409": {"$ref": "#/responses/Error"}, "422": {"$ref": "#/responses/Error"}}
            },
            "delete": {
                "tags": ["projects"], "summary": "Archive a project (admin)", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ProjectEnvelope"}}, "404": {"$ref": "#/responses/Error"}}
            }
        },
        "/api/projects/{id}/billing-summary": {
            "get": {
                "tags": ["billing"], "summary": "Project billing summary (admin)", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/BillingEnvelope"}}, "403": {"$ref": "#/responses/Error"}, "404": {"$ref": "#/responses/Error"}}
            }
        },
        "/api/timelogs": {
            "get": {
                "tags": ["timelogs"], "summary": "List time logs", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "project_id", "type": "string"},
                    {"in": "query", "name": "user_id", "type": "string"},
                    {"in": "query", "name": "status", "type": "string", "enum": ["todo", "in-progress", "done"]},
                    {"in": "query", "name": "date", "type": "string", "format": "date"},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "limit", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/TimeLogPage"}}, "403": {"$ref": "#/responses/Error"}}
            },
            "post": {
                "tags": ["timelogs"], "summary": "Log hours", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "header", "name": "Idempotency-Key", "type": "string"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/TimeLogRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/TimeLogEnvelope"}}, "400": {"$ref": "#/responses/Error"}, "409": {"$ref": "#/responses/Error"}, "422": {"$ref": "#/responses/Error"}}
            }
        },
        "/api/timelogs/{id}": {
            "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
            "get": {
                "tags": ["timelogs"], "summary": "Get a time log", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/TimeLogEnvelope"}}, "403": {"$ref": "#/responses/Error"}, "404": {"$ref": "#/responses/Error"}}
            },
            "put": {
                "tags": ["timelogs"], "summary": "Update hours, notes or status", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/TimeLogRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/TimeLogEnvelope"}}, "400": {"$ref": "#/responses/Error"}, "422": {"$ref": "#/responses/Error"}}
            },
            "delete": {
                "tags": ["timelogs"], "summary": "Delete a time log", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/TimeLogEnvelope"}}, "403": {"$ref": "#/responses/Error"}, "404": {"$ref": "#/responses/Error"}}
            }
        },
        "/api/timelogs/{id}/status": {
            "put": {
                "tags": ["timelogs"], "summary": "Move a time log to another status", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"status": {"type": "string", "enum": ["todo", "in-progress", "done"]}}}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/TimeLogEnvelope"}}, "400": {"$ref": "#/responses/Error"}}
            }
        }
    },
    "responses": {
        "Error": {"description": "Error", "schema": {"type": "object", "properties": {"error": {"type": "string"}}}}
    },
    "definitions": {
        "RegisterRequest": {"type": "object", "required": ["name", "email", "password"], "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string", "minLength": 6}, "role": {"type": "string", "enum": ["admin", "employee"]}}},
        "UpdateDetailsRequest": {"type": "object", "properties": {"name": {"type": "string", "maxLength": 100}, "email": {"type": "string"}}},
        "LoginRequest": {"type": "object", "required": ["email", "password"], "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "User": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"}, "role": {"type": "string"}, "created_at": {"type": "string", "format": "date-time"}}},
        "AuthResponse": {"type": "object", "properties": {"token": {"type": "string"}, "user": {"$ref": "#/definitions/User"}}},
        "ProjectRequest": {"type": "object", "properties": {"name": {"type": "string"}, "description": {"type": "string"}, "billing_rate": {"type": "number"}, "status": {"type": "string", "enum": ["active", "completed", "archived"]}}},
        "Project": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "description": {"type": "string"}, "billing_rate": {"type": "number"}, "status": {"type": "string"}, "created_by": {"type": "string"}, "created_at": {"type": "string", "format": "date-time"}}},
        "ProjectEnvelope": {"type": "object", "properties": {"data": {"$ref": "#/definitions/Project"}}},
        "ProjectPage": {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/Project"}}, "count": {"type": "integer"}, "total": {"type": "integer"}, "page": {"type": "integer"}, "limit": {"type": "integer"}, "total_pages": {"type": "integer"}}},
        "TimeLogRequest": {"type": "object", "properties": {"project_id": {"type": "string"}, "hours": {"type": "number", "minimum": 0.5, "maximum": 12}, "notes": {"type": "string"}, "log_date": {"type": "string", "format": "date"}, "status": {"type": "string", "enum": ["todo", "in-progress", "done"]}}},
        "TimeLog": {"type": "object", "properties": {"id": {"type": "string"}, "project_id": {"type": "string"}, "user_id": {"type": "string"}, "hours": {"type": "number"}, "notes": {"type": "string"}, "log_date": {"type": "string", "format": "date"}, "status": {"type": "string"}, "created_at": {"type": "string", "format": "date-time"}, "updated_at": {"type": "string", "format": "date-time"}}},
        "TimeLogEnvelope": {"type": "object", "properties": {"data": {"$ref": "#/definitions/TimeLog"}}},
        "TimeLogPage": {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/TimeLog"}}, "count": {"type": "integer"}, "total": {"type": "integer"}, "page": {"type": "integer"}, "limit": {"type": "integer"}, "total_pages": {"type": "integer"}}},
        "BillingSummary": {"type": "object", "properties": {
            "project": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "billing_rate": {"type": "number"}, "status": {"type": "string"}}},
            "total_hours": {"type": "number"},
            "total_amount": {"type": "number"},
            "hours_by_user": {"type": "array", "items": {"type": "object", "properties": {"user_id": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"}, "hours": {"type": "number"}, "amount": {"type": "number"}}}},
            "hours_by_date": {"type": "array", "items": {"type": "object", "properties": {"date": {"type": "string", "format": "date"}, "hours": {"type": "number"}, "amount": {"type": "number"}}}},
            "computed_at": {"type": "string", "format": "date-time"}
        }},
        "BillingEnvelope": {"type": "object", "properties": {"data": {"$ref": "#/definitions/BillingSummary"}, "cached": {"type": "boolean"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Timesheet API",
	Description:      "Time logging with a daily hour cap and cached project billing summaries.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
