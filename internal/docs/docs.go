// Package docs registers the OpenAPI document served at /swagger/*.
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
    "security": [{"BearerAuth": []}],
    "paths": {
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in with login name and password", "security": [],
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
            "responses": {"200": {"description": "Tokens", "schema": {"$ref": "#/definitions/TokenResponse"}}, "400": {"description": "Unknown tenant"}, "401": {"description": "Invalid credentials"}}}},
        "/auth/refresh": {"post": {"tags": ["auth"], "summary": "Rotate a refresh token", "security": [],
            "responses": {"200": {"description": "Tokens", "schema": {"$ref": "#/definitions/TokenResponse"}}, "401": {"description": "Unknown refresh token"}}}},
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "Revoke the access token and an optional refresh token", "responses": {"204": {"description": "Revoked"}}}},
        "/auth/sso/{provider}/redirect": {"get": {"tags": ["auth"], "summary": "Redirect to the identity provider", "security": [],
            "parameters": [{"in": "path", "name": "provider", "type": "string", "enum": ["azure", "okta"], "required": true}],
            "responses": {"302": {"description": "Provider authorize URL"}}}},
        "/auth/sso/{provider}/callback": {"get": {"tags": ["auth"], "summary": "Complete the SSO code flow", "security": [],
            "parameters": [{"in": "path", "name": "provider", "type": "string", "required": true}, {"in": "query", "name": "code", "type": "string"}, {"in": "query", "name": "state", "type": "string"}],
            "responses": {"200": {"description": "Tokens", "schema": {"$ref": "#/definitions/TokenResponse"}}, "400": {"description": "Unknown state"}, "403": {"description": "Unknown or inactive user"}}}},
        "/me": {"get": {"tags": ["auth"], "summary": "Current user and visible locations", "responses": {"200": {"description": "Current user"}}}},
        "/tasks": {
            "get": {"tags": ["tasks"], "summary": "List tasks", "parameters": [
                {"$ref": "#/parameters/perPage"}, {"$ref": "#/parameters/page"}, {"$ref": "#/parameters/search"}, {"$ref": "#/parameters/orderBy"}, {"$ref": "#/parameters/orderByField"},
                {"in": "query", "name": "locationID", "type": "string", "format": "uuid"},
                {"in": "query", "name": "topicID", "type": "string", "format": "uuid"},
                {"in": "query", "name": "color", "type": "string", "enum": ["white", "yellow", "red", "green", "orange"]},
                {"in": "query", "name": "dueFrom", "type": "string"}, {"in": "query", "name": "dueTo", "type": "string"}],
                "responses": {"200": {"description": "Page of tasks"}, "422": {"description": "Invalid filters"}}},
            "post": {"tags": ["tasks"], "summary": "Create a task", "responses": {"201": {"description": "Created"}, "422": {"description": "Validation failed"}}}
        },
        "/tasks/{id}": {
            "get": {"tags": ["tasks"], "summary": "Show a task", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "Task"}, "404": {"description": "Not found"}}},
            "put": {"tags": ["tasks"], "summary": "Update a task", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "Task"}}},
            "delete": {"tags": ["tasks"], "summary": "Soft-delete a task", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/tasks/{id}/complete": {"post": {"tags": ["completion"], "summary": "Complete a task", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "Completed task"}, "409": {"description": "Already completed or a task set"}}}},
        "/completed-tasks": {"get": {"tags": ["completion"], "summary": "List completed tasks", "responses": {"200": {"description": "Page of tasks"}}}},
        "/completed-tasks/{id}": {"delete": {"tags": ["completion"], "summary": "Reopen a task", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "Reopened task"}}}},
        "/task-sets/{id}/progress": {"get": {"tags": ["completion"], "summary": "Task set progress", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "Progress"}}}},
        "/task-sets/{id}/complete": {"post": {"tags": ["completion"], "summary": "Complete a task set", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "Completed set"}, "409": {"description": "Children pending"}}}},
        "/completed-task-sets": {"get": {"tags": ["completion"], "summary": "List completed task sets", "responses": {"200": {"description": "Page of task sets"}}}},
        "/documents": {
            "get": {"tags": ["documents"], "summary": "List documents", "responses": {"200": {"description": "Page of documents"}}},
            "post": {"tags": ["documents"], "summary": "Upload a document", "consumes": ["multipart/form-data"],
                "parameters": [{"in": "formData", "name": "file", "type": "file", "required": true}, {"in": "formData", "name": "title", "type": "string"}, {"in": "formData", "name": "locationID", "type": "string"}, {"in": "formData", "name": "taskID", "type": "string"}],
                "responses": {"201": {"description": "Created"}}}
        },
        "/documents/{id}/download": {"get": {"tags": ["documents"], "summary": "Presigned download URL", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "Link"}}}},
        "/reports/task-status": {"get": {"tags": ["reports"], "summary": "Colour status breakdown",
            "parameters": [{"in": "query", "name": "groupBy", "type": "string", "enum": ["topic", "location"], "required": true}, {"in": "query", "name": "locationID", "type": "string"}, {"in": "query", "name": "topicID", "type": "string"}, {"in": "query", "name": "dueFrom", "type": "string"}, {"in": "query", "name": "dueTo", "type": "string"}],
            "responses": {"200": {"description": "Groups"}, "422": {"description": "groupBy missing or invalid"}}}},
        "/reports/task-status/pdf": {"get": {"tags": ["reports"], "summary": "Colour status breakdown as PDF", "produces": ["application/pdf"],
            "parameters": [{"in": "query", "name": "groupBy", "type": "string", "enum": ["topic", "location"], "required": true}, {"in": "query", "name": "locationID", "type": "string"}, {"in": "query", "name": "topicID", "type": "string"}, {"in": "query", "name": "dueFrom", "type": "string"}, {"in": "query", "name": "dueTo", "type": "string"}],
            "responses": {"200": {"description": "PDF document"}, "422": {"description": "groupBy missing or invalid"}}}},
        "/notifications": {"get": {"tags": ["notifications"], "summary": "List notifications of the current user", "responses": {"200": {"description": "Page of notifications"}}}},
        "/notifications/{id}/read": {"post": {"tags": ["notifications"], "summary": "Mark a notification read", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "Notification"}}}}
    },
    "parameters": {
        "id": {"in": "path", "name": "id", "type": "string", "format": "uuid", "required": true},
        "perPage": {"in": "query", "name": "perPage", "type": "integer", "default": 15, "maximum": 100},
        "page": {"in": "query", "name": "page", "type": "integer", "default": 1},
        "search": {"in": "query", "name": "search", "type": "string"},
        "orderBy": {"in": "query", "name": "orderBy", "type": "string", "enum": ["asc", "desc"]},
        "orderByField": {"in": "query", "name": "orderByField", "type": "string"}
    },
    "definitions": {
        "LoginRequest": {"type": "object", "properties": {"loginName": {"type": "string"}, "password": {"type": "string"}}},
        "TokenResponse": {"type": "object", "properties": {
            "accessToken": {"type": "string"}, "tokenType": {"type": "string"}, "expiresIn": {"type": "integer"}, "refreshToken": {"type": "string"}}},
        "ErrorResponse": {"type": "object", "properties": {"error": {"type": "object", "properties": {
            "code": {"type": "string"}, "message": {"type": "string"}, "details": {"type": "object", "additionalProperties": {"type": "string"}}}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Taskboard API",
	Description:      "Multi-tenant task management API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
