// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/modules/{id}/labor-estimate/expected": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["labor-estimate"],
                "summary": "Get expected labor estimate",
                "parameters": [{"type": "string", "description": "Module ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.LaborEstimateDTO"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/domain.APIError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.APIError"}}
                }
            }
        },
        "/modules/{id}/labor-estimate/expected/save": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["labor-estimate"],
                "summary": "Save expected labor estimate",
                "parameters": [{"type": "string", "description": "Module ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.LaborEstimateDTO"}},
                    "204": {"description": "Saved estimate already matches"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.APIError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/domain.APIError"}}
                }
            }
        },
        "/modules/{id}/labor-estimate/saved": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["labor-estimate"],
                "summary": "Get saved labor estimate",
                "parameters": [{"type": "string", "description": "Module ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.LaborEstimateDTO"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.APIError"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["labor-estimate"],
                "summary": "Update saved labor estimate",
                "parameters": [
                    {"type": "string", "description": "Module ID", "name": "id", "in": "path", "required": true},
                    {"description": "Saved positions", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.UpdateSavedLaborEstimateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.LaborEstimateDTO"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/domain.APIError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.APIError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/domain.APIError"}}
                }
            }
        },
        "/modules/{id}/labor-estimate/requested": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["labor-estimate"],
                "summary": "Get requested labor estimate",
                "parameters": [{"type": "string", "description": "Module ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.LaborEstimateDTO"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.APIError"}}
                }
            }
        },
        "/modules/{id}/labor-estimate/requests": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["labor-estimate"],
                "summary": "Create staffing request from saved labor estimate",
                "parameters": [{"type": "string", "description": "Module ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.StaffingRequestDTO"}},
                    "204": {"description": "Saved estimate already requested"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.APIError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/domain.APIError"}}
                }
            }
        },
        "/modules/{id}/labor-estimate/expected-minus-saved": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["labor-estimate"],
                "summary": "Get expected minus saved labor estimate",
                "parameters": [{"type": "string", "description": "Module ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.LaborEstimateDTO"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.APIError"}}
                }
            }
        },
        "/modules/{id}/labor-estimate/saved-minus-requested": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["labor-estimate"],
                "summary": "Get saved minus requested labor estimate",
                "parameters": [{"type": "string", "description": "Module ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.LaborEstimateDTO"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.APIError"}}
                }
            }
        },
        "/projects/{id}/labor-estimate/{kind}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["labor-estimate", "projects"],
                "summary": "Get project labor estimate",
                "parameters": [
                    {"type": "string", "description": "Project ID", "name": "id", "in": "path", "required": true},
                    {"enum": ["expected", "saved", "requested", "expected-minus-saved", "saved-minus-requested"], "type": "string", "description": "Estimate view", "name": "kind", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.LaborEstimateDTO"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.APIError"}},
                    "501": {"description": "Not Implemented", "schema": {"$ref": "#/definitions/domain.APIError"}}
                }
            }
        }
    },
    "definitions": {
        "domain.APIError": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "title": {"type": "string"},
                "status": {"type": "integer"},
                "detail": {"type": "string"},
                "errors": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "domain.PositionLaborEstimateDTO": {
            "type": "object",
            "properties": {
                "positionId": {"type": "string"},
                "positionName": {"type": "string"},
                "hoursCount": {"type": "number"},
                "workersCount": {"type": "integer"}
            }
        },
        "domain.LaborEstimateDTO": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "dateFrom": {"type": "string"},
                "dateTo": {"type": "string"},
                "workDaysCount": {"type": "integer"},
                "workDayHoursCount": {"type": "integer"},
                "positions": {"type": "array", "items": {"$ref": "#/definitions/domain.PositionLaborEstimateDTO"}}
            }
        },
        "domain.SavedPositionLaborEstimateInput": {
            "type": "object",
            "required": ["positionId"],
            "properties": {
                "positionId": {"type": "string"},
                "hoursCount": {"type": "number", "minimum": 0},
                "workersCount": {"type": "integer", "minimum": 0}
            }
        },
        "domain.UpdateSavedLaborEstimateRequest": {
            "type": "object",
            "properties": {
                "positions": {"type": "array", "items": {"$ref": "#/definitions/domain.SavedPositionLaborEstimateInput"}}
            }
        },
        "domain.StaffingRequirementDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "positionId": {"type": "string"},
                "positionName": {"type": "string"},
                "workersCount": {"type": "integer"}
            }
        },
        "domain.StaffingRequestDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "moduleId": {"type": "string"},
                "status": {"type": "string"},
                "comment": {"type": "string"},
                "createdAt": {"type": "string"},
                "requirements": {"type": "array", "items": {"$ref": "#/definitions/domain.StaffingRequirementDTO"}}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "x-api-key", "in": "header"},
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Straye Staffing API",
	Description:      "Labor estimates and staffing requests for project modules",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
