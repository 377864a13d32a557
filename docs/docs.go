// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/server/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "url": "http://github.com/Kamar-Folarin"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/game/check": {
            "post": {
                "produces": ["application/json"],
                "tags": ["game"],
                "summary": "Check game version",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.VersionCheck"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/game/clone": {
            "post": {
                "produces": ["application/json"],
                "tags": ["game"],
                "summary": "Clone game",
                "parameters": [
                    {"type": "boolean", "default": false, "description": "Run in the background", "name": "async", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SyncOutcome"}},
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/models.SyncOutcome"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/game/update": {
            "post": {
                "produces": ["application/json"],
                "tags": ["game"],
                "summary": "Update game",
                "parameters": [
                    {"type": "boolean", "default": false, "description": "Run in the background", "name": "async", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SyncOutcome"}},
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/models.SyncOutcome"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/game/launch": {
            "post": {
                "produces": ["application/json"],
                "tags": ["game"],
                "summary": "Launch game",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.LaunchResult"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/game/progress": {
            "get": {
                "produces": ["application/json"],
                "tags": ["game"],
                "summary": "Get transfer progress",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/progress.Snapshot"}}
                }
            }
        },
        "/game/path": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["game"],
                "summary": "Set game path",
                "parameters": [
                    {"description": "New install directory", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.SetGamePathRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.GamePathResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/sync/history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Get sync history",
                "parameters": [
                    {"type": "integer", "default": 20, "description": "Number of records to return", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.SyncHistoryResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.ErrorResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "error"},
                "error": {"type": "string", "example": "game not installed at /games/example"},
                "type": {"type": "string", "example": "NOT_FOUND"}
            }
        },
        "api.SetGamePathRequest": {
            "type": "object",
            "required": ["path"],
            "properties": {
                "path": {"type": "string", "example": "/games/example"}
            }
        },
        "api.GamePathResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"},
                "gamePath": {"type": "string", "example": "/games/example"}
            }
        },
        "api.SyncHistoryResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"},
                "count": {"type": "integer", "example": 1},
                "records": {"type": "array", "items": {"$ref": "#/definitions/models.SyncRecord"}}
            }
        },
        "models.VersionCheck": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "currentVersion": {"type": "string"},
                "remoteVersion": {"type": "string"},
                "needsUpdate": {"type": "boolean"},
                "gameExists": {"type": "boolean"},
                "gamePath": {"type": "string"},
                "checkedAt": {"type": "string"}
            }
        },
        "models.SyncOutcome": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "message": {"type": "string"},
                "version": {"type": "string"},
                "operationId": {"type": "string"},
                "upToDate": {"type": "boolean"}
            }
        },
        "models.LaunchResult": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "message": {"type": "string"},
                "launcherPath": {"type": "string"},
                "pid": {"type": "integer"}
            }
        },
        "models.SyncRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "operation": {"type": "string"},
                "repo_url": {"type": "string"},
                "branch": {"type": "string"},
                "local_path": {"type": "string"},
                "status": {"type": "string"},
                "from_version": {"type": "string"},
                "to_version": {"type": "string"},
                "error": {"type": "string"},
                "total_objects": {"type": "integer"},
                "started_at": {"type": "string"},
                "finished_at": {"type": "string"},
                "duration_ms": {"type": "integer"}
            }
        },
        "progress.Snapshot": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "operation": {"type": "string"},
                "operation_id": {"type": "string"},
                "stage": {"type": "string"},
                "percentage": {"type": "integer"},
                "fraction_complete": {"type": "number"},
                "is_complete": {"type": "boolean"},
                "stalled": {"type": "boolean"},
                "total_objects": {"type": "integer"},
                "received_objects": {"type": "integer"},
                "indexed_objects": {"type": "integer"},
                "speed": {"type": "number"},
                "eta": {"type": "string"},
                "eta_seconds": {"type": "number"},
                "message": {"type": "string"},
                "error": {"type": "string"},
                "started_at": {"type": "string"},
                "last_updated_at": {"type": "string"},
                "elapsed_seconds": {"type": "number"}
            }
        }
    },
    "securityDefinitions": {
        "LauncherToken": {
            "type": "apiKey",
            "name": "X-Launcher-Token",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Game Updater API",
	Description:      "Backend for a game launcher: version checks, tracked git clone and update, launch.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
