// Package swagger registers the OpenAPI document served under /docs.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/killallgit/paperreel-api"
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
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["version"],
                "summary": "API version",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.HealthResponse"}},
                    "503": {"description": "Unhealthy", "schema": {"$ref": "#/definitions/types.HealthResponse"}}
                }
            }
        },
        "/api/blocks/{doi}.json": {
            "get": {
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Get document blocks",
                "parameters": [{"type": "string", "name": "doi", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Block"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.LegacyErrorResponse"}}
                }
            }
        },
        "/api/captions/{doi}.json": {
            "get": {
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Get document captions",
                "parameters": [{"type": "string", "name": "doi", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Caption"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.LegacyErrorResponse"}}
                }
            }
        },
        "/api/pdf/{doi}.pdf": {
            "get": {
                "produces": ["application/pdf"],
                "tags": ["documents"],
                "summary": "Get paper PDF",
                "parameters": [{"type": "string", "name": "doi", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "206": {"description": "Partial Content"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/clips/{doi}/full.mp4": {
            "get": {
                "produces": ["video/mp4"],
                "tags": ["documents"],
                "summary": "Get presentation video",
                "parameters": [{"type": "string", "name": "doi", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "206": {"description": "Partial Content"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/annotation/{doi}.json": {
            "get": {
                "produces": ["application/json"],
                "tags": ["annotations"],
                "summary": "Get saved annotations",
                "parameters": [{"type": "string", "name": "doi", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Annotations"}}}
            }
        },
        "/api/save_annotations": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["annotations"],
                "summary": "Save annotations",
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.SaveAnnotationsRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.LegacySaveResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.LegacyErrorResponse"}},
                    "409": {"description": "Save in progress", "schema": {"$ref": "#/definitions/types.LegacyErrorResponse"}},
                    "413": {"description": "Body too large", "schema": {"$ref": "#/definitions/types.LegacyErrorResponse"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/api/v1/documents": {
            "get": {
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "List documents",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.DocumentsResponse"}}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Import document",
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.ImportDocumentRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/types.ImportResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/api/v1/documents/playback/{doi}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Clips playing at a time",
                "parameters": [
                    {"type": "string", "name": "doi", "in": "path", "required": true},
                    {"type": "number", "name": "t", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PlaybackResponse"}}}
            }
        },
        "/api/v1/annotations/{doi}": {
            "delete": {
                "tags": ["annotations"],
                "summary": "Delete saved annotations",
                "parameters": [{"type": "string", "name": "doi", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}}
            }
        },
        "/api/v1/sessions": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Open session",
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.OpenSessionRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/types.SessionResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "429": {"description": "Too many sessions", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/api/v1/sessions/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Get session",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SessionResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "410": {"description": "Session expired", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["sessions"],
                "summary": "Close session",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/api/v1/sessions/{id}/save": {
            "post": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Save session",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SaveResponse"}},
                    "400": {"description": "Graph is inconsistent", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "409": {"description": "Save in progress", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.Block": {"type": "object"},
        "models.Caption": {"type": "object"},
        "models.Annotations": {
            "type": "object",
            "properties": {
                "highlights": {"type": "object"},
                "clips": {"type": "object"},
                "syncSegments": {"type": "object"}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "message": {"type": "string"},
                "error": {"type": "string"},
                "details": {}
            }
        },
        "types.LegacyErrorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
        "types.LegacySaveResponse": {"type": "object", "properties": {"message": {"type": "integer", "example": 200}}},
        "types.SaveAnnotationsRequest": {
            "type": "object",
            "required": ["doi"],
            "properties": {
                "doi": {"type": "string"},
                "highlights": {"type": "object"},
                "clips": {"type": "object"},
                "syncSegments": {"type": "object"}
            }
        },
        "types.ImportDocumentRequest": {
            "type": "object",
            "required": ["doi", "blocks"],
            "properties": {
                "doi": {"type": "string", "example": "10.1145/3313831.3376323"},
                "title": {"type": "string"},
                "blocks": {"type": "array", "items": {"$ref": "#/definitions/models.Block"}},
                "captions": {"type": "array", "items": {"$ref": "#/definitions/models.Caption"}}
            }
        },
        "types.OpenSessionRequest": {
            "type": "object",
            "required": ["doi"],
            "properties": {"doi": {"type": "string", "example": "10.1145/3313831.3376323"}}
        },
        "types.DocumentsResponse": {"type": "object"},
        "types.ImportResponse": {"type": "object"},
        "types.PlaybackResponse": {"type": "object"},
        "types.SessionResponse": {"type": "object"},
        "types.SaveResponse": {"type": "object"},
        "types.HealthResponse": {"type": "object"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "PaperReel API",
	Description:      "Authoring and playback API that maps paper blocks to presentation video clips",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
