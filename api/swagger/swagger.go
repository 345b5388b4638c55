package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable API",
        "description": "Generates, stores, publishes and projects school timetables.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Timetable", "description": "Generation, storage and publication (ADMIN)"},
        {"name": "Views", "description": "Group and teacher grids"}
    ],
    "paths": {
        "/timetable/generate": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Run the feasibility checks then the solver",
                "description": "The generated timetable is returned but not saved.",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "ROOM_CAPACITY_CONFLICT, COURSE_HOURS_CONFLICT or TEACHER_LOAD_CONFLICT", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "SOLVER_INFEASIBLE", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "SOLVER_SYSTEM_ERROR", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "SOLVER_OUTPUT_ERROR or SOLVER_MISSING_TIMETABLE", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/save": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Save a timetable",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveSolutionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "VALIDATION_ERROR", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/load-last": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Load the latest saved timetable",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "NOT_FOUND", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/load-locked": {
            "get": {
                "tags": ["Views"],
                "summary": "Load the published timetable",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "NO_PUBLISHED", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/solutions": {
            "get": {
                "tags": ["Timetable"],
                "summary": "List saved timetables, newest first",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/load/{id}": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Load a saved timetable",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "NOT_FOUND", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/lock/{id}": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Toggle the lock flag",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "NOT_FOUND", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/view": {
            "get": {
                "tags": ["Views"],
                "summary": "Project a stored timetable",
                "parameters": [
                    {"name": "solutionId", "in": "query", "type": "string", "description": "ADMIN only; published timetable when empty"},
                    {"name": "mode", "in": "query", "type": "string", "enum": ["group", "teacher"]},
                    {"name": "id", "in": "query", "type": "string", "description": "Group filter or teacher id"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "FORBIDDEN", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "NO_PUBLISHED or NOT_FOUND", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/project": {
            "post": {
                "tags": ["Views"],
                "summary": "Project a raw session array",
                "description": "Malformed input yields an empty view.",
                "parameters": [
                    {"name": "mode", "in": "query", "type": "string", "enum": ["group", "teacher"]},
                    {"name": "id", "in": "query", "type": "string"},
                    {"name": "sessions", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/ScheduledSession"}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "413": {"description": "PAYLOAD_TOO_LARGE", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/solutions/{id}/export": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Download a saved timetable",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "group", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "404": {"description": "NOT_FOUND", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ScheduledSession": {
            "type": "object",
            "properties": {
                "group": {"type": "string"},
                "slot": {"type": "string"},
                "course_name": {"type": "string"},
                "teacher": {"type": "string"},
                "room": {"type": "string"}
            },
            "required": ["group", "slot", "course_name", "teacher", "room"]
        },
        "SaveSolutionRequest": {
            "type": "object",
            "properties": {
                "timetable": {"type": "array", "items": {"$ref": "#/definitions/ScheduledSession"}},
                "isLocked": {"type": "boolean"}
            },
            "required": ["timetable"]
        },
        "GridCell": {
            "type": "object",
            "properties": {
                "course": {"type": "string"},
                "teacher": {"type": "string"},
                "room": {"type": "string"},
                "group": {"type": "string"}
            }
        },
        "TimetableView": {
            "type": "object",
            "properties": {
                "ids": {"type": "array", "items": {"type": "string"}},
                "grid": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "object",
                        "additionalProperties": {"$ref": "#/definitions/GridCell"}
                    }
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
