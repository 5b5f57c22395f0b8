package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Customer Feedback API",
        "description": "Multi-tenant customer feedback collection and analytics",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"},
        "OrgHeader": {"type": "apiKey", "name": "X-Org-Id", "in": "header"}
    },
    "tags": [
        {"name": "Analytics", "description": "Organization dashboards and survey breakdowns"},
        {"name": "Feedback", "description": "Staff-assisted submissions"},
        {"name": "Public", "description": "QR token survey access"}
    ],
    "paths": {
        "/analytics/overview": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Organization feedback overview",
                "security": [{"BearerAuth": [], "OrgHeader": []}],
                "parameters": [
                    {"name": "days", "in": "query", "type": "integer", "description": "Window in days (1-365, default 7)"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/trends": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Daily response trends",
                "security": [{"BearerAuth": [], "OrgHeader": []}],
                "parameters": [
                    {"name": "days", "in": "query", "type": "integer", "description": "Window in days (1-365, default 14)"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/surveys/{surveyId}": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Per-question survey analytics",
                "security": [{"BearerAuth": [], "OrgHeader": []}],
                "parameters": [
                    {"name": "surveyId", "in": "path", "required": true, "type": "string"},
                    {"name": "days", "in": "query", "type": "integer", "description": "Window in days (1-365, default 7)"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Survey not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/surveys/{surveyId}/export": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Export survey analytics",
                "produces": ["text/csv", "application/pdf"],
                "security": [{"BearerAuth": [], "OrgHeader": []}],
                "parameters": [
                    {"name": "surveyId", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "days", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Attachment", "schema": {"type": "file"}},
                    "404": {"description": "Survey not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/system": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Process instrumentation snapshot",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/staff-feedback/submit": {
            "post": {
                "tags": ["Feedback"],
                "summary": "Record staff-assisted feedback",
                "security": [{"BearerAuth": [], "OrgHeader": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitFeedbackRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/public/q/{token}": {
            "get": {
                "tags": ["Public"],
                "summary": "Open a survey through its QR token",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown or inactive token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "410": {"description": "QR expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/public/q/{token}/submit": {
            "post": {
                "tags": ["Public"],
                "summary": "Submit feedback through a QR token",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitFeedbackRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown or inactive token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "410": {"description": "QR expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "SubmissionItem": {
            "type": "object",
            "required": ["questionId", "value"],
            "properties": {
                "questionId": {"type": "string"},
                "value": {"type": "string"}
            }
        },
        "SubmitFeedbackRequest": {
            "type": "object",
            "required": ["items"],
            "properties": {
                "surveyId": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/SubmissionItem"}},
                "visitFrequency": {"type": "string"},
                "timeSpentMin": {"type": "number"},
                "fastExitReason": {"type": "string"},
                "peakHourBucket": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
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
