package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Visita Gateway API",
        "description": "Backend-for-frontend gateway for the visitor management portal",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Auth", "description": "Login and session introspection"},
        {"name": "Registrations", "description": "Walk-in visitor registration"},
        {"name": "Visits", "description": "Grouped office-visit listings"},
        {"name": "Scans", "description": "QR scan reconciliation"},
        {"name": "Directory", "description": "Offices, professors and services"},
        {"name": "Reports", "description": "CSV/PDF exports with signed downloads"},
        {"name": "Dashboard", "description": "Landing-page counters"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "responses": {
                    "200": {"description": "Metrics exposition"}
                }
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate against the visitor backend and issue a gateway session token",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token and user info", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "End the current session",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Session ended"}
                }
            }
        },
        "/api/v1/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Describe the current session",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Session claims", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/registrations": {
            "post": {
                "tags": ["Registrations"],
                "summary": "Register a walk-in visitor with one office stop per selected office",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterVisitorRequest"}}
                ],
                "responses": {
                    "201": {"description": "Visitor ID for the QR badge", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/visitors/{id}": {
            "get": {
                "tags": ["Registrations"],
                "summary": "Look up a visitor by visitors ID",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Visitor record", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown visitor", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/visits": {
            "get": {
                "tags": ["Visits"],
                "summary": "List grouped visits filtered by date range, department and search text",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "from", "in": "query", "type": "string", "description": "Inclusive start date (YYYY-MM-DD)"},
                    {"name": "to", "in": "query", "type": "string", "description": "Inclusive end date (YYYY-MM-DD)"},
                    {"name": "dept_id", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Grouped visits, newest day first", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Inverted date range", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Visits"],
                "summary": "Record additional office stops for an existing visitor",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateVisitRequest"}}
                ],
                "responses": {
                    "201": {"description": "Stops recorded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/visits/today": {
            "get": {
                "tags": ["Visits"],
                "summary": "List grouped visits for the current Manila day",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Grouped visits", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/visits/month": {
            "get": {
                "tags": ["Visits"],
                "summary": "List grouped visits for the current Manila month",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Grouped visits", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/scans": {
            "post": {
                "tags": ["Scans"],
                "summary": "Reconcile a department QR scan against the visitor's pending stops",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScanRequest"}}
                ],
                "responses": {
                    "200": {"description": "Scan outcome", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "A scan for this visitor is already in flight", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/scans/gate": {
            "post": {
                "tags": ["Scans"],
                "summary": "Record a gate time-in/time-out scan",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GateScanRequest"}}
                ],
                "responses": {
                    "200": {"description": "Gate log outcome", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/offices": {
            "get": {
                "tags": ["Directory"],
                "summary": "List offices",
                "responses": {
                    "200": {"description": "Offices", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Directory"],
                "summary": "Create an office",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/professors": {
            "get": {
                "tags": ["Directory"],
                "summary": "List professors, optionally filtered by department",
                "parameters": [
                    {"name": "dept_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Professors", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Directory"],
                "summary": "Create a professor",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/services": {
            "get": {
                "tags": ["Directory"],
                "summary": "List services",
                "responses": {
                    "200": {"description": "Services", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Directory"],
                "summary": "Create a service",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/reports": {
            "get": {
                "tags": ["Reports"],
                "summary": "Generate a CSV or PDF export and return a signed download link",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "dataset", "in": "query", "required": true, "type": "string", "enum": ["visits", "visitors", "logs"]},
                    {"name": "format", "in": "query", "required": true, "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "dept_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Report descriptor with download URL", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/reports/download/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a generated report via its signed token",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File content"},
                    "403": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Landing-page visit and visitor counters",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Counters", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "RegisterVisitorRequest": {
            "type": "object",
            "required": ["firstName", "lastName", "offices"],
            "properties": {
                "firstName": {"type": "string"},
                "middleName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "gender": {"type": "string"},
                "birthdate": {"type": "string"},
                "purpose": {"type": "string"},
                "offices": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/VisitStop"}
                }
            }
        },
        "CreateVisitRequest": {
            "type": "object",
            "required": ["visitorsID", "offices"],
            "properties": {
                "visitorsID": {"type": "string"},
                "offices": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/VisitStop"}
                }
            }
        },
        "VisitStop": {
            "type": "object",
            "required": ["dept_id"],
            "properties": {
                "dept_id": {"type": "string"},
                "prof_id": {"type": "string"},
                "purpose": {"type": "string"}
            }
        },
        "ScanRequest": {
            "type": "object",
            "required": ["visitorsID"],
            "properties": {
                "visitorsID": {"type": "string"},
                "dept_id": {"type": "string"}
            }
        },
        "GateScanRequest": {
            "type": "object",
            "required": ["visitorsID"],
            "properties": {
                "visitorsID": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
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
