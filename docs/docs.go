// Package docs registers the OpenAPI document served at /swagger.
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
        "/api/admin/contact-submissions": {
            "get": {
                "description": "Newest first. Requires an admin session.",
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List contact submissions",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {"$ref": "#/definitions/models.ContactSubmission"}
                        }
                    },
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/admin/login": {
            "post": {
                "description": "Verifies credentials and stores the admin on the session cookie.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Admin login",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.loginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.LoginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/admin/logout": {
            "post": {
                "description": "Destroys the current session. Succeeds without a session too.",
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Admin logout",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/admin/user": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Current admin",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SessionUser"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/contact": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["contact"],
                "summary": "Submit contact form",
                "parameters": [
                    {
                        "description": "Contact form",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.ContactRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.ContactResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ValidationErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"type": "object", "additionalProperties": true}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "boolean"}}}
                }
            }
        },
        "/api/health/ready": {
            "get": {
                "description": "Pings the database.",
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "handlers.ContactRequest": {
            "type": "object",
            "required": ["email", "firstName", "lastName", "message"],
            "properties": {
                "company": {"type": "string", "maxLength": 200, "example": "Analytical Engines Ltd"},
                "email": {"type": "string", "maxLength": 254, "example": "ada@example.com"},
                "firstName": {"type": "string", "maxLength": 200, "example": "Ada"},
                "lastName": {"type": "string", "maxLength": 200, "example": "Lovelace"},
                "message": {"type": "string", "maxLength": 5000, "example": "We'd like a quote."},
                "service": {"type": "string", "maxLength": 200, "example": "consulting"}
            }
        },
        "handlers.ContactResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 1},
                "message": {"type": "string"},
                "success": {"type": "boolean", "example": true}
            }
        },
        "handlers.FieldError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "field": {"type": "string"},
                "message": {"type": "string"},
                "path": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handlers.LoginResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Logged in successfully"},
                "success": {"type": "boolean", "example": true},
                "user": {"$ref": "#/definitions/models.SessionUser"}
            }
        },
        "handlers.ValidationErrorResponse": {
            "type": "object",
            "properties": {
                "errors": {"type": "array", "items": {"$ref": "#/definitions/handlers.FieldError"}},
                "message": {"type": "string"},
                "success": {"type": "boolean", "example": false}
            }
        },
        "handlers.loginRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string", "example": "admin123"},
                "username": {"type": "string", "example": "admin"}
            }
        },
        "models.ContactSubmission": {
            "type": "object",
            "properties": {
                "company": {"type": "string"},
                "createdAt": {"type": "string"},
                "email": {"type": "string"},
                "firstName": {"type": "string"},
                "id": {"type": "integer"},
                "lastName": {"type": "string"},
                "message": {"type": "string"},
                "service": {"type": "string"}
            }
        },
        "models.SessionUser": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "role": {"type": "string"},
                "username": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Marketing site API",
	Description:      "Contact form intake and admin session endpoints.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
