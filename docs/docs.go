// Package docs holds the swagger document served at /swagger. It is maintained by hand
// alongside the handler annotations.
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
        "/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["members"],
                "summary": "Complete registration",
                "parameters": [
                    {"description": "Registration request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/member.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/members": {
            "get": {
                "produces": ["application/json"],
                "tags": ["members"],
                "summary": "Member directory",
                "parameters": [
                    {"type": "string", "default": "alumni", "description": "alumni, regional_contacts or committee", "name": "tab", "in": "query"},
                    {"type": "string", "description": "Region filter", "name": "region", "in": "query"},
                    {"type": "string", "description": "Name search", "name": "q", "in": "query"},
                    {"type": "string", "description": "default, name, year_desc or year_asc", "name": "sort", "in": "query"},
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Items per page", "name": "per_page", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}}
            }
        },
        "/members/me": {
            "get": {
                "produces": ["application/json"],
                "tags": ["members"],
                "summary": "Get own profile",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}}
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["members"],
                "summary": "Update own profile",
                "parameters": [
                    {"description": "Profile fields", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/member.UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/members/me/deletion": {
            "post": {
                "produces": ["application/json"],
                "tags": ["members"],
                "summary": "Schedule account deletion",
                "responses": {"202": {"description": "Accepted", "schema": {"$ref": "#/definitions/response.APIResponse"}}}
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["members"],
                "summary": "Cancel account deletion",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/members/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["members"],
                "summary": "Get member by ID",
                "parameters": [{"type": "string", "description": "Member ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/members/{id}/role": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["members"],
                "summary": "Change a member's role",
                "parameters": [
                    {"type": "string", "description": "Member ID", "name": "id", "in": "path", "required": true},
                    {"description": "Role fields", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/member.UpdateRoleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/events": {
            "get": {
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "List events",
                "parameters": [
                    {"type": "string", "description": "RFC3339 lower bound", "name": "from", "in": "query"},
                    {"type": "string", "description": "RFC3339 upper bound", "name": "to", "in": "query"},
                    {"type": "string", "description": "Region filter", "name": "region", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Create an event",
                "parameters": [
                    {"description": "Event", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/event.CreateEventRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/events/{eventId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Get event by ID",
                "parameters": [{"type": "integer", "description": "Event ID", "name": "eventId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}}
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Update an event",
                "parameters": [
                    {"type": "integer", "description": "Event ID", "name": "eventId", "in": "path", "required": true},
                    {"description": "Event fields", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/event.UpdateEventRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}}
            },
            "delete": {
                "tags": ["events"],
                "summary": "Delete an event",
                "parameters": [{"type": "integer", "description": "Event ID", "name": "eventId", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/events/{eventId}/participation": {
            "get": {
                "produces": ["application/json"],
                "tags": ["participation"],
                "summary": "Registration status",
                "parameters": [{"type": "integer", "description": "Event ID", "name": "eventId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}}
            },
            "post": {
                "produces": ["application/json"],
                "tags": ["participation"],
                "summary": "Toggle registration",
                "parameters": [{"type": "integer", "description": "Event ID", "name": "eventId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}}
            }
        },
        "/events/{eventId}/participation/participants": {
            "get": {
                "produces": ["application/json"],
                "tags": ["participation"],
                "summary": "List participants",
                "parameters": [{"type": "integer", "description": "Event ID", "name": "eventId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Network dashboard",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}}
            }
        },
        "/dashboard/region": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Dashboard of the viewer's region",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}}
            }
        },
        "/dashboard/regions/{region}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Dashboard of one region",
                "parameters": [{"type": "string", "description": "Region name", "name": "region", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}}
            }
        }
    },
    "definitions": {
        "response.APIError": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
        },
        "response.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/response.APIError"},
                "meta": {"$ref": "#/definitions/response.Meta"},
                "success": {"type": "boolean"}
            }
        },
        "response.Meta": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "per_page": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "member.RegisterRequest": {
            "type": "object",
            "required": ["email", "first_name", "last_name"],
            "properties": {
                "consent_given": {"type": "boolean"},
                "department": {"type": "string"},
                "email": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "phone": {"type": "string"},
                "region": {"type": "string"}
            }
        },
        "member.UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "avatar_url": {"type": "string"},
                "bio": {"type": "string"},
                "birthday": {"type": "string"},
                "consent_given": {"type": "boolean"},
                "department": {"type": "string"},
                "email": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "mini_enterprise_org": {"type": "string"},
                "mini_enterprise_year": {"type": "integer"},
                "phone": {"type": "string"},
                "region": {"type": "string"},
                "situation": {"type": "string"}
            }
        },
        "member.UpdateRoleRequest": {
            "type": "object",
            "properties": {
                "committee_role": {"type": "string"},
                "committee_start_year": {"type": "integer"},
                "is_regional_contact": {"type": "boolean"},
                "role": {"type": "string", "enum": ["member", "regional_contact", "committee", "committee_lead"]}
            }
        },
        "event.CreateEventRequest": {
            "type": "object",
            "required": ["ends_at", "starts_at", "title"],
            "properties": {
                "cover_image_url": {"type": "string"},
                "description": {"type": "string"},
                "ends_at": {"type": "string"},
                "location": {"type": "string"},
                "region": {"type": "string"},
                "starts_at": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "event.UpdateEventRequest": {
            "type": "object",
            "properties": {
                "cover_image_url": {"type": "string"},
                "description": {"type": "string"},
                "ends_at": {"type": "string"},
                "location": {"type": "string"},
                "national": {"type": "boolean"},
                "region": {"type": "string"},
                "starts_at": {"type": "string"},
                "title": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Alumni network API",
	Description:      "Member directory, events and regional dashboards of the alumni network.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
