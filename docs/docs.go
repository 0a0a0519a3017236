// Package docs holds the OpenAPI document served at /swagger/*.
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
        "/categories": {
            "get": {"tags": ["catalog"], "summary": "List service categories", "responses": {"200": {"description": "OK"}}}
        },
        "/services": {
            "get": {
                "tags": ["catalog"],
                "summary": "List services with min price and max cashback",
                "parameters": [
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "boolean", "name": "is_featured", "in": "query"},
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/services/{id}": {
            "get": {
                "tags": ["catalog"],
                "summary": "Service with its terms",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/services/{id}/terms/{term_id}": {
            "get": {
                "tags": ["catalog"],
                "summary": "Term of a service",
                "parameters": [
                    {"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true},
                    {"type": "string", "format": "uuid", "name": "term_id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/services/{id}/subscribe": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["subscriptions"],
                "summary": "Subscribe and debit the card",
                "parameters": [
                    {"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {
                        "type": "object",
                        "required": ["term_id"],
                        "properties": {
                            "term_id": {"type": "string", "format": "uuid"},
                            "card_id": {"type": "string", "format": "uuid"},
                            "start_date": {"type": "string", "example": "2024-01-01T00:00:00"}
                        }
                    }}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Business rule violated"}, "503": {"description": "Transaction failed"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["subscriptions"],
                "summary": "Cancel without refund",
                "parameters": [
                    {"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {
                        "type": "object",
                        "required": ["term_id"],
                        "properties": {"term_id": {"type": "string", "format": "uuid"}}
                    }}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Not subscribed"}}
            }
        },
        "/subscriptions": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["subscriptions"], "summary": "List the user's subscriptions", "responses": {"200": {"description": "OK"}}}
        },
        "/user/expenses": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["reports"],
                "summary": "Total nominal spend",
                "parameters": [
                    {"type": "string", "format": "date", "name": "start_date", "in": "query"},
                    {"type": "string", "format": "date", "name": "end_date", "in": "query"},
                    {"type": "string", "name": "category", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "No matching subscriptions"}}
            }
        },
        "/user/cashback": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["reports"], "summary": "Total cashback", "responses": {"200": {"description": "OK"}, "404": {"description": "No matching subscriptions"}}}
        },
        "/user/paids": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["reports"],
                "summary": "Amount renewing in a month",
                "parameters": [{"type": "string", "name": "month", "in": "query", "description": "YYYY-MM"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Nothing due"}}
            }
        },
        "/main": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["reports"], "summary": "Main page summary", "responses": {"200": {"description": "OK"}}}
        },
        "/cards": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["cards"], "summary": "List cards", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["cards"], "summary": "Issue a card", "responses": {"201": {"description": "Created"}}}
        },
        "/cards/{id}/activate": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["cards"], "summary": "Make the card the only active one", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/cards/{id}": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["cards"], "summary": "Remove a card", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/comparison": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["comparison"], "summary": "Services being compared", "responses": {"200": {"description": "OK"}}}
        },
        "/comparison/{service_id}": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["comparison"], "summary": "Add a service", "responses": {"201": {"description": "Created"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["comparison"], "summary": "Remove a service", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "PAY2U Subscriptions API",
	Description:      "Subscription catalog, billing and spend reports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
