// Package api holds the OpenAPI description of the TwoBolsos backend.
package api

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
    "securityDefinitions": {
        "Bearer": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a user",
                "parameters": [{"in": "body", "name": "user", "required": true, "schema": {"$ref": "#/definitions/controllers.RegisterEditable"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.User"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            }
        },
        "/auth/token": {
            "post": {
                "tags": ["Auth"],
                "summary": "Log in",
                "consumes": ["application/x-www-form-urlencoded"],
                "parameters": [
                    {"type": "string", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.Session"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"Bearer": []}],
                "tags": ["Auth"],
                "summary": "Get the authenticated user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            }
        },
        "/negocios": {
            "get": {
                "security": [{"Bearer": []}],
                "tags": ["Wallets"],
                "summary": "List wallets",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/controllers.Wallet"}}}
                }
            },
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["Wallets"],
                "summary": "Create wallet",
                "parameters": [{"in": "body", "name": "wallet", "required": true, "schema": {"$ref": "#/definitions/controllers.WalletEditable"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/controllers.Wallet"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            }
        },
        "/negocios/join": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["Wallets"],
                "summary": "Join a wallet with an invite code",
                "parameters": [{"type": "string", "name": "code", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.JoinResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            }
        },
        "/negocios/{id}": {
            "get": {
                "security": [{"Bearer": []}],
                "tags": ["Wallets"],
                "summary": "Get wallet",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.Wallet"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            },
            "delete": {
                "security": [{"Bearer": []}],
                "tags": ["Wallets"],
                "summary": "Delete wallet",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            }
        },
        "/negocios/{id}/dashboard": {
            "get": {
                "security": [{"Bearer": []}],
                "tags": ["Wallets"],
                "summary": "Get the dashboard of a wallet",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "name": "dias", "in": "query", "description": "Window in days, defaults to 30"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.Dashboard"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            }
        },
        "/negocios/{id}/invite": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["Wallets"],
                "summary": "Generate an invite code",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/controllers.Invite"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            }
        },
        "/negocios/{id}/members": {
            "get": {
                "security": [{"Bearer": []}],
                "tags": ["Members"],
                "summary": "List members",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/ledger.Member"}}}
                }
            }
        },
        "/negocios/{id}/members/{user_id}": {
            "patch": {
                "security": [{"Bearer": []}],
                "tags": ["Members"],
                "summary": "Change the role of a member",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "user_id", "in": "path", "required": true},
                    {"in": "body", "name": "member", "required": true, "schema": {"$ref": "#/definitions/controllers.MemberEditable"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ledger.Member"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            },
            "delete": {
                "security": [{"Bearer": []}],
                "tags": ["Members"],
                "summary": "Remove a member",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "user_id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            }
        },
        "/negocios/{id}/fixas": {
            "get": {
                "security": [{"Bearer": []}],
                "tags": ["Fixed expenses"],
                "summary": "List fixed expenses active in a month",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "mes", "in": "query", "description": "YYYY-MM, defaults to the current month"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/controllers.FixedExpense"}}}
                }
            },
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["Fixed expenses"],
                "summary": "Create fixed expense in a wallet",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "fixedExpense", "required": true, "schema": {"$ref": "#/definitions/controllers.FixedExpenseEditable"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.FixedExpense"}}
                }
            }
        },
        "/fixas": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["Fixed expenses"],
                "summary": "Create fixed expense",
                "parameters": [{"in": "body", "name": "fixedExpense", "required": true, "schema": {"$ref": "#/definitions/controllers.FixedExpenseEditable"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.FixedExpense"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            }
        },
        "/fixas/{id}": {
            "delete": {
                "security": [{"Bearer": []}],
                "tags": ["Fixed expenses"],
                "summary": "Delete fixed expense",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            }
        },
        "/fixas/{id}/pagar": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["Fixed expenses"],
                "summary": "Mark a fixed expense as paid",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "mes", "in": "query", "description": "YYYY-MM, defaults to the current month"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.FixedExpensePayment"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            }
        },
        "/transacoes": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["Transactions"],
                "summary": "Record transaction",
                "parameters": [{"in": "body", "name": "transaction", "required": true, "schema": {"$ref": "#/definitions/controllers.TransactionEditable"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Transaction"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            }
        },
        "/transacoes/{id}": {
            "delete": {
                "security": [{"Bearer": []}],
                "tags": ["Transactions"],
                "summary": "Delete transaction",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "tags": ["General"],
                "summary": "Get health",
                "responses": {
                    "204": {"description": "No Content"},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            }
        },
        "/version": {
            "get": {
                "tags": ["General"],
                "summary": "API version",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/router.VersionResponse"}}
                }
            }
        }
    },
    "definitions": {
        "httputil.HTTPError": {
            "type": "object",
            "properties": {"detail": {"type": "string", "example": "the name must not be empty"}}
        },
        "auth.Session": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string", "example": "bearer"},
                "user_id": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "controllers.RegisterEditable": {
            "type": "object",
            "properties": {
                "username": {"type": "string", "example": "ana"},
                "password": {"type": "string", "example": "correct horse"},
                "email": {"type": "string", "example": "ana@example.com"}
            }
        },
        "models.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "created_at": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "controllers.WalletEditable": {
            "type": "object",
            "properties": {
                "nome": {"type": "string", "example": "Casa"},
                "categoria": {"type": "string", "enum": ["STANDARD", "DRIVER"]},
                "cor": {"type": "string", "example": "#0d6efd"}
            }
        },
        "controllers.Wallet": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "created_at": {"type": "string"},
                "nome": {"type": "string"},
                "categoria": {"type": "string", "enum": ["STANDARD", "DRIVER"]},
                "cor": {"type": "string"},
                "saldo": {"type": "number", "example": 700},
                "role": {"type": "string", "enum": ["owner", "editor", "viewer"]},
                "owner_id": {"type": "string"},
                "owner_name": {"type": "string", "example": "Você"}
            }
        },
        "controllers.KPIs": {
            "type": "object",
            "properties": {
                "receita": {"type": "number"},
                "despesa": {"type": "number"},
                "saldo": {"type": "number"},
                "total_km": {"type": "number"},
                "total_litros": {"type": "number"},
                "autonomia": {"type": "number", "example": 12.5},
                "rendimento": {"type": "number"}
            }
        },
        "controllers.Chart": {
            "type": "object",
            "properties": {
                "labels": {"type": "array", "items": {"type": "string", "example": "2024-05-15"}},
                "receitas": {"type": "array", "items": {"type": "number"}},
                "despesas": {"type": "array", "items": {"type": "number"}}
            }
        },
        "controllers.Dashboard": {
            "type": "object",
            "properties": {
                "negocio": {"$ref": "#/definitions/controllers.Wallet"},
                "role": {"type": "string"},
                "kpis": {"$ref": "#/definitions/controllers.KPIs"},
                "extrato": {"type": "array", "items": {"$ref": "#/definitions/models.Transaction"}},
                "grafico": {"$ref": "#/definitions/controllers.Chart"},
                "pizza": {"type": "object", "additionalProperties": {"type": "number"}}
            }
        },
        "controllers.TransactionEditable": {
            "type": "object",
            "properties": {
                "negocio_id": {"type": "string"},
                "tipo": {"type": "string", "enum": ["income", "expense", "neutral"]},
                "descricao": {"type": "string", "example": "Aluguel"},
                "valor": {"type": "number", "example": 300},
                "data": {"type": "string", "example": "2024-05-15"},
                "tag": {"type": "string", "example": "Casa"},
                "km": {"type": "number"},
                "litros": {"type": "number"},
                "forma_pagamento": {"type": "string", "example": "pix"}
            }
        },
        "models.Transaction": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "created_at": {"type": "string"},
                "negocio_id": {"type": "string"},
                "tipo": {"type": "string"},
                "valor": {"type": "number"},
                "descricao": {"type": "string"},
                "data": {"type": "string"},
                "tag": {"type": "string"},
                "km": {"type": "number"},
                "litros": {"type": "number"},
                "forma_pagamento": {"type": "string"},
                "created_by": {"type": "string"},
                "created_by_name": {"type": "string"},
                "fixa_id": {"type": "string"}
            }
        },
        "controllers.FixedExpenseEditable": {
            "type": "object",
            "properties": {
                "negocio_id": {"type": "string"},
                "nome": {"type": "string", "example": "Internet"},
                "valor": {"type": "number", "example": 99.9},
                "tag": {"type": "string"},
                "dia_vencimento": {"type": "integer", "example": 10},
                "duracao_meses": {"type": "integer", "example": 12}
            }
        },
        "models.FixedExpense": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "created_at": {"type": "string"},
                "negocio_id": {"type": "string"},
                "nome": {"type": "string"},
                "valor": {"type": "number"},
                "tag": {"type": "string"},
                "dia_vencimento": {"type": "integer"},
                "duracao_meses": {"type": "integer"}
            }
        },
        "controllers.FixedExpense": {
            "allOf": [
                {"$ref": "#/definitions/models.FixedExpense"},
                {"type": "object", "properties": {"mes": {"type": "string", "example": "2024-05"}, "pago_neste_mes": {"type": "boolean"}}}
            ]
        },
        "models.FixedExpensePayment": {
            "type": "object",
            "properties": {
                "fixa_id": {"type": "string"},
                "mes": {"type": "string", "example": "2024-05"},
                "paid_at": {"type": "string"},
                "paid_by": {"type": "string"},
                "transacao_id": {"type": "string"}
            }
        },
        "controllers.Invite": {
            "type": "object",
            "properties": {"code": {"type": "string", "example": "K7Q2ZD"}, "expires": {"type": "string"}}
        },
        "controllers.JoinResponse": {
            "type": "object",
            "properties": {"msg": {"type": "string"}, "negocio": {"type": "string"}, "negocio_id": {"type": "string"}}
        },
        "controllers.MemberEditable": {
            "type": "object",
            "properties": {"role": {"type": "string", "enum": ["editor", "viewer"]}}
        },
        "ledger.Member": {
            "type": "object",
            "properties": {"user_id": {"type": "string"}, "username": {"type": "string"}, "role": {"type": "string"}}
        },
        "router.VersionResponse": {
            "type": "object",
            "properties": {"data": {"type": "object", "properties": {"version": {"type": "string", "example": "1.1.0"}}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "",
	Host:             "",
	BasePath:         "",
	Schemes:          []string{},
	Title:            "",
	Description:      "",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
