// Package docs holds the swagger spec of the wallet API, served by
// swaggo/http-swagger under /swagger/.
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
        "/qcc/generate": {
            "post": {
                "description": "Generates a new QCC wallet from a fresh 12-word mnemonic and saves it to the .cwt file. The mnemonic is returned once.",
                "produces": ["application/json"],
                "tags": ["qcc"],
                "summary": "Generate new wallet",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.GenerateResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/qcc/restore": {
            "post": {
                "description": "Derives the wallet for a BIP-39 mnemonic and saves it to the .cwt file",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["qcc"],
                "summary": "Restore wallet from mnemonic",
                "parameters": [
                    {"description": "Recovery phrase", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.RestoreRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.GenerateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/qcc/import": {
            "post": {
                "description": "Decrypts a .qcc key file and saves its wallet to the .cwt file",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["qcc"],
                "summary": "Import legacy key file",
                "parameters": [
                    {"description": "Key file", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.ImportRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.GenerateResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/qcc/address": {
            "get": {
                "description": "Returns the wallet address, public key and address QR code",
                "produces": ["application/json"],
                "tags": ["qcc"],
                "summary": "Get wallet address",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.AddressResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/qcc/state": {
            "get": {
                "description": "Returns the persisted wallet state shape; private key and mnemonic are always null",
                "produces": ["application/json"],
                "tags": ["qcc"],
                "summary": "Get wallet state",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.WalletState"}}
                }
            }
        },
        "/qcc/balance": {
            "get": {
                "description": "Gets the QCC balance of the wallet address from the backend",
                "produces": ["application/json"],
                "tags": ["qcc"],
                "summary": "Get wallet balance",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.BalanceResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/qcc/pay": {
            "post": {
                "description": "Signs a transfer with the wallet key and broadcasts it",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["qcc"],
                "summary": "Send QCC",
                "parameters": [
                    {"description": "Payment data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.PayRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.PayResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/qcc/receive": {
            "post": {
                "description": "Creates a payment request QR code for the wallet address, valid for 30 minutes",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["qcc"],
                "summary": "Request a payment",
                "parameters": [
                    {"description": "Requested amount", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.ReceiveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ReceiveResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/qcc/scan": {
            "post": {
                "description": "Decodes scanned QR content into a payment request",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["qcc"],
                "summary": "Decode a scanned QR code",
                "parameters": [
                    {"description": "QR content", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.ScanRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ScanResponse"}},
                    "410": {"description": "Gone", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/qcc/transactions/{hash}": {
            "get": {
                "description": "Checks whether the backend knows a transaction hash",
                "produces": ["application/json"],
                "tags": ["qcc"],
                "summary": "Verify a transaction",
                "parameters": [
                    {"type": "string", "description": "Transaction hash", "name": "hash", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.VerifyTransactionResult"}}
                }
            }
        }
    },
    "definitions": {
        "model.AddressResponse": {
            "type": "object",
            "properties": {
                "QR": {"type": "string"},
                "address": {"type": "string"},
                "publicKey": {"type": "string"}
            }
        },
        "model.BalanceResponse": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "balance": {"type": "string"},
                "baseUnits": {"type": "string"}
            }
        },
        "model.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "model.GenerateResponse": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "message": {"type": "string"},
                "mnemonic": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "model.ImportRequest": {
            "type": "object",
            "required": ["keyFile"],
            "properties": {
                "keyFile": {"type": "string"},
                "passphrase": {"type": "string"}
            }
        },
        "model.PayRequest": {
            "type": "object",
            "required": ["amount", "toAddress"],
            "properties": {
                "amount": {"type": "string"},
                "toAddress": {"type": "string"}
            }
        },
        "model.PayResponse": {
            "type": "object",
            "properties": {
                "txId": {"type": "string"}
            }
        },
        "model.ReceiveRequest": {
            "type": "object",
            "required": ["amount"],
            "properties": {
                "amount": {"type": "string"}
            }
        },
        "model.ReceiveResponse": {
            "type": "object",
            "properties": {
                "QR": {"type": "string"},
                "expiresAt": {"type": "integer"},
                "payload": {"type": "string"}
            }
        },
        "model.RestoreRequest": {
            "type": "object",
            "required": ["mnemonic"],
            "properties": {
                "mnemonic": {"type": "string"}
            }
        },
        "model.ScanRequest": {
            "type": "object",
            "required": ["content"],
            "properties": {
                "content": {"type": "string"}
            }
        },
        "model.ScanResponse": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "amount": {"type": "string"},
                "expiry": {"type": "integer"},
                "timestamp": {"type": "integer"}
            }
        },
        "model.VerifyTransactionResult": {
            "type": "object",
            "properties": {
                "details": {"type": "object", "additionalProperties": true},
                "error": {"type": "string"},
                "exists": {"type": "boolean"}
            }
        },
        "model.WalletState": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "balance": {"type": "string"},
                "isConnected": {"type": "boolean"},
                "isHydrated": {"type": "boolean"},
                "isLoading": {"type": "boolean"},
                "mnemonic": {"type": "string"},
                "privateKey": {"type": "string"}
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
	Title:            "QCC Wallet API",
	Description:      "Local QCC wallet: key management, signing and payments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
