// Package docs holds the OpenAPI document served under /swagger/.
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
		"/auth/inscription": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Register a member account",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/identityhttp.RegisterResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/identityhttp.RegisterRequest"
						}
					}
				]
			}
		},
		"/auth/connexion": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Log in and obtain a bearer token",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/identityhttp.LoginResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/identityhttp.LoginRequest"
						}
					}
				]
			}
		},
		"/auth/refresh": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Exchange a still-valid bearer token for a fresh one",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/identityhttp.LoginResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				}
			}
		},
		"/auth/moi": {
			"get": {
				"tags": [
					"auth"
				],
				"summary": "Describe the authenticated caller",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/identityhttp.CallerResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/utilisateurs/{id}/roles": {
			"get": {
				"tags": [
					"auth"
				],
				"summary": "List role assignments of a user",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/identityhttp.ListUserRolesResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Entity id",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			},
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Grant a role (librarian)",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/identityhttp.GrantRoleResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Entity id",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/identityhttp.GrantRoleRequest"
						}
					}
				]
			}
		},
		"/oeuvres/depot-md": {
			"post": {
				"tags": [
					"oeuvres"
				],
				"summary": "Submit a markdown work",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/workshttp.WorkResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/workshttp.SubmitWorkRequest"
						}
					}
				]
			}
		},
		"/oeuvres/depot-pdf": {
			"post": {
				"tags": [
					"oeuvres"
				],
				"summary": "Convert a PDF then submit it",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/workshttp.WorkResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"502": {
						"description": "Bad Gateway",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/workshttp.SubmitDocumentRequest"
						}
					}
				]
			}
		},
		"/oeuvres": {
			"get": {
				"tags": [
					"oeuvres"
				],
				"summary": "List works by state (librarian)",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/workshttp.ListWorksResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "submitted, in_review, validated or rejected",
						"name": "etat",
						"in": "query",
						"required": false
					}
				]
			}
		},
		"/oeuvres/mes-oeuvres": {
			"get": {
				"tags": [
					"oeuvres"
				],
				"summary": "List works submitted by the caller",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/workshttp.ListWorksResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/oeuvres/{id}": {
			"get": {
				"tags": [
					"oeuvres"
				],
				"summary": "Get a work",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/workshttp.WorkResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Entity id",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/oeuvres/{id}/traiter": {
			"post": {
				"tags": [
					"oeuvres"
				],
				"summary": "Start reviewing a work (librarian)",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/workshttp.WorkResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Entity id",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/oeuvres/{id}/valider": {
			"post": {
				"tags": [
					"oeuvres"
				],
				"summary": "Validate a work into a destination (librarian)",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/workshttp.WorkResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Entity id",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/workshttp.ValidateWorkRequest"
						}
					}
				]
			}
		},
		"/oeuvres/{id}/rejeter": {
			"post": {
				"tags": [
					"oeuvres"
				],
				"summary": "Reject a work (librarian)",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/workshttp.WorkResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Entity id",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/workshttp.RejectWorkRequest"
						}
					}
				]
			}
		},
		"/oeuvres/{id}/reconvertir": {
			"post": {
				"tags": [
					"oeuvres"
				],
				"summary": "Re-run PDF conversion of a work under review (librarian)",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/workshttp.WorkResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"502": {
						"description": "Bad Gateway",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Entity id",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/workshttp.ReconvertWorkRequest"
						}
					}
				]
			}
		},
		"/oeuvres/{id}/classifier": {
			"post": {
				"tags": [
					"oeuvres"
				],
				"summary": "Assign categories to a work under moderation (librarian)",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/workshttp.WorkResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Entity id",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/workshttp.ClassifyWorkRequest"
						}
					}
				]
			}
		},
		"/oeuvres/categorie/{category}": {
			"get": {
				"tags": [
					"oeuvres"
				],
				"summary": "List works of a category",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/workshttp.ListWorksResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Category code, e.g. LIVRE_ROMAN",
						"name": "category",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/categories": {
			"get": {
				"tags": [
					"oeuvres"
				],
				"summary": "List the category vocabulary",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/workshttp.CategoriesResponse"
						}
					}
				}
			}
		},
		"/catalogue/statistiques": {
			"get": {
				"tags": [
					"oeuvres"
				],
				"summary": "Count works per state and destination",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/workshttp.CatalogueStatisticsResponse"
						}
					}
				}
			}
		},
		"/catalogue/{destination}": {
			"get": {
				"tags": [
					"oeuvres"
				],
				"summary": "List published works of a destination",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/workshttp.ListWorksResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "fond_commun or sequestre",
						"name": "destination",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/emprunts/emprunter": {
			"post": {
				"tags": [
					"emprunts"
				],
				"summary": "Borrow a work",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/loanshttp.LoanResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/loanshttp.BorrowLoanRequest"
						}
					}
				]
			}
		},
		"/emprunts/mes-emprunts": {
			"get": {
				"tags": [
					"emprunts"
				],
				"summary": "List open loans of the caller",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/loanshttp.ListLoansResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/emprunts/{id}": {
			"get": {
				"tags": [
					"emprunts"
				],
				"summary": "Get a loan",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/loanshttp.LoanResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Entity id",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/emprunts/{id}/retourner": {
			"post": {
				"tags": [
					"emprunts"
				],
				"summary": "Return a loan",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/loanshttp.LoanResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Entity id",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/emprunts/{id}/renouveler": {
			"post": {
				"tags": [
					"emprunts"
				],
				"summary": "Renew a loan",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/loanshttp.LoanResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Entity id",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/loanshttp.RenewLoanRequest"
						}
					}
				]
			}
		},
		"/demandes/soumettre": {
			"post": {
				"tags": [
					"demandes"
				],
				"summary": "Request librarian promotion",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/promotionshttp.PromotionRequestResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/promotionshttp.SubmitRequestRequest"
						}
					}
				]
			}
		},
		"/demandes/mes-demandes": {
			"get": {
				"tags": [
					"demandes"
				],
				"summary": "List requests of the caller",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/promotionshttp.ListPromotionRequestsResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/demandes/en-attente": {
			"get": {
				"tags": [
					"demandes"
				],
				"summary": "List pending requests (librarian)",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/promotionshttp.ListPromotionRequestsResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/demandes/historique": {
			"get": {
				"tags": [
					"demandes"
				],
				"summary": "List decided requests, newest first (librarian)",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/promotionshttp.ListPromotionRequestsResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"description": "Maximum rows, default 50",
						"name": "limit",
						"in": "query",
						"required": false
					}
				]
			}
		},
		"/demandes/statistiques": {
			"get": {
				"tags": [
					"demandes"
				],
				"summary": "Request counts and mean processing delay (librarian)",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/promotionshttp.StatisticsResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/demandes/{id}": {
			"get": {
				"tags": [
					"demandes"
				],
				"summary": "Get a request",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/promotionshttp.PromotionRequestResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Entity id",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/demandes/{id}/approuver": {
			"post": {
				"tags": [
					"demandes"
				],
				"summary": "Approve a request and grant the librarian role",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/promotionshttp.PromotionRequestResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Entity id",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/demandes/{id}/refuser": {
			"post": {
				"tags": [
					"demandes"
				],
				"summary": "Refuse a request (librarian)",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/promotionshttp.PromotionRequestResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Entity id",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/promotionshttp.RefuseRequestRequest"
						}
					}
				]
			}
		},
		"/demandes/{id}/annuler": {
			"post": {
				"tags": [
					"demandes"
				],
				"summary": "Cancel an own pending request",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/promotionshttp.PromotionRequestResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "Entity id",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/audit/{kind}/{id}": {
			"get": {
				"tags": [
					"audit"
				],
				"summary": "Audit trail of an entity (librarian)",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httpserver.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"description": "work, loan or promotion_request",
						"name": "kind",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Entity id",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/healthz": {
			"get": {
				"tags": [
					"ops"
				],
				"summary": "Liveness probe",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		}
	},
	"definitions": {
		"httpserver.ErrorResponse": {
			"type": "object",
			"properties": {
				"code": {
					"type": "string"
				},
				"message": {
					"type": "string"
				}
			}
		},
		"identityhttp.RegisterRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				},
				"display_name": {
					"type": "string"
				}
			},
			"required": [
				"email",
				"password"
			]
		},
		"identityhttp.LoginRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			},
			"required": [
				"email",
				"password"
			]
		},
		"identityhttp.UserDTO": {
			"type": "object",
			"properties": {
				"user_id": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"display_name": {
					"type": "string"
				},
				"created_at": {
					"type": "string"
				}
			}
		},
		"identityhttp.RegisterResponse": {
			"type": "object",
			"properties": {
				"user": {
					"$ref": "#/definitions/identityhttp.UserDTO"
				},
				"roles": {
					"type": "array",
					"items": {
						"type": "string"
					}
				}
			}
		},
		"identityhttp.LoginResponse": {
			"type": "object",
			"properties": {
				"access_token": {
					"type": "string"
				},
				"token_type": {
					"type": "string"
				},
				"expires_at": {
					"type": "string"
				},
				"user": {
					"$ref": "#/definitions/identityhttp.UserDTO"
				}
			}
		},
		"identityhttp.CallerResponse": {
			"type": "object",
			"properties": {
				"user_id": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"display_name": {
					"type": "string"
				},
				"roles": {
					"type": "array",
					"items": {
						"type": "string"
					}
				}
			}
		},
		"identityhttp.GrantRoleRequest": {
			"type": "object",
			"properties": {
				"role": {
					"type": "string"
				}
			},
			"required": [
				"role"
			]
		},
		"identityhttp.RoleAssignmentDTO": {
			"type": "object",
			"properties": {
				"user_id": {
					"type": "string"
				},
				"role": {
					"type": "string"
				},
				"granted_by": {
					"type": "string"
				},
				"granted_at": {
					"type": "string"
				}
			}
		},
		"identityhttp.GrantRoleResponse": {
			"type": "object",
			"properties": {
				"assignment": {
					"$ref": "#/definitions/identityhttp.RoleAssignmentDTO"
				},
				"created": {
					"type": "boolean"
				}
			}
		},
		"identityhttp.ListUserRolesResponse": {
			"type": "object",
			"properties": {
				"user_id": {
					"type": "string"
				},
				"roles": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/identityhttp.RoleAssignmentDTO"
					}
				}
			}
		},
		"workshttp.ConversionOptionsDTO": {
			"type": "object",
			"properties": {
				"dpi": {
					"type": "integer"
				},
				"lang": {
					"type": "string"
				},
				"left_margin_ratio": {
					"type": "number"
				}
			}
		},
		"workshttp.SubmitWorkRequest": {
			"type": "object",
			"properties": {
				"title": {
					"type": "string"
				},
				"author": {
					"type": "string"
				},
				"content": {
					"type": "string"
				}
			},
			"required": [
				"title"
			]
		},
		"workshttp.SubmitDocumentRequest": {
			"type": "object",
			"properties": {
				"title": {
					"type": "string"
				},
				"author": {
					"type": "string"
				},
				"document": {
					"type": "string",
					"format": "byte"
				},
				"options": {
					"$ref": "#/definitions/workshttp.ConversionOptionsDTO"
				}
			},
			"required": [
				"title",
				"document"
			]
		},
		"workshttp.ValidateWorkRequest": {
			"type": "object",
			"properties": {
				"destination": {
					"type": "string"
				}
			},
			"required": [
				"destination"
			]
		},
		"workshttp.RejectWorkRequest": {
			"type": "object",
			"properties": {
				"motif": {
					"type": "string"
				}
			}
		},
		"workshttp.ReconvertWorkRequest": {
			"type": "object",
			"properties": {
				"document": {
					"type": "string",
					"format": "byte"
				},
				"options": {
					"$ref": "#/definitions/workshttp.ConversionOptionsDTO"
				}
			}
		},
		"workshttp.WorkDTO": {
			"type": "object",
			"properties": {
				"categories": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"work_id": {
					"type": "string"
				},
				"title": {
					"type": "string"
				},
				"author": {
					"type": "string"
				},
				"content": {
					"type": "string"
				},
				"submitter_id": {
					"type": "string"
				},
				"state": {
					"type": "string"
				},
				"destination": {
					"type": "string"
				},
				"submitted_at": {
					"type": "string"
				},
				"review_started_at": {
					"type": "string"
				},
				"decided_at": {
					"type": "string"
				},
				"decided_by": {
					"type": "string"
				},
				"rejection_reason": {
					"type": "string"
				},
				"terminal": {
					"type": "boolean"
				},
				"delay_seconds": {
					"type": "integer"
				},
				"version": {
					"type": "integer"
				}
			}
		},
		"workshttp.WorkResponse": {
			"type": "object",
			"properties": {
				"work": {
					"$ref": "#/definitions/workshttp.WorkDTO"
				}
			}
		},
		"workshttp.ListWorksResponse": {
			"type": "object",
			"properties": {
				"items": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/workshttp.WorkDTO"
					}
				}
			}
		},
		"workshttp.ClassifyWorkRequest": {
			"type": "object",
			"properties": {
				"categories": {
					"type": "array",
					"items": {
						"type": "string"
					}
				}
			},
			"required": [
				"categories"
			]
		},
		"workshttp.CategoryDTO": {
			"type": "object",
			"properties": {
				"code": {
					"type": "string"
				},
				"label": {
					"type": "string"
				},
				"family": {
					"type": "string"
				}
			}
		},
		"workshttp.CategoriesResponse": {
			"type": "object",
			"properties": {
				"items": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/workshttp.CategoryDTO"
					}
				},
				"by_family": {
					"type": "object",
					"additionalProperties": {
						"type": "array",
						"items": {
							"$ref": "#/definitions/workshttp.CategoryDTO"
						}
					}
				}
			}
		},
		"workshttp.CatalogueStatisticsResponse": {
			"type": "object",
			"properties": {
				"total": {
					"type": "integer"
				},
				"by_state": {
					"type": "object",
					"additionalProperties": {
						"type": "integer"
					}
				},
				"by_destination": {
					"type": "object",
					"additionalProperties": {
						"type": "integer"
					}
				}
			}
		},
		"loanshttp.BorrowLoanRequest": {
			"type": "object",
			"properties": {
				"work_id": {
					"type": "string"
				},
				"duration_days": {
					"type": "integer"
				}
			},
			"required": [
				"work_id"
			]
		},
		"loanshttp.RenewLoanRequest": {
			"type": "object",
			"properties": {
				"extra_days": {
					"type": "integer"
				},
				"override": {
					"type": "boolean"
				}
			}
		},
		"loanshttp.LoanDTO": {
			"type": "object",
			"properties": {
				"loan_id": {
					"type": "string"
				},
				"work_id": {
					"type": "string"
				},
				"work_title": {
					"type": "string"
				},
				"borrower_id": {
					"type": "string"
				},
				"state": {
					"type": "string"
				},
				"started_at": {
					"type": "string"
				},
				"due_at": {
					"type": "string"
				},
				"returned_at": {
					"type": "string"
				},
				"status": {
					"type": "string"
				},
				"renewal_count": {
					"type": "integer"
				},
				"days_remaining": {
					"type": "integer"
				},
				"expired": {
					"type": "boolean"
				},
				"delay_seconds": {
					"type": "integer"
				},
				"version": {
					"type": "integer"
				}
			}
		},
		"loanshttp.LoanResponse": {
			"type": "object",
			"properties": {
				"loan": {
					"$ref": "#/definitions/loanshttp.LoanDTO"
				}
			}
		},
		"loanshttp.ListLoansResponse": {
			"type": "object",
			"properties": {
				"items": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/loanshttp.LoanDTO"
					}
				}
			}
		},
		"promotionshttp.SubmitRequestRequest": {
			"type": "object",
			"properties": {
				"motivation": {
					"type": "string"
				}
			},
			"required": [
				"motivation"
			]
		},
		"promotionshttp.RefuseRequestRequest": {
			"type": "object",
			"properties": {
				"motif": {
					"type": "string"
				}
			},
			"required": [
				"motif"
			]
		},
		"promotionshttp.PromotionRequestDTO": {
			"type": "object",
			"properties": {
				"request_id": {
					"type": "string"
				},
				"requester_id": {
					"type": "string"
				},
				"motivation": {
					"type": "string"
				},
				"state": {
					"type": "string"
				},
				"submitted_at": {
					"type": "string"
				},
				"decided_at": {
					"type": "string"
				},
				"decided_by": {
					"type": "string"
				},
				"refusal_motif": {
					"type": "string"
				},
				"delay_seconds": {
					"type": "integer"
				},
				"version": {
					"type": "integer"
				}
			}
		},
		"promotionshttp.PromotionRequestResponse": {
			"type": "object",
			"properties": {
				"request": {
					"$ref": "#/definitions/promotionshttp.PromotionRequestDTO"
				}
			}
		},
		"promotionshttp.ListPromotionRequestsResponse": {
			"type": "object",
			"properties": {
				"items": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/promotionshttp.PromotionRequestDTO"
					}
				}
			}
		},
		"promotionshttp.StatisticsResponse": {
			"type": "object",
			"properties": {
				"total": {
					"type": "integer"
				},
				"pending": {
					"type": "integer"
				},
				"approved": {
					"type": "integer"
				},
				"refused": {
					"type": "integer"
				},
				"cancelled": {
					"type": "integer"
				},
				"mean_delay_days": {
					"type": "number"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Bibliotheque API",
	Description:      "Moderation of submitted works, loans and librarian promotion requests.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
