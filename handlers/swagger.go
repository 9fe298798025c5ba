package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the console API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRoutes) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>users-admin: Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "users-admin", "version": "v0.1.0" },
  "components": {
    "schemas": {
      "User": { "type": "object", "properties": { "id": {"type":"integer"}, "name": {"type":"string"}, "email": {"type":"string"} } },
      "UserInput": { "type": "object", "required": ["name","email"], "properties": { "name": {"type":"string"}, "email": {"type":"string"} } }
    },
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer" } }
  },
  "paths": {
    "/api/v1/users": {
      "get": {
        "summary": "Filtered, sorted and paginated users",
        "parameters": [
          {"name":"q","in":"query","schema":{"type":"string"}},
          {"name":"sort","in":"query","schema":{"type":"string","enum":["name","email"]}},
          {"name":"dir","in":"query","schema":{"type":"string","enum":["asc","desc"]}},
          {"name":"page","in":"query","schema":{"type":"integer"}},
          {"name":"size","in":"query","schema":{"type":"integer"}}
        ],
        "responses": { "200": { "description": "page of users" } }
      },
      "post": {
        "summary": "Create a user",
        "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/UserInput"} } } },
        "responses": { "201": { "description": "created user" }, "400": { "description": "name and email are required" }, "502": { "description": "remote resource failed" } }
      }
    },
    "/api/v1/users/{id}": {
      "get": { "summary": "Get a user", "responses": { "200": { "description": "user" }, "404": { "description": "not held locally" } } },
      "put": {
        "summary": "Replace a user",
        "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/UserInput"} } } },
        "responses": { "200": { "description": "updated user" }, "400": { "description": "invalid input" }, "502": { "description": "remote resource failed" } }
      },
      "delete": { "summary": "Delete a user", "responses": { "204": { "description": "deleted" }, "502": { "description": "remote resource failed" } } }
    },
    "/api/v1/users/refresh": {
      "post": { "summary": "Refetch the collection from the remote resource", "responses": { "200": { "description": "count of users" }, "502": { "description": "remote resource failed" } } }
    },
    "/api/v1/users/pending": {
      "get": { "summary": "Creations still waiting for the remote resource", "responses": { "200": { "description": "pending entries" } } }
    },
    "/api/v1/users/export": {
      "post": { "summary": "Export the current view as CSV to object storage", "responses": { "201": { "description": "presigned download URL" }, "503": { "description": "export storage not configured" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
