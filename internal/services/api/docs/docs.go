// Package docs holds the base OpenAPI document of the station API. Modules
// add their paths through swaggerkit mutators when the document is served
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.0.3",
    "info": {
        "title": "{{.Title}}",
        "description": "{{.Description}}",
        "version": "{{.Version}}"
    },
    "tags": [
        {"name": "Meta", "description": "Health, readiness and build info"},
        {"name": "Station", "description": "Scan gate state, scans, errors and re-arm"}
    ],
    "paths": {},
    "components": {
        "schemas": {
            "Envelope": {
                "type": "object",
                "description": "Standard response envelope",
                "properties": {
                    "status_code": {"type": "integer", "format": "int32"},
                    "status": {"type": "string"},
                    "code": {"type": "integer", "format": "int32"},
                    "error": {"type": "string"},
                    "request_id": {"type": "string"},
                    "data": {}
                },
                "required": ["status_code", "status"]
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "dev",
	Title:            "qrgate API",
	Description:      "Scan station API: one navigation per arm cycle",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
