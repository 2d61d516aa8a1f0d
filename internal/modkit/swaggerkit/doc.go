package swaggerkit

import (
	"net/http"
	"strconv"
	"strings"
)

// Spec is the parsed OpenAPI 3 document served at /api/docs/doc.json
type Spec map[string]any

// SpecMutator lets modules add their paths before the document is served
type SpecMutator func(Spec)

// Operation documents one route
type Operation struct {
	Tag     string
	Summary string
	Body    any // example request body; nil means none
	Example any // example data payload of the success response
	Status  int // success status, 200 when zero
}

// Add documents method path. Repeated calls for the same path merge
func (s Spec) Add(method, path string, op Operation) {
	paths := child(map[string]any(s), "paths")
	node := child(paths, path)

	status := op.Status
	if status == 0 {
		status = http.StatusOK
	}
	ok := map[string]any{"description": http.StatusText(status)}
	if status != http.StatusNoContent {
		ok["content"] = map[string]any{
			"application/json": map[string]any{
				"schema":  map[string]any{"$ref": "#/components/schemas/Envelope"},
				"example": map[string]any{"status_code": status, "status": http.StatusText(status), "data": op.Example},
			},
		}
	}

	o := map[string]any{
		"tags":      []any{op.Tag},
		"summary":   op.Summary,
		"responses": map[string]any{strconv.Itoa(status): ok},
	}
	if op.Body != nil {
		o["requestBody"] = map[string]any{
			"content": map[string]any{
				"application/json": map[string]any{"example": op.Body},
			},
		}
	}
	node[strings.ToLower(method)] = o
}

// ensureServers pins the document to OAS 3.0.3 with the given server url.
// Swagger UI cannot render 3.1 yet
func ensureServers(s Spec, url string) {
	if v, ok := s["openapi"].(string); !ok || !strings.HasPrefix(v, "3.0") {
		s["openapi"] = "3.0.3"
	}
	delete(s, "swagger")
	if _, ok := s["servers"]; !ok && url != "" {
		s["servers"] = []any{map[string]any{"url": url}}
	}
}

// addDefault walks every operation and injects a failure response if absent
func addDefault(s Spec, status, code int, msg string) {
	resp := map[string]any{
		"description": http.StatusText(status),
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/Envelope"},
				"example": map[string]any{
					"status_code": status,
					"status":      http.StatusText(status),
					"code":        code,
					"error":       msg,
					"request_id":  "qrgate/abc-000001",
				},
			},
		},
	}
	paths, _ := s["paths"].(map[string]any)
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			responses := child(op, "responses")
			if _, exists := responses[strconv.Itoa(status)]; !exists {
				responses[strconv.Itoa(status)] = resp
			}
		}
	}
}

func child(m map[string]any, key string) map[string]any {
	if c, ok := m[key].(map[string]any); ok {
		return c
	}
	c := map[string]any{}
	m[key] = c
	return c
}
