package errors

import (
	"encoding/json"
	"net/http"
)

// ProblemDetails is an RFC 7807 problem response body.
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	extensions map[string]interface{}
}

// NewProblemDetails creates a problem response for the given status.
func NewProblemDetails(status int, problemType, title, detail, instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:     problemType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	}
}

// WithExtension attaches an extension member to the problem body.
func (p *ProblemDetails) WithExtension(key string, value interface{}) *ProblemDetails {
	if p.extensions == nil {
		p.extensions = make(map[string]interface{})
	}
	p.extensions[key] = value
	return p
}

// MarshalJSON inlines extension members next to the standard fields.
func (p *ProblemDetails) MarshalJSON() ([]byte, error) {
	body := map[string]interface{}{
		"type":   p.Type,
		"title":  p.Title,
		"status": p.Status,
	}
	if p.Detail != "" {
		body["detail"] = p.Detail
	}
	if p.Instance != "" {
		body["instance"] = p.Instance
	}
	for key, value := range p.extensions {
		body[key] = value
	}
	return json.Marshal(body)
}

// Write sends the problem body with the application/problem+json content
// type. The render responder would rewrite the content type to plain
// JSON, so problems bypass it.
func (p *ProblemDetails) Write(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	return json.NewEncoder(w).Encode(p)
}
