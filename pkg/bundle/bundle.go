// Package bundle persists generated test data alongside the call context it
// was produced for, so a generated request can be replayed later without
// re-reading the API description. Bundles are stored as JSON in an
// XDG-compliant data directory.
package bundle

import (
	"strings"
	"time"
)

// OperationRef identifies the API operation a bundle belongs to.
type OperationRef struct {
	Method  string `json:"method"`
	Path    string `json:"path"`
	Summary string `json:"summary,omitempty"`
}

// ClientCert points at a TLS client certificate pair on disk.
type ClientCert struct {
	CertFile string `json:"certFile"`
	KeyFile  string `json:"keyFile"`
}

// TestBundle is one saved generation result: the input payload that was
// generated, the response it produced when executed (if any), and the headers
// and endpoints needed to replay the call.
type TestBundle struct {
	ID            string            `json:"id"`
	Operation     OperationRef      `json:"operation"`
	InputJSON     string            `json:"inputJson"`
	OutputJSON    string            `json:"outputJson,omitempty"`
	CustomHeaders map[string]string `json:"customHeaders,omitempty"`
	GlobalHeaders map[string]string `json:"globalHeaders,omitempty"`
	ClientCert    *ClientCert       `json:"clientCert,omitempty"`
	APIBaseURL    string            `json:"apiBaseUrl,omitempty"`
	OpenAPISpecURL string           `json:"openApiSpecUrl"`
	Timestamp     time.Time         `json:"timestamp"`
}

// Matches reports whether the bundle was generated for the given operation.
// Method comparison is case-insensitive; path templates must match exactly.
func (b *TestBundle) Matches(method, path string) bool {
	return strings.EqualFold(b.Operation.Method, method) && b.Operation.Path == path
}
