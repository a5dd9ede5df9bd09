package openapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

const (
	// maxSpecSize caps how much of a remote spec we will read.
	maxSpecSize = 20 << 20 // 20 MiB

	loadTimeout = 30 * time.Second
)

// LoadError reports a failure to fetch or parse a specification.
type LoadError struct {
	Source  string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Source != "" {
		msg = e.Source + ": " + msg
	}
	if e.Cause != nil {
		msg = msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Cause }

// Load fetches and parses an OpenAPI 3.0 description from an http(s) URL or
// a local file path. YAML and JSON are both accepted; yaml.Unmarshal handles
// either since JSON is a YAML subset.
func Load(ctx context.Context, locator string) (*Document, error) {
	data, err := fetch(ctx, locator)
	if err != nil {
		return nil, err
	}
	return Parse(data, locator)
}

// Parse decodes already-fetched specification bytes into a Document.
func Parse(data []byte, source string) (*Document, error) {
	var root map[string]interface{}
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &LoadError{
			Source:  source,
			Message: "failed to parse specification",
			Cause:   err,
		}
	}

	version := stringField(root, "openapi")
	if version == "" {
		return nil, &LoadError{
			Source:  source,
			Message: "not an OpenAPI 3.x specification (missing openapi field)",
		}
	}
	if !strings.HasPrefix(version, "3.") {
		return nil, &LoadError{
			Source:  source,
			Message: fmt.Sprintf("unsupported OpenAPI version %q", version),
		}
	}

	return &Document{source: source, raw: data, root: root}, nil
}

// Validate runs a structural check of the document using kin-openapi.
// Resolution and generation do not depend on it; callers use it to warn about
// malformed specs before probing them.
func (d *Document) Validate(ctx context.Context) error {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = false

	doc, err := loader.LoadFromData(d.raw)
	if err != nil {
		return fmt.Errorf("spec did not load cleanly: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("spec failed validation: %w", err)
	}
	return nil
}

func fetch(ctx context.Context, locator string) ([]byte, error) {
	if strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://") {
		return fetchURL(ctx, locator)
	}

	data, err := os.ReadFile(locator)
	if err != nil {
		return nil, &LoadError{
			Source:  locator,
			Message: "failed to read specification file",
			Cause:   err,
		}
	}
	return data, nil
}

func fetchURL(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &LoadError{Source: url, Message: "invalid URL", Cause: err}
	}
	req.Header.Set("Accept", "application/json, application/yaml, text/yaml")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, &LoadError{Source: url, Message: "failed to fetch specification", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &LoadError{
			Source:  url,
			Message: fmt.Sprintf("unexpected status %d fetching specification", resp.StatusCode),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSpecSize))
	if err != nil {
		return nil, &LoadError{Source: url, Message: "failed to read response", Cause: err}
	}
	return data, nil
}
