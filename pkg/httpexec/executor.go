// Package httpexec executes API calls described by an operation: it fills
// path templates, encodes query parameters, applies headers and dispatches
// the request, capturing the full response for later bundling.
package httpexec

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// responseBodyLimit caps how much of a response body is captured.
const responseBodyLimit = 10 << 20 // 10 MiB

// Executor dispatches requests against one API base URL. Global headers are
// applied to every request; per-request headers override them on conflict.
type Executor struct {
	baseURL       string
	httpClient    *http.Client
	globalHeaders map[string]string
}

// Option configures an Executor.
type Option func(*Executor) error

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Executor) error {
		e.httpClient.Timeout = timeout
		return nil
	}
}

// WithGlobalHeaders sets headers applied to every request.
func WithGlobalHeaders(headers map[string]string) Option {
	return func(e *Executor) error {
		e.globalHeaders = headers
		return nil
	}
}

// WithClientCert loads a TLS client certificate pair for mutual TLS.
func WithClientCert(certFile, keyFile string) Option {
	return func(e *Executor) error {
		cert, err := tls.LoadX509KeyPair(certFile, keyFile)
		if err != nil {
			return fmt.Errorf("failed to load client certificate: %w", err)
		}
		transport, ok := e.httpClient.Transport.(*http.Transport)
		if !ok || transport == nil {
			transport = http.DefaultTransport.(*http.Transport).Clone()
		}
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{}
		}
		transport.TLSClientConfig.Certificates = append(transport.TLSClientConfig.Certificates, cert)
		e.httpClient.Transport = transport
		return nil
	}
}

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Executor) error {
		e.httpClient = client
		return nil
	}
}

// New creates an executor for the given base URL.
func New(baseURL string, opts ...Option) (*Executor, error) {
	e := &Executor{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Request describes one call to make. Path is the operation's path template;
// placeholders are filled from PathParams.
type Request struct {
	Method     string
	Path       string
	PathParams map[string]string
	Query      map[string]string
	Headers    map[string]string
	Body       []byte
	// ContentType is sent when Body is non-empty. Defaults to
	// application/json.
	ContentType string
}

// Response captures the outcome of an executed request.
type Response struct {
	StatusCode int
	Status     string
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// Execute dispatches the request and captures the response. A non-2xx status
// is not an error; callers inspect StatusCode themselves.
func (e *Executor) Execute(ctx context.Context, req *Request) (*Response, error) {
	target, err := e.buildURL(req)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, strings.ToUpper(req.Method), target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	for name, value := range e.globalHeaders {
		httpReq.Header.Set(name, value)
	}
	for name, value := range req.Headers {
		httpReq.Header.Set(name, value)
	}
	if len(req.Body) > 0 && httpReq.Header.Get("Content-Type") == "" {
		contentType := req.ContentType
		if contentType == "" {
			contentType = "application/json"
		}
		httpReq.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Headers:    resp.Header.Clone(),
		Body:       data,
		Duration:   time.Since(start),
	}, nil
}

// buildURL substitutes path parameters and encodes the query string.
// Placeholders left unfilled are an error rather than a literal "{id}" on
// the wire.
func (e *Executor) buildURL(req *Request) (string, error) {
	path := req.Path
	for name, value := range req.PathParams {
		path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(value))
	}
	if start := strings.IndexByte(path, '{'); start >= 0 {
		end := strings.IndexByte(path[start:], '}')
		if end > 0 {
			return "", fmt.Errorf("path parameter %s has no value", path[start+1:start+end])
		}
		return "", fmt.Errorf("malformed path template %q", req.Path)
	}

	target := e.baseURL + path
	if len(req.Query) > 0 {
		values := url.Values{}
		for name, value := range req.Query {
			values.Set(name, value)
		}
		target += "?" + values.Encode()
	}
	return target, nil
}
