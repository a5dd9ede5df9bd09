package httpexec

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestExecute_PathAndQuery(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	e, err := New(server.URL)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	resp, err := e.Execute(context.Background(), &Request{
		Method:     "get",
		Path:       "/orders/{orderId}/items",
		PathParams: map[string]string{"orderId": "42"},
		Query:      map[string]string{"limit": "10", "sort": "asc"},
	})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if gotPath != "/orders/42/items" {
		t.Errorf("path: got %q", gotPath)
	}
	if !strings.Contains(gotQuery, "limit=10") || !strings.Contains(gotQuery, "sort=asc") {
		t.Errorf("query: got %q", gotQuery)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d", resp.StatusCode)
	}
	if string(resp.Body) != `{"ok": true}` {
		t.Errorf("body: got %q", resp.Body)
	}
	if resp.Duration <= 0 {
		t.Error("duration should be positive")
	}
}

func TestExecute_MissingPathParam(t *testing.T) {
	e, err := New("http://localhost:0")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	_, err = e.Execute(context.Background(), &Request{
		Method: "GET",
		Path:   "/orders/{orderId}",
	})
	if err == nil {
		t.Fatal("expected error for unfilled path parameter")
	}
	if !strings.Contains(err.Error(), "orderId") {
		t.Fatalf("error should name the parameter, got %v", err)
	}
}

func TestExecute_HeaderPrecedence(t *testing.T) {
	var gotHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	e, err := New(server.URL, WithGlobalHeaders(map[string]string{
		"X-Tenant":      "acme",
		"Authorization": "Bearer global",
	}))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	_, err = e.Execute(context.Background(), &Request{
		Method:  "GET",
		Path:    "/ping",
		Headers: map[string]string{"Authorization": "Bearer request"},
	})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if got := gotHeaders.Get("X-Tenant"); got != "acme" {
		t.Errorf("global header missing: %q", got)
	}
	if got := gotHeaders.Get("Authorization"); got != "Bearer request" {
		t.Errorf("request header should override global, got %q", got)
	}
}

func TestExecute_BodyAndContentType(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	e, err := New(server.URL)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	resp, err := e.Execute(context.Background(), &Request{
		Method: "POST",
		Path:   "/users",
		Body:   []byte(`{"name": "Ada"}`),
	})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if string(gotBody) != `{"name": "Ada"}` {
		t.Errorf("body: got %q", gotBody)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type should default to JSON, got %q", gotContentType)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status: got %d", resp.StatusCode)
	}
}

func TestExecute_NonSuccessStatusIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	e, err := New(server.URL)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	resp, err := e.Execute(context.Background(), &Request{Method: "GET", Path: "/secret"})
	if err != nil {
		t.Fatalf("Execute() should not fail on 403: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
}

func TestExecute_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	e, err := New(server.URL)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := e.Execute(ctx, &Request{Method: "GET", Path: "/slow"}); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestWithClientCert_MissingFiles(t *testing.T) {
	_, err := New("https://example.com", WithClientCert("no-such.crt", "no-such.key"))
	if err == nil {
		t.Fatal("expected error for missing certificate files")
	}
}

func TestExecute_PathEscaping(t *testing.T) {
	var gotURI string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.RequestURI
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	e, err := New(server.URL)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	_, err = e.Execute(context.Background(), &Request{
		Method:     "GET",
		Path:       "/files/{name}",
		PathParams: map[string]string{"name": "a b/c"},
	})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if strings.Contains(gotURI, " ") {
		t.Fatalf("path value not escaped: %q", gotURI)
	}
}
