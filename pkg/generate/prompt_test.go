package generate

import (
	"strings"
	"testing"

	"github.com/apiprobe/apiprobe/pkg/openapi"
)

func promptFixture(t *testing.T) (*openapi.Operation, *openapi.RequestSchemas) {
	t.Helper()
	doc := parseDoc(t, `
openapi: 3.0.0
info: {title: Orders, version: "1"}
paths:
  /orders/{orderId}:
    put:
      summary: Update an order
      parameters:
        - name: orderId
          in: path
          required: true
          schema: {type: string, format: uuid}
        - name: notify
          in: query
          schema: {type: boolean}
        - name: X-Request-ID
          in: header
          schema: {type: string}
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [status]
              properties:
                status:
                  type: string
                  enum: [pending, shipped]
                total: {type: number}
`)
	op, ok := doc.FindOperation("PUT", "/orders/{orderId}")
	if !ok {
		t.Fatalf("operation not found")
	}
	return op, openapi.Extract(doc, op)
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	op, schemas := promptFixture(t)
	first := BuildPrompt(op, schemas, "en-US")
	for i := 0; i < 5; i++ {
		if got := BuildPrompt(op, schemas, "en-US"); got != first {
			t.Fatalf("prompt is not deterministic")
		}
	}
}

func TestBuildPrompt_Content(t *testing.T) {
	op, schemas := promptFixture(t)
	prompt := BuildPrompt(op, schemas, "en-US")

	for _, fragment := range []string{
		"PUT /orders/{orderId}",
		"Update an order",
		"orderId",
		"notify",
		"X-Request-ID",
		"pending",
	} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt missing %q", fragment)
		}
	}

	// The expected-shape template names every parameter bucket.
	for _, key := range []string{"pathParameters", "queryParameters", "headerParameters", "requestBody"} {
		if !strings.Contains(prompt, key) {
			t.Errorf("prompt missing shape key %q", key)
		}
	}
}

func TestBuildPrompt_LocaleSamples(t *testing.T) {
	op, schemas := promptFixture(t)

	en := BuildPrompt(op, schemas, "en-US")
	de := BuildPrompt(op, schemas, "de-DE")
	if en == de {
		t.Fatalf("expected locale-specific prompts to differ")
	}
	if !strings.Contains(de, "de-DE") {
		t.Fatalf("prompt should state the locale code")
	}
	if !strings.Contains(de, PoolFor("de-DE").FirstNames[0]) {
		t.Fatalf("prompt should carry sample names from the locale pool")
	}
}

func TestBuildPrompt_UnknownLocaleFallsBack(t *testing.T) {
	op, schemas := promptFixture(t)
	fallback := BuildPrompt(op, schemas, "xx-XX")
	standard := BuildPrompt(op, schemas, DefaultLocale)
	if fallback != standard {
		t.Fatalf("unknown locale should use the default pool")
	}
}
