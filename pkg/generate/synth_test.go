package generate

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/apiprobe/apiprobe/pkg/openapi"
)

func TestSynthesizer_UnknownLocaleFallsBack(t *testing.T) {
	s := NewSynthesizer(nil, "xx-XX")
	if s.Locale() != DefaultLocale {
		t.Fatalf("expected fallback to %s, got %s", DefaultLocale, s.Locale())
	}
	got := s.Synthesize(&openapi.Schema{Type: "string"}, "firstName")
	if got == nil || got == "" {
		t.Fatalf("expected a synthesized value, got %v", got)
	}
}

func TestSynthesizer_ExplicitExampleWins(t *testing.T) {
	s := NewSynthesizer(nil, DefaultLocale)
	got := s.Synthesize(&openapi.Schema{Type: "string", Example: "fixed"}, "name")
	if got != "fixed" {
		t.Fatalf("expected example value, got %v", got)
	}
}

func TestSynthesizer_EnumStaysWithinDeclaredValues(t *testing.T) {
	s := NewSynthesizer(nil, DefaultLocale)
	allowed := map[interface{}]bool{"red": true, "green": true, "blue": true}
	schema := &openapi.Schema{Type: "string", Enum: []interface{}{"red", "green", "blue"}}
	for i := 0; i < 50; i++ {
		if got := s.Synthesize(schema, "color"); !allowed[got] {
			t.Fatalf("enum value %v outside declared set", got)
		}
	}
}

func TestSynthesizer_IntegerBounds(t *testing.T) {
	s := NewSynthesizer(nil, DefaultLocale)
	schema := &openapi.Schema{Type: "integer", Minimum: floatPtr(10), Maximum: floatPtr(20)}
	for i := 0; i < 50; i++ {
		v, ok := s.Synthesize(schema, "level").(int)
		if !ok {
			t.Fatalf("expected int, got %T", s.Synthesize(schema, "level"))
		}
		if v < 10 || v > 20 {
			t.Fatalf("value %d outside [10, 20]", v)
		}
	}
}

func TestSynthesizer_FieldNameHeuristics(t *testing.T) {
	s := NewSynthesizer(nil, DefaultLocale)

	email, _ := s.Synthesize(&openapi.Schema{Type: "string"}, "email").(string)
	if !strings.Contains(email, "@") {
		t.Fatalf("email heuristic: got %q", email)
	}

	age, ok := s.Synthesize(&openapi.Schema{Type: "integer"}, "age").(int)
	if !ok || age < 18 || age > 67 {
		t.Fatalf("age heuristic: got %v", age)
	}

	price, ok := s.Synthesize(&openapi.Schema{Type: "number"}, "price").(float64)
	if !ok || price <= 0 {
		t.Fatalf("price heuristic: got %v", price)
	}
}

func TestSynthesizer_ObjectIncludesAllProperties(t *testing.T) {
	s := NewSynthesizer(nil, DefaultLocale)
	schema := &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":    {Type: "integer"},
			"name":  {Type: "string"},
			"email": {Type: "string", Format: "email"},
		},
	}
	got, ok := s.Synthesize(schema, "").(map[string]interface{})
	if !ok {
		t.Fatalf("expected object, got %T", s.Synthesize(schema, ""))
	}
	for _, key := range []string{"id", "name", "email"} {
		if _, present := got[key]; !present {
			t.Fatalf("missing property %q in %v", key, got)
		}
	}
	if _, ok := got["id"].(int); !ok {
		t.Fatalf("id should synthesize as integer, got %T", got["id"])
	}
	if _, ok := got["name"].(string); !ok {
		t.Fatalf("name should synthesize as string, got %T", got["name"])
	}
}

func TestSynthesizer_ArraySerializable(t *testing.T) {
	s := NewSynthesizer(nil, "de-DE")
	schema := &openapi.Schema{
		Type:  "array",
		Items: &openapi.Schema{Type: "object", Properties: map[string]*openapi.Schema{"city": {Type: "string"}}},
	}
	got, ok := s.Synthesize(schema, "locations").([]interface{})
	if !ok || len(got) == 0 {
		t.Fatalf("expected at least one array item, got %v", got)
	}
	if _, err := json.Marshal(got); err != nil {
		t.Fatalf("result not serializable: %v", err)
	}
}

func TestSynthesizer_CyclicSchemaTerminates(t *testing.T) {
	doc := parseDoc(t, `
openapi: 3.0.0
info: {title: t, version: "1"}
paths: {}
components:
  schemas:
    Tree:
      type: object
      properties:
        child:
          $ref: '#/components/schemas/Tree'
`)
	s := NewSynthesizer(doc, DefaultLocale)
	got := s.Synthesize(&openapi.Schema{Ref: "#/components/schemas/Tree"}, "tree")
	if _, err := json.Marshal(got); err != nil {
		t.Fatalf("result not serializable: %v", err)
	}
}

func TestPoolFor_KnownLocales(t *testing.T) {
	for _, code := range Locales() {
		pool := PoolFor(code)
		if pool.Code != code {
			t.Errorf("PoolFor(%s) returned pool %s", code, pool.Code)
		}
		if len(pool.FirstNames) == 0 || len(pool.Cities) == 0 {
			t.Errorf("pool %s is missing entries", code)
		}
	}
}
