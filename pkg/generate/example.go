package generate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apiprobe/apiprobe/pkg/openapi"
)

// maxExampleDepth bounds recursion through nested schemas. Cyclic object
// graphs degrade to an ellipsis placeholder instead of overflowing the stack.
const maxExampleDepth = 5

// smallObjectThreshold: objects with at most this many properties are fully
// populated even when a required set is declared. Larger objects get only
// their required fields, keeping generated examples readable.
const smallObjectThreshold = 5

// ExampleGenerator produces deterministic placeholder examples for schema
// nodes. Same schema in, same value out; the randomized counterpart is
// Synthesizer.
type ExampleGenerator struct {
	doc *openapi.Document
}

// NewExampleGenerator creates a generator resolving $ref pointers against doc.
// A nil document is allowed; references then degrade to placeholders.
func NewExampleGenerator(doc *openapi.Document) *ExampleGenerator {
	return &ExampleGenerator{doc: doc}
}

// ExampleFor returns a representative JSON-compatible value for the schema.
// It always terminates and never panics: explicit examples win, references
// are resolved (unresolved ones become visible placeholders), compositions
// take their first entry, and recursion is depth-bounded.
func (g *ExampleGenerator) ExampleFor(s *openapi.Schema) interface{} {
	return g.exampleFor(s, 0)
}

func (g *ExampleGenerator) exampleFor(s *openapi.Schema, depth int) interface{} {
	if s == nil {
		return ""
	}
	if depth > maxExampleDepth {
		return "..."
	}

	// Explicit examples always win.
	if s.Example != nil {
		return s.Example
	}

	if s.Ref != "" {
		resolved, ok := resolveRef(g.doc, s.Ref)
		if !ok {
			return fmt.Sprintf("<unresolved: %s>", s.Ref)
		}
		return g.exampleFor(resolved, depth+1)
	}

	// Compositions take the first entry. This is a deliberate simplification,
	// not a schema merge; callers depend on it being deterministic.
	if len(s.AllOf) > 0 {
		return g.exampleFor(s.AllOf[0], depth+1)
	}
	if len(s.OneOf) > 0 {
		return g.exampleFor(s.OneOf[0], depth+1)
	}
	if len(s.AnyOf) > 0 {
		return g.exampleFor(s.AnyOf[0], depth+1)
	}

	switch s.Kind() {
	case openapi.KindString:
		return stringExample(s)
	case openapi.KindInteger:
		return integerExample(s)
	case openapi.KindNumber:
		return numberExample(s)
	case openapi.KindBoolean:
		if s.Default != nil {
			return s.Default
		}
		return true
	case openapi.KindArray:
		return g.arrayExample(s, depth)
	case openapi.KindObject:
		return g.objectExample(s, depth)
	case openapi.KindReference, openapi.KindComposition:
		// Handled above; unreachable unless the schema mutated underneath us.
		return ""
	default:
		if s.Items != nil {
			return g.arrayExample(s, depth)
		}
		return ""
	}
}

func (g *ExampleGenerator) arrayExample(s *openapi.Schema, depth int) interface{} {
	if s.Items == nil {
		return []interface{}{}
	}

	count := 1
	if s.MinItems != nil && *s.MinItems > count {
		count = *s.MinItems
	}
	if count > 3 {
		count = 3
	}

	item := g.exampleFor(s.Items, depth+1)
	items := make([]interface{}, count)
	for i := range items {
		items[i] = item
	}
	return items
}

func (g *ExampleGenerator) objectExample(s *openapi.Schema, depth int) interface{} {
	obj := make(map[string]interface{})
	if len(s.Properties) == 0 {
		return obj
	}

	includeAll := len(s.Required) == 0 || len(s.Properties) <= smallObjectThreshold

	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !includeAll && !s.IsRequired(name) {
			continue
		}
		obj[name] = g.exampleFor(s.Properties[name], depth+1)
	}
	return obj
}

func stringExample(s *openapi.Schema) interface{} {
	switch s.Format {
	case "date":
		return "2024-01-15"
	case "date-time":
		return "2024-01-15T09:30:00Z"
	case "email":
		return "user@example.com"
	case "uri", "url":
		return "https://example.com/resource"
	case "uuid":
		return "123e4567-e89b-12d3-a456-426614174000"
	case "password":
		return "p@ssw0rd"
	}

	if len(s.Enum) > 0 {
		return s.Enum[0]
	}
	if s.Default != nil {
		return s.Default
	}
	if strings.Contains(strings.ToLower(s.Title), "name") {
		return "Sample Name"
	}
	return "string"
}

func integerExample(s *openapi.Schema) interface{} {
	if len(s.Enum) > 0 {
		return s.Enum[0]
	}
	if s.Default != nil {
		return s.Default
	}
	if s.Minimum != nil {
		return int(*s.Minimum)
	}
	if s.Maximum != nil {
		return int(*s.Maximum)
	}
	return 1
}

func numberExample(s *openapi.Schema) interface{} {
	if len(s.Enum) > 0 {
		return s.Enum[0]
	}
	if s.Default != nil {
		return s.Default
	}
	if s.Minimum != nil {
		return *s.Minimum
	}
	if s.Maximum != nil {
		return *s.Maximum
	}
	return 1.0
}

// resolveRef resolves a pointer against the document, tolerating a nil
// document.
func resolveRef(doc *openapi.Document, pointer string) (*openapi.Schema, bool) {
	if doc == nil {
		return nil, false
	}
	return doc.ResolveSchema(pointer)
}
