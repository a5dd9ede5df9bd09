package generate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apiprobe/apiprobe/pkg/openapi"
)

// BuildPrompt renders a text-generation request for one operation. The output
// is purely a function of its inputs: parameters are sorted and no random or
// time-dependent values are included, so repeated calls produce identical
// prompts and generation stays reproducible under test.
func BuildPrompt(op *openapi.Operation, schemas *openapi.RequestSchemas, locale string) string {
	pool := PoolFor(locale)

	var b strings.Builder
	b.WriteString("Generate realistic test data for the following API operation.\n\n")
	fmt.Fprintf(&b, "Operation: %s %s\n", op.Method, op.Path)
	if op.Summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", op.Summary)
	}
	if op.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", op.Description)
	}

	writeParameterBucket(&b, "Path parameters", schemas.PathParameters)
	writeParameterBucket(&b, "Query parameters", schemas.QueryParameters)
	writeParameterBucket(&b, "Header parameters", schemas.HeaderParameters)

	if schemas.BodySchema != nil {
		fmt.Fprintf(&b, "\nRequest body (%s):\n", schemas.BodyMediaType)
		writeSchema(&b, schemas.BodySchema, 1)
	}

	b.WriteString("\nReturn a JSON object with exactly this shape:\n")
	b.WriteString("{\n")
	b.WriteString(`  "pathParameters": { ... },` + "\n")
	b.WriteString(`  "queryParameters": { ... },` + "\n")
	b.WriteString(`  "headerParameters": { ... },` + "\n")
	b.WriteString(`  "requestBody": { ... }` + "\n")
	b.WriteString("}\n")
	b.WriteString("Omit any section the operation does not use.\n")

	fmt.Fprintf(&b, "\nUse the %s locale for generated values. Illustrative examples:\n", pool.Code)
	fmt.Fprintf(&b, "- person name: %s %s\n", pool.FirstNames[0], pool.LastNames[0])
	fmt.Fprintf(&b, "- company: %s\n", pool.Companies[0])
	fmt.Fprintf(&b, "- city: %s\n", pool.Cities[0])
	fmt.Fprintf(&b, "- phone format: %s\n", pool.PhoneFormat)

	b.WriteString("\nReturn ONLY the JSON object, no additional text.")

	return b.String()
}

func writeParameterBucket(b *strings.Builder, title string, params map[string]openapi.ParameterSchema) {
	if len(params) == 0 {
		return
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(b, "\n%s:\n", title)
	for _, name := range names {
		p := params[name]
		fmt.Fprintf(b, "- %s (%s", name, orUnknown(p.Type))
		if p.Format != "" {
			fmt.Fprintf(b, ", format %s", p.Format)
		}
		if p.Required {
			b.WriteString(", required")
		}
		b.WriteString(")")
		if p.Description != "" {
			fmt.Fprintf(b, ": %s", p.Description)
		}
		if len(p.Enum) > 0 {
			fmt.Fprintf(b, " [allowed: %s]", joinValues(p.Enum))
		}
		if p.Pattern != "" {
			fmt.Fprintf(b, " [pattern: %s]", p.Pattern)
		}
		if p.Minimum != nil {
			fmt.Fprintf(b, " [min: %g]", *p.Minimum)
		}
		if p.Maximum != nil {
			fmt.Fprintf(b, " [max: %g]", *p.Maximum)
		}
		if p.Example != nil {
			fmt.Fprintf(b, " [example: %v]", p.Example)
		}
		b.WriteString("\n")
	}
}

// writeSchema renders a schema as an indented outline, properties sorted,
// recursion bounded by the same depth guard as generation.
func writeSchema(b *strings.Builder, s *openapi.Schema, depth int) {
	if s == nil || depth > maxExampleDepth {
		return
	}
	indent := strings.Repeat("  ", depth)

	switch s.Kind() {
	case openapi.KindObject:
		names := make([]string, 0, len(s.Properties))
		for name := range s.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			prop := s.Properties[name]
			fmt.Fprintf(b, "%s%s: %s", indent, name, describeLeaf(prop))
			if s.IsRequired(name) {
				b.WriteString(" (required)")
			}
			b.WriteString("\n")
			if prop != nil && (prop.Kind() == openapi.KindObject || prop.Kind() == openapi.KindArray) {
				writeSchema(b, prop, depth+1)
			}
		}
	case openapi.KindArray:
		fmt.Fprintf(b, "%sitems: %s\n", indent, describeLeaf(s.Items))
		if s.Items != nil && (s.Items.Kind() == openapi.KindObject || s.Items.Kind() == openapi.KindArray) {
			writeSchema(b, s.Items, depth+1)
		}
	default:
		fmt.Fprintf(b, "%s%s\n", indent, describeLeaf(s))
	}
}

func describeLeaf(s *openapi.Schema) string {
	if s == nil {
		return "unknown"
	}
	if s.Ref != "" {
		return "reference " + s.Ref
	}

	desc := orUnknown(s.Type)
	var notes []string
	if s.Format != "" {
		notes = append(notes, "format "+s.Format)
	}
	if len(s.Enum) > 0 {
		notes = append(notes, "allowed: "+joinValues(s.Enum))
	}
	if s.Pattern != "" {
		notes = append(notes, "pattern "+s.Pattern)
	}
	if s.Minimum != nil {
		notes = append(notes, fmt.Sprintf("min %g", *s.Minimum))
	}
	if s.Maximum != nil {
		notes = append(notes, fmt.Sprintf("max %g", *s.Maximum))
	}
	if s.Description != "" {
		notes = append(notes, s.Description)
	}
	if s.Example != nil {
		notes = append(notes, fmt.Sprintf("example %v", s.Example))
	}
	if len(notes) > 0 {
		desc += " (" + strings.Join(notes, ", ") + ")"
	}
	return desc
}

func joinValues(values []interface{}) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%v", v)
	}
	return strings.Join(parts, ", ")
}

func orUnknown(t string) string {
	if t == "" {
		return "unknown"
	}
	return t
}
