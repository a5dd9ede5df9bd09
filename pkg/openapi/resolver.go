package openapi

import (
	"strings"
)

// DefaultResolveDepth bounds ResolveDeep recursion. Cyclic schemas are common
// enough in real specs that the walk must be depth-limited rather than
// trusting the document.
const DefaultResolveDepth = 10

// Resolve walks a JSON-pointer style reference ("#/components/schemas/User")
// through the document. Only document-internal pointers beginning with "#/"
// are supported; anything else, and any pointer whose segments cannot all be
// looked up, reports ok=false. Missing references are common in hand-edited
// specs, so absence is a sentinel, never an error.
func (d *Document) Resolve(pointer string) (interface{}, bool) {
	if d == nil || !strings.HasPrefix(pointer, "#/") {
		return nil, false
	}

	var current interface{} = d.root
	for _, segment := range strings.Split(strings.TrimPrefix(pointer, "#/"), "/") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[unescapePointer(segment)]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// ResolveSchema resolves a pointer and decodes the target as a schema node.
func (d *Document) ResolveSchema(pointer string) (*Schema, bool) {
	node, ok := d.Resolve(pointer)
	if !ok {
		return nil, false
	}
	s := SchemaFromNode(node)
	if s == nil {
		return nil, false
	}
	return s, true
}

// ResolveDeep returns a copy of the schema with $ref resolved at the root and
// within every property and item, up to maxDepth levels. At the depth limit,
// or when a pointer cannot be resolved, the node is returned as-is so that
// generation can degrade to a placeholder instead of aborting.
func (d *Document) ResolveDeep(s *Schema, maxDepth int) *Schema {
	if s == nil || maxDepth <= 0 {
		return s
	}

	if s.Ref != "" {
		resolved, ok := d.ResolveSchema(s.Ref)
		if !ok {
			return s
		}
		return d.ResolveDeep(resolved, maxDepth-1)
	}

	if len(s.Properties) == 0 && s.Items == nil {
		return s
	}

	out := *s
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = d.ResolveDeep(prop, maxDepth-1)
		}
	}
	if s.Items != nil {
		out.Items = d.ResolveDeep(s.Items, maxDepth-1)
	}
	return &out
}

// unescapePointer applies RFC 6901 escape sequences (~1 before ~0).
func unescapePointer(segment string) string {
	if !strings.Contains(segment, "~") {
		return segment
	}
	segment = strings.ReplaceAll(segment, "~1", "/")
	return strings.ReplaceAll(segment, "~0", "~")
}
