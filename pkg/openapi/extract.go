package openapi

import (
	"sort"
	"strings"
)

// ParameterSchema carries the flattened constraint view of one parameter,
// bucketed by location, alongside its deeply resolved schema.
type ParameterSchema struct {
	Name        string
	In          string
	Type        string
	Format      string
	Description string
	Pattern     string
	Required    bool
	Enum        []interface{}
	Minimum     *float64
	Maximum     *float64
	Example     interface{}
	Schema      *Schema
}

// RequestSchemas is the per-location schema bundle for one operation.
// Maps are always non-nil; BodySchema is nil when the operation declares no
// request body.
type RequestSchemas struct {
	PathParameters   map[string]ParameterSchema
	QueryParameters  map[string]ParameterSchema
	HeaderParameters map[string]ParameterSchema
	BodyMediaType    string
	BodySchema       *Schema
}

// Extract resolves and buckets every parameter schema of the operation and
// deeply resolves its request-body schema. The result is well-formed even for
// operations with no parameters and no body.
func Extract(doc *Document, op *Operation) *RequestSchemas {
	out := &RequestSchemas{
		PathParameters:   make(map[string]ParameterSchema),
		QueryParameters:  make(map[string]ParameterSchema),
		HeaderParameters: make(map[string]ParameterSchema),
	}
	if op == nil {
		return out
	}

	for _, param := range op.Parameters {
		entry := ParameterSchema{
			Name:        param.Name,
			In:          param.In,
			Description: param.Description,
			Required:    param.Required,
			Example:     param.Example,
			Schema:      doc.ResolveDeep(param.Schema, DefaultResolveDepth),
		}
		if entry.Schema != nil {
			entry.Type = entry.Schema.Type
			entry.Format = entry.Schema.Format
			entry.Pattern = entry.Schema.Pattern
			entry.Enum = entry.Schema.Enum
			entry.Minimum = entry.Schema.Minimum
			entry.Maximum = entry.Schema.Maximum
			if entry.Example == nil {
				entry.Example = entry.Schema.Example
			}
		}

		switch param.In {
		case "path":
			out.PathParameters[param.Name] = entry
		case "query":
			out.QueryParameters[param.Name] = entry
		case "header":
			out.HeaderParameters[param.Name] = entry
		}
	}

	if op.RequestBody != nil {
		mediaType, mt, ok := preferredMediaType(op.RequestBody.Content)
		if ok {
			out.BodyMediaType = mediaType
			out.BodySchema = doc.ResolveDeep(mt.Schema, DefaultResolveDepth)
		}
	}

	return out
}

// preferredMediaType picks application/json when declared, else the first
// media type in sorted order for determinism.
func preferredMediaType(content map[string]MediaType) (string, MediaType, bool) {
	if len(content) == 0 {
		return "", MediaType{}, false
	}
	for mediaType, mt := range content {
		if mediaType == "application/json" || strings.HasPrefix(mediaType, "application/json;") {
			return mediaType, mt, true
		}
	}
	names := make([]string, 0, len(content))
	for mediaType := range content {
		names = append(names, mediaType)
	}
	sort.Strings(names)
	return names[0], content[names[0]], true
}
