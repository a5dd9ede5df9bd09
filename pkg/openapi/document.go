package openapi

import (
	"sort"
	"strings"
)

// Document is an immutable snapshot of a parsed OpenAPI 3.0 description.
// It is replaced wholesale on each load and never partially mutated, so it is
// safe to share across concurrent generation calls.
type Document struct {
	source string
	raw    []byte
	root   map[string]interface{}
}

// NewDocument wraps an already-parsed document mapping.
func NewDocument(root map[string]interface{}, source string) *Document {
	return &Document{source: source, root: root}
}

// Source returns the locator (URL or path) the document was loaded from.
func (d *Document) Source() string { return d.source }

// Root returns the raw document mapping.
func (d *Document) Root() map[string]interface{} { return d.root }

// Title returns the info.title field, or "" if absent.
func (d *Document) Title() string {
	info, _ := d.root["info"].(map[string]interface{})
	return stringField(info, "title")
}

// Version returns the declared openapi version string.
func (d *Document) Version() string {
	return stringField(d.root, "openapi")
}

// Operation describes one method+path entry of the document.
type Operation struct {
	Method      string
	Path        string
	Summary     string
	Description string
	OperationID string
	Parameters  []Parameter
	RequestBody *RequestBody
}

// Parameter is one entry of an operation's parameter list.
type Parameter struct {
	Name        string
	In          string // path, query, header, cookie
	Description string
	Required    bool
	Schema      *Schema
	Example     interface{}
}

// RequestBody describes an operation's request body content.
type RequestBody struct {
	Description string
	Required    bool
	Content     map[string]MediaType
}

// MediaType is one media-type entry of a request body.
type MediaType struct {
	Schema   *Schema
	Example  interface{}
	Examples map[string]interface{}
}

// httpMethods is the fixed iteration order for path item methods.
var httpMethods = []string{"get", "post", "put", "delete", "patch", "head", "options"}

// Operations enumerates every operation in the document, sorted by path and
// then by the conventional method order.
func (d *Document) Operations() []Operation {
	paths, _ := d.root["paths"].(map[string]interface{})
	if len(paths) == 0 {
		return nil
	}

	sorted := make([]string, 0, len(paths))
	for path := range paths {
		sorted = append(sorted, path)
	}
	sort.Strings(sorted)

	var ops []Operation
	for _, path := range sorted {
		item, ok := paths[path].(map[string]interface{})
		if !ok {
			continue
		}
		for _, method := range httpMethods {
			raw, ok := item[method].(map[string]interface{})
			if !ok {
				continue
			}
			ops = append(ops, d.decodeOperation(method, path, item, raw))
		}
	}
	return ops
}

// FindOperation looks up an operation by method and path template.
// Method matching is case-insensitive; path must match exactly.
func (d *Document) FindOperation(method, path string) (*Operation, bool) {
	for _, op := range d.Operations() {
		if strings.EqualFold(op.Method, method) && op.Path == path {
			return &op, true
		}
	}
	return nil, false
}

func (d *Document) decodeOperation(method, path string, item, raw map[string]interface{}) Operation {
	op := Operation{
		Method:      strings.ToUpper(method),
		Path:        path,
		Summary:     stringField(raw, "summary"),
		Description: stringField(raw, "description"),
		OperationID: stringField(raw, "operationId"),
	}

	// Path-item parameters apply to every operation under the path; an
	// operation-level parameter with the same (name, in) overrides them.
	shared := d.decodeParameters(item["parameters"])
	own := d.decodeParameters(raw["parameters"])
	op.Parameters = mergeParameters(shared, own)

	if body, ok := raw["requestBody"].(map[string]interface{}); ok {
		rb := &RequestBody{
			Description: stringField(body, "description"),
			Required:    boolField(body, "required"),
		}
		if content, ok := body["content"].(map[string]interface{}); ok {
			rb.Content = make(map[string]MediaType, len(content))
			for mediaType, entry := range content {
				em, ok := entry.(map[string]interface{})
				if !ok {
					continue
				}
				mt := MediaType{
					Schema:  SchemaFromNode(em["schema"]),
					Example: em["example"],
				}
				if examples, ok := em["examples"].(map[string]interface{}); ok {
					mt.Examples = examples
				}
				rb.Content[mediaType] = mt
			}
		}
		op.RequestBody = rb
	}

	return op
}

// decodeParameters decodes a parameters list, resolving "$ref" entries
// against the document. Unresolvable refs are skipped, matching how
// Resolve treats missing pointers.
func (d *Document) decodeParameters(node interface{}) []Parameter {
	list, ok := node.([]interface{})
	if !ok {
		return nil
	}

	var params []Parameter
	for _, p := range list {
		pm, ok := p.(map[string]interface{})
		if !ok {
			continue
		}
		if ref := stringField(pm, "$ref"); ref != "" {
			target, ok := d.Resolve(ref)
			if !ok {
				continue
			}
			pm, ok = target.(map[string]interface{})
			if !ok {
				continue
			}
		}
		params = append(params, Parameter{
			Name:        stringField(pm, "name"),
			In:          stringField(pm, "in"),
			Description: stringField(pm, "description"),
			Required:    boolField(pm, "required"),
			Schema:      SchemaFromNode(pm["schema"]),
			Example:     pm["example"],
		})
	}
	return params
}

// mergeParameters layers operation-level parameters over path-item ones.
// Parameters are identified by (name, in) per the OpenAPI merge rule.
func mergeParameters(shared, own []Parameter) []Parameter {
	if len(shared) == 0 {
		return own
	}

	overridden := make(map[string]bool, len(own))
	for _, p := range own {
		overridden[p.Name+"\x00"+p.In] = true
	}

	merged := make([]Parameter, 0, len(shared)+len(own))
	for _, p := range shared {
		if !overridden[p.Name+"\x00"+p.In] {
			merged = append(merged, p)
		}
	}
	return append(merged, own...)
}
