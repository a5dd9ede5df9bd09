package openapi

// Kind classifies a schema node so that generation code can switch
// exhaustively instead of probing an open map.
type Kind int

// Schema kinds.
const (
	KindUnknown Kind = iota
	KindString
	KindInteger
	KindNumber
	KindBoolean
	KindArray
	KindObject
	KindReference
	KindComposition
)

// String returns the kind name for logging.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindReference:
		return "reference"
	case KindComposition:
		return "composition"
	default:
		return "unknown"
	}
}

// Schema is a typed view over one schema node of the document.
// A node carrying Ref is a pointer and must be resolved before any other
// field is consulted.
type Schema struct {
	Ref         string
	Type        string
	Format      string
	Title       string
	Description string

	Enum    []interface{}
	Default interface{}
	Example interface{}

	Properties map[string]*Schema
	Required   []string
	Items      *Schema

	Pattern   string
	Minimum   *float64
	Maximum   *float64
	MinLength *int
	MaxLength *int
	MinItems  *int
	MaxItems  *int

	AllOf []*Schema
	OneOf []*Schema
	AnyOf []*Schema
}

// Kind returns the variant tag for this node. Reference and composition win
// over the declared type; a typeless node with properties is treated as an
// object, matching how hand-written specs commonly omit "type: object".
func (s *Schema) Kind() Kind {
	if s == nil {
		return KindUnknown
	}
	if s.Ref != "" {
		return KindReference
	}
	if len(s.AllOf) > 0 || len(s.OneOf) > 0 || len(s.AnyOf) > 0 {
		return KindComposition
	}
	switch s.Type {
	case "string":
		return KindString
	case "integer":
		return KindInteger
	case "number":
		return KindNumber
	case "boolean":
		return KindBoolean
	case "array":
		return KindArray
	case "object":
		return KindObject
	default:
		if len(s.Properties) > 0 {
			return KindObject
		}
		return KindUnknown
	}
}

// IsRequired reports whether the named property is in the required set.
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// SchemaFromNode decodes a raw document node into a Schema.
// Non-mapping nodes decode to nil.
func SchemaFromNode(node interface{}) *Schema {
	m, ok := node.(map[string]interface{})
	if !ok {
		return nil
	}

	s := &Schema{
		Ref:         stringField(m, "$ref"),
		Type:        stringField(m, "type"),
		Format:      stringField(m, "format"),
		Title:       stringField(m, "title"),
		Description: stringField(m, "description"),
		Pattern:     stringField(m, "pattern"),
		Default:     m["default"],
		Example:     m["example"],
		Minimum:     floatField(m, "minimum"),
		Maximum:     floatField(m, "maximum"),
		MinLength:   intField(m, "minLength"),
		MaxLength:   intField(m, "maxLength"),
		MinItems:    intField(m, "minItems"),
		MaxItems:    intField(m, "maxItems"),
	}

	if enum, ok := m["enum"].([]interface{}); ok {
		s.Enum = enum
	}
	if req, ok := m["required"].([]interface{}); ok {
		for _, r := range req {
			if name, ok := r.(string); ok {
				s.Required = append(s.Required, name)
			}
		}
	}
	if props, ok := m["properties"].(map[string]interface{}); ok {
		s.Properties = make(map[string]*Schema, len(props))
		for name, prop := range props {
			if child := SchemaFromNode(prop); child != nil {
				s.Properties[name] = child
			}
		}
	}
	if items := SchemaFromNode(m["items"]); items != nil {
		s.Items = items
	}

	s.AllOf = schemaListField(m, "allOf")
	s.OneOf = schemaListField(m, "oneOf")
	s.AnyOf = schemaListField(m, "anyOf")

	return s
}

func schemaListField(m map[string]interface{}, key string) []*Schema {
	raw, ok := m[key].([]interface{})
	if !ok || len(raw) == 0 {
		return nil
	}
	out := make([]*Schema, 0, len(raw))
	for _, entry := range raw {
		if child := SchemaFromNode(entry); child != nil {
			out = append(out, child)
		}
	}
	return out
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func boolField(m map[string]interface{}, key string) bool {
	b, _ := m[key].(bool)
	return b
}

// floatField accepts the numeric shapes both YAML and JSON decoding produce.
func floatField(m map[string]interface{}, key string) *float64 {
	switch v := m[key].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	default:
		return nil
	}
}

func intField(m map[string]interface{}, key string) *int {
	switch v := m[key].(type) {
	case int:
		return &v
	case int64:
		n := int(v)
		return &n
	case float64:
		n := int(v)
		return &n
	default:
		return nil
	}
}
