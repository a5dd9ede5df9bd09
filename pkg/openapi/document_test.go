package openapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petstoreSpec = `
openapi: 3.0.0
info:
  title: Petstore
  version: 1.0.0
paths:
  /pets:
    get:
      summary: List pets
      parameters:
        - name: limit
          in: query
          required: false
          schema:
            type: integer
            minimum: 1
            maximum: 100
    post:
      summary: Create a pet
      operationId: createPet
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Pet'
  /pets/{petId}:
    get:
      summary: Get a pet
      parameters:
        - name: petId
          in: path
          required: true
          schema:
            type: string
            format: uuid
components:
  schemas:
    Pet:
      type: object
      required: [name]
      properties:
        name:
          type: string
        tag:
          type: string
`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(petstoreSpec), "petstore.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Petstore", doc.Title())
	assert.Equal(t, "3.0.0", doc.Version())
	assert.Equal(t, "petstore.yaml", doc.Source())
}

func TestParse_JSONInput(t *testing.T) {
	doc, err := Parse([]byte(`{"openapi":"3.0.3","info":{"title":"J","version":"1"},"paths":{}}`), "spec.json")
	require.NoError(t, err)
	assert.Equal(t, "J", doc.Title())
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("{{not yaml"), "bad")
	require.Error(t, err)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)

	_, err = Parse([]byte(`{"swagger":"2.0"}`), "swagger.json")
	assert.Error(t, err, "Swagger 2.0 is out of scope")

	_, err = Parse([]byte(`{"openapi":"4.0.0"}`), "future.json")
	assert.Error(t, err)
}

func TestOperations_SortedAndComplete(t *testing.T) {
	doc, err := Parse([]byte(petstoreSpec), "petstore.yaml")
	require.NoError(t, err)

	ops := doc.Operations()
	require.Len(t, ops, 3)
	assert.Equal(t, "GET", ops[0].Method)
	assert.Equal(t, "/pets", ops[0].Path)
	assert.Equal(t, "POST", ops[1].Method)
	assert.Equal(t, "createPet", ops[1].OperationID)
	assert.Equal(t, "/pets/{petId}", ops[2].Path)
}

func TestFindOperation(t *testing.T) {
	doc, err := Parse([]byte(petstoreSpec), "petstore.yaml")
	require.NoError(t, err)

	op, ok := doc.FindOperation("post", "/pets")
	require.True(t, ok)
	assert.Equal(t, "Create a pet", op.Summary)
	require.NotNil(t, op.RequestBody)
	assert.True(t, op.RequestBody.Required)
	assert.Equal(t, "#/components/schemas/Pet", op.RequestBody.Content["application/json"].Schema.Ref)

	_, ok = doc.FindOperation("DELETE", "/pets")
	assert.False(t, ok)
}

func TestOperations_ParameterRefs(t *testing.T) {
	doc, err := Parse([]byte(`
openapi: 3.0.0
info: {title: t, version: "1"}
paths:
  /pets:
    get:
      parameters:
        - $ref: '#/components/parameters/Limit'
        - $ref: '#/components/parameters/Missing'
        - name: verbose
          in: query
          schema: {type: boolean}
components:
  parameters:
    Limit:
      name: limit
      in: query
      required: true
      schema: {type: integer}
`), "refs.yaml")
	require.NoError(t, err)

	op, ok := doc.FindOperation("GET", "/pets")
	require.True(t, ok)
	require.Len(t, op.Parameters, 2, "resolved ref plus inline; unresolvable ref skipped")

	limit := op.Parameters[0]
	assert.Equal(t, "limit", limit.Name)
	assert.Equal(t, "query", limit.In)
	assert.True(t, limit.Required)
	require.NotNil(t, limit.Schema)
	assert.Equal(t, "integer", limit.Schema.Type)

	assert.Equal(t, "verbose", op.Parameters[1].Name)
}

func TestOperations_PathItemParameters(t *testing.T) {
	doc, err := Parse([]byte(`
openapi: 3.0.0
info: {title: t, version: "1"}
paths:
  /pets/{petId}:
    parameters:
      - name: petId
        in: path
        required: true
        schema: {type: string}
      - name: verbose
        in: query
        schema: {type: boolean}
    get:
      summary: Get a pet
    delete:
      summary: Remove a pet
      parameters:
        - name: verbose
          in: query
          required: true
          schema: {type: string}
`), "shared.yaml")
	require.NoError(t, err)

	get, ok := doc.FindOperation("GET", "/pets/{petId}")
	require.True(t, ok)
	require.Len(t, get.Parameters, 2)
	assert.Equal(t, "petId", get.Parameters[0].Name)
	assert.Equal(t, "verbose", get.Parameters[1].Name)

	// The operation-level verbose replaces the path-item one.
	del, ok := doc.FindOperation("DELETE", "/pets/{petId}")
	require.True(t, ok)
	require.Len(t, del.Parameters, 2)
	assert.Equal(t, "petId", del.Parameters[0].Name)
	verbose := del.Parameters[1]
	assert.Equal(t, "verbose", verbose.Name)
	assert.True(t, verbose.Required)
	require.NotNil(t, verbose.Schema)
	assert.Equal(t, "string", verbose.Schema.Type)
}

func TestSchemaFromNode(t *testing.T) {
	node := map[string]interface{}{
		"type":      "object",
		"required":  []interface{}{"id"},
		"minLength": 3,
		"minimum":   1.5,
		"properties": map[string]interface{}{
			"id":   map[string]interface{}{"type": "integer"},
			"tags": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
		},
		"oneOf": []interface{}{
			map[string]interface{}{"type": "string"},
		},
	}

	s := SchemaFromNode(node)
	require.NotNil(t, s)
	assert.Equal(t, "object", s.Type)
	assert.True(t, s.IsRequired("id"))
	assert.False(t, s.IsRequired("tags"))
	require.NotNil(t, s.MinLength)
	assert.Equal(t, 3, *s.MinLength)
	require.NotNil(t, s.Minimum)
	assert.Equal(t, 1.5, *s.Minimum)
	assert.Equal(t, "integer", s.Properties["id"].Type)
	assert.Equal(t, "string", s.Properties["tags"].Items.Type)
	require.Len(t, s.OneOf, 1)

	assert.Nil(t, SchemaFromNode("not a mapping"))
	assert.Nil(t, SchemaFromNode(nil))
}

func TestSchemaKind(t *testing.T) {
	cases := []struct {
		name   string
		schema *Schema
		want   Kind
	}{
		{"nil", nil, KindUnknown},
		{"string", &Schema{Type: "string"}, KindString},
		{"integer", &Schema{Type: "integer"}, KindInteger},
		{"number", &Schema{Type: "number"}, KindNumber},
		{"boolean", &Schema{Type: "boolean"}, KindBoolean},
		{"array", &Schema{Type: "array"}, KindArray},
		{"object", &Schema{Type: "object"}, KindObject},
		{"ref wins", &Schema{Ref: "#/x", Type: "string"}, KindReference},
		{"composition wins", &Schema{OneOf: []*Schema{{Type: "string"}}, Type: "object"}, KindComposition},
		{"typeless with properties", &Schema{Properties: map[string]*Schema{"a": {Type: "string"}}}, KindObject},
		{"typeless empty", &Schema{}, KindUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.schema.Kind())
		})
	}
}
