package openapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDoc(t *testing.T, spec string) *Document {
	t.Helper()
	doc, err := Parse([]byte(spec), "test.yaml")
	require.NoError(t, err)
	return doc
}

const refSpec = `
openapi: 3.0.0
info:
  title: Ref test
  version: 1.0.0
paths: {}
components:
  schemas:
    User:
      type: object
      properties:
        id:
          type: integer
        friend:
          $ref: '#/components/schemas/User'
    Address:
      type: object
      properties:
        city:
          type: string
`

func TestResolve(t *testing.T) {
	doc := testDoc(t, refSpec)

	node, ok := doc.Resolve("#/components/schemas/Address")
	require.True(t, ok)
	m, ok := node.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "object", m["type"])
}

func TestResolve_Unresolved(t *testing.T) {
	doc := testDoc(t, refSpec)

	cases := []string{
		"",
		"components/schemas/User",         // missing #/ prefix
		"#/components/schemas/Missing",    // absent segment
		"#/components/schemas/User/id",    // walks into non-mapping
		"http://elsewhere.example/User",   // external ref
		"#/components/schemas/User/x/y/z", // deep miss
	}
	for _, pointer := range cases {
		_, ok := doc.Resolve(pointer)
		assert.False(t, ok, "pointer %q should be unresolved", pointer)
	}
}

func TestResolve_EscapedSegments(t *testing.T) {
	doc := testDoc(t, `
openapi: 3.0.0
info: {title: t, version: "1"}
paths:
  /pets/{id}:
    get:
      responses:
        "200": {description: ok}
`)

	node, ok := doc.Resolve("#/paths/~1pets~1{id}/get")
	require.True(t, ok)
	assert.NotNil(t, node)
}

func TestResolveDeep_CycleTerminates(t *testing.T) {
	doc := testDoc(t, refSpec)

	user, ok := doc.ResolveSchema("#/components/schemas/User")
	require.True(t, ok)

	resolved := doc.ResolveDeep(user, DefaultResolveDepth)
	require.NotNil(t, resolved)

	// Walking the self-referencing chain must bottom out with the ref left
	// in place rather than recursing forever.
	depth := 0
	for current := resolved; current != nil; depth++ {
		require.Less(t, depth, DefaultResolveDepth+1)
		friend, ok := current.Properties["friend"]
		if !ok || friend.Ref != "" {
			break
		}
		current = friend
	}
}

func TestResolveDeep_NilAndZeroDepth(t *testing.T) {
	doc := testDoc(t, refSpec)

	assert.Nil(t, doc.ResolveDeep(nil, 5))

	s := &Schema{Ref: "#/components/schemas/User"}
	assert.Same(t, s, doc.ResolveDeep(s, 0))
}

func TestResolveDeep_ResolvesProperties(t *testing.T) {
	doc := testDoc(t, `
openapi: 3.0.0
info: {title: t, version: "1"}
paths: {}
components:
  schemas:
    City:
      type: string
    Place:
      type: object
      properties:
        city:
          $ref: '#/components/schemas/City'
        tags:
          type: array
          items:
            $ref: '#/components/schemas/City'
`)

	place, ok := doc.ResolveSchema("#/components/schemas/Place")
	require.True(t, ok)

	resolved := doc.ResolveDeep(place, DefaultResolveDepth)
	require.NotNil(t, resolved.Properties["city"])
	assert.Equal(t, "string", resolved.Properties["city"].Type)
	require.NotNil(t, resolved.Properties["tags"].Items)
	assert.Equal(t, "string", resolved.Properties["tags"].Items.Type)
}
