// Package openapi loads OpenAPI 3.0 documents and exposes the pieces apiprobe
// needs for payload generation: an immutable document snapshot, JSON-pointer
// reference resolution, a typed schema model, and per-operation schema
// extraction.
//
// The document is kept as the raw parsed mapping so that $ref pointers can be
// walked exactly as written. Resolution never fails hard: an unresolvable
// pointer is reported as "not found" and callers degrade to placeholders.
//
// # Usage
//
// Load a document and extract the schemas for one operation:
//
//	doc, err := openapi.Load(ctx, "https://example.com/openapi.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	op, ok := doc.FindOperation("POST", "/users")
//	if !ok {
//	    log.Fatal("no such operation")
//	}
//	schemas := openapi.Extract(doc, op)
package openapi
