// Package generate produces schema-conformant test payloads for OpenAPI
// operations.
//
// Three strategies are available, tried in order by the Orchestrator:
//   - spec examples: values the spec author embedded in the document
//   - external provider: a text-generation model prompted with the
//     operation's schemas (pkg/ai)
//   - local synthesis: randomized, locale-aware values built from the
//     schema alone
//
// Whatever a strategy produces is passed through Repair, which extracts a
// JSON object or array from free-form text and normalizes it. Generation
// prefers partial results over failure: unresolved references and cyclic
// schemas degrade to visible placeholders, and only the exhaustion of every
// strategy surfaces as an error.
package generate
