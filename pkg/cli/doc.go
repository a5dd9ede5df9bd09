// Package cli provides the command-line interface for apiprobe.
//
// The cli package implements all commands for generating and executing API
// test data:
//   - operations: List the operations an OpenAPI description declares
//   - generate: Produce a request payload for one operation
//   - call: Generate (or accept) a payload and execute the request
//   - bundle: Save and list persisted test-data bundles
//   - version: Show apiprobe version
//
// AI-backed generation requires the APIPROBE_AI_PROVIDER environment variable
// (and APIPROBE_AI_API_KEY for hosted providers); the --provider and --model
// flags override the environment. Without a provider, generation still
// succeeds through spec examples and local synthesis.
//
// Usage:
//
//	apiprobe operations petstore.yaml
//	apiprobe generate petstore.yaml POST /pets --locale de-DE
//	apiprobe call petstore.yaml POST /pets --base-url https://api.example.com
//	apiprobe bundle list
package cli
