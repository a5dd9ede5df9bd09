package generate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/apiprobe/apiprobe/pkg/ai"
	"github.com/apiprobe/apiprobe/pkg/logging"
	"github.com/apiprobe/apiprobe/pkg/openapi"
)

// Phase identifies one generation strategy.
type Phase string

// Generation phases, in attempt order.
const (
	PhaseSpecExample Phase = "spec-example"
	PhaseProvider    Phase = "external-provider"
	PhaseSynthesis   Phase = "local-synthesis"
)

// Result is a successfully generated payload and the phase that produced it.
type Result struct {
	Phase Phase
	Value interface{}
}

// JSON renders the generated value as indented JSON.
func (r *Result) JSON() (string, error) {
	data, err := json.MarshalIndent(r.Value, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal generated value: %w", err)
	}
	return string(data), nil
}

// GenerationError is the terminal failure raised only when every phase has
// been attempted and failed.
type GenerationError struct {
	Attempted []Phase
	Cause     error
}

func (e *GenerationError) Error() string {
	names := make([]string, len(e.Attempted))
	for i, p := range e.Attempted {
		names[i] = string(p)
	}
	msg := fmt.Sprintf("all generation phases failed (attempted: %s)", strings.Join(names, ", "))
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *GenerationError) Unwrap() error { return e.Cause }

// Orchestrator drives payload generation through its phases: an example
// embedded in the spec wins outright, an external provider is tried next, and
// local synthesis is the unconditional fallback. Provider failures are
// recoverable and demote to the next phase; they never abort generation.
type Orchestrator struct {
	doc      *openapi.Document
	provider ai.Provider // nil means no external provider is available
	locale   string
	log      *slog.Logger
}

// NewOrchestrator creates an orchestrator for the document. provider may be
// nil; the provider phase is then skipped as unavailable. logger may be nil.
func NewOrchestrator(doc *openapi.Document, provider ai.Provider, locale string, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Orchestrator{
		doc:      doc,
		provider: provider,
		locale:   locale,
		log:      logger,
	}
}

// GenerateRequest produces a request payload for the operation. Raw text a
// phase yields is normalized through Repair before being accepted, structured
// values are only checked against the object-or-array rule; output that fails
// validation counts as that phase's failure.
func (o *Orchestrator) GenerateRequest(ctx context.Context, op *openapi.Operation) (*Result, error) {
	schemas := openapi.Extract(o.doc, op)

	type phaseStep struct {
		name Phase
		run  func(context.Context) (interface{}, error)
	}

	phases := []phaseStep{
		{PhaseSpecExample, func(context.Context) (interface{}, error) {
			return o.specExample(op, schemas)
		}},
	}
	// Without a provider the phase cannot run, so it is not attempted.
	if o.provider != nil {
		phases = append(phases, phaseStep{PhaseProvider, func(ctx context.Context) (interface{}, error) {
			return o.providerGenerate(ctx, op, schemas)
		}})
	}
	phases = append(phases, phaseStep{PhaseSynthesis, func(context.Context) (interface{}, error) {
		return o.synthesize(schemas), nil
	}})

	var attempted []Phase
	var lastErr error

	for _, phase := range phases {
		attempted = append(attempted, phase.name)

		raw, err := phase.run(ctx)
		if err == nil {
			var value interface{}
			value, err = validatePayload(raw)
			if err == nil {
				return &Result{Phase: phase.name, Value: value}, nil
			}
		}

		lastErr = err
		o.log.Warn("generation phase failed",
			"phase", string(phase.name),
			"operation", op.Method+" "+op.Path,
			"error", err)
	}

	return nil, &GenerationError{Attempted: attempted, Cause: lastErr}
}

// specExample looks for a usable example already present in the operation's
// request body: a direct media-type example, the first entry of a named
// examples map, a schema-level example, or an object assembled from
// property-level examples.
func (o *Orchestrator) specExample(op *openapi.Operation, schemas *openapi.RequestSchemas) (interface{}, error) {
	if op.RequestBody == nil {
		return nil, fmt.Errorf("operation has no request body")
	}

	mt, ok := op.RequestBody.Content[schemas.BodyMediaType]
	if ok {
		if mt.Example != nil {
			return mt.Example, nil
		}
		if len(mt.Examples) > 0 {
			names := make([]string, 0, len(mt.Examples))
			for name := range mt.Examples {
				names = append(names, name)
			}
			sort.Strings(names)
			entry := mt.Examples[names[0]]
			// OpenAPI wraps named examples in {summary, value}.
			if m, ok := entry.(map[string]interface{}); ok {
				if value, ok := m["value"]; ok {
					return value, nil
				}
			}
			return entry, nil
		}
	}

	if schemas.BodySchema != nil {
		if schemas.BodySchema.Example != nil {
			return schemas.BodySchema.Example, nil
		}
		if aggregated, ok := exampleFromProperties(schemas.BodySchema); ok {
			return aggregated, nil
		}
	}

	return nil, fmt.Errorf("no example present in specification")
}

// exampleFromProperties assembles an object from property-level examples.
// It needs at least one property with an example to be usable.
func exampleFromProperties(s *openapi.Schema) (map[string]interface{}, bool) {
	if s.Kind() != openapi.KindObject {
		return nil, false
	}
	obj := make(map[string]interface{})
	for name, prop := range s.Properties {
		if prop != nil && prop.Example != nil {
			obj[name] = prop.Example
		}
	}
	if len(obj) == 0 {
		return nil, false
	}
	return obj, true
}

func (o *Orchestrator) providerGenerate(ctx context.Context, op *openapi.Operation, schemas *openapi.RequestSchemas) (interface{}, error) {
	if o.provider == nil {
		return nil, ai.ErrProviderNotConfigured
	}

	prompt := BuildPrompt(op, schemas, o.locale)
	text, err := o.provider.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", o.provider.Name(), err)
	}
	return text, nil
}

// synthesize builds the payload locally. With a body schema the payload is
// the synthesized body; without one, the query and header parameter buckets
// are synthesized instead so the caller still gets a usable shape.
func (o *Orchestrator) synthesize(schemas *openapi.RequestSchemas) interface{} {
	synth := NewSynthesizer(o.doc, o.locale)

	if schemas.BodySchema != nil {
		return synth.Synthesize(schemas.BodySchema, "")
	}

	payload := make(map[string]interface{})
	if len(schemas.QueryParameters) > 0 {
		query := make(map[string]interface{}, len(schemas.QueryParameters))
		for name, p := range schemas.QueryParameters {
			query[name] = synth.Synthesize(p.Schema, name)
		}
		payload["queryParameters"] = query
	}
	if len(schemas.HeaderParameters) > 0 {
		headers := make(map[string]interface{}, len(schemas.HeaderParameters))
		for name, p := range schemas.HeaderParameters {
			headers[name] = synth.Synthesize(p.Schema, name)
		}
		payload["headerParameters"] = headers
	}
	return payload
}

// validatePayload applies the object-or-array acceptance rule to every phase
// output. Raw text (provider output, scalar spec examples) goes through
// Repair; already-structured values are only round-tripped through JSON,
// never through the text cleanup, so string values containing "//" or
// comment-like content pass untouched.
func validatePayload(raw interface{}) (interface{}, error) {
	if text, ok := raw.(string); ok {
		return Repair(text)
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, &ValidationError{Message: "value is not JSON-serializable", Cause: err}
	}
	var parsed interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, &ValidationError{Message: "value does not round-trip through JSON", Cause: err}
	}

	switch parsed.(type) {
	case map[string]interface{}, []interface{}:
		return parsed, nil
	default:
		return nil, &ValidationError{Message: "payload is not an object or array"}
	}
}
