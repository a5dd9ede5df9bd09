package generate

import (
	"errors"
	"regexp"
	"strings"

	json "github.com/goccy/go-json"
)

// ErrUnserializedObject reports the literal "[object Object]" string, which
// means an upstream caller stringified an object instead of serializing it.
// Worth a dedicated diagnostic rather than an opaque parse failure.
var ErrUnserializedObject = errors.New(`input is "[object Object]": caller passed an unserialized object`)

// ExtractionError reports that no JSON-shaped substring could be found in the
// input text.
type ExtractionError struct {
	Message string
}

func (e *ExtractionError) Error() string {
	return "json extraction failed: " + e.Message
}

// ValidationError reports that extracted text does not parse to a JSON object
// or array.
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return "json validation failed: " + e.Message + ": " + e.Cause.Error()
	}
	return "json validation failed: " + e.Message
}

func (e *ValidationError) Unwrap() error { return e.Cause }

var (
	objectSpan = regexp.MustCompile(`(?s)\{.*\}`)
	arraySpan  = regexp.MustCompile(`(?s)\[.*\]`)
)

// Repair extracts a JSON object or array from free-form text, strips trailing
// commas and comments, and parses the result. Primitives are rejected even
// when syntactically valid: the contract is a structured payload, not an
// arbitrary scalar.
func Repair(text string) (interface{}, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "[object Object]" {
		return nil, ErrUnserializedObject
	}
	if trimmed == "" {
		return nil, &ExtractionError{Message: "input is empty"}
	}

	candidate, spanned := extractSpan(trimmed)

	// Cleanup tracks string literals, so a "//" inside a value (every URL
	// has one) is left alone while real comments and trailing commas go.
	candidate = stripComments(candidate)
	candidate = stripTrailingCommas(candidate)
	candidate = strings.TrimSpace(candidate)

	var parsed interface{}
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		if !spanned {
			return nil, &ExtractionError{Message: "no JSON object or array found in input"}
		}
		return nil, &ValidationError{Message: "extracted text is not valid JSON", Cause: err}
	}

	switch parsed.(type) {
	case map[string]interface{}, []interface{}:
		return parsed, nil
	default:
		return nil, &ValidationError{Message: "parsed value is not an object or array"}
	}
}

// extractSpan prefers the outermost {...} span, then the outermost [...]
// span, then the raw text. The second return reports whether a span was
// actually found.
func extractSpan(text string) (string, bool) {
	if match := objectSpan.FindString(text); match != "" {
		return match, true
	}
	if match := arraySpan.FindString(text); match != "" {
		return match, true
	}
	return text, false
}

// stripComments removes // and /* */ comments outside string literals.
// A // inside a quoted value, as in any URL, is data and stays.
func stripComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString, escaped := false, false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch {
		case c == '"':
			inString = true
			b.WriteByte(c)
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				b.WriteByte('\n')
			}
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			i += 2
			for i+1 < len(s) && !(s[i] == '*' && s[i+1] == '/') {
				i++
			}
			i++ // land on the closing '/'; unterminated comments swallow the rest
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// stripTrailingCommas removes a comma whose next non-whitespace byte closes
// an object or array, again ignoring string literal contents.
func stripTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString, escaped := false, false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n' || s[j] == '\r') {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
