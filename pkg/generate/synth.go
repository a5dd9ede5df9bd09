package generate

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/apiprobe/apiprobe/pkg/openapi"
)

// Synthesizer produces randomized but plausible values for schema nodes,
// drawing names, companies and cities from a locale pool. It mirrors the
// traversal of ExampleGenerator with a different leaf-value policy.
type Synthesizer struct {
	doc  *openapi.Document
	pool *LocalePool
}

// NewSynthesizer creates a synthesizer for the given locale. Unknown locale
// codes fall back to the default pool.
func NewSynthesizer(doc *openapi.Document, locale string) *Synthesizer {
	return &Synthesizer{doc: doc, pool: PoolFor(locale)}
}

// Locale returns the effective locale code after fallback.
func (s *Synthesizer) Locale() string { return s.pool.Code }

// Synthesize produces a randomized value for the schema. The optional
// fieldName biases leaf generation (a property called "email" gets an email
// even without a format hint). Explicit spec examples still win over
// synthesis.
func (s *Synthesizer) Synthesize(schema *openapi.Schema, fieldName string) interface{} {
	return s.synthesize(schema, fieldName, 0)
}

func (s *Synthesizer) synthesize(schema *openapi.Schema, fieldName string, depth int) interface{} {
	if schema == nil {
		return ""
	}
	if depth > maxExampleDepth {
		return "..."
	}

	if schema.Example != nil {
		return schema.Example
	}

	if schema.Ref != "" {
		resolved, ok := resolveRef(s.doc, schema.Ref)
		if !ok {
			return fmt.Sprintf("<unresolved: %s>", schema.Ref)
		}
		return s.synthesize(resolved, fieldName, depth+1)
	}

	if len(schema.AllOf) > 0 {
		return s.synthesize(schema.AllOf[0], fieldName, depth+1)
	}
	if len(schema.OneOf) > 0 {
		return s.synthesize(schema.OneOf[0], fieldName, depth+1)
	}
	if len(schema.AnyOf) > 0 {
		return s.synthesize(schema.AnyOf[0], fieldName, depth+1)
	}

	switch schema.Kind() {
	case openapi.KindString:
		return s.synthString(schema, fieldName)
	case openapi.KindInteger:
		return s.synthInteger(schema, fieldName)
	case openapi.KindNumber:
		return s.synthNumber(schema, fieldName)
	case openapi.KindBoolean:
		return rand.Intn(2) == 0
	case openapi.KindArray:
		return s.synthArray(schema, fieldName, depth)
	case openapi.KindObject:
		return s.synthObject(schema, depth)
	case openapi.KindReference, openapi.KindComposition:
		return ""
	default:
		if schema.Items != nil {
			return s.synthArray(schema, fieldName, depth)
		}
		return ""
	}
}

func (s *Synthesizer) synthArray(schema *openapi.Schema, fieldName string, depth int) interface{} {
	if schema.Items == nil {
		return []interface{}{}
	}
	count := 1 + rand.Intn(3)
	items := make([]interface{}, count)
	for i := range items {
		items[i] = s.synthesize(schema.Items, fieldName, depth+1)
	}
	return items
}

func (s *Synthesizer) synthObject(schema *openapi.Schema, depth int) interface{} {
	obj := make(map[string]interface{}, len(schema.Properties))
	for name, prop := range schema.Properties {
		obj[name] = s.synthesize(prop, name, depth+1)
	}
	return obj
}

func (s *Synthesizer) synthString(schema *openapi.Schema, fieldName string) interface{} {
	if len(schema.Enum) > 0 {
		return schema.Enum[rand.Intn(len(schema.Enum))]
	}

	switch schema.Format {
	case "email":
		return s.pool.email()
	case "date":
		return recentTime().Format("2006-01-02")
	case "date-time":
		return recentTime().UTC().Format(time.RFC3339)
	case "uuid":
		return uuid.New().String()
	case "uri", "url":
		return "https://" + slugify(s.pool.company()) + ".example.com/" + slugify(s.pool.city())
	case "password":
		return "P@ss" + uuid.New().String()[:8]
	}

	lower := strings.ToLower(fieldName)
	switch {
	case lower == "email" || strings.HasSuffix(lower, "email"):
		return s.pool.email()
	case lower == "name" || lower == "fullname" || lower == "full_name":
		return s.pool.fullName()
	case lower == "firstname" || lower == "first_name" || lower == "given_name":
		return s.pool.firstName()
	case lower == "lastname" || lower == "last_name" || lower == "surname":
		return s.pool.lastName()
	case lower == "company" || lower == "organization" || lower == "org" || lower == "employer":
		return s.pool.company()
	case lower == "city" || lower == "town":
		return s.pool.city()
	case lower == "status" || lower == "state":
		statuses := []string{"active", "inactive", "pending"}
		return statuses[rand.Intn(len(statuses))]
	case lower == "phone" || lower == "mobile" || lower == "tel" || strings.HasSuffix(lower, "phone"):
		return s.pool.phone()
	case lower == "id" || strings.HasSuffix(lower, "_id") || strings.HasSuffix(lower, "id"):
		return uuid.New().String()
	case strings.HasSuffix(lower, "_at") || strings.HasSuffix(lower, "date") || lower == "timestamp":
		return recentTime().UTC().Format(time.RFC3339)
	}

	if fieldName != "" {
		return "sample-" + fieldName
	}
	return "sample-value"
}

func (s *Synthesizer) synthInteger(schema *openapi.Schema, fieldName string) interface{} {
	lower := strings.ToLower(fieldName)
	switch {
	case lower == "id" || strings.HasSuffix(lower, "_id") || strings.HasSuffix(lower, "id"):
		return 10000 + rand.Intn(90000)
	case lower == "age":
		return 18 + rand.Intn(50)
	case lower == "quantity" || lower == "count" || strings.HasSuffix(lower, "count"):
		return 1 + rand.Intn(100)
	}

	lo, hi := 1, 100
	if schema.Minimum != nil {
		lo = int(*schema.Minimum)
	}
	if schema.Maximum != nil {
		hi = int(*schema.Maximum)
	} else if schema.Minimum != nil {
		hi = lo + 100
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		return lo
	}
	return lo + rand.Intn(hi-lo+1)
}

func (s *Synthesizer) synthNumber(schema *openapi.Schema, fieldName string) interface{} {
	lower := strings.ToLower(fieldName)
	if lower == "price" || lower == "cost" || lower == "amount" || lower == "total" ||
		strings.HasSuffix(lower, "price") || strings.HasSuffix(lower, "amount") {
		return currencyValue(1, 1000)
	}

	lo, hi := 0.0, 100.0
	if schema.Minimum != nil {
		lo = *schema.Minimum
	}
	if schema.Maximum != nil {
		hi = *schema.Maximum
	} else if schema.Minimum != nil {
		hi = lo + 100
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		return lo
	}
	return math.Round((lo+rand.Float64()*(hi-lo))*100) / 100
}

// currencyValue returns a two-decimal value in [lo, hi).
func currencyValue(lo, hi float64) float64 {
	return math.Round((lo+rand.Float64()*(hi-lo))*100) / 100
}

// recentTime returns a timestamp within the last 90 days.
func recentTime() time.Time {
	offset := time.Duration(rand.Int63n(int64(90 * 24 * time.Hour)))
	return time.Now().Add(-offset)
}
