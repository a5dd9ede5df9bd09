package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/apiprobe/apiprobe/pkg/bundle"
	"github.com/apiprobe/apiprobe/pkg/generate"
	"github.com/apiprobe/apiprobe/pkg/httpexec"
	"github.com/apiprobe/apiprobe/pkg/openapi"
)

var (
	callBaseURL  string
	callData     string
	callHeaders  []string
	callLocale   string
	callUseAI    bool
	callProvider string
	callModel    string
	callCertFile string
	callKeyFile  string
	callTimeout  time.Duration
	callSave     bool
)

var callCmd = &cobra.Command{
	Use:   "call <spec> <METHOD> <PATH>",
	Short: "Generate a payload and execute the request against a live API",
	Long: `Generate a request payload for one operation (or take one via --data) and
execute it against a live API. Path and query parameters are filled from the
generated payload; the response status, headers and body are printed.

With --save, the request and response are persisted as a test-data bundle.`,
	Example: `  # Generate and send
  apiprobe call petstore.yaml POST /pets --base-url https://api.example.com

  # Send a hand-written payload
  apiprobe call petstore.yaml POST /pets --base-url https://api.example.com --data '{"name": "Rex"}'

  # Read the payload from a file
  apiprobe call petstore.yaml POST /pets --base-url https://api.example.com --data @pet.json

  # Extra headers and mutual TLS
  apiprobe call petstore.yaml GET /pets --base-url https://api.example.com \
    --header "Authorization: Bearer token" --cert client.crt --key client.key

  # Persist the exchange as a bundle
  apiprobe call petstore.yaml POST /pets --base-url https://api.example.com --save`,
	Args: cobra.ExactArgs(3),
	RunE: runCall,
}

func runCall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	doc, err := openapi.Load(ctx, args[0])
	if err != nil {
		return err
	}
	op, ok := doc.FindOperation(args[1], args[2])
	if !ok {
		return fmt.Errorf("operation %s %s not found in %s", args[1], args[2], doc.Source())
	}

	payload, err := callPayload(cmd, doc, op)
	if err != nil {
		return err
	}

	headers, err := parseHeaderFlags(callHeaders)
	if err != nil {
		return err
	}

	opts := []httpexec.Option{httpexec.WithTimeout(callTimeout)}
	if callCertFile != "" || callKeyFile != "" {
		if callCertFile == "" || callKeyFile == "" {
			return fmt.Errorf("--cert and --key must be given together")
		}
		opts = append(opts, httpexec.WithClientCert(callCertFile, callKeyFile))
	}
	executor, err := httpexec.New(callBaseURL, opts...)
	if err != nil {
		return err
	}

	req := buildExecRequest(op, payload, headers)
	log.Info("executing request", "method", req.Method, "path", req.Path, "base_url", callBaseURL)

	resp, err := executor.Execute(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", resp.Status, resp.Duration.Round(time.Millisecond))
	for _, name := range []string{"Content-Type", "Content-Length", "Location"} {
		if v := resp.Headers.Get(name); v != "" {
			fmt.Printf("%s: %s\n", name, v)
		}
	}
	if len(resp.Body) > 0 {
		fmt.Println()
		fmt.Println(string(resp.Body))
	}

	if callSave {
		return saveCallBundle(doc, op, req, resp, headers)
	}
	return nil
}

// callPayload returns the request payload: --data verbatim (inline or @file),
// otherwise a generated one.
func callPayload(cmd *cobra.Command, doc *openapi.Document, op *openapi.Operation) (interface{}, error) {
	if callData != "" {
		raw := callData
		if strings.HasPrefix(raw, "@") {
			data, err := os.ReadFile(raw[1:])
			if err != nil {
				return nil, fmt.Errorf("failed to read payload file: %w", err)
			}
			raw = string(data)
		}
		var payload interface{}
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return nil, fmt.Errorf("payload is not valid JSON: %w", err)
		}
		return payload, nil
	}

	provider, err := buildProvider(callUseAI, callProvider, callModel)
	if err != nil {
		return nil, err
	}
	o := generate.NewOrchestrator(doc, provider, callLocale, log)
	result, err := o.GenerateRequest(cmd.Context(), op)
	if err != nil {
		return nil, err
	}
	log.Info("generated payload", "phase", string(result.Phase))
	return result.Value, nil
}

// buildExecRequest maps a generated payload onto the wire request. A payload
// using the bucketed shape (pathParameters/queryParameters/headerParameters/
// requestBody) is split into its parts; anything else is sent as the body.
func buildExecRequest(op *openapi.Operation, payload interface{}, headers map[string]string) *httpexec.Request {
	req := &httpexec.Request{
		Method:  op.Method,
		Path:    op.Path,
		Headers: headers,
	}

	body := payload
	if obj, ok := payload.(map[string]interface{}); ok && isBucketedPayload(obj) {
		req.PathParams = stringMap(obj["pathParameters"])
		req.Query = stringMap(obj["queryParameters"])
		for name, value := range stringMap(obj["headerParameters"]) {
			if _, exists := req.Headers[name]; !exists {
				if req.Headers == nil {
					req.Headers = map[string]string{}
				}
				req.Headers[name] = value
			}
		}
		body = obj["requestBody"]
	}

	if body != nil && op.RequestBody != nil {
		if data, err := json.Marshal(body); err == nil {
			req.Body = data
		}
	}
	return req
}

// isBucketedPayload reports whether every top-level key is one of the
// parameter buckets the generator emits.
func isBucketedPayload(obj map[string]interface{}) bool {
	if len(obj) == 0 {
		return false
	}
	for key := range obj {
		switch key {
		case "pathParameters", "queryParameters", "headerParameters", "requestBody":
		default:
			return false
		}
	}
	return true
}

// stringMap flattens a generated parameter bucket to string values.
func stringMap(node interface{}) map[string]string {
	obj, ok := node.(map[string]interface{})
	if !ok || len(obj) == 0 {
		return nil
	}
	out := make(map[string]string, len(obj))
	for name, value := range obj {
		switch v := value.(type) {
		case string:
			out[name] = v
		case float64:
			// Trim the ".0" JSON round-tripping adds to integers.
			if v == float64(int64(v)) {
				out[name] = fmt.Sprintf("%d", int64(v))
			} else {
				out[name] = fmt.Sprintf("%g", v)
			}
		default:
			out[name] = fmt.Sprintf("%v", v)
		}
	}
	return out
}

// parseHeaderFlags parses repeated "Name: value" header flags.
func parseHeaderFlags(flags []string) (map[string]string, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(flags))
	for _, raw := range flags {
		name, value, ok := strings.Cut(raw, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q, expected \"Name: value\"", raw)
		}
		headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return headers, nil
}

func saveCallBundle(doc *openapi.Document, op *openapi.Operation, req *httpexec.Request, resp *httpexec.Response, headers map[string]string) error {
	store := bundle.NewStore(bundle.Config{})
	if err := store.Open(); err != nil {
		return fmt.Errorf("failed to open bundle store: %w", err)
	}

	b := &bundle.TestBundle{
		Operation: bundle.OperationRef{
			Method:  op.Method,
			Path:    op.Path,
			Summary: op.Summary,
		},
		InputJSON:      string(req.Body),
		OutputJSON:     string(resp.Body),
		CustomHeaders:  headers,
		APIBaseURL:     callBaseURL,
		OpenAPISpecURL: doc.Source(),
	}
	if callCertFile != "" {
		b.ClientCert = &bundle.ClientCert{CertFile: callCertFile, KeyFile: callKeyFile}
	}
	if err := store.Save(b); err != nil {
		return fmt.Errorf("failed to save bundle: %w", err)
	}
	log.Info("saved bundle", "id", b.ID)
	fmt.Fprintf(os.Stderr, "Saved bundle %s\n", b.ID)
	return nil
}

func init() {
	callCmd.Flags().StringVar(&callBaseURL, "base-url", "", "API base URL to execute against (required)")
	callCmd.Flags().StringVar(&callData, "data", "", "Request payload as inline JSON or @file")
	callCmd.Flags().StringArrayVar(&callHeaders, "header", nil, "Extra request header (\"Name: value\", repeatable)")
	callCmd.Flags().StringVar(&callLocale, "locale", generate.DefaultLocale, "Locale for synthesized values")
	callCmd.Flags().BoolVar(&callUseAI, "ai", false, "Enable the external provider phase")
	callCmd.Flags().StringVar(&callProvider, "provider", "", "Provider override (openai, anthropic, ollama, openrouter)")
	callCmd.Flags().StringVar(&callModel, "model", "", "Model override")
	callCmd.Flags().StringVar(&callCertFile, "cert", "", "TLS client certificate file")
	callCmd.Flags().StringVar(&callKeyFile, "key", "", "TLS client key file")
	callCmd.Flags().DurationVar(&callTimeout, "timeout", 30*time.Second, "Request timeout")
	callCmd.Flags().BoolVar(&callSave, "save", false, "Persist the exchange as a test-data bundle")
	_ = callCmd.MarkFlagRequired("base-url")
	rootCmd.AddCommand(callCmd)
}
