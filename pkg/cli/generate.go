package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/apiprobe/apiprobe/pkg/ai"
	"github.com/apiprobe/apiprobe/pkg/generate"
	"github.com/apiprobe/apiprobe/pkg/openapi"
)

var (
	generateLocale   string
	generateUseAI    bool
	generateProvider string
	generateModel    string
)

var generateCmd = &cobra.Command{
	Use:   "generate <spec> <METHOD> <PATH>",
	Short: "Produce a request payload for one operation",
	Long: `Produce a request payload for one operation of an OpenAPI description.

Generation tries three strategies in order: an example embedded in the
description, an external text-generation provider, and local synthesis.
The provider strategy only runs with --ai (or when APIPROBE_AI_PROVIDER
is set); the other two always apply.`,
	Example: `  # Generate from examples or local synthesis
  apiprobe generate petstore.yaml POST /pets

  # German-locale values
  apiprobe generate petstore.yaml POST /pets --locale de-DE

  # Use the provider configured in the environment
  apiprobe generate petstore.yaml POST /pets --ai

  # Override the provider and model
  apiprobe generate petstore.yaml POST /pets --ai --provider ollama --model llama3.2`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		doc, err := openapi.Load(ctx, args[0])
		if err != nil {
			return err
		}
		op, ok := doc.FindOperation(args[1], args[2])
		if !ok {
			return fmt.Errorf("operation %s %s not found in %s", args[1], args[2], doc.Source())
		}

		provider, err := buildProvider(generateUseAI, generateProvider, generateModel)
		if err != nil {
			return err
		}

		o := generate.NewOrchestrator(doc, provider, generateLocale, log)
		result, err := o.GenerateRequest(ctx, op)
		if err != nil {
			return err
		}

		log.Info("generated payload", "operation", op.Method+" "+op.Path, "phase", string(result.Phase))

		out, err := result.JSON()
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

// buildProvider assembles the text-generation provider from the environment
// plus flag overrides. Returns nil (no provider phase) when AI is not
// requested and the environment is silent.
func buildProvider(useAI bool, providerName, model string) (ai.Provider, error) {
	cfg := ai.ConfigFromEnv()
	if !useAI && cfg == nil {
		return nil, nil
	}
	if cfg == nil {
		// Provider named only by flag; still honor credential env vars.
		cfg = &ai.Config{
			APIKey:   os.Getenv(ai.EnvAPIKey),
			Model:    os.Getenv(ai.EnvModel),
			Endpoint: os.Getenv(ai.EnvEndpoint),
		}
	}
	if providerName != "" {
		cfg.Provider = providerName
	}
	if model != "" {
		cfg.Model = model
	}
	if cfg.Provider == "" {
		return nil, fmt.Errorf("no provider configured: set %s or pass --provider", ai.EnvProvider)
	}

	provider, err := ai.NewProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure provider: %w", err)
	}
	return provider, nil
}

func init() {
	generateCmd.Flags().StringVar(&generateLocale, "locale", generate.DefaultLocale, "Locale for synthesized values")
	generateCmd.Flags().BoolVar(&generateUseAI, "ai", false, "Enable the external provider phase")
	generateCmd.Flags().StringVar(&generateProvider, "provider", "", "Provider override (openai, anthropic, ollama, openrouter)")
	generateCmd.Flags().StringVar(&generateModel, "model", "", "Model override")
	rootCmd.AddCommand(generateCmd)
}
