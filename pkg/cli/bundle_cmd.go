package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/apiprobe/apiprobe/pkg/bundle"
)

var (
	bundleDataDir string

	bundleSaveSpec    string
	bundleSaveMethod  string
	bundleSavePath    string
	bundleSaveInput   string
	bundleSaveOutput  string
	bundleSaveBaseURL string
	bundleSaveHeaders []string

	bundleListMethod string
	bundleListPath   string
)

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Save and list persisted test-data bundles",
}

var bundleSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save a test-data bundle",
	Example: `  # Save a generated payload for later replay
  apiprobe bundle save --spec petstore.yaml --method POST --path /pets --input '{"name": "Rex"}'

  # Read the payload from a file and record the response
  apiprobe bundle save --spec petstore.yaml --method POST --path /pets \
    --input @input.json --output @output.json --base-url https://api.example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := readInlineOrFile(bundleSaveInput)
		if err != nil {
			return err
		}
		output, err := readInlineOrFile(bundleSaveOutput)
		if err != nil {
			return err
		}
		headers, err := parseHeaderFlags(bundleSaveHeaders)
		if err != nil {
			return err
		}

		store := bundle.NewStore(bundle.Config{DataDir: bundleDataDir})
		if err := store.Open(); err != nil {
			return fmt.Errorf("failed to open bundle store: %w", err)
		}

		b := &bundle.TestBundle{
			Operation:      bundle.OperationRef{Method: bundleSaveMethod, Path: bundleSavePath},
			InputJSON:      input,
			OutputJSON:     output,
			CustomHeaders:  headers,
			APIBaseURL:     bundleSaveBaseURL,
			OpenAPISpecURL: bundleSaveSpec,
		}
		if err := store.Save(b); err != nil {
			return fmt.Errorf("failed to save bundle: %w", err)
		}
		fmt.Println(b.ID)
		return nil
	},
}

var bundleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved bundles, newest first",
	Example: `  # All bundles
  apiprobe bundle list

  # Bundles for one operation
  apiprobe bundle list --method POST --path /pets

  # Machine-readable output
  apiprobe bundle list --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := bundle.NewStore(bundle.Config{DataDir: bundleDataDir, ReadOnly: true})
		if err := store.Open(); err != nil {
			return fmt.Errorf("failed to open bundle store: %w", err)
		}

		var bundles []*bundle.TestBundle
		for _, b := range store.List() {
			if bundleListMethod != "" && !strings.EqualFold(b.Operation.Method, bundleListMethod) {
				continue
			}
			if bundleListPath != "" && b.Operation.Path != bundleListPath {
				continue
			}
			bundles = append(bundles, b)
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(bundles)
		}

		if len(bundles) == 0 {
			fmt.Println("No bundles saved.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tOPERATION\tSAVED\tSPEC")
		for _, b := range bundles {
			fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\n",
				b.ID,
				b.Operation.Method, b.Operation.Path,
				b.Timestamp.Format("2006-01-02 15:04:05"),
				b.OpenAPISpecURL)
		}
		return w.Flush()
	},
}

var bundleDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved bundle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := bundle.NewStore(bundle.Config{DataDir: bundleDataDir})
		if err := store.Open(); err != nil {
			return fmt.Errorf("failed to open bundle store: %w", err)
		}
		return store.Delete(args[0])
	},
}

// readInlineOrFile returns the argument verbatim, or the contents of the file
// it names when prefixed with @.
func readInlineOrFile(value string) (string, error) {
	if !strings.HasPrefix(value, "@") {
		return value, nil
	}
	data, err := os.ReadFile(value[1:])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", value[1:], err)
	}
	return string(data), nil
}

func init() {
	bundleCmd.PersistentFlags().StringVar(&bundleDataDir, "data-dir", "", "Bundle store directory (default: platform data dir)")

	bundleSaveCmd.Flags().StringVar(&bundleSaveSpec, "spec", "", "OpenAPI description URL or path the bundle belongs to")
	bundleSaveCmd.Flags().StringVar(&bundleSaveMethod, "method", "", "Operation HTTP method")
	bundleSaveCmd.Flags().StringVar(&bundleSavePath, "path", "", "Operation path template")
	bundleSaveCmd.Flags().StringVar(&bundleSaveInput, "input", "", "Generated request payload as inline JSON or @file")
	bundleSaveCmd.Flags().StringVar(&bundleSaveOutput, "output", "", "Observed response body as inline JSON or @file")
	bundleSaveCmd.Flags().StringVar(&bundleSaveBaseURL, "base-url", "", "API base URL the bundle replays against")
	bundleSaveCmd.Flags().StringArrayVar(&bundleSaveHeaders, "header", nil, "Custom header (\"Name: value\", repeatable)")
	_ = bundleSaveCmd.MarkFlagRequired("spec")
	_ = bundleSaveCmd.MarkFlagRequired("method")
	_ = bundleSaveCmd.MarkFlagRequired("path")
	_ = bundleSaveCmd.MarkFlagRequired("input")

	bundleListCmd.Flags().StringVar(&bundleListMethod, "method", "", "Filter by HTTP method")
	bundleListCmd.Flags().StringVar(&bundleListPath, "path", "", "Filter by path template")

	bundleCmd.AddCommand(bundleSaveCmd)
	bundleCmd.AddCommand(bundleListCmd)
	bundleCmd.AddCommand(bundleDeleteCmd)
	rootCmd.AddCommand(bundleCmd)
}
