package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/apiprobe/apiprobe/pkg/openapi"
)

var operationsValidate bool

var operationsCmd = &cobra.Command{
	Use:   "operations <spec>",
	Short: "List the operations an OpenAPI description declares",
	Example: `  # List operations from a local file
  apiprobe operations petstore.yaml

  # List operations from a URL
  apiprobe operations https://petstore3.swagger.io/api/v3/openapi.json

  # Structurally validate the description first
  apiprobe operations petstore.yaml --validate`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		doc, err := openapi.Load(ctx, args[0])
		if err != nil {
			return err
		}
		if operationsValidate {
			if err := doc.Validate(ctx); err != nil {
				return fmt.Errorf("description failed validation: %w", err)
			}
		}

		ops := doc.Operations()
		log.Debug("loaded description", "source", doc.Source(), "operations", len(ops))

		if jsonOutput {
			type operationJSON struct {
				Method      string `json:"method"`
				Path        string `json:"path"`
				Summary     string `json:"summary,omitempty"`
				OperationID string `json:"operationId,omitempty"`
			}
			out := make([]operationJSON, len(ops))
			for i, op := range ops {
				out[i] = operationJSON{
					Method:      op.Method,
					Path:        op.Path,
					Summary:     op.Summary,
					OperationID: op.OperationID,
				}
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		if title := doc.Title(); title != "" {
			fmt.Printf("%s (%s)\n\n", title, doc.Source())
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tSUMMARY")
		for _, op := range ops {
			fmt.Fprintf(w, "%s\t%s\t%s\n", op.Method, op.Path, op.Summary)
		}
		return w.Flush()
	},
}

func init() {
	operationsCmd.Flags().BoolVar(&operationsValidate, "validate", false, "Validate the description before listing")
	rootCmd.AddCommand(operationsCmd)
}
