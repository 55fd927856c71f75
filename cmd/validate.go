package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deepalert/makegen/internal/discovery"
	"github.com/deepalert/makegen/internal/params"
	"github.com/deepalert/makegen/internal/services"
)

func newValidateCmd() *cobra.Command {
	opts := &inputFlags{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the inputs without writing anything",
		Long: `Run the whole pipeline exactly like generate does, then print a summary
instead of writing the build script.

Examples:
  makegen validate -c config.json
  makegen validate -c config.json --functions-dir ./lambdas`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, opts)
		},
	}

	addInputFlags(cmd, opts)

	return cmd
}

func runValidate(cmd *cobra.Command, opts *inputFlags) error {
	req, err := opts.request(cmd)
	if err != nil {
		return err
	}

	result, err := services.NewGenerateService(appFs, logger).Generate(cmd.Context(), req)
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), result, params.Default())

	return nil
}

func printSummary(w io.Writer, result *services.GenerateResult, spec params.Spec) {
	var optional []string
	for _, p := range spec.Optional() {
		if result.Config.Has(p.Name) {
			optional = append(optional, p.Name)
		}
	}

	fmt.Fprintln(w, "Configuration OK")
	fmt.Fprintf(w, "  required parameters: %d\n", len(spec.Required()))
	fmt.Fprintf(w, "  optional parameters: %s\n", listOrNone(optional))
	fmt.Fprintf(w, "Function targets: %s\n", listOrNone(discovery.OutputPaths(result.Functions)))
	fmt.Fprintf(w, "Test targets: %s\n", listOrNone(discovery.OutputPaths(result.Tests)))
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}

	return strings.Join(items, ", ")
}
