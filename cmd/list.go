package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/deepalert/makegen/internal/discovery"
	"github.com/deepalert/makegen/internal/services"
)

type listOptions struct {
	rootFlags
	Format string
}

// targetListing is one row of list output
type targetListing struct {
	Kind   string `json:"kind"   yaml:"kind"`
	Name   string `json:"name"   yaml:"name"`
	Source string `json:"source" yaml:"source"`
	Output string `json:"output" yaml:"output"`
}

func newListCmd() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"l"},
		Short:   "List discovered build targets",
		Long: `List the function and test targets that generate would build.

Examples:
  makegen list                    # Table format
  makegen list -f json            # JSON
  makegen list --format yaml      # YAML`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format (table, json, yaml)")
	addRootFlags(cmd, &opts.rootFlags)

	return cmd
}

func runList(cmd *cobra.Command, opts *listOptions) error {
	if err := validateFormat(opts.Format, []string{"table", "json", "yaml"}); err != nil {
		return err
	}

	functions, tests, err := services.NewGenerateService(appFs, logger).Discover(cmd.Context(), opts.discoveryRequest())
	if err != nil {
		return err
	}

	rows := append(listings("function", functions), listings("test", tests)...)
	out := cmd.OutOrStdout()

	switch opts.Format {
	case "json":
		return outputJSON(out, rows)
	case "yaml":
		return outputYAML(out, rows)
	default:
		return outputTable(out, rows)
	}
}

func listings(kind string, targets []discovery.BuildTarget) []targetListing {
	rows := make([]targetListing, 0, len(targets))
	for _, t := range targets {
		rows = append(rows, targetListing{
			Kind:   kind,
			Name:   t.Name,
			Source: t.SourceDir(),
			Output: t.OutputPath,
		})
	}

	return rows
}

func outputTable(w io.Writer, rows []targetListing) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No build targets found")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tNAME\tSOURCE\tOUTPUT")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Kind, r.Name, r.Source, r.Output)
	}

	return tw.Flush()
}

func outputJSON(w io.Writer, rows []targetListing) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(rows)
}

func outputYAML(w io.Writer, rows []targetListing) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(rows); err != nil {
		_ = encoder.Close()
		return err
	}

	return encoder.Close()
}
