package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deepalert/makegen/internal/version"
)

type versionOptions struct {
	Format string
	Short  bool
}

func newVersionCmd() *cobra.Command {
	opts := &versionOptions{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display version information for makegen including the version number,
git commit, build time, Go version and target platform.

Examples:
  makegen version                # Full version info
  makegen version --short        # One line
  makegen version --format json  # JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVersion(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "text", "Output format (text, json)")
	cmd.Flags().BoolVar(&opts.Short, "short", false, "Show short version only")

	return cmd
}

func runVersion(cmd *cobra.Command, opts *versionOptions) error {
	out := cmd.OutOrStdout()

	switch opts.Format {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(version.GetBuildInfo())
	case "text":
		if opts.Short {
			_, err := fmt.Fprintln(out, version.GetShortVersion())
			return err
		}
		_, err := fmt.Fprintln(out, version.GetBuildInfo().String())
		return err
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", opts.Format)
	}
}
