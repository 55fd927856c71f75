package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deepalert/makegen/internal/emit"
	"github.com/deepalert/makegen/internal/services"
)

type generateOptions struct {
	inputFlags
	Output string
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate the build script",
		Long: `Resolve the stack parameters, discover function and test targets and write
the build script. Nothing is written unless every step succeeds.

Examples:
  makegen generate -c config.json                     # Write ./Makefile
  makegen generate -c config.yml -o build.mk          # Custom destination
  makegen generate -c config.json -o -                # Print to stdout
  makegen generate -c config.json --StackName prod    # Override a parameter
  MAKEGEN_REGION=eu-west-1 makegen generate -c c.json # Override from env`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "Makefile", "Destination file, - for stdout")
	addInputFlags(cmd, &opts.inputFlags)

	return cmd
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	ctx := cmd.Context()

	req, err := opts.request(cmd)
	if err != nil {
		return err
	}

	result, err := services.NewGenerateService(appFs, logger).Generate(ctx, req)
	if err != nil {
		return err
	}

	if err := emit.NewEmitter(appFs, cmd.OutOrStdout()).Emit(opts.Output, result.Script); err != nil {
		return err
	}

	logger.Info(ctx, "Build script written",
		"output", opts.Output,
		"functions", len(result.Functions),
		"tests", len(result.Tests),
	)

	return nil
}
