package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/deepalert/makegen/internal/emit"
	"github.com/deepalert/makegen/internal/services"
	"github.com/deepalert/makegen/internal/watcher"
)

type watchOptions struct {
	generateOptions
	Debounce time.Duration
}

func newWatchCmd() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:     "watch",
		Aliases: []string{"w"},
		Short:   "Regenerate the build script when targets or config change",
		Long: `Generate the build script, then keep watching the function root, the test
root and the config file. Adding or removing a target directory, or editing
the config file, regenerates the script. Failed regenerations are logged and
leave the previous script in place.

Examples:
  makegen watch -c config.json
  makegen watch -c config.json --debounce 1s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "Makefile", "Destination file, - for stdout")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 300*time.Millisecond, "Quiet period before regenerating")
	addInputFlags(cmd, &opts.inputFlags)

	return cmd
}

func runWatch(cmd *cobra.Command, opts *watchOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req, err := opts.request(cmd)
	if err != nil {
		return err
	}

	regen := &regenerator{
		svc:     services.NewGenerateService(appFs, logger),
		emitter: emit.NewEmitter(appFs, cmd.OutOrStdout()),
		req:     req,
		output:  opts.Output,
	}
	if _, err := regen.run(ctx); err != nil {
		return err
	}

	fw, err := watcher.NewFileWatcher(opts.Debounce, logger)
	if err != nil {
		return err
	}
	defer fw.Stop()

	dirs := []string{opts.FunctionsDir, opts.TestDir}
	var files []string
	for _, dir := range dirs {
		if err := fw.AddPath(dir); err != nil {
			return err
		}
	}
	if opts.ConfigFile != "" {
		files = append(files, opts.ConfigFile)
		if err := fw.AddPath(filepath.Dir(opts.ConfigFile)); err != nil {
			return err
		}
	}

	fw.AddFilter(watcher.UnderDirs(dirs, files))
	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		logger.Debug(ctx, "Change detected", "events", len(events), "first", events[0].Path)
		_, err := regen.run(ctx)
		return err
	})
	fw.Start(ctx)

	logger.Info(ctx, "Watching for changes", "functions", opts.FunctionsDir, "tests", opts.TestDir)
	<-ctx.Done()
	logger.Info(ctx, "Stopped watching")

	return nil
}

// regenerator re-runs generation and emits only when the script changed.
// It is driven from the watcher's single handler goroutine.
type regenerator struct {
	svc     *services.GenerateService
	emitter *emit.Emitter
	req     services.GenerateRequest
	output  string
	last    string
}

func (r *regenerator) run(ctx context.Context) (bool, error) {
	result, err := r.svc.Generate(ctx, r.req)
	if err != nil {
		return false, err
	}
	if result.Script == r.last {
		logger.Debug(ctx, "Build script unchanged", "output", r.output)
		return false, nil
	}

	if err := r.emitter.Emit(r.output, result.Script); err != nil {
		return false, err
	}
	r.last = result.Script

	logger.Info(ctx, "Build script written",
		"output", r.output,
		"functions", len(result.Functions),
		"tests", len(result.Tests),
	)

	return true, nil
}
