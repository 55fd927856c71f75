// Package services holds the business logic behind the CLI commands.
package services

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/deepalert/makegen/internal/config"
	"github.com/deepalert/makegen/internal/discovery"
	"github.com/deepalert/makegen/internal/logging"
	"github.com/deepalert/makegen/internal/params"
	"github.com/deepalert/makegen/internal/render"
)

// GenerateService resolves, discovers and renders a build script. It never
// writes anything; emitting the result is left to the caller.
type GenerateService struct {
	fs         afero.Fs
	logger     logging.Logger
	spec       params.Spec
	discoverer *discovery.Discoverer
}

// NewGenerateService creates a service reading from fs.
func NewGenerateService(fs afero.Fs, logger logging.Logger) *GenerateService {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &GenerateService{
		fs:         fs,
		logger:     logger.WithComponent("generate"),
		spec:       params.Default(),
		discoverer: discovery.NewDiscoverer(fs),
	}
}

// GenerateRequest contains the resolved front-end inputs of one run
type GenerateRequest struct {
	// ConfigFile is the optional base configuration; empty means none.
	ConfigFile string
	// Overrides take precedence over ConfigFile per key.
	Overrides     config.Values
	Workdir       string
	FunctionsRoot string
	TestRoot      string
	// Unsorted keeps the filesystem enumeration order of targets.
	Unsorted bool
	// Options.Common defaults to render.CommonSources of FunctionsRoot.
	Options render.Options
}

// GenerateResult contains the rendered script and what it was built from
type GenerateResult struct {
	Script    string
	Config    config.Values
	Functions []discovery.BuildTarget
	Tests     []discovery.BuildTarget
}

// Resolve loads the base configuration, if any, and applies the overrides.
func (s *GenerateService) Resolve(ctx context.Context, req GenerateRequest) (config.Values, error) {
	var base config.Values
	if req.ConfigFile != "" {
		loaded, err := config.LoadFileFor(s.fs, req.ConfigFile, s.spec)
		if err != nil {
			return nil, err
		}
		s.logger.Debug(ctx, "Loaded config file", "path", req.ConfigFile, "keys", len(loaded))
		base = loaded
	}

	resolved, err := config.Resolve(base, req.Overrides, s.spec)
	if err != nil {
		return nil, err
	}
	s.logger.Debug(ctx, "Resolved configuration", "keys", resolved.Keys())

	return resolved, nil
}

// Discover scans the function and test roots.
func (s *GenerateService) Discover(ctx context.Context, req GenerateRequest) (functions, tests []discovery.BuildTarget, err error) {
	d := *s.discoverer
	d.Sort = !req.Unsorted

	functions, err = d.Discover(orDefault(req.FunctionsRoot, discovery.DefaultFunctionsRoot))
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	tests, err = d.Discover(orDefault(req.TestRoot, discovery.DefaultTestRoot))
	if err != nil {
		return nil, nil, err
	}

	s.logger.Debug(ctx, "Discovered build targets",
		"functions", len(functions),
		"tests", len(tests),
	)

	return functions, tests, nil
}

// Generate runs the whole pipeline: resolve, discover both roots, render.
func (s *GenerateService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	op := logging.StartOperation(s.logger, "generate")

	resolved, err := s.Resolve(ctx, req)
	if err != nil {
		op.EndWithError(ctx, err)
		return nil, fmt.Errorf("failed to resolve configuration: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	functions, tests, err := s.Discover(ctx, req)
	if err != nil {
		op.EndWithError(ctx, err)
		return nil, fmt.Errorf("failed to discover build targets: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	functionsRoot := orDefault(req.FunctionsRoot, discovery.DefaultFunctionsRoot)
	opts := req.Options
	if opts.Common == "" {
		opts.Common = render.CommonSources(functionsRoot)
	}

	script, err := render.Render(render.Input{
		Config:    resolved,
		Spec:      s.spec,
		Functions: functions,
		Tests:     tests,
		Paths:     render.NewPaths(orDefault(req.Workdir, ".")),
		Options:   opts,
	})
	if err != nil {
		op.EndWithError(ctx, err)
		return nil, fmt.Errorf("failed to render build script: %w", err)
	}

	op.End(ctx, "bytes", len(script))

	return &GenerateResult{
		Script:    script,
		Config:    resolved,
		Functions: functions,
		Tests:     tests,
	}, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}

	return s
}
