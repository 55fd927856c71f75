// Package render assembles the build script.
//
// The script is a make file made of five sections, always in this order:
// header variables, parameter bindings, fixed lifecycle tasks, function build
// rules and test function build rules. Each section is produced by its own
// function and the sections are joined by a blank line. Rendering is pure:
// the same Input always yields the same bytes.
package render

import (
	"strings"
	"text/template"

	"github.com/deepalert/makegen/internal/config"
	"github.com/deepalert/makegen/internal/discovery"
	"github.com/deepalert/makegen/internal/errors"
	"github.com/deepalert/makegen/internal/params"
)

// Section names, used in RenderFailed errors.
const (
	SectionHeader     = "header"
	SectionParameters = "parameters"
	SectionTasks      = "tasks"
	SectionFunctions  = "functions"
	SectionTests      = "test functions"
)

// Input is everything the script is derived from.
type Input struct {
	Config    config.Values
	Spec      params.Spec
	Functions []discovery.BuildTarget
	Tests     []discovery.BuildTarget
	Paths     Paths
	Options   Options
}

// Render builds the full script. It fails if a required parameter is
// missing from in.Config.
func Render(in Input) (string, error) {
	opts := in.Options.withDefaults()

	header, err := renderHeader(in.Paths, in.Functions, in.Tests, opts)
	if err != nil {
		return "", errors.RenderFailed(SectionHeader, err)
	}

	parameters, err := renderParameters(in.Config, in.Spec, opts)
	if err != nil {
		return "", err
	}

	tasks, err := renderTasks(opts)
	if err != nil {
		return "", errors.RenderFailed(SectionTasks, err)
	}

	functions, err := renderFunctionRules(in.Functions, opts)
	if err != nil {
		return "", errors.RenderFailed(SectionFunctions, err)
	}

	tests, err := renderTestRules(in.Tests, opts)
	if err != nil {
		return "", errors.RenderFailed(SectionTests, err)
	}

	sections := make([]string, 0, 5)
	for _, s := range []string{header, parameters, tasks, functions, tests} {
		// A rule section without targets is omitted on purpose, not joined
		// as an empty block. The header still defines the empty FUNCTIONS
		// or TEST_FUNCTIONS variable the tasks refer to.
		if s != "" {
			sections = append(sections, s)
		}
	}

	return strings.Join(sections, "\n"), nil
}

var headerTemplate = template.Must(template.New("header").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`TEMPLATE_FILE={{.Paths.TemplateFile}}
TEST_TEMPLATE_FILE={{.Paths.TestTemplateFile}}
SAM_FILE={{.Paths.SAMFile}}
OUTPUT_FILE={{.Paths.OutputFile}}
TEST_SAM_FILE={{.Paths.TestSAMFile}}
TEST_OUTPUT_FILE={{.Paths.TestOutputFile}}

COMMON={{.Common}}
FUNCTIONS={{join .Functions " "}}
TEST_FUNCTIONS={{join .Tests " "}}
`))

func renderHeader(paths Paths, functions, tests []discovery.BuildTarget, opts Options) (string, error) {
	var b strings.Builder
	err := headerTemplate.Execute(&b, struct {
		Paths     Paths
		Common    string
		Functions []string
		Tests     []string
	}{
		Paths:     paths,
		Common:    opts.Common,
		Functions: discovery.OutputPaths(functions),
		Tests:     discovery.OutputPaths(tests),
	})

	return b.String(), err
}

// renderParameters binds every required parameter, then the override clause
// built from the optional parameters that are set.
func renderParameters(values config.Values, spec params.Spec, opts Options) (string, error) {
	var b strings.Builder

	for _, p := range spec.Required() {
		val, ok := values.Get(p.Name)
		if !ok {
			return "", errors.MissingRequiredParameter(p.Name)
		}
		b.WriteString(p.Name + "=" + val.Quoted() + "\n")
	}

	b.WriteString("PARAMETERS=" + overrideClause(values, spec, opts) + "\n")

	return b.String(), nil
}

// overrideClause is empty when no optional parameter is set; the flag is
// never emitted on its own.
func overrideClause(values config.Values, spec params.Spec, opts Options) string {
	var tokens []string
	for _, p := range spec.Optional() {
		if val, ok := values.Get(p.Name); ok {
			tokens = append(tokens, p.Name+"="+val.Quoted())
		}
	}

	if len(tokens) == 0 {
		return ""
	}

	return opts.OverrideFlag + " " + strings.Join(tokens, " ")
}

func renderTasks(opts Options) (string, error) {
	var b strings.Builder
	if err := writeRules(&b, taskRules(opts), true); err != nil {
		return "", err
	}

	return b.String(), nil
}

func renderFunctionRules(targets []discovery.BuildTarget, opts Options) (string, error) {
	var b strings.Builder
	if err := writeRules(&b, buildRules(targets, opts, "$(COMMON)"), false); err != nil {
		return "", err
	}

	return b.String(), nil
}

func renderTestRules(targets []discovery.BuildTarget, opts Options) (string, error) {
	var b strings.Builder
	if err := writeRules(&b, buildRules(targets, opts), false); err != nil {
		return "", err
	}

	return b.String(), nil
}
