package render

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepalert/makegen/internal/config"
	"github.com/deepalert/makegen/internal/discovery"
	mgerrors "github.com/deepalert/makegen/internal/errors"
	"github.com/deepalert/makegen/internal/params"
)

func demoConfig() config.Values {
	return config.Values{
		"StackName":    params.String("demo"),
		"Region":       params.String("us-east-1"),
		"CodeS3Bucket": params.String("b"),
		"CodeS3Prefix": params.String("p"),
	}
}

func targets(root string, names ...string) []discovery.BuildTarget {
	out := make([]discovery.BuildTarget, 0, len(names))
	for _, n := range names {
		out = append(out, discovery.BuildTarget{Name: n, SourceRoot: root, OutputPath: "build/" + n})
	}
	return out
}

func demoInput() Input {
	return Input{
		Config:    demoConfig(),
		Spec:      params.Default(),
		Functions: targets("./functions", "a", "b"),
		Tests:     targets("./test", "t1"),
		Paths:     NewPaths("."),
		Options:   DefaultOptions(),
	}
}

func TestRenderGolden(t *testing.T) {
	expected, err := os.ReadFile(filepath.Join("testdata", "example.mk"))
	require.NoError(t, err)

	got, err := Render(demoInput())
	require.NoError(t, err)
	assert.Equal(t, string(expected), got)
}

func TestRenderIsIdempotent(t *testing.T) {
	in := demoInput()
	in.Config["ReviewDelay"] = params.Int(30)
	in.Config["LambdaRoleArn"] = params.String("arn:aws:iam::123456789012:role/x")

	first, err := Render(in)
	require.NoError(t, err)
	second, err := Render(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderSectionOrder(t *testing.T) {
	got, err := Render(demoInput())
	require.NoError(t, err)

	markers := []string{
		"TEMPLATE_FILE=",
		"StackName=\"demo\"",
		".PHONY:",
		"build/a: ./functions/a/*.go",
		"build/t1: ./test/t1/*.go",
	}

	last := -1
	for _, m := range markers {
		idx := strings.Index(got, m)
		require.NotEqual(t, -1, idx, "missing %q", m)
		assert.Greater(t, idx, last, "%q out of order", m)
		last = idx
	}

	// sections are separated by exactly one blank line
	assert.Contains(t, got, "TEST_FUNCTIONS=build/t1\n\nStackName=")
	assert.Contains(t, got, "PARAMETERS=\n\n.PHONY:")
	assert.Contains(t, got, "setuptest: $(TEST_OUTPUT_FILE)\n\nbuild/a:")
	assert.Contains(t, got, "./functions/b/\n\nbuild/t1:")
	assert.NotContains(t, got, "\n\n\n")
}

func TestRenderParameters(t *testing.T) {
	spec := params.Default()

	tests := []struct {
		name     string
		extra    config.Values
		expected string
	}{
		{
			name:     "no optional parameters",
			expected: "PARAMETERS=\n",
		},
		{
			name:     "single integer parameter",
			extra:    config.Values{"ReviewDelay": params.Int(30)},
			expected: "PARAMETERS=--parameter-overrides ReviewDelay=\"30\"\n",
		},
		{
			name: "spec order regardless of insertion",
			extra: config.Values{
				"ReviewDelay":         params.Int(5),
				"StepFunctionRoleArn": params.String("arn:sfn"),
				"LambdaRoleArn":       params.String("arn:lambda"),
			},
			expected: "PARAMETERS=--parameter-overrides LambdaRoleArn=\"arn:lambda\" StepFunctionRoleArn=\"arn:sfn\" ReviewDelay=\"5\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := demoConfig()
			for k, v := range tt.extra {
				values[k] = v
			}

			got, err := renderParameters(values, spec, DefaultOptions())
			require.NoError(t, err)

			lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
			require.Len(t, lines, 5)
			assert.Equal(t, []string{
				`StackName="demo"`,
				`Region="us-east-1"`,
				`CodeS3Bucket="b"`,
				`CodeS3Prefix="p"`,
			}, lines[:4])
			assert.Equal(t, tt.expected, lines[4]+"\n")
		})
	}
}

func TestOverrideClauseShape(t *testing.T) {
	values := demoConfig()
	values["ReviewDelay"] = params.Int(30)

	clause := overrideClause(values, params.Default(), DefaultOptions())

	assert.True(t, strings.HasPrefix(clause, "--parameter-overrides "))
	assert.Equal(t, 1, strings.Count(clause, "--parameter-overrides"))
	assert.Equal(t, 1, strings.Count(clause, "="))
	assert.Equal(t, `--parameter-overrides ReviewDelay="30"`, clause)

	assert.Equal(t, "", overrideClause(demoConfig(), params.Default(), DefaultOptions()))
}

func TestRenderIgnoresUnknownKeys(t *testing.T) {
	in := demoInput()
	in.Config["Comment"] = params.String("not rendered")

	got, err := Render(in)
	require.NoError(t, err)
	assert.NotContains(t, got, "Comment")
	assert.Contains(t, got, "PARAMETERS=\n")
}

func TestRenderMissingRequired(t *testing.T) {
	for _, p := range params.Default().Required() {
		t.Run(p.Name, func(t *testing.T) {
			in := demoInput()
			delete(in.Config, p.Name)

			got, err := Render(in)
			require.Error(t, err)
			assert.Empty(t, got)
			assert.True(t, errors.Is(err, mgerrors.ErrMissingRequiredParameter))

			name, _ := mgerrors.Parameter(err)
			assert.Equal(t, p.Name, name)
		})
	}
}

func TestRenderFunctionRules(t *testing.T) {
	got, err := renderFunctionRules(targets("./functions", "alpha", "beta"), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t,
		"build/alpha: ./functions/alpha/*.go $(COMMON)\n"+
			"\tenv GOARCH=amd64 GOOS=linux go build -o build/alpha ./functions/alpha/\n"+
			"build/beta: ./functions/beta/*.go $(COMMON)\n"+
			"\tenv GOARCH=amd64 GOOS=linux go build -o build/beta ./functions/beta/\n",
		got)
	assert.Equal(t, 2, strings.Count(got, ": ./functions/"))
}

func TestRenderTestRulesHaveNoCommonDeps(t *testing.T) {
	got, err := renderTestRules(targets("./test", "harness"), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t,
		"build/harness: ./test/harness/*.go\n"+
			"\tenv GOARCH=amd64 GOOS=linux go build -o build/harness ./test/harness/\n",
		got)
	assert.NotContains(t, got, "$(COMMON)")
}

func TestRenderWithoutTargets(t *testing.T) {
	in := demoInput()
	in.Functions = nil
	in.Tests = nil

	got, err := Render(in)
	require.NoError(t, err)

	assert.Contains(t, got, "FUNCTIONS=\n")
	assert.Contains(t, got, "TEST_FUNCTIONS=\n")
	assert.True(t, strings.HasSuffix(got, "setuptest: $(TEST_OUTPUT_FILE)\n"))
	assert.NotContains(t, got, "go build")
}

func TestRenderOptions(t *testing.T) {
	in := demoInput()
	in.Options = Options{
		GOARCH:          "arm64",
		TestConfigEnv:   "APP_TEST_CONFIG",
		TestStackSuffix: "-it",
	}

	got, err := Render(in)
	require.NoError(t, err)

	assert.Contains(t, got, "env GOARCH=arm64 GOOS=linux go build -o build/a ./functions/a/")
	assert.Contains(t, got, "env APP_TEST_CONFIG=$(OUTPUT_FILE) go test -v ./...")
	assert.Contains(t, got, "--stack-name $(StackName)-it")
	assert.Contains(t, got, "COMMON=functions/*.go *.go")
	assert.Contains(t, got, "--parameter-overrides ParentStackName=$(StackName)")
}

func TestCommonSources(t *testing.T) {
	tests := []struct {
		root string
		want string
	}{
		{"./functions", "functions/*.go *.go"},
		{"functions", "functions/*.go *.go"},
		{"./lambdas/", "lambdas/*.go *.go"},
		{"src/handlers", "src/handlers/*.go *.go"},
		{"/srv/app/functions", "/srv/app/functions/*.go *.go"},
		{".", "*.go"},
		{"./", "*.go"},
	}

	for _, tt := range tests {
		t.Run(tt.root, func(t *testing.T) {
			assert.Equal(t, tt.want, CommonSources(tt.root))
		})
	}
}

func TestTestStackUsesFixedOverride(t *testing.T) {
	in := demoInput()
	in.Config["ReviewerLambdaArn"] = params.String("arn:reviewer")

	got, err := Render(in)
	require.NoError(t, err)

	idx := strings.Index(got, "$(TEST_OUTPUT_FILE): $(TEST_SAM_FILE)")
	require.NotEqual(t, -1, idx)
	testDeploy := got[idx:strings.Index(got, "setuptest:")]

	assert.Contains(t, testDeploy, "--parameter-overrides ParentStackName=$(StackName)")
	assert.NotContains(t, testDeploy, "$(PARAMETERS)")
	assert.NotContains(t, testDeploy, "ReviewerLambdaArn")
}

func TestNewPaths(t *testing.T) {
	tests := []struct {
		workdir string
		sam     string
		output  string
	}{
		{".", "./sam.yml", "./output.json"},
		{"", "sam.yml", "output.json"},
		{"out/", "out/sam.yml", "out/output.json"},
		{"/tmp/work", "/tmp/work/sam.yml", "/tmp/work/output.json"},
	}

	for _, tt := range tests {
		t.Run(tt.workdir, func(t *testing.T) {
			p := NewPaths(tt.workdir)
			assert.Equal(t, "template.yml", p.TemplateFile)
			assert.Equal(t, "test.yml", p.TestTemplateFile)
			assert.Equal(t, tt.sam, p.SAMFile)
			assert.Equal(t, tt.output, p.OutputFile)
		})
	}

	p := NewPaths("w")
	assert.Equal(t, "w/test_sam.yml", p.TestSAMFile)
	assert.Equal(t, "w/test_output.json", p.TestOutputFile)
}
