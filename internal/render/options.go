package render

import "strings"

// Options pins the constants of the generated recipes. None of them is taken
// from the deployment Configuration.
type Options struct {
	// Common lists the sources every function rebuilds on. See CommonSources.
	Common string
	GOOS   string
	GOARCH string
	// TestConfigEnv is the variable through which the test runner learns
	// where the deployment result is.
	TestConfigEnv string
	// TestStackSuffix is appended to StackName for the test stack.
	TestStackSuffix string
	// ParentStackParam is the parameter the test stack receives the primary
	// stack name through.
	ParentStackParam string
	// OverrideFlag prefixes the override clause.
	OverrideFlag string
}

// CommonSources returns the shared sources for a function root: the Go files
// directly in the root plus those at the project top level. "./functions"
// yields "functions/*.go *.go".
func CommonSources(functionsRoot string) string {
	root := strings.TrimSuffix(strings.TrimPrefix(functionsRoot, "./"), "/")
	if root == "" || root == "." {
		return "*.go"
	}

	return root + "/*.go *.go"
}

// DefaultOptions returns the options of the serverless stack layout.
func DefaultOptions() Options {
	return Options{
		Common:           "functions/*.go *.go",
		GOOS:             "linux",
		GOARCH:           "amd64",
		TestConfigEnv:    "DEEPALERT_TEST_CONFIG",
		TestStackSuffix:  "-test",
		ParentStackParam: "ParentStackName",
		OverrideFlag:     "--parameter-overrides",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Common == "" {
		o.Common = d.Common
	}
	if o.GOOS == "" {
		o.GOOS = d.GOOS
	}
	if o.GOARCH == "" {
		o.GOARCH = d.GOARCH
	}
	if o.TestConfigEnv == "" {
		o.TestConfigEnv = d.TestConfigEnv
	}
	if o.TestStackSuffix == "" {
		o.TestStackSuffix = d.TestStackSuffix
	}
	if o.ParentStackParam == "" {
		o.ParentStackParam = d.ParentStackParam
	}
	if o.OverrideFlag == "" {
		o.OverrideFlag = d.OverrideFlag
	}

	return o
}
