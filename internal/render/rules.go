package render

import (
	"strings"
	"text/template"

	"github.com/deepalert/makegen/internal/discovery"
)

// Rule is one make rule: a target, its prerequisites and recipe lines.
// Recipe lines are written tab-indented; a line that continues a previous
// one (ending in a backslash) should carry its own extra tab.
type Rule struct {
	Target string
	Deps   []string
	Recipe []string
}

var ruleTemplate = template.Must(template.New("rule").Parse(
	"{{.Target}}:{{range .Deps}} {{.}}{{end}}\n{{range .Recipe}}\t{{.}}\n{{end}}",
))

// writeRules renders rules in order. Spaced rules are separated by a blank
// line, unspaced ones are written back to back.
func writeRules(b *strings.Builder, rules []Rule, spaced bool) error {
	for i, r := range rules {
		if spaced && i > 0 {
			b.WriteString("\n")
		}
		if err := ruleTemplate.Execute(b, r); err != nil {
			return err
		}
	}

	return nil
}

// Phony tasks of the lifecycle section.
var phonyTasks = []string{"functions", "clean", "deploy", "test", "setuptest"}

// taskRules returns the fixed lifecycle rules. They reference parameters
// only through make variables, so they never depend on the Configuration.
func taskRules(opts Options) []Rule {
	testStack := "$(StackName)" + opts.TestStackSuffix

	return []Rule{
		{Target: ".PHONY", Deps: phonyTasks},
		{Target: "functions", Deps: []string{"$(FUNCTIONS)"}},
		{Target: "clean", Recipe: []string{"rm $(FUNCTIONS)"}},
		packageRule("$(SAM_FILE)", "$(TEMPLATE_FILE)", "$(FUNCTIONS)"),
		{
			Target: "$(OUTPUT_FILE)",
			Deps:   []string{"$(SAM_FILE)"},
			Recipe: []string{
				`aws cloudformation deploy \`,
				`	--region $(Region) \`,
				`	--template-file $(SAM_FILE) \`,
				`	--stack-name $(StackName) \`,
				`	--capabilities CAPABILITY_IAM $(PARAMETERS)`,
				"aws cloudformation describe-stack-resources --stack-name $(StackName) > $(OUTPUT_FILE)",
			},
		},
		{Target: "deploy", Deps: []string{"$(OUTPUT_FILE)"}},
		{
			Target: "test",
			Deps:   []string{"$(OUTPUT_FILE)"},
			Recipe: []string{"env " + opts.TestConfigEnv + "=$(OUTPUT_FILE) go test -v ./..."},
		},
		packageRule("$(TEST_SAM_FILE)", "$(TEST_TEMPLATE_FILE)", "$(TEST_FUNCTIONS)"),
		{
			Target: "$(TEST_OUTPUT_FILE)",
			Deps:   []string{"$(TEST_SAM_FILE)"},
			Recipe: []string{
				`aws cloudformation deploy \`,
				`	--region $(Region) \`,
				`	--template-file $(TEST_SAM_FILE) \`,
				`	--stack-name ` + testStack + ` \`,
				`	--capabilities CAPABILITY_IAM \`,
				`	--parameter-overrides ` + opts.ParentStackParam + `=$(StackName)`,
				"aws cloudformation describe-stack-resources --stack-name " + testStack + " > $(TEST_OUTPUT_FILE)",
			},
		},
		{Target: "setuptest", Deps: []string{"$(TEST_OUTPUT_FILE)"}},
	}
}

func packageRule(samFile, templateFile, functions string) Rule {
	return Rule{
		Target: samFile,
		Deps:   []string{templateFile, functions},
		Recipe: []string{
			"mkdir -p `dirname " + samFile + "`",
			`aws cloudformation package \`,
			`	--template-file ` + templateFile + ` \`,
			`	--s3-bucket $(CodeS3Bucket) \`,
			`	--s3-prefix $(CodeS3Prefix) \`,
			`	--output-template-file ` + samFile,
		},
	}
}

// buildRules returns one compile rule per target. Each output depends on the
// Go sources of its own directory plus extraDeps.
func buildRules(targets []discovery.BuildTarget, opts Options, extraDeps ...string) []Rule {
	rules := make([]Rule, 0, len(targets))
	for _, t := range targets {
		rules = append(rules, Rule{
			Target: t.OutputPath,
			Deps:   append([]string{t.SourceDir() + "/*.go"}, extraDeps...),
			Recipe: []string{
				"env GOARCH=" + opts.GOARCH + " GOOS=" + opts.GOOS +
					" go build -o " + t.OutputPath + " " + t.SourceDir() + "/",
			},
		})
	}

	return rules
}
