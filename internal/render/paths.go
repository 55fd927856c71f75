package render

import "strings"

// Paths are the file locations bound by the header section.
type Paths struct {
	TemplateFile     string
	TestTemplateFile string
	SAMFile          string
	OutputFile       string
	TestSAMFile      string
	TestOutputFile   string
}

// NewPaths places the packaged manifests and deployment results under
// workdir. The two source manifests are always read from the project root.
func NewPaths(workdir string) Paths {
	return Paths{
		TemplateFile:     "template.yml",
		TestTemplateFile: "test.yml",
		SAMFile:          inWorkdir(workdir, "sam.yml"),
		OutputFile:       inWorkdir(workdir, "output.json"),
		TestSAMFile:      inWorkdir(workdir, "test_sam.yml"),
		TestOutputFile:   inWorkdir(workdir, "test_output.json"),
	}
}

// inWorkdir joins with a slash and keeps the workdir's own spelling, so "."
// yields "./sam.yml". Make runs recipes through a POSIX shell.
func inWorkdir(workdir, name string) string {
	if workdir == "" {
		return name
	}
	if strings.HasSuffix(workdir, "/") {
		return workdir + name
	}

	return workdir + "/" + name
}
