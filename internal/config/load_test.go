package config

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mgerrors "github.com/deepalert/makegen/internal/errors"
	"github.com/deepalert/makegen/internal/params"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func TestLoadFileJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "config.json", `{
		"StackName": "demo",
		"Region": "us-east-1",
		"CodeS3Bucket": "b",
		"CodeS3Prefix": "p",
		"ReviewDelay": 30
	}`)

	values, err := LoadFile(fs, "config.json")
	require.NoError(t, err)

	expected := demoBase()
	expected["ReviewDelay"] = params.Int(30)
	assert.Equal(t, expected, values)
}

func TestLoadFileYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "config.yml", `
StackName: demo
Region: us-east-1
CodeS3Bucket: b
CodeS3Prefix: p
InspectionDelay: 120
`)

	values, err := LoadFile(fs, "config.yml")
	require.NoError(t, err)

	expected := demoBase()
	expected["InspectionDelay"] = params.Int(120)
	assert.Equal(t, expected, values)
}

func TestLoadFileEmptyYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "empty.yaml", "")

	values, err := LoadFile(fs, "empty.yaml")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestLoadFileMalformed(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"syntax error", "c.json", `{"StackName": `},
		{"array top level", "c.json", `["StackName"]`},
		{"null top level", "c.json", `null`},
		{"empty json", "c.json", ``},
		{"trailing data", "c.json", `{"Region": "x"} {"Region": "y"}`},
		{"nested object", "c.json", `{"Region": {"name": "x"}}`},
		{"boolean parameter", "c.json", `{"StackName": true}`},
		{"null value", "c.json", `{"Region": null}`},
		{"fractional number", "c.json", `{"ReviewDelay": 1.5}`},
		{"yaml boolean parameter", "c.yaml", "Region: true\n"},
		{"yaml list", "c.yaml", "- StackName\n- Region\n"},
		{"yaml nested", "c.yml", "Region:\n  name: x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeFile(t, fs, tt.file, tt.content)

			_, err := LoadFile(fs, tt.file)
			require.Error(t, err)
			assert.True(t, errors.Is(err, mgerrors.ErrMalformedConfigFile))

			path, ok := mgerrors.Path(err)
			require.True(t, ok)
			assert.Equal(t, tt.file, path)
		})
	}
}

func TestLoadFileKeepsOnlyScalarUnknownKeys(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "json",
			file: "c.json",
			content: `{"StackName":"demo","Region":"us-east-1","CodeS3Bucket":"b","CodeS3Prefix":"p",` +
				`"Tags":{"team":"sec"},"Debug":true,"Owners":["a"],"Ratio":0.5,"Note":null,"Team":"sec"}`,
		},
		{
			name: "yaml",
			file: "c.yml",
			content: "StackName: demo\nRegion: us-east-1\nCodeS3Bucket: b\nCodeS3Prefix: p\n" +
				"Tags:\n  team: sec\nDebug: true\nOwners: [a]\nRatio: 0.5\nNote: ~\nTeam: sec\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeFile(t, fs, tt.file, tt.content)

			values, err := LoadFile(fs, tt.file)
			require.NoError(t, err)
			assert.Equal(t, Values{
				"StackName":    params.String("demo"),
				"Region":       params.String("us-east-1"),
				"CodeS3Bucket": params.String("b"),
				"CodeS3Prefix": params.String("p"),
				"Team":         params.String("sec"),
			}, values)

			resolved, err := Resolve(values, nil, params.Default())
			require.NoError(t, err)
			assert.Equal(t, values, resolved)
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(afero.NewMemMapFs(), "nope.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, mgerrors.ErrMalformedConfigFile))
}

func TestLoadThenResolveExampleScenario(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "config.json", `{"StackName":"demo","Region":"us-east-1","CodeS3Bucket":"b","CodeS3Prefix":"p"}`)

	base, err := LoadFile(fs, "config.json")
	require.NoError(t, err)

	resolved, err := Resolve(base, Values{}, params.Default())
	require.NoError(t, err)
	assert.Equal(t, base, resolved)
}
