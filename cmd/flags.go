package cmd

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/deepalert/makegen/internal/config"
	"github.com/deepalert/makegen/internal/discovery"
	mgerrors "github.com/deepalert/makegen/internal/errors"
	"github.com/deepalert/makegen/internal/params"
	"github.com/deepalert/makegen/internal/render"
	"github.com/deepalert/makegen/internal/services"
)

// rootFlags locate the function and test roots.
type rootFlags struct {
	FunctionsDir string
	TestDir      string
	NoSort       bool
}

// inputFlags are the inputs shared by every command that resolves a
// configuration.
type inputFlags struct {
	rootFlags
	ConfigFile string
	Workdir    string
	EnvFile    string
}

func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.Flags().StringVar(&flags.FunctionsDir, "functions-dir", discovery.DefaultFunctionsRoot, "Directory whose subdirectories are function targets")
	cmd.Flags().StringVar(&flags.TestDir, "test-dir", discovery.DefaultTestRoot, "Directory whose subdirectories are test targets")
	cmd.Flags().BoolVar(&flags.NoSort, "no-sort", false, "Keep directory enumeration order instead of sorting targets")
}

func addInputFlags(cmd *cobra.Command, flags *inputFlags) {
	addRootFlags(cmd, &flags.rootFlags)
	cmd.Flags().StringVarP(&flags.ConfigFile, "config", "c", "", "Configuration file (JSON or YAML)")
	cmd.Flags().StringVarP(&flags.Workdir, "workdir", "w", ".", "Directory for packaged manifests and deployment results")
	cmd.Flags().StringVar(&flags.EnvFile, "env-file", "", "Dotenv file with MAKEGEN_<NAME> overrides")
	addParameterFlags(cmd.Flags(), params.Default())
}

// addParameterFlags adds one flag per parameter, named exactly like the
// parameter.
func addParameterFlags(flags *pflag.FlagSet, spec params.Spec) {
	for _, p := range spec.All() {
		usage := p.Name + " parameter"
		if spec.IsRequired(p.Name) {
			usage += " (required)"
		}

		switch p.Kind {
		case params.KindInt:
			flags.Int64(p.Name, 0, usage)
		default:
			flags.String(p.Name, "", usage)
		}
	}
}

// request assembles the service request from the parsed flags, the
// environment and the env file.
func (f *inputFlags) request(cmd *cobra.Command) (services.GenerateRequest, error) {
	overrides, err := f.overrides(cmd.Flags(), params.Default())
	if err != nil {
		return services.GenerateRequest{}, err
	}

	options := render.DefaultOptions()
	options.Common = render.CommonSources(f.FunctionsDir)

	return services.GenerateRequest{
		ConfigFile:    f.ConfigFile,
		Overrides:     overrides,
		Workdir:       f.Workdir,
		FunctionsRoot: f.FunctionsDir,
		TestRoot:      f.TestDir,
		Unsorted:      f.NoSort,
		Options:       options,
	}, nil
}

func (f *rootFlags) discoveryRequest() services.GenerateRequest {
	return services.GenerateRequest{
		FunctionsRoot: f.FunctionsDir,
		TestRoot:      f.TestDir,
		Unsorted:      f.NoSort,
	}
}

// overrides collects the parameter values set by flag, environment or env
// file. Values that were not set anywhere are left out so the config file
// can supply them.
func (f *inputFlags) overrides(flags *pflag.FlagSet, spec params.Spec) (config.Values, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)

	dotenv, err := f.readEnvFile()
	if err != nil {
		return nil, err
	}

	for _, p := range spec.All() {
		if flag := flags.Lookup(p.Name); flag != nil {
			if err := v.BindPFlag(p.Name, flag); err != nil {
				return nil, err
			}
		}
		if err := v.BindEnv(p.Name); err != nil {
			return nil, err
		}
		if val, ok := dotenv[envName(p.Name)]; ok {
			v.SetDefault(p.Name, val)
		}
	}

	overrides := make(config.Values)
	for _, p := range spec.All() {
		if !v.IsSet(p.Name) {
			continue
		}

		val, err := overrideValue(p, v.Get(p.Name))
		if err != nil {
			return nil, err
		}
		overrides[p.Name] = val
	}

	return overrides, nil
}

func (f *inputFlags) readEnvFile() (map[string]string, error) {
	if f.EnvFile == "" {
		return nil, nil
	}

	file, err := appFs.Open(f.EnvFile)
	if err != nil {
		return nil, mgerrors.MalformedConfigFile(f.EnvFile, err)
	}
	defer file.Close()

	values, err := godotenv.Parse(file)
	if err != nil {
		return nil, mgerrors.MalformedConfigFile(f.EnvFile, err)
	}

	return values, nil
}

func overrideValue(p params.Parameter, raw interface{}) (params.Value, error) {
	// environment strings are checked and coerced by config.Resolve
	if s, ok := raw.(string); ok {
		return params.String(s), nil
	}

	if p.Kind == params.KindInt {
		n, err := cast.ToInt64E(raw)
		if err != nil {
			return params.Value{}, mgerrors.InvalidParameterValue(p.Name, fmt.Sprintf("expected integer: %v", err))
		}
		return params.Int(n), nil
	}

	s, err := cast.ToStringE(raw)
	if err != nil {
		return params.Value{}, mgerrors.InvalidParameterValue(p.Name, err.Error())
	}

	return params.String(s), nil
}

// envName is the environment variable that overrides parameter name.
func envName(name string) string {
	return envPrefix + "_" + strings.ToUpper(name)
}

func validateFormat(format string, valid []string) error {
	for _, v := range valid {
		if format == v {
			return nil
		}
	}

	return fmt.Errorf("unsupported format %q (supported: %s)", format, strings.Join(valid, ", "))
}
