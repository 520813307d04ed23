package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/testplatform/probe/internal/config"
	"github.com/testplatform/probe/internal/platform/logger"
)

// configKeyAnnotation maps a flag to the dotted config key it overrides.
const configKeyAnnotation = "probe.config-key"

// app is the state shared by every subcommand once configuration is loaded.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configFile string
	cfg        *config.Config
	log        *slog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "probe",
		Short: "Inspect a test-platform deployment",
		Long: `probe bundles the manual checks run against a local test-platform
deployment.

Available subcommands:
  db       - Print the users table, retrying with fallback credentials
  auth     - Log in and call a protected endpoint with the issued token
  suites   - Create a test suite and list all suites
  password - Check a password against a bcrypt hash
  stub     - Serve an in-memory stand-in for the platform API
  config   - Print the effective configuration with secrets redacted

Configuration is read from defaults, an optional --config file, PROBE_*
environment variables and flags, in increasing order of precedence.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "path to a YAML, JSON or TOML config file")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-format", "", "log format (text, json)")
	pf.String("api-url", "", "base URL of the platform API")
	bindFlag(pf, "log-level", "log.level")
	bindFlag(pf, "log-format", "log.format")
	bindFlag(pf, "api-url", "api.base_url")

	root.AddCommand(
		a.newDBCmd(),
		a.newAuthCmd(),
		a.newSuitesCmd(),
		a.newPasswordCmd(),
		a.newStubCmd(),
		a.newConfigCmd(),
	)
	return root
}

// load builds the configuration for the command being run and sets up logging.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: a.configFile,
		Overrides:  flagOverrides(cmd.Flags()),
	})
	if err != nil {
		return err
	}

	log, err := logger.Setup(cfg.Log, a.stderr)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log.With("command", cmd.Name())
	return nil
}

// context returns the command context carrying the configured logger.
func (a *app) context(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logger.WithLogger(ctx, a.log)
}

func bindFlag(fs *pflag.FlagSet, name, key string) {
	_ = fs.SetAnnotation(name, configKeyAnnotation, []string{key})
}

// flagOverrides collects the explicitly set flags that carry a config key.
func flagOverrides(fs *pflag.FlagSet) map[string]any {
	overrides := map[string]any{}
	fs.Visit(func(f *pflag.Flag) {
		if keys := f.Annotations[configKeyAnnotation]; len(keys) > 0 {
			overrides[keys[0]] = f.Value.String()
		}
	})
	return overrides
}
