// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/devops-wiz/terraform-provider-nessus/internal/nessus"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	cliExecutable  = "nessusctl"
	envPrefix      = "NESSUS"
	defaultTimeout = 60 * time.Second

	keyURL       = "url"
	keyAccessKey = "access-key"
	keySecretKey = "secret-key"
	keyInsecure  = "insecure"
	keyTimeout   = "timeout"
	keyOutput    = "output"
	keyVerbose   = "verbose"
)

// Version is stamped at build time.
var Version = "dev"

// rootOptions carries the settings shared by every operation command.
// Values are read through v so flags, NESSUS_* environment variables and the
// optional YAML config file are merged in that order of precedence.
type rootOptions struct {
	v          *viper.Viper
	configFile string
}

// Execute runs the CLI against os.Args and exits non-zero on failure.
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// Run executes one CLI invocation and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", describeError(err))
		return 1
	}
	return 0
}

// NewCommand constructs the top-level nessusctl command with one subcommand
// per resource kind.
func NewCommand() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	cmd := &cobra.Command{
		Use:   cliExecutable + " <kind> <action> [--arg key=value ...]",
		Short: "nessusctl runs one Nessus API operation and prints the JSON result",
		Long: `nessusctl issues exactly one Nessus REST API operation.

Connection settings come from flags, then NESSUS_URL, NESSUS_ACCESS_KEY,
NESSUS_SECRET_KEY, NESSUS_INSECURE and NESSUS_TIMEOUT, then the --config file.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.initConfig()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "YAML configuration file")
	flags.String(keyURL, "", "Nessus base URL, e.g. https://localhost:8834")
	flags.String(keyAccessKey, "", "Nessus API access key")
	flags.String(keySecretKey, "", "Nessus API secret key")
	flags.Bool(keyInsecure, false, "Skip TLS certificate verification")
	flags.String(keyTimeout, defaultTimeout.String(), "Per request timeout; a bare number is seconds")
	flags.StringP(keyOutput, "o", outputJSON, "Output format: json or yaml")
	flags.BoolP(keyVerbose, "v", false, "Log requests and responses to stderr")

	// Flag definitions are static; a bind error here is a programming error.
	if err := opts.v.BindPFlags(flags); err != nil {
		panic(err)
	}

	for _, kind := range nessus.Kinds() {
		cmd.AddCommand(newKindCommand(kind, opts))
	}
	cmd.SetGlobalNormalizationFunc(dashedFlagNames)
	return cmd
}

// dashedFlagNames lets --access_key and --access-key name the same flag.
func dashedFlagNames(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func (o *rootOptions) initConfig() error {
	o.v.SetEnvPrefix(envPrefix)
	o.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	o.v.AutomaticEnv()
	if err := o.v.BindEnv(keyURL, "NESSUS_URL", "NESSUS_ENDPOINT"); err != nil {
		return err
	}

	if o.configFile == "" {
		return nil
	}
	o.v.SetConfigFile(o.configFile)
	o.v.SetConfigType("yaml")
	if err := o.v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", o.configFile, err)
	}
	return nil
}

// clientConfig resolves the connection settings.
func (o *rootOptions) clientConfig() (nessus.Config, error) {
	timeout, err := parseTimeout(o.v.GetString(keyTimeout))
	if err != nil {
		return nessus.Config{}, err
	}
	return nessus.Config{
		BaseURL:         o.v.GetString(keyURL),
		AccessKey:       o.v.GetString(keyAccessKey),
		SecretKey:       o.v.GetString(keySecretKey),
		AllowSelfSigned: o.v.GetBool(keyInsecure),
		Timeout:         timeout,
		UserAgent:       fmt.Sprintf("devops-wiz/%s/%s", cliExecutable, Version),
	}, nil
}

// parseTimeout reads a duration such as "90s" or "2m". A bare number counts
// seconds, matching NESSUS_HTTP_TIMEOUT_SECONDS on the provider side.
func parseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultTimeout, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, &nessus.Error{
			Kind:    nessus.InvalidArgument,
			Message: fmt.Sprintf("invalid timeout %q: use seconds or a duration such as 90s", s),
			Err:     err,
		}
	}
	return d, nil
}

// newClient builds the client, attaching a debug logger on --verbose.
func (o *rootOptions) newClient(stderr io.Writer) (*nessus.Client, error) {
	cfg, err := o.clientConfig()
	if err != nil {
		return nil, err
	}
	var opts []nessus.Option
	if o.v.GetBool(keyVerbose) {
		opts = append(opts, nessus.WithLogger(newRequestLogger(stderr, cfg)))
	}
	return nessus.New(cfg, opts...)
}

// redactingLogger scrubs the configured API keys from every logged value.
type redactingLogger struct {
	hclog.Logger
	secrets []string
}

func newRequestLogger(w io.Writer, cfg nessus.Config) redactingLogger {
	l := hclog.New(&hclog.LoggerOptions{
		Name:   cliExecutable,
		Level:  hclog.Debug,
		Output: w,
	})
	var secrets []string
	for _, s := range []string{cfg.AccessKey, cfg.SecretKey} {
		if s != "" {
			secrets = append(secrets, s)
		}
	}
	return redactingLogger{Logger: l, secrets: secrets}
}

func (l redactingLogger) scrub(args []interface{}) []interface{} {
	out := make([]interface{}, len(args))
	for i, a := range args {
		s, ok := a.(string)
		if !ok {
			out[i] = a
			continue
		}
		for _, secret := range l.secrets {
			s = strings.ReplaceAll(s, secret, "[REDACTED]")
		}
		out[i] = s
	}
	return out
}

func (l redactingLogger) Error(msg string, args ...interface{}) {
	l.Logger.Error(msg, l.scrub(args)...)
}

func (l redactingLogger) Warn(msg string, args ...interface{}) {
	l.Logger.Warn(msg, l.scrub(args)...)
}

func (l redactingLogger) Info(msg string, args ...interface{}) {
	l.Logger.Info(msg, l.scrub(args)...)
}

func (l redactingLogger) Debug(msg string, args ...interface{}) {
	l.Logger.Debug(msg, l.scrub(args)...)
}
