package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/strata/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("strata", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
Strata - an environment-aware configuration resolver.

Usage:
  strata [options] [CONFIG_PATH]

Arguments:
  CONFIG_PATH
    Path to the root YAML configuration document. When omitted, config.yml
    or config.yaml in the working directory is used.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to the root configuration document.")
	cFlag := flagSet.String("c", "", "Path to the root configuration document (shorthand).")
	envFlag := flagSet.String("environment", "", "Active environment name. Defaults to $STRATA_ACTIVE_ENVIRONMENT, then 'default'.")
	eFlag := flagSet.String("e", "", "Active environment name (shorthand).")
	keyFlag := flagSet.String("key", "", "Dotted path to print instead of the whole configuration.")
	formatFlag := flagSet.String("format", "yaml", "Output format. Options: 'yaml' or 'json'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	if *configFlag != "" {
		path = *configFlag
	} else if *cFlag != "" {
		path = *cFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	environment := *envFlag
	if environment == "" {
		environment = *eFlag
	}

	format := strings.ToLower(*formatFlag)
	if format != "yaml" && format != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid format: must be 'yaml' or 'json'"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		ConfigPath:  path,
		Environment: environment,
		Key:         *keyFlag,
		Format:      format,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
