package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/specialistvlad/nodegraph/internal/app"
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

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

const usage = `
nodegraph - Replays HCL edit scripts against node graphs with full undo history.

Usage:
  nodegraph [options] [SCRIPT_PATH]

Arguments:
  SCRIPT_PATH
    Path to the .hcl edit script to replay.

Options:
`

var (
	logFormats = []string{"text", "json"}
	logLevels  = []string{"debug", "info", "warn", "error"}
)

// options mirrors app.Config as raw flag values.
type options struct {
	script, scriptShort string
	library             string
	healthcheckPort     int
	logFormat, logLevel string
	relayURL, relayNS   string
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.script, "script", "", "Path to the edit script.")
	fs.StringVar(&o.scriptShort, "s", "", "Path to the edit script (shorthand).")
	fs.StringVar(&o.library, "library", "", "Path to a .hcl file or directory of type and node_type definitions.")
	fs.IntVar(&o.healthcheckPort, "healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	fs.StringVar(&o.logFormat, "log-format", "json", "Log output format. Options: 'text' or 'json'.")
	fs.StringVar(&o.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	fs.StringVar(&o.relayURL, "relay-url", "", "socket.io endpoint that receives graph change events. Empty disables the relay.")
	fs.StringVar(&o.relayNS, "relay-namespace", "", "socket.io namespace for the relay.")
}

// scriptPath picks the script from -script, then -s, then the first
// positional argument.
func (o *options) scriptPath(fs *flag.FlagSet) string {
	for _, p := range []string{o.script, o.scriptShort, fs.Arg(0)} {
		if p != "" {
			return p
		}
	}
	return ""
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	fs := flag.NewFlagSet("nodegraph", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprint(output, usage)
		fs.PrintDefaults()
	}

	var opts options
	opts.register(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, usageError("%s", err)
	}

	path := opts.scriptPath(fs)
	if path == "" {
		slog.Debug("No script path provided, printing usage and exiting.")
		fs.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(opts.logFormat)
	if !slices.Contains(logFormats, logFormat) {
		return nil, false, usageError("invalid log-format: must be one of %s", strings.Join(logFormats, ", "))
	}
	logLevel := strings.ToLower(opts.logLevel)
	if !slices.Contains(logLevels, logLevel) {
		return nil, false, usageError("invalid log-level: must be one of %s", strings.Join(logLevels, ", "))
	}

	config, err := app.NewConfig(app.Config{
		LibraryPath:     opts.library,
		ScriptPath:      path,
		HealthcheckPort: opts.healthcheckPort,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		RelayURL:        opts.relayURL,
		RelayNamespace:  opts.relayNS,
	})
	if err != nil {
		return nil, false, usageError("%s", err)
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
