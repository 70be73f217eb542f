package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/scriptui/internal/app"
	"github.com/vk/scriptui/internal/engine"
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

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("scriptui", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
scriptui - Run Lua scripts against an immediate-mode GUI.

Usage:
  scriptui [options] SCRIPT

Arguments:
  SCRIPT
    Path to a Lua script defining the per-frame entry point.

Options:
`)
		flagSet.PrintDefaults()
	}

	var clicks stringList
	framesFlag := flagSet.Int("frames", 1, "Number of frames to run in headless mode.")
	entryFlag := flagSet.String("entry", engine.DefaultEntry, "Name of the global function called once per frame.")
	namespaceFlag := flagSet.String("namespace", engine.DefaultGlobal, "Name of the global table holding the bindings.")
	manifestsFlag := flagSet.String("manifests", "", "Path to a directory or file with extra binding manifests.")
	interactiveFlag := flagSet.Bool("interactive", false, "Run an interactive terminal session instead of a fixed number of frames.")
	keepGoingFlag := flagSet.Bool("keep-going", false, "Keep running frames after a script error.")
	frameSinkFlag := flagSet.String("frame-sink", "", "socket.io server URL that receives every rendered frame.")
	flagSet.Var(&clicks, "click", "Simulated click on a widget label or id, applied one per frame after the first. Repeatable.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No script provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("expected one script, got %d arguments", flagSet.NArg())}
	}
	path := flagSet.Arg(0)
	slog.Debug("Script path determined.", "path", path)

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
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ScriptPath:      path,
		ManifestsPath:   *manifestsFlag,
		Namespace:       *namespaceFlag,
		Entry:           *entryFlag,
		Frames:          *framesFlag,
		Clicks:          clicks,
		KeepGoing:       *keepGoingFlag,
		Interactive:     *interactiveFlag,
		FrameSink:       *frameSinkFlag,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
