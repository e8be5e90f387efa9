package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/dagselect/internal/app"
	"github.com/vk/dagselect/internal/manifest"
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

func (l *stringList) String() string {
	return strings.Join(*l, ", ")
}

func (l *stringList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("dagselect", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
dagselect - resolve node selection criteria against a resource graph.

Usage:
  dagselect [options] [MANIFEST_PATH]

Arguments:
  MANIFEST_PATH
    Path to a YAML manifest describing the resource graph.

Options:
`)
		flagSet.PrintDefaults()
	}

	var selects, excludes, resourceTypes stringList
	manifestFlag := flagSet.String("manifest", "", "Path to the resource manifest.")
	flagSet.Var(&selects, "select", "Selection criterion to include. May be repeated.")
	flagSet.Var(&selects, "s", "Selection criterion to include (shorthand).")
	flagSet.Var(&excludes, "exclude", "Selection criterion to subtract. May be repeated.")
	flagSet.Var(&resourceTypes, "resource-type", "Restrict results to a resource type. May be repeated.")
	selectorFlag := flagSet.String("selector", "", "Name of a saved selector to run.")
	selectorsFileFlag := flagSet.String("selectors-file", "", "Path to an HCL file with saved selectors.")
	greedyFlag := flagSet.Bool("greedy", false, "Eagerly include check nodes whose subjects are only partially selected.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := *manifestFlag
	if path == "" && flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	if path == "" {
		slog.Debug("No manifest path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if *selectorFlag != "" && (len(selects) > 0 || len(excludes) > 0) {
		return nil, false, &ExitError{Code: 2, Message: "--selector cannot be combined with --select or --exclude"}
	}
	if *selectorFlag != "" && *selectorsFileFlag == "" {
		return nil, false, &ExitError{Code: 2, Message: "--selector requires --selectors-file"}
	}

	kinds := make([]manifest.ResourceKind, 0, len(resourceTypes))
	for _, raw := range resourceTypes {
		kind, err := manifest.ParseKind(raw)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		kinds = append(kinds, kind)
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ManifestPath:  path,
		Select:        selects,
		Exclude:       excludes,
		SelectorName:  *selectorFlag,
		SelectorsFile: *selectorsFileFlag,
		ResourceTypes: kinds,
		Greedy:        *greedyFlag,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
