// Package cli contains the command line interface for runtpl.
//
// # Usage
//
// The default command renders a template with context arguments:
//
//	runtpl greeting name=Ada tags=go,templates
//	runtpl report project@=project.json notes@- < notes.txt
//	runtpl -i report
//
// Templates are managed with the template subcommands, and the variables a
// template expects are printed by vars:
//
//	runtpl template new greeting
//	runtpl vars report --format=yaml
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory, which init writes from the current flag values. Nested keys are
// joined with hyphens:
//
//	log:
//	  level: debug
//	template-path: [./templates]
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize output on a terminal
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o runtpl .
//
// The --pprof-mode flag selects the profile and --pprof-dir its output
// directory.
package cli
