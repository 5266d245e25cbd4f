// Package cmd implements the runtpl subcommands.
//
// Commands read their dependencies from the [context.Context] passed to
// Run: the kong context ([WithContext]), the template store ([WithStore])
// and the standard streams ([WithStreams]). Each falls back to a default
// when unset, so commands can be run directly in tests.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// of the YAML configuration file written by [Init].
	ConfigIdentifier = "config"
)
