// Package cmd implements the tlisp subcommands: eval, repl, fmt and init.
//
// Commands receive a [context.Context] carrying the parsed [kong.Context]
// ([WithContext]), the language settings selected by global flags
// ([WithSettings]) and optionally replacement standard streams
// ([WithStdio]).
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration directory.
	ConfigIdentifier = "config"
)

// ConfigBase is the base name, without extension, of configuration files in
// the configuration directory.
const ConfigBase = "config"

// Configuration file extensions, by the format name accepted by init.
const (
	ExtYAML = ".yaml"
	ExtJSON = ".json"
	ExtLisp = ".tl"
)
