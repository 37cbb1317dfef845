// Package cli wires together the Cobra command tree for the bigpicture binary.
//
// It defines the root command and all subcommands (report, resolve, config,
// cache, version), binds flags, reads configuration, invokes the report
// compiler, and returns deterministic exit codes for scripting.
package cli
