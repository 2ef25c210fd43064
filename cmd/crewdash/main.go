// Package main provides the entry point for the crewdash CLI.
//
// crewdash is a terminal dashboard over a people roster: it fetches the
// roster from a remote directory service, caches it locally with a short
// TTL, and offers incremental search, filters, live aggregates, and CSV
// export.
//
// Usage:
//
//	crewdash
//	crewdash export --city "New York"
//	crewdash stats
//
// See --help for all available options.
package main

import "github.com/crewdash/crewdash/internal/cli"

// version is overridden at build time via -ldflags.
var version = "dev"

// main is the entry point for crewdash.
func main() {
	cli.Execute(version)
}
