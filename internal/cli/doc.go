// Package cli implements the hostmon command-line interface.
//
// The root command runs the dashboard. The other commands are small
// wrappers around the same session:
//
//	hostmon              - full-screen dashboard
//	hostmon snapshot     - sample twice and print a report
//	hostmon config init  - write a commented default config
//	hostmon config show  - print the effective config
//	hostmon version      - build information
//
// # Flag Handling
//
// Global flags (--config, --source, --fps, --log-file, --filter) live on
// the root command. A flag only overrides the config file when it was set
// on the command line, so an explicit "--fps 10" wins over the file while
// an absent --fps leaves the file's value alone.
package cli
