// Package cmd implements the zultra CLI's subcommands with cobra:
// compress, verify, bench, selftest, and quick-selftest, mapping
// directly onto spec.md §6's "CLI (external)" command set.
package cmd

import (
	"github.com/spf13/cobra"
)

// Verbose is shared by every subcommand that logs per-block progress.
var Verbose bool

// FramingName is the shared --framing flag value: "deflate", "zlib", or
// "gzip".
var FramingName string

var rootCmd = &cobra.Command{
	Use:   "zultra",
	Short: "Near-optimal DEFLATE/zlib/gzip compressor",
	Long: `zultra compresses input with a suffix-array match finder, a
cost-driven optimal parser, and a recursive block splitter, aiming for
the ratio of a slow multi-pass optimizer at a fraction of its running
time.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "log per-block progress and timing")
	rootCmd.PersistentFlags().StringVarP(&FramingName, "framing", "f", "gzip", "container framing: deflate, zlib, or gzip")
}

// Execute runs the CLI, returning a non-nil error for any failure mode
// in spec.md §7's taxonomy. main maps a non-nil error to exit code 100.
func Execute() error {
	return rootCmd.Execute()
}
