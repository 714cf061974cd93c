package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose       bool
	caseSensitive bool
)

var rootCmd = &cobra.Command{
	Use:   "lvscmp",
	Short: "lvscmp - hierarchical SPICE netlist comparison",
	Long: `lvscmp reads SPICE netlists into a hierarchical netlist model and
compares, flattens, and simplifies them.

Examples:
  lvscmp read extracted.spice                    # parse and summarize a deck
  lvscmp compare reference.spice layout.spice     # LVS-style structural compare
  lvscmp flatten deep.spice                       # flatten all non-top circuits
  lvscmp simplify noisy.spice                     # purge/combine/simplify`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&caseSensitive, "case-sensitive", "c", false, "treat net/circuit/pin names as case-sensitive")
}
