package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read <deck.spice>",
	Short: "Parse a SPICE deck and summarize its circuits",
	Long: `Parse a SPICE deck into the hierarchical netlist model and print, per
circuit, its pin/net/device/subcircuit-instance counts.`,
	Args: cobra.ExactArgs(1),
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, args []string) error {
	nl, err := readDeck(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d circuits, %d top-level\n", args[0], len(nl.Circuits()), len(nl.TopLevelCircuits()))
	summarizeNetlist(nl)
	return nil
}
