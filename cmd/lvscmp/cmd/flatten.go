package cmd

import (
	"fmt"

	"github.com/openlvs/lvscore/pkg/manipulate"
	"github.com/spf13/cobra"
)

var flattenCmd = &cobra.Command{
	Use:   "flatten <deck.spice>",
	Short: "Flatten every non-top-level circuit into its instantiating parents",
	Long: `Parse a deck and splice every non-top-level circuit's contents into
each of its instances (pkg/manipulate.Flatten), leaving only the
original top-level circuits, fully expanded.`,
	Args: cobra.ExactArgs(1),
	RunE: runFlatten,
}

func init() {
	rootCmd.AddCommand(flattenCmd)
}

func runFlatten(cmd *cobra.Command, args []string) error {
	nl, err := readDeck(args[0])
	if err != nil {
		return err
	}
	before := len(nl.Circuits())
	if err := manipulate.Flatten(nl); err != nil {
		return fmt.Errorf("flatten %s: %w", args[0], err)
	}
	fmt.Printf("%s: %d circuits -> %d top-level circuits\n", args[0], before, len(nl.Circuits()))
	summarizeNetlist(nl)
	return nil
}
