package cmd

import (
	"fmt"

	"github.com/openlvs/lvscore/pkg/manipulate"
	"github.com/spf13/cobra"
)

var simplifyCmd = &cobra.Command{
	Use:   "simplify <deck.spice>",
	Short: "Run make_top_level_pins, Purge, CombineDevices and PurgeNets",
	Long: `Parse a deck and run pkg/manipulate.Simplify: give top-level circuits
with no pins one pin per named connected net, purge unreferenced
circuits, combine parallel/series-combinable devices, then purge any
nets left floating by the combine pass.`,
	Args: cobra.ExactArgs(1),
	RunE: runSimplify,
}

func init() {
	rootCmd.AddCommand(simplifyCmd)
}

func runSimplify(cmd *cobra.Command, args []string) error {
	nl, err := readDeck(args[0])
	if err != nil {
		return err
	}
	before := len(nl.Circuits())
	manipulate.Simplify(nl)
	fmt.Printf("%s: %d circuits -> %d circuits after simplify\n", args[0], before, len(nl.Circuits()))
	summarizeNetlist(nl)
	return nil
}
