package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/openlvs/lvscore/pkg/expreval"
	"github.com/openlvs/lvscore/pkg/netlist"
	"github.com/openlvs/lvscore/pkg/spice"
)

// readDeck parses the SPICE deck at path into a fresh *netlist.Netlist,
// using the file's base name (minus extension) as the top-level circuit
// name when the deck itself never opens a .SUBCKT at that name.
func readDeck(path string) (*netlist.Netlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	eval, err := expreval.New()
	if err != nil {
		return nil, fmt.Errorf("build expression evaluator: %w", err)
	}

	nl := netlist.New(caseSensitive)
	r := spice.NewReader(spice.DefaultOptions(), eval)

	top := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := r.Read(context.Background(), f, nl, top, path); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return nl, nil
}

// summarizeNetlist prints the per-circuit shape of nl: pin, net, device
// and subcircuit-instance counts, one line per circuit.
func summarizeNetlist(nl *netlist.Netlist) {
	for _, c := range nl.Circuits() {
		fmt.Printf("%-24s pins=%-4d nets=%-4d devices=%-4d subckts=%-4d\n",
			c.Name(), c.PinCount(), len(c.Nets()), len(c.Devices()), len(c.SubCircuits()))
	}
}
