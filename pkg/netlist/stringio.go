package netlist

import (
	"bufio"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ToString renders the netlist in a stable, single-statement-per-line
// textual format (spec.md §4.2): one CIRCUIT block per circuit, with
// PIN/NET/DEVICE/SUBCKT statements inside. Identifiers are quoted only
// where necessary (whitespace, parens, '=' or an empty string). FromString
// parses the same format back; ToString∘FromString and FromString∘ToString
// are both the identity, per spec.md §8, PROVIDED the target netlist for
// FromString already has every referenced device class registered (device
// classes themselves are schema, supplied by package devclass or a SPICE
// read, not re-derived from this text).
func ToString(nl *Netlist) string {
	var b strings.Builder
	circuits := append([]*Circuit(nil), nl.circuits...)
	for _, c := range circuits {
		writeCircuit(&b, c)
	}
	return b.String()
}

func writeCircuit(b *strings.Builder, c *Circuit) {
	fmt.Fprintf(b, "CIRCUIT %s", quoteIdent(c.Name()))
	if c.CaseSensitive() {
		b.WriteString(" CASE_SENSITIVE")
	}
	if c.DontPurge() {
		b.WriteString(" DONT_PURGE")
	}
	b.WriteString("\n")

	for _, p := range c.Pins() {
		fmt.Fprintf(b, "  PIN %s\n", quoteIdent(p.Name()))
	}

	netIndex := map[*Net]string{}
	for i, n := range c.Nets() {
		tag := fmt.Sprintf("n%d", i)
		netIndex[n] = tag
		fmt.Fprintf(b, "  NET %s %s", tag, quoteIdent(n.Name()))
		if n.ClusterID() != 0 {
			fmt.Fprintf(b, " CLUSTER=%d", n.ClusterID())
		}
		b.WriteString("\n")
	}

	netTag := func(n *Net) string {
		if n == nil {
			return "-"
		}
		if tag, ok := netIndex[n]; ok {
			return tag
		}
		return "-"
	}

	for _, id := range pinOrder(c) {
		if net := c.PinNet(id); net != nil {
			fmt.Fprintf(b, "  PINNET %d %s\n", id, netTag(net))
		}
	}

	for _, d := range c.Devices() {
		fmt.Fprintf(b, "  DEVICE %s %s %d (", quoteIdent(d.Class().Name()), quoteIdent(d.Name()), d.ID())
		for _, td := range d.Class().Terminals() {
			fmt.Fprintf(b, " %s=%s", quoteIdent(td.Name), netTag(d.TerminalNet(td.ID)))
		}
		b.WriteString(" ) PARAMS(")
		paramNames := make([]string, 0, len(d.Class().Parameters()))
		for _, pd := range d.Class().Parameters() {
			paramNames = append(paramNames, pd.Name)
		}
		sort.Strings(paramNames)
		for _, name := range paramNames {
			pd := d.Class().ParameterByName(name)
			fmt.Fprintf(b, " %s=%s", quoteIdent(name), formatFloat(d.ParameterValue(pd.ID)))
		}
		b.WriteString(" )\n")
	}

	for _, sc := range c.SubCircuits() {
		fmt.Fprintf(b, "  SUBCKT %s %s %d (", quoteIdent(sc.Child().Name()), quoteIdent(sc.Name()), sc.ID())
		for _, p := range sc.Child().Pins() {
			fmt.Fprintf(b, " %s=%s", quoteIdent(p.Name()), netTag(sc.PinNet(p.ID())))
		}
		b.WriteString(" )\n")
	}

	b.WriteString("END\n")
}

func pinOrder(c *Circuit) []int {
	out := make([]int, c.PinCount())
	for i := range out {
		out[i] = i
	}
	return out
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// FromString parses the textual format emitted by ToString into nl,
// which must already contain every device class referenced by a DEVICE
// statement (see ToString's doc comment). Circuits are created in the
// order they appear.
func FromString(nl *Netlist, text string) error {
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var cur *Circuit
	nets := map[string]*Net{}

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		toks, err := tokenizeLine(line)
		if err != nil {
			return fmt.Errorf("netlist: %w", err)
		}
		if len(toks) == 0 {
			continue
		}

		switch toks[0] {
		case "CIRCUIT":
			if len(toks) < 2 {
				return fmt.Errorf("netlist: CIRCUIT statement missing name")
			}
			c, err := nl.AddCircuit(toks[1])
			if err != nil {
				return err
			}
			for _, flag := range toks[2:] {
				switch flag {
				case "CASE_SENSITIVE":
					c.SetCaseSensitive(true)
				case "DONT_PURGE":
					c.SetDontPurge(true)
				}
			}
			cur = c
			nets = map[string]*Net{}

		case "END":
			cur = nil

		case "PIN":
			if cur == nil || len(toks) < 2 {
				return fmt.Errorf("netlist: PIN outside CIRCUIT")
			}
			cur.AddPin(toks[1])

		case "NET":
			if cur == nil || len(toks) < 3 {
				return fmt.Errorf("netlist: malformed NET statement")
			}
			n := cur.AddNet(toks[2])
			for _, kv := range toks[3:] {
				if strings.HasPrefix(kv, "CLUSTER=") {
					id, _ := strconv.Atoi(strings.TrimPrefix(kv, "CLUSTER="))
					n.SetClusterID(id)
				}
			}
			nets[toks[1]] = n

		case "PINNET":
			if cur == nil || len(toks) < 3 {
				return fmt.Errorf("netlist: malformed PINNET statement")
			}
			id, err := strconv.Atoi(toks[1])
			if err != nil {
				return fmt.Errorf("netlist: malformed PINNET id: %w", err)
			}
			if n := nets[toks[2]]; n != nil {
				cur.ConnectPin(id, n)
			}

		case "DEVICE":
			if cur == nil || len(toks) < 4 {
				return fmt.Errorf("netlist: malformed DEVICE statement")
			}
			class := cur.Netlist().DeviceClassByName(toks[1])
			if class == nil {
				return fmt.Errorf("netlist: unknown device class %q", toks[1])
			}
			d := cur.AddDevice(class, toks[2])
			rest := toks[4:]
			i := 0
			// terminal bindings up to ")"
			for i < len(rest) && rest[i] != ")" {
				name, net, ok := splitKV(rest[i])
				if ok {
					if td := class.TerminalByName(name); td != nil {
						d.Connect(td.ID, nets[net])
					}
				}
				i++
			}
			i++ // skip ")"
			if i < len(rest) && rest[i] == "PARAMS" {
				i++
				if i < len(rest) && rest[i] == "(" {
					i++
				}
			}
			for i < len(rest) && rest[i] != ")" {
				name, val, ok := splitKV(rest[i])
				if ok {
					f, _ := strconv.ParseFloat(val, 64)
					d.SetParameterValueByName(name, f)
				}
				i++
			}

		case "SUBCKT":
			if cur == nil || len(toks) < 4 {
				return fmt.Errorf("netlist: malformed SUBCKT statement")
			}
			child := cur.Netlist().CircuitByName(toks[1])
			if child == nil {
				return fmt.Errorf("netlist: unknown circuit %q referenced by SUBCKT", toks[1])
			}
			sc, err := cur.AddSubCircuit(child, toks[2])
			if err != nil {
				return err
			}
			rest := toks[4:]
			for _, tok := range rest {
				if tok == "(" || tok == ")" {
					continue
				}
				name, net, ok := splitKV(tok)
				if !ok {
					continue
				}
				if n := nets[net]; n != nil {
					sc.ConnectByPinName(name, n)
				}
			}
		}
	}
	return sc.Err()
}

func splitKV(tok string) (name, value string, ok bool) {
	idx := strings.IndexByte(tok, '=')
	if idx < 0 {
		return "", "", false
	}
	return tok[:idx], tok[idx+1:], true
}
