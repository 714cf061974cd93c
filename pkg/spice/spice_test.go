package spice

import (
	"context"
	"strings"
	"testing"

	"github.com/openlvs/lvscore/pkg/expreval"
	"github.com/openlvs/lvscore/pkg/netlist"
)

func mustEval(t *testing.T) *expreval.Evaluator {
	t.Helper()
	ev, err := expreval.New()
	if err != nil {
		t.Fatalf("expreval.New: %v", err)
	}
	return ev
}

func readDeck(t *testing.T, deck string) (*netlist.Netlist, *netlist.Circuit) {
	t.Helper()
	nl := netlist.New(false)
	r := NewReader(DefaultOptions(), mustEval(t))
	if err := r.Read(context.Background(), strings.NewReader(deck), nl, "TOP", "deck.sp"); err != nil {
		t.Fatalf("Read: %v", err)
	}
	top := nl.CircuitByName("TOP")
	if top == nil {
		t.Fatal("TOP circuit missing")
	}
	return nl, top
}

func deviceNamed(t *testing.T, c *netlist.Circuit, name string) *netlist.Device {
	t.Helper()
	for _, d := range c.Devices() {
		if d.Name() == name {
			return d
		}
	}
	t.Fatalf("device %q not found", name)
	return nil
}

// Basic RCL + MOS: values from bare positional expressions and SI
// suffixes, MOS terminal remapping and geometry parameters.
func TestReadBasicRCLAndMOS(t *testing.T) {
	deck := `
R1 6 1 7.65K
R2 3 1 7.65K
R3 3 2 2.67K
M1 6 4 7 7 HVPMOS L=0.25U W=1.5U AS=0.63P AD=0.63P PS=3.84U PD=3.84U
`
	_, top := readDeck(t, deck)

	if len(top.Devices()) != 4 {
		t.Fatalf("expected 4 devices, got %d", len(top.Devices()))
	}

	r1 := deviceNamed(t, top, "1")
	v, ok := r1.ParameterValueByName("R")
	if !ok || v != 7650 {
		t.Fatalf("R1: got %v, ok=%v, want 7650", v, ok)
	}

	r3 := deviceNamed(t, top, "3")
	v, ok = r3.ParameterValueByName("R")
	if !ok || v != 2670 {
		t.Fatalf("R3: got %v, ok=%v, want 2670", v, ok)
	}

	var m1 *netlist.Device
	for _, d := range top.Devices() {
		if d.Class().Name() == "HVPMOS" {
			m1 = d
			break
		}
	}
	if m1 == nil {
		t.Fatal("no HVPMOS device found")
	}
	if w, ok := m1.ParameterValueByName("W"); !ok || w != 1.5e-6 {
		t.Fatalf("M1 W = %v, ok=%v, want 1.5e-6", w, ok)
	}
	if l, ok := m1.ParameterValueByName("L"); !ok || l != 0.25e-6 {
		t.Fatalf("M1 L = %v, ok=%v, want 0.25e-6", l, ok)
	}

	// Terminal order is S,G,D,B; element order was D=6,G=4,S=7,B=7.
	s := m1.TerminalNet(0)
	g := m1.TerminalNet(1)
	d := m1.TerminalNet(2)
	if s.Name() != "7" || g.Name() != "4" || d.Name() != "6" {
		t.Fatalf("MOS terminals S=%s G=%s D=%s, want S=7 G=4 D=6", s.Name(), g.Name(), d.Name())
	}
}

// R with an explicit R= parameter overriding a positional model name.
func TestDecodeRCLExplicitValueWinsOverModel(t *testing.T) {
	nets, model, value, hasValue, err := decodeRCL(
		[]string{"1", "2", "RMOD"}, map[string]float64{"R": 99}, "R",
		mustEval(t), nil,
	)
	if err != nil {
		t.Fatalf("decodeRCL: %v", err)
	}
	if len(nets) != 2 || model != "RMOD" || !hasValue || value != 99 {
		t.Fatalf("got nets=%v model=%q value=%v hasValue=%v", nets, model, value, hasValue)
	}
}

// The 4-token case resolves in favor of 3 nets with no model whenever a
// trailing value is found positionally, per the original's own
// documented ambiguity resolution.
func TestDecodeRCLFourTokenPrefersThreeNets(t *testing.T) {
	nets, model, value, hasValue, err := decodeRCL(
		[]string{"1", "2", "3", "4.7K"}, map[string]float64{}, "C",
		mustEval(t), nil,
	)
	if err != nil {
		t.Fatalf("decodeRCL: %v", err)
	}
	if len(nets) != 3 || model != "" || !hasValue || value != 4700 {
		t.Fatalf("got nets=%v model=%q value=%v hasValue=%v", nets, model, value, hasValue)
	}
}

// The 4-token case with an explicit C= and a non-numeric trailing token
// is a model bound to 3 nets.
func TestDecodeRCLFourTokenModelWithExplicitValue(t *testing.T) {
	nets, model, value, hasValue, err := decodeRCL(
		[]string{"1", "2", "3", "CMOD"}, map[string]float64{"C": 5e-12}, "C",
		mustEval(t), nil,
	)
	if err != nil {
		t.Fatalf("decodeRCL: %v", err)
	}
	if len(nets) != 3 || model != "CMOD" || !hasValue || value != 5e-12 {
		t.Fatalf("got nets=%v model=%q value=%v hasValue=%v", nets, model, value, hasValue)
	}
}

// The 4-token "2 nets, value, model" shape is only reached when nn[2]
// itself parses as a number.
func TestDecodeRCLFourTokenValueThenModel(t *testing.T) {
	nets, model, value, hasValue, err := decodeRCL(
		[]string{"1", "2", "10P", "CMOD"}, map[string]float64{}, "C",
		mustEval(t), nil,
	)
	if err != nil {
		t.Fatalf("decodeRCL: %v", err)
	}
	if len(nets) != 2 || model != "CMOD" || !hasValue || value != 10e-12 {
		t.Fatalf("got nets=%v model=%q value=%v hasValue=%v", nets, model, value, hasValue)
	}
}

func TestReadSubcircuitCallWiresPinsByPosition(t *testing.T) {
	deck := `
.SUBCKT INV IN OUT VDD VSS
M1 OUT IN VSS VSS NMOS L=0.18U W=0.5U
M2 OUT IN VDD VDD PMOS L=0.18U W=1U
.ENDS
X1 A Y VDD VSS INV
`
	_, top := readDeck(t, deck)
	if len(top.SubCircuits()) != 1 {
		t.Fatalf("expected 1 subcircuit instance, got %d", len(top.SubCircuits()))
	}
	sc := top.SubCircuits()[0]
	if sc.PinNet(0).Name() != "A" || sc.PinNet(1).Name() != "Y" {
		t.Fatalf("X1 pins: got %s, %s", sc.PinNet(0).Name(), sc.PinNet(1).Name())
	}
}

func TestReadGlobalNetAutoWiresImplicitPin(t *testing.T) {
	deck := `
.GLOBAL VDD
.SUBCKT BUF IN OUT
M1 OUT IN VDD VDD PMOS L=0.18U W=1U
.ENDS
X1 A Y BUF
`
	_, top := readDeck(t, deck)
	sub := top.SubCircuits()[0]
	child := sub.Child()
	vddPin := child.PinByName("VDD")
	if vddPin == nil {
		t.Fatal("expected an implicit VDD pin on BUF")
	}
	if sub.PinNet(vddPin.ID()) == nil || sub.PinNet(vddPin.ID()).Name() != "VDD" {
		t.Fatalf("expected X1's VDD pin auto-wired to a VDD net in TOP")
	}
}

func TestReadParamAndOptionsScale(t *testing.T) {
	deck := `
.PARAM RVAL=1K
.OPTIONS SCALE=2.0
R1 1 2 RVAL
`
	_, top := readDeck(t, deck)
	r1 := deviceNamed(t, top, "1")
	// R is not a geometry parameter: SCALE does not touch it.
	if v, ok := r1.ParameterValueByName("R"); !ok || v != 1000 {
		t.Fatalf("R1 = %v, ok=%v, want 1000", v, ok)
	}
}

func TestReadSubcircuitSpecializationClonesPerBinding(t *testing.T) {
	// RBLOCK's own formal parameter is named "R", matching R1's device
	// parameter name directly: this is the binding convention
	// specializeInto's override actually implements (spec.md §9's
	// specialization Open Question) — a formal parameter that merely
	// feeds into an algebraic expression evaluated once at .SUBCKT
	// read time is not re-resolved per instance.
	deck := `
.SUBCKT RBLOCK A B PARAMS: R=1K
R1 A B R
.ENDS
X1 1 2 RBLOCK PARAMS: R=1K
X2 3 4 RBLOCK PARAMS: R=5K
`
	nl, top := readDeck(t, deck)
	if len(top.SubCircuits()) != 2 {
		t.Fatalf("expected 2 subcircuit instances, got %d", len(top.SubCircuits()))
	}
	c1 := top.SubCircuits()[0].Child()
	c2 := top.SubCircuits()[1].Child()
	if c1 == c2 {
		t.Fatal("expected distinct clones for distinct R bindings")
	}
	r1 := c1.Devices()[0]
	r2 := c2.Devices()[0]
	v1, _ := r1.ParameterValueByName("R")
	v2, _ := r2.ParameterValueByName("R")
	if v1 != 1000 || v2 != 5000 {
		t.Fatalf("got v1=%v v2=%v, want 1000 and 5000", v1, v2)
	}
	if nl.CircuitByName("RBLOCK") == nil {
		t.Fatal("original RBLOCK definition should still exist")
	}
}

func TestReadUnterminatedSubcktIsError(t *testing.T) {
	deck := `
.SUBCKT FOO A B
R1 A B 1K
`
	nl := netlist.New(false)
	r := NewReader(DefaultOptions(), mustEval(t))
	err := r.Read(context.Background(), strings.NewReader(deck), nl, "TOP", "deck.sp")
	if err == nil {
		t.Fatal("expected an error for an unterminated .SUBCKT")
	}
}

func TestIncludeWithoutIncluderIsSemanticError(t *testing.T) {
	deck := `.INCLUDE "other.sp"` + "\n"
	nl := netlist.New(false)
	r := NewReader(DefaultOptions(), mustEval(t))
	err := r.Read(context.Background(), strings.NewReader(deck), nl, "TOP", "deck.sp")
	if err == nil {
		t.Fatal("expected a SemanticError without an Includer")
	}
	if _, ok := err.(*SemanticError); !ok {
		t.Fatalf("got %T, want *SemanticError", err)
	}
}

func TestInvalidMultiplierIsSemanticError(t *testing.T) {
	deck := "R1 1 2 1K M=0\n"
	nl := netlist.New(false)
	r := NewReader(DefaultOptions(), mustEval(t))
	err := r.Read(context.Background(), strings.NewReader(deck), nl, "TOP", "deck.sp")
	if _, ok := err.(*SemanticError); !ok {
		t.Fatalf("got %v (%T), want *SemanticError", err, err)
	}
}

func TestReadLogicalLinesFoldsContinuation(t *testing.T) {
	deck := "R1 1 2\n+ 3\n+ 1K\n"
	lines, err := readLogicalLines(strings.NewReader(deck))
	if err != nil {
		t.Fatalf("readLogicalLines: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 folded line, got %d: %v", len(lines), lines)
	}
	if lines[0].Text != "R1 1 2 3 1K" {
		t.Fatalf("got %q", lines[0].Text)
	}
}

func TestSplitComponentsHonorsQuotesAndParens(t *testing.T) {
	got := splitComponents(`A="1 2" B(1+2) C=3`)
	want := []string{`A="1 2"`, "B(1+2)", "C=3"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestUnescapeNameHexEscape(t *testing.T) {
	if got := unescapeName(`net\x41`); got != "netA" {
		t.Fatalf("got %q, want netA", got)
	}
}
