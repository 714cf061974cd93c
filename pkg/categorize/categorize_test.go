package categorize

import (
	"strings"
	"testing"

	"github.com/openlvs/lvscore/pkg/netlist"
)

func fold(s string) string { return strings.ToUpper(s) }

func TestDeviceClassCategorizerByName(t *testing.T) {
	res1 := netlist.NewDeviceClass("RES")
	res2 := netlist.NewDeviceClass("res")
	cap1 := netlist.NewDeviceClass("CAP")

	c := NewDeviceClassCategorizer(fold)
	if !c.Same(res1, res2) {
		t.Fatal("RES and res should share a category under case folding")
	}
	if c.Same(res1, cap1) {
		t.Fatal("RES and CAP should not share a category")
	}
}

func TestDeviceClassCategorizerSameClassMerges(t *testing.T) {
	hvpmos := netlist.NewDeviceClass("HVPMOS")
	pmos := netlist.NewDeviceClass("PMOS")
	c := NewDeviceClassCategorizer(fold)

	if c.Same(hvpmos, pmos) {
		t.Fatal("distinct names should not start merged")
	}
	c.SameClass(hvpmos, pmos)
	if !c.Same(hvpmos, pmos) {
		t.Fatal("SameClass should merge the two categories")
	}
	if c.Category(hvpmos) != c.Category(pmos) {
		t.Fatal("merged classes should report the same Category id")
	}
}

func TestDeviceClassCategorizerStrictInherited(t *testing.T) {
	strictClass := netlist.NewDeviceClass("STRICTRES")
	strictClass.SetStrict(true)
	c := NewDeviceClassCategorizer(fold)
	if !c.Strict(strictClass) {
		t.Fatal("categorizer should see the DeviceClass's own strict flag")
	}
}

func TestDeviceClassCategorizerSameClassCarriesStrict(t *testing.T) {
	a := netlist.NewDeviceClass("A")
	b := netlist.NewDeviceClass("B")
	c := NewDeviceClassCategorizer(fold)
	c.SetStrict(a, true)
	c.SameClass(a, b)
	if !c.Strict(b) {
		t.Fatal("merging into a strict category should make b strict too")
	}
}

func TestCircuitCategorizerBindRejectsDoubleBinding(t *testing.T) {
	a := mustCircuit(t, "INV")
	b := mustCircuit(t, "INV_LAYOUT")
	other := mustCircuit(t, "OTHER")

	c := NewCircuitCategorizer(fold)
	if err := c.Bind(a, b); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := c.Bind(a, other); err == nil {
		t.Fatal("expected an error re-binding a to a different circuit")
	}
	// Re-binding the same pair is idempotent, not an error.
	if err := c.Bind(a, b); err != nil {
		t.Fatalf("re-binding the same pair should not error: %v", err)
	}
}

func TestCircuitCategorizerBindMergesCategory(t *testing.T) {
	a := mustCircuit(t, "INV")
	b := mustCircuit(t, "INV2")
	c := NewCircuitCategorizer(fold)
	if c.Same(a, b) {
		t.Fatal("differently named circuits should not start merged")
	}
	if err := c.Bind(a, b); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if !c.Same(a, b) {
		t.Fatal("Bind should merge categories even across differing names")
	}
}

func TestCircuitPinCategorizerMergeRequiresReference(t *testing.T) {
	ref := mustCircuitWithPins(t, "INV", "A", "B")
	circuits := NewCircuitCategorizer(fold)
	pins := NewCircuitPinCategorizer(circuits)
	if err := pins.MergePins(ref, 0, 1); err == nil {
		t.Fatal("expected an error merging pins on a non-reference circuit")
	}
	pins.MarkReference(ref)
	if err := pins.MergePins(ref, 0, 1); err != nil {
		t.Fatalf("MergePins: %v", err)
	}
	if !pins.SamePin(ref, 0, 1) {
		t.Fatal("pins 0 and 1 should be swappable after MergePins")
	}
}

func TestCircuitPinCategorizerMirrorsToBoundLayout(t *testing.T) {
	ref := mustCircuitWithPins(t, "INV", "A", "B")
	layout := mustCircuitWithPins(t, "INV_LAYOUT", "A", "B")

	circuits := NewCircuitCategorizer(fold)
	if err := circuits.Bind(ref, layout); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	pins := NewCircuitPinCategorizer(circuits)
	pins.MarkReference(ref)

	if err := pins.MergePins(ref, 0, 1); err != nil {
		t.Fatalf("MergePins: %v", err)
	}
	if !pins.SamePin(layout, 0, 1) {
		t.Fatal("merging reference pins should mirror onto the bound layout circuit")
	}
}

func mustCircuit(t *testing.T, name string) *netlist.Circuit {
	t.Helper()
	nl := netlist.New(false)
	c, err := nl.AddCircuit(name)
	if err != nil {
		t.Fatalf("AddCircuit: %v", err)
	}
	return c
}

func mustCircuitWithPins(t *testing.T, name string, pins ...string) *netlist.Circuit {
	t.Helper()
	c := mustCircuit(t, name)
	for _, p := range pins {
		c.AddPin(p)
	}
	return c
}
