package xref

import (
	"bytes"
	"log"
	"testing"

	"github.com/openlvs/lvscore/pkg/netlist"
)

func mustCircuit(t *testing.T, nl *netlist.Netlist, name string) *netlist.Circuit {
	t.Helper()
	c, err := nl.AddCircuit(name)
	if err != nil {
		t.Fatalf("AddCircuit: %v", err)
	}
	return c
}

func TestCrossReferenceRecordsMatchedNets(t *testing.T) {
	nlA := netlist.New(false)
	nlB := netlist.New(false)
	ca := mustCircuit(t, nlA, "INV")
	cb := mustCircuit(t, nlB, "INV")
	na := ca.AddNet("A")
	nb := cb.AddNet("A")

	x := NewCrossReference()
	x.BeginCircuit(ca, cb)
	x.MatchNets(na, nb)
	x.MatchAmbiguousNets(na, nb, "ambiguous")
	x.EndCircuit(ca, cb, true, "")

	rec := x.RecordFor(ca, cb)
	if rec == nil {
		t.Fatal("expected a record for (ca, cb)")
	}
	if !rec.Matching {
		t.Fatal("expected Matching to be true")
	}
	if len(rec.Nets) != 2 {
		t.Fatalf("expected 2 net pairs, got %d", len(rec.Nets))
	}
	if rec.Nets[0].Ambiguous {
		t.Fatal("first pair should not be flagged ambiguous")
	}
	if !rec.Nets[1].Ambiguous {
		t.Fatal("second pair should be flagged ambiguous")
	}
}

func TestCrossReferenceRecordsDeviceDeviations(t *testing.T) {
	nlA := netlist.New(false)
	nlB := netlist.New(false)
	ca := mustCircuit(t, nlA, "TOP")
	cb := mustCircuit(t, nlB, "TOP")
	class := netlist.NewDeviceClass("RES")
	da := ca.AddDevice(class, "R1")
	db := cb.AddDevice(class, "R1")

	x := NewCrossReference()
	x.BeginCircuit(ca, cb)
	x.MatchDevicesWithDifferentParameters(da, db)
	x.EndCircuit(ca, cb, true, "")

	rec := x.RecordFor(ca, cb)
	if len(rec.Devices) != 1 || !rec.Devices[0].DifferentParameters {
		t.Fatal("expected one device pair flagged DifferentParameters")
	}
}

func TestCrossReferenceLogEntryRequiresCurrentCircuit(t *testing.T) {
	x := NewCrossReference()
	x.LogEntry(SeverityWarning, "dropped before any BeginCircuit")
	if len(x.records) != 0 {
		t.Fatal("a log entry with no current circuit should be dropped, not create a record")
	}
}

func TestMultiLoggerFansOutToAllLoggers(t *testing.T) {
	var buf bytes.Buffer
	text := NewTextLogger(log.New(&buf, "", 0))
	xr := NewCrossReference()
	multi := NewMultiLogger(text, xr)

	nlA := netlist.New(false)
	nlB := netlist.New(false)
	ca := mustCircuit(t, nlA, "TOP")
	cb := mustCircuit(t, nlB, "TOP")

	multi.BeginCircuit(ca, cb)
	multi.LogEntry(SeverityInfo, "hello")
	multi.EndCircuit(ca, cb, true, "")

	if buf.Len() == 0 {
		t.Fatal("expected the text logger to have written something")
	}
	rec := xr.RecordFor(ca, cb)
	if rec == nil || len(rec.LogEntries) != 1 {
		t.Fatal("expected the cross-reference to also have recorded the log entry")
	}
}

func TestNopLoggerSwallowsEverything(t *testing.T) {
	nlA := netlist.New(false)
	nlB := netlist.New(false)
	ca := mustCircuit(t, nlA, "TOP")
	cb := mustCircuit(t, nlB, "TOP")
	// Exercising NopLogger must not panic; there is nothing to assert
	// beyond that, since every method is an intentional no-op.
	NopLogger.BeginNetlist(nlA, nlB)
	NopLogger.BeginCircuit(ca, cb)
	NopLogger.LogEntry(SeverityError, "ignored")
	NopLogger.EndCircuit(ca, cb, false, "ignored")
	NopLogger.EndNetlist(nlA, nlB)
}
