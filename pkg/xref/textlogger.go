package xref

import (
	"log"

	"github.com/openlvs/lvscore/pkg/netlist"
)

// TextLogger writes every event to a standard library *log.Logger, the
// same logging mechanism cmd/otj/cmd/pcb.go reaches for (the teacher's
// one stdlib-log touchpoint) rather than a structured logging library —
// no pack repo ships one, and a line-per-event textual report is exactly
// what log.Logger is for.
type TextLogger struct {
	Log *log.Logger
}

// NewTextLogger wraps l (or the standard logger if l is nil).
func NewTextLogger(l *log.Logger) *TextLogger {
	if l == nil {
		l = log.Default()
	}
	return &TextLogger{Log: l}
}

func (t *TextLogger) BeginNetlist(a, b *netlist.Netlist) {
	t.Log.Printf("begin netlist compare")
}

func (t *TextLogger) EndNetlist(a, b *netlist.Netlist) {
	t.Log.Printf("end netlist compare")
}

func (t *TextLogger) DeviceClassMismatch(a, b *netlist.DeviceClass, msg string) {
	t.Log.Printf("device class mismatch: %s <-> %s: %s", classNameOrNil(a), classNameOrNil(b), msg)
}

func (t *TextLogger) BeginCircuit(a, b *netlist.Circuit) {
	t.Log.Printf("begin circuit %s <-> %s", circuitNameOrNil(a), circuitNameOrNil(b))
}

func (t *TextLogger) EndCircuit(a, b *netlist.Circuit, matching bool, msg string) {
	t.Log.Printf("end circuit %s <-> %s: matching=%v %s", circuitNameOrNil(a), circuitNameOrNil(b), matching, msg)
}

func (t *TextLogger) CircuitSkipped(a, b *netlist.Circuit, msg string) {
	t.Log.Printf("circuit skipped %s <-> %s: %s", circuitNameOrNil(a), circuitNameOrNil(b), msg)
}

func (t *TextLogger) CircuitMismatch(a, b *netlist.Circuit, msg string) {
	t.Log.Printf("circuit mismatch %s <-> %s: %s", circuitNameOrNil(a), circuitNameOrNil(b), msg)
}

func (t *TextLogger) LogEntry(level Severity, msg string) {
	t.Log.Printf("[%s] %s", level, msg)
}

func (t *TextLogger) MatchNets(a, b *netlist.Net) {
	t.Log.Printf("match nets %s <-> %s", netNameOrNil(a), netNameOrNil(b))
}

func (t *TextLogger) MatchAmbiguousNets(a, b *netlist.Net, msg string) {
	t.Log.Printf("ambiguous net match %s <-> %s: %s", netNameOrNil(a), netNameOrNil(b), msg)
}

func (t *TextLogger) NetMismatch(a, b *netlist.Net, msg string) {
	t.Log.Printf("net mismatch %s <-> %s: %s", netNameOrNil(a), netNameOrNil(b), msg)
}

func (t *TextLogger) MatchDevices(a, b *netlist.Device) {
	t.Log.Printf("match devices %s <-> %s", deviceNameOrNil(a), deviceNameOrNil(b))
}

func (t *TextLogger) MatchDevicesWithDifferentParameters(a, b *netlist.Device) {
	t.Log.Printf("match devices (different parameters) %s <-> %s", deviceNameOrNil(a), deviceNameOrNil(b))
}

func (t *TextLogger) MatchDevicesWithDifferentDeviceClasses(a, b *netlist.Device) {
	t.Log.Printf("match devices (different classes) %s <-> %s", deviceNameOrNil(a), deviceNameOrNil(b))
}

func (t *TextLogger) DeviceMismatch(a, b *netlist.Device, msg string) {
	t.Log.Printf("device mismatch %s <-> %s: %s", deviceNameOrNil(a), deviceNameOrNil(b), msg)
}

func (t *TextLogger) MatchPins(a, b *netlist.Pin) {
	t.Log.Printf("match pins %s <-> %s", pinNameOrNil(a), pinNameOrNil(b))
}

func (t *TextLogger) PinMismatch(a, b *netlist.Pin, msg string) {
	t.Log.Printf("pin mismatch %s <-> %s: %s", pinNameOrNil(a), pinNameOrNil(b), msg)
}

func (t *TextLogger) MatchSubcircuits(a, b *netlist.SubCircuit) {
	t.Log.Printf("match subcircuits %s <-> %s", subcircuitNameOrNil(a), subcircuitNameOrNil(b))
}

func (t *TextLogger) SubcircuitMismatch(a, b *netlist.SubCircuit, msg string) {
	t.Log.Printf("subcircuit mismatch %s <-> %s: %s", subcircuitNameOrNil(a), subcircuitNameOrNil(b), msg)
}

func classNameOrNil(c *netlist.DeviceClass) string {
	if c == nil {
		return "<none>"
	}
	return c.Name()
}

func circuitNameOrNil(c *netlist.Circuit) string {
	if c == nil {
		return "<none>"
	}
	return c.Name()
}

func netNameOrNil(n *netlist.Net) string {
	if n == nil {
		return "<none>"
	}
	return n.Name()
}

func deviceNameOrNil(d *netlist.Device) string {
	if d == nil {
		return "<none>"
	}
	return d.Name()
}

func pinNameOrNil(p *netlist.Pin) string {
	if p == nil {
		return "<none>"
	}
	return p.Name()
}

func subcircuitNameOrNil(s *netlist.SubCircuit) string {
	if s == nil {
		return "<none>"
	}
	return s.Name()
}

var _ Logger = (*TextLogger)(nil)
