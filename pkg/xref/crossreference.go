package xref

import "github.com/openlvs/lvscore/pkg/netlist"

// NetPair records one matched pair of nets, or a one-sided entry when
// only one side has a candidate (spec.md §4.8).
type NetPair struct {
	A, B      *netlist.Net
	Ambiguous bool
}

// DevicePair records one matched pair of devices. Ambiguity doesn't
// apply to devices (they're matched once their surrounding nets are
// fixed), but parameter/class deviations do.
type DevicePair struct {
	A, B                      *netlist.Device
	DifferentParameters       bool
	DifferentDeviceClasses    bool
}

// PinPair records one matched pair of a circuit's pins.
type PinPair struct {
	A, B *netlist.Pin
}

// SubCircuitPair records one matched pair of subcircuit instances.
type SubCircuitPair struct {
	A, B *netlist.SubCircuit
}

// LogEntry is a free-form message recorded against the circuit pair
// current when it was logged (spec.md §4.8: "severity × message ×
// optional geometry reference" — this core has no geometry layer, so
// the reference is carried as plain text when present).
type LogEntry struct {
	Level     Severity
	Message   string
	Reference string
}

// CircuitRecord accumulates everything matched (or not) for one pair of
// circuits being compared.
type CircuitRecord struct {
	A, B *netlist.Circuit

	Matching bool

	Nets         []NetPair
	Devices      []DevicePair
	Pins         []PinPair
	SubCircuits  []SubCircuitPair
	LogEntries   []LogEntry
}

// CrossReference is the queryable record of one netlist compare: every
// circuit pair visited, and within it every matched net/device/pin/
// subcircuit pair and free-form log line (spec.md §4.8). It implements
// Logger directly so a Matcher can report straight into it; wrap it
// together with a TextLogger via MultiLogger to also print as you go.
type CrossReference struct {
	BaseLogger

	records []*CircuitRecord
	current *CircuitRecord
}

// NewCrossReference returns an empty CrossReference.
func NewCrossReference() *CrossReference {
	return &CrossReference{}
}

// Records returns every circuit-pair record in visit order.
func (x *CrossReference) Records() []*CircuitRecord {
	out := make([]*CircuitRecord, len(x.records))
	copy(out, x.records)
	return out
}

// RecordFor returns the record for circuit pair (a, b), or nil if that
// pair was never visited.
func (x *CrossReference) RecordFor(a, b *netlist.Circuit) *CircuitRecord {
	for _, r := range x.records {
		if r.A == a && r.B == b {
			return r
		}
	}
	return nil
}

func (x *CrossReference) BeginCircuit(a, b *netlist.Circuit) {
	x.current = &CircuitRecord{A: a, B: b}
	x.records = append(x.records, x.current)
}

func (x *CrossReference) EndCircuit(a, b *netlist.Circuit, matching bool, msg string) {
	if x.current != nil {
		x.current.Matching = matching
	}
}

func (x *CrossReference) LogEntry(level Severity, msg string) {
	if x.current == nil {
		return
	}
	x.current.LogEntries = append(x.current.LogEntries, LogEntry{Level: level, Message: msg})
}

func (x *CrossReference) MatchNets(a, b *netlist.Net) {
	if x.current == nil {
		return
	}
	x.current.Nets = append(x.current.Nets, NetPair{A: a, B: b})
}

func (x *CrossReference) MatchAmbiguousNets(a, b *netlist.Net, msg string) {
	if x.current == nil {
		return
	}
	x.current.Nets = append(x.current.Nets, NetPair{A: a, B: b, Ambiguous: true})
}

func (x *CrossReference) MatchDevices(a, b *netlist.Device) {
	if x.current == nil {
		return
	}
	x.current.Devices = append(x.current.Devices, DevicePair{A: a, B: b})
}

func (x *CrossReference) MatchDevicesWithDifferentParameters(a, b *netlist.Device) {
	if x.current == nil {
		return
	}
	x.current.Devices = append(x.current.Devices, DevicePair{A: a, B: b, DifferentParameters: true})
}

func (x *CrossReference) MatchDevicesWithDifferentDeviceClasses(a, b *netlist.Device) {
	if x.current == nil {
		return
	}
	x.current.Devices = append(x.current.Devices, DevicePair{A: a, B: b, DifferentDeviceClasses: true})
}

func (x *CrossReference) MatchPins(a, b *netlist.Pin) {
	if x.current == nil {
		return
	}
	x.current.Pins = append(x.current.Pins, PinPair{A: a, B: b})
}

func (x *CrossReference) MatchSubcircuits(a, b *netlist.SubCircuit) {
	if x.current == nil {
		return
	}
	x.current.SubCircuits = append(x.current.SubCircuits, SubCircuitPair{A: a, B: b})
}

var _ Logger = (*CrossReference)(nil)

// MultiLogger fans every event out to all of Loggers, letting a caller
// combine e.g. a CrossReference (for querying afterwards) with a
// TextLogger (for a live console trace) in one Matcher run.
type MultiLogger struct {
	Loggers []Logger
}

func NewMultiLogger(loggers ...Logger) *MultiLogger {
	return &MultiLogger{Loggers: loggers}
}

func (m *MultiLogger) BeginNetlist(a, b *netlist.Netlist) {
	for _, l := range m.Loggers {
		l.BeginNetlist(a, b)
	}
}
func (m *MultiLogger) EndNetlist(a, b *netlist.Netlist) {
	for _, l := range m.Loggers {
		l.EndNetlist(a, b)
	}
}
func (m *MultiLogger) DeviceClassMismatch(a, b *netlist.DeviceClass, msg string) {
	for _, l := range m.Loggers {
		l.DeviceClassMismatch(a, b, msg)
	}
}
func (m *MultiLogger) BeginCircuit(a, b *netlist.Circuit) {
	for _, l := range m.Loggers {
		l.BeginCircuit(a, b)
	}
}
func (m *MultiLogger) EndCircuit(a, b *netlist.Circuit, matching bool, msg string) {
	for _, l := range m.Loggers {
		l.EndCircuit(a, b, matching, msg)
	}
}
func (m *MultiLogger) CircuitSkipped(a, b *netlist.Circuit, msg string) {
	for _, l := range m.Loggers {
		l.CircuitSkipped(a, b, msg)
	}
}
func (m *MultiLogger) CircuitMismatch(a, b *netlist.Circuit, msg string) {
	for _, l := range m.Loggers {
		l.CircuitMismatch(a, b, msg)
	}
}
func (m *MultiLogger) LogEntry(level Severity, msg string) {
	for _, l := range m.Loggers {
		l.LogEntry(level, msg)
	}
}
func (m *MultiLogger) MatchNets(a, b *netlist.Net) {
	for _, l := range m.Loggers {
		l.MatchNets(a, b)
	}
}
func (m *MultiLogger) MatchAmbiguousNets(a, b *netlist.Net, msg string) {
	for _, l := range m.Loggers {
		l.MatchAmbiguousNets(a, b, msg)
	}
}
func (m *MultiLogger) NetMismatch(a, b *netlist.Net, msg string) {
	for _, l := range m.Loggers {
		l.NetMismatch(a, b, msg)
	}
}
func (m *MultiLogger) MatchDevices(a, b *netlist.Device) {
	for _, l := range m.Loggers {
		l.MatchDevices(a, b)
	}
}
func (m *MultiLogger) MatchDevicesWithDifferentParameters(a, b *netlist.Device) {
	for _, l := range m.Loggers {
		l.MatchDevicesWithDifferentParameters(a, b)
	}
}
func (m *MultiLogger) MatchDevicesWithDifferentDeviceClasses(a, b *netlist.Device) {
	for _, l := range m.Loggers {
		l.MatchDevicesWithDifferentDeviceClasses(a, b)
	}
}
func (m *MultiLogger) DeviceMismatch(a, b *netlist.Device, msg string) {
	for _, l := range m.Loggers {
		l.DeviceMismatch(a, b, msg)
	}
}
func (m *MultiLogger) MatchPins(a, b *netlist.Pin) {
	for _, l := range m.Loggers {
		l.MatchPins(a, b)
	}
}
func (m *MultiLogger) PinMismatch(a, b *netlist.Pin, msg string) {
	for _, l := range m.Loggers {
		l.PinMismatch(a, b, msg)
	}
}
func (m *MultiLogger) MatchSubcircuits(a, b *netlist.SubCircuit) {
	for _, l := range m.Loggers {
		l.MatchSubcircuits(a, b)
	}
}
func (m *MultiLogger) SubcircuitMismatch(a, b *netlist.SubCircuit, msg string) {
	for _, l := range m.Loggers {
		l.SubcircuitMismatch(a, b, msg)
	}
}

var _ Logger = (*MultiLogger)(nil)
