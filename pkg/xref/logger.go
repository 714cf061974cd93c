// Package xref records the outcome of a netlist comparison: a Logger
// receives events as the matcher walks two netlists (spec.md §4.8), and
// a CrossReference accumulates the matched/mismatched pairs a caller
// would want to query afterwards (a GUI highlighting corresponding
// instances, a report generator, a regression test).
//
// Grounded on original_source/src/db/db/dbNetlistCompare.h's
// NetlistCompareLogger: the same event set, turned into a plain Go
// interface (no virtual-with-empty-body base class; Go gets that for
// free from BaseLogger's method set).
package xref

import "github.com/openlvs/lvscore/pkg/netlist"

// Severity classifies a free-form LogEntry (spec.md §4.8).
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Logger is the event sink a Matcher reports comparison progress to.
// A nil argument to any "a"/"b"-shaped method means "no counterpart on
// that side" (spec.md §4.8: "a is null if there is no match for b and
// vice versa").
type Logger interface {
	BeginNetlist(a, b *netlist.Netlist)
	EndNetlist(a, b *netlist.Netlist)

	DeviceClassMismatch(a, b *netlist.DeviceClass, msg string)

	BeginCircuit(a, b *netlist.Circuit)
	EndCircuit(a, b *netlist.Circuit, matching bool, msg string)
	CircuitSkipped(a, b *netlist.Circuit, msg string)
	CircuitMismatch(a, b *netlist.Circuit, msg string)

	LogEntry(level Severity, msg string)

	MatchNets(a, b *netlist.Net)
	MatchAmbiguousNets(a, b *netlist.Net, msg string)
	NetMismatch(a, b *netlist.Net, msg string)

	MatchDevices(a, b *netlist.Device)
	MatchDevicesWithDifferentParameters(a, b *netlist.Device)
	MatchDevicesWithDifferentDeviceClasses(a, b *netlist.Device)
	DeviceMismatch(a, b *netlist.Device, msg string)

	MatchPins(a, b *netlist.Pin)
	PinMismatch(a, b *netlist.Pin, msg string)

	MatchSubcircuits(a, b *netlist.SubCircuit)
	SubcircuitMismatch(a, b *netlist.SubCircuit, msg string)
}

// BaseLogger implements Logger with empty bodies, the same role the
// original's virtual methods with empty default bodies play. Embed it
// to implement only the events a particular Logger cares about.
type BaseLogger struct{}

func (BaseLogger) BeginNetlist(a, b *netlist.Netlist) {}
func (BaseLogger) EndNetlist(a, b *netlist.Netlist)   {}

func (BaseLogger) DeviceClassMismatch(a, b *netlist.DeviceClass, msg string) {}

func (BaseLogger) BeginCircuit(a, b *netlist.Circuit)                  {}
func (BaseLogger) EndCircuit(a, b *netlist.Circuit, matching bool, msg string) {}
func (BaseLogger) CircuitSkipped(a, b *netlist.Circuit, msg string)    {}
func (BaseLogger) CircuitMismatch(a, b *netlist.Circuit, msg string)   {}

func (BaseLogger) LogEntry(level Severity, msg string) {}

func (BaseLogger) MatchNets(a, b *netlist.Net)                   {}
func (BaseLogger) MatchAmbiguousNets(a, b *netlist.Net, msg string) {}
func (BaseLogger) NetMismatch(a, b *netlist.Net, msg string)     {}

func (BaseLogger) MatchDevices(a, b *netlist.Device)                               {}
func (BaseLogger) MatchDevicesWithDifferentParameters(a, b *netlist.Device)         {}
func (BaseLogger) MatchDevicesWithDifferentDeviceClasses(a, b *netlist.Device)      {}
func (BaseLogger) DeviceMismatch(a, b *netlist.Device, msg string)                  {}

func (BaseLogger) MatchPins(a, b *netlist.Pin)           {}
func (BaseLogger) PinMismatch(a, b *netlist.Pin, msg string) {}

func (BaseLogger) MatchSubcircuits(a, b *netlist.SubCircuit)            {}
func (BaseLogger) SubcircuitMismatch(a, b *netlist.SubCircuit, msg string) {}

// NopLogger is the default, silent Logger (spec.md §4.8: "the default
// logger is a no-op").
var NopLogger Logger = BaseLogger{}

var _ Logger = BaseLogger{}
