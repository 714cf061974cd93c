// Package spice reads SPICE netlist decks into a pkg/netlist Netlist
// (spec.md §4.4), following dbNetlistSpiceReaderDelegate.cc's lexing,
// element-decoding and control-statement handling.
package spice

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/openlvs/lvscore/pkg/devclass"
	"github.com/openlvs/lvscore/pkg/expreval"
	"github.com/openlvs/lvscore/pkg/netlist"
)

// Includer resolves a `.INCLUDE`/`.LIB` path to a readable stream. A
// Reader with no Includer raises a SemanticError on either statement —
// this exercise has no real multi-file filesystem context to resolve
// relative paths against, so include support is opt-in.
type Includer interface {
	Open(path string) (io.ReadCloser, error)
}

// Options configures a Reader (spec.md §4.4's `.OPTIONS` defaults).
type Options struct {
	Scale float64 // global geometry scale, SCALE
	DefAD float64 // default MOS drain area, DEFAD
	DefAS float64 // default MOS source area, DEFAS
	DefW  float64 // default MOS gate width, DEFW
	DefL  float64 // default MOS gate length, DEFL

	Delegate Delegate
	Includer Includer
}

// DefaultOptions returns the original's documented defaults
// (dbNetlistSpiceReaderDelegate.cc): scale=1.0, defad=0, defas=0,
// defw=100e-6, defl=100e-6.
func DefaultOptions() Options {
	return Options{
		Scale: 1.0,
		DefAD: 0,
		DefAS: 0,
		DefW:  100e-6,
		DefL:  100e-6,
		Delegate: NewDefaultDelegate(),
	}
}

// frame is one level of the .SUBCKT definition stack.
type frame struct {
	circuit *netlist.Circuit
	params  expreval.Vars
}

// Reader drives one SPICE read (spec.md §4.4). It is not safe for
// concurrent use; build a fresh Reader (or call Read once) per stream.
type Reader struct {
	opts Options
	eval *expreval.Evaluator

	nl       *netlist.Netlist
	file     string
	globals  map[string]bool
	models   map[string]map[string]float64 // .MODEL name -> params
	topScope expreval.Vars

	stack []frame

	// netCache avoids a linear net-by-name scan per pin or subcircuit-call
	// net reference; device terminals are wired by the Delegate instead.
	netCache map[*netlist.Circuit]map[string]*netlist.Net

	specCache *specializations
}

// NewReader builds a Reader with the given options. eval is the
// expression evaluator used for .PARAM/value expressions; pass the
// result of expreval.New().
func NewReader(opts Options, eval *expreval.Evaluator) *Reader {
	if opts.Delegate == nil {
		opts.Delegate = NewDefaultDelegate()
	}
	return &Reader{
		opts:     opts,
		eval:     eval,
		globals:  map[string]bool{},
		models:   map[string]map[string]float64{},
		topScope: expreval.Vars{},
		netCache: map[*netlist.Circuit]map[string]*netlist.Net{},
	}
}

// Read parses src as a SPICE deck into nl, creating (or reusing) a
// top-level circuit named topName. file names the stream for error
// messages ("" for an in-memory/anonymous stream).
func (r *Reader) Read(ctx context.Context, src io.Reader, nl *netlist.Netlist, topName, file string) error {
	r.nl = nl
	r.file = file
	r.opts.Delegate.Start(nl)

	top, err := nl.AddCircuit(topName)
	if err != nil {
		top = nl.CircuitByName(topName)
	}
	r.stack = []frame{{circuit: top, params: r.topScope}}

	lines, err := readLogicalLines(src)
	if err != nil {
		return err
	}

	for _, ln := range lines {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.dispatch(ln); err != nil {
			return err
		}
	}

	if len(r.stack) != 1 {
		e := r.parseErr(lines[len(lines)-1].Line, "unterminated .SUBCKT at end of file")
		return &e
	}
	r.opts.Delegate.Finish(nl)
	return nil
}

func (r *Reader) parseErr(line int, format string, args ...any) ParseError {
	return ParseError{File: r.file, Line: line, Msg: fmt.Sprintf(format, args...)}
}

func (r *Reader) dispatch(ln logicalLine) error {
	trimmed := strings.TrimSpace(ln.Text)
	if trimmed == "" {
		return nil
	}
	if trimmed[0] == '.' {
		return r.controlStatement(ln)
	}
	return r.element(ln)
}

func (r *Reader) current() *frame { return &r.stack[len(r.stack)-1] }

// --- Control statements -----------------------------------------------

func (r *Reader) controlStatement(ln logicalLine) error {
	fields := splitComponents(strings.TrimSpace(ln.Text))
	name := strings.ToUpper(fields[0])
	args := fields[1:]

	switch name {
	case ".SUBCKT":
		return r.beginSubckt(ln, args)
	case ".ENDS":
		return r.endSubckt(ln, args)
	case ".GLOBAL":
		for _, a := range args {
			r.globals[strings.ToUpper(unescapeName(a))] = true
		}
		return nil
	case ".PARAM":
		return r.param(ln, args)
	case ".OPTIONS":
		return r.options(ln, args)
	case ".MODEL":
		return r.model(ln, args)
	case ".INCLUDE", ".INC":
		return r.include(ln, args)
	case ".LIB":
		return r.lib(ln, args)
	case ".ENDL":
		return nil
	default:
		if !r.opts.Delegate.ControlStatement(name, args) {
			// unrecognized statements are ignored with a warning,
			// per spec.md §4.4 — no Logger is wired at this layer, so
			// the warning is simply dropped rather than aborting.
			return nil
		}
		return nil
	}
}

func (r *Reader) beginSubckt(ln logicalLine, args []string) error {
	if len(args) < 1 {
		e := r.parseErr(ln.Line, ".SUBCKT requires a name")
		return &e
	}
	name := unescapeName(args[0])
	rest := args[1:]

	var nodes []string
	params := expreval.Vars{}
	inParams := false
	for _, a := range rest {
		if strings.EqualFold(a, "PARAMS:") {
			inParams = true
			continue
		}
		if inParams {
			if key, val, ok := splitParam(a); ok {
				v, err := r.eval.Read(val, r.current().params, r.topScope)
				if err != nil {
					e := r.parseErr(ln.Line, "subcircuit parameter %s: %v", key, err)
					return &e
				}
				params[strings.ToUpper(key)] = v
			}
			continue
		}
		nodes = append(nodes, unescapeName(a))
	}

	sub, err := r.nl.AddCircuit(name)
	if err != nil {
		sub = r.nl.CircuitByName(name)
	}
	for _, n := range nodes {
		p := sub.AddPin(n)
		sub.ConnectPin(p.ID(), r.netFor(sub, n))
	}
	r.stack = append(r.stack, frame{circuit: sub, params: params})
	return nil
}

func (r *Reader) endSubckt(ln logicalLine, args []string) error {
	if len(r.stack) <= 1 {
		e := r.parseErr(ln.Line, ".ENDS without a matching .SUBCKT")
		return &e
	}
	sub := r.current().circuit
	r.stack = r.stack[:len(r.stack)-1]
	r.promoteGlobalPins(sub)
	return nil
}

// promoteGlobalPins gives c a same-named pin for every net it references
// whose name was declared with .GLOBAL, so that a later X call can
// auto-wire it (spec.md §4.4's .GLOBAL semantics, resolved per this
// reader's implicit-pin design: a global net is exposed as a pin on
// every circuit that touches it, rather than modeled as netlist-wide
// shared identity).
func (r *Reader) promoteGlobalPins(c *netlist.Circuit) {
	for _, n := range c.Nets() {
		if !r.globals[strings.ToUpper(n.Name())] {
			continue
		}
		if c.PinByName(n.Name()) != nil {
			continue
		}
		p := c.AddPin(n.Name())
		c.ConnectPin(p.ID(), n)
	}
}

func (r *Reader) param(ln logicalLine, args []string) error {
	for _, a := range args {
		key, val, ok := splitParam(a)
		if !ok {
			continue
		}
		v, err := r.eval.Read(val, r.current().params, r.topScope)
		if err != nil {
			e := r.parseErr(ln.Line, "PARAM %s: %v", key, err)
			return &e
		}
		r.current().params[strings.ToUpper(key)] = v
	}
	return nil
}

func (r *Reader) options(ln logicalLine, args []string) error {
	for _, a := range args {
		key, val, ok := splitParam(a)
		if !ok {
			continue
		}
		v, numErr := strconv.ParseFloat(val, 64)
		switch strings.ToUpper(key) {
		case "SCALE":
			if numErr == nil {
				r.opts.Scale = v
			}
		case "DEFAD":
			if numErr == nil {
				r.opts.DefAD = v
			}
		case "DEFAS":
			if numErr == nil {
				r.opts.DefAS = v
			}
		case "DEFW":
			if numErr == nil {
				r.opts.DefW = v
			}
		case "DEFL":
			if numErr == nil {
				r.opts.DefL = v
			}
		default:
			r.opts.Delegate.ControlStatement(".OPTIONS", args)
		}
	}
	return nil
}

func (r *Reader) model(ln logicalLine, args []string) error {
	if len(args) < 1 {
		e := r.parseErr(ln.Line, ".MODEL requires a name")
		return &e
	}
	name := unescapeName(args[0])
	params := map[string]float64{}
	for _, a := range args[1:] {
		if key, val, ok := splitParam(a); ok {
			if v, ok := tryNumber(val, r.eval, r.current().params); ok {
				params[strings.ToUpper(key)] = v
			}
		}
	}
	r.models[strings.ToUpper(name)] = params
	return nil
}

func (r *Reader) include(ln logicalLine, args []string) error {
	if r.opts.Includer == nil || len(args) < 1 {
		e := &SemanticError{File: r.file, Line: ln.Line, Msg: "no Includer configured for .INCLUDE/.INC"}
		return e
	}
	rc, err := r.opts.Includer.Open(strings.Trim(args[0], `"'`))
	if err != nil {
		e := r.parseErr(ln.Line, "opening include %q: %v", args[0], err)
		return &e
	}
	defer rc.Close()
	sub := &Reader{
		opts:     r.opts,
		eval:     r.eval,
		nl:       r.nl,
		file:     args[0],
		globals:  r.globals,
		models:   r.models,
		topScope: r.topScope,
		stack:    r.stack,
		netCache: r.netCache,
	}
	if err := sub.Read(context.Background(), rc, r.nl, r.current().circuit.Name(), args[0]); err != nil {
		return err
	}
	return nil
}

func (r *Reader) lib(ln logicalLine, args []string) error {
	if r.opts.Includer == nil {
		e := &SemanticError{File: r.file, Line: ln.Line, Msg: "no Includer configured for .LIB"}
		return e
	}
	return r.include(ln, args)
}

// --- Elements -----------------------------------------------------------

func (r *Reader) element(ln logicalLine) error {
	fields := splitComponents(strings.TrimSpace(ln.Text))
	if len(fields) == 0 {
		return nil
	}
	name := fields[0]
	kind := upperByte(name[0])
	rest := fields[1:]
	if kind == 'X' {
		// An X call's "PARAMS:" marker (spec.md §4.4) has no "=" of its
		// own, so it would otherwise be misread as a node; drop it and
		// let the key=value components after it fall through to params.
		rest = dropParamsMarker(rest)
	}

	scope := r.current().params
	nodes, params, err := parseComponents(rest, r.eval, scope, func(s string) string {
		return r.opts.Delegate.TranslateNetName(s)
	})
	if err != nil {
		e := r.parseErr(ln.Line, "element %s: %v", name, err)
		return &e
	}

	switch kind {
	case 'R', 'C', 'L':
		return r.buildRCLElement(ln, name, kind, nodes, params)
	case 'D':
		return r.buildSimpleElement(ln, name, 'D', nodes, params)
	case 'M':
		return r.buildSimpleElement(ln, name, 'M', nodes, params)
	case 'Q':
		return r.buildSimpleElement(ln, name, 'Q', nodes, params)
	case 'X':
		return r.buildSubcktCall(ln, name, nodes, params)
	default:
		e := r.parseErr(ln.Line, "unrecognized element prefix %q", string(kind))
		return &e
	}
}

func (r *Reader) buildRCLElement(ln logicalLine, name string, kind byte, nodes []string, params map[string]float64) error {
	primary := string(kind)
	nets, model, value, hasValue, err := decodeRCL(nodes, params, primary, r.eval, r.current().params)
	if err != nil {
		e := r.parseErr(ln.Line, "%c element %s: %v", kind, name, err)
		return &e
	}
	delete(params, primary) // consumed by decodeRCL, like the original's pv.erase(rv)
	if model != "" {
		r.mergeModelParams(model, params)
	}
	el := Element{Kind: kind, Name: name[1:], Model: model, Value: value, HasValue: hasValue, Nets: r.resolvedNetNames(nets), Params: params}
	return r.dispatchElement(ln, el)
}

func (r *Reader) buildSimpleElement(ln logicalLine, name string, kind byte, nodes []string, params map[string]float64) error {
	var model string
	var nets []string
	if len(nodes) > 0 {
		model = nodes[len(nodes)-1]
		nets = nodes[:len(nodes)-1]
	}
	if model != "" {
		r.mergeModelParams(model, params)
	}
	el := Element{Kind: kind, Name: name[1:], Model: model, Nets: r.resolvedNetNames(nets), Params: params}
	return r.dispatchElement(ln, el)
}

func (r *Reader) dispatchElement(ln logicalLine, el Element) error {
	c := r.current().circuit
	before := len(c.Devices())
	if err := r.opts.Delegate.Element(r.nl, c, el); err != nil {
		if se, ok := err.(*SemanticError); ok {
			se.File, se.Line = r.file, ln.Line
			return se
		}
		return err
	}
	// A successful Element call appends exactly one device; apply the
	// .OPTIONS SCALE global geometry multiplier to it now, the way
	// dbNetlistSpiceReaderDelegate.cc's m_options.scale feeds every
	// built-in device's geometry parameters (spec.md §4.3, §4.4).
	if devs := c.Devices(); len(devs) == before+1 {
		devclass.ApplyParameterScaling(devs[len(devs)-1], r.opts.Scale)
	}
	return nil
}

func (r *Reader) mergeModelParams(model string, params map[string]float64) {
	mp, ok := r.models[strings.ToUpper(model)]
	if !ok {
		return
	}
	for k, v := range mp {
		if _, already := params[k]; !already {
			params[k] = v
		}
	}
}

func (r *Reader) resolvedNetNames(nodes []string) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = unescapeName(n)
	}
	return out
}

func (r *Reader) buildSubcktCall(ln logicalLine, name string, nodes []string, params map[string]float64) error {
	if len(nodes) == 0 {
		e := r.parseErr(ln.Line, "X element %s: missing subcircuit name", name)
		return &e
	}
	target := nodes[len(nodes)-1]
	callNodes := nodes[:len(nodes)-1]

	child := r.nl.CircuitByName(target)
	if child == nil {
		return &SemanticError{File: r.file, Line: ln.Line, Msg: fmt.Sprintf("X element %s: unresolved subcircuit %q", name, target)}
	}

	if len(params) > 0 {
		var err error
		child, err = r.specialize(child, params)
		if err != nil {
			e := r.parseErr(ln.Line, "X element %s: %v", name, err)
			return &e
		}
	}

	parent := r.current().circuit
	sc, err := parent.AddSubCircuit(child, name[1:])
	if err != nil {
		e := r.parseErr(ln.Line, "X element %s: %v", name, err)
		return &e
	}

	for i, n := range callNodes {
		if i >= child.PinCount() {
			break
		}
		sc.Connect(i, r.netFor(parent, unescapeName(n)))
	}
	// Implicit pins beyond the explicit call nodes are global nets
	// auto-wired to the same-named net in the parent (spec.md §4.4's
	// .GLOBAL semantics, extended to subcircuit calls per this reader's
	// implicit-pin design: a .GLOBAL net is exposed as a same-named pin
	// on every circuit that references it).
	for i := len(callNodes); i < child.PinCount(); i++ {
		pin := child.Pin(i)
		if r.globals[strings.ToUpper(pin.Name())] {
			sc.Connect(i, r.netFor(parent, pin.Name()))
		}
	}
	return nil
}

// netFor returns (creating if absent) the named net within c, using a
// per-circuit name cache to avoid a linear scan per reference. A cache
// miss falls back to findOrCreateNet, so a net first named by a device
// terminal is found rather than created a second time.
func (r *Reader) netFor(c *netlist.Circuit, name string) *netlist.Net {
	cache, ok := r.netCache[c]
	if !ok {
		cache = map[string]*netlist.Net{}
		r.netCache[c] = cache
	}
	key := r.nl.NormalizeName(name)
	if n, ok := cache[key]; ok {
		return n
	}
	n := findOrCreateNet(r.nl, c, name)
	cache[key] = n
	return n
}

func dropParamsMarker(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if strings.EqualFold(t, "PARAMS:") {
			continue
		}
		out = append(out, t)
	}
	return out
}

func upperByte(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// specializationKey renders params as a canonical sorted "k=v,..."
// string for specialization-clone identity (spec.md §4.4, §9); specialize
// wraps it in parentheses to name the clone.
func specializationKey(params map[string]float64) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%v", k, params[k])
	}
	return b.String()
}
