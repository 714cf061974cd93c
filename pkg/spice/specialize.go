package spice

import (
	"fmt"

	"github.com/openlvs/lvscore/pkg/netlist"
)

// specializations caches parameter-bound subcircuit clones keyed by
// (original circuit, canonical parameter binding string), created lazily
// the first time a distinct binding is observed for a given .SUBCKT
// (spec.md §4.4, §9's deferred-specialization resolution).
type specializations struct {
	clones   map[*netlist.Circuit]map[string]*netlist.Circuit
	visiting map[*netlist.Circuit]bool
}

func (r *Reader) specializationCache() *specializations {
	if r.specCache == nil {
		r.specCache = &specializations{
			clones:   map[*netlist.Circuit]map[string]*netlist.Circuit{},
			visiting: map[*netlist.Circuit]bool{},
		}
	}
	return r.specCache
}

// specialize returns a clone of orig with params bound as its default
// parameter scope, creating the clone (and recursively specializing any
// inner X calls that reference parameters from this scope) the first
// time this exact binding is seen for orig. A circuit already being
// specialized higher up the call stack is left unspecialized instead of
// recursing forever — a cyclic hierarchy is a structural error the
// netlist's own topology validation reports once Read returns.
func (r *Reader) specialize(orig *netlist.Circuit, params map[string]float64) (*netlist.Circuit, error) {
	key := specializationKey(params)
	cache := r.specializationCache()
	byKey, ok := cache.clones[orig]
	if !ok {
		byKey = map[string]*netlist.Circuit{}
		cache.clones[orig] = byKey
	}
	if clone, ok := byKey[key]; ok {
		return clone, nil
	}
	if cache.visiting[orig] {
		return orig, nil
	}
	cache.visiting[orig] = true
	defer delete(cache.visiting, orig)

	name := fmt.Sprintf("%s(%s)", orig.Name(), key)
	clone, err := r.nl.AddCircuit(name)
	if err != nil {
		clone = r.nl.CircuitByName(name)
		byKey[key] = clone
		return clone, nil
	}
	byKey[key] = clone

	scope := map[string]float64{}
	for k, v := range params {
		scope[k] = v
	}

	if err := r.specializeInto(clone, orig, scope); err != nil {
		return nil, err
	}
	return clone, nil
}

// specializeInto copies orig's pins/nets/devices/subcircuit instances
// into clone. Each device parameter keeps orig's value unless scope binds
// a name equal to that parameter's name, in which case scope's value
// replaces it; expressions in orig were evaluated when orig was read and
// are not evaluated again. Inner X calls are specialized under the same
// scope.
func (r *Reader) specializeInto(clone, orig *netlist.Circuit, scope map[string]float64) error {
	netMap := map[*netlist.Net]*netlist.Net{}
	resolve := func(n *netlist.Net) *netlist.Net {
		if n == nil {
			return nil
		}
		if mapped, ok := netMap[n]; ok {
			return mapped
		}
		mapped := clone.AddNet(n.Name())
		netMap[n] = mapped
		return mapped
	}

	for _, p := range orig.Pins() {
		np := clone.AddPin(p.Name())
		clone.ConnectPin(np.ID(), resolve(orig.PinNet(p.ID())))
	}
	for _, n := range orig.Nets() {
		resolve(n)
	}
	for _, d := range orig.Devices() {
		nd := clone.AddDevice(d.Class(), d.Name())
		for _, pd := range d.Class().Parameters() {
			v := d.ParameterValue(pd.ID)
			if override, ok := scope[pd.Name]; ok {
				v = override
			}
			nd.SetParameterValue(pd.ID, v)
		}
		for t := range d.Class().Terminals() {
			nd.Connect(t, resolve(d.TerminalNet(t)))
		}
	}
	for _, sc := range orig.SubCircuits() {
		// Recursing into every inner call under the same scope is an
		// over-approximation of "depends on the outer parameters" — a
		// tighter analysis would need to track which expressions
		// reference which identifiers, which this reader does not
		// retain past eager evaluation (spec.md §4.4's specialization
		// note). It only multiplies clones, never changes semantics.
		target, err := r.specialize(sc.Child(), scope)
		if err != nil {
			return err
		}
		nsc, err := clone.AddSubCircuit(target, sc.Name())
		if err != nil {
			return fmt.Errorf("specializing %s: %w", orig.Name(), err)
		}
		for p := range target.Pins() {
			nsc.Connect(p, resolve(sc.PinNet(p)))
		}
	}
	return nil
}
