package devclass

import (
	"math"

	"github.com/openlvs/lvscore/pkg/netlist"
)

// ApplyParameterScaling rescales every parameter of d per spec.md §4.3:
// stored(p) = input(p) * globalScale^exponent(p) / si_scaling(p). It is
// applied once, at read time, after a device's raw (as-written) parameter
// values have been set from the SPICE source.
func ApplyParameterScaling(d *netlist.Device, globalScale float64) {
	for _, pd := range d.Class().Parameters() {
		raw := d.ParameterValue(pd.ID)
		scale := siScalingFactor(pd, globalScale)
		d.SetParameterValue(pd.ID, raw*scale)
	}
}

func siScalingFactor(pd netlist.ParameterDefinition, globalScale float64) float64 {
	si := pd.SIScaling
	if si == 0 {
		si = 1
	}
	exp := pd.GeometryExponent
	if exp == 0 {
		return 1 / si
	}
	return math.Pow(globalScale, exp) / si
}
