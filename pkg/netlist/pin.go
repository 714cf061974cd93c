package netlist

// Pin is an externally visible port of a Circuit. Its ID is always equal
// to its position in the circuit's pin list (spec.md §3); removing a pin
// renumbers every pin after it.
type Pin struct {
	name string
	id   int
}

// Name returns the pin's name.
func (p *Pin) Name() string { return p.name }

// ID returns the pin's position in its circuit's pin list.
func (p *Pin) ID() int { return p.id }

// SetName renames the pin in place.
func (p *Pin) SetName(name string) { p.name = name }
