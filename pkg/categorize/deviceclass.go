package categorize

import "github.com/openlvs/lvscore/pkg/netlist"

// DeviceClassCategorizer categorizes DeviceClasses by normalized name
// unless the caller explicitly merges two classes with SameClass, which
// joins their categories and transitively re-labels every other class
// already in either bucket (spec.md §4.5). A merged category may be
// marked strict, disabling terminal-equivalence for every class sharing
// it.
type DeviceClassCategorizer struct {
	normalize func(string) string
	uf        *unionFind
	ids       *ids
	strict    map[string]bool // keyed by union-find root
}

// NewDeviceClassCategorizer builds a categorizer using normalize (e.g.
// Netlist.NormalizeName) to fold class names into their comparison key.
func NewDeviceClassCategorizer(normalize func(string) string) *DeviceClassCategorizer {
	return &DeviceClassCategorizer{
		normalize: normalize,
		uf:        newUnionFind(),
		ids:       newIDs(),
		strict:    map[string]bool{},
	}
}

func (c *DeviceClassCategorizer) key(class *netlist.DeviceClass) string {
	return c.normalize(class.Name())
}

// Category returns class's current small integer category. Two classes
// return the same value iff they compare equal by name or have been
// joined via SameClass.
func (c *DeviceClassCategorizer) Category(class *netlist.DeviceClass) int {
	return c.ids.intern(c.uf.find(c.key(class)))
}

// Same reports whether a and b currently share a category.
func (c *DeviceClassCategorizer) Same(a, b *netlist.DeviceClass) bool {
	return c.uf.sameSet(c.key(a), c.key(b))
}

// SameClass merges a's and b's categories, carrying forward either
// class's strict flag to the joined category.
func (c *DeviceClassCategorizer) SameClass(a, b *netlist.DeviceClass) {
	wasStrict := c.Strict(a) || c.Strict(b)
	root := c.uf.union(c.key(a), c.key(b))
	if wasStrict {
		c.strict[root] = true
	}
}

// SetStrict marks class's category strict (terminal-equivalence
// disabled) or not.
func (c *DeviceClassCategorizer) SetStrict(class *netlist.DeviceClass, strict bool) {
	c.strict[c.uf.find(c.key(class))] = strict
}

// Strict reports whether class's category is marked strict, either
// directly via SetStrict/SameClass or inherited from the DeviceClass's
// own Strict flag (spec.md §3's strict flag on DeviceClass itself).
func (c *DeviceClassCategorizer) Strict(class *netlist.DeviceClass) bool {
	if class.Strict() {
		return true
	}
	return c.strict[c.uf.find(c.key(class))]
}
