package scatterer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"holofit/pkg/param"
)

// Composite aggregates primitive or composite children into one
// logical shape. Child i contributes its named quantities under the
// prefix "i:", composed recursively for nested composites. The tie
// table maps a display name to the ordered raw namespaced names that
// share one value; ties are discovered automatically from shared
// parameter handles and may also be declared explicitly.
type Composite struct {
	children []Scatterer
	ties     map[string][]string
	tieOrder []string
}

// NewComposite builds a composite from children and an optional
// explicit tie table, discovers handle-aliased ties, and validates tie
// consistency.
func NewComposite(children []Scatterer, ties map[string][]string) (*Composite, error) {
	c := &Composite{
		children: append([]Scatterer(nil), children...),
		ties:     make(map[string][]string, len(ties)),
	}
	keys := make([]string, 0, len(ties))
	for k := range ties {
		keys = append(keys, k)
	}
	// Supplied maps have no order of their own; sort so group
	// iteration is reproducible.
	sort.Strings(keys)
	for _, k := range keys {
		c.ties[k] = append([]string(nil), ties[k]...)
		c.tieOrder = append(c.tieOrder, k)
	}
	if err := c.findNewTies(); err != nil {
		return nil, err
	}
	if err := c.checkTies(); err != nil {
		return nil, err
	}
	return c, nil
}

// Children returns the child list. The returned slice is a copy.
func (c *Composite) Children() []Scatterer {
	return append([]Scatterer(nil), c.children...)
}

// Child returns the i-th child.
func (c *Composite) Child(i int) Scatterer { return c.children[i] }

// Ties returns a copy of the tie table.
func (c *Composite) Ties() map[string][]string {
	out := make(map[string][]string, len(c.ties))
	for k, v := range c.ties {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Add appends a child, re-runs tie discovery, and re-validates.
func (c *Composite) Add(s Scatterer) error {
	c.children = append(c.children, s)
	if err := c.findNewTies(); err != nil {
		return err
	}
	return c.checkTies()
}

// RawParameters returns every namespaced entry of every child, in
// child order, without tie collapsing.
func (c *Composite) RawParameters() (*param.Set, error) {
	set := param.NewSet()
	for i, child := range c.children {
		cp, err := child.Parameters()
		if err != nil {
			return nil, err
		}
		prefix := strconv.Itoa(i) + ":"
		for _, name := range cp.Names() {
			q, _ := cp.Get(name)
			set.Add(prefix+name, q)
		}
	}
	return set, nil
}

// memberIndex maps each raw tie member to its group's display name.
func (c *Composite) memberIndex() map[string]string {
	out := make(map[string]string)
	for _, display := range c.tieOrder {
		for _, m := range c.ties[display] {
			out[m] = display
		}
	}
	return out
}

// findNewTies scans the raw entries in order and registers a group
// for every pair sharing one parameter handle. Literal numbers never
// alias: two separately defined but equal values stay independent.
func (c *Composite) findNewTies() error {
	raw, err := c.RawParameters()
	if err != nil {
		return err
	}
	names := raw.Names()
	members := c.memberIndex()
	for i, name := range names {
		if _, tied := members[name]; tied {
			continue
		}
		q, _ := raw.Get(name)
		for _, prev := range names[:i] {
			pq, _ := raw.Get(prev)
			if param.SameHandle(q, pq) {
				c.addTie(prev, name)
				members = c.memberIndex()
				break
			}
		}
	}
	return nil
}

// AddTie declares that newName carries the same value as oldName,
// merging into oldName's group if one exists. The consistency check
// runs immediately.
func (c *Composite) AddTie(oldName, newName string) error {
	c.addTie(oldName, newName)
	return c.checkTies()
}

func (c *Composite) addTie(oldName, newName string) {
	if _, ok := c.ties[oldName]; ok {
		c.ties[oldName] = append(c.ties[oldName], newName)
		return
	}
	if display, ok := c.memberIndex()[oldName]; ok {
		c.ties[display] = append(c.ties[display], newName)
		return
	}
	// New group: name it by the suffix after the leading child index,
	// falling back to the full raw name on collision.
	name := newName
	if _, rest, ok := strings.Cut(newName, ":"); ok {
		name = rest
	}
	if _, exists := c.ties[name]; exists {
		name = newName
	}
	c.ties[name] = []string{newName, oldName}
	c.tieOrder = append(c.tieOrder, name)
}

// checkTies verifies that every tie member still exists and that all
// members of a group carry one value. Violations signal caller error
// in composite construction and are never repaired.
func (c *Composite) checkTies() error {
	raw, err := c.RawParameters()
	if err != nil {
		return err
	}
	for _, display := range c.tieOrder {
		members := c.ties[display]
		for _, m := range members {
			if !raw.Has(m) {
				return param.ErrUnknownTieMember{Tie: display, Member: m}
			}
		}
		first, _ := raw.Get(members[0])
		for _, m := range members[1:] {
			q, _ := raw.Get(m)
			if statusConflict(first, q) {
				return param.ErrInconsistentTie{Tie: display, Member: m}
			}
			if !param.Equal(q, first) {
				return param.ErrInconsistentTieValue{Tie: display, Member: m, First: members[0]}
			}
		}
	}
	return nil
}

// statusConflict reports a fixed handle tied to a free handle.
func statusConflict(a, b param.Quantity) bool {
	if ap, ok := a.(*param.Parameter); ok {
		if bp, ok := b.(*param.Parameter); ok {
			return ap.Fixed != bp.Fixed
		}
	}
	if ac, ok := a.(*param.ComplexParameter); ok {
		if bc, ok := b.(*param.ComplexParameter); ok {
			return ac.Real.Fixed != bc.Real.Fixed || ac.Imag.Fixed != bc.Imag.Fixed
		}
	}
	return false
}

// Parameters returns the flattened entries with each tie group
// collapsed to one entry keyed by its display name, positioned where
// the group's first-seen member sits. Consistency is re-validated on
// every access.
func (c *Composite) Parameters() (*param.Set, error) {
	if err := c.checkTies(); err != nil {
		return nil, err
	}
	raw, err := c.RawParameters()
	if err != nil {
		return nil, err
	}
	members := c.memberIndex()
	added := make(map[string]bool)
	set := param.NewSet()
	for _, name := range raw.Names() {
		display, tied := members[name]
		if !tied {
			q, _ := raw.Get(name)
			set.Add(name, q)
			continue
		}
		if !added[display] {
			q, _ := raw.Get(c.ties[display][0])
			set.Add(display, q)
			added[display] = true
		}
	}
	return set, nil
}

// FromParameters rebuilds the composite from flat values: tie display
// entries are broadcast to their raw members, raw entries are
// partitioned by leading child index, and each child reconstructs
// recursively. The tie table carries over unchanged.
func (c *Composite) FromParameters(vals map[string]param.Quantity, overwrite bool) (Scatterer, error) {
	expanded := make(map[string]param.Quantity, len(vals))
	for k, v := range vals {
		expanded[k] = v
	}
	for _, display := range c.tieOrder {
		v, ok := expanded[display]
		if !ok {
			continue
		}
		for _, m := range c.ties[display] {
			expanded[m] = v
		}
		delete(expanded, display)
	}
	collected := make([]map[string]param.Quantity, len(c.children))
	for i := range collected {
		collected[i] = make(map[string]param.Quantity)
	}
	for key, v := range expanded {
		idx, rest, ok := strings.Cut(key, ":")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(idx)
		if err != nil || n < 0 || n >= len(c.children) {
			continue
		}
		collected[n][rest] = v
	}
	children := make([]Scatterer, len(c.children))
	for i, child := range c.children {
		rebuilt, err := child.FromParameters(collected[i], overwrite)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		children[i] = rebuilt
	}
	return NewComposite(children, c.Ties())
}

// Center returns the centroid of the child centers.
func (c *Composite) Center() Vector {
	points := make([]Vector, len(c.children))
	for i, child := range c.children {
		points[i] = child.Center()
	}
	return centroid(points)
}

// Translated applies one displacement to every child.
func (c *Composite) Translated(coords ...float64) (Scatterer, error) {
	delta, err := coords3("translation", coords)
	if err != nil {
		return nil, err
	}
	children := make([]Scatterer, len(c.children))
	for i, child := range c.children {
		moved, err := child.Translated(delta[0], delta[1], delta[2])
		if err != nil {
			return nil, err
		}
		children[i] = moved
	}
	return NewComposite(children, c.Ties())
}

// Rotated rotates the composite rigidly about the centroid of the
// child centers: each child's center orbits the centroid and the
// child itself rotates intrinsically by the same angles.
func (c *Composite) Rotated(angles ...float64) (Scatterer, error) {
	a, err := coords3("rotation", angles)
	if err != nil {
		return nil, err
	}
	centers := make([]Vector, len(c.children))
	for i, child := range c.children {
		centers[i] = child.Center()
	}
	com := centroid(centers)
	rel := make([]Vector, len(centers))
	for i, p := range centers {
		rel[i] = p.Sub(com)
	}
	rotated := RotatePoints(rel, a[0], a[1], a[2])
	children := make([]Scatterer, len(c.children))
	for i, child := range c.children {
		target := com.Add(rotated[i])
		delta := target.Sub(centers[i])
		moved, err := child.Translated(delta[0], delta[1], delta[2])
		if err != nil {
			return nil, err
		}
		spun, err := moved.Rotated(a[0], a[1], a[2])
		if err != nil {
			return nil, err
		}
		children[i] = spun
	}
	return NewComposite(children, c.Ties())
}

// Contains reports whether any child contains p.
func (c *Composite) Contains(p Vector) bool {
	for _, child := range c.children {
		if child.Contains(p) {
			return true
		}
	}
	return false
}

// InDomain returns, per point, the index of the first child in list
// order whose containment test succeeds; points no child claims
// default to child 0.
func (c *Composite) InDomain(points []Vector) []int {
	out := make([]int, len(points))
	for i, p := range points {
		for j, child := range c.children {
			if child.Contains(p) {
				out[i] = j
				break
			}
		}
	}
	return out
}

// IndexAt returns the owning child's refractive index at p, or false
// when no child classifies the point.
func (c *Composite) IndexAt(p Vector) (complex128, bool) {
	if len(c.children) == 0 {
		return 0, false
	}
	return c.children[c.InDomain([]Vector{p})[0]].IndexAt(p)
}
