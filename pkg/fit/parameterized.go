package fit

import (
	"strings"

	"holofit/pkg/param"
	"holofit/pkg/scatterer"
)

// TiedName derives the display name for a tie between two raw names:
// the longest common trailing substring, trimmed of boundary
// separators. Names with no usable common suffix fall back to the
// first raw name so every group keeps a stable non-empty key.
func TiedName(a, b string) string {
	i := 0
	for i < len(a) && i < len(b) && a[len(a)-1-i] == b[len(b)-1-i] {
		i++
	}
	name := strings.Trim(a[len(a)-i:], ":_")
	if name == "" {
		return a
	}
	return name
}

// ParameterizedObject derives a Parametrization automatically from a
// scatterer's own named quantities, discovering ties from shared
// parameter handles. Discovery is two-pass: the first pass builds the
// name-assignment table and tie groups without touching the handles;
// the second applies the assigned names to the shared handles exactly
// once, at construction time.
type ParameterizedObject struct {
	obj      scatterer.Scatterer
	free     []*param.Parameter
	ties     map[string][]string
	tieOrder []string
	display  map[string]string
}

// NewParameterizedObject walks the object's named quantities in their
// deterministic order, splitting complex quantities into halves, and
// records a tie whenever a handle reappears under a second name.
func NewParameterizedObject(obj scatterer.Scatterer) (*ParameterizedObject, error) {
	set, err := obj.Parameters()
	if err != nil {
		return nil, err
	}

	type leaf struct {
		p    *param.Parameter
		name string
	}
	var leaves []leaf
	for _, name := range set.Names() {
		q, _ := set.Get(name)
		switch v := q.(type) {
		case *param.Parameter:
			leaves = append(leaves, leaf{v, name})
		case *param.ComplexParameter:
			leaves = append(leaves, leaf{v.Real, name + param.RealSuffix})
			leaves = append(leaves, leaf{v.Imag, name + param.ImagSuffix})
		}
	}

	po := &ParameterizedObject{
		obj:     obj,
		ties:    make(map[string][]string),
		display: make(map[string]string),
	}

	// Pass 1: assign names and discover tie groups, no mutation.
	assigned := make(map[*param.Parameter]string, len(leaves))
	var order []*param.Parameter
	for _, l := range leaves {
		cur, seen := assigned[l.p]
		if !seen {
			assigned[l.p] = l.name
			order = append(order, l.p)
			if !l.p.Fixed {
				po.free = append(po.free, l.p)
			}
			continue
		}
		display := TiedName(cur, l.name)
		group, ok := po.ties[cur]
		if ok {
			if cur != display {
				delete(po.ties, cur)
				for i, d := range po.tieOrder {
					if d == cur {
						po.tieOrder[i] = display
					}
				}
			}
		} else {
			group = []string{cur}
			po.tieOrder = append(po.tieOrder, display)
		}
		group = append(group, l.name)
		po.ties[display] = group
		assigned[l.p] = display
	}

	// Pass 2: the one-time rename, plus the raw-name lookup table
	// consumed by MakeFrom.
	for _, p := range order {
		p.Name = assigned[p]
	}
	for display, group := range po.ties {
		for _, raw := range group {
			po.display[raw] = display
		}
	}
	return po, nil
}

// Ties returns a copy of the discovered tie table.
func (po *ParameterizedObject) Ties() map[string][]string {
	out := make(map[string][]string, len(po.ties))
	for k, v := range po.ties {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Parameters returns the ordered free parameters.
func (po *ParameterizedObject) Parameters() []*param.Parameter {
	return append([]*param.Parameter(nil), po.free...)
}

// displayOf maps a raw name to its tie display name, if tied.
func (po *ParameterizedObject) displayOf(raw string) string {
	if d, ok := po.display[raw]; ok {
		return d
	}
	return raw
}

func (po *ParameterizedObject) resolveHalf(p *param.Parameter, raw string, flat map[string]float64) (float64, error) {
	if p.Fixed {
		return p.Limit, nil
	}
	name := po.displayOf(raw)
	v, ok := flat[name]
	if !ok {
		return 0, param.ErrMissingValue{Name: name}
	}
	return v, nil
}

// MakeFrom resolves every raw quantity of the wrapped object, fixed
// ones from storage and free ones from the flat map under their tie
// display names, and delegates reconstruction to the object itself. Because every
// raw slot resolves through its group's display name, a tie value
// reaches every member of the group.
func (po *ParameterizedObject) MakeFrom(flat map[string]float64) (scatterer.Scatterer, error) {
	set, err := po.obj.Parameters()
	if err != nil {
		return nil, err
	}
	vals := make(map[string]param.Quantity, set.Len())
	for _, name := range set.Names() {
		q, _ := set.Get(name)
		switch v := q.(type) {
		case *param.Parameter:
			val, err := po.resolveHalf(v, name, flat)
			if err != nil {
				return nil, err
			}
			vals[name] = param.Number(val)
		case *param.ComplexParameter:
			re, err := po.resolveHalf(v.Real, name+param.RealSuffix, flat)
			if err != nil {
				return nil, err
			}
			im, err := po.resolveHalf(v.Imag, name+param.ImagSuffix, flat)
			if err != nil {
				return nil, err
			}
			vals[name] = param.ComplexNumber(complex(re, im))
		default:
			vals[name] = q
		}
	}
	return po.obj.FromParameters(vals, false)
}

// Guess builds the scatterer from every free parameter's default.
func (po *ParameterizedObject) Guess() (scatterer.Scatterer, error) {
	flat := make(map[string]float64, len(po.free))
	for _, p := range po.free {
		flat[p.Name] = p.Guess
	}
	return po.MakeFrom(flat)
}
