package fit

import (
	"errors"
	"testing"

	"holofit/pkg/param"
	"holofit/pkg/scatterer"
)

// flatObject is a minimal scatterer exposing a fixed list of named
// quantities, for exercising tie discovery in isolation.
type flatObject struct {
	names []string
	qs    map[string]param.Quantity
}

func newFlatObject(names []string, qs map[string]param.Quantity) *flatObject {
	return &flatObject{names: names, qs: qs}
}

func (f *flatObject) Parameters() (*param.Set, error) {
	set := param.NewSet()
	for _, n := range f.names {
		set.Add(n, f.qs[n])
	}
	return set, nil
}

func (f *flatObject) FromParameters(vals map[string]param.Quantity, overwrite bool) (scatterer.Scatterer, error) {
	out := &flatObject{names: f.names, qs: make(map[string]param.Quantity, len(f.qs))}
	for n, q := range f.qs {
		out.qs[n] = q
	}
	for n, v := range vals {
		out.qs[n] = v
	}
	return out, nil
}

func (f *flatObject) Center() scatterer.Vector { return scatterer.Vector{} }

func (f *flatObject) Translated(coords ...float64) (scatterer.Scatterer, error) { return f, nil }

func (f *flatObject) Rotated(angles ...float64) (scatterer.Scatterer, error) { return f, nil }

func (f *flatObject) Contains(p scatterer.Vector) bool { return false }

func (f *flatObject) IndexAt(p scatterer.Vector) (complex128, bool) { return 0, false }

func TestTiedName(t *testing.T) {
	cases := []struct{ a, b, want string }{
		{"0:n", "1:n", "n"},
		{"0:alpha", "1:alpha", "alpha"},
		{"sphere_x", "other_x", "x"},
		{"abc", "xyz", "abc"},
		{"0:", "1:", "0:"},
		{"n", "n", "n"},
	}
	for _, tc := range cases {
		if got := TiedName(tc.a, tc.b); got != tc.want {
			t.Fatalf("TiedName(%q, %q) = %q, want %q", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestParameterizedObjectDiscoversTies(t *testing.T) {
	n := param.NewFree("n", 1.59)
	r0 := param.NewFree("r", 0.5)
	r1 := param.NewFree("r", 0.5)
	obj := newFlatObject([]string{"0:n", "0:r", "1:n", "1:r"}, map[string]param.Quantity{
		"0:n": n, "0:r": r0, "1:n": n, "1:r": r1,
	})

	po, err := NewParameterizedObject(obj)
	if err != nil {
		t.Fatalf("new parameterized object: %v", err)
	}

	free := po.Parameters()
	if len(free) != 3 {
		t.Fatalf("expected 3 free parameters, got %d", len(free))
	}
	if free[0].Name != "n" || free[1].Name != "0:r" || free[2].Name != "1:r" {
		t.Fatalf("unexpected names %s %s %s", free[0].Name, free[1].Name, free[2].Name)
	}
	if got := po.Ties()["n"]; len(got) != 2 || got[0] != "0:n" || got[1] != "1:n" {
		t.Fatalf("unexpected tie group %v", got)
	}
}

func TestParameterizedObjectDisjointNamesTie(t *testing.T) {
	h := param.NewFree("v", 1.0)
	obj := newFlatObject([]string{"offset", "gain"}, map[string]param.Quantity{
		"offset": h, "gain": h,
	})
	po, err := NewParameterizedObject(obj)
	if err != nil {
		t.Fatalf("new parameterized object: %v", err)
	}

	group := po.Ties()["offset"]
	if len(group) != 2 || group[0] != "offset" || group[1] != "gain" {
		t.Fatalf("disjoint names must group under the first raw name, got %v", po.Ties())
	}
	free := po.Parameters()
	if len(free) != 1 || free[0].Name != "offset" {
		t.Fatalf("unexpected free parameters %v", free)
	}

	made, err := po.MakeFrom(map[string]float64{"offset": 2.5})
	if err != nil {
		t.Fatalf("make from: %v", err)
	}
	out := made.(*flatObject)
	if out.qs["offset"] != param.Number(2.5) || out.qs["gain"] != param.Number(2.5) {
		t.Fatalf("group value not delivered to every member: %v", out.qs)
	}
}

func TestParameterizedObjectThreeWayTie(t *testing.T) {
	n := param.NewFree("n", 1.59)
	obj := newFlatObject([]string{"0:n", "1:n", "2:n"}, map[string]param.Quantity{
		"0:n": n, "1:n": n, "2:n": n,
	})
	po, err := NewParameterizedObject(obj)
	if err != nil {
		t.Fatalf("new parameterized object: %v", err)
	}
	if len(po.Parameters()) != 1 {
		t.Fatalf("one handle must yield one free parameter")
	}
	if got := po.Ties()["n"]; len(got) != 3 {
		t.Fatalf("expected three members, got %v", got)
	}
}

func TestParameterizedObjectMakeFromBroadcastsTies(t *testing.T) {
	n := param.NewFree("n", 1.59)
	obj := newFlatObject([]string{"0:n", "0:r", "1:n"}, map[string]param.Quantity{
		"0:n": n, "0:r": param.NewFree("r", 0.5), "1:n": n,
	})
	po, err := NewParameterizedObject(obj)
	if err != nil {
		t.Fatalf("new parameterized object: %v", err)
	}

	made, err := po.MakeFrom(map[string]float64{"n": 1.7, "0:r": 0.3})
	if err != nil {
		t.Fatalf("make from: %v", err)
	}
	out := made.(*flatObject)
	if out.qs["0:n"] != param.Number(1.7) || out.qs["1:n"] != param.Number(1.7) {
		t.Fatalf("tie value not delivered to every member: %v", out.qs)
	}
	if out.qs["0:r"] != param.Number(0.3) {
		t.Fatalf("untied value misdelivered: %v", out.qs["0:r"])
	}

	_, err = po.MakeFrom(map[string]float64{"0:r": 0.3})
	var missing param.ErrMissingValue
	if !errors.As(err, &missing) || missing.Name != "n" {
		t.Fatalf("expected missing tie value under its display name, got %v", err)
	}
}

func TestParameterizedObjectFixedFromStorage(t *testing.T) {
	obj := newFlatObject([]string{"n", "r"}, map[string]param.Quantity{
		"n": param.NewFixed("n", 1.59),
		"r": param.NewFree("r", 0.5),
	})
	po, err := NewParameterizedObject(obj)
	if err != nil {
		t.Fatalf("new parameterized object: %v", err)
	}
	if len(po.Parameters()) != 1 {
		t.Fatalf("fixed quantities must not be free")
	}
	made, err := po.MakeFrom(map[string]float64{"r": 0.8})
	if err != nil {
		t.Fatalf("make from: %v", err)
	}
	out := made.(*flatObject)
	if out.qs["n"] != param.Number(1.59) {
		t.Fatalf("fixed value must come from storage: %v", out.qs["n"])
	}
}

func TestParameterizedObjectSplitsComplex(t *testing.T) {
	obj := newFlatObject([]string{"n"}, map[string]param.Quantity{
		"n": param.NewComplex("n", param.NewFree("", 1.59), param.NewFixed("", 1e-4)),
	})
	po, err := NewParameterizedObject(obj)
	if err != nil {
		t.Fatalf("new parameterized object: %v", err)
	}
	free := po.Parameters()
	if len(free) != 1 || free[0].Name != "n.real" {
		t.Fatalf("unexpected free parameters %v", free)
	}
	made, err := po.MakeFrom(map[string]float64{"n.real": 1.7})
	if err != nil {
		t.Fatalf("make from: %v", err)
	}
	if got := made.(*flatObject).qs["n"]; got != param.ComplexNumber(complex(1.7, 1e-4)) {
		t.Fatalf("complex halves misassembled: %v", got)
	}
}

func TestParameterizedObjectOverComposite(t *testing.T) {
	n := param.NewFree("n", 1.59)
	s0, err := scatterer.NewSphere(n, param.NewFree("r", 0.5), scatterer.Literal3(scatterer.Vector{-1, 0, 0}))
	if err != nil {
		t.Fatalf("sphere: %v", err)
	}
	s1, err := scatterer.NewSphere(n, param.NewFree("r", 0.4), scatterer.Literal3(scatterer.Vector{1, 0, 0}))
	if err != nil {
		t.Fatalf("sphere: %v", err)
	}
	c, err := scatterer.NewComposite([]scatterer.Scatterer{s0, s1}, nil)
	if err != nil {
		t.Fatalf("composite: %v", err)
	}

	po, err := NewParameterizedObject(c)
	if err != nil {
		t.Fatalf("new parameterized object: %v", err)
	}
	names := make([]string, 0, 3)
	for _, p := range po.Parameters() {
		names = append(names, p.Name)
	}
	if len(names) != 3 || names[0] != "n" || names[1] != "0:r" || names[2] != "1:r" {
		t.Fatalf("unexpected free names %v", names)
	}

	guessed, err := po.Guess()
	if err != nil {
		t.Fatalf("guess: %v", err)
	}
	out := guessed.(*scatterer.Composite)
	if param.EvalReal(out.Child(0).(*scatterer.Sphere).N) != 1.59 ||
		param.EvalReal(out.Child(1).(*scatterer.Sphere).N) != 1.59 {
		t.Fatalf("shared index must reach both children")
	}
	if param.EvalReal(out.Child(1).(*scatterer.Sphere).R) != 0.4 {
		t.Fatalf("per-child radius lost: %v", out.Child(1).(*scatterer.Sphere).R)
	}
}
