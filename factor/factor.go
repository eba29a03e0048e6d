// Package factor builds multi-dimensional scaling-factor arrays from
// ordered pipelines of composable transformation layers. Each layer
// quantifies to a labeled array over some of the requested coordinates and
// is combined with the running result via its declared operator (multiply
// or power). Factors are used to scale base assumptions across dimensions
// such as year, time slice, and technology before parameter tables are
// generated.
package factor

import "fmt"

// Factor is an ordered pipeline of layers. It is immutable after
// construction; Quantify is a pure function of the layer sequence and the
// requested coordinates and is safe to call concurrently.
type Factor struct {
	layers []Layer
}

// New returns a Factor quantifying the given layers in order.
func New(layers ...Layer) *Factor {
	return &Factor{layers: append([]Layer(nil), layers...)}
}

// Quantify folds the layer pipeline over the requested coordinates: the
// first layer is quantified directly and each following layer is combined
// with the running result via its own operator. The result's coordinate
// space is a superset of the requested coordinates, and along each
// requested dimension its labels cover exactly the requested labels;
// a violation means the layer sequence is internally inconsistent with
// its declared dimensions and panics rather than returning an error.
func (f *Factor) Quantify(c *Coords) (*Array, error) {
	if len(f.layers) == 0 {
		return nil, fmt.Errorf("factor: quantifying a factor with no layers")
	}
	work := c.Clone()
	var res *Array
	for _, l := range f.layers {
		if ap, ok := l.(applier); ok {
			var err error
			res, work, err = ap.apply(res, work)
			if err != nil {
				return nil, err
			}
			continue
		}
		a, err := l.Quantify(work)
		if err != nil {
			return nil, err
		}
		if res == nil {
			res = a
		} else {
			res = combine(res, a, l.Op())
		}
	}
	checkCoverage(res, work)
	return res, nil
}

// checkCoverage panics unless the result covers each remaining working
// dimension with exactly the requested labels.
func checkCoverage(res *Array, c *Coords) {
	for _, d := range c.Dims() {
		if !res.HasDim(d) {
			panic(fmt.Sprintf("factor: result is missing requested dimension %q", d))
		}
		want := c.Labels(d)
		if len(res.labels[d]) != len(want) {
			panic(fmt.Sprintf("factor: result has %d labels on dimension %q; want %d",
				len(res.labels[d]), d, len(want)))
		}
		for _, l := range want {
			if _, ok := res.index[d][l]; !ok {
				panic(fmt.Sprintf("factor: result is missing label %q on dimension %q", l, d))
			}
		}
	}
}
