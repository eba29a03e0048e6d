package factor

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
)

// Array is a dense array with named, labeled dimensions. Combining two
// Arrays aligns them by dimension name and label rather than by position,
// broadcasting dimensions that only one of the operands carries.
type Array struct {
	dims   []string
	labels map[string][]string
	index  map[string]map[string]int // dim → label → position
	data   *sparse.DenseArray
}

// NewArray returns a zero-valued array over the given coordinates.
func NewArray(c *Coords) *Array {
	a := &Array{
		dims:   append([]string(nil), c.dims...),
		labels: make(map[string][]string, len(c.dims)),
		index:  make(map[string]map[string]int, len(c.dims)),
	}
	shape := make([]int, len(a.dims))
	for i, d := range a.dims {
		lbls := append([]string(nil), c.labels[d]...)
		a.labels[d] = lbls
		idx := make(map[string]int, len(lbls))
		for j, l := range lbls {
			idx[l] = j
		}
		a.index[d] = idx
		shape[i] = len(lbls)
	}
	a.data = sparse.ZerosDense(shape...)
	return a
}

// Dims returns the dimension names in layout order.
func (a *Array) Dims() []string { return a.dims }

// Labels returns the labels of dim in layout order, or nil if the array
// does not carry dim.
func (a *Array) Labels(dim string) []string { return a.labels[dim] }

// HasDim reports whether the array carries dim.
func (a *Array) HasDim(dim string) bool {
	_, ok := a.index[dim]
	return ok
}

// Set sets the element at the given labels, which must be given in
// dimension layout order.
func (a *Array) Set(v float64, labels ...string) {
	a.data.Elements[a.offset(labels)] = v
}

// Get returns the element at the given labels, which must be given in
// dimension layout order.
func (a *Array) Get(labels ...string) float64 {
	return a.data.Elements[a.offset(labels)]
}

// Sum returns the sum of all elements.
func (a *Array) Sum() float64 { return a.data.Sum() }

func (a *Array) offset(labels []string) int {
	if len(labels) != len(a.dims) {
		panic(fmt.Sprintf("factor: got %d labels for %d dimensions", len(labels), len(a.dims)))
	}
	o := 0
	for i, d := range a.dims {
		j, ok := a.index[d][labels[i]]
		if !ok {
			panic(fmt.Sprintf("factor: no label %q on dimension %q", labels[i], d))
		}
		o = o*len(a.labels[d]) + j
	}
	return o
}

// strides returns the element stride of each dimension for the array's
// row-major layout.
func (a *Array) strides() []int {
	s := make([]int, len(a.dims))
	stride := 1
	for i := len(a.dims) - 1; i >= 0; i-- {
		s[i] = stride
		stride *= len(a.labels[a.dims[i]])
	}
	return s
}

// combine aligns a and b by dimension name and label and applies op
// element-wise, with a as the left operand. The result carries the union
// of the two dimension sets; along shared dimensions the labels are the
// intersection, in a's order, so a one-hot selector on the right shrinks
// the shared dimension to the selected labels. Mismatched layer sequences
// are a programming error and panic.
func combine(a, b *Array, op Op) *Array {
	rc := NewCoords()
	for _, d := range a.dims {
		if !b.HasDim(d) {
			rc.Add(d, a.labels[d]...)
			continue
		}
		var shared []string
		for _, l := range a.labels[d] {
			if _, ok := b.index[d][l]; ok {
				shared = append(shared, l)
			}
		}
		if len(shared) == 0 {
			panic(fmt.Sprintf("factor: no common labels on dimension %q", d))
		}
		rc.Add(d, shared...)
	}
	for _, d := range b.dims {
		if !a.HasDim(d) {
			rc.Add(d, b.labels[d]...)
		}
	}

	out := NewArray(rc)
	aStrides, bStrides := a.strides(), b.strides()
	aDim := make(map[string]int, len(a.dims))
	for i, d := range a.dims {
		aDim[d] = i
	}
	bDim := make(map[string]int, len(b.dims))
	for i, d := range b.dims {
		bDim[d] = i
	}

	pos := make([]int, len(out.dims))
	for flat := range out.data.Elements {
		ai, bi := 0, 0
		for i, d := range out.dims {
			l := out.labels[d][pos[i]]
			if j, ok := aDim[d]; ok {
				ai += a.index[d][l] * aStrides[j]
			}
			if j, ok := bDim[d]; ok {
				bi += b.index[d][l] * bStrides[j]
			}
		}
		out.data.Elements[flat] = op.apply(a.data.Elements[ai], b.data.Elements[bi])
		for i := len(pos) - 1; i >= 0; i-- {
			pos[i]++
			if pos[i] < len(out.labels[out.dims[i]]) {
				break
			}
			pos[i] = 0
		}
	}
	return out
}

// stack joins arrays with identical coordinates along a newly introduced
// trailing dimension with the given labels.
func stack(dim string, labels []string, parts []*Array) *Array {
	if len(parts) == 0 || len(parts) != len(labels) {
		panic("factor: stack needs one part per label")
	}
	first := parts[0]
	for _, p := range parts[1:] {
		if len(p.data.Elements) != len(first.data.Elements) {
			panic("factor: stacked layers have mismatched coordinates")
		}
	}
	rc := NewCoords()
	for _, d := range first.dims {
		if d == dim {
			panic(fmt.Sprintf("factor: stacked layers already carry dimension %q", dim))
		}
		rc.Add(d, first.labels[d]...)
	}
	rc.Add(dim, labels...)
	out := NewArray(rc)
	n := len(labels)
	for k, p := range parts {
		for i, v := range p.data.Elements {
			out.data.Elements[i*n+k] = v
		}
	}
	return out
}

// squeeze removes a dimension of size one. The flat element layout is
// unchanged by dropping a unit-sized dimension, whatever its position.
func (a *Array) squeeze(dim string) *Array {
	lbls, ok := a.labels[dim]
	if !ok {
		panic(fmt.Sprintf("factor: squeezing absent dimension %q", dim))
	}
	if len(lbls) != 1 {
		panic(fmt.Sprintf("factor: squeezing dimension %q of size %d", dim, len(lbls)))
	}
	rc := NewCoords()
	for _, d := range a.dims {
		if d != dim {
			rc.Add(d, a.labels[d]...)
		}
	}
	out := NewArray(rc)
	copy(out.data.Elements, a.data.Elements)
	return out
}

// Op is a binary operator used to combine a layer with the running result
// of the layers before it.
type Op int

// The closed set of layer combination operators.
const (
	// Multiply combines element-wise by multiplication.
	Multiply Op = iota
	// Power raises the running result to the layer's values, so a layer
	// value of 0 forces the element to 1 and a value of 1 leaves it
	// unchanged.
	Power
)

func (op Op) String() string {
	switch op {
	case Multiply:
		return "multiply"
	case Power:
		return "power"
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

func (op Op) apply(x, y float64) float64 {
	switch op {
	case Multiply:
		return x * y
	case Power:
		return math.Pow(x, y)
	}
	panic(fmt.Sprintf("factor: unknown operator %v", op))
}
