package factor

import "fmt"

// Coords is an ordered set of named coordinate dimensions, each with an
// ordered list of labels.
type Coords struct {
	dims   []string
	labels map[string][]string
}

// NewCoords returns an empty coordinate set.
func NewCoords() *Coords {
	return &Coords{labels: make(map[string][]string)}
}

// Add appends a dimension with the given labels, returning c to allow
// chaining. Adding a dimension that already exists panics: coordinate sets
// are assembled once per quantification request.
func (c *Coords) Add(dim string, labels ...string) *Coords {
	if _, ok := c.labels[dim]; ok {
		panic(fmt.Sprintf("factor: coordinate %q added twice", dim))
	}
	c.dims = append(c.dims, dim)
	c.labels[dim] = append([]string(nil), labels...)
	return c
}

// Dims returns the dimension names in declaration order.
func (c *Coords) Dims() []string { return c.dims }

// Has reports whether the coordinate set contains dim.
func (c *Coords) Has(dim string) bool {
	_, ok := c.labels[dim]
	return ok
}

// Labels returns the labels of dim, or nil if dim is absent.
func (c *Coords) Labels(dim string) []string { return c.labels[dim] }

// Clone returns an independent copy of c.
func (c *Coords) Clone() *Coords {
	out := NewCoords()
	for _, d := range c.dims {
		out.Add(d, c.labels[d]...)
	}
	return out
}

// Drop returns a copy of c without dim.
func (c *Coords) Drop(dim string) *Coords {
	out := NewCoords()
	for _, d := range c.dims {
		if d != dim {
			out.Add(d, c.labels[d]...)
		}
	}
	return out
}
