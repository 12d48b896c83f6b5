// Package shape generates per-particle target positions and colors for the
// named assembled shapes. Shape math is deliberately engine-agnostic: the
// particle engine consumes the Provider contract and never the formulas.
package shape

// DefaultShape is the shape used when an unknown id is requested.
const DefaultShape = "sphere"

// Buffers holds one shape's per-particle assignment. Both slices are
// packed xyz / rgb triples of identical particle count.
type Buffers struct {
	Positions []float32
	Colors    []float32
}

// Count returns the number of particles the buffers describe.
func (b Buffers) Count() int {
	return len(b.Positions) / 3
}

// Provider supplies assembled-state targets for a named shape. Generate
// must always fill exactly n entries; an unknown shapeID produces the
// default shape rather than failing. Calls may use internal randomness,
// so two calls with the same id need not be identical.
type Provider interface {
	Generate(shapeID string, n int) Buffers
	Known(shapeID string) bool
	Shapes() []string
}
