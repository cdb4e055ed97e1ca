package bipolar

// Matrix is a binarized weight matrix of a dense layer, logically indexed
// [input][output] with the flat index c*out + i. Storage keeps one packed
// row per output neuron so that the fan-in of a neuron is contiguous.
type Matrix struct {
	rows    []Vector
	in, out int
}

// NewMatrix creates an in x out matrix with all bits in the negative state.
func NewMatrix(in, out int) *Matrix {
	m := &Matrix{
		rows: make([]Vector, out),
		in:   in,
		out:  out,
	}
	for i := range m.rows {
		m.rows[i] = NewVector(in)
	}
	return m
}

// In returns the number of inputs (fan-in of each neuron).
func (m *Matrix) In() int {
	return m.in
}

// Out returns the number of output neurons.
func (m *Matrix) Out() int {
	return m.out
}

// Len returns the number of weights, in * out.
func (m *Matrix) Len() int {
	return m.in * m.out
}

// At returns the weight connecting input c to output i.
func (m *Matrix) At(c, i int) bool {
	return m.rows[i].Get(c)
}

// Set sets the weight connecting input c to output i.
func (m *Matrix) Set(c, i int, v bool) {
	m.rows[i].Set(c, v)
}

// Flat returns the weight at flat index k = c*out + i.
func (m *Matrix) Flat(k int) bool {
	return m.rows[k%m.out].Get(k / m.out)
}

// SetFlat sets the weight at flat index k = c*out + i.
func (m *Matrix) SetFlat(k int, v bool) {
	m.rows[k%m.out].Set(k/m.out, v)
}

// Row returns the packed fan-in of neuron i. The vector aliases the matrix.
func (m *Matrix) Row(i int) Vector {
	return m.rows[i]
}

// FlipNeuron negates every weight feeding neuron i.
func (m *Matrix) FlipNeuron(i int) {
	r := m.rows[i]
	for w := range r.words {
		r.words[w] = ^r.words[w]
	}
	if len(r.words) > 0 {
		r.words[len(r.words)-1] &= tail(r.n)
	}
}

// MatchCount returns the number of inputs whose bit equals the weight
// feeding neuron i.
func (m *Matrix) MatchCount(i int, in Vector) int {
	return MatchCount(m.rows[i].words, in.words, m.in)
}

// Binarize re-binarizes the matrix from real valued weights in flat order.
func (m *Matrix) Binarize(w []float64) {
	for k := 0; k < len(w) && k < m.Len(); k++ {
		m.SetFlat(k, w[k] >= 0)
	}
}

// Equal reports whether both matrices have the same shape and bits.
func (m *Matrix) Equal(o *Matrix) bool {
	if m.in != o.in || m.out != o.out {
		return false
	}
	for i := range m.rows {
		if !m.rows[i].Equal(o.rows[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	o := &Matrix{rows: make([]Vector, m.out), in: m.in, out: m.out}
	for i := range m.rows {
		o.rows[i] = m.rows[i].Clone()
	}
	return o
}
