package indicator

// Series is a numeric series aligned 1:1 with a bar series. Indices below
// start fall inside the warm-up window and are undefined.
type Series struct {
	values []float64
	start  int
}

// NewSeries wraps values with the given first defined index.
func NewSeries(values []float64, start int) Series {
	if start < 0 {
		start = 0
	}
	if start > len(values) {
		start = len(values)
	}
	return Series{values: values, start: start}
}

// Constant returns a series of length n where every index holds v.
func Constant(v float64, n int) Series {
	values := make([]float64, n)
	for i := range values {
		values[i] = v
	}
	return Series{values: values, start: 0}
}

// undefined returns a series of length n with no defined index.
func undefined(n int) Series {
	return Series{values: make([]float64, n), start: n}
}

// Len returns the series length.
func (s Series) Len() int {
	return len(s.values)
}

// Start returns the first defined index (Len if nothing is defined).
func (s Series) Start() int {
	return s.start
}

// At returns the value at index i and whether it is defined.
func (s Series) At(i int) (float64, bool) {
	if i < s.start || i >= len(s.values) {
		return 0, false
	}
	return s.values[i], true
}

// Defined reports whether index i is outside the warm-up window.
func (s Series) Defined(i int) bool {
	return i >= s.start && i < len(s.values)
}
