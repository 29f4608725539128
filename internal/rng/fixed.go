package rng

// Midpoint always lands in the middle of the requested range:
// IntN(n) = n/2 and Float64() = 0.5.
type Midpoint struct{}

func (Midpoint) IntN(n int) int   { return n / 2 }
func (Midpoint) Float64() float64 { return 0.5 }

// Sequence replays scripted draws in order. Ints feeds IntN (each value is
// taken modulo n), Floats feeds Float64. An exhausted list falls back to the
// Midpoint behavior.
type Sequence struct {
	Ints   []int
	Floats []float64
}

func (s *Sequence) IntN(n int) int {
	if len(s.Ints) == 0 {
		return n / 2
	}
	v := s.Ints[0]
	s.Ints = s.Ints[1:]
	if v < 0 {
		v = -v
	}
	return v % n
}

func (s *Sequence) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0.5
	}
	v := s.Floats[0]
	s.Floats = s.Floats[1:]
	return v
}
