package kernel

import "math/rand/v2"

// ChaosSampler plots a Sierpinski triangle with the chaos game: each sample
// is the midpoint between the previous sample and a random vertex.
type ChaosSampler struct {
	tri       Triangle
	rng       *rand.Rand
	current   Point
	total     int
	generated int
}

// NewChaosSampler seeds a sampler that yields total points. The starting
// point is uniform inside the triangle.
func NewChaosSampler(tri Triangle, total int, seed uint64) *ChaosSampler {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	r1, r2 := rng.Float64(), rng.Float64()
	if r1+r2 > 1 {
		r1, r2 = 1-r1, 1-r2
	}
	start := Point{
		X: tri.A.X + r1*(tri.B.X-tri.A.X) + r2*(tri.C.X-tri.A.X),
		Y: tri.A.Y + r1*(tri.B.Y-tri.A.Y) + r2*(tri.C.Y-tri.A.Y),
	}
	return &ChaosSampler{tri: tri, rng: rng, current: start, total: total}
}

// Next returns up to n more points, never exceeding the total.
func (s *ChaosSampler) Next(n int) []Point {
	if rem := s.total - s.generated; n > rem {
		n = rem
	}
	if n <= 0 {
		return nil
	}
	out := make([]Point, n)
	verts := [3]Point{s.tri.A, s.tri.B, s.tri.C}
	for i := range out {
		s.current = s.current.Mid(verts[s.rng.IntN(3)])
		out[i] = s.current
	}
	s.generated += n
	return out
}

// Finish returns every remaining point at once.
func (s *ChaosSampler) Finish() []Point {
	return s.Next(s.total - s.generated)
}

func (s *ChaosSampler) Generated() int { return s.generated }
func (s *ChaosSampler) Total() int     { return s.total }
func (s *ChaosSampler) Done() bool     { return s.generated >= s.total }
