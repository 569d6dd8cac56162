package waypoint

import (
	"math/rand/v2"

	"github.com/milk9111/botnav/common"
)

// wallOracle blocks segments crossing the plane x = wall and reports liquid
// for probes reaching below y = liquid.
type wallOracle struct {
	OpenOracle
	wall   float64
	liquid float64
}

func (o wallOracle) HasLineOfSight(a, b common.Vec3) bool {
	if a == b {
		return false
	}
	return (a.X-o.wall)*(b.X-o.wall) > 0
}

func (o wallOracle) HitsLiquid(a, b common.Vec3) bool {
	return a.Y < o.liquid || b.Y < o.liquid
}

func newTestStore(opts ...Option) *Store {
	opts = append([]Option{WithRand(rand.New(rand.NewPCG(7, 11)))}, opts...)
	return NewStore(OpenOracle{}, opts...)
}

// chain adds n nodes one unit apart on the x axis, linked both ways to
// their immediate neighbours only.
func chain(s *Store, n int) []int {
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, s.Add(common.V3(float64(i), 0, 0), TypeGeneric, 0, false, false, 0))
	}
	for i := 1; i < len(out); i++ {
		s.Link(out[i-1], out[i])
		s.Link(out[i], out[i-1])
	}
	return out
}
