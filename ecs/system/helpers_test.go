package system

import (
	"testing"

	"github.com/milk9111/botnav/common"
	"github.com/milk9111/botnav/config"
	"github.com/milk9111/botnav/policy"
	"github.com/milk9111/botnav/waypoint"
	"github.com/stretchr/testify/require"
)

// line adds nodes at the given x offsets, linked to their neighbours both
// ways.
func line(t *testing.T, s *waypoint.Store, xs ...float64) []int {
	t.Helper()
	out := make([]int, 0, len(xs))
	for _, x := range xs {
		idx := s.Add(common.V3(x, 0, 0), waypoint.TypeGeneric, 0, false, false, 0)
		require.NotZero(t, idx)
		if len(out) > 0 {
			prev := out[len(out)-1]
			require.True(t, s.Link(prev, idx))
			require.True(t, s.Link(idx, prev))
		}
		out = append(out, idx)
	}
	return out
}

func botConfig() config.Bot {
	cfg := config.Default().Bot
	cfg.MaxGoalAttempts = 64
	return cfg
}

func node(t *testing.T, s *waypoint.Store, i int) waypoint.Node {
	t.Helper()
	n, ok := s.Node(i)
	require.True(t, ok, "node %d", i)
	return n
}

type policyFunc func(c policy.Candidate) bool

func (f policyFunc) Accept(c policy.Candidate) bool { return f(c) }
