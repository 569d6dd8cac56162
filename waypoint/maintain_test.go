package waypoint

import (
	"testing"

	"github.com/milk9111/botnav/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildWetGraph lays out a row of nodes on both sides of a wall, with every
// third node submerged, and links everything to everything it can.
func buildWetGraph() *Store {
	s := NewStore(wallOracle{wall: 50, liquid: 0})
	for i := 0; i < 12; i++ {
		y := 100.0
		if i%3 == 0 {
			y = 5
		}
		s.Add(common.V3(float64(i*10), y, 0), TypeGeneric, 0, false, false, 0)
	}
	for i := 1; i < s.Len(); i++ {
		for j := 1; j < s.Len(); j++ {
			if i != j && len(s.Links(i)) < MaxLinks {
				s.Link(i, j)
			}
		}
	}
	return s
}

func TestSanitizeLinksRemovesBlockedAndDangling(t *testing.T) {
	s := NewStore(wallOracle{wall: 5, liquid: -100})
	a := s.Add(common.V3(0, 0, 0), TypeGeneric, 0, false, false, 0)
	b := s.Add(common.V3(10, 0, 0), TypeGeneric, 0, false, false, 0)
	c := s.Add(common.V3(2, 0, 0), TypeGeneric, 0, false, false, 0)
	d := s.Add(common.V3(3, 0, 0), TypeGeneric, 0, false, false, 0)
	s.Link(a, b)
	s.Link(a, c)
	s.Link(a, d)
	s.Invalidate(d)

	pruned := s.SanitizeLinks()
	assert.Equal(t, 2, pruned)
	assert.Equal(t, []int{c}, s.Links(a))
	assert.Zero(t, s.SanitizeLinks())
}

func TestMarkInvalidFlagsSubmergedNodes(t *testing.T) {
	s := NewStore(wallOracle{wall: 1000, liquid: 0})
	dry := s.Add(common.V3(0, 100, 0), TypeGeneric, 0, false, false, 0)
	wet := s.Add(common.V3(0, 5, 0), TypeGeneric, 0, false, false, 0)

	assert.Equal(t, 1, s.MarkInvalid())
	assert.True(t, s.Valid(dry))
	assert.False(t, s.Valid(wet))
	assert.Zero(t, s.MarkInvalid())
}

func TestRemapCompactsAndRewritesLinks(t *testing.T) {
	s := newTestStore()
	ids := chain(s, 5)
	s.Invalidate(ids[1])
	s.Invalidate(ids[3])

	table := s.Remap()
	require.Len(t, table, 6)
	assert.Equal(t, []int{0, 1, 0, 2, 0, 3}, table)
	assert.Equal(t, 4, s.Len())

	for i := 1; i < s.Len(); i++ {
		require.True(t, s.Valid(i))
		for _, l := range s.Links(i) {
			assert.True(t, s.Valid(l), "node %d links to dropped slot %d", i, l)
		}
	}
	p, _ := s.Pos(2)
	assert.Equal(t, common.V3(2, 0, 0), p)
}

func TestRemapKeepsLinksToSurvivors(t *testing.T) {
	s := newTestStore()
	a := s.Add(common.V3(0, 0, 0), TypeGeneric, 0, false, false, 0)
	gone := s.Add(common.V3(1, 0, 0), TypeGeneric, 0, false, false, 0)
	b := s.Add(common.V3(2, 0, 0), TypeGeneric, 0, false, false, 0)
	s.Link(a, b)
	s.Link(b, a)
	s.Link(a, gone)
	s.Invalidate(gone)

	s.Remap()
	assert.Equal(t, []int{2}, s.Links(1))
	assert.Equal(t, []int{1}, s.Links(2))
}

func TestCleanIsIdempotent(t *testing.T) {
	s := buildWetGraph()
	first := s.Clean()
	assert.Equal(t, 4, first.Invalidated)
	assert.Equal(t, 4, first.Removed)
	assert.Positive(t, first.Pruned)

	snapshot := make([][]int, s.Len())
	positions := make([]common.Vec3, s.Len())
	for i := 1; i < s.Len(); i++ {
		snapshot[i] = s.Links(i)
		positions[i], _ = s.Pos(i)
	}

	second := s.Clean()
	assert.Equal(t, CleanReport{}, second)
	require.Equal(t, len(snapshot), s.Len())
	for i := 1; i < s.Len(); i++ {
		assert.Equal(t, snapshot[i], s.Links(i))
		p, _ := s.Pos(i)
		assert.Equal(t, positions[i], p)
	}
}

func TestCleanKeepsJumpPadArcs(t *testing.T) {
	s := NewStore(wallOracle{wall: 50, liquid: -100})
	landing := common.V3(100, 0, 0)
	require.Equal(t, 2, Seed(s, []SeedPoint{{Pos: common.V3(0, 0, 0), Type: TypeJumpPad, Target: &landing}}))
	require.Equal(t, []int{2}, s.Links(1))

	stray := s.Add(common.V3(120, 0, 0), TypeGeneric, 0, false, false, 0)
	s.Link(1, stray)

	report := s.Clean()
	assert.Equal(t, 1, report.Pruned, "only the blocked generic link goes")
	assert.Equal(t, []int{2}, s.Links(1))
	assert.Zero(t, s.Clean().Pruned)
}
