package waypoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/botnav/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSeeder []SeedPoint

func (s staticSeeder) SeedPoints() []SeedPoint { return s }

func arenaSeeds() staticSeeder {
	landing := common.V3(400, 50, 0)
	return staticSeeder{
		{Pos: common.V3(0, 0, 0), Type: TypeRespawn, Subtype: 1},
		{Pos: common.V3(100, 0, 0), Type: TypeItem},
		{Pos: common.V3(200, 0, 0), Type: TypeJumpPad, Target: &landing},
		{Pos: common.V3(500, 50, 0), Type: TypeItem},
	}
}

func TestSeedBuildsConnectedGraph(t *testing.T) {
	s := newTestStore()
	added := Seed(s, arenaSeeds())
	require.Equal(t, 5, added)

	pad, _ := s.Node(3)
	landing, _ := s.Node(4)
	require.Equal(t, TypeJumpPad, pad.Type)
	require.Equal(t, TypeJumpPadLanding, landing.Type)
	assert.True(t, pad.HasLink(4))

	respawn, _ := s.Node(1)
	assert.Equal(t, 1, respawn.Subtype)

	path, ok := NewPathfinder(s).Search(1, 5, nil)
	require.True(t, ok)
	assert.Equal(t, 1, path[0])
	assert.Equal(t, 5, path[len(path)-1])
}

func TestLoadOrSeedFallsBack(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("nodes: {"), 0o644))

	cases := []struct {
		name string
		path string
	}{
		{"malformed", broken},
		{"missing", filepath.Join(dir, "missing.yaml")},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := sampleGraph()
			seeded, err := LoadOrSeed(c.path, s, arenaSeeds(), LoadOptions{})
			require.NoError(t, err)
			assert.True(t, seeded)
			assert.Equal(t, 6, s.Len())
			assert.Equal(t, Header{}, s.Header())
		})
	}
}

func TestLoadOrSeedPrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.yaml")
	require.NoError(t, SaveFile(path, sampleGraph(), SaveOptions{}))

	s := newTestStore()
	seeded, err := LoadOrSeed(path, s, arenaSeeds(), LoadOptions{})
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Equal(t, 5, s.Len())
}

func TestLoadOrSeedWithoutSeeder(t *testing.T) {
	s := newTestStore()
	seeded, err := LoadOrSeed(filepath.Join(t.TempDir(), "none.yaml"), s, nil, LoadOptions{})
	require.Error(t, err)
	assert.False(t, seeded)

	seeded, err = LoadOrSeed(filepath.Join(t.TempDir(), "none.yaml"), s, staticSeeder{}, LoadOptions{})
	require.Error(t, err)
	assert.True(t, seeded)
}
