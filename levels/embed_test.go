package levels

import (
	"testing"

	"github.com/milk9111/botnav/common"
	"github.com/milk9111/botnav/waypoint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedArena(t *testing.T) {
	lvl, err := Load("arena.json")
	require.NoError(t, err)
	assert.Equal(t, "arena", lvl.Name)
	assert.NotEmpty(t, lvl.Solids)
	assert.Len(t, lvl.JumpPads, 2)
}

func TestLoadMissingLevel(t *testing.T) {
	_, err := Load("nowhere.json")
	require.Error(t, err)
}

func TestParseRejectsBadBounds(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not_json", "{"},
		{"empty_bounds", `{"name": "x"}`},
		{"inverted", `{"bounds": {"min": {"x": 10, "y": 0}, "max": {"x": 0, "y": 10}}}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse([]byte(c.data))
			require.Error(t, err)
		})
	}
}

func TestChecksumTracksGeometryOnly(t *testing.T) {
	lvl, err := Load("arena.json")
	require.NoError(t, err)
	base := lvl.Checksum()
	require.Len(t, base, 8)

	lvl.Items = append(lvl.Items, Item{Kind: "ammo", Pos: common.V3(1, 2, 3)})
	assert.Equal(t, base, lvl.Checksum())

	lvl.Solids = append(lvl.Solids, Box{Max: common.V3(1, 1, 1)})
	assert.NotEqual(t, base, lvl.Checksum())
}

func TestSeedPoints(t *testing.T) {
	lvl, err := Load("arena.json")
	require.NoError(t, err)
	points := lvl.SeedPoints()
	require.Len(t, points, len(lvl.Items)+len(lvl.Respawns)+len(lvl.Objectives)+len(lvl.JumpPads))

	counts := map[waypoint.Type]int{}
	for _, p := range points {
		counts[p.Type]++
		if p.Type == waypoint.TypeJumpPad {
			require.NotNil(t, p.Target)
		}
	}
	assert.Equal(t, len(lvl.Items), counts[waypoint.TypeItem])
	assert.Equal(t, len(lvl.Respawns), counts[waypoint.TypeRespawn])
	assert.Equal(t, len(lvl.JumpPads), counts[waypoint.TypeJumpPad])

	pad := lvl.JumpPads[0]
	for _, p := range points {
		if p.Type == waypoint.TypeJumpPad {
			assert.Equal(t, pad.Region.Center(), p.Pos)
			assert.Equal(t, pad.Target, *p.Target)
			break
		}
	}
}

func TestLoadWithoutExtension(t *testing.T) {
	lvl, err := Load("arena")
	require.NoError(t, err)
	assert.Equal(t, "arena", lvl.Name)
}
