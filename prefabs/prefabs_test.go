package prefabs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedArchetypes(t *testing.T) {
	cases := []struct {
		name  string
		speed float64
		drop  bool
	}{
		{"bot.yaml", 4, false},
		{"scout", 6, true},
		{"prefabs/scout.yaml", 6, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := LoadEntityBuildSpec(tc.name)
			require.NoError(t, err)
			assert.Contains(t, spec.Components, "bot_nav")

			mover, err := DecodeComponentSpec[MoverComponentSpec](spec.Components["mover"])
			require.NoError(t, err)
			assert.Equal(t, tc.speed, mover.Speed)

			dropper, err := DecodeComponentSpec[DropperComponentSpec](spec.Components["dropper"])
			require.NoError(t, err)
			assert.Equal(t, tc.drop, dropper.Enabled)
		})
	}
}

func TestLoadMissingPrefab(t *testing.T) {
	_, err := LoadEntityBuildSpec("nowhere.yaml")
	require.Error(t, err)
}

func TestDecodeNilComponent(t *testing.T) {
	spec, err := DecodeComponentSpec[TransformComponentSpec](nil)
	require.NoError(t, err)
	assert.Zero(t, spec)
}
