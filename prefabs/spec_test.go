package prefabs

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexColor(t *testing.T) {
	cases := []struct {
		in      string
		want    color.Color
		wantErr bool
	}{
		{in: "#f0c83c", want: color.NRGBA{R: 0xf0, G: 0xc8, B: 0x3c, A: 0xff}},
		{in: " 10203040 ", want: color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}},
		{in: "#fff", wantErr: true},
		{in: "#gg0000", wantErr: true},
	}
	for _, c := range cases {
		got, err := ParseHexColor(c.in)
		if c.wantErr {
			assert.Error(t, err, c.in)
			continue
		}
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestLoadPlayerPrefab(t *testing.T) {
	spec, err := LoadEntityBuildSpec("prefabs/player.yaml")
	require.NoError(t, err)
	assert.Equal(t, "player", spec.Name)
	require.Contains(t, spec.Components, "health")

	health, err := DecodeComponentSpec[HealthComponentSpec](spec.Components["health"])
	require.NoError(t, err)
	assert.Equal(t, 5, health.Max)

	body, err := DecodeComponentSpec[PhysicsBodyComponentSpec](spec.Components["physics_body"])
	require.NoError(t, err)
	assert.Equal(t, 20.0, body.Width)
	assert.Equal(t, 30.0, body.Height)
}

func TestDecodeComponentSpec(t *testing.T) {
	empty, err := DecodeComponentSpec[HealthComponentSpec](nil)
	require.NoError(t, err)
	assert.Zero(t, empty)

	sprite, err := DecodeComponentSpec[SpriteComponentSpec](map[string]any{"width": 12, "color": "#102030"})
	require.NoError(t, err)
	assert.Equal(t, 12.0, sprite.Width)
	require.NotNil(t, sprite.Color)
	assert.Equal(t, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, sprite.Color.Color)

	_, err = DecodeComponentSpec[SpriteComponentSpec](map[string]any{"color": []int{1, 2}})
	assert.Error(t, err)
}

func TestLoadSpecMissingFile(t *testing.T) {
	_, err := LoadEntityBuildSpec("nope.yaml")
	assert.ErrorContains(t, err, "nope.yaml")
}

func TestScriptPaths(t *testing.T) {
	for _, in := range []string{"archer.tengo", "scripts/archer.tengo", "prefabs/scripts/archer.tengo"} {
		data, err := LoadScript(in)
		require.NoError(t, err, in)
		assert.NotEmpty(t, data)
	}
}
