package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	assert.Equal(t, float32(70), s.Projection.FOV)
	assert.Equal(t, [3]float32{0.1, 0.4, 0.2}, s.Sky.Colour)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.toml")
	data := []byte(`
[window]
width = 800
height = 600

[projection]
fov = 60.0

[sky]
colour = [0.5, 0.6, 0.7]
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 800, s.Window.Width)
	assert.Equal(t, 600, s.Window.Height)
	assert.Equal(t, float32(60), s.Projection.FOV)
	assert.Equal(t, [3]float32{0.5, 0.6, 0.7}, s.Sky.Colour)

	// untouched keys keep their defaults
	assert.Equal(t, float32(0.1), s.Projection.NearPlane)
	assert.Equal(t, "assets/shaders", s.Assets.ShadersDir)
}

func TestLoadRejectsInvalidProjection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.toml")
	data := []byte(`
[projection]
near = 10.0
far = 5.0
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "far plane")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	s := Default()
	s.Window.Width = 0
	s.Projection.FOV = 0
	s.Sky.Colour[1] = 2

	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window size")
	assert.Contains(t, err.Error(), "fov")
	assert.Contains(t, err.Error(), "sky colour component 1")
}

func TestMarshalRoundTripKeepsSections(t *testing.T) {
	out, err := Default().Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(out), "[projection]")
	assert.Contains(t, string(out), "[sky]")
}

func TestSetFPSLimitClamps(t *testing.T) {
	prev := Current()
	defer Apply(prev)

	SetFPSLimit(-5)
	assert.Equal(t, 0, GetFPSLimit())
	SetFPSLimit(5000)
	assert.Equal(t, 1000, GetFPSLimit())
	SetFPSLimit(60)
	assert.Equal(t, 60, GetFPSLimit())
}
