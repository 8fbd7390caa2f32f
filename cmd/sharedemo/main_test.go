package main

import (
	"bytes"
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirides/surfaceshare"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { surfaceshare.SetLogger(nil) })

	var stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stderr)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stderr.String(), err
}

func decode(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, _, err := image.Decode(f)
	require.NoError(t, err)
	return img
}

func TestRenderWritesImage(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frame.png")
	logs, err := execute(t, "render", "--backend", "soft", "--width", "48", "--height", "32", "--rounds", "3", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, logs, "wrote image")

	assert.Equal(t, image.Rect(0, 0, 48, 32), decode(t, out).Bounds())
}

func TestRenderFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "frame.bmp")
	cfg := writeFile(t, "demo.toml", "backend = \"soft\"\nwidth = 40\nheight = 20\nlog_level = \"error\"\noutput = \""+filepath.ToSlash(filepath.Join(dir, "ignored.png"))+"\"\n")

	logs, err := execute(t, "render", "--config", cfg, "--height", "30", "-o", out)
	require.NoError(t, err)
	assert.NotContains(t, logs, "wrote image", "log level from the file applies")

	assert.Equal(t, image.Rect(0, 0, 40, 30), decode(t, out).Bounds())
	_, err = os.Stat(filepath.Join(dir, "ignored.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestRenderScalesOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frame.jpg")
	_, err := execute(t, "render", "--backend", "soft", "--width", "64", "--height", "32", "--scale-width", "32", "--out", out)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 16), decode(t, out).Bounds())
}

func TestRenderRejectsBadInput(t *testing.T) {
	_, err := execute(t, "render", "--backend", "soft", "--width", "0")
	assert.ErrorContains(t, err, "size must be positive")

	_, err = execute(t, "render", "--backend", "soft", "--rounds", "0")
	assert.ErrorContains(t, err, "rounds must be positive")

	_, err = execute(t, "render", "--backend", "soft", "--width", "8", "--height", "8", "--out", filepath.Join(t.TempDir(), "x.gif"))
	assert.ErrorContains(t, err, "unknown image format")
}
