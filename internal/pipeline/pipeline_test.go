package pipeline

import (
	"context"
	"image"
	"image/color"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirides/surfaceshare/d3d"
	"github.com/kirides/surfaceshare/handshake"
	"github.com/kirides/surfaceshare/render"
)

func newSoftPipeline(t *testing.T, w, h int) *Pipeline {
	t.Helper()
	b := NewSoftBackend(64)
	t.Cleanup(b.Close)
	p, err := New(b, w, h, handshake.WithTimeout(5*time.Second), handshake.WithPollInterval(time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p
}

func near(t *testing.T, want, got color.RGBA, msg string) {
	t.Helper()
	assert.InDelta(t, want.R, got.R, 1, msg)
	assert.InDelta(t, want.G, got.G, 1, msg)
	assert.InDelta(t, want.B, got.B, 1, msg)
	assert.InDelta(t, want.A, got.A, 1, msg)
}

func TestRoundCombinesBothSides(t *testing.T) {
	p := newSoftPipeline(t, 80, 60)

	img, err := p.Round(context.Background())
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 80, 60), img.Bounds())

	// Producer's scene.
	near(t, render.Background, img.RGBAAt(79, 0), "background")
	near(t, render.PanelColor, img.RGBAAt(9, 7), "panel")
	// Consumer's marker, drawn after the producer released.
	assert.Equal(t, MarkerColor, img.RGBAAt(0, 59))
	near(t, render.Background, img.RGBAAt(79, 59), "marker is one step wide")

	assert.Equal(t, handshake.OwnedByProducer, p.Handshake().State())
}

func TestRoundsKeepAlternating(t *testing.T) {
	p := newSoftPipeline(t, 60, 40)

	var img *image.RGBA
	var err error
	for i := 0; i < markerSteps; i++ {
		img, err = p.Round(context.Background())
		require.NoError(t, err, "round %d", i)
	}
	// The last frame fills the whole progress bar.
	assert.Equal(t, MarkerColor, img.RGBAAt(59, 39))
}

func TestSequentialRoundsMatchConcurrentOnes(t *testing.T) {
	seq := NewSoftBackend(64)
	seq.Sequential = true
	t.Cleanup(seq.Close)
	sp, err := New(seq, 48, 32, handshake.WithTimeout(time.Second))
	require.NoError(t, err)
	t.Cleanup(sp.Close)
	cp := newSoftPipeline(t, 48, 32)

	for i := 0; i < 3; i++ {
		want, err := cp.Round(context.Background())
		require.NoError(t, err)
		got, err := sp.Round(context.Background())
		require.NoError(t, err, "round %d", i)
		assert.Equal(t, want.Pix, got.Pix, "round %d", i)
	}
	assert.Equal(t, handshake.OwnedByProducer, sp.Handshake().State())
}

func TestFailedRoundPoisonsPipeline(t *testing.T) {
	p := newSoftPipeline(t, 16, 16)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Round(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, again := p.Round(context.Background())
	assert.ErrorIs(t, again, context.Canceled)
}

func TestNewRejectsInvalidSize(t *testing.T) {
	b := NewSoftBackend(1)
	defer b.Close()
	_, err := New(b, 0, 10)
	assert.ErrorIs(t, err, d3d.ErrInvalidArg)
}

func TestMarkerRect(t *testing.T) {
	assert.Equal(t, image.Rect(0, 57, 1, 60), MarkerRect(80, 60, 0))
	assert.Equal(t, image.Rect(0, 57, 80, 60), MarkerRect(80, 60, markerSteps-1))
	assert.Equal(t, MarkerRect(80, 60, 3), MarkerRect(80, 60, markerSteps+3))
	// Tiny surfaces still get a visible bar.
	assert.Equal(t, image.Rect(0, 9, 1, 10), MarkerRect(10, 10, 0))
}

func TestNewBackend(t *testing.T) {
	b, err := NewBackend(BackendSoft, 16)
	require.NoError(t, err)
	assert.Equal(t, BackendSoft, b.Name)
	b.Close()

	_, err = NewBackend("vulkan", 0)
	assert.Error(t, err)

	if runtime.GOOS != "windows" {
		_, err = NewBackend(BackendD3D11, 0)
		assert.ErrorIs(t, err, ErrUnsupported)
		assert.Equal(t, BackendSoft, DefaultBackend())
	}
}
