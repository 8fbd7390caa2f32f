package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirides/surfaceshare/d3d"
	"github.com/kirides/surfaceshare/readback"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

func newCanvas(t *testing.T, w, h uint32) (*Canvas, d3d.Device, d3d.Context, d3d.Texture) {
	t.Helper()
	dev, dc := d3d.NewSoftDevice(d3d.WithRowAlign(64))
	tex, err := dev.CreateTexture(w, h, d3d.TextureShared)
	require.NoError(t, err)
	c := NewCanvas(dc, tex)
	t.Cleanup(func() { _ = c.Close() })
	return c, dev, dc, tex
}

func TestCanvasSubmitsOnlyAtEndDraw(t *testing.T) {
	c, dev, dc, tex := newCanvas(t, 16, 8)

	c.BeginDraw()
	c.Clear(red)

	img, err := readback.Texture(dev, dc, tex)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{}, img.RGBAAt(3, 3), "visible before EndDraw")

	require.NoError(t, c.EndDraw())
	img, err = readback.Texture(dev, dc, tex)
	require.NoError(t, err)
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			require.Equal(t, red, img.RGBAAt(x, y))
		}
	}
}

func TestCanvasFillRect(t *testing.T) {
	c, dev, dc, tex := newCanvas(t, 20, 20)

	c.BeginDraw()
	c.Clear(red)
	c.FillRect(image.Rect(5, 5, 15, 15), white)
	require.NoError(t, c.EndDraw())

	img, err := readback.Texture(dev, dc, tex)
	require.NoError(t, err)
	assert.Equal(t, white, img.RGBAAt(10, 10))
	assert.Equal(t, red, img.RGBAAt(1, 1))
	assert.Equal(t, red, img.RGBAAt(18, 18))
}

func TestCanvasFillEllipse(t *testing.T) {
	c, dev, dc, tex := newCanvas(t, 40, 40)

	c.BeginDraw()
	c.Clear(red)
	c.FillEllipse(image.Pt(20, 20), 10, 10, white)
	require.NoError(t, c.EndDraw())

	img, err := readback.Texture(dev, dc, tex)
	require.NoError(t, err)
	assert.Equal(t, white, img.RGBAAt(20, 20))
	assert.Equal(t, red, img.RGBAAt(2, 2))
	assert.Equal(t, red, img.RGBAAt(37, 37))
}

func TestCanvasRequiresDrawSession(t *testing.T) {
	c, dev, dc, tex := newCanvas(t, 4, 4)

	c.Clear(red)
	err := c.EndDraw()
	assert.ErrorIs(t, err, d3d.D2DERR_WRONG_STATE)

	// Nothing was submitted.
	img, err := readback.Texture(dev, dc, tex)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{}, img.RGBAAt(0, 0))

	c.BeginDraw()
	c.BeginDraw()
	assert.ErrorIs(t, c.EndDraw(), d3d.D2DERR_WRONG_STATE)

	// The error is reported once; the next session works.
	c.BeginDraw()
	c.Clear(red)
	assert.NoError(t, c.EndDraw())
}

// recordingTarget logs the commands DrawScene issues.
type recordingTarget struct {
	clears   []color.RGBA
	rects    []image.Rectangle
	ellipses []image.Point
}

func (r *recordingTarget) BeginDraw()         {}
func (r *recordingTarget) EndDraw() error     { return nil }
func (r *recordingTarget) Clear(c color.RGBA) { r.clears = append(r.clears, c) }
func (r *recordingTarget) FillRect(rect image.Rectangle, _ color.RGBA) {
	r.rects = append(r.rects, rect)
}
func (r *recordingTarget) FillEllipse(center image.Point, _, _ int, _ color.RGBA) {
	r.ellipses = append(r.ellipses, center)
}

func TestDrawScene(t *testing.T) {
	var rec recordingTarget
	DrawScene(&rec, 800, 600, 0)

	assert.Equal(t, []color.RGBA{Background}, rec.clears)
	assert.Equal(t, []image.Rectangle{image.Rect(80, 60, 720, 540)}, rec.rects)
	require.Len(t, rec.ellipses, 3)
	// Frame 0 puts the first disc right of the centre.
	assert.Equal(t, image.Pt(400+150, 300), rec.ellipses[0])

	var again recordingTarget
	DrawScene(&again, 800, 600, framesPerTurn)
	assert.Equal(t, rec.ellipses, again.ellipses)
}

func TestDrawSceneOnCanvas(t *testing.T) {
	c, dev, dc, tex := newCanvas(t, 64, 48)

	c.BeginDraw()
	DrawScene(c, 64, 48, 3)
	require.NoError(t, c.EndDraw())

	img, err := readback.Texture(dev, dc, tex)
	require.NoError(t, err)
	assertNear(t, Background, img.RGBAAt(0, 0))
	assertNear(t, Background, img.RGBAAt(63, 47))
	assertNear(t, PanelColor, img.RGBAAt(Panel(64, 48).Min.X+1, Panel(64, 48).Min.Y+1))
}

// assertNear allows the off-by-one of gg's float to byte conversion.
func assertNear(t *testing.T, want, got color.RGBA) {
	t.Helper()
	assert.InDelta(t, want.R, got.R, 1, "R")
	assert.InDelta(t, want.G, got.G, 1, "G")
	assert.InDelta(t, want.B, got.B, 1, "B")
	assert.InDelta(t, want.A, got.A, 1, "A")
}
