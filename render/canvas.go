package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gg"

	"github.com/kirides/surfaceshare"
	"github.com/kirides/surfaceshare/d3d"
)

// Canvas rasterizes with gg into a private pixmap and uploads the whole
// pixmap to its texture on EndDraw, the way Direct2D defers submission
// until its draw session ends.
type Canvas struct {
	dc  d3d.Context
	tex d3d.Texture
	gc  *gg.Context

	drawing bool
	err     error
}

var _ Target = (*Canvas)(nil)

func NewCanvas(dc d3d.Context, tex d3d.Texture) *Canvas {
	desc := tex.Desc()
	return &Canvas{
		dc:  dc,
		tex: tex,
		gc:  gg.NewContext(int(desc.Width), int(desc.Height)),
	}
}

func (c *Canvas) BeginDraw() {
	if c.drawing {
		c.fail(fmt.Errorf("BeginDraw inside a draw session: %w", d3d.D2DERR_WRONG_STATE))
		return
	}
	c.drawing = true
}

func (c *Canvas) Clear(col color.RGBA) {
	if !c.inSession("Clear") {
		return
	}
	c.gc.ClearWithColor(gg.FromColor(col))
}

func (c *Canvas) FillRect(r image.Rectangle, col color.RGBA) {
	if !c.inSession("FillRect") {
		return
	}
	c.gc.SetColor(col)
	c.gc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	c.fill()
}

func (c *Canvas) FillEllipse(center image.Point, rx, ry int, col color.RGBA) {
	if !c.inSession("FillEllipse") {
		return
	}
	c.gc.SetColor(col)
	c.gc.DrawEllipse(float64(center.X), float64(center.Y), float64(rx), float64(ry))
	c.fill()
}

func (c *Canvas) fill() {
	if err := c.gc.Fill(); err != nil {
		c.fail(fmt.Errorf("fill: %w", err))
	}
}

func (c *Canvas) inSession(op string) bool {
	if !c.drawing {
		c.fail(fmt.Errorf("%s outside a draw session: %w", op, d3d.D2DERR_WRONG_STATE))
	}
	return c.drawing
}

// fail keeps the first error until the next EndDraw.
func (c *Canvas) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// EndDraw closes the draw session and submits the pixmap to the texture.
func (c *Canvas) EndDraw() error {
	if !c.drawing {
		c.fail(fmt.Errorf("EndDraw without BeginDraw: %w", d3d.D2DERR_WRONG_STATE))
	}
	c.drawing = false
	if err := c.err; err != nil {
		c.err = nil
		return err
	}

	img, ok := c.gc.Image().(*image.RGBA)
	if !ok {
		return fmt.Errorf("canvas image is %T, want *image.RGBA", c.gc.Image())
	}
	if err := c.dc.UpdateSubresource(c.tex, img.Bounds(), img.Pix, img.Stride); err != nil {
		return fmt.Errorf("submit canvas: %w", err)
	}
	surfaceshare.Logger().Debug("submitted canvas", "bounds", img.Bounds())
	return nil
}

// Close releases the gg context. The texture is not released.
func (c *Canvas) Close() error {
	return c.gc.Close()
}
