// Package render draws the demo scene onto a shared texture through a
// small renderer interface that both Direct2D and the gg software canvas
// implement.
package render

import (
	"image"
	"image/color"
)

// Target is a renderer that batches its commands in a draw session. Drawing
// is only guaranteed to reach the texture once EndDraw returns; errors of
// individual commands are reported by EndDraw.
type Target interface {
	BeginDraw()
	Clear(c color.RGBA)
	FillRect(r image.Rectangle, c color.RGBA)
	FillEllipse(center image.Point, rx, ry int, c color.RGBA)
	EndDraw() error
}
