package render

import (
	"image"
	"image/color"
	"math"
)

var (
	Background = color.RGBA{R: 0x1e, G: 0x1e, B: 0x2e, A: 0xff}
	PanelColor = color.RGBA{R: 0x31, G: 0x32, B: 0x44, A: 0xff}

	discColors = []color.RGBA{
		{R: 0xf3, G: 0x8b, B: 0xa8, A: 0xff},
		{R: 0xa6, G: 0xe3, B: 0xa1, A: 0xff},
		{R: 0x89, G: 0xb4, B: 0xfa, A: 0xff},
	}
)

// framesPerTurn is how many frames one disc orbit takes.
const framesPerTurn = 120

// Panel is the inset rectangle DrawScene fills for a w by h surface.
func Panel(w, h int) image.Rectangle {
	return image.Rect(w/10, h/10, w-w/10, h-h/10)
}

// DrawScene draws frame of the demo animation: a background, a panel and
// three discs orbiting the centre. It only issues commands; the caller
// brackets it with BeginDraw and EndDraw.
func DrawScene(t Target, w, h, frame int) {
	t.Clear(Background)
	t.FillRect(Panel(w, h), PanelColor)

	cx, cy := w/2, h/2
	orbit := float64(min(w, h)) / 4
	r := max(min(w, h)/12, 1)
	for i, c := range discColors {
		angle := 2 * math.Pi * (float64(frame%framesPerTurn)/framesPerTurn + float64(i)/float64(len(discColors)))
		center := image.Pt(
			cx+int(math.Round(orbit*math.Cos(angle))),
			cy+int(math.Round(orbit*math.Sin(angle))),
		)
		t.FillEllipse(center, r, r, c)
	}
}
