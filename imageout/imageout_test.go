package imageout

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"out.png":      PNG,
		"OUT.PNG":      PNG,
		"a/b/c.jpg":    JPEG,
		"frame.jpeg":   JPEG,
		"frame.bmp":    BMP,
		"frame.tif":    TIFF,
		"frame.tiff":   TIFF,
		"dir.v2/x.Tif": TIFF,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	for _, path := range []string{"frame.gif", "frame", "png"} {
		_, err := FormatFromPath(path)
		assert.ErrorIs(t, err, ErrUnknownFormat, path)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	green := color.RGBA{G: 255, A: 255}
	src := solid(12, 9, green)

	for _, name := range []string{"out.png", "out.bmp", "out.tiff", "out.jpg"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Save(path, src, Options{Quality: 95}))

			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()
			img, format, err := image.Decode(f)
			require.NoError(t, err)

			want, _ := FormatFromPath(name)
			assert.Equal(t, want.String(), format)
			assert.Equal(t, image.Rect(0, 0, 12, 9), img.Bounds())

			r, g, b, a := img.At(6, 4).RGBA()
			assert.InDelta(t, 0, r>>8, 8)
			assert.InDelta(t, 255, g>>8, 8)
			assert.InDelta(t, 0, b>>8, 8)
			assert.EqualValues(t, 255, a>>8)
		})
	}
}

func TestEncodeResizes(t *testing.T) {
	src := solid(40, 20, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, src, PNG, Options{Width: 20}))
	img, _, err := image.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 10), img.Bounds())

	assert.Same(t, src, Resize(src, 0, 0))
}

func TestSaveRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.webp")
	assert.ErrorIs(t, Save(path, solid(1, 1, color.RGBA{}), Options{}), ErrUnknownFormat)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
