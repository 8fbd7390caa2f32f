// Package readback copies GPU textures into CPU memory.
package readback

import (
	"errors"
	"fmt"
	"image"

	"github.com/kirides/surfaceshare"
	"github.com/kirides/surfaceshare/d3d"
)

var ErrShortBuffer = errors.New("readback: buffer too short")

// CopyRows copies height rows of width RGBA8 pixels from src, whose rows
// start pitch bytes apart, into the tightly packed dst.
func CopyRows(dst, src []byte, width, height, pitch int) error {
	row := width * d3d.BytesPerPixel
	if width <= 0 || height <= 0 {
		return fmt.Errorf("copy %dx%d rows: %w", width, height, d3d.ErrInvalidArg)
	}
	if pitch < row {
		return fmt.Errorf("row pitch %d below row size %d: %w", pitch, row, d3d.ErrInvalidArg)
	}
	if len(dst) < row*height {
		return fmt.Errorf("dst has %d bytes, need %d: %w", len(dst), row*height, ErrShortBuffer)
	}
	if need := pitch*(height-1) + row; len(src) < need {
		return fmt.Errorf("src has %d bytes, need %d: %w", len(src), need, ErrShortBuffer)
	}

	if pitch == row {
		copy(dst, src[:row*height])
		return nil
	}
	for y := 0; y < height; y++ {
		copy(dst[y*row:(y+1)*row], src[y*pitch:y*pitch+row])
	}
	return nil
}

// SwizzleBGRA swaps the B and R channels of packed 4-byte pixels in place.
func SwizzleBGRA(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}

type options struct {
	swizzle bool
}

type Option func(*options)

// WithSwizzle converts B8G8R8A8 texture contents to RGBA while copying.
func WithSwizzle() Option {
	return func(o *options) { o.swizzle = true }
}

// Texture reads tex back through a staging texture created on dev. The
// copy is flushed before mapping so the GPU has finished writing.
func Texture(dev d3d.Device, dc d3d.Context, tex d3d.Texture, opts ...Option) (*image.RGBA, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	desc := tex.Desc()

	staging, err := dev.CreateTexture(desc.Width, desc.Height, d3d.TextureRead)
	if err != nil {
		return nil, fmt.Errorf("create staging texture: %w", err)
	}
	defer staging.Release()

	if err := dc.CopyResource(staging, tex); err != nil {
		return nil, fmt.Errorf("copy to staging texture: %w", err)
	}
	dc.Flush()

	mapped, err := dc.Map(staging)
	if err != nil {
		return nil, fmt.Errorf("map staging texture: %w", err)
	}
	defer dc.Unmap(staging)

	img := image.NewRGBA(image.Rect(0, 0, mapped.Width, mapped.Height))
	if err := CopyRows(img.Pix, mapped.Data, mapped.Width, mapped.Height, mapped.Pitch); err != nil {
		return nil, err
	}
	if o.swizzle {
		SwizzleBGRA(img.Pix)
	}
	surfaceshare.Logger().Debug("read back texture", "width", mapped.Width, "height", mapped.Height, "pitch", mapped.Pitch)
	return img, nil
}
