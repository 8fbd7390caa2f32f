// Package imageout writes read-back frames to disk.
package imageout

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

type Format int

const (
	PNG Format = iota
	JPEG
	BMP
	TIFF
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

var ErrUnknownFormat = errors.New("unknown image format")

// FormatFromPath picks the encoder by file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".jpg", ".jpeg":
		return JPEG, nil
	case ".bmp":
		return BMP, nil
	case ".tif", ".tiff":
		return TIFF, nil
	}
	return 0, fmt.Errorf("%q: %w", path, ErrUnknownFormat)
}

// Options control resizing and JPEG quality. A zero Width or Height keeps
// the aspect ratio; both zero keep the original size.
type Options struct {
	Width   int
	Height  int
	Quality int
}

const DefaultQuality = 75

// Resize scales img to w by h with bilinear filtering.
func Resize(img image.Image, w, h int) image.Image {
	if w <= 0 && h <= 0 {
		return img
	}
	return resize.Resize(uint(max(w, 0)), uint(max(h, 0)), img, resize.Bilinear)
}

func Encode(w io.Writer, img image.Image, f Format, o Options) error {
	img = Resize(img, o.Width, o.Height)
	switch f {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		q := o.Quality
		if q <= 0 {
			q = DefaultQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: min(q, 100)})
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("encode %v: %w", f, ErrUnknownFormat)
}

// Save writes img to path in the format its extension names.
func Save(path string, img image.Image, o Options) (err error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	if err := Encode(out, img, f, o); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
