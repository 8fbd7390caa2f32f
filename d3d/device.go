package d3d

import (
	"fmt"
	"image"
	"image/color"
	"time"
)

// Infinite makes AcquireSync wait without a timeout.
const Infinite time.Duration = -1

// SharedHandle is an exported handle of a shared texture. It can be opened
// on another device with OpenSharedTexture.
type SharedHandle uintptr

// Device creates textures. Implementations synchronize internally, so a
// Device may be used from several goroutines.
type Device interface {
	CreateTexture(width, height uint32, mode TextureMode) (Texture, error)
	OpenSharedTexture(h SharedHandle) (Texture, error)
	CloseSharedHandle(h SharedHandle) error
	Release()
}

// Context records commands against the textures of one device. A Context
// must only be driven by one goroutine at a time.
type Context interface {
	CopyResource(dst, src Texture) error
	UpdateSubresource(dst Texture, r image.Rectangle, pix []byte, stride int) error
	Flush()
	Map(t Texture) (*Mapped, error)
	Unmap(t Texture)
	Release()
}

type Texture interface {
	Desc() TextureDesc
	// KeyedMutex returns the mutex guarding a shared texture as seen from
	// the texture's device.
	KeyedMutex() (KeyedMutex, error)
	// CreateSharedHandle exports a shared texture. The caller closes the
	// handle with Device.CloseSharedHandle once every consumer opened it.
	CreateSharedHandle() (SharedHandle, error)
	Release()
}

// KeyedMutex is the native exclusive-access token of a shared texture.
//
// AcquireSync succeeds once the mutex was released with key. ReleaseSync
// hands the mutex over to whoever acquires with key next.
type KeyedMutex interface {
	AcquireSync(key uint64, timeout time.Duration) error
	ReleaseSync(key uint64) error
}

// Mapped is a CPU view of a staging texture. Rows are Pitch bytes apart,
// Pitch may exceed Width*BytesPerPixel.
type Mapped struct {
	Data   []byte
	Pitch  int
	Width  int
	Height int
}

// FillRect writes a solid colour into r of dst through UpdateSubresource.
func FillRect(dc Context, dst Texture, r image.Rectangle, c color.RGBA) error {
	desc := dst.Desc()
	r = r.Intersect(image.Rect(0, 0, int(desc.Width), int(desc.Height)))
	if r.Empty() {
		return nil
	}
	stride := r.Dx() * BytesPerPixel
	pix := make([]byte, stride*r.Dy())
	for i := 0; i < len(pix); i += BytesPerPixel {
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
	if err := dc.UpdateSubresource(dst, r, pix, stride); err != nil {
		return fmt.Errorf("fill %v: %w", r, err)
	}
	return nil
}

func checkRegion(desc TextureDesc, r image.Rectangle, pix []byte, stride int) error {
	if r.Empty() || !r.In(image.Rect(0, 0, int(desc.Width), int(desc.Height))) {
		return fmt.Errorf("region %v outside %dx%d texture: %w", r, desc.Width, desc.Height, ErrInvalidArg)
	}
	rowBytes := r.Dx() * BytesPerPixel
	if stride < rowBytes || len(pix) < stride*(r.Dy()-1)+rowBytes {
		return fmt.Errorf("source buffer too small for %v (stride %d, len %d): %w", r, stride, len(pix), ErrInvalidArg)
	}
	return nil
}
