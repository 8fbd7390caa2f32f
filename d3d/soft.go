package d3d

import (
	"fmt"
	"image"
	"sync"

	"github.com/kirides/surfaceshare"
)

// SoftOption configures a software device.
type SoftOption func(*SoftDevice)

// WithRowAlign pads every texture row to a multiple of n bytes, the way
// drivers pad mapped staging textures.
func WithRowAlign(n int) SoftOption {
	return func(d *SoftDevice) {
		if n > 0 {
			d.rowAlign = n
		}
	}
}

// SoftDevice is an in-memory Device. Commands complete immediately, shared
// handles are process-local and keyed mutexes follow the native semantics.
// It runs the sharing protocol on machines without Direct3D.
type SoftDevice struct {
	rowAlign int

	mu       sync.Mutex
	released bool
}

// SoftContext is the immediate context of a SoftDevice.
type SoftContext struct {
	dev *SoftDevice

	mu     sync.Mutex
	mapped map[*softSurface]bool
}

type softSurface struct {
	mu    sync.RWMutex
	desc  TextureDesc
	pitch int
	pix   []byte
	km    *softMutexState
}

type softTexture struct {
	dev  *SoftDevice
	surf *softSurface
	km   *softKeyedMutex
}

func newSoftTexture(d *SoftDevice, surf *softSurface) *softTexture {
	t := &softTexture{dev: d, surf: surf}
	if surf.km != nil {
		t.km = &softKeyedMutex{s: surf.km}
	}
	return t
}

var softShared = struct {
	sync.Mutex
	next     SharedHandle
	surfaces map[SharedHandle]*softSurface
}{surfaces: make(map[SharedHandle]*softSurface)}

// NewSoftDevice creates a software device and its immediate context.
func NewSoftDevice(opts ...SoftOption) (*SoftDevice, *SoftContext) {
	dev := &SoftDevice{rowAlign: 1}
	for _, opt := range opts {
		opt(dev)
	}
	surfaceshare.Logger().Info("created software device", "rowAlign", dev.rowAlign)
	return dev, &SoftContext{dev: dev, mapped: make(map[*softSurface]bool)}
}

func (d *SoftDevice) pitchFor(width uint32) int {
	row := int(width) * BytesPerPixel
	return (row + d.rowAlign - 1) / d.rowAlign * d.rowAlign
}

func (d *SoftDevice) CreateTexture(width, height uint32, mode TextureMode) (Texture, error) {
	if err := validateSize(width, height, mode); err != nil {
		return nil, err
	}
	if err := d.checkAlive("create texture"); err != nil {
		return nil, err
	}

	pitch := d.pitchFor(width)
	surf := &softSurface{
		desc:  NewTextureDesc(width, height, mode),
		pitch: pitch,
		pix:   make([]byte, pitch*int(height)),
	}
	if mode == TextureShared {
		surf.km = newSoftMutexState()
	}
	surfaceshare.Logger().Debug("created texture", "width", width, "height", height, "mode", mode, "pitch", pitch)
	return newSoftTexture(d, surf), nil
}

func (d *SoftDevice) OpenSharedTexture(h SharedHandle) (Texture, error) {
	if err := d.checkAlive("open shared handle"); err != nil {
		return nil, err
	}
	softShared.Lock()
	surf, ok := softShared.surfaces[h]
	softShared.Unlock()
	if !ok {
		return nil, fmt.Errorf("open shared handle %#x: %w", uintptr(h), ErrInvalidArg)
	}
	surfaceshare.Logger().Debug("opened shared texture", "handle", uintptr(h))
	return newSoftTexture(d, surf), nil
}

func (d *SoftDevice) CloseSharedHandle(h SharedHandle) error {
	softShared.Lock()
	defer softShared.Unlock()
	if _, ok := softShared.surfaces[h]; !ok {
		return fmt.Errorf("close shared handle %#x: %w", uintptr(h), ErrInvalidArg)
	}
	delete(softShared.surfaces, h)
	return nil
}

func (d *SoftDevice) checkAlive(op string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return fmt.Errorf("%s: %w", op, DXGI_ERROR_DEVICE_REMOVED)
	}
	return nil
}

func (d *SoftDevice) Release() {
	d.mu.Lock()
	d.released = true
	d.mu.Unlock()
}

func (t *softTexture) Desc() TextureDesc { return t.surf.desc }

func (t *softTexture) KeyedMutex() (KeyedMutex, error) {
	if t.km == nil {
		return nil, fmt.Errorf("keyed mutex of %v texture: %w", t.surf.desc.Mode(), E_NOINTERFACE)
	}
	return t.km, nil
}

func (t *softTexture) CreateSharedHandle() (SharedHandle, error) {
	if t.surf.desc.Mode() != TextureShared {
		return 0, fmt.Errorf("share %v texture: %w", t.surf.desc.Mode(), ErrInvalidArg)
	}
	softShared.Lock()
	defer softShared.Unlock()
	softShared.next += 4
	h := softShared.next
	softShared.surfaces[h] = t.surf
	return h, nil
}

func (t *softTexture) Release() {}

func asSoft(t Texture) (*softTexture, error) {
	st, ok := t.(*softTexture)
	if !ok || st == nil {
		return nil, fmt.Errorf("texture %T does not belong to a software device: %w", t, ErrInvalidArg)
	}
	return st, nil
}

func (c *SoftContext) CopyResource(dst, src Texture) error {
	d, err := asSoft(dst)
	if err != nil {
		return err
	}
	s, err := asSoft(src)
	if err != nil {
		return err
	}
	if d.surf == s.surf {
		return fmt.Errorf("copy texture onto itself: %w", ErrInvalidArg)
	}
	dd, sd := d.surf.desc, s.surf.desc
	if dd.Width != sd.Width || dd.Height != sd.Height || dd.Format != sd.Format {
		return fmt.Errorf("copy %dx%d into %dx%d: %w", sd.Width, sd.Height, dd.Width, dd.Height, ErrInvalidArg)
	}

	c.mu.Lock()
	mapped := c.mapped[d.surf]
	c.mu.Unlock()
	if mapped {
		return fmt.Errorf("copy into mapped texture: %w", DXGI_ERROR_INVALID_CALL)
	}

	s.surf.mu.RLock()
	defer s.surf.mu.RUnlock()
	d.surf.mu.Lock()
	defer d.surf.mu.Unlock()

	row := sd.RowBytes()
	for y := 0; y < int(sd.Height); y++ {
		copy(d.surf.pix[y*d.surf.pitch:y*d.surf.pitch+row], s.surf.pix[y*s.surf.pitch:y*s.surf.pitch+row])
	}
	return nil
}

func (c *SoftContext) UpdateSubresource(dst Texture, r image.Rectangle, pix []byte, stride int) error {
	d, err := asSoft(dst)
	if err != nil {
		return err
	}
	if d.surf.desc.Usage != D3D11_USAGE_DEFAULT {
		return fmt.Errorf("update %v texture: %w", d.surf.desc.Mode(), ErrInvalidArg)
	}
	if err := checkRegion(d.surf.desc, r, pix, stride); err != nil {
		return err
	}

	d.surf.mu.Lock()
	defer d.surf.mu.Unlock()

	row := r.Dx() * BytesPerPixel
	for y := 0; y < r.Dy(); y++ {
		off := (r.Min.Y+y)*d.surf.pitch + r.Min.X*BytesPerPixel
		copy(d.surf.pix[off:off+row], pix[y*stride:y*stride+row])
	}
	return nil
}

// Flush is a no-op: software commands complete before they return.
func (c *SoftContext) Flush() {}

func (c *SoftContext) Map(t Texture) (*Mapped, error) {
	st, err := asSoft(t)
	if err != nil {
		return nil, err
	}
	if st.surf.desc.CPUAccessFlags&D3D11_CPU_ACCESS_READ == 0 {
		return nil, fmt.Errorf("map %v texture: %w", st.surf.desc.Mode(), ErrInvalidArg)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mapped[st.surf] {
		return nil, fmt.Errorf("texture already mapped: %w", DXGI_ERROR_INVALID_CALL)
	}
	c.mapped[st.surf] = true
	return &Mapped{
		Data:   st.surf.pix,
		Pitch:  st.surf.pitch,
		Width:  int(st.surf.desc.Width),
		Height: int(st.surf.desc.Height),
	}, nil
}

func (c *SoftContext) Unmap(t Texture) {
	st, err := asSoft(t)
	if err != nil {
		return
	}
	c.mu.Lock()
	delete(c.mapped, st.surf)
	c.mu.Unlock()
}

func (c *SoftContext) Release() {}
