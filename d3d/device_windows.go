package d3d

import (
	"fmt"
	"image"
	"math"
	"runtime"
	"time"
	"unsafe"

	"github.com/kirides/surfaceshare"
	"github.com/kirides/surfaceshare/win"
)

// D3D11Device wraps ID3D11Device and, where the runtime provides it,
// ID3D11Device1 for opening NT shared handles.
type D3D11Device struct {
	dev  *ID3D11Device
	dev1 *ID3D11Device1
}

// D3D11DeviceContext wraps the immediate context of a D3D11Device.
type D3D11DeviceContext struct {
	ctx *ID3D11DeviceContext
}

type D3D11Texture struct {
	tex  *ID3D11Texture2D
	desc TextureDesc
	km   *D3D11KeyedMutex
}

type D3D11KeyedMutex struct {
	km *IDXGIKeyedMutex
}

// NewD3D11Device creates a hardware device with BGRA support and its
// immediate context. Either both are returned or neither.
func NewD3D11Device() (*D3D11Device, *D3D11DeviceContext, error) {
	var dev *ID3D11Device
	var ctx *ID3D11DeviceContext
	hr := win.D3D11CreateDevice(
		D3D_DRIVER_TYPE_HARDWARE,
		D3D11_CREATE_DEVICE_BGRA_SUPPORT,
		D3D11_SDK_VERSION,
		unsafe.Pointer(&dev),
		unsafe.Pointer(&ctx),
	)
	if failed(hr) {
		return nil, nil, fmt.Errorf("D3D11CreateDevice: %w", HRESULT(uint32(hr)))
	}

	d := &D3D11Device{dev: dev}
	var dev1 *ID3D11Device1
	if hr := dev.QueryInterface(&iid_ID3D11Device1, unsafe.Pointer(&dev1)); !failed(hr) {
		d.dev1 = dev1
	} else {
		surfaceshare.Logger().Warn("ID3D11Device1 unavailable, shared handles cannot be opened", "error", HRESULT(uint32(hr)))
	}
	surfaceshare.Logger().Info("created D3D11 device")
	return d, &D3D11DeviceContext{ctx: ctx}, nil
}

func (d *D3D11Device) CreateTexture(width, height uint32, mode TextureMode) (Texture, error) {
	if err := validateSize(width, height, mode); err != nil {
		return nil, err
	}
	desc := _D3D11_TEXTURE2D_DESC{
		Width:          width,
		Height:         height,
		MipLevels:      1,
		ArraySize:      1,
		Format:         DXGI_FORMAT_R8G8B8A8_UNORM,
		SampleDesc:     _DXGI_SAMPLE_DESC{Count: 1, Quality: 0},
		Usage:          mode.Usage(),
		BindFlags:      mode.BindFlags(),
		CPUAccessFlags: mode.CPUAccessFlags(),
		MiscFlags:      mode.MiscFlags(),
	}
	var tex *ID3D11Texture2D
	if hr := d.dev.CreateTexture2D(&desc, &tex); failed(hr) {
		return nil, fmt.Errorf("CreateTexture2D(%dx%d, %v): %w", width, height, mode, HRESULT(uint32(hr)))
	}
	surfaceshare.Logger().Debug("created texture", "width", width, "height", height, "mode", mode)
	return wrapTexture(tex), nil
}

func (d *D3D11Device) OpenSharedTexture(h SharedHandle) (Texture, error) {
	if d.dev1 == nil {
		return nil, fmt.Errorf("OpenSharedResource1: %w", DXGI_ERROR_UNSUPPORTED)
	}
	var tex *ID3D11Texture2D
	if hr := d.dev1.OpenSharedResource1(h, &iid_ID3D11Texture2D, unsafe.Pointer(&tex)); failed(hr) {
		return nil, fmt.Errorf("OpenSharedResource1(%#x): %w", uintptr(h), HRESULT(uint32(hr)))
	}
	surfaceshare.Logger().Debug("opened shared texture", "handle", uintptr(h))
	return wrapTexture(tex), nil
}

func (d *D3D11Device) CloseSharedHandle(h SharedHandle) error {
	return win.CloseHandle(win.HANDLE(h))
}

// DXGIDevice returns the IDXGIDevice view of d. The caller releases it.
func (d *D3D11Device) DXGIDevice() (*IDXGIDevice, error) {
	var dxgi *IDXGIDevice
	if hr := d.dev.QueryInterface(&iid_IDXGIDevice, unsafe.Pointer(&dxgi)); failed(hr) {
		return nil, fmt.Errorf("QueryInterface(IDXGIDevice): %w", HRESULT(uint32(hr)))
	}
	return dxgi, nil
}

func (d *D3D11Device) Release() {
	if d.dev1 != nil {
		d.dev1.Release()
		d.dev1 = nil
	}
	if d.dev != nil {
		d.dev.Release()
		d.dev = nil
	}
}

func wrapTexture(tex *ID3D11Texture2D) *D3D11Texture {
	var desc _D3D11_TEXTURE2D_DESC
	tex.GetDesc(&desc)
	return &D3D11Texture{
		tex: tex,
		desc: TextureDesc{
			Width:          desc.Width,
			Height:         desc.Height,
			Format:         desc.Format,
			Usage:          desc.Usage,
			BindFlags:      desc.BindFlags,
			CPUAccessFlags: desc.CPUAccessFlags,
			MiscFlags:      desc.MiscFlags,
		},
	}
}

func asNative(t Texture) (*D3D11Texture, error) {
	nt, ok := t.(*D3D11Texture)
	if !ok || nt == nil || nt.tex == nil {
		return nil, fmt.Errorf("texture %T is not a D3D11 texture: %w", t, ErrInvalidArg)
	}
	return nt, nil
}

func (t *D3D11Texture) Desc() TextureDesc { return t.desc }

func (t *D3D11Texture) KeyedMutex() (KeyedMutex, error) {
	if t.km != nil {
		return t.km, nil
	}
	var km *IDXGIKeyedMutex
	if hr := t.tex.QueryInterface(&iid_IDXGIKeyedMutex, unsafe.Pointer(&km)); failed(hr) {
		return nil, fmt.Errorf("QueryInterface(IDXGIKeyedMutex): %w", HRESULT(uint32(hr)))
	}
	t.km = &D3D11KeyedMutex{km: km}
	return t.km, nil
}

func (t *D3D11Texture) CreateSharedHandle() (SharedHandle, error) {
	var res *IDXGIResource1
	if hr := t.tex.QueryInterface(&iid_IDXGIResource1, unsafe.Pointer(&res)); failed(hr) {
		return 0, fmt.Errorf("QueryInterface(IDXGIResource1): %w", HRESULT(uint32(hr)))
	}
	defer res.Release()

	var h SharedHandle
	if hr := res.CreateSharedHandle(DXGI_SHARED_RESOURCE_READ|DXGI_SHARED_RESOURCE_WRITE, &h); failed(hr) {
		return 0, fmt.Errorf("CreateSharedHandle: %w", HRESULT(uint32(hr)))
	}
	return h, nil
}

// DXGISurface returns the IDXGISurface view of t. The caller releases it.
func (t *D3D11Texture) DXGISurface() (*IDXGISurface, error) {
	var surface *IDXGISurface
	if hr := t.tex.QueryInterface(&iid_IDXGISurface, unsafe.Pointer(&surface)); failed(hr) {
		return nil, fmt.Errorf("QueryInterface(IDXGISurface): %w", HRESULT(uint32(hr)))
	}
	return surface, nil
}

func (t *D3D11Texture) Release() {
	if t.km != nil {
		t.km.km.Release()
		t.km = nil
	}
	if t.tex != nil {
		t.tex.Release()
		t.tex = nil
	}
}

func (m *D3D11KeyedMutex) AcquireSync(key uint64, timeout time.Duration) error {
	ms := uint32(math.MaxUint32) // INFINITE
	if timeout >= 0 {
		ms = uint32(min(timeout.Milliseconds(), math.MaxUint32-1))
	}
	switch hr := m.km.AcquireSync(key, ms); HRESULT(uint32(hr)) {
	case WAIT_TIMEOUT:
		return ErrWaitTimeout
	case WAIT_ABANDONED:
		return ErrAbandoned
	default:
		return check(hr)
	}
}

func (m *D3D11KeyedMutex) ReleaseSync(key uint64) error {
	return check(m.km.ReleaseSync(key))
}

func (c *D3D11DeviceContext) CopyResource(dst, src Texture) error {
	d, err := asNative(dst)
	if err != nil {
		return err
	}
	s, err := asNative(src)
	if err != nil {
		return err
	}
	if d.desc.Width != s.desc.Width || d.desc.Height != s.desc.Height {
		return fmt.Errorf("copy %dx%d into %dx%d: %w", s.desc.Width, s.desc.Height, d.desc.Width, d.desc.Height, ErrInvalidArg)
	}
	c.ctx.CopyResource2D(d.tex, s.tex)
	return nil
}

func (c *D3D11DeviceContext) UpdateSubresource(dst Texture, r image.Rectangle, pix []byte, stride int) error {
	d, err := asNative(dst)
	if err != nil {
		return err
	}
	if err := checkRegion(d.desc, r, pix, stride); err != nil {
		return err
	}
	box := _D3D11_BOX{
		Left:   uint32(r.Min.X),
		Top:    uint32(r.Min.Y),
		Front:  0,
		Right:  uint32(r.Max.X),
		Bottom: uint32(r.Max.Y),
		Back:   1,
	}
	c.ctx.UpdateSubresource2D(d.tex, &box, unsafe.Pointer(&pix[0]), uint32(stride))
	runtime.KeepAlive(pix)
	return nil
}

func (c *D3D11DeviceContext) Flush() {
	c.ctx.Flush()
}

func (c *D3D11DeviceContext) Map(t Texture) (*Mapped, error) {
	nt, err := asNative(t)
	if err != nil {
		return nil, err
	}
	var mapped _D3D11_MAPPED_SUBRESOURCE
	if hr := c.ctx.Map2D(nt.tex, D3D11_MAP_READ, &mapped); failed(hr) {
		return nil, fmt.Errorf("Map: %w", HRESULT(uint32(hr)))
	}
	w, h := int(nt.desc.Width), int(nt.desc.Height)
	pitch := int(mapped.RowPitch)
	size := pitch*(h-1) + w*BytesPerPixel
	return &Mapped{
		Data:   unsafe.Slice((*byte)(mapped.PData), size),
		Pitch:  pitch,
		Width:  w,
		Height: h,
	}, nil
}

func (c *D3D11DeviceContext) Unmap(t Texture) {
	if nt, err := asNative(t); err == nil {
		c.ctx.Unmap2D(nt.tex)
	}
}

func (c *D3D11DeviceContext) Release() {
	if c.ctx != nil {
		c.ctx.Release()
		c.ctx = nil
	}
}
