package d2d

import (
	"fmt"
	"image"
	"image/color"

	"github.com/kirides/surfaceshare"
	"github.com/kirides/surfaceshare/d3d"
)

// Target draws on a D3D11 texture through a Direct2D device context. It
// satisfies render.Target. Like the device context it must be driven from
// a single goroutine.
type Target struct {
	scale float32

	factory *ID2D1Factory1
	device  *ID2D1Device
	ctx     *ID2D1DeviceContext
	bitmap  *ID2D1Bitmap1
	brush   *ID2D1SolidColorBrush
}

// DefaultDPI is the DPI Direct2D maps one device-independent pixel to one
// pixel at.
const DefaultDPI = 96

type TargetOption func(*Target)

// WithDPIScale renders at scale times DefaultDPI. Coordinates passed to the
// Target stay in pixels.
func WithDPIScale(scale float32) TargetOption {
	return func(t *Target) {
		if scale > 0 {
			t.scale = scale
		}
	}
}

// NewTarget creates a Direct2D device on top of dev and binds a target
// bitmap over tex. The texture must have been created on dev and stays
// owned by the caller.
func NewTarget(dev *d3d.D3D11Device, tex d3d.Texture, opts ...TargetOption) (_ *Target, err error) {
	nt, ok := tex.(*d3d.D3D11Texture)
	if !ok {
		return nil, fmt.Errorf("texture %T is not a D3D11 texture: %w", tex, d3d.ErrInvalidArg)
	}

	t := &Target{scale: 1}
	for _, opt := range opts {
		opt(t)
	}
	defer func() {
		if err != nil {
			t.Release()
		}
	}()

	if t.factory, err = NewFactory(); err != nil {
		return nil, fmt.Errorf("D2D1CreateFactory: %w", err)
	}

	dxgiDevice, err := dev.DXGIDevice()
	if err != nil {
		return nil, err
	}
	defer dxgiDevice.Release()
	if err = t.factory.CreateDevice(dxgiDevice, &t.device); err != nil {
		return nil, fmt.Errorf("ID2D1Factory1.CreateDevice: %w", err)
	}
	if err = t.device.CreateDeviceContext(D2D1_DEVICE_CONTEXT_OPTIONS_NONE, &t.ctx); err != nil {
		return nil, fmt.Errorf("ID2D1Device.CreateDeviceContext: %w", err)
	}

	surface, err := nt.DXGISurface()
	if err != nil {
		return nil, err
	}
	defer surface.Release()
	props := D2D1_BITMAP_PROPERTIES1{
		PixelFormat: D2D1_PIXEL_FORMAT{
			Format:    d3d.DXGI_FORMAT_R8G8B8A8_UNORM,
			AlphaMode: D2D1_ALPHA_MODE_PREMULTIPLIED,
		},
		DpiX:          t.DPI(),
		DpiY:          t.DPI(),
		BitmapOptions: D2D1_BITMAP_OPTIONS_TARGET | D2D1_BITMAP_OPTIONS_CANNOT_DRAW,
	}
	if err = t.ctx.CreateBitmapFromDxgiSurface(surface, &props, &t.bitmap); err != nil {
		return nil, fmt.Errorf("CreateBitmapFromDxgiSurface: %w", err)
	}
	t.ctx.SetTarget(t.bitmap)
	t.ctx.SetDpi(t.DPI(), t.DPI())

	black := D2D1_COLOR_F{A: 1}
	if err = t.ctx.CreateSolidColorBrush(&black, &t.brush); err != nil {
		return nil, fmt.Errorf("CreateSolidColorBrush: %w", err)
	}
	surfaceshare.Logger().Info("created Direct2D target", "width", tex.Desc().Width, "height", tex.Desc().Height, "dpi", t.DPI())
	return t, nil
}

func colorF(c color.RGBA) D2D1_COLOR_F {
	return D2D1_COLOR_F{
		R: float32(c.R) / 255,
		G: float32(c.G) / 255,
		B: float32(c.B) / 255,
		A: float32(c.A) / 255,
	}
}

// DPI reports the DPI the target renders at.
func (t *Target) DPI() float32 { return DefaultDPI * t.scale }

// dip converts a pixel coordinate to device-independent pixels.
func (t *Target) dip(v int) float32 { return float32(v) / t.scale }

func (t *Target) BeginDraw() { t.ctx.BeginDraw() }

func (t *Target) Clear(c color.RGBA) {
	col := colorF(c)
	t.ctx.Clear(&col)
}

func (t *Target) FillRect(r image.Rectangle, c color.RGBA) {
	col := colorF(c)
	t.brush.SetColor(&col)
	rect := D2D1_RECT_F{
		Left:   t.dip(r.Min.X),
		Top:    t.dip(r.Min.Y),
		Right:  t.dip(r.Max.X),
		Bottom: t.dip(r.Max.Y),
	}
	t.ctx.FillRectangle(&rect, t.brush)
}

func (t *Target) FillEllipse(center image.Point, rx, ry int, c color.RGBA) {
	col := colorF(c)
	t.brush.SetColor(&col)
	e := D2D1_ELLIPSE{
		Point:   D2D1_POINT_2F{X: t.dip(center.X), Y: t.dip(center.Y)},
		RadiusX: t.dip(rx),
		RadiusY: t.dip(ry),
	}
	t.ctx.FillEllipse(&e, t.brush)
}

// EndDraw submits the batched commands. D2DERR_RECREATE_TARGET means the
// device was lost and the Target must be recreated.
func (t *Target) EndDraw() error {
	if err := t.ctx.EndDraw(); err != nil {
		return fmt.Errorf("ID2D1DeviceContext.EndDraw: %w", err)
	}
	return nil
}

func (t *Target) Release() {
	if t.brush != nil {
		t.brush.Release()
		t.brush = nil
	}
	if t.ctx != nil {
		t.ctx.SetTarget(nil)
		t.ctx.Release()
		t.ctx = nil
	}
	if t.bitmap != nil {
		t.bitmap.Release()
		t.bitmap = nil
	}
	if t.device != nil {
		t.device.Release()
		t.device = nil
	}
	if t.factory != nil {
		t.factory.Release()
		t.factory = nil
	}
}
