package d2d

import (
	"math"
	"syscall"
	"unsafe"

	"github.com/kirides/surfaceshare/d3d"
	"github.com/kirides/surfaceshare/win"
)

const (
	D2D1_FACTORY_TYPE_SINGLE_THREADED = 0

	D2D1_DEVICE_CONTEXT_OPTIONS_NONE = 0

	D2D1_ALPHA_MODE_PREMULTIPLIED = 1

	D2D1_BITMAP_OPTIONS_TARGET      = 0x1
	D2D1_BITMAP_OPTIONS_CANNOT_DRAW = 0x2
)

var iid_ID2D1Factory1 = win.MustGUID("{bb12d362-daee-4b9a-aa1d-14ba401cfa1f}")

type D2D1_COLOR_F struct {
	R, G, B, A float32
}

type D2D1_RECT_F struct {
	Left, Top, Right, Bottom float32
}

type D2D1_POINT_2F struct {
	X, Y float32
}

type D2D1_ELLIPSE struct {
	Point   D2D1_POINT_2F
	RadiusX float32
	RadiusY float32
}

type D2D1_PIXEL_FORMAT struct {
	Format    uint32
	AlphaMode uint32
}

type D2D1_BITMAP_PROPERTIES1 struct {
	PixelFormat   D2D1_PIXEL_FORMAT
	DpiX          float32
	DpiY          float32
	BitmapOptions uint32
	ColorContext  uintptr
}

func hresult(ret uintptr) error {
	if hr := int32(ret); win.Failed(hr) {
		return d3d.HRESULT(uint32(hr))
	}
	return nil
}

type ID2D1Factory1 struct {
	vtbl *iD2D1Factory1Vtbl
}

func (obj *ID2D1Factory1) Release() { win.Release(unsafe.Pointer(obj)) }

func (obj *ID2D1Factory1) CreateDevice(dxgiDevice *d3d.IDXGIDevice, ppDevice **ID2D1Device) error {
	ret, _, _ := syscall.SyscallN(
		obj.vtbl.CreateDevice,
		uintptr(unsafe.Pointer(obj)),
		uintptr(unsafe.Pointer(dxgiDevice)),
		uintptr(unsafe.Pointer(ppDevice)),
	)
	return hresult(ret)
}

type ID2D1Device struct {
	vtbl *iD2D1DeviceVtbl
}

func (obj *ID2D1Device) Release() { win.Release(unsafe.Pointer(obj)) }

func (obj *ID2D1Device) CreateDeviceContext(options uint32, ppContext **ID2D1DeviceContext) error {
	ret, _, _ := syscall.SyscallN(
		obj.vtbl.CreateDeviceContext,
		uintptr(unsafe.Pointer(obj)),
		uintptr(options),
		uintptr(unsafe.Pointer(ppContext)),
	)
	return hresult(ret)
}

type ID2D1DeviceContext struct {
	vtbl *iD2D1DeviceContextVtbl
}

func (obj *ID2D1DeviceContext) Release() { win.Release(unsafe.Pointer(obj)) }

func (obj *ID2D1DeviceContext) CreateBitmapFromDxgiSurface(surface *d3d.IDXGISurface, props *D2D1_BITMAP_PROPERTIES1, ppBitmap **ID2D1Bitmap1) error {
	ret, _, _ := syscall.SyscallN(
		obj.vtbl.CreateBitmapFromDxgiSurface,
		uintptr(unsafe.Pointer(obj)),
		uintptr(unsafe.Pointer(surface)),
		uintptr(unsafe.Pointer(props)),
		uintptr(unsafe.Pointer(ppBitmap)),
	)
	return hresult(ret)
}

func (obj *ID2D1DeviceContext) CreateSolidColorBrush(color *D2D1_COLOR_F, ppBrush **ID2D1SolidColorBrush) error {
	ret, _, _ := syscall.SyscallN(
		obj.vtbl.CreateSolidColorBrush,
		uintptr(unsafe.Pointer(obj)),
		uintptr(unsafe.Pointer(color)),
		0, // brushProperties
		uintptr(unsafe.Pointer(ppBrush)),
	)
	return hresult(ret)
}

// SetTarget binds bitmap as the render target; nil unbinds it.
func (obj *ID2D1DeviceContext) SetTarget(bitmap *ID2D1Bitmap1) {
	syscall.SyscallN(
		obj.vtbl.SetTarget,
		uintptr(unsafe.Pointer(obj)),
		uintptr(unsafe.Pointer(bitmap)),
	)
}

// SetDpi sets the scale from device-independent pixels to pixels. The
// runtime mirrors the first arguments into XMM registers, so float32 bits
// in integer slots reach the callee.
func (obj *ID2D1DeviceContext) SetDpi(dpiX, dpiY float32) {
	syscall.SyscallN(
		obj.vtbl.SetDpi,
		uintptr(unsafe.Pointer(obj)),
		uintptr(math.Float32bits(dpiX)),
		uintptr(math.Float32bits(dpiY)),
	)
}

func (obj *ID2D1DeviceContext) BeginDraw() {
	syscall.SyscallN(
		obj.vtbl.BeginDraw,
		uintptr(unsafe.Pointer(obj)),
	)
}

func (obj *ID2D1DeviceContext) EndDraw() error {
	ret, _, _ := syscall.SyscallN(
		obj.vtbl.EndDraw,
		uintptr(unsafe.Pointer(obj)),
		0, // tag1
		0, // tag2
	)
	return hresult(ret)
}

func (obj *ID2D1DeviceContext) Clear(color *D2D1_COLOR_F) {
	syscall.SyscallN(
		obj.vtbl.Clear,
		uintptr(unsafe.Pointer(obj)),
		uintptr(unsafe.Pointer(color)),
	)
}

func (obj *ID2D1DeviceContext) FillRectangle(rect *D2D1_RECT_F, brush *ID2D1SolidColorBrush) {
	syscall.SyscallN(
		obj.vtbl.FillRectangle,
		uintptr(unsafe.Pointer(obj)),
		uintptr(unsafe.Pointer(rect)),
		uintptr(unsafe.Pointer(brush)),
	)
}

func (obj *ID2D1DeviceContext) FillEllipse(ellipse *D2D1_ELLIPSE, brush *ID2D1SolidColorBrush) {
	syscall.SyscallN(
		obj.vtbl.FillEllipse,
		uintptr(unsafe.Pointer(obj)),
		uintptr(unsafe.Pointer(ellipse)),
		uintptr(unsafe.Pointer(brush)),
	)
}

type ID2D1Bitmap1 struct {
	vtbl *iD2D1ResourceVtbl
}

func (obj *ID2D1Bitmap1) Release() { win.Release(unsafe.Pointer(obj)) }

type ID2D1SolidColorBrush struct {
	vtbl *iD2D1SolidColorBrushVtbl
}

func (obj *ID2D1SolidColorBrush) Release() { win.Release(unsafe.Pointer(obj)) }

func (obj *ID2D1SolidColorBrush) SetColor(color *D2D1_COLOR_F) {
	syscall.SyscallN(
		obj.vtbl.SetColor,
		uintptr(unsafe.Pointer(obj)),
		uintptr(unsafe.Pointer(color)),
	)
}

// NewFactory creates a single-threaded ID2D1Factory1.
func NewFactory() (*ID2D1Factory1, error) {
	var f *ID2D1Factory1
	if hr := win.D2D1CreateFactory(D2D1_FACTORY_TYPE_SINGLE_THREADED, &iid_ID2D1Factory1, unsafe.Pointer(&f)); win.Failed(hr) {
		return nil, d3d.HRESULT(uint32(hr))
	}
	return f, nil
}
