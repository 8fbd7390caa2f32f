package win

import (
	"syscall"
	"unsafe"

	lxnwin "github.com/lxn/win"
	"golang.org/x/sys/windows"
)

type HANDLE uintptr

var (
	modD3D11 = windows.NewLazySystemDLL("d3d11.dll")
	modD2D1  = windows.NewLazySystemDLL("d2d1.dll")

	procD3D11CreateDevice = modD3D11.NewProc("D3D11CreateDevice")
	procD2D1CreateFactory = modD2D1.NewProc("D2D1CreateFactory")
)

func Succeeded(hr int32) bool { return lxnwin.SUCCEEDED(lxnwin.HRESULT(hr)) }
func Failed(hr int32) bool    { return lxnwin.FAILED(lxnwin.HRESULT(hr)) }

// D3D11CreateDevice calls d3d11!D3D11CreateDevice with the default adapter
// and the runtime's default feature level list.
func D3D11CreateDevice(driverType, flags, sdkVersion uint32, ppDevice, ppContext unsafe.Pointer) int32 {
	if err := procD3D11CreateDevice.Find(); err != nil {
		return E_NOINTERFACE
	}
	var featureLevel uint32
	ret, _, _ := syscall.SyscallN(
		procD3D11CreateDevice.Addr(),
		0, // pAdapter
		uintptr(driverType),
		0, // Software
		uintptr(flags),
		0, // pFeatureLevels
		0, // FeatureLevels
		uintptr(sdkVersion),
		uintptr(ppDevice),
		uintptr(unsafe.Pointer(&featureLevel)),
		uintptr(ppContext),
	)
	return int32(ret)
}

// D2D1CreateFactory calls d2d1!D2D1CreateFactory without factory options.
func D2D1CreateFactory(factoryType uint32, iid *windows.GUID, ppFactory unsafe.Pointer) int32 {
	if err := procD2D1CreateFactory.Find(); err != nil {
		return E_NOINTERFACE
	}
	ret, _, _ := syscall.SyscallN(
		procD2D1CreateFactory.Addr(),
		uintptr(factoryType),
		uintptr(unsafe.Pointer(iid)),
		0, // pFactoryOptions
		uintptr(ppFactory),
	)
	return int32(ret)
}

// CoInitialize prepares the calling thread for COM. Callers pair it with
// CoUninitialize on the same locked OS thread.
func CoInitialize() int32 {
	return int32(lxnwin.CoInitializeEx(nil, lxnwin.COINIT_MULTITHREADED))
}

func CoUninitialize() {
	lxnwin.CoUninitialize()
}

func CloseHandle(h HANDLE) error {
	return windows.CloseHandle(windows.Handle(h))
}
