package d3d

import "github.com/kirides/surfaceshare/win"

type iDXGIObjectVtbl struct {
	win.IUnknownVtbl

	SetPrivateData          uintptr
	SetPrivateDataInterface uintptr
	GetPrivateData          uintptr
	GetParent               uintptr
}

type iDXGIDeviceVtbl struct {
	iDXGIObjectVtbl

	CreateSurface          uintptr
	GetAdapter             uintptr
	GetGPUThreadPriority   uintptr
	QueryResourceResidency uintptr
	SetGPUThreadPriority   uintptr
}

type iDXGIDeviceSubObjectVtbl struct {
	iDXGIObjectVtbl

	GetDevice uintptr
}

type iDXGISurfaceVtbl struct {
	iDXGIDeviceSubObjectVtbl

	GetDesc uintptr
	Map     uintptr
	Unmap   uintptr
}

type iDXGIResourceVtbl struct {
	iDXGIDeviceSubObjectVtbl

	GetSharedHandle     uintptr
	GetUsage            uintptr
	SetEvictionPriority uintptr
	GetEvictionPriority uintptr
}

type iDXGIResource1Vtbl struct {
	iDXGIResourceVtbl

	CreateSubresourceSurface uintptr
	CreateSharedHandle       uintptr
}

type iDXGIKeyedMutexVtbl struct {
	iDXGIDeviceSubObjectVtbl

	AcquireSync uintptr
	ReleaseSync uintptr
}
