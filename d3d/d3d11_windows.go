package d3d

import (
	"syscall"
	"unsafe"

	"github.com/kirides/surfaceshare/win"
	"golang.org/x/sys/windows"
)

const (
	D3D_DRIVER_TYPE_HARDWARE         = 1
	D3D11_CREATE_DEVICE_BGRA_SUPPORT = 0x20
	D3D11_SDK_VERSION                = 7

	D3D11_MAP_READ = 1
)

var (
	iid_ID3D11Device1   = win.MustGUID("{a04bfb29-08ef-43d6-a49c-a9bdbdcbe686}")
	iid_ID3D11Texture2D = win.MustGUID("{6f15aaf2-d208-4e89-9ab4-489535d34f9c}")
	iid_IDXGIDevice     = win.MustGUID("{54ec77fa-1377-44e6-8c32-88fd5f44c84c}")
	iid_IDXGISurface    = win.MustGUID("{cafcb56c-6ac3-4889-bf47-9e23bbd260ec}")
	iid_IDXGIResource1  = win.MustGUID("{30961379-4609-4a41-998e-54fe567ee0c1}")
	iid_IDXGIKeyedMutex = win.MustGUID("{9d8e1289-d7b3-465f-8126-250e349af85d}")
)

func failed(hr int32) bool { return win.Failed(hr) }

func release(obj unsafe.Pointer) { win.Release(obj) }

func queryInterface(obj unsafe.Pointer, iid *windows.GUID, pp unsafe.Pointer) int32 {
	return win.Unknown(obj).QueryInterface(iid, pp)
}

type ID3D11Device struct {
	vtbl *iD3D11DeviceVtbl
}

func (obj *ID3D11Device) Release() { release(unsafe.Pointer(obj)) }

func (obj *ID3D11Device) QueryInterface(iid *windows.GUID, pp unsafe.Pointer) int32 {
	return queryInterface(unsafe.Pointer(obj), iid, pp)
}

func (obj *ID3D11Device) CreateTexture2D(desc *_D3D11_TEXTURE2D_DESC, ppTexture2D **ID3D11Texture2D) int32 {
	ret, _, _ := syscall.SyscallN(
		obj.vtbl.CreateTexture2D,
		uintptr(unsafe.Pointer(obj)),
		uintptr(unsafe.Pointer(desc)),
		0, // pInitialData
		uintptr(unsafe.Pointer(ppTexture2D)),
	)
	return int32(ret)
}

type ID3D11Device1 struct {
	vtbl *iD3D11Device1Vtbl
}

func (obj *ID3D11Device1) Release() { release(unsafe.Pointer(obj)) }

func (obj *ID3D11Device1) OpenSharedResource1(h SharedHandle, iid *windows.GUID, pp unsafe.Pointer) int32 {
	ret, _, _ := syscall.SyscallN(
		obj.vtbl.OpenSharedResource1,
		uintptr(unsafe.Pointer(obj)),
		uintptr(h),
		uintptr(unsafe.Pointer(iid)),
		uintptr(pp),
	)
	return int32(ret)
}

type ID3D11DeviceContext struct {
	vtbl *iD3D11DeviceContextVtbl
}

func (obj *ID3D11DeviceContext) Release() { release(unsafe.Pointer(obj)) }

func (obj *ID3D11DeviceContext) CopyResource2D(dst, src *ID3D11Texture2D) {
	syscall.SyscallN(
		obj.vtbl.CopyResource,
		uintptr(unsafe.Pointer(obj)),
		uintptr(unsafe.Pointer(dst)),
		uintptr(unsafe.Pointer(src)),
	)
}

func (obj *ID3D11DeviceContext) UpdateSubresource2D(dst *ID3D11Texture2D, box *_D3D11_BOX, src unsafe.Pointer, rowPitch uint32) {
	syscall.SyscallN(
		obj.vtbl.UpdateSubresource,
		uintptr(unsafe.Pointer(obj)),
		uintptr(unsafe.Pointer(dst)),
		0, // DstSubresource
		uintptr(unsafe.Pointer(box)),
		uintptr(src),
		uintptr(rowPitch),
		0, // SrcDepthPitch
	)
}

func (obj *ID3D11DeviceContext) Map2D(tex *ID3D11Texture2D, mapType uint32, mapped *_D3D11_MAPPED_SUBRESOURCE) int32 {
	ret, _, _ := syscall.SyscallN(
		obj.vtbl.Map,
		uintptr(unsafe.Pointer(obj)),
		uintptr(unsafe.Pointer(tex)),
		0, // Subresource
		uintptr(mapType),
		0, // MapFlags
		uintptr(unsafe.Pointer(mapped)),
	)
	return int32(ret)
}

func (obj *ID3D11DeviceContext) Unmap2D(tex *ID3D11Texture2D) {
	syscall.SyscallN(
		obj.vtbl.Unmap,
		uintptr(unsafe.Pointer(obj)),
		uintptr(unsafe.Pointer(tex)),
		0, // Subresource
	)
}

func (obj *ID3D11DeviceContext) Flush() {
	syscall.SyscallN(
		obj.vtbl.Flush,
		uintptr(unsafe.Pointer(obj)),
	)
}

type ID3D11Texture2D struct {
	vtbl *iD3D11Texture2DVtbl
}

func (obj *ID3D11Texture2D) Release() { release(unsafe.Pointer(obj)) }

func (obj *ID3D11Texture2D) QueryInterface(iid *windows.GUID, pp unsafe.Pointer) int32 {
	return queryInterface(unsafe.Pointer(obj), iid, pp)
}

func (obj *ID3D11Texture2D) GetDesc(desc *_D3D11_TEXTURE2D_DESC) {
	syscall.SyscallN(
		obj.vtbl.GetDesc,
		uintptr(unsafe.Pointer(obj)),
		uintptr(unsafe.Pointer(desc)),
	)
}

type IDXGIDevice struct {
	vtbl *iDXGIDeviceVtbl
}

func (obj *IDXGIDevice) Release() { release(unsafe.Pointer(obj)) }

type IDXGISurface struct {
	vtbl *iDXGISurfaceVtbl
}

func (obj *IDXGISurface) Release() { release(unsafe.Pointer(obj)) }

type IDXGIResource1 struct {
	vtbl *iDXGIResource1Vtbl
}

func (obj *IDXGIResource1) Release() { release(unsafe.Pointer(obj)) }

func (obj *IDXGIResource1) CreateSharedHandle(access uint32, handle *SharedHandle) int32 {
	ret, _, _ := syscall.SyscallN(
		obj.vtbl.CreateSharedHandle,
		uintptr(unsafe.Pointer(obj)),
		0, // pAttributes
		uintptr(access),
		0, // lpName
		uintptr(unsafe.Pointer(handle)),
	)
	return int32(ret)
}

type IDXGIKeyedMutex struct {
	vtbl *iDXGIKeyedMutexVtbl
}

func (obj *IDXGIKeyedMutex) Release() { release(unsafe.Pointer(obj)) }

func (obj *IDXGIKeyedMutex) AcquireSync(key uint64, milliseconds uint32) int32 {
	ret, _, _ := syscall.SyscallN(
		obj.vtbl.AcquireSync,
		uintptr(unsafe.Pointer(obj)),
		uintptr(key),
		uintptr(milliseconds),
	)
	return int32(ret)
}

func (obj *IDXGIKeyedMutex) ReleaseSync(key uint64) int32 {
	ret, _, _ := syscall.SyscallN(
		obj.vtbl.ReleaseSync,
		uintptr(unsafe.Pointer(obj)),
		uintptr(key),
	)
	return int32(ret)
}
