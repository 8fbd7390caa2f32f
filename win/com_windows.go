package win

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	S_OK          int32 = 0
	E_NOINTERFACE int32 = -0x7fffbffe // 0x80004002
)

type IUnknownVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr
}

// IUnknown is the common prefix of every COM object: a pointer to a vtable
// that starts with QueryInterface, AddRef and Release.
type IUnknown struct {
	Vtbl *IUnknownVtbl
}

// Unknown reinterprets any COM object pointer as its IUnknown prefix.
func Unknown(obj unsafe.Pointer) *IUnknown {
	return (*IUnknown)(obj)
}

func (obj *IUnknown) AddRef() uint32 {
	ret, _, _ := syscall.SyscallN(
		obj.Vtbl.AddRef,
		uintptr(unsafe.Pointer(obj)),
	)
	return uint32(ret)
}

func (obj *IUnknown) Release() uint32 {
	ret, _, _ := syscall.SyscallN(
		obj.Vtbl.Release,
		uintptr(unsafe.Pointer(obj)),
	)
	return uint32(ret)
}

func (obj *IUnknown) QueryInterface(iid *windows.GUID, pp unsafe.Pointer) int32 {
	ret, _, _ := syscall.SyscallN(
		obj.Vtbl.QueryInterface,
		uintptr(unsafe.Pointer(obj)),
		uintptr(unsafe.Pointer(iid)),
		uintptr(pp),
	)
	return int32(ret)
}

// Release drops one reference of obj if it is non-nil.
func Release(obj unsafe.Pointer) {
	if obj != nil {
		Unknown(obj).Release()
	}
}

func MustGUID(s string) windows.GUID {
	g, err := windows.GUIDFromString(s)
	if err != nil {
		panic(err)
	}
	return g
}
