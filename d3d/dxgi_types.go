package d3d

import (
	"strconv"
	"unsafe"
)

// HRESULT is the status code returned by every native call. It is the only
// error type the device layer produces; callers treat any failure as fatal
// to the current operation.
type HRESULT uint32

const (
	S_OK HRESULT = 0

	// Keyed mutex wait results. They are success codes for the native API
	// but AcquireSync reports them as errors.
	WAIT_ABANDONED HRESULT = 0x00000080
	WAIT_TIMEOUT   HRESULT = 0x00000102

	E_NOINTERFACE  HRESULT = 0x80004002
	E_OUTOFMEMORY  HRESULT = 0x8007000E
	E_INVALIDARG   HRESULT = 0x80070057
	E_ACCESSDENIED HRESULT = 0x80070005

	DXGI_ERROR_INVALID_CALL      HRESULT = 0x887A0001
	DXGI_ERROR_UNSUPPORTED       HRESULT = 0x887A0004
	DXGI_ERROR_DEVICE_REMOVED    HRESULT = 0x887A0005
	DXGI_ERROR_DEVICE_HUNG       HRESULT = 0x887A0006
	DXGI_ERROR_DEVICE_RESET      HRESULT = 0x887A0007
	DXGI_ERROR_WAS_STILL_DRAWING HRESULT = 0x887A000A
	DXGI_ERROR_ACCESS_LOST       HRESULT = 0x887A0026
	DXGI_ERROR_WAIT_TIMEOUT      HRESULT = 0x887A0027

	D2DERR_WRONG_STATE           HRESULT = 0x88990001
	D2DERR_RECREATE_TARGET       HRESULT = 0x8899000C
	D2DERR_WRONG_RESOURCE_DOMAIN HRESULT = 0x88990015
)

var (
	// ErrWaitTimeout is returned by AcquireSync when the key was not
	// released to the caller within the timeout.
	ErrWaitTimeout error = WAIT_TIMEOUT
	// ErrAbandoned is returned by AcquireSync when the previous owner went
	// away without releasing.
	ErrAbandoned error = WAIT_ABANDONED
	// ErrNotOwner is returned by ReleaseSync when the mutex is not held.
	ErrNotOwner error = DXGI_ERROR_INVALID_CALL
	// ErrInvalidArg is returned for zero sized textures, mismatched copies
	// and similar misuse.
	ErrInvalidArg error = E_INVALIDARG
)

func (e HRESULT) Failed() bool { return int32(e) < 0 }

func (e HRESULT) Error() string {
	switch e {
	case S_OK:
		return "S_OK"
	case WAIT_ABANDONED:
		return "WAIT_ABANDONED"
	case WAIT_TIMEOUT:
		return "WAIT_TIMEOUT"
	case E_NOINTERFACE:
		return "E_NOINTERFACE"
	case E_OUTOFMEMORY:
		return "E_OUTOFMEMORY"
	case E_INVALIDARG:
		return "E_INVALIDARG"
	case E_ACCESSDENIED:
		return "E_ACCESSDENIED"
	case DXGI_ERROR_INVALID_CALL:
		return "DXGI_ERROR_INVALID_CALL"
	case DXGI_ERROR_UNSUPPORTED:
		return "DXGI_ERROR_UNSUPPORTED"
	case DXGI_ERROR_DEVICE_REMOVED:
		return "DXGI_ERROR_DEVICE_REMOVED"
	case DXGI_ERROR_DEVICE_HUNG:
		return "DXGI_ERROR_DEVICE_HUNG"
	case DXGI_ERROR_DEVICE_RESET:
		return "DXGI_ERROR_DEVICE_RESET"
	case DXGI_ERROR_WAS_STILL_DRAWING:
		return "DXGI_ERROR_WAS_STILL_DRAWING"
	case DXGI_ERROR_ACCESS_LOST:
		return "DXGI_ERROR_ACCESS_LOST"
	case DXGI_ERROR_WAIT_TIMEOUT:
		return "DXGI_ERROR_WAIT_TIMEOUT"
	case D2DERR_WRONG_STATE:
		return "D2DERR_WRONG_STATE"
	case D2DERR_RECREATE_TARGET:
		return "D2DERR_RECREATE_TARGET"
	case D2DERR_WRONG_RESOURCE_DOMAIN:
		return "D2DERR_WRONG_RESOURCE_DOMAIN"
	}

	return "HRESULT 0x" + strconv.FormatUint(uint64(e), 16)
}

// check converts a raw return value into an error. Success codes other
// than S_OK are not errors.
func check(hr int32) error {
	if hr < 0 {
		return HRESULT(uint32(hr))
	}
	return nil
}

type _DXGI_SAMPLE_DESC struct {
	Count   uint32
	Quality uint32
}

type _D3D11_TEXTURE2D_DESC struct {
	Width          uint32
	Height         uint32
	MipLevels      uint32
	ArraySize      uint32
	Format         uint32 // DXGI_FORMAT
	SampleDesc     _DXGI_SAMPLE_DESC
	Usage          uint32 // D3D11_USAGE
	BindFlags      uint32
	CPUAccessFlags uint32
	MiscFlags      uint32
}

type _D3D11_MAPPED_SUBRESOURCE struct {
	PData      unsafe.Pointer
	RowPitch   uint32
	DepthPitch uint32
}

type _D3D11_BOX struct {
	Left   uint32
	Top    uint32
	Front  uint32
	Right  uint32
	Bottom uint32
	Back   uint32
}
