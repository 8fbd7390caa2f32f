package d3d

import "fmt"

const (
	DXGI_FORMAT_R8G8B8A8_UNORM = 28
	DXGI_FORMAT_B8G8R8A8_UNORM = 87

	D3D11_USAGE_DEFAULT = 0
	D3D11_USAGE_STAGING = 3

	D3D11_BIND_SHADER_RESOURCE = 0x8
	D3D11_BIND_RENDER_TARGET   = 0x20

	D3D11_CPU_ACCESS_READ = 0x20000

	D3D11_RESOURCE_MISC_SHARED_KEYEDMUTEX = 0x100
	D3D11_RESOURCE_MISC_SHARED_NTHANDLE   = 0x800

	DXGI_SHARED_RESOURCE_READ  = 0x80000000
	DXGI_SHARED_RESOURCE_WRITE = 0x1

	// BytesPerPixel of every texture created by this package.
	BytesPerPixel = 4
)

// TextureMode selects the usage class of a texture. The native flags for
// each mode are fixed; see Usage, BindFlags, CPUAccessFlags and MiscFlags.
type TextureMode int

const (
	// TextureTarget is a GPU-only render target.
	TextureTarget TextureMode = iota
	// TextureRead is a CPU-readable staging texture.
	TextureRead
	// TextureShared is a render target that can be exported with
	// CreateSharedHandle and is guarded by a keyed mutex.
	TextureShared
)

func (m TextureMode) String() string {
	switch m {
	case TextureTarget:
		return "target"
	case TextureRead:
		return "read"
	case TextureShared:
		return "shared"
	}
	return fmt.Sprintf("TextureMode(%d)", int(m))
}

func (m TextureMode) Usage() uint32 {
	if m == TextureRead {
		return D3D11_USAGE_STAGING
	}
	return D3D11_USAGE_DEFAULT
}

func (m TextureMode) BindFlags() uint32 {
	if m == TextureRead {
		return 0
	}
	return D3D11_BIND_SHADER_RESOURCE | D3D11_BIND_RENDER_TARGET
}

func (m TextureMode) CPUAccessFlags() uint32 {
	if m == TextureRead {
		return D3D11_CPU_ACCESS_READ
	}
	return 0
}

func (m TextureMode) MiscFlags() uint32 {
	if m == TextureShared {
		return D3D11_RESOURCE_MISC_SHARED_KEYEDMUTEX | D3D11_RESOURCE_MISC_SHARED_NTHANDLE
	}
	return 0
}

func (m TextureMode) valid() bool {
	return m >= TextureTarget && m <= TextureShared
}

// TextureDesc describes a created texture.
type TextureDesc struct {
	Width          uint32
	Height         uint32
	Format         uint32
	Usage          uint32
	BindFlags      uint32
	CPUAccessFlags uint32
	MiscFlags      uint32
}

// NewTextureDesc returns the description CreateTexture uses for the given
// size and mode.
func NewTextureDesc(width, height uint32, mode TextureMode) TextureDesc {
	return TextureDesc{
		Width:          width,
		Height:         height,
		Format:         DXGI_FORMAT_R8G8B8A8_UNORM,
		Usage:          mode.Usage(),
		BindFlags:      mode.BindFlags(),
		CPUAccessFlags: mode.CPUAccessFlags(),
		MiscFlags:      mode.MiscFlags(),
	}
}

// Mode reports which TextureMode produced d.
func (d TextureDesc) Mode() TextureMode {
	switch {
	case d.Usage == D3D11_USAGE_STAGING:
		return TextureRead
	case d.MiscFlags&D3D11_RESOURCE_MISC_SHARED_KEYEDMUTEX != 0:
		return TextureShared
	}
	return TextureTarget
}

// RowBytes is the tightly packed size of one row.
func (d TextureDesc) RowBytes() int {
	return int(d.Width) * BytesPerPixel
}

func validateSize(width, height uint32, mode TextureMode) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("invalid texture size %dx%d: %w", width, height, ErrInvalidArg)
	}
	if !mode.valid() {
		return fmt.Errorf("invalid texture mode %v: %w", mode, ErrInvalidArg)
	}
	return nil
}
