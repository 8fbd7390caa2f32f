package d3d

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextureModePolicy(t *testing.T) {
	tests := []struct {
		mode     TextureMode
		usage    uint32
		bind     uint32
		cpu      uint32
		misc     uint32
		asString string
	}{
		{TextureTarget, D3D11_USAGE_DEFAULT, D3D11_BIND_SHADER_RESOURCE | D3D11_BIND_RENDER_TARGET, 0, 0, "target"},
		{TextureRead, D3D11_USAGE_STAGING, 0, D3D11_CPU_ACCESS_READ, 0, "read"},
		{TextureShared, D3D11_USAGE_DEFAULT, D3D11_BIND_SHADER_RESOURCE | D3D11_BIND_RENDER_TARGET, 0,
			D3D11_RESOURCE_MISC_SHARED_KEYEDMUTEX | D3D11_RESOURCE_MISC_SHARED_NTHANDLE, "shared"},
	}
	for _, tt := range tests {
		t.Run(tt.asString, func(t *testing.T) {
			assert.Equal(t, tt.usage, tt.mode.Usage())
			assert.Equal(t, tt.bind, tt.mode.BindFlags())
			assert.Equal(t, tt.cpu, tt.mode.CPUAccessFlags())
			assert.Equal(t, tt.misc, tt.mode.MiscFlags())
			assert.Equal(t, tt.asString, tt.mode.String())

			desc := NewTextureDesc(3, 5, tt.mode)
			assert.Equal(t, tt.mode, desc.Mode())
			assert.EqualValues(t, DXGI_FORMAT_R8G8B8A8_UNORM, desc.Format)
			assert.Equal(t, 12, desc.RowBytes())
		})
	}
	assert.Equal(t, "TextureMode(7)", TextureMode(7).String())
}

func TestCreateTextureDescRoundTrip(t *testing.T) {
	dev, _ := NewSoftDevice(WithRowAlign(256))
	defer dev.Release()

	sizes := [][2]uint32{{1, 1}, {3, 7}, {64, 64}, {800, 600}, {1023, 2}}
	for _, mode := range []TextureMode{TextureTarget, TextureRead, TextureShared} {
		for _, sz := range sizes {
			t.Run(fmt.Sprintf("%v/%dx%d", mode, sz[0], sz[1]), func(t *testing.T) {
				tex, err := dev.CreateTexture(sz[0], sz[1], mode)
				require.NoError(t, err)
				defer tex.Release()

				desc := tex.Desc()
				assert.Equal(t, sz[0], desc.Width)
				assert.Equal(t, sz[1], desc.Height)
				assert.Equal(t, mode, desc.Mode())
			})
		}
	}
}

func TestCreateTextureRejectsInvalidArguments(t *testing.T) {
	dev, _ := NewSoftDevice()

	_, err := dev.CreateTexture(0, 10, TextureTarget)
	assert.ErrorIs(t, err, ErrInvalidArg)
	_, err = dev.CreateTexture(10, 0, TextureShared)
	assert.ErrorIs(t, err, ErrInvalidArg)
	_, err = dev.CreateTexture(10, 10, TextureMode(-1))
	assert.ErrorIs(t, err, ErrInvalidArg)

	dev.Release()
	_, err = dev.CreateTexture(10, 10, TextureTarget)
	assert.ErrorIs(t, err, DXGI_ERROR_DEVICE_REMOVED)
}

func TestHRESULT(t *testing.T) {
	assert.Equal(t, "DXGI_ERROR_INVALID_CALL", DXGI_ERROR_INVALID_CALL.Error())
	assert.Equal(t, "WAIT_TIMEOUT", WAIT_TIMEOUT.Error())
	assert.Equal(t, "HRESULT 0x80004005", HRESULT(0x80004005).Error())

	assert.True(t, E_INVALIDARG.Failed())
	assert.False(t, WAIT_TIMEOUT.Failed())
	assert.False(t, S_OK.Failed())

	wrapped := fmt.Errorf("acquire: %w", ErrWaitTimeout)
	var hr HRESULT
	require.True(t, errors.As(wrapped, &hr))
	assert.Equal(t, WAIT_TIMEOUT, hr)

	assert.NoError(t, check(0))
	assert.NoError(t, check(int32(WAIT_TIMEOUT)))
	assert.Equal(t, E_INVALIDARG, check(int32(-0x7ff8ffa9)))
}
