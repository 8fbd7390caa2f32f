package pipeline

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/kirides/surfaceshare"
	"github.com/kirides/surfaceshare/d3d"
	"github.com/kirides/surfaceshare/render"
)

const (
	BackendD3D11 = "d3d11"
	BackendSoft  = "soft"
)

var ErrUnsupported = errors.New("backend not supported on this platform")

// Backend holds the devices of both sides of the handshake. The producer
// creates the shared texture and draws on it through a render.Target, the
// consumer opens it on its own device.
type Backend struct {
	Name string

	Producer    d3d.Device
	ProducerCtx d3d.Context
	Consumer    d3d.Device
	ConsumerCtx d3d.Context

	// NewTarget returns a renderer for a texture of the producer device
	// and the function that releases it.
	NewTarget func(tex d3d.Texture) (render.Target, func(), error)

	// Sequential runs both sides on the goroutine calling Round, for
	// backends whose objects must stay on one OS thread.
	Sequential bool
}

// DefaultBackend is d3d11 on Windows and soft elsewhere.
func DefaultBackend() string {
	if runtime.GOOS == "windows" {
		return BackendD3D11
	}
	return BackendSoft
}

// NewBackend creates the named backend. rowAlign only affects the soft
// backend.
func NewBackend(name string, rowAlign int) (*Backend, error) {
	switch name {
	case BackendSoft:
		return NewSoftBackend(rowAlign), nil
	case BackendD3D11:
		return NewD3D11Backend()
	}
	return nil, fmt.Errorf("unknown backend %q", name)
}

// NewSoftBackend runs both sides on in-memory devices and draws with gg.
func NewSoftBackend(rowAlign int) *Backend {
	pdev, pctx := d3d.NewSoftDevice(d3d.WithRowAlign(rowAlign))
	cdev, cctx := d3d.NewSoftDevice(d3d.WithRowAlign(rowAlign))
	return &Backend{
		Name:        BackendSoft,
		Producer:    pdev,
		ProducerCtx: pctx,
		Consumer:    cdev,
		ConsumerCtx: cctx,
		NewTarget: func(tex d3d.Texture) (render.Target, func(), error) {
			c := render.NewCanvas(pctx, tex)
			return c, func() { _ = c.Close() }, nil
		},
	}
}

func (b *Backend) Close() {
	for _, dc := range []d3d.Context{b.ConsumerCtx, b.ProducerCtx} {
		if dc != nil {
			dc.Release()
		}
	}
	for _, dev := range []d3d.Device{b.Consumer, b.Producer} {
		if dev != nil {
			dev.Release()
		}
	}
	surfaceshare.Logger().Debug("closed backend", "backend", b.Name)
}
