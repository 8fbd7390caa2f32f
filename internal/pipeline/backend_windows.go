package pipeline

import (
	"fmt"

	"github.com/kirides/surfaceshare/d2d"
	"github.com/kirides/surfaceshare/d3d"
	"github.com/kirides/surfaceshare/render"
)

// hiDPIScale is the DPI scale the producer renders at.
const hiDPIScale = 2

// NewD3D11Backend creates one hardware device per side. The producer draws
// with Direct2D at hiDPIScale. Rounds stay on the calling thread, which
// initialized COM.
func NewD3D11Backend() (*Backend, error) {
	pdev, pctx, err := d3d.NewD3D11Device()
	if err != nil {
		return nil, fmt.Errorf("producer device: %w", err)
	}
	cdev, cctx, err := d3d.NewD3D11Device()
	if err != nil {
		pctx.Release()
		pdev.Release()
		return nil, fmt.Errorf("consumer device: %w", err)
	}
	return &Backend{
		Name:        BackendD3D11,
		Producer:    pdev,
		ProducerCtx: pctx,
		Consumer:    cdev,
		ConsumerCtx: cctx,
		Sequential:  true,
		NewTarget: func(tex d3d.Texture) (render.Target, func(), error) {
			t, err := d2d.NewTarget(pdev, tex, d2d.WithDPIScale(hiDPIScale))
			if err != nil {
				return nil, nil, err
			}
			return t, t.Release, nil
		},
	}, nil
}
