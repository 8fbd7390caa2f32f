// Package pipeline runs the shared-surface demo: a producer draws the scene
// into a shared texture, a consumer on a second device marks it, and the
// producer reads the result back.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/sync/errgroup"

	"github.com/kirides/surfaceshare"
	"github.com/kirides/surfaceshare/d3d"
	"github.com/kirides/surfaceshare/handshake"
	"github.com/kirides/surfaceshare/readback"
	"github.com/kirides/surfaceshare/render"
)

// MarkerColor is what the consumer paints on its turn.
var MarkerColor = color.RGBA{R: 0xf9, G: 0xe2, B: 0xaf, A: 0xff}

const markerSteps = 60

// MarkerRect is the progress bar the consumer paints along the bottom edge
// for frame.
func MarkerRect(w, h, frame int) image.Rectangle {
	bar := max(h/20, 1)
	width := max(w*(frame%markerSteps+1)/markerSteps, 1)
	return image.Rect(0, h-bar, width, h)
}

// Pipeline owns one shared texture and the handshake guarding it. Rounds
// must not overlap. After a failed round the pipeline is unusable.
type Pipeline struct {
	b    *Backend
	w, h int

	shared        d3d.Texture // producer's view
	opened        d3d.Texture // consumer's view
	target        render.Target
	releaseTarget func()
	hs            *handshake.Handshake

	frame int
	err   error
}

// New creates the shared texture on the producer device, opens it on the
// consumer device and binds the producer's renderer to it.
func New(b *Backend, width, height int, opts ...handshake.Option) (_ *Pipeline, err error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d: %w", width, height, d3d.ErrInvalidArg)
	}
	p := &Pipeline{b: b, w: width, h: height}
	defer func() {
		if err != nil {
			p.Close()
		}
	}()

	if p.shared, err = b.Producer.CreateTexture(uint32(width), uint32(height), d3d.TextureShared); err != nil {
		return nil, fmt.Errorf("create shared texture: %w", err)
	}
	handle, err := p.shared.CreateSharedHandle()
	if err != nil {
		return nil, fmt.Errorf("export shared texture: %w", err)
	}
	p.opened, err = b.Consumer.OpenSharedTexture(handle)
	if cerr := b.Producer.CloseSharedHandle(handle); cerr != nil {
		surfaceshare.Logger().Warn("closing shared handle failed", "error", cerr)
	}
	if err != nil {
		return nil, fmt.Errorf("open shared texture: %w", err)
	}

	producerMutex, err := p.shared.KeyedMutex()
	if err != nil {
		return nil, err
	}
	consumerMutex, err := p.opened.KeyedMutex()
	if err != nil {
		return nil, err
	}
	p.hs = handshake.New(producerMutex, consumerMutex, opts...)

	if p.target, p.releaseTarget, err = b.NewTarget(p.shared); err != nil {
		return nil, fmt.Errorf("create %s renderer: %w", b.Name, err)
	}
	surfaceshare.Logger().Info("pipeline ready", "backend", b.Name, "width", width, "height", height)
	return p, nil
}

func (p *Pipeline) Size() (w, h int) { return p.w, p.h }

// Handshake exposes the ownership state, mostly for diagnostics.
func (p *Pipeline) Handshake() *handshake.Handshake { return p.hs }

// Round runs one frame: the producer draws and hands the surface over, the
// consumer paints its marker and hands it back, and the producer reads the
// texture. The producer keeps the surface afterwards, so the next round
// starts with a redundant acquire. Sequential backends run the turns on the
// calling goroutine, others run each side on its own goroutine.
func (p *Pipeline) Round(ctx context.Context) (*image.RGBA, error) {
	if p.err != nil {
		return nil, p.err
	}
	frame := p.frame
	p.frame++

	var img *image.RGBA
	var err error
	if p.b.Sequential {
		err = p.produce(ctx, frame)
		if err == nil {
			err = p.consume(ctx, frame)
		}
		if err == nil {
			img, err = p.readBack(ctx)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if err := p.produce(gctx, frame); err != nil {
				return err
			}
			var err error
			img, err = p.readBack(gctx)
			return err
		})
		g.Go(func() error { return p.consume(gctx, frame) })
		err = g.Wait()
	}
	if err != nil {
		p.err = fmt.Errorf("frame %d: %w", frame, err)
		return nil, p.err
	}
	surfaceshare.Logger().Debug("round complete", "frame", frame)
	return img, nil
}

func (p *Pipeline) produce(ctx context.Context, frame int) error {
	err := p.hs.Produce(ctx, p.target, func() error {
		render.DrawScene(p.target, p.w, p.h, frame)
		return nil
	})
	if err != nil {
		return fmt.Errorf("producer: %w", err)
	}
	return nil
}

func (p *Pipeline) consume(ctx context.Context, frame int) error {
	err := p.hs.Consume(ctx, func() error {
		if err := d3d.FillRect(p.b.ConsumerCtx, p.opened, MarkerRect(p.w, p.h, frame), MarkerColor); err != nil {
			return err
		}
		p.b.ConsumerCtx.Flush()
		return nil
	})
	if err != nil {
		return fmt.Errorf("consumer: %w", err)
	}
	return nil
}

// readBack takes the surface back for the producer and copies it out.
func (p *Pipeline) readBack(ctx context.Context) (*image.RGBA, error) {
	if err := p.hs.Acquire(ctx, handshake.ProducerKey); err != nil {
		return nil, fmt.Errorf("producer: %w", err)
	}
	return readback.Texture(p.b.Producer, p.b.ProducerCtx, p.shared)
}

// Close releases the renderer and both views of the shared texture. The
// backend stays open.
func (p *Pipeline) Close() {
	if p.releaseTarget != nil {
		p.releaseTarget()
		p.releaseTarget = nil
	}
	if p.opened != nil {
		p.opened.Release()
		p.opened = nil
	}
	if p.shared != nil {
		p.shared.Release()
		p.shared = nil
	}
}
