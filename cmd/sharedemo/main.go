// Command sharedemo draws into a texture shared between two devices,
// handing it back and forth under its keyed mutex, and writes or streams
// the frames it reads back.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kirides/surfaceshare"
	"github.com/kirides/surfaceshare/handshake"
	"github.com/kirides/surfaceshare/imageout"
	"github.com/kirides/surfaceshare/internal/pipeline"
)

type app struct {
	flags flagValues
	cfg   Config
	log   *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: surfaceshare.Logger()}
	root := &cobra.Command{
		Use:           "sharedemo",
		Short:         "Share a texture between a 2D renderer and a second device",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.configure(cmd)
		},
	}

	d := DefaultConfig()
	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.config, "config", "", "TOML configuration file")
	pf.StringVar(&a.flags.backend, "backend", d.Backend, "rendering backend: d3d11 or soft")
	pf.IntVar(&a.flags.width, "width", d.Width, "shared texture width")
	pf.IntVar(&a.flags.height, "height", d.Height, "shared texture height")
	pf.DurationVar(&a.flags.timeout, "timeout", time.Duration(d.Timeout), "keyed mutex acquire timeout, 0 waits forever")
	pf.IntVar(&a.flags.rowAlign, "row-align", d.RowAlign, "row pitch alignment of the soft backend in bytes")
	pf.StringVar(&a.flags.logLevel, "log-level", d.LogLevel, "debug, info, warn or error")
	pf.IntVar(&a.flags.scaleWidth, "scale-width", 0, "resize output frames to this width")
	pf.IntVar(&a.flags.scaleHeight, "scale-height", 0, "resize output frames to this height")
	pf.IntVar(&a.flags.quality, "quality", d.Quality, "JPEG quality")

	root.AddCommand(newRenderCmd(a), newServeCmd(a))
	return root
}

func (a *app) configure(cmd *cobra.Command) error {
	cfg := DefaultConfig()
	if a.flags.config != "" {
		var err error
		if cfg, err = LoadConfig(a.flags.config); err != nil {
			return err
		}
	}
	a.flags.apply(cmd.Flags(), &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	lvl, _ := cfg.Level()
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
	surfaceshare.SetLogger(a.log)
	a.cfg = cfg
	return nil
}

func (a *app) outputOptions() imageout.Options {
	return imageout.Options{
		Width:   a.cfg.ScaleWidth,
		Height:  a.cfg.ScaleHeight,
		Quality: a.cfg.Quality,
	}
}

// openPipeline creates the configured backend and a pipeline on it. The
// returned function releases both.
func (a *app) openPipeline() (*pipeline.Pipeline, func(), error) {
	uninit := func() {}
	if a.cfg.Backend == pipeline.BackendD3D11 {
		var err error
		if uninit, err = initCOM(); err != nil {
			return nil, nil, err
		}
	}

	b, err := pipeline.NewBackend(a.cfg.Backend, a.cfg.RowAlign)
	if err != nil {
		uninit()
		return nil, nil, err
	}
	var opts []handshake.Option
	if a.cfg.Timeout > 0 {
		opts = append(opts, handshake.WithTimeout(time.Duration(a.cfg.Timeout)))
	}
	p, err := pipeline.New(b, a.cfg.Width, a.cfg.Height, opts...)
	if err != nil {
		b.Close()
		uninit()
		return nil, nil, err
	}
	a.log.Info("using backend", "backend", b.Name, "width", a.cfg.Width, "height", a.cfg.Height)
	return p, func() {
		p.Close()
		b.Close()
		uninit()
	}, nil
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Keep this thread. COM is initialized on it and the d3d11 backend
	// runs every round on it.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "sharedemo: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run())
}
