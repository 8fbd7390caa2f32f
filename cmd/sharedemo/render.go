package main

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/spf13/cobra"

	"github.com/kirides/surfaceshare/imageout"
)

func newRenderCmd(a *app) *cobra.Command {
	rounds := 1
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Run producer/consumer rounds and write the last frame to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rounds < 1 {
				return fmt.Errorf("rounds must be positive, got %d", rounds)
			}
			return a.render(cmd.Context(), rounds)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&a.flags.out, "out", "o", DefaultConfig().Output, "output file, format by extension (png, jpg, bmp, tif)")
	f.IntVarP(&rounds, "rounds", "n", rounds, "number of rounds to run before writing")
	return cmd
}

func (a *app) render(ctx context.Context, rounds int) error {
	p, closePipeline, err := a.openPipeline()
	if err != nil {
		return err
	}
	defer closePipeline()

	start := time.Now()
	var img *image.RGBA
	for i := 0; i < rounds; i++ {
		if img, err = p.Round(ctx); err != nil {
			return err
		}
	}
	a.log.Info("rendered", "rounds", rounds, "elapsed", time.Since(start))

	if err := imageout.Save(a.cfg.Output, img, a.outputOptions()); err != nil {
		return err
	}
	a.log.Info("wrote image", "path", a.cfg.Output)
	return nil
}
