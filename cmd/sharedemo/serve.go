package main

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/mattn/go-mjpeg"
	"github.com/spf13/cobra"

	"github.com/kirides/surfaceshare/imageout"
	"github.com/kirides/surfaceshare/internal/pipeline"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run rounds continuously and stream the frames as MJPEG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
	d := DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&a.flags.addr, "addr", d.Addr, "listen address")
	f.IntVar(&a.flags.fps, "fps", d.FPS, "frames per second")
	return cmd
}

var watchPage = template.Must(template.New("watch").Parse(`<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>{{.Title}}</title>
</head>
<body style="margin:0">
	<img src="/mjpeg" style="max-width: 100vw; max-height: 100vh;object-fit: contain;display: block;margin: 0 auto;" />
</body>`))

func newServeMux(stream http.Handler, title string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if err := watchPage.Execute(w, struct{ Title string }{title}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	mux.Handle("/mjpeg", stream)
	return mux
}

// Workaround for jpeg.Encode(), which requires a Flush()
// method to not call `bufio.NewWriter`
type bufferFlusher struct {
	bytes.Buffer
}

func (*bufferFlusher) Flush() error { return nil }

// streamFrames runs one round per frame and hands each JPEG to update
// until ctx is done or a round fails.
func streamFrames(ctx context.Context, p *pipeline.Pipeline, fps int, opts imageout.Options, update func([]byte)) error {
	buf := &bufferFlusher{}
	limiter := NewFrameLimiter(fps)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		img, err := p.Round(ctx)
		if err != nil {
			return err
		}
		buf.Reset()
		if err := imageout.Encode(buf, img, imageout.JPEG, opts); err != nil {
			return err
		}
		update(buf.Bytes())
	}
}

func (a *app) serve(ctx context.Context) error {
	p, closePipeline, err := a.openPipeline()
	if err != nil {
		return err
	}
	defer closePipeline()

	ln, err := net.Listen("tcp", a.cfg.Addr)
	if err != nil {
		return err
	}
	stream := mjpeg.NewStreamWithInterval(time.Second / time.Duration(a.cfg.FPS))
	srv := &http.Server{
		Handler:           newServeMux(stream, "sharedemo "+a.cfg.Backend),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server stopped", "error", err)
		}
	}()
	a.log.Info("streaming", "watch", "http://"+ln.Addr().String()+"/watch", "fps", a.cfg.FPS)

	err = streamFrames(ctx, p, a.cfg.FPS, a.outputOptions(), func(b []byte) {
		stream.Update(b)
	})

	// Closing the stream ends the open /mjpeg responses.
	stream.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
