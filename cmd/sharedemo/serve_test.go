package main

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirides/surfaceshare/imageout"
	"github.com/kirides/surfaceshare/internal/pipeline"
)

func TestWatchPage(t *testing.T) {
	stream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "stream")
	})
	srv := httptest.NewServer(newServeMux(stream, "sharedemo <soft>"))
	defer srv.Close()

	res, err := http.Get(srv.URL + "/watch")
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "text/html", res.Header.Get("Content-Type"))
	assert.Contains(t, string(body), `<img src="/mjpeg"`)
	assert.Contains(t, string(body), "sharedemo &lt;soft&gt;")

	res, err = http.Get(srv.URL + "/mjpeg")
	require.NoError(t, err)
	defer res.Body.Close()
	body, err = io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "stream", string(body))
}

func TestStreamFrames(t *testing.T) {
	b := pipeline.NewSoftBackend(16)
	defer b.Close()
	p, err := pipeline.New(b, 32, 24)
	require.NoError(t, err)
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var frames [][]byte
	err = streamFrames(ctx, p, 200, imageout.Options{Quality: 80}, func(b []byte) {
		frames = append(frames, bytes.Clone(b))
		if len(frames) == 3 {
			cancel()
		}
	})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, frames, 3)

	img, err := jpeg.Decode(bytes.NewReader(frames[2]))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 24), img.Bounds())
}

func TestFrameLimiter(t *testing.T) {
	l := NewFrameLimiter(50)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 4; i++ {
		require.NoError(t, l.Wait(ctx))
	}
	// The first frame is immediate, the other three wait 20ms each.
	assert.GreaterOrEqual(t, time.Since(start), 55*time.Millisecond)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, l.Wait(canceled), context.Canceled)
}
