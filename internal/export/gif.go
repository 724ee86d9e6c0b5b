package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"time"

	"github.com/san-kum/wheelsim/internal/render"
	"github.com/san-kum/wheelsim/internal/sim"
)

// GIFOptions controls RecordGIF.
type GIFOptions struct {
	Width, Height int
	FPS           int
	// Every keeps one frame out of Every simulated frames.
	Every int
	// MaxFrames bounds the simulated frames; 0 means no limit.
	MaxFrames int
	Theme     render.Theme
}

func (o *GIFOptions) normalize() {
	if o.Width <= 0 {
		o.Width = 640
	}
	if o.Height <= 0 {
		o.Height = 360
	}
	if o.FPS <= 0 {
		o.FPS = 30
	}
	if o.Every <= 0 {
		o.Every = 1
	}
	if o.Theme.Name == "" {
		o.Theme = render.DefaultTheme
	}
}

// RecordGIF plays the session's run from the start and writes it as an
// animated GIF. It returns the number of frames encoded.
func RecordGIF(ctx context.Context, w io.Writer, s *sim.Session, opts GIFOptions) (int, error) {
	opts.normalize()
	if err := s.ResizeViewport(float64(opts.Width), float64(opts.Height)); err != nil {
		return 0, err
	}

	raster := NewRaster(opts.Width, opts.Height)
	renderer := render.New(opts.Theme)
	anim := gif.GIF{LoopCount: 0}
	delay := 100 * opts.Every / opts.FPS
	if delay < 2 {
		delay = 2
	}

	frame := 0
	captured := false
	capture := func(snap sim.Snapshot) {
		renderer.Draw(raster, snap)
		anim.Image = append(anim.Image, paletted(raster.Image()))
		anim.Delay = append(anim.Delay, delay)
	}

	animator := sim.NewAnimator(s, func(snap sim.Snapshot) {
		captured = frame%opts.Every == 0
		if captured {
			capture(snap)
		}
		frame++
	}, nil)

	s.Reset()
	s.Start()
	_, err := sim.RunFixed(ctx, animator, time.Second/time.Duration(opts.FPS), opts.MaxFrames)
	if err != nil && !errors.Is(err, sim.ErrFrameLimit) {
		return 0, err
	}
	if !captured {
		capture(s.Snapshot())
	}
	if len(anim.Delay) > 0 {
		anim.Delay[len(anim.Delay)-1] = 200
	}

	if err := gif.EncodeAll(w, &anim); err != nil {
		return 0, fmt.Errorf("encode gif: %w", err)
	}
	return len(anim.Image), nil
}

func paletted(img image.Image) *image.Paletted {
	b := img.Bounds()
	p := image.NewPaletted(b, palette.Plan9)
	draw.Draw(p, b, img, b.Min, draw.Src)
	return p
}
