package synthetic

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"time"

	"github.com/rs/zerolog"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"fittingroom/internal/fitting"
	"fittingroom/internal/imagefile"
)

const (
	panelWidth  = 384
	panelHeight = 512
	gutter      = 16
)

var background = color.RGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}

// Collage is an offline stand-in for the remote generator: it lays the three
// inputs side by side in a single PNG.
type Collage struct {
	delay  time.Duration
	logger zerolog.Logger
}

// NewCollage returns a Collage that waits delay before answering so the
// loading state is visible during local runs.
func NewCollage(delay time.Duration, logger zerolog.Logger) *Collage {
	return &Collage{
		delay:  delay,
		logger: logger.With().Str("component", "synthetic").Logger(),
	}
}

func (c *Collage) Generate(ctx context.Context, model, top, bottom imagefile.ImageFile) (string, error) {
	inputs := []imagefile.ImageFile{model, top, bottom}
	decoded := make([]image.Image, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if in.IsZero() {
				return fitting.ErrIncomplete
			}
			data, err := in.Bytes()
			if err != nil {
				return fmt.Errorf("synthetic: decode %s payload: %w", fitting.Slots[i], err)
			}
			if err := gctx.Err(); err != nil {
				return err
			}
			img, _, err := image.Decode(bytes.NewReader(data))
			if err != nil {
				return fmt.Errorf("synthetic: decode %s image: %w", fitting.Slots[i], err)
			}
			decoded[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	canvas := image.NewRGBA(image.Rect(0, 0, len(decoded)*panelWidth+(len(decoded)+1)*gutter, panelHeight+2*gutter))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)
	for i, img := range decoded {
		panel := image.Rect(0, 0, panelWidth, panelHeight).Add(image.Pt(gutter+i*(panelWidth+gutter), gutter))
		xdraw.CatmullRom.Scale(canvas, fitRect(img.Bounds(), panel), img, img.Bounds(), draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return "", fmt.Errorf("synthetic: encode collage: %w", err)
	}

	select {
	case <-time.After(c.delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	c.logger.Debug().Int("bytes", buf.Len()).Msg("synthetic: collage generated")
	return imagefile.New(buf.Bytes(), imagefile.TypePNG).DataURL(), nil
}

// fitRect scales src to fit inside dst, preserving aspect ratio, centered.
func fitRect(src, dst image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	dw, dh := dst.Dx(), dst.Dy()
	if sw <= 0 || sh <= 0 {
		return image.Rectangle{Min: dst.Min, Max: dst.Min}
	}
	w, h := dw, sh*dw/sw
	if h > dh {
		w, h = sw*dh/sh, dh
	}
	origin := dst.Min.Add(image.Pt((dw-w)/2, (dh-h)/2))
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(w, h))}
}

var _ fitting.Generator = (*Collage)(nil)
