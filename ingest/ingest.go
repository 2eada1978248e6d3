// Package ingest turns uploaded files into self-contained data URLs: images
// are downscaled and re-encoded as JPEG, attachments are embedded as-is.
package ingest

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxWidth = 1000
	DefaultQuality  = 70
	// DefaultMaxPixels caps width*height of an accepted image (40 MP).
	DefaultMaxPixels = 40_000_000
)

var (
	// ErrDecode matches every *DecodeError.
	ErrDecode = errors.New("ingest: cannot decode image")
	// ErrTooManyPixels is wrapped in the *DecodeError of an image whose
	// header declares more than MaxPixels.
	ErrTooManyPixels = errors.New("ingest: image dimensions too large")
)

// DecodeError reports a file that is not a readable image.
type DecodeError struct {
	Name string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("ingest: decode %q: %v", e.Name, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// Image is one ingested picture.
type Image struct {
	Name    string
	Width   int
	Height  int
	DataURL string
}

// Pipeline holds the resize and compression settings.
type Pipeline struct {
	MaxWidth int
	// Quality is the JPEG quality, 1-100.
	Quality int
	// MaxPixels bounds width*height, checked from the header before decoding.
	MaxPixels int64
}

// NewPipeline returns a Pipeline, substituting defaults for zero values.
func NewPipeline(maxWidth, quality int) *Pipeline {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Pipeline{MaxWidth: maxWidth, Quality: quality, MaxPixels: DefaultMaxPixels}
}

// Image decodes src, scales it down to MaxWidth when wider, and re-encodes it
// as a JPEG data URL. Narrower images keep their size.
func (p *Pipeline) Image(ctx context.Context, name string, src io.Reader) (Image, error) {
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}
	// The header is read through a tee so the full decode sees every byte.
	var head bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(src, &head))
	if err != nil {
		return Image{}, &DecodeError{Name: name, Err: err}
	}
	if limit := p.maxPixels(); int64(cfg.Width)*int64(cfg.Height) > limit {
		return Image{}, &DecodeError{
			Name: name,
			Err:  fmt.Errorf("%w: %dx%d over %d pixels", ErrTooManyPixels, cfg.Width, cfg.Height, limit),
		}
	}
	img, _, err := image.Decode(io.MultiReader(&head, src))
	if err != nil {
		return Image{}, &DecodeError{Name: name, Err: err}
	}

	img = p.fit(img)
	bounds := img.Bounds()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.Quality}); err != nil {
		return Image{}, fmt.Errorf("ingest: encode jpeg %q: %w", name, err)
	}

	return Image{
		Name:    name,
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		DataURL: DataURL("image/jpeg", buf.Bytes()),
	}, nil
}

func (p *Pipeline) maxPixels() int64 {
	if p.MaxPixels <= 0 {
		return DefaultMaxPixels
	}
	return p.MaxPixels
}

func (p *Pipeline) fit(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= p.MaxWidth {
		return img
	}
	newH := h * p.MaxWidth / w
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, p.MaxWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// File is one upload waiting for ingestion.
type File struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// Result is the outcome for one File. Exactly one of Image and Err is set.
type Result struct {
	Image Image
	Err   error
}

// Images ingests files one after another and returns a result per file in
// the same order. A failing file does not stop the others; a cancelled
// context marks every file not yet started with the context error.
func (p *Pipeline) Images(ctx context.Context, files []File) []Result {
	results := make([]Result, len(files))
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(files); j++ {
				results[j].Err = err
			}
			break
		}
		results[i] = p.file(ctx, f)
	}
	return results
}

func (p *Pipeline) file(ctx context.Context, f File) Result {
	rc, err := f.Open()
	if err != nil {
		return Result{Err: fmt.Errorf("ingest: open %q: %w", f.Name, err)}
	}
	defer rc.Close()
	img, err := p.Image(ctx, f.Name, rc)
	if err != nil {
		return Result{Err: err}
	}
	return Result{Image: img}
}

// DataURL builds a base64 data URL for payload.
func DataURL(mime string, payload []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(payload)
}
