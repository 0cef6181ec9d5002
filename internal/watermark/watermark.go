// Package watermark stamps a rotated, translucent label across product images.
package watermark

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"

	"github.com/Skotchmaster/inventory/internal/uploads"
	"github.com/Skotchmaster/inventory/pkg/logging"
)

const (
	DefaultLabel = "UNAVAILABLE"
	DefaultAngle = 25.0
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

var labelColor = color.NRGBA{R: 180, G: 0, B: 0, A: 90}

type Watermarker struct {
	Label string
	// Angle is the counter-clockwise rotation in degrees.
	Angle float64
	Fonts []FontCandidate
}

func New(label string, fonts []FontCandidate) *Watermarker {
	if label == "" {
		label = DefaultLabel
	}
	return &Watermarker{Label: label, Angle: DefaultAngle, Fonts: fonts}
}

// Apply overwrites the image at path with a watermarked copy.
func (w *Watermarker) Apply(ctx context.Context, path string) error {
	l := logging.FromContext(ctx).With("component", "watermark", "file", filepath.Base(path))

	enc, err := encoderFor(path)
	if err != nil {
		return err
	}

	src, err := decodeFile(path)
	if err != nil {
		return err
	}

	out, err := w.Render(src)
	if err != nil {
		return err
	}

	if err := uploads.WriteFileAtomic(path, func(wr io.Writer) error { return enc(wr, out) }); err != nil {
		return fmt.Errorf("write watermarked image: %w", err)
	}

	l.Debugw("watermark_applied", "width", out.Bounds().Dx(), "height", out.Bounds().Dy())
	return nil
}

// Render returns src with the label composited over it, flattened onto white.
// A missing font is an error even when the image is too narrow for any text.
func (w *Watermarker) Render(src image.Image) (*image.RGBA, error) {
	f, err := loadFont(w.Fonts)
	if err != nil {
		return nil, err
	}

	b := src.Bounds()
	base := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(base, base.Bounds(), src, b.Min, draw.Src)

	if size := float64(b.Dx() / 10); size > 0 {
		layer, err := w.textLayer(f, base.Bounds(), size)
		if err != nil {
			return nil, err
		}
		rotated := Rotate(layer, w.Angle)
		rb := rotated.Bounds()
		offset := image.Pt((rb.Dx()-b.Dx())/2, (rb.Dy()-b.Dy())/2)
		draw.Draw(base, base.Bounds(), rotated, offset, draw.Over)
	}

	flat := image.NewRGBA(base.Bounds())
	draw.Draw(flat, flat.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), base, image.Point{}, draw.Over)
	return flat, nil
}

func (w *Watermarker) textLayer(f *opentype.Font, bounds image.Rectangle, size float64) (*image.RGBA, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	defer face.Close()

	layer := image.NewRGBA(bounds)
	d := &font.Drawer{Dst: layer, Src: image.NewUniform(labelColor), Face: face}

	tb, _ := d.BoundString(w.Label)
	textW := (tb.Max.X - tb.Min.X).Ceil()
	textH := (tb.Max.Y - tb.Min.Y).Ceil()
	x := (bounds.Dx()-textW)/2 - tb.Min.X.Floor()
	y := (bounds.Dy()-textH)/2 - tb.Min.Y.Floor()
	d.Dot = fixed.P(x, y)
	d.DrawString(w.Label)
	return layer, nil
}

// Rotate turns src counter-clockwise by deg degrees onto a canvas grown to fit the result.
func Rotate(src image.Image, deg float64) *image.RGBA {
	sb := src.Bounds()
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)

	w, h := float64(sb.Dx()), float64(sb.Dy())
	dw := int(math.Ceil(math.Abs(w*cos) + math.Abs(h*sin)))
	dh := int(math.Ceil(math.Abs(w*sin) + math.Abs(h*cos)))
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))

	cx, cy := float64(sb.Min.X)+w/2, float64(sb.Min.Y)+h/2
	dcx, dcy := float64(dw)/2, float64(dh)/2

	// y grows downwards, so a visually counter-clockwise turn is this matrix
	s2d := f64.Aff3{
		cos, sin, dcx - (cos*cx + sin*cy),
		-sin, cos, dcy - (-sin*cx + cos*cy),
	}
	draw.BiLinear.Transform(dst, s2d, src, sb, draw.Over, nil)
	return dst
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

type encodeFunc func(io.Writer, image.Image) error

func encoderFor(path string) (encodeFunc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Encode, nil
	case ".gif":
		return func(w io.Writer, img image.Image) error { return gif.Encode(w, img, nil) }, nil
	case ".bmp":
		return bmp.Encode, nil
	case ".jpg", ".jpeg", ".jpe", ".jfif":
		return func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}
