package imageproc

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/UnendingLoop/ImageDerivatives/internal/model"
	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"
)

// imagingEngine is the pure-Go fallback. image/jpeg writes baseline only,
// so Progressive in DerivativeSpec is not honoured here.
type imagingEngine struct{}

func NewImagingEngine() Engine {
	return imagingEngine{}
}

func (imagingEngine) Generate(buf []byte) (model.Derivatives, error) {
	if len(buf) == 0 {
		return model.Derivatives{}, model.ErrEmptySource
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return model.Derivatives{}, fmt.Errorf("%w: %v", model.ErrDecode, err)
	}

	base, err := imaging.Decode(bytes.NewReader(buf), imaging.AutoOrientation(true))
	if err != nil {
		return model.Derivatives{}, fmt.Errorf("%w: %v", model.ErrDecode, err)
	}

	bounds := base.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return model.Derivatives{}, fmt.Errorf("%w: zero-dimension image", model.ErrDecode)
	}

	res := model.Derivatives{
		Metadata: model.SourceMetadata{Width: bounds.Dx(), Height: bounds.Dy(), Format: format},
	}

	base = flattenOnWhite(base)

	var g errgroup.Group
	g.Go(func() (err error) {
		defer recoverVariant(model.ThumbnailSpec, &err)
		res.Thumbnail, err = encodeImagingVariant(imaging.Clone(base), model.ThumbnailSpec)
		return err
	})
	g.Go(func() (err error) {
		defer recoverVariant(model.MediumSpec, &err)
		res.Medium, err = encodeImagingVariant(imaging.Clone(base), model.MediumSpec)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Derivatives{}, err
	}

	return res, nil
}

func encodeImagingVariant(img *image.NRGBA, spec model.DerivativeSpec) ([]byte, error) {
	var out image.Image = img

	srcW, srcH := img.Bounds().Dx(), img.Bounds().Dy()
	w, h := FitInside(srcW, srcH, spec.TargetWidth)
	if w != srcW {
		out = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(spec.Quality)); err != nil {
		return nil, fmt.Errorf("failed to encode %s derivative: %w", spec.Name, err)
	}
	return buf.Bytes(), nil
}

// JPEG has no alpha: transparent pixels would turn black without this
func flattenOnWhite(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}

	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
