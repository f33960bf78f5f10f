//go:build cgo

package imageproc

import (
	"fmt"

	"github.com/UnendingLoop/ImageDerivatives/internal/model"
	"github.com/davidbyttow/govips/v2/vips"
	"golang.org/x/sync/errgroup"
)

type vipsEngine struct{}

func (vipsEngine) Generate(buf []byte) (model.Derivatives, error) {
	if len(buf) == 0 {
		return model.Derivatives{}, model.ErrEmptySource
	}

	base, err := vips.NewImageFromBuffer(buf)
	if err != nil {
		return model.Derivatives{}, fmt.Errorf("%w: %v", model.ErrDecode, err)
	}
	defer base.Close()

	// все дальнейшие операции видят уже правильно повернутую картинку
	if err := base.AutoRotate(); err != nil {
		return model.Derivatives{}, fmt.Errorf("failed to auto-rotate source image: %w", err)
	}

	if base.Width() <= 0 || base.Height() <= 0 {
		return model.Derivatives{}, fmt.Errorf("%w: zero-dimension image", model.ErrDecode)
	}

	res := model.Derivatives{
		Metadata: model.SourceMetadata{
			Width:  base.Width(),
			Height: base.Height(),
			Format: vipsFormatName(vips.DetermineImageType(buf)),
		},
	}

	if base.HasAlpha() {
		if err := base.Flatten(&vips.Color{R: 255, G: 255, B: 255}); err != nil {
			return model.Derivatives{}, fmt.Errorf("failed to flatten alpha channel: %w", err)
		}
	}

	thumb, err := base.Copy()
	if err != nil {
		return model.Derivatives{}, fmt.Errorf("failed to clone source for %s: %w", model.ThumbnailSpec.Name, err)
	}
	defer thumb.Close()

	medium, err := base.Copy()
	if err != nil {
		return model.Derivatives{}, fmt.Errorf("failed to clone source for %s: %w", model.MediumSpec.Name, err)
	}
	defer medium.Close()

	var g errgroup.Group
	g.Go(func() (err error) {
		defer recoverVariant(model.ThumbnailSpec, &err)
		res.Thumbnail, err = exportVipsVariant(thumb, model.ThumbnailSpec)
		return err
	})
	g.Go(func() (err error) {
		defer recoverVariant(model.MediumSpec, &err)
		res.Medium, err = exportVipsVariant(medium, model.MediumSpec)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Derivatives{}, err
	}

	return res, nil
}

func exportVipsVariant(img *vips.ImageRef, spec model.DerivativeSpec) ([]byte, error) {
	srcW, srcH := img.Width(), img.Height()
	w, h := FitInside(srcW, srcH, spec.TargetWidth)
	if w != srcW {
		hScale := float64(w) / float64(srcW)
		vScale := float64(h) / float64(srcH)
		if err := img.ResizeWithVScale(hScale, vScale, vips.KernelLanczos3); err != nil {
			return nil, fmt.Errorf("failed to resize %s derivative: %w", spec.Name, err)
		}
	}

	params := vips.NewJpegExportParams()
	params.Quality = spec.Quality
	params.Interlace = spec.Progressive
	params.StripMetadata = true

	data, _, err := img.ExportJpeg(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s derivative: %w", spec.Name, err)
	}
	return data, nil
}

func vipsFormatName(t vips.ImageType) string {
	if name, ok := vips.ImageTypes[t]; ok && name != "" {
		return name
	}
	return "unknown"
}
