package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnendingLoop/ImageDerivatives/internal/model"
	"golang.org/x/sync/errgroup"
)

func ThumbnailKey(basePath, filename string) string {
	return derivativeKey(basePath, model.ThumbnailSpec, filename)
}

func MediumKey(basePath, filename string) string {
	return derivativeKey(basePath, model.MediumSpec, filename)
}

// no path cleaning here: keys must stay byte-exact "{basePath}/{dir}/{filename}"
func derivativeKey(basePath string, spec model.DerivativeSpec, filename string) string {
	return basePath + "/" + spec.Name + "/" + filename
}

// StoreThumbnails uploads both derivatives concurrently with overwrite semantics and resolves their public URLs.
// URLs are returned only if both uploads succeeded.
func StoreThumbnails(ctx context.Context, client Client, bucket, basePath, filename string, thumb, medium []byte) (model.DerivativeURLs, error) {
	thumbKey := ThumbnailKey(basePath, filename)
	mediumKey := MediumKey(basePath, filename)

	// расширение filename не важно - оба файла всегда JPEG
	opts := model.UploadOptions{ContentType: model.ContentTypeJPEG, Upsert: true}

	var thumbErr, mediumErr error
	var g errgroup.Group
	g.Go(func() error {
		thumbErr = uploadDerivative(ctx, client, bucket, thumbKey, thumb, opts, model.ThumbnailSpec)
		return thumbErr
	})
	g.Go(func() error {
		mediumErr = uploadDerivative(ctx, client, bucket, mediumKey, medium, opts, model.MediumSpec)
		return mediumErr
	})
	if g.Wait() != nil {
		return model.DerivativeURLs{}, errors.Join(thumbErr, mediumErr)
	}

	return model.DerivativeURLs{
		ThumbnailURL: client.PublicURL(bucket, thumbKey),
		MediumURL:    client.PublicURL(bucket, mediumKey),
	}, nil
}

// uploadDerivative runs inside an errgroup goroutine, so a panicking client is turned into an error here
func uploadDerivative(ctx context.Context, client Client, bucket, key string, data []byte, opts model.UploadOptions, spec model.DerivativeSpec) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &model.UploadError{Derivative: spec.Label, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if err := client.Upload(ctx, bucket, key, data, opts); err != nil {
		return &model.UploadError{Derivative: spec.Label, Err: err}
	}
	return nil
}
