package transport

import (
	"context"

	"github.com/UnendingLoop/ImageDerivatives/internal/model"
	"github.com/UnendingLoop/ImageDerivatives/internal/source"
	"github.com/UnendingLoop/ImageDerivatives/internal/storage"
)

type mockDerivativeService struct {
	processFn func(ctx context.Context, src source.Source, client storage.Client, bucket, basePath, filename string) (model.DerivativeURLs, bool)
}

func (m *mockDerivativeService) ProcessAndStoreThumbnails(ctx context.Context, src source.Source, client storage.Client, bucket, basePath, filename string) (model.DerivativeURLs, bool) {
	return m.processFn(ctx, src, client, bucket, basePath, filename)
}
