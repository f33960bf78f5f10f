package storage

import (
	"context"

	"github.com/UnendingLoop/ImageDerivatives/internal/model"
)

// MOCK CLIENT

type mockClient struct {
	uploadFn    func(ctx context.Context, bucket, key string, data []byte, opts model.UploadOptions) error
	publicURLFn func(bucket, key string) string
}

func (m *mockClient) Upload(ctx context.Context, bucket, key string, data []byte, opts model.UploadOptions) error {
	return m.uploadFn(ctx, bucket, key, data, opts)
}

func (m *mockClient) PublicURL(bucket, key string) string {
	return m.publicURLFn(bucket, key)
}
