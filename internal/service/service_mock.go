package service

import (
	"context"

	"github.com/UnendingLoop/ImageDerivatives/internal/model"
)

// MOCK ENGINE

type mockEngine struct {
	generateFn func(buf []byte) (model.Derivatives, error)
}

func (m *mockEngine) Generate(buf []byte) (model.Derivatives, error) {
	return m.generateFn(buf)
}

// MOCK STORAGE

type mockStorage struct {
	uploadFn    func(ctx context.Context, bucket, key string, data []byte, opts model.UploadOptions) error
	publicURLFn func(bucket, key string) string
}

func (m *mockStorage) Upload(ctx context.Context, bucket, key string, data []byte, opts model.UploadOptions) error {
	return m.uploadFn(ctx, bucket, key, data, opts)
}

func (m *mockStorage) PublicURL(bucket, key string) string {
	return m.publicURLFn(bucket, key)
}
