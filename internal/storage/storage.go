// Package storage provides the object-storage contract used for derivatives
package storage

import (
	"context"

	"github.com/UnendingLoop/ImageDerivatives/internal/model"
)

// Client - контракт для работы с хранилищем
type Client interface {
	Upload(ctx context.Context, bucket, key string, data []byte, opts model.UploadOptions) error
	PublicURL(bucket, key string) string
}
