package main

import (
	"context"
	"log"

	"github.com/UnendingLoop/ImageDerivatives/internal/appconfig"
	"github.com/UnendingLoop/ImageDerivatives/internal/model"
	"github.com/UnendingLoop/ImageDerivatives/internal/source"
	"github.com/UnendingLoop/ImageDerivatives/internal/storage"
	"github.com/UnendingLoop/ImageDerivatives/internal/storage/memstorage"
	"github.com/UnendingLoop/ImageDerivatives/internal/storage/miniostorage"
)

type DerivativeAPIService interface {
	ProcessAndStoreThumbnails(ctx context.Context, src source.Source, client storage.Client, bucket, basePath, filename string) (model.DerivativeURLs, bool)
}

func newStorageClient(ctx context.Context, cfg appconfig.Config) (storage.Client, error) {
	if cfg.StorageBackend == appconfig.BackendMemory {
		log.Println("Using in-memory storage: derivatives are lost on restart")
		return memstorage.New(cfg.Minio.PublicBaseURL), nil
	}
	client, err := miniostorage.ConnectWithRetries(ctx, cfg.Minio, cfg.Connect)
	if err != nil {
		return nil, err
	}
	return client, nil
}
