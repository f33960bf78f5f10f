// Package miniostorage provides structure to work with minio-storage
package miniostorage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/UnendingLoop/ImageDerivatives/internal/model"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/retry"
)

// Config - параметры подключения к MinIO
type Config struct {
	Endpoint string
	User     string
	Pass     string
	UseSSL   bool
	Bucket   string
	// PublicBaseURL overrides the endpoint in returned URLs (CDN, reverse proxy)
	PublicBaseURL string
}

type MinioStorage struct {
	client     *minio.Client
	publicBase string
}

func NewMinioClient(cfg Config) (*MinioStorage, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("minio endpoint is empty")
	}

	// подключаемся к минио - создаем клиента
	strg, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.User, cfg.Pass, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	publicBase := cfg.PublicBaseURL
	if publicBase == "" {
		publicBase = strg.EndpointURL().String()
	}

	return &MinioStorage{client: strg, publicBase: strings.TrimRight(publicBase, "/")}, nil
}

// EnsureBucket создает бакет если его нет
func (s *MinioStorage) EnsureBucket(ctx context.Context, bucket string) error {
	if bucket == "" {
		bucket = "default"
		log.Printf("Bucket name is empty. Using default value %q...", bucket)
	}

	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	return s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
}

func (s *MinioStorage) Upload(ctx context.Context, bucket, key string, data []byte, opts model.UploadOptions) error {
	if !opts.Upsert {
		exists, err := s.objectExists(ctx, bucket, key)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s/%s", model.ErrObjectExists, bucket, key)
		}
	}

	if _, err := s.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: opts.ContentType,
	}); err != nil {
		return err
	}

	return nil
}

// PublicURL builds a path-style URL. It never checks that the object exists.
func (s *MinioStorage) PublicURL(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.publicBase + "/" + url.PathEscape(bucket) + "/" + strings.Join(segments, "/")
}

func (s *MinioStorage) objectExists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}
	return false, err
}

// ConnectWithRetries opens MinIO at startup. Only process bootstrap retries, the pipeline never does.
func ConnectWithRetries(ctx context.Context, cfg Config, strategy retry.Strategy) (*MinioStorage, error) {
	attempts := max(strategy.Attempts, 1)
	delay := strategy.Delay
	var lastErr error

	for i := range attempts {
		log.Printf("Connecting to IMG-storage (try #%d)...", i+1)
		client, err := NewMinioClient(cfg)
		if err == nil {
			err = client.EnsureBucket(ctx, cfg.Bucket)
		}
		if err == nil {
			log.Println("Successfully connected IMG-storage!")
			return client, nil
		}
		lastErr = err

		if i == attempts-1 {
			break
		}
		log.Printf("Failed to init connection to IMG-storage: %v\nNext retry in %v...", err, delay)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		if strategy.Backoff > 1 {
			delay = time.Duration(float64(delay) * strategy.Backoff)
		}
	}

	return nil, fmt.Errorf("failed to connect to IMG-storage after %d tries: %w", attempts, lastErr)
}
