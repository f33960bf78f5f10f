// Package memstorage is an in-memory object store for local runs and tests
package memstorage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/UnendingLoop/ImageDerivatives/internal/model"
)

// Object - сохраненный объект
type Object struct {
	Data        []byte
	ContentType string
}

// Upload - запись о вызове Upload, в т.ч. неудачном
type Upload struct {
	Bucket string
	Key    string
	Size   int
	Opts   model.UploadOptions
}

type Storage struct {
	mu       sync.RWMutex
	baseURL  string
	objects  map[string]Object
	failures map[string]error
	uploads  []Upload
}

func New(baseURL string) *Storage {
	return &Storage{
		baseURL:  strings.TrimRight(baseURL, "/"),
		objects:  make(map[string]Object),
		failures: make(map[string]error),
	}
}

// FailKey makes every upload of bucket/key return err
func (s *Storage) FailKey(bucket, key string, err error) {
	if err == nil {
		err = errors.New("injected failure")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[objectID(bucket, key)] = err
}

func (s *Storage) Upload(ctx context.Context, bucket, key string, data []byte, opts model.UploadOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := objectID(bucket, key)
	s.uploads = append(s.uploads, Upload{Bucket: bucket, Key: key, Size: len(data), Opts: opts})

	if err, ok := s.failures[id]; ok {
		return err
	}
	if _, ok := s.objects[id]; ok && !opts.Upsert {
		return fmt.Errorf("%w: %s", model.ErrObjectExists, id)
	}

	s.objects[id] = Object{Data: bytes.Clone(data), ContentType: opts.ContentType}
	return nil
}

func (s *Storage) PublicURL(bucket, key string) string {
	return s.baseURL + "/" + objectID(bucket, key)
}

func (s *Storage) Object(bucket, key string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[objectID(bucket, key)]
	return obj, ok
}

// Uploads returns a copy of the upload journal
func (s *Storage) Uploads() []Upload {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Upload, len(s.uploads))
	copy(out, s.uploads)
	return out
}

func objectID(bucket, key string) string {
	return bucket + "/" + key
}
