package memstorage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/UnendingLoop/ImageDerivatives/internal/model"
	"github.com/stretchr/testify/require"
)

func TestUpload(t *testing.T) {
	s := New("http://mem.local/")
	ctx := context.Background()

	require.NoError(t, s.Upload(ctx, "b", "k", []byte("one"), model.UploadOptions{ContentType: "image/jpeg"}))

	err := s.Upload(ctx, "b", "k", []byte("two"), model.UploadOptions{})
	require.ErrorIs(t, err, model.ErrObjectExists)

	require.NoError(t, s.Upload(ctx, "b", "k", []byte("three"), model.UploadOptions{ContentType: "image/jpeg", Upsert: true}))

	obj, ok := s.Object("b", "k")
	require.True(t, ok)
	require.Equal(t, []byte("three"), obj.Data)
	require.Equal(t, "image/jpeg", obj.ContentType)
	require.Len(t, s.Uploads(), 3)
	require.Equal(t, 5, s.Uploads()[2].Size)
	require.Equal(t, "http://mem.local/b/k", s.PublicURL("b", "k"))
}

func TestUpload_FailKey(t *testing.T) {
	s := New("")
	boom := errors.New("boom")
	s.FailKey("b", "bad", boom)

	err := s.Upload(context.Background(), "b", "bad", []byte("x"), model.UploadOptions{Upsert: true})
	require.ErrorIs(t, err, boom)

	_, ok := s.Object("b", "bad")
	require.False(t, ok)
}

func TestUpload_Canceled(t *testing.T) {
	s := New("")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Upload(ctx, "b", "k", []byte("x"), model.UploadOptions{Upsert: true})
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, s.Uploads())
}

func TestUpload_DataCopied(t *testing.T) {
	s := New("")
	data := []byte("abc")
	require.NoError(t, s.Upload(context.Background(), "b", "k", data, model.UploadOptions{Upsert: true}))
	data[0] = 'z'

	obj, _ := s.Object("b", "k")
	require.Equal(t, []byte("abc"), obj.Data)
}

func TestUpload_Concurrent(t *testing.T) {
	s := New("")
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Upload(context.Background(), "b", "k", []byte("x"), model.UploadOptions{Upsert: true})
		}()
	}
	wg.Wait()
	require.Len(t, s.Uploads(), 50)
}
