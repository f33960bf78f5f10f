package transport

import (
	"errors"
	"io"
	"log"
	"os"
	"sync"

	"github.com/UnendingLoop/ImageDerivatives/internal/model"
)

func errorCodeDefiner(err error) int {
	switch {
	case errors.Is(err, model.ErrEmptyBasePath),
		errors.Is(err, model.ErrEmptyImage),
		errors.Is(err, model.ErrBadFilename):
		return 400
	default:
		return 500
	}
}

func closeFileFlow(res io.ReadCloser) {
	if res == nil {
		return
	}
	if err := res.Close(); err != nil {
		log.Println("Handler failed to close fileflow:", err)
	}
}

// guardedFile serializes Read and Close on the uploaded part. After a timeout the service stops
// waiting, but its reader goroutine may still be inside Read when the handler's deferred Close runs.
type guardedFile struct {
	mu     sync.Mutex
	rc     io.ReadCloser
	closed bool
}

func guardFile(rc io.ReadCloser) *guardedFile {
	return &guardedFile{rc: rc}
}

func (f *guardedFile) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, os.ErrClosed
	}
	return f.rc.Read(p)
}

// Close ждет завершения текущего Read
func (f *guardedFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	return f.rc.Close()
}
