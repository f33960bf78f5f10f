// Package transport provides methods for processing requests from endpoints
package transport

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/UnendingLoop/ImageDerivatives/internal/model"
	"github.com/UnendingLoop/ImageDerivatives/internal/source"
	"github.com/UnendingLoop/ImageDerivatives/internal/storage"
	"github.com/wb-go/wbf/ginext"
)

type DerivativeHandler struct {
	service DerivativeService
	client  storage.Client
	bucket  string
	metrics http.Handler
}

type DerivativeService interface {
	ProcessAndStoreThumbnails(ctx context.Context, src source.Source, client storage.Client, bucket, basePath, filename string) (model.DerivativeURLs, bool)
}

func NewDerivativeHandler(svc DerivativeService, client storage.Client, bucket string, metrics http.Handler) *DerivativeHandler {
	if metrics == nil {
		metrics = http.NotFoundHandler()
	}
	return &DerivativeHandler{
		service: svc,
		client:  client,
		bucket:  bucket,
		metrics: metrics,
	}
}

func (h DerivativeHandler) SimplePinger(ctx *ginext.Context) {
	ctx.JSON(200, map[string]string{"message": "pong"})
}

func (h DerivativeHandler) Create(ctx *ginext.Context) {
	basePath := ctx.PostForm("base_path")
	filename := ctx.PostForm("filename")

	// парсинг исходника
	rawFile, imageHeader, err := ctx.Request.FormFile("image")
	if err != nil {
		ctx.JSON(400, map[string]string{"error": model.ErrEmptyImage.Error()})
		return
	}
	imageFile := guardFile(rawFile)
	defer closeFileFlow(imageFile)

	if filename == "" {
		filename = filepath.Base(imageHeader.Filename)
	}

	basePath, filename, err = validateDerivativeTarget(basePath, filename)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	// файл отдаем потоком - сервис сам соберет его в буфер
	urls, ok := h.service.ProcessAndStoreThumbnails(ctx.Request.Context(), source.FromReader(imageFile), h.client, h.bucket, basePath, filename)
	if !ok {
		// клиент должен показать оригинал
		ctx.JSON(200, model.DerivativeResponse{Generated: false})
		return
	}

	ctx.JSON(201, model.DerivativeResponse{
		Generated:    true,
		ThumbnailURL: urls.ThumbnailURL,
		MediumURL:    urls.MediumURL,
	})
}

func (h DerivativeHandler) Metrics(ctx *ginext.Context) {
	h.metrics.ServeHTTP(ctx.Writer, ctx.Request)
}

// validateDerivativeTarget trims surrounding spaces only, everything else goes to the key as is
func validateDerivativeTarget(basePath, filename string) (string, string, error) {
	basePath = strings.TrimSpace(basePath)
	filename = strings.TrimSpace(filename)

	if basePath == "" {
		return "", "", model.ErrEmptyBasePath
	}
	// filename - один сегмент ключа
	if filename == "" || filename == "." || filename == ".." || strings.ContainsAny(filename, `/\`) {
		return "", "", model.ErrBadFilename
	}

	return basePath, filename, nil
}
