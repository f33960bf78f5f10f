// Package service provides business-logic for the app
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UnendingLoop/ImageDerivatives/internal/imageproc"
	"github.com/UnendingLoop/ImageDerivatives/internal/metrics"
	"github.com/UnendingLoop/ImageDerivatives/internal/model"
	"github.com/UnendingLoop/ImageDerivatives/internal/mwlogger"
	"github.com/UnendingLoop/ImageDerivatives/internal/source"
	"github.com/UnendingLoop/ImageDerivatives/internal/storage"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/UnendingLoop/ImageDerivatives/internal/service"

var (
	errPanic     = errors.New("panic recovered")
	errNilClient = errors.New("storage client is nil")
)

// ImageEngine - контракт для генерации превью
type ImageEngine interface {
	Generate(buf []byte) (model.Derivatives, error)
}

// EngineFunc adapts a plain function to ImageEngine
type EngineFunc func(buf []byte) (model.Derivatives, error)

func (f EngineFunc) Generate(buf []byte) (model.Derivatives, error) {
	return f(buf)
}

type DerivativeService struct {
	engine  ImageEngine
	metrics *metrics.Metrics
	tracer  trace.Tracer
	timeout time.Duration
}

type Option func(*DerivativeService)

func WithEngine(e ImageEngine) Option {
	return func(s *DerivativeService) { s.engine = e }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *DerivativeService) { s.metrics = m }
}

func WithTracer(t trace.Tracer) Option {
	return func(s *DerivativeService) { s.tracer = t }
}

// WithTimeout bounds a whole invocation; d <= 0 means no bound
func WithTimeout(d time.Duration) Option {
	return func(s *DerivativeService) { s.timeout = d }
}

func NewDerivativeService(opts ...Option) *DerivativeService {
	s := &DerivativeService{
		engine: EngineFunc(imageproc.GenerateDerivatives),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessAndStoreThumbnails generates and stores both derivatives of src.
// It never returns an error: any failure is logged once and reported as ok == false,
// so the caller can fall back to the original image.
func (s *DerivativeService) ProcessAndStoreThumbnails(ctx context.Context, src source.Source, client storage.Client, bucket, basePath, filename string) (urls model.DerivativeURLs, ok bool) {
	logger := mwlogger.LoggerFromContext(ctx)
	runID := uuid.NewString()

	defer func() {
		if r := recover(); r != nil {
			logFailure(logger, fmt.Errorf("%w: %v", errPanic, r), runID, bucket, basePath, filename)
			s.metrics.ObserveRun(false)
			urls, ok = model.DerivativeURLs{}, false
		}
	}()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	urls, err := s.run(ctx, src, client, bucket, basePath, filename)
	if err != nil {
		logFailure(logger, err, runID, bucket, basePath, filename)
		s.metrics.ObserveRun(false)
		return model.DerivativeURLs{}, false
	}

	s.metrics.ObserveRun(true)
	return urls, true
}

func (s *DerivativeService) run(ctx context.Context, src source.Source, client storage.Client, bucket, basePath, filename string) (model.DerivativeURLs, error) {
	if client == nil {
		return model.DerivativeURLs{}, errNilClient
	}

	attrs := trace.WithAttributes(
		attribute.String("bucket", bucket),
		attribute.String("basePath", basePath),
		attribute.String("filename", filename),
		attribute.String("source.kind", src.Kind()),
	)

	// 1. нормализуем вход в один буфер
	started := time.Now()
	buf, err := abandonOnDone(ctx, src.Bytes)
	s.metrics.ObserveStage(metrics.StageSource, started, err)
	if err != nil {
		return model.DerivativeURLs{}, fmt.Errorf("failed to read source: %w", err)
	}

	// 2. генерируем оба превью
	tctx, span := s.tracer.Start(ctx, "derivatives.transform", attrs)
	started = time.Now()
	res, err := abandonOnDone(tctx, func() (model.Derivatives, error) {
		return s.engine.Generate(buf)
	})
	s.metrics.ObserveStage(metrics.StageTransform, started, err)
	endSpan(span, err)
	if err != nil {
		return model.DerivativeURLs{}, err
	}
	s.metrics.AddOutputBytes(model.ThumbnailSpec.Name, len(res.Thumbnail))
	s.metrics.AddOutputBytes(model.MediumSpec.Name, len(res.Medium))

	// 3. заливаем в хранилище
	sctx, span := s.tracer.Start(ctx, "derivatives.store", attrs)
	started = time.Now()
	urls, err := storage.StoreThumbnails(sctx, client, bucket, basePath, filename, res.Thumbnail, res.Medium)
	s.metrics.ObserveStage(metrics.StageStore, started, err)
	endSpan(span, err)
	if err != nil {
		return model.DerivativeURLs{}, err
	}

	return urls, nil
}

// abandonOnDone runs fn in its own goroutine and stops waiting when ctx ends.
// fn itself is not interrupted, its result is dropped.
func abandonOnDone[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		val T
		err error
	}

	ch := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- result{err: fmt.Errorf("%w: %v", errPanic, r)}
			}
		}()
		val, err := fn()
		ch <- result{val: val, err: err}
	}()

	select {
	case res := <-ch:
		return res.val, res.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// единственная запись в лог на весь вызов
func logFailure(logger zlog.Zerolog, err error, runID, bucket, basePath, filename string) {
	logger.Error().Err(err).
		Str("run_id", runID).
		Str("bucket", bucket).
		Str("basePath", basePath).
		Str("filename", filename).
		Msg("Failed to process and store thumbnails")
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
