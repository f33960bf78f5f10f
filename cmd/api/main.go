// Package main (in api-subfolder) provides launch of the derivative service
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnendingLoop/ImageDerivatives/internal/appconfig"
	"github.com/UnendingLoop/ImageDerivatives/internal/imageproc"
	"github.com/UnendingLoop/ImageDerivatives/internal/metrics"
	"github.com/UnendingLoop/ImageDerivatives/internal/mwlogger"
	"github.com/UnendingLoop/ImageDerivatives/internal/service"
	"github.com/UnendingLoop/ImageDerivatives/internal/telemetry"
	"github.com/UnendingLoop/ImageDerivatives/internal/transport"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"
	"go.opentelemetry.io/otel"
)

func main() {
	// инициализировать конфиг/ считать энвы
	rawConfig := config.New()
	rawConfig.EnableEnv("")
	if err := rawConfig.LoadEnvFiles("./.env"); err != nil {
		log.Printf("No .env loaded (%v), using process env only", err)
	}
	appConfig, err := appconfig.FromEnv(rawConfig)
	if err != nil {
		log.Fatalf("Invalid config: %v\nExiting app...", err)
	}

	// стартуем логгер
	zlog.InitConsole()
	if err := zlog.SetLevel(appConfig.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// готовим заранее слушатель прерываний - контекст для всего приложения
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// рантайм обработки картинок
	engine, err := imageproc.NewEngine()
	if err != nil {
		log.Fatalf("Failed to start image engine: %v", err)
	}
	defer imageproc.Shutdown()

	// трейсинг
	shutdownTracing, err := telemetry.SetupTracing(ctx, appConfig.Tracing, zlog.Logger)
	if err != nil {
		log.Fatalf("Failed to setup tracing: %v", err)
	}

	// подключиться к хранилищу
	strg, err := newStorageClient(ctx, appConfig)
	if err != nil {
		log.Fatalf("Failed to init storage: %v", err)
	}

	// создаем экземпляр сервиса
	m := metrics.New()
	var svc DerivativeAPIService = service.NewDerivativeService(
		service.WithEngine(engine),
		service.WithMetrics(m),
		service.WithTracer(otel.Tracer(appConfig.Tracing.ServiceName)),
		service.WithTimeout(appConfig.DerivativeTimeout),
	)
	// cоздаем экземпляр хендлера HTTP
	handlers := transport.NewDerivativeHandler(svc, strg, appConfig.Minio.Bucket, m.Handler())
	// сетапим сервер
	router := ginext.New(appConfig.GinMode)

	router.GET("/ping", handlers.SimplePinger)
	router.POST("/derivatives", handlers.Create) // генерация превью
	router.GET("/metrics", handlers.Metrics)

	srv := &http.Server{
		Addr:    ":" + appConfig.Port,
		Handler: mwlogger.NewMWLogger(router),
	}

	// Server launch
	go func() {
		log.Printf("Server running on http://localhost%s\n", srv.Addr)
		err := srv.ListenAndServe()
		if err != nil {
			switch {
			case errors.Is(err, http.ErrServerClosed):
				log.Println("Server gracefully stopping...")
			default:
				log.Printf("Server stopped: %v", err)
				stop()
			}
		}
	}()

	// ждем отмены контекста для запуска грейсфул закрытия
	<-ctx.Done()

	shutdown(srv, shutdownTracing)
	log.Println("Exiting app...")
}

func shutdown(srv *http.Server, shutdownTracing func(context.Context) error) {
	log.Println("Interrupt received!!! Starting shutdown sequence...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Println("Failed to shutdown HTTP-server correctly:", err)
	}
	log.Println("HTTP-server stopped.")

	if err := shutdownTracing(ctx); err != nil {
		log.Println("Failed to flush traces:", err)
	}
}
