package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/freekieb7/httpd/config"
	"github.com/freekieb7/httpd/filesystem"
	"github.com/freekieb7/httpd/http"
	"github.com/freekieb7/httpd/routes"
	"github.com/freekieb7/httpd/telemetry"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalln(err)
	}
}

func run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if errors.Is(err, flag.ErrHelp) {
		config.Usage(os.Stderr)
		return nil
	}
	if err != nil {
		return err
	}

	providers, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: cfg.ServiceName,
		Enabled:     cfg.TelemetryEnabled(),
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			log.Println("telemetry shutdown:", err)
		}
	}()

	logger := providers.Logger(cfg.ServiceName)

	metrics, err := http.MetricsMiddleware(providers.MeterProvider)
	if err != nil {
		return err
	}

	router := http.NewRouter()
	router.Use(
		http.TracingMiddleware(providers.TracerProvider, providers.Propagator),
		metrics,
		http.LoggingMiddleware(logger),
		http.RecoverMiddleware(logger),
	)

	opts := routes.Options{Logger: logger}
	if cfg.FilesDir != "" {
		files, err := filesystem.OpenDir(cfg.FilesDir)
		if err != nil {
			return err
		}
		opts.Files = files
	}
	routes.Register(&router, opts)

	server := http.NewServer(router.Handler(),
		http.WithLogger(logger),
		http.WithReadBufferSize(cfg.ReadBufferSize),
		http.WithParseMode(cfg.ParseMode),
		http.WithTimeouts(cfg.ReadTimeout, cfg.WriteTimeout),
		http.WithBadRequestHandler(router.Wrap(http.BadRequestHandler)),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "parse_mode", cfg.ParseMode.String())
		serverErrCh <- server.ListenAndServe(cfg.Addr)
	}()

	select {
	case err := <-serverErrCh:
		return err
	case <-ctx.Done():
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if serveErr := <-serverErrCh; serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		err = errors.Join(err, serveErr)
	}
	logger.Info("server stopped")

	return err
}
