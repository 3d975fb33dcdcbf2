package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/weblarek/storefront/internal/config"
	"github.com/weblarek/storefront/internal/middleware"
)

const gracefulShutdownTimeout = 5 * time.Second

type application struct {
	logger *slog.Logger

	router  chi.Router
	httpSrv *http.Server
	closers []io.Closer
}

func New(logger *slog.Logger, cfg config.Config) *application {
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics)
	router.Use(chimw.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Cors.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	}))

	router.Handle("/metrics", promhttp.Handler())

	httpSrv := &http.Server{
		Handler: router,
		Addr:    net.JoinHostPort(cfg.Http.Host, cfg.Http.Port),
	}

	return &application{
		logger:  logger,
		httpSrv: httpSrv,
		router:  router,
	}
}

type HTTPHandler interface {
	Init(r chi.Router)
}

func (a *application) SetHTTPHandlers(handlers ...HTTPHandler) {
	for _, h := range handlers {
		h.Init(a.router)
	}
}

// SetClosers registers resources closed on shutdown, after the HTTP
// server has drained.
func (a *application) SetClosers(closers ...io.Closer) {
	a.closers = append(a.closers, closers...)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *application) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("starting http server", slog.String("addr", a.httpSrv.Addr))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("failed to shutdown http server", slog.Any("error", err))
		}

		for _, c := range a.closers {
			if err := c.Close(); err != nil {
				a.logger.Error("failed to close resource", slog.Any("error", err))
			}
		}
		return nil
	})

	err := g.Wait()
	a.logger.Info("application stopped")
	return err
}
